package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// TTSClient proxies text-to-speech through the main app.
type TTSClient struct {
	client *Client
}

// SpeakOptions tune speech generation. Zero values defer to the provider.
type SpeakOptions struct {
	Voice             string
	Model             string
	Speed             *float64
	Provider          string
	Language          string
	NumInferenceSteps int
}

// TTSProvider describes one available text-to-speech provider.
type TTSProvider struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Voices []string `json:"voices"`
}

func newSpeakPayload(text string, opts *SpeakOptions) map[string]any {
	payload := map[string]any{"text": text}
	if opts == nil {
		return payload
	}
	if opts.Voice != "" {
		payload["voice"] = opts.Voice
	}
	if opts.Model != "" {
		payload["model"] = opts.Model
	}
	if opts.Speed != nil {
		payload["speed"] = *opts.Speed
	}
	if opts.Provider != "" {
		payload["provider"] = opts.Provider
	}
	if opts.Language != "" {
		payload["language"] = opts.Language
	}
	if opts.NumInferenceSteps > 0 {
		payload["num_inference_steps"] = opts.NumInferenceSteps
	}
	return payload
}

// Speak generates speech and returns the full audio body. A 2xx response is
// raw audio bytes; errors still arrive as JSON envelopes and take the usual
// permission-negotiation path.
func (c *TTSClient) Speak(ctx context.Context, text string, opts *SpeakOptions) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	return c.client.do(ctx, apiRequest{
		method:  http.MethodPost,
		path:    routes.TTS,
		payload: newSpeakPayload(text, opts),
		accept:  "*/*",
	})
}

// SpeakStream generates speech as a stream of decoded audio chunks. The
// caller must drain or Close the returned stream.
func (c *TTSClient) SpeakStream(ctx context.Context, text string, opts *SpeakOptions) (*SpeechStream, error) {
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}
	resp, err := c.client.openStream(ctx, apiRequest{
		method:  http.MethodPost,
		path:    routes.TTSStream,
		payload: newSpeakPayload(text, opts),
	})
	if err != nil {
		return nil, err
	}
	return newSpeechStream(newSSEStream(ctx, resp.Body, c.client.telemetry)), nil
}

// Providers lists available text-to-speech providers.
func (c *TTSClient) Providers(ctx context.Context) ([]TTSProvider, error) {
	var payload struct {
		Providers []TTSProvider `json:"providers"`
	}
	err := c.client.doJSON(ctx, apiRequest{
		method: http.MethodGet,
		path:   routes.TTSProviders,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Providers, nil
}
