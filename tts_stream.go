package sdk

import (
	"context"
	"encoding/base64"
	"encoding/json"
)

// AudioChunk is one decoded frame of a speech stream. Frames arrive in index
// order for a single stream; the reader does not reorder.
type AudioChunk struct {
	Index    int
	Total    int
	Audio    []byte
	MimeType string
}

// SpeechStream yields decoded audio chunks from a streaming TTS response.
type SpeechStream struct {
	stream *sseStream
}

func newSpeechStream(stream *sseStream) *SpeechStream {
	return &SpeechStream{stream: stream}
}

// audioChunkPayload is the wire shape of a chunk event; audio is base64.
type audioChunkPayload struct {
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	Audio    string `json:"audio"`
	MimeType string `json:"mimeType"`
}

// Next advances the stream, returning ok=false when the stream is complete.
// Only chunk events produce frames: info and done events are consumed
// silently, error events are terminal, and anything malformed is logged and
// skipped.
func (s *SpeechStream) Next() (AudioChunk, bool, error) {
	for {
		ev, ok, err := s.stream.next()
		if err != nil || !ok {
			return AudioChunk{}, ok, err
		}
		switch ev.name {
		case "chunk":
			var payload audioChunkPayload
			if err := json.Unmarshal(ev.data, &payload); err != nil {
				s.stream.logSkippedPayload(ev.name, ev.data)
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(payload.Audio)
			if err != nil {
				s.stream.logSkippedPayload(ev.name, ev.data)
				continue
			}
			mime := payload.MimeType
			if mime == "" {
				mime = "audio/wav"
			}
			return AudioChunk{
				Index:    payload.Index,
				Total:    payload.Total,
				Audio:    audio,
				MimeType: mime,
			}, true, nil
		case "error":
			//nolint:errcheck // terminal path, release is best-effort
			_ = s.stream.Close()
			return AudioChunk{}, false, streamErrorFromPayload(ev.data)
		case "info", "done":
			continue
		default:
			continue
		}
	}
}

// Collect drains the stream and returns the concatenated audio bytes. It
// respects context cancellation and closes the stream when the call returns.
func (s *SpeechStream) Collect(ctx context.Context) ([]byte, error) {
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = s.Close() }()

	var audio []byte
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		chunk, ok, err := s.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		audio = append(audio, chunk.Audio...)
	}
	return audio, nil
}

// Close terminates the underlying stream. Safe to call more than once.
func (s *SpeechStream) Close() error {
	return s.stream.Close()
}
