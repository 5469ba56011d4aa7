package sdk

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
)

// ChatStream wraps a streaming chat completion and yields normalized text
// deltas while preserving access to the raw SSE payloads.
type ChatStream struct {
	stream *sseStream
}

// ChatStreamChunk is one decoded text-delta frame.
type ChatStreamChunk struct {
	Text  string
	UUID  string
	Close bool
	Raw   []byte
}

func newChatStream(stream *sseStream) *ChatStream {
	return &ChatStream{stream: stream}
}

// Next advances the stream, returning ok=false when the stream is complete.
// Calls are pull-based: no internal buffering beyond the current SSE line,
// so slow consumers backpressure the server naturally.
//
// Malformed payloads are logged and skipped, never fatal: one corrupt line
// must not sink an otherwise-healthy stream. Error-tagged events and legacy
// in-payload error flags are terminal StreamErrors.
func (s *ChatStream) Next() (ChatStreamChunk, bool, error) {
	for {
		ev, ok, err := s.stream.next()
		if err != nil || !ok {
			return ChatStreamChunk{}, ok, err
		}
		if ev.name == "error" {
			//nolint:errcheck // terminal path, release is best-effort
			_ = s.stream.Close()
			return ChatStreamChunk{}, false, streamErrorFromPayload(ev.data)
		}
		if !gjson.ValidBytes(ev.data) {
			s.stream.logSkippedPayload(ev.name, ev.data)
			continue
		}
		payload := gjson.ParseBytes(ev.data)
		if legacyStreamError(payload) {
			//nolint:errcheck // terminal path, release is best-effort
			_ = s.stream.Close()
			return ChatStreamChunk{}, false, StreamError{
				Code:    codeStreamError,
				Message: legacyStreamErrorMessage(payload),
			}
		}
		return ChatStreamChunk{
			Text:  payload.Get("textResponse").String(),
			UUID:  payload.Get("uuid").String(),
			Close: payload.Get("close").Bool(),
			Raw:   ev.data,
		}, true, nil
	}
}

// Collect drains the stream into the concatenated response text. It respects
// context cancellation and closes the stream when the call returns.
func (s *ChatStream) Collect(ctx context.Context) (string, error) {
	//nolint:errcheck // best-effort cleanup on return
	defer func() { _ = s.Close() }()

	var builder strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}
		chunk, ok, err := s.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			break
		}
		builder.WriteString(chunk.Text)
	}
	return builder.String(), nil
}

// Close terminates the underlying stream. Safe to call more than once.
func (s *ChatStream) Close() error {
	return s.stream.Close()
}

// streamErrorFromPayload builds the terminal error for an error-tagged SSE
// event. The payload is server-shaped but loose; unparseable payloads still
// surface as StreamError with the raw text.
func streamErrorFromPayload(data []byte) StreamError {
	if !gjson.ValidBytes(data) {
		return StreamError{Code: codeStreamError, Message: strings.TrimSpace(string(data))}
	}
	payload := gjson.ParseBytes(data)
	code := payload.Get("code").String()
	if code == "" {
		code = codeStreamError
	}
	msg := payload.Get("error").String()
	if msg == "" {
		msg = payload.Get("message").String()
	}
	if msg == "" {
		msg = "stream error"
	}
	return StreamError{Code: code, Message: msg}
}

// legacyStreamError detects the older chat payload shape where the error is
// flagged inside a data event instead of an error-tagged event.
func legacyStreamError(payload gjson.Result) bool {
	errField := payload.Get("error")
	if errField.Type == gjson.True {
		return true
	}
	return errField.Type == gjson.String && errField.String() != ""
}

func legacyStreamErrorMessage(payload gjson.Result) string {
	if errField := payload.Get("error"); errField.Type == gjson.String && errField.String() != "" {
		return errField.String()
	}
	if text := payload.Get("textResponse").String(); text != "" {
		return text
	}
	return "stream error"
}
