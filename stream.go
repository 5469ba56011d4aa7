package sdk

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

const doneSentinel = "[DONE]"

// sseEvent is one event-name/payload pair off the wire. The event name is
// whatever the most recent event: line set; it resets after every data line.
type sseEvent struct {
	name string
	data []byte
}

// sseStream is the line-buffered parser shared by the chat and audio stream
// readers. It reads raw bytes incrementally, retains a trailing partial line
// across reads (bufio semantics), and classifies each complete line. Close is
// idempotent and is invoked on every exit path: end sentinel, transport
// close, parse-terminal error, and consumer cancellation.
type sseStream struct {
	ctx       context.Context
	reader    *bufio.Reader
	body      io.ReadCloser
	telemetry TelemetryHooks
	closed    bool
}

func newSSEStream(ctx context.Context, body io.ReadCloser, telemetry TelemetryHooks) *sseStream {
	return &sseStream{
		ctx:       ctx,
		reader:    bufio.NewReader(body),
		body:      body,
		telemetry: telemetry,
	}
}

// next returns the next event off the wire, or ok=false when the stream has
// ended (the [DONE] sentinel or transport close).
func (s *sseStream) next() (sseEvent, bool, error) {
	if s.closed {
		return sseEvent{}, false, nil
	}
	var eventName string
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				// A final line without a trailing newline still counts.
				ev, ok := parseSSELine(line, &eventName)
				if ok && string(ev.data) != doneSentinel {
					//nolint:errcheck // best-effort release, event still valid
					_ = s.Close()
					return ev, true, nil
				}
				return sseEvent{}, false, s.Close()
			}
			closeErr := s.Close()
			if closeErr != nil {
				return sseEvent{}, false, errors.Join(err, closeErr)
			}
			return sseEvent{}, false, err
		}
		ev, ok := parseSSELine(line, &eventName)
		if !ok {
			continue
		}
		if string(ev.data) == doneSentinel {
			return sseEvent{}, false, s.Close()
		}
		if s.telemetry.OnStreamEvent != nil {
			s.telemetry.OnStreamEvent(s.ctx, ev.name, ev.data)
		}
		s.telemetry.metric(s.ctx, "sdk_stream_events_total", 1, map[string]string{"event": ev.name})
		return ev, true, nil
	}
}

// parseSSELine classifies one line. Blank lines and comments are ignored,
// event: lines update *eventName, and only data: lines produce an event.
func parseSSELine(line string, eventName *string) (sseEvent, bool) {
	trimmed := strings.TrimSpace(line)
	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, ":"):
		return sseEvent{}, false
	case strings.HasPrefix(trimmed, "event:"):
		*eventName = strings.TrimSpace(trimmed[len("event:"):])
		return sseEvent{}, false
	case strings.HasPrefix(trimmed, "data:"):
		payload := strings.TrimSpace(trimmed[len("data:"):])
		ev := sseEvent{name: *eventName, data: []byte(payload)}
		*eventName = ""
		return ev, true
	default:
		return sseEvent{}, false
	}
}

// Close releases the underlying transport exactly once.
func (s *sseStream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *sseStream) logSkippedPayload(event string, data []byte) {
	s.telemetry.log(s.ctx, LogLevelWarn, "stream_payload_skipped", map[string]any{
		"event":   event,
		"payload": string(data),
	})
}
