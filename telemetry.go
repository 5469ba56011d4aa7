package sdk

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TelemetryHooks expose observability callbacks without forcing dependencies
// on the caller.
type TelemetryHooks struct {
	// OnHTTPRequest fires before each HTTP attempt is sent (including the
	// single permission-triggered replay).
	OnHTTPRequest func(ctx context.Context, req *http.Request)
	// OnHTTPResponse fires after the attempt completes (even when err != nil).
	OnHTTPResponse func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration)
	// OnStreamEvent fires for every SSE event yielded by a stream.
	OnStreamEvent func(ctx context.Context, event string, data []byte)
	// OnLogEntry allows callers to capture SDK log events (info/errors).
	OnLogEntry func(ctx context.Context, entry LogEntry)
	// OnMetric records lightweight counters/gauges for observability dashboards.
	OnMetric func(ctx context.Context, metric Metric)
}

// LogLevel encodes the severity for log hooks.
type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogEntry captures structured log details for SDK consumers.
type LogEntry struct {
	Level   LogLevel
	Message string
	Fields  map[string]any
}

// Metric represents a single observability datapoint.
type Metric struct {
	Name   string
	Value  float64
	Labels map[string]string
}

func (t TelemetryHooks) log(ctx context.Context, level LogLevel, msg string, fields map[string]any) {
	if t.OnLogEntry == nil {
		return
	}
	t.OnLogEntry(ctx, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (t TelemetryHooks) metric(ctx context.Context, name string, value float64, labels map[string]string) {
	if t.OnMetric == nil {
		return
	}
	t.OnMetric(ctx, Metric{Name: name, Value: value, Labels: labels})
}

// LoggerHooks builds TelemetryHooks that write structured zerolog events.
// Useful as a drop-in default when the caller has no telemetry pipeline of
// its own.
func LoggerHooks(logger zerolog.Logger) TelemetryHooks {
	return TelemetryHooks{
		OnHTTPResponse: func(ctx context.Context, req *http.Request, resp *http.Response, err error, latency time.Duration) {
			var ev *zerolog.Event
			if err != nil {
				ev = logger.Error().Err(err)
			} else {
				ev = logger.Debug().Int("status", resp.StatusCode)
			}
			ev.Str("method", req.Method).
				Str("path", req.URL.Path).
				Dur("latency", latency).
				Msg("http_request")
		},
		OnLogEntry: func(ctx context.Context, entry LogEntry) {
			var ev *zerolog.Event
			switch entry.Level {
			case LogLevelError:
				ev = logger.Error()
			case LogLevelWarn:
				ev = logger.Warn()
			default:
				ev = logger.Info()
			}
			ev.Fields(entry.Fields).Msg(entry.Message)
		},
	}
}
