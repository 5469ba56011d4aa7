package sdk

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/realtimex/realtimex/sdk/go/headers"
)

// CallOption customizes a single outgoing request (extra headers, request
// IDs). Options never override the identity headers chosen at construction.
type CallOption func(*callOptions)

type callOptions struct {
	headers http.Header
}

// WithRequestID sets the X-RealtimeX-Request-Id header for the request.
func WithRequestID(requestID string) CallOption {
	return func(opts *callOptions) {
		clean := strings.TrimSpace(requestID)
		if clean == "" {
			return
		}
		if opts.headers == nil {
			opts.headers = make(http.Header)
		}
		opts.headers.Set(headers.RequestID, clean)
	}
}

// WithHeader attaches an arbitrary header to the underlying HTTP request.
func WithHeader(key, value string) CallOption {
	return func(opts *callOptions) {
		if strings.TrimSpace(key) == "" || strings.TrimSpace(value) == "" {
			return
		}
		if opts.headers == nil {
			opts.headers = make(http.Header)
		}
		opts.headers.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}
}

// NewRequestID generates a fresh correlation ID for WithRequestID.
func NewRequestID() string {
	return uuid.NewString()
}

func buildCallOptions(options []CallOption) callOptions {
	cfg := callOptions{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg
}
