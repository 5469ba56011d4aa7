package sdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError captures structured main-app error metadata for any non-2xx
// response that is not a permission failure.
type APIError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e APIError) Error() string {
	if e.Code == "" {
		e.Code = "UNKNOWN"
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("%s (%d)", e.Code, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// PermissionDeniedError is terminal: the user (or the main app) declined the
// named capability, either outright or after a failed negotiation.
type PermissionDeniedError struct {
	Permission string
}

func (e PermissionDeniedError) Error() string {
	return fmt.Sprintf("permission denied: %s", e.Permission)
}

// StreamError is a terminal mid-stream failure carrying the provider/server
// error code from an error-tagged SSE event.
type StreamError struct {
	Code    string
	Message string
}

func (e StreamError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ConfigError reports an invalid SDK configuration at construction time.
type ConfigError struct {
	Reason string
}

func (e ConfigError) Error() string {
	return "sdk: " + e.Reason
}

// IsPermissionDenied reports whether err is a PermissionDeniedError.
func IsPermissionDenied(err error) bool {
	var pd PermissionDeniedError
	return errors.As(err, &pd)
}

// IsStreamError reports whether err is a StreamError.
func IsStreamError(err error) bool {
	var se StreamError
	return errors.As(err, &se)
}

// Error codes surfaced by the main app.
const (
	codePermissionRequired = "PERMISSION_REQUIRED"
	codePermissionDenied   = "PERMISSION_DENIED"
	codeStreamError        = "LLM_STREAM_ERROR"
)

// errorEnvelope mirrors the main-app non-2xx body shape. The server encodes
// error detail in the body even on failure statuses, so it is decoded once
// here and never re-inspected downstream.
type errorEnvelope struct {
	Success    bool   `json:"success"`
	Error      string `json:"error"`
	Code       string `json:"code"`
	Permission string `json:"permission"`
	Message    string `json:"message"`
}

func (e errorEnvelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func decodeErrorEnvelope(status int, body []byte) errorEnvelope {
	env := errorEnvelope{}
	if len(body) == 0 {
		env.Error = http.StatusText(status)
		return env
	}
	if err := json.Unmarshal(body, &env); err != nil {
		env.Error = string(body)
		env.Code = ""
	}
	if env.message() == "" {
		env.Error = http.StatusText(status)
	}
	return env
}
