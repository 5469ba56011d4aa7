// Package headers defines HTTP header constants used across the RealtimeX
// local-app surface. This is the single source of truth for header names used
// in API requests/responses.
package headers

const (
	// AppID identifies the calling local app in production mode. The main
	// app resolves per-permission grants against this identity.
	AppID = "x-app-id"

	// RequestID is the header for request correlation. Clients can supply
	// this header to correlate SDK calls with main-app logs.
	RequestID = "X-RealtimeX-Request-Id"
)
