package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

type permissionRequest struct {
	AppID      string `json:"app_id"`
	AppName    string `json:"app_name"`
	Permission string `json:"permission"`
}

type permissionResponse struct {
	Granted bool `json:"granted"`
}

// RequestPermission asks the main app to grant the named capability to this
// local app. The main app typically prompts the user, so the call can block
// for as long as the human takes; pass a ctx with a deadline if that matters
// to you. The SDK imposes no timeout of its own.
//
// The result is a plain bool so callers can use it directly as a retry gate:
// transport failures, malformed responses, and explicit denials all report
// false, never an error. Grants are not cached; they can be revoked between
// calls, so every denied call renegotiates.
func (c *Client) RequestPermission(ctx context.Context, permission string) bool {
	payload, err := json.Marshal(permissionRequest{
		AppID:      c.appID,
		AppName:    c.appName,
		Permission: permission,
	})
	if err != nil {
		return false
	}
	// Built directly rather than through the executor: a permission failure
	// here must not recurse into another negotiation. Identity travels in
	// the body, so no auth headers are attached.
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(routes.RequestPermission), bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.telemetry.log(ctx, LogLevelWarn, "permission_request_failed", map[string]any{
			"permission": permission,
			"error":      err.Error(),
		})
		return false
	}
	defer resp.Body.Close()
	var result permissionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.telemetry.log(ctx, LogLevelWarn, "permission_response_malformed", map[string]any{
			"permission": permission,
			"error":      err.Error(),
		})
		return false
	}
	c.telemetry.metric(ctx, "sdk_permission_requests_total", 1, map[string]string{
		"permission": permission,
		"granted":    boolLabel(result.Granted),
	})
	return result.Granted
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
