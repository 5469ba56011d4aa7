package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// WebhookClient triggers agents and pings the main-app webhook sink.
type WebhookClient struct {
	client *Client
}

// TriggerOptions control how an agent run is started. AutoRun requires an
// agent name, workspace slug, and thread slug.
type TriggerOptions struct {
	AutoRun       bool
	AgentName     string
	WorkspaceSlug string
	ThreadSlug    string
	Prompt        string
}

// TriggerResult echoes the created task and its initial status.
type TriggerResult struct {
	TaskUUID string `json:"task_uuid"`
	Status   string `json:"status"`
}

type webhookEvent struct {
	AppName string `json:"app_name"`
	AppID   string `json:"app_id"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// TriggerAgent sends app data to the main app, optionally starting an agent
// run immediately.
func (w *WebhookClient) TriggerAgent(ctx context.Context, rawData map[string]any, opts TriggerOptions) (*TriggerResult, error) {
	if opts.AutoRun && (opts.AgentName == "" || opts.WorkspaceSlug == "" || opts.ThreadSlug == "") {
		return nil, fmt.Errorf("auto run requires agent name, workspace slug, and thread slug")
	}
	body, err := w.send(ctx, "trigger-agent", map[string]any{
		"raw_data":       rawData,
		"auto_run":       opts.AutoRun,
		"agent_name":     emptyAsNil(opts.AgentName),
		"workspace_slug": emptyAsNil(opts.WorkspaceSlug),
		"thread_slug":    emptyAsNil(opts.ThreadSlug),
		"prompt":         emptyAsNil(opts.Prompt),
	})
	if err != nil {
		return nil, err
	}
	var result TriggerResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Ping checks connectivity with the main-app webhook.
func (w *WebhookClient) Ping(ctx context.Context) error {
	_, err := w.send(ctx, "ping", nil)
	return err
}

func (w *WebhookClient) send(ctx context.Context, event string, payload any) ([]byte, error) {
	return w.client.do(ctx, apiRequest{
		method: http.MethodPost,
		path:   routes.Webhooks,
		payload: webhookEvent{
			AppName: w.client.appName,
			AppID:   w.client.appID,
			Event:   event,
			Payload: payload,
		},
	})
}
