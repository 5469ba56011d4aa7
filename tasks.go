package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// TasksClient reports task status to the main app. Used by external agents
// and processors to move a task through its lifecycle.
type TasksClient struct {
	client *Client
}

// Start marks the task as processing. machineID is optional and identifies
// the worker that picked the task up.
func (t *TasksClient) Start(ctx context.Context, taskUUID, machineID string) error {
	return t.sendEvent(ctx, "task-start", taskUUID, nil, "", machineID)
}

// Complete marks the task as completed with an optional result payload.
func (t *TasksClient) Complete(ctx context.Context, taskUUID string, result map[string]any, machineID string) error {
	return t.sendEvent(ctx, "task-complete", taskUUID, result, "", machineID)
}

// Fail marks the task as failed with an error description.
func (t *TasksClient) Fail(ctx context.Context, taskUUID, taskErr, machineID string) error {
	return t.sendEvent(ctx, "task-fail", taskUUID, nil, taskErr, machineID)
}

func (t *TasksClient) sendEvent(ctx context.Context, event, taskUUID string, result map[string]any, taskErr, machineID string) error {
	if taskUUID == "" {
		return fmt.Errorf("task uuid is required")
	}
	payload := map[string]any{"task_uuid": taskUUID}
	if result != nil {
		payload["result"] = result
	}
	if taskErr != "" {
		payload["error"] = taskErr
	}
	if machineID != "" {
		payload["machine_id"] = machineID
	}
	return t.client.doJSON(ctx, apiRequest{
		method: http.MethodPost,
		path:   routes.Webhooks,
		payload: webhookEvent{
			AppName: t.client.appName,
			AppID:   t.client.appID,
			Event:   event,
			Payload: payload,
		},
	}, nil)
}
