package sdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// APIClient calls the public platform-info endpoints of the main app.
type APIClient struct {
	client *Client
}

// Agent is one available agent on the platform.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Workspace is one workspace visible to the caller.
type Workspace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Thread is one conversation thread within a workspace.
type Thread struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Task is a task snapshot merged with its run history.
type Task struct {
	UUID   string           `json:"uuid"`
	Status string           `json:"status"`
	Result map[string]any   `json:"result"`
	Runs   []map[string]any `json:"runs"`
}

// Agents lists available agents.
func (a *APIClient) Agents(ctx context.Context) ([]Agent, error) {
	var payload struct {
		Agents []Agent `json:"agents"`
	}
	if err := a.client.doJSON(ctx, apiRequest{method: http.MethodGet, path: routes.Agents}, &payload); err != nil {
		return nil, err
	}
	return payload.Agents, nil
}

// Workspaces lists workspaces.
func (a *APIClient) Workspaces(ctx context.Context) ([]Workspace, error) {
	var payload struct {
		Workspaces []Workspace `json:"workspaces"`
	}
	if err := a.client.doJSON(ctx, apiRequest{method: http.MethodGet, path: routes.Workspaces}, &payload); err != nil {
		return nil, err
	}
	return payload.Workspaces, nil
}

// Threads lists the threads of a workspace.
func (a *APIClient) Threads(ctx context.Context, workspaceSlug string) ([]Thread, error) {
	if workspaceSlug == "" {
		return nil, fmt.Errorf("workspace slug is required")
	}
	var payload struct {
		Threads []Thread `json:"threads"`
	}
	path := fmt.Sprintf("%s/%s/threads", routes.Workspaces, url.PathEscape(workspaceSlug))
	if err := a.client.doJSON(ctx, apiRequest{method: http.MethodGet, path: path}, &payload); err != nil {
		return nil, err
	}
	return payload.Threads, nil
}

// Task fetches a task snapshot merged with its runs.
func (a *APIClient) Task(ctx context.Context, taskUUID string) (*Task, error) {
	if taskUUID == "" {
		return nil, fmt.Errorf("task uuid is required")
	}
	var payload struct {
		Task Task             `json:"task"`
		Runs []map[string]any `json:"runs"`
	}
	path := "/api/task/" + url.PathEscape(taskUUID)
	if err := a.client.doJSON(ctx, apiRequest{method: http.MethodGet, path: path}, &payload); err != nil {
		return nil, err
	}
	task := payload.Task
	task.Runs = payload.Runs
	return &task, nil
}
