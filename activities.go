package sdk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// ActivitiesClient provides CRUD over app activities. All operations go
// through the main-app proxy; the SDK never touches the backing store.
type ActivitiesClient struct {
	client *Client
}

// Activity is one activity row as stored by the main app.
type Activity struct {
	ID        string         `json:"id"`
	AppID     string         `json:"app_id"`
	Status    string         `json:"status"`
	RawData   map[string]any `json:"raw_data"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// ListActivitiesOptions filter and page the activity list.
type ListActivitiesOptions struct {
	Status string
	Limit  int // default 50
	Offset int
}

type activityEnvelope struct {
	Data *Activity `json:"data"`
}

// Insert creates a new activity from raw app data.
func (a *ActivitiesClient) Insert(ctx context.Context, rawData map[string]any) (*Activity, error) {
	var payload activityEnvelope
	err := a.client.doJSON(ctx, apiRequest{
		method:  http.MethodPost,
		path:    routes.Activities,
		payload: map[string]any{"raw_data": rawData},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Update applies a partial update to an existing activity.
func (a *ActivitiesClient) Update(ctx context.Context, id string, updates map[string]any) (*Activity, error) {
	var payload activityEnvelope
	err := a.client.doJSON(ctx, apiRequest{
		method:  http.MethodPatch,
		path:    activityPath(id),
		payload: updates,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Data, nil
}

// Delete removes an activity.
func (a *ActivitiesClient) Delete(ctx context.Context, id string) error {
	return a.client.doJSON(ctx, apiRequest{
		method: http.MethodDelete,
		path:   activityPath(id),
	}, nil)
}

// Get fetches an activity by ID. A missing activity is (nil, nil), not an
// error.
func (a *ActivitiesClient) Get(ctx context.Context, id string) (*Activity, error) {
	var payload activityEnvelope
	err := a.client.doJSON(ctx, apiRequest{
		method: http.MethodGet,
		path:   activityPath(id),
	}, &payload)
	if err != nil {
		var apiErr APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return payload.Data, nil
}

// List returns activities matching the options.
func (a *ActivitiesClient) List(ctx context.Context, opts ListActivitiesOptions) ([]Activity, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}
	query := url.Values{
		"limit":  {strconv.Itoa(opts.Limit)},
		"offset": {strconv.Itoa(opts.Offset)},
	}
	if opts.Status != "" {
		query.Set("status", opts.Status)
	}
	var payload struct {
		Data []Activity `json:"data"`
	}
	err := a.client.doJSON(ctx, apiRequest{
		method: http.MethodGet,
		path:   routes.Activities,
		query:  query,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Data, nil
}

func activityPath(id string) string {
	return fmt.Sprintf("%s/%s", routes.Activities, url.PathEscape(id))
}
