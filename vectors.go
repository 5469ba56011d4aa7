package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// VectorStoreClient exposes the workspace-scoped vector store for RAG
// workflows. Reachable as client.LLM.Vectors.
type VectorStoreClient struct {
	client *Client
}

// VectorRecord is one stored vector with optional metadata.
type VectorRecord struct {
	ID       string         `json:"id"`
	Vector   []float64      `json:"vector"`
	Metadata map[string]any `json:"metadata"`
}

// VectorQueryResult is one similarity match.
type VectorQueryResult struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

// VectorUpsertResult reports how many vectors were written and where.
type VectorUpsertResult struct {
	Upserted  int    `json:"upserted"`
	Namespace string `json:"namespace"`
}

// VectorDeleteResult reports how many vectors were removed.
type VectorDeleteResult struct {
	Deleted int    `json:"deleted"`
	Message string `json:"message"`
}

// Upsert writes vectors into storage, optionally scoped to a workspace.
func (v *VectorStoreClient) Upsert(ctx context.Context, records []VectorRecord, workspaceID string) (*VectorUpsertResult, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("at least one vector is required")
	}
	for i := range records {
		if records[i].Metadata == nil {
			records[i].Metadata = map[string]any{}
		}
	}
	var payload struct {
		VectorUpsertResult
	}
	err := v.client.doJSON(ctx, apiRequest{
		method: http.MethodPost,
		path:   routes.VectorsUpsert,
		payload: map[string]any{
			"vectors":     records,
			"workspaceId": emptyAsNil(workspaceID),
		},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.VectorUpsertResult, nil
}

// Query runs a similarity search. topK defaults to 5; documentID, when set,
// narrows the search to vectors of one document.
func (v *VectorStoreClient) Query(ctx context.Context, vector []float64, topK int, workspaceID, documentID string) ([]VectorQueryResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("query vector is required")
	}
	if topK <= 0 {
		topK = 5
	}
	filter := map[string]any{}
	if documentID != "" {
		filter["documentId"] = documentID
	}
	var payload struct {
		Results []VectorQueryResult `json:"results"`
	}
	err := v.client.doJSON(ctx, apiRequest{
		method: http.MethodPost,
		path:   routes.VectorsQuery,
		payload: map[string]any{
			"vector":      vector,
			"topK":        topK,
			"workspaceId": emptyAsNil(workspaceID),
			"filter":      filter,
		},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Results, nil
}

// DeleteAll removes every vector in the (optionally workspace-scoped) store.
// Granular deletion is not supported by the main app yet.
func (v *VectorStoreClient) DeleteAll(ctx context.Context, workspaceID string) (*VectorDeleteResult, error) {
	var payload struct {
		VectorDeleteResult
	}
	err := v.client.doJSON(ctx, apiRequest{
		method: http.MethodPost,
		path:   routes.VectorsDelete,
		payload: map[string]any{
			"deleteAll":   true,
			"workspaceId": emptyAsNil(workspaceID),
		},
	}, &payload)
	if err != nil {
		return nil, err
	}
	return &payload.VectorDeleteResult, nil
}

// ListWorkspaces lists the vector namespaces visible to this app.
func (v *VectorStoreClient) ListWorkspaces(ctx context.Context) ([]string, error) {
	var payload struct {
		Workspaces []string `json:"workspaces"`
	}
	err := v.client.doJSON(ctx, apiRequest{
		method: http.MethodGet,
		path:   routes.VectorsWorkspaces,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Workspaces, nil
}
