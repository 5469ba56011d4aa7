package sdk

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/realtimex/realtimex/sdk/go/routes"
)

// LLMClient proxies chat, embedding, and vector operations through the main
// app. Provider credentials never reach the local app.
type LLMClient struct {
	client *Client

	// Vectors exposes the workspace-scoped vector store.
	Vectors *VectorStoreClient
}

// ChatMessage is one turn of a conversation.
type ChatMessage struct {
	Role    string `json:"role"` // "system", "user", or "assistant"
	Content string `json:"content"`
}

// ChatOptions tune a chat completion. Zero values fall back to the main-app
// defaults (temperature 0.7, 1000 max tokens, workspace-configured model).
type ChatOptions struct {
	Model       string
	Provider    string
	Temperature *float64
	MaxTokens   int
}

// ChatMetrics reports token accounting for a completed chat call.
type ChatMetrics struct {
	PromptTokens     int      `json:"prompt_tokens"`
	CompletionTokens int      `json:"completion_tokens"`
	TotalTokens      int      `json:"total_tokens"`
	Duration         float64  `json:"duration"`
	OutputTPS        *float64 `json:"outputTps"`
}

// ChatResponse is the aggregated result of a blocking chat completion.
type ChatResponse struct {
	Content  string
	Model    string
	Provider string
	Metrics  *ChatMetrics
}

// EmbedResponse carries generated embeddings plus provider metadata.
type EmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Provider   string      `json:"provider"`
	Model      string      `json:"model"`
	Dimensions int         `json:"dimensions"`
}

// ProviderModel is one selectable model of a provider.
type ProviderModel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider is a configured chat or embedding provider.
type Provider struct {
	Provider string          `json:"provider"`
	Models   []ProviderModel `json:"models"`
}

type chatRequestPayload struct {
	Messages    []ChatMessage `json:"messages"`
	Model       string        `json:"model,omitempty"`
	Provider    string        `json:"provider,omitempty"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

func newChatRequestPayload(messages []ChatMessage, opts *ChatOptions) chatRequestPayload {
	payload := chatRequestPayload{
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   1000,
	}
	if opts != nil {
		payload.Model = opts.Model
		payload.Provider = opts.Provider
		if opts.Temperature != nil {
			payload.Temperature = *opts.Temperature
		}
		if opts.MaxTokens > 0 {
			payload.MaxTokens = opts.MaxTokens
		}
	}
	return payload
}

// Chat performs a blocking chat completion.
func (c *LLMClient) Chat(ctx context.Context, messages []ChatMessage, opts *ChatOptions, options ...CallOption) (*ChatResponse, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}
	var payload struct {
		Success  bool   `json:"success"`
		Error    string `json:"error"`
		Code     string `json:"code"`
		Response struct {
			Content  string       `json:"content"`
			Model    string       `json:"model"`
			Provider string       `json:"provider"`
			Metrics  *ChatMetrics `json:"metrics"`
		} `json:"response"`
	}
	err := c.client.doJSON(ctx, apiRequest{
		method:  http.MethodPost,
		path:    routes.LLMChat,
		payload: newChatRequestPayload(messages, opts),
		headers: buildCallOptions(options).headers,
	}, &payload)
	if err != nil {
		return nil, err
	}
	if !payload.Success && payload.Error != "" {
		return nil, APIError{Status: http.StatusOK, Code: payload.Code, Message: payload.Error}
	}
	return &ChatResponse{
		Content:  payload.Response.Content,
		Model:    payload.Response.Model,
		Provider: payload.Response.Provider,
		Metrics:  payload.Response.Metrics,
	}, nil
}

// ChatStream opens a streaming chat completion. The caller must drain or
// Close the returned stream.
func (c *LLMClient) ChatStream(ctx context.Context, messages []ChatMessage, opts *ChatOptions, options ...CallOption) (*ChatStream, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}
	resp, err := c.client.openStream(ctx, apiRequest{
		method:  http.MethodPost,
		path:    routes.LLMChatStream,
		payload: newChatRequestPayload(messages, opts),
		headers: buildCallOptions(options).headers,
	})
	if err != nil {
		return nil, err
	}
	return newChatStream(newSSEStream(ctx, resp.Body, c.client.telemetry)), nil
}

// Embed generates vector embeddings for the given inputs.
func (c *LLMClient) Embed(ctx context.Context, input []string, provider, model string) (*EmbedResponse, error) {
	if len(input) == 0 {
		return nil, fmt.Errorf("at least one input string is required")
	}
	var payload struct {
		EmbedResponse
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	err := c.client.doJSON(ctx, apiRequest{
		method: http.MethodPost,
		path:   routes.LLMEmbed,
		payload: map[string]any{
			"input":    input,
			"provider": emptyAsNil(provider),
			"model":    emptyAsNil(model),
		},
	}, &payload)
	if err != nil {
		return nil, err
	}
	if !payload.Success && payload.Error != "" {
		return nil, APIError{Status: http.StatusOK, Code: payload.Code, Message: payload.Error}
	}
	return &payload.EmbedResponse, nil
}

// ChatProviders lists configured chat providers and their models.
func (c *LLMClient) ChatProviders(ctx context.Context) ([]Provider, error) {
	return c.providers(ctx, routes.LLMProvidersChat)
}

// EmbedProviders lists configured embedding providers and their models.
func (c *LLMClient) EmbedProviders(ctx context.Context) ([]Provider, error) {
	return c.providers(ctx, routes.LLMProvidersEmbed)
}

func (c *LLMClient) providers(ctx context.Context, path string) ([]Provider, error) {
	var payload struct {
		Providers []Provider `json:"providers"`
	}
	if err := c.client.doJSON(ctx, apiRequest{method: http.MethodGet, path: path}, &payload); err != nil {
		return nil, err
	}
	return payload.Providers, nil
}

// EmbedAndStore embeds texts and upserts them as vectors in one call. When
// idPrefix is empty a fresh uuid-derived prefix is used so repeated calls
// never collide.
func (c *LLMClient) EmbedAndStore(ctx context.Context, texts []string, documentID, workspaceID, idPrefix string) (*VectorUpsertResult, error) {
	embedded, err := c.Embed(ctx, texts, "", "")
	if err != nil {
		return nil, err
	}
	if len(embedded.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count %d does not match input count %d", len(embedded.Embeddings), len(texts))
	}
	prefix := idPrefix
	if prefix == "" {
		prefix = "chunk_" + uuid.NewString()[:8]
	}
	records := make([]VectorRecord, len(texts))
	for i, text := range texts {
		records[i] = VectorRecord{
			ID:     fmt.Sprintf("%s_%d", prefix, i),
			Vector: embedded.Embeddings[i],
			Metadata: map[string]any{
				"text":           text,
				"documentId":     documentID,
				"workspaceId":    workspaceID,
				"embeddingModel": embedded.Model,
			},
		}
	}
	return c.Vectors.Upsert(ctx, records, workspaceID)
}

// Search embeds the query and runs a similarity search in one call.
func (c *LLMClient) Search(ctx context.Context, query string, topK int, workspaceID, documentID string) ([]VectorQueryResult, error) {
	embedded, err := c.Embed(ctx, []string{query}, "", "")
	if err != nil {
		return nil, err
	}
	if len(embedded.Embeddings) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}
	return c.Vectors.Query(ctx, embedded.Embeddings[0], topK, workspaceID, documentID)
}

func emptyAsNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
