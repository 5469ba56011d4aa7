// Package routes provides shared API route constants used by the SDK clients
// to prevent path mismatches against the RealtimeX main app.
package routes

// Proxy route paths - every SDK call goes through the main app, never to a
// backing store directly.
const (
	// RequestPermission asks the main app (and ultimately the user) to grant
	// a named capability to the calling local app.
	RequestPermission = "/api/local-apps/request-permission"

	// LLMChat performs a blocking chat completion.
	LLMChat = "/sdk/llm/chat"

	// LLMChatStream performs a streaming (SSE) chat completion.
	LLMChatStream = "/sdk/llm/chat/stream"

	// LLMEmbed generates vector embeddings from text.
	LLMEmbed = "/sdk/llm/embed"

	// LLMProvidersChat lists configured chat providers and their models.
	LLMProvidersChat = "/sdk/llm/providers/chat"

	// LLMProvidersEmbed lists configured embedding providers and their models.
	LLMProvidersEmbed = "/sdk/llm/providers/embed"

	// VectorsUpsert writes vectors into the workspace-scoped store.
	VectorsUpsert = "/sdk/llm/vectors/upsert"

	// VectorsQuery runs a similarity query against stored vectors.
	VectorsQuery = "/sdk/llm/vectors/query"

	// VectorsDelete removes vectors from the store.
	VectorsDelete = "/sdk/llm/vectors/delete"

	// VectorsWorkspaces lists vector namespaces visible to this app.
	VectorsWorkspaces = "/sdk/llm/vectors/workspaces"

	// TTS generates speech and returns the full audio body.
	TTS = "/sdk/tts"

	// TTSStream generates speech as an SSE sequence of base64 audio chunks.
	TTSStream = "/sdk/tts/stream"

	// TTSProviders lists available text-to-speech providers.
	TTSProviders = "/sdk/tts/providers"

	// Activities is the activity collection (POST to insert, GET to list).
	Activities = "/activities"

	// Webhooks is the main-app webhook sink for agent triggers and task
	// status events.
	Webhooks = "/webhooks/realtimex"

	// Agents lists agents available on the platform.
	Agents = "/api/agents"

	// Workspaces lists workspaces visible to the caller.
	Workspaces = "/api/workspaces"
)
