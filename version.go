package sdk

// Version is the published SDK version.
// 0.4.0: Breaking - Activities.Get returns (nil, nil) on 404 instead of an
// APIError, matching the optional-read semantics of the main app.
// 0.3.0: Add TTS module (Speak buffer + SpeakStream SSE audio chunks) and the
// automatic permission negotiation/replay pipeline shared by all modules.
// 0.2.0: Add vector store operations (upsert/query/delete/workspaces) plus
// EmbedAndStore and Search helpers.
const Version = "0.4.0"
