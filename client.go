package sdk

import (
	"net/http"
	"net/url"
	"os"
	"strings"
)

const (
	defaultBaseURL   = "http://localhost:3001"
	defaultAppName   = "Local App"
	defaultUserAgent = "realtimex-sdk-go/" + Version
)

// Environment variables injected by the main app when it launches a local
// app. Explicit Config fields always win over these.
const (
	envAppID   = "RTX_APP_ID"
	envAppName = "RTX_APP_NAME"
	envAPIKey  = "RTX_API_KEY"
	envPort    = "RTX_PORT"
)

// Config wires identity, base URL, and telemetry for the SDK client.
//
// Authentication mode is derived once from the resolved configuration:
// an API key selects development mode (Bearer auth, full access); an app ID
// selects production mode (x-app-id header, per-permission grants). Leaving
// both empty is allowed; the main app will reject calls server-side.
type Config struct {
	BaseURL    string
	AppID      string
	AppName    string
	APIKey     string
	HTTPClient *http.Client
	Telemetry  TelemetryHooks
	UserAgent  string
}

// Client is the main SDK entry point for RealtimeX local apps. It is safe
// for concurrent use; identity is immutable after construction.
type Client struct {
	baseURL    string
	appID      string
	appName    string
	httpClient *http.Client
	auth       authChain
	telemetry  TelemetryHooks
	userAgent  string

	// Grouped service clients.
	LLM        *LLMClient
	TTS        *TTSClient
	Activities *ActivitiesClient
	Webhook    *WebhookClient
	Tasks      *TasksClient
	API        *APIClient
	Ports      *PortFinder
}

// NewClient resolves configuration (explicit fields first, then the RTX_*
// environment) and returns a ready-to-use Client.
func NewClient(cfg Config) (*Client, error) {
	cfg = resolveConfig(cfg)
	normalized, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	client := &Client{
		baseURL:    normalized,
		appID:      cfg.AppID,
		appName:    cfg.AppName,
		httpClient: httpClient,
		auth:       buildAuthChain(cfg),
		telemetry:  cfg.Telemetry,
		userAgent:  ua,
	}
	client.LLM = &LLMClient{client: client, Vectors: &VectorStoreClient{client: client}}
	client.TTS = &TTSClient{client: client}
	client.Activities = &ActivitiesClient{client: client}
	client.Webhook = &WebhookClient{client: client}
	client.Tasks = &TasksClient{client: client}
	client.API = &APIClient{client: client}
	client.Ports = &PortFinder{DefaultPort: defaultSuggestedPort}
	return client, nil
}

// resolveConfig applies environment fallbacks. The environment is read once
// here and never again for the lifetime of the client.
func resolveConfig(cfg Config) Config {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.AppID == "" {
		cfg.AppID = os.Getenv(envAppID)
	}
	if cfg.AppName == "" {
		cfg.AppName = os.Getenv(envAppName)
	}
	if cfg.AppName == "" {
		cfg.AppName = defaultAppName
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(envAPIKey)
	}
	return cfg
}

func normalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ConfigError{Reason: "base URL required"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", ConfigError{Reason: "invalid base URL: " + err.Error()}
	}
	if u.Scheme == "" {
		return "", ConfigError{Reason: "base URL missing scheme (http/https)"}
	}
	if u.Host == "" {
		return "", ConfigError{Reason: "base URL missing host"}
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	return strings.TrimSuffix(u.String(), "/"), nil
}

// AppID returns the resolved app identity (empty in development mode when
// only an API key is configured).
func (c *Client) AppID() string { return c.appID }

// AppName returns the resolved display name for the app.
func (c *Client) AppName() string { return c.appName }

func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
