package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/realtimex/realtimex/sdk/go/routes"
)

// permissionServer simulates the main app's permission model: a protected
// endpoint that answers 403 until the named permission is granted through
// the broker endpoint.
type permissionServer struct {
	t          *testing.T
	permission string
	grant      bool
	alwaysDeny bool

	dataCalls   atomic.Int64
	brokerCalls atomic.Int64
	granted     atomic.Bool
}

func (s *permissionServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(routes.RequestPermission, func(w http.ResponseWriter, r *http.Request) {
		s.brokerCalls.Add(1)
		var req permissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.t.Errorf("broker payload: %v", err)
		}
		if req.Permission != s.permission {
			s.t.Errorf("unexpected permission %q", req.Permission)
		}
		if s.grant {
			s.granted.Store(true)
		}
		json.NewEncoder(w).Encode(permissionResponse{Granted: s.grant})
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		s.dataCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if s.alwaysDeny || !s.granted.Load() {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"success":    false,
				"error":      "Permission required",
				"code":       "PERMISSION_REQUIRED",
				"permission": s.permission,
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "value": "ok"})
	})
	return mux
}

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	clearIdentityEnv(t)
	client, err := NewClient(Config{BaseURL: srv.URL, AppID: "app-1", AppName: "Test App", HTTPClient: srv.Client()})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestPermissionGrantedReplaysExactlyOnce(t *testing.T) {
	ps := &permissionServer{t: t, permission: "llm.embed", grant: true}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()
	client := newTestClient(t, srv)

	var payload struct {
		Value string `json:"value"`
	}
	err := client.doJSON(context.Background(), apiRequest{method: http.MethodGet, path: "/protected"}, &payload)
	if err != nil {
		t.Fatalf("expected success after replay: %v", err)
	}
	if payload.Value != "ok" {
		t.Fatalf("unexpected body value %q", payload.Value)
	}
	if got := ps.dataCalls.Load(); got != 2 {
		t.Fatalf("expected exactly one replay (2 data calls), got %d", got)
	}
	if got := ps.brokerCalls.Load(); got != 1 {
		t.Fatalf("expected exactly one broker call, got %d", got)
	}
}

func TestPermissionRefusedNoReplay(t *testing.T) {
	ps := &permissionServer{t: t, permission: "llm.chat", grant: false}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.do(context.Background(), apiRequest{method: http.MethodGet, path: "/protected"})
	var denied PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if denied.Permission != "llm.chat" {
		t.Fatalf("unexpected permission %q", denied.Permission)
	}
	if got := ps.dataCalls.Load(); got != 1 {
		t.Fatalf("expected no replay, got %d data calls", got)
	}
}

func TestPermissionRequiredOnReplayIsTerminal(t *testing.T) {
	// Grant succeeds but the server keeps answering PERMISSION_REQUIRED,
	// e.g. a server-side revocation race. Must terminate, never loop.
	ps := &permissionServer{t: t, permission: "tts.generate", grant: true, alwaysDeny: true}
	srv := httptest.NewServer(ps.handler())
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.do(context.Background(), apiRequest{method: http.MethodGet, path: "/protected"})
	if !IsPermissionDenied(err) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if got := ps.dataCalls.Load(); got != 2 {
		t.Fatalf("expected exactly 2 data calls, got %d", got)
	}
	if got := ps.brokerCalls.Load(); got != 1 {
		t.Fatalf("expected exactly 1 broker call, got %d", got)
	}
}

func TestExplicitDenialSkipsBroker(t *testing.T) {
	var brokerCalls atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc(routes.RequestPermission, func(w http.ResponseWriter, r *http.Request) {
		brokerCalls.Add(1)
		json.NewEncoder(w).Encode(permissionResponse{Granted: true})
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"success":    false,
			"error":      "Permission denied",
			"code":       "PERMISSION_DENIED",
			"permission": "vectors.write",
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.do(context.Background(), apiRequest{method: http.MethodPost, path: "/protected", payload: map[string]any{}})
	var denied PermissionDeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected PermissionDeniedError, got %v", err)
	}
	if denied.Permission != "vectors.write" {
		t.Fatalf("unexpected permission %q", denied.Permission)
	}
	if got := brokerCalls.Load(); got != 0 {
		t.Fatalf("broker must not be called on explicit denial, got %d calls", got)
	}
}

func TestOtherFailuresSurfaceAsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success":false,"error":"provider exploded","code":"LLM_ERROR"}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.do(context.Background(), apiRequest{method: http.MethodGet, path: "/anything"})
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusBadGateway || apiErr.Code != "LLM_ERROR" || apiErr.Message != "provider exploded" {
		t.Fatalf("unexpected error detail %+v", apiErr)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.do(context.Background(), apiRequest{method: http.MethodGet, path: "/anything"})
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "upstream down" {
		t.Fatalf("unexpected message %q", apiErr.Message)
	}
}

func TestCallerHeadersCannotOverrideAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-app-id"); got != "app-1" {
			t.Errorf("auth header clobbered, got %q", got)
		}
		if got := r.Header.Get("X-Extra"); got != "keep-me" {
			t.Errorf("caller header dropped, got %q", got)
		}
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()
	client := newTestClient(t, srv)

	opts := buildCallOptions([]CallOption{WithHeader("X-Extra", "keep-me"), WithHeader("x-app-id", "spoofed")})
	_, err := client.do(context.Background(), apiRequest{method: http.MethodGet, path: "/anything", headers: opts.headers})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
}

func TestReplayRebuildsRequestBody(t *testing.T) {
	var bodies []string
	var granted atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc(routes.RequestPermission, func(w http.ResponseWriter, r *http.Request) {
		granted.Store(true)
		json.NewEncoder(w).Encode(permissionResponse{Granted: true})
	})
	mux.HandleFunc("/protected", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		w.Header().Set("Content-Type", "application/json")
		if !granted.Load() {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]any{
				"success": false, "error": "nope",
				"code": "PERMISSION_REQUIRED", "permission": "activities.write",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.do(context.Background(), apiRequest{
		method:  http.MethodPost,
		path:    "/protected",
		payload: map[string]any{"k": "v"},
	})
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if len(bodies) != 2 {
		t.Fatalf("expected identical replay, got %d attempts", len(bodies))
	}
	if bodies[0] != bodies[1] || bodies[0] == "" {
		t.Fatalf("replay body differs: %q vs %q", bodies[0], bodies[1])
	}
}
