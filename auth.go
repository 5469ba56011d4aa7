// Package sdk provides the RealtimeX Go SDK for building local apps that
// integrate with the RealtimeX main app. All operations go through the main
// app proxy; the SDK never holds credentials to the underlying backing stores.
package sdk

import (
	"net/http"

	"github.com/realtimex/realtimex/sdk/go/headers"
)

type authStrategy interface {
	Apply(req *http.Request)
}

type authChain []authStrategy

func (c authChain) Apply(req *http.Request) {
	for _, s := range c {
		if s == nil {
			continue
		}
		s.Apply(req)
	}
}

// bearerAuth carries a development-mode API key. API-key auth implies full
// access, so a chain containing bearerAuth never also carries appIDAuth.
type bearerAuth struct {
	key string
}

func (b bearerAuth) Apply(req *http.Request) {
	if b.key == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+b.key)
}

// appIDAuth identifies the app in production mode; the main app enforces
// per-permission grants against it.
type appIDAuth struct {
	appID string
}

func (a appIDAuth) Apply(req *http.Request) {
	if a.appID == "" {
		return
	}
	req.Header.Set(headers.AppID, a.appID)
}

// buildAuthChain resolves the authentication mode once, at construction.
// An API key wins outright: sending both identities would make the request
// ambiguous server-side. An empty chain is deliberate pass-through; the
// server is the source of truth for authorization and will reject the call.
func buildAuthChain(cfg Config) authChain {
	if cfg.APIKey != "" {
		return authChain{bearerAuth{key: cfg.APIKey}}
	}
	if cfg.AppID != "" {
		return authChain{appIDAuth{appID: cfg.AppID}}
	}
	return nil
}
