package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"
)

// apiRequest describes one proxied call. The executor rebuilds the HTTP
// request from this descriptor for each attempt, so the body is never
// consumed twice.
type apiRequest struct {
	method  string
	path    string
	query   url.Values
	payload any
	headers http.Header
	accept  string
}

// do executes the descriptor with automatic permission negotiation: a 403
// PERMISSION_REQUIRED answer triggers a single broker round-trip and, on a
// grant, exactly one replay of the identical descriptor. The replay flag is
// structural, not conventional: a second denial always propagates as a
// terminal error. It returns the raw 2xx body.
func (c *Client) do(ctx context.Context, call apiRequest) ([]byte, error) {
	replayed := false
	for {
		req, err := c.newHTTPRequest(ctx, call)
		if err != nil {
			return nil, err
		}
		resp, err := c.send(req)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return body, nil
		}
		retry, failure := c.classify(ctx, resp.StatusCode, body, !replayed)
		if !retry {
			return nil, failure
		}
		replayed = true
	}
}

// doJSON executes the descriptor and decodes the 2xx body into out.
func (c *Client) doJSON(ctx context.Context, call apiRequest, out any) error {
	body, err := c.do(ctx, call)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// openStream executes the descriptor expecting an SSE body. The initial
// response may itself be a permission error before any bytes are streamed;
// that case follows the same negotiate-then-replay path as do, reopening the
// whole stream from the start. Once a 2xx response is returned the caller
// owns resp.Body and no further renegotiation occurs.
func (c *Client) openStream(ctx context.Context, call apiRequest) (*http.Response, error) {
	if call.accept == "" {
		call.accept = "text/event-stream"
	}
	replayed := false
	for {
		req, err := c.newHTTPRequest(ctx, call)
		if err != nil {
			return nil, err
		}
		resp, err := c.send(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, err
		}
		retry, failure := c.classify(ctx, resp.StatusCode, body, !replayed)
		if !retry {
			return nil, failure
		}
		replayed = true
	}
}

// classify maps a non-2xx response onto the error taxonomy. It reports
// retry=true only when a replay is still available and the broker granted
// the missing permission; canReplay is false on the replay attempt, which
// makes a repeated PERMISSION_REQUIRED terminal rather than a loop.
func (c *Client) classify(ctx context.Context, status int, body []byte, canReplay bool) (bool, error) {
	env := decodeErrorEnvelope(status, body)
	switch {
	case status == http.StatusForbidden && env.Code == codePermissionRequired && env.Permission != "":
		if canReplay && c.RequestPermission(ctx, env.Permission) {
			return true, nil
		}
		return false, PermissionDeniedError{Permission: env.Permission}
	case status == http.StatusForbidden && env.Code == codePermissionDenied:
		return false, PermissionDeniedError{Permission: env.Permission}
	default:
		return false, APIError{Status: status, Code: env.Code, Message: env.message()}
	}
}

func (c *Client) newHTTPRequest(ctx context.Context, call apiRequest) (*http.Request, error) {
	var body io.Reader
	if call.payload != nil {
		encoded, err := json.Marshal(call.payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}
	target := c.buildURL(call.path)
	if len(call.query) > 0 {
		target += "?" + call.query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, call.method, target, body)
	if err != nil {
		return nil, err
	}
	// Caller headers first, identity last: per-call headers must not be able
	// to clobber the auth material.
	for key, values := range call.headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if call.accept != "" {
		req.Header.Set("Accept", call.accept)
	} else if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	injectTraceparent(ctx, req)
	c.auth.Apply(req)
	return req, nil
}

func (c *Client) send(req *http.Request) (*http.Response, error) {
	if c.telemetry.OnHTTPRequest != nil {
		c.telemetry.OnHTTPRequest(req.Context(), req)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.telemetry.OnHTTPResponse != nil {
		c.telemetry.OnHTTPResponse(req.Context(), req, resp, err, time.Since(start))
	}
	c.telemetry.metric(req.Context(), "sdk_http_request_latency_ms", float64(time.Since(start).Milliseconds()), map[string]string{
		"path": req.URL.Path,
	})
	return resp, err
}
