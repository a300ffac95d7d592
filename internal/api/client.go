package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNoCredential is returned by authenticated operations invoked without a
// bearer token.  No request is sent in that case.
var ErrNoCredential = errors.New("api: not logged in")

// Error is a failure reported by the backend through a non-success status.
// Message carries the backend's detail when it sent one, otherwise a generic
// description of the operation that failed.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return e.Message
}

// Client talks to the healthcare backend.  It holds no credential of its own;
// every authenticated operation takes the caller's token.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client for baseURL.  A zero timeout leaves requests
// bounded only by their context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// multipartBody is a pre-encoded multipart request body.
type multipartBody struct {
	contentType string
	body        io.Reader
}

// request describes a single backend call.
type request struct {
	method   string
	path     string
	params   url.Values
	token    string
	auth     bool
	body     interface{}
	fallback string
}

func (c *Client) do(ctx context.Context, r request, res interface{}) error {
	if r.auth && r.token == "" {
		return ErrNoCredential
	}

	var body io.Reader
	headers := http.Header{}
	switch b := r.body.(type) {
	case nil:
	case *multipartBody:
		body = b.body
		headers.Set("Content-Type", b.contentType)
	default:
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(b); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = buf
		headers.Set("Content-Type", "application/json")
	}

	u := c.baseURL + r.path
	if len(r.params) != 0 {
		u += "?" + r.params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header[k] = v
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{StatusCode: resp.StatusCode, Message: detailOr(data, r.fallback)}
	}
	if res == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, res); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// detailOr extracts the backend's error detail.  FastAPI-style backends send
// either {"detail": "..."} or a validation list {"detail": [{"msg": "..."}]}.
func detailOr(data []byte, fallback string) string {
	var e struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &e); err != nil || len(e.Detail) == 0 {
		return fallback
	}
	var s string
	if err := json.Unmarshal(e.Detail, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return fallback
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(e.Detail, &list); err == nil && len(list) > 0 && list[0].Msg != "" {
		return list[0].Msg
	}
	return fallback
}
