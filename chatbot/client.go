package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/korylprince/twin-client/twin"
)

// ChatClient answers a query given the prior conversation
type ChatClient interface {
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// StatusClient returns the owner's current status
type StatusClient interface {
	Status(ctx context.Context) (*twin.StatusSnapshot, error)
}

// Client is a client for the digital twin backend.
// Every error it returns is a *twin.Error.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend client. httpClient may be nil.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Chat posts a query with its history to /api/chat
func (c *Client) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	payload := *req
	if payload.History == nil {
		payload.History = []twin.HistoryEntry{}
	}

	body, err := json.Marshal(&payload)
	if err != nil {
		return nil, &twin.Error{Description: "failed to marshal request", Type: twin.ErrorTypeTransport, Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, &twin.Error{Description: "failed to create request", Type: twin.ErrorTypeTransport, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var raw chatResponseBody
	if err := c.do(httpReq, &raw); err != nil {
		return nil, err
	}

	if raw.Response == nil {
		return nil, &twin.Error{Description: "invalid chat response", Type: twin.ErrorTypePayload, Err: errors.New("missing response field")}
	}

	return &ChatResponse{Response: *raw.Response, Sources: raw.Sources}, nil
}

// Status fetches the current status snapshot from /api/status
func (c *Client) Status(ctx context.Context) (*twin.StatusSnapshot, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/status", nil)
	if err != nil {
		return nil, &twin.Error{Description: "failed to create request", Type: twin.ErrorTypeTransport, Err: err}
	}

	var snapshot *twin.StatusSnapshot
	if err := c.do(httpReq, &snapshot); err != nil {
		return nil, err
	}

	if snapshot == nil {
		return nil, &twin.Error{Description: "invalid status response", Type: twin.ErrorTypePayload, Err: errors.New("empty body")}
	}

	return snapshot, nil
}

// Health checks /api/health
func (c *Client) Health(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/api/health", nil)
	if err != nil {
		return &twin.Error{Description: "failed to create request", Type: twin.ErrorTypeTransport, Err: err}
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := c.do(httpReq, &health); err != nil {
		return err
	}

	if health.Status != "ok" {
		return &twin.Error{Description: "backend unhealthy", Type: twin.ErrorTypePayload, Err: fmt.Errorf("status %q", health.Status)}
	}

	return nil
}

// CalendarConnected reports whether the backend's calendar is authorized, via /auth/status.
// Without it the backend reports availability as unknown.
func (c *Client) CalendarConnected(ctx context.Context) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/auth/status", nil)
	if err != nil {
		return false, &twin.Error{Description: "failed to create request", Type: twin.ErrorTypeTransport, Err: err}
	}

	var auth struct {
		Authenticated *bool `json:"authenticated"`
	}
	if err := c.do(httpReq, &auth); err != nil {
		return false, err
	}

	if auth.Authenticated == nil {
		return false, &twin.Error{Description: "invalid auth status response", Type: twin.ErrorTypePayload, Err: errors.New("missing authenticated field")}
	}

	return *auth.Authenticated, nil
}

// do sends req and decodes a 200 JSON body into out
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &twin.Error{Description: "failed to make request", Type: twin.ErrorTypeTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &twin.Error{
			Description: fmt.Sprintf("%s %s", req.Method, req.URL.Path),
			Type:        twin.ErrorTypeTransport,
			Err:         fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &twin.Error{Description: "failed to decode response", Type: twin.ErrorTypePayload, Err: err}
	}

	return nil
}
