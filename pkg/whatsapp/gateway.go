package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tidwall/gjson"
)

// Gateway represents a WhatsApp messaging provider
type Gateway interface {
	Name() string
	SendMessage(ctx context.Context, phone, message string) (string, error)
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("whatsapp gateway returned status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying the request may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 || e.StatusCode == http.StatusTooManyRequests
}

// ErrRejected is returned when the provider accepts the call but reports the
// message as not sent.
var ErrRejected = errors.New("whatsapp gateway rejected message")

// HTTPGateway sends messages through a JSON HTTP API authenticated with an API key
type HTTPGateway struct {
	baseURL    string
	apiKey     string
	sender     string
	httpClient *http.Client
}

// NewHTTPGateway creates a new HTTPGateway
func NewHTTPGateway(baseURL, apiKey, sender string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		sender:  sender,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (g *HTTPGateway) Name() string { return "whatsapp-http" }

// SendMessage posts the message and returns the provider's message id.
func (g *HTTPGateway) SendMessage(ctx context.Context, phone, message string) (string, error) {
	requestBody := map[string]interface{}{
		"target":  phone,
		"message": message,
	}
	if g.sender != "" {
		requestBody["sender"] = g.sender
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("failed to parse response: invalid JSON")
	}

	result := gjson.ParseBytes(body)
	if status := result.Get("status"); status.Exists() && !status.Bool() {
		return "", fmt.Errorf("%w: %s", ErrRejected, result.Get("reason").String())
	}

	return messageID(result), nil
}

// messageID pulls the id out of the provider's response. Providers report it
// as a plain field, a list of ids or nested under data.
func messageID(result gjson.Result) string {
	for _, path := range []string{"message_id", "messageId", "id.0", "id", "data.message_id", "data.id"} {
		if v := result.Get(path); v.Exists() && v.Type != gjson.JSON {
			if s := v.String(); s != "" {
				return s
			}
		}
	}
	return ""
}

// MockGateway accepts every message without sending anything
type MockGateway struct {
	name string
	seq  atomic.Int64
}

// NewMockGateway creates a new mock WhatsApp gateway
func NewMockGateway(name string) *MockGateway {
	return &MockGateway{name: name}
}

func (g *MockGateway) Name() string { return g.name }

// SendMessage returns a synthetic message id.
func (g *MockGateway) SendMessage(ctx context.Context, phone, message string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-MOCK-%d", g.name, g.seq.Add(1)), nil
}
