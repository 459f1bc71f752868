package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/samirrijal/begiramap/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Client implements ports.AssistantClient against the retrieval-augmented
// chat backend's JSON API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewClient creates a Client for the given backend URL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

type askRequest struct {
	Prompt string `json:"prompt"`
}

// Ask posts the prompt and decodes the structured reply. The places array
// may be empty; that is a normal reply, not an error.
func (c *Client) Ask(ctx context.Context, prompt string) (*ports.AssistantReply, error) {
	body, err := json.Marshal(askRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assistant request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("assistant backend: status %d: %s", resp.StatusCode, snippet)
	}

	var reply ports.AssistantReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("decode assistant reply: %w", err)
	}
	return &reply, nil
}
