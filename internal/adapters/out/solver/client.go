// Package solver implements the ports.RouteSolver port against a VROOM-style
// JSON-over-HTTP route-optimization API.
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tutam/internal/core/ports"
)

// Client is the HTTP client for the optimization engine.
//
// Transient failures (429/5xx responses, network errors) are retried with
// exponential backoff; a final error means the whole call failed and the
// caller skips the affected batch. The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a solver client for the given endpoint. The API key may
// be empty for unauthenticated deployments.
func NewClient(baseURL string, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("solver base URL is empty")
	}

	return &Client{
		session: &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		apiKey:  apiKey,
	}, nil
}

// Solve posts one optimization problem and decodes the solved tours.
func (c *Client) Solve(ctx context.Context, problem ports.Problem) (ports.Solution, error) {
	payload, err := json.Marshal(toWireRequest(problem))
	if err != nil {
		return ports.Solution{}, fmt.Errorf("encode solver request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.Solution{}, fmt.Errorf("call solver: %w", err)
	}
	defer resp.Body.Close()

	var wire wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return ports.Solution{}, fmt.Errorf("decode solver response: %w", err)
	}

	return fromWireResponse(wire), nil
}
