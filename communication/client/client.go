package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"wargames/communication"
	"wargames/game"
)

// ErrRejected is returned when the server refuses an action; the message carries its reason.
var ErrRejected = errors.New("action rejected")

// Client talks to the game server API.
type Client struct {
	serverURL string
	http      *http.Client
}

var _ communication.Communicator = (*Client)(nil)

// NewClient returns a client for serverURL, e.g. "http://localhost:8080".
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: serverURL,
		http:      &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *Client) GetState(ctx context.Context) (communication.StateView, error) {
	var view communication.StateView
	err := c.do(ctx, http.MethodGet, "/api/state", nil, &view)
	return view, err
}

func (c *Client) GetMap(ctx context.Context) (communication.MapView, error) {
	var view communication.MapView
	err := c.do(ctx, http.MethodGet, "/api/map", nil, &view)
	return view, err
}

func (c *Client) LegalActions(ctx context.Context) ([]game.Action, error) {
	var actions []game.Action
	err := c.do(ctx, http.MethodGet, "/api/actions", nil, &actions)
	return actions, err
}

func (c *Client) SendAction(ctx context.Context, action game.Action) (communication.ActionResponse, error) {
	var out communication.ActionResponse
	err := c.do(ctx, http.MethodPost, "/api/actions", action, &out)
	return out, err
}

func (c *Client) Reset(ctx context.Context) (communication.StateView, error) {
	var view communication.StateView
	err := c.do(ctx, http.MethodPost, "/api/reset", nil, &view)
	return view, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e communication.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
		}
		if resp.StatusCode == http.StatusUnprocessableEntity || resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %s", ErrRejected, e.Error)
		}
		return fmt.Errorf("%s %s: %s", method, path, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
