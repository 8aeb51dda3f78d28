package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/vmunix/fijkbridge/internal/handlers"
)

// Client wraps HTTP calls to the fijkbridge daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new daemon client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) post(path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func (c *Client) delete(path string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// HealthResponse is the daemon health summary.
type HealthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
	Clients int    `json:"clients"`
	Playing int    `json:"playing"`
	Dropped int64  `json:"dropped_events"`
}

// PlayerResponse is one live player.
type PlayerResponse struct {
	ID    int64  `json:"id"`
	State string `json:"state"`
}

// CommandResponse is the result of a player command.
type CommandResponse struct {
	Player   int64  `json:"player"`
	State    string `json:"state"`
	Position *int64 `json:"position,omitempty"`
}

// Health returns the daemon health summary.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get("/healthz", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Players lists live players.
func (c *Client) Players() ([]PlayerResponse, error) {
	var resp []PlayerResponse
	if err := c.get("/players", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Command sends one method-channel command to a player.
func (c *Client) Command(id int64, req map[string]any) (*CommandResponse, error) {
	var resp CommandResponse
	if err := c.post("/players/"+strconv.FormatInt(id, 10)+"/commands", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Diagnostics returns unknown-code and handler-failure counts.
func (c *Client) Diagnostics() (*handlers.Diagnostics, error) {
	var resp handlers.Diagnostics
	if err := c.get("/diagnostics", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Release releases a player.
func (c *Client) Release(id int64) error {
	return c.delete("/players/" + strconv.FormatInt(id, 10))
}
