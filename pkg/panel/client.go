// Package panel talks to the server management panel's client API.
package panel

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// API is the subset of the panel used by commands.
type API interface {
	Resources(ctx context.Context) (*Resources, error)
	Power(ctx context.Context, serverID string, signal Signal) error
	Players(ctx context.Context) ([]string, error)
}

// Resources is the result of a resources query.
// Body holds the raw response so unexpected answers can be shown to the user.
type Resources struct {
	StatusCode int
	State      State
	Body       []byte
}

// OK returns whether the panel answered with a 2xx status.
func (r *Resources) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// PrettyBody returns the body indented for display, or verbatim when it is not JSON.
// Key order, numbers and text are kept as the panel sent them.
func (r *Resources) PrettyBody() string {
	var buf bytes.Buffer
	if err := stdjson.Indent(&buf, r.Body, "", "  "); err != nil {
		return string(r.Body)
	}
	return buf.String()
}

// StatusError is returned when the panel rejects a request.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("panel responded with status %d: %s", e.StatusCode, e.Body)
}

type resourcesResponse struct {
	Attributes struct {
		CurrentState string `json:"current_state"`
	} `json:"attributes"`
}

type playersResponse struct {
	Players []string `json:"players"`
}

type powerRequest struct {
	Signal Signal `json:"signal"`
}

// Client implements API over HTTP.
type Client struct {
	httpClient         *http.Client
	baseURL            string
	token              string
	serverID           string
	playerListEndpoint string
}

// NewClient creates a panel client for serverID.
func NewClient(httpClient *http.Client, baseURL, token, serverID, playerListEndpoint string) *Client {
	return &Client{
		httpClient:         httpClient,
		baseURL:            baseURL,
		token:              token,
		serverID:           serverID,
		playerListEndpoint: playerListEndpoint,
	}
}

// Resources fetches the current state of the primary server.
// A non-2xx answer is not an error; inspect Resources.OK.
func (c *Client) Resources(ctx context.Context) (*Resources, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.serverURL(c.serverID, "resources"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read resources response: %w", err)
	}

	res := &Resources{
		StatusCode: resp.StatusCode,
		State:      StateUnknown,
		Body:       body,
	}
	if !res.OK() {
		return res, nil
	}

	var parsed resourcesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode resources response: %w", err)
	}
	res.State = ParseState(parsed.Attributes.CurrentState)

	return res, nil
}

// Power sends a power signal to serverID.
func (c *Client) Power(ctx context.Context, serverID string, signal Signal) error {
	payload, err := json.Marshal(powerRequest{Signal: signal})
	if err != nil {
		return fmt.Errorf("failed to encode power request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.serverURL(serverID, "power"), bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send %s signal: %w", signal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return nil
}

// Players fetches the names of the connected players.
// The player list endpoint is public and not sent the panel token.
func (c *Client) Players(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.playerListEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create player list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query player list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var parsed playersResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode player list: %w", err)
	}

	return parsed.Players, nil
}

func (c *Client) serverURL(serverID, endpoint string) string {
	return fmt.Sprintf("%s/api/client/servers/%s/%s", c.baseURL, serverID, endpoint)
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", method, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	return req, nil
}
