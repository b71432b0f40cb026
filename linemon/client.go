// Package linemon posts run telemetry to the shop's line-monitor
// service: one run per controller boot, with the boards measured and
// the faults raised during it. Everything here is optional; the runner
// falls back to the noop reporter when no address is configured.
package linemon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/calvinmclean/babyapi"
)

// Board is one measured workpiece
type Board struct {
	RawMs      uint32    `json:"raw_ms"`
	AdjustedMs uint32    `json:"adjusted_ms"`
	LengthIn   float64   `json:"length_in"`
	MeasuredAt time.Time `json:"measured_at"`
}

// Fault is one pause-level fault raised during the run
type Fault struct {
	Type     string    `json:"type"`
	RaisedAt time.Time `json:"raised_at"`
}

// ModeChange is one operating-mode transition observed during the run
type ModeChange struct {
	Mode string    `json:"mode"`
	At   time.Time `json:"at"`
}

// Run is the line-monitor resource for one controller boot
type Run struct {
	// include NilResource so we don't implement Render/Bind which are not needed
	*babyapi.NilResource
	ID        string       `json:"id,omitempty"`
	StartedAt time.Time    `json:"started_at"`
	Boards    []Board      `json:"boards,omitempty"`
	Faults    []Fault      `json:"faults,omitempty"`
	Modes     []ModeChange `json:"modes,omitempty"`
}

func (r *Run) GetID() string {
	return r.ID
}

// Client talks to the line-monitor's /runs API
type Client struct {
	client *babyapi.Client[*Run]
	runID  string
}

var _ Reporter = (*Client)(nil)

func NewClient(addr string) *Client {
	return &Client{client: babyapi.NewClient[*Run](addr, "/runs")}
}

// StartRun opens a run and remembers its ID for the rest of the calls
func (c *Client) StartRun(ctx context.Context, startedAt time.Time) (string, error) {
	resp, err := c.client.Post(ctx, &Run{StartedAt: startedAt})
	if err != nil {
		return "", err
	}

	c.runID = resp.Data.GetID()
	return c.runID, nil
}

func (c *Client) AddBoard(ctx context.Context, board Board) error {
	url, _ := c.client.URL(c.runID)
	url += "/add-board"

	return c.makeRequest(ctx, url, board)
}

func (c *Client) AddFault(ctx context.Context, fault Fault) error {
	url, _ := c.client.URL(c.runID)
	url += "/add-fault"

	return c.makeRequest(ctx, url, fault)
}

func (c *Client) AddModeChange(ctx context.Context, change ModeChange) error {
	url, _ := c.client.URL(c.runID)
	url += "/add-mode"

	return c.makeRequest(ctx, url, change)
}

func (c *Client) Done(ctx context.Context) error {
	url, _ := c.client.URL(c.runID)
	url += "/done"

	return c.makeRequest(ctx, url, map[string]any{"time": time.Now()})
}

func (c *Client) makeRequest(ctx context.Context, url string, body any) error {
	var bodyReader io.Reader = http.NoBody
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding body: %w", err)
		}

		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bodyReader)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Add("Content-Type", "application/json")

	resp, err := c.client.MakeGenericRequest(req, nil)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	if resp.Response.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status code: %d, response: %v", resp.Response.StatusCode, resp.Body)
	}

	return nil
}
