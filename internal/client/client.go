// Package client is the HTTP consumer of the activities REST contract. It
// provides the read side (FetchRoster) and the write side (Signup,
// Unregister) used by the web UI layer, which never touches storage
// directly.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mergington/activities/internal/model"
)

// FetchError wraps any failure to retrieve or decode the roster: transport
// errors, non-2xx statuses and malformed bodies all end up here so callers
// can render a fallback instead of crashing.
type FetchError struct {
	Status int // zero when the request never completed
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch roster: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("fetch roster: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError reports a failed signup or unregister. Detail carries the
// server-provided explanation when present, otherwise a generic fallback
// suitable for direct display.
type MutationError struct {
	Op     string // "signup" or "unregister"
	Status int    // zero when the request never completed
	Detail string
	Err    error
}

func (e *MutationError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// Client talks to the activities API at a fixed base URL.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New constructs a Client. A nil httpc gets a default client with a
// 10-second timeout.
func New(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpc: httpc}
}

// FetchRoster retrieves the current activity roster. Any failure is
// reported as a *FetchError; the call has no side effects.
func (c *Client) FetchRoster(ctx context.Context) ([]model.Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/activities", nil)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("unexpected status")}
	}

	var wire []activityWire
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, &FetchError{Status: resp.StatusCode, Err: fmt.Errorf("decode roster: %w", err)}
	}
	roster := make([]model.Activity, 0, len(wire))
	for _, w := range wire {
		roster = append(roster, w.toModel())
	}
	return roster, nil
}

// activityWire decodes one roster entry leniently: a participants field
// that is absent or not a list degrades to an empty roster instead of
// failing the whole fetch.
type activityWire struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Schedule        string          `json:"schedule"`
	MaxParticipants int             `json:"max_participants"`
	Participants    json.RawMessage `json:"participants"`
}

func (w activityWire) toModel() model.Activity {
	a := model.Activity{
		ID:              w.ID,
		Name:            w.Name,
		Description:     w.Description,
		Schedule:        w.Schedule,
		MaxParticipants: w.MaxParticipants,
	}
	if len(w.Participants) > 0 {
		var ps []model.Participant
		if err := json.Unmarshal(w.Participants, &ps); err == nil {
			a.Participants = ps
		}
	}
	return a
}

// Signup registers the email for the activity and returns the server's
// confirmation message. Failures become *MutationError.
func (c *Client) Signup(ctx context.Context, activityID, email string) (string, error) {
	q := url.Values{"email": {email}}
	u := fmt.Sprintf("%s/api/activities/%s/signup?%s",
		c.baseURL, url.PathEscape(activityID), q.Encode())
	return c.doMutation(ctx, "signup", http.MethodPost, u,
		"Failed to sign up. Please try again.")
}

// Unregister removes the email from the activity's roster and returns the
// server's confirmation message. Failures become *MutationError.
func (c *Client) Unregister(ctx context.Context, activityID, email string) (string, error) {
	u := fmt.Sprintf("%s/api/activities/%s/participants/%s",
		c.baseURL, url.PathEscape(activityID), url.PathEscape(email))
	return c.doMutation(ctx, "unregister", http.MethodDelete, u,
		"Failed to unregister. Please try again.")
}

func (c *Client) doMutation(ctx context.Context, op, method, u, fallback string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return "", &MutationError{Op: op, Detail: fallback, Err: err}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", &MutationError{Op: op, Detail: fallback, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var d model.DetailResponse
		_ = json.NewDecoder(resp.Body).Decode(&d)
		detail := d.Detail
		if detail == "" {
			detail = fallback
		}
		return "", &MutationError{Op: op, Status: resp.StatusCode, Detail: detail}
	}

	var m model.MessageResponse
	_ = json.NewDecoder(resp.Body).Decode(&m)
	if m.Message == "" {
		m.Message = "Done."
	}
	return m.Message, nil
}
