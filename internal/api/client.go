// Package api is the typed HTTP client for the game-agent backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
)

// Error is a non-2xx backend response. The message is the response body
// text when present, the HTTP status text otherwise.
type Error struct {
	Status int
	Body   string
}

func (e *Error) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return http.StatusText(e.Status)
}

// Client talks to the backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// New constructs a client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.Logger = nil
	client.HTTPClient.Timeout = timeout
	// Keep the final response when retries run out so error bodies survive.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: client}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Status fetches the full agent state.
func (c *Client) Status(ctx context.Context) (AgentStatus, error) {
	var status AgentStatus
	err := c.getJSON(ctx, "/agent/status", &status)
	return status, err
}

// StartAgent asks the backend to bring the agent online.
func (c *Client) StartAgent(ctx context.Context) (ControlResponse, error) {
	var resp ControlResponse
	err := c.postJSON(ctx, "/agent/start", nil, &resp)
	return resp, err
}

// StopAgent requests a graceful stop after the current job.
func (c *Client) StopAgent(ctx context.Context) (ControlResponse, error) {
	var resp ControlResponse
	err := c.postJSON(ctx, "/agent/stop", nil, &resp)
	return resp, err
}

// Stats fetches usage percentages and the current work session.
func (c *Client) Stats(ctx context.Context) (StatsResponse, error) {
	var stats StatsResponse
	err := c.getJSON(ctx, "/stats", &stats)
	return stats, err
}

// ListIdeas returns the full backlog.
func (c *Client) ListIdeas(ctx context.Context) ([]Idea, error) {
	var ideas []Idea
	err := c.getJSON(ctx, "/ideas/", &ideas)
	return ideas, err
}

// GetIdea returns one backlog entry by id.
func (c *Client) GetIdea(ctx context.Context, id int) (Idea, error) {
	var idea Idea
	err := c.getJSON(ctx, fmt.Sprintf("/ideas/%d", id), &idea)
	return idea, err
}

// CreateIdea enqueues a new work item.
func (c *Client) CreateIdea(ctx context.Context, req IdeaRequest) error {
	return c.postJSON(ctx, "/ideas/", req, nil)
}

// PopIdea removes and returns the next queued idea.
func (c *Client) PopIdea(ctx context.Context) (Idea, error) {
	var idea Idea
	err := c.getJSON(ctx, "/ideas/pop", &idea)
	return idea, err
}

// QueueStatus reports backlog fullness for backpressure decisions.
func (c *Client) QueueStatus(ctx context.Context) (QueueStatus, error) {
	var status QueueStatus
	err := c.getJSON(ctx, "/ideas/status", &status)
	return status, err
}

// ProjectsList returns the lightweight pack directory listing.
func (c *Client) ProjectsList(ctx context.Context) ([]PackListing, error) {
	var packs []PackListing
	err := c.getJSON(ctx, "/projects-list", &packs)
	return packs, err
}

// Manifest fetches the full game pack manifest. Fetched once per session;
// callers own the returned value and derive filtered views from it.
func (c *Client) Manifest(ctx context.Context) ([]GamePack, error) {
	var packs []GamePack
	err := c.getJSON(ctx, "/projects/manifest.json", &packs)
	return packs, err
}

// ResolveEntryPoint looks up the playable path for one project.
func (c *Client) ResolveEntryPoint(ctx context.Context, timestamp, gameID string) (EntryPoint, error) {
	var entry EntryPoint
	err := c.getJSON(ctx, fmt.Sprintf("/get-entry-point/%s/%s", url.PathEscape(timestamp), url.PathEscape(gameID)), &entry)
	return entry, err
}

// FinishedProjects returns ideas the agent has completed.
func (c *Client) FinishedProjects(ctx context.Context) ([]Idea, error) {
	var ideas []Idea
	err := c.getJSON(ctx, "/finished-projects", &ideas)
	return ideas, err
}

// CoverArtURL builds the static path for a project's cover art.
func (c *Client) CoverArtURL(timestamp, gameID string) string {
	return fmt.Sprintf("%s/cartridge_arts/%s/%s/cover_art.png_0", c.baseURL, timestamp, gameID)
}

// BannerArtURL builds the static path for a project's banner art.
func (c *Client) BannerArtURL(timestamp, gameID string) string {
	return fmt.Sprintf("%s/cartridge_arts/%s/%s/banner_art.png_0", c.baseURL, timestamp, gameID)
}

// PlayURL resolves a backend-relative entry point to a full URL. Absolute
// URLs (S3 storage) pass through untouched.
func (c *Client) PlayURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// ProbeImage checks whether an image asset is fetchable yet. Used by the
// cover-art probe, which appends its own cache-busting query.
func (c *Client) ProbeImage(ctx context.Context, rawURL string) error {
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(request, out)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")
	return c.do(request, out)
}

func (c *Client) do(request *retryablehttp.Request, out any) error {
	request.Header.Set("X-Request-ID", uuid.NewString())
	resp, err := c.http.Do(request)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{Status: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
