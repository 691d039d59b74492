// Package api is the HTTP client for a murmur server. It consumes the
// paged listing and search endpoints and exposes them to the pagination
// engine through two paging.Source adapters.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/quellen/murmur/internal/conversation"
	"github.com/quellen/murmur/internal/paging"
	"github.com/quellen/murmur/internal/validation"
)

const userAgent = "murmur/1.0 (conversation browser)"

// Client talks to one murmur server.
type Client struct {
	base   string
	client *http.Client
}

// NewClient validates the base URL and builds a client. timeout of zero
// means no client-side timeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := validation.NewServerURLValidator().ValidateAndNormalize(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		base:   base,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// BaseURL returns the server base, without a trailing slash.
func (c *Client) BaseURL() string { return c.base }

// getJSON performs one GET and decodes the response. All transport, status
// and decode failures surface here, wrapped with the request path.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", path, err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain a little of the body for the log, then discard.
		io.CopyN(io.Discard, resp.Body, 512)
		return fmt.Errorf("%s: HTTP %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}

// pageQuery builds the shared pagination parameters, encoding the filter
// bounds as epoch seconds only here, at request time.
func pageQuery(page, pageSize int, f paging.Filter) (url.Values, error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(pageSize))

	start, end, err := f.Epoch()
	if err != nil {
		return nil, err
	}
	if start != nil {
		v.Set("start_timestamp", strconv.FormatInt(*start, 10))
	}
	if end != nil {
		v.Set("end_timestamp", strconv.FormatInt(*end, 10))
	}
	return v, nil
}

// ListConversations fetches one page of the plain listing.
func (c *Client) ListConversations(ctx context.Context, page, pageSize int, f paging.Filter) (conversation.PageEnvelope, error) {
	var env conversation.PageEnvelope
	q, err := pageQuery(page, pageSize, f)
	if err != nil {
		return env, err
	}
	err = c.getJSON(ctx, "/conversations", q, &env)
	return env, err
}

// SearchConversations fetches one page of full-text search results.
func (c *Client) SearchConversations(ctx context.Context, query string, page, pageSize int, f paging.Filter) (conversation.PageEnvelope, error) {
	var env conversation.PageEnvelope
	q, err := pageQuery(page, pageSize, f)
	if err != nil {
		return env, err
	}
	q.Set("q", query)
	err = c.getJSON(ctx, "/conversations/search", q, &env)
	return env, err
}

// GetConversation fetches the full detail record with all versions.
func (c *Client) GetConversation(ctx context.Context, id string) (*conversation.Conversation, error) {
	var conv conversation.Conversation
	if err := c.getJSON(ctx, "/conversations/"+url.PathEscape(id), nil, &conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// AudioURL returns the stream URL for one version's audio. The player
// consumes it directly; nothing is downloaded here.
func (c *Client) AudioURL(conversationID, versionID string) string {
	return c.base + "/conversations/" + url.PathEscape(conversationID) + "/audio/" + url.PathEscape(versionID)
}

// TriggerSync asks the server to rescan its recordings directory. A sync
// already in flight is not an error.
func (c *Client) TriggerSync(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/index/sync", nil)
	if err != nil {
		return fmt.Errorf("creating sync request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting sync: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("/index/sync: HTTP %d", resp.StatusCode)
	}
	return nil
}

// Health probes the server.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/health", nil, &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("server reports status %q", out.Status)
	}
	return nil
}
