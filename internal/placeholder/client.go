package placeholder

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// PostFetcher fetches the demo posts. Implemented by *Client; tests swap in fakes.
type PostFetcher interface {
	FetchPosts(ctx context.Context) ([]Post, error)
}

// Ensure Client implements PostFetcher at compile time.
var _ PostFetcher = (*Client)(nil)

// Post is one record of the posts endpoint.
type Post struct {
	UserID int    `json:"userId"`
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Client talks to the public demo endpoint.
type Client struct {
	postsURL  *url.URL
	http      *http.Client
	userAgent string
}

const (
	DefaultPostsURL  = "https://jsonplaceholder.typicode.com/posts"
	defaultUserAgent = "sluggish/0.1"
	requestTimeout   = 10 * time.Second
)

// NewClient builds a Client for rawURL. basePath, when set, is prefixed to the
// URL path.
func NewClient(rawURL, basePath string) (*Client, error) {
	u, err := parsePostsURL(rawURL, basePath)
	if err != nil {
		return nil, err
	}
	return &Client{
		postsURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// URL returns the resolved posts URL.
func (c *Client) URL() string { return c.postsURL.String() }

// FetchPosts issues one GET and decodes the JSON array.
func (c *Client) FetchPosts(ctx context.Context) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []Post
	if err := c.get(ctx, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.postsURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", c.postsURL.Path, resp.StatusCode)
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parsePostsURL(rawURL, basePath string) (*url.URL, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		trimmed = DefaultPostsURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse fetch_url %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse fetch_url %q: missing host", rawURL)
	}
	if base := strings.Trim(strings.TrimSpace(basePath), "/"); base != "" {
		u.Path = "/" + path.Join(base, strings.TrimPrefix(u.Path, "/"))
	}
	u.Fragment = ""
	return u, nil
}
