package orcid

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sethgrid/pester"
)

const (
	// DefaultBaseURL is the public API, no token required.
	DefaultBaseURL = "https://pub.orcid.org/v3.0"
	// DefaultTimeout for a single request.
	DefaultTimeout = 10 * time.Second
	// MaxDetailsLength limits how much of an error response body is kept.
	MaxDetailsLength = 500
)

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	StatusCode int
	URL        string
	Body       string // truncated to MaxDetailsLength characters
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("orcid: HTTP %d while fetching %s", e.StatusCode, e.URL)
}

// Client fetches records and search results from the registry. The zero value
// is not usable, set at least Doer or use NewClient.
type Client struct {
	Doer      Doer
	BaseURL   string
	Token     string // optional bearer token
	UserAgent string
}

// NewClient returns a client against the public API, using a retrying HTTP
// client with exponential backoff.
func NewClient(token string) *Client {
	return &Client{
		Doer:    NewRetryClient(3, DefaultTimeout),
		BaseURL: DefaultBaseURL,
		Token:   token,
	}
}

// NewRetryClient returns a pester client, which retries on network errors,
// 5xx and 429 responses.
func NewRetryClient(maxRetries int, timeout time.Duration) *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = maxRetries
	client.RetryOnHTTP429 = true
	client.Timeout = timeout
	return client
}

// Authenticated is true if requests carry a bearer token.
func (c *Client) Authenticated() bool {
	return c.Token != ""
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimSuffix(c.BaseURL, "/")
}

// Record fetches the full record for an identifier and returns the raw JSON
// body. The identifier is not validated here.
func (c *Client) Record(ctx context.Context, id string) ([]byte, error) {
	link := fmt.Sprintf("%s/%s", c.baseURL(), url.PathEscape(id))
	return c.get(ctx, link)
}

// get issues a GET request and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	resp, err := c.Doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("orcid: request failed: %w", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("orcid: reading body failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			URL:        link,
			Body:       Truncate(string(b), MaxDetailsLength),
		}
	}
	return b, nil
}

// Truncate shortens s to at most n characters.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	var i int
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
