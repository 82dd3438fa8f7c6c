// internal/client/client.go
//
// HTTP client for the quote endpoints.
//   - Quote(ctx): GET /quotes?dt=<now> (dt busts intermediary caches).
//   - Daily(ctx): GET /quotes/daily.
//
// Every failure (transport, non-2xx, bad body) comes back as *FetchError.
// Nothing is retried; the caller decides whether to ask again.

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/robalobadob/unquotable/internal/cipher"
)

// FetchError reports a failed call to the quote server.
type FetchError struct {
	Op     string // "quote" or "daily"
	Status int    // HTTP status, 0 when no response was received
	Err    error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e == nil {
		return "fetch error"
	}
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Client talks to an Unquotable server.
type Client struct {
	base string
	http *http.Client
	now  func() time.Time
}

// New creates a client for baseURL. A nil httpClient uses a client with a
// 15s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: httpClient,
		now:  time.Now,
	}
}

// Quote fetches a freshly enciphered random quote.
func (c *Client) Quote(ctx context.Context) (cipher.EncryptedQuote, error) {
	q := url.Values{"dt": {c.now().UTC().Format(time.RFC3339Nano)}}
	var eq cipher.EncryptedQuote
	err := c.get(ctx, "quote", "/quotes?"+q.Encode(), &eq)
	return eq, err
}

// Daily fetches the quote of the day.
func (c *Client) Daily(ctx context.Context) (cipher.EncryptedQuote, error) {
	var eq cipher.EncryptedQuote
	err := c.get(ctx, "daily", "/quotes/daily", &eq)
	return eq, err
}

func (c *Client) get(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return &FetchError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if json.NewDecoder(resp.Body).Decode(&body) == nil && body.Error != "" {
			msg = body.Error
		}
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("server returned %s", msg)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
