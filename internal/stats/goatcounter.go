package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"go.uber.org/fx"

	"github.com/uybinhphan/goatcounter-bot/internal/config"
)

// Module provides the GoatCounter client, or nil when stats are not
// configured. The bot answers /stats with a hint in that case.
var Module = fx.Provide(func(cfg *config.Config) *Client {
	if cfg.Stats.Site == "" {
		return nil
	}
	return New(cfg.Stats.Site, os.Getenv("GOAT_API_KEY"))
})

const (
	defaultMaxAttempts = 3
	retryDelay         = 1 * time.Second
)

// Client talks to the GoatCounter API v0 for one site.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	maxAttempts int
}

func New(site, apiKey string) *Client {
	return NewWithBaseURL(fmt.Sprintf("https://%s.goatcounter.com/api/v0", site), apiKey)
}

// NewWithBaseURL exists so tests can point the client at a local server.
func NewWithBaseURL(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 20 * time.Second},
		maxAttempts: defaultMaxAttempts,
	}
}

type PathHits struct {
	Path        string `json:"path"`
	Count       int    `json:"count"`
	CountUnique int    `json:"count_unique"`
}

type Hits struct {
	TotalCount  int        `json:"total_count"`
	TotalUnique int        `json:"total_unique"`
	Paths       []PathHits `json:"paths"`
}

type hitsResponse struct {
	Hits
	Error  string          `json:"error"`
	Errors json.RawMessage `json:"errors"`
}

// Hits fetches pageview statistics for a date range. The GoatCounter API is
// rate limited; when the X-Rate-Limit-Remaining header says the budget is
// spent, the client waits out X-Rate-Limit-Reset and tries again, up to
// maxAttempts.
func (c *Client) Hits(ctx context.Context, start, end time.Time, limit int) (*Hits, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		hits, wait, err := c.hitsOnce(ctx, start, end, limit)
		if err == nil {
			return hits, nil
		}
		lastErr = err

		if attempt == c.maxAttempts-1 {
			break
		}
		delay := retryDelay
		if wait > 0 {
			delay = wait
		}
		if err := sleepCtx(ctx, delay); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *Client) hitsOnce(ctx context.Context, start, end time.Time, limit int) (*Hits, time.Duration, error) {
	params := url.Values{
		"start": {start.Format("2006-01-02")},
		"end":   {end.Format("2006-01-02")},
		"limit": {strconv.Itoa(limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/stats/hits?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("goatcounter request failed: %w", err)
	}
	defer resp.Body.Close()

	if wait := rateLimitWait(resp.Header); wait > 0 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, wait, fmt.Errorf("goatcounter rate limit exhausted")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read goatcounter response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("goatcounter returned %d: %s", resp.StatusCode, body)
	}

	var parsed hitsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to parse goatcounter response: %w", err)
	}
	if parsed.Error != "" {
		return nil, 0, fmt.Errorf("goatcounter API error: %s", parsed.Error)
	}
	if len(parsed.Errors) > 0 && string(parsed.Errors) != "null" {
		return nil, 0, fmt.Errorf("goatcounter API errors: %s", parsed.Errors)
	}

	return &parsed.Hits, 0, nil
}

// rateLimitWait reads the X-Rate-Limit headers and returns how long to wait
// before retrying, or 0 when budget remains.
func rateLimitWait(h http.Header) time.Duration {
	remaining := headerInt(h, "X-Rate-Limit-Remaining", 4)
	if remaining > 0 {
		return 0
	}
	reset := headerInt(h, "X-Rate-Limit-Reset", 0)
	if reset < 1 {
		reset = 1
	}
	return time.Duration(reset) * time.Second
}

func headerInt(h http.Header, key string, fallback int) int {
	v := h.Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
