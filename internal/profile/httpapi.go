package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/flaviengibs/chess-sub000/pkg/chessdto"
)

// HTTP talks to a remote profile service: GET /profiles/{identity} and
// POST /results. 5xx responses are retried with exponential backoff.
type HTTP struct {
	baseURL string
	client  *fasthttp.Client

	defaultTimeout time.Duration
	retryMax       int
}

type HTTPOption func(*HTTP)

func WithTimeout(d time.Duration) HTTPOption {
	return func(c *HTTP) { c.defaultTimeout = d }
}

func WithRetry(max int) HTTPOption {
	return func(c *HTTP) { c.retryMax = max }
}

func NewHTTP(baseURL string, opts ...HTTPOption) *HTTP {
	c := &HTTP{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 64},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTP) Fetch(ctx context.Context, identity, displayName string) (*chessdto.Profile, error) {
	var p chessdto.Profile
	err := c.doJSON(ctx, fasthttp.MethodGet, "/profiles/"+identity, nil, &p, true)
	if err != nil {
		return nil, err
	}
	if p.Identity == "" {
		p.Identity = identity
	}
	if displayName != "" {
		p.DisplayName = displayName
	}
	if p.Rating == 0 {
		p.Rating = DefaultRating
	}
	return &p, nil
}

func (c *HTTP) SaveResult(ctx context.Context, res *Result) error {
	if res == nil {
		return nil
	}
	return c.doJSON(ctx, fasthttp.MethodPost, "/results", res, nil, true)
}

func (c *HTTP) Close() error { return nil }

func (c *HTTP) doJSON(ctx context.Context, method, path string, in any, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetContentType("application/json")
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := c.client.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("profile api request: %w", err)
			if attempt == attempts {
				return lastErr
			}
			if serr := sleepWithContext(ctx, backoffDuration(attempt)); serr != nil {
				return lastErr
			}
			continue
		}
		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			lastErr = fmt.Errorf("profile api error: status=%d body=%s", status, truncate(string(resp.Body()), 512))
			if attempt == attempts || !shouldRetryStatus(status) {
				return lastErr
			}
			if serr := sleepWithContext(ctx, backoffDuration(attempt)); serr != nil {
				return lastErr
			}
			continue
		}
		if out != nil {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}
	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (c *HTTP) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
