// internal/adapters/upstream/client.go
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"concierge/internal/adapters/observability"
	"concierge/internal/domain"
)

type Options struct {
	Timeout         time.Duration
	RPS             int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	UserAgent       string
	MaxBodyBytes    int64
}

// Client performs GETs against one upstream service. It never retries: a
// failed call is reported to the caller, and after BreakerFailures
// consecutive failures further calls are rejected until BreakerTimeout passes.
type Client struct {
	service string
	hc      *http.Client
	rl      *rate.Limiter
	cb      *gobreaker.CircuitBreaker[*response]
	ua      string
	max     int64
}

type response struct {
	body        []byte
	contentType string
}

var (
	ErrNotFound     = fmt.Errorf("upstream: not found: %w", domain.ErrTransport)
	ErrUnauthorized = fmt.Errorf("upstream: unauthorized: %w", domain.ErrTransport)
	ErrForbidden    = fmt.Errorf("upstream: forbidden: %w", domain.ErrTransport)
)

// StatusError is any other non-success response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bad status %d: %s", e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrTransport }

func New(service string, o Options) *Client {
	if o.RPS <= 0 {
		o.RPS = 5
	}
	if o.Timeout <= 0 {
		o.Timeout = 20 * time.Second
	}
	if o.BreakerFailures == 0 {
		o.BreakerFailures = 5
	}
	if o.BreakerTimeout <= 0 {
		o.BreakerTimeout = time.Minute
	}
	if o.UserAgent == "" {
		o.UserAgent = "concierge/1.0"
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 8 << 20
	}

	observability.ObserveBreaker(service, 0)
	threshold := o.BreakerFailures
	cb := gobreaker.NewCircuitBreaker[*response](gobreaker.Settings{
		Name:        service,
		MaxRequests: 1,
		Timeout:     o.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("service", name).Str("from", from.String()).Str("to", to.String()).Msg("upstream breaker state change")
			observability.ObserveBreaker(name, stateToFloat(to))
		},
		// a caller giving up is not an upstream failure
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		service: service,
		hc:      &http.Client{Timeout: o.Timeout},
		rl:      rate.NewLimiter(rate.Limit(o.RPS), o.RPS),
		cb:      cb,
		ua:      o.UserAgent,
		max:     o.MaxBodyBytes,
	}
}

// GetJSON fetches url and decodes the body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	resp, err := c.fetch(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("%s: %w: %v", c.service, domain.ErrDecode, err)
	}
	return nil
}

// GetBytes fetches url and returns the raw body, e.g. an image.
func (c *Client) GetBytes(ctx context.Context, url string) (domain.Image, error) {
	resp, err := c.fetch(ctx, url, "*/*")
	if err != nil {
		return domain.Image{}, err
	}
	if len(resp.body) == 0 {
		return domain.Image{}, fmt.Errorf("%s: empty body: %w", c.service, domain.ErrDecode)
	}
	ct := resp.contentType
	if ct == "" {
		ct = http.DetectContentType(resp.body)
	}
	return domain.Image{Bytes: resp.body, ContentType: ct}, nil
}

func (c *Client) fetch(ctx context.Context, url, accept string) (*response, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrTransport, err)
	}

	resp, err := c.cb.Execute(func() (*response, error) {
		return c.do(ctx, url, accept)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrTransport, err)
		}
		return nil, err
	}
	return resp, nil
}

func (c *Client) do(ctx context.Context, url, accept string) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.service, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.ua)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(c.service, 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrTransport, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %w: %w", c.service, domain.ErrTransport, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(c.service, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNonAuthoritativeInfo:
		body, err := io.ReadAll(io.LimitReader(resp.Body, c.max+1))
		if err != nil {
			return nil, fmt.Errorf("%s: read body: %w: %w", c.service, domain.ErrTransport, err)
		}
		if int64(len(body)) > c.max {
			return nil, fmt.Errorf("%s: body exceeds %d bytes: %w", c.service, c.max, domain.ErrDecode)
		}
		return &response{body: body, contentType: resp.Header.Get("Content-Type")}, nil

	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", c.service, ErrNotFound)

	case http.StatusUnauthorized:
		return nil, fmt.Errorf("%s: %w", c.service, ErrUnauthorized)

	case http.StatusForbidden:
		return nil, fmt.Errorf("%s: %w", c.service, ErrForbidden)

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(b))}
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
