package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type ClientConfig struct {
	Timeout              time.Duration
	RetryInitialInterval time.Duration
	RetryMaxElapsed      time.Duration
	MaxIdleConns         int
	IdleConnTimeout      time.Duration
	BreakerMaxFailures   uint32
	BreakerOpenTimeout   time.Duration
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.URL, e.StatusCode)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode >= 500
}

type Client struct {
	http *http.Client
	cb   *gobreaker.CircuitBreaker
	conf ClientConfig
	log  *zap.Logger
}

func NewClient(conf ClientConfig, logger *zap.Logger) *Client {
	if conf.Timeout == 0 {
		conf.Timeout = 5 * time.Second
	}
	if conf.RetryInitialInterval == 0 {
		conf.RetryInitialInterval = backoff.DefaultInitialInterval
	}
	if conf.RetryMaxElapsed == 0 {
		conf.RetryMaxElapsed = 10 * time.Second
	}
	if conf.BreakerMaxFailures == 0 {
		conf.BreakerMaxFailures = 5
	}
	if conf.BreakerOpenTimeout == 0 {
		conf.BreakerOpenTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tr := &http.Transport{
		DialContext:     (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		MaxIdleConns:    conf.MaxIdleConns,
		IdleConnTimeout: conf.IdleConnTimeout,
	}
	st := gobreaker.Settings{
		Name:        "person-source",
		MaxRequests: 1,
		Timeout:     conf.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= conf.BreakerMaxFailures
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			if errors.As(err, &se) {
				return !se.retryable()
			}
			return err == nil
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state", zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &Client{
		http: &http.Client{Transport: tr, Timeout: conf.Timeout},
		cb:   gobreaker.NewCircuitBreaker(st),
		conf: conf,
		log:  logger,
	}
}

// DoWithRetry runs req with exponential backoff inside the circuit breaker.
// 5xx responses and transport errors are retried; other non-2xx responses
// fail immediately with a *StatusError.
func (c *Client) DoWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		var resp *http.Response
		operation := func() error {
			r, err := c.http.Do(req.WithContext(ctx))
			if err != nil {
				return err
			}
			if r.StatusCode < 200 || r.StatusCode > 299 {
				// drain body and close to reuse connection
				_, _ = io.Copy(io.Discard, r.Body)
				r.Body.Close()
				se := &StatusError{URL: req.URL.String(), StatusCode: r.StatusCode}
				if se.retryable() {
					c.log.Warn("upstream error, retrying", zap.String("url", se.URL), zap.Int("status", se.StatusCode))
					return se
				}
				return backoff.Permanent(se)
			}
			resp = r
			return nil
		}

		b := backoff.NewExponentialBackOff()
		b.InitialInterval = c.conf.RetryInitialInterval
		b.MaxElapsedTime = c.conf.RetryMaxElapsed
		if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return out.(*http.Response), nil
}

// GetJSON fetches url and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.DoWithRetry(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
