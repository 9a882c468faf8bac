package square

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// transportConfig tunes the underlying HTTP client. Zero values fall back
// to defaults suitable for the Square API.
type transportConfig struct {
	Timeout             time.Duration
	DialTimeout         time.Duration
	KeepAlive           time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	RetryMaxAttempts    int
	RetryBackoff        time.Duration
}

// transport is a reusable HTTP client with linear-backoff retries on
// network errors and 5xx responses. 4xx responses are returned as-is;
// retrying a rejected order would not make it valid.
type transport struct {
	client *http.Client
	config transportConfig
}

func newTransport(config transportConfig) *transport {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.KeepAlive == 0 {
		config.KeepAlive = 30 * time.Second
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 100
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.RetryMaxAttempts == 0 {
		config.RetryMaxAttempts = 2
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = time.Second
	}

	return &transport{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   config.DialTimeout,
					KeepAlive: config.KeepAlive,
				}).DialContext,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
			},
		},
	}
}

type response struct {
	StatusCode int
	Body       []byte
}

// do sends the request, replaying the body on each retry attempt.
func (t *transport) do(ctx context.Context, method, url string, headers map[string]string, body []byte) (*response, error) {
	var lastErr error

	for attempt := 0; attempt <= t.config.RetryMaxAttempts; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * t.config.RetryBackoff
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := t.doOnce(ctx, method, url, headers, body)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: status %d", resp.StatusCode)
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", t.config.RetryMaxAttempts+1, lastErr)
}

func (t *transport) doOnce(ctx context.Context, method, url string, headers map[string]string, body []byte) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	httpResp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &response{
		StatusCode: httpResp.StatusCode,
		Body:       bodyBytes,
	}, nil
}
