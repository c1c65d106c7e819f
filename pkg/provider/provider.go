// Package provider contains the HTTP clients for the two external
// collaborators: the geocoding service and the driving-directions source.
// Both are consumed as black boxes; everything here is request plumbing,
// bounded timeouts, and decoding.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout     = 5 * time.Second
	defaultRetries     = 3
	defaultBackoffBase = 200 * time.Millisecond
)

type clientConfig struct {
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
}

func newClientConfig(baseURL, apiKey string, timeout time.Duration, rps float64) clientConfig {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if rps > 0 {
		limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return clientConfig{
		baseURL: baseURL,
		apiKey:  apiKey,
		timeout: timeout,
		limiter: limiter,
	}
}

// getJSON one rate-limited GET with a bounded timeout, decoding the body
// into out.
func getJSON(ctx context.Context, client *http.Client, cfg clientConfig, url string, out interface{}) error {
	if err := cfg.limiter.Wait(ctx); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
