package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/i474232898/weather-plant-advisor/internal/logger"
	"github.com/i474232898/weather-plant-advisor/internal/weather"
)

// HTTPClientConfig bundles the HTTP client and outbound pacing.
type HTTPClientConfig struct {
	Client  *http.Client
	Limiter *rate.Limiter // nil disables pacing
}

var (
	errNoHTTPClient = errors.New("http client not configured")
	errUnexpected   = errors.New("unexpected status code")
)

// failureWarnThreshold is the consecutive-failure count at which an endpoint
// is reported as degraded.
const failureWarnThreshold = 5

// newCircuitBreaker counts outcomes per endpoint. It never opens: every fetch
// issues its request and reports the result, and a run of failures is logged
// instead.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	log := logger.Named("openmeteo")
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:     name,
		Interval: 1 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= failureWarnThreshold {
				log.Warnw("Endpoint failing repeatedly", "endpoint", name, "consecutive_failures", counts.ConsecutiveFailures)
			}
			return false
		},
	})
}

// buildURL appends the query to base. Failures map to weather.ErrInvalidURL.
func buildURL(base string, query url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %w", weather.ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q is not absolute", weather.ErrInvalidURL, base)
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// doRequest issues a single GET through the circuit breaker. No retries are
// attempted; any failure maps to weather.ErrTransport.
func doRequest(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, rawURL string) (*http.Response, error) {
	if cfg.Client == nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrTransport, errNoHTTPClient)
	}
	if cfg.Limiter != nil {
		if err := cfg.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait canceled: %w", weather.ErrTransport, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrInvalidURL, err)
	}
	req.Header.Set("Accept", "application/json")

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := cfg.Client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", weather.ErrTransport, err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", weather.ErrTransport)
	}
	return resp, nil
}

// getJSON fetches rawURL and decodes the body into target.
func getJSON(ctx context.Context, cfg HTTPClientConfig, cb *gobreaker.CircuitBreaker, rawURL string, target interface{}) error {
	resp, err := doRequest(ctx, cfg, cb, rawURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: %w", weather.ErrDecode, err)
	}
	return nil
}
