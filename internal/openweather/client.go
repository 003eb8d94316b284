// Package openweather is the OpenWeatherMap HTTP client. It translates
// provider responses into weather domain types and provider failures into
// distinct, catchable errors.
package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kjstillabower/deskmate/internal/circuitbreaker"
	"github.com/kjstillabower/deskmate/internal/observability"
	"github.com/kjstillabower/deskmate/internal/weather"
)

var (
	ErrInvalidAPIKey   = errors.New("invalid API key")
	ErrCityNotFound    = errors.New("city not found")
	ErrUpstreamFailure = errors.New("upstream failure")
	ErrRateLimited     = errors.New("rate limited")

	// ErrCircuitOpen means recent calls kept failing and the client is
	// refusing to hit the provider until a cooldown passes.
	ErrCircuitOpen = errors.New("provider circuit open")
)

const (
	endpointWeather  = "weather"
	endpointForecast = "forecast"
)

type Client struct {
	apiKey         string
	baseURL        string
	timeout        time.Duration
	client         *http.Client
	retryAttempts  int
	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	limiter        *rate.Limiter
	breaker        *circuitbreaker.Breaker
}

func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	return NewClientWithRetry(apiKey, baseURL, timeout, 3, 100*time.Millisecond, 2*time.Second, 2, 4)
}

func NewClientWithRetry(apiKey, baseURL string, timeout time.Duration, retryAttempts int, retryBaseDelay, retryMaxDelay time.Duration, rateRPS, rateBurst int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}

	var limiter *rate.Limiter
	if rateRPS > 0 {
		if rateBurst <= 0 {
			rateBurst = rateRPS
		}
		limiter = rate.NewLimiter(rate.Limit(rateRPS), rateBurst)
	}

	// Only provider health failures move the breaker. A bad key or an
	// unknown city is a healthy provider saying no.
	breaker := circuitbreaker.New(circuitbreaker.Config{
		IsFailure: isUpstreamFailure,
		OnStateChange: func(_, to circuitbreaker.State) {
			observability.CircuitBreakerTransitionsTotal.WithLabelValues(to.String()).Inc()
		},
	})

	return &Client{
		apiKey:         apiKey,
		baseURL:        baseURL,
		timeout:        timeout,
		retryAttempts:  retryAttempts,
		retryBaseDelay: retryBaseDelay,
		retryMaxDelay:  retryMaxDelay,
		limiter:        limiter,
		breaker:        breaker,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type currentResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type forecastResponse struct {
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
	} `json:"list"`
}

func (c *Client) Current(ctx context.Context, city string) (weather.Current, error) {
	var out weather.Current
	err := c.withRetry(ctx, func() error {
		body, err := c.callAPI(ctx, endpointWeather, city)
		if err != nil {
			return err
		}
		var apiResp currentResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		out = c.mapCurrent(apiResp, city)
		return nil
	})
	if err != nil {
		return weather.Current{}, err
	}
	return out, nil
}

func (c *Client) Forecast(ctx context.Context, city string) (weather.Forecast, error) {
	var out weather.Forecast
	err := c.withRetry(ctx, func() error {
		body, err := c.callAPI(ctx, endpointForecast, city)
		if err != nil {
			return err
		}
		var apiResp forecastResponse
		if err := json.Unmarshal(body, &apiResp); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		out = c.mapForecast(apiResp, city)
		return nil
	})
	if err != nil {
		return weather.Forecast{}, err
	}
	return out, nil
}

func (c *Client) withRetry(ctx context.Context, call func() error) error {
	var lastErr error

	for attempt := 0; attempt < c.retryAttempts; attempt++ {
		if attempt > 0 {
			observability.WeatherAPIRetriesTotal.Inc()
			delay := c.calculateBackoff(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		err := call()
		if err == nil {
			return nil
		}

		lastErr = err
		if !c.isRetryable(err) {
			return err
		}
	}

	return fmt.Errorf("exhausted retries: %w", lastErr)
}

func (c *Client) callAPI(ctx context.Context, endpoint, city string) ([]byte, error) {
	var body []byte
	err := c.breaker.Do(func() error {
		var callErr error
		body, callErr = c.doCall(ctx, endpoint, city)
		return callErr
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return nil, fmt.Errorf("%w: too many recent provider failures", ErrCircuitOpen)
	}
	return body, err
}

func (c *Client) doCall(ctx context.Context, endpoint, city string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, endpoint, city)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build request: %w", err)
	}

	corrID := extractCorrelationID(ctx)
	if corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		duration := time.Since(start).Seconds()
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(duration)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("request timeout: %w", err)
		}
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start).Seconds()
	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(duration)

	if err := c.handleErrorResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return body, nil
}

// isUpstreamFailure reports whether err says the provider itself is
// unhealthy: throttling, 5xx, or transport trouble.
func isUpstreamFailure(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrRateLimited) {
		return true
	}
	if errors.Is(err, ErrUpstreamFailure) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "context deadline exceeded") || strings.Contains(errStr, "context canceled")
}

// isRetryable excludes an open circuit; retrying would fail fast anyway.
func (c *Client) isRetryable(err error) bool {
	if errors.Is(err, ErrCircuitOpen) {
		return false
	}
	return isUpstreamFailure(err)
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	delay := float64(c.retryBaseDelay) * math.Pow(2, float64(attempt-1))
	if delay > float64(c.retryMaxDelay) {
		delay = float64(c.retryMaxDelay)
	}

	jitter := delay * 0.1 * rand.Float64()
	return time.Duration(delay + jitter)
}

func (c *Client) buildRequest(ctx context.Context, endpoint, city string) (*http.Request, error) {
	baseURL, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	baseURL.Path = path.Join(baseURL.Path, endpoint)

	params := url.Values{}
	params.Set("q", city)
	params.Set("appid", c.apiKey)
	params.Set("units", "metric")
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) handleErrorResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: rejected by provider", ErrInvalidAPIKey)
	case http.StatusNotFound:
		return fmt.Errorf("%w", ErrCityNotFound)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w", ErrRateLimited)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, resp.StatusCode)
	}

	return nil
}

func (c *Client) mapCurrent(apiResp currentResponse, city string) weather.Current {
	conditions := ""
	if len(apiResp.Weather) > 0 {
		conditions = apiResp.Weather[0].Main
		if apiResp.Weather[0].Description != "" {
			conditions = apiResp.Weather[0].Description
		}
	}

	displayName := apiResp.Name
	if displayName == "" {
		displayName = city
	}

	return weather.Current{
		City:        displayName,
		Country:     apiResp.Sys.Country,
		Temperature: apiResp.Main.Temp,
		FeelsLike:   apiResp.Main.FeelsLike,
		Conditions:  conditions,
		Humidity:    apiResp.Main.Humidity,
		Pressure:    apiResp.Main.Pressure,
		WindSpeed:   apiResp.Wind.Speed,
		FetchedAt:   time.Now(),
	}
}

// mapForecast reduces the provider's three-hourly list to one entry per
// calendar day at the midday reading, capped at five days.
func (c *Client) mapForecast(apiResp forecastResponse, city string) weather.Forecast {
	displayName := apiResp.City.Name
	if displayName == "" {
		displayName = city
	}

	out := weather.Forecast{
		City:      displayName,
		Country:   apiResp.City.Country,
		FetchedAt: time.Now(),
	}

	seen := make(map[string]bool)
	for _, item := range apiResp.List {
		t := time.Unix(item.Dt, 0).UTC()
		dateKey := t.Format("2006-01-02")
		if seen[dateKey] || t.Hour() != 12 {
			continue
		}

		conditions := ""
		if len(item.Weather) > 0 {
			conditions = item.Weather[0].Main
			if item.Weather[0].Description != "" {
				conditions = item.Weather[0].Description
			}
		}

		out.Days = append(out.Days, weather.ForecastDay{
			Date:       t,
			TempMin:    item.Main.TempMin,
			TempMax:    item.Main.TempMax,
			Conditions: conditions,
			Humidity:   item.Main.Humidity,
		})
		seen[dateKey] = true

		if len(out.Days) >= 5 {
			break
		}
	}

	return out
}

func extractCorrelationID(ctx context.Context) string {
	if corrIDVal := ctx.Value("correlation_id"); corrIDVal != nil {
		if corrID, ok := corrIDVal.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}

// ValidateKey probes the provider with a known city to verify the API key.
func (c *Client) ValidateKey(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := c.buildRequest(ctx, endpointWeather, "London")
	if err != nil {
		return fmt.Errorf("build validation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("validation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: API key is invalid or not activated", ErrInvalidAPIKey)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("validation failed: HTTP %d", resp.StatusCode)
	}

	return nil
}
