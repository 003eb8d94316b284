package openweather

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestCategorizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"nil", nil, ""},
		{"deadline exceeded", context.DeadlineExceeded, ErrorCategoryTimeout},
		{"canceled", context.Canceled, ErrorCategoryTimeout},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorCategoryNetwork},
		{"network unreachable", errors.New("network is unreachable"), ErrorCategoryNetwork},
		{"invalid key", fmt.Errorf("%w: rejected by provider", ErrInvalidAPIKey), ErrorCategoryInvalidAPIKey},
		{"city not found", fmt.Errorf("fetch weather for atlantis: %w", ErrCityNotFound), ErrorCategoryCityNotFound},
		{"rate limited", fmt.Errorf("exhausted retries: %w", ErrRateLimited), ErrorCategoryRateLimited},
		{"circuit open", fmt.Errorf("%w: too many recent provider failures", ErrCircuitOpen), ErrorCategoryCircuitOpen},
		{"upstream 5xx", fmt.Errorf("%w: HTTP 503", ErrUpstreamFailure), ErrorCategoryUpstream5xx},
		{"timeout message", errors.New("request timeout: something"), ErrorCategoryTimeout},
		{"parse failure", errors.New("parse response: unexpected end of JSON input"), ErrorCategoryParsing},
		{"validation", errors.New("city name validation failed"), ErrorCategoryValidation},
		{"cache", errors.New("cache write failed"), ErrorCategoryCache},
		{"unknown", errors.New("something odd"), ErrorCategoryUnknown},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CategorizeError(tc.err); got != tc.want {
				t.Errorf("CategorizeError(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}

// TestCategorizeError_SentinelsWinOverMessageText verifies that a wrapped
// sentinel beats message heuristics. "invalid API key" contains "invalid"
// but must categorize as the key error, not generic validation.
func TestCategorizeError_SentinelsWinOverMessageText(t *testing.T) {
	err := fmt.Errorf("fetch weather for paris: %w", ErrInvalidAPIKey)
	if got := CategorizeError(err); got != ErrorCategoryInvalidAPIKey {
		t.Errorf("CategorizeError() = %q, want %q", got, ErrorCategoryInvalidAPIKey)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"invalid key", ErrInvalidAPIKey, "invalid API key (set WEATHER_API_KEY or config/secrets.yaml)"},
		{"city not found", fmt.Errorf("fetch weather for atlantis: %w", ErrCityNotFound), "city not found"},
		{"rate limited", ErrRateLimited, "rate limited by the weather provider, try again shortly"},
		{"upstream", fmt.Errorf("%w: HTTP 500", ErrUpstreamFailure), "weather provider is unavailable"},
		{"circuit open", ErrCircuitOpen, "weather provider keeps failing, backing off before retrying"},
		{"timeout", context.DeadlineExceeded, "request timed out"},
		{"network", errors.New("dial tcp: connection refused"), "no internet connection"},
		{"fallback", errors.New("something odd"), "something odd"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := UserMessage(tc.err); got != tc.want {
				t.Errorf("UserMessage(%v) = %q, want %q", tc.err, got, tc.want)
			}
		})
	}
}
