package llm

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
	}{
		{"generic error", errors.New("connection reset"), KindService},
		{"timeout", errors.New("context deadline exceeded"), KindService},
		{"invalid api key", errors.New("invalid api key"), KindAuth},
		{"authentication failed", errors.New("authentication failed"), KindAuth},
		{"unauthorized", errors.New("unauthorized request"), KindAuth},
		{"401 status", errors.New("HTTP 401: not allowed"), KindAuth},
		{"403 status", errors.New("HTTP 403: forbidden"), KindAuth},
		{"rate limit", errors.New("rate limit exceeded"), KindRateLimit},
		{"quota exceeded", errors.New("quota exceeded for model"), KindRateLimit},
		{"429 status", errors.New("HTTP 429: too many requests"), KindRateLimit},
		{"credit balance", errors.New("insufficient credit balance"), KindRateLimit},
		{"wrapped error", fmt.Errorf("complete: %w", errors.New("rate limit hit")), KindRateLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			var apiErr *APIError
			if !errors.As(got, &apiErr) {
				t.Fatalf("Classify(%v) = %v, want *APIError", tt.err, got)
			}
			if apiErr.Kind != tt.kind {
				t.Errorf("Classify(%v).Kind = %v, want %v", tt.err, apiErr.Kind, tt.kind)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classified error should wrap the original")
			}
		})
	}

	t.Run("nil error", func(t *testing.T) {
		if got := Classify(nil); got != nil {
			t.Errorf("Classify(nil) = %v, want nil", got)
		}
	})
}
