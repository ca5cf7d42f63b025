package llm

import (
	"fmt"
	"strings"
)

// Kind categorizes a failed provider call.
type Kind string

const (
	// KindAuth means the credential was rejected.
	KindAuth Kind = "authentication"
	// KindRateLimit means the provider throttled the request.
	KindRateLimit Kind = "rate_limited"
	// KindService covers network and provider-side failures, including
	// request timeouts.
	KindService Kind = "service"
)

// APIError is a classified provider failure.
type APIError struct {
	Kind Kind
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// authMarkers indicate a bad or rejected credential.
var authMarkers = []string{
	"invalid api key",
	"authentication",
	"unauthorized",
	"credential",
	"401",
	"403",
}

// rateLimitMarkers indicate provider throttling or exhausted quota.
var rateLimitMarkers = []string{
	"rate limit",
	"quota",
	"throttl",
	"429",
	"credit balance",
	"overloaded",
}

// Classify wraps a provider error with its failure kind. Providers return
// flat error strings, so classification is by message inspection.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range authMarkers {
		if strings.Contains(msg, marker) {
			return &APIError{Kind: KindAuth, Err: err}
		}
	}
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return &APIError{Kind: KindRateLimit, Err: err}
		}
	}
	return &APIError{Kind: KindService, Err: err}
}
