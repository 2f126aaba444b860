package parser

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrEmptyResponse indicates the provider returned no usable content.
var ErrEmptyResponse = errors.New("empty response from provider")

// MalformedResponseError indicates the provider's content could not be
// decoded as the expected JSON object.
type MalformedResponseError struct {
	Content string
	Err     error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed provider response: %v (raw: %s)", e.Err, truncate(e.Content, 200))
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ProviderError indicates a failed call to the provider: a transport
// error (Err set) or a non-2xx status other than 429.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s API call failed: %v", e.Provider, e.Err)
	}
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, truncate(e.Body, 200))
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates an extractor provider returned HTTP 429.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
	Provider   string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s rate limited (retry after %s): %v", e.Provider, e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// NewRateLimitError creates a RateLimitError. If retryAfterSecs is 0, defaults to 60s.
func NewRateLimitError(provider string, err error, retryAfterSecs int) *RateLimitError {
	if retryAfterSecs <= 0 {
		retryAfterSecs = 60
	}
	return &RateLimitError{
		Err:        err,
		RetryAfter: time.Duration(retryAfterSecs) * time.Second,
		Provider:   provider,
	}
}

// ParseRetryAfterHeader parses a Retry-After header value into seconds.
// Returns 0 if the value is empty or not a valid integer.
func ParseRetryAfterHeader(val string) int {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return secs
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
