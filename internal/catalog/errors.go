package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors returned by every Source.
var (
	ErrNotConfigured = errors.New("backend not configured")
	ErrRateLimited   = errors.New("backend rate limited")
	ErrNotFound      = errors.New("airdrop not found")
)

// StatusError reports a non-success HTTP response from the hosted store.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("api %s returned status %d", e.Path, e.Status)
	if e.Status == http.StatusTooManyRequests {
		msg += " (Too Many Requests)"
	}
	if body := strings.TrimSpace(e.Body); body != "" {
		msg += ": " + body
	}
	return msg
}

// Unwrap maps well-known statuses onto the sentinel errors.
func (e *StatusError) Unwrap() error {
	switch e.Status {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrNotConfigured
	default:
		return nil
	}
}

// Failure is the user-facing category of a fetch error.
type Failure int

const (
	FailureNone Failure = iota
	FailureConfig
	FailureRateLimited
	FailureNotFound
	FailureGeneric
)

// Classify buckets err for display. A nil error is FailureNone.
func Classify(err error) Failure {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNotConfigured):
		return FailureConfig
	case errors.Is(err, ErrRateLimited), strings.Contains(err.Error(), "Too Many Requests"):
		return FailureRateLimited
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	default:
		return FailureGeneric
	}
}

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureConfig:
		return "config"
	case FailureRateLimited:
		return "rate_limited"
	case FailureNotFound:
		return "not_found"
	default:
		return "generic"
	}
}

// Message returns the text shown to the user.
func (f Failure) Message() string {
	switch f {
	case FailureNone:
		return ""
	case FailureConfig:
		return "Backend configuration is missing. Please check your configuration."
	case FailureRateLimited:
		return "We're experiencing high traffic. Please try again in a moment."
	case FailureNotFound:
		return "This airdrop could not be found."
	default:
		return "There was an error loading the data. Please try again later."
	}
}

// Retryable reports whether retrying the same request can succeed.
func (f Failure) Retryable() bool {
	return f == FailureRateLimited || f == FailureGeneric
}

// HTTPStatus is the status the web server answers with for f.
func (f Failure) HTTPStatus() int {
	switch f {
	case FailureNone:
		return http.StatusOK
	case FailureConfig:
		return http.StatusServiceUnavailable
	case FailureRateLimited:
		return http.StatusTooManyRequests
	case FailureNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
