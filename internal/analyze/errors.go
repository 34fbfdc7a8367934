package analyze

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed provider request.
type ErrorKind string

const (
	ErrorNetwork   ErrorKind = "network"
	ErrorAuth      ErrorKind = "auth"
	ErrorQuota     ErrorKind = "quota"
	ErrorMalformed ErrorKind = "malformed"
)

// RequestError is a classified provider failure. The orchestrator treats
// every kind the same way, as "analysis unavailable for this chapter"; the
// kind exists for display and logging.
type RequestError struct {
	Kind   ErrorKind
	Status int // HTTP status when one was received, else zero
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (HTTP %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// classifyStatus maps an HTTP error status to an error kind.
func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrorAuth
	case http.StatusPaymentRequired, http.StatusTooManyRequests:
		return ErrorQuota
	default:
		return ErrorNetwork
	}
}

// Classify wraps err as a RequestError, guessing a kind from the message
// when err is not already classified.
func Classify(err error) *RequestError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*RequestError); ok {
		return re
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "429"):
		return &RequestError{Kind: ErrorQuota, Err: err}
	case strings.Contains(e, "unauthorized"), strings.Contains(e, "api key"), strings.Contains(e, "401"):
		return &RequestError{Kind: ErrorAuth, Err: err}
	case strings.Contains(e, "decode"), strings.Contains(e, "unmarshal"), strings.Contains(e, "empty choices"):
		return &RequestError{Kind: ErrorMalformed, Err: err}
	default:
		return &RequestError{Kind: ErrorNetwork, Err: err}
	}
}
