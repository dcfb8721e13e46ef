package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

var (
	// ErrMalformed indicates a response body without the expected structure.
	ErrMalformed = errors.New("malformed response body")
	// ErrEmptyPage indicates the listing reported products but no page size
	// could be derived from the configuration or the first page.
	ErrEmptyPage = errors.New("listing page size is zero")
)

// ErrorKind labels a failed request for logs and metrics.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindConnection  ErrorKind = "connection"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "not_found"
	KindRateLimited ErrorKind = "rate_limited"
	KindStatus      ErrorKind = "status"
	KindDecode      ErrorKind = "decode"
	KindOther       ErrorKind = "other"
)

// RequestError wraps a failed API call with its classification.
type RequestError struct {
	Kind   ErrorKind
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func decodeError(err error) error {
	return &RequestError{Kind: KindDecode, Err: err}
}

func errorTypeLabel(err error) string {
	if err == nil {
		return "unknown"
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return string(reqErr.Kind)
	}
	return string(KindOther)
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &RequestError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &RequestError{Kind: KindTimeout, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &RequestError{Kind: KindConnection, Err: err}
	}

	if statusCode >= http.StatusBadRequest || (statusCode != 0 && err != nil) {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		kind := KindStatus
		switch statusCode {
		case http.StatusForbidden:
			kind = KindForbidden
		case http.StatusNotFound:
			kind = KindNotFound
		case http.StatusTooManyRequests:
			kind = KindRateLimited
		}
		return &RequestError{Kind: kind, Status: statusCode, Err: wrapped}
	}

	if err == nil {
		return nil
	}
	return &RequestError{Kind: KindOther, Err: err}
}
