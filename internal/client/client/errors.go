package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	ErrInvalidResponse = errors.New("invalid response")
	ErrDecodingFailed  = errors.New("decoding failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNoConnectivity  = errors.New("no internet connection")
	ErrHTTPStatus      = errors.New("unexpected http status")
)

// ErrorKind classifies a NetworkError.
type ErrorKind int

const (
	KindUnderlying ErrorKind = iota
	KindInvalidResponse
	KindDecodingFailed
	KindUnauthorized
	KindNoConnectivity
	KindHTTPStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidResponse:
		return "invalid_response"
	case KindDecodingFailed:
		return "decoding_failed"
	case KindUnauthorized:
		return "unauthorized"
	case KindNoConnectivity:
		return "no_connectivity"
	case KindHTTPStatus:
		return "http_status"
	default:
		return "underlying"
	}
}

// NetworkError is returned by GitHubClient for every failed request.
// StatusCode and Body are set for KindUnauthorized and KindHTTPStatus.
type NetworkError struct {
	Kind       ErrorKind
	StatusCode int
	Body       []byte
	// Message is the API's error message, if the body carried one.
	Message string
	Err     error
}

func (e *NetworkError) Error() string {
	var s string
	switch e.Kind {
	case KindUnauthorized, KindHTTPStatus:
		s = fmt.Sprintf("%s: status %d", e.sentinel(), e.StatusCode)
		if e.Message != "" {
			s += ": " + e.Message
		}
	default:
		s = e.sentinel().Error()
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is matches the sentinel of e's kind.
func (e *NetworkError) Is(target error) bool {
	s := e.sentinel()
	return s != nil && target == s
}

func (e *NetworkError) sentinel() error {
	switch e.Kind {
	case KindInvalidResponse:
		return ErrInvalidResponse
	case KindDecodingFailed:
		return ErrDecodingFailed
	case KindUnauthorized:
		return ErrUnauthorized
	case KindNoConnectivity:
		return ErrNoConnectivity
	case KindHTTPStatus:
		return ErrHTTPStatus
	default:
		return errUnderlying
	}
}

var errUnderlying = errors.New("request failed")

// transportError classifies an error returned by http.Client.Do.
func transportError(err error) *NetworkError {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &NetworkError{Kind: KindUnderlying, Err: err}
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ENETUNREACH) ||
		errors.Is(err, syscall.EHOSTUNREACH) {
		return &NetworkError{Kind: KindNoConnectivity, Err: err}
	}
	return &NetworkError{Kind: KindUnderlying, Err: err}
}
