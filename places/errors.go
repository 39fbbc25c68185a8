// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures of the places pipeline.
type ErrorKind int

const (
	// ErrorKindUnknown unclassified failure.
	ErrorKindUnknown ErrorKind = iota
	// ErrorKindConfigurationMissing no API key available.
	ErrorKindConfigurationMissing
	// ErrorKindUpstreamRejected the service answered with a non-OK status.
	ErrorKindUpstreamRejected
	// ErrorKindTokenExpired a continuation token was refused.
	ErrorKindTokenExpired
	// ErrorKindTransport network, timeout or decoding failure.
	ErrorKindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindConfigurationMissing:
		return "configuration_missing"
	case ErrorKindUpstreamRejected:
		return "upstream_rejected"
	case ErrorKindTokenExpired:
		return "token_expired"
	case ErrorKindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the error type returned by this package.
type Error struct {
	Kind    ErrorKind
	Status  string // upstream status, e.g. REQUEST_DENIED
	Message string
	Err     error
}

// ErrConfigurationMissing is returned when no API key is configured.
var ErrConfigurationMissing = &Error{
	Kind:    ErrorKindConfigurationMissing,
	Message: "server API key is not configured",
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Status != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Status)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches errors of the same kind, so errors.Is(err, ErrConfigurationMissing) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}

	return t == e || (t.Kind == e.Kind && t.Status == "" && t.Err == nil)
}

func kindOf(err error) ErrorKind {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Kind
	}

	return ErrorKindUnknown
}

// IsConfigurationMissing reports whether err is due to a missing API key.
func IsConfigurationMissing(err error) bool {
	return kindOf(err) == ErrorKindConfigurationMissing
}

// IsUpstreamRejected reports whether the service answered with an error status.
func IsUpstreamRejected(err error) bool {
	return kindOf(err) == ErrorKindUpstreamRejected
}

// IsTokenExpired reports whether a continuation token was refused.
func IsTokenExpired(err error) bool {
	return kindOf(err) == ErrorKindTokenExpired
}

// IsTransportError reports whether the request never produced a usable answer.
func IsTransportError(err error) bool {
	return kindOf(err) == ErrorKindTransport
}

// UpstreamStatus returns the upstream status carried by err, if any.
func UpstreamStatus(err error) string {
	var pErr *Error
	if errors.As(err, &pErr) {
		return pErr.Status
	}

	return ""
}

func rejected(status, message string) *Error {
	if message == "" {
		message = "places service rejected the request"
	}

	return &Error{Kind: ErrorKindUpstreamRejected, Status: status, Message: message}
}

func transport(message string, err error) *Error {
	return &Error{Kind: ErrorKindTransport, Message: message, Err: err}
}

// ClassifyHTTPStatus maps a non-200 HTTP answer to an Error.
func ClassifyHTTPStatus(statusCode int) *Error {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusForbidden:
		return &Error{
			Kind:    ErrorKindUpstreamRejected,
			Status:  StatusOverQueryLimit,
			Message: fmt.Sprintf("quota exceeded or access denied (HTTP %d)", statusCode),
		}
	case http.StatusBadRequest:
		return &Error{
			Kind:    ErrorKindUpstreamRejected,
			Status:  StatusInvalidRequest,
			Message: "invalid request (HTTP 400)",
		}
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return &Error{
			Kind:    ErrorKindTransport,
			Message: fmt.Sprintf("service unavailable (HTTP %d)", statusCode),
		}
	default:
		return &Error{
			Kind:    ErrorKindUnknown,
			Message: fmt.Sprintf("unexpected HTTP %d", statusCode),
		}
	}
}
