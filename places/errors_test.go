// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package places

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"configuration", ErrConfigurationMissing, ErrorKindConfigurationMissing},
		{"wrapped configuration", fmt.Errorf("starting: %w", ErrConfigurationMissing), ErrorKindConfigurationMissing},
		{"rejected", rejected(StatusRequestDenied, "denied"), ErrorKindUpstreamRejected},
		{"token", &Error{Kind: ErrorKindTokenExpired}, ErrorKindTokenExpired},
		{"transport", transport("dial", errors.New("refused")), ErrorKindTransport},
		{"foreign", errors.New("boom"), ErrorKindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind == ErrorKindConfigurationMissing, IsConfigurationMissing(tt.err))
			assert.Equal(t, tt.kind == ErrorKindUpstreamRejected, IsUpstreamRejected(tt.err))
			assert.Equal(t, tt.kind == ErrorKindTokenExpired, IsTokenExpired(tt.err))
			assert.Equal(t, tt.kind == ErrorKindTransport, IsTransportError(tt.err))
		})
	}
}

func TestErrorsIsMatchesKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: ErrorKindConfigurationMissing, Message: "no key"})

	assert.ErrorIs(t, err, ErrConfigurationMissing)
	assert.NotErrorIs(t, rejected(StatusRequestDenied, ""), ErrConfigurationMissing)
}

func TestErrorMessage(t *testing.T) {
	err := rejected(StatusRequestDenied, "The provided API key is invalid.")
	assert.Equal(t, "The provided API key is invalid. (REQUEST_DENIED)", err.Error())
	assert.Equal(t, StatusRequestDenied, UpstreamStatus(fmt.Errorf("x: %w", err)))

	cause := errors.New("connection refused")
	terr := transport("places request failed", cause)
	assert.Equal(t, "places request failed: connection refused", terr.Error())
	assert.ErrorIs(t, terr, cause)

	assert.Equal(t, "places service rejected the request (UNKNOWN_ERROR)", rejected(StatusUnknownError, "").Error())
}

func TestClassifyHTTPStatus(t *testing.T) {
	tests := []struct {
		code   int
		kind   ErrorKind
		status string
	}{
		{http.StatusTooManyRequests, ErrorKindUpstreamRejected, StatusOverQueryLimit},
		{http.StatusForbidden, ErrorKindUpstreamRejected, StatusOverQueryLimit},
		{http.StatusBadRequest, ErrorKindUpstreamRejected, StatusInvalidRequest},
		{http.StatusBadGateway, ErrorKindTransport, ""},
		{http.StatusServiceUnavailable, ErrorKindTransport, ""},
		{http.StatusTeapot, ErrorKindUnknown, ""},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.code), func(t *testing.T) {
			err := ClassifyHTTPStatus(tt.code)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "configuration_missing", ErrorKindConfigurationMissing.String())
	assert.Equal(t, "token_expired", ErrorKindTokenExpired.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}
