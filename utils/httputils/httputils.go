// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils provides utility functions for working with HTTP.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"regexp"
	"strings"
	"time"
)

/////////////////////////////////////////
/// RoundTrippers

// secretParamRegex matches credentials passed as query parameters, e.g. key=AIza...
var secretParamRegex = regexp.MustCompile(`(?i)\b(key|api_?key|access_token)=[^&\s"']+`)

// RedactSecrets hides credentials that travel in URLs so they never reach a log.
func RedactSecrets(s string) string {
	return secretParamRegex.ReplaceAllString(s, "$1=<redacted>")
}

// LoggingRoundTripper adds a very primitive logging to a http transaction.
// Credentials in query strings are redacted.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// abbreviate prefixes and trims dump lines so a single call cannot flood the log.
func abbreviate(lines []string, prefix rune) []string {
	const maxLines, maxChars = 256, 512

	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "…")
	}

	for i, line := range lines {
		line = fmt.Sprintf("%c %s", prefix, RedactSecrets(line))
		if len(line) > maxChars {
			line = line[:maxChars] + "…"
		}

		lines[i] = line
	}

	return lines
}

func (t *LoggingRoundTripper) write(lines []string) error {
	_, err := fmt.Fprint(t.Writer, strings.Join(append(lines, ""), "\n"))

	return err
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.transport().RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if err := t.write(abbreviate(strings.Split(string(dump), "\n"), '>')); err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	start := time.Now()

	resp, err := t.transport().RoundTrip(req)
	if err != nil {
		_ = t.write([]string{fmt.Sprintf("< ERROR: [%v] %s", time.Since(start), RedactSecrets(err.Error()))})

		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	lines := append(
		[]string{fmt.Sprintf("< RESPONSE: [%v]", time.Since(start))},
		abbreviate(strings.Split(string(dump), "\n"), '<')...,
	)
	if err := t.write(lines); err != nil {
		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	return resp, nil
}

func (t *LoggingRoundTripper) transport() http.RoundTripper {
	if t.Transport == nil {
		return http.DefaultTransport
	}

	return t.Transport
}

// AppendRequestHeadersRoundTripper adds headers to the request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}

// NewTracingClient builds the client used for upstream JSON APIs: fixed
// headers, optional request/response dumps to trace, and an overall timeout.
func NewTracingClient(timeout time.Duration, headers map[string]string, trace io.Writer, traceBody bool) *http.Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		MaxIdleConns:          64,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       30 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &AppendRequestHeadersRoundTripper{
			Headers: headers,
			Transport: &LoggingRoundTripper{
				Writer:    trace,
				DumpBody:  traceBody,
				Transport: transport,
			},
		},
	}
}
