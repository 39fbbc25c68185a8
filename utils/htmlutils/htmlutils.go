// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package htmlutils provides utility functions for working with HTML.
package htmlutils

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jcodagnone/placescout/utils/textutils"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// AsDocument parses r as HTML. contentType may carry a charset (as in an HTTP
// Content-Type header); an empty value lets the parser sniff it.
func AsDocument(r io.Reader, contentType string) (*goquery.Document, error) {
	rr, err := charset.NewReader(r, contentType)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	n, err := html.Parse(rr)
	if err != nil {
		return nil, fmt.Errorf("parsing body as HTML: %w", err)
	}

	return goquery.NewDocumentFromNode(n), nil
}

// Text returns the whitespace-collapsed text of the first node in s, or ""
// when s is empty.
func Text(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}

	return textutils.CollapseSpaces(s.First().Text())
}

// Attr returns the trimmed value of attribute name on the first node in s.
func Attr(s *goquery.Selection, name string) string {
	v, ok := s.First().Attr(name)
	if !ok {
		return ""
	}

	return strings.TrimSpace(v)
}

// Outer renders a node back to markup, useful in logs and error messages.
func Outer(s *goquery.Selection) string {
	out, err := goquery.OuterHtml(s.First())
	if err != nil {
		return ""
	}

	return out
}
