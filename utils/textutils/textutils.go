// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package textutils provides small string helpers shared by the CLI and the
// web server.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var countPrinter = message.NewPrinter(language.English)

// LowerASCIIFolding normalizes a string by removing accents, lowercasing, and trimming spaces.
func LowerASCIIFolding(s string) string {
	s, _, _ = transform.String(
		transform.Chain(
			norm.NFD,
			runes.Remove(runes.In(unicode.Mn)),
			norm.NFC,
		),
		strings.TrimSpace(strings.ToLower(s)),
	)

	return s
}

// Slug turns a free-text query into a file-name friendly token:
// "Café  Bandung!" becomes "cafe-bandung".
func Slug(s string) string {
	var sb strings.Builder

	dash := false

	for _, r := range LowerASCIIFolding(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)

			dash = false
		} else if !dash && sb.Len() > 0 {
			sb.WriteByte('-')

			dash = true
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}

// CollapseSpaces trims s and replaces every run of whitespace with a single space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Count renders n with thousands separators ("2,301").
func Count(n int) string {
	return countPrinter.Sprintf("%d", n)
}
