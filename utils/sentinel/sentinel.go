// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

// Package sentinel holds the placeholder used for fields that could not be
// fetched, and value types that render it.
package sentinel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Unavailable marks a field that was not fetched or is empty upstream.
const Unavailable = "N/A"

// String returns s, or Unavailable when s is empty.
func String(s string) string {
	if s == "" {
		return Unavailable
	}

	return s
}

// Float is an optional number. The zero value is unavailable and serializes
// as the "N/A" string.
type Float struct {
	value float64
	valid bool
}

// NewFloat returns an available Float.
func NewFloat(v float64) Float {
	return Float{value: v, valid: true}
}

// FloatPtr converts an optional upstream value.
func FloatPtr(v *float64) Float {
	if v == nil {
		return Float{}
	}

	return NewFloat(*v)
}

func (f Float) String() string {
	if !f.valid {
		return Unavailable
	}

	return strconv.FormatFloat(f.value, 'f', -1, 64)
}

// MarshalJSON implements json.Marshaler.
func (f Float) MarshalJSON() ([]byte, error) {
	if !f.valid {
		return json.Marshal(Unavailable)
	}

	return json.Marshal(f.value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Float) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = Float{}

		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		if s != Unavailable {
			return fmt.Errorf("sentinel: unexpected string %q", s)
		}

		*f = Float{}

		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	*f = NewFloat(v)

	return nil
}
