// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package sentinel

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	assert.Equal(t, Unavailable, String(""))
	assert.Equal(t, "+62 21 555", String("+62 21 555"))
}

func TestFloatJSON(t *testing.T) {
	tests := []struct {
		name string
		in   Float
		want string
	}{
		{"unavailable", Float{}, `"N/A"`},
		{"value", NewFloat(4.5), `4.5`},
		{"zero is a value", NewFloat(0), `0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))

			var back Float
			require.NoError(t, json.Unmarshal(b, &back))
			assert.Equal(t, tt.in, back)
		})
	}
}

func TestFloatUnmarshalRejectsUnknownStrings(t *testing.T) {
	var f Float
	assert.Error(t, json.Unmarshal([]byte(`"four"`), &f))
}

func TestFloatString(t *testing.T) {
	assert.Equal(t, "N/A", Float{}.String())
	assert.Equal(t, "4.7", NewFloat(4.7).String())

	v := 3.0
	assert.Equal(t, "3", FloatPtr(&v).String())
	assert.Equal(t, Unavailable, FloatPtr(nil).String())
}
