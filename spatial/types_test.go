// Copyright 2025 The ChapaUY Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePoint(t *testing.T) {
	tests := []struct {
		input   string
		want    Point
		wantErr bool
	}{
		{"-6.2088,106.8456", Point{Lat: -6.2088, Lng: 106.8456}, false},
		{" -34.9011 , -56.1645 ", Point{Lat: -34.9011, Lng: -56.1645}, false},
		{"-6.2088", Point{}, true},
		{"abc,106", Point{}, true},
		{"91,0", Point{}, true},
		{"", Point{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePoint(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidPoint)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPointStringRoundTrip(t *testing.T) {
	p := Point{Lat: -6.2088, Lng: 106.8456}
	assert.Equal(t, "-6.2088,106.8456", p.String())

	back, err := ParsePoint(p.String())
	require.NoError(t, err)
	assert.Equal(t, p, back)
}

func TestHaversineDistance(t *testing.T) {
	jakarta := Point{Lat: -6.2088, Lng: 106.8456}
	bandung := Point{Lat: -6.9175, Lng: 107.6191}

	assert.InDelta(t, 0, jakarta.HaversineDistance(jakarta), 1e-6)
	// ~116 km as the crow flies
	assert.InDelta(t, 116_000, jakarta.HaversineDistance(bandung), 2_000)
	assert.InDelta(t, jakarta.HaversineDistance(bandung), bandung.HaversineDistance(jakarta), 1e-6)
}

func TestCell(t *testing.T) {
	p := Point{Lat: -6.2088, Lng: 106.8456}

	cell, err := p.Cell(DefaultCellResolution)
	require.NoError(t, err)
	assert.Len(t, cell, 15)

	same, err := Point{Lat: -6.20881, Lng: 106.84561}.Cell(DefaultCellResolution)
	require.NoError(t, err)
	assert.Equal(t, cell, same)

	_, err = p.Cell(42)
	assert.Error(t, err)
}
