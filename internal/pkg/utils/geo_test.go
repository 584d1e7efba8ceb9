package utils

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	// один градус по меридиану ~111.19 км
	d := HaversineDistance(0, 0, 1, 0)
	assert.InDelta(t, 111.19, d, 0.01)

	assert.Equal(t, 0.0, HaversineDistance(41.38, 2.17, 41.38, 2.17))
}

func TestNearestPointOnSegment(t *testing.T) {
	tests := []struct {
		name     string
		p, a, b  orb.Point
		expected orb.Point
		t        float64
	}{
		{
			name:     "projection inside segment",
			p:        orb.Point{0.001, 0.5},
			a:        orb.Point{0, 0},
			b:        orb.Point{0, 1},
			expected: orb.Point{0, 0.5},
			t:        0.5,
		},
		{
			name:     "clamped to start",
			p:        orb.Point{0, -1},
			a:        orb.Point{0, 0},
			b:        orb.Point{0, 1},
			expected: orb.Point{0, 0},
			t:        0,
		},
		{
			name:     "clamped to end",
			p:        orb.Point{0, 3},
			a:        orb.Point{0, 0},
			b:        orb.Point{0, 1},
			expected: orb.Point{0, 1},
			t:        1,
		},
		{
			name:     "degenerate segment",
			p:        orb.Point{1, 1},
			a:        orb.Point{0, 0},
			b:        orb.Point{0, 0},
			expected: orb.Point{0, 0},
			t:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, pos := NearestPointOnSegment(tt.p, tt.a, tt.b)
			assert.InDelta(t, tt.expected.Lon(), got.Lon(), 1e-9)
			assert.InDelta(t, tt.expected.Lat(), got.Lat(), 1e-9)
			assert.InDelta(t, tt.t, pos, 1e-9)
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	assert.True(t, ValidateCoordinates(41.38, 2.17))
	assert.False(t, ValidateCoordinates(91, 0))
	assert.False(t, ValidateCoordinates(0, -181))
}
