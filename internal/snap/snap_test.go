package snap_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/snap"
)

const zoom = 15.0

func straightLine(t *testing.T) (*geometry.LineString, []*geometry.Point) {
	t.Helper()
	pts := []*geometry.Point{
		geometry.NewPoint("a", orb.Point{0, 0}),
		geometry.NewPoint("b", orb.Point{0, 1}),
		geometry.NewPoint("c", orb.Point{0, 2}),
	}
	line, err := geometry.NewLineString("line", pts)
	require.NoError(t, err)
	return line, pts
}

func TestMetersPerPixel(t *testing.T) {
	assert.InDelta(t, 4.777, snap.MetersPerPixel(0, 15), 0.001)
	assert.InDelta(t, 4.777/2, snap.MetersPerPixel(60, 15), 0.001)
	assert.InDelta(t, 4.777*2, snap.MetersPerPixel(0, 14), 0.001)
}

func TestTrySnapPoint_Empty(t *testing.T) {
	assert.Nil(t, snap.TrySnapPoint(orb.Point{0, 0}, nil, zoom))
}

func TestTrySnapPoint_Segment(t *testing.T) {
	line, pts := straightLine(t)

	tests := []struct {
		name       string
		cursor     orb.Point
		candidates []geometry.Feature
		wantType   snap.ResultType
		wantPath   string
		wantPoint  *geometry.Point
	}{
		{
			name:       "middle of first segment",
			cursor:     orb.Point{0, 0.5},
			candidates: []geometry.Feature{line},
			wantType:   snap.TypeSegment,
			wantPath:   "0",
		},
		{
			name:       "near first vertex",
			cursor:     orb.Point{0, 0.00001},
			candidates: []geometry.Feature{line, pts[0], pts[1], pts[2]},
			wantType:   snap.TypeSegmentVertex,
			wantPath:   "0",
			wantPoint:  pts[0],
		},
		{
			name:       "near first vertex which is not a candidate",
			cursor:     orb.Point{0, 0.00001},
			candidates: []geometry.Feature{line},
			wantType:   snap.TypeSegment,
			wantPath:   "0",
		},
		{
			name:       "second segment",
			cursor:     orb.Point{0.00001, 1.5},
			candidates: []geometry.Feature{line},
			wantType:   snap.TypeSegment,
			wantPath:   "1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := snap.TrySnapPoint(tt.cursor, tt.candidates, zoom, snap.WithSnapDistancePx(5))
			require.NotNil(t, res)
			assert.Equal(t, tt.wantType, res.Type)
			assert.Equal(t, tt.wantPath, res.Path)
			assert.Same(t, line, res.Linear())
			if tt.wantPoint != nil {
				assert.Same(t, tt.wantPoint, res.Point)
				assert.Equal(t, tt.wantPoint.Coordinates(), res.Coordinates)
			} else {
				assert.Nil(t, res.Point)
				assert.LessOrEqual(t, res.DistancePx, 5.0)
			}
		})
	}
}

func TestTrySnapPoint_TooFar(t *testing.T) {
	line, _ := straightLine(t)
	// ~1.1 км от линии, при зуме 15 это ~230 px
	assert.Nil(t, snap.TrySnapPoint(orb.Point{0.01, 0.5}, []geometry.Feature{line}, zoom))

	// тот же курсор притягивается при мелком зуме
	res := snap.TrySnapPoint(orb.Point{0.01, 0.5}, []geometry.Feature{line}, 6)
	require.NotNil(t, res)
	assert.Equal(t, snap.TypeSegment, res.Type)
}

func TestTrySnapPoint_Point(t *testing.T) {
	line, _ := straightLine(t)
	lone := geometry.NewPoint("lone", orb.Point{1, 1})

	res := snap.TrySnapPoint(orb.Point{1.00001, 1}, []geometry.Feature{line, lone}, zoom)
	require.NotNil(t, res)
	assert.Equal(t, snap.TypePoint, res.Type)
	assert.Same(t, lone, res.Point)
	assert.Equal(t, orb.Point{1, 1}, res.Coordinates)
}

func TestTrySnapPoint_VertexPriority(t *testing.T) {
	a := geometry.NewPoint("a", orb.Point{0, 0})
	b := geometry.NewPoint("b", orb.Point{0, 0.00003})
	line, err := geometry.NewLineString("short", []*geometry.Point{a, b})
	require.NoError(t, err)

	// проекция в ~1.3 м от a и ~2 м от b
	cursor := orb.Point{0, 0.000012}

	res := snap.TrySnapPoint(cursor, []geometry.Feature{line, a, b}, zoom)
	require.NotNil(t, res)
	assert.Equal(t, snap.TypeSegmentVertex, res.Type)
	assert.Same(t, a, res.Point, "nearer endpoint wins")

	res = snap.TrySnapPoint(cursor, []geometry.Feature{line, b}, zoom)
	require.NotNil(t, res)
	assert.Equal(t, snap.TypeSegmentVertex, res.Type)
	assert.Same(t, b, res.Point, "the only candidate endpoint is preferred")

	resolver := snap.NewResolver(snap.Config{VertexPriorityKm: 0.001})
	res = resolver.TrySnapPoint(cursor, []geometry.Feature{line, b}, zoom)
	require.NotNil(t, res)
	assert.Equal(t, snap.TypeSegment, res.Type, "endpoint beyond priority threshold")
}

func TestTrySnapPoint_SegmentFilter(t *testing.T) {
	line, _ := straightLine(t)

	skipFirst := snap.WithSegmentFilter(func(l geometry.Linear, path string) bool {
		return l == line && path == "0"
	})
	assert.Nil(t, snap.TrySnapPoint(orb.Point{0, 0.5}, []geometry.Feature{line}, zoom, skipFirst))

	res := snap.TrySnapPoint(orb.Point{0, 1.5}, []geometry.Feature{line}, zoom, skipFirst)
	require.NotNil(t, res)
	assert.Equal(t, "1", res.Path)
}
