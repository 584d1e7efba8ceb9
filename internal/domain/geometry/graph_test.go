package geometry_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-editor/internal/domain/geometry"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

func TestGraph_AddLookupRemove(t *testing.T) {
	g := geometry.NewGraph()
	pts := makePoints(orb.Point{0, 0}, orb.Point{0, 1}, orb.Point{0, 2})
	for _, p := range pts {
		require.NoError(t, g.Add(p))
	}
	line := newLine(t, pts)
	require.NoError(t, g.Add(line))

	err := g.Add(line)
	assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)

	f, err := g.Feature("line")
	require.NoError(t, err)
	assert.Same(t, line, f)

	_, err = g.Feature("missing")
	assert.ErrorIs(t, err, apperrors.ErrFeatureNotFound)

	assert.Equal(t, 4, g.Len())
	assert.Len(t, g.Points(), 3)
	assert.Len(t, g.Linears(), 1)

	orphans, err := g.Remove("line")
	require.NoError(t, err)
	assert.ElementsMatch(t, pts, orphans)
	for _, p := range pts {
		assert.True(t, p.IsIsolated())
	}
	assert.False(t, g.Has("line"))
}

func TestGraph_RemoveKeepsSharedVertices(t *testing.T) {
	g := geometry.NewGraph()
	pts := makePoints(orb.Point{0, 0}, orb.Point{0, 1}, orb.Point{1, 1})
	for _, p := range pts {
		require.NoError(t, g.Add(p))
	}
	a, err := geometry.NewLineString("a", []*geometry.Point{pts[0], pts[1]})
	require.NoError(t, err)
	b, err := geometry.NewLineString("b", []*geometry.Point{pts[1], pts[2]})
	require.NoError(t, err)
	require.NoError(t, g.Add(a))
	require.NoError(t, g.Add(b))

	orphans, err := g.Remove("a")
	require.NoError(t, err)
	assert.Equal(t, []*geometry.Point{pts[0]}, orphans)
	assert.True(t, pts[1].IsBoundTo("b"))
}

func TestGraph_MovePointUpdatesBoundFeatures(t *testing.T) {
	g := geometry.NewGraph()
	pts := makePoints(orb.Point{0, 0}, orb.Point{0, 1})
	for _, p := range pts {
		require.NoError(t, g.Add(p))
	}
	line := newLine(t, pts)
	require.NoError(t, g.Add(line))

	moved := g.MovePoint(pts[1], orb.Point{2, 2})
	require.Len(t, moved, 1)
	assert.Equal(t, orb.LineString{{0, 0}, {2, 2}}, line.Geometry())
	assert.Equal(t, orb.Point{2, 2}, line.Bound().Max)
}

func TestGraph_SharingSegment(t *testing.T) {
	g := geometry.NewGraph()
	pts := makePoints(orb.Point{0, 0}, orb.Point{0, 1}, orb.Point{1, 1}, orb.Point{1, 0})
	for _, p := range pts {
		require.NoError(t, g.Add(p))
	}
	line, err := geometry.NewLineString("line", []*geometry.Point{pts[1], pts[0]})
	require.NoError(t, err)
	poly, err := geometry.NewPolygon("poly", [][]*geometry.Point{pts}, geometry.WithLockedRings())
	require.NoError(t, err)
	other, err := geometry.NewLineString("other", []*geometry.Point{pts[0], pts[2]})
	require.NoError(t, err)
	for _, f := range []geometry.Feature{line, poly, other} {
		require.NoError(t, g.Add(f))
	}

	sharing := g.SharingSegment(pts[0], pts[1])
	ids := make([]string, 0, len(sharing))
	for _, l := range sharing {
		ids = append(ids, l.ID())
	}
	assert.ElementsMatch(t, []string{"line", "poly"}, ids)
	assert.Equal(t, "0", line.GetSegmentPath(pts[0], pts[1]))
	assert.Equal(t, "0.0", poly.GetSegmentPath(pts[0], pts[1]))
}

func TestLineString_SplitAt(t *testing.T) {
	pts := makePoints(orb.Point{0, 0}, orb.Point{0, 1}, orb.Point{0, 2}, orb.Point{0, 3})
	line := newLine(t, pts)
	line.Properties().Color = "#ff0000"

	tail, err := line.SplitAt(pts[1], "tail")
	require.NoError(t, err)

	assert.Equal(t, []*geometry.Point{pts[0], pts[1]}, line.Vertices(0))
	assert.Equal(t, []*geometry.Point{pts[1], pts[2], pts[3]}, tail.Vertices(0))
	assert.Equal(t, "#ff0000", tail.Properties().Color)
	assert.ElementsMatch(t, []string{"line", "tail"}, pts[1].BoundFeatures())
	assert.Equal(t, []string{"tail"}, pts[2].BoundFeatures())
	assert.Equal(t, orb.LineString{{0, 0}, {0, 1}}, line.Geometry())

	_, err = line.SplitAt(pts[0], "x")
	assert.ErrorIs(t, err, apperrors.ErrInvalidPath)

	loopPts := makePoints(orb.Point{0, 0}, orb.Point{0, 1}, orb.Point{1, 1})
	loop := newLine(t, []*geometry.Point{loopPts[0], loopPts[1], loopPts[2], loopPts[0]})
	_, err = loop.SplitAt(loopPts[1], "y")
	assert.ErrorIs(t, err, apperrors.ErrInvalidGeometry)
}
