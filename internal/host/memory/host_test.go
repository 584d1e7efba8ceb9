package memory_test

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/host/memory"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

func addFeature(t *testing.T, h *memory.Host, id string, g orb.Geometry, layerType editor.LayerType) {
	t.Helper()
	f := geojson.NewFeature(g)
	f.ID = id
	f.Properties["selection_mode"] = "none"
	require.NoError(t, h.AddSource(id, f))
	require.NoError(t, h.AddLayer(editor.Layer{ID: id + "-layer", Type: layerType, Source: id}, ""))
}

func TestHost_LayerOrdering(t *testing.T) {
	h := memory.New()
	f := geojson.NewFeature(orb.Point{0, 0})
	require.NoError(t, h.AddSource("s", f))

	require.NoError(t, h.AddLayer(editor.Layer{ID: "a", Source: "s"}, ""))
	require.NoError(t, h.AddLayer(editor.Layer{ID: "b", Source: "s"}, ""))
	require.NoError(t, h.AddLayer(editor.Layer{ID: "c", Source: "s"}, "a"))
	assert.Equal(t, []string{"c", "a", "b"}, h.LayersOrder())

	require.NoError(t, h.MoveLayer("c", ""))
	assert.Equal(t, []string{"a", "b", "c"}, h.LayersOrder())

	require.NoError(t, h.MoveLayer("b", "a"))
	assert.Equal(t, []string{"b", "a", "c"}, h.LayersOrder())

	require.NoError(t, h.RemoveLayer("a"))
	assert.Equal(t, []string{"b", "c"}, h.LayersOrder())
}

func TestHost_Errors(t *testing.T) {
	h := memory.New()
	f := geojson.NewFeature(orb.Point{0, 0})
	require.NoError(t, h.AddSource("s", f))
	require.NoError(t, h.AddLayer(editor.Layer{ID: "l", Source: "s"}, ""))

	tests := []struct {
		name    string
		call    func() error
		wantErr error
	}{
		{"duplicate source", func() error { return h.AddSource("s", f) }, apperrors.ErrAlreadyExists},
		{"duplicate layer", func() error { return h.AddLayer(editor.Layer{ID: "l", Source: "s"}, "") }, apperrors.ErrAlreadyExists},
		{"missing source for layer", func() error { return h.AddLayer(editor.Layer{ID: "x", Source: "nope"}, "") }, apperrors.ErrSourceNotFound},
		{"missing before layer", func() error { return h.AddLayer(editor.Layer{ID: "x", Source: "s"}, "nope") }, apperrors.ErrLayerNotFound},
		{"remove missing layer", func() error { return h.RemoveLayer("nope") }, apperrors.ErrLayerNotFound},
		{"move missing layer", func() error { return h.MoveLayer("nope", "") }, apperrors.ErrLayerNotFound},
		{"set data on missing source", func() error { return h.SetSourceData("nope", f) }, apperrors.ErrSourceNotFound},
		{"remove source in use", func() error { return h.RemoveSource("s") }, apperrors.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.call(), tt.wantErr)
		})
	}
}

func TestHost_Zoom(t *testing.T) {
	h := memory.New(memory.WithZoom(10))
	h.SetMinZoom(12)
	assert.Equal(t, 12.0, h.Zoom())
	assert.Equal(t, 12.0, h.SetZoom(3))
	assert.Equal(t, 17.0, h.SetZoom(17))
	assert.Equal(t, memory.DefaultMaxZoom, h.SetZoom(40))
}

func TestHost_QueryRenderedFeatures(t *testing.T) {
	h := memory.New(memory.WithZoom(18))
	addFeature(t, h, "poly", orb.Polygon{{{0, 0}, {0.001, 0}, {0.001, 0.001}, {0, 0.001}, {0, 0}}}, editor.LayerFill)
	addFeature(t, h, "line", orb.LineString{{0, 0.0005}, {0.001, 0.0005}}, editor.LayerLine)
	addFeature(t, h, "point", orb.Point{0.0005, 0.0005}, editor.LayerCircle)

	tests := []struct {
		name string
		at   orb.Point
		want []string
	}{
		{"point over line over polygon", orb.Point{0.0005, 0.0005}, []string{"point", "line", "poly"}},
		{"line over polygon", orb.Point{0.0002, 0.0005}, []string{"line", "poly"}},
		{"polygon interior", orb.Point{0.0002, 0.0002}, []string{"poly"}},
		{"outside", orb.Point{0.01, 0.01}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.QueryRenderedFeatures(tt.at, 5))
		})
	}
}

func TestHost_QueryRespectsFilter(t *testing.T) {
	h := memory.New(memory.WithZoom(18))
	f := geojson.NewFeature(orb.Point{0, 0})
	f.Properties["selection_mode"] = "none"
	require.NoError(t, h.AddSource("p", f))
	require.NoError(t, h.AddLayer(editor.Layer{
		ID: "p-highlight", Type: editor.LayerCircle, Source: "p",
		Filter: []any{"!=", []any{"get", "selection_mode"}, "none"},
	}, ""))

	assert.Empty(t, h.QueryRenderedFeatures(orb.Point{0, 0}, 5))

	f.Properties["selection_mode"] = "selected"
	require.NoError(t, h.SetSourceData("p", f))
	assert.Equal(t, []string{"p"}, h.QueryRenderedFeatures(orb.Point{0, 0}, 5))
}
