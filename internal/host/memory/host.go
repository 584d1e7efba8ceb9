// Package memory - движок карты без отрисовки: хранит источники и слои редактора
// и отвечает на запросы попадания по геометрии источников.
package memory

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/map-editor/internal/editor"
	apperrors "github.com/map-editor/internal/pkg/errors"
	"github.com/map-editor/internal/pkg/utils"
	"github.com/map-editor/internal/snap"
)

const (
	DefaultZoom    = 16.0
	DefaultMaxZoom = 22.0
)

// Host - реализация editor.Host в памяти. Не потокобезопасна.
type Host struct {
	sources map[string]*geojson.Feature
	layers  []editor.Layer

	zoom    float64
	minZoom float64
	bounds  orb.Bound
}

type Option func(*Host)

func WithZoom(zoom float64) Option {
	return func(h *Host) {
		h.zoom = zoom
	}
}

// WithBounds задаёт видимую область; по умолчанию виден весь мир
func WithBounds(b orb.Bound) Option {
	return func(h *Host) {
		h.bounds = b
	}
}

func New(opts ...Option) *Host {
	h := &Host{
		sources: make(map[string]*geojson.Feature),
		zoom:    DefaultZoom,
		bounds:  orb.Bound{Min: orb.Point{-180, -90}, Max: orb.Point{180, 90}},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) AddSource(id string, data *geojson.Feature) error {
	if _, ok := h.sources[id]; ok {
		return apperrors.ErrAlreadyExists.WithMessage("source %s already exists", id)
	}
	h.sources[id] = data
	return nil
}

// RemoveSource удаляет источник; слои, ссылающиеся на него, должны быть удалены раньше
func (h *Host) RemoveSource(id string) error {
	if _, ok := h.sources[id]; !ok {
		return apperrors.ErrSourceNotFound.WithMessage("source %s not found", id)
	}
	for _, l := range h.layers {
		if l.Source == id {
			return apperrors.ErrInvalidRequest.WithMessage("source %s is used by layer %s", id, l.ID)
		}
	}
	delete(h.sources, id)
	return nil
}

func (h *Host) SetSourceData(id string, data *geojson.Feature) error {
	if _, ok := h.sources[id]; !ok {
		return apperrors.ErrSourceNotFound.WithMessage("source %s not found", id)
	}
	h.sources[id] = data
	return nil
}

// Source возвращает данные источника
func (h *Host) Source(id string) (*geojson.Feature, bool) {
	f, ok := h.sources[id]
	return f, ok
}

func (h *Host) AddLayer(layer editor.Layer, beforeID string) error {
	if h.layerIndex(layer.ID) >= 0 {
		return apperrors.ErrAlreadyExists.WithMessage("layer %s already exists", layer.ID)
	}
	if _, ok := h.sources[layer.Source]; !ok {
		return apperrors.ErrSourceNotFound.WithMessage("layer %s references missing source %s", layer.ID, layer.Source)
	}
	at := len(h.layers)
	if beforeID != "" {
		if at = h.layerIndex(beforeID); at < 0 {
			return apperrors.ErrLayerNotFound.WithMessage("layer %s not found", beforeID)
		}
	}
	h.insertAt(at, layer)
	return nil
}

func (h *Host) RemoveLayer(id string) error {
	i := h.layerIndex(id)
	if i < 0 {
		return apperrors.ErrLayerNotFound.WithMessage("layer %s not found", id)
	}
	h.layers = append(h.layers[:i], h.layers[i+1:]...)
	return nil
}

func (h *Host) MoveLayer(id, beforeID string) error {
	i := h.layerIndex(id)
	if i < 0 {
		return apperrors.ErrLayerNotFound.WithMessage("layer %s not found", id)
	}
	if beforeID != "" && h.layerIndex(beforeID) < 0 {
		return apperrors.ErrLayerNotFound.WithMessage("layer %s not found", beforeID)
	}
	layer := h.layers[i]
	h.layers = append(h.layers[:i], h.layers[i+1:]...)

	at := len(h.layers)
	if beforeID != "" {
		at = h.layerIndex(beforeID)
	}
	h.insertAt(at, layer)
	return nil
}

func (h *Host) LayersOrder() []string {
	ids := make([]string, 0, len(h.layers))
	for _, l := range h.layers {
		ids = append(ids, l.ID)
	}
	return ids
}

// Layers - описания слоёв снизу вверх
func (h *Host) Layers() []editor.Layer {
	return append([]editor.Layer(nil), h.layers...)
}

func (h *Host) Zoom() float64 {
	return h.zoom
}

// SetZoom меняет зум с учётом минимального
func (h *Host) SetZoom(zoom float64) float64 {
	h.zoom = math.Min(math.Max(zoom, h.minZoom), DefaultMaxZoom)
	return h.zoom
}

func (h *Host) SetMinZoom(zoom float64) {
	h.minZoom = zoom
	if h.zoom < zoom {
		h.zoom = zoom
	}
}

func (h *Host) MinZoom() float64 {
	return h.minZoom
}

func (h *Host) Bounds() orb.Bound {
	return h.bounds
}

func (h *Host) SetBounds(b orb.Bound) {
	h.bounds = b
}

// QueryRenderedFeatures проходит слои сверху вниз и возвращает id источников,
// геометрия которых попадает в радиус radiusPx от точки
func (h *Host) QueryRenderedFeatures(at orb.Point, radiusPx float64) []string {
	tolerance := radiusPx * snap.MetersPerPixel(at.Lat(), h.zoom) / 1000

	seen := make(map[string]struct{})
	out := make([]string, 0)
	for i := len(h.layers) - 1; i >= 0; i-- {
		layer := h.layers[i]
		if _, ok := seen[layer.Source]; ok {
			continue
		}
		data, ok := h.sources[layer.Source]
		if !ok || data == nil || !matchFilter(layer.Filter, data.Properties) {
			continue
		}
		if !hit(layer.Type, data.Geometry, at, tolerance) {
			continue
		}
		seen[layer.Source] = struct{}{}
		out = append(out, layer.Source)
	}
	return out
}

func (h *Host) layerIndex(id string) int {
	for i, l := range h.layers {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (h *Host) insertAt(i int, layer editor.Layer) {
	h.layers = append(h.layers, editor.Layer{})
	copy(h.layers[i+1:], h.layers[i:])
	h.layers[i] = layer
}

// hit - попадание точки в геометрию слоя с допуском toleranceKm
func hit(t editor.LayerType, g orb.Geometry, at orb.Point, toleranceKm float64) bool {
	switch t {
	case editor.LayerCircle:
		p, ok := g.(orb.Point)
		return ok && utils.PointDistanceKm(at, p) <= toleranceKm
	case editor.LayerLine:
		for _, ls := range lines(g) {
			for i := 0; i+1 < len(ls); i++ {
				proj, _ := utils.NearestPointOnSegment(at, ls[i], ls[i+1])
				if utils.PointDistanceKm(at, proj) <= toleranceKm {
					return true
				}
			}
		}
	case editor.LayerFill:
		poly, ok := g.(orb.Polygon)
		return ok && planar.PolygonContains(poly, at)
	}
	return false
}

func lines(g orb.Geometry) []orb.LineString {
	switch geom := g.(type) {
	case orb.LineString:
		return []orb.LineString{geom}
	case orb.Polygon:
		out := make([]orb.LineString, 0, len(geom))
		for _, r := range geom {
			out = append(out, orb.LineString(r))
		}
		return out
	}
	return nil
}

// matchFilter поддерживает выражения вида ["==" | "!=", ["get", key], value]
func matchFilter(filter []any, props geojson.Properties) bool {
	if len(filter) != 3 {
		return true
	}
	op, _ := filter[0].(string)
	get, ok := filter[1].([]any)
	if !ok || len(get) != 2 {
		return true
	}
	key, _ := get[1].(string)
	equal := props[key] == filter[2]
	switch op {
	case "==":
		return equal
	case "!=":
		return !equal
	}
	return true
}
