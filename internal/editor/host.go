package editor

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LayerType - тип слоя отрисовки
type LayerType string

const (
	LayerCircle LayerType = "circle"
	LayerLine   LayerType = "line"
	LayerFill   LayerType = "fill"
)

// Layer - описание слоя, передаваемое движку отрисовки
type Layer struct {
	ID     string         `json:"id"`
	Type   LayerType      `json:"type"`
	Source string         `json:"source"`
	Paint  map[string]any `json:"paint,omitempty"`
	Layout map[string]any `json:"layout,omitempty"`
	Filter []any          `json:"filter,omitempty"`
}

// Host - движок отрисовки карты, в который редактор отдаёт источники и слои.
// Один источник на объект; id источника совпадает с id объекта.
type Host interface {
	AddSource(id string, data *geojson.Feature) error
	RemoveSource(id string) error
	SetSourceData(id string, data *geojson.Feature) error

	// AddLayer добавляет слой под слоем beforeID; пустой beforeID - наверх
	AddLayer(layer Layer, beforeID string) error
	RemoveLayer(id string) error
	// MoveLayer перемещает слой под beforeID; пустой beforeID - наверх
	MoveLayer(id, beforeID string) error
	// LayersOrder - id слоёв снизу вверх
	LayersOrder() []string

	Zoom() float64
	SetMinZoom(zoom float64)
	Bounds() orb.Bound

	// QueryRenderedFeatures - id объектов под точкой в радиусе radiusPx, сверху вниз
	QueryRenderedFeatures(at orb.Point, radiusPx float64) []string
}
