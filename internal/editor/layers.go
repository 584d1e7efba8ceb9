package editor

import (
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/geometry"
)

var highlightFilter = []any{"!=", []any{"get", "selection_mode"}, string(geometry.SelectionNone)}

// subLayers - фиксированный набор подслоёв объекта, снизу вверх
func subLayers(f geometry.Feature) []Layer {
	id := f.ID()
	color := []any{"get", "color"}

	switch f.Kind() {
	case geometry.KindPoint:
		return []Layer{
			{
				ID: id + "-highlight", Type: LayerCircle, Source: id,
				Paint:  map[string]any{"circle-radius": 9, "circle-color": "#ffffff", "circle-opacity": 0.6},
				Filter: highlightFilter,
			},
			{
				ID: id + "-circle", Type: LayerCircle, Source: id,
				Paint: map[string]any{"circle-radius": 5, "circle-color": color, "circle-stroke-width": 1},
			},
		}
	case geometry.KindLineString:
		return []Layer{
			{
				ID: id + "-highlight", Type: LayerLine, Source: id,
				Paint:  map[string]any{"line-width": 8, "line-color": "#ffffff", "line-opacity": 0.6},
				Layout: map[string]any{"line-cap": "round", "line-join": "round"},
				Filter: highlightFilter,
			},
			{
				ID: id + "-line", Type: LayerLine, Source: id,
				Paint:  map[string]any{"line-width": 3, "line-color": color},
				Layout: map[string]any{"line-cap": "round", "line-join": "round"},
			},
		}
	default:
		return []Layer{
			{
				ID: id + "-highlight", Type: LayerLine, Source: id,
				Paint:  map[string]any{"line-width": 8, "line-color": "#ffffff", "line-opacity": 0.6},
				Filter: highlightFilter,
			},
			{
				ID: id + "-fill", Type: LayerFill, Source: id,
				Paint: map[string]any{"fill-color": color, "fill-opacity": 0.3},
			},
			{
				ID: id + "-border", Type: LayerLine, Source: id,
				Paint: map[string]any{"line-width": 2, "line-color": color},
			},
		}
	}
}

// attachLayers добавляет источник и подслои объекта.
// Точки ложатся наверх, линии и полигоны - под самую нижнюю точку.
func (e *Editor) attachLayers(f geometry.Feature) {
	if err := e.host.AddSource(f.ID(), f.GeoJSON()); err != nil {
		e.logger.Warn("Failed to add source", zap.String("feature_id", f.ID()), zap.Error(err))
		return
	}

	before := ""
	if f.Kind() != geometry.KindPoint {
		before = e.lowestPointLayer()
	}

	ids := make([]string, 0, 3)
	for _, layer := range subLayers(f) {
		if err := e.host.AddLayer(layer, before); err != nil {
			e.logger.Warn("Failed to add layer", zap.String("layer_id", layer.ID), zap.Error(err))
			continue
		}
		ids = append(ids, layer.ID)
		e.layerOwner[layer.ID] = f.ID()
	}
	e.layers[f.ID()] = ids

	e.zCounter++
	f.Properties().Layer = e.zCounter
	e.render(f)
}

func (e *Editor) detachLayers(f geometry.Feature) {
	for _, id := range e.layers[f.ID()] {
		if err := e.host.RemoveLayer(id); err != nil {
			e.logger.Warn("Failed to remove layer", zap.String("layer_id", id), zap.Error(err))
		}
		delete(e.layerOwner, id)
	}
	delete(e.layers, f.ID())
	if err := e.host.RemoveSource(f.ID()); err != nil {
		e.logger.Warn("Failed to remove source", zap.String("feature_id", f.ID()), zap.Error(err))
	}
}

// lowestPointLayer - нижний слой, принадлежащий точке редактора
func (e *Editor) lowestPointLayer() string {
	for _, id := range e.host.LayersOrder() {
		owner, ok := e.layerOwner[id]
		if !ok {
			continue
		}
		if f, ok := e.graph.Lookup(owner); ok && f.Kind() == geometry.KindPoint {
			return id
		}
	}
	return ""
}

// raise поднимает подслои точки наверх, чтобы она оставалась кликабельной
func (e *Editor) raise(p *geometry.Point) {
	for _, id := range e.layers[p.ID()] {
		if err := e.host.MoveLayer(id, ""); err != nil {
			e.logger.Warn("Failed to move layer", zap.String("layer_id", id), zap.Error(err))
		}
	}
	e.zCounter++
	p.Properties().Layer = e.zCounter
}

// LayerStack - id подслоёв объекта снизу вверх
func (e *Editor) LayerStack(featureID string) []string {
	return append([]string(nil), e.layers[featureID]...)
}

// render отправляет актуальный GeoJSON объекта в его источник
func (e *Editor) render(features ...geometry.Feature) {
	for _, f := range features {
		if f == nil || !e.graph.Has(f.ID()) {
			continue
		}
		if err := e.host.SetSourceData(f.ID(), f.GeoJSON()); err != nil {
			e.logger.Warn("Failed to update source", zap.String("feature_id", f.ID()), zap.Error(err))
		}
	}
}

func (e *Editor) renderPoint(p *geometry.Point, bound []geometry.Linear) {
	e.render(p)
	for _, l := range bound {
		e.render(l)
	}
}

// restyle выставляет SelectionMode по выделению и наведению
func (e *Editor) restyle(id string) {
	f, ok := e.graph.Lookup(id)
	if !ok {
		return
	}
	mode := geometry.SelectionNone
	switch {
	case e.isSelected(id):
		mode = geometry.SelectionSelected
	case e.hovered == id:
		mode = geometry.SelectionHovered
	}
	if f.Properties().SelectionMode == mode {
		return
	}
	f.Properties().SelectionMode = mode
	e.render(f)
}
