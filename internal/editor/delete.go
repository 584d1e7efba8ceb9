package editor

import (
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/geometry"
)

// keepWithData - осиротевшие точки с данными сохраняются
func keepWithData(p *geometry.Point) bool {
	return p.DataObject() != nil
}

// removePoint удаляет изолированную точку из графа и с карты
func (e *Editor) removePoint(p *geometry.Point) {
	if p == nil || !e.graph.Has(p.ID()) {
		return
	}
	if _, err := e.graph.Remove(p.ID()); err != nil {
		e.logger.Warn("Failed to remove point", zap.String("feature_id", p.ID()), zap.Error(err))
		return
	}
	e.detachLayers(p)
	e.forget(p.ID())
}

// deletePoint удаляет вершину из всех объектов, выполняя действие каждого
// RemoveVertex, затем удаляет саму точку
func (e *Editor) deletePoint(p *geometry.Point, keep func(*geometry.Point) bool) {
	for _, l := range e.graph.BoundLinears(p) {
		action := l.RemoveVertex(p)
		switch action.Type {
		case geometry.ActionDoNothing:
			e.render(l)
		case geometry.ActionDeleteFeature:
			e.deleteLinear(l, keep)
		case geometry.ActionDeleteRing:
			poly, ok := l.(*geometry.Polygon)
			if !ok {
				continue
			}
			for _, orphan := range poly.RemoveRing(action.RingIndex) {
				if orphan != p && !keep(orphan) {
					e.removePoint(orphan)
				}
			}
			e.render(poly)
		}
	}
	e.removePoint(p)
}

// deleteLinear удаляет объект и его вершины, оставшиеся без объектов
func (e *Editor) deleteLinear(l geometry.Linear, keep func(*geometry.Point) bool) {
	if !e.graph.Has(l.ID()) {
		return
	}
	orphans, err := e.graph.Remove(l.ID())
	if err != nil {
		e.logger.Warn("Failed to remove feature", zap.String("feature_id", l.ID()), zap.Error(err))
		return
	}
	e.detachLayers(l)
	e.forget(l.ID())

	for _, p := range orphans {
		if keep(p) {
			e.render(p)
			continue
		}
		e.removePoint(p)
	}
}

// deleteFeatures удаляет объекты по id с каскадом
func (e *Editor) deleteFeatures(ids []string) {
	for _, id := range ids {
		f, ok := e.graph.Lookup(id)
		if !ok {
			continue
		}
		switch feature := f.(type) {
		case *geometry.Point:
			e.deletePoint(feature, keepWithData)
		case geometry.Linear:
			e.deleteLinear(feature, keepWithData)
		}
	}
	e.logger.Debug("Features deleted", zap.Int("count", len(ids)))
}
