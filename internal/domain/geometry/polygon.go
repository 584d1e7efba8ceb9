package geometry

import (
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// Polygon - внешнее кольцо и ноль или более отверстий.
// Кольца хранятся незамкнутыми; замыкающая координата добавляется в геометрию.
type Polygon struct {
	*linear
}

// NewPolygon создает полигон. Кольца без WithLockedRings остаются открытыми
// для рисования, пока не вызван LockRing.
func NewPolygon(id string, rings [][]*Point, opts ...Option) (*Polygon, error) {
	if len(rings) == 0 {
		return nil, apperrors.ErrInvalidGeometry.WithMessage("polygon %s has no rings", id)
	}

	all := make([]*Point, 0)
	for r, ring := range rings {
		if len(ring) < 2 {
			return nil, apperrors.ErrInvalidGeometry.WithMessage("ring %d of polygon %s needs at least 2 vertices", r, id)
		}
		if err := checkVertices(ring); err != nil {
			return nil, err
		}
		all = append(all, ring...)
	}
	if dup := firstDuplicate(all); dup != nil {
		return nil, apperrors.ErrDuplicateVertex.WithMessage("vertex %s repeats in polygon %s", dup.ID(), id)
	}

	p := &Polygon{linear: newLinear(id, KindPolygon, rings, opts)}
	if p.lockAll {
		for r, ring := range p.rings {
			if len(ring) < 3 {
				return nil, apperrors.ErrInvalidGeometry.WithMessage("locked ring %d of polygon %s needs at least 3 vertices", r, id)
			}
		}
	}
	p.bindAll()
	p.recompute()
	return p, nil
}

// LockRing завершает рисование кольца; флаг необратим
func (p *Polygon) LockRing(ring int) {
	if ring < 0 || ring >= len(p.locked) {
		return
	}
	p.locked[ring] = true
}

// AddRing добавляет отверстие, открытое для рисования
func (p *Polygon) AddRing(vertices []*Point) error {
	if len(vertices) < 2 {
		return apperrors.ErrInvalidGeometry.WithMessage("ring needs at least 2 vertices")
	}
	if err := checkVertices(vertices); err != nil {
		return err
	}
	if dup := firstDuplicate(vertices); dup != nil {
		return apperrors.ErrDuplicateVertex.WithMessage("vertex %s repeats in ring", dup.ID())
	}
	for _, v := range vertices {
		if p.ContainsVertex(v) {
			return apperrors.ErrDuplicateVertex.WithMessage("vertex %s already belongs to polygon %s", v.ID(), p.id)
		}
	}

	p.rings = append(p.rings, append([]*Point(nil), vertices...))
	p.locked = append(p.locked, false)
	for _, v := range vertices {
		v.bindFeature(p.id)
	}
	p.recompute()
	return nil
}

// RemoveRing удаляет отверстие и возвращает вершины, оставшиеся без объектов.
// Внешнее кольцо удалить нельзя: для этого удаляется весь полигон.
func (p *Polygon) RemoveRing(ring int) []*Point {
	if ring <= 0 || ring >= len(p.rings) {
		return nil
	}

	removed := p.rings[ring]
	p.rings = append(p.rings[:ring], p.rings[ring+1:]...)
	p.locked = append(p.locked[:ring], p.locked[ring+1:]...)

	orphans := make([]*Point, 0, len(removed))
	for _, v := range removed {
		v.unbindFeature(p.id)
		if v.IsIsolated() {
			orphans = append(orphans, v)
		}
	}
	p.recompute()
	return orphans
}
