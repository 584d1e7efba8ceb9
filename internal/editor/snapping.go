package editor

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/snap"
)

// snapCandidates - видимые объекты, к которым может притянуться moving.
// Исключаются сама точка и связанные с ней объекты; у открытой линии, где
// moving - конец, исключается только прилегающий отрезок, чтобы дальний конец
// оставался доступен для замыкания петли.
func (e *Editor) snapCandidates(moving *geometry.Point) ([]geometry.Feature, snap.SegmentFilter) {
	view := e.host.Bounds()
	skip := make(map[string]string)
	excluded := make(map[string]struct{})

	if moving != nil {
		excluded[moving.ID()] = struct{}{}
		for _, l := range e.graph.BoundLinears(moving) {
			if path, ok := inwardSegment(l, moving); ok {
				skip[l.ID()] = path
				continue
			}
			excluded[l.ID()] = struct{}{}
		}
	}

	out := make([]geometry.Feature, 0)
	for _, f := range e.graph.Features() {
		if _, ok := excluded[f.ID()]; ok {
			continue
		}
		if !view.Intersects(f.Bound()) {
			continue
		}
		out = append(out, f)
	}

	if len(skip) == 0 {
		return out, nil
	}
	return out, func(l geometry.Linear, path string) bool {
		p, ok := skip[l.ID()]
		return ok && p == path
	}
}

// inwardSegment - путь отрезка, прилегающего к концу v открытой линии
func inwardSegment(l geometry.Linear, v *geometry.Point) (string, bool) {
	ls, ok := l.(*geometry.LineString)
	if !ok || ls.IsLoop() {
		return "", false
	}
	vertices := ls.Vertices(0)
	n := len(vertices)
	if n < 3 {
		return "", false
	}
	switch v {
	case vertices[0]:
		return ls.GetSegmentPath(vertices[0], vertices[1]), true
	case vertices[n-1]:
		return ls.GetSegmentPath(vertices[n-2], vertices[n-1]), true
	}
	return "", false
}

// resolveSnap возвращает ближайшую цель (raw) и её же, если фиксация допустима (valid)
func (e *Editor) resolveSnap(moving *geometry.Point, at orb.Point) (raw, valid *snap.Result) {
	candidates, filter := e.snapCandidates(moving)
	opts := make([]snap.Option, 0, 1)
	if filter != nil {
		opts = append(opts, snap.WithSegmentFilter(filter))
	}
	raw = e.snapper.TrySnapPoint(at, candidates, e.host.Zoom(), opts...)
	if raw != nil && e.canCommitSnap(moving, raw) {
		valid = raw
	}
	return raw, valid
}

// canCommitSnap проверяет фиксацию на всех объектах, которые она затронет
func (e *Editor) canCommitSnap(moving *geometry.Point, r *snap.Result) bool {
	switch r.Type {
	case snap.TypePoint, snap.TypeSegmentVertex:
		target := r.Point
		if target == nil || target == moving {
			return false
		}
		if moving == nil {
			return true
		}
		if moving.DataObject() != nil && target.DataObject() != nil {
			return false
		}
		for _, l := range e.graph.BoundLinears(moving) {
			if !l.CanAcceptVertex(target, l.GetVertexPath(moving)) {
				return false
			}
		}
		return true

	case snap.TypeSegment:
		l := r.Linear()
		if l == nil {
			return false
		}
		a, b := l.GetSegmentVertices(r.Path)
		if a == nil || b == nil {
			return false
		}
		probe := moving
		if probe == nil {
			probe = geometry.NewPoint(uuid.NewString(), r.Coordinates)
		}
		for _, s := range e.graph.SharingSegment(a, b) {
			if !s.CanInsertVertex(probe, s.GetSegmentPath(a, b)) {
				return false
			}
		}
		return true
	}
	return false
}

// commitSnap фиксирует притяжение moving к цели.
// Возвращает точку, которая заняла место moving.
func (e *Editor) commitSnap(moving *geometry.Point, r *snap.Result) *geometry.Point {
	switch r.Type {
	case snap.TypePoint, snap.TypeSegmentVertex:
		target := r.Point
		bound := e.graph.BoundLinears(moving)
		for _, l := range bound {
			l.ReplaceVertex(target, moving)
		}
		if target.DataObject() == nil && moving.DataObject() != nil {
			obj := moving.DataObject()
			_ = moving.SetDataObject(nil)
			if err := target.SetDataObject(obj); err != nil {
				_ = moving.SetDataObject(obj)
			}
		}
		e.removePoint(moving)
		e.raise(target)
		e.renderPoint(target, bound)
		return target

	case snap.TypeSegment:
		e.insertIntoSegment(moving, r)
		return moving
	}
	return moving
}

// insertIntoSegment ставит p в проекцию и вставляет во все объекты с этим отрезком
func (e *Editor) insertIntoSegment(p *geometry.Point, r *snap.Result) {
	l := r.Linear()
	a, b := l.GetSegmentVertices(r.Path)
	if a == nil || b == nil {
		return
	}
	sharing := e.graph.SharingSegment(a, b)
	moved := e.graph.MovePoint(p, r.Coordinates)
	for _, s := range sharing {
		s.InsertVertexAfter(p, s.GetSegmentPath(a, b))
	}
	e.renderPoint(p, moved)
	e.renderPoint(p, sharing)
}

// placeVertex возвращает вершину для щелчка при рисовании:
// существующую точку, новую точку на отрезке или новую изолированную точку.
func (e *Editor) placeVertex(r *snap.Result, at orb.Point) *geometry.Point {
	if r == nil {
		return e.newPoint(at)
	}
	switch r.Type {
	case snap.TypePoint, snap.TypeSegmentVertex:
		e.raise(r.Point)
		return r.Point
	case snap.TypeSegment:
		p := e.newPoint(r.Coordinates)
		e.insertIntoSegment(p, r)
		return p
	}
	return e.newPoint(at)
}
