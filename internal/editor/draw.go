package editor

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/snap"
)

// drawState - рисуемая линия или полигон.
// cursor - временная вершина под курсором, последняя (или первая при atStart) в кольце.
type drawState struct {
	feature geometry.Linear
	cursor  *geometry.Point
	atStart bool
	// existing - точки, существовавшие до начала рисования; при откате не удаляются
	existing map[string]struct{}
}

func (e *Editor) startDraw(mode EditMode) {
	e.snapResult = nil
	if mode != ModeDrawPoint {
		e.draw = &drawState{existing: make(map[string]struct{})}
	}
	e.setMode(mode)
}

func (e *Editor) drawPointPointer(ev PointerEvent) {
	switch ev.Type {
	case PointerMove:
		_, e.snapResult = e.resolveSnap(nil, ev.LngLat)
		e.updateHover(ev.LngLat, nil)
	case PointerClick:
		_, valid := e.resolveSnap(nil, ev.LngLat)
		e.snapResult = nil
		p := e.placeVertex(valid, ev.LngLat)
		e.setMode(ModeSelect)
		e.Select(p.ID())
	}
}

func (e *Editor) drawLinearPointer(ev PointerEvent) {
	d := e.draw
	if d == nil {
		return
	}
	switch ev.Type {
	case PointerMove:
		if d.cursor == nil {
			_, e.snapResult = e.resolveSnap(nil, ev.LngLat)
			e.updateHover(ev.LngLat, nil)
			return
		}
		_, valid := e.resolveSnap(d.cursor, ev.LngLat)
		e.snapResult = valid
		target := ev.LngLat
		if valid != nil {
			target = valid.Coordinates
		}
		bound := e.graph.MovePoint(d.cursor, target)
		e.renderPoint(d.cursor, bound)
		e.updateHover(ev.LngLat, d.cursor)

	case PointerClick:
		if d.feature == nil {
			e.beginLinear(ev.LngLat)
			return
		}
		e.drawClick(ev.LngLat)

	case PointerDblClick:
		e.finishDraw()
	}
}

// beginLinear создаёт первую вершину и курсор рисуемого объекта
func (e *Editor) beginLinear(at orb.Point) {
	d := e.draw
	_, valid := e.resolveSnap(nil, at)
	e.snapResult = nil
	if valid != nil && valid.Point != nil {
		d.existing[valid.Point.ID()] = struct{}{}
	}

	first := e.placeVertex(valid, at)
	cursor := e.newPoint(at)

	var (
		feature geometry.Linear
		err     error
	)
	id := uuid.NewString()
	if e.mode == ModeDrawPolygon {
		feature, err = geometry.NewPolygon(id, [][]*geometry.Point{{first, cursor}}, e.lineOptions()...)
	} else {
		feature, err = geometry.NewLineString(id, []*geometry.Point{first, cursor}, e.lineOptions()...)
	}
	if err != nil {
		e.logger.Error("Failed to start drawing", zap.Error(err))
		e.removePoint(cursor)
		return
	}
	if err := e.addFeature(feature); err != nil {
		e.logger.Error("Failed to add drawn feature", zap.Error(err))
		return
	}
	d.feature = feature
	d.cursor = cursor
	e.renderPoint(first, e.graph.BoundLinears(first))
}

// drawEnds - соседняя с курсором вершина и противоположный конец кольца
func (d *drawState) drawEnds() (prev, opposite *geometry.Point, prior int) {
	vertices := d.feature.Vertices(0)
	n := len(vertices)
	if n < 2 {
		return nil, nil, 0
	}
	if d.atStart {
		return vertices[1], vertices[n-1], n - 1
	}
	return vertices[n-2], vertices[0], n - 1
}

func (e *Editor) drawClick(at orb.Point) {
	d := e.draw
	raw, valid := e.resolveSnap(d.cursor, at)
	e.snapResult = nil
	prev, opposite, prior := d.drawEnds()

	if raw != nil && raw.Point != nil {
		switch {
		case raw.Point == prev:
			e.finishDraw()
			return
		case raw.Point == opposite && prior >= 2 && d.feature.Kind() == geometry.KindPolygon:
			e.finishDraw()
			return
		}
	}

	if valid == nil {
		bound := e.graph.MovePoint(d.cursor, at)
		e.renderPoint(d.cursor, bound)
		e.appendCursor(at)
		return
	}

	switch valid.Type {
	case snap.TypePoint, snap.TypeSegmentVertex:
		target := valid.Point
		d.existing[target.ID()] = struct{}{}
		e.commitSnap(d.cursor, valid)
		d.cursor = nil
		if target == opposite && prior >= 2 {
			// линия замкнута в петлю
			e.finishDraw()
			return
		}
		e.appendCursor(target.Coordinates())
	case snap.TypeSegment:
		e.insertIntoSegment(d.cursor, valid)
		e.appendCursor(valid.Coordinates)
	}
}

// appendCursor добавляет новый курсор на рисуемом конце кольца
func (e *Editor) appendCursor(at orb.Point) {
	d := e.draw
	vertices := d.feature.Vertices(0)
	end := vertices[len(vertices)-1]
	if d.atStart {
		end = vertices[0]
	}

	cursor := e.newPoint(at)
	path := d.feature.GetVertexPath(end)
	if !d.feature.CanAppendVertex(cursor, path) {
		e.removePoint(cursor)
		e.finishDraw()
		return
	}
	d.feature.AppendVertex(cursor, path)
	d.cursor = cursor
	e.renderPoint(cursor, []geometry.Linear{d.feature})
}

// finishDraw убирает курсор, завершает кольцо полигона и возвращает в SELECT.
// Слишком короткий объект удаляется вместе с созданными для него точками.
func (e *Editor) finishDraw() {
	d := e.draw
	e.draw = nil
	e.snapResult = nil
	if d == nil || d.feature == nil {
		e.setMode(ModeSelect)
		return
	}

	keep := func(p *geometry.Point) bool {
		_, ok := d.existing[p.ID()]
		return ok || p.DataObject() != nil
	}
	if d.cursor != nil && e.graph.Has(d.cursor.ID()) {
		e.deletePoint(d.cursor, keep)
	}

	e.setMode(ModeSelect)
	if !e.graph.Has(d.feature.ID()) {
		return
	}
	if poly, ok := d.feature.(*geometry.Polygon); ok {
		poly.LockRing(0)
	}
	e.render(d.feature)
	e.Select(d.feature.ID())
}
