package editor

import (
	"github.com/paulmach/orb"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/snap"
)

// dragState - перетаскиваемая в режиме SELECT точка
type dragState struct {
	point  *geometry.Point
	origin orb.Point
	moved  bool
}

// HandlePointer - единая точка входа событий указателя
func (e *Editor) HandlePointer(ev PointerEvent) {
	if !e.loaded || e.zooming || e.mode == ModeViewOnly {
		return
	}
	e.lastCursor = ev.LngLat

	switch e.mode {
	case ModeSelect:
		e.selectPointer(ev)
	case ModeDrawPoint:
		e.drawPointPointer(ev)
	case ModeDrawLine, ModeDrawPolygon:
		e.drawLinearPointer(ev)
	case ModeMoveFeatures:
		e.movePointer(ev)
	}
}

func (e *Editor) selectPointer(ev PointerEvent) {
	switch ev.Type {
	case PointerMove:
		if e.drag != nil {
			e.dragTo(ev.LngLat)
			return
		}
		e.updateHover(ev.LngLat, nil)

	case PointerDown:
		e.updateHover(ev.LngLat, nil)
		f, ok := e.graph.Lookup(e.hovered)
		if !ok {
			return
		}
		if p, isPoint := f.(*geometry.Point); isPoint {
			e.snapResult = nil
			e.drag = &dragState{point: p, origin: p.Coordinates()}
			e.raise(p)
		}

	case PointerUp:
		e.endDrag()

	case PointerClick:
		if e.swallowClick {
			e.swallowClick = false
			return
		}
		e.updateHover(ev.LngLat, nil)
		switch {
		case e.hovered == "" && !ev.Shift:
			e.ClearSelection()
		case e.hovered == "":
		case ev.Shift:
			e.toggleSelection(e.hovered)
		default:
			e.Select(e.hovered)
		}

	case PointerDblClick:
		e.insertVertexAt(ev.LngLat)
	}
}

// updateHover выбирает объект под курсором: верхнюю точку, иначе нижний
// из остальных объектов. exclude - точка, которая сейчас ставится или тащится.
func (e *Editor) updateHover(at orb.Point, exclude *geometry.Point) {
	ids := e.host.QueryRenderedFeatures(at, e.cfg.HoverRadiusPx)

	hovered := ""
	for _, id := range ids {
		if exclude != nil && id == exclude.ID() {
			continue
		}
		f, ok := e.graph.Lookup(id)
		if !ok {
			continue
		}
		if f.Kind() == geometry.KindPoint {
			hovered = id
			break
		}
		hovered = id
	}
	e.setHover(hovered)
}

func (e *Editor) dragTo(at orb.Point) {
	d := e.drag
	_, valid := e.resolveSnap(d.point, at)
	e.snapResult = valid

	target := at
	if valid != nil {
		target = valid.Coordinates
	}
	bound := e.graph.MovePoint(d.point, target)
	d.moved = true
	e.renderPoint(d.point, bound)
	e.updateHover(at, d.point)
}

// endDrag фиксирует перетаскивание и притяжение
func (e *Editor) endDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	r := e.snapResult
	e.snapResult = nil
	if !d.moved {
		return
	}
	e.swallowClick = true
	if r != nil && e.canCommitSnap(d.point, r) {
		e.commitSnap(d.point, r)
	}
}

// cancelDrag возвращает точку на исходную позицию
func (e *Editor) cancelDrag() {
	d := e.drag
	if d == nil {
		return
	}
	e.drag = nil
	e.snapResult = nil
	bound := e.graph.MovePoint(d.point, d.origin)
	e.renderPoint(d.point, bound)
}

// insertVertexAt вставляет новую вершину в отрезок под курсором
func (e *Editor) insertVertexAt(at orb.Point) {
	_, valid := e.resolveSnap(nil, at)
	if valid == nil || valid.Type != snap.TypeSegment {
		return
	}
	p := e.placeVertex(valid, at)
	e.Select(p.ID())
}
