package editor

import (
	"github.com/paulmach/orb"

	"github.com/map-editor/internal/domain/geometry"
)

// moveState - перемещение выделенных объектов целиком
type moveState struct {
	origins map[*geometry.Point]orb.Point
	order   []*geometry.Point
	anchor  *orb.Point
}

func (e *Editor) startMove() {
	m := &moveState{origins: make(map[*geometry.Point]orb.Point)}
	add := func(p *geometry.Point) {
		if _, ok := m.origins[p]; ok {
			return
		}
		m.origins[p] = p.Coordinates()
		m.order = append(m.order, p)
	}
	for _, f := range e.selectedFeatures() {
		switch feature := f.(type) {
		case *geometry.Point:
			add(feature)
		case geometry.Linear:
			for _, v := range feature.AllVertices() {
				add(v)
			}
		}
	}
	if len(m.order) == 0 {
		return
	}
	e.move = m
	e.setMode(ModeMoveFeatures)
}

func (e *Editor) movePointer(ev PointerEvent) {
	m := e.move
	if m == nil {
		return
	}
	switch ev.Type {
	case PointerMove:
		if m.anchor == nil {
			anchor := ev.LngLat
			m.anchor = &anchor
			return
		}
		dx := ev.LngLat.Lon() - m.anchor.Lon()
		dy := ev.LngLat.Lat() - m.anchor.Lat()
		e.shiftMoved(func(origin orb.Point) orb.Point {
			return orb.Point{origin.Lon() + dx, origin.Lat() + dy}
		})
	case PointerClick:
		e.move = nil
		e.setMode(ModeSelect)
	}
}

func (e *Editor) shiftMoved(to func(origin orb.Point) orb.Point) {
	m := e.move
	touched := make(map[string]geometry.Linear)
	for _, p := range m.order {
		for _, l := range e.graph.MovePoint(p, to(m.origins[p])) {
			touched[l.ID()] = l
		}
		e.render(p)
	}
	for _, l := range touched {
		e.render(l)
	}
}

// cancelMove возвращает все вершины на исходные позиции
func (e *Editor) cancelMove() {
	if e.move == nil {
		return
	}
	e.shiftMoved(func(origin orb.Point) orb.Point { return origin })
	e.move = nil
	e.setMode(ModeSelect)
}
