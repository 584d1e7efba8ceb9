package editor

import (
	"github.com/map-editor/internal/domain/geometry"
)

func (e *Editor) isSelected(id string) bool {
	for _, s := range e.selection {
		if s == id {
			return true
		}
	}
	return false
}

// Select заменяет выделение. Неизвестные id игнорируются.
func (e *Editor) Select(ids ...string) {
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if e.graph.Has(id) && !contains(next, id) {
			next = append(next, id)
		}
	}
	e.setSelection(next)
}

func (e *Editor) toggleSelection(id string) {
	next := make([]string, 0, len(e.selection)+1)
	found := false
	for _, s := range e.selection {
		if s == id {
			found = true
			continue
		}
		next = append(next, s)
	}
	if !found {
		next = append(next, id)
	}
	e.setSelection(next)
}

// ClearSelection снимает выделение со всех объектов
func (e *Editor) ClearSelection() {
	e.setSelection(nil)
}

func (e *Editor) setSelection(next []string) {
	if equalIDs(e.selection, next) {
		return
	}
	prev := e.selection
	e.selection = next
	for _, id := range prev {
		e.restyle(id)
	}
	for _, id := range next {
		e.restyle(id)
	}
	e.bus.PublishSelection(e.Selection())
}

func (e *Editor) setHover(id string) {
	if e.hovered == id {
		return
	}
	prev := e.hovered
	e.hovered = id
	e.restyle(prev)
	e.restyle(id)
	e.bus.PublishHover(id)
}

func (e *Editor) clearHover() {
	e.setHover("")
}

// forget убирает удалённый объект из выделения и наведения
func (e *Editor) forget(id string) {
	if e.hovered == id {
		e.hovered = ""
		e.bus.PublishHover("")
	}
	if !e.isSelected(id) {
		return
	}
	next := make([]string, 0, len(e.selection))
	for _, s := range e.selection {
		if s != id {
			next = append(next, s)
		}
	}
	e.selection = next
	e.bus.PublishSelection(e.Selection())
}

// selectedFeatures - выделенные объекты, ещё присутствующие в графе
func (e *Editor) selectedFeatures() []geometry.Feature {
	out := make([]geometry.Feature, 0, len(e.selection))
	for _, id := range e.selection {
		if f, ok := e.graph.Lookup(id); ok {
			out = append(out, f)
		}
	}
	return out
}

func contains(ids []string, id string) bool {
	for _, s := range ids {
		if s == id {
			return true
		}
	}
	return false
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
