package editor

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/geometry"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// ActionName - действие контекстного меню
type ActionName string

const (
	ActionMove         ActionName = "move"
	ActionCopy         ActionName = "copy"
	ActionPaste        ActionName = "paste"
	ActionDelete       ActionName = "delete"
	ActionContinueLine ActionName = "continue_line"
	ActionDisconnect   ActionName = "disconnect"
	ActionExtract      ActionName = "extract"
	ActionSplit        ActionName = "split"
	ActionCircularize  ActionName = "circularize"
	ActionSquare       ActionName = "square"
	ActionFlip         ActionName = "flip"
	ActionReverse      ActionName = "reverse"
	ActionRotate       ActionName = "rotate"
	ActionStraighten   ActionName = "straighten"
)

// AllActions - действия в порядке пунктов меню
var AllActions = []ActionName{
	ActionMove, ActionCopy, ActionPaste, ActionDelete, ActionContinueLine,
	ActionDisconnect, ActionExtract, ActionSplit, ActionCircularize, ActionSquare,
	ActionFlip, ActionReverse, ActionRotate, ActionStraighten,
}

// ParseAction разбирает название действия
func ParseAction(s string) (ActionName, bool) {
	for _, a := range AllActions {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// ActionCandidates - действия, доступные для текущего выделения
func (e *Editor) ActionCandidates() []ActionName {
	if e.mode != ModeSelect {
		return []ActionName{}
	}
	out := make([]ActionName, 0, len(AllActions))
	for _, a := range AllActions {
		if e.isCandidate(a) {
			out = append(out, a)
		}
	}
	return out
}

func (e *Editor) isCandidate(name ActionName) bool {
	selected := e.selectedFeatures()

	switch name {
	case ActionMove, ActionCopy, ActionDelete:
		return len(selected) > 0
	case ActionPaste:
		return e.clipboard != nil && len(e.clipboard.coords) > 0
	case ActionContinueLine:
		_, _, ok := e.continueTarget()
		return ok
	case ActionDisconnect:
		p, ok := singlePoint(selected)
		return ok && p.BoundFeaturesCount() >= 2
	case ActionExtract:
		p, ok := singlePoint(selected)
		return ok && p.BoundFeaturesCount() >= 1
	case ActionSplit:
		_, _, ok := e.splitTarget()
		return ok
	case ActionCircularize:
		l, ok := singleClosed(selected)
		return ok && !l.IsNearlyCircular(0)
	case ActionSquare:
		l, ok := singleClosed(selected)
		return ok && !l.IsNearlySquare(0)
	case ActionFlip, ActionRotate:
		return transformable(selected)
	case ActionReverse:
		if len(selected) == 0 {
			return false
		}
		for _, f := range selected {
			if _, ok := f.(*geometry.LineString); !ok {
				return false
			}
		}
		return true
	case ActionStraighten:
		if len(selected) != 1 {
			return false
		}
		ls, ok := selected[0].(*geometry.LineString)
		return ok && !ls.IsLoop() && len(ls.Vertices(0)) >= 3
	}
	return false
}

// ApplyAction выполняет действие, если оно доступно
func (e *Editor) ApplyAction(name ActionName) error {
	if _, ok := ParseAction(string(name)); !ok {
		return apperrors.ErrUnknownAction.WithMessage("unknown action %q", name)
	}
	if e.mode != ModeSelect || !e.isCandidate(name) {
		return apperrors.ErrActionNotAvailable.WithMessage("action %q is not available for the current selection", name)
	}

	e.logger.Debug("Applying action", zap.String("action", string(name)), zap.Strings("selection", e.selection))

	switch name {
	case ActionMove:
		e.startMove()
	case ActionCopy:
		e.copySelection()
	case ActionPaste:
		e.paste()
	case ActionDelete:
		e.deleteFeatures(e.Selection())
	case ActionContinueLine:
		e.continueLine()
	case ActionDisconnect:
		e.disconnect()
	case ActionExtract:
		e.extract()
	case ActionSplit:
		e.split()
	case ActionCircularize:
		l, _ := singleClosed(e.selectedFeatures())
		e.circularize(l)
	case ActionFlip:
		e.flip()
	case ActionReverse:
		for _, f := range e.selectedFeatures() {
			ls := f.(*geometry.LineString)
			ls.Reverse()
			e.render(ls)
		}
	case ActionStraighten:
		e.straighten(e.selectedFeatures()[0].(*geometry.LineString))
	case ActionSquare, ActionRotate:
		e.logger.Info("Action is not implemented", zap.String("action", string(name)))
	}
	return nil
}

func singlePoint(selected []geometry.Feature) (*geometry.Point, bool) {
	if len(selected) != 1 {
		return nil, false
	}
	p, ok := selected[0].(*geometry.Point)
	return p, ok
}

// singleClosed - единственный выделенный полигон или петля
func singleClosed(selected []geometry.Feature) (geometry.Linear, bool) {
	if len(selected) != 1 {
		return nil, false
	}
	switch f := selected[0].(type) {
	case *geometry.Polygon:
		return f, true
	case *geometry.LineString:
		return f, f.IsLoop()
	}
	return nil, false
}

func transformable(selected []geometry.Feature) bool {
	points := 0
	for _, f := range selected {
		if f.Kind() != geometry.KindPoint {
			return true
		}
		points++
	}
	return points >= 2
}

// continueTarget - открытая линия и её конечная точка для продолжения рисования.
// Выделена должна быть точка (и, при неоднозначности, сама линия).
func (e *Editor) continueTarget() (*geometry.LineString, *geometry.Point, bool) {
	selected := e.selectedFeatures()
	if len(selected) == 0 || len(selected) > 2 {
		return nil, nil, false
	}

	var (
		point  *geometry.Point
		chosen *geometry.LineString
	)
	for _, f := range selected {
		switch feature := f.(type) {
		case *geometry.Point:
			if point != nil {
				return nil, nil, false
			}
			point = feature
		case *geometry.LineString:
			chosen = feature
		default:
			return nil, nil, false
		}
	}
	if point == nil {
		return nil, nil, false
	}

	var found *geometry.LineString
	count := 0
	for _, l := range e.graph.BoundLinears(point) {
		ls, ok := l.(*geometry.LineString)
		if !ok || ls.IsLoop() {
			continue
		}
		vertices := ls.Vertices(0)
		if vertices[0] != point && vertices[len(vertices)-1] != point {
			continue
		}
		if chosen != nil && chosen != ls {
			continue
		}
		found = ls
		count++
	}
	if count != 1 {
		return nil, nil, false
	}
	return found, point, true
}

func (e *Editor) continueLine() {
	ls, p, _ := e.continueTarget()
	atStart := ls.Vertices(0)[0] == p

	e.draw = &drawState{
		feature:  ls,
		atStart:  atStart,
		existing: make(map[string]struct{}),
	}
	for _, v := range ls.AllVertices() {
		e.draw.existing[v.ID()] = struct{}{}
	}
	e.setMode(ModeDrawLine)
	e.ClearSelection()
	e.appendCursor(p.Coordinates())
}

// disconnect оставляет точку первому объекту, остальные получают свою копию
func (e *Editor) disconnect() {
	p, _ := singlePoint(e.selectedFeatures())
	bound := e.graph.BoundLinears(p)
	for _, l := range bound[1:] {
		np := e.newPoint(p.Coordinates())
		l.ReplaceVertex(np, p)
		e.render(l)
	}
	e.render(p)
}

// extract создаёт изолированную точку с данными вершины
func (e *Editor) extract() {
	p, _ := singlePoint(e.selectedFeatures())
	np := e.newPoint(p.Coordinates())
	if obj := p.DataObject(); obj != nil {
		_ = p.SetDataObject(nil)
		if err := np.SetDataObject(obj); err != nil {
			_ = p.SetDataObject(obj)
		}
		e.render(p)
	}
	e.render(np)
	e.Select(np.ID())
}

// splitTarget - открытая линия, внутренней вершиной которой является выделенная точка
func (e *Editor) splitTarget() (*geometry.LineString, *geometry.Point, bool) {
	p, ok := singlePoint(e.selectedFeatures())
	if !ok {
		return nil, nil, false
	}
	for _, l := range e.graph.BoundLinears(p) {
		ls, ok := l.(*geometry.LineString)
		if !ok || ls.IsLoop() {
			continue
		}
		vertices := ls.Vertices(0)
		if vertices[0] != p && vertices[len(vertices)-1] != p {
			return ls, p, true
		}
	}
	return nil, nil, false
}

func (e *Editor) split() {
	ls, p, _ := e.splitTarget()
	tail, err := ls.SplitAt(p, uuid.NewString())
	if err != nil {
		e.logger.Warn("Failed to split line", zap.String("feature_id", ls.ID()), zap.Error(err))
		return
	}
	if err := e.addFeature(tail); err != nil {
		e.logger.Error("Failed to add split line", zap.Error(err))
		return
	}
	e.render(ls)
	e.Select(ls.ID(), tail.ID())
}
