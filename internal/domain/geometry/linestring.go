package geometry

import (
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// LineString - линия из одного кольца, минимум две вершины.
// Первая и последняя вершины могут совпадать (петля).
type LineString struct {
	*linear
}

// NewLineString создает линию и привязывает к ней вершины
func NewLineString(id string, vertices []*Point, opts ...Option) (*LineString, error) {
	if len(vertices) < 2 {
		return nil, apperrors.ErrInvalidGeometry.WithMessage("line %s needs at least 2 vertices, got %d", id, len(vertices))
	}
	if err := checkVertices(vertices); err != nil {
		return nil, err
	}

	n := len(vertices)
	loop := n > 2 && vertices[0] == vertices[n-1]
	body := vertices
	if loop {
		body = vertices[:n-1]
	}
	if dup := firstDuplicate(body); dup != nil {
		return nil, apperrors.ErrDuplicateVertex.WithMessage("vertex %s repeats in line %s", dup.ID(), id)
	}

	ls := &LineString{linear: newLinear(id, KindLineString, [][]*Point{vertices}, opts)}
	ls.bindAll()
	ls.recompute()
	return ls, nil
}

// IsLoop - первая и последняя вершины совпадают
func (ls *LineString) IsLoop() bool {
	return ls.isLoop()
}

// Reverse меняет направление линии
func (ls *LineString) Reverse() {
	vertices := ls.rings[0]
	for i, j := 0, len(vertices)-1; i < j; i, j = i+1, j-1 {
		vertices[i], vertices[j] = vertices[j], vertices[i]
	}
	ls.recompute()
}

func checkVertices(vertices []*Point) error {
	for i, v := range vertices {
		if v == nil {
			return apperrors.ErrInvalidGeometry.WithMessage("vertex %d is nil", i)
		}
	}
	return nil
}

func firstDuplicate(vertices []*Point) *Point {
	seen := make(map[*Point]struct{}, len(vertices))
	for _, v := range vertices {
		if _, ok := seen[v]; ok {
			return v
		}
		seen[v] = struct{}{}
	}
	return nil
}

// SplitAt разрезает линию во внутренней вершине v: линия заканчивается в v,
// возвращаемая линия newID начинается в v. Петлю разрезать нельзя.
func (ls *LineString) SplitAt(v *Point, newID string) (*LineString, error) {
	if ls.isLoop() {
		return nil, apperrors.ErrInvalidGeometry.WithMessage("loop %s cannot be split", ls.id)
	}
	vertices := ls.rings[0]
	idx := -1
	for i, p := range vertices {
		if p == v {
			idx = i
			break
		}
	}
	if idx <= 0 || idx >= len(vertices)-1 {
		return nil, apperrors.ErrInvalidPath.WithMessage("line %s can only be split at an interior vertex", ls.id)
	}

	tail, err := NewLineString(newID, append([]*Point(nil), vertices[idx:]...), WithMinVertexSeparation(ls.minSeparation))
	if err != nil {
		return nil, err
	}
	tail.props.Color = ls.props.Color

	for _, p := range vertices[idx+1:] {
		p.unbindFeature(ls.id)
	}
	ls.rings[0] = append([]*Point(nil), vertices[:idx+1]...)
	ls.recompute()
	return tail, nil
}
