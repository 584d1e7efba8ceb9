package geometry

import (
	"github.com/paulmach/orb"

	apperrors "github.com/map-editor/internal/pkg/errors"
)

// Graph - арена объектов карты по стабильному идентификатору.
// Точки хранят идентификаторы связанных объектов, граф разрешает их в объекты.
type Graph struct {
	features map[string]Feature
	order    []string
}

func NewGraph() *Graph {
	return &Graph{
		features: make(map[string]Feature),
	}
}

// Add регистрирует объект. Вершины линейного объекта должны быть уже в графе
// или добавляются вызывающим кодом отдельно.
func (g *Graph) Add(f Feature) error {
	if f == nil {
		return apperrors.ErrInvalidGeometry.WithMessage("nil feature")
	}
	if _, ok := g.features[f.ID()]; ok {
		return apperrors.ErrInvalidGeometry.WithMessage("feature %s already exists", f.ID())
	}
	g.features[f.ID()] = f
	g.order = append(g.order, f.ID())
	return nil
}

// Remove удаляет объект из графа. Для линейного объекта вершины отвязываются,
// возвращаются точки, у которых не осталось связанных объектов.
func (g *Graph) Remove(id string) ([]*Point, error) {
	f, ok := g.features[id]
	if !ok {
		return nil, apperrors.ErrFeatureNotFound.WithMessage("feature %s not found", id)
	}
	delete(g.features, id)
	for i, fid := range g.order {
		if fid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}

	if l, ok := f.(Linear); ok {
		return l.impl().release(), nil
	}
	return nil, nil
}

// Feature возвращает объект или FEATURE_NOT_FOUND
func (g *Graph) Feature(id string) (Feature, error) {
	f, ok := g.features[id]
	if !ok {
		return nil, apperrors.ErrFeatureNotFound.WithMessage("feature %s not found", id)
	}
	return f, nil
}

func (g *Graph) Lookup(id string) (Feature, bool) {
	f, ok := g.features[id]
	return f, ok
}

func (g *Graph) Has(id string) bool {
	_, ok := g.features[id]
	return ok
}

func (g *Graph) Len() int {
	return len(g.order)
}

// Features - все объекты в порядке добавления
func (g *Graph) Features() []Feature {
	out := make([]Feature, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.features[id])
	}
	return out
}

func (g *Graph) Points() []*Point {
	out := make([]*Point, 0)
	for _, id := range g.order {
		if p, ok := g.features[id].(*Point); ok {
			out = append(out, p)
		}
	}
	return out
}

func (g *Graph) Linears() []Linear {
	out := make([]Linear, 0)
	for _, id := range g.order {
		if l, ok := g.features[id].(Linear); ok {
			out = append(out, l)
		}
	}
	return out
}

// BoundLinears разрешает обратные ссылки точки в объекты
func (g *Graph) BoundLinears(p *Point) []Linear {
	ids := p.BoundFeatures()
	out := make([]Linear, 0, len(ids))
	for _, id := range ids {
		if l, ok := g.features[id].(Linear); ok {
			out = append(out, l)
		}
	}
	return out
}

// MovePoint перемещает вершину и уведомляет все связанные объекты,
// возвращает объекты, геометрия которых изменилась.
func (g *Graph) MovePoint(p *Point, c orb.Point) []Linear {
	p.SetCoordinates(c)
	bound := g.BoundLinears(p)
	for _, l := range bound {
		l.OnVertexDrag(p)
	}
	return bound
}

// SharingSegment - объекты, содержащие отрезок a-b
func (g *Graph) SharingSegment(a, b *Point) []Linear {
	out := make([]Linear, 0)
	for _, l := range g.BoundLinears(a) {
		if !b.IsBoundTo(l.ID()) {
			continue
		}
		if l.GetSegmentPath(a, b) != "" {
			out = append(out, l)
		}
	}
	return out
}
