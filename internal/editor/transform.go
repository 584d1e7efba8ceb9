package editor

import (
	"math"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/pkg/utils"
)

// clipboard - скопированные объекты: координаты вершин и индексы в них,
// общие вершины копируются один раз
type clipboard struct {
	coords   []orb.Point
	features []clipFeature
	center   orb.Point
}

type clipFeature struct {
	kind  geometry.Kind
	color string
	rings [][]int
}

func (e *Editor) copySelection() {
	cb := &clipboard{}
	index := make(map[*geometry.Point]int)
	indexOf := func(p *geometry.Point) int {
		if i, ok := index[p]; ok {
			return i
		}
		index[p] = len(cb.coords)
		cb.coords = append(cb.coords, p.Coordinates())
		return index[p]
	}

	bound := orb.Bound{}
	first := true
	for _, f := range e.selectedFeatures() {
		cf := clipFeature{kind: f.Kind(), color: f.Properties().Color}
		switch feature := f.(type) {
		case *geometry.Point:
			cf.rings = [][]int{{indexOf(feature)}}
		case geometry.Linear:
			for r := 0; r < feature.RingCount(); r++ {
				ring := make([]int, 0)
				for _, v := range feature.Vertices(r) {
					ring = append(ring, indexOf(v))
				}
				cf.rings = append(cf.rings, ring)
			}
		}
		cb.features = append(cb.features, cf)
		if first {
			bound = f.Bound()
			first = false
		} else {
			bound = bound.Union(f.Bound())
		}
	}
	cb.center = bound.Center()
	e.clipboard = cb
	e.logger.Debug("Selection copied", zap.Int("features", len(cb.features)), zap.Int("vertices", len(cb.coords)))
}

// paste создаёт копии объектов буфера с центром под последней позицией курсора
func (e *Editor) paste() {
	cb := e.clipboard
	dx := e.lastCursor.Lon() - cb.center.Lon()
	dy := e.lastCursor.Lat() - cb.center.Lat()

	points := make([]*geometry.Point, len(cb.coords))
	pointAt := func(i int) *geometry.Point {
		if points[i] == nil {
			c := cb.coords[i]
			points[i] = e.newPoint(orb.Point{c.Lon() + dx, c.Lat() + dy})
		}
		return points[i]
	}

	created := make([]string, 0, len(cb.features))
	for _, cf := range cb.features {
		rings := make([][]*geometry.Point, 0, len(cf.rings))
		for _, ring := range cf.rings {
			vertices := make([]*geometry.Point, 0, len(ring))
			for _, i := range ring {
				vertices = append(vertices, pointAt(i))
			}
			rings = append(rings, vertices)
		}

		var (
			f   geometry.Feature
			err error
		)
		switch cf.kind {
		case geometry.KindPoint:
			created = append(created, rings[0][0].ID())
			continue
		case geometry.KindLineString:
			f, err = geometry.NewLineString(uuid.NewString(), rings[0], e.lineOptions()...)
		case geometry.KindPolygon:
			f, err = geometry.NewPolygon(uuid.NewString(), rings, append(e.lineOptions(), geometry.WithLockedRings())...)
		}
		if err != nil {
			e.logger.Warn("Failed to paste feature", zap.Error(err))
			continue
		}
		f.Properties().Color = cf.color
		if err := e.addFeature(f); err != nil {
			e.logger.Warn("Failed to add pasted feature", zap.Error(err))
			continue
		}
		created = append(created, f.ID())
	}

	for _, p := range points {
		if p != nil && p.IsIsolated() && !contains(created, p.ID()) {
			e.removePoint(p)
		}
	}
	for _, p := range points {
		if p != nil {
			e.raise(p)
		}
	}
	e.Select(created...)
}

// circularize расставляет вершины внешнего кольца равномерно по окружности
// вокруг центроида, начиная с угла первой вершины и сохраняя направление обхода.
// Расчёт в проекции Меркатора.
func (e *Editor) circularize(l geometry.Linear) {
	vertices := l.Vertices(0)
	if ls, ok := l.(*geometry.LineString); ok && ls.IsLoop() {
		vertices = vertices[:len(vertices)-1]
	}
	if len(vertices) < 3 {
		return
	}

	projected := make([]orb.Point, len(vertices))
	var cx, cy, area float64
	for i, v := range vertices {
		projected[i] = project.WGS84.ToMercator(v.Coordinates())
		cx += projected[i][0]
		cy += projected[i][1]
	}
	n := float64(len(vertices))
	cx /= n
	cy /= n

	var radius float64
	for i, p := range projected {
		radius += math.Hypot(p[0]-cx, p[1]-cy)
		next := projected[(i+1)%len(projected)]
		area += p[0]*next[1] - next[0]*p[1]
	}
	radius /= n

	direction := 1.0
	if area < 0 {
		direction = -1
	}
	start := math.Atan2(projected[0][1]-cy, projected[0][0]-cx)
	for i, v := range vertices {
		angle := start + direction*2*math.Pi*float64(i)/n
		target := orb.Point{cx + radius*math.Cos(angle), cy + radius*math.Sin(angle)}
		e.movePoint(v, project.Mercator.ToWGS84(target))
	}
}

// flip зеркально отражает выделение относительно вертикальной оси его bbox
func (e *Editor) flip() {
	points := e.selectedVertices()
	if len(points) == 0 {
		return
	}
	bound := points[0].Bound()
	for _, p := range points[1:] {
		bound = bound.Extend(p.Coordinates())
	}
	axis := bound.Center().Lon()
	for _, p := range points {
		c := p.Coordinates()
		e.movePoint(p, orb.Point{2*axis - c.Lon(), c.Lat()})
	}
}

// straighten проецирует внутренние вершины на отрезок между концами линии
func (e *Editor) straighten(ls *geometry.LineString) {
	vertices := ls.Vertices(0)
	a := vertices[0].Coordinates()
	b := vertices[len(vertices)-1].Coordinates()
	for _, v := range vertices[1 : len(vertices)-1] {
		proj, _ := utils.NearestPointOnSegment(v.Coordinates(), a, b)
		e.movePoint(v, proj)
	}
}

// selectedVertices - точки выделения и вершины выделенных объектов без повторов
func (e *Editor) selectedVertices() []*geometry.Point {
	seen := make(map[*geometry.Point]struct{})
	out := make([]*geometry.Point, 0)
	add := func(p *geometry.Point) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
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
	return out
}

func (e *Editor) movePoint(p *geometry.Point, c orb.Point) {
	bound := e.graph.MovePoint(p, c)
	e.renderPoint(p, bound)
}
