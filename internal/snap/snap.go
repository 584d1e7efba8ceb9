package snap

import (
	"math"

	"github.com/paulmach/orb"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/pkg/utils"
)

const (
	// EarthCircumference - длина экватора в метрах
	EarthCircumference = 40075017.0

	// DefaultSnapDistancePx - радиус притяжения в пикселях
	DefaultSnapDistancePx = 5.0

	// DefaultVertexPriorityKm - порог приоритета вершины перед отрезком, км
	DefaultVertexPriorityKm = 0.0025
)

// ResultType - к чему притянут курсор
type ResultType string

const (
	TypePoint         ResultType = "point"
	TypeSegmentVertex ResultType = "segment_vertex"
	TypeSegment       ResultType = "segment"
)

// Result - найденная цель притяжения.
// Для point и segment_vertex Point - существующая точка графа;
// для segment Feature - линейный объект, Path - путь отрезка.
type Result struct {
	Type        ResultType
	Feature     geometry.Feature
	Point       *geometry.Point
	Path        string
	Coordinates orb.Point
	DistanceKm  float64
	DistancePx  float64
}

// Linear возвращает линейный объект результата (nil для point)
func (r *Result) Linear() geometry.Linear {
	l, _ := r.Feature.(geometry.Linear)
	return l
}

// Config - параметры притяжения
type Config struct {
	SnapDistancePx   float64
	VertexPriorityKm float64
}

// Resolver ищет ближайшую цель притяжения для курсора
type Resolver struct {
	config Config
}

func NewResolver(cfg Config) *Resolver {
	if cfg.SnapDistancePx <= 0 {
		cfg.SnapDistancePx = DefaultSnapDistancePx
	}
	if cfg.VertexPriorityKm <= 0 {
		cfg.VertexPriorityKm = DefaultVertexPriorityKm
	}
	return &Resolver{config: cfg}
}

// SegmentFilter возвращает true для отрезков, которые нужно пропустить
type SegmentFilter func(l geometry.Linear, path string) bool

type options struct {
	snapDistancePx float64
	skipSegment    SegmentFilter
}

// Option уточняет один вызов TrySnapPoint
type Option func(*options)

func WithSnapDistancePx(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.snapDistancePx = px
		}
	}
}

func WithSegmentFilter(f SegmentFilter) Option {
	return func(o *options) {
		o.skipSegment = f
	}
}

var defaultResolver = NewResolver(Config{})

// TrySnapPoint - TrySnapPoint резолвера с параметрами по умолчанию
func TrySnapPoint(cursor orb.Point, candidates []geometry.Feature, zoom float64, opts ...Option) *Result {
	return defaultResolver.TrySnapPoint(cursor, candidates, zoom, opts...)
}

// MetersPerPixel - метров в пикселе на широте lat при зуме zoom (тайлы 256px)
func MetersPerPixel(lat, zoom float64) float64 {
	return EarthCircumference * math.Cos(lat*math.Pi/180) / math.Pow(2, zoom+8)
}

type match struct {
	feature  geometry.Feature
	segment  geometry.Segment
	coords   orb.Point
	distance float64
}

// TrySnapPoint находит ближайшую к курсору цель среди candidates.
// Возвращает nil, если кандидатов нет или ближайший дальше радиуса притяжения.
func (r *Resolver) TrySnapPoint(cursor orb.Point, candidates []geometry.Feature, zoom float64, opts ...Option) *Result {
	o := options{snapDistancePx: r.config.SnapDistancePx}
	for _, opt := range opts {
		opt(&o)
	}

	best, ok := r.closest(cursor, candidates, o)
	if !ok {
		return nil
	}

	px := best.distance * 1000 / MetersPerPixel(cursor.Lat(), zoom)
	if px > o.snapDistancePx {
		return nil
	}

	if p, isPoint := best.feature.(*geometry.Point); isPoint {
		return &Result{
			Type:        TypePoint,
			Feature:     p,
			Point:       p,
			Coordinates: p.Coordinates(),
			DistanceKm:  best.distance,
			DistancePx:  px,
		}
	}

	if v := r.priorityVertex(best, candidates); v != nil {
		return &Result{
			Type:        TypeSegmentVertex,
			Feature:     best.feature,
			Point:       v,
			Path:        best.segment.Path,
			Coordinates: v.Coordinates(),
			DistanceKm:  best.distance,
			DistancePx:  px,
		}
	}

	return &Result{
		Type:        TypeSegment,
		Feature:     best.feature,
		Path:        best.segment.Path,
		Coordinates: best.coords,
		DistanceKm:  best.distance,
		DistancePx:  px,
	}
}

func (r *Resolver) closest(cursor orb.Point, candidates []geometry.Feature, o options) (match, bool) {
	var best match
	found := false

	consider := func(m match) {
		if !found || m.distance < best.distance {
			best = m
			found = true
		}
	}

	for _, f := range candidates {
		switch feature := f.(type) {
		case *geometry.Point:
			consider(match{
				feature:  feature,
				coords:   feature.Coordinates(),
				distance: utils.PointDistanceKm(cursor, feature.Coordinates()),
			})
		case geometry.Linear:
			for _, s := range feature.Segments() {
				if o.skipSegment != nil && o.skipSegment(feature, s.Path) {
					continue
				}
				proj, _ := utils.NearestPointOnSegment(cursor, s.A.Coordinates(), s.B.Coordinates())
				consider(match{
					feature:  feature,
					segment:  s,
					coords:   proj,
					distance: utils.PointDistanceKm(cursor, proj),
				})
			}
		}
	}
	return best, found
}

// priorityVertex выбирает конец отрезка, к которому притягиваемся вместо отрезка.
// Учитываются только концы из набора кандидатов, ближе порога к проекции;
// если подходят оба, выигрывает ближайший.
func (r *Resolver) priorityVertex(m match, candidates []geometry.Feature) *geometry.Point {
	var best *geometry.Point
	bestDist := math.Inf(1)

	for _, v := range []*geometry.Point{m.segment.A, m.segment.B} {
		if v == nil || !containsFeature(candidates, v) {
			continue
		}
		d := utils.PointDistanceKm(m.coords, v.Coordinates())
		if d > r.config.VertexPriorityKm {
			continue
		}
		if d < bestDist {
			best = v
			bestDist = d
		}
	}
	return best
}

func containsFeature(candidates []geometry.Feature, f geometry.Feature) bool {
	for _, c := range candidates {
		if c == f {
			return true
		}
	}
	return false
}
