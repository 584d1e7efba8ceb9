package geometry

import (
	"sort"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Point - вершина графа. Точка не владеет линейными объектами, которые на неё
// ссылаются: она хранит только множество их идентификаторов.
type Point struct {
	featureBase
	coords        orb.Point
	boundFeatures map[string]struct{}
}

// NewPoint создает изолированную точку
func NewPoint(id string, coords orb.Point) *Point {
	return &Point{
		featureBase:   newFeatureBase(id, DefaultPointColor),
		coords:        coords,
		boundFeatures: make(map[string]struct{}),
	}
}

func (p *Point) Kind() Kind {
	return KindPoint
}

// Coordinates возвращает текущие координаты (lon, lat)
func (p *Point) Coordinates() orb.Point {
	return p.coords
}

// SetCoordinates меняет координаты без уведомления связанных объектов.
// Для перемещения вершины графа используйте Graph.MovePoint.
func (p *Point) SetCoordinates(c orb.Point) {
	p.coords = c
}

// BoundFeatures возвращает идентификаторы связанных линейных объектов (отсортированы)
func (p *Point) BoundFeatures() []string {
	ids := make([]string, 0, len(p.boundFeatures))
	for id := range p.boundFeatures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (p *Point) IsBoundTo(featureID string) bool {
	_, ok := p.boundFeatures[featureID]
	return ok
}

func (p *Point) BoundFeaturesCount() int {
	return len(p.boundFeatures)
}

// IsIsolated - точка не является вершиной ни одного объекта
func (p *Point) IsIsolated() bool {
	return len(p.boundFeatures) == 0
}

func (p *Point) bindFeature(featureID string) {
	p.boundFeatures[featureID] = struct{}{}
}

func (p *Point) unbindFeature(featureID string) {
	delete(p.boundFeatures, featureID)
}

func (p *Point) SetDataObject(obj DataObject) error {
	return p.setDataObject(KindPoint, obj)
}

func (p *Point) Geometry() orb.Geometry {
	return p.coords
}

func (p *Point) Bound() orb.Bound {
	return p.coords.Bound()
}

func (p *Point) GeoJSON() *geojson.Feature {
	gf := p.geoJSON(KindPoint, p.coords, p.coords.Bound())
	gf.Properties["bound_features"] = len(p.boundFeatures)
	return gf
}
