package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	apperrors "github.com/map-editor/internal/pkg/errors"
)

// Kind - вид геометрии объекта карты
type Kind string

const (
	KindPoint      Kind = "Point"
	KindLineString Kind = "LineString"
	KindPolygon    Kind = "Polygon"
)

// SelectionMode - состояние выделения объекта
type SelectionMode string

const (
	SelectionNone     SelectionMode = "none"
	SelectionSelected SelectionMode = "selected"
	SelectionHovered  SelectionMode = "hovered"
)

// Properties - изменяемые свойства отображения объекта
type Properties struct {
	Color         string
	Layer         int
	SelectionMode SelectionMode
}

// DataObject - семантические данные, прикреплённые к геометрии.
// GeometryKind возвращает false, если тип объекта не ограничивает вид геометрии.
type DataObject interface {
	ID() string
	GeometryKind() (Kind, bool)
}

// Feature - объект карты: точка, линия или полигон.
// Набор реализаций закрыт: *Point, *LineString, *Polygon.
type Feature interface {
	ID() string
	Kind() Kind
	Properties() *Properties
	DBID() (int64, bool)
	SetDBID(id int64)
	DataObject() DataObject
	SetDataObject(obj DataObject) error
	Geometry() orb.Geometry
	Bound() orb.Bound
	GeoJSON() *geojson.Feature

	feature()
}

type featureBase struct {
	id         string
	props      Properties
	dbID       *int64
	dataObject DataObject
}

func newFeatureBase(id string, color string) featureBase {
	return featureBase{
		id: id,
		props: Properties{
			Color:         color,
			SelectionMode: SelectionNone,
		},
	}
}

func (f *featureBase) feature() {}

func (f *featureBase) ID() string {
	return f.id
}

func (f *featureBase) Properties() *Properties {
	return &f.props
}

func (f *featureBase) DBID() (int64, bool) {
	if f.dbID == nil {
		return 0, false
	}
	return *f.dbID, true
}

func (f *featureBase) SetDBID(id int64) {
	f.dbID = &id
}

func (f *featureBase) DataObject() DataObject {
	return f.dataObject
}

func (f *featureBase) setDataObject(kind Kind, obj DataObject) error {
	if obj != nil {
		if k, ok := obj.GeometryKind(); ok && k != kind {
			return apperrors.TypeError("object of geometry kind %s cannot be attached to a %s", k, kind)
		}
	}
	f.dataObject = obj
	return nil
}

func (f *featureBase) geoJSON(kind Kind, geom orb.Geometry, bound orb.Bound) *geojson.Feature {
	gf := geojson.NewFeature(geom)
	gf.ID = f.id
	gf.BBox = geojson.NewBBox(bound)
	gf.Properties["kind"] = string(kind)
	gf.Properties["color"] = f.props.Color
	gf.Properties["layer"] = f.props.Layer
	gf.Properties["selection_mode"] = string(f.props.SelectionMode)
	if f.dbID != nil {
		gf.Properties["db_id"] = *f.dbID
	}
	if f.dataObject != nil {
		gf.Properties["data_object"] = f.dataObject.ID()
	}
	return gf
}

// Default colors per geometry kind.
const (
	DefaultPointColor   = "#3bb2d0"
	DefaultLineColor    = "#3887be"
	DefaultPolygonColor = "#fbb03b"
)
