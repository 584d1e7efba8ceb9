package datatype_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/map-editor/internal/domain/datatype"
	"github.com/map-editor/internal/domain/geometry"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

func ptr[T any](v T) *T { return &v }

func date(year int) time.Time {
	return time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
}

func TestUnitConvert(t *testing.T) {
	length := datatype.NewUnitType("length")
	m, err := length.AddUnit("m", "meter", 1)
	require.NoError(t, err)
	km, err := length.AddUnit("km", "kilometer", 1000)
	require.NoError(t, err)

	_, err = length.AddUnit("m", "meter again", 1)
	assert.Error(t, err)
	_, err = length.AddUnit("x", "broken", 0)
	assert.Error(t, err)

	v, err := km.Convert(2.5, m)
	require.NoError(t, err)
	assert.InDelta(t, 2500, v, 1e-9)

	speed := datatype.NewUnitType("speed")
	kmh, err := speed.AddUnit("km/h", "kilometers per hour", 1)
	require.NoError(t, err)
	_, err = kmh.Convert(1, m)
	assert.True(t, apperrors.IsTypeError(err))
}

func TestNewEnum(t *testing.T) {
	_, err := datatype.NewEnum("gauge", nil)
	assert.ErrorIs(t, err, apperrors.ErrEmptyEnum)

	e, err := datatype.NewEnum("gauge", map[string]string{"standard": "Standard", "broad": ""})
	require.NoError(t, err)
	assert.Equal(t, []string{"broad", "standard"}, e.Values())
	assert.True(t, e.Has("broad"))
	assert.False(t, e.Has("narrow"))
	assert.Equal(t, "Standard", e.Translation("standard"))
	assert.Equal(t, "broad", e.Translation("broad"))
}

func TestObjectTypeHierarchy(t *testing.T) {
	line := geometry.KindLineString
	point := geometry.KindPoint

	base, err := datatype.NewObjectType("infrastructure", nil, nil)
	require.NoError(t, err)
	track, err := datatype.NewObjectType("track", base, &line)
	require.NoError(t, err)
	mainTrack, err := datatype.NewObjectType("main_track", track, nil)
	require.NoError(t, err)

	_, err = datatype.NewObjectType("station", track, &point)
	assert.True(t, apperrors.IsTypeError(err))

	kind, ok := mainTrack.GeometryType()
	assert.True(t, ok)
	assert.Equal(t, geometry.KindLineString, kind)
	_, ok = base.GeometryType()
	assert.False(t, ok)

	assert.True(t, mainTrack.IsInstanceOf(base))
	assert.True(t, mainTrack.IsInstanceOf(mainTrack))
	assert.False(t, base.IsInstanceOf(track))

	require.NoError(t, base.AddProperty(datatype.NewStringProperty("name", true, true)))
	require.NoError(t, track.AddProperty(datatype.NewBoolProperty("electrified", true)))
	require.NoError(t, mainTrack.AddProperty(datatype.NewStringProperty("line_number", true, false)))

	labels := func(props []*datatype.ObjectProperty) []string {
		var out []string
		for _, p := range props {
			out = append(out, p.Label())
		}
		return out
	}
	assert.Equal(t, []string{"name", "electrified", "line_number"}, labels(mainTrack.Properties()))
	assert.NotNil(t, mainTrack.GetProperty("name"))
	assert.Nil(t, base.GetProperty("electrified"))

	t.Run("duplicate in ancestor", func(t *testing.T) {
		err := mainTrack.AddProperty(datatype.NewStringProperty("name", true, false))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateProperty)
	})
	t.Run("duplicate in descendant", func(t *testing.T) {
		err := base.AddProperty(datatype.NewBoolProperty("electrified", false))
		assert.ErrorIs(t, err, apperrors.ErrDuplicateProperty)
	})
}

func TestPropertyRanges(t *testing.T) {
	_, err := datatype.NewIntProperty("tracks", true, ptr(int64(5)), ptr(int64(1)))
	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
	_, err = datatype.NewFloatProperty("speed", true, ptr(10.0), ptr(1.0), nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)

	tracks, err := datatype.NewIntProperty("tracks", true, ptr(int64(1)), ptr(int64(4)))
	require.NoError(t, err)
	speed, err := datatype.NewFloatProperty("speed", true, ptr(0.0), nil, nil)
	require.NoError(t, err)
	gauge, err := datatype.NewEnum("gauge", map[string]string{"standard": ""})
	require.NoError(t, err)
	gaugeProp, err := datatype.NewEnumProperty("gauge", true, gauge)
	require.NoError(t, err)
	period := datatype.NewDateIntervalProperty("period", true)
	count, err := datatype.NewIntProperty("count", true, nil, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		prop  *datatype.ObjectProperty
		value any
		valid bool
	}{
		{"int in range", tracks, 2, true},
		{"int as json number", tracks, 3.0, true},
		{"int fraction", tracks, 2.5, false},
		{"int below min", tracks, 0, false},
		{"int above max", tracks, int64(5), false},
		{"int wrong type", tracks, "2", false},
		{"unbounded int large json number", count, 1e15, true},
		{"unbounded int beyond int64", count, 1e300, false},
		{"unbounded int below int64", count, -1e300, false},
		{"unbounded int at 2^63", count, math.Pow(2, 63), false},
		{"unbounded int min int64", count, -math.Pow(2, 63), true},
		{"unbounded int infinity", count, math.Inf(1), false},
		{"float open max", speed, 320.5, true},
		{"float from int", speed, 80, true},
		{"float below min", speed, -1.0, false},
		{"enum member", gaugeProp, "standard", true},
		{"enum non member", gaugeProp, "narrow", false},
		{"interval valid", period, datatype.DateInterval{Start: date(2000), End: date(2010)}, true},
		{"interval open", period, datatype.DateInterval{Start: date(2000)}, true},
		{"interval reversed", period, datatype.DateInterval{Start: date(2010), End: date(2000)}, false},
		{"bool for string", datatype.NewStringProperty("name", true, false), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.prop.IsValueValid(tt.value))
		})
	}
}

func TestDateIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		a, b     datatype.DateInterval
		overlaps bool
	}{
		{"disjoint", datatype.DateInterval{Start: date(2000), End: date(2005)}, datatype.DateInterval{Start: date(2006), End: date(2010)}, false},
		{"touching", datatype.DateInterval{Start: date(2000), End: date(2005)}, datatype.DateInterval{Start: date(2005), End: date(2010)}, false},
		{"nested", datatype.DateInterval{Start: date(2000), End: date(2010)}, datatype.DateInterval{Start: date(2003), End: date(2004)}, true},
		{"open end", datatype.DateInterval{Start: date(2000)}, datatype.DateInterval{Start: date(2020), End: date(2030)}, true},
		{"both unbounded", datatype.DateInterval{}, datatype.DateInterval{}, true},
		{"open start before", datatype.DateInterval{End: date(2000)}, datatype.DateInterval{Start: date(2001)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlaps, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlaps, tt.b.Overlaps(tt.a))
		})
	}
}

func TestPropertyValueDiscipline(t *testing.T) {
	unique := datatype.NewPropertyValue(datatype.NewStringProperty("name", true, false))
	multi := datatype.NewPropertyValue(datatype.NewStringProperty("alias", false, false))

	require.NoError(t, unique.SetValue("Berlin Hbf"))
	v, err := unique.Value()
	require.NoError(t, err)
	assert.Equal(t, "Berlin Hbf", v)

	assert.True(t, apperrors.IsTypeError(unique.AddValue("x")))
	assert.True(t, apperrors.IsTypeError(unique.RemoveValue("x")))
	_, err = unique.Values()
	assert.True(t, apperrors.IsTypeError(err))

	assert.True(t, apperrors.IsTypeError(multi.SetValue("x")))
	_, err = multi.Value()
	assert.True(t, apperrors.IsTypeError(err))

	require.NoError(t, multi.AddValue("Lehrter Bahnhof"))
	require.NoError(t, multi.AddValue("Hauptbahnhof"))
	require.NoError(t, multi.RemoveValue("Lehrter Bahnhof"))
	require.NoError(t, multi.RemoveValue("missing"))
	values, err := multi.Values()
	require.NoError(t, err)
	assert.Equal(t, []any{"Hauptbahnhof"}, values)

	err = unique.SetValue(42)
	assert.ErrorIs(t, err, apperrors.ErrInvalidValue)
	v, _ = unique.Value()
	assert.Equal(t, "Berlin Hbf", v)
}

func TestTemporalOverlap(t *testing.T) {
	operator, err := datatype.NewObjectType("operator", nil, nil)
	require.NoError(t, err)
	line, err := datatype.NewObjectType("line", nil, nil)
	require.NoError(t, err)

	strict, err := datatype.NewTemporalProperty("operators", operator, false)
	require.NoError(t, err)
	loose, err := datatype.NewTemporalProperty("owners", operator, true)
	require.NoError(t, err)

	db := datatype.NewObjectInstance(operator)
	other := datatype.NewObjectInstance(operator)
	wrong := datatype.NewObjectInstance(line)

	first := datatype.TemporalValue{Value: db, ExistenceInterval: datatype.DateInterval{Start: date(1994), End: date(2005)}}
	overlapping := datatype.TemporalValue{Value: other, ExistenceInterval: datatype.DateInterval{Start: date(2000)}}
	after := datatype.TemporalValue{Value: other, ExistenceInterval: datatype.DateInterval{Start: date(2005)}}

	pv := datatype.NewPropertyValue(strict)
	require.NoError(t, pv.AddValue(first))
	assert.ErrorIs(t, pv.AddValue(overlapping), apperrors.ErrOverlappingValue)
	require.NoError(t, pv.AddValue(&after))
	assert.ErrorIs(t, pv.AddValue(datatype.TemporalValue{Value: wrong}), apperrors.ErrInvalidValue)

	values, _ := pv.Values()
	assert.Len(t, values, 2)
	require.NoError(t, pv.RemoveValue(first))
	values, _ = pv.Values()
	assert.Len(t, values, 1)

	lpv := datatype.NewPropertyValue(loose)
	require.NoError(t, lpv.AddValue(first))
	require.NoError(t, lpv.AddValue(overlapping))
}

func TestObjectInstanceValues(t *testing.T) {
	line := geometry.KindLineString
	track, err := datatype.NewObjectType("track", nil, &line)
	require.NoError(t, err)
	maxSpeed, err := datatype.NewIntProperty("max_speed", true, ptr(int64(0)), ptr(int64(400)))
	require.NoError(t, err)
	require.NoError(t, track.AddProperty(maxSpeed))
	require.NoError(t, track.AddProperty(datatype.NewStringProperty("alias", false, false)))

	obj := datatype.NewObjectInstance(track)
	assert.NotEmpty(t, obj.ID())
	kind, ok := obj.GeometryKind()
	assert.True(t, ok)
	assert.Equal(t, geometry.KindLineString, kind)

	require.NoError(t, obj.SetPropertyValue("max_speed", 160))
	err = obj.SetPropertyValue("max_speed", 1000)
	assert.ErrorIs(t, err, apperrors.ErrInvalidValue)
	v, _ := obj.GetPropertyValue("max_speed").Value()
	assert.Equal(t, int64(160), v)

	assert.ErrorIs(t, obj.SetPropertyValue("gauge", "standard"), apperrors.ErrPropertyNotFound)
	assert.True(t, apperrors.IsTypeError(obj.SetPropertyValue("alias", "x")))
	assert.True(t, apperrors.IsTypeError(obj.AddValueToProperty("max_speed", 100)))

	require.NoError(t, obj.AddValueToProperty("alias", "Ringbahn"))
	require.Error(t, obj.AddValueToProperty("alias", 12))
	values, _ := obj.GetPropertyValue("alias").Values()
	assert.Equal(t, []any{"Ringbahn"}, values)

	require.NoError(t, obj.RemoveValueFromProperty("alias", "Ringbahn"))
	assert.Nil(t, obj.GetPropertyValue("alias"))
	assert.Len(t, obj.PropertyValues(), 1)
}

func TestObjectInstanceSetType(t *testing.T) {
	line := geometry.KindLineString
	point := geometry.KindPoint

	track, err := datatype.NewObjectType("track", nil, &line)
	require.NoError(t, err)
	require.NoError(t, track.AddProperty(datatype.NewStringProperty("name", true, false)))
	require.NoError(t, track.AddProperty(datatype.NewBoolProperty("electrified", true)))
	require.NoError(t, track.AddProperty(datatype.NewStringProperty("ref", true, false)))

	siding, err := datatype.NewObjectType("siding", nil, &line)
	require.NoError(t, err)
	require.NoError(t, siding.AddProperty(datatype.NewStringProperty("name", true, false)))
	// тот же label, но множественное: несовместимо
	require.NoError(t, siding.AddProperty(datatype.NewStringProperty("ref", false, false)))

	station, err := datatype.NewObjectType("station", nil, &point)
	require.NoError(t, err)

	obj := datatype.NewObjectInstance(track)
	require.NoError(t, obj.SetPropertyValue("name", "Spur 1"))
	require.NoError(t, obj.SetPropertyValue("electrified", true))
	require.NoError(t, obj.SetPropertyValue("ref", "S1"))

	err = obj.SetType(station)
	assert.True(t, apperrors.IsTypeError(err))
	assert.Same(t, track, obj.Type())
	assert.Len(t, obj.PropertyValues(), 3)

	require.NoError(t, obj.SetType(siding))
	assert.Same(t, siding, obj.Type())
	require.Len(t, obj.PropertyValues(), 1)
	v, _ := obj.GetPropertyValue("name").Value()
	assert.Equal(t, "Spur 1", v)
	assert.Same(t, siding.GetProperty("name"), obj.GetPropertyValue("name").Property())
}

func TestRegistry(t *testing.T) {
	r := datatype.NewRegistry()
	length := datatype.NewUnitType("length")
	_, err := length.AddUnit("km", "kilometer", 1000)
	require.NoError(t, err)
	require.NoError(t, r.AddUnitType(length))
	assert.Error(t, r.AddUnitType(datatype.NewUnitType("length")))

	u, err := r.Unit("km")
	require.NoError(t, err)
	assert.Equal(t, "kilometer", u.Label())
	_, err = r.Unit("mi")
	assert.ErrorIs(t, err, apperrors.ErrTypeNotFound)

	b, _ := datatype.NewObjectType("b", nil, nil)
	a, _ := datatype.NewObjectType("a", nil, nil)
	require.NoError(t, r.AddObjectType(b))
	require.NoError(t, r.AddObjectType(a))
	got, err := r.ObjectType("a")
	require.NoError(t, err)
	assert.Same(t, a, got)
	assert.Equal(t, []*datatype.ObjectType{a, b}, r.ObjectTypes())
	_, err = r.ObjectType("c")
	assert.ErrorIs(t, err, apperrors.ErrTypeNotFound)
}
