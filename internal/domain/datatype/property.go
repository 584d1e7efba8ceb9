package datatype

import (
	"math"

	apperrors "github.com/map-editor/internal/pkg/errors"
)

// PropertyKind - вид значения свойства
type PropertyKind string

const (
	KindBool         PropertyKind = "bool"
	KindInt          PropertyKind = "int"
	KindFloat        PropertyKind = "float"
	KindString       PropertyKind = "string"
	KindDateInterval PropertyKind = "date_interval"
	KindType         PropertyKind = "type"
	KindTemporal     PropertyKind = "temporal"
	KindEnum         PropertyKind = "enum"
)

// ObjectProperty - объявление свойства типа объекта
type ObjectProperty struct {
	label  string
	kind   PropertyKind
	unique bool

	minInt, maxInt     *int64
	minFloat, maxFloat *float64
	unit               *Unit
	translatable       bool
	enum               *Enum
	target             *ObjectType
	allowsOverlaps     bool
}

func NewBoolProperty(label string, unique bool) *ObjectProperty {
	return &ObjectProperty{label: label, kind: KindBool, unique: unique}
}

// NewIntProperty - целое с необязательными границами (включительно)
func NewIntProperty(label string, unique bool, min, max *int64) (*ObjectProperty, error) {
	if min != nil && max != nil && *min > *max {
		return nil, apperrors.ErrInvalidRange.WithMessage("property %s: min %d > max %d", label, *min, *max)
	}
	return &ObjectProperty{label: label, kind: KindInt, unique: unique, minInt: min, maxInt: max}, nil
}

// NewFloatProperty - вещественное с границами и необязательной единицей измерения
func NewFloatProperty(label string, unique bool, min, max *float64, unit *Unit) (*ObjectProperty, error) {
	if min != nil && max != nil && *min > *max {
		return nil, apperrors.ErrInvalidRange.WithMessage("property %s: min %g > max %g", label, *min, *max)
	}
	return &ObjectProperty{label: label, kind: KindFloat, unique: unique, minFloat: min, maxFloat: max, unit: unit}, nil
}

func NewStringProperty(label string, unique, translatable bool) *ObjectProperty {
	return &ObjectProperty{label: label, kind: KindString, unique: unique, translatable: translatable}
}

func NewDateIntervalProperty(label string, unique bool) *ObjectProperty {
	return &ObjectProperty{label: label, kind: KindDateInterval, unique: unique}
}

// NewTypeProperty - ссылка на объект типа target или его потомка
func NewTypeProperty(label string, unique bool, target *ObjectType) (*ObjectProperty, error) {
	if target == nil {
		return nil, apperrors.TypeError("property %s: target type is required", label)
	}
	return &ObjectProperty{label: label, kind: KindType, unique: unique, target: target}, nil
}

// NewTemporalProperty - всегда множественное; значения с интервалами существования
func NewTemporalProperty(label string, target *ObjectType, allowsOverlaps bool) (*ObjectProperty, error) {
	if target == nil {
		return nil, apperrors.TypeError("property %s: target type is required", label)
	}
	return &ObjectProperty{label: label, kind: KindTemporal, target: target, allowsOverlaps: allowsOverlaps}, nil
}

func NewEnumProperty(label string, unique bool, enum *Enum) (*ObjectProperty, error) {
	if enum == nil {
		return nil, apperrors.TypeError("property %s: enum is required", label)
	}
	return &ObjectProperty{label: label, kind: KindEnum, unique: unique, enum: enum}, nil
}

func (p *ObjectProperty) Label() string           { return p.label }
func (p *ObjectProperty) Kind() PropertyKind      { return p.kind }
func (p *ObjectProperty) IsUnique() bool          { return p.unique }
func (p *ObjectProperty) Unit() *Unit             { return p.unit }
func (p *ObjectProperty) Enum() *Enum             { return p.enum }
func (p *ObjectProperty) TargetType() *ObjectType { return p.target }
func (p *ObjectProperty) AllowsOverlaps() bool    { return p.allowsOverlaps }
func (p *ObjectProperty) IsTranslatable() bool    { return p.translatable }

// IntRange - границы целого свойства, nil означает отсутствие границы
func (p *ObjectProperty) IntRange() (min, max *int64) { return p.minInt, p.maxInt }

// FloatRange - границы вещественного свойства
func (p *ObjectProperty) FloatRange() (min, max *float64) { return p.minFloat, p.maxFloat }

// IsValueValid проверяет, что значение допустимо для свойства
func (p *ObjectProperty) IsValueValid(v any) bool {
	_, ok := p.normalize(v)
	return ok
}

// IsCompatibleWith - значения одного свойства можно перенести в другое
func (p *ObjectProperty) IsCompatibleWith(other *ObjectProperty) bool {
	if other == nil {
		return false
	}
	return p.label == other.label && p.kind == other.kind && p.unique == other.unique
}

// normalize приводит значение к каноническому представлению и проверяет ограничения
func (p *ObjectProperty) normalize(v any) (any, bool) {
	switch p.kind {
	case KindBool:
		b, ok := v.(bool)
		return b, ok
	case KindInt:
		i, ok := toInt64(v)
		if !ok {
			return nil, false
		}
		if (p.minInt != nil && i < *p.minInt) || (p.maxInt != nil && i > *p.maxInt) {
			return nil, false
		}
		return i, true
	case KindFloat:
		f, ok := toFloat64(v)
		if !ok || math.IsNaN(f) {
			return nil, false
		}
		if (p.minFloat != nil && f < *p.minFloat) || (p.maxFloat != nil && f > *p.maxFloat) {
			return nil, false
		}
		return f, true
	case KindString:
		s, ok := v.(string)
		return s, ok
	case KindDateInterval:
		d, ok := toDateInterval(v)
		if !ok || !d.IsValid() {
			return nil, false
		}
		return d, true
	case KindEnum:
		s, ok := v.(string)
		if !ok || !p.enum.Has(s) {
			return nil, false
		}
		return s, true
	case KindType:
		o, ok := v.(*ObjectInstance)
		if !ok || o == nil || o.objectType == nil || !o.objectType.IsInstanceOf(p.target) {
			return nil, false
		}
		return o, true
	case KindTemporal:
		tv, ok := toTemporal(v)
		if !ok || tv.Value == nil || tv.Value.objectType == nil {
			return nil, false
		}
		if !tv.Value.objectType.IsInstanceOf(p.target) || !tv.ExistenceInterval.IsValid() {
			return nil, false
		}
		return tv, true
	}
	return nil, false
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		// JSON числа приходят как float64; 2^63 уже не помещается в int64
		if x == math.Trunc(x) && x >= math.MinInt64 && x < math.MaxInt64 {
			return int64(x), true
		}
	}
	return 0, false
}

func toFloat64(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func toDateInterval(v any) (DateInterval, bool) {
	switch x := v.(type) {
	case DateInterval:
		return x, true
	case *DateInterval:
		if x != nil {
			return *x, true
		}
	}
	return DateInterval{}, false
}

func toTemporal(v any) (TemporalValue, bool) {
	switch x := v.(type) {
	case TemporalValue:
		return x, true
	case *TemporalValue:
		if x != nil {
			return *x, true
		}
	}
	return TemporalValue{}, false
}

func valuesEqual(a, b any) bool {
	switch x := a.(type) {
	case DateInterval:
		y, ok := b.(DateInterval)
		return ok && x.Equal(y)
	case TemporalValue:
		y, ok := b.(TemporalValue)
		return ok && x.Equal(y)
	}
	return a == b
}
