package datatype

import (
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// PropertyValue - значение (или набор значений) свойства у конкретного объекта
type PropertyValue struct {
	property *ObjectProperty
	value    any
	values   []any
}

func NewPropertyValue(p *ObjectProperty) *PropertyValue {
	return &PropertyValue{property: p}
}

func (v *PropertyValue) Property() *ObjectProperty {
	return v.property
}

// Value - значение уникального свойства
func (v *PropertyValue) Value() (any, error) {
	if !v.property.unique {
		return nil, apperrors.TypeError("property %s is multi-valued, use Values", v.property.label)
	}
	return v.value, nil
}

// SetValue заменяет значение уникального свойства
func (v *PropertyValue) SetValue(value any) error {
	if !v.property.unique {
		return apperrors.TypeError("property %s is multi-valued, use AddValue", v.property.label)
	}
	n, ok := v.property.normalize(value)
	if !ok {
		return apperrors.ErrInvalidValue.WithMessage("invalid value %v for property %s", value, v.property.label)
	}
	v.value = n
	return nil
}

// Values - копия набора значений множественного свойства
func (v *PropertyValue) Values() ([]any, error) {
	if v.property.unique {
		return nil, apperrors.TypeError("property %s is unique, use Value", v.property.label)
	}
	return append([]any(nil), v.values...), nil
}

// AddValue добавляет значение; временные значения не должны пересекаться по интервалам,
// если свойство это явно не разрешает
func (v *PropertyValue) AddValue(value any) error {
	if v.property.unique {
		return apperrors.TypeError("property %s is unique, use SetValue", v.property.label)
	}
	n, ok := v.property.normalize(value)
	if !ok {
		return apperrors.ErrInvalidValue.WithMessage("invalid value %v for property %s", value, v.property.label)
	}
	if v.property.kind == KindTemporal && !v.property.allowsOverlaps {
		tv := n.(TemporalValue)
		for _, existing := range v.values {
			if existing.(TemporalValue).ExistenceInterval.Overlaps(tv.ExistenceInterval) {
				return apperrors.ErrOverlappingValue.WithMessage("value overlaps an existing one in property %s", v.property.label)
			}
		}
	}
	v.values = append(v.values, n)
	return nil
}

// RemoveValue удаляет первое равное значение; отсутствие значения не ошибка
func (v *PropertyValue) RemoveValue(value any) error {
	if v.property.unique {
		return apperrors.TypeError("property %s is unique, use SetValue", v.property.label)
	}
	n, ok := v.property.normalize(value)
	if !ok {
		return nil
	}
	for i, existing := range v.values {
		if valuesEqual(existing, n) {
			v.values = append(v.values[:i], v.values[i+1:]...)
			return nil
		}
	}
	return nil
}

// IsEmpty - значение не задано
func (v *PropertyValue) IsEmpty() bool {
	if v.property.unique {
		return v.value == nil
	}
	return len(v.values) == 0
}

func (v *PropertyValue) clone() *PropertyValue {
	return &PropertyValue{property: v.property, value: v.value, values: append([]any(nil), v.values...)}
}

// rebind переносит значения на совместимое свойство другого типа
func (v *PropertyValue) rebind(p *ObjectProperty) (*PropertyValue, bool) {
	if !p.IsCompatibleWith(v.property) {
		return nil, false
	}
	out := NewPropertyValue(p)
	if p.unique {
		if v.value == nil {
			return out, true
		}
		if err := out.SetValue(v.value); err != nil {
			return nil, false
		}
		return out, true
	}
	for _, val := range v.values {
		if err := out.AddValue(val); err != nil {
			return nil, false
		}
	}
	return out, true
}
