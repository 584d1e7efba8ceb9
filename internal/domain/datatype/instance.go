package datatype

import (
	"sort"

	"github.com/google/uuid"

	"github.com/map-editor/internal/domain/geometry"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// ObjectInstance - объект данных, привязываемый к фиче на карте
type ObjectInstance struct {
	id         string
	objectType *ObjectType
	properties map[string]*PropertyValue
}

// NewObjectInstance создаёт объект со случайным UUID
func NewObjectInstance(t *ObjectType) *ObjectInstance {
	return NewObjectInstanceWithID(uuid.New().String(), t)
}

func NewObjectInstanceWithID(id string, t *ObjectType) *ObjectInstance {
	return &ObjectInstance{id: id, objectType: t, properties: make(map[string]*PropertyValue)}
}

func (o *ObjectInstance) ID() string {
	return o.id
}

func (o *ObjectInstance) Type() *ObjectType {
	return o.objectType
}

// GeometryKind реализует geometry.DataObject
func (o *ObjectInstance) GeometryKind() (geometry.Kind, bool) {
	if o.objectType == nil {
		return "", false
	}
	return o.objectType.GeometryType()
}

// SetType меняет тип объекта. Вид геометрии меняться не может;
// сохраняются только значения свойств, совместимых с новым типом.
func (o *ObjectInstance) SetType(t *ObjectType) error {
	if t == nil {
		return apperrors.TypeError("object type is required")
	}
	oldKind, oldOk := o.GeometryKind()
	newKind, newOk := t.GeometryType()
	if oldOk != newOk || oldKind != newKind {
		return apperrors.TypeError("cannot change geometry kind of object %s from %q to %q", o.id, oldKind, newKind)
	}
	kept := make(map[string]*PropertyValue, len(o.properties))
	for label, pv := range o.properties {
		p := t.GetProperty(label)
		if p == nil {
			continue
		}
		if rebound, ok := pv.rebind(p); ok {
			kept[label] = rebound
		}
	}
	o.objectType = t
	o.properties = kept
	return nil
}

// GetPropertyValue возвращает привязку свойства или nil
func (o *ObjectInstance) GetPropertyValue(label string) *PropertyValue {
	return o.properties[label]
}

// PropertyValues - привязки, отсортированные по имени свойства
func (o *ObjectInstance) PropertyValues() []*PropertyValue {
	labels := make([]string, 0, len(o.properties))
	for l := range o.properties {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	out := make([]*PropertyValue, 0, len(labels))
	for _, l := range labels {
		out = append(out, o.properties[l])
	}
	return out
}

// SetPropertyValue задаёт значение уникального свойства.
// При ошибке прежняя привязка не меняется.
func (o *ObjectInstance) SetPropertyValue(label string, value any) error {
	p, err := o.property(label)
	if err != nil {
		return err
	}
	pv := NewPropertyValue(p)
	if err := pv.SetValue(value); err != nil {
		return err
	}
	o.properties[label] = pv
	return nil
}

// AddValueToProperty добавляет значение множественного свойства
func (o *ObjectInstance) AddValueToProperty(label string, value any) error {
	p, err := o.property(label)
	if err != nil {
		return err
	}
	var pv *PropertyValue
	if existing, ok := o.properties[label]; ok {
		pv = existing.clone()
	} else {
		pv = NewPropertyValue(p)
	}
	if err := pv.AddValue(value); err != nil {
		return err
	}
	o.properties[label] = pv
	return nil
}

// RemoveValueFromProperty удаляет значение множественного свойства
func (o *ObjectInstance) RemoveValueFromProperty(label string, value any) error {
	p, err := o.property(label)
	if err != nil {
		return err
	}
	pv, ok := o.properties[label]
	if !ok {
		if p.unique {
			return apperrors.TypeError("property %s is unique, use SetPropertyValue", label)
		}
		return nil
	}
	if err := pv.RemoveValue(value); err != nil {
		return err
	}
	if pv.IsEmpty() {
		delete(o.properties, label)
	}
	return nil
}

// UnsetProperty убирает привязку свойства целиком
func (o *ObjectInstance) UnsetProperty(label string) {
	delete(o.properties, label)
}

func (o *ObjectInstance) property(label string) (*ObjectProperty, error) {
	if o.objectType == nil {
		return nil, apperrors.TypeError("object %s has no type", o.id)
	}
	p := o.objectType.GetProperty(label)
	if p == nil {
		return nil, apperrors.ErrPropertyNotFound.WithMessage("type %s has no property %s", o.objectType.label, label)
	}
	return p, nil
}
