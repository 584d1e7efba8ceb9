package datatype

import (
	"github.com/map-editor/internal/domain/geometry"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// ObjectType - тип объекта с наследованием свойств от родителя
type ObjectType struct {
	label      string
	parent     *ObjectType
	children   []*ObjectType
	geometry   *geometry.Kind
	properties []*ObjectProperty
}

// NewObjectType создаёт тип. geometryKind nil означает "наследуется или не ограничен".
// Потомок не может переопределить вид геометрии, заданный предком.
func NewObjectType(label string, parent *ObjectType, geometryKind *geometry.Kind) (*ObjectType, error) {
	if label == "" {
		return nil, apperrors.ErrInvalidValue.WithMessage("object type label is empty")
	}
	if parent != nil && geometryKind != nil {
		if inherited, ok := parent.GeometryType(); ok && inherited != *geometryKind {
			return nil, apperrors.TypeError("type %s declares geometry %s, parent %s requires %s",
				label, *geometryKind, parent.label, inherited)
		}
	}
	t := &ObjectType{label: label, parent: parent}
	if geometryKind != nil {
		k := *geometryKind
		t.geometry = &k
	}
	if parent != nil {
		parent.children = append(parent.children, t)
	}
	return t, nil
}

func (t *ObjectType) Label() string {
	return t.label
}

func (t *ObjectType) Parent() *ObjectType {
	return t.parent
}

// GeometryType - вид геометрии, объявленный типом или ближайшим предком
func (t *ObjectType) GeometryType() (geometry.Kind, bool) {
	for cur := t; cur != nil; cur = cur.parent {
		if cur.geometry != nil {
			return *cur.geometry, true
		}
	}
	return "", false
}

// IsInstanceOf - совпадает с other или наследуется от него
func (t *ObjectType) IsInstanceOf(other *ObjectType) bool {
	if other == nil {
		return false
	}
	for cur := t; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// GetProperty ищет свойство по имени вверх по цепочке наследования
func (t *ObjectType) GetProperty(label string) *ObjectProperty {
	for cur := t; cur != nil; cur = cur.parent {
		for _, p := range cur.properties {
			if p.label == label {
				return p
			}
		}
	}
	return nil
}

// Properties - собственные и унаследованные свойства, предки первыми
func (t *ObjectType) Properties() []*ObjectProperty {
	var chain []*ObjectType
	for cur := t; cur != nil; cur = cur.parent {
		chain = append(chain, cur)
	}
	var out []*ObjectProperty
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].properties...)
	}
	return out
}

// OwnProperties - только свойства, объявленные на этом типе
func (t *ObjectType) OwnProperties() []*ObjectProperty {
	return append([]*ObjectProperty(nil), t.properties...)
}

// AddProperty объявляет свойство. Имя не должно встречаться ни у предков, ни у потомков.
func (t *ObjectType) AddProperty(p *ObjectProperty) error {
	if p == nil {
		return apperrors.ErrInvalidValue.WithMessage("property is nil")
	}
	if t.GetProperty(p.label) != nil || t.declaredBelow(p.label) {
		return apperrors.ErrDuplicateProperty.WithMessage("property %s already declared in hierarchy of %s", p.label, t.label)
	}
	t.properties = append(t.properties, p)
	return nil
}

func (t *ObjectType) declaredBelow(label string) bool {
	for _, c := range t.children {
		for _, p := range c.properties {
			if p.label == label {
				return true
			}
		}
		if c.declaredBelow(label) {
			return true
		}
	}
	return false
}
