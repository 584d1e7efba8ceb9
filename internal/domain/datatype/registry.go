package datatype

import (
	"sort"

	apperrors "github.com/map-editor/internal/pkg/errors"
)

// Registry - именованные типы единиц, перечисления и типы объектов
type Registry struct {
	unitTypes   map[string]*UnitType
	enums       map[string]*Enum
	objectTypes map[string]*ObjectType
}

func NewRegistry() *Registry {
	return &Registry{
		unitTypes:   make(map[string]*UnitType),
		enums:       make(map[string]*Enum),
		objectTypes: make(map[string]*ObjectType),
	}
}

func (r *Registry) AddUnitType(t *UnitType) error {
	if _, ok := r.unitTypes[t.label]; ok {
		return apperrors.ErrInvalidValue.WithMessage("unit type %s already registered", t.label)
	}
	r.unitTypes[t.label] = t
	return nil
}

func (r *Registry) AddEnum(e *Enum) error {
	if _, ok := r.enums[e.label]; ok {
		return apperrors.ErrInvalidValue.WithMessage("enum %s already registered", e.label)
	}
	r.enums[e.label] = e
	return nil
}

func (r *Registry) AddObjectType(t *ObjectType) error {
	if _, ok := r.objectTypes[t.label]; ok {
		return apperrors.ErrInvalidValue.WithMessage("object type %s already registered", t.label)
	}
	r.objectTypes[t.label] = t
	return nil
}

func (r *Registry) UnitType(label string) (*UnitType, error) {
	if t, ok := r.unitTypes[label]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTypeNotFound.WithMessage("unit type %s not found", label)
}

// Unit ищет единицу по символу во всех типах единиц
func (r *Registry) Unit(symbol string) (*Unit, error) {
	for _, t := range r.unitTypes {
		if u := t.Unit(symbol); u != nil {
			return u, nil
		}
	}
	return nil, apperrors.ErrTypeNotFound.WithMessage("unit %s not found", symbol)
}

func (r *Registry) Enum(label string) (*Enum, error) {
	if e, ok := r.enums[label]; ok {
		return e, nil
	}
	return nil, apperrors.ErrTypeNotFound.WithMessage("enum %s not found", label)
}

func (r *Registry) ObjectType(label string) (*ObjectType, error) {
	if t, ok := r.objectTypes[label]; ok {
		return t, nil
	}
	return nil, apperrors.ErrTypeNotFound.WithMessage("object type %s not found", label)
}

// ObjectTypes - все типы объектов по алфавиту
func (r *Registry) ObjectTypes() []*ObjectType {
	out := make([]*ObjectType, 0, len(r.objectTypes))
	for _, t := range r.objectTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].label < out[j].label })
	return out
}
