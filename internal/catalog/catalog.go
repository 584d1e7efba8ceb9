// Package catalog загружает описание типов данных (единицы, перечисления, типы объектов) из YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/map-editor/internal/domain/datatype"
	"github.com/map-editor/internal/domain/geometry"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

//go:embed default.yaml
var defaultCatalog []byte

// Document - корневая структура YAML файла каталога
type Document struct {
	UnitTypes   []UnitTypeDoc   `yaml:"unit_types"`
	Enums       []EnumDoc       `yaml:"enums"`
	ObjectTypes []ObjectTypeDoc `yaml:"object_types"`
}

type UnitTypeDoc struct {
	Name  string    `yaml:"name"`
	Units []UnitDoc `yaml:"units"`
}

type UnitDoc struct {
	Symbol string  `yaml:"symbol"`
	Label  string  `yaml:"label"`
	Factor float64 `yaml:"factor"`
}

type EnumDoc struct {
	Name   string            `yaml:"name"`
	Values map[string]string `yaml:"values"`
}

type ObjectTypeDoc struct {
	Name       string        `yaml:"name"`
	Parent     string        `yaml:"parent,omitempty"`
	Geometry   string        `yaml:"geometry,omitempty"`
	Properties []PropertyDoc `yaml:"properties,omitempty"`
}

type PropertyDoc struct {
	Name           string   `yaml:"name"`
	Kind           string   `yaml:"kind"`
	Unique         bool     `yaml:"unique"`
	Min            *float64 `yaml:"min,omitempty"`
	Max            *float64 `yaml:"max,omitempty"`
	Unit           string   `yaml:"unit,omitempty"`
	Enum           string   `yaml:"enum,omitempty"`
	Type           string   `yaml:"type,omitempty"`
	Translatable   bool     `yaml:"translatable,omitempty"`
	AllowsOverlaps bool     `yaml:"allows_overlaps,omitempty"`
}

// Default - встроенный каталог железнодорожной инфраструктуры
func Default() (*datatype.Registry, error) {
	return Load(defaultCatalog)
}

// LoadFile читает каталог из файла
func LoadFile(path string) (*datatype.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Load(data)
}

// Load разбирает YAML и строит реестр типов
func Load(data []byte) (*datatype.Registry, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return Build(doc)
}

// Build строит реестр из разобранного документа.
// Родители и типы, на которые ссылаются свойства, могут быть объявлены позже.
func Build(doc Document) (*datatype.Registry, error) {
	reg := datatype.NewRegistry()

	for _, ut := range doc.UnitTypes {
		t := datatype.NewUnitType(ut.Name)
		for _, u := range ut.Units {
			if _, err := t.AddUnit(u.Symbol, u.Label, u.Factor); err != nil {
				return nil, err
			}
		}
		if err := reg.AddUnitType(t); err != nil {
			return nil, err
		}
	}

	for _, e := range doc.Enums {
		enum, err := datatype.NewEnum(e.Name, e.Values)
		if err != nil {
			return nil, err
		}
		if err := reg.AddEnum(enum); err != nil {
			return nil, err
		}
	}

	b := &builder{
		reg:      reg,
		docs:     make(map[string]ObjectTypeDoc, len(doc.ObjectTypes)),
		visiting: make(map[string]bool),
	}
	for _, ot := range doc.ObjectTypes {
		if _, dup := b.docs[ot.Name]; dup {
			return nil, apperrors.ErrInvalidValue.WithMessage("object type %s declared twice", ot.Name)
		}
		b.docs[ot.Name] = ot
	}
	for _, ot := range doc.ObjectTypes {
		if _, err := b.objectType(ot.Name); err != nil {
			return nil, err
		}
	}
	for _, ot := range doc.ObjectTypes {
		t, _ := reg.ObjectType(ot.Name)
		for _, pd := range ot.Properties {
			p, err := b.property(pd)
			if err != nil {
				return nil, fmt.Errorf("object type %s: %w", ot.Name, err)
			}
			if err := t.AddProperty(p); err != nil {
				return nil, err
			}
		}
	}
	return reg, nil
}

type builder struct {
	reg      *datatype.Registry
	docs     map[string]ObjectTypeDoc
	visiting map[string]bool
}

func (b *builder) objectType(name string) (*datatype.ObjectType, error) {
	if t, err := b.reg.ObjectType(name); err == nil {
		return t, nil
	}
	doc, ok := b.docs[name]
	if !ok {
		return nil, apperrors.ErrTypeNotFound.WithMessage("object type %s not found", name)
	}
	if b.visiting[name] {
		return nil, apperrors.ErrInvalidValue.WithMessage("object type %s inherits from itself", name)
	}
	b.visiting[name] = true
	defer delete(b.visiting, name)

	var parent *datatype.ObjectType
	if doc.Parent != "" {
		var err error
		if parent, err = b.objectType(doc.Parent); err != nil {
			return nil, err
		}
	}
	var kind *geometry.Kind
	if doc.Geometry != "" {
		k, err := parseKind(doc.Geometry)
		if err != nil {
			return nil, err
		}
		kind = &k
	}
	t, err := datatype.NewObjectType(name, parent, kind)
	if err != nil {
		return nil, err
	}
	if err := b.reg.AddObjectType(t); err != nil {
		return nil, err
	}
	return t, nil
}

func (b *builder) property(pd PropertyDoc) (*datatype.ObjectProperty, error) {
	switch datatype.PropertyKind(pd.Kind) {
	case datatype.KindBool:
		return datatype.NewBoolProperty(pd.Name, pd.Unique), nil
	case datatype.KindInt:
		min, err := intBound(pd.Min)
		if err != nil {
			return nil, err
		}
		max, err := intBound(pd.Max)
		if err != nil {
			return nil, err
		}
		return datatype.NewIntProperty(pd.Name, pd.Unique, min, max)
	case datatype.KindFloat:
		var unit *datatype.Unit
		if pd.Unit != "" {
			u, err := b.reg.Unit(pd.Unit)
			if err != nil {
				return nil, err
			}
			unit = u
		}
		return datatype.NewFloatProperty(pd.Name, pd.Unique, pd.Min, pd.Max, unit)
	case datatype.KindString:
		return datatype.NewStringProperty(pd.Name, pd.Unique, pd.Translatable), nil
	case datatype.KindDateInterval:
		return datatype.NewDateIntervalProperty(pd.Name, pd.Unique), nil
	case datatype.KindEnum:
		e, err := b.reg.Enum(pd.Enum)
		if err != nil {
			return nil, err
		}
		return datatype.NewEnumProperty(pd.Name, pd.Unique, e)
	case datatype.KindType:
		t, err := b.objectType(pd.Type)
		if err != nil {
			return nil, err
		}
		return datatype.NewTypeProperty(pd.Name, pd.Unique, t)
	case datatype.KindTemporal:
		t, err := b.objectType(pd.Type)
		if err != nil {
			return nil, err
		}
		return datatype.NewTemporalProperty(pd.Name, t, pd.AllowsOverlaps)
	}
	return nil, apperrors.ErrInvalidValue.WithMessage("property %s: unknown kind %q", pd.Name, pd.Kind)
}

func intBound(v *float64) (*int64, error) {
	if v == nil {
		return nil, nil
	}
	if *v != math.Trunc(*v) {
		return nil, apperrors.ErrInvalidRange.WithMessage("integer bound %g is not an integer", *v)
	}
	i := int64(*v)
	return &i, nil
}

func parseKind(s string) (geometry.Kind, error) {
	switch geometry.Kind(s) {
	case geometry.KindPoint, geometry.KindLineString, geometry.KindPolygon:
		return geometry.Kind(s), nil
	}
	return "", apperrors.ErrInvalidValue.WithMessage("unknown geometry kind %q", s)
}
