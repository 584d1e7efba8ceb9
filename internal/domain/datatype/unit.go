package datatype

import (
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// UnitType - физическая величина (длина, скорость, напряжение...) и её единицы
type UnitType struct {
	label string
	units []*Unit
}

// Unit - единица измерения; Factor переводит значение в базовую единицу типа
type Unit struct {
	symbol   string
	label    string
	factor   float64
	unitType *UnitType
}

func NewUnitType(label string) *UnitType {
	return &UnitType{label: label}
}

func (t *UnitType) Label() string {
	return t.label
}

// AddUnit регистрирует единицу; factor - сколько базовых единиц в одной этой
func (t *UnitType) AddUnit(symbol, label string, factor float64) (*Unit, error) {
	if factor <= 0 {
		return nil, apperrors.ErrInvalidValue.WithMessage("unit %s: factor must be positive", symbol)
	}
	if t.Unit(symbol) != nil {
		return nil, apperrors.ErrInvalidValue.WithMessage("unit %s already declared in %s", symbol, t.label)
	}
	u := &Unit{symbol: symbol, label: label, factor: factor, unitType: t}
	t.units = append(t.units, u)
	return u, nil
}

func (t *UnitType) Units() []*Unit {
	return append([]*Unit(nil), t.units...)
}

func (t *UnitType) Unit(symbol string) *Unit {
	for _, u := range t.units {
		if u.symbol == symbol {
			return u
		}
	}
	return nil
}

func (u *Unit) Symbol() string      { return u.symbol }
func (u *Unit) Label() string       { return u.label }
func (u *Unit) Factor() float64     { return u.factor }
func (u *Unit) UnitType() *UnitType { return u.unitType }

// Convert переводит значение в единицу to того же типа
func (u *Unit) Convert(value float64, to *Unit) (float64, error) {
	if to == nil || to.unitType != u.unitType {
		return 0, apperrors.TypeError("cannot convert %s to a unit of another type", u.symbol)
	}
	return value * u.factor / to.factor, nil
}
