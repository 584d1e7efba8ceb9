package datatype

import (
	"sort"

	apperrors "github.com/map-editor/internal/pkg/errors"
)

// Enum - перечисление: значение -> перевод
type Enum struct {
	label  string
	values map[string]string
}

func NewEnum(label string, values map[string]string) (*Enum, error) {
	if len(values) == 0 {
		return nil, apperrors.ErrEmptyEnum.WithMessage("enum %s has no values", label)
	}
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Enum{label: label, values: copied}, nil
}

func (e *Enum) Label() string {
	return e.label
}

func (e *Enum) Has(value string) bool {
	_, ok := e.values[value]
	return ok
}

// Translation возвращает перевод значения или само значение
func (e *Enum) Translation(value string) string {
	if t, ok := e.values[value]; ok && t != "" {
		return t
	}
	return value
}

// Values - отсортированные значения перечисления
func (e *Enum) Values() []string {
	out := make([]string, 0, len(e.values))
	for k := range e.values {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
