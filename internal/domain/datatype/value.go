package datatype

import "time"

// DateInterval - интервал дат; нулевое время означает открытую границу
type DateInterval struct {
	Start time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// IsValid - начало не позже конца (открытые границы всегда допустимы)
func (d DateInterval) IsValid() bool {
	if d.Start.IsZero() || d.End.IsZero() {
		return true
	}
	return !d.End.Before(d.Start)
}

// Overlaps - интервалы пересекаются; касание границами пересечением не считается
func (d DateInterval) Overlaps(other DateInterval) bool {
	return before(d.Start, other.End) && before(other.Start, d.End)
}

// Equal сравнивает границы без учёта часового пояса
func (d DateInterval) Equal(other DateInterval) bool {
	return d.Start.Equal(other.Start) && d.End.Equal(other.End)
}

// before: start < end, где нулевое start = -inf, нулевое end = +inf
func before(start, end time.Time) bool {
	if start.IsZero() || end.IsZero() {
		return true
	}
	return start.Before(end)
}

// TemporalValue - ссылка на объект с интервалом существования
type TemporalValue struct {
	Value             *ObjectInstance `json:"value"`
	ExistenceInterval DateInterval    `json:"existence_interval"`
}

// Equal - тот же объект и тот же интервал
func (v TemporalValue) Equal(other TemporalValue) bool {
	return v.Value == other.Value && v.ExistenceInterval.Equal(other.ExistenceInterval)
}
