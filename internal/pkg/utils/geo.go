package utils

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLon := (lon2 - lon1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// PointDistanceKm - расстояние между двумя точками orb (lon, lat) в километрах
func PointDistanceKm(a, b orb.Point) float64 {
	return HaversineDistance(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// NearestPointOnSegment проецирует p на отрезок a-b.
// Проекция считается в локальной равнопромежуточной системе (долгота
// масштабируется косинусом средней широты), t - положение проекции на отрезке [0, 1].
func NearestPointOnSegment(p, a, b orb.Point) (orb.Point, float64) {
	k := math.Cos((a.Lat() + b.Lat()) / 2 * math.Pi / 180.0)

	ax, ay := a.Lon()*k, a.Lat()
	bx, by := b.Lon()*k, b.Lat()
	px, py := p.Lon()*k, p.Lat()

	dx, dy := bx-ax, by-ay
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return a, 0
	}

	t := ((px-ax)*dx + (py-ay)*dy) / lenSq
	switch {
	case t <= 0:
		return a, 0
	case t >= 1:
		return b, 1
	}

	return orb.Point{a.Lon() + t*(b.Lon()-a.Lon()), a.Lat() + t*(b.Lat()-a.Lat())}, t
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
