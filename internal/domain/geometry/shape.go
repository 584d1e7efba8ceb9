package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/orb/project"
)

const (
	// RoundnessThreshold - минимальный коэффициент 4πA/P² для "почти круга"
	RoundnessThreshold = 0.6
	// SquareAngleTolerance - допуск угла (градусы) до 0° или 90° по модулю 90°
	SquareAngleTolerance = 5.0
)

// shapeVertices - спроецированные в Меркатор вершины кольца без замыкающего дубля
func (l *linear) shapeVertices(ring int) []orb.Point {
	if ring < 0 || ring >= len(l.rings) {
		return nil
	}
	vertices := l.rings[ring]
	if l.kind == KindLineString && l.isLoop() {
		vertices = vertices[:len(vertices)-1]
	}

	out := make([]orb.Point, 0, len(vertices))
	for _, v := range vertices {
		out = append(out, project.WGS84.ToMercator(v.Coordinates()))
	}
	return out
}

// Roundness - коэффициент округлости Кокса 4π·A/P² для кольца
func (l *linear) Roundness(ring int) float64 {
	pts := l.shapeVertices(ring)
	if len(pts) < 3 {
		return 0
	}
	return roundness(pts)
}

func roundness(pts []orb.Point) float64 {
	r := make(orb.Ring, 0, len(pts)+1)
	r = append(r, pts...)
	r = append(r, pts[0])

	perimeter := planar.Length(r)
	if perimeter == 0 {
		return 0
	}
	area := math.Abs(planar.Area(r))
	return 4 * math.Pi * area / (perimeter * perimeter)
}

func (l *linear) IsNearlyCircular(ring int) bool {
	return l.Roundness(ring) >= RoundnessThreshold
}

// IsNearlySquare - каждый угол кольца по модулю 90° в пределах допуска от 0° или 90°
func (l *linear) IsNearlySquare(ring int) bool {
	pts := l.shapeVertices(ring)
	if len(pts) < 3 {
		return false
	}
	return nearlySquare(pts)
}

func nearlySquare(pts []orb.Point) bool {
	n := len(pts)
	for i := 0; i < n; i++ {
		angle, ok := cornerAngle(pts[(i+n-1)%n], pts[i], pts[(i+1)%n])
		if !ok {
			return false
		}
		r := math.Mod(angle, 90)
		if r > SquareAngleTolerance && r < 90-SquareAngleTolerance {
			return false
		}
	}
	return true
}

// cornerAngle - угол при вершине cur в градусах [0, 180]
func cornerAngle(prev, cur, next orb.Point) (float64, bool) {
	ux, uy := prev[0]-cur[0], prev[1]-cur[1]
	wx, wy := next[0]-cur[0], next[1]-cur[1]
	lu := math.Hypot(ux, uy)
	lw := math.Hypot(wx, wy)
	if lu == 0 || lw == 0 {
		return 0, false
	}
	cos := (ux*wx + uy*wy) / (lu * lw)
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, true
}
