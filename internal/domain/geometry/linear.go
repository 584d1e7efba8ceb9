package geometry

import (
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// DefaultMinVertexSeparation - минимальное число других вершин между двумя
// вхождениями одной вершины в кольцо (замыкание петли)
const DefaultMinVertexSeparation = 2

// Option настраивает линейный объект при создании
type Option func(*linear)

// WithMinVertexSeparation задаёт минимальное разделение для замыкания петли
func WithMinVertexSeparation(n int) Option {
	return func(l *linear) {
		if n >= 0 {
			l.minSeparation = n
		}
	}
}

// WithLockedRings создаёт полигон с уже завершёнными кольцами
func WithLockedRings() Option {
	return func(l *linear) {
		l.lockAll = true
	}
}

// Segment - отрезок кольца, Path - путь его первой вершины
type Segment struct {
	Path string
	A, B *Point
}

// Linear - общий контракт LineString и Polygon
type Linear interface {
	Feature

	RingCount() int
	Vertices(ring int) []*Point
	AllVertices() []*Point
	ContainsVertex(v *Point) bool
	IsRingLocked(ring int) bool
	Segments() []Segment

	CanAppendVertex(v *Point, path string) bool
	AppendVertex(v *Point, path string)
	CanAcceptVertex(v *Point, at string) bool
	ReplaceVertex(newVertex, oldVertex *Point)
	CanInsertVertex(v *Point, path string) bool
	InsertVertexAfter(v *Point, path string)
	RemoveVertex(v *Point) Action

	GetVertex(path string) *Point
	GetSegmentVertices(path string) (*Point, *Point)
	GetSegmentPath(v1, v2 *Point) string
	IncrementPath(path string) string
	GetVertexPath(v *Point) string
	GetNextVertexPath() string

	IsNearlyCircular(ring int) bool
	IsNearlySquare(ring int) bool
	OnVertexDrag(p *Point)

	impl() *linear
}

// linear - общая реализация; поведение различается по kind
type linear struct {
	featureBase
	kind          Kind
	rings         [][]*Point
	locked        []bool
	minSeparation int
	lockAll       bool

	geometry orb.Geometry
	bound    orb.Bound
}

func newLinear(id string, kind Kind, rings [][]*Point, opts []Option) *linear {
	color := DefaultLineColor
	if kind == KindPolygon {
		color = DefaultPolygonColor
	}

	l := &linear{
		featureBase:   newFeatureBase(id, color),
		kind:          kind,
		minSeparation: DefaultMinVertexSeparation,
	}
	for _, opt := range opts {
		opt(l)
	}

	l.rings = make([][]*Point, len(rings))
	l.locked = make([]bool, len(rings))
	for i, ring := range rings {
		l.rings[i] = append([]*Point(nil), ring...)
		l.locked[i] = l.lockAll
	}
	return l
}

func (l *linear) impl() *linear {
	return l
}

func (l *linear) Kind() Kind {
	return l.kind
}

func (l *linear) SetDataObject(obj DataObject) error {
	return l.setDataObject(l.kind, obj)
}

func (l *linear) Geometry() orb.Geometry {
	return l.geometry
}

func (l *linear) Bound() orb.Bound {
	return l.bound
}

func (l *linear) GeoJSON() *geojson.Feature {
	return l.geoJSON(l.kind, l.geometry, l.bound)
}

func (l *linear) RingCount() int {
	return len(l.rings)
}

// Vertices возвращает копию вершин кольца
func (l *linear) Vertices(ring int) []*Point {
	if ring < 0 || ring >= len(l.rings) {
		return nil
	}
	return append([]*Point(nil), l.rings[ring]...)
}

// AllVertices - уникальные вершины всех колец в порядке обхода
func (l *linear) AllVertices() []*Point {
	seen := make(map[*Point]struct{})
	out := make([]*Point, 0)
	for _, ring := range l.rings {
		for _, v := range ring {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func (l *linear) ContainsVertex(v *Point) bool {
	return l.ringOf(v) >= 0
}

func (l *linear) IsRingLocked(ring int) bool {
	if l.kind != KindPolygon || ring < 0 || ring >= len(l.locked) {
		return false
	}
	return l.locked[ring]
}

func (l *linear) isLoop() bool {
	if l.kind != KindLineString || len(l.rings) == 0 {
		return false
	}
	ring := l.rings[0]
	return len(ring) > 2 && ring[0] == ring[len(ring)-1]
}

// ringOf возвращает индекс кольца, содержащего вершину, или -1
func (l *linear) ringOf(v *Point) int {
	for r, ring := range l.rings {
		for _, p := range ring {
			if p == v {
				return r
			}
		}
	}
	return -1
}

func indicesOf(ring []*Point, v *Point) []int {
	var out []int
	for i, p := range ring {
		if p == v {
			out = append(out, i)
		}
	}
	return out
}

// parsePath разбирает путь вершины: "<index>" для линии, "<ring>.<index>" для полигона
func (l *linear) parsePath(path string) (int, int, bool) {
	if l.kind == KindLineString {
		if strings.Contains(path, ".") {
			return 0, 0, false
		}
		idx, err := strconv.Atoi(path)
		if err != nil || idx < 0 {
			return 0, 0, false
		}
		return 0, idx, true
	}

	parts := strings.Split(path, ".")
	if len(parts) != 2 {
		return 0, 0, false
	}
	ring, err := strconv.Atoi(parts[0])
	if err != nil || ring < 0 || ring >= len(l.rings) {
		return 0, 0, false
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil || idx < 0 {
		return 0, 0, false
	}
	return ring, idx, true
}

func (l *linear) formatPath(ring, idx int) string {
	if l.kind == KindLineString {
		return strconv.Itoa(idx)
	}
	return strconv.Itoa(ring) + "." + strconv.Itoa(idx)
}

// CanAppendVertex - вершина ещё не принадлежит объекту, а путь указывает на
// текущее начало или конец незавершённого кольца.
func (l *linear) CanAppendVertex(v *Point, path string) bool {
	if v == nil || l.ContainsVertex(v) {
		return false
	}
	ring, idx, ok := l.parsePath(path)
	if !ok || ring >= len(l.rings) {
		return false
	}
	if l.IsRingLocked(ring) || l.isLoop() {
		return false
	}
	n := len(l.rings[ring])
	return idx == 0 || idx == n-1
}

// AppendVertex добавляет вершину в начало или конец кольца.
// Если CanAppendVertex ложно, вызов ничего не делает.
func (l *linear) AppendVertex(v *Point, path string) {
	if !l.CanAppendVertex(v, path) {
		return
	}
	ring, idx, _ := l.parsePath(path)
	if idx == len(l.rings[ring])-1 {
		l.rings[ring] = append(l.rings[ring], v)
	} else {
		l.rings[ring] = append([]*Point{v}, l.rings[ring]...)
	}
	v.bindFeature(l.id)
	l.recompute()
}

// CanAcceptVertex проверяет, что вершина может занять позицию at, не повторяясь
// в кольце. Для линии допускается совпадение первой и последней позиции
// (петля), если между ними не меньше minSeparation других вершин.
// Пустой at означает "в любой новой позиции".
func (l *linear) CanAcceptVertex(v *Point, at string) bool {
	if v == nil {
		return false
	}
	if at == "" {
		return !l.ContainsVertex(v)
	}

	ring, idx, ok := l.parsePath(at)
	if !ok || ring >= len(l.rings) {
		return false
	}
	vertices := l.rings[ring]
	n := len(vertices)
	if idx >= n {
		return false
	}

	for r := range l.rings {
		if r != ring && len(indicesOf(l.rings[r], v)) > 0 {
			return false
		}
	}

	others := make([]int, 0, 2)
	for _, j := range indicesOf(vertices, v) {
		if j != idx {
			others = append(others, j)
		}
	}
	switch len(others) {
	case 0:
		return true
	case 1:
	default:
		return false
	}

	// кольцо полигона замкнуто неявно, повтор в нём всегда дубликат
	if l.kind != KindLineString {
		return false
	}
	j := others[0]
	isEnds := (idx == 0 && j == n-1) || (idx == n-1 && j == 0)
	if !isEnds {
		return false
	}
	return n-2 >= l.minSeparation
}

// ReplaceVertex заменяет все вхождения oldVertex на newVertex
func (l *linear) ReplaceVertex(newVertex, oldVertex *Point) {
	if newVertex == nil || oldVertex == nil || newVertex == oldVertex {
		return
	}
	replaced := false
	for _, ring := range l.rings {
		for i, p := range ring {
			if p == oldVertex {
				ring[i] = newVertex
				replaced = true
			}
		}
	}
	if !replaced {
		return
	}
	oldVertex.unbindFeature(l.id)
	newVertex.bindFeature(l.id)
	l.recompute()
}

// CanInsertVertex - вставка после вершины path (внутрь отрезка).
// Запрещена после последней вершины открытой линии и в завершённом кольце.
func (l *linear) CanInsertVertex(v *Point, path string) bool {
	if v == nil || l.ContainsVertex(v) {
		return false
	}
	ring, idx, ok := l.parsePath(path)
	if !ok || ring >= len(l.rings) {
		return false
	}
	if l.IsRingLocked(ring) {
		return false
	}
	n := len(l.rings[ring])
	if l.kind == KindLineString {
		return idx < n-1
	}
	return idx < n
}

func (l *linear) InsertVertexAfter(v *Point, path string) {
	if !l.CanInsertVertex(v, path) {
		return
	}
	ring, idx, _ := l.parsePath(path)
	vertices := l.rings[ring]
	vertices = append(vertices, nil)
	copy(vertices[idx+2:], vertices[idx+1:])
	vertices[idx+1] = v
	l.rings[ring] = vertices
	v.bindFeature(l.id)
	l.recompute()
}

// RemoveVertex удаляет вершину, если объект остаётся корректным, иначе
// возвращает действие, которое должен выполнить вызывающий код (без изменений).
func (l *linear) RemoveVertex(v *Point) Action {
	ring := l.ringOf(v)
	if ring < 0 {
		return doNothing()
	}
	if l.kind == KindLineString {
		return l.removeFromLine(v)
	}
	return l.removeFromPolygon(v, ring)
}

func (l *linear) removeFromLine(v *Point) Action {
	vertices := l.rings[0]
	wasLoop := l.isLoop()

	next := make([]*Point, 0, len(vertices))
	for _, p := range vertices {
		if p != v {
			next = append(next, p)
		}
	}
	// петля из двух различных вершин вырождается в открытую линию
	if wasLoop && len(next) > 1 && next[0] == next[len(next)-1] && len(next) <= 3 {
		next = next[:len(next)-1]
	}
	if len(next) < 2 {
		return deleteFeature()
	}

	l.rings[0] = next
	v.unbindFeature(l.id)
	l.recompute()
	return doNothing()
}

func (l *linear) removeFromPolygon(v *Point, ring int) Action {
	vertices := l.rings[ring]
	if len(vertices)-1 < 3 {
		if ring == 0 {
			return deleteFeature()
		}
		orphans := make([]*Point, 0, len(vertices))
		for _, p := range vertices {
			if p != v && p.BoundFeaturesCount() == 1 && p.IsBoundTo(l.id) {
				orphans = append(orphans, p)
			}
		}
		return Action{Type: ActionDeleteRing, RingIndex: ring, OrphanedPoints: orphans}
	}

	next := make([]*Point, 0, len(vertices)-1)
	for _, p := range vertices {
		if p != v {
			next = append(next, p)
		}
	}
	l.rings[ring] = next
	v.unbindFeature(l.id)
	l.recompute()
	return doNothing()
}

func (l *linear) GetVertex(path string) *Point {
	ring, idx, ok := l.parsePath(path)
	if !ok || ring >= len(l.rings) || idx >= len(l.rings[ring]) {
		return nil
	}
	return l.rings[ring][idx]
}

// GetSegmentVertices возвращает концы отрезка, начинающегося в path.
// Кольца полигона замкнуты: последний отрезок ведёт к первой вершине.
func (l *linear) GetSegmentVertices(path string) (*Point, *Point) {
	ring, idx, ok := l.parsePath(path)
	if !ok || ring >= len(l.rings) {
		return nil, nil
	}
	vertices := l.rings[ring]
	n := len(vertices)
	if n < 2 || idx >= n {
		return nil, nil
	}
	if idx == n-1 {
		if l.kind == KindLineString || n < 3 {
			return nil, nil
		}
		return vertices[idx], vertices[0]
	}
	return vertices[idx], vertices[idx+1]
}

// Segments перечисляет все отрезки объекта
func (l *linear) Segments() []Segment {
	out := make([]Segment, 0)
	for r, vertices := range l.rings {
		n := len(vertices)
		for i := 0; i < n-1; i++ {
			out = append(out, Segment{Path: l.formatPath(r, i), A: vertices[i], B: vertices[i+1]})
		}
		if l.kind == KindPolygon && n >= 3 {
			out = append(out, Segment{Path: l.formatPath(r, n-1), A: vertices[n-1], B: vertices[0]})
		}
	}
	return out
}

// GetSegmentPath - путь отрезка, соединяющего v1 и v2 (в любом порядке), или ""
func (l *linear) GetSegmentPath(v1, v2 *Point) string {
	for _, s := range l.Segments() {
		if (s.A == v1 && s.B == v2) || (s.A == v2 && s.B == v1) {
			return s.Path
		}
	}
	return ""
}

func (l *linear) IncrementPath(path string) string {
	ring, idx, ok := l.parsePath(path)
	if !ok {
		return ""
	}
	return l.formatPath(ring, idx+1)
}

func (l *linear) GetVertexPath(v *Point) string {
	for r, ring := range l.rings {
		for i, p := range ring {
			if p == v {
				return l.formatPath(r, i)
			}
		}
	}
	return ""
}

// GetNextVertexPath - путь, по которому будет добавлена следующая рисуемая вершина
func (l *linear) GetNextVertexPath() string {
	if l.kind == KindLineString {
		return l.formatPath(0, len(l.rings[0]))
	}
	for r := len(l.rings) - 1; r >= 0; r-- {
		if !l.locked[r] {
			return l.formatPath(r, len(l.rings[r]))
		}
	}
	return ""
}

// OnVertexDrag вызывается графом при перемещении вершины
func (l *linear) OnVertexDrag(p *Point) {
	if l.ContainsVertex(p) {
		l.recompute()
	}
}

// release отвязывает все вершины и возвращает оставшиеся без объектов
func (l *linear) release() []*Point {
	orphans := make([]*Point, 0)
	for _, v := range l.AllVertices() {
		v.unbindFeature(l.id)
		if v.IsIsolated() {
			orphans = append(orphans, v)
		}
	}
	return orphans
}

// recompute пересчитывает координаты и bbox; вызывается после каждого изменения
func (l *linear) recompute() {
	if l.kind == KindLineString {
		ls := make(orb.LineString, 0, len(l.rings[0]))
		for _, v := range l.rings[0] {
			ls = append(ls, v.Coordinates())
		}
		l.geometry = ls
		l.bound = ls.Bound()
		return
	}

	poly := make(orb.Polygon, 0, len(l.rings))
	for _, vertices := range l.rings {
		ring := make(orb.Ring, 0, len(vertices)+1)
		for _, v := range vertices {
			ring = append(ring, v.Coordinates())
		}
		if len(vertices) > 0 {
			ring = append(ring, vertices[0].Coordinates())
		}
		poly = append(poly, ring)
	}
	l.geometry = poly
	l.bound = poly.Bound()
}

func (l *linear) bindAll() {
	for _, v := range l.AllVertices() {
		v.bindFeature(l.id)
	}
}
