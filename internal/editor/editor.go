// Package editor - контроллер интерактивного редактора карты: режимы, события
// указателя и клавиатуры, притяжение, рисование и слои отрисовки.
package editor

import (
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/geometry"
	"github.com/map-editor/internal/events"
	apperrors "github.com/map-editor/internal/pkg/errors"
	"github.com/map-editor/internal/snap"
)

// Config - параметры редактора
type Config struct {
	MinZoom             float64
	MinEditZoom         float64
	SnapDistancePx      float64
	VertexPriorityKm    float64
	MinVertexSeparation int
	HoverRadiusPx       float64
}

func DefaultConfig() Config {
	return Config{
		MinZoom:             2,
		MinEditZoom:         15,
		SnapDistancePx:      snap.DefaultSnapDistancePx,
		VertexPriorityKm:    snap.DefaultVertexPriorityKm,
		MinVertexSeparation: geometry.DefaultMinVertexSeparation,
		HoverRadiusPx:       5,
	}
}

// Editor - конечный автомат редактора. Не потокобезопасен: все вызовы
// должны идти из одного цикла событий (см. session.Session).
type Editor struct {
	host    Host
	bus     *events.Bus
	cfg     Config
	logger  *zap.Logger
	graph   *geometry.Graph
	snapper *snap.Resolver

	mode    EditMode
	loaded  bool
	zooming bool

	hovered   string
	selection []string

	layers     map[string][]string // id объекта -> id подслоёв снизу вверх
	layerOwner map[string]string   // id слоя -> id объекта
	zCounter   int

	lastCursor orb.Point
	snapResult *snap.Result

	drag      *dragState
	draw      *drawState
	move      *moveState
	clipboard *clipboard

	// swallowClick - клик после перетаскивания точки не меняет выделение
	swallowClick bool
}

// New создаёт редактор. bus может быть nil.
func New(host Host, bus *events.Bus, cfg Config, logger *zap.Logger) (*Editor, error) {
	if host == nil {
		return nil, apperrors.ErrMissingHost
	}
	if bus == nil {
		bus = events.NewBus("", nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.HoverRadiusPx <= 0 {
		cfg.HoverRadiusPx = def.HoverRadiusPx
	}
	if cfg.MinVertexSeparation <= 0 {
		cfg.MinVertexSeparation = def.MinVertexSeparation
	}

	return &Editor{
		host:   host,
		bus:    bus,
		cfg:    cfg,
		logger: logger,
		graph:  geometry.NewGraph(),
		snapper: snap.NewResolver(snap.Config{
			SnapDistancePx:   cfg.SnapDistancePx,
			VertexPriorityKm: cfg.VertexPriorityKm,
		}),
		mode:       ModeViewOnly,
		layers:     make(map[string][]string),
		layerOwner: make(map[string]string),
	}, nil
}

func (e *Editor) Mode() EditMode {
	return e.mode
}

func (e *Editor) Graph() *geometry.Graph {
	return e.graph
}

func (e *Editor) Bus() *events.Bus {
	return e.bus
}

// Hovered - id объекта под курсором или пустая строка
func (e *Editor) Hovered() string {
	return e.hovered
}

// Selection - выделенные объекты в порядке выбора
func (e *Editor) Selection() []string {
	return append([]string(nil), e.selection...)
}

// SnapResult - активная цель притяжения (nil если нет)
func (e *Editor) SnapResult() *snap.Result {
	return e.snapResult
}

// FeatureCollection - все объекты графа в GeoJSON
func (e *Editor) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, f := range e.graph.Features() {
		fc.Append(f.GeoJSON())
	}
	return fc
}

// OnLoad вызывается движком после загрузки карты
func (e *Editor) OnLoad() {
	e.loaded = true
	e.host.SetMinZoom(e.cfg.MinZoom)
	if e.host.Zoom() < e.cfg.MinEditZoom {
		e.setMode(ModeViewOnly)
		return
	}
	e.setMode(ModeSelect)
}

func (e *Editor) OnZoomStart() {
	e.zooming = true
}

// OnZoomEnd переключает VIEW_ONLY при пересечении порога зума редактирования
func (e *Editor) OnZoomEnd(zoom float64) {
	e.zooming = false
	if !e.loaded {
		return
	}
	switch {
	case zoom < e.cfg.MinEditZoom && e.mode != ModeViewOnly:
		e.interrupt()
		e.clearHover()
		e.setMode(ModeViewOnly)
	case zoom >= e.cfg.MinEditZoom && e.mode == ModeViewOnly:
		e.setMode(ModeSelect)
	}
}

// SelectTool - нажатие кнопки инструмента. Повторное нажатие возвращает SELECT.
func (e *Editor) SelectTool(mode EditMode) {
	if e.mode == ModeViewOnly || mode == ModeViewOnly {
		return
	}
	if mode == e.mode {
		e.interrupt()
		e.setMode(ModeSelect)
		return
	}
	switch mode {
	case ModeSelect:
		e.interrupt()
		e.setMode(ModeSelect)
	case ModeDrawPoint, ModeDrawLine, ModeDrawPolygon:
		e.interrupt()
		e.startDraw(mode)
	case ModeMoveFeatures:
		if len(e.selection) == 0 {
			return
		}
		e.interrupt()
		e.startMove()
	}
}

// interrupt завершает текущее действие, откатывая временные точки
func (e *Editor) interrupt() {
	switch {
	case e.drag != nil:
		e.cancelDrag()
	case e.draw != nil:
		e.finishDraw()
	case e.move != nil:
		e.cancelMove()
	}
	e.snapResult = nil
}

func (e *Editor) setMode(mode EditMode) {
	if e.mode == mode {
		return
	}
	e.logger.Debug("Edit mode changed",
		zap.String("from", string(e.mode)),
		zap.String("to", string(mode)))
	e.mode = mode
	e.bus.PublishMode(string(mode))
}

// AddFeatures добавляет готовые объекты (вместе с их вершинами) в граф и на карту
func (e *Editor) AddFeatures(features ...geometry.Feature) error {
	for _, f := range features {
		if l, ok := f.(geometry.Linear); ok {
			for _, v := range l.AllVertices() {
				if e.graph.Has(v.ID()) {
					continue
				}
				if err := e.addFeature(v); err != nil {
					return err
				}
			}
		}
		if err := e.addFeature(f); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) addFeature(f geometry.Feature) error {
	if err := e.graph.Add(f); err != nil {
		return err
	}
	e.attachLayers(f)
	return nil
}

func (e *Editor) newPoint(c orb.Point) *geometry.Point {
	p := geometry.NewPoint(uuid.NewString(), c)
	if err := e.addFeature(p); err != nil {
		// uuid не повторяется
		e.logger.Error("Failed to add point", zap.Error(err))
	}
	return p
}

func (e *Editor) lineOptions() []geometry.Option {
	return []geometry.Option{geometry.WithMinVertexSeparation(e.cfg.MinVertexSeparation)}
}
