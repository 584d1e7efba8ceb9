package session

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/events"
	"github.com/map-editor/internal/host/memory"
	apperrors "github.com/map-editor/internal/pkg/errors"
)

// Options - параметры новой сессии; нулевые значения берутся из Defaults
type Options struct {
	Zoom   float64    `json:"zoom" validate:"omitempty,min=0,max=24"`
	Bounds *orb.Bound `json:"bounds,omitempty"`
}

// Defaults - начальный вид карты
type Defaults struct {
	Zoom   float64
	Center orb.Point
	// SpanDeg - размер видимой области вокруг центра по умолчанию
	SpanDeg float64
}

// Registry хранит сессии по id
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	cfg         editor.Config
	defaults    Defaults
	sink        events.Sink
	maxSessions int
	logger      *zap.Logger
	now         func() time.Time
}

// NewRegistry создаёт реестр. sink может быть nil; maxSessions <= 0 - без ограничения.
func NewRegistry(cfg editor.Config, defaults Defaults, sink events.Sink, maxSessions int, logger *zap.Logger) *Registry {
	if defaults.SpanDeg <= 0 {
		defaults.SpanDeg = 0.05
	}
	return &Registry{
		sessions:    make(map[string]*Session),
		cfg:         cfg,
		defaults:    defaults,
		sink:        sink,
		maxSessions: maxSessions,
		logger:      logger,
		now:         time.Now,
	}
}

// Create создаёт сессию, загружает карту и возвращает сессию
func (r *Registry) Create(opts Options) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return nil, apperrors.ErrInvalidRequest.WithMessage("session limit of %d reached", r.maxSessions)
	}

	zoom := opts.Zoom
	if zoom == 0 {
		zoom = r.defaults.Zoom
	}
	bounds := r.defaultBounds()
	if opts.Bounds != nil {
		bounds = *opts.Bounds
	}

	id := uuid.New().String()
	host := memory.New(memory.WithZoom(zoom), memory.WithBounds(bounds))
	bus := events.NewBus(id, r.sink)

	ed, err := editor.New(host, bus, r.cfg, r.logger.With(zap.String("session_id", id)))
	if err != nil {
		return nil, err
	}
	ed.OnLoad()

	now := r.now()
	s := &Session{
		id:        id,
		createdAt: now,
		editor:    ed,
		host:      host,
		lastUsed:  now,
		clock:     r.now,
	}
	r.sessions[id] = s

	r.logger.Info("Session created",
		zap.String("session_id", id),
		zap.Float64("zoom", host.Zoom()),
		zap.String("mode", string(ed.Mode())))
	return s, nil
}

func (r *Registry) defaultBounds() orb.Bound {
	half := r.defaults.SpanDeg / 2
	c := r.defaults.Center
	return orb.Bound{
		Min: orb.Point{c.Lon() - half, c.Lat() - half},
		Max: orb.Point{c.Lon() + half, c.Lat() + half},
	}
}

// Get возвращает сессию или SESSION_NOT_FOUND
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.ErrSessionNotFound.WithMessage("session %s not found", id)
	}
	return s, nil
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return apperrors.ErrSessionNotFound.WithMessage("session %s not found", id)
	}
	delete(r.sessions, id)
	r.logger.Info("Session deleted", zap.String("session_id", id))
	return nil
}

// List - сессии, отсортированные по времени создания
func (r *Registry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].createdAt.Before(out[j].createdAt)
	})
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Expire удаляет сессии, не использовавшиеся дольше ttl; возвращает число удалённых
func (r *Registry) Expire(ttl time.Duration) int {
	deadline := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		if s.LastUsed().Before(deadline) {
			delete(r.sessions, id)
			removed++
			r.logger.Info("Session expired", zap.String("session_id", id))
		}
	}
	return removed
}
