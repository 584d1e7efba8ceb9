// Package session - headless-сессии редактора: каждая сессия владеет редактором
// и хостом в памяти и обрабатывает вызовы строго по одному.
package session

import (
	"sync"
	"time"

	"github.com/paulmach/orb"

	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/host/memory"
)

// Session - редактор с хостом; все обращения идут через Do
type Session struct {
	id        string
	createdAt time.Time

	mu       sync.Mutex
	editor   *editor.Editor
	host     *memory.Host
	lastUsed time.Time
	clock    func() time.Time
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// LastUsed - время последнего обращения
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Do выполняет fn под блокировкой сессии
func (s *Session) Do(fn func(e *editor.Editor, h *memory.Host) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.clock()
	return fn(s.editor, s.host)
}

// Snapshot - состояние сессии для ответа API
type Snapshot struct {
	ID        string          `json:"id"`
	Mode      editor.EditMode `json:"mode"`
	Zoom      float64         `json:"zoom"`
	Bounds    orb.Bound       `json:"bounds"`
	Features  int             `json:"features"`
	Selection []string        `json:"selection"`
	Hovered   string          `json:"hovered,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

func (s *Session) Snapshot() Snapshot {
	var snap Snapshot
	_ = s.Do(func(e *editor.Editor, h *memory.Host) error {
		snap = Snapshot{
			ID:        s.id,
			Mode:      e.Mode(),
			Zoom:      h.Zoom(),
			Bounds:    h.Bounds(),
			Features:  e.Graph().Len(),
			Selection: e.Selection(),
			Hovered:   e.Hovered(),
			CreatedAt: s.createdAt,
		}
		return nil
	})
	return snap
}
