// Package events - шина событий редактора (выделение, наведение, режим)
// и их доставка во внешний Redis Stream.
package events

import (
	"sync"
	"time"

	"github.com/map-editor/internal/domain"
)

type (
	// SelectionHandler получает текущее выделение, в порядке выбора
	SelectionHandler func(featureIDs []string)
	// HoverHandler получает id фичи под курсором; пустая строка - ничего
	HoverHandler func(featureID string)
	// ModeHandler получает новый режим редактора
	ModeHandler func(mode string)
)

// Sink получает копию каждого опубликованного события. Send не должен блокироваться.
type Sink interface {
	Send(event domain.EditorEvent)
}

type subscription[H any] struct {
	id      uint64
	handler H
}

// Bus - синхронная шина событий одной сессии редактора.
// Обработчики вызываются в порядке подписки в горутине издателя.
type Bus struct {
	mu        sync.RWMutex
	sessionID string
	nextID    uint64
	selection []subscription[SelectionHandler]
	hover     []subscription[HoverHandler]
	mode      []subscription[ModeHandler]
	sink      Sink
	now       func() time.Time
}

// NewBus создаёт шину; sink может быть nil
func NewBus(sessionID string, sink Sink) *Bus {
	return &Bus{sessionID: sessionID, sink: sink, now: time.Now}
}

// SessionID - идентификатор сессии, проставляемый в события
func (b *Bus) SessionID() string {
	return b.sessionID
}

func (b *Bus) SubscribeSelection(h SelectionHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.selection = append(b.selection, subscription[SelectionHandler]{id: id, handler: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.selection = remove(b.selection, id)
	}
}

func (b *Bus) SubscribeHover(h HoverHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.hover = append(b.hover, subscription[HoverHandler]{id: id, handler: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.hover = remove(b.hover, id)
	}
}

func (b *Bus) SubscribeMode(h ModeHandler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.mode = append(b.mode, subscription[ModeHandler]{id: id, handler: h})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.mode = remove(b.mode, id)
	}
}

func (b *Bus) PublishSelection(featureIDs []string) {
	ids := append([]string(nil), featureIDs...)
	b.mu.RLock()
	handlers := append([]subscription[SelectionHandler](nil), b.selection...)
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(append([]string(nil), ids...))
	}
	b.send(domain.EditorEvent{Type: domain.EventSelection, FeatureIDs: ids})
}

func (b *Bus) PublishHover(featureID string) {
	b.mu.RLock()
	handlers := append([]subscription[HoverHandler](nil), b.hover...)
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(featureID)
	}
	var ids []string
	if featureID != "" {
		ids = []string{featureID}
	}
	b.send(domain.EditorEvent{Type: domain.EventHover, FeatureIDs: ids})
}

func (b *Bus) PublishMode(mode string) {
	b.mu.RLock()
	handlers := append([]subscription[ModeHandler](nil), b.mode...)
	b.mu.RUnlock()

	for _, s := range handlers {
		s.handler(mode)
	}
	b.send(domain.EditorEvent{Type: domain.EventMode, Mode: mode})
}

func (b *Bus) send(event domain.EditorEvent) {
	if b.sink == nil {
		return
	}
	event.SessionID = b.sessionID
	event.At = b.now().UTC()
	b.sink.Send(event)
}

func remove[H any](subs []subscription[H], id uint64) []subscription[H] {
	out := subs[:0:0]
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}
