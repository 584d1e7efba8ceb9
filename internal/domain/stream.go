package domain

import "time"

// Имена стримов
const (
	StreamEditorEvents = "stream:editor:events"
)

// Типы событий редактора
const (
	EventSelection = "editor.selection"
	EventHover     = "editor.hover"
	EventMode      = "editor.mode"
)

// EditorEvent - событие редактора (выделение, наведение, смена режима)
type EditorEvent struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id,omitempty"`
	FeatureIDs []string  `json:"feature_ids,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	At         time.Time `json:"at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
