package editor

import "github.com/paulmach/orb"

// PointerType - тип события указателя
type PointerType string

const (
	PointerDown     PointerType = "down"
	PointerMove     PointerType = "move"
	PointerUp       PointerType = "up"
	PointerClick    PointerType = "click"
	PointerDblClick PointerType = "dblclick"
)

// PointerEvent - событие мыши или касания в координатах карты
type PointerEvent struct {
	Type   PointerType `json:"type" validate:"required,oneof=down move up click dblclick"`
	LngLat orb.Point   `json:"lng_lat"`
	Shift  bool        `json:"shift,omitempty"`
}

// KeyboardEvent - нажатие клавиши
type KeyboardEvent struct {
	Key  string `json:"key" validate:"required"`
	Ctrl bool   `json:"ctrl,omitempty"`
	Meta bool   `json:"meta,omitempty"`
	// TextFieldFocused - фокус в текстовом поле, горячие клавиши не работают
	TextFieldFocused bool `json:"text_field_focused,omitempty"`
}

func (k KeyboardEvent) modifier() bool {
	return k.Ctrl || k.Meta
}
