package editor

import (
	"strings"

	"go.uber.org/zap"
)

// HandleKey обрабатывает горячие клавиши. Возвращает false, если нажатие не обработано.
func (e *Editor) HandleKey(ev KeyboardEvent) bool {
	if ev.TextFieldFocused || !e.loaded || e.mode == ModeViewOnly {
		return false
	}

	key := ev.Key
	if len(key) == 1 {
		key = strings.ToLower(key)
	}

	switch key {
	case "Escape":
		e.escape()
		return true
	case "Enter":
		if e.draw != nil {
			e.finishDraw()
			return true
		}
		return false
	case "Delete", "Backspace":
		return e.tryAction(ActionDelete)
	case "1":
		e.SelectTool(ModeDrawPoint)
		return true
	case "2":
		e.SelectTool(ModeDrawLine)
		return true
	case "3":
		e.SelectTool(ModeDrawPolygon)
		return true
	case "m":
		return e.tryAction(ActionMove)
	case "c":
		if ev.modifier() {
			return e.tryAction(ActionCopy)
		}
	case "v":
		if ev.modifier() {
			return e.tryAction(ActionPaste)
		}
		return e.tryAction(ActionReverse)
	}
	return false
}

// escape прерывает текущее действие, а в SELECT снимает выделение
func (e *Editor) escape() {
	switch {
	case e.drag != nil:
		e.cancelDrag()
	case e.draw != nil:
		e.finishDraw()
	case e.move != nil:
		e.cancelMove()
	case e.mode == ModeDrawPoint:
		e.snapResult = nil
		e.setMode(ModeSelect)
	default:
		e.ClearSelection()
	}
}

func (e *Editor) tryAction(name ActionName) bool {
	if e.mode != ModeSelect {
		return false
	}
	if err := e.ApplyAction(name); err != nil {
		e.logger.Debug("Shortcut ignored", zap.String("action", string(name)), zap.Error(err))
		return false
	}
	return true
}
