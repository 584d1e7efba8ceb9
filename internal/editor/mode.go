package editor

// EditMode - режим редактора
type EditMode string

const (
	// ModeViewOnly - зум ниже порога редактирования, доступно только перемещение карты
	ModeViewOnly     EditMode = "VIEW_ONLY"
	ModeSelect       EditMode = "SELECT"
	ModeDrawPoint    EditMode = "DRAW_POINT"
	ModeDrawLine     EditMode = "DRAW_LINE"
	ModeDrawPolygon  EditMode = "DRAW_POLYGON"
	ModeMoveFeatures EditMode = "MOVE_FEATURES"
)

// IsDrawing - режим рисования точки, линии или полигона
func (m EditMode) IsDrawing() bool {
	return m == ModeDrawPoint || m == ModeDrawLine || m == ModeDrawPolygon
}

// ParseEditMode разбирает название режима
func ParseEditMode(s string) (EditMode, bool) {
	switch m := EditMode(s); m {
	case ModeViewOnly, ModeSelect, ModeDrawPoint, ModeDrawLine, ModeDrawPolygon, ModeMoveFeatures:
		return m, true
	}
	return "", false
}
