package handler

import (
	"github.com/paulmach/orb"

	"github.com/map-editor/internal/domain/datatype"
	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/snap"
)

// ZoomRequest - завершённое изменение масштаба (и, опционально, видимой области)
type ZoomRequest struct {
	Zoom   float64    `json:"zoom" validate:"min=0,max=24"`
	Bounds *orb.Bound `json:"bounds,omitempty"`
}

// ToolRequest - выбор инструмента на панели
type ToolRequest struct {
	Tool string `json:"tool" validate:"required"`
}

// AttachObjectRequest - объект данных из каталога и значения его свойств.
// Массив в значении свойства добавляется поэлементно (множественное свойство).
type AttachObjectRequest struct {
	Type       string         `json:"type" validate:"required"`
	Properties map[string]any `json:"properties,omitempty"`
}

// SnapView - результат притяжения в ответе API
type SnapView struct {
	Type        snap.ResultType `json:"type"`
	FeatureID   string          `json:"feature_id,omitempty"`
	PointID     string          `json:"point_id,omitempty"`
	Path        string          `json:"path,omitempty"`
	Coordinates orb.Point       `json:"coordinates"`
	DistancePx  float64         `json:"distance_px"`
}

// StateResponse - состояние редактора после обработки события
type StateResponse struct {
	Mode      editor.EditMode `json:"mode"`
	Selection []string        `json:"selection"`
	Hovered   string          `json:"hovered,omitempty"`
	Snap      *SnapView       `json:"snap,omitempty"`
	Handled   *bool           `json:"handled,omitempty"`
}

// ObjectTypeView - описание типа объекта из каталога
type ObjectTypeView struct {
	Label      string         `json:"label"`
	Parent     string         `json:"parent,omitempty"`
	Geometry   string         `json:"geometry,omitempty"`
	Color      string         `json:"color"`
	Properties []PropertyView `json:"properties"`
}

type PropertyView struct {
	Label        string                `json:"label"`
	Kind         datatype.PropertyKind `json:"kind"`
	Unique       bool                  `json:"unique"`
	Translatable bool                  `json:"translatable,omitempty"`
	Unit         string                `json:"unit,omitempty"`
	Enum         []string              `json:"enum,omitempty"`
	Target       string                `json:"target,omitempty"`
}

func newStateResponse(e *editor.Editor) StateResponse {
	resp := StateResponse{
		Mode:      e.Mode(),
		Selection: e.Selection(),
		Hovered:   e.Hovered(),
	}
	if r := e.SnapResult(); r != nil {
		view := &SnapView{
			Type:        r.Type,
			Path:        r.Path,
			Coordinates: r.Coordinates,
			DistancePx:  r.DistancePx,
		}
		if r.Feature != nil {
			view.FeatureID = r.Feature.ID()
		}
		if r.Point != nil {
			view.PointID = r.Point.ID()
		}
		resp.Snap = view
	}
	return resp
}

func newObjectTypeView(t *datatype.ObjectType) ObjectTypeView {
	view := ObjectTypeView{
		Label: t.Label(),
		Color: editor.TypeColor(t),
	}
	if p := t.Parent(); p != nil {
		view.Parent = p.Label()
	}
	if k, ok := t.GeometryType(); ok {
		view.Geometry = string(k)
	}

	props := t.Properties()
	view.Properties = make([]PropertyView, 0, len(props))
	for _, p := range props {
		pv := PropertyView{
			Label:        p.Label(),
			Kind:         p.Kind(),
			Unique:       p.IsUnique(),
			Translatable: p.IsTranslatable(),
		}
		if u := p.Unit(); u != nil {
			pv.Unit = u.Symbol()
		}
		if e := p.Enum(); e != nil {
			pv.Enum = e.Values()
		}
		if tt := p.TargetType(); tt != nil {
			pv.Target = tt.Label()
		}
		view.Properties = append(view.Properties, pv)
	}
	return view
}
