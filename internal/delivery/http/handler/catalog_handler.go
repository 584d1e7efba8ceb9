package handler

import (
	"encoding/json"
	"sort"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/map-editor/internal/domain/datatype"
	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/host/memory"
	apperrors "github.com/map-editor/internal/pkg/errors"
	"github.com/map-editor/internal/pkg/utils"
	"github.com/map-editor/internal/session"
)

// CatalogHandler - типы объектов каталога и привязка объектов данных к геометрии
type CatalogHandler struct {
	catalog  *datatype.Registry
	sessions *session.Registry
	logger   *zap.Logger
}

func NewCatalogHandler(catalog *datatype.Registry, sessions *session.Registry, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		sessions: sessions,
		logger:   logger,
	}
}

// Types - GET /api/v1/catalog/types
func (h *CatalogHandler) Types(c *fiber.Ctx) error {
	types := h.catalog.ObjectTypes()
	out := make([]ObjectTypeView, 0, len(types))
	for _, t := range types {
		out = append(out, newObjectTypeView(t))
	}
	return utils.SendSuccess(c, out, &utils.Meta{Total: len(out)})
}

// AttachObject - POST /api/v1/sessions/:id/features/:featureId/object
func (h *CatalogHandler) AttachObject(c *fiber.Ctx) error {
	var req AttachObjectRequest
	if err := parseBody(c, &req, false); err != nil {
		return utils.SendError(c, err)
	}

	obj, err := h.buildObject(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return h.attach(c, obj)
}

// DetachObject - DELETE /api/v1/sessions/:id/features/:featureId/object
func (h *CatalogHandler) DetachObject(c *fiber.Ctx) error {
	return h.attach(c, nil)
}

func (h *CatalogHandler) attach(c *fiber.Ctx, obj *datatype.ObjectInstance) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	featureID := c.Params("featureId")
	var resp interface{}
	err = s.Do(func(e *editor.Editor, _ *memory.Host) error {
		if err := e.AttachObject(featureID, obj); err != nil {
			return err
		}
		f, err := e.Graph().Feature(featureID)
		if err != nil {
			return err
		}
		resp = f.GeoJSON()
		return nil
	})
	if err != nil {
		h.logger.Debug("Failed to attach object",
			zap.String("session_id", s.ID()),
			zap.String("feature_id", featureID),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, resp, nil)
}

// buildObject создаёт экземпляр типа из каталога; свойства применяются в порядке имён
func (h *CatalogHandler) buildObject(req AttachObjectRequest) (*datatype.ObjectInstance, error) {
	t, err := h.catalog.ObjectType(req.Type)
	if err != nil {
		return nil, err
	}
	obj := datatype.NewObjectInstance(t)

	labels := make([]string, 0, len(req.Properties))
	for label := range req.Properties {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		p := t.GetProperty(label)
		if p == nil {
			return nil, apperrors.ErrPropertyNotFound.WithMessage("property %s not found on %s", label, t.Label())
		}

		raw := req.Properties[label]
		if values, ok := raw.([]any); ok {
			for _, v := range values {
				dv, err := decodeValue(p, v)
				if err != nil {
					return nil, err
				}
				if err := obj.AddValueToProperty(label, dv); err != nil {
					return nil, err
				}
			}
			continue
		}

		dv, err := decodeValue(p, raw)
		if err != nil {
			return nil, err
		}
		if err := obj.SetPropertyValue(label, dv); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// decodeValue приводит JSON значение к типу свойства; составные значения
// (интервалы дат) приходят объектами
func decodeValue(p *datatype.ObjectProperty, v any) (any, error) {
	switch p.Kind() {
	case datatype.KindDateInterval:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, apperrors.ErrInvalidValue.WithMessage("property %s: %v", p.Label(), err)
		}
		var d datatype.DateInterval
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, apperrors.ErrInvalidValue.WithMessage("property %s: %v", p.Label(), err)
		}
		return d, nil
	case datatype.KindType, datatype.KindTemporal:
		return nil, apperrors.ErrInvalidValue.WithMessage("property %s references other objects and cannot be set here", p.Label())
	}
	return v, nil
}
