package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/map-editor/internal/editor"
	"github.com/map-editor/internal/host/memory"
	apperrors "github.com/map-editor/internal/pkg/errors"
	"github.com/map-editor/internal/pkg/utils"
	"github.com/map-editor/internal/session"
)

// SessionHandler - HTTP API headless-сессий редактора
type SessionHandler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

func NewSessionHandler(sessions *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// Create - POST /api/v1/sessions
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var opts session.Options
	if err := parseBody(c, &opts, true); err != nil {
		return utils.SendError(c, err)
	}

	s, err := h.sessions.Create(opts)
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusCreated)
	return utils.SendSuccess(c, s.Snapshot(), nil)
}

// Get - GET /api/v1/sessions/:id
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, s.Snapshot(), nil)
}

// List - GET /api/v1/sessions
func (h *SessionHandler) List(c *fiber.Ctx) error {
	list := h.sessions.List()
	out := make([]session.Snapshot, 0, len(list))
	for _, s := range list {
		out = append(out, s.Snapshot())
	}
	return utils.SendSuccess(c, out, &utils.Meta{Total: len(out)})
}

// Delete - DELETE /api/v1/sessions/:id
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	if err := h.sessions.Delete(c.Params("id")); err != nil {
		return utils.SendError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Pointer - POST /api/v1/sessions/:id/pointer
func (h *SessionHandler) Pointer(c *fiber.Ctx) error {
	var ev editor.PointerEvent
	if err := parseBody(c, &ev, false); err != nil {
		return utils.SendError(c, err)
	}

	return h.do(c, func(e *editor.Editor, _ *memory.Host) (interface{}, error) {
		e.HandlePointer(ev)
		return newStateResponse(e), nil
	})
}

// Keyboard - POST /api/v1/sessions/:id/keyboard
func (h *SessionHandler) Keyboard(c *fiber.Ctx) error {
	var ev editor.KeyboardEvent
	if err := parseBody(c, &ev, false); err != nil {
		return utils.SendError(c, err)
	}

	return h.do(c, func(e *editor.Editor, _ *memory.Host) (interface{}, error) {
		handled := e.HandleKey(ev)
		resp := newStateResponse(e)
		resp.Handled = &handled
		return resp, nil
	})
}

// Zoom - POST /api/v1/sessions/:id/zoom
// Движок карты сам ограничивает масштаб; редактор получает итоговое значение.
func (h *SessionHandler) Zoom(c *fiber.Ctx) error {
	var req ZoomRequest
	if err := parseBody(c, &req, false); err != nil {
		return utils.SendError(c, err)
	}

	return h.do(c, func(e *editor.Editor, host *memory.Host) (interface{}, error) {
		e.OnZoomStart()
		if req.Bounds != nil {
			host.SetBounds(*req.Bounds)
		}
		e.OnZoomEnd(host.SetZoom(req.Zoom))
		return newStateResponse(e), nil
	})
}

// Tool - POST /api/v1/sessions/:id/tool
func (h *SessionHandler) Tool(c *fiber.Ctx) error {
	var req ToolRequest
	if err := parseBody(c, &req, false); err != nil {
		return utils.SendError(c, err)
	}
	mode, ok := editor.ParseEditMode(req.Tool)
	if !ok {
		return utils.SendError(c, apperrors.ErrInvalidRequest.WithMessage("unknown tool %q", req.Tool))
	}

	return h.do(c, func(e *editor.Editor, _ *memory.Host) (interface{}, error) {
		e.SelectTool(mode)
		return newStateResponse(e), nil
	})
}

// Features - GET /api/v1/sessions/:id/features, ответ - GeoJSON FeatureCollection
func (h *SessionHandler) Features(c *fiber.Ctx) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	var body []byte
	err = s.Do(func(e *editor.Editor, _ *memory.Host) error {
		var mErr error
		body, mErr = e.FeatureCollection().MarshalJSON()
		return mErr
	})
	if err != nil {
		h.logger.Error("Failed to encode features", zap.Error(err))
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/geo+json")
	return c.Send(body)
}

// Layers - GET /api/v1/sessions/:id/layers, слои снизу вверх
func (h *SessionHandler) Layers(c *fiber.Ctx) error {
	return h.do(c, func(_ *editor.Editor, host *memory.Host) (interface{}, error) {
		return host.Layers(), nil
	})
}

// Selection - GET /api/v1/sessions/:id/selection
func (h *SessionHandler) Selection(c *fiber.Ctx) error {
	return h.do(c, func(e *editor.Editor, _ *memory.Host) (interface{}, error) {
		return newStateResponse(e), nil
	})
}

// Actions - GET /api/v1/sessions/:id/actions, действия контекстного меню
func (h *SessionHandler) Actions(c *fiber.Ctx) error {
	return h.do(c, func(e *editor.Editor, _ *memory.Host) (interface{}, error) {
		return e.ActionCandidates(), nil
	})
}

// ApplyAction - POST /api/v1/sessions/:id/actions/:action
func (h *SessionHandler) ApplyAction(c *fiber.Ctx) error {
	name, ok := editor.ParseAction(c.Params("action"))
	if !ok {
		return utils.SendError(c, apperrors.ErrUnknownAction.WithMessage("unknown action %q", c.Params("action")))
	}

	return h.do(c, func(e *editor.Editor, _ *memory.Host) (interface{}, error) {
		if err := e.ApplyAction(name); err != nil {
			return nil, err
		}
		return newStateResponse(e), nil
	})
}

// do выполняет fn в сессии из пути и отдаёт результат
func (h *SessionHandler) do(c *fiber.Ctx, fn func(e *editor.Editor, host *memory.Host) (interface{}, error)) error {
	s, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}

	var result interface{}
	err = s.Do(func(e *editor.Editor, host *memory.Host) error {
		var fnErr error
		result, fnErr = fn(e, host)
		return fnErr
	})
	if err != nil {
		h.logger.Debug("Session call failed",
			zap.String("session_id", s.ID()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
