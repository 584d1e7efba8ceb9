package handler

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/map-editor/internal/pkg/errors"
	"github.com/map-editor/internal/pkg/validator"
)

// parseBody разбирает и валидирует JSON тело; пустое тело допустимо, если allowEmpty
func parseBody(c *fiber.Ctx, req interface{}, allowEmpty bool) error {
	if len(c.Body()) == 0 {
		if !allowEmpty {
			return apperrors.ErrInvalidRequest.WithMessage("request body is required")
		}
	} else if err := c.BodyParser(req); err != nil {
		return apperrors.ErrInvalidRequest.WithMessage("invalid request body: %v", err)
	}

	if err := validator.Validate(req); err != nil {
		return apperrors.ErrInvalidRequest.WithMessage("%v", err)
	}
	return nil
}
