package api

import (
	"errors"

	"chums-admin/internal/apiclient"
	"chums-admin/pkg/editpanel"

	"github.com/gofiber/fiber/v2"
)

// ErrBadInput marks request input the service rejected before any remote call.
var ErrBadInput = errors.New("bad input")

// RespondError maps errors shared by every feature to a response. Remote
// failures become 502 and carry the upstream status.
func RespondError(ctx *fiber.Ctx, err error) error {
	var apiErr *apiclient.APIError
	switch {
	case errors.As(err, &apiErr):
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":           err.Error(),
			"upstream_status": apiErr.StatusCode,
		})
	case errors.Is(err, apiclient.ErrUnknownApi):
		return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, editpanel.ErrNotConfirmed):
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, editpanel.ErrNotDeletable), errors.Is(err, ErrBadInput):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// RespondValidation answers 422 with the messages the edit panel produced
// and the entity as it now stands (offending fields cleared).
func RespondValidation(ctx *fiber.Ctx, messages []string, entity any) error {
	return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"error":  editpanel.ErrValidation.Error(),
		"errors": messages,
		"entity": entity,
	})
}
