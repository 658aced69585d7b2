package form

import (
	"chums-admin/internal/config"
	"chums-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type FormApi struct {
	controller *FormController
	config     *config.Config
}

func NewFormApi(controller *FormController, config *config.Config) *FormApi {
	return &FormApi{
		controller: controller,
		config:     config,
	}
}

func (h *FormApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)
	view := middleware.RequireAccess(middleware.PermFormsEdit, middleware.DenyEmpty)
	edit := middleware.RequireAccess(middleware.PermFormsEdit, middleware.DenyForbidden)

	forms := app.Group("/api/forms", auth)
	forms.Get("/:id", view, h.controller.GetPage)
	forms.Get("/:id/questions", view, h.controller.GetQuestions)
	forms.Get("/:id/questions/new", edit, h.controller.NewQuestion)
	forms.Post("/:id/questions", edit, h.controller.SaveQuestion)
	forms.Post("/:id/questions/reorder", edit, h.controller.Reorder)

	questions := app.Group("/api/questions", auth)
	questions.Post("/choices", edit, h.controller.EditChoices)
	questions.Get("/:id", edit, h.controller.GetQuestion)
	questions.Delete("/:id", edit, h.controller.DeleteQuestion)
}
