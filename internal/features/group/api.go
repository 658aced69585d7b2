package group

import (
	"chums-admin/internal/config"
	"chums-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type GroupApi struct {
	controller *GroupController
	config     *config.Config
}

func NewGroupApi(controller *GroupController, config *config.Config) *GroupApi {
	return &GroupApi{
		controller: controller,
		config:     config,
	}
}

func (h *GroupApi) Setup(app *fiber.App) {
	groups := app.Group("/api/groups", middleware.AuthMiddleware(h.config.SkipAuth))

	groups.Get("/", middleware.RequireAccess(middleware.PermGroupsView, middleware.DenyEmpty), h.controller.GetPage)

	edit := middleware.RequireAccess(middleware.PermGroupsEdit, middleware.DenyForbidden)
	groups.Get("/export", edit, h.controller.ExportGroups)
	groups.Get("/new", edit, h.controller.NewGroup)
	groups.Get("/:id", edit, h.controller.GetGroup)
	groups.Post("/", edit, h.controller.SaveGroup)
	groups.Delete("/:id", edit, h.controller.DeleteGroup)
}
