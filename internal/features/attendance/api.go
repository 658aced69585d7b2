package attendance

import (
	"chums-admin/internal/config"
	"chums-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AttendanceApi struct {
	controller *AttendanceController
	config     *config.Config
}

func NewAttendanceApi(controller *AttendanceController, config *config.Config) *AttendanceApi {
	return &AttendanceApi{
		controller: controller,
		config:     config,
	}
}

func (h *AttendanceApi) Setup(app *fiber.App) {
	people := app.Group("/api/people", middleware.AuthMiddleware(h.config.SkipAuth))

	people.Get("/:id/attendance", middleware.RequireAccess(middleware.PermAttendanceView, middleware.DenyEmpty), h.controller.GetPersonAttendance)
}
