package report

import (
	"chums-admin/internal/config"
	"chums-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

// Setup registers the report routes. Each report checks its own permission.
func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.ReportController.List)
	group.Get("/:key/filter", api.ReportController.Filter)
	group.Post("/:key/run", api.ReportController.Run)
	group.Post("/:key/summary", api.ReportController.Summary)
	group.Post("/:key/export", api.ReportController.Export)
}
