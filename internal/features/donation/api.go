package donation

import (
	"chums-admin/internal/config"
	"chums-admin/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DonationApi struct {
	controller *DonationController
	config     *config.Config
}

func NewDonationApi(controller *DonationController, config *config.Config) *DonationApi {
	return &DonationApi{
		controller: controller,
		config:     config,
	}
}

func (h *DonationApi) Setup(app *fiber.App) {
	donations := app.Group("/api/donations", middleware.AuthMiddleware(h.config.SkipAuth))

	donations.Get("/", middleware.RequireAccess(middleware.PermDonationsViewSummary, middleware.DenyEmpty), h.controller.GetPage)
	donations.Get("/funds", middleware.RequireAccess(middleware.PermDonationsViewSummary, middleware.DenyEmpty), h.controller.GetFunds)

	edit := middleware.RequireAccess(middleware.PermDonationsEdit, middleware.DenyForbidden)
	donations.Get("/batches/export", edit, h.controller.ExportBatches)
	donations.Get("/batches/new", edit, h.controller.NewBatch)
	donations.Get("/batches/:id", edit, h.controller.GetBatch)
	donations.Post("/batches", edit, h.controller.SaveBatch)
	donations.Delete("/batches/:id", edit, h.controller.DeleteBatch)
}
