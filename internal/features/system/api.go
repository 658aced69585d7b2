package system

import (
	"chums-admin/internal/apiclient"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type SystemApi struct {
	controller *SystemController
	metrics    *apiclient.Metrics
}

func NewSystemApi(controller *SystemController, metrics *apiclient.Metrics) *SystemApi {
	return &SystemApi{
		controller: controller,
		metrics:    metrics,
	}
}

// Setup registers the unauthenticated operational routes.
func (h *SystemApi) Setup(app *fiber.App) {
	app.Get("/health", h.controller.GetHealth)
	app.Get("/health/upstreams", h.controller.GetUpstreams)
	app.Get("/api/config", h.controller.GetConfig)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})))
}
