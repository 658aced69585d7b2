package system

import (
	"chums-admin/internal/config"

	"github.com/gofiber/fiber/v2"
)

type SystemController struct {
	Health HealthService
	config *config.Config
}

func NewSystemController(health HealthService, cfg *config.Config) *SystemController {
	return &SystemController{
		Health: health,
		config: cfg,
	}
}

// ClientConfig is what the browser needs to find the remote APIs.
type ClientConfig struct {
	Stage              config.Stage              `json:"stage"`
	DefaultApi         config.ApiName            `json:"defaultApi"`
	Apis               map[config.ApiName]string `json:"apis"`
	ChumsApi           string                    `json:"chumsApi,omitempty"`
	ContentRoot        string                    `json:"contentRoot,omitempty"`
	GoogleAnalyticsTag string                    `json:"googleAnalyticsTag,omitempty"`
}

// GetHealth godoc
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (c *SystemController) GetHealth(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"status": "ok"})
}

// GetUpstreams godoc
// @Summary      Latest health probe of every remote API
// @Description  Pass refresh=true to probe now instead of returning the last scheduled result
// @Tags         system
// @Produce      json
// @Param        refresh  query  bool  false  "Probe now"
// @Success      200  {array}   UpstreamStatus
// @Failure      503  {array}   UpstreamStatus
// @Router       /health/upstreams [get]
func (c *SystemController) GetUpstreams(ctx *fiber.Ctx) error {
	statuses := c.Health.Statuses()
	if ctx.QueryBool("refresh") {
		statuses = c.Health.CheckNow(ctx.UserContext())
	}

	for _, st := range statuses {
		if !st.Up {
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(statuses)
		}
	}
	return ctx.JSON(statuses)
}

// GetConfig godoc
// @Summary      Client configuration for the current stage
// @Tags         system
// @Produce      json
// @Success      200  {object}  ClientConfig
// @Router       /api/config [get]
func (c *SystemController) GetConfig(ctx *fiber.Ctx) error {
	return ctx.JSON(ClientConfig{
		Stage:              c.config.Stage,
		DefaultApi:         c.config.DefaultApi,
		Apis:               c.config.APIURLs(),
		ChumsApi:           c.config.ChumsApi,
		ContentRoot:        c.config.ContentRoot,
		GoogleAnalyticsTag: c.config.GoogleAnalyticsTag,
	})
}
