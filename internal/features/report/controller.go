package report

import (
	"bytes"
	"encoding/json"
	"errors"

	common_api "chums-admin/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// List godoc
// @Summary      List report keys
// @Tags         reports
// @Produce      json
// @Success      200  {array}  string
// @Router       /api/reports [get]
func (c *ReportController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(c.ReportService.Keys())
}

// Filter godoc
// @Summary      Default filter for a report
// @Tags         reports
// @Produce      json
// @Param        key  path  string  true  "Report key"
// @Success      200  {object}  ReportFilter
// @Router       /api/reports/{key}/filter [get]
func (c *ReportController) Filter(ctx *fiber.Ctx) error {
	filter, err := c.ReportService.DefaultFilter(ctx.UserContext(), ctx.Params("key"))
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(filter)
}

// Run godoc
// @Summary      Run a report
// @Description  An empty body means no filter and yields null
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        key     path  string        true   "Report key"
// @Param        filter  body  ReportFilter  false  "Filter"
// @Success      200  {object}  Report
// @Router       /api/reports/{key}/run [post]
func (c *ReportController) Run(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	report, err := c.ReportService.RunReport(ctx.UserContext(), ctx.Params("key"), filter)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(report)
}

// Summary godoc
// @Summary      Run a report and pivot it by its groupings
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        key     path  string        true   "Report key"
// @Param        filter  body  ReportFilter  false  "Filter"
// @Success      200  {object}  Summary
// @Router       /api/reports/{key}/summary [post]
func (c *ReportController) Summary(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	summary, err := c.ReportService.RunSummary(ctx.UserContext(), ctx.Params("key"), filter)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(summary)
}

// Export godoc
// @Summary      Download a report
// @Tags         reports
// @Accept       json
// @Produce      octet-stream
// @Param        key     path   string        true   "Report key"
// @Param        format  query  string        false  "csv or xlsx"
// @Param        filter  body   ReportFilter  true   "Filter"
// @Router       /api/reports/{key}/export [post]
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	filter, err := parseFilter(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	file, err := c.ReportService.ExportReport(ctx.UserContext(), ctx.Params("key"), filter, ctx.Query("format", FormatCSV))
	if err != nil {
		return respondError(ctx, err)
	}
	return file.Send(ctx)
}

// parseFilter returns nil for an empty or null body.
func parseFilter(ctx *fiber.Ctx) (*ReportFilter, error) {
	body := bytes.TrimSpace(ctx.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	var filter ReportFilter
	if err := json.Unmarshal(body, &filter); err != nil {
		return nil, err
	}
	return &filter, nil
}

// respondError adds the report-specific errors to the shared mapping.
func respondError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrNoAccess):
		return ctx.JSON(fiber.Map{})
	case errors.Is(err, ErrUnknownReport):
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrInvalidFilter):
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	default:
		return common_api.RespondError(ctx, err)
	}
}
