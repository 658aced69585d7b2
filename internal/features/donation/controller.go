package donation

import (
	"errors"

	common_api "chums-admin/internal/common/api"
	"chums-admin/internal/features/report"
	"chums-admin/pkg/editpanel"

	"github.com/gofiber/fiber/v2"
)

type DonationController struct {
	Service DonationService
}

func NewDonationController(service DonationService) *DonationController {
	return &DonationController{Service: service}
}

// GetPage godoc
// @Summary      Donations page
// @Description  Summary report with its default filter, batches and funds
// @Tags         donations
// @Produce      json
// @Success      200  {object}  DonationsPage
// @Router       /api/donations [get]
func (c *DonationController) GetPage(ctx *fiber.Ctx) error {
	page, err := c.Service.Page(ctx.UserContext())
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(page)
}

// GetFunds godoc
// @Summary      List funds
// @Tags         donations
// @Produce      json
// @Success      200  {array}  Fund
// @Router       /api/donations/funds [get]
func (c *DonationController) GetFunds(ctx *fiber.Ctx) error {
	funds, err := c.Service.Funds(ctx.UserContext())
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(funds)
}

// NewBatch godoc
// @Summary      Open the batch editor for a new batch
// @Tags         donations
// @Produce      json
// @Router       /api/donations/batches/new [get]
func (c *DonationController) NewBatch(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.NewBatch(ctx.UserContext()))
}

// GetBatch godoc
// @Summary      Open the batch editor for an existing batch
// @Tags         donations
// @Produce      json
// @Param        id  path  string  true  "Batch id"
// @Router       /api/donations/batches/{id} [get]
func (c *DonationController) GetBatch(ctx *fiber.Ctx) error {
	view, err := c.Service.EditBatch(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(view)
}

// SaveBatch godoc
// @Summary      Create or update a batch
// @Description  A batch without an id is created. Returns the reloaded batch list.
// @Tags         donations
// @Accept       json
// @Produce      json
// @Param        batch  body  DonationBatch  true  "Batch"
// @Success      200  {array}  BatchRow
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/donations/batches [post]
func (c *DonationController) SaveBatch(ctx *fiber.Ctx) error {
	var batch DonationBatch
	if err := ctx.BodyParser(&batch); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	view, rows, err := c.Service.SaveBatch(ctx.UserContext(), batch)
	if errors.Is(err, editpanel.ErrValidation) {
		return common_api.RespondValidation(ctx, view.Errors, view.Entity)
	}
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(rows)
}

// DeleteBatch godoc
// @Summary      Delete a batch
// @Description  Requires confirm=true. Returns the reloaded batch list.
// @Tags         donations
// @Produce      json
// @Param        id       path   string  true  "Batch id"
// @Param        confirm  query  bool    true  "Confirmation"
// @Success      200  {array}  BatchRow
// @Router       /api/donations/batches/{id} [delete]
func (c *DonationController) DeleteBatch(ctx *fiber.Ctx) error {
	rows, err := c.Service.DeleteBatch(ctx.UserContext(), ctx.Params("id"), ctx.QueryBool("confirm"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(rows)
}

// ExportBatches godoc
// @Summary      Download the batch list
// @Tags         donations
// @Produce      octet-stream
// @Param        format  query  string  false  "csv or xlsx"
// @Router       /api/donations/batches/export [get]
func (c *DonationController) ExportBatches(ctx *fiber.Ctx) error {
	file, err := c.Service.ExportBatches(ctx.UserContext(), ctx.Query("format", report.FormatCSV))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return file.Send(ctx)
}
