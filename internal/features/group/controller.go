package group

import (
	"errors"

	common_api "chums-admin/internal/common/api"
	"chums-admin/internal/features/report"
	"chums-admin/pkg/editpanel"

	"github.com/gofiber/fiber/v2"
)

type GroupController struct {
	Service GroupService
}

func NewGroupController(service GroupService) *GroupController {
	return &GroupController{Service: service}
}

// GetPage godoc
// @Summary      Groups page
// @Description  Groups with categories folded and member counts labelled
// @Tags         groups
// @Produce      json
// @Success      200  {object}  GroupsPage
// @Router       /api/groups [get]
func (c *GroupController) GetPage(ctx *fiber.Ctx) error {
	page, err := c.Service.Page(ctx.UserContext())
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(page)
}

// NewGroup godoc
// @Summary      Open the group add panel
// @Tags         groups
// @Produce      json
// @Router       /api/groups/new [get]
func (c *GroupController) NewGroup(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.NewGroup(ctx.UserContext()))
}

// GetGroup godoc
// @Summary      Open the group editor for an existing group
// @Tags         groups
// @Produce      json
// @Param        id  path  string  true  "Group id"
// @Router       /api/groups/{id} [get]
func (c *GroupController) GetGroup(ctx *fiber.Ctx) error {
	editor, err := c.Service.EditGroup(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(editor)
}

// SaveGroup godoc
// @Summary      Create or update a group
// @Description  A group without an id is created. Returns the reloaded groups page.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        group  body  Group  true  "Group"
// @Success      200  {object}  GroupsPage
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/groups [post]
func (c *GroupController) SaveGroup(ctx *fiber.Ctx) error {
	var group Group
	if err := ctx.BodyParser(&group); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	editor, page, err := c.Service.SaveGroup(ctx.UserContext(), group)
	if errors.Is(err, editpanel.ErrValidation) {
		return common_api.RespondValidation(ctx, editor.Errors, editor.Entity)
	}
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(page)
}

// DeleteGroup godoc
// @Summary      Delete a group
// @Description  Requires confirm=true. Returns the reloaded groups page.
// @Tags         groups
// @Produce      json
// @Param        id       path   string  true  "Group id"
// @Param        confirm  query  bool    true  "Confirmation"
// @Success      200  {object}  GroupsPage
// @Router       /api/groups/{id} [delete]
func (c *GroupController) DeleteGroup(ctx *fiber.Ctx) error {
	page, err := c.Service.DeleteGroup(ctx.UserContext(), ctx.Params("id"), ctx.QueryBool("confirm"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(page)
}

// ExportGroups godoc
// @Summary      Download the group list
// @Tags         groups
// @Produce      octet-stream
// @Param        format  query  string  false  "csv or xlsx"
// @Router       /api/groups/export [get]
func (c *GroupController) ExportGroups(ctx *fiber.Ctx) error {
	file, err := c.Service.ExportGroups(ctx.UserContext(), ctx.Query("format", report.FormatCSV))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return file.Send(ctx)
}
