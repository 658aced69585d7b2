package form

import (
	"errors"

	common_api "chums-admin/internal/common/api"
	"chums-admin/pkg/editpanel"
	"chums-admin/pkg/orderedlist"

	"github.com/gofiber/fiber/v2"
)

type FormController struct {
	Service FormService
}

func NewFormController(service FormService) *FormController {
	return &FormController{Service: service}
}

// GetPage godoc
// @Summary      Form page
// @Description  Form header and its questions in order
// @Tags         forms
// @Produce      json
// @Param        id  path  string  true  "Form id"
// @Success      200  {object}  FormPage
// @Router       /api/forms/{id} [get]
func (c *FormController) GetPage(ctx *fiber.Ctx) error {
	page, err := c.Service.Page(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(page)
}

// GetQuestions godoc
// @Summary      Questions of a form
// @Tags         forms
// @Produce      json
// @Param        id  path  string  true  "Form id"
// @Success      200  {object}  QuestionList
// @Router       /api/forms/{id}/questions [get]
func (c *FormController) GetQuestions(ctx *fiber.Ctx) error {
	list, err := c.Service.Questions(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(list)
}

// Reorder godoc
// @Summary      Move a question up or down
// @Description  Returns the new order immediately; the remote sort runs in the background
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id       path  string          true  "Form id"
// @Param        request  body  ReorderRequest  true  "Move"
// @Success      200  {object}  QuestionList
// @Router       /api/forms/{id}/questions/reorder [post]
func (c *FormController) Reorder(ctx *fiber.Ctx) error {
	var req ReorderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if _, err := orderedlist.ParseDirection(req.Direction); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	list, err := c.Service.Reorder(ctx.UserContext(), ctx.Params("id"), req)
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(list)
}

// NewQuestion godoc
// @Summary      Open the question editor for a new question
// @Tags         forms
// @Produce      json
// @Param        id  path  string  true  "Form id"
// @Success      200  {object}  QuestionEditor
// @Router       /api/forms/{id}/questions/new [get]
func (c *FormController) NewQuestion(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.NewQuestion(ctx.UserContext(), ctx.Params("id")))
}

// GetQuestion godoc
// @Summary      Open the question editor for an existing question
// @Tags         forms
// @Produce      json
// @Param        id  path  string  true  "Question id"
// @Success      200  {object}  QuestionEditor
// @Router       /api/questions/{id} [get]
func (c *FormController) GetQuestion(ctx *fiber.Ctx) error {
	editor, err := c.Service.EditQuestion(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(editor)
}

// SaveQuestion godoc
// @Summary      Create or update a question
// @Description  A question without an id is created. Returns the reloaded question list.
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        id        path  string    true  "Form id"
// @Param        question  body  Question  true  "Question"
// @Success      200  {object}  QuestionList
// @Failure      422  {object}  map[string]interface{}
// @Router       /api/forms/{id}/questions [post]
func (c *FormController) SaveQuestion(ctx *fiber.Ctx) error {
	var question Question
	if err := ctx.BodyParser(&question); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	editor, list, err := c.Service.SaveQuestion(ctx.UserContext(), ctx.Params("id"), question)
	if errors.Is(err, editpanel.ErrValidation) {
		return common_api.RespondValidation(ctx, editor.Errors, editor.Entity)
	}
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(list)
}

// EditChoices godoc
// @Summary      Add or remove a choice on a question draft
// @Tags         forms
// @Accept       json
// @Produce      json
// @Param        request  body  ChoiceRequest  true  "Choice edit"
// @Success      200  {object}  QuestionEditor
// @Router       /api/questions/choices [post]
func (c *FormController) EditChoices(ctx *fiber.Ctx) error {
	var req ChoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	editor, err := c.Service.EditChoices(req)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  err.Error(),
			"editor": editor,
		})
	}
	return ctx.JSON(editor)
}

// DeleteQuestion godoc
// @Summary      Delete a question
// @Description  Requires confirm=true. Returns the reloaded question list of its form.
// @Tags         forms
// @Produce      json
// @Param        id       path   string  true  "Question id"
// @Param        confirm  query  bool    true  "Confirmation"
// @Success      200  {object}  QuestionList
// @Router       /api/questions/{id} [delete]
func (c *FormController) DeleteQuestion(ctx *fiber.Ctx) error {
	list, err := c.Service.DeleteQuestion(ctx.UserContext(), ctx.Params("id"), ctx.QueryBool("confirm"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(list)
}
