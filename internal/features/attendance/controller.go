package attendance

import (
	common_api "chums-admin/internal/common/api"

	"github.com/gofiber/fiber/v2"
)

type AttendanceController struct {
	Service AttendanceService
}

func NewAttendanceController(service AttendanceService) *AttendanceController {
	return &AttendanceController{Service: service}
}

// GetPersonAttendance godoc
// @Summary      A person's attendance history
// @Description  Records grouped by visit date, campus and service, with group names
// @Tags         people
// @Produce      json
// @Param        id  path  string  true  "Person id"
// @Success      200  {object}  PersonAttendance
// @Router       /api/people/{id}/attendance [get]
func (c *AttendanceController) GetPersonAttendance(ctx *fiber.Ctx) error {
	view, err := c.Service.PersonAttendance(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return common_api.RespondError(ctx, err)
	}
	return ctx.JSON(view)
}
