package deadline

import (
	"github.com/gofiber/fiber/v2"
)

type DeadlineController struct {
	Service DeadlineService
}

func NewDeadlineController(service DeadlineService) *DeadlineController {
	return &DeadlineController{
		Service: service,
	}
}

// GetStatus godoc
// @Summary Deadline scheduler status
// @Tags deadlines
// @Produce json
// @Success 200 {object} SchedulerStatus
// @Router /api/deadlines [get]
func (c *DeadlineController) GetStatus(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Service.Status())
}

// RunScan godoc
// @Summary Run the overdue scan now
// @Tags deadlines
// @Produce json
// @Success 200 {object} ScanResult
// @Failure 500 {object} map[string]string "Scan failed"
// @Router /api/deadlines/scan [post]
func (c *DeadlineController) RunScan(ctx *fiber.Ctx) error {
	result, err := c.Service.Scan(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return ctx.JSON(result)
}
