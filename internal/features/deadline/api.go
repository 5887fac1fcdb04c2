package deadline

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type DeadlineApi struct {
	controller *DeadlineController
	config     *config.Config
}

func NewDeadlineApi(controller *DeadlineController, config *config.Config) api.Route {
	return &DeadlineApi{
		controller: controller,
		config:     config,
	}
}

func (h *DeadlineApi) Setup(app *fiber.App) {
	deadlines := app.Group("/api/deadlines", middleware.AuthMiddleware(h.config.SkipAuth), middleware.AdminMiddleware())

	deadlines.Get("/", h.controller.GetStatus)
	deadlines.Post("/scan", h.controller.RunScan)
}
