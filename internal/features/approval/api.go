package approval

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalApi struct {
	controller *ApprovalController
	config     *config.Config
}

func NewApprovalApi(controller *ApprovalController, config *config.Config) api.Route {
	return &ApprovalApi{
		controller: controller,
		config:     config,
	}
}

func (h *ApprovalApi) Setup(app *fiber.App) {
	approvals := app.Group("/api/approvals", middleware.AuthMiddleware(h.config.SkipAuth))

	approvals.Post("/", h.controller.SubmitDocument)
	approvals.Get("/", h.controller.ListApprovals)
	approvals.Get("/pending", h.controller.ListPending)
	approvals.Post("/stages/:id/approve", h.controller.ApproveStage)
	approvals.Post("/stages/:id/reject", h.controller.RejectStage)
	approvals.Get("/:id", h.controller.GetApproval)
}
