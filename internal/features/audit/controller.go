package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type AuditController struct {
	Service AuditService
}

func NewAuditController(service AuditService) *AuditController {
	return &AuditController{Service: service}
}

// ListLogs godoc
// @Summary List audit log entries
// @Description Newest first. Records workflow definitions and document approval decisions with the acting user.
// @Tags audit
// @Produce json
// @Param entity query string false "approval_workflows or document_approvals"
// @Param record_id query string false "Workflow or document approval ID"
// @Param actor_id query string false "User ID"
// @Param action query string false "Action, e.g. approval.rejected"
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size"
// @Success 200 {array} AuditLog
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/audit-logs [get]
func (ctrl *AuditController) ListLogs(c *fiber.Ctx) error {
	page, _ := strconv.ParseInt(c.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit", strconv.Itoa(defaultLimit)), 10, 64)

	filter := AuditFilter{
		Entity:   c.Query("entity"),
		RecordID: c.Query("record_id"),
		ActorID:  c.Query("actor_id"),
		Action:   AuditAction(c.Query("action")),
	}

	logs, err := ctrl.Service.ListLogs(c.UserContext(), filter, page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(logs)
}
