package report

import (
	"fmt"

	"go-approvals/internal/features/approval"

	"github.com/gofiber/fiber/v2"
)

type ReportController struct {
	ReportService ReportService
}

func NewReportController(reportService ReportService) *ReportController {
	return &ReportController{ReportService: reportService}
}

// ExportApprovals godoc
// @Summary Export the approval register
// @Description XLSX workbook with an Approvals sheet and a Stages sheet. Accepts the same filters as GET /api/approvals.
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param status query string false "Approval status"
// @Param document_id query string false "Document ID"
// @Param project_id query string false "Project ID"
// @Param workflow_id query string false "Workflow ID"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /api/reports/approvals.xlsx [get]
func (c *ReportController) ExportApprovals(ctx *fiber.Ctx) error {
	filter, err := approval.FilterFromQuery(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data, filename, err := c.ReportService.ExportApprovals(ctx.UserContext(), filter)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	ctx.Set(fiber.HeaderContentType, xlsxContentType)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}
