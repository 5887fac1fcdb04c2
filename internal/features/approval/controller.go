package approval

import (
	"errors"
	"fmt"

	"go-approvals/internal/features/workflow"
	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ApprovalController struct {
	Service ApprovalService
}

func NewApprovalController(service ApprovalService) *ApprovalController {
	return &ApprovalController{
		Service: service,
	}
}

// SubmitDocument godoc
// @Summary Submit a document for approval
// @Description Resolves the workflow for the document type unless workflow_id is given and creates one stage approval per stage.
// @Tags approvals
// @Accept json
// @Produce json
// @Param submission body SubmitInput true "Document to submit"
// @Success 201 {object} ApprovalDetail
// @Failure 400 {object} map[string]string "Invalid submission"
// @Failure 404 {object} map[string]string "No active workflow"
// @Failure 409 {object} map[string]string "Document already has an open approval"
// @Router /api/approvals [post]
func (c *ApprovalController) SubmitDocument(ctx *fiber.Ctx) error {
	var input SubmitInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actor, _ := middleware.ActorFromCtx(ctx)
	detail, err := c.Service.Submit(ctx.UserContext(), actor, input)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(detail)
}

// ListApprovals godoc
// @Summary List document approvals
// @Tags approvals
// @Produce json
// @Param status query string false "pending, in_progress, approved or rejected"
// @Param document_id query string false "Document ID"
// @Param project_id query string false "Project ID"
// @Param workflow_id query string false "Workflow ID"
// @Success 200 {array} DocumentApproval
// @Router /api/approvals [get]
func (c *ApprovalController) ListApprovals(ctx *fiber.Ctx) error {
	filter, err := FilterFromQuery(ctx)
	if err != nil {
		return handleError(ctx, err)
	}

	approvals, err := c.Service.ListApprovals(ctx.UserContext(), filter)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(approvals)
}

// ListPending godoc
// @Summary Stage approvals waiting for the caller
// @Tags approvals
// @Produce json
// @Success 200 {array} PendingItem
// @Router /api/approvals/pending [get]
func (c *ApprovalController) ListPending(ctx *fiber.Ctx) error {
	actor, _ := middleware.ActorFromCtx(ctx)
	items, err := c.Service.ListPendingForApprover(ctx.UserContext(), actor)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(items)
}

// GetApproval godoc
// @Summary Get a document approval with its stages
// @Tags approvals
// @Produce json
// @Param id path string true "Document approval ID"
// @Success 200 {object} ApprovalDetail
// @Failure 404 {object} map[string]string "Not found"
// @Router /api/approvals/{id} [get]
func (c *ApprovalController) GetApproval(ctx *fiber.Ctx) error {
	detail, err := c.Service.GetApproval(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(detail)
}

// ApproveStage godoc
// @Summary Approve a stage
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Stage approval ID"
// @Param decision body DecisionInput false "Comments and signature"
// @Success 200 {object} ApprovalDetail
// @Failure 403 {object} map[string]string "Not allowed to decide this stage"
// @Failure 409 {object} map[string]string "Closed, not current or already decided"
// @Router /api/approvals/stages/{id}/approve [post]
func (c *ApprovalController) ApproveStage(ctx *fiber.Ctx) error {
	var input DecisionInput
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&input); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
	}

	actor, _ := middleware.ActorFromCtx(ctx)
	detail, err := c.Service.ApproveStage(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(detail)
}

// RejectStage godoc
// @Summary Reject a stage
// @Description Rejection is terminal for the whole document approval.
// @Tags approvals
// @Accept json
// @Produce json
// @Param id path string true "Stage approval ID"
// @Param decision body RejectInput true "Reason, comments and signature"
// @Success 200 {object} ApprovalDetail
// @Failure 400 {object} map[string]string "Reason missing"
// @Failure 403 {object} map[string]string "Not allowed to decide this stage"
// @Failure 409 {object} map[string]string "Closed, not current or already decided"
// @Router /api/approvals/stages/{id}/reject [post]
func (c *ApprovalController) RejectStage(ctx *fiber.Ctx) error {
	var input RejectInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actor, _ := middleware.ActorFromCtx(ctx)
	detail, err := c.Service.RejectStage(ctx.UserContext(), actor, ctx.Params("id"), input)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(detail)
}

// FilterFromQuery reads the approval list filters shared with the export
func FilterFromQuery(ctx *fiber.Ctx) (ApprovalFilter, error) {
	filter := ApprovalFilter{
		Status:     ApprovalStatus(ctx.Query("status")),
		DocumentID: ctx.Query("document_id"),
		ProjectID:  ctx.Query("project_id"),
		WorkflowID: ctx.Query("workflow_id"),
	}
	switch filter.Status {
	case "", StatusPending, StatusInProgress, StatusApproved, StatusRejected:
		return filter, nil
	}
	return filter, fmt.Errorf("%w: status must be one of pending, in_progress, approved, rejected", ErrInvalidFilter)
}

func handleError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidSubmission), errors.Is(err, ErrReasonRequired),
		errors.Is(err, ErrWorkflowInactive), errors.Is(err, ErrInvalidFilter):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrApprovalNotFound), errors.Is(err, ErrStageNotFound),
		errors.Is(err, workflow.ErrWorkflowNotFound), errors.Is(err, workflow.ErrNoActiveWorkflow):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrNotAuthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, ErrAlreadySubmitted), errors.Is(err, ErrApprovalClosed), errors.Is(err, ErrStageNotCurrent),
		errors.Is(err, ErrAlreadyDecided), errors.Is(err, ErrVersionConflict):
		status = fiber.StatusConflict
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
