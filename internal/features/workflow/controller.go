package workflow

import (
	"errors"
	"strconv"

	"go-approvals/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type WorkflowController struct {
	Service WorkflowService
}

func NewWorkflowController(service WorkflowService) *WorkflowController {
	return &WorkflowController{
		Service: service,
	}
}

// CreateWorkflow godoc
// @Summary Create an approval workflow
// @Description Define a workflow for a document type with ordered stages. Stages cannot be edited afterwards.
// @Tags workflows
// @Accept json
// @Produce json
// @Param workflow body CreateWorkflowInput true "Workflow definition"
// @Success 201 {object} ApprovalWorkflow
// @Failure 400 {object} map[string]string "Invalid workflow"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/workflows [post]
func (c *WorkflowController) CreateWorkflow(ctx *fiber.Ctx) error {
	var input CreateWorkflowInput
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	actor, _ := middleware.ActorFromCtx(ctx)
	wf, err := c.Service.CreateWorkflow(ctx.UserContext(), actor, input)
	if err != nil {
		return handleError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(wf)
}

// ListWorkflows godoc
// @Summary List workflows
// @Tags workflows
// @Produce json
// @Param document_type query string false "Document type"
// @Param project_id query string false "Project ID"
// @Param active query bool false "Active flag"
// @Success 200 {array} ApprovalWorkflow
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/workflows [get]
func (c *WorkflowController) ListWorkflows(ctx *fiber.Ctx) error {
	filter := WorkflowFilter{
		DocumentType: ctx.Query("document_type"),
		ProjectID:    ctx.Query("project_id"),
	}
	if raw := ctx.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "active must be true or false"})
		}
		filter.Active = &active
	}

	workflows, err := c.Service.ListWorkflows(ctx.UserContext(), filter)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(workflows)
}

// ResolveWorkflow godoc
// @Summary Resolve the active workflow for a document
// @Description A project-specific workflow wins over a global one.
// @Tags workflows
// @Produce json
// @Param document_type query string true "Document type"
// @Param project_id query string false "Project ID"
// @Success 200 {object} ApprovalWorkflow
// @Failure 404 {object} map[string]string "No active workflow"
// @Router /api/workflows/resolve [get]
func (c *WorkflowController) ResolveWorkflow(ctx *fiber.Ctx) error {
	documentType := ctx.Query("document_type")
	if documentType == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "document_type is required"})
	}

	wf, err := c.Service.ResolveWorkflow(ctx.UserContext(), documentType, ctx.Query("project_id"))
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(wf)
}

// GetWorkflowByID godoc
// @Summary Get workflow by ID
// @Tags workflows
// @Produce json
// @Param id path string true "Workflow ID"
// @Success 200 {object} ApprovalWorkflow
// @Failure 404 {object} map[string]string "Workflow not found"
// @Router /api/workflows/{id} [get]
func (c *WorkflowController) GetWorkflowByID(ctx *fiber.Ctx) error {
	wf, err := c.Service.GetWorkflow(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(wf)
}

// SetWorkflowActive godoc
// @Summary Enable or disable a workflow
// @Tags workflows
// @Accept json
// @Produce json
// @Param id path string true "Workflow ID"
// @Param body body map[string]bool true "Active flag"
// @Success 200 {object} ApprovalWorkflow
// @Failure 404 {object} map[string]string "Workflow not found"
// @Router /api/workflows/{id}/active [put]
func (c *WorkflowController) SetWorkflowActive(ctx *fiber.Ctx) error {
	var body struct {
		Active *bool `json:"active"`
	}
	if err := ctx.BodyParser(&body); err != nil || body.Active == nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "active is required"})
	}

	actor, _ := middleware.ActorFromCtx(ctx)
	wf, err := c.Service.SetWorkflowActive(ctx.UserContext(), actor, ctx.Params("id"), *body.Active)
	if err != nil {
		return handleError(ctx, err)
	}
	return ctx.JSON(wf)
}

func handleError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrInvalidWorkflow):
		status = fiber.StatusBadRequest
	case errors.Is(err, ErrWorkflowNotFound), errors.Is(err, ErrNoActiveWorkflow):
		status = fiber.StatusNotFound
	}
	return ctx.Status(status).JSON(fiber.Map{"error": err.Error()})
}
