package main

import (
	"context"
	"encoding/json"
	"os"

	common_models "go-approvals/internal/common/models"
	"go-approvals/internal/config"
	"go-approvals/internal/database"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/workflow"
	"go-approvals/internal/logger"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const workflowsPath = "cmd/seed/data/workflows.json"

// Seed creates the demo workflows that do not exist yet, then stops the app.
func Seed(
	lc fx.Lifecycle,
	workflowRepo workflow.WorkflowRepository,
	workflowService workflow.WorkflowService,
	logger *zap.Logger,
	shutdowner fx.Shutdowner,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer func() {
					if err := shutdowner.Shutdown(); err != nil {
						logger.Error("Failed to shutdown", zap.Error(err))
					}
				}()
				ctx := context.Background()

				logger.Info("Seeding approval workflows", zap.String("path", workflowsPath))

				b, err := os.ReadFile(workflowsPath)
				if err != nil {
					logger.Error("Failed to read workflows file", zap.Error(err))
					return
				}
				var inputs []workflow.CreateWorkflowInput
				if err := json.Unmarshal(b, &inputs); err != nil {
					logger.Error("Failed to parse workflows file", zap.Error(err))
					return
				}

				if err := workflowRepo.EnsureIndexes(ctx); err != nil {
					logger.Warn("Failed to ensure workflow indexes", zap.Error(err))
				}

				created := 0
				for _, input := range inputs {
					existing, err := workflowService.ListWorkflows(ctx, workflow.WorkflowFilter{
						DocumentType: input.DocumentType,
						ProjectID:    input.ProjectID,
					})
					if err != nil {
						logger.Error("Failed to list workflows", zap.Error(err))
						return
					}
					if hasNamed(existing, input.Name) {
						logger.Info("Workflow exists, skipping", zap.String("workflow", input.Name))
						continue
					}

					wf, err := workflowService.CreateWorkflow(ctx, common_models.System(), input)
					if err != nil {
						logger.Error("Failed to create workflow", zap.String("workflow", input.Name), zap.Error(err))
						continue
					}
					logger.Info("Workflow created",
						zap.String("workflow", wf.Name),
						zap.String("id", wf.ID),
						zap.Int("stages", len(wf.Stages)),
					)
					created++
				}

				logger.Info("Seeding completed", zap.Int("created", created), zap.Int("total", len(inputs)))
			}()
			return nil
		},
	})
}

func hasNamed(workflows []workflow.ApprovalWorkflow, name string) bool {
	for _, wf := range workflows {
		if wf.Name == name {
			return true
		}
	}
	return false
}

func main() {
	fx.New(
		fx.Provide(
			config.LoadConfig,
			database.NewDatabase,
			logger.NewLogger,
			workflow.NewWorkflowRepository,
			audit.NewAuditRepository,
			audit.NewAuditService,
			workflow.NewWorkflowService,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(Seed),
	).Run()
}
