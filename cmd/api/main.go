package main

import (
	"context"
	"fmt"
	"time"

	common_api "go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/database"
	"go-approvals/internal/features/approval"
	"go-approvals/internal/features/audit"
	"go-approvals/internal/features/deadline"
	"go-approvals/internal/features/notification"
	"go-approvals/internal/features/report"
	"go-approvals/internal/features/system"
	"go-approvals/internal/features/workflow"
	"go-approvals/internal/logger"
	"go-approvals/internal/middleware"
	"go-approvals/pkg/utils"

	_ "go-approvals/docs" // Import swagger docs

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// NewFiberServer creates a new Fiber app instance
func NewFiberServer(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	return app
}

// AsRoute tags the constructor so Fx adds it to the "routes" group.
func AsRoute(f any) any {
	return fx.Annotate(
		f,
		fx.As(new(common_api.Route)),
		fx.ResultTags(`group:"routes"`),
	)
}

// RegisterAllRoutes calls Setup() on every member of the "routes" group.
func RegisterAllRoutes(app *fiber.App, routes []common_api.Route, log *zap.Logger) {
	for _, route := range routes {
		log.Debug("Setting up route", zap.String("route", fmt.Sprintf("%T", route)))
		route.Setup(app)
	}
	log.Info("Routes registered", zap.Int("count", len(routes)))
}

var RegisterAllRoutesWithAnnotation = fx.Annotate(
	RegisterAllRoutes,
	fx.ParamTags(``, `group:"routes"`, ``),
)

// StartServer starts Fiber in a goroutine and shuts it down when the app exits.
func StartServer(lc fx.Lifecycle, app *fiber.App, cfg *config.Config, log *zap.Logger, shutdowner fx.Shutdowner) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := fmt.Sprintf(":%s", cfg.Port)
				log.Info("Starting HTTP server", zap.String("addr", port), zap.String("store", cfg.StoreDriver))
				if err := app.Listen(port); err != nil {
					log.Error("Server failed to start", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})
}

// InitializeIndexes ensures that necessary database indexes are created
func InitializeIndexes(lc fx.Lifecycle, log *zap.Logger, workflowRepo workflow.WorkflowRepository, approvalRepo approval.ApprovalRepository, auditRepo audit.AuditRepository) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := workflowRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure workflow indexes", zap.Error(err))
				}
				if err := approvalRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure approval indexes", zap.Error(err))
				}
				if err := auditRepo.EnsureIndexes(ctx); err != nil {
					log.Error("Failed to ensure audit indexes", zap.Error(err))
				}
			}()
			return nil
		},
	})
}

// StartDeadlineScheduler runs the overdue scan for the lifetime of the app
func StartDeadlineScheduler(lc fx.Lifecycle, deadlineService deadline.DeadlineService) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return deadlineService.InitializeScheduler(ctx)
		},
		OnStop: func(ctx context.Context) error {
			return deadlineService.StopScheduler()
		},
	})
}

// @title           Document Approval API
// @version         1.0
// @description     Approval workflows for construction project documents.

// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization

// @host            localhost:8080
// @BasePath        /
func main() {
	app := fx.New(
		fx.Provide(
			// Load Config
			config.LoadConfig,

			// Initialize Database
			database.NewDatabase,

			// Initialize Logger
			logger.NewLogger,

			// Initialize Fiber Server
			NewFiberServer,

			// Initialize Repository
			workflow.NewWorkflowRepository,
			approval.NewApprovalRepository,
			audit.NewAuditRepository,

			audit.NewAuditService,
			notification.NewHub,
			notification.NewNotificationService,
			workflow.NewWorkflowService,
			approval.NewApprovalService,
			deadline.NewDeadlineService,
			report.NewReportService,

			// Initialize Controller
			workflow.NewWorkflowController,
			approval.NewApprovalController,
			notification.NewNotificationController,
			deadline.NewDeadlineController,
			report.NewReportController,
			audit.NewAuditController,
			system.NewHealthController,

			// Initialize API Routes
			AsRoute(system.NewHealthApi),
			AsRoute(workflow.NewWorkflowApi),
			AsRoute(approval.NewApprovalApi),
			AsRoute(report.NewReportApi),
			AsRoute(deadline.NewDeadlineApi),
			AsRoute(notification.NewNotificationApi),
			AsRoute(audit.NewAuditApi),
			AsRoute(system.NewSwaggerApi),
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log}
		}),
		fx.Invoke(
			func(cfg *config.Config) {
				utils.SetSecret(cfg.JWTSecret)
			},
			RegisterAllRoutesWithAnnotation,
			StartServer,
			StartDeadlineScheduler,
			InitializeIndexes,
		),
	)

	app.Run()
}
