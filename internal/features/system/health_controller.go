package system

import (
	"context"
	"time"

	"go-approvals/internal/config"
	"go-approvals/internal/database"

	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Error  string `json:"error,omitempty"`
}

type HealthController struct {
	DB     *database.Database
	Config *config.Config
}

func NewHealthController(db *database.Database, cfg *config.Config) *HealthController {
	return &HealthController{DB: db, Config: cfg}
}

// HealthCheck godoc
// @Summary      Health Check
// @Description  Reports whether the server and its store are reachable
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthStatus
// @Failure      503  {object}  HealthStatus
// @Router       /health [get]
func (h *HealthController) HealthCheck(c *fiber.Ctx) error {
	status := HealthStatus{Status: "ok", Store: h.Config.StoreDriver}

	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	if err := h.ping(ctx); err != nil {
		status.Status = "degraded"
		status.Error = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(status)
	}
	return c.JSON(status)
}

func (h *HealthController) ping(ctx context.Context) error {
	switch {
	case h.DB == nil:
		return nil
	case h.DB.Postgres != nil:
		return h.DB.Postgres.DB.PingContext(ctx)
	case h.DB.Mongo != nil:
		return h.DB.Mongo.DB.Client().Ping(ctx, nil)
	}
	return nil
}
