package notification

import (
	"go-approvals/internal/common/api"
	"go-approvals/internal/config"
	"go-approvals/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationApi struct {
	controller *NotificationController
	config     *config.Config
}

func NewNotificationApi(controller *NotificationController, config *config.Config) api.Route {
	return &NotificationApi{
		controller: controller,
		config:     config,
	}
}

func (h *NotificationApi) Setup(app *fiber.App) {
	app.Get("/api/ws",
		h.controller.UpgradeGuard,
		middleware.AuthMiddleware(h.config.SkipAuth),
		h.controller.StoreActor,
		websocket.New(h.controller.HandleWebSocket),
	)
}
