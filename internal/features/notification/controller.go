package notification

import (
	"go-approvals/internal/middleware"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationController struct {
	Hub    *Hub
	Logger *zap.Logger
}

func NewNotificationController(hub *Hub, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		Hub:    hub,
		Logger: logger,
	}
}

// UpgradeGuard rejects plain HTTP requests and lets browsers pass the token as
// ?access_token= since they cannot set headers on a websocket handshake.
func (c *NotificationController) UpgradeGuard(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}
	if ctx.Get(fiber.HeaderAuthorization) == "" {
		if token := ctx.Query("access_token"); token != "" {
			ctx.Request().Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
	}
	return ctx.Next()
}

// StoreActor copies the authenticated user into the connection locals
func (c *NotificationController) StoreActor(ctx *fiber.Ctx) error {
	if actor, ok := middleware.ActorFromCtx(ctx); ok {
		ctx.Locals("actor_id", actor.UserID)
	}
	return ctx.Next()
}

// HandleWebSocket keeps the connection registered until the client goes away.
// Inbound messages are ignored.
func (c *NotificationController) HandleWebSocket(conn *websocket.Conn) {
	c.Hub.Register(conn)
	actorID, _ := conn.Locals("actor_id").(string)
	c.Logger.Debug("Websocket subscriber connected", zap.String("actor_id", actorID))

	defer func() {
		c.Hub.Unregister(conn)
		_ = conn.Close()
		c.Logger.Debug("Websocket subscriber disconnected", zap.String("actor_id", actorID))
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
