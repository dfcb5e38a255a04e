package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// WebsocketHandler handles GET /api/ws, the live feed. Clients only receive;
// anything they send besides control frames is ignored.
// @Summary Live feed
// @Description Websocket pushing post_created, post_liked, comment_added, post_deleted and follow_changed events. Pass the session token as ?token=.
// @Tags feed
// @Param token query string true "Session token"
// @Success 101
// @Failure 401 {object} models.ErrorResponse
// @Failure 426 {object} models.ErrorResponse
// @Router /ws [get]
func (s *Server) WebsocketHandler() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		ctx := context.Background()

		uid, ok := conn.Locals("userID").(uint)
		if !ok || uid == 0 {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			s.wsLogger.LogError(ctx, uid, err, "register")
			if msg, ok := encodeEvent(EventError, fiber.Map{"message": err.Error()}); ok {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(msg))
			}
			_ = conn.Close()
			return
		}
		defer s.hub.UnregisterClient(client)
		s.wsLogger.LogConnect(ctx, uid, s.hub.ConnectionCount())

		go client.WritePump()
		client.ReadPump()

		s.wsLogger.LogDisconnect(ctx, uid, "read loop ended")
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return upgrade(c)
	}
}
