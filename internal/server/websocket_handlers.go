package server

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"echoroom/internal/middleware"
	"echoroom/internal/notifications"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// clientFrame is the envelope clients send over the socket. The payload
// shape depends on the event.
type clientFrame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// messagePayload is the payload of a sendMessage frame.
type messagePayload struct {
	Text string `json:"text"`
}

// allowMessage applies the per-connection send budget. The limiter is
// advisory: when the store is down or absent the message goes through,
// matching the HTTP surface's fail-open default.
func (s *Server) allowMessage(ctx context.Context, connID string) bool {
	allowed, err := middleware.CheckRateLimit(ctx, s.redis, "send_message", "conn:"+connID, 30, time.Minute)
	if err != nil {
		log.Printf("WebSocket: rate limit check failed for %s: %v", connID, err)
		return true
	}
	return allowed
}

// WebSocketHandler handles WebSocket connections for chat rooms
func (s *Server) WebSocketHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		middleware.ActiveWebSockets.Inc()
		defer middleware.ActiveWebSockets.Dec()

		ctx := context.Background()

		// Each connection gets an ephemeral identity; strikes and room
		// membership are keyed by it and die with the socket.
		connID := uuid.New().String()
		client := notifications.NewClient(s.hub, conn, connID)
		s.hub.Register(client)

		log.Printf("WebSocket: connection %s established", connID)

		client.IncomingHandler = func(c *notifications.Client, message []byte) {
			var frame clientFrame
			if err := json.Unmarshal(message, &frame); err != nil {
				log.Printf("WebSocket: invalid frame from %s: %v", connID, err)
				return
			}

			switch frame.Event {
			case "join-session":
				var req JoinRequest
				if err := json.Unmarshal(frame.Payload, &req); err != nil {
					return
				}
				s.coordinator.OnJoin(ctx, c, req)

			case "sendMessage":
				var payload messagePayload
				if err := json.Unmarshal(frame.Payload, &payload); err != nil {
					return
				}
				// Same budget as the HTTP surface: drop floods with a visible error.
				if !s.allowMessage(ctx, connID) {
					s.hub.SendTo(connID, notifications.EventError, map[string]string{
						"message": "Rate limit exceeded. Please wait a moment.",
					})
					return
				}
				s.coordinator.OnMessage(ctx, c, payload.Text)

			case "leave-session":
				s.coordinator.OnLeave(ctx, c)

			case "typing-start":
				s.coordinator.OnTypingStart(c)

			case "typing-stop":
				s.coordinator.OnTypingStop(c)

			case "voice-status":
				var status VoiceStatus
				if err := json.Unmarshal(frame.Payload, &status); err != nil {
					return
				}
				s.coordinator.OnVoiceStatus(ctx, c, status)

			case "message-reaction":
				var reaction Reaction
				if err := json.Unmarshal(frame.Payload, &reaction); err != nil {
					return
				}
				s.coordinator.OnReaction(c, reaction)
			}
		}

		// Start write pump in a goroutine
		go client.WritePump()

		// Read pump runs in the main handler goroutine (blocking)
		client.ReadPump()

		// Socket closed: treat as leave + disconnect
		s.coordinator.OnDisconnect(ctx, client)
		log.Printf("WebSocket: connection %s closed", connID)
	})
}
