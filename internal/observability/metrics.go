package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebSocketRoomConnections is the gauge of connections per room.
	WebSocketRoomConnections = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "echoroom_websocket_room_connections",
		Help: "Number of WebSocket connections per room",
	}, []string{"room_id"})

	// MessageThroughput counts messages processed per room and type.
	MessageThroughput = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echoroom_message_throughput_total",
		Help: "Total number of messages processed",
	}, []string{"room_id", "message_type"})

	// WebSocketBackpressureDrops counts messages dropped due to backpressure by hub and reason.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echoroom_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"hub", "reason"})

	// ModerationStrikes counts profanity strikes issued.
	ModerationStrikes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "echoroom_moderation_strikes_total",
		Help: "Total number of profanity strikes issued",
	})

	// ModerationEjections counts participants removed after repeated violations.
	ModerationEjections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "echoroom_moderation_ejections_total",
		Help: "Total number of participants ejected for repeated violations",
	})

	// ModeratorReplies counts automated moderator messages by trigger.
	ModeratorReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echoroom_moderator_replies_total",
		Help: "Total number of automated moderator messages by trigger",
	}, []string{"trigger"})

	// ModeratorFallbacks counts completion calls that fell back to a canned reply.
	ModeratorFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "echoroom_moderator_fallbacks_total",
		Help: "Total number of completion calls resolved with a fallback reply",
	}, []string{"reason"})
)
