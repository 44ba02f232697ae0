package notifications

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"echoroom/internal/observability"
)

// RoomHub manages WebSocket connections for chat sessions. It is
// room-centric: every connection belongs to at most one room at a time,
// mirroring how clients use the product.
type RoomHub struct {
	mu sync.RWMutex

	// Map: roomID -> connID -> Client
	rooms map[string]map[string]*Client

	// Map: connID -> roomID the connection has joined
	connRooms map[string]string

	// Map: connID -> Client for direct sends
	clients map[string]*Client

	// Optional cross-instance fanout. When set, Broadcast publishes to
	// Redis and delivery happens through StartWiring on every instance.
	notifier *Notifier
}

// Name returns a human-readable identifier for this hub.
func (h *RoomHub) Name() string { return "room hub" }

// NewRoomHub creates a new RoomHub instance. The notifier may be nil for
// single-instance deployments and tests; fanout is then purely local.
func NewRoomHub(notifier *Notifier) *RoomHub {
	return &RoomHub{
		rooms:     make(map[string]map[string]*Client),
		connRooms: make(map[string]string),
		clients:   make(map[string]*Client),
		notifier:  notifier,
	}
}

// Register tracks a connection so it can receive direct sends.
func (h *RoomHub) Register(client *Client) {
	h.mu.Lock()
	h.clients[client.ConnID] = client
	h.mu.Unlock()
}

// UnregisterClient removes a connection and its room membership.
func (h *RoomHub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ConnID]; !ok {
		return
	}
	delete(h.clients, client.ConnID)

	roomID, ok := h.connRooms[client.ConnID]
	if !ok {
		return
	}
	delete(h.connRooms, client.ConnID)
	if conns, ok := h.rooms[roomID]; ok {
		delete(conns, client.ConnID)
		observability.WebSocketRoomConnections.WithLabelValues(roomID).Dec()
		if len(conns) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// JoinRoom subscribes a connection to a room's events.
func (h *RoomHub) JoinRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[string]*Client)
	}
	h.rooms[roomID][client.ConnID] = client
	h.connRooms[client.ConnID] = roomID
	observability.WebSocketRoomConnections.WithLabelValues(roomID).Inc()
}

// LeaveRoom unsubscribes a connection from a room.
func (h *RoomHub) LeaveRoom(client *Client, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.rooms[roomID]; ok {
		if _, present := conns[client.ConnID]; present {
			delete(conns, client.ConnID)
			observability.WebSocketRoomConnections.WithLabelValues(roomID).Dec()
			if len(conns) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	if h.connRooms[client.ConnID] == roomID {
		delete(h.connRooms, client.ConnID)
	}
}

// RoomOf returns the room a connection has joined, if any.
func (h *RoomHub) RoomOf(connID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	roomID, ok := h.connRooms[connID]
	return roomID, ok
}

// RoomSize returns the number of live connections in a room.
func (h *RoomHub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// roomEnvelope is the wire form used for both local fanout and Redis transit.
type roomEnvelope struct {
	RoomEvent
	ExceptConn string `json:"except_conn,omitempty"`
}

// Broadcast delivers an event to every connection in the room.
func (h *RoomHub) Broadcast(roomID, event string, payload interface{}) {
	h.broadcast(roomID, event, payload, "")
}

// BroadcastExcept delivers an event to every connection in the room except one.
// Used for events the originating client already knows about (typing, joins).
func (h *RoomHub) BroadcastExcept(roomID, exceptConnID, event string, payload interface{}) {
	h.broadcast(roomID, event, payload, exceptConnID)
}

func (h *RoomHub) broadcast(roomID, event string, payload interface{}, exceptConnID string) {
	envelope := roomEnvelope{
		RoomEvent:  RoomEvent{Event: event, RoomID: roomID, Payload: payload},
		ExceptConn: exceptConnID,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		log.Printf("RoomHub: failed to marshal %s event: %v", event, err)
		return
	}

	if h.notifier != nil {
		// Publish order on the room channel preserves message order, so the
		// redacted message always lands before any moderator reaction.
		if err := h.notifier.PublishRoomEvent(context.Background(), roomID, string(data)); err != nil {
			log.Printf("RoomHub: failed to publish %s event for room %s: %v", event, roomID, err)
		}
		return
	}

	h.fanout(roomID, exceptConnID, data)
}

func (h *RoomHub) fanout(roomID, exceptConnID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for connID, client := range h.rooms[roomID] {
		if connID == exceptConnID {
			continue
		}
		client.TrySend(data)
	}
}

// SendTo delivers an event to a single connection. Always local: a
// connection only exists on the instance that accepted it.
func (h *RoomHub) SendTo(connID, event string, payload interface{}) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	data, err := json.Marshal(RoomEvent{Event: event, Payload: payload})
	if err != nil {
		log.Printf("RoomHub: failed to marshal %s event: %v", event, err)
		return
	}
	client.TrySend(data)
}

// Kick removes a connection from its room and closes its send queue. The
// write pump flushes anything already buffered (the removal notice, the
// userKicked event) before it closes the socket.
func (h *RoomHub) Kick(roomID, connID string) {
	h.mu.Lock()
	client, ok := h.clients[connID]
	if ok {
		if conns, present := h.rooms[roomID]; present {
			if _, member := conns[connID]; member {
				delete(conns, connID)
				observability.WebSocketRoomConnections.WithLabelValues(roomID).Dec()
				if len(conns) == 0 {
					delete(h.rooms, roomID)
				}
			}
		}
		if h.connRooms[connID] == roomID {
			delete(h.connRooms, connID)
		}
	}
	h.mu.Unlock()

	if ok {
		client.CloseSend()
	}
}

// StartWiring connects the RoomHub to Redis pub/sub for room events.
func (h *RoomHub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartRoomSubscriber(ctx, func(channel, payload string) {
		roomID, ok := roomIDFromChannel(channel)
		if !ok {
			log.Printf("RoomHub: invalid channel format: %s", channel)
			return
		}

		var envelope roomEnvelope
		if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
			log.Printf("RoomHub: failed to parse event from channel %s: %v", channel, err)
			return
		}

		h.fanout(roomID, envelope.ExceptConn, []byte(payload))
	})
}

func roomIDFromChannel(channel string) (string, bool) {
	rest, found := strings.CutPrefix(channel, "chat:room:")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// Shutdown gracefully closes all websocket connections
func (h *RoomHub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for connID, client := range h.clients {
		if client.Conn == nil {
			continue
		}
		if err := client.Conn.WriteMessage(1, // TextMessage
			[]byte(`{"event":"server_shutdown","payload":{"message":"Server is shutting down"}}`)); err != nil {
			log.Printf("failed to write shutdown message for conn %s: %v", connID, err)
		}
		if err := client.Conn.Close(); err != nil {
			log.Printf("failed to close websocket for conn %s: %v", connID, err)
		}
	}

	h.rooms = make(map[string]map[string]*Client)
	h.connRooms = make(map[string]string)
	h.clients = make(map[string]*Client)

	return nil
}
