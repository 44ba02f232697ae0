package server

import (
	"context"
	"log"
	"strings"

	"echoroom/internal/middleware"
	"echoroom/internal/moderation"
	"echoroom/internal/models"
	"echoroom/internal/notifications"
	"echoroom/internal/observability"
	"echoroom/internal/repository"
)

// defaultAvatar is assigned to participants who join without one.
const defaultAvatar = "/avatars/default-avatar.png"

// JoinRequest is the payload of a join-session event.
type JoinRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"user_name"`
	Mood      string `json:"mood"`
	Avatar    string `json:"avatar"`
}

// VoiceStatus is the payload of a voice-status event.
type VoiceStatus struct {
	IsSpeaking bool `json:"is_speaking"`
	IsMuted    bool `json:"is_muted"`
}

// Reaction is the payload of a message-reaction event, relayed verbatim.
type Reaction struct {
	MessageID string `json:"message_id"`
	UserID    string `json:"user_id"`
	Emoji     string `json:"emoji"`
}

// RoomCoordinator orchestrates the room lifecycle: joins, message ingest,
// presence, and departures. It sits between the WebSocket layer and the
// moderation engine so every message follows the same path: redact,
// persist, broadcast, then moderate.
type RoomCoordinator struct {
	hub          *notifications.RoomHub
	engine       *moderation.Engine
	sessions     repository.SessionRepository
	messages     repository.MessageRepository
	participants repository.ParticipantRepository
}

// NewRoomCoordinator wires a coordinator over the hub, engine, and stores.
func NewRoomCoordinator(
	hub *notifications.RoomHub,
	engine *moderation.Engine,
	sessions repository.SessionRepository,
	messages repository.MessageRepository,
	participants repository.ParticipantRepository,
) *RoomCoordinator {
	return &RoomCoordinator{
		hub:          hub,
		engine:       engine,
		sessions:     sessions,
		messages:     messages,
		participants: participants,
	}
}

// OnJoin admits a connection into a session's room.
func (rc *RoomCoordinator) OnJoin(ctx context.Context, client *notifications.Client, req JoinRequest) {
	if req.SessionID == "" || req.UserID == "" {
		rc.sendError(client, "session_id and user_id are required")
		return
	}

	session, err := rc.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		rc.sendError(client, "Session not found")
		return
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}
	participant := &models.Participant{
		SessionID: session.ID,
		UserID:    req.UserID,
		Username:  req.Username,
		Avatar:    avatar,
		Mood:      req.Mood,
	}
	if err := rc.participants.Upsert(ctx, participant); err != nil {
		log.Printf("RoomCoordinator: failed to upsert participant %s in %s: %v", req.UserID, session.ID, err)
		rc.sendError(client, "Failed to join session")
		return
	}

	client.UserID = req.UserID
	client.Username = req.Username
	client.RoomID = session.ID
	rc.hub.JoinRoom(client, session.ID)

	// First join arms the room's moderation timer; joining counts as activity.
	rc.engine.EnsureRoom(session.ID)
	rc.engine.RecordActivity(session.ID)

	roster, err := rc.participants.ListBySession(ctx, session.ID)
	if err != nil {
		log.Printf("RoomCoordinator: failed to list participants for %s: %v", session.ID, err)
		roster = []*models.Participant{participant}
	}
	rc.hub.SendTo(client.ConnID, notifications.EventRoomJoined, map[string]interface{}{
		"session_id":   session.ID,
		"participants": roster,
	})
	rc.hub.BroadcastExcept(session.ID, client.ConnID, notifications.EventUserJoined, participant)
}

// OnMessage ingests a participant message: redact, persist, broadcast,
// then hand the raw text to the moderation engine. The engine runs after
// the broadcast so its reactions are always ordered behind the message.
func (rc *RoomCoordinator) OnMessage(ctx context.Context, client *notifications.Client, text string) {
	roomID, ok := rc.hub.RoomOf(client.ConnID)
	if !ok {
		rc.sendError(client, "Join a session before sending messages")
		return
	}
	if strings.TrimSpace(text) == "" {
		return
	}

	msg := &models.Message{
		SessionID: roomID,
		UserID:    client.UserID,
		Sender:    client.Username,
		Text:      rc.engine.Filter().Redact(text),
	}
	if err := rc.messages.Create(ctx, msg); err != nil {
		log.Printf("RoomCoordinator: failed to persist message in %s: %v", roomID, err)
		rc.sendError(client, "Failed to send message")
		return
	}

	rc.hub.Broadcast(roomID, notifications.EventReceiveMessage, msg)
	observability.MessageThroughput.WithLabelValues(roomID, "user").Inc()

	ctx = middleware.WithRoomID(ctx, roomID)
	rc.engine.HandleMessage(ctx, moderation.Inbound{
		RoomID:  roomID,
		ConnID:  client.ConnID,
		UserID:  client.UserID,
		Sender:  client.Username,
		RawText: text,
	})
}

// OnLeave removes a connection from its room and tears the room down when
// the last participant is gone.
func (rc *RoomCoordinator) OnLeave(ctx context.Context, client *notifications.Client) {
	roomID, ok := rc.hub.RoomOf(client.ConnID)
	if !ok {
		// An ejection already purged the hub entry before the socket closed.
		// Fall back to the room recorded on the connection so the participant
		// row still goes away and an empty room still tears down.
		roomID = client.RoomID
	}
	if roomID == "" {
		return
	}
	client.RoomID = ""

	rc.hub.LeaveRoom(client, roomID)
	if err := rc.participants.Remove(ctx, roomID, client.UserID); err != nil {
		log.Printf("RoomCoordinator: failed to remove participant %s from %s: %v", client.UserID, roomID, err)
	}

	rc.hub.Broadcast(roomID, notifications.EventUserLeft, map[string]string{
		"user_id":   client.UserID,
		"user_name": client.Username,
	})

	count, err := rc.participants.CountBySession(ctx, roomID)
	if err != nil {
		log.Printf("RoomCoordinator: failed to count participants for %s: %v", roomID, err)
		return
	}
	if count == 0 {
		rc.engine.TeardownRoom(roomID)
	}
}

// OnDisconnect handles a dropped socket: leave the room, forget the
// connection, and reset its strikes.
func (rc *RoomCoordinator) OnDisconnect(ctx context.Context, client *notifications.Client) {
	rc.OnLeave(ctx, client)
	rc.hub.UnregisterClient(client)
	rc.engine.ClearStrikes(client.ConnID)
}

// OnTypingStart relays a typing indicator to the rest of the room.
// Typing counts as activity.
func (rc *RoomCoordinator) OnTypingStart(client *notifications.Client) {
	roomID, ok := rc.hub.RoomOf(client.ConnID)
	if !ok {
		return
	}
	rc.engine.RecordActivity(roomID)
	rc.hub.BroadcastExcept(roomID, client.ConnID, notifications.EventTypingStart, map[string]string{
		"user_id":   client.UserID,
		"user_name": client.Username,
	})
}

// OnTypingStop relays the end of a typing indicator.
func (rc *RoomCoordinator) OnTypingStop(client *notifications.Client) {
	roomID, ok := rc.hub.RoomOf(client.ConnID)
	if !ok {
		return
	}
	rc.hub.BroadcastExcept(roomID, client.ConnID, notifications.EventTypingStop, map[string]string{
		"user_id":   client.UserID,
		"user_name": client.Username,
	})
}

// OnVoiceStatus updates a participant's speaking/muted state and tells the
// room. Speaking counts as activity; toggling mute does not.
func (rc *RoomCoordinator) OnVoiceStatus(ctx context.Context, client *notifications.Client, status VoiceStatus) {
	roomID, ok := rc.hub.RoomOf(client.ConnID)
	if !ok {
		return
	}

	if err := rc.participants.UpdateVoiceStatus(ctx, client.UserID, status.IsSpeaking, status.IsMuted); err != nil {
		log.Printf("RoomCoordinator: failed to update voice status for %s: %v", client.UserID, err)
	}

	rc.hub.Broadcast(roomID, notifications.EventVoiceStatus, map[string]interface{}{
		"user_id":     client.UserID,
		"is_speaking": status.IsSpeaking,
		"is_muted":    status.IsMuted,
	})

	if status.IsSpeaking {
		rc.engine.RecordActivity(roomID)
	}
}

// OnReaction relays a message reaction to the rest of the room. Reactions
// are ephemeral: nothing is persisted.
func (rc *RoomCoordinator) OnReaction(client *notifications.Client, reaction Reaction) {
	roomID, ok := rc.hub.RoomOf(client.ConnID)
	if !ok {
		return
	}
	rc.hub.BroadcastExcept(roomID, client.ConnID, notifications.EventMessageReaction, map[string]string{
		"message_id": reaction.MessageID,
		"user_id":    client.UserID,
		"emoji":      reaction.Emoji,
	})
}

func (rc *RoomCoordinator) sendError(client *notifications.Client, message string) {
	rc.hub.SendTo(client.ConnID, notifications.EventError, map[string]string{"message": message})
}
