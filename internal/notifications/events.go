// Package notifications provides real-time delivery of room events over WebSockets.
package notifications

// Event names on the websocket wire. These match what clients subscribe to.
const (
	EventRoomJoined      = "room-joined"
	EventUserJoined      = "user-joined"
	EventUserLeft        = "user-left"
	EventReceiveMessage  = "receiveMessage"
	EventTypingStart     = "typing-start"
	EventTypingStop      = "typing-stop"
	EventVoiceStatus     = "voice-status"
	EventMessageReaction = "message-reaction"
	EventWarning         = "warning"
	EventUserKicked      = "userKicked"
	EventError           = "error"
)

// RoomEvent is the envelope for every event delivered to room members.
type RoomEvent struct {
	Event   string      `json:"event"`
	RoomID  string      `json:"room_id,omitempty"`
	Payload interface{} `json:"payload"`
}
