// Package models defines the database models shared across the application.
package models

import "time"

// Moderator identity used for every automated message. The UUID is fixed so
// clients can style moderator messages without a lookup.
const (
	ModeratorUserID = "00000000-0000-4000-8000-000000000000"
	ModeratorName   = "moderator"
)

// Session is a themed chat room. The ID is a UUID string assigned at creation.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:120" json:"name"`
	Category  string    `gorm:"size:60;index" json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a single chat message. Text is stored in its redacted form only;
// the raw text is never persisted.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	SessionID string    `gorm:"size:36;index;not null" json:"session_id"`
	UserID    string    `gorm:"size:36" json:"user_id"`
	Sender    string    `gorm:"size:120" json:"sender"`
	Text      string    `gorm:"type:text" json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// IsModerator reports whether this message was authored by the automated moderator.
func (m *Message) IsModerator() bool {
	return m.Sender == ModeratorName
}

// Participant records a user's membership in a session, including voice state.
type Participant struct {
	SessionID  string    `gorm:"primaryKey;size:36" json:"session_id"`
	UserID     string    `gorm:"primaryKey;size:36" json:"user_id"`
	Username   string    `gorm:"size:120" json:"user_name"`
	Avatar     string    `gorm:"size:255" json:"avatar"`
	Mood       string    `gorm:"size:60" json:"mood"`
	IsSpeaking bool      `json:"is_speaking"`
	IsMuted    bool      `json:"is_muted"`
	JoinedAt   time.Time `gorm:"autoCreateTime" json:"joined_at"`
}
