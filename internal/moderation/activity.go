package moderation

import (
	"sync"
	"time"
)

// ActivityTracker records the last moment each room saw human activity.
// Messages, typing, joins, and speaking all count; the inactivity engine
// reads it to decide when a room has gone quiet.
type ActivityTracker struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	now      func() time.Time
}

// NewActivityTracker creates an empty tracker.
func NewActivityTracker() *ActivityTracker {
	return &ActivityTracker{
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Touch marks the room as active right now.
func (t *ActivityTracker) Touch(roomID string) {
	t.mu.Lock()
	t.lastSeen[roomID] = t.now()
	t.mu.Unlock()
}

// LastActivity returns the room's last recorded activity time.
func (t *ActivityTracker) LastActivity(roomID string) (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts, ok := t.lastSeen[roomID]
	return ts, ok
}

// IdleFor returns how long the room has been without activity. The second
// return is false when the room has no record at all.
func (t *ActivityTracker) IdleFor(roomID string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ts, ok := t.lastSeen[roomID]
	if !ok {
		return 0, false
	}
	return t.now().Sub(ts), true
}

// Clear drops the room's record. Called when the last participant leaves.
func (t *ActivityTracker) Clear(roomID string) {
	t.mu.Lock()
	delete(t.lastSeen, roomID)
	t.mu.Unlock()
}
