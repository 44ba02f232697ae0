package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityTracker_TouchAndIdleFor(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewActivityTracker()
	tracker.now = func() time.Time { return current }

	_, known := tracker.IdleFor("room-1")
	assert.False(t, known, "untracked room should have no idle duration")

	tracker.Touch("room-1")
	idle, known := tracker.IdleFor("room-1")
	require.True(t, known)
	assert.Equal(t, time.Duration(0), idle)

	current = current.Add(4 * time.Minute)
	idle, known = tracker.IdleFor("room-1")
	require.True(t, known)
	assert.Equal(t, 4*time.Minute, idle)

	// Touch resets the clock
	tracker.Touch("room-1")
	idle, _ = tracker.IdleFor("room-1")
	assert.Equal(t, time.Duration(0), idle)
}

func TestActivityTracker_RoomsAreIndependent(t *testing.T) {
	t.Parallel()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tracker := NewActivityTracker()
	tracker.now = func() time.Time { return current }

	tracker.Touch("room-1")
	current = current.Add(2 * time.Minute)
	tracker.Touch("room-2")

	idleA, _ := tracker.IdleFor("room-1")
	idleB, _ := tracker.IdleFor("room-2")
	assert.Equal(t, 2*time.Minute, idleA)
	assert.Equal(t, time.Duration(0), idleB)
}

func TestActivityTracker_Clear(t *testing.T) {
	t.Parallel()

	tracker := NewActivityTracker()
	tracker.Touch("room-1")

	tracker.Clear("room-1")
	_, known := tracker.LastActivity("room-1")
	assert.False(t, known)
}
