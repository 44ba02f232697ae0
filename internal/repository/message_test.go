package repository

import (
	"context"
	"testing"
	"time"

	"echoroom/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMessages(t *testing.T, repo MessageRepository, sessionID string, texts ...string) {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Duration(len(texts)) * time.Minute)
	for i, text := range texts {
		msg := &models.Message{
			SessionID: sessionID,
			UserID:    uuid.NewString(),
			Sender:    "alice",
			Text:      text,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, msg))
	}
}

func TestMessageRepository_RecentNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	sessionID := uuid.NewString()

	seedMessages(t, repo, sessionID, "first", "second", "third")

	messages, err := repo.Recent(context.Background(), sessionID, 2)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "third", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)
}

func TestMessageRepository_RecentScopedToSession(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	target := uuid.NewString()
	other := uuid.NewString()
	seedMessages(t, repo, target, "hello")
	seedMessages(t, repo, other, "unrelated")

	messages, err := repo.Recent(context.Background(), target, 10)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Text)
}

func TestMessageRepository_HistoryChronological(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)
	sessionID := uuid.NewString()

	seedMessages(t, repo, sessionID, "first", "second", "third")

	messages, err := repo.History(context.Background(), sessionID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "third", messages[2].Text)
}

func TestMessageRepository_RecentEmptySession(t *testing.T) {
	db := newTestDB(t)
	repo := NewMessageRepository(db)

	messages, err := repo.Recent(context.Background(), uuid.NewString(), 10)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
