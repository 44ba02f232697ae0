package repository

import (
	"context"
	"testing"

	"echoroom/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParticipantRepository_UpsertIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewParticipantRepository(db)
	ctx := context.Background()

	sessionID := uuid.NewString()
	userID := uuid.NewString()

	require.NoError(t, repo.Upsert(ctx, &models.Participant{
		SessionID: sessionID,
		UserID:    userID,
		Username:  "alice",
		Mood:      "calm",
	}))

	// Rejoin with a new mood updates the row instead of failing
	require.NoError(t, repo.Upsert(ctx, &models.Participant{
		SessionID: sessionID,
		UserID:    userID,
		Username:  "alice",
		Mood:      "hopeful",
	}))

	participants, err := repo.ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, "hopeful", participants[0].Mood)
}

func TestParticipantRepository_RemoveAndCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewParticipantRepository(db)
	ctx := context.Background()

	sessionID := uuid.NewString()
	first := uuid.NewString()
	second := uuid.NewString()

	require.NoError(t, repo.Upsert(ctx, &models.Participant{SessionID: sessionID, UserID: first, Username: "alice"}))
	require.NoError(t, repo.Upsert(ctx, &models.Participant{SessionID: sessionID, UserID: second, Username: "bob"}))

	count, err := repo.CountBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, repo.Remove(ctx, sessionID, first))

	count, err = repo.CountBySession(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestParticipantRepository_UpdateVoiceStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewParticipantRepository(db)
	ctx := context.Background()

	sessionID := uuid.NewString()
	userID := uuid.NewString()
	require.NoError(t, repo.Upsert(ctx, &models.Participant{SessionID: sessionID, UserID: userID, Username: "alice"}))

	require.NoError(t, repo.UpdateVoiceStatus(ctx, userID, true, false))

	participants, err := repo.ListBySession(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.True(t, participants[0].IsSpeaking)
	assert.False(t, participants[0].IsMuted)
}

func TestParticipantRepository_UpdateMissingReturnsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewParticipantRepository(db)

	_, err := repo.Update(context.Background(), uuid.NewString(), uuid.NewString(), map[string]interface{}{"mood": "joyful"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
