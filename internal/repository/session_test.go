package repository

import (
	"context"
	"testing"
	"time"

	"echoroom/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSessionRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	session := &models.Session{
		ID:       uuid.NewString(),
		Name:     "Evening wind-down",
		Category: "Calm",
	}
	require.NoError(t, repo.Create(ctx, session))

	got, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, "Calm", got.Category)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSessionRepository_GetMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSessionRepository_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewSessionRepository(db)
	ctx := context.Background()

	older := &models.Session{ID: uuid.NewString(), Category: "Books", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &models.Session{ID: uuid.NewString(), Category: "Joyful", CreatedAt: time.Now()}
	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	sessions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID)
	assert.Equal(t, older.ID, sessions[1].ID)
}
