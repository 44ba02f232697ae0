package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"echoroom/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Session{}, &models.Message{}, &models.Participant{}))
	return db
}

func TestSeed(t *testing.T) {
	db := newTestDB(t)

	err := Seed(db, Options{
		NumSessions:            3,
		MessagesPerSession:     10,
		ParticipantsPerSession: 4,
	})
	require.NoError(t, err)

	var sessionCount, messageCount, participantCount int64
	require.NoError(t, db.Model(&models.Session{}).Count(&sessionCount).Error)
	require.NoError(t, db.Model(&models.Message{}).Count(&messageCount).Error)
	require.NoError(t, db.Model(&models.Participant{}).Count(&participantCount).Error)

	assert.EqualValues(t, 3, sessionCount)
	assert.EqualValues(t, 30, messageCount)
	assert.EqualValues(t, 12, participantCount)

	// Every session carries a persona category the moderator understands
	var sessions []models.Session
	require.NoError(t, db.Find(&sessions).Error)
	for _, s := range sessions {
		assert.Contains(t, categories, s.Category)
	}
}

func TestSeed_CleanRemovesExistingData(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.Create(&models.Session{ID: "stale", Name: "Old", Category: "Calm"}).Error)
	require.NoError(t, Seed(db, Options{
		NumSessions:            1,
		MessagesPerSession:     2,
		ParticipantsPerSession: 1,
		ShouldClean:            true,
	}))

	var stale models.Session
	err := db.First(&stale, "id = ?", "stale").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
