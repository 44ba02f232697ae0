// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"time"

	"echoroom/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumSessions            int
	MessagesPerSession     int
	ParticipantsPerSession int
	ShouldClean            bool
}

// categories matches the personas the moderator knows how to play.
var categories = []string{
	"Hopeful", "Lonely", "Motivated", "Calm", "Loving", "Joyful", "Books",
}

var sessionNames = []string{
	"Evening circle", "Morning check-in", "Quiet corner", "Open floor",
	"Weekend hangout", "Night owls", "Fresh start", "Common ground",
}

var moods = []string{"calm", "hopeful", "tired", "curious", "upbeat", "reflective"}

// Seed populates the database with demo sessions, participants, and chat history.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Seeding %d sessions with %d messages each...", opts.NumSessions, opts.MessagesPerSession)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	for i := 0; i < opts.NumSessions; i++ {
		session := &models.Session{
			ID:       uuid.New().String(),
			Name:     sessionNames[i%len(sessionNames)],
			Category: categories[i%len(categories)],
		}
		if err := db.Create(session).Error; err != nil {
			return fmt.Errorf("failed to create session: %w", err)
		}

		participants, err := createParticipants(db, session, opts.ParticipantsPerSession)
		if err != nil {
			return fmt.Errorf("failed to create participants: %w", err)
		}

		if err := createMessages(db, session, participants, opts.MessagesPerSession); err != nil {
			return fmt.Errorf("failed to create messages: %w", err)
		}
	}

	log.Printf("✓ Seeding complete")
	return nil
}

func createParticipants(db *gorm.DB, session *models.Session, count int) ([]*models.Participant, error) {
	participants := make([]*models.Participant, 0, count)
	for i := 0; i < count; i++ {
		p := &models.Participant{
			SessionID: session.ID,
			UserID:    uuid.New().String(),
			Username:  gofakeit.Username(),
			Avatar:    "/avatars/default-avatar.png",
			Mood:      moods[gofakeit.Number(0, len(moods)-1)],
		}
		if err := db.Create(p).Error; err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, nil
}

func createMessages(db *gorm.DB, session *models.Session, participants []*models.Participant, count int) error {
	if len(participants) == 0 {
		return nil
	}

	base := time.Now().Add(-time.Duration(count) * time.Minute)
	for i := 0; i < count; i++ {
		author := participants[gofakeit.Number(0, len(participants)-1)]
		msg := &models.Message{
			SessionID: session.ID,
			UserID:    author.UserID,
			Sender:    author.Username,
			Text:      gofakeit.Sentence(gofakeit.Number(4, 12)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}

		// Sprinkle in moderator check-ins so the UI shows both voices
		if i%7 == 6 {
			msg.UserID = models.ModeratorUserID
			msg.Sender = models.ModeratorName
			msg.Text = "Just checking in—how's everyone doing so far? 😊"
		}

		if err := db.Create(msg).Error; err != nil {
			return err
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []interface{}{&models.Message{}, &models.Participant{}, &models.Session{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
