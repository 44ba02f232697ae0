package server

import (
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"echoroom/internal/config"
	"echoroom/internal/models"
	"echoroom/internal/moderation"
	"echoroom/internal/notifications"
	"echoroom/internal/repository"
)

// stubOracle returns a fixed reply without touching the network.
type stubOracle struct {
	reply string
}

func (o *stubOracle) GenerateReply(_ context.Context, _ []*models.Message, _ string, _ bool) string {
	return o.reply
}

// newTestServer builds a Server over in-memory SQLite with a local-only
// hub. The struct is assembled directly to keep Prometheus registration
// out of per-test setup.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Session{}, &models.Message{}, &models.Participant{}))

	sessionRepo := repository.NewSessionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	participantRepo := repository.NewParticipantRepository(db)

	hub := notifications.NewRoomHub(nil)
	engine := moderation.NewEngine(
		moderation.DefaultConfig(), sessionRepo, messageRepo, &stubOracle{reply: "take a deep breath"}, hub)
	t.Cleanup(engine.Shutdown)

	srv := &Server{
		config:          &config.Config{Port: "5000", Env: "test"},
		db:              db,
		sessionRepo:     sessionRepo,
		messageRepo:     messageRepo,
		participantRepo: participantRepo,
		hub:             hub,
		engine:          engine,
	}
	srv.coordinator = NewRoomCoordinator(hub, engine, sessionRepo, messageRepo, participantRepo)
	srv.hubs = []wireableHub{hub}

	app := fiber.New()
	srv.SetupRoutes(app)
	return srv, app
}

func createTestSession(t *testing.T, srv *Server, id, name, category string) *models.Session {
	t.Helper()
	session := &models.Session{ID: id, Name: name, Category: category}
	require.NoError(t, srv.sessionRepo.Create(context.Background(), session))
	return session
}
