package server

import (
	"errors"
	"strings"

	"echoroom/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSessionRequest is the body for creating a chat session.
type CreateSessionRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

// GetSessions returns all chat sessions, newest first.
func (s *Server) GetSessions(c *fiber.Ctx) error {
	sessions, err := s.sessionRepo.List(c.UserContext())
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"sessions": sessions})
}

// CreateSession creates a new chat session.
func (s *Server) CreateSession(c *fiber.Ctx) error {
	var req CreateSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Category = strings.TrimSpace(req.Category)
	if req.Name == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Session name is required"))
	}
	if req.Category == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Session category is required"))
	}

	session := &models.Session{
		ID:       uuid.New().String(),
		Name:     req.Name,
		Category: req.Category,
	}
	if err := s.sessionRepo.Create(c.UserContext(), session); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(session)
}

// GetSession returns a single session by ID.
func (s *Server) GetSession(c *fiber.Ctx) error {
	id := c.Params("id")

	session, err := s.sessionRepo.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Session", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(session)
}

// GetSessionMessages returns a session's message history in chronological
// order. Stored text is already redacted.
func (s *Server) GetSessionMessages(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := s.sessionRepo.GetByID(c.UserContext(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Session", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	messages, err := s.messageRepo.History(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"messages": messages})
}

// GetSessionParticipants returns the session's current roster in join order.
func (s *Server) GetSessionParticipants(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := s.sessionRepo.GetByID(c.UserContext(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Session", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	participants, err := s.participantRepo.ListBySession(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"participants": participants})
}
