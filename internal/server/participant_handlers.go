package server

import (
	"errors"
	"strings"

	"echoroom/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AddParticipantRequest is the body for registering a participant over REST.
// The WebSocket join path is the usual entry; this exists for bots and tests.
type AddParticipantRequest struct {
	UserID   string `json:"user_id"`
	Username string `json:"user_name"`
	Mood     string `json:"mood"`
	Avatar   string `json:"avatar"`
}

// AddSessionParticipant upserts a participant into a session.
func (s *Server) AddSessionParticipant(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	if _, err := s.sessionRepo.GetByID(c.UserContext(), sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Session", sessionID))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	var req AddParticipantRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if strings.TrimSpace(req.UserID) == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("user_id is required"))
	}

	avatar := req.Avatar
	if avatar == "" {
		avatar = defaultAvatar
	}
	participant := &models.Participant{
		SessionID: sessionID,
		UserID:    req.UserID,
		Username:  req.Username,
		Avatar:    avatar,
		Mood:      req.Mood,
	}
	if err := s.participantRepo.Upsert(c.UserContext(), participant); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(participant)
}

// RemoveSessionParticipant removes a participant from a session's roster.
func (s *Server) RemoveSessionParticipant(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	userID := c.Params("userId")

	if err := s.participantRepo.Remove(c.UserContext(), sessionID, userID); err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.SendStatus(fiber.StatusNoContent)
}
