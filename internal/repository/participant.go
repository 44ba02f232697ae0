package repository

import (
	"context"

	"echoroom/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ParticipantRepository defines the interface for participant data operations
type ParticipantRepository interface {
	Upsert(ctx context.Context, p *models.Participant) error
	ListBySession(ctx context.Context, sessionID string) ([]*models.Participant, error)
	Remove(ctx context.Context, sessionID, userID string) error
	CountBySession(ctx context.Context, sessionID string) (int64, error)
	UpdateVoiceStatus(ctx context.Context, userID string, isSpeaking, isMuted bool) error
	Update(ctx context.Context, sessionID, userID string, fields map[string]interface{}) (*models.Participant, error)
}

// participantRepository implements ParticipantRepository
type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *gorm.DB) ParticipantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Upsert(ctx context.Context, p *models.Participant) error {
	// Rejoining updates the display fields instead of failing on the composite key
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "avatar", "mood", "is_speaking", "is_muted"}),
	}).Create(p).Error
}

func (r *participantRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.Participant, error) {
	var participants []*models.Participant
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("joined_at ASC").
		Find(&participants).Error
	return participants, err
}

func (r *participantRepository) Remove(ctx context.Context, sessionID, userID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Delete(&models.Participant{}).Error
}

func (r *participantRepository) CountBySession(ctx context.Context, sessionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *participantRepository) UpdateVoiceStatus(ctx context.Context, userID string, isSpeaking, isMuted bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{"is_speaking": isSpeaking, "is_muted": isMuted}).Error
}

func (r *participantRepository) Update(ctx context.Context, sessionID, userID string, fields map[string]interface{}) (*models.Participant, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Participant{}).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var p models.Participant
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}
