package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
)

// meetingRepository implements the MeetingRepository interface
type meetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) repositories.MeetingRepository {
	return &meetingRepository{db: db}
}

// Create creates a new meeting
func (r *meetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	return r.db.WithContext(ctx).Create(meeting).Error
}

// FindByID retrieves a meeting by its ID
func (r *meetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByExternalBotID retrieves the meeting a provider bot is attached to
func (r *meetingRepository) FindByExternalBotID(ctx context.Context, botID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("external_bot_id = ?", botID).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrMeetingNotFound
		}
		return nil, err
	}
	return &meeting, nil
}

// GetPhase returns the current phase of a meeting
func (r *meetingRepository) GetPhase(ctx context.Context, id uuid.UUID) (entities.MeetingPhase, error) {
	var meeting entities.Meeting
	err := r.db.WithContext(ctx).
		Select("phase").
		Where("id = ?", id).
		First(&meeting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", entities.ErrMeetingNotFound
		}
		return "", err
	}
	return meeting.Phase, nil
}

// UpdatePhase updates the meeting phase
func (r *meetingRepository) UpdatePhase(ctx context.Context, id uuid.UUID, phase entities.MeetingPhase) error {
	updates := map[string]interface{}{
		"phase":      phase,
		"updated_at": time.Now(),
	}
	switch phase {
	case entities.MeetingPhaseLive:
		updates["started_at"] = time.Now()
	case entities.MeetingPhaseCompleted:
		updates["ended_at"] = time.Now()
	}
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// UpdateBotStatus updates the current bot status
func (r *meetingRepository) UpdateBotStatus(ctx context.Context, id uuid.UUID, status entities.BotStatus) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"bot_status": status,
			"updated_at": time.Now(),
		}).Error
}

// UpdateRecordingURL stores the recording location
func (r *meetingRepository) UpdateRecordingURL(ctx context.Context, id uuid.UUID, url string) error {
	return r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"recording_url": url,
			"updated_at":    time.Now(),
		}).Error
}

// AppendBotStatusEvent records one status webhook in the audit trail
func (r *meetingRepository) AppendBotStatusEvent(ctx context.Context, event *entities.BotStatusEvent) error {
	if event == nil {
		return errors.New("bot status event cannot be nil")
	}
	return r.db.WithContext(ctx).Create(event).Error
}
