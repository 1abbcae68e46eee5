package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
)

// transcriptRepository implements the TranscriptRepository interface
type transcriptRepository struct {
	db *gorm.DB
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *gorm.DB) repositories.TranscriptRepository {
	return &transcriptRepository{db: db}
}

// Create persists a transcript entry
func (r *transcriptRepository) Create(ctx context.Context, entry *entities.TranscriptEntry) error {
	if entry == nil {
		return errors.New("transcript entry cannot be nil")
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByID retrieves a transcript entry by ID
func (r *transcriptRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptEntry, error) {
	var entry entities.TranscriptEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// FindByMeetingID retrieves entries for a meeting in timestamp order
func (r *transcriptRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID, limit, offset int) ([]*entities.TranscriptEntry, error) {
	var entries []*entities.TranscriptEntry
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("timestamp ASC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
