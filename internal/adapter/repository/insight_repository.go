package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
)

// insightRepository implements the InsightRepository interface
type insightRepository struct {
	db *gorm.DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *gorm.DB) repositories.InsightRepository {
	return &insightRepository{db: db}
}

// Create persists an insight
func (r *insightRepository) Create(ctx context.Context, insight *entities.LiveInsight) error {
	if insight == nil {
		return errors.New("insight cannot be nil")
	}
	return r.db.WithContext(ctx).Create(insight).Error
}

// FindByID retrieves an insight by ID
func (r *insightRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.LiveInsight, error) {
	var insight entities.LiveInsight
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&insight).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrInsightNotFound
		}
		return nil, err
	}
	return &insight, nil
}

// FindByMeetingID retrieves insights for a meeting, newest first
func (r *insightRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.LiveInsight, error) {
	var insights []*entities.LiveInsight
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&insights).Error
	if err != nil {
		return nil, err
	}
	return insights, nil
}

// Update persists insight mutations
func (r *insightRepository) Update(ctx context.Context, insight *entities.LiveInsight) error {
	if insight == nil {
		return errors.New("insight cannot be nil")
	}
	return r.db.WithContext(ctx).Save(insight).Error
}
