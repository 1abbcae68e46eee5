package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
)

// actionRepository implements the ActionRepository interface
type actionRepository struct {
	db *gorm.DB
}

// NewActionRepository creates a new detected-action repository
func NewActionRepository(db *gorm.DB) repositories.ActionRepository {
	return &actionRepository{db: db}
}

// Create persists a detected action
func (r *actionRepository) Create(ctx context.Context, action *entities.DetectedAction) error {
	if action == nil {
		return errors.New("action cannot be nil")
	}
	return r.db.WithContext(ctx).Create(action).Error
}

// FindByID retrieves an action by ID
func (r *actionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.DetectedAction, error) {
	var action entities.DetectedAction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&action).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrDetectionNotFound
		}
		return nil, err
	}
	return &action, nil
}

// FindByMeetingID retrieves actions for a meeting, newest first
func (r *actionRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.DetectedAction, error) {
	var actions []*entities.DetectedAction
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// Update persists action mutations
func (r *actionRepository) Update(ctx context.Context, action *entities.DetectedAction) error {
	if action == nil {
		return errors.New("action cannot be nil")
	}
	return r.db.WithContext(ctx).Save(action).Error
}

// decisionRepository implements the DecisionRepository interface
type decisionRepository struct {
	db *gorm.DB
}

// NewDecisionRepository creates a new detected-decision repository
func NewDecisionRepository(db *gorm.DB) repositories.DecisionRepository {
	return &decisionRepository{db: db}
}

// Create persists a detected decision
func (r *decisionRepository) Create(ctx context.Context, decision *entities.DetectedDecision) error {
	if decision == nil {
		return errors.New("decision cannot be nil")
	}
	return r.db.WithContext(ctx).Create(decision).Error
}

// FindByID retrieves a decision by ID
func (r *decisionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.DetectedDecision, error) {
	var decision entities.DetectedDecision
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&decision).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrDetectionNotFound
		}
		return nil, err
	}
	return &decision, nil
}

// FindByMeetingID retrieves decisions for a meeting, newest first
func (r *decisionRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.DetectedDecision, error) {
	var decisions []*entities.DetectedDecision
	err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		Find(&decisions).Error
	if err != nil {
		return nil, err
	}
	return decisions, nil
}

// Update persists decision mutations
func (r *decisionRepository) Update(ctx context.Context, decision *entities.DetectedDecision) error {
	if decision == nil {
		return errors.New("decision cannot be nil")
	}
	return r.db.WithContext(ctx).Save(decision).Error
}
