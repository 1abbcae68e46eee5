package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript entry access
type TranscriptRepository interface {
	// Create persists a transcript entry
	Create(ctx context.Context, entry *entities.TranscriptEntry) error

	// FindByID retrieves a transcript entry by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptEntry, error)

	// FindByMeetingID retrieves entries for a meeting in timestamp order
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID, limit, offset int) ([]*entities.TranscriptEntry, error)
}

// InsightRepository defines the interface for live insight access
type InsightRepository interface {
	// Create persists an insight
	Create(ctx context.Context, insight *entities.LiveInsight) error

	// FindByID retrieves an insight by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.LiveInsight, error)

	// FindByMeetingID retrieves insights for a meeting, newest first
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.LiveInsight, error)

	// Update persists insight mutations (dismiss)
	Update(ctx context.Context, insight *entities.LiveInsight) error
}

// ActionRepository defines the interface for detected action access
type ActionRepository interface {
	// Create persists a detected action
	Create(ctx context.Context, action *entities.DetectedAction) error

	// FindByID retrieves an action by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.DetectedAction, error)

	// FindByMeetingID retrieves actions for a meeting, newest first
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.DetectedAction, error)

	// Update persists action mutations (confirm/reject)
	Update(ctx context.Context, action *entities.DetectedAction) error
}

// DecisionRepository defines the interface for detected decision access
type DecisionRepository interface {
	// Create persists a detected decision
	Create(ctx context.Context, decision *entities.DetectedDecision) error

	// FindByID retrieves a decision by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.DetectedDecision, error)

	// FindByMeetingID retrieves decisions for a meeting, newest first
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.DetectedDecision, error)

	// Update persists decision mutations (confirm/reject)
	Update(ctx context.Context, decision *entities.DetectedDecision) error
}
