package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByExternalBotID retrieves the meeting a provider bot is attached to
	FindByExternalBotID(ctx context.Context, botID string) (*entities.Meeting, error)

	// GetPhase returns the current phase of a meeting. Used as the
	// live-gate by the simulation scheduler.
	GetPhase(ctx context.Context, id uuid.UUID) (entities.MeetingPhase, error)

	// UpdatePhase updates the meeting phase
	UpdatePhase(ctx context.Context, id uuid.UUID, phase entities.MeetingPhase) error

	// UpdateBotStatus updates the current bot status
	UpdateBotStatus(ctx context.Context, id uuid.UUID, status entities.BotStatus) error

	// UpdateRecordingURL stores the recording location once the provider
	// reports the recording done
	UpdateRecordingURL(ctx context.Context, id uuid.UUID, url string) error

	// AppendBotStatusEvent records one status webhook in the audit trail,
	// applied or not
	AppendBotStatusEvent(ctx context.Context, event *entities.BotStatusEvent) error
}
