package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MeetingPhase is the coarse lifecycle of a meeting as seen by the pipeline.
type MeetingPhase string

const (
	MeetingPhaseUpcoming  MeetingPhase = "upcoming"
	MeetingPhaseLive      MeetingPhase = "live"
	MeetingPhaseCompleted MeetingPhase = "completed"
)

// IsLive reports whether the meeting is currently in its live phase.
func (p MeetingPhase) IsLive() bool {
	return p == MeetingPhaseLive
}

// Meeting is the stored meeting model. The pipeline only needs the phase
// (live-gate for the simulation scheduler) and the current bot status;
// richer meeting metadata lives with the CRUD service that owns it.
type Meeting struct {
	ID            uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title         string       `json:"title" gorm:"type:varchar(500)"`
	ExternalBotID string       `json:"external_bot_id,omitempty" gorm:"type:varchar(255);index"`
	Phase         MeetingPhase `json:"phase" gorm:"type:varchar(20);not null;default:'upcoming';index"`
	BotStatus     BotStatus    `json:"bot_status" gorm:"type:varchar(20);not null;default:'created'"`
	RecordingURL  string       `json:"recording_url,omitempty" gorm:"type:text"`
	StartedAt     *time.Time   `json:"started_at,omitempty"`
	EndedAt       *time.Time   `json:"ended_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a new meeting in its initial state
func NewMeeting(title string) *Meeting {
	return &Meeting{
		ID:        uuid.New(),
		Title:     title,
		Phase:     MeetingPhaseUpcoming,
		BotStatus: BotStatusCreated,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// BotStatusEvent is the audit record for every status webhook received,
// including events ignored because the bot was already in a terminal state.
// Applied is false for those no-op events.
type BotStatusEvent struct {
	ID           uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID    uuid.UUID                                  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	ProviderCode string                                     `json:"provider_code" gorm:"type:varchar(100);not null"`
	Status       BotStatus                                  `json:"status" gorm:"type:varchar(20);not null"`
	Applied      bool                                       `json:"applied" gorm:"not null"`
	RawPayload   datatypes.JSONType[map[string]interface{}] `json:"raw_payload,omitempty" gorm:"type:jsonb"`
	CreatedAt    time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (BotStatusEvent) TableName() string {
	return "bot_status_events"
}
