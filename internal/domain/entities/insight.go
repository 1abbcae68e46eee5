package entities

import (
	"time"

	"github.com/google/uuid"
)

// InsightType constants
const (
	InsightTypeObservation = "observation"
	InsightTypeSuggestion  = "suggestion"
	InsightTypeAlert       = "alert"
	InsightTypeContext     = "context"
)

// InsightPriority constants
const (
	InsightPriorityHigh   = "high"
	InsightPriorityMedium = "medium"
	InsightPriorityLow    = "low"
)

// LiveInsight is an advisor insight surfaced to the meeting room, generated
// by the simulation scheduler or a real analysis backend. The only mutation
// after creation is the one-way dismiss flag.
type LiveInsight struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Type      string    `json:"type" gorm:"type:varchar(20);not null"`
	Priority  string    `json:"priority" gorm:"type:varchar(10);not null;default:'medium'"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	AgentID   string    `json:"agent_id" gorm:"type:varchar(100)"`
	Dismissed bool      `json:"dismissed" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (LiveInsight) TableName() string {
	return "live_insights"
}

// NewLiveInsight creates an insight for a meeting
func NewLiveInsight(meetingID uuid.UUID, insightType, priority, content, agentID string) *LiveInsight {
	return &LiveInsight{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Type:      insightType,
		Priority:  priority,
		Content:   content,
		AgentID:   agentID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

// Dismiss marks the insight dismissed. It is idempotent: the second call
// reports no change so callers can skip the duplicate broadcast.
func (i *LiveInsight) Dismiss() (changed bool) {
	if i.Dismissed {
		return false
	}
	i.Dismissed = true
	i.UpdatedAt = time.Now()
	return true
}
