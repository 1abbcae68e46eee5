package entities

import (
	"time"

	"github.com/google/uuid"
)

// DetectionStatus is the review state of a detected action or decision.
// detected → confirmed and detected → rejected are the only transitions,
// and both are terminal.
type DetectionStatus string

const (
	DetectionStatusDetected  DetectionStatus = "detected"
	DetectionStatusConfirmed DetectionStatus = "confirmed"
	DetectionStatusRejected  DetectionStatus = "rejected"
)

// IsTerminal reports whether the status can no longer change.
func (s DetectionStatus) IsTerminal() bool {
	return s == DetectionStatusConfirmed || s == DetectionStatusRejected
}

// DetectedAction is an action item the analysis pipeline believes was
// assigned during the meeting. Confidence is immutable after creation.
type DetectedAction struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Confidence  float64         `json:"confidence" gorm:"not null"`
	Status      DetectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'detected'"`
	Assignee    string          `json:"assignee,omitempty" gorm:"type:varchar(255)"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (DetectedAction) TableName() string {
	return "detected_actions"
}

// NewDetectedAction creates a detected action for a meeting
func NewDetectedAction(meetingID uuid.UUID, description string, confidence float64) *DetectedAction {
	return &DetectedAction{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		Confidence:  confidence,
		Status:      DetectionStatusDetected,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// Resolve moves the action to a terminal review status. It returns
// ErrDetectionAlreadyResolved when the status is already terminal.
func (a *DetectedAction) Resolve(status DetectionStatus) error {
	if a.Status.IsTerminal() {
		return ErrDetectionAlreadyResolved
	}
	if !status.IsTerminal() {
		return ErrInvalidDetectionStatus
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

// DetectedDecision is a decision the analysis pipeline believes the group
// reached, with a rough vote tally when one was observable.
type DetectedDecision struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID    uuid.UUID       `json:"meeting_id" gorm:"type:uuid;not null;index"`
	Description  string          `json:"description" gorm:"type:text;not null"`
	Confidence   float64         `json:"confidence" gorm:"not null"`
	Status       DetectionStatus `json:"status" gorm:"type:varchar(20);not null;default:'detected'"`
	VotedFor     int             `json:"voted_for" gorm:"default:0"`
	VotedAgainst int             `json:"voted_against" gorm:"default:0"`
	Abstained    int             `json:"abstained" gorm:"default:0"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (DetectedDecision) TableName() string {
	return "detected_decisions"
}

// NewDetectedDecision creates a detected decision for a meeting
func NewDetectedDecision(meetingID uuid.UUID, description string, confidence float64) *DetectedDecision {
	return &DetectedDecision{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		Description: description,
		Confidence:  confidence,
		Status:      DetectionStatusDetected,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// Resolve moves the decision to a terminal review status.
func (d *DetectedDecision) Resolve(status DetectionStatus) error {
	if d.Status.IsTerminal() {
		return ErrDetectionAlreadyResolved
	}
	if !status.IsTerminal() {
		return ErrInvalidDetectionStatus
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}
