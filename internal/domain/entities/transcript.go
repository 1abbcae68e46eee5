package entities

import (
	"time"

	"github.com/google/uuid"
)

// TranscriptWord is a single word token from the provider with per-word
// timing, as delivered on transcript.data webhooks.
type TranscriptWord struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start_timestamp,omitempty"`
	End        float64 `json:"end_timestamp,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// TranscriptEntry is one persisted utterance. Partial entries
// (IsFinal=false) may be superseded by a final entry for the same
// utterance; once final the entry is immutable.
type TranscriptEntry struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;index"`
	SpeakerName string    `json:"speaker_name" gorm:"type:varchar(255)"`
	Content     string    `json:"content" gorm:"type:text"`
	Timestamp   time.Time `json:"timestamp" gorm:"not null"`
	IsFinal     bool      `json:"is_final" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (TranscriptEntry) TableName() string {
	return "transcript_entries"
}

// NewTranscriptEntry creates a transcript entry for a meeting. An empty
// content string is valid: an empty word list from the provider still
// produces an entry so subscribers see the transcript tick.
func NewTranscriptEntry(meetingID uuid.UUID, speakerName, content string, isFinal bool) *TranscriptEntry {
	return &TranscriptEntry{
		ID:          uuid.New(),
		MeetingID:   meetingID,
		SpeakerName: speakerName,
		Content:     content,
		Timestamp:   time.Now().UTC(),
		IsFinal:     isFinal,
		CreatedAt:   time.Now(),
	}
}
