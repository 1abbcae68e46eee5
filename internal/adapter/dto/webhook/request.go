package webhook

import "encoding/json"

// Known provider event names.
const (
	EventTranscriptData = "transcript.data"
	EventBotStatus      = "bot.status_change"
	EventRecordingDone  = "recording.done"
)

// Envelope is the outer shape of every provider webhook. Data stays raw
// until the event name selects a concrete payload type.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// StatusChangeData is the payload of bot.status_change.
type StatusChangeData struct {
	BotID  string `json:"bot_id"`
	Status struct {
		Code      string `json:"code"`
		CreatedAt string `json:"created_at,omitempty"`
	} `json:"status"`
}

// Word is one recognized token with provider-side timing.
type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start_timestamp,omitempty"`
	End   float64 `json:"end_timestamp,omitempty"`
}

// TranscriptData is the payload of transcript.data. Words may be empty;
// the event is still meaningful downstream.
type TranscriptData struct {
	BotID       string `json:"bot_id"`
	Words       []Word `json:"words"`
	Participant struct {
		Name string `json:"name"`
	} `json:"participant"`
	IsFinal *bool `json:"is_final,omitempty"`
}

// Final reports whether the utterance is final. The provider omits the
// flag on final entries, so absence means final.
func (d TranscriptData) Final() bool {
	if d.IsFinal == nil {
		return true
	}
	return *d.IsFinal
}

// RecordingDoneData is the payload of recording.done.
type RecordingDoneData struct {
	BotID        string `json:"bot_id"`
	RecordingURL string `json:"recording_url"`
}
