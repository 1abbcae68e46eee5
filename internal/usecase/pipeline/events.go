package pipeline

import "github.com/google/uuid"

// Server-emitted event names. The deprecated aliases are an older consumer
// vocabulary still emitted alongside the canonical names; eventAliases is
// the single source for the mapping.
const (
	EventTranscriptUpdate  = "transcript-update"
	EventInsightGenerated  = "insight-generated"
	EventActionDetected    = "action-detected"
	EventDecisionDetected  = "decision-detected"
	EventAgentStatusChange = "agent-status-change"
	EventRecordingDone     = "recording-done"

	// Deprecated aliases.
	EventTranscriptLive  = "transcript-live"
	EventAdvisorInsight  = "advisor-insight"
	EventBotStatusChange = "bot-status-change"
)

var eventAliases = map[string]string{
	EventTranscriptUpdate:  EventTranscriptLive,
	EventInsightGenerated:  EventAdvisorInsight,
	EventAgentStatusChange: EventBotStatusChange,
}

// Broadcaster delivers an event to every subscriber of a meeting's room.
// Implemented by the realtime hub (and its Redis-backed bridge).
type Broadcaster interface {
	Broadcast(meetingID uuid.UUID, event string, payload interface{})
}

// Emit broadcasts the canonical event followed by its deprecated alias,
// if one exists, so both consumer generations receive the payload.
func Emit(b Broadcaster, meetingID uuid.UUID, event string, payload interface{}) {
	b.Broadcast(meetingID, event, payload)
	if alias, ok := eventAliases[event]; ok {
		b.Broadcast(meetingID, alias, payload)
	}
}
