package realtime

// Client-sent command names.
const (
	CommandJoinMeeting     = "join-meeting"
	CommandLeaveMeeting    = "leave-meeting"
	CommandStartRecording  = "start-recording"
	CommandStopRecording   = "stop-recording"
	CommandConfirmAction   = "confirm-action"
	CommandRejectAction    = "reject-action"
	CommandConfirmDecision = "confirm-decision"
	CommandRejectDecision  = "reject-decision"
	CommandDismissInsight  = "dismiss-insight"
)

// Command is one inbound client frame. MeetingID is required for every
// command; TargetID addresses the insight/action/decision being mutated.
type Command struct {
	Command   string `json:"command" validate:"required"`
	MeetingID string `json:"meeting_id" validate:"required,uuid"`
	TargetID  string `json:"target_id,omitempty" validate:"omitempty,uuid"`
}

// Ack is the per-client reply to a processed command.
type Ack struct {
	Event   string      `json:"event"`
	Command string      `json:"command"`
	Room    string      `json:"room,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}
