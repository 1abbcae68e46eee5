package entities

// BotStatus is the internal lifecycle state of the meeting bot. Providers
// report their own vocabulary; everything inbound is normalized to one of
// these values before it touches storage or subscribers.
type BotStatus string

const (
	BotStatusCreated     BotStatus = "created"
	BotStatusJoining     BotStatus = "joining"
	BotStatusWaitingRoom BotStatus = "waiting_room"
	BotStatusInMeeting   BotStatus = "in_meeting"
	BotStatusLeft        BotStatus = "left"
	BotStatusCompleted   BotStatus = "completed"
	BotStatusError       BotStatus = "error"
	BotStatusExpired     BotStatus = "expired"
)

// String returns the wire representation.
func (s BotStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is accepted out of s.
func (s BotStatus) IsTerminal() bool {
	switch s {
	case BotStatusCompleted, BotStatusError, BotStatusExpired:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine accepts moving from s
// to next. The provider delivers events out of order and with duplicates,
// so every non-terminal state accepts any successor; only terminal states
// are sticky.
func (s BotStatus) CanTransitionTo(next BotStatus) bool {
	return !s.IsTerminal()
}
