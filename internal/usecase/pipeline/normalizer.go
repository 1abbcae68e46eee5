package pipeline

import "github.com/meetpilot-team/meetpilot/internal/domain/entities"

// providerStatusTable maps the meeting-bot provider's status vocabulary to
// the internal lifecycle enum. The table is total over the provider's known
// code set; anything outside it normalizes to error so an unrecognized
// terminal-looking code can never leave the stored status stale.
var providerStatusTable = map[string]entities.BotStatus{
	"ready":                 entities.BotStatusCreated,
	"joining_call":          entities.BotStatusJoining,
	"in_waiting_room":       entities.BotStatusWaitingRoom,
	"in_call_not_recording": entities.BotStatusInMeeting,
	"in_call_recording":     entities.BotStatusInMeeting,
	"call_ended":            entities.BotStatusCompleted,
	"done":                  entities.BotStatusCompleted,
	"analysis_done":         entities.BotStatusCompleted,
	"fatal":                 entities.BotStatusError,
	"media_expired":         entities.BotStatusExpired,
}

// NormalizeStatus maps a provider status code to the internal BotStatus.
func NormalizeStatus(providerCode string) entities.BotStatus {
	if status, ok := providerStatusTable[providerCode]; ok {
		return status
	}
	return entities.BotStatusError
}
