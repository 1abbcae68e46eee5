// Package pipeline wires the meeting-event pipeline together: webhook input
// is normalized, persisted, then broadcast to the meeting's room, in that
// order. Persistence always completes before the broadcast so a subscriber
// that queries stored state is never behind what it already saw live.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
)

// SimulationControl starts and stops the per-meeting mock AI schedulers.
// Implemented by the simulation registry.
type SimulationControl interface {
	Start(meetingID uuid.UUID) error
	Stop(meetingID uuid.UUID) error
}

// PhaseInvalidator drops a cached meeting phase after an explicit phase
// transition, so the scheduler live-gate sees it immediately.
type PhaseInvalidator interface {
	Invalidate(meetingID uuid.UUID)
}

// Service defines the pipeline orchestration methods
type Service interface {
	// Webhook input
	HandleStatusChange(ctx context.Context, botID, providerCode string, raw map[string]interface{}) error
	HandleTranscript(ctx context.Context, botID, speakerName string, words []entities.TranscriptWord, isFinal bool) (*entities.TranscriptEntry, error)
	HandleRecordingDone(ctx context.Context, botID, recordingURL string) error

	// Client commands
	StartRecording(ctx context.Context, meetingID uuid.UUID) error
	StopRecording(ctx context.Context, meetingID uuid.UUID) error
	DismissInsight(ctx context.Context, insightID uuid.UUID) (*entities.LiveInsight, error)
	ResolveAction(ctx context.Context, actionID uuid.UUID, status entities.DetectionStatus) (*entities.DetectedAction, error)
	ResolveDecision(ctx context.Context, decisionID uuid.UUID, status entities.DetectionStatus) (*entities.DetectedDecision, error)
}

// StatusChangePayload is broadcast on agent-status-change.
type StatusChangePayload struct {
	MeetingID      uuid.UUID          `json:"meeting_id"`
	Status         entities.BotStatus `json:"status"`
	PreviousStatus entities.BotStatus `json:"previous_status"`
	ProviderCode   string             `json:"provider_code,omitempty"`
	AgentStatus    string             `json:"agent_status,omitempty"`
	ChangedAt      time.Time          `json:"changed_at"`
}

// RecordingDonePayload is broadcast on recording-done.
type RecordingDonePayload struct {
	MeetingID    uuid.UUID `json:"meeting_id"`
	RecordingURL string    `json:"recording_url"`
	CompletedAt  time.Time `json:"completed_at"`
}

type service struct {
	meetings    repositories.MeetingRepository
	transcripts repositories.TranscriptRepository
	insights    repositories.InsightRepository
	actions     repositories.ActionRepository
	decisions   repositories.DecisionRepository

	broadcaster Broadcaster
	simulation  SimulationControl
	phaseCache  PhaseInvalidator
	logger      *zap.Logger

	// agentStatus is the per-meeting advisor agent state, owned here and
	// handed out only through payloads. Created on start-recording,
	// discarded on stop, never reachable as a global.
	agentMu     sync.Mutex
	agentStatus map[uuid.UUID]string
}

// NewService constructs the pipeline orchestrator. simulation and
// phaseCache may be nil in tests that do not exercise recording commands.
func NewService(
	meetings repositories.MeetingRepository,
	transcripts repositories.TranscriptRepository,
	insights repositories.InsightRepository,
	actions repositories.ActionRepository,
	decisions repositories.DecisionRepository,
	broadcaster Broadcaster,
	simulation SimulationControl,
	phaseCache PhaseInvalidator,
	logger *zap.Logger,
) Service {
	return &service{
		meetings:    meetings,
		transcripts: transcripts,
		insights:    insights,
		actions:     actions,
		decisions:   decisions,
		broadcaster: broadcaster,
		simulation:  simulation,
		phaseCache:  phaseCache,
		logger:      logger,
		agentStatus: make(map[uuid.UUID]string),
	}
}

// HandleStatusChange normalizes a provider status code and applies it to
// the meeting's bot status. Every event is recorded in the audit trail;
// events arriving after a terminal status are audit-only no-ops with no
// state change and no broadcast.
func (s *service) HandleStatusChange(ctx context.Context, botID, providerCode string, raw map[string]interface{}) error {
	meeting, err := s.meetings.FindByExternalBotID(ctx, botID)
	if err != nil {
		return err
	}

	normalized := NormalizeStatus(providerCode)
	previous := meeting.BotStatus
	applied := previous.CanTransitionTo(normalized)

	audit := &entities.BotStatusEvent{
		ID:           uuid.New(),
		MeetingID:    meeting.ID,
		ProviderCode: providerCode,
		Status:       normalized,
		Applied:      applied,
	}
	if raw != nil {
		audit.RawPayload = datatypes.NewJSONType(raw)
	}
	if err := s.meetings.AppendBotStatusEvent(ctx, audit); err != nil {
		// The audit row is best effort; the transition itself must not
		// be lost because of it.
		s.logger.Error("failed to append bot status audit event",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("provider_code", providerCode),
			zap.Error(err),
		)
	}

	if !applied {
		s.logger.Info("ignoring status event for terminal bot status",
			zap.String("meeting_id", meeting.ID.String()),
			zap.String("current", previous.String()),
			zap.String("incoming", normalized.String()),
		)
		return nil
	}

	if err := s.meetings.UpdateBotStatus(ctx, meeting.ID, normalized); err != nil {
		return err
	}

	Emit(s.broadcaster, meeting.ID, EventAgentStatusChange, StatusChangePayload{
		MeetingID:      meeting.ID,
		Status:         normalized,
		PreviousStatus: previous,
		ProviderCode:   providerCode,
		AgentStatus:    s.currentAgentStatus(meeting.ID),
		ChangedAt:      time.Now().UTC(),
	})

	s.logger.Info("bot status changed",
		zap.String("meeting_id", meeting.ID.String()),
		zap.String("from", previous.String()),
		zap.String("to", normalized.String()),
	)
	return nil
}

// HandleTranscript concatenates the provider's word tokens into one
// utterance, persists it, then broadcasts it. An empty word list still
// produces an empty-content entry: subscribers must see the transcript
// tick even when no words were recognized.
func (s *service) HandleTranscript(ctx context.Context, botID, speakerName string, words []entities.TranscriptWord, isFinal bool) (*entities.TranscriptEntry, error) {
	meeting, err := s.meetings.FindByExternalBotID(ctx, botID)
	if err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, w.Text)
	}
	entry := entities.NewTranscriptEntry(meeting.ID, speakerName, strings.Join(tokens, " "), isFinal)

	if err := s.transcripts.Create(ctx, entry); err != nil {
		return nil, err
	}
	Emit(s.broadcaster, meeting.ID, EventTranscriptUpdate, entry)
	return entry, nil
}

// HandleRecordingDone stores the recording location, completes the meeting
// and stops its simulation scheduler.
func (s *service) HandleRecordingDone(ctx context.Context, botID, recordingURL string) error {
	meeting, err := s.meetings.FindByExternalBotID(ctx, botID)
	if err != nil {
		return err
	}

	if err := s.meetings.UpdateRecordingURL(ctx, meeting.ID, recordingURL); err != nil {
		return err
	}
	if err := s.meetings.UpdatePhase(ctx, meeting.ID, entities.MeetingPhaseCompleted); err != nil {
		return err
	}
	s.invalidatePhase(meeting.ID)
	s.stopSimulation(meeting.ID)
	s.discardAgentStatus(meeting.ID)

	s.broadcaster.Broadcast(meeting.ID, EventRecordingDone, RecordingDonePayload{
		MeetingID:    meeting.ID,
		RecordingURL: recordingURL,
		CompletedAt:  time.Now().UTC(),
	})

	s.logger.Info("recording done",
		zap.String("meeting_id", meeting.ID.String()),
	)
	return nil
}

// StartRecording moves the meeting into its live phase and starts the
// mock AI scheduler for it.
func (s *service) StartRecording(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return err
	}

	if err := s.meetings.UpdatePhase(ctx, meeting.ID, entities.MeetingPhaseLive); err != nil {
		return err
	}
	s.invalidatePhase(meeting.ID)
	s.setAgentStatus(meeting.ID, "active")

	if s.simulation != nil {
		if err := s.simulation.Start(meeting.ID); err != nil {
			s.logger.Warn("simulation scheduler not started",
				zap.String("meeting_id", meeting.ID.String()),
				zap.Error(err),
			)
		}
	}

	Emit(s.broadcaster, meeting.ID, EventAgentStatusChange, StatusChangePayload{
		MeetingID:      meeting.ID,
		Status:         meeting.BotStatus,
		PreviousStatus: meeting.BotStatus,
		AgentStatus:    "active",
		ChangedAt:      time.Now().UTC(),
	})
	return nil
}

// StopRecording completes the meeting and cancels its scheduler. The
// cancellation is explicit: a scheduler is never left to notice the phase
// change on its own.
func (s *service) StopRecording(ctx context.Context, meetingID uuid.UUID) error {
	meeting, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		return err
	}

	if err := s.meetings.UpdatePhase(ctx, meeting.ID, entities.MeetingPhaseCompleted); err != nil {
		return err
	}
	s.invalidatePhase(meeting.ID)
	s.stopSimulation(meeting.ID)
	s.discardAgentStatus(meeting.ID)

	Emit(s.broadcaster, meeting.ID, EventAgentStatusChange, StatusChangePayload{
		MeetingID:      meeting.ID,
		Status:         meeting.BotStatus,
		PreviousStatus: meeting.BotStatus,
		AgentStatus:    "stopped",
		ChangedAt:      time.Now().UTC(),
	})
	return nil
}

// DismissInsight marks an insight dismissed. Idempotent: dismissing an
// already-dismissed insight succeeds without a second persistence write or
// a duplicate broadcast.
func (s *service) DismissInsight(ctx context.Context, insightID uuid.UUID) (*entities.LiveInsight, error) {
	insight, err := s.insights.FindByID(ctx, insightID)
	if err != nil {
		return nil, err
	}

	if !insight.Dismiss() {
		return insight, nil
	}
	if err := s.insights.Update(ctx, insight); err != nil {
		return nil, err
	}
	Emit(s.broadcaster, insight.MeetingID, EventInsightGenerated, insight)
	return insight, nil
}

// ResolveAction moves a detected action to confirmed or rejected. Once a
// terminal status is set, re-resolving to the same status is a no-op and
// resolving to a different one fails.
func (s *service) ResolveAction(ctx context.Context, actionID uuid.UUID, status entities.DetectionStatus) (*entities.DetectedAction, error) {
	action, err := s.actions.FindByID(ctx, actionID)
	if err != nil {
		return nil, err
	}

	if action.Status == status {
		return action, nil
	}
	if err := action.Resolve(status); err != nil {
		return nil, err
	}
	if err := s.actions.Update(ctx, action); err != nil {
		return nil, err
	}
	Emit(s.broadcaster, action.MeetingID, EventActionDetected, action)
	return action, nil
}

// ResolveDecision moves a detected decision to confirmed or rejected with
// the same terminal semantics as ResolveAction.
func (s *service) ResolveDecision(ctx context.Context, decisionID uuid.UUID, status entities.DetectionStatus) (*entities.DetectedDecision, error) {
	decision, err := s.decisions.FindByID(ctx, decisionID)
	if err != nil {
		return nil, err
	}

	if decision.Status == status {
		return decision, nil
	}
	if err := decision.Resolve(status); err != nil {
		return nil, err
	}
	if err := s.decisions.Update(ctx, decision); err != nil {
		return nil, err
	}
	Emit(s.broadcaster, decision.MeetingID, EventDecisionDetected, decision)
	return decision, nil
}

func (s *service) invalidatePhase(meetingID uuid.UUID) {
	if s.phaseCache != nil {
		s.phaseCache.Invalidate(meetingID)
	}
}

func (s *service) stopSimulation(meetingID uuid.UUID) {
	if s.simulation == nil {
		return
	}
	// Stopping twice is normal when a terminal status lands after an
	// explicit stop-recording, so this is only worth a debug line.
	if err := s.simulation.Stop(meetingID); err != nil {
		s.logger.Debug("simulation already stopped",
			zap.String("meeting_id", meetingID.String()),
		)
	}
}

func (s *service) setAgentStatus(meetingID uuid.UUID, status string) {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	s.agentStatus[meetingID] = status
}

func (s *service) discardAgentStatus(meetingID uuid.UUID) {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	delete(s.agentStatus, meetingID)
}

func (s *service) currentAgentStatus(meetingID uuid.UUID) string {
	s.agentMu.Lock()
	defer s.agentMu.Unlock()
	return s.agentStatus[meetingID]
}
