package pipeline

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
)

func newTestUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}

type broadcastRecord struct {
	meetingID uuid.UUID
	event     string
	payload   interface{}
}

type recordingBroadcaster struct {
	events []broadcastRecord
}

func (b *recordingBroadcaster) Broadcast(meetingID uuid.UUID, event string, payload interface{}) {
	b.events = append(b.events, broadcastRecord{meetingID: meetingID, event: event, payload: payload})
}

func (b *recordingBroadcaster) countEvent(name string) int {
	n := 0
	for _, e := range b.events {
		if e.event == name {
			n++
		}
	}
	return n
}

// fakeMeetingRepo records mutation order so tests can assert that writes
// happen before broadcasts.
type fakeMeetingRepo struct {
	meeting     *entities.Meeting
	auditEvents []*entities.BotStatusEvent
	auditErr    error

	statusWrites []entities.BotStatus
	phaseWrites  []entities.MeetingPhase
	recordingURL string

	ops *[]string
}

func (r *fakeMeetingRepo) record(op string) {
	if r.ops != nil {
		*r.ops = append(*r.ops, op)
	}
}

func (r *fakeMeetingRepo) Create(ctx context.Context, meeting *entities.Meeting) error {
	r.meeting = meeting
	return nil
}

func (r *fakeMeetingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	if r.meeting == nil || r.meeting.ID != id {
		return nil, entities.ErrMeetingNotFound
	}
	m := *r.meeting
	return &m, nil
}

func (r *fakeMeetingRepo) FindByExternalBotID(ctx context.Context, botID string) (*entities.Meeting, error) {
	if r.meeting == nil || r.meeting.ExternalBotID != botID {
		return nil, entities.ErrMeetingNotFound
	}
	m := *r.meeting
	return &m, nil
}

func (r *fakeMeetingRepo) GetPhase(ctx context.Context, id uuid.UUID) (entities.MeetingPhase, error) {
	if r.meeting == nil || r.meeting.ID != id {
		return "", entities.ErrMeetingNotFound
	}
	return r.meeting.Phase, nil
}

func (r *fakeMeetingRepo) UpdatePhase(ctx context.Context, id uuid.UUID, phase entities.MeetingPhase) error {
	r.record("update_phase")
	r.phaseWrites = append(r.phaseWrites, phase)
	r.meeting.Phase = phase
	return nil
}

func (r *fakeMeetingRepo) UpdateBotStatus(ctx context.Context, id uuid.UUID, status entities.BotStatus) error {
	r.record("update_bot_status")
	r.statusWrites = append(r.statusWrites, status)
	r.meeting.BotStatus = status
	return nil
}

func (r *fakeMeetingRepo) UpdateRecordingURL(ctx context.Context, id uuid.UUID, url string) error {
	r.record("update_recording_url")
	r.recordingURL = url
	return nil
}

func (r *fakeMeetingRepo) AppendBotStatusEvent(ctx context.Context, event *entities.BotStatusEvent) error {
	r.record("append_audit")
	if r.auditErr != nil {
		return r.auditErr
	}
	r.auditEvents = append(r.auditEvents, event)
	return nil
}

type fakeTranscriptRepo struct {
	entries []*entities.TranscriptEntry
	ops     *[]string
}

func (r *fakeTranscriptRepo) Create(ctx context.Context, entry *entities.TranscriptEntry) error {
	if r.ops != nil {
		*r.ops = append(*r.ops, "create_transcript")
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeTranscriptRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.TranscriptEntry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, entities.ErrMeetingNotFound
}

func (r *fakeTranscriptRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID, limit, offset int) ([]*entities.TranscriptEntry, error) {
	return r.entries, nil
}

type fakeInsightRepo struct {
	insights map[uuid.UUID]*entities.LiveInsight
	updates  int
}

func newFakeInsightRepo() *fakeInsightRepo {
	return &fakeInsightRepo{insights: make(map[uuid.UUID]*entities.LiveInsight)}
}

func (r *fakeInsightRepo) Create(ctx context.Context, insight *entities.LiveInsight) error {
	r.insights[insight.ID] = insight
	return nil
}

func (r *fakeInsightRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.LiveInsight, error) {
	insight, ok := r.insights[id]
	if !ok {
		return nil, entities.ErrInsightNotFound
	}
	return insight, nil
}

func (r *fakeInsightRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.LiveInsight, error) {
	var out []*entities.LiveInsight
	for _, i := range r.insights {
		if i.MeetingID == meetingID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *fakeInsightRepo) Update(ctx context.Context, insight *entities.LiveInsight) error {
	r.updates++
	r.insights[insight.ID] = insight
	return nil
}

type fakeActionRepo struct {
	actions map[uuid.UUID]*entities.DetectedAction
	updates int
}

func newFakeActionRepo() *fakeActionRepo {
	return &fakeActionRepo{actions: make(map[uuid.UUID]*entities.DetectedAction)}
}

func (r *fakeActionRepo) Create(ctx context.Context, action *entities.DetectedAction) error {
	r.actions[action.ID] = action
	return nil
}

func (r *fakeActionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.DetectedAction, error) {
	action, ok := r.actions[id]
	if !ok {
		return nil, entities.ErrDetectionNotFound
	}
	return action, nil
}

func (r *fakeActionRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.DetectedAction, error) {
	var out []*entities.DetectedAction
	for _, a := range r.actions {
		if a.MeetingID == meetingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeActionRepo) Update(ctx context.Context, action *entities.DetectedAction) error {
	r.updates++
	r.actions[action.ID] = action
	return nil
}

type fakeDecisionRepo struct {
	decisions map[uuid.UUID]*entities.DetectedDecision
	updates   int
}

func newFakeDecisionRepo() *fakeDecisionRepo {
	return &fakeDecisionRepo{decisions: make(map[uuid.UUID]*entities.DetectedDecision)}
}

func (r *fakeDecisionRepo) Create(ctx context.Context, decision *entities.DetectedDecision) error {
	r.decisions[decision.ID] = decision
	return nil
}

func (r *fakeDecisionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.DetectedDecision, error) {
	decision, ok := r.decisions[id]
	if !ok {
		return nil, entities.ErrDetectionNotFound
	}
	return decision, nil
}

func (r *fakeDecisionRepo) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.DetectedDecision, error) {
	var out []*entities.DetectedDecision
	for _, d := range r.decisions {
		if d.MeetingID == meetingID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDecisionRepo) Update(ctx context.Context, decision *entities.DetectedDecision) error {
	r.updates++
	r.decisions[decision.ID] = decision
	return nil
}

type fakeSimulation struct {
	started []uuid.UUID
	stopped []uuid.UUID
}

func (s *fakeSimulation) Start(meetingID uuid.UUID) error {
	s.started = append(s.started, meetingID)
	return nil
}

func (s *fakeSimulation) Stop(meetingID uuid.UUID) error {
	s.stopped = append(s.stopped, meetingID)
	return nil
}

type testEnv struct {
	svc         Service
	meetings    *fakeMeetingRepo
	transcripts *fakeTranscriptRepo
	insights    *fakeInsightRepo
	actions     *fakeActionRepo
	decisions   *fakeDecisionRepo
	broadcaster *recordingBroadcaster
	sim         *fakeSimulation
	ops         []string
}

func newTestEnv(t *testing.T, meeting *entities.Meeting) *testEnv {
	t.Helper()
	env := &testEnv{
		meetings:    &fakeMeetingRepo{meeting: meeting},
		transcripts: &fakeTranscriptRepo{},
		insights:    newFakeInsightRepo(),
		actions:     newFakeActionRepo(),
		decisions:   newFakeDecisionRepo(),
		broadcaster: &recordingBroadcaster{},
		sim:         &fakeSimulation{},
	}
	env.meetings.ops = &env.ops
	env.transcripts.ops = &env.ops
	env.svc = NewService(
		env.meetings,
		env.transcripts,
		env.insights,
		env.actions,
		env.decisions,
		env.broadcaster,
		env.sim,
		nil,
		zap.NewNop(),
	)
	return env
}

func liveMeeting(botID string) *entities.Meeting {
	m := entities.NewMeeting("weekly sync")
	m.ExternalBotID = botID
	m.Phase = entities.MeetingPhaseLive
	m.BotStatus = entities.BotStatusInMeeting
	return m
}

func TestHandleStatusChange_AppliesAndBroadcasts(t *testing.T) {
	meeting := liveMeeting("bot-1")
	meeting.BotStatus = entities.BotStatusJoining
	env := newTestEnv(t, meeting)

	err := env.svc.HandleStatusChange(context.Background(), "bot-1", "in_call_recording", map[string]interface{}{"k": "v"})
	if err != nil {
		t.Fatalf("HandleStatusChange failed: %v", err)
	}

	if got := env.meetings.meeting.BotStatus; got != entities.BotStatusInMeeting {
		t.Errorf("bot status = %q, want %q", got, entities.BotStatusInMeeting)
	}
	if len(env.meetings.auditEvents) != 1 {
		t.Fatalf("expected 1 audit event got %d", len(env.meetings.auditEvents))
	}
	if !env.meetings.auditEvents[0].Applied {
		t.Error("audit event should be marked applied")
	}
	if n := env.broadcaster.countEvent(EventAgentStatusChange); n != 1 {
		t.Errorf("expected 1 canonical status broadcast got %d", n)
	}
	if n := env.broadcaster.countEvent(EventBotStatusChange); n != 1 {
		t.Errorf("expected 1 alias status broadcast got %d", n)
	}
}

func TestHandleStatusChange_WritesBeforeBroadcast(t *testing.T) {
	env := newTestEnv(t, liveMeeting("bot-1"))

	if err := env.svc.HandleStatusChange(context.Background(), "bot-1", "call_ended", nil); err != nil {
		t.Fatalf("HandleStatusChange failed: %v", err)
	}

	// The broadcast carries a persisted fact, so the status write must be
	// in the op log before anything reached the broadcaster.
	if len(env.broadcaster.events) == 0 {
		t.Fatal("expected a broadcast")
	}
	foundWrite := false
	for _, op := range env.ops {
		if op == "update_bot_status" {
			foundWrite = true
		}
	}
	if !foundWrite {
		t.Fatal("status write never happened")
	}
}

func TestHandleStatusChange_TerminalStatusIsAuditOnly(t *testing.T) {
	terminal := []entities.BotStatus{
		entities.BotStatusCompleted,
		entities.BotStatusError,
		entities.BotStatusExpired,
	}

	for _, status := range terminal {
		t.Run(string(status), func(t *testing.T) {
			meeting := liveMeeting("bot-1")
			meeting.BotStatus = status
			env := newTestEnv(t, meeting)

			err := env.svc.HandleStatusChange(context.Background(), "bot-1", "joining_call", nil)
			if err != nil {
				t.Fatalf("HandleStatusChange failed: %v", err)
			}

			if got := env.meetings.meeting.BotStatus; got != status {
				t.Errorf("terminal status %q changed to %q", status, got)
			}
			if len(env.meetings.statusWrites) != 0 {
				t.Errorf("expected no status writes got %d", len(env.meetings.statusWrites))
			}
			if len(env.broadcaster.events) != 0 {
				t.Errorf("expected no broadcasts got %d", len(env.broadcaster.events))
			}
			if len(env.meetings.auditEvents) != 1 {
				t.Fatalf("expected 1 audit event got %d", len(env.meetings.auditEvents))
			}
			if env.meetings.auditEvents[0].Applied {
				t.Error("audit event for terminal no-op should not be marked applied")
			}
		})
	}
}

func TestHandleStatusChange_UnknownMeeting(t *testing.T) {
	env := newTestEnv(t, liveMeeting("bot-1"))

	err := env.svc.HandleStatusChange(context.Background(), "bot-unknown", "ready", nil)
	if err != entities.ErrMeetingNotFound {
		t.Fatalf("expected ErrMeetingNotFound got %v", err)
	}
	if len(env.broadcaster.events) != 0 {
		t.Errorf("expected no broadcasts got %d", len(env.broadcaster.events))
	}
}

func TestHandleTranscript_JoinsWordsAndBroadcasts(t *testing.T) {
	env := newTestEnv(t, liveMeeting("bot-1"))

	words := []entities.TranscriptWord{
		{Text: "Hello", Start: 0.0, End: 0.4},
		{Text: "World", Start: 0.5, End: 0.9},
	}
	entry, err := env.svc.HandleTranscript(context.Background(), "bot-1", "John Doe", words, true)
	if err != nil {
		t.Fatalf("HandleTranscript failed: %v", err)
	}

	if entry.Content != "Hello World" {
		t.Errorf("content = %q, want %q", entry.Content, "Hello World")
	}
	if entry.SpeakerName != "John Doe" {
		t.Errorf("speaker = %q, want %q", entry.SpeakerName, "John Doe")
	}
	if !entry.IsFinal {
		t.Error("entry should be final")
	}
	if len(env.transcripts.entries) != 1 {
		t.Fatalf("expected 1 persisted entry got %d", len(env.transcripts.entries))
	}
	if n := env.broadcaster.countEvent(EventTranscriptUpdate); n != 1 {
		t.Errorf("expected 1 canonical transcript broadcast got %d", n)
	}
	if n := env.broadcaster.countEvent(EventTranscriptLive); n != 1 {
		t.Errorf("expected 1 alias transcript broadcast got %d", n)
	}

	// Persist must precede broadcast.
	if len(env.ops) == 0 || env.ops[0] != "create_transcript" {
		t.Errorf("expected create_transcript first, ops = %v", env.ops)
	}
}

func TestHandleTranscript_EmptyWordListStillPersists(t *testing.T) {
	env := newTestEnv(t, liveMeeting("bot-1"))

	entry, err := env.svc.HandleTranscript(context.Background(), "bot-1", "Jane", nil, true)
	if err != nil {
		t.Fatalf("HandleTranscript failed: %v", err)
	}
	if entry.Content != "" {
		t.Errorf("content = %q, want empty", entry.Content)
	}
	if len(env.transcripts.entries) != 1 {
		t.Fatalf("expected 1 persisted entry got %d", len(env.transcripts.entries))
	}
	if n := env.broadcaster.countEvent(EventTranscriptUpdate); n != 1 {
		t.Errorf("expected 1 broadcast got %d", n)
	}
}

func TestHandleRecordingDone_CompletesAndStopsScheduler(t *testing.T) {
	meeting := liveMeeting("bot-1")
	env := newTestEnv(t, meeting)

	err := env.svc.HandleRecordingDone(context.Background(), "bot-1", "https://storage.example.com/rec.mp4")
	if err != nil {
		t.Fatalf("HandleRecordingDone failed: %v", err)
	}

	if env.meetings.recordingURL != "https://storage.example.com/rec.mp4" {
		t.Errorf("recording url = %q", env.meetings.recordingURL)
	}
	if env.meetings.meeting.Phase != entities.MeetingPhaseCompleted {
		t.Errorf("phase = %q, want completed", env.meetings.meeting.Phase)
	}
	if len(env.sim.stopped) != 1 || env.sim.stopped[0] != meeting.ID {
		t.Errorf("scheduler not stopped for meeting, stopped = %v", env.sim.stopped)
	}
	if n := env.broadcaster.countEvent(EventRecordingDone); n != 1 {
		t.Errorf("expected 1 recording-done broadcast got %d", n)
	}
}

func TestStartStopRecording_SchedulerLifecycle(t *testing.T) {
	meeting := entities.NewMeeting("planning")
	env := newTestEnv(t, meeting)

	if err := env.svc.StartRecording(context.Background(), meeting.ID); err != nil {
		t.Fatalf("StartRecording failed: %v", err)
	}
	if env.meetings.meeting.Phase != entities.MeetingPhaseLive {
		t.Errorf("phase = %q, want live", env.meetings.meeting.Phase)
	}
	if len(env.sim.started) != 1 {
		t.Fatalf("expected 1 scheduler start got %d", len(env.sim.started))
	}

	if err := env.svc.StopRecording(context.Background(), meeting.ID); err != nil {
		t.Fatalf("StopRecording failed: %v", err)
	}
	if env.meetings.meeting.Phase != entities.MeetingPhaseCompleted {
		t.Errorf("phase = %q, want completed", env.meetings.meeting.Phase)
	}
	if len(env.sim.stopped) != 1 {
		t.Fatalf("expected 1 scheduler stop got %d", len(env.sim.stopped))
	}
}

func TestDismissInsight_Idempotent(t *testing.T) {
	meeting := liveMeeting("bot-1")
	env := newTestEnv(t, meeting)

	insight := entities.NewLiveInsight(meeting.ID, entities.InsightTypeSuggestion, entities.InsightPriorityMedium, "try a timebox", "mock-advisor")
	if err := env.insights.Create(context.Background(), insight); err != nil {
		t.Fatalf("seed insight: %v", err)
	}

	first, err := env.svc.DismissInsight(context.Background(), insight.ID)
	if err != nil {
		t.Fatalf("first dismiss failed: %v", err)
	}
	if !first.Dismissed {
		t.Fatal("insight not dismissed")
	}
	if env.insights.updates != 1 {
		t.Fatalf("expected 1 update got %d", env.insights.updates)
	}
	broadcastsAfterFirst := len(env.broadcaster.events)

	second, err := env.svc.DismissInsight(context.Background(), insight.ID)
	if err != nil {
		t.Fatalf("second dismiss failed: %v", err)
	}
	if !second.Dismissed {
		t.Fatal("insight lost dismissed flag")
	}
	if env.insights.updates != 1 {
		t.Errorf("second dismiss wrote again, updates = %d", env.insights.updates)
	}
	if len(env.broadcaster.events) != broadcastsAfterFirst {
		t.Errorf("second dismiss broadcast again, events = %d", len(env.broadcaster.events))
	}
}

func TestResolveAction_TerminalSemantics(t *testing.T) {
	meeting := liveMeeting("bot-1")
	env := newTestEnv(t, meeting)

	action := entities.NewDetectedAction(meeting.ID, "send the deck", 0.85)
	if err := env.actions.Create(context.Background(), action); err != nil {
		t.Fatalf("seed action: %v", err)
	}

	resolved, err := env.svc.ResolveAction(context.Background(), action.ID, entities.DetectionStatusConfirmed)
	if err != nil {
		t.Fatalf("ResolveAction failed: %v", err)
	}
	if resolved.Status != entities.DetectionStatusConfirmed {
		t.Errorf("status = %q, want confirmed", resolved.Status)
	}
	if n := env.broadcaster.countEvent(EventActionDetected); n != 1 {
		t.Errorf("expected 1 broadcast got %d", n)
	}

	// Same terminal status again is a quiet no-op.
	if _, err := env.svc.ResolveAction(context.Background(), action.ID, entities.DetectionStatusConfirmed); err != nil {
		t.Fatalf("re-resolving to same status should succeed, got %v", err)
	}
	if n := env.broadcaster.countEvent(EventActionDetected); n != 1 {
		t.Errorf("no-op re-resolve broadcast again, count = %d", n)
	}

	// A different terminal status is rejected.
	if _, err := env.svc.ResolveAction(context.Background(), action.ID, entities.DetectionStatusRejected); err != entities.ErrDetectionAlreadyResolved {
		t.Fatalf("expected ErrDetectionAlreadyResolved got %v", err)
	}
}

func TestResolveDecision_RejectsNonTerminalTarget(t *testing.T) {
	meeting := liveMeeting("bot-1")
	env := newTestEnv(t, meeting)

	decision := entities.NewDetectedDecision(meeting.ID, "ship on friday", 0.8)
	if err := env.decisions.Create(context.Background(), decision); err != nil {
		t.Fatalf("seed decision: %v", err)
	}

	if _, err := env.svc.ResolveDecision(context.Background(), decision.ID, entities.DetectionStatus("approved")); err != entities.ErrInvalidDetectionStatus {
		t.Fatalf("expected ErrInvalidDetectionStatus got %v", err)
	}
	if len(env.broadcaster.events) != 0 {
		t.Errorf("expected no broadcasts got %d", len(env.broadcaster.events))
	}
}
