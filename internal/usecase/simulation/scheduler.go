// Package simulation generates synthetic advisor events for live meetings.
// Each live meeting runs independent tickers for insights and for
// action/decision detection; every tick re-checks the live-gate, then
// persists and broadcasts at most one event per kind.
package simulation

import (
	"context"
	"math/rand"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/meetpilot-team/meetpilot/errors"
	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
	"github.com/meetpilot-team/meetpilot/internal/usecase/pipeline"
	"github.com/meetpilot-team/meetpilot/pkg/config"
)

// agentID tags every synthetic event so consumers can tell mock output
// from a real analysis backend.
const agentID = "mock-advisor"

// PhaseLookup resolves the current phase of a meeting. Satisfied by the
// cached lookup in infrastructure/cache.
type PhaseLookup interface {
	GetPhase(ctx context.Context, id uuid.UUID) (entities.MeetingPhase, error)
}

// Registry owns one cancellable scheduler per live meeting. Stopping is an
// explicit operation invoked by the pipeline on phase transitions; a
// scheduler never silently self-terminates, so a handle that is lost
// without Stop is a leak by definition.
type Registry struct {
	cfg    config.SimulationConfig
	phases PhaseLookup

	insights  repositories.InsightRepository
	actions   repositories.ActionRepository
	decisions repositories.DecisionRepository

	broadcaster pipeline.Broadcaster
	logger      *zap.Logger

	mu      sync.Mutex
	running map[uuid.UUID]context.CancelFunc
	wg      sync.WaitGroup
}

// NewRegistry creates an empty scheduler registry.
func NewRegistry(
	cfg config.SimulationConfig,
	phases PhaseLookup,
	insights repositories.InsightRepository,
	actions repositories.ActionRepository,
	decisions repositories.DecisionRepository,
	broadcaster pipeline.Broadcaster,
	logger *zap.Logger,
) *Registry {
	return &Registry{
		cfg:         cfg,
		phases:      phases,
		insights:    insights,
		actions:     actions,
		decisions:   decisions,
		broadcaster: broadcaster,
		logger:      logger,
		running:     make(map[uuid.UUID]context.CancelFunc),
	}
}

// Start launches the schedulers for a meeting. Meetings are independent:
// no state is shared between two meetings' tickers beyond this registry.
func (r *Registry) Start(meetingID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.running[meetingID]; exists {
		return apperrors.ErrSchedulerAlreadyRunning(meetingID.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.running[meetingID] = cancel

	r.wg.Add(2)
	go r.insightLoop(ctx, meetingID)
	go r.detectionLoop(ctx, meetingID)

	r.logger.Info("simulation scheduler started",
		zap.String("meeting_id", meetingID.String()),
	)
	return nil
}

// Stop cancels a meeting's schedulers.
func (r *Registry) Stop(meetingID uuid.UUID) error {
	r.mu.Lock()
	cancel, exists := r.running[meetingID]
	if exists {
		delete(r.running, meetingID)
	}
	r.mu.Unlock()

	if !exists {
		return apperrors.ErrSchedulerNotRunning(meetingID.String())
	}
	cancel()
	r.logger.Info("simulation scheduler stopped",
		zap.String("meeting_id", meetingID.String()),
	)
	return nil
}

// Running reports whether a meeting currently has a scheduler.
func (r *Registry) Running(meetingID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.running[meetingID]
	return exists
}

// StopAll cancels every scheduler and waits for the loops to drain.
// Called on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	for meetingID, cancel := range r.running {
		cancel()
		delete(r.running, meetingID)
	}
	r.mu.Unlock()
	r.wg.Wait()
}

func (r *Registry) insightLoop(ctx context.Context, meetingID uuid.UUID) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.InsightInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tickInsight(ctx, meetingID)
		}
	}
}

func (r *Registry) detectionLoop(ctx context.Context, meetingID uuid.UUID) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.DetectionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Actions and decisions share a cadence but trigger
			// independently; decisions are the rarer of the two.
			r.tickAction(ctx, meetingID)
			r.tickDecision(ctx, meetingID)
		}
	}
}

// tickInsight attempts one insight generation. Any failure is scoped to
// this tick: it is logged and the ticker keeps running.
func (r *Registry) tickInsight(ctx context.Context, meetingID uuid.UUID) {
	if !r.meetingLive(ctx, meetingID) {
		return
	}
	if rand.Float64() >= r.cfg.InsightChance {
		return
	}

	entry := insightCatalog[rand.Intn(len(insightCatalog))]
	insight := entities.NewLiveInsight(meetingID, entry.Type, entry.Priority, entry.Content, agentID)

	if err := r.persist(ctx, func() error {
		return r.insights.Create(ctx, insight)
	}); err != nil {
		r.logger.Error("insight tick failed",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
		return
	}
	pipeline.Emit(r.broadcaster, meetingID, pipeline.EventInsightGenerated, insight)
}

func (r *Registry) tickAction(ctx context.Context, meetingID uuid.UUID) {
	if !r.meetingLive(ctx, meetingID) {
		return
	}
	if rand.Float64() >= r.cfg.ActionChance {
		return
	}

	entry := actionCatalog[rand.Intn(len(actionCatalog))]
	action := entities.NewDetectedAction(meetingID, entry.Description, entry.Confidence)
	action.Assignee = entry.Assignee

	if err := r.persist(ctx, func() error {
		return r.actions.Create(ctx, action)
	}); err != nil {
		r.logger.Error("action tick failed",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
		return
	}
	pipeline.Emit(r.broadcaster, meetingID, pipeline.EventActionDetected, action)
}

func (r *Registry) tickDecision(ctx context.Context, meetingID uuid.UUID) {
	if !r.meetingLive(ctx, meetingID) {
		return
	}
	if rand.Float64() >= r.cfg.DecisionChance {
		return
	}

	entry := decisionCatalog[rand.Intn(len(decisionCatalog))]
	decision := entities.NewDetectedDecision(meetingID, entry.Description, entry.Confidence)

	if err := r.persist(ctx, func() error {
		return r.decisions.Create(ctx, decision)
	}); err != nil {
		r.logger.Error("decision tick failed",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
		return
	}
	pipeline.Emit(r.broadcaster, meetingID, pipeline.EventDecisionDetected, decision)
}

// meetingLive re-checks the live-gate. The meeting may have ended since
// the previous tick; a lookup failure counts as not live so a broken
// store cannot keep generating events.
func (r *Registry) meetingLive(ctx context.Context, meetingID uuid.UUID) bool {
	phase, err := r.phases.GetPhase(ctx, meetingID)
	if err != nil {
		r.logger.Warn("phase lookup failed, skipping tick",
			zap.String("meeting_id", meetingID.String()),
			zap.Error(err),
		)
		return false
	}
	return phase.IsLive()
}

// persist runs a store write with bounded exponential retry. A transient
// failure should not eat a generated event when an immediate retry would
// land it; a persistent one is surfaced to the tick, which logs and moves
// on.
func (r *Registry) persist(ctx context.Context, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 100 * time.Millisecond
	policy.MaxInterval = r.cfg.PersistMaxInterval

	return backoff.Retry(op, backoff.WithContext(
		backoff.WithMaxRetries(policy, r.cfg.PersistMaxRetries), ctx))
}
