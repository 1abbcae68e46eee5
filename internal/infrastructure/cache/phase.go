package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/meetpilot-team/meetpilot/internal/domain/entities"
	"github.com/meetpilot-team/meetpilot/internal/domain/repositories"
)

// PhaseLookup resolves the current phase of a meeting.
type PhaseLookup interface {
	GetPhase(ctx context.Context, id uuid.UUID) (entities.MeetingPhase, error)
}

// CachedPhaseLookup caches phase lookups for a short TTL. Every simulation
// tick re-checks the live-gate, which with three tickers per meeting would
// otherwise hit the store several times per second across live meetings.
// Staleness is bounded by the TTL: a meeting that just ended may get at
// most one extra tick's worth of events.
type CachedPhaseLookup struct {
	meetings repositories.MeetingRepository
	cache    *gocache.Cache
}

// NewCachedPhaseLookup wraps a meeting repository with a TTL cache.
func NewCachedPhaseLookup(meetings repositories.MeetingRepository, ttl time.Duration) *CachedPhaseLookup {
	return &CachedPhaseLookup{
		meetings: meetings,
		cache:    gocache.New(ttl, 2*ttl),
	}
}

// GetPhase returns the cached phase, falling back to the repository.
// Lookup errors are not cached.
func (l *CachedPhaseLookup) GetPhase(ctx context.Context, id uuid.UUID) (entities.MeetingPhase, error) {
	key := id.String()
	if v, found := l.cache.Get(key); found {
		return v.(entities.MeetingPhase), nil
	}
	phase, err := l.meetings.GetPhase(ctx, id)
	if err != nil {
		return "", err
	}
	l.cache.SetDefault(key, phase)
	return phase, nil
}

// Invalidate drops the cached phase for a meeting. Called on explicit phase
// transitions so the scheduler sees the change immediately instead of after
// TTL expiry.
func (l *CachedPhaseLookup) Invalidate(id uuid.UUID) {
	l.cache.Delete(id.String())
}
