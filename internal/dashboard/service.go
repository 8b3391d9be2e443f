package dashboard

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/session-clock/internal/clock"
	"github.com/rickgao/session-clock/internal/metrics"
	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/rates"
	"github.com/rickgao/session-clock/internal/session"
	"github.com/rickgao/session-clock/internal/store"
)

// FeedSource provides the latest feed values.
type FeedSource interface {
	Rates() rates.Table
	News() store.News
}

// Publisher receives every built snapshot.
type Publisher interface {
	Publish(snap model.Snapshot)
}

// Service builds snapshots.
type Service struct {
	engine    *session.Engine
	feeds     FeedSource
	location  *time.Location
	publisher Publisher
	logger    *slog.Logger

	pairs []string

	mu     sync.RWMutex
	latest model.Snapshot
	built  bool
}

// New creates a dashboard service. feeds and publisher may be nil; a nil
// location means UTC.
func New(engine *session.Engine, feeds FeedSource, loc *time.Location, publisher Publisher, logger *slog.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		engine:    engine,
		feeds:     feeds,
		location:  loc,
		publisher: publisher,
		logger:    logger,
		pairs:     rates.PairsFor(engine.Sessions()),
	}
}

// Engine returns the session engine.
func (s *Service) Engine() *session.Engine {
	return s.engine
}

// Location returns the viewer's zone.
func (s *Service) Location() *time.Location {
	return s.location
}

// Build computes the snapshot for now without publishing it.
func (s *Service) Build(now time.Time) model.Snapshot {
	utc := clock.ReadUTC(now)
	res := s.engine.Compute(utc)

	snap := model.Snapshot{
		ID:                uuid.New(),
		GeneratedAt:       now.UTC(),
		UTC:               utc,
		Local:             clock.ReadIn(now, s.location),
		Sessions:          s.engine.Sessions(),
		Statuses:          res.Statuses,
		Active:            res.ActiveIDs(),
		Volatile:          res.Volatile,
		VolatilityWindows: res.Windows,
	}

	if s.feeds != nil {
		table := s.feeds.Rates()
		if !table.Empty() {
			snap.Rates = table.Rates
			snap.RatesUpdatedAt = table.FetchedAt
		}
		snap.Quotes = table.Quotes(s.pairs)

		news := s.feeds.News()
		snap.News = news.Headlines
		snap.NewsUpdatedAt = news.FetchedAt
	}

	return snap
}

// HandleTick builds, stores and publishes the snapshot for now.
func (s *Service) HandleTick(now time.Time) {
	start := time.Now()
	snap := s.Build(now)

	s.mu.Lock()
	prev, hadPrev := s.latest, s.built
	s.latest = snap
	s.built = true
	s.mu.Unlock()

	s.logTransitions(prev, hadPrev, snap)

	if s.publisher != nil {
		s.publisher.Publish(snap)
	}

	open := make(map[string]bool, len(snap.Statuses))
	for _, st := range snap.Statuses {
		open[st.SessionID] = st.IsOpen()
	}
	metrics.SetSessionStates(open)
	metrics.SetVolatile(snap.Volatile)
	metrics.ObserveTick(time.Since(start))
}

// Latest returns the most recent snapshot, building one if no tick has run.
func (s *Service) Latest() model.Snapshot {
	s.mu.RLock()
	snap, ok := s.latest, s.built
	s.mu.RUnlock()
	if ok {
		return snap
	}
	return s.Build(time.Now())
}

func (s *Service) logTransitions(prev model.Snapshot, hadPrev bool, next model.Snapshot) {
	if !hadPrev {
		s.logger.Info("sessions initialised", "active", next.Active, "volatile", next.Volatile)
		return
	}
	for _, st := range next.Statuses {
		old, ok := prev.Status(st.SessionID)
		if ok && old.Status != st.Status {
			s.logger.Info("session state changed",
				"session", st.SessionID,
				"from", old.Status,
				"to", st.Status,
			)
		}
	}
	if prev.Volatile != next.Volatile {
		s.logger.Info("volatility window changed", "volatile", next.Volatile)
	}
}
