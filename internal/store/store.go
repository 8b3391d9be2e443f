package store

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rickgao/session-clock/internal/model"
	"github.com/rickgao/session-clock/internal/rates"
)

// ChangeBufferSize is the capacity of the change notification channel.
const ChangeBufferSize = 16

// mirrorTimeout bounds a single mirror write.
const mirrorTimeout = 2 * time.Second

// ChangeKind identifies which feed changed.
type ChangeKind string

const (
	ChangeRates ChangeKind = "rates"
	ChangeNews  ChangeKind = "news"
)

// Change is emitted after a feed value is replaced.
type Change struct {
	Kind ChangeKind
	At   time.Time
}

// News is the latest headline set.
type News struct {
	Headlines []model.Headline `json:"headlines"`
	FetchedAt time.Time        `json:"fetchedAt"`
}

// Mirror persists feed values outside the process.
type Mirror interface {
	SaveRates(ctx context.Context, t rates.Table) error
	LoadRates(ctx context.Context) (rates.Table, bool, error)
	SaveNews(ctx context.Context, n News) error
	LoadNews(ctx context.Context) (News, bool, error)
}

// Store is a thread-safe latest-value cache for rates and news.
type Store struct {
	mu sync.RWMutex

	rates rates.Table
	news  News

	changes chan Change
	mirror  Mirror
	logger  *slog.Logger
}

// New creates a store. mirror may be nil.
func New(mirror Mirror, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		changes: make(chan Change, ChangeBufferSize),
		mirror:  mirror,
		logger:  logger,
	}
}

// Rates returns a copy of the latest rate table.
func (s *Store) Rates() rates.Table {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t := s.rates
	t.Rates = maps.Clone(s.rates.Rates)
	return t
}

// News returns a copy of the latest headlines.
func (s *Store) News() News {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := s.news
	n.Headlines = slices.Clone(s.news.Headlines)
	return n
}

// SetRates replaces the rate table. An empty table is ignored.
func (s *Store) SetRates(t rates.Table) error {
	if t.Empty() {
		return nil
	}
	if t.FetchedAt.IsZero() {
		t.FetchedAt = time.Now().UTC()
	}
	t.Rates = maps.Clone(t.Rates)

	s.mu.Lock()
	s.rates = t
	s.mu.Unlock()

	s.notifyChange(Change{Kind: ChangeRates, At: t.FetchedAt})

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.SaveRates(ctx, t); err != nil {
			s.logger.Warn("failed to mirror rates", "err", err)
		}
	}
	return nil
}

// SetNews replaces the headline set.
func (s *Store) SetNews(headlines []model.Headline) error {
	n := News{
		Headlines: slices.Clone(headlines),
		FetchedAt: time.Now().UTC(),
	}
	s.setNews(n)

	if s.mirror != nil {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.mirror.SaveNews(ctx, n); err != nil {
			s.logger.Warn("failed to mirror news", "err", err)
		}
	}
	return nil
}

func (s *Store) setNews(n News) {
	s.mu.Lock()
	s.news = n
	s.mu.Unlock()

	s.notifyChange(Change{Kind: ChangeNews, At: n.FetchedAt})
}

// Warm loads mirrored values. Values already set by a fetch are kept.
func (s *Store) Warm(ctx context.Context) error {
	if s.mirror == nil {
		return nil
	}

	t, ok, err := s.mirror.LoadRates(ctx)
	if err != nil {
		return err
	}
	if ok && !t.Empty() {
		s.mu.Lock()
		warm := s.rates.Empty()
		if warm {
			s.rates = t
		}
		s.mu.Unlock()
		if warm {
			s.notifyChange(Change{Kind: ChangeRates, At: t.FetchedAt})
		}
	}

	n, ok, err := s.mirror.LoadNews(ctx)
	if err != nil {
		return err
	}
	if ok {
		s.mu.RLock()
		warm := s.news.FetchedAt.IsZero()
		s.mu.RUnlock()
		if warm {
			s.setNews(n)
		}
	}

	s.logger.Info("store warmed from mirror",
		"rates", len(s.Rates().Rates),
		"headlines", len(s.News().Headlines),
	)
	return nil
}

// SubscribeChanges returns the change notification channel.
func (s *Store) SubscribeChanges() <-chan Change {
	return s.changes
}

// notifyChange sends a change to the changes channel (non-blocking).
func (s *Store) notifyChange(change Change) {
	select {
	case s.changes <- change:
	default:
		// Channel full, drop oldest by consuming one and retrying.
		select {
		case <-s.changes:
		default:
		}
		select {
		case s.changes <- change:
		default:
		}
	}
}
