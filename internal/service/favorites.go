package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/raphaelgruber/jobfinder-go/internal/db"
	"github.com/raphaelgruber/jobfinder-go/internal/metrics"
	"github.com/raphaelgruber/jobfinder-go/internal/models"
)

// DefaultFavoritesKey is the storage key of the favorites blob.
const DefaultFavoritesKey = "job-favorites"

// FavoritesService keeps the user's bookmarked jobs. The in-memory set is
// authoritative; every mutation rewrites the whole set to the store and
// storage failures are logged, never returned.
type FavoritesService struct {
	store   db.Store
	key     string
	now     func() time.Time
	metrics *metrics.Collector
	logger  *slog.Logger

	mu    sync.RWMutex
	items []models.Favorite
}

// FavoritesOption configures a FavoritesService.
type FavoritesOption func(*FavoritesService)

// WithFavoritesKey sets the storage key.
func WithFavoritesKey(key string) FavoritesOption {
	return func(s *FavoritesService) {
		if key != "" {
			s.key = key
		}
	}
}

// WithFavoritesClock sets the time source for favoritedAt stamps.
func WithFavoritesClock(now func() time.Time) FavoritesOption {
	return func(s *FavoritesService) { s.now = now }
}

// WithFavoritesMetrics records persistence timings.
func WithFavoritesMetrics(m *metrics.Collector) FavoritesOption {
	return func(s *FavoritesService) { s.metrics = m }
}

// WithFavoritesLogger sets the logger.
func WithFavoritesLogger(logger *slog.Logger) FavoritesOption {
	return func(s *FavoritesService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewFavoritesService loads the stored favorites once. Missing, unreadable or
// malformed data starts an empty set.
func NewFavoritesService(ctx context.Context, store db.Store, opts ...FavoritesOption) *FavoritesService {
	s := &FavoritesService{
		store:  store,
		key:    DefaultFavoritesKey,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.items = s.load(ctx)
	return s
}

func (s *FavoritesService) load(ctx context.Context) []models.Favorite {
	data, err := s.store.Get(ctx, s.key)
	if errors.Is(err, db.ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("failed to load favorites, starting empty", "key", s.key, "error", err)
		return nil
	}

	var stored []models.Favorite
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("malformed favorites data, starting empty", "key", s.key, "error", err)
		return nil
	}

	// Drop duplicate identities a foreign writer may have left behind
	items := make([]models.Favorite, 0, len(stored))
	for _, f := range stored {
		if indexOf(items, f.Job) < 0 {
			items = append(items, f)
		}
	}
	s.logger.Debug("favorites loaded", "count", len(items))
	return items
}

// Toggle removes job when it is a favorite, or adds it otherwise.
// Returns whether job is a favorite afterwards.
func (s *FavoritesService) Toggle(ctx context.Context, job models.Job) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0:0]
	for _, f := range s.items {
		if !f.SameListing(job) {
			kept = append(kept, f)
		}
	}

	added := len(kept) == len(s.items)
	if added {
		kept = append(kept, models.Favorite{Job: job, FavoritedAt: s.now()})
	}
	s.items = kept

	s.persistLocked(ctx)
	return added
}

// IsFavorite reports whether a favorite shares job's id or url.
func (s *FavoritesService) IsFavorite(job models.Job) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, job) >= 0
}

// Find returns the favorite with the given url.
func (s *FavoritesService) Find(url string) (models.Favorite, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.items {
		if url != "" && f.URL == url {
			return f, true
		}
	}
	return models.Favorite{}, false
}

// List returns the favorites in the order they were added.
func (s *FavoritesService) List() []models.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Favorite, len(s.items))
	copy(out, s.items)
	return out
}

// Jobs returns the favorites as plain job records, for export.
func (s *FavoritesService) Jobs() []models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Job, len(s.items))
	for i, f := range s.items {
		out[i] = f.Job
	}
	return out
}

// Count returns the number of favorites.
func (s *FavoritesService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear empties the set and removes the stored blob.
func (s *FavoritesService) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	start := time.Now()
	if err := s.store.Remove(ctx, s.key); err != nil {
		s.metrics.RecordFailure(metrics.OpPersist, time.Since(start))
		s.logger.Warn("failed to clear stored favorites", "key", s.key, "error", err)
		return
	}
	s.metrics.RecordTiming(metrics.OpPersist, time.Since(start))
	s.logger.Info("favorites cleared")
}

// persistLocked writes the whole set. Caller must hold s.mu.
func (s *FavoritesService) persistLocked(ctx context.Context) {
	items := s.items
	if items == nil {
		items = []models.Favorite{}
	}

	start := time.Now()
	data, err := json.Marshal(items)
	if err == nil {
		err = s.store.Set(ctx, s.key, data)
	}
	if err != nil {
		s.metrics.RecordFailure(metrics.OpPersist, time.Since(start))
		s.logger.Warn("failed to persist favorites", "key", s.key, "count", len(items), "error", err)
		return
	}
	s.metrics.RecordTiming(metrics.OpPersist, time.Since(start))
}

func indexOf(items []models.Favorite, job models.Job) int {
	for i, f := range items {
		if f.SameListing(job) {
			return i
		}
	}
	return -1
}
