// Package app provides the core business service that implements
// the dependencies required by the HTTP API.
package app

import (
	"context"
	"runtime"
	"sync"
	"time"

	submissionqueue "github.com/romeirofernandes/vhack-sub001/internal/adapters/mq/queue"
	workerpool "github.com/romeirofernandes/vhack-sub001/internal/adapters/mq/worker"
	repository "github.com/romeirofernandes/vhack-sub001/internal/adapters/repository"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/dedupe"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/model"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/reveal"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/scoring"
	"github.com/romeirofernandes/vhack-sub001/internal/domain/types"
	"github.com/romeirofernandes/vhack-sub001/pkg/logger"
	"github.com/romeirofernandes/vhack-sub001/pkg/metrics"
)

// Service implements the API dependencies for the results system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    repository.Store
	deduper  dedupe.Deduper
	queue    submissionqueue.Queue
	pool     *workerpool.Pool
	machines map[string]*reveal.Machine

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	storeDSN    string
	maxLimit    int
	phaseStep   time.Duration
	autoWindow  time.Duration
	clock       reveal.Clock

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of submission workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the submission queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the idempotency cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithStoreDSN selects the SQL store. Empty keeps the memory store.
func WithStoreDSN(dsn string) Option {
	return func(s *Service) {
		s.storeDSN = dsn
	}
}

// WithMaxLeaderboardLimit caps the number of ranked entries served.
func WithMaxLeaderboardLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxLimit = limit
		}
	}
}

// WithRevealPhaseStep sets the podium phase delay step.
func WithRevealPhaseStep(step time.Duration) Option {
	return func(s *Service) {
		if step > 0 {
			s.phaseStep = step
		}
	}
}

// WithRevealAutoWindow sets the podium auto-reveal window.
func WithRevealAutoWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.autoWindow = window
		}
	}
}

// WithClock sets the clock used for the reveal guard and phase timers.
func WithClock(c reveal.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		machines:    make(map[string]*reveal.Machine),
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10_000,
		dedupeSize:  50_000,
		maxLimit:    100,
		phaseStep:   300 * time.Millisecond,
		autoWindow:  24 * time.Hour,
		clock:       reveal.SystemClock(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting results service...")

	if s.storeDSN != "" {
		store, err := repository.NewSQLStore(ctx, s.storeDSN)
		if err != nil {
			return err
		}
		s.store = store
		s.logger.Info(ctx, "using sql store", logger.String("dsn", s.storeDSN))
	} else {
		s.store = repository.NewMemStore(ctx)
		s.logger.Info(ctx, "using memory store")
	}

	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = submissionqueue.NewInMemoryQueue(
		submissionqueue.WithCapacity(s.queueSize),
	)
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "results service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping results service...")

	if q, ok := s.queue.(*submissionqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		s.pool.Stop()
	}
	for _, m := range s.machines {
		m.Close()
	}
	if s.store != nil {
		_ = s.store.Close()
	}

	s.started = false
	s.logger.Info(ctx, "results service stopped")
}

// SeenAndRecord atomically checks if a submission id was seen and
// records it if not.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSubmissionDuplicate()
	}
	return seen
}

// Unrecord removes a submission ID from the seen list, allowing it to
// be retried.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a judge score for asynchronous persistence.
// Returns false on backpressure.
func (s *Service) Enqueue(ctx context.Context, sub model.Submission) bool {
	ok := s.queue.Enqueue(ctx, sub)
	if ok {
		metrics.RecordSubmissionAccepted()
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return ok
}

// Results loads a hackathon's results view, applying the reveal guard.
//
// While locked no ranking is computed: the view carries only the
// scheduled date. Past the guard, projects are ranked on demand and
// the hackathon's reveal machine is synced (which may auto-start the
// podium).
func (s *Service) Results(ctx context.Context, hackathonID string) (types.ResultsView, error) {
	h, err := s.store.Hackathon(ctx, hackathonID)
	if err != nil {
		return types.ResultsView{}, err
	}

	m := s.machineFor(hackathonID)
	now := s.clock.Now()

	if h.ResultsDate.IsZero() || now.Before(h.ResultsDate) {
		m.Sync(now, h, nil)
		return types.ResultsView{
			Status: reveal.Locked.String(),
			Hackathon: types.HackathonMeta{
				ID:          h.ID,
				Title:       h.Title,
				ResultsDate: h.ResultsDate,
			},
		}, nil
	}

	projects, err := s.store.Projects(ctx, hackathonID)
	if err != nil {
		return types.ResultsView{}, err
	}
	ranked := scoring.Rank(projects)
	metrics.RecordRankingComputed()

	availability := m.Sync(now, h, ranked)

	view := types.ResultsView{
		Status: availability.String(),
		Hackathon: types.HackathonMeta{
			ID:          h.ID,
			Title:       h.Title,
			ResultsDate: h.ResultsDate,
			Prizes:      h.Prizes,
		},
	}
	if availability != reveal.Available {
		view.Hackathon.Prizes = nil
		return view, nil
	}

	limit := len(ranked)
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	view.Results = make([]types.Entry, 0, limit)
	for _, r := range ranked[:limit] {
		view.Results = append(view.Results, types.Entry{
			Rank:        r.Rank,
			ProjectID:   r.Project.ID,
			DisplayName: r.Project.DisplayName,
			Title:       r.Project.Title,
			FinalScore:  r.FinalScore,
			JudgeCount:  len(r.Project.Scores),
		})
	}
	return view, nil
}

// RevealSnapshot returns the current reveal state for a hackathon.
func (s *Service) RevealSnapshot(ctx context.Context, hackathonID string) (reveal.Snapshot, error) {
	if _, err := s.store.Hackathon(ctx, hackathonID); err != nil {
		return reveal.Snapshot{}, err
	}
	return s.machineFor(hackathonID).Snapshot(), nil
}

// ExpandPodium starts (or restarts) the podium reveal.
func (s *Service) ExpandPodium(ctx context.Context, hackathonID string, animated bool) (reveal.Snapshot, error) {
	if _, err := s.refresh(ctx, hackathonID); err != nil {
		return reveal.Snapshot{}, err
	}
	m := s.machineFor(hackathonID)
	if err := m.ExpandPodium(animated); err != nil {
		return reveal.Snapshot{}, err
	}
	if animated {
		metrics.RecordRevealStarted()
	}
	return m.Snapshot(), nil
}

// CollapsePodium hides the podium and aborts any in-flight reveal.
func (s *Service) CollapsePodium(ctx context.Context, hackathonID string) (reveal.Snapshot, error) {
	if _, err := s.refresh(ctx, hackathonID); err != nil {
		return reveal.Snapshot{}, err
	}
	m := s.machineFor(hackathonID)
	if err := m.CollapsePodium(); err != nil {
		return reveal.Snapshot{}, err
	}
	return m.Snapshot(), nil
}

// ToggleLeaderboard flips the leaderboard visibility.
func (s *Service) ToggleLeaderboard(ctx context.Context, hackathonID string) (reveal.Snapshot, error) {
	if _, err := s.refresh(ctx, hackathonID); err != nil {
		return reveal.Snapshot{}, err
	}
	m := s.machineFor(hackathonID)
	if _, err := m.ToggleLeaderboard(); err != nil {
		return reveal.Snapshot{}, err
	}
	return m.Snapshot(), nil
}

// Seed inserts a hackathon and its projects. Used by tests and demo
// fixtures; scores normally arrive through the submission pipeline.
func (s *Service) Seed(ctx context.Context, h model.Hackathon, projects []model.Project) error {
	if err := s.store.PutHackathon(ctx, h); err != nil {
		return err
	}
	for _, p := range projects {
		if err := s.store.PutProject(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		hackathons, projects := s.store.Counts(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["hackathons"] = hackathons
		stats["projects"] = projects
		metrics.UpdateQueueSize(s.queue.Len(ctx))
	}
	return stats
}

// refresh re-syncs a hackathon's machine against current data so
// reveal operations see fresh availability.
func (s *Service) refresh(ctx context.Context, hackathonID string) (reveal.Availability, error) {
	view, err := s.Results(ctx, hackathonID)
	if err != nil {
		return reveal.Locked, err
	}
	switch view.Status {
	case reveal.Available.String():
		return reveal.Available, nil
	case reveal.Empty.String():
		return reveal.Empty, nil
	default:
		return reveal.Locked, nil
	}
}

// machineFor returns the reveal machine for a hackathon, creating it
// on first use.
func (s *Service) machineFor(hackathonID string) *reveal.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[hackathonID]
	if !ok {
		m = reveal.NewMachine(
			reveal.WithClock(s.clock),
			reveal.WithPhaseStep(s.phaseStep),
			reveal.WithAutoRevealWindow(s.autoWindow),
		)
		s.machines[hackathonID] = m
	}
	return m
}
