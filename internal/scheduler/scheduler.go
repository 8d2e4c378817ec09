package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/michaelbendio/kalvian-roots/types"
)

// DefaultWindowSize bounds a startPrefetchFrom run to at most this many
// uncached families.
const DefaultWindowSize = 10

// DefaultPause is the yield between families within a running prefetch.
const DefaultPause = 2 * time.Second

// FamilyIDLister exposes file-order traversal over the source
// compendium. *segmenter.Segmenter satisfies this.
type FamilyIDLister interface {
	AllFamilyIDs() []string
	NextFamilyID(after string) (string, bool)
}

// CacheChecker reports whether a family is already resolved, so the
// scheduler can skip it. *cache.Cache satisfies this.
type CacheChecker interface {
	Lookup(familyID string) (*types.FamilyNetwork, bool)
}

// ResolveFunc resolves and caches one family. Errors are recorded in
// State.LastError by the scheduler and do not stop the run; they count as
// completed.
type ResolveFunc func(ctx context.Context, familyID string) (*types.FamilyNetwork, error)

// State is a snapshot of the scheduler's observable progress.
// CorrelationID identifies the running (or most recently finished)
// prefetch task, so log lines from concurrent CLI invocations watching
// the same scheduler can be told apart.
type State struct {
	CorrelationID   string
	IsPrefetching   bool
	CurrentFamilyID string
	CompletedCount  int
	TotalCount      int
	NextFamilyReady bool
	NextFamilyID    string
	LastError       error
}

// Scheduler runs a single bounded or unbounded prefetch task at a time
// over the family IDs exposed by IDs, skipping anything already present
// in Cache, resolving misses through Resolve.
type Scheduler struct {
	IDs     FamilyIDLister
	Cache   CacheChecker
	Resolve ResolveFunc

	WindowSize int
	Pause      time.Duration

	ShowProgress bool

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
}

// New builds a Scheduler with the default window size and inter-family
// pause. Callers may override WindowSize, Pause, and ShowProgress
// before the first Start call.
func New(ids FamilyIDLister, cache CacheChecker, resolve ResolveFunc) *Scheduler {
	return &Scheduler{
		IDs:          ids,
		Cache:        cache,
		Resolve:      resolve,
		WindowSize:   DefaultWindowSize,
		Pause:        DefaultPause,
		ShowProgress: true,
	}
}

// State returns a snapshot of the scheduler's current progress.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StartPrefetchAll walks every family ID in file order, skipping
// already-cached entries. anchor, if non-empty, seeds NextFamilyID in
// the reported state (the family immediately after anchor), purely for
// UI purposes; it does not bound the walk. A no-op if a prefetch is
// already running.
func (s *Scheduler) StartPrefetchAll(anchor string) {
	all := s.IDs.AllFamilyIDs()
	var pending []string
	for _, id := range all {
		if _, cached := s.Cache.Lookup(id); !cached {
			pending = append(pending, id)
		}
	}
	s.start(pending, anchor)
}

// StartPrefetchFrom walks at most WindowSize uncached families strictly
// after currentID in file order. A no-op if a prefetch is already
// running.
func (s *Scheduler) StartPrefetchFrom(currentID string) {
	pending := s.windowAfter(currentID, s.WindowSize)
	s.start(pending, currentID)
}

func (s *Scheduler) windowAfter(currentID string, n int) []string {
	var ids []string
	cur := currentID
	for len(ids) < n {
		next, ok := s.IDs.NextFamilyID(cur)
		if !ok {
			break
		}
		cur = next
		if _, cached := s.Cache.Lookup(next); cached {
			continue
		}
		ids = append(ids, next)
	}
	return ids
}

// CancelPrefetch interrupts the running task at its next suspension
// point (between families, or before starting the next one). A family
// resolution already in flight runs to completion; its result is kept.
// A no-op if nothing is running.
func (s *Scheduler) CancelPrefetch() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (s *Scheduler) start(ids []string, anchor string) {
	s.mu.Lock()
	if s.state.IsPrefetching {
		s.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = State{
		CorrelationID: uuid.NewString(),
		IsPrefetching: true,
		TotalCount:    len(ids),
	}
	if anchor != "" {
		if next, ok := s.IDs.NextFamilyID(anchor); ok {
			s.state.NextFamilyID = next
		}
	}
	s.mu.Unlock()

	go s.run(ctx, ids)
}

func (s *Scheduler) run(ctx context.Context, ids []string) {
	defer func() {
		s.mu.Lock()
		s.state.IsPrefetching = false
		s.state.CurrentFamilyID = ""
		s.cancel = nil
		s.mu.Unlock()
	}()

	var bar *progressbar.ProgressBar
	if s.ShowProgress && len(ids) > 0 {
		bar = progressbar.Default(int64(len(ids)), "prefetching families")
	}

	for i, id := range ids {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.mu.Lock()
		s.state.CurrentFamilyID = id
		s.mu.Unlock()

		if _, err := s.Resolve(ctx, id); err != nil {
			s.mu.Lock()
			s.state.LastError = err
			s.mu.Unlock()
		}

		if bar != nil {
			bar.Add(1)
		}

		s.mu.Lock()
		s.state.CompletedCount = i + 1
		if id == s.state.NextFamilyID {
			if _, ok := s.Cache.Lookup(id); ok {
				s.state.NextFamilyReady = true
			}
		}
		s.mu.Unlock()

		if i == len(ids)-1 {
			break
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.Pause):
		}
	}
}
