package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/michaelbendio/kalvian-roots/types"
)

type fakeLister struct {
	ids []string
}

func (f *fakeLister) AllFamilyIDs() []string { return append([]string(nil), f.ids...) }

func (f *fakeLister) NextFamilyID(after string) (string, bool) {
	for i, id := range f.ids {
		if id == after && i+1 < len(f.ids) {
			return f.ids[i+1], true
		}
	}
	return "", false
}

type fakeCache struct {
	mu      sync.Mutex
	present map[string]bool
}

func newFakeCache() *fakeCache { return &fakeCache{present: make(map[string]bool)} }

func (f *fakeCache) Lookup(familyID string) (*types.FamilyNetwork, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.present[familyID] {
		return types.NewFamilyNetwork(types.Family{FamilyID: familyID}), true
	}
	return nil, false
}

func (f *fakeCache) mark(familyID string) {
	f.mu.Lock()
	f.present[familyID] = true
	f.mu.Unlock()
}

func waitForIdle(t *testing.T, s *Scheduler, timeout time.Duration) State {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		st := s.State()
		if !st.IsPrefetching {
			return st
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("scheduler did not become idle within %v", timeout)
	return State{}
}

func TestScheduler_StartPrefetchFrom_BoundedWindow(t *testing.T) {
	lister := &fakeLister{ids: []string{"A 1", "A 2", "A 3", "A 4", "A 5"}}
	cache := newFakeCache()

	var resolved []string
	var mu sync.Mutex
	resolve := func(ctx context.Context, familyID string) (*types.FamilyNetwork, error) {
		mu.Lock()
		resolved = append(resolved, familyID)
		mu.Unlock()
		cache.mark(familyID)
		return types.NewFamilyNetwork(types.Family{FamilyID: familyID}), nil
	}

	s := New(lister, cache, resolve)
	s.Pause = time.Millisecond
	s.WindowSize = 2
	s.ShowProgress = false

	s.StartPrefetchFrom("A 1")
	waitForIdle(t, s, time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(resolved) != 2 {
		t.Fatalf("resolved %v, want exactly 2 families (window size)", resolved)
	}
	if resolved[0] != "A 2" || resolved[1] != "A 3" {
		t.Errorf("resolved = %v, want [A 2 A 3]", resolved)
	}
}

func TestScheduler_StartPrefetchFrom_SkipsCached(t *testing.T) {
	lister := &fakeLister{ids: []string{"A 1", "A 2", "A 3", "A 4"}}
	cache := newFakeCache()
	cache.mark("A 2")

	var resolved []string
	resolve := func(ctx context.Context, familyID string) (*types.FamilyNetwork, error) {
		resolved = append(resolved, familyID)
		cache.mark(familyID)
		return types.NewFamilyNetwork(types.Family{FamilyID: familyID}), nil
	}

	s := New(lister, cache, resolve)
	s.Pause = time.Millisecond
	s.WindowSize = 2
	s.ShowProgress = false

	s.StartPrefetchFrom("A 1")
	waitForIdle(t, s, time.Second)

	if len(resolved) != 2 {
		t.Fatalf("resolved %v, want 2 uncached families", resolved)
	}
	for _, id := range resolved {
		if id == "A 2" {
			t.Errorf("resolved already-cached family A 2")
		}
	}
}

func TestScheduler_SecondStartIsNoOp(t *testing.T) {
	lister := &fakeLister{ids: []string{"A 1", "A 2", "A 3"}}
	cache := newFakeCache()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls int
	var mu sync.Mutex

	resolve := func(ctx context.Context, familyID string) (*types.FamilyNetwork, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
		}
		cache.mark(familyID)
		return types.NewFamilyNetwork(types.Family{FamilyID: familyID}), nil
	}

	s := New(lister, cache, resolve)
	s.Pause = time.Millisecond
	s.ShowProgress = false

	s.StartPrefetchAll("")
	<-started

	s.StartPrefetchAll("")
	s.StartPrefetchFrom("A 1")

	close(release)
	waitForIdle(t, s, time.Second)

	mu.Lock()
	defer mu.Unlock()
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (one run over all three families, second Start calls ignored)", calls)
	}
}

func TestScheduler_CancelPrefetch(t *testing.T) {
	lister := &fakeLister{ids: []string{"A 1", "A 2", "A 3", "A 4", "A 5"}}
	cache := newFakeCache()

	var resolved []string
	var mu sync.Mutex
	firstDone := make(chan struct{})

	resolve := func(ctx context.Context, familyID string) (*types.FamilyNetwork, error) {
		mu.Lock()
		resolved = append(resolved, familyID)
		n := len(resolved)
		mu.Unlock()
		cache.mark(familyID)
		if n == 1 {
			close(firstDone)
		}
		return types.NewFamilyNetwork(types.Family{FamilyID: familyID}), nil
	}

	s := New(lister, cache, resolve)
	s.Pause = 200 * time.Millisecond
	s.ShowProgress = false

	s.StartPrefetchAll("")
	<-firstDone
	s.CancelPrefetch()
	waitForIdle(t, s, time.Second)

	mu.Lock()
	defer mu.Unlock()
	if len(resolved) != 1 {
		t.Errorf("resolved %v after cancel, want exactly the in-flight family to have completed", resolved)
	}
}

func TestScheduler_NextFamilyReady(t *testing.T) {
	lister := &fakeLister{ids: []string{"A 1", "A 2", "A 3"}}
	cache := newFakeCache()

	resolve := func(ctx context.Context, familyID string) (*types.FamilyNetwork, error) {
		cache.mark(familyID)
		return types.NewFamilyNetwork(types.Family{FamilyID: familyID}), nil
	}

	s := New(lister, cache, resolve)
	s.Pause = time.Millisecond
	s.ShowProgress = false

	s.StartPrefetchFrom("A 1")
	st := waitForIdle(t, s, time.Second)

	if st.NextFamilyID != "A 2" {
		t.Errorf("NextFamilyID = %q, want %q", st.NextFamilyID, "A 2")
	}
	if !st.NextFamilyReady {
		t.Errorf("NextFamilyReady = false, want true once A 2 finished resolving")
	}
}
