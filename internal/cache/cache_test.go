package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/michaelbendio/kalvian-roots/types"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.json")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func sampleNetwork(id string) *types.FamilyNetwork {
	main := types.Family{
		FamilyID: id,
		Couples: []types.Couple{{
			Husband: types.Person{Name: "Matti", BirthDate: "1730"},
			Wife:    types.Person{Name: "Maria", BirthDate: "1732"},
		}},
	}
	net := types.NewFamilyNetwork(main)
	net.InstallAsChildFamily([]string{"Matti"}, &types.Family{FamilyID: "KORPI 4"})
	return net
}

func TestCache_StoreAndLookup(t *testing.T) {
	c := newTestCache(t)

	if err := c.Store("korpi 6", sampleNetwork("KORPI 6"), 2*time.Second); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	net, ok := c.Lookup("KORPI 6")
	if !ok {
		t.Fatalf("Lookup() miss after Store")
	}
	if net.MainFamily.FamilyID != "KORPI 6" {
		t.Errorf("MainFamily.FamilyID = %q, want %q", net.MainFamily.FamilyID, "KORPI 6")
	}
	if fam, ok := net.GetAsChildFamily("Matti"); !ok || fam.FamilyID != "KORPI 4" {
		t.Errorf("GetAsChildFamily(%q) = %v, %v", "Matti", fam, ok)
	}
}

func TestCache_PersistAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c1, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := c1.Store("KORPI 6", sampleNetwork("KORPI 6"), time.Second); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	c1.Close()

	c2, err := Open(path)
	if err != nil {
		t.Fatalf("re-Open() error = %v", err)
	}
	defer c2.Close()

	net, ok := c2.Lookup("KORPI 6")
	if !ok {
		t.Fatalf("Lookup() miss after reopening from disk")
	}
	if fam, ok := net.GetAsChildFamily("Matti"); !ok || fam.FamilyID != "KORPI 4" {
		t.Errorf("as-child family not preserved across persist/reload: %v, %v", fam, ok)
	}
}

func TestCache_DeleteAndClear(t *testing.T) {
	c := newTestCache(t)
	c.Store("KORPI 6", sampleNetwork("KORPI 6"), time.Second)
	c.Store("KORPI 4", sampleNetwork("KORPI 4"), time.Second)

	if err := c.Delete("korpi 6"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Lookup("KORPI 6"); ok {
		t.Errorf("expected KORPI 6 to be gone after Delete")
	}
	if _, ok := c.Lookup("KORPI 4"); !ok {
		t.Errorf("expected KORPI 4 to survive Delete of a different key")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, ok := c.Lookup("KORPI 4"); ok {
		t.Errorf("expected cache empty after Clear")
	}
}

func TestCache_GetOrBuild_CoalescesConcurrentCalls(t *testing.T) {
	c := newTestCache(t)

	var calls int32
	build := func(ctx context.Context) (*types.FamilyNetwork, time.Duration, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(20 * time.Millisecond)
		return sampleNetwork("KORPI 6"), time.Millisecond, nil
	}

	const k = 8
	var wg sync.WaitGroup
	wg.Add(k)
	for i := 0; i < k; i++ {
		go func() {
			defer wg.Done()
			if _, err := c.GetOrBuild(context.Background(), "KORPI 6", build); err != nil {
				t.Errorf("GetOrBuild() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("build invoked %d times across %d concurrent callers, want 1", got, k)
	}
}

func TestCache_LegacyDocumentMigrated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	legacy := map[string]any{
		"families": map[string]any{
			"KORPI 6": map[string]any{
				"network": map[string]any{
					"mainFamily": types.Family{
						FamilyID: "KORPI 6",
						Couples: []types.Couple{{
							Husband: types.Person{Name: "Matti"},
							Wife:    types.Person{Name: "Maria"},
						}},
					},
				},
				"cachedAt":       time.Now().Format(time.RFC3339),
				"extractionTime": 1.5,
			},
		},
	}
	data, err := json.Marshal(legacy)
	if err != nil {
		t.Fatalf("marshal legacy fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing legacy fixture: %v", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.Lookup("KORPI 6"); !ok {
		t.Errorf("expected legacy document (missing schemaVersion) to be migrated and loaded")
	}
}

func TestCache_MismatchedSchemaVersionDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	future := persistedDocument{
		SchemaVersion: currentSchemaVersion + 1,
		Families: map[string]persistedEntry{
			"KORPI 6": {Network: toNetworkDoc(sampleNetwork("KORPI 6"))},
		},
	}
	data, err := json.Marshal(future)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	c, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer c.Close()

	if _, ok := c.Lookup("KORPI 6"); ok {
		t.Errorf("expected a mismatched schemaVersion document to be discarded")
	}
}

func TestCache_GetOrBuild_CacheHitSkipsBuild(t *testing.T) {
	c := newTestCache(t)
	c.Store("KORPI 6", sampleNetwork("KORPI 6"), time.Second)

	called := false
	build := func(ctx context.Context) (*types.FamilyNetwork, time.Duration, error) {
		called = true
		return sampleNetwork("KORPI 6"), 0, nil
	}

	if _, err := c.GetOrBuild(context.Background(), "KORPI 6", build); err != nil {
		t.Fatalf("GetOrBuild() error = %v", err)
	}
	if called {
		t.Errorf("expected GetOrBuild to skip build on a cache hit")
	}
}
