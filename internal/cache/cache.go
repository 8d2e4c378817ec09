package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/michaelbendio/kalvian-roots/types"
)

// CachedFamily is one in-memory cache entry.
type CachedFamily struct {
	Network               *types.FamilyNetwork
	CachedAt              time.Time
	ExtractionTimeSeconds float64
}

// BuildFunc resolves a FamilyNetwork for a cache miss. It returns the
// wall-clock time the resolution took, for recording alongside the
// result.
type BuildFunc func(ctx context.Context) (*types.FamilyNetwork, time.Duration, error)

// Cache is the two-level FamilyNetwork store: an in-memory map backed by
// a single JSON document on disk. All public methods normalize their
// family ID argument, so callers never need to pre-normalize.
type Cache struct {
	path string

	mu      sync.RWMutex
	entries map[string]CachedFamily

	building singleflight.Group

	warningMu sync.Mutex
	warning   error

	watcher *watcher
}

// Open loads path (if it exists) into memory and begins watching it for
// out-of-band changes. A missing file is an empty cache, not an error. A
// disk problem while loading is recorded as a PersistenceWarning but does
// not fail Open — the cache simply starts empty.
func Open(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]CachedFamily),
	}

	if err := c.loadFromDisk(); err != nil {
		c.recordWarning(&PersistenceWarning{Reason: err.Error()})
	}

	w, err := newWatcher(path)
	if err != nil {
		c.recordWarning(&PersistenceWarning{Reason: fmt.Sprintf("watch unavailable: %v", err)})
	} else {
		c.watcher = w
	}

	return c, nil
}

// Close stops the background file watcher, if any.
func (c *Cache) Close() error {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.Close()
}

// Events returns the channel on which CacheUpdatedExternally signals
// arrive. Receivers should call Reload to pick up the on-disk change.
func (c *Cache) Events() <-chan struct{} {
	if c.watcher == nil {
		return nil
	}
	return c.watcher.events
}

// LastPersistenceWarning returns the most recent non-fatal disk problem,
// or nil if none has occurred.
func (c *Cache) LastPersistenceWarning() error {
	c.warningMu.Lock()
	defer c.warningMu.Unlock()
	return c.warning
}

func (c *Cache) recordWarning(err error) {
	c.warningMu.Lock()
	c.warning = err
	c.warningMu.Unlock()
}

// Lookup returns the cached network for familyID, if present. It
// satisfies resolver.NetworkCache.
func (c *Cache) Lookup(familyID string) (*types.FamilyNetwork, bool) {
	normalized := types.NormalizeFamilyID(familyID)
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[normalized]
	if !ok {
		return nil, false
	}
	return entry.Network, true
}

// Get returns the full cache entry for familyID.
func (c *Cache) Get(familyID string) (CachedFamily, bool) {
	normalized := types.NormalizeFamilyID(familyID)
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[normalized]
	return entry, ok
}

// Store records network as the cached result for familyID and persists
// the updated document to disk. A disk write failure is recorded as a
// PersistenceWarning and does not undo the in-memory write.
func (c *Cache) Store(familyID string, network *types.FamilyNetwork, extractionTime time.Duration) error {
	normalized := types.NormalizeFamilyID(familyID)

	c.mu.Lock()
	c.entries[normalized] = CachedFamily{
		Network:               network,
		CachedAt:              time.Now(),
		ExtractionTimeSeconds: extractionTime.Seconds(),
	}
	c.mu.Unlock()

	if err := c.persist(); err != nil {
		warning := &PersistenceWarning{Reason: err.Error()}
		c.recordWarning(warning)
		return warning
	}
	return nil
}

// GetOrBuild returns the cached network for familyID, or builds one via
// build on a miss. Concurrent calls for the same familyID coalesce onto
// a single build invocation.
func (c *Cache) GetOrBuild(ctx context.Context, familyID string, build BuildFunc) (*types.FamilyNetwork, error) {
	normalized := types.NormalizeFamilyID(familyID)

	if net, ok := c.Lookup(normalized); ok {
		return net, nil
	}

	v, err, _ := c.building.Do(normalized, func() (any, error) {
		if net, ok := c.Lookup(normalized); ok {
			return net, nil
		}
		net, elapsed, err := build(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Store(normalized, net, elapsed)
		return net, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*types.FamilyNetwork), nil
}

// All returns a snapshot of every cached entry, keyed by normalized
// family ID. The returned map is a copy; mutating it does not affect
// the cache.
func (c *Cache) All() map[string]CachedFamily {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]CachedFamily, len(c.entries))
	for id, entry := range c.entries {
		out[id] = entry
	}
	return out
}

// Delete removes familyID from the cache and persists the change.
func (c *Cache) Delete(familyID string) error {
	normalized := types.NormalizeFamilyID(familyID)
	c.mu.Lock()
	delete(c.entries, normalized)
	c.mu.Unlock()
	return c.persist()
}

// Clear removes every entry from the cache and persists the change.
func (c *Cache) Clear() error {
	c.mu.Lock()
	c.entries = make(map[string]CachedFamily)
	c.mu.Unlock()
	return c.persist()
}

// Reload discards the in-memory state and re-reads the persisted
// document, typically in response to a CacheUpdatedExternally event.
func (c *Cache) Reload() error {
	return c.loadFromDisk()
}

func (c *Cache) loadFromDisk() error {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", c.path, err)
	}

	var doc persistedDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", c.path, err)
	}

	if doc.SchemaVersion != currentSchemaVersion {
		if doc.SchemaVersion == 0 && doc.Families != nil {
			// Legacy document missing schemaVersion: migrate in place.
			doc.SchemaVersion = currentSchemaVersion
		} else {
			// Mismatched version: discard and start fresh.
			c.mu.Lock()
			c.entries = make(map[string]CachedFamily)
			c.mu.Unlock()
			return nil
		}
	}

	entries := make(map[string]CachedFamily, len(doc.Families))
	for id, pe := range doc.Families {
		entries[id] = CachedFamily{
			Network:               fromNetworkDoc(pe.Network),
			CachedAt:              pe.CachedAt,
			ExtractionTimeSeconds: pe.ExtractionTime,
		}
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

func (c *Cache) persist() error {
	c.mu.RLock()
	doc := persistedDocument{
		SchemaVersion: currentSchemaVersion,
		Families:      make(map[string]persistedEntry, len(c.entries)),
	}
	for id, entry := range c.entries {
		doc.Families[id] = persistedEntry{
			Network:        toNetworkDoc(entry.Network),
			CachedAt:       entry.CachedAt,
			ExtractionTime: entry.ExtractionTimeSeconds,
		}
	}
	c.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache document: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if c.watcher != nil {
		c.watcher.ignoreNextWrite()
	}

	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
