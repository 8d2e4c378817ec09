package familyservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cacack/gedcom-go/gedcom"

	"github.com/michaelbendio/kalvian-roots/internal/cache"
	"github.com/michaelbendio/kalvian-roots/internal/citation"
	"github.com/michaelbendio/kalvian-roots/internal/gedcomexport"
	"github.com/michaelbendio/kalvian-roots/internal/resolver"
	"github.com/michaelbendio/kalvian-roots/internal/scheduler"
	"github.com/michaelbendio/kalvian-roots/internal/searchindex"
	"github.com/michaelbendio/kalvian-roots/types"
)

// ErrFamilyNotFound indicates the requested family ID has no matching
// record in the source compendium.
var ErrFamilyNotFound = errors.New("familyservice: family not found")

// Service is the application's single point of contact for everything
// that needs a resolved FamilyNetwork: interactive lookups, citation
// rendering, export, search, and background prefetch.
type Service struct {
	cache       *cache.Cache
	resolver    *resolver.Resolver
	searchIndex *searchindex.Index // nil disables search

	Scheduler *scheduler.Scheduler

	statsMu sync.Mutex
	stats   map[string]resolver.Stats
}

// New wires a Service around an already-open cache, a configured
// resolver, a family-ID source for the prefetch scheduler, and an
// optional search index (nil to disable the search command).
func New(c *cache.Cache, res *resolver.Resolver, ids scheduler.FamilyIDLister, idx *searchindex.Index) *Service {
	s := &Service{
		cache:       c,
		resolver:    res,
		searchIndex: idx,
		stats:       make(map[string]resolver.Stats),
	}
	s.Scheduler = scheduler.New(ids, c, s.LookupFamily)
	return s
}

// Cache exposes the underlying cache for cache-management commands
// (clear, delete, inspect).
func (s *Service) Cache() *cache.Cache {
	return s.cache
}

// LookupFamily returns the resolved network for familyID, building it
// on a cache miss via segment → extract → resolve. Concurrent lookups
// for the same family coalesce onto one build, per the cache's
// at-most-one-build-per-key contract.
func (s *Service) LookupFamily(ctx context.Context, familyID string) (*types.FamilyNetwork, error) {
	normalized := types.NormalizeFamilyID(familyID)
	return s.cache.GetOrBuild(ctx, normalized, s.buildFunc(normalized))
}

func (s *Service) buildFunc(familyID string) cache.BuildFunc {
	return func(ctx context.Context) (*types.FamilyNetwork, time.Duration, error) {
		start := time.Now()

		text, ok := s.resolver.Segmenter.Segment(familyID)
		if !ok {
			return nil, 0, fmt.Errorf("%s: %w", familyID, ErrFamilyNotFound)
		}

		main, err := s.resolver.Extractor.ExtractFamily(ctx, familyID, text)
		if err != nil {
			return nil, 0, fmt.Errorf("extracting %s: %w", familyID, err)
		}

		net, stats, err := s.resolver.Resolve(ctx, main)
		if err != nil {
			return nil, 0, fmt.Errorf("resolving %s: %w", familyID, err)
		}
		s.recordStats(familyID, stats)

		return net, time.Since(start), nil
	}
}

func (s *Service) recordStats(familyID string, stats resolver.Stats) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	s.stats[familyID] = stats
}

// Stats returns the resolution statistics recorded the last time
// familyID's network was built, or false if it was only ever served
// from cache without triggering a build in this process.
func (s *Service) Stats(familyID string) (resolver.Stats, bool) {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	st, ok := s.stats[types.NormalizeFamilyID(familyID)]
	return st, ok
}

// Citation resolves familyID and renders its citation. If targetQuery
// is non-empty, the person whose name or display name contains it
// (case-insensitively) becomes the citation's target, enabling the
// target-indicator and as-parent enhancement.
func (s *Service) Citation(ctx context.Context, familyID, targetQuery string) (string, error) {
	net, err := s.LookupFamily(ctx, familyID)
	if err != nil {
		return "", err
	}

	var target *types.Person
	if strings.TrimSpace(targetQuery) != "" {
		target = findPerson(net.MainFamily, targetQuery)
	}

	return citation.Generate(net.MainFamily, target, net, s.resolver.Names), nil
}

func findPerson(family types.Family, query string) *types.Person {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	for i := range family.Couples {
		c := &family.Couples[i]
		candidates := []*types.Person{&c.Husband, &c.Wife}
		for j := range c.Children {
			candidates = append(candidates, &c.Children[j])
		}
		for _, p := range candidates {
			if strings.Contains(strings.ToLower(p.DisplayName()), q) || strings.Contains(strings.ToLower(p.Name), q) {
				return p
			}
		}
	}
	return nil
}

// ExportGEDCOM resolves familyID and its neighbors and converts the
// resulting network into a GEDCOM document.
func (s *Service) ExportGEDCOM(ctx context.Context, familyID string) (*gedcom.Document, error) {
	net, err := s.LookupFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return gedcomexport.Export(net), nil
}

// ExportYAML resolves familyID and renders its network as YAML.
func (s *Service) ExportYAML(ctx context.Context, familyID string) ([]byte, error) {
	net, err := s.LookupFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}
	return gedcomexport.DumpYAML(net)
}

// Reindex rebuilds the search index from the current cache contents.
// It is a no-op if no search index was configured.
func (s *Service) Reindex() error {
	if s.searchIndex == nil {
		return nil
	}
	return s.searchIndex.Reindex(s.cache)
}

// Search looks up term against the search index. It returns an error
// if no search index was configured.
func (s *Service) Search(term string) ([]searchindex.Match, error) {
	if s.searchIndex == nil {
		return nil, fmt.Errorf("search index not configured")
	}
	return s.searchIndex.Search(term)
}
