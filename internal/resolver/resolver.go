package resolver

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/michaelbendio/kalvian-roots/internal/extractor"
	"github.com/michaelbendio/kalvian-roots/internal/nameequiv"
	"github.com/michaelbendio/kalvian-roots/internal/segmenter"
	"github.com/michaelbendio/kalvian-roots/types"
)

var titleCaser = cases.Title(language.Und)

// NetworkCache is the narrow read-only view the resolver needs of the
// cache: a hit lets neighbor resolution short-circuit onto the already
// resolved network's main family instead of re-extracting it.
type NetworkCache interface {
	Lookup(familyID string) (*types.FamilyNetwork, bool)
}

// Stats summarizes one Resolve call for observability. CorrelationID
// identifies the Resolve call the summary belongs to, since
// neighbor lookups for one family can interleave with a concurrent
// prefetch run resolving a different one.
type Stats struct {
	CorrelationID       string
	ResolvedByFamilyID  int
	ResolvedByBirthDate int
	Unresolved          int
	Total               int
}

// Resolver builds a FamilyNetwork from a main family using a text
// segmenter and extractor adapter to fetch neighbor families, an
// optional cache to short-circuit already-resolved neighbors, and a
// name-equivalence table for the matcher.
type Resolver struct {
	Segmenter *segmenter.Segmenter
	Extractor *extractor.Adapter
	Cache     NetworkCache
	Names     *nameequiv.Table
}

// New returns a Resolver wired to the given collaborators. cache and
// names may be nil.
func New(seg *segmenter.Segmenter, ext *extractor.Adapter, cache NetworkCache, names *nameequiv.Table) *Resolver {
	return &Resolver{Segmenter: seg, Extractor: ext, Cache: cache, Names: names}
}

// Resolve builds main's FamilyNetwork: as-child families for each
// parent, as-parent families for each married child, and spouse-as-child
// families for each spouse discovered along the way. Individual
// unresolved references do not fail the call.
func (r *Resolver) Resolve(ctx context.Context, main types.Family) (*types.FamilyNetwork, Stats, error) {
	net := types.NewFamilyNetwork(main)
	stats := Stats{CorrelationID: uuid.NewString()}

	for _, parent := range net.MainFamily.AllParents() {
		net.InstallAsParentFamily(parent.LookupKeys(), &net.MainFamily)
	}

	for _, parent := range net.MainFamily.AllParents() {
		ref := normalizeReference(parent.AsChild)
		if ref == "" {
			continue
		}
		stats.Total++

		fam, byID, err := r.resolveNeighbor(ctx, ref)
		if err != nil || fam == nil || !familyContainsChildMatching(*fam, parent, r.Names) {
			stats.Unresolved++
			continue
		}
		recordResolution(&stats, byID)
		net.InstallAsChildFamily(parent.LookupKeys(), fam)
	}

	type resolvedChild struct {
		child types.Person
		fam   *types.Family
	}
	var resolvedAsParent []resolvedChild

	for _, child := range net.MainFamily.MarriedChildren() {
		ref := normalizeReference(child.AsParent)
		if ref == "" {
			continue
		}
		stats.Total++

		fam, byID, err := r.resolveNeighbor(ctx, ref)
		if err != nil || fam == nil || !familyContainsParentMatching(*fam, child, r.Names) {
			stats.Unresolved++
			continue
		}
		recordResolution(&stats, byID)
		net.InstallAsParentFamily(child.LookupKeys(), fam)
		resolvedAsParent = append(resolvedAsParent, resolvedChild{child: child, fam: fam})
	}

	mainSurname := surnameOf(net.MainFamily.FamilyID)
	for _, rc := range resolvedAsParent {
		spouse, ok := findSpouseInFamily(*rc.fam, rc.child.Spouse)
		if !ok {
			continue
		}
		net.InstallAsParentFamily(spouse.LookupKeys(), rc.fam)

		spouseRef := normalizeReference(spouse.AsChild)
		if spouseRef == "" {
			continue
		}
		stats.Total++

		spouseFam, byID, err := r.resolveNeighbor(ctx, spouseRef)
		if err != nil || spouseFam == nil {
			stats.Unresolved++
			continue
		}
		recordResolution(&stats, byID)

		keys := []string{spouse.DisplayName()}
		if spouse.Name != spouse.DisplayName() {
			keys = append(keys, spouse.Name)
		}
		if mainSurname != "" {
			keys = append(keys, spouse.FirstName()+" "+titleCaser.String(strings.ToLower(mainSurname)))
		}
		net.InstallSpouseAsChildFamily(keys, spouseFam)
	}

	return net, stats, nil
}

func recordResolution(stats *Stats, byFamilyID bool) {
	if byFamilyID {
		stats.ResolvedByFamilyID++
	} else {
		stats.ResolvedByBirthDate++
	}
}

// resolveNeighbor fetches the family identified by ref, preferring a
// cache hit (byFamilyID=true, non-recursive) over a fresh
// segmenter+extractor round trip. A missing segment or extractor error
// is reported to the caller as a non-fatal miss.
func (r *Resolver) resolveNeighbor(ctx context.Context, ref string) (fam *types.Family, byFamilyID bool, err error) {
	normalized := types.NormalizeFamilyID(ref)

	if r.Cache != nil {
		if cached, ok := r.Cache.Lookup(normalized); ok {
			return &cached.MainFamily, true, nil
		}
	}

	text, ok := r.Segmenter.Segment(normalized)
	if !ok {
		return nil, false, nil
	}

	family, err := r.Extractor.ExtractFamily(ctx, normalized, text)
	if err != nil {
		return nil, false, err
	}
	return &family, true, nil
}

func familyContainsChildMatching(fam types.Family, person types.Person, names *nameequiv.Table) bool {
	for _, c := range fam.Couples {
		for _, child := range c.Children {
			if PersonsEqual(child, person, names) {
				return true
			}
		}
	}
	return false
}

func familyContainsParentMatching(fam types.Family, person types.Person, names *nameequiv.Table) bool {
	for _, p := range fam.AllParents() {
		if PersonsEqual(p, person, names) {
			return true
		}
	}
	return false
}

func findSpouseInFamily(fam types.Family, spouseString string) (types.Person, bool) {
	if strings.TrimSpace(spouseString) == "" {
		return types.Person{}, false
	}
	for _, p := range fam.AllParents() {
		if SpouseMatches(p, spouseString) {
			return p, true
		}
	}
	return types.Person{}, false
}

func normalizeReference(ref string) string {
	ref = strings.TrimSpace(ref)
	ref = strings.TrimPrefix(ref, "{")
	ref = strings.TrimSuffix(ref, "}")
	return strings.TrimSpace(ref)
}

func surnameOf(familyID string) string {
	fields := strings.Fields(familyID)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
