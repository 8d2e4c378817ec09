package types

import "strings"

// FamilyNetwork is a family plus its resolved one-hop neighbors: as-child
// families for each parent, as-parent families for each married child (and
// discovered spouse), and spouse-as-child families for each spouse. None of
// the neighbor maps are followed recursively.
//
// Each map stores the same *Family value under several key spellings
// ("key replication"); callers should use the Get* accessors rather than
// indexing the maps directly so that the fallback scan behavior is
// applied consistently.
type FamilyNetwork struct {
	MainFamily Family

	asChildFamilies       map[string]*Family
	asParentFamilies      map[string]*Family
	spouseAsChildFamilies map[string]*Family
}

// NewFamilyNetwork creates an empty network anchored at main.
func NewFamilyNetwork(main Family) *FamilyNetwork {
	return &FamilyNetwork{
		MainFamily:            main,
		asChildFamilies:       make(map[string]*Family),
		asParentFamilies:      make(map[string]*Family),
		spouseAsChildFamilies: make(map[string]*Family),
	}
}

// InstallAsChildFamily stores fam under every key in keys in the as-child
// map. Installing under multiple keys is intentional redundancy: the same
// logical person is referenced under several string spellings elsewhere in
// the source.
func (n *FamilyNetwork) InstallAsChildFamily(keys []string, fam *Family) {
	install(n.asChildFamilies, keys, fam)
}

// InstallAsParentFamily stores fam under every key in keys in the
// as-parent map.
func (n *FamilyNetwork) InstallAsParentFamily(keys []string, fam *Family) {
	install(n.asParentFamilies, keys, fam)
}

// InstallSpouseAsChildFamily stores fam under every key in keys in the
// spouse-as-child map.
func (n *FamilyNetwork) InstallSpouseAsChildFamily(keys []string, fam *Family) {
	install(n.spouseAsChildFamilies, keys, fam)
}

func install(m map[string]*Family, keys []string, fam *Family) {
	for _, k := range keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		m[k] = fam
	}
}

// GetAsChildFamily looks up the family in which the person named by key
// appears as a child.
func (n *FamilyNetwork) GetAsChildFamily(key string) (*Family, bool) {
	return lookup(n.asChildFamilies, key)
}

// GetAsParentFamily looks up the family in which the person named by key
// appears as a parent.
func (n *FamilyNetwork) GetAsParentFamily(key string) (*Family, bool) {
	return lookup(n.asParentFamilies, key)
}

// GetSpouseAsChildFamily looks up the as-child family of the spouse named
// by key.
func (n *FamilyNetwork) GetSpouseAsChildFamily(key string) (*Family, bool) {
	return lookup(n.spouseAsChildFamilies, key)
}

// AsChildFamilies returns the raw as-child map for iteration (e.g. by the
// GEDCOM exporter or network statistics). Callers must not mutate it.
func (n *FamilyNetwork) AsChildFamilies() map[string]*Family { return n.asChildFamilies }

// AsParentFamilies returns the raw as-parent map for iteration. Callers
// must not mutate it.
func (n *FamilyNetwork) AsParentFamilies() map[string]*Family { return n.asParentFamilies }

// SpouseAsChildFamilies returns the raw spouse-as-child map for iteration.
// Callers must not mutate it.
func (n *FamilyNetwork) SpouseAsChildFamilies() map[string]*Family {
	return n.spouseAsChildFamilies
}

// lookup retries key as given, then falls back to a case-insensitive scan
// of m's keys, then to a first-token (first-name) prefix scan: redundant,
// best-effort key matching rather than a single canonical-name scheme.
func lookup(m map[string]*Family, key string) (*Family, bool) {
	if fam, ok := m[key]; ok {
		return fam, true
	}

	trimmed := strings.TrimSpace(key)
	if trimmed != key {
		if fam, ok := m[trimmed]; ok {
			return fam, true
		}
	}

	lowerKey := strings.ToLower(trimmed)
	for k, fam := range m {
		if strings.ToLower(k) == lowerKey {
			return fam, true
		}
	}

	firstToken := firstWord(trimmed)
	if firstToken == "" {
		return nil, false
	}
	for k, fam := range m {
		if strings.EqualFold(firstWord(k), firstToken) {
			return fam, true
		}
	}

	return nil, false
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
