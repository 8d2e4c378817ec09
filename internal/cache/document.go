package cache

import (
	"time"

	"github.com/michaelbendio/kalvian-roots/types"
)

// currentSchemaVersion is the persisted document's schema version. A
// file recorded under a different version is discarded and recreated; a
// legacy file with no schemaVersion field is migrated in place.
const currentSchemaVersion = 2

// persistedDocument is the on-disk shape: a single JSON object holding
// every cached family keyed by its normalized family ID.
type persistedDocument struct {
	SchemaVersion int                       `json:"schemaVersion"`
	Families      map[string]persistedEntry `json:"families"`
}

type persistedEntry struct {
	Network        networkDoc `json:"network"`
	CachedAt       time.Time  `json:"cachedAt"`
	ExtractionTime float64    `json:"extractionTime"`
}

// networkDoc mirrors types.FamilyNetwork in a form the encoding/json
// package can see: FamilyNetwork's neighbor maps are unexported so that
// callers are forced through its Install/Get accessors, so persistence
// goes through this DTO instead of marshaling the type directly.
type networkDoc struct {
	MainFamily            types.Family             `json:"mainFamily"`
	AsChildFamilies       map[string]*types.Family `json:"asChildFamilies,omitempty"`
	AsParentFamilies      map[string]*types.Family `json:"asParentFamilies,omitempty"`
	SpouseAsChildFamilies map[string]*types.Family `json:"spouseAsChildFamilies,omitempty"`
}

func toNetworkDoc(net *types.FamilyNetwork) networkDoc {
	return networkDoc{
		MainFamily:            net.MainFamily,
		AsChildFamilies:       net.AsChildFamilies(),
		AsParentFamilies:      net.AsParentFamilies(),
		SpouseAsChildFamilies: net.SpouseAsChildFamilies(),
	}
}

func fromNetworkDoc(doc networkDoc) *types.FamilyNetwork {
	net := types.NewFamilyNetwork(doc.MainFamily)
	for k, v := range doc.AsChildFamilies {
		net.InstallAsChildFamily([]string{k}, v)
	}
	for k, v := range doc.AsParentFamilies {
		net.InstallAsParentFamily([]string{k}, v)
	}
	for k, v := range doc.SpouseAsChildFamilies {
		net.InstallSpouseAsChildFamily([]string{k}, v)
	}
	return net
}
