package gedcomexport

import (
	"gopkg.in/yaml.v3"

	"github.com/michaelbendio/kalvian-roots/types"
)

// NetworkDump is a flattened, YAML-friendly view of a FamilyNetwork: the
// main family plus its resolved neighbors, keyed the same way the network
// itself keys them. It exists only for the export yaml command; GEDCOM export
// goes through Export/ExportFamily instead.
type NetworkDump struct {
	MainFamily            types.Family             `yaml:"mainFamily"`
	AsChildFamilies       map[string]*types.Family `yaml:"asChildFamilies,omitempty"`
	AsParentFamilies      map[string]*types.Family `yaml:"asParentFamilies,omitempty"`
	SpouseAsChildFamilies map[string]*types.Family `yaml:"spouseAsChildFamilies,omitempty"`
}

// DumpYAML renders network as YAML for the export yaml command.
func DumpYAML(network *types.FamilyNetwork) ([]byte, error) {
	dump := NetworkDump{
		MainFamily:            network.MainFamily,
		AsChildFamilies:       network.AsChildFamilies(),
		AsParentFamilies:      network.AsParentFamilies(),
		SpouseAsChildFamilies: network.SpouseAsChildFamilies(),
	}
	return yaml.Marshal(dump)
}
