package types

import "strings"

// Person is a natural person appearing in a family record.
type Person struct {
	Name       string `json:"name"`                 // given name, possibly multi-word
	Patronymic string `json:"patronymic,omitempty"` // optional "-np." / "-nt." suffix token

	BirthDate string `json:"birthDate,omitempty"` // optional partial date, see internal/dateutil
	DeathDate string `json:"deathDate,omitempty"`

	MarriageDate     string `json:"marriageDate,omitempty"`     // two-digit-year shorthand
	FullMarriageDate string `json:"fullMarriageDate,omitempty"` // full form, mutually informative with MarriageDate

	Spouse string `json:"spouse,omitempty"` // spouse's name as literally written in this record

	AsChild  string `json:"asChild,omitempty"`  // family identifier reference where this person is a child
	AsParent string `json:"asParent,omitempty"` // family identifier reference where this person is a parent

	ExternalID string `json:"externalId,omitempty"` // opaque external database identifier

	NoteMarkers []string `json:"noteMarkers,omitempty"` // ordered multiset of marker tokens, e.g. "*", "**"
}

// UnknownName is the placeholder name used for a present-but-unrecorded
// spouse slot in a Couple.
const UnknownName = "Unknown"

// IsUnknown reports whether p is the placeholder "Unknown" person used to
// fill a missing spouse slot.
func (p Person) IsUnknown() bool {
	return strings.TrimSpace(p.Name) == UnknownName
}

// DisplayName joins Name and Patronymic with a single space.
func (p Person) DisplayName() string {
	name := strings.TrimSpace(p.Name)
	patronymic := strings.TrimSpace(p.Patronymic)
	if patronymic == "" {
		return name
	}
	return name + " " + patronymic
}

// PersonKey returns the primary lookup key for a person within a family
// network: "name|birthDate" when a birth date is known, else bare name.
// This key is not globally unique but is stable within one FamilyNetwork.
func (p Person) PersonKey() string {
	if strings.TrimSpace(p.BirthDate) == "" {
		return p.Name
	}
	return p.Name + "|" + p.BirthDate
}

// LookupKeys returns every key form under which p should be installed in
// (or looked up from) a FamilyNetwork map: DisplayName, bare Name, trimmed
// Name, and PersonKey. Duplicates are removed but order is preserved so
// the most specific key (PersonKey) is tried last by convention of the
// caller, matching the resolver's retry order.
func (p Person) LookupKeys() []string {
	candidates := []string{
		p.DisplayName(),
		p.Name,
		strings.TrimSpace(p.Name),
		p.PersonKey(),
	}

	seen := make(map[string]bool, len(candidates))
	keys := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		keys = append(keys, c)
	}
	return keys
}

// FirstName returns the first space-delimited token of Name.
func (p Person) FirstName() string {
	fields := strings.Fields(p.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
