package resolver

import (
	"strings"

	"github.com/michaelbendio/kalvian-roots/internal/dateutil"
	"github.com/michaelbendio/kalvian-roots/internal/nameequiv"
	"github.com/michaelbendio/kalvian-roots/types"
)

// PersonsEqual decides person identity per the strict rule ladder: when
// both a and b carry a birth date, only the dates (exact string, or
// parsed-year) decide the match — name similarity is never consulted.
// When at least one lacks a birth date, name equality or name-table
// equivalence decides it.
func PersonsEqual(a, b types.Person, names *nameequiv.Table) bool {
	aBirth := strings.TrimSpace(a.BirthDate)
	bBirth := strings.TrimSpace(b.BirthDate)

	if aBirth != "" && bBirth != "" {
		if aBirth == bBirth {
			return true
		}
		ay, aok := dateutil.ParseYear(aBirth)
		by, bok := dateutil.ParseYear(bBirth)
		return aok && bok && ay == by
	}

	an := strings.ToLower(strings.TrimSpace(a.Name))
	bn := strings.ToLower(strings.TrimSpace(b.Name))
	if an == bn {
		return true
	}
	if names != nil && names.AreEquivalent(a.Name, b.Name) {
		return true
	}
	return false
}

// SpouseMatches applies the relaxed ladder used to locate a known spouse
// string (as literally written on a child's record) among the parents of
// a resolved as-parent family: exact lowercase-name equality, display-name
// containment either direction, or first-token containment/equality.
func SpouseMatches(person types.Person, spouseString string) bool {
	spouse := strings.ToLower(strings.TrimSpace(spouseString))
	if spouse == "" {
		return false
	}

	name := strings.ToLower(strings.TrimSpace(person.Name))
	if name == spouse {
		return true
	}

	display := strings.ToLower(strings.TrimSpace(person.DisplayName()))
	if display != "" && (strings.Contains(display, spouse) || strings.Contains(spouse, display)) {
		return true
	}

	personFirst := strings.ToLower(person.FirstName())
	spouseFirst := strings.ToLower(firstWord(spouseString))
	if personFirst == "" || spouseFirst == "" {
		return false
	}
	if personFirst == spouseFirst {
		return true
	}
	return strings.Contains(spouseFirst, personFirst) || strings.Contains(personFirst, spouseFirst)
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
