package citation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/michaelbendio/kalvian-roots/internal/dateutil"
	"github.com/michaelbendio/kalvian-roots/internal/nameequiv"
	"github.com/michaelbendio/kalvian-roots/internal/resolver"
	"github.com/michaelbendio/kalvian-roots/types"
)

// enhancement records one child line whose marriage and/or death date
// was drawn from that child's own as-parent family, for the trailing
// "Additional information:" footer.
type enhancement struct {
	childName        string
	pages            string
	marriageEnhanced bool
	deathEnhanced    bool
}

func (e enhancement) footerLine() string {
	switch {
	case e.marriageEnhanced && e.deathEnhanced:
		return fmt.Sprintf("%s's marriage and death dates are on %s", e.childName, e.pages)
	case e.marriageEnhanced:
		return fmt.Sprintf("%s's marriage date is on %s", e.childName, e.pages)
	default:
		return fmt.Sprintf("%s's death date is on %s", e.childName, e.pages)
	}
}

// Generate renders family as a citation string. target, when non-nil,
// marks the person whose line is prefixed "→ " and, if target is a
// married child of family, triggers enhancement of that child's line
// from network.GetAsParentFamily(target) — this applies equally
// whether family is the household where target is a parent or the
// household where target appears as a child, since the enhancement
// source is always target's own as-parent family. network and names
// may be nil; a nil network disables enhancement and neighbor-aware
// matching, a nil names table falls back to case-insensitive name equality.
func Generate(family types.Family, target *types.Person, network *types.FamilyNetwork, names *nameequiv.Table) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Information on %s includes:\n", strings.Join(family.PageReferences, ", "))

	primary := family.PrimaryCouple()
	b.WriteString(targetPrefix(primary.Husband, target, names) + personLine(primary.Husband) + "\n")
	b.WriteString(targetPrefix(primary.Wife, target, names) + personLine(primary.Wife) + "\n")

	if m := renderCoupleMarriage(primary); m != "" {
		fmt.Fprintf(&b, "m. %s\n", m)
	}

	var children []types.Person
	for _, c := range family.Couples {
		children = append(children, c.Children...)
	}

	var enhancements []enhancement
	if len(children) > 0 {
		b.WriteString("Children:\n")
		for _, child := range children {
			line, enh := buildChildLine(child, target, network, names)
			b.WriteString(line)
			if enh != nil {
				enhancements = append(enhancements, *enh)
			}
		}
	}

	nonPrimary := family.NonPrimaryCouples()
	if len(nonPrimary) > 0 {
		leskiNotes := widowNotes(family.Notes)
		for i, c := range nonPrimary {
			b.WriteString("Additional spouse:\n")

			widowOf := ""
			if i < len(leskiNotes) {
				widowOf = antecedentFromNote(leskiNotes[i])
			}
			name := c.Wife.DisplayName()
			if widowOf != "" {
				name = fmt.Sprintf("%s, widow of %s", name, widowOf)
			}
			b.WriteString(targetPrefix(c.Wife, target, names) + personLineNamed(name, c.Wife) + "\n")

			if m := renderCoupleMarriage(c); m != "" {
				fmt.Fprintf(&b, "m. %s\n", m)
			}
		}
	}

	filteredNotes := filterLeskiNotes(family.Notes)
	infancyTotal := 0
	for _, c := range family.Couples {
		if c.ChildrenDiedInfancy != nil {
			infancyTotal += *c.ChildrenDiedInfancy
		}
	}
	if len(filteredNotes) > 0 || len(family.NoteDefinitions) > 0 || infancyTotal > 0 {
		b.WriteString("Note:\n")
		for _, n := range filteredNotes {
			fmt.Fprintf(&b, "%s\n", n)
		}
		for _, marker := range sortedMarkers(family.NoteDefinitions) {
			fmt.Fprintf(&b, "%s %s\n", marker, family.NoteDefinitions[marker])
		}
		if infancyTotal == 1 {
			b.WriteString("1 child died in infancy\n")
		} else if infancyTotal > 1 {
			fmt.Fprintf(&b, "%d children died in infancy\n", infancyTotal)
		}
	}

	if len(enhancements) > 0 {
		b.WriteString("Additional information:\n")
		for _, e := range enhancements {
			fmt.Fprintf(&b, "%s\n", e.footerLine())
		}
	}

	return b.String()
}

func targetPrefix(p types.Person, target *types.Person, names *nameequiv.Table) string {
	if target == nil {
		return ""
	}
	if resolver.PersonsEqual(p, *target, names) {
		return "→ "
	}
	return ""
}

func renderMarkers(p types.Person) string {
	if len(p.NoteMarkers) == 0 {
		return ""
	}
	return " " + strings.Join(p.NoteMarkers, " ")
}

func birthYearContext(p types.Person) *int {
	y, ok := dateutil.ParseYear(p.BirthDate)
	if !ok {
		return nil
	}
	return &y
}

func personLine(p types.Person) string {
	return personLineNamed(p.DisplayName(), p)
}

func personLineNamed(name string, p types.Person) string {
	birth := strings.TrimSpace(p.BirthDate)
	death := strings.TrimSpace(p.DeathDate)

	var body string
	switch {
	case birth != "" && death != "":
		body = fmt.Sprintf("%s, %s - %s", name, dateutil.FormatDate(birth), dateutil.Format(death, birthYearContext(p)))
	case birth != "":
		body = fmt.Sprintf("%s, b. %s", name, dateutil.FormatDate(birth))
	case death != "":
		body = fmt.Sprintf("%s, d. %s", name, dateutil.Format(death, birthYearContext(p)))
	default:
		body = name
	}
	return body + renderMarkers(p)
}

// coupleMarriageContext picks the birth-year context for century
// inference on a couple's marriage date: the husband's, or the wife's
// if the husband's is unknown.
func coupleMarriageContext(c types.Couple) int {
	if y, ok := dateutil.ParseYear(c.Husband.BirthDate); ok {
		return y
	}
	if y, ok := dateutil.ParseYear(c.Wife.BirthDate); ok {
		return y
	}
	return 0
}

func renderCoupleMarriage(c types.Couple) string {
	full := strings.TrimSpace(c.FullMarriageDate)
	short := strings.TrimSpace(c.MarriageDate)
	if full == "" && short == "" {
		return ""
	}
	if full != "" {
		return dateutil.FormatDate(full)
	}
	return dateutil.ExtractMarriageYear(short, coupleMarriageContext(c))
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

func formatMarriage(raw string, isFull bool, child types.Person) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if isFull {
		return dateutil.FormatDate(raw)
	}
	ctx := 0
	if y, ok := dateutil.ParseYear(child.BirthDate); ok {
		ctx = y
	}
	return dateutil.ExtractMarriageYear(raw, ctx)
}

func findAsParentFamily(child types.Person, network *types.FamilyNetwork) (*types.Family, bool) {
	if network == nil {
		return nil, false
	}
	for _, k := range child.LookupKeys() {
		if fam, ok := network.GetAsParentFamily(k); ok {
			return fam, true
		}
	}
	return nil, false
}

func findSelfInFamily(child types.Person, fam *types.Family, names *nameequiv.Table) (types.Person, bool) {
	for _, p := range fam.AllParents() {
		if resolver.PersonsEqual(p, child, names) {
			return p, true
		}
	}
	return types.Person{}, false
}

func findCoupleOf(fam *types.Family, self types.Person) (types.Couple, bool) {
	for _, c := range fam.Couples {
		if c.Husband.Name == self.Name && c.Husband.BirthDate == self.BirthDate {
			return c, true
		}
		if c.Wife.Name == self.Name && c.Wife.BirthDate == self.BirthDate {
			return c, true
		}
	}
	return types.Couple{}, false
}

// selectMarriage applies the enhancement precedence: self's own
// person-level marriage date, then the as-parent couple's marriage
// date, then the nuclear (main-family) child record's own date.
func selectMarriage(child types.Person, fam *types.Family, self types.Person, foundSelf bool) (raw string, isFull bool, enhanced bool) {
	if foundSelf {
		if v := strings.TrimSpace(self.FullMarriageDate); v != "" {
			return v, true, true
		}
		if v := strings.TrimSpace(self.MarriageDate); v != "" {
			return v, false, true
		}
		if c, ok := findCoupleOf(fam, self); ok {
			if v := strings.TrimSpace(c.FullMarriageDate); v != "" {
				return v, true, true
			}
			if v := strings.TrimSpace(c.MarriageDate); v != "" {
				return v, false, true
			}
		}
	}
	if v := strings.TrimSpace(child.FullMarriageDate); v != "" {
		return v, true, false
	}
	return strings.TrimSpace(child.MarriageDate), false, false
}

func buildChildLine(child types.Person, target *types.Person, network *types.FamilyNetwork, names *nameequiv.Table) (string, *enhancement) {
	prefix := targetPrefix(child, target, names)
	isTarget := target != nil && resolver.PersonsEqual(child, *target, names)
	spouse := strings.TrimSpace(child.Spouse)

	if isTarget && network != nil && spouse != "" {
		if fam, ok := findAsParentFamily(child, network); ok {
			self, foundSelf := findSelfInFamily(child, fam, names)

			deathRaw := strings.TrimSpace(child.DeathDate)
			deathEnhanced := false
			if deathRaw == "" && foundSelf {
				if v := strings.TrimSpace(self.DeathDate); v != "" {
					deathRaw, deathEnhanced = v, true
				}
			}

			marriageRaw, marriageIsFull, marriageEnhanced := selectMarriage(child, fam, self, foundSelf)

			if deathEnhanced || marriageEnhanced {
				var birthFormatted, deathFormatted string
				if birth := strings.TrimSpace(child.BirthDate); birth != "" {
					birthFormatted = dateutil.FormatDate(birth)
				}
				if deathRaw != "" {
					deathFormatted = dateutil.Format(deathRaw, birthYearContext(child))
				}
				marriageFormatted := formatMarriage(marriageRaw, marriageIsFull, child)

				line := fmt.Sprintf("%s%s, %s - %s, m. %s %s", prefix, child.DisplayName(), birthFormatted, deathFormatted, spouse, marriageFormatted)
				line = strings.TrimRight(line, " ") + renderMarkers(child) + "\n"

				return line, &enhancement{
					childName:        child.DisplayName(),
					pages:            strings.Join(fam.PageReferences, ", "),
					marriageEnhanced: marriageEnhanced,
					deathEnhanced:    deathEnhanced,
				}
			}
		}
	}

	var parts []string
	if birth := strings.TrimSpace(child.BirthDate); birth != "" {
		parts = append(parts, "b. "+dateutil.FormatDate(birth))
	}
	if spouse != "" {
		marriage := formatMarriage(firstNonEmpty(child.FullMarriageDate, child.MarriageDate), strings.TrimSpace(child.FullMarriageDate) != "", child)
		if marriage != "" {
			parts = append(parts, fmt.Sprintf("m. %s %s", spouse, marriage))
		} else {
			parts = append(parts, "m. "+spouse)
		}
	}
	if death := strings.TrimSpace(child.DeathDate); death != "" {
		parts = append(parts, "d. "+dateutil.Format(death, birthYearContext(child)))
	}

	line := prefix + child.DisplayName()
	if len(parts) > 0 {
		line += ", " + strings.Join(parts, ", ")
	}
	line += renderMarkers(child) + "\n"
	return line, nil
}

func widowNotes(notes []string) []string {
	var out []string
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n), "leski") {
			out = append(out, n)
		}
	}
	return out
}

func filterLeskiNotes(notes []string) []string {
	var out []string
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n), "leski") {
			continue
		}
		out = append(out, n)
	}
	return out
}

func antecedentFromNote(note string) string {
	lower := strings.ToLower(note)
	idx := strings.Index(lower, " leski")
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(note[:idx])
}

func sortedMarkers(defs map[string]string) []string {
	keys := make([]string, 0, len(defs))
	for k := range defs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
