package gedcomexport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cacack/gedcom-go/encoder"
	"github.com/cacack/gedcom-go/gedcom"

	"github.com/michaelbendio/kalvian-roots/internal/dateutil"
	"github.com/michaelbendio/kalvian-roots/types"
)

var gedcomMonths = [...]string{
	"", "JAN", "FEB", "MAR", "APR", "MAY", "JUN",
	"JUL", "AUG", "SEP", "OCT", "NOV", "DEC",
}

// exporter accumulates gedcom.Record values while walking one or more
// Family values. Individuals are deduplicated by Person.PersonKey so
// that the same person appearing as a child in one family and a parent
// in another shares one @I@ cross-reference, carrying both a FAMC and
// a FAMS link.
type exporter struct {
	doc *gedcom.Document

	byKey        map[string]*gedcom.Individual
	seenFamilies map[string]bool

	individualSeq int
	familySeq     int
	noteSeq       int
}

func newExporter() *exporter {
	return &exporter{
		doc: &gedcom.Document{
			Header: &gedcom.Header{
				Version:      gedcom.Version551,
				Encoding:     gedcom.EncodingUTF8,
				SourceSystem: "kalvianroots",
			},
		},
		byKey:        make(map[string]*gedcom.Individual),
		seenFamilies: make(map[string]bool),
	}
}

// Export converts a resolved FamilyNetwork into a GEDCOM document
// containing the main family and every resolved neighbor, sharing
// individuals across families wherever the same person appears in
// more than one.
func Export(network *types.FamilyNetwork) *gedcom.Document {
	e := newExporter()
	e.addFamily(network.MainFamily)
	for _, fam := range network.AsChildFamilies() {
		if fam != nil {
			e.addFamily(*fam)
		}
	}
	for _, fam := range network.AsParentFamilies() {
		if fam != nil {
			e.addFamily(*fam)
		}
	}
	for _, fam := range network.SpouseAsChildFamilies() {
		if fam != nil {
			e.addFamily(*fam)
		}
	}
	e.finalizeXRefMap()
	return e.doc
}

// ExportFamily converts a single Family, with no neighbor context, into
// a GEDCOM document.
func ExportFamily(family types.Family) *gedcom.Document {
	e := newExporter()
	e.addFamily(family)
	e.finalizeXRefMap()
	return e.doc
}

// Write encodes doc as GEDCOM 5.5.1 text to w.
func Write(w io.Writer, doc *gedcom.Document) error {
	return encoder.Encode(w, doc)
}

func (e *exporter) finalizeXRefMap() {
	e.doc.XRefMap = make(map[string]*gedcom.Record, len(e.doc.Records))
	for _, r := range e.doc.Records {
		e.doc.XRefMap[r.XRef] = r
	}
}

func (e *exporter) addFamily(family types.Family) {
	if e.seenFamilies[family.FamilyID] {
		return
	}
	e.seenFamilies[family.FamilyID] = true

	for i, couple := range family.Couples {
		e.addCouple(family, couple, i == 0)
	}
}

func (e *exporter) addCouple(family types.Family, couple types.Couple, primary bool) {
	famXRef := e.nextFamilyXRef()
	gfam := &gedcom.Family{XRef: famXRef}

	if !couple.Husband.IsUnknown() {
		gi := e.individual(couple.Husband)
		gfam.Husband = gi.XRef
		gi.SpouseInFamilies = append(gi.SpouseInFamilies, famXRef)
	}
	if !couple.Wife.IsUnknown() {
		gi := e.individual(couple.Wife)
		gfam.Wife = gi.XRef
		gi.SpouseInFamilies = append(gi.SpouseInFamilies, famXRef)
	}
	for _, child := range couple.Children {
		gi := e.individual(child)
		gfam.Children = append(gfam.Children, gi.XRef)
		gi.ChildInFamilies = append(gi.ChildInFamilies, gedcom.FamilyLink{FamilyXRef: famXRef})
	}

	if marriageRaw := firstNonEmpty(couple.FullMarriageDate, couple.MarriageDate); marriageRaw != "" {
		gfam.Events = append(gfam.Events, &gedcom.Event{
			Type: gedcom.EventMarriage,
			Date: gedcomDate(marriageRaw, coupleBirthContext(couple)),
		})
	}

	if primary {
		for _, note := range family.Notes {
			gfam.Notes = append(gfam.Notes, e.addNote(note))
		}
	}

	e.doc.Records = append(e.doc.Records, &gedcom.Record{
		XRef:   famXRef,
		Type:   gedcom.RecordTypeFamily,
		Entity: gfam,
	})
}

func (e *exporter) individual(p types.Person) *gedcom.Individual {
	key := p.PersonKey()
	if gi, ok := e.byKey[key]; ok {
		return gi
	}

	gi := &gedcom.Individual{
		XRef:  e.nextIndividualXRef(),
		Names: []*gedcom.PersonalName{personalName(p)},
	}
	if birth := strings.TrimSpace(p.BirthDate); birth != "" {
		gi.Events = append(gi.Events, &gedcom.Event{Type: gedcom.EventBirth, Date: gedcomDate(birth, nil)})
	}
	if death := strings.TrimSpace(p.DeathDate); death != "" {
		gi.Events = append(gi.Events, &gedcom.Event{Type: gedcom.EventDeath, Date: gedcomDate(death, birthYearContext(p))})
	}

	e.byKey[key] = gi
	e.doc.Records = append(e.doc.Records, &gedcom.Record{
		XRef:   gi.XRef,
		Type:   gedcom.RecordTypeIndividual,
		Entity: gi,
	})
	return gi
}

func (e *exporter) addNote(text string) string {
	xref := e.nextNoteXRef()
	e.doc.Records = append(e.doc.Records, &gedcom.Record{
		XRef:   xref,
		Type:   gedcom.RecordTypeNote,
		Entity: &gedcom.Note{XRef: xref, Text: text},
	})
	return xref
}

func (e *exporter) nextIndividualXRef() string {
	e.individualSeq++
	return fmt.Sprintf("@I%d@", e.individualSeq)
}

func (e *exporter) nextFamilyXRef() string {
	e.familySeq++
	return fmt.Sprintf("@F%d@", e.familySeq)
}

func (e *exporter) nextNoteXRef() string {
	e.noteSeq++
	return fmt.Sprintf("@N%d@", e.noteSeq)
}

// personalName splits a Person's name/patronymic into GEDCOM's
// "Given /Surname/" convention, using Patronymic as the closest
// available surname-like component; a person with no patronymic on
// record gets an unslashed given name only.
func personalName(p types.Person) *gedcom.PersonalName {
	given := strings.TrimSpace(p.Name)
	surname := strings.TrimSpace(p.Patronymic)

	full := given
	if surname != "" {
		full = given + " /" + surname + "/"
	}
	return &gedcom.PersonalName{Full: full, Given: given, Surname: surname}
}

func birthYearContext(p types.Person) *int {
	y, ok := dateutil.ParseYear(p.BirthDate)
	if !ok {
		return nil
	}
	return &y
}

func coupleBirthContext(c types.Couple) *int {
	if y, ok := dateutil.ParseYear(c.Husband.BirthDate); ok {
		return &y
	}
	if y, ok := dateutil.ParseYear(c.Wife.BirthDate); ok {
		return &y
	}
	return nil
}

func firstNonEmpty(a, b string) string {
	if strings.TrimSpace(a) != "" {
		return a
	}
	return b
}

// gedcomDate renders raw in GEDCOM's "D MON YYYY" date form, resolving
// a two-digit year through the same century-inference rule the
// citation generator uses.
func gedcomDate(raw string, birthYear *int) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	p := dateutil.Parse(raw)

	var core string
	switch p.Kind {
	case dateutil.KindFull:
		year := p.Year
		if p.TwoDigitYear {
			year = dateutil.InferCentury(p.Year, birthYear)
		}
		core = fmt.Sprintf("%d %s %d", p.Day, gedcomMonths[p.Month], year)
	case dateutil.KindYearOnly:
		year := p.Year
		if p.TwoDigitYear {
			year = dateutil.InferCentury(p.Year, birthYear)
		}
		core = strconv.Itoa(year)
	default:
		core = raw
	}

	if p.Approximate {
		return "ABT " + core
	}
	return core
}
