package extractor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/michaelbendio/kalvian-roots/types"
)

var marriageNumberPrefix = regexp.MustCompile(`^[0-9]+\.\s+`)

// normalizeDocument enforces the structured-extraction schema over doc
// and builds the resulting Family. normalizedID is used verbatim as the
// Family's ID; the document's own "familyId" field, if any, is ignored.
func normalizeDocument(doc map[string]any, normalizedID string) (types.Family, error) {
	rawCouples, ok := doc["couples"].([]any)
	if !ok {
		return types.Family{}, &SchemaInvalidError{Reason: "couples must be an array"}
	}
	if len(rawCouples) == 0 {
		return types.Family{}, &SchemaInvalidError{Reason: "couples must be non-empty"}
	}

	couples := make([]types.Couple, 0, len(rawCouples))
	for i, rc := range rawCouples {
		couple, err := normalizeCouple(rc, i)
		if err != nil {
			return types.Family{}, err
		}
		couples = append(couples, couple)
	}

	family := types.Family{
		FamilyID:        normalizedID,
		Couples:         couples,
		PageReferences:  stringSliceField(doc, "pageReferences"),
		Notes:           stringSliceField(doc, "notes"),
		NoteDefinitions: normalizeNoteDefinitions(doc["noteDefinitions"]),
	}
	return family, nil
}

func normalizeCouple(rc any, index int) (types.Couple, error) {
	cm, ok := rc.(map[string]any)
	if !ok {
		return types.Couple{}, &SchemaInvalidError{Reason: fmt.Sprintf("couples[%d] is not an object", index)}
	}

	husbandRaw, hasHusband := cm["husband"]
	if !hasHusband || husbandRaw == nil {
		return types.Couple{}, &SchemaInvalidError{Reason: fmt.Sprintf("couples[%d].husband missing", index)}
	}
	wifeRaw, hasWife := cm["wife"]
	if !hasWife || wifeRaw == nil {
		return types.Couple{}, &SchemaInvalidError{Reason: fmt.Sprintf("couples[%d].wife missing", index)}
	}

	husband, err := normalizePerson(husbandRaw, fmt.Sprintf("couples[%d].husband", index))
	if err != nil {
		return types.Couple{}, err
	}
	wife, err := normalizePerson(wifeRaw, fmt.Sprintf("couples[%d].wife", index))
	if err != nil {
		return types.Couple{}, err
	}

	couple := types.Couple{
		Husband:          husband,
		Wife:             wife,
		MarriageDate:     stringFieldOr(cm, "marriageDate"),
		FullMarriageDate: stringFieldOr(cm, "fullMarriageDate"),
		CoupleNotes:      stringSliceField(cm, "coupleNotes"),
	}

	if n, ok := intField(cm, "childrenDiedInfancy"); ok {
		couple.ChildrenDiedInfancy = &n
	}

	childrenRaw, _ := cm["children"].([]any)
	for j, cr := range childrenRaw {
		child, err := normalizePerson(cr, fmt.Sprintf("couples[%d].children[%d]", index, j))
		if err != nil {
			return types.Couple{}, err
		}
		couple.Children = append(couple.Children, child)
	}

	return couple, nil
}

func normalizePerson(raw any, role string) (types.Person, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return types.Person{}, &SchemaInvalidError{Reason: role + " is not an object"}
	}

	name, hasName := stringField(m, "name")
	if !hasName || strings.TrimSpace(name) == "" {
		if isPlaceholderPerson(m) {
			name = types.UnknownName
		} else {
			return types.Person{}, &SchemaInvalidError{Reason: role + " missing name"}
		}
	}

	spouse, _ := stringField(m, "spouse")

	return types.Person{
		Name:             name,
		Patronymic:       stringFieldOr(m, "patronymic"),
		BirthDate:        stringFieldOr(m, "birthDate"),
		DeathDate:        stringFieldOr(m, "deathDate"),
		MarriageDate:     stringFieldOr(m, "marriageDate"),
		FullMarriageDate: stringFieldOr(m, "fullMarriageDate"),
		Spouse:           normalizeSpouse(spouse),
		AsChild:          stringFieldOr(m, "asChild"),
		AsParent:         stringFieldOr(m, "asParent"),
		ExternalID:       stringFieldOr(m, "externalId"),
		NoteMarkers:      normalizeMarkers(stringSliceField(m, "noteMarkers")),
	}, nil
}

// isPlaceholderPerson reports whether m, absent a name, represents a
// missing-spouse placeholder: every other recognized field is either
// absent or explicitly null.
func isPlaceholderPerson(m map[string]any) bool {
	for _, key := range []string{
		"patronymic", "birthDate", "deathDate", "marriageDate",
		"fullMarriageDate", "spouse", "asChild", "asParent",
		"externalId", "noteMarkers",
	} {
		if v, present := m[key]; present && v != nil {
			return false
		}
	}
	return true
}

func normalizeSpouse(s string) string {
	return marriageNumberPrefix.ReplaceAllString(s, "")
}

func normalizeMarkers(markers []string) []string {
	if markers == nil {
		return nil
	}
	out := make([]string, len(markers))
	for i, m := range markers {
		out[i] = normalizeMarkerToken(m)
	}
	return out
}

func normalizeMarkerToken(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return strings.TrimSpace(s)
}

func normalizeNoteDefinitions(raw any) map[string]string {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[normalizeMarkerToken(k)] = s
		}
	}
	return out
}

// stringField returns (value, true) only when key is present with a
// non-null string value.
func stringField(m map[string]any, key string) (string, bool) {
	v, present := m[key]
	if !present || v == nil {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// stringFieldOr returns the string value of key, or "" when absent,
// null, or not a string.
func stringFieldOr(m map[string]any, key string) string {
	s, _ := stringField(m, key)
	return s
}

func stringSliceField(m map[string]any, key string) []string {
	raw, ok := m[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func intField(m map[string]any, key string) (int, bool) {
	v, present := m[key]
	if !present || v == nil {
		return 0, false
	}
	f, ok := v.(float64)
	if !ok {
		return 0, false
	}
	return int(f), true
}
