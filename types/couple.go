package types

// Couple is a marriage within a family record. Husband and wife are never
// absent: a couple missing one spouse (e.g. a widow's remarriage record
// that never names the deceased husband) carries a placeholder Person
// with Name == UnknownName in that slot instead.
type Couple struct {
	Husband Person `json:"husband"`
	Wife    Person `json:"wife"`

	MarriageDate     string `json:"marriageDate,omitempty"`
	FullMarriageDate string `json:"fullMarriageDate,omitempty"`

	Children            []Person `json:"children,omitempty"`
	ChildrenDiedInfancy *int     `json:"childrenDiedInfancy,omitempty"` // optional non-negative integer

	CoupleNotes []string `json:"coupleNotes,omitempty"`
}

// UnknownPerson returns a placeholder Person representing a present-but-
// unknown spouse slot.
func UnknownPerson() Person {
	return Person{Name: UnknownName}
}

// Parents returns Husband and Wife, in that order.
func (c Couple) Parents() [2]Person {
	return [2]Person{c.Husband, c.Wife}
}
