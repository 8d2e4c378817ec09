// Package gedcomexport converts a resolved FamilyNetwork into a
// cacack/gedcom-go Document: one Individual per distinct person (keyed
// by name and birth date so the same person appearing in more than one
// family shares a single cross-reference) and one Family record per
// couple, linked by FAMC/FAMS. A household with more than one recorded
// couple (a remarriage) produces one Family record per couple, since a
// GEDCOM FAM models exactly one marriage.
package gedcomexport
