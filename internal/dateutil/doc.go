// Package dateutil parses and renders the partial-date grammar used
// throughout the family records: full dates, two-digit-year shorthands,
// year-only forms, approximate-date markers, and opaque domain literals
// such as "isoviha". It also implements the two-digit-year century
// inference rule used both for display and for comparing dates derived
// from different representations of the same event.
package dateutil
