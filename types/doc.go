// Package types defines the immutable value types shared across the
// family-network resolution and citation engine: Person, Couple, Family,
// and FamilyNetwork. Values are constructed once by the extractor adapter
// or resolver and never mutated in place afterward.
package types
