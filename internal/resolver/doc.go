// Package resolver builds a FamilyNetwork from a freshly extracted main
// family by resolving its as-child, as-parent, and spouse-as-child
// neighbors one hop out. Neighbor resolution favors an already-cached
// network over a fresh segmenter/extractor round trip, and every
// individual failure to resolve a reference is recorded rather than
// treated as fatal.
package resolver
