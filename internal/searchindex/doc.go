// Package searchindex maintains a SQLite-backed index over every family
// and person in the cache, for ad-hoc lookups ("who do I know named
// Kaisa?") that the cache's familyID-keyed map can't answer directly.
// The index is rebuilt wholesale from the cache; it is a derived view,
// never a system of record.
package searchindex
