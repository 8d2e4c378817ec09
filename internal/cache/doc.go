// Package cache is the two-level store of resolved FamilyNetwork values:
// an in-memory map backed by a single JSON document on disk, written
// atomically. Concurrent requests for the same family ID coalesce onto
// one in-flight build, and out-of-band changes to the persisted file
// (for instance a peer device overwriting it through a synced folder)
// are surfaced as CacheUpdatedExternally events.
package cache
