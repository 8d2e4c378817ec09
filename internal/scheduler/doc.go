// Package scheduler runs a background prefetch task that warms the
// cache for a bounded, ordered window of forthcoming families, without
// blocking any foreground request. At most one prefetch task runs at a
// time; starting a second while one is active is a no-op.
package scheduler
