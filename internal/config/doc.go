// Package config loads and saves the CLI's JSON configuration file,
// covering cache/search-index locations, prefetch tuning, and output
// formatting. A missing or partial file falls back to DefaultConfig.
package config
