package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the CLI's full set of user-tunable settings.
type Config struct {
	Source          SourceConfig          `json:"source"`
	Cache           CacheConfig           `json:"cache"`
	Extractor       ExtractorConfig       `json:"extractor"`
	Prefetch        PrefetchConfig        `json:"prefetch"`
	SearchIndex     SearchIndexConfig     `json:"searchIndex"`
	NameEquivalence NameEquivalenceConfig `json:"nameEquivalence"`
	Output          OutputConfig          `json:"output"`
}

// SourceConfig points at the plain-text parish-record compendium the
// segmenter reads from. There is no usable default: callers must set
// this via config file or the --source flag before any lookup.
type SourceConfig struct {
	Path string `json:"path"`
}

// CacheConfig controls where the family-network cache is persisted.
type CacheConfig struct {
	Path string `json:"path"` // Default: ~/.kalvianroots/cache.json
}

// ExtractorConfig points at the external structured-extraction collaborator
// and bounds how long the core waits on it.
type ExtractorConfig struct {
	CommandPath string        `json:"commandPath"` // Path to the external extractor executable.
	Args        []string      `json:"args"`        // Extra arguments, before the family ID, on every invocation.
	Timeout     time.Duration `json:"timeout"`      // Default: 120s
}

// NameEquivalenceConfig locates the given-name equivalence-class table used
// by the resolver's matcher. An empty Path uses the built-in default table.
type NameEquivalenceConfig struct {
	Path string `json:"path"`
}

// PrefetchConfig tunes the background prefetch scheduler.
type PrefetchConfig struct {
	WindowSize int           `json:"windowSize"` // Default: 10
	Pause      time.Duration `json:"pause"`       // Default: 2s
}

// SearchIndexConfig controls where the SQLite search index lives.
type SearchIndexConfig struct {
	Path string `json:"path"` // Default: ~/.kalvianroots/search.db
}

// OutputConfig controls terminal presentation.
type OutputConfig struct {
	Color bool `json:"color"`
	Quiet bool `json:"quiet"`
}

// UnmarshalJSON lets PrefetchConfig.Pause be written as a duration
// string ("2s", "1500ms") or a bare number of nanoseconds.
func (p *PrefetchConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		WindowSize int             `json:"windowSize"`
		Pause      json.RawMessage `json:"pause"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.WindowSize = raw.WindowSize

	if len(raw.Pause) == 0 {
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw.Pause, &asString); err == nil {
		d, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("parse prefetch.pause %q: %w", asString, err)
		}
		p.Pause = d
		return nil
	}
	var asNanos int64
	if err := json.Unmarshal(raw.Pause, &asNanos); err != nil {
		return fmt.Errorf("parse prefetch.pause: %w", err)
	}
	p.Pause = time.Duration(asNanos)
	return nil
}

// MarshalJSON renders PrefetchConfig.Pause as a human-readable duration
// string rather than a raw nanosecond count.
func (p PrefetchConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		WindowSize int    `json:"windowSize"`
		Pause      string `json:"pause"`
	}{
		WindowSize: p.WindowSize,
		Pause:      p.Pause.String(),
	})
}

// UnmarshalJSON lets ExtractorConfig.Timeout be written as a duration
// string ("120s") or a bare number of nanoseconds.
func (e *ExtractorConfig) UnmarshalJSON(data []byte) error {
	var raw struct {
		CommandPath string          `json:"commandPath"`
		Args        []string        `json:"args"`
		Timeout     json.RawMessage `json:"timeout"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.CommandPath = raw.CommandPath
	e.Args = raw.Args

	if len(raw.Timeout) == 0 {
		return nil
	}
	var asString string
	if err := json.Unmarshal(raw.Timeout, &asString); err == nil {
		d, err := time.ParseDuration(asString)
		if err != nil {
			return fmt.Errorf("parse extractor.timeout %q: %w", asString, err)
		}
		e.Timeout = d
		return nil
	}
	var asNanos int64
	if err := json.Unmarshal(raw.Timeout, &asNanos); err != nil {
		return fmt.Errorf("parse extractor.timeout: %w", err)
	}
	e.Timeout = time.Duration(asNanos)
	return nil
}

// MarshalJSON renders ExtractorConfig.Timeout as a human-readable duration
// string rather than a raw nanosecond count.
func (e ExtractorConfig) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		CommandPath string   `json:"commandPath"`
		Args        []string `json:"args"`
		Timeout     string   `json:"timeout"`
	}{
		CommandPath: e.CommandPath,
		Args:        e.Args,
		Timeout:     e.Timeout.String(),
	})
}

// DefaultConfig returns the configuration used when no file is found and
// as the base that setDefaults fills zero fields in from.
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Cache: CacheConfig{
			Path: filepath.Join(home, ".kalvianroots", "cache.json"),
		},
		Extractor: ExtractorConfig{
			Timeout: 120 * time.Second,
		},
		Prefetch: PrefetchConfig{
			WindowSize: 10,
			Pause:      2 * time.Second,
		},
		SearchIndex: SearchIndexConfig{
			Path: filepath.Join(home, ".kalvianroots", "search.db"),
		},
		NameEquivalence: NameEquivalenceConfig{
			Path: "",
		},
		Output: OutputConfig{
			Color: true,
			Quiet: false,
		},
	}
}

// Load loads configuration from configPath, or, if empty, searches
// ./kalvianroots.json, ~/.kalvianroots/config.json, and
// ~/.config/kalvianroots/config.json in that order. It falls back to
// DefaultConfig when none exist.
func Load(configPath string) (*Config, error) {
	if configPath != "" {
		cfg, err := loadFromFile(configPath)
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return cfg, err
	}

	if cfg, err := loadFromFile("./kalvianroots.json"); err == nil {
		return cfg, nil
	}

	if home, err := os.UserHomeDir(); err == nil {
		if cfg, err := loadFromFile(filepath.Join(home, ".kalvianroots", "config.json")); err == nil {
			return cfg, nil
		}
		if cfg, err := loadFromFile(filepath.Join(home, ".config", "kalvianroots", "config.json")); err == nil {
			return cfg, nil
		}
	}

	return DefaultConfig(), nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.setDefaults()
	return cfg, nil
}

// setDefaults replaces any zero-valued field with DefaultConfig's value,
// so a partial user file never produces an unusable path or duration.
func (c *Config) setDefaults() {
	d := DefaultConfig()

	if c.Cache.Path == "" {
		c.Cache.Path = d.Cache.Path
	}
	if c.Prefetch.WindowSize <= 0 {
		c.Prefetch.WindowSize = d.Prefetch.WindowSize
	}
	if c.Prefetch.Pause <= 0 {
		c.Prefetch.Pause = d.Prefetch.Pause
	}
	if c.SearchIndex.Path == "" {
		c.SearchIndex.Path = d.SearchIndex.Path
	}
	if c.Extractor.Timeout <= 0 {
		c.Extractor.Timeout = d.Extractor.Timeout
	}
}

// Save writes cfg as indented JSON to configPath, creating its parent
// directory if needed. An empty configPath saves to
// ~/.kalvianroots/config.json.
func Save(cfg *Config, configPath string) error {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		configPath = filepath.Join(home, ".kalvianroots", "config.json")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", configPath, err)
	}
	return nil
}
