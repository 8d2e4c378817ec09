package commands

import (
	"errors"
	"fmt"

	"github.com/michaelbendio/kalvian-roots/internal/cache"
	"github.com/michaelbendio/kalvian-roots/internal/config"
	"github.com/michaelbendio/kalvian-roots/internal/extractor"
	"github.com/michaelbendio/kalvian-roots/internal/familyservice"
	"github.com/michaelbendio/kalvian-roots/internal/nameequiv"
	"github.com/michaelbendio/kalvian-roots/internal/resolver"
	"github.com/michaelbendio/kalvian-roots/internal/searchindex"
	"github.com/michaelbendio/kalvian-roots/internal/segmenter"
)

// Cfg and Service are populated once by Init, in the root command's
// PersistentPreRunE, and read by every subcommand thereafter.
var (
	Cfg     *config.Config
	Service *familyservice.Service
)

// ErrSourceNotConfigured indicates no compendium path was set via config
// or --source.
var ErrSourceNotConfigured = errors.New("commands: source compendium not configured")

// Init builds the shared Service from cfg, wiring the segmenter,
// extractor, cache, resolver, and search index. It is safe to call once
// per process invocation.
func Init(cfg *config.Config) error {
	Cfg = cfg

	if cfg.Source.Path == "" {
		return ErrSourceNotConfigured
	}

	seg, err := segmenter.New(cfg.Source.Path)
	if err != nil {
		return fmt.Errorf("loading source compendium: %w", err)
	}

	var structured extractor.StructuredExtractor
	if cfg.Extractor.CommandPath != "" {
		structured = extractor.NewCommandExtractor(cfg.Extractor.CommandPath, cfg.Extractor.Args...)
	}
	adapter := extractor.New(structured)

	c, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}

	names, err := loadNames(cfg.NameEquivalence.Path)
	if err != nil {
		return fmt.Errorf("loading name equivalence table: %w", err)
	}

	res := resolver.New(seg, adapter, c, names)

	idx, err := searchindex.Open(cfg.SearchIndex.Path)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}

	svc := familyservice.New(c, res, seg, idx)
	svc.Scheduler.WindowSize = cfg.Prefetch.WindowSize
	svc.Scheduler.Pause = cfg.Prefetch.Pause
	svc.Scheduler.ShowProgress = !cfg.Output.Quiet

	Service = svc
	return nil
}

func loadNames(path string) (*nameequiv.Table, error) {
	if path == "" {
		return nameequiv.LoadDefault()
	}
	return nameequiv.Load(path)
}

// ExitCodeFor maps an error returned by a command's RunE to the process
// exit code: 0 success, 2 input error (unknown family ID), 3
// configuration error (extractor/source not configured), 4 I/O error.
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, familyservice.ErrFamilyNotFound):
		return 2
	case errors.Is(err, extractor.ErrNotConfigured), errors.Is(err, ErrSourceNotConfigured):
		return 3
	case errors.Is(err, segmenter.ErrSourceUnavailable):
		return 4
	default:
		return 1
	}
}
