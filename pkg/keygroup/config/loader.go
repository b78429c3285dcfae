package config

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/pkg/keygroup/coherence"
	"github.com/cognicore/keygroup/pkg/keygroup/ngram"
	"github.com/cognicore/keygroup/pkg/keygroup/selector"
	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
	"github.com/cognicore/keygroup/pkg/keygroup/store"
	"github.com/cognicore/keygroup/pkg/keygroup/store/memstore"
	"github.com/cognicore/keygroup/pkg/keygroup/store/sqlite"
	"github.com/cognicore/keygroup/pkg/keygroup/textrank"
)

// Loader loads the configuration file and constructs components
type Loader struct {
	ConfigPath string
	Logger     logrus.FieldLogger
}

// Components holds all loaded configuration components
type Components struct {
	Config   Config
	Stoplist *stoplist.Set
	Selector *selector.Selector
	Ranker   *textrank.Ranker
	Scorer   *coherence.Scorer
	Filter   *ngram.Filter
	Tagger   *ngram.ProseTagger
}

// Load reads the config file (defaults when ConfigPath is empty) and returns
// initialized components sharing one stop-word set.
func (l *Loader) Load() (*Components, error) {
	cfg := Default()
	if l.ConfigPath != "" {
		var err error
		if cfg, err = Load(l.ConfigPath); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}
	return Build(cfg, l.Logger)
}

// Build constructs components from an already loaded config.
func Build(cfg Config, log logrus.FieldLogger) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stops := stoplist.English()
	if cfg.Stoplist != "" {
		var err error
		if stops, err = LoadStoplist(cfg.Stoplist); err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
	}
	stops = stops.With(cfg.ExtraStopwords...)

	fallback, err := selector.ParseFallback(cfg.Selector.Fallback, cfg.Selector.Seed)
	if err != nil {
		return nil, err
	}
	metric, err := coherence.ParseMetric(cfg.Coherence.Metric)
	if err != nil {
		return nil, err
	}

	tagger := ngram.NewProseTagger()
	return &Components{
		Config:   cfg,
		Stoplist: stops,
		Selector: selector.New(selector.Options{
			TopN:          cfg.Selector.TopN,
			MaxIterations: cfg.Selector.MaxIterations,
			Stoplist:      stops,
			Fallback:      fallback,
			Logger:        log,
		}),
		Ranker: textrank.New(textrank.Options{
			Window:   cfg.Ranker.Window,
			Damping:  cfg.Ranker.Damping,
			Steps:    cfg.Ranker.Steps,
			MinDiff:  cfg.Ranker.MinDiff,
			Stoplist: stops,
		}),
		Scorer: coherence.NewScorer(metric),
		Filter: ngram.NewFilter(tagger, stops, log),
		Tagger: tagger,
	}, nil
}

// OpenStore opens the configured backend.
func OpenStore(ctx context.Context, sc Store) (store.Store, error) {
	switch sc.Driver {
	case DriverSQLite:
		st, err := sqlite.OpenSQLite(ctx, sc.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", sc.Path, err)
		}
		return st, nil
	case DriverMemory, "":
		return memstore.New(), nil
	}
	return nil, invalid("unknown store.driver %q", sc.Driver)
}
