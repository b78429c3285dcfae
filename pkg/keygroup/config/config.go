package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/keygroup/pkg/keygroup/coherence"
	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/selector"
	"github.com/cognicore/keygroup/pkg/keygroup/stoplist"
	"github.com/cognicore/keygroup/pkg/keygroup/textrank"
)

// Config is the keygroup configuration file
type Config struct {
	Stoplist       string     `yaml:"stoplist"`
	ExtraStopwords []string   `yaml:"extra_stopwords"`
	Selector       Selector   `yaml:"selector"`
	Ranker         Ranker     `yaml:"ranker"`
	Coherence      Coherence  `yaml:"coherence"`
	Extraction     Extraction `yaml:"extraction"`
	Store          Store      `yaml:"store"`
}

// Selector configures topic-word selection
type Selector struct {
	TopN          int    `yaml:"top_n"`
	MaxIterations int    `yaml:"max_iterations"`
	Fallback      string `yaml:"fallback"`
	Seed          uint64 `yaml:"seed"`
}

// Ranker configures the co-occurrence graph ranker
type Ranker struct {
	Window  int     `yaml:"window"`
	Damping float64 `yaml:"damping"`
	Steps   int     `yaml:"steps"`
	MinDiff float64 `yaml:"min_diff"`
	TopK    int     `yaml:"top_k"`
}

// Coherence selects the coherence metric
type Coherence struct {
	Metric string `yaml:"metric"`
}

// Extraction configures candidate extraction from raw text
type Extraction struct {
	NGram int `yaml:"ngram"`
}

// Store selects the persistence backend
type Store struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Selector: Selector{
			TopN:          selector.DefaultTopN,
			MaxIterations: selector.DefaultMaxIterations,
			Fallback:      "random",
		},
		Ranker: Ranker{
			Window:  textrank.DefaultWindow,
			Damping: textrank.DefaultDamping,
			Steps:   textrank.DefaultSteps,
			MinDiff: textrank.DefaultMinDiff,
			TopK:    10,
		},
		Coherence:  Coherence{Metric: string(coherence.UMass)},
		Extraction: Extraction{NGram: 2},
		Store:      Store{Driver: DriverMemory},
	}
}

// Load reads a YAML config file over the defaults and validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	switch {
	case c.Selector.TopN < 1:
		return invalid("selector.top_n must be at least 1, got %d", c.Selector.TopN)
	case c.Selector.MaxIterations < 1:
		return invalid("selector.max_iterations must be at least 1, got %d", c.Selector.MaxIterations)
	case c.Ranker.Window < 2:
		return invalid("ranker.window must be at least 2, got %d", c.Ranker.Window)
	case c.Ranker.Damping <= 0 || c.Ranker.Damping >= 1:
		return invalid("ranker.damping must be in (0, 1), got %g", c.Ranker.Damping)
	case c.Ranker.Steps < 1:
		return invalid("ranker.steps must be at least 1, got %d", c.Ranker.Steps)
	case c.Ranker.MinDiff <= 0:
		return invalid("ranker.min_diff must be positive, got %g", c.Ranker.MinDiff)
	case c.Ranker.TopK < 1:
		return invalid("ranker.top_k must be at least 1, got %d", c.Ranker.TopK)
	case c.Extraction.NGram < 1:
		return invalid("extraction.ngram must be at least 1, got %d", c.Extraction.NGram)
	}

	if _, err := selector.ParseFallback(c.Selector.Fallback, c.Selector.Seed); err != nil {
		return fmt.Errorf("selector.fallback: %w", err)
	}
	if _, err := coherence.ParseMetric(c.Coherence.Metric); err != nil {
		return fmt.Errorf("coherence.metric: %w", err)
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.Path == "" {
			return invalid("store.path is required for the sqlite driver")
		}
	default:
		return invalid("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), internalerr.ErrInvalidConfig)
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*stoplist.Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return stoplist.Parse(data)
}
