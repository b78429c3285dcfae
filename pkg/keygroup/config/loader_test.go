package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
)

func TestLoaderAllEmpty(t *testing.T) {
	loader := Loader{}

	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}

	if comp.Stoplist == nil || !comp.Stoplist.IsStop("the") {
		t.Error("Should fall back to the built-in English stoplist")
	}
	if comp.Selector == nil || comp.Ranker == nil || comp.Scorer == nil || comp.Filter == nil {
		t.Errorf("components should all be built: %+v", comp)
	}
}

func TestLoaderNonExistentConfig(t *testing.T) {
	loader := Loader{ConfigPath: "/nonexistent/keygroup.yaml"}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent config")
	}
}

func TestLoaderNonExistentStoplist(t *testing.T) {
	path := writeFile(t, "keygroup.yaml", "stoplist: /nonexistent/stoplist.yaml\n")
	loader := Loader{ConfigPath: path}

	if _, err := loader.Load(); err == nil {
		t.Error("Should error on nonexistent stoplist")
	}
}

func TestLoaderCustomStoplist(t *testing.T) {
	slPath := writeFile(t, "stoplist.yaml", "terms:\n  - traffic\n")
	cfgPath := writeFile(t, "keygroup.yaml", "stoplist: "+slPath+"\nextra_stopwords: [road]\n")

	comp, err := (&Loader{ConfigPath: cfgPath}).Load()
	if err != nil {
		t.Fatalf("Valid files should load: %v", err)
	}

	if !comp.Stoplist.IsStop("traffic") || !comp.Stoplist.IsStop("road") {
		t.Error("custom and extra stopwords should be present")
	}
	if comp.Stoplist.IsStop("the") {
		t.Error("a custom stoplist replaces the built-in list")
	}

	words, err := comp.Selector.Select([]string{"traffic congestion", "road congestion"})
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	for _, w := range words {
		if w == "traffic" || w == "road" {
			t.Errorf("stop word %q leaked into selection %v", w, words)
		}
	}
}

func TestLoaderInvalidConfig(t *testing.T) {
	path := writeFile(t, "keygroup.yaml", "ranker:\n  damping: 2\n")

	_, err := (&Loader{ConfigPath: path}).Load()
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	mem, err := OpenStore(ctx, Store{Driver: DriverMemory})
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	mem.Close()

	db, err := OpenStore(ctx, Store{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "kg.db")})
	if err != nil {
		t.Fatalf("sqlite store: %v", err)
	}
	db.Close()

	if _, err := OpenStore(ctx, Store{Driver: "bolt"}); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
