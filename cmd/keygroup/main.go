package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cognicore/keygroup/internal/corpus"
	"github.com/cognicore/keygroup/pkg/keygroup"
	"github.com/cognicore/keygroup/pkg/keygroup/config"
	"github.com/cognicore/keygroup/pkg/keygroup/internalerr"
	"github.com/cognicore/keygroup/pkg/keygroup/metrics"
	"github.com/cognicore/keygroup/pkg/keygroup/summary"
)

type clusterReport struct {
	Cluster int              `json:"cluster"`
	Groups  []summary.Report `json:"groups"`
}

func main() {
	var (
		configPath = flag.String("config", "", "Config YAML (optional)")
		dataPath   = flag.String("data", "", "Input JSONL file (required)")
		dbPath     = flag.String("db", "", "SQLite database path, overrides store config")
		logLevel   = flag.String("log-level", "info", "Log level")
		skipRank   = flag.Bool("skip-rank", false, "Only select topic words from key-phrases")
		promFile   = flag.String("metrics-file", "", "Write Prometheus metrics to this file on exit")
	)
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		log.Fatalf("--log-level: %v", err)
	}
	log.SetLevel(level)

	if *dataPath == "" {
		log.Fatal("--data required")
	}

	ctx := context.Background()

	loader := config.Loader{ConfigPath: *configPath, Logger: log}
	components, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	storeCfg := components.Config.Store
	if *dbPath != "" {
		storeCfg = config.Store{Driver: config.DriverSQLite, Path: *dbPath}
	}
	st, err := config.OpenStore(ctx, storeCfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	m := metrics.New()
	engine := keygroup.New(keygroup.Options{
		Store:     st,
		Selector:  components.Selector,
		Ranker:    components.Ranker,
		Scorer:    components.Scorer,
		Filter:    components.Filter,
		Segmenter: components.Tagger,
		Metrics:   m,
		Logger:    log,
		TopK:      components.Config.Ranker.TopK,
		NGram:     components.Config.Extraction.NGram,
	})
	defer engine.Close()

	items, diag, err := corpus.LoadFromJSONL(*dataPath, log)
	if err != nil {
		log.Fatalf("Failed to load documents: %v", err)
	}
	log.WithFields(logrus.Fields{"docs": len(items), "skipped": diag.Len()}).Info("loaded corpus")
	m.Skipped("corpus", diag.Len())

	docs := make([]keygroup.IngestDoc, len(items))
	for i, item := range items {
		docs[i] = item.IngestDoc()
	}
	ingestDiag, err := engine.Ingest(ctx, docs)
	if err != nil {
		log.Fatalf("Failed to ingest documents: %v", err)
	}
	diag.Merge(ingestDiag)

	clusters, err := engine.Clusters(ctx)
	if err != nil {
		log.Fatalf("Failed to list clusters: %v", err)
	}

	var reports []clusterReport
	for _, cluster := range clusters {
		report := clusterReport{Cluster: cluster}

		g, err := engine.Summarize(ctx, cluster)
		switch {
		case err == nil:
			report.Groups = append(report.Groups, summary.NewReport(g))
		case errors.Is(err, keygroup.ErrNoTopicWords):
			log.WithField("cluster", cluster).Warn("no topic words in key-phrases")
		default:
			fatal(log, err)
		}

		if !*skipRank {
			g, _, err := engine.Rank(ctx, cluster)
			switch {
			case err == nil:
				report.Groups = append(report.Groups, summary.NewReport(g))
			case errors.Is(err, keygroup.ErrNoTopicWords):
				log.WithField("cluster", cluster).Warn("no rankable words in candidate phrases")
			default:
				fatal(log, err)
			}
		}

		reports = append(reports, report)
	}

	for _, msg := range diag.Messages() {
		log.Warn(msg)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if *promFile != "" {
		if err := m.WriteFile(*promFile); err != nil {
			log.Fatalf("Failed to write metrics: %v", err)
		}
	}
}

func fatal(log *logrus.Logger, err error) {
	if errors.Is(err, internalerr.ErrDataIntegrity) {
		log.WithError(err).Fatal("corrupted input, aborting")
	}
	log.Fatalf("Failed to summarize: %v", err)
}
