package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"linkaudit/pkg/audit"
	"linkaudit/pkg/config"
	"linkaudit/pkg/export"
	"linkaudit/pkg/fetch"
	"linkaudit/pkg/inspect"
	"linkaudit/pkg/models"
	"linkaudit/pkg/source"
	"linkaudit/pkg/storage"
)

func main() {
	// --- Early Initialization & Flags ---
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel) // Default level

	configFileFlag := flag.String("config", "config.yaml", "Path to YAML config file")
	logLevelFlag := flag.String("loglevel", "info", "Log level (debug, info, warn, error, fatal)")
	rowLimitFlag := flag.Int("limit", -1, "Audit only the first N rows (-1 = use config)")
	workersFlag := flag.Int("workers", 0, "Parallel page audits (0 = use config, 1 = sequential)")
	outputFlag := flag.String("output", "", "Output CSV path (overrides config)")
	historyFlag := flag.Bool("history", false, "List stored runs and exit")
	flag.Parse()

	// --- Logger Configuration ---
	level, err := logrus.ParseLevel(*logLevelFlag)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", *logLevelFlag, err)
	} else {
		log.SetLevel(level)
	}

	// --- Load & Validate Configuration ---
	log.Infof("Loading configuration from %s", *configFileFlag)
	appCfg, err := config.Load(*configFileFlag)
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	warnings, err := appCfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Fatalf("Config validation error: %v", err)
	}

	// Flag overrides
	if *rowLimitFlag >= 0 {
		appCfg.RowLimit = *rowLimitFlag
	}
	if *workersFlag > 0 {
		appCfg.NumWorkers = *workersFlag
	}
	if *outputFlag != "" {
		appCfg.OutputCSV = *outputFlag
	}

	// --- Global Context & Signal Handling ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		sig := <-sigChan
		log.Warnf("Received signal: %v. Finishing current row and stopping...", sig)
		cancel()
		sig = <-sigChan
		log.Warnf("Received second signal: %v. Forcing exit.", sig)
		os.Exit(1)
	}()

	// --- History Store (optional) ---
	var history storage.HistoryStore
	if appCfg.EnableHistory {
		store, err := storage.NewBadgerStore(appCfg.StateDir, logrus.NewEntry(log))
		if err != nil {
			log.Fatalf("Failed to open history store: %v", err)
		}
		defer store.Close()
		history = store
	}

	if *historyFlag {
		if history == nil {
			log.Fatal("-history requires enable_history: true in the config")
		}
		if err := listRuns(history); err != nil {
			log.Fatalf("Listing runs failed: %v", err)
		}
		return
	}

	// --- Input Source ---
	rowSource, err := buildSource(ctx, appCfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize input source: %v", err)
	}
	rows, err := rowSource.FetchRows(ctx)
	if err != nil {
		log.Fatalf("Failed to load input rows: %v", err)
	}
	if len(rows) == 0 {
		log.Warn("Input source produced no auditable rows")
	}

	// --- Audit Pipeline ---
	httpClient := fetch.NewClient(appCfg.HTTPClientSettings, log)
	fetcher := fetch.NewFetcher(httpClient, appCfg.UserAgent, log)
	inspector := inspect.NewInspector(log)
	var robots *fetch.RobotsChecker
	if appCfg.CheckRobotsTxt {
		robots = fetch.NewRobotsChecker(httpClient, appCfg.UserAgent, log)
	}
	auditor := audit.NewAuditor(fetcher, inspector, robots, appCfg.PerPageTimeout, log)

	startedAt := time.Now()
	results := auditor.AuditAllConcurrent(ctx, rows, appCfg.RowLimit, appCfg.NumWorkers)
	elapsed := time.Since(startedAt)
	log.Infof("Checked %d rows in %.2f seconds", len(results), elapsed.Seconds())

	// --- Output ---
	exporter := export.NewCSVExporter(log)
	exportErr := exporter.Export(results, appCfg.OutputCSV)
	if exportErr != nil {
		log.Errorf("CSV export failed: %v", exportErr)
	}
	export.Summarize(results).Print()

	// --- Persist Run (optional) ---
	if history != nil {
		record := &models.RunRecord{
			RunID:      uuid.NewString(),
			StartedAt:  startedAt,
			FinishedAt: startedAt.Add(elapsed),
			Source:     rowSource.Describe(),
			Results:    results,
		}
		if err := history.SaveRun(record); err != nil {
			log.Errorf("Failed to save run history: %v", err)
		}
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		log.Warn("Audit cancelled before completing all rows.")
	}

	if exportErr != nil {
		// os.Exit skips the deferred Close, so flush the store first.
		if history != nil {
			history.Close()
		}
		os.Exit(1)
	}
}

// buildSource constructs the configured row source. Validate already
// guaranteed exactly one of sheet/CSV is set.
func buildSource(ctx context.Context, cfg *config.AppConfig, log *logrus.Logger) (source.RowSource, error) {
	if cfg.InputCSV != "" {
		return source.NewCSVSource(cfg.InputCSV, log), nil
	}
	return source.NewSheetSource(ctx, cfg.Sheet, log)
}

// listRuns prints the stored run history, newest first.
func listRuns(history storage.HistoryStore) error {
	summaries, err := history.ListRuns()
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}
	for _, s := range summaries {
		fmt.Printf("%s  %s  pages=%d failures=%d  %s\n", s.StartedAt, s.RunID, s.PageCount, s.FailCount, s.Source)
	}
	return nil
}
