package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/pantrykeep/receipt-scan/constants"
	"github.com/pantrykeep/receipt-scan/internal/export"
	"github.com/pantrykeep/receipt-scan/internal/history"
	"github.com/pantrykeep/receipt-scan/internal/normalize"
	"github.com/pantrykeep/receipt-scan/internal/parser"
	"github.com/pantrykeep/receipt-scan/internal/scan"
	"github.com/pantrykeep/receipt-scan/internal/server"
	"github.com/pantrykeep/receipt-scan/internal/vision"
)

func main() {
	fs := ff.NewFlagSet("scand")
	var (
		addr        = fs.StringLong("addr", ":8080", "HTTP listen address")
		visionKey   = fs.StringLong("vision-key", "", "recognition provider API key (or set RECEIPT_SCAN_VISION_KEY)")
		endpoint    = fs.StringLong("vision-endpoint", "", "recognition provider endpoint override")
		engine      = fs.StringLong("engine", "vision", "recognition engine: 'vision' or 'tesseract'")
		tessdataDir = fs.StringLong("tessdata-dir", "", "tessdata directory for the tesseract engine")
		dbDSN       = fs.StringLong("db", "receipt-scan.db", "scan history store: sqlite file path or postgres:// DSN ('' disables)")
		rulesPath   = fs.StringLong("rules", "", "optional YAML normalization/classification overlay")
		mockDelay   = fs.StringLong("mock-delay", "2500ms", "simulated latency in demo mode")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	delay, err := time.ParseDuration(*mockDelay)
	if err != nil {
		logger.Error("parse mock-delay", "value", *mockDelay, "error", err)
		os.Exit(1)
	}

	normalizer, classifier, err := buildRules(*rulesPath)
	if err != nil {
		logger.Error("load rules overlay", "path", *rulesPath, "error", err)
		os.Exit(1)
	}
	itemParser := parser.New(normalizer, classifier)

	recognizer, source := buildRecognizer(*engine, *visionKey, *endpoint, *tessdataDir, logger)
	pipeline := scan.NewPipeline(scan.Config{
		Source:    source,
		MockDelay: delay,
	}, recognizer, itemParser, logger)

	var (
		repo     history.Repository
		exporter *export.Service
	)
	if *dbDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, dialect, err := history.Open(ctx, *dbDSN, logger)
		cancel()
		if err != nil {
			logger.Error("open history store", "error", err)
			os.Exit(1)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.Error("close history store", "error", cerr)
			}
		}()
		sqlRepo := history.NewRepository(db, dialect, logger)
		repo = sqlRepo
		exporter = export.NewService(sqlRepo, logger)
	}

	srv := &http.Server{
		Addr:    *addr,
		Handler: server.New(pipeline, repo, exporter, logger).Handler(),
	}

	go func() {
		logger.Info("scand.listening", "addr", *addr, "engine", source, "history", *dbDSN != "")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("scand.shutting_down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}

// buildRules assembles the normalizer and classifier, layering the YAML
// overlay on top of the defaults when one is configured.
func buildRules(path string) (*normalize.Normalizer, *constants.Classifier, error) {
	if path == "" {
		return normalize.New(), constants.NewClassifier(nil), nil
	}
	rules, err := normalize.LoadRules(path)
	if err != nil {
		return nil, nil, err
	}
	catRules, err := rules.CategoryRules()
	if err != nil {
		return nil, nil, err
	}
	return normalize.FromTables(rules.MergeTables(normalize.DefaultTables())),
		constants.NewClassifier(catRules), nil
}

// buildRecognizer picks the recognition engine. A missing or placeholder
// credential yields a nil recognizer, which puts the pipeline in demo mode.
func buildRecognizer(engine, key, endpoint, tessdataDir string, logger *slog.Logger) (vision.Recognizer, string) {
	switch engine {
	case "tesseract":
		return vision.NewTesseractEngine(tessdataDir, "", logger), scan.SourceTesseract
	default:
		if !scan.Configured(key) {
			logger.Warn("no recognition credential configured; running in demo mode")
			return nil, scan.SourceMock
		}
		return vision.NewClient(vision.Config{APIKey: key, Endpoint: endpoint}, logger), scan.SourceVision
	}
}
