package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/pantrykeep/receipt-scan/internal/common"
	"github.com/pantrykeep/receipt-scan/internal/vision"
)

// credcheck verifies the recognition credential with a minimal request,
// without running the parsing pipeline.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if !cfg.Vision.HasCredential() {
		logger.Error("no recognition credential configured (set VISION_API_KEY)")
		os.Exit(1)
	}

	client := vision.NewClient(vision.Config{
		APIKey:   cfg.Vision.APIKey,
		Endpoint: cfg.Vision.Endpoint,
		Timeout:  cfg.Vision.Timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Vision.Timeout+5*time.Second)
	defer cancel()

	start := time.Now()
	status := client.TestCredential(ctx)
	elapsed := time.Since(start)

	if !status.Valid {
		logger.Error("credential check failed",
			"message", status.Message, "elapsed_ms", elapsed.Milliseconds())
		os.Exit(1)
	}
	logger.Info("credential check OK",
		"message", status.Message, "elapsed_ms", elapsed.Milliseconds())
}
