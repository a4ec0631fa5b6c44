package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/pantrykeep/receipt-scan/internal/scan"
	"github.com/pantrykeep/receipt-scan/internal/vision"
)

func main() {
	fs := ff.NewFlagSet("scanreceipt")
	var (
		visionKey = fs.StringLong("vision-key", "", "recognition provider API key (or set RECEIPT_SCAN_VISION_KEY)")
		endpoint  = fs.StringLong("vision-endpoint", "", "recognition provider endpoint override")
		mockDelay = fs.StringLong("mock-delay", "250ms", "simulated latency in demo mode")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_SCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	delay, err := time.ParseDuration(*mockDelay)
	if err != nil {
		logger.Error("parse mock-delay", "value", *mockDelay, "error", err)
		os.Exit(1)
	}

	args := fs.GetArgs()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: scanreceipt [flags] <image-file>")
		os.Exit(2)
	}

	image, err := os.ReadFile(args[0])
	if err != nil {
		logger.Error("read image", "path", args[0], "error", err)
		os.Exit(1)
	}

	var recognizer vision.Recognizer
	if scan.Configured(*visionKey) {
		recognizer = vision.NewClient(vision.Config{APIKey: *visionKey, Endpoint: *endpoint}, logger)
	}

	pipeline := scan.NewPipeline(scan.Config{MockDelay: delay}, recognizer, nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result := pipeline.ExtractReceipt(ctx, image)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
	if !result.Success {
		os.Exit(1)
	}
}
