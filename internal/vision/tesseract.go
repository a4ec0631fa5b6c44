package vision

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// TesseractEngine runs text recognition locally through libtesseract. It
// honors the same outcome contract as the hosted client so the
// orchestrator treats both identically. A fresh gosseract client is
// created per call; concurrent invocations share nothing.
type TesseractEngine struct {
	tessdataDir string
	language    string
	logger      *slog.Logger
}

func NewTesseractEngine(tessdataDir, language string, logger *slog.Logger) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TesseractEngine{tessdataDir: tessdataDir, language: language, logger: logger}
}

func (e *TesseractEngine) Recognize(ctx context.Context, image []byte) Outcome {
	if err := ctx.Err(); err != nil {
		return TransportFailure(FailureCanceled, err.Error())
	}
	if len(image) == 0 {
		return ProviderFailure(FailureMalformedImage, 0, "empty image payload")
	}

	start := time.Now()
	client := gosseract.NewClient()
	defer func() {
		if cerr := client.Close(); cerr != nil {
			e.logger.Warn("tesseract.close_error", "error", cerr)
		}
	}()

	if e.tessdataDir != "" {
		if err := client.SetTessdataPrefix(e.tessdataDir); err != nil {
			return ProviderFailure(FailureGeneric, 0, "set tessdata prefix: "+err.Error())
		}
	}
	if err := client.SetLanguage(e.language); err != nil {
		return ProviderFailure(FailureGeneric, 0, "set language: "+err.Error())
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return ProviderFailure(FailureMalformedImage, 0, "load image: "+err.Error())
	}

	text, err := client.Text()
	if err != nil {
		e.logger.Error("tesseract.recognize.failed", "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return ProviderFailure(FailureGeneric, 0, err.Error())
	}

	e.logger.Info("tesseract.recognize.ok",
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	text = strings.TrimSpace(text)
	if text == "" {
		return NoTextOutcome()
	}
	return TextOutcome(text)
}
