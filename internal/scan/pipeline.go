// Package scan is the public entry point of the receipt
// capture-to-pantry-item pipeline: it routes an image through recognition
// and parsing, and folds every outcome into a single Result contract.
package scan

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pantrykeep/receipt-scan/internal/common"
	"github.com/pantrykeep/receipt-scan/internal/parser"
	"github.com/pantrykeep/receipt-scan/internal/vision"
)

// Config holds orchestrator behavior knobs.
type Config struct {
	// Source labels the recognition engine in debug info ("vision",
	// "tesseract"). Defaults to "vision".
	Source string
	// MockDelay simulates recognition latency in demo mode. Default 2.5s.
	MockDelay time.Duration
	// MaxPayloadBytes is the ceiling on the encoded image payload.
	// Oversized images fail before the recognizer is ever called.
	// Default 10MB.
	MaxPayloadBytes int
}

// Configured reports whether the given credential routes to the live
// provider. Empty values and the sample-config placeholder go to demo mode.
func Configured(apiKey string) bool {
	return apiKey != "" && apiKey != common.PlaceholderAPIKey
}

// Pipeline coordinates recognition and parsing for one image at a time.
// Instances are stateless between invocations and safe for concurrent use.
type Pipeline struct {
	cfg        Config
	recognizer vision.Recognizer
	parser     *parser.Parser
	logger     *slog.Logger
}

// NewPipeline wires the orchestrator. A nil recognizer means no usable
// recognition engine is configured and every call runs in demo mode.
func NewPipeline(cfg Config, recognizer vision.Recognizer, p *parser.Parser, logger *slog.Logger) *Pipeline {
	if cfg.Source == "" {
		cfg.Source = SourceVision
	}
	if cfg.MockDelay <= 0 {
		cfg.MockDelay = 2500 * time.Millisecond
	}
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = 10 << 20
	}
	if p == nil {
		p = parser.New(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{cfg: cfg, recognizer: recognizer, parser: p, logger: logger}
}

// ExtractReceipt runs the full pipeline for one image. It never returns
// an error: every internal failure is converted into a Result with
// Success=false and a user-facing message, with diagnostics in Debug.
// No retries happen here; the caller owns any retry policy. A request ID
// already present on the context is reused so callers can correlate the
// result with their own records.
func (p *Pipeline) ExtractReceipt(ctx context.Context, image []byte) Result {
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.New().String()
	}
	start := time.Now()

	p.logger.Info("scan.extract.start",
		"req_id", reqID,
		"source", p.sourceLabel(),
		"image_bytes", len(image),
	)

	// Local precondition, checked before any engine (real or double) runs.
	if base64.StdEncoding.EncodedLen(len(image)) > p.cfg.MaxPayloadBytes {
		p.logger.Warn("scan.extract.payload_too_large",
			"req_id", reqID, "image_bytes", len(image), "limit", p.cfg.MaxPayloadBytes)
		return p.failure(reqID, StepRecognition, 0, msgTooLarge,
			"encoded payload exceeds size ceiling", start)
	}

	if p.recognizer == nil {
		return p.mock(ctx, reqID, start)
	}

	outcome := p.recognizer.Recognize(ctx, image)
	if outcome.Kind == vision.OutcomeNoText {
		p.logger.Info("scan.recognize.no_text", "req_id", reqID)
		return p.failure(reqID, StepRecognition, outcome.HTTPStatus, msgNoText,
			"no text annotation in response", start)
	}
	if outcome.Failed() {
		p.logger.Error("scan.recognize.failed",
			"req_id", reqID,
			"class", string(outcome.Class),
			"provider_status", outcome.HTTPStatus,
			"detail", outcome.Message,
		)
		return p.failure(reqID, StepRecognition, outcome.HTTPStatus,
			failureMessage(outcome.Class), outcome.Message, start)
	}

	text := strings.TrimSpace(outcome.Text)
	items := p.parser.Parse(text)
	if len(items) == 0 {
		p.logger.Info("scan.parse.empty", "req_id", reqID, "text_bytes", len(text))
		res := p.failure(reqID, StepParsing, outcome.HTTPStatus, msgNoItems,
			"recognized text contained no grocery-shaped lines", start)
		res.Text = text
		return res
	}

	p.logger.Info("scan.extract.ok",
		"req_id", reqID,
		"items", len(items),
		"text_bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{
		Success: true,
		Text:    text,
		Items:   items,
		Message: successMessage(len(items)),
		Debug: DebugInfo{
			RequestID:      reqID,
			Source:         p.sourceLabel(),
			Step:           StepComplete,
			ElapsedMS:      time.Since(start).Milliseconds(),
			ProviderStatus: outcome.HTTPStatus,
		},
	}
}

// mock serves demo mode: simulated latency, then the fixed item set. The
// delay is interruptible so an abandoned caller gets nothing late.
func (p *Pipeline) mock(ctx context.Context, reqID string, start time.Time) Result {
	p.logger.Info("scan.mock.start", "req_id", reqID, "delay_ms", p.cfg.MockDelay.Milliseconds())
	select {
	case <-time.After(p.cfg.MockDelay):
	case <-ctx.Done():
		return p.failure(reqID, StepConfiguration, 0, msgCanceled, ctx.Err().Error(), start)
	}
	items := MockItems()
	return Result{
		Success: true,
		Text:    mockText,
		Items:   items,
		Message: msgMockMode,
		Debug: DebugInfo{
			RequestID: reqID,
			Source:    SourceMock,
			Step:      StepComplete,
			ElapsedMS: time.Since(start).Milliseconds(),
			Detail:    "no credential",
		},
	}
}

// TestCredential verifies the configured recognition engine without
// running the parsing pipeline.
func (p *Pipeline) TestCredential(ctx context.Context) vision.CredentialStatus {
	if p.recognizer == nil {
		return vision.CredentialStatus{Valid: false, Message: "no recognition credential configured; demo mode active"}
	}
	if t, ok := p.recognizer.(vision.CredentialTester); ok {
		return t.TestCredential(ctx)
	}
	out := p.recognizer.Recognize(ctx, vision.ProbeImage())
	if out.Failed() {
		return vision.CredentialStatus{Valid: false, Message: out.Message}
	}
	return vision.CredentialStatus{Valid: true, Message: "recognition engine responded"}
}

func (p *Pipeline) sourceLabel() string {
	if p.recognizer == nil {
		return SourceMock
	}
	return p.cfg.Source
}

func (p *Pipeline) failure(reqID, step string, providerStatus int, message, detail string, start time.Time) Result {
	return Result{
		Success: false,
		Items:   []parser.Item{},
		Message: message,
		Debug: DebugInfo{
			RequestID:      reqID,
			Source:         p.sourceLabel(),
			Step:           step,
			ElapsedMS:      time.Since(start).Milliseconds(),
			ProviderStatus: providerStatus,
			Detail:         detail,
		},
	}
}
