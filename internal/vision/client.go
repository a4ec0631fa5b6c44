package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const defaultEndpoint = "https://vision.googleapis.com/v1/images:annotate"

// Config for the hosted recognition client.
type Config struct {
	APIKey          string
	Endpoint        string        // default: Google Vision images:annotate
	Timeout         time.Duration // per-request deadline, default 30s
	MaxPayloadBytes int           // ceiling on the encoded payload, default 10MB
}

// Client calls the hosted text-recognition provider. One POST per
// Recognize call; no retries, no shared mutable state.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxPayloadBytes <= 0 {
		cfg.MaxPayloadBytes = 10 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}

type annotateRequest struct {
	Requests []annotateEntry `json:"requests"`
}

type annotateEntry struct {
	Image    annotateImage     `json:"image"`
	Features []annotateFeature `json:"features"`
}

type annotateImage struct {
	Content string `json:"content"`
}

type annotateFeature struct {
	Type       string `json:"type"`
	MaxResults int    `json:"maxResults"`
}

type annotateResponse struct {
	Responses []struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
		TextAnnotations []struct {
			Description string `json:"description"`
		} `json:"textAnnotations"`
	} `json:"responses"`
}

// Recognize sends the image for text detection and maps every failure
// mode to a typed outcome. Oversized payloads fail locally before any
// network I/O happens, which saves provider quota.
func (c *Client) Recognize(ctx context.Context, image []byte) Outcome {
	reqID := uuid.New().String()
	start := time.Now()

	if len(image) == 0 {
		return ProviderFailure(FailureMalformedImage, 0, "empty image payload")
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	if len(encoded) > c.cfg.MaxPayloadBytes {
		c.logger.Warn("vision.recognize.payload_too_large",
			"req_id", reqID, "encoded_bytes", len(encoded), "limit", c.cfg.MaxPayloadBytes)
		return TransportFailure(FailurePayloadTooLarge, "encoded payload exceeds size ceiling")
	}

	body := annotateRequest{
		Requests: []annotateEntry{{
			Image:    annotateImage{Content: encoded},
			Features: []annotateFeature{{Type: "TEXT_DETECTION", MaxResults: 1}},
		}},
	}
	bs, err := json.Marshal(body)
	if err != nil {
		return TransportFailure(FailureNetwork, "encode request: "+err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint+"?key="+c.cfg.APIKey, bytes.NewReader(bs))
	if err != nil {
		return TransportFailure(FailureNetwork, "build request: "+err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("vision.http.request",
		"req_id", reqID,
		"endpoint", c.cfg.Endpoint,
		"content_length", len(bs),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		elapsed := time.Since(start).Milliseconds()
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			c.logger.Error("vision.http.timeout", "req_id", reqID, "elapsed_ms", elapsed)
			return TransportFailure(FailureTimeout, "request deadline exceeded")
		case errors.Is(ctx.Err(), context.Canceled):
			c.logger.Warn("vision.http.canceled", "req_id", reqID, "elapsed_ms", elapsed)
			return TransportFailure(FailureCanceled, "request canceled by caller")
		default:
			c.logger.Error("vision.http.send_error", "req_id", reqID, "error", err, "elapsed_ms", elapsed)
			return TransportFailure(FailureNetwork, err.Error())
		}
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("vision.http.response_body_close_error", "req_id", reqID, "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("vision.http.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp.StatusCode, truncate(string(raw), 2<<10))
	}

	if err := validateAnnotateResponse(raw); err != nil {
		return ProviderFailure(FailureGeneric, resp.StatusCode, "unexpected response shape: "+err.Error())
	}

	var parsed annotateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ProviderFailure(FailureGeneric, resp.StatusCode, "decode response: "+err.Error())
	}
	if len(parsed.Responses) == 0 {
		return ProviderFailure(FailureGeneric, resp.StatusCode, "provider returned no responses")
	}

	first := parsed.Responses[0]
	// The transport can succeed while the annotation itself failed.
	if first.Error != nil {
		return ProviderFailure(classifyEmbedded(first.Error.Status), resp.StatusCode,
			truncate(first.Error.Message, 2<<10))
	}
	if len(first.TextAnnotations) == 0 {
		return NoTextOutcome()
	}
	text := first.TextAnnotations[0].Description
	if text == "" {
		return NoTextOutcome()
	}
	return TextOutcome(text)
}

// classifyStatus maps provider HTTP status codes to failure classes.
func classifyStatus(status int, detail string) Outcome {
	switch {
	case status == http.StatusBadRequest:
		return ProviderFailure(FailureMalformedImage, status, detail)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ProviderFailure(FailureCredential, status, detail)
	case status == http.StatusTooManyRequests:
		return ProviderFailure(FailureRateLimit, status, detail)
	case status >= 500:
		return ProviderFailure(FailureUnavailable, status, detail)
	default:
		return ProviderFailure(FailureGeneric, status, detail)
	}
}

// classifyEmbedded maps the embedded error status of a 200 response.
func classifyEmbedded(status string) FailureClass {
	switch status {
	case "PERMISSION_DENIED", "UNAUTHENTICATED":
		return FailureCredential
	case "RESOURCE_EXHAUSTED":
		return FailureRateLimit
	case "UNAVAILABLE":
		return FailureUnavailable
	default:
		return FailureGeneric
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
