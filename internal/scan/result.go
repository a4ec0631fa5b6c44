package scan

import (
	"fmt"

	"github.com/pantrykeep/receipt-scan/internal/parser"
	"github.com/pantrykeep/receipt-scan/internal/vision"
)

// Pipeline steps recorded in debug info.
const (
	StepConfiguration = "configuration"
	StepRecognition   = "recognition"
	StepParsing       = "parsing"
	StepComplete      = "complete"
)

// Recognition sources recorded in debug info.
const (
	SourceVision    = "vision"
	SourceTesseract = "tesseract"
	SourceMock      = "mock"
)

// DebugInfo carries diagnostic metadata for support and telemetry. It is
// never safe for direct display to end users.
type DebugInfo struct {
	RequestID      string `json:"request_id"`
	Source         string `json:"source"`
	Step           string `json:"step"`
	ElapsedMS      int64  `json:"elapsed_ms"`
	ProviderStatus int    `json:"provider_status,omitempty"`
	Detail         string `json:"detail,omitempty"`
}

// Result is the single contract every pipeline invocation resolves to.
// Success is true iff at least one item was produced. Message is the only
// field safe to show the user.
type Result struct {
	Success bool          `json:"success"`
	Text    string        `json:"text"`
	Items   []parser.Item `json:"items"`
	Message string        `json:"message"`
	Debug   DebugInfo     `json:"debug"`
}

// User-facing messages, one per failure category. Short and actionable;
// the diagnostic detail stays in DebugInfo.
const (
	msgNoText     = "No text was found in the photo. Try better lighting and hold the camera steady."
	msgNoItems    = "We read the receipt but couldn't find any grocery items on it."
	msgMockMode   = "Demo mode: showing sample receipt items (no recognition credential configured)."
	msgCanceled   = "The scan was canceled."
	msgCredential = "The receipt scanner isn't set up correctly. Please check the recognition credentials."
	msgRateLimit  = "The recognition service rate limit was reached. Please wait a moment and try again."
	msgMalformed  = "That image couldn't be read. Try retaking the photo."
	msgDown       = "The recognition service is temporarily unavailable. Please try again shortly."
	msgTimeout    = "The scan took too long and was stopped. Check your connection and try again."
	msgNetwork    = "Couldn't reach the recognition service. Check your connection and try again."
	msgTooLarge   = "That photo is too large to scan. Try a smaller or more compressed image."
	msgGeneric    = "Something went wrong while scanning the receipt. Please try again."
)

// failureMessage selects the user-facing message for a failure class.
func failureMessage(class vision.FailureClass) string {
	switch class {
	case vision.FailureCredential:
		return msgCredential
	case vision.FailureRateLimit:
		return msgRateLimit
	case vision.FailureMalformedImage:
		return msgMalformed
	case vision.FailureUnavailable:
		return msgDown
	case vision.FailureTimeout:
		return msgTimeout
	case vision.FailureNetwork:
		return msgNetwork
	case vision.FailurePayloadTooLarge:
		return msgTooLarge
	case vision.FailureCanceled:
		return msgCanceled
	default:
		return msgGeneric
	}
}

func successMessage(count int) string {
	if count == 1 {
		return "Found 1 item on your receipt."
	}
	return fmt.Sprintf("Found %d items on your receipt.", count)
}
