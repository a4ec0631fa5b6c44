package vision

import "context"

// OutcomeKind discriminates the result of one recognition attempt.
type OutcomeKind string

const (
	// OutcomeText means the provider recognized a non-empty text blob.
	OutcomeText OutcomeKind = "text"
	// OutcomeNoText means the request succeeded but nothing was recognized.
	// Callers must treat this differently from an empty Success: "recognized
	// nothing" and "recognized empty" are distinct states.
	OutcomeNoText OutcomeKind = "no_text"
	// OutcomeProviderError means the provider rejected or failed the request.
	OutcomeProviderError OutcomeKind = "provider_error"
	// OutcomeTransportError means the request never completed (timeout,
	// network failure, oversized payload, cancellation).
	OutcomeTransportError OutcomeKind = "transport_error"
)

// FailureClass narrows provider/transport failures so the caller can pick
// a user-facing message per category.
type FailureClass string

const (
	FailureCredential      FailureClass = "credential"
	FailureRateLimit       FailureClass = "rate_limit"
	FailureMalformedImage  FailureClass = "malformed_image"
	FailureUnavailable     FailureClass = "unavailable"
	FailureGeneric         FailureClass = "generic"
	FailureTimeout         FailureClass = "timeout"
	FailureNetwork         FailureClass = "network"
	FailurePayloadTooLarge FailureClass = "payload_too_large"
	FailureCanceled        FailureClass = "canceled"
)

// Outcome is the result of a single recognition request. Exactly one is
// produced per request and it is never mutated afterwards.
type Outcome struct {
	Kind       OutcomeKind
	Text       string       // set when Kind == OutcomeText
	Class      FailureClass // set on provider/transport failures
	HTTPStatus int          // provider HTTP status, when a response was received
	Message    string       // diagnostic detail; never shown to end users
}

func TextOutcome(text string) Outcome {
	return Outcome{Kind: OutcomeText, Text: text}
}

func NoTextOutcome() Outcome {
	return Outcome{Kind: OutcomeNoText}
}

func ProviderFailure(class FailureClass, status int, message string) Outcome {
	return Outcome{Kind: OutcomeProviderError, Class: class, HTTPStatus: status, Message: message}
}

func TransportFailure(class FailureClass, message string) Outcome {
	return Outcome{Kind: OutcomeTransportError, Class: class, Message: message}
}

// Failed reports whether the outcome is a provider or transport failure.
func (o Outcome) Failed() bool {
	return o.Kind == OutcomeProviderError || o.Kind == OutcomeTransportError
}

// Recognizer turns an image payload into a recognition outcome. All
// failure modes are folded into the outcome; implementations do not
// return errors separately.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte) Outcome
}

// CredentialStatus is the result of a credential probe.
type CredentialStatus struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// CredentialTester is implemented by recognizers that can verify their
// configuration with a minimal request.
type CredentialTester interface {
	TestCredential(ctx context.Context) CredentialStatus
}
