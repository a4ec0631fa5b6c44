package constants

// Confidence tags how an item was extracted from the receipt text.
type Confidence string

// Stable values (these exact strings travel to the UI layer).
const (
	// ConfidenceHigh means a structured line pattern matched the line shape.
	ConfidenceHigh Confidence = "high"
	// ConfidenceMedium means only the keyword fallback recognized the line.
	ConfidenceMedium Confidence = "medium"
)
