package vision

import "context"

// probeImage is a 1x1 PNG, the smallest payload the provider accepts.
// It is used only to confirm that the credential and endpoint work.
var probeImage = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x62, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

// ProbeImage returns a copy of the trivial image used for credential checks.
func ProbeImage() []byte {
	return append([]byte(nil), probeImage...)
}

// TestCredential issues a minimal recognition request to confirm the
// credential and endpoint are reachable, without running the full pipeline.
func (c *Client) TestCredential(ctx context.Context) CredentialStatus {
	out := c.Recognize(ctx, ProbeImage())
	switch out.Kind {
	case OutcomeText, OutcomeNoText:
		// Recognizing nothing on a blank pixel still proves the credential works.
		return CredentialStatus{Valid: true, Message: "credential accepted by recognition provider"}
	case OutcomeProviderError:
		if out.Class == FailureCredential {
			return CredentialStatus{Valid: false, Message: "credential rejected (invalid key or quota exceeded)"}
		}
		return CredentialStatus{Valid: false, Message: "provider error: " + out.Message}
	default:
		return CredentialStatus{Valid: false, Message: "provider unreachable: " + out.Message}
	}
}
