package vision

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// annotateResponseSchema describes the provider envelope we are willing to
// decode: a "responses" array whose entries may carry either an embedded
// error object or a text-annotation list. Anything else is rejected before
// we poke at it, so a partial-success payload can't be misread as text.
const annotateResponseSchema = `{
	"type": "object",
	"required": ["responses"],
	"properties": {
		"responses": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"error": {
						"type": "object",
						"properties": {
							"code":    {"type": "integer"},
							"message": {"type": "string"},
							"status":  {"type": "string"}
						}
					},
					"textAnnotations": {
						"type": "array",
						"items": {
							"type": "object",
							"properties": {
								"description": {"type": "string"}
							}
						}
					}
				}
			}
		}
	}
}`

var annotateSchema = jsonschema.MustCompileString("annotate_response.json", annotateResponseSchema)

// validateAnnotateResponse checks the raw provider body against the
// envelope schema before strict decoding.
func validateAnnotateResponse(raw []byte) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if err := annotateSchema.Validate(v); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}
	return nil
}
