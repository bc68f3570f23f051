// internal/workers/releasenote/generate-note/validation.go
package generatenote

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"release-note-workers/internal/common/errors"
	"release-note-workers/internal/releasenote"
)

// inputSchema is the entry contract of the worker. Jobs whose variables do
// not satisfy it are rejected without retries.
const inputSchema = `{
	"type": "object",
	"required": ["single", "payload"],
	"properties": {
		"single": {"type": "boolean"},
		"payload": {"type": ["object", "array", "string"]},
		"documentation": {"type": ["string", "null"]},
		"useInternalDoc": {"type": "boolean"},
		"removeInternalKeywords": {"type": "boolean"}
	}
}`

var schema = gojsonschema.NewStringLoader(inputSchema)

// ValidateVariables checks the raw job variables against the entry contract.
func ValidateVariables(variables string) error {
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(variables))
	if err != nil {
		return errors.NewValidationError(fmt.Sprintf("variables are not valid JSON: %v", err))
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}
		return errors.NewValidationError(strings.Join(details, "; "))
	}
	return nil
}

// ValidateInput checks the decoded input beyond what the schema expresses.
func ValidateInput(in *Input) error {
	payload := in.PayloadString()
	if payload == "" {
		return errors.NewValidationError("payload is empty")
	}
	if err := releasenote.ValidateJSONPayload(payload); err != nil {
		return errors.NewValidationError(err.Error())
	}
	return nil
}
