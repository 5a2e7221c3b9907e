package fmla

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SchemaFields lists the keys the extraction prompt asks the model to fill.
var SchemaFields = []string{
	"employeeName",
	"employeeJobTitle",
	"leaveStartDate",
	"leaveEndDate",
	"leaveType",
	"healthConditionDescription",
	"healthcareProviderName",
	"healthcareProviderPhone",
	"isFormSigned",
	"signatureDate",
	"estimatedLeaveDuration",
	"complianceFlags",
}

// LeaveTypes are the values the prompt allows for leaveType.
var LeaveTypes = []string{"continuous", "intermittent", "reduced schedule"}

const advisorySchemaURL = "https://fmla-backend.local/schemas/extraction.json"

const advisorySchemaJSON = `{
  "type": "object",
  "properties": {
    "employeeName": {"type": ["string", "null"]},
    "employeeJobTitle": {"type": ["string", "null"]},
    "leaveStartDate": {"$ref": "#/$defs/date"},
    "leaveEndDate": {"$ref": "#/$defs/date"},
    "leaveType": {"enum": ["continuous", "intermittent", "reduced schedule", null]},
    "healthConditionDescription": {"type": ["string", "null"]},
    "healthcareProviderName": {"type": ["string", "null"]},
    "healthcareProviderPhone": {"type": ["string", "null"]},
    "isFormSigned": {"type": ["boolean", "null"]},
    "signatureDate": {"$ref": "#/$defs/date"},
    "estimatedLeaveDuration": {"type": ["string", "null"]},
    "complianceFlags": {"type": ["array", "null"], "items": {"type": "string"}}
  },
  "$defs": {
    "date": {
      "anyOf": [
        {"type": "null"},
        {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}$"}
      ]
    }
  }
}`

// AdvisorySchema reports where a record drifts from the requested shape.
// It never rejects or rewrites a record.
type AdvisorySchema struct {
	schema *jsonschema.Schema
}

// NewAdvisorySchema compiles the embedded extraction schema.
func NewAdvisorySchema() (*AdvisorySchema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(advisorySchemaURL, strings.NewReader(advisorySchemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(advisorySchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &AdvisorySchema{schema: schema}, nil
}

// Check returns nil when rec matches the schema, or the validation error.
func (a *AdvisorySchema) Check(rec ExtractionResult) error {
	if a == nil || a.schema == nil {
		return nil
	}
	return a.schema.Validate(map[string]any(rec))
}

// MissingFields returns schema keys absent from rec, in schema order.
func MissingFields(rec ExtractionResult) []string {
	var missing []string
	for _, f := range SchemaFields {
		if _, ok := rec[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}
