// package contract enforces the single-field JSON output shape every pipeline step must produce
package contract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/desertthunder/heydj/internal/shared"
)

// StepOutput is the validated output of one step: exactly one named string field.
//
// Values are only produced by [Schema.Parse].
type StepOutput struct {
	field string
	value string
}

// Field returns the schema key the value was read from.
func (o StepOutput) Field() string { return o.field }

// Value returns the step's sole output value.
func (o StepOutput) Value() string { return o.value }

// Schema is a mapping with one required string-valued key.
type Schema struct {
	Field string
}

// NewSchema returns the schema requiring field.
func NewSchema(field string) Schema {
	return Schema{Field: field}
}

// Parse decodes raw model text against the schema.
//
// Leading and trailing whitespace and a surrounding Markdown code fence are tolerated.
// Keys other than the schema field are ignored.
func (s Schema) Parse(step, raw string) (StepOutput, error) {
	body := stripFence(raw)

	var obj map[string]json.RawMessage
	dec := json.NewDecoder(strings.NewReader(body))
	if err := dec.Decode(&obj); err != nil {
		return StepOutput{}, s.invalid(step, raw, fmt.Sprintf("not a JSON object: %v", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return StepOutput{}, s.invalid(step, raw, "trailing data after JSON object")
	}
	if obj == nil {
		return StepOutput{}, s.invalid(step, raw, "not a JSON object: null")
	}

	rawValue, ok := obj[s.Field]
	if !ok {
		return StepOutput{}, s.invalid(step, raw, "missing required field")
	}

	var value string
	if err := json.Unmarshal(rawValue, &value); err != nil || bytes.Equal(bytes.TrimSpace(rawValue), []byte("null")) {
		return StepOutput{}, s.invalid(step, raw, "field is not a string")
	}

	return StepOutput{field: s.Field, value: value}, nil
}

func (s Schema) invalid(step, raw, reason string) *SchemaValidationError {
	return &SchemaValidationError{Step: step, Field: s.Field, Reason: reason, Raw: raw}
}

// stripFence removes a ```json ... ``` (or bare ```) wrapper if the text is fenced.
// The language tag may sit on its own line or directly against the object.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") || len(text) < 6 {
		return text
	}

	text = strings.TrimSuffix(strings.TrimPrefix(text, "```"), "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 && !strings.ContainsAny(text[:nl], "{[") {
		text = text[nl+1:]
	} else if len(text) >= 4 && strings.EqualFold(text[:4], "json") {
		text = text[4:]
	}
	return strings.TrimSpace(text)
}

// SchemaValidationError reports model output that did not satisfy a step's contract.
type SchemaValidationError struct {
	Step   string // pipeline step that produced the output
	Field  string // required schema key
	Reason string
	Raw    string // unmodified model text
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("%s: step %s, field %q: %s", shared.ErrSchemaValidation, e.Step, e.Field, e.Reason)
}

// Unwrap lets errors.Is match [shared.ErrSchemaValidation].
func (e *SchemaValidationError) Unwrap() error {
	return shared.ErrSchemaValidation
}
