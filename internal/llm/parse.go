package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/fieldlens/fieldlens/internal/mapping"
	"github.com/fieldlens/fieldlens/internal/match"
)

// extractionEnvelope is the wire shape the mapping prompt demands.
type extractionEnvelope struct {
	ExtractedFields map[string]match.FieldValue `json:"extracted_fields"`
}

// ParseExtraction decodes a mapping response into field values keyed by JSON
// tag, validating the payload against a schema derived from the mapping set.
// Markdown code fences around the JSON are tolerated; anything else that is
// not the requested envelope is an error.
func ParseExtraction(content string, set mapping.Set) (map[string]match.FieldValue, error) {
	payload := stripFences(content)
	if payload == "" {
		return nil, fmt.Errorf("model returned no extraction content")
	}

	if err := validateExtraction([]byte(payload), set); err != nil {
		return nil, err
	}

	var envelope extractionEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode extraction response: %w", err)
	}
	return envelope.ExtractedFields, nil
}

// stripFences unwraps a markdown-fenced block, with or without a language
// marker, returning the trimmed inner payload.
func stripFences(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// validateExtraction checks the payload against the envelope schema: an
// extracted_fields object whose per-tag entries carry a value and a form_key
// string list. Tags outside the mapping set are rejected.
func validateExtraction(payload []byte, set mapping.Set) error {
	fieldSchema := map[string]any{
		"type":     "object",
		"required": []any{"value"},
		"properties": map[string]any{
			"value": map[string]any{},
			"form_key": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	}
	properties := make(map[string]any, len(set.Entries))
	for _, entry := range set.Entries {
		properties[entry.JSONTag] = fieldSchema
	}
	schemaMap := map[string]any{
		"type":     "object",
		"required": []any{"extracted_fields"},
		"properties": map[string]any{
			"extracted_fields": map[string]any{
				"type":                 "object",
				"properties":           properties,
				"additionalProperties": false,
			},
		},
	}

	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("failed to marshal extraction schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("extraction.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("failed to add extraction schema: %w", err)
	}
	schema, err := compiler.Compile("extraction.json")
	if err != nil {
		return fmt.Errorf("failed to compile extraction schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(payload, &v); err != nil {
		return fmt.Errorf("extraction response is not valid JSON: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("extraction response does not match schema: %w", err)
	}
	return nil
}
