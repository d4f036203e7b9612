package extract

import (
	"github.com/fieldlens/fieldlens/internal/match"
	"github.com/fieldlens/fieldlens/internal/ocr"
)

// ExtractFieldsRequest represents a request to run the full pipeline on a
// document file
type ExtractFieldsRequest struct {
	Path string `json:"path"`
}

// ExtractFieldsResult represents the outcome of a full pipeline run
type ExtractFieldsResult struct {
	RunID      string                      `json:"run_id"`
	DocumentID string                      `json:"document_id"`
	Path       string                      `json:"path"`
	FormType   string                      `json:"form_type"`
	Pages      int                         `json:"pages"`
	Fields     map[string]match.FieldValue `json:"extracted_fields"`
	Regions    []match.FieldRegion         `json:"regions"`
}

// LocateFieldsRequest represents a request to locate already-extracted field
// values in a recognition result, without any model calls
type LocateFieldsRequest struct {
	Result     *ocr.AnalyzeResult          `json:"analyze_result"`
	Fields     map[string]match.FieldValue `json:"extracted_fields"`
	DocumentID string                      `json:"document_id,omitempty"`
}

// LocateFieldsResult represents located regions for extracted field values
type LocateFieldsResult struct {
	DocumentID string              `json:"document_id"`
	Lines      int                 `json:"lines"`
	Regions    []match.FieldRegion `json:"regions"`
}
