package match

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fieldlens/fieldlens/internal/geometry"
	"github.com/fieldlens/fieldlens/internal/mapping"
)

// FieldValue is the extraction collaborator's claim for one template field:
// the predicted value and the verbatim form labels it was attached to. The
// labels are claims, not facts; they may be absent from the recognized text
// entirely.
type FieldValue struct {
	Value   any      `json:"value"`
	FormKey []string `json:"form_key"`
}

// FieldRegion is one geometric hit supporting a resolved field's value,
// annotated for downstream highlighting.
type FieldRegion struct {
	Text string `json:"text"`
	geometry.Quad
	Width          float64 `json:"width"`
	Height         float64 `json:"height"`
	Unit           string  `json:"unit"`
	Page           int     `json:"page"`
	LineNumber     int     `json:"line_numbers"`
	PredictedValue string  `json:"predicted_value"`
	FieldName      string  `json:"field_name"`
	DocumentID     string  `json:"document_id"`
	TemplateField  string  `json:"template_field"`
}

// ResolveFields locates every template field of the mapping set in the line
// table and returns one region per matched line. Fields whose extracted
// value is missing, or which cannot be located, contribute no regions; that
// is an expected outcome, not an error.
func ResolveFields(entries []mapping.Entry, extracted map[string]FieldValue, table geometry.LineTable, documentID string) []FieldRegion {
	var regions []FieldRegion
	for _, entry := range entries {
		fv, ok := extracted[entry.JSONTag]
		if !ok {
			continue
		}
		value, hasValue := searchString(fv.Value)

		indices, fieldName := resolveField(fv.FormKey, value, hasValue, table, entry.JSONTag)
		regions = append(regions, assembleRegions(indices, fieldName, value, entry.JSONTag, documentID, table)...)
	}
	return regions
}

// resolveField decides which line-table rows represent the field's on-page
// location. When both labels and a value are present, occurrences of the
// value on a page that also carries one of its labels win over occurrences
// elsewhere; the same value may legitimately repeat on other pages of a
// multi-page document.
func resolveField(formKeys []string, value string, hasValue bool, table geometry.LineTable, templateField string) ([]int, string) {
	switch {
	case len(formKeys) > 0 && hasValue:
		return resolveWithLocality(formKeys, value, table)

	case len(formKeys) > 0:
		var matched []int
		for _, fk := range formKeys {
			matched = append(matched, FindMatchingLines(table, fk, 0)...)
		}
		return matched, formKeys[0]

	case hasValue:
		return FindMatchingLines(table, value, 0), templateField

	default:
		return nil, ""
	}
}

// resolveWithLocality implements the page-locality tie-break for fields that
// have both candidate labels and a value.
func resolveWithLocality(formKeys []string, value string, table geometry.LineTable) ([]int, string) {
	keyPages := make(map[int][]string)
	var allKeyIndices []int
	for _, fk := range formKeys {
		for _, idx := range FindMatchingLines(table, fk, 0) {
			allKeyIndices = append(allKeyIndices, idx)
			page := table.PageOf(idx)
			if !containsString(keyPages[page], fk) {
				keyPages[page] = append(keyPages[page], fk)
			}
		}
	}

	valuePages := make(map[int][]int)
	valueIndices := FindMatchingLines(table, value, 0)
	for _, idx := range valueIndices {
		page := table.PageOf(idx)
		valuePages[page] = append(valuePages[page], idx)
	}

	var commonPages []int
	for page := range valuePages {
		if len(keyPages[page]) > 0 {
			commonPages = append(commonPages, page)
		}
	}
	sort.Ints(commonPages)

	if len(commonPages) > 0 {
		var matched []int
		fieldName := ""
		for _, page := range commonPages {
			matched = append(matched, valuePages[page]...)
			fieldName = keyPages[page][0]
		}
		return matched, fieldName
	}

	if len(valueIndices) > 0 {
		return valueIndices, formKeys[0]
	}
	if len(allKeyIndices) > 0 {
		return allKeyIndices, formKeys[0]
	}
	return nil, ""
}

// assembleRegions copies geometry from the matched rows into regions. The
// indices are de-duplicated; ordering follows the table.
func assembleRegions(indices []int, fieldName, value, templateField, documentID string, table geometry.LineTable) []FieldRegion {
	if len(indices) == 0 {
		return nil
	}

	unique := make([]int, 0, len(indices))
	seen := make(map[int]bool, len(indices))
	for _, idx := range indices {
		if !seen[idx] {
			seen[idx] = true
			unique = append(unique, idx)
		}
	}
	sort.Ints(unique)

	regions := make([]FieldRegion, 0, len(unique))
	for _, idx := range unique {
		row := table.At(idx)
		regions = append(regions, FieldRegion{
			Text:           row.Text,
			Quad:           row.Quad,
			Width:          row.Width,
			Height:         row.Height,
			Unit:           row.Unit,
			Page:           row.Page,
			LineNumber:     row.LineNumber,
			PredictedValue: value,
			FieldName:      fieldName,
			DocumentID:     documentID,
			TemplateField:  templateField,
		})
	}
	return regions
}

// searchString derives the searchable form of an extracted value. Nil and
// structured values (checkbox states and the like) have no textual location
// on the page; blank strings likewise yield nothing to search for.
func searchString(v any) (string, bool) {
	switch v.(type) {
	case nil:
		return "", false
	case map[string]any:
		return "", false
	}
	s := strings.TrimSpace(fmt.Sprint(v))
	if s == "" {
		return "", false
	}
	return s, true
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
