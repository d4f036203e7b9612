package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldlens/fieldlens/internal/geometry"
	"github.com/fieldlens/fieldlens/internal/mapping"
)

func pagedTable(rows ...geometry.Line) geometry.LineTable {
	for i := range rows {
		rows[i].LineNumber = i + 1
	}
	return geometry.NewLineTable(rows)
}

func TestResolveFieldsEndToEnd(t *testing.T) {
	table := pagedTable(
		geometry.Line{Text: "Origin Company:", Page: 1},
		geometry.Line{Text: "Tesla Inc", Page: 1, Quad: geometry.Quad{BottomLeftX: 0.5, BottomLeftY: 2.0}, Width: 8.5, Height: 11, Unit: "inch"},
		geometry.Line{Text: "Tesla Inc", Page: 2},
	)
	entries := []mapping.Entry{{FormField: "Origin - Company Name", JSONTag: "OriginCompany", DataType: mapping.Text}}
	extracted := map[string]FieldValue{
		"OriginCompany": {Value: "Tesla Inc", FormKey: []string{"Origin Company:"}},
	}

	regions := ResolveFields(entries, extracted, table, "doc-1")
	require.Len(t, regions, 1)

	r := regions[0]
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, "Tesla Inc", r.Text)
	assert.Equal(t, "Tesla Inc", r.PredictedValue)
	assert.Equal(t, "Origin Company:", r.FieldName)
	assert.Equal(t, "OriginCompany", r.TemplateField)
	assert.Equal(t, "doc-1", r.DocumentID)
	assert.Equal(t, 2, r.LineNumber)
	assert.Equal(t, 0.5, r.BottomLeftX)
	assert.Equal(t, "inch", r.Unit)
}

func TestResolveFieldsPageLocality(t *testing.T) {
	// The value's sub-lines are found on pages 1 and 2, the label only on
	// page 2; only the page-2 value occurrence survives.
	table := pagedTable(
		geometry.Line{Text: "6563 Headquarters Dr", Page: 1},
		geometry.Line{Text: "Origin Address:", Page: 2},
		geometry.Line{Text: "Plano, TX 75024", Page: 2},
	)
	entries := []mapping.Entry{{FormField: "Origin - Address", JSONTag: "OriginAddress", DataType: mapping.Text}}
	extracted := map[string]FieldValue{
		"OriginAddress": {
			Value:   "6563 Headquarters Dr\nPlano, TX 75024",
			FormKey: []string{"Origin Address:"},
		},
	}

	regions := ResolveFields(entries, extracted, table, "doc-1")
	require.Len(t, regions, 1)
	assert.Equal(t, 2, regions[0].Page)
	assert.Equal(t, "Plano, TX 75024", regions[0].Text)
	assert.Equal(t, "Origin Address:", regions[0].FieldName)
}

func TestResolveFieldsNoMatch(t *testing.T) {
	table := pagedTable(
		geometry.Line{Text: "Origin Company:", Page: 1},
		geometry.Line{Text: "Tesla Inc", Page: 1},
	)
	entries := []mapping.Entry{{JSONTag: "DestinationCompany"}}
	extracted := map[string]FieldValue{
		"DestinationCompany": {Value: "Acme Corp", FormKey: []string{"Receiver Company:"}},
	}

	assert.Empty(t, ResolveFields(entries, extracted, table, "doc-1"))
}

func TestResolveFieldsValueWithoutLocalLabel(t *testing.T) {
	// Label and value never share a page; every value occurrence is kept
	// and the first candidate label names the field.
	table := pagedTable(
		geometry.Line{Text: "Shipment ID:", Page: 1},
		geometry.Line{Text: "S1539964", Page: 2},
	)
	entries := []mapping.Entry{{JSONTag: "ShipmentID"}}
	extracted := map[string]FieldValue{
		"ShipmentID": {Value: "S1539964", FormKey: []string{"Shipment ID:", "Shipment No:"}},
	}

	regions := ResolveFields(entries, extracted, table, "doc-1")
	require.Len(t, regions, 1)
	assert.Equal(t, 2, regions[0].Page)
	assert.Equal(t, "Shipment ID:", regions[0].FieldName)
}

func TestResolveFieldsLabelsOnly(t *testing.T) {
	// Checkbox values carry no searchable text; the label rows anchor the
	// field instead.
	table := pagedTable(
		geometry.Line{Text: "Hazmat", Page: 1},
	)
	entries := []mapping.Entry{{JSONTag: "Hazmat", DataType: mapping.Checkbox}}
	extracted := map[string]FieldValue{
		"Hazmat": {Value: map[string]any{"selected": true}, FormKey: []string{"Hazmat"}},
	}

	regions := ResolveFields(entries, extracted, table, "doc-1")
	require.Len(t, regions, 1)
	assert.Equal(t, "Hazmat", regions[0].FieldName)
	assert.Equal(t, "", regions[0].PredictedValue)
}

func TestResolveFieldsValueOnly(t *testing.T) {
	table := pagedTable(
		geometry.Line{Text: "1539964", Page: 1},
	)
	entries := []mapping.Entry{{JSONTag: "OrderID"}}
	extracted := map[string]FieldValue{
		"OrderID": {Value: 1539964},
	}

	regions := ResolveFields(entries, extracted, table, "doc-1")
	require.Len(t, regions, 1)
	assert.Equal(t, "OrderID", regions[0].FieldName)
	assert.Equal(t, "1539964", regions[0].PredictedValue)
}

func TestResolveFieldsMissingOrEmptyValues(t *testing.T) {
	table := pagedTable(geometry.Line{Text: "Tesla Inc", Page: 1})
	entries := []mapping.Entry{
		{JSONTag: "OriginCompany"},
		{JSONTag: "DestinationCompany"},
		{JSONTag: "Weight"},
	}
	extracted := map[string]FieldValue{
		// DestinationCompany has no extracted value at all.
		"OriginCompany": {Value: nil},
		"Weight":        {Value: "   "},
	}

	assert.Empty(t, ResolveFields(entries, extracted, table, "doc-1"))
}

func TestResolveFieldsRepresentativeLabelPerPage(t *testing.T) {
	// Two candidate labels match on different pages; the reported name
	// comes from a label on a page the value shares.
	table := pagedTable(
		geometry.Line{Text: "Consignee:", Page: 1},
		geometry.Line{Text: "Destination Company:", Page: 2},
		geometry.Line{Text: "EAGLE Manufacturer ltd", Page: 2},
	)
	entries := []mapping.Entry{{JSONTag: "DestinationCompany"}}
	extracted := map[string]FieldValue{
		"DestinationCompany": {
			Value:   "EAGLE Manufacturer ltd",
			FormKey: []string{"Consignee:", "Destination Company:"},
		},
	}

	regions := ResolveFields(entries, extracted, table, "doc-1")
	require.Len(t, regions, 1)
	assert.Equal(t, 2, regions[0].Page)
	assert.Equal(t, "Destination Company:", regions[0].FieldName)
}

func TestSearchString(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    string
		hasText bool
	}{
		{name: "string", value: "Tesla Inc", want: "Tesla Inc", hasText: true},
		{name: "padded string", value: "  Tesla Inc  ", want: "Tesla Inc", hasText: true},
		{name: "number", value: 3200, want: "3200", hasText: true},
		{name: "float", value: 32.5, want: "32.5", hasText: true},
		{name: "nil", value: nil, hasText: false},
		{name: "checkbox state", value: map[string]any{"selected": false}, hasText: false},
		{name: "blank", value: "   ", hasText: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := searchString(tt.value)
			assert.Equal(t, tt.hasText, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
