package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuiltinDockManagement(t *testing.T) {
	set, err := Builtin("dock_management")
	require.NoError(t, err)
	assert.Equal(t, "dock_management", set.Name)
	assert.Len(t, set.Entries, 22)

	seen := make(map[string]bool)
	for _, e := range set.Entries {
		assert.NotEmpty(t, e.FormField)
		assert.NotEmpty(t, e.JSONTag)
		assert.False(t, seen[e.JSONTag], "duplicate JSON tag %s", e.JSONTag)
		seen[e.JSONTag] = true
	}

	entry, ok := set.Lookup("OriginCompany")
	require.True(t, ok)
	assert.Equal(t, "Origin - Company Name", entry.FormField)
	assert.Equal(t, Text, entry.DataType)

	entry, ok = set.Lookup("Hazmat")
	require.True(t, ok)
	assert.Equal(t, Checkbox, entry.DataType)
}

func TestBuiltinUnknown(t *testing.T) {
	_, err := Builtin("no_such_set")
	assert.Error(t, err)
}

func TestSetTags(t *testing.T) {
	set := Set{Entries: []Entry{
		{JSONTag: "A"},
		{JSONTag: "B"},
	}}
	assert.Equal(t, []string{"A", "B"}, set.Tags())
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "mapping.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestLoadWorkbook(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"FormField", "JSONTag", "DataType", "Notes", "SourcePage"},
		{"Invoice No", "InvoiceNumber", "Text", "Capture as-is.", 1},
		{"Total", "Total", "Number", "", 2},
		{"Signed", "Signed", "Checkbox", "", ""},
	})

	set, err := LoadWorkbook(path, "invoices")
	require.NoError(t, err)
	assert.Equal(t, "invoices", set.Name)
	require.Len(t, set.Entries, 3)

	assert.Equal(t, Entry{
		FormField:  "Invoice No",
		JSONTag:    "InvoiceNumber",
		DataType:   Text,
		Notes:      "Capture as-is.",
		SourcePage: 1,
	}, set.Entries[0])
	assert.Equal(t, 2, set.Entries[1].SourcePage)
	assert.Equal(t, Checkbox, set.Entries[2].DataType)
	assert.Equal(t, 1, set.Entries[2].SourcePage)
}

func TestLoadWorkbookDuplicateTag(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"FormField", "JSONTag", "DataType"},
		{"Invoice No", "InvoiceNumber", "Text"},
		{"Invoice Number", "InvoiceNumber", "Text"},
	})

	_, err := LoadWorkbook(path, "invoices")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InvoiceNumber")
}

func TestLoadWorkbookErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]interface{}
	}{
		{
			name: "missing required column",
			rows: [][]interface{}{
				{"FormField", "Notes"},
				{"Invoice No", "x"},
			},
		},
		{
			name: "unknown data type",
			rows: [][]interface{}{
				{"FormField", "JSONTag", "DataType"},
				{"Invoice No", "InvoiceNumber", "Blob"},
			},
		},
		{
			name: "no data rows",
			rows: [][]interface{}{
				{"FormField", "JSONTag", "DataType"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeWorkbook(t, tt.rows)
			_, err := LoadWorkbook(path, "bad")
			assert.Error(t, err)
		})
	}
}

func TestLoadWorkbookMissingFile(t *testing.T) {
	_, err := LoadWorkbook(filepath.Join(t.TempDir(), "absent.xlsx"), "x")
	assert.Error(t, err)
}
