package mapping

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadWorkbook reads a mapping set from the first sheet of an xlsx workbook.
// The sheet must carry a header row naming at least the FormField, JSONTag
// and DataType columns; Notes and SourcePage are optional. Row order becomes
// entry order.
func LoadWorkbook(path, name string) (Set, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Set{}, fmt.Errorf("failed to open mapping workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Set{}, fmt.Errorf("mapping workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Set{}, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return Set{}, fmt.Errorf("mapping sheet %s has no data rows", sheets[0])
	}

	cols, err := headerColumns(rows[0])
	if err != nil {
		return Set{}, fmt.Errorf("mapping sheet %s: %w", sheets[0], err)
	}

	set := Set{Name: name}
	seen := make(map[string]int)
	for i, row := range rows[1:] {
		entry, err := rowEntry(row, cols)
		if err != nil {
			return Set{}, fmt.Errorf("mapping row %d: %w", i+2, err)
		}
		if entry.FormField == "" && entry.JSONTag == "" {
			continue // blank trailing row
		}
		if prev, dup := seen[entry.JSONTag]; dup {
			return Set{}, fmt.Errorf("mapping rows %d and %d both use JSON tag %q", prev, i+2, entry.JSONTag)
		}
		seen[entry.JSONTag] = i + 2
		set.Entries = append(set.Entries, entry)
	}
	if len(set.Entries) == 0 {
		return Set{}, fmt.Errorf("mapping sheet %s has no entries", sheets[0])
	}
	return set, nil
}

type columnIndex struct {
	formField  int
	jsonTag    int
	dataType   int
	notes      int
	sourcePage int
}

func headerColumns(header []string) (columnIndex, error) {
	cols := columnIndex{formField: -1, jsonTag: -1, dataType: -1, notes: -1, sourcePage: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "formfield", "form field":
			cols.formField = i
		case "jsontag", "json tag":
			cols.jsonTag = i
		case "datatype", "data type":
			cols.dataType = i
		case "notes":
			cols.notes = i
		case "sourcepage", "source page":
			cols.sourcePage = i
		}
	}
	if cols.formField < 0 || cols.jsonTag < 0 || cols.dataType < 0 {
		return cols, fmt.Errorf("header must name FormField, JSONTag and DataType columns")
	}
	return cols, nil
}

func rowEntry(row []string, cols columnIndex) (Entry, error) {
	entry := Entry{
		FormField:  cell(row, cols.formField),
		JSONTag:    cell(row, cols.jsonTag),
		Notes:      cell(row, cols.notes),
		SourcePage: 1,
	}
	switch dt := DataType(cell(row, cols.dataType)); dt {
	case Text, Number, Checkbox:
		entry.DataType = dt
	case "":
		entry.DataType = Text
	default:
		return Entry{}, fmt.Errorf("unknown data type %q", dt)
	}
	if raw := cell(row, cols.sourcePage); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid source page %q: %w", raw, err)
		}
		entry.SourcePage = page
	}
	return entry, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
