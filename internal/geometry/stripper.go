package geometry

import "strings"

// markerPrefixes are the synthetic wrappers the recognition layer may emit
// verbatim inside line text.
var markerPrefixes = []string{
	`<!-- PageHeader="`,
	`<!-- PageFooter="`,
	`<!-- PageNumber="`,
}

const markerSuffix = `" -->`

// StripHeaderFooter returns a copy of the table with header, footer and page
// number markers removed from line text, leaving only the inner literal
// text. Rows without markers pass through unchanged; applying the stripper
// twice yields the same table as applying it once.
func StripHeaderFooter(t LineTable) LineTable {
	rows := make([]Line, t.Len())
	for i := range rows {
		rows[i] = t.At(i)
		rows[i].Text = stripMarkers(rows[i].Text)
	}
	return NewLineTable(rows)
}

// stripMarkers unwraps markers of any of the three forms. Unwrapping runs to
// a fixpoint so text whose inner literal is itself a wrapped marker comes out
// the same whether the stripper runs once or twice.
func stripMarkers(text string) string {
	for {
		stripped := text
		for _, prefix := range markerPrefixes {
			if strings.HasPrefix(stripped, prefix) {
				stripped = strings.TrimPrefix(stripped, prefix)
				stripped = strings.TrimSuffix(stripped, markerSuffix)
				break
			}
		}
		if stripped == text {
			return text
		}
		text = stripped
	}
}
