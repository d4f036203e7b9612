// Package geometry turns raw per-page recognition results into ordered line
// and word tables with reading-order line numbers. The tables are built once
// per document and are read-only afterwards; the matching engine only ever
// indexes into them.
package geometry

// Span is one resolved byte range of the full-document content stream that a
// row derives from.
type Span struct {
	Offset int
	Length int
	Text   string
}

// Quad holds the four corners of a row's bounding polygon, exploded into
// named coordinates in document units.
type Quad struct {
	TopLeftX     float64
	TopLeftY     float64
	TopRightX    float64
	TopRightY    float64
	BottomRightX float64
	BottomRightY float64
	BottomLeftX  float64
	BottomLeftY  float64
}

// Line is one physical line of recognized text on one page. LineNumber is
// the dense cross-page reading-order index assigned by clustering; rows that
// the clustering step judges to sit on the same visual line share it.
type Line struct {
	Text       string
	LineNumber int
	Quad
	Page   int
	Angle  float64
	Width  float64
	Height float64
	Unit   string
	Spans  []Span
}

// Word is one recognized token. WordNumber is a global sequence over the
// document; PhraseLine is a second contiguous-run counter over LineNumber
// used to group words into reading phrases.
type Word struct {
	Text       string
	LineNumber int
	WordNumber int
	PhraseLine int
	Confidence float64
	Quad
	Page   int
	Angle  float64
	Width  float64
	Height float64
	Unit   string
	Spans  []Span
}

// LineTable is the ordered collection of line rows, indexed by a dense
// 0-based key.
type LineTable struct {
	rows []Line
}

// NewLineTable wraps rows in a table. The table takes ownership of the slice.
func NewLineTable(rows []Line) LineTable {
	return LineTable{rows: rows}
}

// Len returns the number of rows.
func (t LineTable) Len() int {
	return len(t.rows)
}

// At returns the row at index i.
func (t LineTable) At(i int) Line {
	return t.rows[i]
}

// PageOf returns the page number of the row at index i.
func (t LineTable) PageOf(i int) int {
	return t.rows[i].Page
}

// WordTable is the ordered collection of word rows, indexed by a dense
// 0-based key.
type WordTable struct {
	rows []Word
}

// NewWordTable wraps rows in a table. The table takes ownership of the slice.
func NewWordTable(rows []Word) WordTable {
	return WordTable{rows: rows}
}

// Len returns the number of rows.
func (t WordTable) Len() int {
	return len(t.rows)
}

// At returns the row at index i.
func (t WordTable) At(i int) Word {
	return t.rows[i]
}
