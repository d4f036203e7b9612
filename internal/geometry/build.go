package geometry

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fieldlens/fieldlens/internal/ocr"
)

// ErrMalformedGeometry reports a line or word record missing its polygon or
// span data. The whole build fails rather than producing partial tables.
var ErrMalformedGeometry = errors.New("malformed geometry")

// clusterThreshold bounds the successive bottom-left y difference, in
// document units, below which a row continues its predecessor's visual line.
// Tuned empirically upstream; keep literal.
const clusterThreshold = 0.015

// Rotation identifies which reading-order comparator applies to a page
// angle. Anything outside the three rotated windows sorts as upright.
type Rotation int

const (
	Upright Rotation = iota
	Rotated90
	Rotated180
	Rotated270
)

// classifyAngle maps a page angle to its rotation bucket using ±10° windows
// around the three rotated orientations.
func classifyAngle(angle float64) Rotation {
	abs := angle
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs > 80 && abs < 100:
		return Rotated90
	case abs > 170 && abs < 190:
		return Rotated180
	case abs > 260 && abs < 280:
		return Rotated270
	default:
		return Upright
	}
}

// less is the reading-order comparator for rows on a page with this
// rotation. The order is an approximation of true reading order; downstream
// matching tolerates occasional mis-ordering.
func (r Rotation) less(a, b readingKey) bool {
	if a.page != b.page {
		return a.page < b.page
	}
	switch r {
	case Rotated90:
		if a.x != b.x {
			return a.x < b.x
		}
		return a.y < b.y
	case Rotated180:
		if a.y != b.y {
			return a.y > b.y
		}
		return a.x > b.x
	case Rotated270:
		return a.x > b.x
	default:
		if a.y != b.y {
			return a.y < b.y
		}
		return a.x < b.x
	}
}

// readingKey is the per-row sort key the rotation comparators operate on:
// page number and the bottom-left corner of the bounding polygon.
type readingKey struct {
	page int
	x    float64
	y    float64
}

// Build constructs the finalized line and word tables from a raw recognition
// result. Rows are sorted into approximate reading order per rotation
// bucket, clustered into visual lines by vertical proximity, then re-sorted
// so tokens within a line read left to right.
func Build(result *ocr.AnalyzeResult) (LineTable, WordTable, error) {
	if result == nil {
		return LineTable{}, WordTable{}, fmt.Errorf("%w: nil analyze result", ErrMalformedGeometry)
	}

	var lines []Line
	var words []Word
	wordNumber := 0

	for _, page := range result.Pages {
		for i, raw := range page.Lines {
			quad, err := explodePolygon(raw.Polygon)
			if err != nil {
				return LineTable{}, WordTable{}, fmt.Errorf("page %d line %d: %w", page.PageNumber, i, err)
			}
			if len(raw.Spans) == 0 {
				return LineTable{}, WordTable{}, fmt.Errorf("page %d line %d: %w: missing spans", page.PageNumber, i, ErrMalformedGeometry)
			}
			lines = append(lines, Line{
				Text:       raw.Content,
				LineNumber: len(lines) + 1,
				Quad:       quad,
				Page:       page.PageNumber,
				Angle:      page.Angle,
				Width:      page.Width,
				Height:     page.Height,
				Unit:       page.Unit,
				Spans:      resolveSpans(result, raw.Spans),
			})
		}
		for i, raw := range page.Words {
			quad, err := explodePolygon(raw.Polygon)
			if err != nil {
				return LineTable{}, WordTable{}, fmt.Errorf("page %d word %d: %w", page.PageNumber, i, err)
			}
			if raw.Span.Length == 0 {
				return LineTable{}, WordTable{}, fmt.Errorf("page %d word %d: %w: missing span", page.PageNumber, i, ErrMalformedGeometry)
			}
			wordNumber++
			words = append(words, Word{
				Text:       raw.Content,
				WordNumber: wordNumber,
				Confidence: raw.Confidence,
				Quad:       quad,
				Page:       page.PageNumber,
				Angle:      page.Angle,
				Width:      page.Width,
				Height:     page.Height,
				Unit:       page.Unit,
				Spans:      resolveSpans(result, []ocr.Span{raw.Span}),
			})
		}
	}

	sortRotated(lines, func(l *Line) readingKey {
		return readingKey{page: l.Page, x: l.BottomLeftX, y: l.BottomLeftY}
	}, func(l *Line) float64 { return l.Angle })
	clusterLines(lines)
	sort.SliceStable(lines, func(i, j int) bool { return finalLess(lines[i], lines[j]) })

	sortRotated(words, func(w *Word) readingKey {
		return readingKey{page: w.Page, x: w.BottomLeftX, y: w.BottomLeftY}
	}, func(w *Word) float64 { return w.Angle })
	clusterWords(words)
	sort.SliceStable(words, func(i, j int) bool { return finalWordLess(words[i], words[j]) })
	assignPhraseLines(words)

	return NewLineTable(lines), NewWordTable(words), nil
}

// explodePolygon spreads the eight polygon values into named corner
// coordinates. Any other length is malformed.
func explodePolygon(polygon []float64) (Quad, error) {
	if len(polygon) != 8 {
		return Quad{}, fmt.Errorf("%w: polygon has %d values, want 8", ErrMalformedGeometry, len(polygon))
	}
	return Quad{
		TopLeftX:     polygon[0],
		TopLeftY:     polygon[1],
		TopRightX:    polygon[2],
		TopRightY:    polygon[3],
		BottomRightX: polygon[4],
		BottomRightY: polygon[5],
		BottomLeftX:  polygon[6],
		BottomLeftY:  polygon[7],
	}, nil
}

// resolveSpans copies raw spans and resolves their text against the
// full-document content stream.
func resolveSpans(result *ocr.AnalyzeResult, raw []ocr.Span) []Span {
	spans := make([]Span, 0, len(raw))
	for _, s := range raw {
		spans = append(spans, Span{
			Offset: s.Offset,
			Length: s.Length,
			Text:   result.SpanText(s),
		})
	}
	return spans
}

// sortRotated partitions rows by their page angle, in first-seen order of
// distinct angle values, stable-sorts each partition with the comparator of
// its rotation bucket, and concatenates the partitions back.
func sortRotated[T any](rows []T, key func(*T) readingKey, angle func(*T) float64) {
	if len(rows) == 0 {
		return
	}

	var order []float64
	seen := make(map[float64]bool)
	for i := range rows {
		a := angle(&rows[i])
		if !seen[a] {
			seen[a] = true
			order = append(order, a)
		}
	}

	sorted := make([]T, 0, len(rows))
	for _, a := range order {
		var group []T
		for i := range rows {
			if angle(&rows[i]) == a {
				group = append(group, rows[i])
			}
		}
		rotation := classifyAngle(a)
		sort.SliceStable(group, func(i, j int) bool {
			return rotation.less(key(&group[i]), key(&group[j]))
		})
		sorted = append(sorted, group...)
	}
	copy(rows, sorted)
}

// continuesLine reports whether a row whose bottom-left y differs from its
// predecessor's by diff belongs to the same visual line.
func continuesLine(diff float64) bool {
	return diff >= 0 && diff < clusterThreshold
}

// clusterLines assigns dense visual-line numbers over the rotation-sorted
// rows. The first row always starts line 1.
func clusterLines(rows []Line) {
	count := 0
	for i := range rows {
		if i == 0 || !continuesLine(rows[i].BottomLeftY-rows[i-1].BottomLeftY) {
			count++
		}
		rows[i].LineNumber = count
	}
}

// clusterWords is clusterLines for the word table; words cluster by their
// own vertical positions, independent of the line table.
func clusterWords(rows []Word) {
	count := 0
	for i := range rows {
		if i == 0 || !continuesLine(rows[i].BottomLeftY-rows[i-1].BottomLeftY) {
			count++
		}
		rows[i].LineNumber = count
	}
}

// finalLess orders rows by (page, line number, bottom-left x) so tokens
// within a visual line read left to right.
func finalLess(a, b Line) bool {
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	if a.LineNumber != b.LineNumber {
		return a.LineNumber < b.LineNumber
	}
	return a.BottomLeftX < b.BottomLeftX
}

func finalWordLess(a, b Word) bool {
	if a.Page != b.Page {
		return a.Page < b.Page
	}
	if a.LineNumber != b.LineNumber {
		return a.LineNumber < b.LineNumber
	}
	return a.BottomLeftX < b.BottomLeftX
}

// assignPhraseLines numbers contiguous runs of equal line numbers in the
// final word order, starting at 1.
func assignPhraseLines(words []Word) {
	if len(words) == 0 {
		return
	}
	count := 1
	prev := words[0].LineNumber
	for i := range words {
		if words[i].LineNumber != prev {
			count++
			prev = words[i].LineNumber
		}
		words[i].PhraseLine = count
	}
}
