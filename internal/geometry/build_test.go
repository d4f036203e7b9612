package geometry

import (
	"errors"
	"testing"

	"github.com/fieldlens/fieldlens/internal/ocr"
)

// uprightPolygon builds an axis-aligned polygon whose bottom-left corner
// sits at (x, y).
func uprightPolygon(x, y, width, height float64) []float64 {
	return []float64{
		x, y - height, // top-left
		x + width, y - height, // top-right
		x + width, y, // bottom-right
		x, y, // bottom-left
	}
}

func testLine(text string, x, y float64, span ocr.Span) ocr.Line {
	return ocr.Line{
		Content: text,
		Polygon: uprightPolygon(x, y, 1.0, 0.2),
		Spans:   []ocr.Span{span},
	}
}

func testWord(text string, x, y float64, span ocr.Span) ocr.Word {
	return ocr.Word{
		Content:    text,
		Polygon:    uprightPolygon(x, y, 0.5, 0.2),
		Confidence: 0.99,
		Span:       span,
	}
}

func lineTexts(t *testing.T, table LineTable) []string {
	t.Helper()
	texts := make([]string, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		texts = append(texts, table.At(i).Text)
	}
	return texts
}

func TestBuildReadingOrderAndClustering(t *testing.T) {
	// Rows arrive out of reading order; "Origin Company:" and "Tesla Inc"
	// sit on the same visual line (Δy below the clustering threshold).
	result := &ocr.AnalyzeResult{
		Content: "Shipping ManifestOrigin Company:Tesla Inc",
		Pages: []ocr.Page{
			{
				PageNumber: 1,
				Angle:      0,
				Width:      8.5,
				Height:     11,
				Unit:       "inch",
				Lines: []ocr.Line{
					testLine("Tesla Inc", 3.0, 2.008, ocr.Span{Offset: 32, Length: 9}),
					testLine("Shipping Manifest", 1.0, 1.0, ocr.Span{Offset: 0, Length: 17}),
					testLine("Origin Company:", 1.0, 2.0, ocr.Span{Offset: 17, Length: 15}),
				},
			},
		},
	}

	lines, _, err := Build(result)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"Shipping Manifest", "Origin Company:", "Tesla Inc"}
	got := lineTexts(t, lines)
	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d text = %q, want %q", i, got[i], want[i])
		}
	}

	if n := lines.At(0).LineNumber; n != 1 {
		t.Errorf("header line number = %d, want 1", n)
	}
	if lines.At(1).LineNumber != lines.At(2).LineNumber {
		t.Errorf("label and value should share a visual line: %d vs %d",
			lines.At(1).LineNumber, lines.At(2).LineNumber)
	}

	if s := lines.At(0).Spans; len(s) != 1 || s[0].Text != "Shipping Manifest" {
		t.Errorf("unexpected resolved spans: %+v", s)
	}
	if u := lines.At(0).Unit; u != "inch" {
		t.Errorf("unit = %q, want inch", u)
	}
}

func TestBuildLineNumbersMonotonic(t *testing.T) {
	result := &ocr.AnalyzeResult{
		Pages: []ocr.Page{
			{
				PageNumber: 1,
				Lines: []ocr.Line{
					testLine("b", 1.0, 2.0, ocr.Span{Length: 1}),
					testLine("a", 1.0, 1.0, ocr.Span{Length: 1}),
					testLine("c", 1.0, 3.0, ocr.Span{Length: 1}),
				},
			},
			{
				PageNumber: 2,
				Lines: []ocr.Line{
					testLine("e", 1.0, 2.0, ocr.Span{Length: 1}),
					testLine("d", 1.0, 1.0, ocr.Span{Length: 1}),
				},
			},
		},
	}

	lines, _, err := Build(result)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	prev := 0
	for i := 0; i < lines.Len(); i++ {
		n := lines.At(i).LineNumber
		if n < prev {
			t.Fatalf("line number decreased at row %d: %d after %d", i, n, prev)
		}
		prev = n
	}
}

func TestBuildRotated90Ordering(t *testing.T) {
	// On a ~90° page reading order follows bottom-left x ascending, then y.
	result := &ocr.AnalyzeResult{
		Pages: []ocr.Page{
			{
				PageNumber: 1,
				Angle:      89.2,
				Lines: []ocr.Line{
					testLine("second", 0.5, 1.0, ocr.Span{Length: 1}),
					testLine("third", 0.5, 2.0, ocr.Span{Length: 1}),
					testLine("first", 0.2, 3.0, ocr.Span{Length: 1}),
				},
			},
		},
	}

	lines, _, err := Build(result)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	want := []string{"first", "second", "third"}
	got := lineTexts(t, lines)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d text = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBuildWordTable(t *testing.T) {
	result := &ocr.AnalyzeResult{
		Content: "Origin Company: Tesla",
		Pages: []ocr.Page{
			{
				PageNumber: 1,
				Words: []ocr.Word{
					testWord("Origin", 1.0, 1.0, ocr.Span{Offset: 0, Length: 6}),
					testWord("Company:", 1.7, 1.004, ocr.Span{Offset: 7, Length: 8}),
					testWord("Tesla", 1.0, 2.0, ocr.Span{Offset: 16, Length: 5}),
				},
			},
		},
	}

	_, words, err := Build(result)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if words.Len() != 3 {
		t.Fatalf("word table has %d rows, want 3", words.Len())
	}

	if words.At(0).LineNumber != words.At(1).LineNumber {
		t.Errorf("words on one visual line got distinct line numbers: %d vs %d",
			words.At(0).LineNumber, words.At(1).LineNumber)
	}
	if words.At(2).LineNumber == words.At(0).LineNumber {
		t.Errorf("word on next line shares line number %d", words.At(2).LineNumber)
	}

	if words.At(0).PhraseLine != 1 || words.At(1).PhraseLine != 1 || words.At(2).PhraseLine != 2 {
		t.Errorf("phrase lines = %d, %d, %d; want 1, 1, 2",
			words.At(0).PhraseLine, words.At(1).PhraseLine, words.At(2).PhraseLine)
	}

	seen := map[int]bool{}
	for i := 0; i < words.Len(); i++ {
		n := words.At(i).WordNumber
		if n < 1 || n > 3 || seen[n] {
			t.Errorf("word number %d is not a permutation of 1..3", n)
		}
		seen[n] = true
	}
}

func TestBuildMalformedGeometry(t *testing.T) {
	tests := []struct {
		name string
		page ocr.Page
	}{
		{
			name: "short line polygon",
			page: ocr.Page{
				PageNumber: 1,
				Lines: []ocr.Line{
					{Content: "x", Polygon: []float64{0, 0, 1, 0, 1, 1}, Spans: []ocr.Span{{Length: 1}}},
				},
			},
		},
		{
			name: "line without spans",
			page: ocr.Page{
				PageNumber: 1,
				Lines: []ocr.Line{
					{Content: "x", Polygon: uprightPolygon(0, 1, 1, 0.2)},
				},
			},
		},
		{
			name: "word without span",
			page: ocr.Page{
				PageNumber: 1,
				Words: []ocr.Word{
					{Content: "x", Polygon: uprightPolygon(0, 1, 1, 0.2)},
				},
			},
		},
		{
			name: "empty word without span",
			page: ocr.Page{
				PageNumber: 1,
				Words: []ocr.Word{
					{Content: "", Polygon: uprightPolygon(0, 1, 1, 0.2)},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Build(&ocr.AnalyzeResult{Pages: []ocr.Page{tt.page}})
			if !errors.Is(err, ErrMalformedGeometry) {
				t.Errorf("expected ErrMalformedGeometry, got %v", err)
			}
		})
	}
}

func TestBuildEmptyResult(t *testing.T) {
	lines, words, err := Build(&ocr.AnalyzeResult{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if lines.Len() != 0 || words.Len() != 0 {
		t.Errorf("expected empty tables, got %d lines, %d words", lines.Len(), words.Len())
	}
}
