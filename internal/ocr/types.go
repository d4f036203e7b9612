// Package ocr holds the wire model of the document analysis service and the
// client used to obtain recognition results. The service returns, per page,
// the recognized lines and words with their bounding polygons, plus a single
// full-document content stream addressed by byte spans.
package ocr

import "strings"

// Span addresses a range of the full-document content stream.
type Span struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
}

// Word is one recognized token on a page.
type Word struct {
	Content    string    `json:"content"`
	Polygon    []float64 `json:"polygon"`
	Confidence float64   `json:"confidence"`
	Span       Span      `json:"span"`
}

// Line is one recognized line of text on a page. Polygon carries eight
// values: top-left, top-right, bottom-right, bottom-left x/y pairs.
type Line struct {
	Content string    `json:"content"`
	Polygon []float64 `json:"polygon"`
	Spans   []Span    `json:"spans"`
}

// Page is the per-page recognition result.
type Page struct {
	PageNumber int     `json:"pageNumber"`
	Angle      float64 `json:"angle"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	Unit       string  `json:"unit"`
	Words      []Word  `json:"words"`
	Lines      []Line  `json:"lines"`
	Spans      []Span  `json:"spans"`
}

// AnalyzeResult is the document analysis response consumed by the geometry
// model. DocumentID is not part of the wire format; the client stamps it
// from a content hash of the analyzed file.
type AnalyzeResult struct {
	APIVersion      string `json:"apiVersion,omitempty"`
	ModelID         string `json:"modelId,omitempty"`
	StringIndexType string `json:"stringIndexType,omitempty"`
	Content         string `json:"content"`
	Pages           []Page `json:"pages"`
	DocumentID      string `json:"document_id,omitempty"`
}

// SpanText resolves a span against the full-document content. Out-of-range
// spans yield an empty string rather than a panic; the upstream service owns
// span consistency.
func (r *AnalyzeResult) SpanText(s Span) string {
	if s.Offset < 0 || s.Length < 0 || s.Offset+s.Length > len(r.Content) {
		return ""
	}
	return r.Content[s.Offset : s.Offset+s.Length]
}

// PageContent returns the newline-joined line contents of every page, keyed
// by page number.
func (r *AnalyzeResult) PageContent() map[int]string {
	content := make(map[int]string, len(r.Pages))
	for _, page := range r.Pages {
		var lines []string
		for _, line := range page.Lines {
			if line.Content != "" {
				lines = append(lines, line.Content)
			}
		}
		content[page.PageNumber] = strings.Join(lines, "\n")
	}
	return content
}
