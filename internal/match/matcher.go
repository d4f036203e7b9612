// Package match locates query strings in a line table and resolves template
// fields to the regions that physically carry their values. Matching is
// deterministic and read-only with respect to the tables.
package match

import (
	"sort"
	"strings"

	"github.com/fieldlens/fieldlens/internal/align"
	"github.com/fieldlens/fieldlens/internal/geometry"
)

// fuzzyLengthWindow bounds how far apart a query line and a row may be in
// rune length before the fuzzy tier refuses to compare them. Tuned
// empirically upstream; keep literal.
const fuzzyLengthWindow = 2

// FindMatchingLines returns the sorted, de-duplicated set of line-table
// indices that plausibly contain the query. Each non-empty trimmed sub-line
// of the query is searched independently, case-folded, through three tiers:
// exact single-line containment, exact containment in the concatenation of
// two adjacent rows, and a fuzzy fallback accepting the first row within the
// length window whose dissimilarity score does not exceed threshold. The
// result is the union over all sub-lines; an all-blank query matches
// nothing.
func FindMatchingLines(table geometry.LineTable, query string, threshold int) []int {
	searchLines := splitQuery(query)
	if len(searchLines) == 0 {
		return nil
	}

	texts := make([]string, table.Len())
	for i := 0; i < table.Len(); i++ {
		texts[i] = strings.ToLower(strings.TrimSpace(table.At(i).Text))
	}

	hits := make(map[int]bool)
	for _, searchLine := range searchLines {
		matchSubLine(texts, searchLine, threshold, hits)
	}

	if len(hits) == 0 {
		return nil
	}

	indices := make([]int, 0, len(hits))
	for i := range hits {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	return indices
}

// splitQuery breaks a query on newlines into trimmed, case-folded sub-lines,
// dropping blanks.
func splitQuery(query string) []string {
	var searchLines []string
	for _, part := range strings.Split(query, "\n") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			searchLines = append(searchLines, part)
		}
	}
	return searchLines
}

// matchSubLine runs the three matching tiers for one sub-line, recording any
// hits. Each tier stops at its first hit, and a hit stops the later tiers.
func matchSubLine(texts []string, searchLine string, threshold int, hits map[int]bool) {
	// Tier 1: exact containment in a single row.
	for i, text := range texts {
		if strings.Contains(text, searchLine) {
			hits[i] = true
			return
		}
	}

	// Tier 2: exact containment in two adjacent rows joined by a space.
	for i := 0; i+1 < len(texts); i++ {
		if strings.Contains(texts[i]+" "+texts[i+1], searchLine) {
			hits[i] = true
			hits[i+1] = true
			return
		}
	}

	// Tier 3: fuzzy fallback for near-identical rows.
	for i, text := range texts {
		sim := align.Compare(searchLine, text)
		if sim.TextLength > sim.SubtextLength && sim.SubtextLength == 1 {
			// A one-character row would "match" almost any query.
			continue
		}
		if absInt(sim.TextLength-sim.SubtextLength) < fuzzyLengthWindow &&
			sim.DissimilarityScore <= threshold {
			hits[i] = true
			return
		}
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
