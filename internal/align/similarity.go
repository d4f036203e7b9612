package align

import "sort"

// Replacement pairs a stretch of the main text with the stretch of the search
// text that was aligned against it.
type Replacement struct {
	Original    string
	Replacement string
}

// Similarity reports how well a search text is contained in a main text.
// DissimilarityScore is the single value matching logic consumes; zero means
// the search text occurs as one contiguous, exactly equal substring. The
// substring slices exist for diagnostics only.
type Similarity struct {
	DissimilarityScore int
	TextLength         int
	SubtextLength      int
	UnmatchedChars     int
	MatchedChars       int
	GapChars           int
	InsertedChars      int
	ReplacedChars      int
	Matches            []string
	Replacements       []Replacement
	Gaps               []string
}

// Compare aligns searchText against mainText and derives the similarity
// metrics. Delete operations (runs of mainText absent from searchText) carry
// no penalty; the score accumulates unmatched search runes, inserted runes,
// replaced runes and interior gaps between consecutive aligned stretches of
// the main text. Lengths and spans are measured in runes.
func Compare(mainText, searchText string) Similarity {
	main := []rune(mainText)
	search := []rune(searchText)

	kept := make([]Op, 0, 8)
	for _, op := range Opcodes(mainText, searchText) {
		if op.Kind == OpEqual || op.Kind == OpReplace || op.Kind == OpInsert {
			kept = append(kept, op)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].SourceStart < kept[j].SourceStart
	})

	result := Similarity{
		TextLength:    len(main),
		SubtextLength: len(search),
	}

	for i := 0; i < len(kept)-1; i++ {
		gapStart := kept[i].SourceEnd
		gapEnd := kept[i+1].SourceStart
		if gapStart < gapEnd {
			result.Gaps = append(result.Gaps, string(main[gapStart:gapEnd]))
			result.GapChars += gapEnd - gapStart
		}
	}

	for _, op := range kept {
		switch op.Kind {
		case OpEqual:
			result.Matches = append(result.Matches, string(main[op.SourceStart:op.SourceEnd]))
			result.MatchedChars += op.TargetEnd - op.TargetStart
		case OpInsert:
			result.InsertedChars += op.TargetEnd - op.TargetStart
		case OpReplace:
			result.Replacements = append(result.Replacements, Replacement{
				Original:    string(main[op.SourceStart:op.SourceEnd]),
				Replacement: string(search[op.TargetStart:op.TargetEnd]),
			})
			result.ReplacedChars += op.SourceEnd - op.SourceStart
		}
	}

	result.UnmatchedChars = result.SubtextLength - result.MatchedChars
	result.DissimilarityScore = result.UnmatchedChars +
		result.InsertedChars +
		result.ReplacedChars +
		result.GapChars

	return result
}
