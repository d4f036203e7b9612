// Package align computes character-level alignments between two strings and
// derives the dissimilarity metrics used by the region matching engine.
package align

import "sort"

// OpKind identifies the kind of edit operation in an alignment.
type OpKind string

const (
	OpEqual   OpKind = "equal"
	OpReplace OpKind = "replace"
	OpDelete  OpKind = "delete"
	OpInsert  OpKind = "insert"
)

// Op describes one edit operation mapping a half-open rune range of the
// source string onto a half-open rune range of the target string.
type Op struct {
	Kind        OpKind
	SourceStart int
	SourceEnd   int
	TargetStart int
	TargetEnd   int
}

// matchBlock is a maximal run of equal runes at SourceStart/TargetStart.
type matchBlock struct {
	sourceStart int
	targetStart int
	size        int
}

// Opcodes aligns source against target and returns the full list of edit
// operations covering both strings, in source order. Comparison is
// case-sensitive and every rune participates; there is no junk heuristic.
func Opcodes(source, target string) []Op {
	a := []rune(source)
	b := []rune(target)

	blocks := matchingBlocks(a, b)

	ops := make([]Op, 0, len(blocks)*2)
	si, ti := 0, 0
	for _, block := range blocks {
		var kind OpKind
		switch {
		case si < block.sourceStart && ti < block.targetStart:
			kind = OpReplace
		case si < block.sourceStart:
			kind = OpDelete
		case ti < block.targetStart:
			kind = OpInsert
		}
		if kind != "" {
			ops = append(ops, Op{
				Kind:        kind,
				SourceStart: si,
				SourceEnd:   block.sourceStart,
				TargetStart: ti,
				TargetEnd:   block.targetStart,
			})
		}
		si = block.sourceStart + block.size
		ti = block.targetStart + block.size
		if block.size > 0 {
			ops = append(ops, Op{
				Kind:        OpEqual,
				SourceStart: block.sourceStart,
				SourceEnd:   si,
				TargetStart: block.targetStart,
				TargetEnd:   ti,
			})
		}
	}
	return ops
}

// matchingBlocks returns the list of maximal matching blocks between a and b,
// ordered by position, terminated by a zero-size sentinel at (len(a), len(b)).
func matchingBlocks(a, b []rune) []matchBlock {
	// Index every rune of b by position so longestMatch can walk candidate
	// positions directly.
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}

	type span struct{ alo, ahi, blo, bhi int }
	queue := []span{{0, len(a), 0, len(b)}}
	var blocks []matchBlock

	for len(queue) > 0 {
		s := queue[len(queue)-1]
		queue = queue[:len(queue)-1]

		m := longestMatch(a, b2j, s.alo, s.ahi, s.blo, s.bhi)
		if m.size == 0 {
			continue
		}
		blocks = append(blocks, m)
		if s.alo < m.sourceStart && s.blo < m.targetStart {
			queue = append(queue, span{s.alo, m.sourceStart, s.blo, m.targetStart})
		}
		if m.sourceStart+m.size < s.ahi && m.targetStart+m.size < s.bhi {
			queue = append(queue, span{m.sourceStart + m.size, s.ahi, m.targetStart + m.size, s.bhi})
		}
	}

	sort.Slice(blocks, func(i, j int) bool {
		if blocks[i].sourceStart != blocks[j].sourceStart {
			return blocks[i].sourceStart < blocks[j].sourceStart
		}
		return blocks[i].targetStart < blocks[j].targetStart
	})

	// Collapse adjacent blocks into single runs.
	merged := blocks[:0]
	for _, block := range blocks {
		n := len(merged)
		if n > 0 &&
			merged[n-1].sourceStart+merged[n-1].size == block.sourceStart &&
			merged[n-1].targetStart+merged[n-1].size == block.targetStart {
			merged[n-1].size += block.size
			continue
		}
		merged = append(merged, block)
	}

	return append(merged, matchBlock{len(a), len(b), 0})
}

// longestMatch finds the longest matching block within a[alo:ahi] and
// b[blo:bhi], preferring the earliest such block on ties.
func longestMatch(a []rune, b2j map[rune][]int, alo, ahi, blo, bhi int) matchBlock {
	best := matchBlock{sourceStart: alo, targetStart: blo}
	j2len := make(map[int]int)
	for i := alo; i < ahi; i++ {
		newj2len := make(map[int]int)
		for _, j := range b2j[a[i]] {
			if j < blo {
				continue
			}
			if j >= bhi {
				break
			}
			k := j2len[j-1] + 1
			newj2len[j] = k
			if k > best.size {
				best = matchBlock{sourceStart: i - k + 1, targetStart: j - k + 1, size: k}
			}
		}
		j2len = newj2len
	}
	return best
}
