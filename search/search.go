// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search/search.go
// Summary: Regex search across scrollback + visible region. Matches span
// soft wraps; wrapping around the buffer ends is explicit.
// Usage: Runs on the terminal task against the live grid, or against a
// snapshot copy for background use.

package search

import (
	"regexp"
	"strings"

	"github.com/framegrace/vtcore/grid"
)

// Match is a line-anchored result range, inclusive on both ends.
type Match struct {
	Start Point
	End   Point
}

// Searcher holds a compiled pattern.
type Searcher struct {
	re *regexp.Regexp
}

// NewSearcher compiles a pattern. caseInsensitive folds ASCII and Unicode
// case via the (?i) flag.
func NewSearcher(pattern string, caseInsensitive bool) (*Searcher, error) {
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &Searcher{re: re}, nil
}

// logicalChunk is one wrap-chain flattened to text with a position map.
type logicalChunk struct {
	firstLine int // absolute index of the chain's first line
	lastLine  int
	text      string
	pos       []Point // pos[i] = buffer position of rune i
}

// chunks walks the buffer joining wrap chains into logical lines.
func chunks(buf Buffer) []logicalChunk {
	var out []logicalChunk
	total := buf.TotalLines()
	for i := 0; i < total; {
		first := i
		var b strings.Builder
		var pos []Point
		for {
			l := buf.AbsLine(i)
			if l == nil {
				i++
				break
			}
			occ := l.OccupiedLen()
			if l.Wrapped {
				occ = len(l.Cells)
			}
			for col := 0; col < occ; col++ {
				c := l.Cells[col]
				if c.Attr&grid.AttrWideTail != 0 {
					continue
				}
				r := c.Rune
				if r == 0 {
					r = ' '
				}
				b.WriteRune(r)
				pos = append(pos, Point{Line: i, Col: col})
			}
			wrapped := l.Wrapped
			i++
			if !wrapped || i >= total {
				break
			}
		}
		out = append(out, logicalChunk{firstLine: first, lastLine: i - 1, text: b.String(), pos: pos})
	}
	return out
}

// FindAll returns every match in buffer order, bounded by limit (≤0 means
// unbounded).
func (s *Searcher) FindAll(buf Buffer, limit int) []Match {
	var matches []Match
	for _, ch := range chunks(buf) {
		for _, loc := range s.re.FindAllStringIndex(ch.text, -1) {
			m, ok := ch.toMatch(loc[0], loc[1])
			if !ok {
				continue
			}
			matches = append(matches, m)
			if limit > 0 && len(matches) >= limit {
				return matches
			}
		}
	}
	return matches
}

// FindNext returns the first match strictly after from. With wrap set the
// scan continues from the top when the tail is exhausted.
func (s *Searcher) FindNext(buf Buffer, from Point, wrap bool) (Match, bool) {
	all := s.FindAll(buf, 0)
	for _, m := range all {
		if from.Less(m.Start) {
			return m, true
		}
	}
	if wrap && len(all) > 0 {
		return all[0], true
	}
	return Match{}, false
}

// FindPrev returns the last match strictly before from, wrapping to the
// bottom when asked.
func (s *Searcher) FindPrev(buf Buffer, from Point, wrap bool) (Match, bool) {
	all := s.FindAll(buf, 0)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].Start.Less(from) {
			return all[i], true
		}
	}
	if wrap && len(all) > 0 {
		return all[len(all)-1], true
	}
	return Match{}, false
}

// toMatch converts byte offsets within the chunk text to buffer positions.
func (ch *logicalChunk) toMatch(byteStart, byteEnd int) (Match, bool) {
	if byteEnd <= byteStart {
		return Match{}, false // empty matches carry no selectable range
	}
	runeStart := len([]rune(ch.text[:byteStart]))
	runeEnd := len([]rune(ch.text[:byteEnd])) - 1
	if runeStart >= len(ch.pos) || runeEnd >= len(ch.pos) {
		return Match{}, false
	}
	return Match{Start: ch.pos[runeStart], End: ch.pos[runeEnd]}, true
}
