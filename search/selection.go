// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search/selection.go
// Summary: Selection range algebra: character, word, line and block kinds,
// with soft-wrap-aware text materialization.
// Usage: Coordinates are absolute: line 0 is the oldest scrollback line.

package search

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"

	"github.com/framegrace/vtcore/grid"
)

// Buffer is the read surface selection and search operate on. grid.Grid
// satisfies it.
type Buffer interface {
	TotalLines() int
	AbsLine(i int) *grid.Line
	Cols() int
}

// Kind selects the selection semantics.
type Kind int

const (
	Character Kind = iota
	Word
	Line
	Block
)

// Point is an absolute buffer position.
type Point struct {
	Line int
	Col  int
}

// Less orders points top-to-bottom, left-to-right.
func (p Point) Less(q Point) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Col < q.Col
}

// Selection is an active range between an anchor and a head. The head moves
// as the pointer drags; the anchor stays where the gesture began.
type Selection struct {
	Anchor Point
	Head   Point
	Kind   Kind

	separators map[rune]bool
}

// New starts a selection of the given kind at p.
func New(kind Kind, p Point, wordSeparators string) *Selection {
	seps := make(map[rune]bool, len(wordSeparators))
	for _, r := range wordSeparators {
		seps[r] = true
	}
	return &Selection{Anchor: p, Head: p, Kind: kind, separators: seps}
}

// Extend moves the head, clamped to the buffer.
func (s *Selection) Extend(p Point, buf Buffer) {
	if p.Line < 0 {
		p.Line = 0
	}
	if max := buf.TotalLines() - 1; p.Line > max {
		p.Line = max
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if p.Col >= buf.Cols() {
		p.Col = buf.Cols() - 1
	}
	s.Head = p
}

// SetKind switches the selection kind mid-gesture (modifier chording).
func (s *Selection) SetKind(k Kind) { s.Kind = k }

// Range returns the normalized [start, end] of the selection, expanded per
// kind. Both bounds are inclusive cell positions.
func (s *Selection) Range(buf Buffer) (start, end Point) {
	start, end = s.Anchor, s.Head
	if end.Less(start) {
		start, end = end, start
	}
	switch s.Kind {
	case Word:
		start = s.wordStart(buf, start)
		end = s.wordEnd(buf, end)
	case Line:
		start.Col = 0
		end.Col = buf.Cols() - 1
	case Block:
		// Normalize columns independently of line order.
		if s.Head.Col < s.Anchor.Col {
			start.Col, end.Col = s.Head.Col, s.Anchor.Col
		} else {
			start.Col, end.Col = s.Anchor.Col, s.Head.Col
		}
	}
	return start, end
}

// Contains reports whether a cell position falls inside the selection.
func (s *Selection) Contains(p Point, buf Buffer) bool {
	start, end := s.Range(buf)
	if s.Kind == Block {
		return p.Line >= start.Line && p.Line <= end.Line &&
			p.Col >= start.Col && p.Col <= end.Col
	}
	if p.Line < start.Line || p.Line > end.Line {
		return false
	}
	if p.Line == start.Line && p.Col < start.Col {
		return false
	}
	if p.Line == end.Line && p.Col > end.Col {
		return false
	}
	return true
}

// wordStart walks left from p to the beginning of the word under it.
func (s *Selection) wordStart(buf Buffer, p Point) Point {
	if w, ok := wordSpanAt(buf, p, s.separators); ok {
		return Point{Line: p.Line, Col: w.start}
	}
	return p
}

// wordEnd walks right from p to the end of the word under it.
func (s *Selection) wordEnd(buf Buffer, p Point) Point {
	if w, ok := wordSpanAt(buf, p, s.separators); ok {
		return Point{Line: p.Line, Col: w.end}
	}
	return p
}

type wordSpan struct {
	start, end int // inclusive columns
}

// wordSpanAt finds the word under a position. The configured separator set
// is the primary boundary source: a word is the maximal separator-free run
// around the anchor. Inside ideographic text, where separators give no
// guidance, Unicode word segmentation takes over.
func wordSpanAt(buf Buffer, p Point, seps map[rune]bool) (wordSpan, bool) {
	l := buf.AbsLine(p.Line)
	if l == nil || p.Col < 0 || p.Col >= len(l.Cells) {
		return wordSpan{}, false
	}
	isSep := func(col int) bool {
		c := l.Cells[col]
		if c.Attr&grid.AttrWideTail != 0 {
			// A tail belongs to its head.
			return isSepRune(l.Cells[col-1].Rune, seps)
		}
		return isSepRune(c.Rune, seps)
	}
	if isSep(p.Col) {
		return wordSpan{}, false
	}
	start, end := p.Col, p.Col
	for start > 0 && !isSep(start-1) {
		start--
	}
	for end < len(l.Cells)-1 && !isSep(end+1) {
		end++
	}

	anchor := l.Cells[p.Col]
	if anchor.Attr&grid.AttrWideTail != 0 && p.Col > 0 {
		anchor = l.Cells[p.Col-1]
	}
	if !isIdeographic(anchor.Rune) {
		return wordSpan{start: start, end: end}, true
	}
	return unisegWordAt(l, start, end, p.Col)
}

func isSepRune(r rune, seps map[rune]bool) bool {
	return r == 0 || r == ' ' || seps[r]
}

func isIdeographic(r rune) bool {
	return unicode.Is(unicode.Han, r) || unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) || unicode.Is(unicode.Hangul, r)
}

// unisegWordAt segments the run [start, end] with UAX #29 and returns the
// word containing the anchor column.
func unisegWordAt(l *grid.Line, start, end, anchor int) (wordSpan, bool) {
	var b strings.Builder
	cols := make([]int, 0, end-start+1)
	widths := make([]int, 0, end-start+1)
	for col := start; col <= end; col++ {
		c := l.Cells[col]
		if c.Attr&grid.AttrWideTail != 0 {
			continue
		}
		b.WriteRune(c.Rune)
		cols = append(cols, col)
		widths = append(widths, c.Width())
	}
	text := b.String()

	runeIdx := 0
	state := -1
	remaining := text
	for len(remaining) > 0 {
		word, rest, newState := uniseg.FirstWordInString(remaining, state)
		n := len([]rune(word))
		first, last := runeIdx, runeIdx+n-1
		if first < len(cols) && last < len(cols) {
			span := wordSpan{start: cols[first], end: cols[last] + widths[last] - 1}
			if anchor >= span.start && anchor <= span.end {
				return span, true
			}
		}
		runeIdx += n
		remaining = rest
		state = newState
	}
	return wordSpan{start: start, end: end}, true
}

// Text materializes the selection. Soft-wrapped line breaks produce no
// newline; hard breaks do. Trailing blanks per line are trimmed except
// inside block selections.
func (s *Selection) Text(buf Buffer) string {
	start, end := s.Range(buf)
	var b strings.Builder
	if s.Kind == Block {
		for line := start.Line; line <= end.Line; line++ {
			if line > start.Line {
				b.WriteByte('\n')
			}
			b.WriteString(lineTextRange(buf, line, start.Col, end.Col, true))
		}
		return b.String()
	}
	for line := start.Line; line <= end.Line; line++ {
		from, to := 0, buf.Cols()-1
		if line == start.Line {
			from = start.Col
		}
		if line == end.Line {
			to = end.Col
		}
		b.WriteString(lineTextRange(buf, line, from, to, false))
		if line < end.Line {
			if l := buf.AbsLine(line); l != nil && !l.Wrapped {
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}

// lineTextRange renders columns [from, to] of a line. keepPad preserves
// trailing blanks (block selections are rectangular).
func lineTextRange(buf Buffer, line, from, to int, keepPad bool) string {
	l := buf.AbsLine(line)
	if l == nil {
		return ""
	}
	if to >= len(l.Cells) {
		to = len(l.Cells) - 1
	}
	var b strings.Builder
	for col := from; col <= to && col >= 0; col++ {
		c := l.Cells[col]
		if c.Attr&grid.AttrWideTail != 0 {
			continue
		}
		if c.Rune == 0 {
			b.WriteByte(' ')
		} else {
			b.WriteString(c.Text())
		}
	}
	out := b.String()
	if !keepPad {
		out = strings.TrimRight(out, " ")
	}
	return out
}
