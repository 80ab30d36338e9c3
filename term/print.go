// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/print.go
// Summary: Printable code point placement: narrow, wide, combining, IRM.
// Usage: Part of the Terminal state machine.

package term

import "github.com/framegrace/vtcore/grid"

// newCell builds a cell from the current brush and hyperlink.
func (t *Terminal) newCell(r rune) grid.Cell {
	b := t.cursor.Brush
	return grid.Cell{
		Rune:      r,
		FG:        b.FG,
		BG:        b.BG,
		UL:        b.UL,
		Attr:      b.Attr,
		Underline: b.Underline,
		Hyperlink: t.cursor.Hyperlink,
	}
}

// printRight returns the right margin that bounds printing at the cursor.
func (t *Terminal) printRight() int {
	if t.modes.LeftRightMargins && t.cursor.Col >= t.marginLeft && t.cursor.Col <= t.marginRight {
		return t.marginRight
	}
	return t.Cols() - 1
}

// wrapNow performs the deferred auto-wrap: continuation onto the next line,
// scrolling at the bottom margin.
func (t *Terminal) wrapNow() {
	g := t.grid()
	if l := g.Line(t.cursor.Row); l != nil {
		l.Wrapped = true
	}
	t.cursor.WrapPending = false
	left := 0
	if t.modes.LeftRightMargins {
		left = t.marginLeft
	}
	t.lineFeed()
	t.cursor.Col = left
	if l := g.Line(t.cursor.Row); l != nil && left < len(l.Cells) {
		l.Cells[left].Attr |= grid.AttrWrapCont
	}
}

// printNarrow writes a width-1 code point.
func (t *Terminal) printNarrow(r rune) {
	if t.cursor.WrapPending && t.modes.AutoWrap {
		t.wrapNow()
	}
	t.cursor.WrapPending = false
	right := t.printRight()
	if t.modes.Insert {
		t.grid().InsertCells(t.cursor.Row, t.cursor.Col, right, 1, grid.Cell{
			FG: t.cursor.Brush.FG, BG: t.cursor.Brush.BG,
		})
	}
	t.grid().SetCell(t.cursor.Row, t.cursor.Col, t.newCell(r))
	if t.cursor.Col == right {
		if t.modes.AutoWrap {
			t.cursor.WrapPending = true
		}
	} else {
		t.cursor.Col++
	}
	t.grid().Damage().CursorMoved = true
}

// printWide writes a width-2 code point as a head/tail pair. When only one
// column remains before the margin, the pair wraps first (auto-wrap) or
// overwrites the final column pair clamped (wrap off).
func (t *Terminal) printWide(r rune) {
	right := t.printRight()
	if t.cursor.WrapPending && t.modes.AutoWrap {
		t.wrapNow()
		right = t.printRight()
	}
	if t.cursor.Col+1 > right {
		if t.modes.AutoWrap {
			t.wrapNow()
			right = t.printRight()
		} else if t.cursor.Col > 0 {
			t.cursor.Col--
		}
	}
	if t.cursor.Col+1 > right {
		// One-column screen: a wide char cannot be placed at all.
		return
	}
	if t.modes.Insert {
		t.grid().InsertCells(t.cursor.Row, t.cursor.Col, right, 2, grid.Cell{
			FG: t.cursor.Brush.FG, BG: t.cursor.Brush.BG,
		})
	}
	head := t.newCell(r)
	head.Attr |= grid.AttrWideHead
	tail := t.newCell(0)
	tail.Rune = 0
	tail.Attr |= grid.AttrWideTail
	t.grid().SetCell(t.cursor.Row, t.cursor.Col, head)
	t.grid().SetCell(t.cursor.Row, t.cursor.Col+1, tail)
	if t.cursor.Col+1 == right {
		if t.modes.AutoWrap {
			t.cursor.Col = right
			t.cursor.WrapPending = true
		} else {
			t.cursor.Col = right
		}
	} else {
		t.cursor.Col += 2
	}
	t.grid().Damage().CursorMoved = true
}

// printCombining attaches a zero-width mark to the previously written cell.
func (t *Terminal) printCombining(r rune) {
	row, col := t.cursor.Row, t.cursor.Col
	if !t.cursor.WrapPending {
		col--
	}
	if col < 0 {
		return
	}
	c := t.grid().Cell(row, col)
	if c == nil {
		return
	}
	// A mark landing on a wide tail belongs to the head.
	if c.Attr&grid.AttrWideTail != 0 && col > 0 {
		col--
		c = t.grid().Cell(row, col)
		if c == nil {
			return
		}
	}
	if c.Rune == 0 {
		return
	}
	c.AttachCombining(r)
	t.grid().Damage().MarkCells(row, col, col)
}

// repeatLast implements REP: repeat the preceding graphic character.
func (t *Terminal) repeatLast(n int) {
	if t.lastGraphic == 0 || n < 1 {
		return
	}
	if n > t.Cols()*t.Rows() {
		n = t.Cols() * t.Rows()
	}
	for i := 0; i < n; i++ {
		t.Print(t.lastGraphic)
	}
}
