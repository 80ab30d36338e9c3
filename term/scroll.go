// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/scroll.go
// Summary: Scroll region handling: IND/RI/NEL, SU/SD, IL/DL, DECSTBM/DECSLRM.
// Usage: Part of the Terminal state machine.

package term

import "github.com/framegrace/vtcore/grid"

// eraseCell returns the template used to fill vacated cells: blank with the
// current background, no attributes.
func (t *Terminal) eraseCell() grid.Cell {
	return grid.Cell{FG: grid.DefaultFG, BG: t.cursor.Brush.BG}
}

// scrollLeft/scrollRight return the column band for scroll operations.
func (t *Terminal) scrollLeft() int {
	if t.modes.LeftRightMargins {
		return t.marginLeft
	}
	return 0
}

func (t *Terminal) scrollRight() int {
	if t.modes.LeftRightMargins {
		return t.marginRight
	}
	return t.Cols() - 1
}

// scrollUp scrolls the region band up n lines. Promotion into scrollback
// happens inside the grid, only for full-screen primary scrolls.
func (t *Terminal) scrollUp(n int) {
	t.grid().ScrollUp(t.marginTop, t.marginBottom, t.scrollLeft(), t.scrollRight(), n, t.eraseCell(), true)
}

// scrollDown scrolls the region band down n lines.
func (t *Terminal) scrollDown(n int) {
	t.grid().ScrollDown(t.marginTop, t.marginBottom, t.scrollLeft(), t.scrollRight(), n, t.eraseCell())
}

// lineFeed implements IND/LF: move down, scrolling at the bottom margin.
func (t *Terminal) lineFeed() {
	t.grid().Damage().MarkLine(t.cursor.Row)
	t.cursor.WrapPending = false
	outsideBand := t.modes.LeftRightMargins &&
		(t.cursor.Col < t.marginLeft || t.cursor.Col > t.marginRight)
	switch {
	case t.cursor.Row == t.marginBottom:
		if !outsideBand {
			t.scrollUp(1)
		}
	case t.cursor.Row < t.Rows()-1:
		t.cursor.Row++
	}
	t.grid().Damage().MarkLine(t.cursor.Row)
	t.grid().Damage().CursorMoved = true
}

// reverseIndex implements RI: move up, scrolling at the top margin.
func (t *Terminal) reverseIndex() {
	t.grid().Damage().MarkLine(t.cursor.Row)
	t.cursor.WrapPending = false
	outsideBand := t.modes.LeftRightMargins &&
		(t.cursor.Col < t.marginLeft || t.cursor.Col > t.marginRight)
	switch {
	case t.cursor.Row == t.marginTop:
		if !outsideBand {
			t.scrollDown(1)
		}
	case t.cursor.Row > 0:
		t.cursor.Row--
	}
	t.grid().Damage().MarkLine(t.cursor.Row)
	t.grid().Damage().CursorMoved = true
}

// nextLine implements NEL: line feed plus carriage return.
func (t *Terminal) nextLine() {
	t.lineFeed()
	t.carriageReturn()
}

// insertLines implements IL: blank lines open at the cursor, pushing the
// region's tail down. No-op outside the scroll region.
func (t *Terminal) insertLines(n int) {
	if t.cursor.Row < t.marginTop || t.cursor.Row > t.marginBottom {
		return
	}
	if n < 1 {
		n = 1
	}
	t.cursor.WrapPending = false
	t.grid().ScrollDown(t.cursor.Row, t.marginBottom, t.scrollLeft(), t.scrollRight(), n, t.eraseCell())
	t.carriageReturn()
}

// deleteLines implements DL: lines vanish at the cursor, the region's tail
// rises, blanks fill the bottom.
func (t *Terminal) deleteLines(n int) {
	if t.cursor.Row < t.marginTop || t.cursor.Row > t.marginBottom {
		return
	}
	if n < 1 {
		n = 1
	}
	t.cursor.WrapPending = false
	t.grid().ScrollUp(t.cursor.Row, t.marginBottom, t.scrollLeft(), t.scrollRight(), n, t.eraseCell(), false)
	t.carriageReturn()
}

// setScrollRegion implements DECSTBM. Parameters are 1-based inclusive;
// zero means the respective edge. The cursor homes afterwards.
func (t *Terminal) setScrollRegion(top, bottom int) {
	if top < 1 {
		top = 1
	}
	if bottom < 1 || bottom > t.Rows() {
		bottom = t.Rows()
	}
	if top >= bottom {
		return
	}
	t.marginTop = top - 1
	t.marginBottom = bottom - 1
	t.cursorAbsolute(0, 0)
}

// setLeftRightMargins implements DECSLRM, honoured only under DECLRMM.
func (t *Terminal) setLeftRightMargins(left, right int) {
	if !t.modes.LeftRightMargins {
		return
	}
	if left < 1 {
		left = 1
	}
	if right < 1 || right > t.Cols() {
		right = t.Cols()
	}
	if left >= right {
		return
	}
	t.marginLeft = left - 1
	t.marginRight = right - 1
	t.cursorAbsolute(0, 0)
}
