// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/erase.go
// Summary: ED/EL/ECH/DCH/ICH, selective erase (DECSCA/DECSED/DECSEL), DECALN.
// Usage: Part of the Terminal state machine.

package term

import "github.com/framegrace/vtcore/grid"

// eraseInDisplay implements ED. selective applies DECSED semantics:
// DECSCA-protected cells survive.
func (t *Terminal) eraseInDisplay(mode int, selective bool) {
	g := t.grid()
	rows, cols := t.Rows(), t.Cols()
	fill := t.fillFunc(selective)
	switch mode {
	case 0: // cursor to end of screen
		fill(t.cursor.Row, t.cursor.Col, t.cursor.Row, cols-1)
		if t.cursor.Row < rows-1 {
			fill(t.cursor.Row+1, 0, rows-1, cols-1)
		}
	case 1: // start of screen to cursor
		if t.cursor.Row > 0 {
			fill(0, 0, t.cursor.Row-1, cols-1)
		}
		fill(t.cursor.Row, 0, t.cursor.Row, t.cursor.Col)
	case 2: // whole screen
		fill(0, 0, rows-1, cols-1)
	case 3: // whole screen plus scrollback (xterm)
		fill(0, 0, rows-1, cols-1)
		g.EraseScrollback()
		g.Damage().MarkAll()
	}
	t.cursor.WrapPending = false
}

// eraseInLine implements EL / DECSEL.
func (t *Terminal) eraseInLine(mode int, selective bool) {
	fill := t.fillFunc(selective)
	switch mode {
	case 0:
		fill(t.cursor.Row, t.cursor.Col, t.cursor.Row, t.Cols()-1)
	case 1:
		fill(t.cursor.Row, 0, t.cursor.Row, t.cursor.Col)
	case 2:
		fill(t.cursor.Row, 0, t.cursor.Row, t.Cols()-1)
	}
	t.cursor.WrapPending = false
}

func (t *Terminal) fillFunc(selective bool) func(r0, c0, r1, c1 int) {
	g := t.grid()
	tpl := t.eraseCell()
	if selective {
		return func(r0, c0, r1, c1 int) { g.FillSelective(r0, c0, r1, c1, tpl) }
	}
	return func(r0, c0, r1, c1 int) { g.Fill(r0, c0, r1, c1, tpl) }
}

// eraseChars implements ECH: blank n cells from the cursor, no shifting.
func (t *Terminal) eraseChars(n int) {
	if n < 1 {
		n = 1
	}
	end := t.cursor.Col + n - 1
	if end >= t.Cols() {
		end = t.Cols() - 1
	}
	t.grid().Fill(t.cursor.Row, t.cursor.Col, t.cursor.Row, end, t.eraseCell())
	t.cursor.WrapPending = false
}

// insertChars implements ICH within the right margin.
func (t *Terminal) insertChars(n int) {
	if n < 1 {
		n = 1
	}
	t.grid().InsertCells(t.cursor.Row, t.cursor.Col, t.printRight(), n, t.eraseCell())
	t.cursor.WrapPending = false
}

// deleteChars implements DCH within the right margin.
func (t *Terminal) deleteChars(n int) {
	if n < 1 {
		n = 1
	}
	t.grid().DeleteCells(t.cursor.Row, t.cursor.Col, t.printRight(), n, t.eraseCell())
	t.cursor.WrapPending = false
}

// setProtection implements DECSCA: subsequent writes carry the protected
// attribute (1) or not (0/2).
func (t *Terminal) setProtection(mode int) {
	if mode == 1 {
		t.cursor.Brush.Attr |= grid.AttrProtected
	} else {
		t.cursor.Brush.Attr &^= grid.AttrProtected
	}
}

// screenAlignment implements DECALN: fill the screen with 'E', reset
// margins, home the cursor.
func (t *Terminal) screenAlignment() {
	t.resetMargins()
	tpl := grid.Cell{Rune: 'E'}
	t.grid().Fill(0, 0, t.Rows()-1, t.Cols()-1, tpl)
	t.moveCursor(0, 0)
}
