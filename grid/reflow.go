// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/reflow.go
// Summary: Resize with soft-wrap reflow; cursor tracked by cell identity.
// Usage: Called from the terminal task on resize submissions.

package grid

// CursorPos is a visible-region cursor position handed through a resize.
type CursorPos struct {
	Row, Col int
}

// Resize changes the grid dimensions. When reflow is true (primary screen
// with autowrap), soft-wrapped chains are joined into logical lines and
// re-broken at the new width; the cursor keeps its identity relative to the
// cell that last printed. When reflow is false (alt screen, or autowrap
// off), lines are truncated or padded in place.
//
// The returned position is the cursor's new visible location, clamped.
func (g *Grid) Resize(rows, cols int, reflow bool, cur CursorPos) CursorPos {
	if rows <= 0 || cols <= 0 || (rows == g.rows && cols == g.cols) {
		return g.clampCursor(cur)
	}
	if !reflow {
		cur = g.resizeSimple(rows, cols, cur)
	} else {
		cur = g.resizeReflow(rows, cols, cur)
	}
	g.damage.Resize(g.rows, g.cols)
	return cur
}

// resizeSimple truncates or pads each line, then adjusts the row count.
func (g *Grid) resizeSimple(rows, cols int, cur CursorPos) CursorPos {
	for _, l := range g.screen {
		l.Resize(cols)
	}
	for i := 0; i < g.scrollback.Len(); i++ {
		g.scrollback.Line(i).Resize(cols)
	}
	g.cols = cols

	switch {
	case rows < g.rows:
		// Keep the cursor visible: prefer trimming blank lines off the
		// bottom, otherwise scroll the top into scrollback.
		excess := g.rows - rows
		for excess > 0 && g.rows-1 > cur.Row && g.screen[g.rows-1].OccupiedLen() == 0 {
			g.screen = g.screen[:g.rows-1]
			g.rows--
			excess--
		}
		for excess > 0 {
			evicted := g.screen[0]
			if g.scrollback.Cap() > 0 {
				g.scrollback.Push(evicted)
			}
			g.screen = g.screen[1:]
			g.rows--
			cur.Row--
			excess--
		}
	case rows > g.rows:
		// Restore lines from scrollback first, then pad blanks below.
		for g.rows < rows && g.scrollback.Len() > 0 {
			l := g.scrollback.PopNewest()
			l.Resize(cols)
			g.screen = append([]*Line{l}, g.screen...)
			g.rows++
			cur.Row++
		}
		for g.rows < rows {
			g.screen = append(g.screen, NewLine(cols))
			g.rows++
		}
	}
	g.rows = rows
	return g.clampCursor(cur)
}

// logicalLine is a wrap-chain joined into a single run of cells.
type logicalLine struct {
	cells []Cell
}

// resizeReflow joins wrap chains, re-breaks them at the new width and
// rebuilds scrollback + visible so the newest content stays anchored at the
// cursor.
func (g *Grid) resizeReflow(rows, cols int, cur CursorPos) CursorPos {
	total := g.TotalLines()
	absCursor := g.scrollback.Len() + cur.Row

	// Trailing all-blank visible lines below the cursor carry no content;
	// dropping them keeps a half-empty screen from pushing history away.
	for total-1 > absCursor {
		l := g.AbsLine(total - 1)
		if l.OccupiedLen() != 0 || l.Wrapped {
			break
		}
		total--
	}

	var logical []logicalLine
	cursorLogical, cursorOffset := -1, 0
	for i := 0; i < total; {
		var cells []Cell
		for {
			l := g.AbsLine(i)
			occ := len(l.Cells)
			if !l.Wrapped {
				occ = l.OccupiedLen()
			}
			if i == absCursor && cursorLogical < 0 {
				cursorLogical = len(logical)
				cursorOffset = len(cells) + cur.Col
			}
			cells = append(cells, l.Cells[:occ]...)
			i++
			if !l.Wrapped || i >= total {
				break
			}
		}
		logical = append(logical, logicalLine{cells: cells})
	}
	if cursorLogical < 0 {
		cursorLogical = len(logical)
		cursorOffset = cur.Col
	}

	// Re-break every logical line at the new width. Wide heads never split
	// from their tails across a break.
	type physical struct {
		line *Line
		// logical coordinates of the first cell, for cursor mapping
		logIdx, logOff int
	}
	var phys []physical
	newCursorPhys, newCursorCol := -1, 0
	for li, ll := range logical {
		start := 0
		for {
			end := start + cols
			if end > len(ll.cells) {
				end = len(ll.cells)
			}
			if end < len(ll.cells) && ll.cells[end-1].Attr&AttrWideHead != 0 {
				end--
			}
			nl := NewLine(cols)
			copy(nl.Cells, ll.cells[start:end])
			wrapped := end < len(ll.cells)
			nl.Wrapped = wrapped
			if wrapped {
				// continuation marker on the first cell of the next chunk
				ll.cells[end].Attr |= AttrWrapCont
			}
			phys = append(phys, physical{line: nl, logIdx: li, logOff: start})
			if li == cursorLogical && newCursorPhys < 0 &&
				cursorOffset >= start && (cursorOffset < end || !wrapped) {
				newCursorPhys = len(phys) - 1
				newCursorCol = cursorOffset - start
			}
			start = end
			if start >= len(ll.cells) {
				break
			}
		}
	}
	if cursorLogical >= len(logical) {
		// Cursor sat on a trimmed blank line; append one to stand on.
		phys = append(phys, physical{line: NewLine(cols), logIdx: cursorLogical})
		newCursorPhys = len(phys) - 1
		newCursorCol = cur.Col
	}
	if newCursorPhys < 0 {
		newCursorPhys = len(phys) - 1
		newCursorCol = 0
	}

	// Partition: the last `rows` physical lines are visible; everything
	// older returns to the ring. Keep the cursor on screen even if it is
	// not within the final rows.
	firstVisible := len(phys) - rows
	if firstVisible < 0 {
		firstVisible = 0
	}
	if newCursorPhys < firstVisible {
		firstVisible = newCursorPhys
	}

	ring := NewRing(g.scrollback.Cap())
	for i := 0; i < firstVisible; i++ {
		ring.Push(phys[i].line)
	}
	screen := make([]*Line, 0, rows)
	for i := firstVisible; i < len(phys) && len(screen) < rows; i++ {
		screen = append(screen, phys[i].line)
	}
	for len(screen) < rows {
		screen = append(screen, NewLine(cols))
	}

	g.scrollback = ring
	g.screen = screen
	g.rows, g.cols = rows, cols
	return g.clampCursor(CursorPos{Row: newCursorPhys - firstVisible, Col: newCursorCol})
}

func (g *Grid) clampCursor(cur CursorPos) CursorPos {
	if cur.Row < 0 {
		cur.Row = 0
	}
	if cur.Row >= g.rows {
		cur.Row = g.rows - 1
	}
	if cur.Col < 0 {
		cur.Col = 0
	}
	if cur.Col >= g.cols {
		cur.Col = g.cols - 1
	}
	return cur
}
