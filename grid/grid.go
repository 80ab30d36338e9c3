// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid.go
// Summary: Scrollback ring plus visible region; band scrolls and erases.
// Usage: Owned by the terminal task. All mutations mark damage.

package grid

// Grid is the cell store for one screen: a bounded scrollback ring of
// historical lines plus a rows×cols visible region. The alt screen is a
// second Grid with zero scrollback capacity.
type Grid struct {
	rows, cols int
	screen     []*Line
	scrollback *Ring
	damage     *Damage

	// OnScrollOut observes each line the moment it is promoted into
	// scrollback, before any eviction. Used for history indexing.
	OnScrollOut func(globalIdx int64, l *Line)
	scrolledOut int64
}

// NewGrid returns a grid with the given visible dimensions and scrollback
// capacity. Pass capacity 0 for an alt screen.
func NewGrid(rows, cols, scrollbackCap int) *Grid {
	g := &Grid{
		rows:       rows,
		cols:       cols,
		screen:     make([]*Line, rows),
		scrollback: NewRing(scrollbackCap),
		damage:     NewDamage(rows, cols),
	}
	for i := range g.screen {
		g.screen[i] = NewLine(cols)
	}
	return g
}

// Rows returns the visible row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the visible column count.
func (g *Grid) Cols() int { return g.cols }

// Damage returns the grid's damage tracker.
func (g *Grid) Damage() *Damage { return g.damage }

// Line returns the visible line at row, or nil out of range.
func (g *Grid) Line(row int) *Line {
	if row < 0 || row >= g.rows {
		return nil
	}
	return g.screen[row]
}

// Cell returns a pointer to the cell at (row, col), or nil out of range.
func (g *Grid) Cell(row, col int) *Cell {
	l := g.Line(row)
	if l == nil || col < 0 || col >= len(l.Cells) {
		return nil
	}
	return &l.Cells[col]
}

// SetCell writes a cell and marks damage. Writing into half of a wide pair
// first blanks the other half so the head/tail invariant holds.
func (g *Grid) SetCell(row, col int, c Cell) {
	l := g.Line(row)
	if l == nil || col < 0 || col >= len(l.Cells) {
		return
	}
	old := l.Cells[col]
	if old.Attr&(AttrWideHead|AttrWideTail) != 0 && c.Attr&(AttrWideHead|AttrWideTail) == 0 {
		l.ClearWide(col)
		g.damage.MarkCells(row, col-1, col+1)
	}
	l.Cells[col] = c
	g.damage.MarkCells(row, col, col)
}

// ScrollbackLen returns the number of retained scrollback lines.
func (g *Grid) ScrollbackLen() int { return g.scrollback.Len() }

// ScrollbackLine returns scrollback line i, oldest first.
func (g *Grid) ScrollbackLine(i int) *Line { return g.scrollback.Line(i) }

// SetScrollbackCap rebuilds the ring with a new capacity.
func (g *Grid) SetScrollbackCap(capacity int) { g.scrollback.SetCap(capacity) }

// TotalLines returns scrollback length plus visible rows.
func (g *Grid) TotalLines() int { return g.scrollback.Len() + g.rows }

// AbsLine addresses scrollback and visible lines with one index:
// 0 is the oldest scrollback line, ScrollbackLen() is visible row 0.
func (g *Grid) AbsLine(i int) *Line {
	if i < g.scrollback.Len() {
		return g.scrollback.Line(i)
	}
	return g.Line(i - g.scrollback.Len())
}

// EraseScrollback drops all history lines (xterm ED 3).
func (g *Grid) EraseScrollback() {
	g.scrollback.Clear()
}

// ScrollUp scrolls the band [top, bottom] up by n lines within the column
// band [left, right], filling vacated cells from tpl. With promote set, the
// top line enters scrollback — but only for a full-screen, full-width
// scroll on a grid that has scrollback capacity. Delete-line style scrolls
// pass promote=false and always discard.
func (g *Grid) ScrollUp(top, bottom, left, right, n int, tpl Cell, promote bool) {
	top, bottom, left, right, n = g.clampBand(top, bottom, left, right, n)
	if n == 0 {
		return
	}
	bandH := bottom - top + 1
	fullWidth := left == 0 && right == g.cols-1
	fullScreen := top == 0 && bottom == g.rows-1
	if promote && fullWidth && fullScreen && g.scrollback.Cap() > 0 {
		// Over-long scrolls still promote blank lines into history, the
		// way a stream of that many newlines would. Bound the work by what
		// the ring can actually retain.
		if max := bandH + g.scrollback.Cap(); n > max {
			n = max
		}
		for i := 0; i < n; i++ {
			if g.OnScrollOut != nil {
				g.OnScrollOut(g.scrolledOut, g.screen[0])
			}
			g.scrolledOut++
			g.scrollback.Push(g.screen[0])
			copy(g.screen, g.screen[1:])
			nl := NewLine(g.cols)
			nl.Fill(0, g.cols, tpl)
			g.screen[g.rows-1] = nl
		}
		g.damage.MarkAll()
		return
	}
	if n > bandH {
		n = bandH
	}
	if fullWidth {
		for i := 0; i < n; i++ {
			for y := top; y < bottom; y++ {
				g.screen[y] = g.screen[y+1]
			}
			nl := NewLine(g.cols)
			nl.Fill(0, g.cols, tpl)
			g.screen[bottom] = nl
		}
	} else {
		// DECLRMM band: shift only the margin columns.
		for y := top; y <= bottom; y++ {
			src := y + n
			dst := g.screen[y]
			if src <= bottom {
				copyCells(dst.Cells[left:right+1], g.screen[src].Cells[left:right+1])
			} else {
				dst.Fill(left, right+1, tpl)
			}
		}
	}
	for y := top; y <= bottom; y++ {
		g.damage.MarkCells(y, left, right)
	}
}

// ScrollDown scrolls the band [top, bottom] down by n lines within
// [left, right], filling vacated cells from tpl. Lines never leave the
// bottom into scrollback.
func (g *Grid) ScrollDown(top, bottom, left, right, n int, tpl Cell) {
	top, bottom, left, right, n = g.clampBand(top, bottom, left, right, n)
	if n == 0 {
		return
	}
	if bandH := bottom - top + 1; n > bandH {
		n = bandH
	}
	if left == 0 && right == g.cols-1 {
		for i := 0; i < n; i++ {
			for y := bottom; y > top; y-- {
				g.screen[y] = g.screen[y-1]
			}
			nl := NewLine(g.cols)
			nl.Fill(0, g.cols, tpl)
			g.screen[top] = nl
		}
	} else {
		for y := bottom; y >= top; y-- {
			src := y - n
			dst := g.screen[y]
			if src >= top {
				copyCells(dst.Cells[left:right+1], g.screen[src].Cells[left:right+1])
			} else {
				dst.Fill(left, right+1, tpl)
			}
		}
	}
	for y := top; y <= bottom; y++ {
		g.damage.MarkCells(y, left, right)
	}
}

// Fill sets every cell of the rectangle [r0,c0]..[r1,c1] inclusive to tpl.
func (g *Grid) Fill(r0, c0, r1, c1 int, tpl Cell) {
	for y := r0; y <= r1 && y < g.rows; y++ {
		if y < 0 {
			continue
		}
		l := g.screen[y]
		from, to := c0, c1
		if from < 0 {
			from = 0
		}
		if to >= g.cols {
			to = g.cols - 1
		}
		if from > 0 {
			l.ClearWide(from)
		}
		if to < g.cols-1 {
			l.ClearWide(to)
		}
		l.Fill(from, to+1, tpl)
		if from == 0 {
			l.Wrapped = false
		}
		g.damage.MarkCells(y, from, to)
	}
}

// FillSelective behaves like Fill but leaves DECSCA-protected cells alone.
func (g *Grid) FillSelective(r0, c0, r1, c1 int, tpl Cell) {
	for y := r0; y <= r1 && y < g.rows; y++ {
		if y < 0 {
			continue
		}
		l := g.screen[y]
		for x := c0; x <= c1 && x < g.cols; x++ {
			if x < 0 || l.Cells[x].Attr&AttrProtected != 0 {
				continue
			}
			l.ClearWide(x)
			l.Cells[x] = tpl.clone()
		}
		g.damage.MarkCells(y, c0, c1)
	}
}

// InsertCells shifts cells right from col within [col, right], inserting n
// template cells. The rightmost cells fall off the margin.
func (g *Grid) InsertCells(row, col, right, n int, tpl Cell) {
	l := g.Line(row)
	if l == nil || col < 0 || col >= g.cols {
		return
	}
	if right >= g.cols {
		right = g.cols - 1
	}
	if n > right-col+1 {
		n = right - col + 1
	}
	l.ClearWide(col)
	l.ClearWide(right)
	copy(l.Cells[col+n:right+1], l.Cells[col:right+1-n])
	l.Fill(col, col+n, tpl)
	g.damage.MarkCells(row, col, right)
}

// DeleteCells shifts cells left into col within [col, right], back-filling n
// template cells at the margin.
func (g *Grid) DeleteCells(row, col, right, n int, tpl Cell) {
	l := g.Line(row)
	if l == nil || col < 0 || col >= g.cols {
		return
	}
	if right >= g.cols {
		right = g.cols - 1
	}
	if n > right-col+1 {
		n = right - col + 1
	}
	l.ClearWide(col)
	copy(l.Cells[col:right+1-n], l.Cells[col+n:right+1])
	l.Fill(right+1-n, right+1, tpl)
	g.damage.MarkCells(row, col, right)
}

// Clear blanks the visible region, leaving scrollback untouched.
func (g *Grid) Clear(tpl Cell) {
	g.Fill(0, 0, g.rows-1, g.cols-1, tpl)
}

// HyperlinkIDs collects every hyperlink id referenced by scrollback and the
// visible region.
func (g *Grid) HyperlinkIDs() map[int]struct{} {
	live := make(map[int]struct{})
	for i := 0; i < g.scrollback.Len(); i++ {
		g.scrollback.Line(i).HyperlinkIDs(live)
	}
	for _, l := range g.screen {
		l.HyperlinkIDs(live)
	}
	return live
}

func (g *Grid) clampBand(top, bottom, left, right, n int) (int, int, int, int, int) {
	if top < 0 {
		top = 0
	}
	if bottom >= g.rows {
		bottom = g.rows - 1
	}
	if left < 0 {
		left = 0
	}
	if right >= g.cols {
		right = g.cols - 1
	}
	if top > bottom || left > right || n <= 0 {
		return top, bottom, left, right, 0
	}
	return top, bottom, left, right, n
}

func copyCells(dst, src []Cell) {
	for i := range src {
		dst[i] = src[i].clone()
	}
}
