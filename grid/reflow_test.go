// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/reflow_test.go
// Summary: Tests for resize reflow: wrap re-breaking, identity round trips,
// cursor identity tracking.

package grid

import "testing"

// typeInto simulates printing with auto-wrap into the grid, returning the
// final cursor position the way a terminal would track it.
func typeInto(g *Grid, text string) CursorPos {
	cur := CursorPos{}
	for _, r := range text {
		if cur.Col >= g.Cols() {
			g.Line(cur.Row).Wrapped = true
			cur.Col = 0
			if cur.Row == g.Rows()-1 {
				g.ScrollUp(0, g.Rows()-1, 0, g.Cols()-1, 1, Cell{}, true)
			} else {
				cur.Row++
			}
			if c := g.Cell(cur.Row, 0); c != nil {
				c.Attr |= AttrWrapCont
			}
		}
		g.SetCell(cur.Row, cur.Col, Cell{Rune: r})
		cur.Col++
	}
	cur.Col--
	return cur
}

func visibleText(g *Grid) []string {
	out := make([]string, g.Rows())
	for i := range out {
		out[i] = g.Line(i).String()
	}
	return out
}

func TestReflowNarrow(t *testing.T) {
	g := NewGrid(4, 10, 100)
	cur := typeInto(g, "ABCDEFGHIJKLMNO") // wraps at col 10: row0 full, row1 "KLMNO"
	if g.Line(0).String() != "ABCDEFGHIJ" || g.Line(1).String() != "KLMNO" {
		t.Fatalf("setup rows = %v", visibleText(g))
	}
	cur = g.Resize(4, 5, true, cur)

	want := []string{"ABCDE", "FGHIJ", "KLMNO", ""}
	got := visibleText(g)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
	if !g.Line(0).Wrapped || !g.Line(1).Wrapped || g.Line(2).Wrapped {
		t.Errorf("wrap flags = %v %v %v", g.Line(0).Wrapped, g.Line(1).Wrapped, g.Line(2).Wrapped)
	}
	// Cursor stays on the last printed cell, O.
	if c := g.Cell(cur.Row, cur.Col); c == nil || c.Rune != 'O' {
		t.Errorf("cursor (%d,%d) not on O", cur.Row, cur.Col)
	}
}

func TestReflowRoundTripIdentity(t *testing.T) {
	g := NewGrid(4, 10, 100)
	cur := typeInto(g, "ABCDEFGHIJKLMNO")
	before := visibleText(g)

	cur = g.Resize(4, 5, true, cur)
	cur = g.Resize(4, 10, true, cur)

	after := visibleText(g)
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("row %d: %q != %q", i, after[i], before[i])
		}
	}
	if c := g.Cell(cur.Row, cur.Col); c == nil || c.Rune != 'O' {
		t.Errorf("cursor (%d,%d) lost the last-printed cell", cur.Row, cur.Col)
	}
}

func TestReflowWideCharNotSplit(t *testing.T) {
	g := NewGrid(2, 6, 100)
	// "ab" then a wide char spanning cols 2-3, then "cd" — 6 cols total.
	g.SetCell(0, 0, Cell{Rune: 'a'})
	g.SetCell(0, 1, Cell{Rune: 'b'})
	g.SetCell(0, 2, Cell{Rune: '漢', Attr: AttrWideHead})
	g.SetCell(0, 3, Cell{Attr: AttrWideTail})
	g.SetCell(0, 4, Cell{Rune: 'c'})
	g.SetCell(0, 5, Cell{Rune: 'd'})

	g.Resize(2, 3, true, CursorPos{Row: 0, Col: 5})
	// Breaking at 3 would split the pair; the head must start the next line.
	for row := 0; row < g.Rows(); row++ {
		l := g.Line(row)
		if len(l.Cells) == 0 {
			continue
		}
		if l.Cells[len(l.Cells)-1].Attr&AttrWideHead != 0 {
			t.Errorf("row %d ends with a dangling wide head", row)
		}
		if l.Cells[0].Attr&AttrWideTail != 0 {
			t.Errorf("row %d starts with an orphan wide tail", row)
		}
	}
}

func TestResizeRowsOnlyKeepsContent(t *testing.T) {
	g := NewGrid(4, 10, 100)
	for i := 0; i < 4; i++ {
		g.SetCell(i, 0, Cell{Rune: rune('0' + i)})
	}
	cur := g.Resize(2, 10, false, CursorPos{Row: 3, Col: 0})
	// The cursor line stays visible; earlier lines enter scrollback.
	if g.ScrollbackLen() != 2 {
		t.Fatalf("scrollback = %d, want 2", g.ScrollbackLen())
	}
	if got := g.Line(cur.Row).String(); got != "3" {
		t.Errorf("cursor row = %q, want 3", got)
	}

	cur = g.Resize(4, 10, false, cur)
	if g.ScrollbackLen() != 0 {
		t.Errorf("restore left %d lines in scrollback", g.ScrollbackLen())
	}
	if got := g.Line(0).String(); got != "0" {
		t.Errorf("row0 = %q after restore", got)
	}
	_ = cur
}

func TestAltScreenResizeTruncates(t *testing.T) {
	g := NewGrid(3, 8, 0)
	for i := 0; i < 3; i++ {
		fillRow(g, i, "abcdefgh")
	}
	g.Resize(3, 4, false, CursorPos{})
	if got := g.Line(0).String(); got != "abcd" {
		t.Errorf("truncated row = %q", got)
	}
	if g.ScrollbackLen() != 0 {
		t.Error("alt-style grid touched scrollback")
	}
	g.Resize(3, 8, false, CursorPos{})
	if got := g.Line(0).String(); got != "abcd" {
		t.Errorf("widened row = %q, want padding after abcd", got)
	}
}
