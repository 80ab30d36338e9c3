// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid_test.go
// Summary: Tests for ring storage, band scrolls, damage and cell edits.

package grid

import "testing"

// fillRow writes a marker string into a visible row.
func fillRow(g *Grid, row int, text string) {
	for i, r := range text {
		g.SetCell(row, i, Cell{Rune: r})
	}
}

func TestRingEviction(t *testing.T) {
	r := NewRing(3)
	var evicted []*Line
	for i := 0; i < 5; i++ {
		l := NewLine(4)
		l.Cells[0].Rune = rune('a' + i)
		if ev := r.Push(l); ev != nil {
			evicted = append(evicted, ev)
		}
	}
	if r.Len() != 3 {
		t.Fatalf("ring len = %d, want 3", r.Len())
	}
	if got := r.Line(0).Cells[0].Rune; got != 'c' {
		t.Errorf("oldest retained = %q, want c", got)
	}
	if got := r.Line(2).Cells[0].Rune; got != 'e' {
		t.Errorf("newest = %q, want e", got)
	}
	if len(evicted) != 2 || evicted[0].Cells[0].Rune != 'a' {
		t.Errorf("evicted = %d lines", len(evicted))
	}
}

func TestZeroCapacityRingDiscards(t *testing.T) {
	r := NewRing(0)
	if ev := r.Push(NewLine(4)); ev == nil {
		t.Error("zero-cap ring should hand the line straight back")
	}
	if r.Len() != 0 {
		t.Errorf("len = %d", r.Len())
	}
}

func TestScrollUpPromotesToScrollback(t *testing.T) {
	g := NewGrid(4, 10, 100)
	for i := 0; i < 4; i++ {
		fillRow(g, i, string(rune('0'+i)))
	}
	g.ScrollUp(0, 3, 0, 9, 5, Cell{}, true)

	if g.ScrollbackLen() != 5 {
		t.Fatalf("scrollback len = %d, want 5", g.ScrollbackLen())
	}
	for i := 0; i < 4; i++ {
		if got := g.ScrollbackLine(i).String(); got != string(rune('0'+i)) {
			t.Errorf("scrollback[%d] = %q", i, got)
		}
	}
	if got := g.ScrollbackLine(4).String(); got != "" {
		t.Errorf("scrollback[4] = %q, want blank", got)
	}
	for i := 0; i < 4; i++ {
		if got := g.Line(i).String(); got != "" {
			t.Errorf("visible[%d] = %q, want blank", i, got)
		}
	}
}

func TestScrollUpRegionDoesNotPromote(t *testing.T) {
	g := NewGrid(4, 10, 100)
	for i := 0; i < 4; i++ {
		fillRow(g, i, string(rune('0'+i)))
	}
	g.ScrollUp(1, 2, 0, 9, 1, Cell{}, true)
	if g.ScrollbackLen() != 0 {
		t.Errorf("region scroll promoted %d lines", g.ScrollbackLen())
	}
	if g.Line(1).String() != "2" || g.Line(2).String() != "" {
		t.Errorf("rows = %q %q", g.Line(1).String(), g.Line(2).String())
	}
	if g.Line(3).String() != "3" {
		t.Errorf("row outside region touched: %q", g.Line(3).String())
	}
}

func TestScrollDownFillsTop(t *testing.T) {
	g := NewGrid(4, 10, 0)
	for i := 0; i < 4; i++ {
		fillRow(g, i, string(rune('0'+i)))
	}
	g.ScrollDown(0, 3, 0, 9, 2, Cell{})
	if g.Line(0).String() != "" || g.Line(1).String() != "" {
		t.Errorf("top rows = %q %q", g.Line(0).String(), g.Line(1).String())
	}
	if g.Line(2).String() != "0" || g.Line(3).String() != "1" {
		t.Errorf("shifted rows = %q %q", g.Line(2).String(), g.Line(3).String())
	}
}

func TestMarginBandScroll(t *testing.T) {
	g := NewGrid(3, 6, 0)
	for i := 0; i < 3; i++ {
		fillRow(g, i, "abcdef")
	}
	// Scroll only columns 1..4 up by one.
	g.ScrollUp(0, 2, 1, 4, 1, Cell{}, false)
	if got := g.Line(0).String(); got != "abcdef" {
		t.Errorf("row0 = %q", got)
	}
	if got := g.Line(2).Cells[1].Rune; got != 0 && got != ' ' {
		t.Errorf("bottom band cell = %q, want blank", got)
	}
	if got := g.Line(2).Cells[0].Rune; got != 'a' {
		t.Errorf("outside-margin cell = %q, want a", got)
	}
}

func TestWideCellRepairOnOverwrite(t *testing.T) {
	g := NewGrid(2, 10, 0)
	head := Cell{Rune: '漢', Attr: AttrWideHead}
	tail := Cell{Attr: AttrWideTail}
	g.SetCell(0, 2, head)
	g.SetCell(0, 3, tail)

	// Overwriting the tail must blank the head.
	g.SetCell(0, 3, Cell{Rune: 'x'})
	if got := g.Cell(0, 2); got.Attr&AttrWideHead != 0 {
		t.Error("orphaned wide head left behind")
	}
	// Head/tail invariant across the row.
	for col := 0; col < 10; col++ {
		c := g.Cell(0, col)
		if c.Attr&AttrWideHead != 0 {
			n := g.Cell(0, col+1)
			if n == nil || n.Attr&AttrWideTail == 0 {
				t.Errorf("head at %d without tail", col)
			}
		}
	}
}

func TestWidthInvariantPerLine(t *testing.T) {
	g := NewGrid(1, 8, 0)
	g.SetCell(0, 0, Cell{Rune: 'a'})
	g.SetCell(0, 1, Cell{Rune: '漢', Attr: AttrWideHead})
	g.SetCell(0, 2, Cell{Attr: AttrWideTail})
	sum := 0
	for col := 0; col < 8; col++ {
		sum += g.Cell(0, col).Width()
	}
	if sum != 8 {
		t.Errorf("width sum = %d, want cols=8", sum)
	}
}

func TestInsertDeleteCells(t *testing.T) {
	g := NewGrid(1, 6, 0)
	fillRow(g, 0, "abcdef")
	g.InsertCells(0, 1, 5, 2, Cell{})
	if got := g.Line(0).String(); got != "a  bcd" {
		t.Errorf("after insert = %q", got)
	}
	g.DeleteCells(0, 1, 5, 2, Cell{})
	if got := g.Line(0).String(); got != "abcd" {
		t.Errorf("after delete = %q", got)
	}
}

func TestDamageTracksSpans(t *testing.T) {
	g := NewGrid(3, 10, 0)
	g.Damage().Reset()
	g.SetCell(1, 4, Cell{Rune: 'x'})
	g.SetCell(1, 7, Cell{Rune: 'y'})
	ld := g.Damage().Line(1)
	if !ld.Dirty || ld.MinCol != 4 || ld.MaxCol != 7 {
		t.Errorf("damage = %+v, want dirty 4..7", ld)
	}
	if g.Damage().Line(0).Dirty {
		t.Error("untouched line marked dirty")
	}
	g.Damage().Reset()
	if g.Damage().Any() {
		t.Error("damage survived reset")
	}
}

func TestFillClearsWrapFlag(t *testing.T) {
	g := NewGrid(2, 5, 0)
	g.Line(0).Wrapped = true
	g.Fill(0, 0, 0, 4, Cell{})
	if g.Line(0).Wrapped {
		t.Error("full-line fill kept the wrap flag")
	}
}

func TestFillSelectiveSkipsProtected(t *testing.T) {
	g := NewGrid(1, 4, 0)
	g.SetCell(0, 0, Cell{Rune: 'a'})
	g.SetCell(0, 1, Cell{Rune: 'b', Attr: AttrProtected})
	g.FillSelective(0, 0, 0, 3, Cell{})
	if g.Cell(0, 0).Rune == 'a' {
		t.Error("unprotected cell survived selective fill")
	}
	if g.Cell(0, 1).Rune != 'b' {
		t.Error("protected cell was erased")
	}
}

func TestHyperlinkTableInternAndCompact(t *testing.T) {
	ht := NewHyperlinkTable()
	a := ht.Intern("", "https://example.com")
	b := ht.Intern("", "https://example.com")
	c := ht.Intern("id=1", "https://other")
	if a != b {
		t.Errorf("same link interned twice: %d %d", a, b)
	}
	if a == c {
		t.Error("distinct links shared an id")
	}
	ht.Compact(map[int]struct{}{c: {}})
	if _, ok := ht.Lookup(a); ok {
		t.Error("compaction kept a dead id")
	}
	if _, ok := ht.Lookup(c); !ok {
		t.Error("compaction dropped a live id")
	}
}
