// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term_test.go
// Summary: Terminal state machine tests: printing, SGR, alt screen,
// scrolling, hyperlinks, wrap-pending, mode reports.

package term

import (
	"strings"
	"testing"

	"github.com/framegrace/vtcore/config"
	"github.com/framegrace/vtcore/grid"
	"github.com/framegrace/vtcore/vtparse"
)

// testTerm couples a terminal with a parser and captures responses.
type testTerm struct {
	*Terminal
	parser    *vtparse.Parser
	responses []byte
}

func newTestTerm(rows, cols int) *testTerm {
	tt := &testTerm{
		Terminal: New(rows, cols, config.Config{}),
		parser:   vtparse.New(),
	}
	tt.Respond = func(b []byte) { tt.responses = append(tt.responses, b...) }
	return tt
}

func (tt *testTerm) feed(s string) {
	tt.parser.Advance(tt.Terminal, []byte(s))
}

func (tt *testTerm) cellText(row, col int) string {
	c := tt.Grid().Cell(row, col)
	if c == nil {
		return ""
	}
	return c.Text()
}

func (tt *testTerm) rowText(row int) string {
	l := tt.Grid().Line(row)
	if l == nil {
		return ""
	}
	return l.String()
}

func TestPrintWithSgr(t *testing.T) {
	tt := newTestTerm(24, 80)
	tt.feed("A\x1b[31mB\x1b[0mC")

	if tt.rowText(0) != "ABC" {
		t.Fatalf("row 0 = %q", tt.rowText(0))
	}
	a := tt.Grid().Cell(0, 0)
	b := tt.Grid().Cell(0, 1)
	c := tt.Grid().Cell(0, 2)
	if !a.FG.IsDefault() {
		t.Errorf("A fg = %v, want default", a.FG)
	}
	if b.FG != grid.Indexed(1) {
		t.Errorf("B fg = %v, want red", b.FG)
	}
	if !c.FG.IsDefault() {
		t.Errorf("C fg = %v, want default", c.FG)
	}
	if row, col := tt.CursorPos(); row != 0 || col != 3 {
		t.Errorf("cursor = (%d,%d), want (0,3)", row, col)
	}
	ld := tt.Grid().Damage().Line(0)
	if !ld.Dirty || ld.MinCol > 0 || ld.MaxCol < 2 {
		t.Errorf("damage = %+v, want cols 0..2", ld)
	}
}

func TestAltScreenRoundTrip(t *testing.T) {
	tt := newTestTerm(24, 80)
	tt.feed("\x1b[6;11H") // cursor to (5,10)
	tt.feed("before")
	tt.feed("\x1b[6;11H")

	tt.feed("\x1b[?1049h\x1b[Halt")
	if !tt.ModeState().AltScreen {
		t.Fatal("not on alt screen")
	}
	if tt.rowText(0) != "alt" {
		t.Errorf("alt row 0 = %q", tt.rowText(0))
	}

	tt.feed("\x1b[?1049l")
	if tt.ModeState().AltScreen {
		t.Fatal("still on alt screen")
	}
	if tt.rowText(5) != "          before" {
		t.Errorf("primary row 5 = %q", tt.rowText(5))
	}
	if row, col := tt.CursorPos(); row != 5 || col != 10 {
		t.Errorf("cursor = (%d,%d), want (5,10)", row, col)
	}
}

func TestScrollUpIntoScrollback(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("0\r\n1\r\n2\r\n3")
	tt.feed("\x1b[5S")

	g := tt.Grid()
	for i := 0; i < 4; i++ {
		if got := tt.rowText(i); got != "" {
			t.Errorf("visible row %d = %q, want blank", i, got)
		}
	}
	if g.ScrollbackLen() != 5 {
		t.Fatalf("scrollback = %d, want 5", g.ScrollbackLen())
	}
	for i := 0; i < 4; i++ {
		if got := g.ScrollbackLine(i).String(); got != string(rune('0'+i)) {
			t.Errorf("scrollback[%d] = %q", i, got)
		}
	}
	if got := g.ScrollbackLine(4).String(); got != "" {
		t.Errorf("scrollback[4] = %q, want blank", got)
	}
}

func TestHyperlinkInterning(t *testing.T) {
	tt := newTestTerm(24, 80)
	tt.feed("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\plain")

	first := tt.Grid().Cell(0, 0).Hyperlink
	if first == 0 {
		t.Fatal("link cells carry no hyperlink id")
	}
	for col := 1; col < 4; col++ {
		if got := tt.Grid().Cell(0, col).Hyperlink; got != first {
			t.Errorf("col %d hyperlink = %d, want %d", col, got, first)
		}
	}
	if got := tt.Grid().Cell(0, 4).Hyperlink; got != 0 {
		t.Errorf("cell after close still linked: %d", got)
	}
	h, ok := tt.Links().Lookup(first)
	if !ok || h.URI != "https://example.com" {
		t.Errorf("lookup = %+v ok=%v", h, ok)
	}
}

func TestWrapPendingSemantics(t *testing.T) {
	tt := newTestTerm(4, 5)
	tt.feed("abcde")
	// Wrap is pending: cursor sits on the last column, nothing wrapped yet.
	if row, col := tt.CursorPos(); row != 0 || col != 4 {
		t.Fatalf("cursor = (%d,%d), want (0,4)", row, col)
	}
	if tt.rowText(1) != "" {
		t.Fatal("wrapped early")
	}
	tt.feed("f")
	if tt.rowText(1) != "f" {
		t.Errorf("row 1 = %q", tt.rowText(1))
	}
	if !tt.Grid().Line(0).Wrapped {
		t.Error("line 0 lost its wrap flag")
	}

	// An explicit cursor move consumes the pending wrap.
	tt2 := newTestTerm(4, 5)
	tt2.feed("abcde\x1b[Hx")
	if tt2.rowText(1) != "" {
		t.Error("cursor move did not consume wrap-pending")
	}
}

func TestAutoWrapOff(t *testing.T) {
	tt := newTestTerm(4, 5)
	tt.feed("\x1b[?7l")
	tt.feed("abcdefgh")
	if tt.rowText(0) != "abcdh" {
		t.Errorf("row 0 = %q, want overwrite at last column", tt.rowText(0))
	}
	if tt.rowText(1) != "" {
		t.Error("wrapped with DECAWM off")
	}
}

func TestWideCharPrinting(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("a漢b")
	c := tt.Grid().Cell(0, 1)
	if c.Attr&grid.AttrWideHead == 0 || c.Rune != '漢' {
		t.Fatalf("head cell = %+v", c)
	}
	if tt.Grid().Cell(0, 2).Attr&grid.AttrWideTail == 0 {
		t.Fatal("no tail after head")
	}
	if got := tt.cellText(0, 3); got != "b" {
		t.Errorf("cell 3 = %q", got)
	}
	if _, col := tt.CursorPos(); col != 4 {
		t.Errorf("cursor col = %d, want 4", col)
	}
}

func TestWideCharWrapsWholePair(t *testing.T) {
	tt := newTestTerm(4, 4)
	tt.feed("abc漢")
	if tt.rowText(0) != "abc" {
		t.Errorf("row 0 = %q", tt.rowText(0))
	}
	c := tt.Grid().Cell(1, 0)
	if c.Rune != '漢' || c.Attr&grid.AttrWideHead == 0 {
		t.Errorf("wide char did not wrap as a pair: %+v", c)
	}
}

func TestCombiningMarkAttaches(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("éx")
	if got := tt.cellText(0, 0); got != "é" {
		t.Errorf("cell 0 = %q", got)
	}
	if got := tt.cellText(0, 1); got != "x" {
		t.Errorf("cell 1 = %q", got)
	}
}

func TestInsertModeShiftsRight(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("abc\x1b[H\x1b[4hX")
	if tt.rowText(0) != "Xabc" {
		t.Errorf("row 0 = %q", tt.rowText(0))
	}
	tt.feed("\x1b[4l")
	tt.feed("Y")
	if tt.rowText(0) != "XYbc" {
		t.Errorf("row 0 after IRM off = %q", tt.rowText(0))
	}
}

func TestOriginModeAddressing(t *testing.T) {
	tt := newTestTerm(10, 20)
	tt.feed("\x1b[3;8r")  // scroll region rows 3..8
	tt.feed("\x1b[?6h")   // origin mode: home is region top
	tt.feed("X")
	if got := tt.cellText(2, 0); got != "X" {
		t.Errorf("origin home cell = %q at row 2", got)
	}
	tt.feed("\x1b[2;1HY") // row 2 within region = absolute row 4
	if got := tt.cellText(3, 0); got != "Y" {
		t.Errorf("CUP under origin mode wrote to wrong row")
	}
	// CUP cannot leave the region while origin mode is on.
	tt.feed("\x1b[99;1HZ")
	if got := tt.cellText(7, 0); got != "Z" {
		t.Errorf("clamped CUP = %q at region bottom", got)
	}
}

func TestRegionScrollAtBottom(t *testing.T) {
	tt := newTestTerm(5, 10)
	tt.feed("\x1b[2;4r") // region rows 2..4
	tt.feed("\x1b[4;1Hx\r\ny\r\nz")
	// z printed at region bottom; LF scrolled the band twice.
	if tt.Grid().ScrollbackLen() != 0 {
		t.Error("region scroll leaked into scrollback")
	}
}

func TestIndexReverseIndex(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("top")
	tt.feed("\x1b[H\x1bM") // RI at top scrolls down
	if tt.rowText(1) != "top" {
		t.Errorf("row 1 = %q after RI", tt.rowText(1))
	}
}

func TestEraseDisplayModes(t *testing.T) {
	tt := newTestTerm(3, 5)
	tt.feed("aaaaa\r\nbbbbb\r\nccccc")
	tt.feed("\x1b[2;3H") // middle
	tt.feed("\x1b[0J")   // cursor to end
	if tt.rowText(0) != "aaaaa" || tt.rowText(1) != "bb" || tt.rowText(2) != "" {
		t.Errorf("after ED0: %q %q %q", tt.rowText(0), tt.rowText(1), tt.rowText(2))
	}
	tt.feed("\x1b[1J") // start to cursor
	if tt.rowText(0) != "" {
		t.Errorf("after ED1 row 0 = %q", tt.rowText(0))
	}
}

func TestEraseLineVariants(t *testing.T) {
	tt := newTestTerm(2, 6)
	tt.feed("abcdef")
	tt.feed("\x1b[1;4H") // on 'd'
	tt.feed("\x1b[1K")   // start through cursor
	if tt.rowText(0) != "    ef" {
		t.Errorf("after EL1 = %q", tt.rowText(0))
	}
	tt.feed("\x1b[0K")
	if tt.rowText(0) != "" {
		t.Errorf("after EL0 = %q", tt.rowText(0))
	}
}

func TestSelectiveEraseProtectsCells(t *testing.T) {
	tt := newTestTerm(2, 10)
	tt.feed("ab\x1b[1\"qCD\x1b[0\"qef")
	tt.feed("\x1b[H\x1b[?2K") // DECSEL whole line
	if got := tt.rowText(0); got != "  CD" {
		t.Errorf("after DECSEL = %q, want protected CD to survive", got)
	}
	// Plain EL ignores protection.
	tt.feed("\x1b[2K")
	if got := tt.rowText(0); got != "" {
		t.Errorf("after EL = %q", got)
	}
}

func TestEraseScrollback(t *testing.T) {
	tt := newTestTerm(2, 5)
	tt.feed("a\r\nb\r\nc\r\nd")
	if tt.Grid().ScrollbackLen() == 0 {
		t.Fatal("setup produced no scrollback")
	}
	tt.feed("\x1b[3J")
	if tt.Grid().ScrollbackLen() != 0 {
		t.Errorf("ED3 left %d scrollback lines", tt.Grid().ScrollbackLen())
	}
}

func TestInsertDeleteLines(t *testing.T) {
	tt := newTestTerm(4, 5)
	tt.feed("a\r\nb\r\nc\r\nd")
	tt.feed("\x1b[2;1H\x1b[1L")
	if tt.rowText(1) != "" || tt.rowText(2) != "b" {
		t.Errorf("after IL: %q %q", tt.rowText(1), tt.rowText(2))
	}
	tt.feed("\x1b[1M")
	if tt.rowText(1) != "b" {
		t.Errorf("after DL: %q", tt.rowText(1))
	}
}

func TestTabStops(t *testing.T) {
	tt := newTestTerm(2, 40)
	tt.feed("\tx")
	if got := tt.cellText(0, 8); got != "x" {
		t.Errorf("default tab landed wrong: col 8 = %q", got)
	}
	tt.feed("\r\x1b[3g")     // clear all stops
	tt.feed("\x1b[1;21H\x1bH") // set stop at col 20
	tt.feed("\r\ty")
	if got := tt.cellText(0, 20); got != "y" {
		t.Errorf("custom stop: col 20 = %q", got)
	}
}

func TestDecGraphicsCharset(t *testing.T) {
	tt := newTestTerm(2, 10)
	tt.feed("\x1b(0qqq\x1b(Bx")
	if got := tt.rowText(0); got != "───x" {
		t.Errorf("row = %q", got)
	}
}

func TestRepeatLastCharacter(t *testing.T) {
	tt := newTestTerm(2, 10)
	tt.feed("x\x1b[3b")
	if got := tt.rowText(0); got != "xxxx" {
		t.Errorf("after REP = %q", got)
	}
}

func TestCursorReports(t *testing.T) {
	tt := newTestTerm(24, 80)
	tt.feed("\x1b[5;7H\x1b[6n")
	if got := string(tt.responses); got != "\x1b[5;7R" {
		t.Errorf("CPR = %q", got)
	}
}

func TestDecrqmReports(t *testing.T) {
	tt := newTestTerm(24, 80)
	tt.feed("\x1b[?2004h\x1b[?2004$p")
	if !strings.Contains(string(tt.responses), "\x1b[?2004;1$y") {
		t.Errorf("DECRQM set reply = %q", tt.responses)
	}
	tt.responses = nil
	tt.feed("\x1b[?31337$p")
	if !strings.Contains(string(tt.responses), "\x1b[?31337;0$y") {
		t.Errorf("DECRQM unknown reply = %q", tt.responses)
	}
}

func TestDecrqssScrollRegion(t *testing.T) {
	tt := newTestTerm(24, 80)
	tt.feed("\x1b[3;10r")
	tt.feed("\x1bP$qr\x1b\\")
	if !strings.Contains(string(tt.responses), "\x1bP1$r3;10r\x1b\\") {
		t.Errorf("DECRQSS r = %q", tt.responses)
	}
}

func TestTitleAndStack(t *testing.T) {
	var titles []string
	tt := newTestTerm(4, 20)
	tt.OnTitle = func(s string) { titles = append(titles, s) }
	tt.feed("\x1b]0;one\x07")
	tt.feed("\x1b[22;0t")
	tt.feed("\x1b]2;two\x1b\\")
	tt.feed("\x1b[23;0t")
	if tt.Title() != "one" {
		t.Errorf("title = %q after pop", tt.Title())
	}
	if len(titles) != 3 || titles[1] != "two" {
		t.Errorf("title events = %v", titles)
	}
}

func TestBracketedPasteAndMouseFlags(t *testing.T) {
	tt := newTestTerm(4, 20)
	tt.feed("\x1b[?2004h\x1b[?1002h\x1b[?1006h\x1b[?1004h")
	m := tt.ModeState()
	if !m.BracketedPaste || m.MouseTier != MouseButtonEvent || !m.MouseSGR || !m.FocusReport {
		t.Errorf("modes = %+v", m)
	}
}

func TestKittyFlagStack(t *testing.T) {
	tt := newTestTerm(4, 20)
	tt.feed("\x1b[>1u")
	if tt.KittyFlags() != 1 {
		t.Fatalf("flags = %d after push", tt.KittyFlags())
	}
	tt.feed("\x1b[=8;1u")
	if tt.KittyFlags() != 8 {
		t.Fatalf("flags = %d after set", tt.KittyFlags())
	}
	tt.feed("\x1b[<1u")
	if tt.KittyFlags() != 0 {
		t.Fatalf("flags = %d after pop", tt.KittyFlags())
	}
	tt.responses = nil
	tt.feed("\x1b[?u")
	if got := string(tt.responses); got != "\x1b[?0u" {
		t.Errorf("query reply = %q", got)
	}
}

func TestSyncUpdateFreezesSnapshot(t *testing.T) {
	tt := newTestTerm(4, 20)
	tt.feed("before")
	tt.feed("\x1b[?2026h")
	tt.feed("\x1b[Hafter!")
	snap := tt.TakeSnapshot()
	if got := snap.Lines[0].String(); got != "before" {
		t.Errorf("frozen snapshot shows %q", got)
	}
	tt.feed("\x1b[?2026l")
	snap = tt.TakeSnapshot()
	if got := snap.Lines[0].String(); got != "after!" {
		t.Errorf("released snapshot shows %q", got)
	}
}

func TestDecscSavesFullStance(t *testing.T) {
	tt := newTestTerm(10, 20)
	tt.feed("\x1b[31m\x1b[3;4H\x1b7")
	tt.feed("\x1b[0m\x1b[H\x1b8x")
	c := tt.Grid().Cell(2, 3)
	if c.FG != grid.Indexed(1) {
		t.Errorf("restored brush fg = %v, want red", c.FG)
	}
	if row, col := tt.CursorPos(); row != 2 || col != 4 {
		t.Errorf("cursor = (%d,%d)", row, col)
	}
}

func TestSoftReset(t *testing.T) {
	tt := newTestTerm(10, 20)
	tt.feed("\x1b[?6h\x1b[4h\x1b[2;5r\x1b[!p")
	m := tt.ModeState()
	if m.Origin || m.Insert {
		t.Errorf("modes after DECSTR = %+v", m)
	}
	tt.feed("\x1b[99;1Hx")
	if got := tt.cellText(9, 0); got != "x" {
		t.Error("margins not reset by DECSTR")
	}
}

func TestResizeReflowPreservesPrompt(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("ABCDEFGHIJKLMNO")
	tt.Resize(4, 5)
	if got := tt.rowText(0); got != "ABCDE" {
		t.Errorf("row 0 after narrow = %q", got)
	}
	tt.Resize(4, 10)
	if got := tt.rowText(0); got != "ABCDEFGHIJ" {
		t.Errorf("row 0 after widen = %q", got)
	}
}

func TestFullResetClearsEverything(t *testing.T) {
	tt := newTestTerm(4, 10)
	tt.feed("hello\x1b[31m\x1b[?6h")
	tt.feed("\x1bc")
	if tt.rowText(0) != "" {
		t.Errorf("row 0 after RIS = %q", tt.rowText(0))
	}
	m := tt.ModeState()
	if m.Origin || !m.AutoWrap || !m.CursorVisible {
		t.Errorf("modes after RIS = %+v", m)
	}
}

func TestClosedTerminalStillServesGrid(t *testing.T) {
	tt := newTestTerm(2, 10)
	tt.feed("data")
	tt.SetClosed()
	tt.responses = nil
	tt.feed("\x1b[6n")
	if len(tt.responses) != 0 {
		t.Error("closed terminal still responds to queries")
	}
	snap := tt.TakeSnapshot()
	if snap.Lines[0].String() != "data" {
		t.Error("closed terminal lost its last grid")
	}
}
