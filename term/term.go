// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/term.go
// Summary: Terminal state machine: consumes parser events, mutates the grid.
// Usage: Owned by a single terminal-task goroutine; renderers observe it
// only through snapshots taken under the session lock.

package term

import (
	"log"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/vtcore/config"
	"github.com/framegrace/vtcore/grid"
	"github.com/framegrace/vtcore/vtparse"
)

var _ vtparse.Performer = (*Terminal)(nil)

// screenID selects the primary or alternate screen.
type screenID int

const (
	screenPrimary screenID = iota
	screenAlt
)

// Terminal applies vtparse events to a damage-tracked grid. It implements
// vtparse.Performer. Methods are not safe for concurrent use: the session
// calls them on the terminal task or while holding its lock.
type Terminal struct {
	cfg config.Config

	primary *grid.Grid
	alt     *grid.Grid
	active  screenID

	cursor      Cursor
	savedMain   SavedCursor
	savedAlt    SavedCursor
	haveSaved   [2]bool
	lastGraphic rune // for REP

	modes    Modes
	kitty    kittyStack
	tabs     *TabStops
	links    *grid.HyperlinkTable
	palette  Palette
	charsets charsetState

	// margins: scroll region rows plus DECLRMM columns, inclusive.
	marginTop, marginBottom int
	marginLeft, marginRight int

	title      string
	titleStack []string

	// sync update: visible lines frozen at BSU, served to snapshots until
	// ESU or the timeout deadline.
	syncFrozen   []*grid.Line
	syncCursor   Cursor
	syncDeadline time.Time

	dcs dcsState

	closed bool
	debug  bool

	// Outbound event hooks, all optional. Respond carries query replies
	// destined for the PTY.
	Respond       func([]byte)
	OnTitle       func(string)
	OnBell        func()
	OnClipboard   func(selection string, data []byte)
	OnPromptMark  func(mark byte, exitCode int)
	OnWorkingDir  func(uri string)
	OnModeChange  func()
	OnScreenSwap  func(alt bool)
	OnGraphics    func(payload []byte)
}

// Option configures a Terminal at construction.
type Option func(*Terminal)

// WithDebug enables verbose diagnostics on the standard logger.
func WithDebug() Option {
	return func(t *Terminal) { t.debug = true }
}

// New returns a terminal of rows×cols cells configured by cfg.
func New(rows, cols int, cfg config.Config, opts ...Option) *Terminal {
	cfg.ApplyDefaults()
	t := &Terminal{
		cfg:     cfg,
		primary: grid.NewGrid(rows, cols, int(cfg.ScrollbackLines)),
		tabs:    NewTabStops(cols),
		links:   grid.NewHyperlinkTable(),
		palette: NewPalette(cfg.DefaultPalette),
	}
	t.modes = defaultModes()
	t.kitty = newKittyStack(cfg.KittyKeyboardDefaultFlags)
	t.kitty.onAlt = &t.modes.AltScreen
	t.charsets.reset()
	t.resetMargins()
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// grid returns the active screen's grid.
func (t *Terminal) grid() *grid.Grid {
	if t.active == screenAlt && t.alt != nil {
		return t.alt
	}
	return t.primary
}

// Rows returns the visible row count.
func (t *Terminal) Rows() int { return t.grid().Rows() }

// Cols returns the visible column count.
func (t *Terminal) Cols() int { return t.grid().Cols() }

// Grid exposes the active grid to same-task collaborators (search, tests).
func (t *Terminal) Grid() *grid.Grid { return t.grid() }

// Primary exposes the primary screen grid regardless of the active screen.
func (t *Terminal) Primary() *grid.Grid { return t.primary }

// Title returns the current window title.
func (t *Terminal) Title() string { return t.title }

// Links exposes the hyperlink table to same-task collaborators.
func (t *Terminal) Links() *grid.HyperlinkTable { return t.links }

// ModeState returns a copy of the current mode registry.
func (t *Terminal) ModeState() Modes { return t.modes }

// KittyFlags returns the active kitty keyboard flags for the input encoder.
func (t *Terminal) KittyFlags() uint8 { return t.kitty.current() }

// SetClosed switches the terminal into its terminal-closed state: events
// still parse into the last grid, but query replies are no longer sent.
func (t *Terminal) SetClosed() { t.closed = true }

// Closed reports whether the child has exited.
func (t *Terminal) Closed() bool { return t.closed }

// --- vtparse.Performer ---

// Print places one decoded code point at the cursor.
func (t *Terminal) Print(r rune) {
	r = t.charsets.remap(r)
	w := runewidth.RuneWidth(r)
	switch w {
	case 0:
		t.printCombining(r)
	case 2:
		t.printWide(r)
	default:
		t.printNarrow(r)
	}
	t.lastGraphic = r
}

// Execute handles a C0 control byte.
func (t *Terminal) Execute(b byte) {
	switch b {
	case 0x05: // ENQ: answerback, deliberately empty
	case 0x07: // BEL
		if t.OnBell != nil {
			t.OnBell()
		}
	case 0x08: // BS
		t.backspace()
	case 0x09: // HT
		t.horizontalTab()
	case 0x0A, 0x0B, 0x0C: // LF, VT, FF
		t.lineFeed()
		if t.modes.LineFeedNewLine {
			t.carriageReturn()
		}
	case 0x0D: // CR
		t.carriageReturn()
	case 0x0E: // SO: invoke G1 into GL
		t.charsets.glSlot = 1
	case 0x0F: // SI: invoke G0 into GL
		t.charsets.glSlot = 0
	default:
		t.logDebug("execute: unhandled C0 0x%02x", b)
	}
}

// DcsPut accumulates DCS payload bytes; see dcs.go.
func (t *Terminal) DcsPut(b byte) { t.dcsPut(b) }

// DcsUnhook terminates a DCS passthrough; see dcs.go.
func (t *Terminal) DcsUnhook() { t.dcsUnhook() }

// --- resize ---

// Resize changes the visible dimensions, reflowing the primary screen when
// autowrap permits. The alt screen truncates or pads in place.
func (t *Terminal) Resize(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	reflow := t.modes.AutoWrap
	pcur := grid.CursorPos{Row: t.cursor.Row, Col: t.cursor.Col}
	if t.active == screenPrimary {
		pcur = t.primary.Resize(rows, cols, reflow, pcur)
		t.cursor.Row, t.cursor.Col = pcur.Row, pcur.Col
	} else {
		// Resize the hidden primary without disturbing the saved cursor
		// beyond clamping, then the visible alt.
		saved := grid.CursorPos{Row: t.savedMain.Cursor.Row, Col: t.savedMain.Cursor.Col}
		saved = t.primary.Resize(rows, cols, reflow, saved)
		t.savedMain.Cursor.Row, t.savedMain.Cursor.Col = saved.Row, saved.Col
		pcur = t.alt.Resize(rows, cols, false, pcur)
		t.cursor.Row, t.cursor.Col = pcur.Row, pcur.Col
	}
	t.tabs.Resize(cols)
	t.resetMargins()
	t.cursor.WrapPending = false
	t.compactLinks()
	t.grid().Damage().MarkAll()
}

// resetMargins restores the scroll region and DECLRMM margins to full size.
func (t *Terminal) resetMargins() {
	t.marginTop = 0
	t.marginBottom = t.Rows() - 1
	t.marginLeft = 0
	t.marginRight = t.Cols() - 1
}

// compactLinks sweeps unreferenced hyperlink ids on the low-water schedule.
func (t *Terminal) compactLinks() {
	if !t.links.NeedsCompaction() {
		return
	}
	live := t.primary.HyperlinkIDs()
	if t.alt != nil {
		for id := range t.alt.HyperlinkIDs() {
			live[id] = struct{}{}
		}
	}
	if t.cursor.Hyperlink != 0 {
		live[t.cursor.Hyperlink] = struct{}{}
	}
	t.links.Compact(live)
}

// Reset performs RIS: both screens cleared, modes, tabs, charsets and
// palette restored to power-on defaults.
func (t *Terminal) Reset() {
	cols := t.Cols()
	// The primary grid is cleared in place so observers wired to it (the
	// history index hook) survive a RIS.
	t.primary.EraseScrollback()
	t.primary.Clear(grid.Cell{})
	t.alt = nil
	t.active = screenPrimary
	t.cursor = Cursor{}
	t.haveSaved = [2]bool{}
	t.modes = defaultModes()
	t.kitty = newKittyStack(t.cfg.KittyKeyboardDefaultFlags)
	t.kitty.onAlt = &t.modes.AltScreen
	t.tabs = NewTabStops(cols)
	t.charsets.reset()
	t.palette = NewPalette(t.cfg.DefaultPalette)
	t.links = grid.NewHyperlinkTable()
	t.syncFrozen = nil
	t.resetMargins()
}

// respond sends a query reply back toward the PTY unless the terminal is
// closed.
func (t *Terminal) respond(b []byte) {
	if t.closed || t.Respond == nil {
		return
	}
	t.Respond(b)
}

func (t *Terminal) logDebug(format string, args ...interface{}) {
	if t.debug {
		log.Printf("term: "+format, args...)
	}
}
