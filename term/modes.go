// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/modes.go
// Summary: ANSI and DEC private mode registry, DECSET/DECRST/DECRQM,
// alt-screen transitions, synchronized update gating.
// Usage: Part of the Terminal state machine.

package term

import (
	"fmt"
	"time"

	"github.com/framegrace/vtcore/grid"
)

// MouseTier enumerates the mouse reporting levels, lowest to highest.
type MouseTier int

const (
	MouseOff MouseTier = iota
	MouseX10            // 9: press only
	MouseNormal         // 1000: press + release
	MouseButtonEvent    // 1002: + drag
	MouseAnyEvent       // 1003: + motion
)

// Modes is the registry of named boolean modes plus the mouse tier.
type Modes struct {
	CursorKeys       bool // DECCKM
	Origin           bool // DECOM
	AutoWrap         bool // DECAWM
	CursorVisible    bool // DECTCEM
	SmoothScroll     bool // DECSCLM (accepted, no visible effect)
	ReverseVideo     bool // DECSCNM
	Insert           bool // IRM
	LineFeedNewLine  bool // LNM
	KeypadApp        bool // DECKPAM / DECKPNM
	LeftRightMargins bool // DECLRMM
	BracketedPaste   bool // 2004
	FocusReport      bool // 1004
	MouseTier        MouseTier
	MouseSGR         bool // 1006
	MousePixel       bool // 1016
	AltScreen        bool
	SyncUpdate       bool // 2026
	Column132        bool // DECCOLM state (resize handled by the host)
	ModifyOtherKeys  int  // XTMODKEYS resource 4 level (0..2)
}

func defaultModes() Modes {
	return Modes{
		AutoWrap:      true,
		CursorVisible: true,
	}
}

// kittyStack is the per-screen kitty keyboard flag stack (CSI > u pushes,
// CSI < u pops). The bottom entry is the configured default.
type kittyStack struct {
	main, alt []uint8
	onAlt     *bool // set by Terminal to follow the active screen
}

func newKittyStack(def uint8) kittyStack {
	return kittyStack{main: []uint8{def}, alt: []uint8{def}}
}

func (k *kittyStack) stack(alt bool) *[]uint8 {
	if alt {
		return &k.alt
	}
	return &k.main
}

func (k *kittyStack) current() uint8 {
	s := k.main
	if k.onAlt != nil && *k.onAlt {
		s = k.alt
	}
	return s[len(s)-1]
}

const kittyStackDepth = 8

func (k *kittyStack) push(alt bool, flags uint8) {
	s := k.stack(alt)
	if len(*s) >= kittyStackDepth {
		// Oldest pushed entry above the default is dropped, kitty-style.
		copy((*s)[1:], (*s)[2:])
		*s = (*s)[:len(*s)-1]
	}
	*s = append(*s, flags)
}

func (k *kittyStack) pop(alt bool, n int) {
	s := k.stack(alt)
	for ; n > 0 && len(*s) > 1; n-- {
		*s = (*s)[:len(*s)-1]
	}
}

func (k *kittyStack) set(alt bool, flags uint8, mode int) {
	s := k.stack(alt)
	cur := (*s)[len(*s)-1]
	switch mode {
	case 2: // set bits
		cur |= flags
	case 3: // clear bits
		cur &^= flags
	default: // 1: assign
		cur = flags
	}
	(*s)[len(*s)-1] = cur
}

// setAnsiMode handles SM/RM (no '?' intermediate).
func (t *Terminal) setAnsiMode(mode int, set bool) {
	switch mode {
	case 4:
		t.modes.Insert = set
	case 20:
		t.modes.LineFeedNewLine = set
	default:
		t.logDebug("SM/RM: unknown ANSI mode %d", mode)
	}
	t.modeChanged()
}

// setPrivateMode handles DECSET/DECRST.
func (t *Terminal) setPrivateMode(mode int, set bool) {
	switch mode {
	case 1: // DECCKM
		t.modes.CursorKeys = set
	case 3: // DECCOLM: 132/80 column switch; the grid clears, the host may resize
		t.modes.Column132 = set
		t.grid().Clear(t.eraseCell())
		t.resetMargins()
		t.moveCursor(0, 0)
	case 4: // DECSCLM
		t.modes.SmoothScroll = set
	case 5: // DECSCNM
		if t.modes.ReverseVideo != set {
			t.modes.ReverseVideo = set
			t.grid().Damage().MarkAll()
		}
	case 6: // DECOM
		t.modes.Origin = set
		t.cursorAbsolute(0, 0)
	case 7: // DECAWM
		t.modes.AutoWrap = set
		if !set {
			t.cursor.WrapPending = false
		}
	case 12: // cursor blink: accepted, renderer concern
	case 25: // DECTCEM
		t.modes.CursorVisible = set
		t.grid().Damage().CursorMoved = true
	case 9:
		t.setMouseTier(MouseX10, set)
	case 1000:
		t.setMouseTier(MouseNormal, set)
	case 1002:
		t.setMouseTier(MouseButtonEvent, set)
	case 1003:
		t.setMouseTier(MouseAnyEvent, set)
	case 1004:
		t.modes.FocusReport = set
	case 1006:
		t.modes.MouseSGR = set
	case 1016:
		t.modes.MousePixel = set
	case 47: // legacy alt screen: no cursor save, cursor stays put on entry
		t.switchScreen(set, false, false)
	case 69: // DECLRMM
		t.modes.LeftRightMargins = set
		if !set {
			t.marginLeft = 0
			t.marginRight = t.Cols() - 1
		}
	case 1047: // alt screen, cleared and cursor homed on entry
		t.switchScreen(set, false, true)
	case 1048: // save/restore cursor only
		if set {
			t.saveCursor()
		} else {
			t.restoreCursor()
		}
	case 1049: // alt screen with cursor save/restore
		t.switchScreen(set, true, true)
	case 2004:
		t.modes.BracketedPaste = set
	case 2026:
		t.setSyncUpdate(set)
	default:
		t.logDebug("DECSET/DECRST: unknown private mode %d", mode)
	}
	t.modeChanged()
}

// setMouseTier sets or clears one reporting tier. Clearing a tier that is
// not active is ignored, matching xterm.
func (t *Terminal) setMouseTier(tier MouseTier, set bool) {
	if set {
		t.modes.MouseTier = tier
		return
	}
	if t.modes.MouseTier == tier {
		t.modes.MouseTier = MouseOff
	}
}

// switchScreen enters or leaves the alt screen. saveCursor applies only to
// mode 1049. clearOnSwitch (1047/1049) fills the new alt grid with the
// current background and homes the cursor; legacy 47 leaves the cursor in
// place. Every exit discards the alt grid.
func (t *Terminal) switchScreen(toAlt, saveCursor, clearOnSwitch bool) {
	if toAlt == (t.active == screenAlt) {
		return
	}
	if toAlt {
		if saveCursor {
			t.saveCursor()
		}
		t.alt = grid.NewGrid(t.Rows(), t.Cols(), 0)
		t.active = screenAlt
		t.modes.AltScreen = true
		if clearOnSwitch {
			t.alt.Clear(t.eraseCell())
			t.moveCursor(0, 0)
		}
	} else {
		t.active = screenPrimary
		t.modes.AltScreen = false
		t.alt = nil
		if saveCursor {
			t.restoreCursor()
		}
	}
	t.resetMargins()
	t.grid().Damage().MarkAll()
	if t.OnScreenSwap != nil {
		t.OnScreenSwap(toAlt)
	}
}

// setSyncUpdate implements DECSET/DECRST 2026: on begin, the visible region
// is frozen for snapshots; on end (or deadline) the frozen copy drops and
// accumulated damage reaches the renderer as one update.
func (t *Terminal) setSyncUpdate(set bool) {
	if set == t.modes.SyncUpdate {
		return
	}
	t.modes.SyncUpdate = set
	if set {
		g := t.grid()
		t.syncFrozen = make([]*grid.Line, g.Rows())
		for i := range t.syncFrozen {
			t.syncFrozen[i] = g.Line(i).Clone()
		}
		t.syncCursor = t.cursor
		t.syncDeadline = time.Now().Add(time.Duration(t.cfg.SyncUpdateTimeoutMS) * time.Millisecond)
	} else {
		t.syncFrozen = nil
	}
}

// CheckSyncDeadline auto-releases an unterminated synchronized update. The
// terminal task calls this between event batches.
func (t *Terminal) CheckSyncDeadline(now time.Time) {
	if t.modes.SyncUpdate && now.After(t.syncDeadline) {
		t.logDebug("sync update timed out, releasing")
		t.setSyncUpdate(false)
	}
}

func (t *Terminal) modeChanged() {
	if t.OnModeChange != nil {
		t.OnModeChange()
	}
}

// reportMode answers DECRQM (CSI ? Pd $ p) and ANSI RQM (CSI Pd $ p).
func (t *Terminal) reportMode(mode int, private bool) {
	// 0: not recognized, 1: set, 2: reset, 3: permanently set,
	// 4: permanently reset.
	state := 0
	if private {
		if v, known := t.privateModeValue(mode); known {
			state = 2
			if v {
				state = 1
			}
		}
		t.respond([]byte(fmt.Sprintf("\x1b[?%d;%d$y", mode, state)))
		return
	}
	switch mode {
	case 4:
		state = 2
		if t.modes.Insert {
			state = 1
		}
	case 20:
		state = 2
		if t.modes.LineFeedNewLine {
			state = 1
		}
	}
	t.respond([]byte(fmt.Sprintf("\x1b[%d;%d$y", mode, state)))
}

// privateModeValue reports the value of a recognized DECSET mode.
func (t *Terminal) privateModeValue(mode int) (value, known bool) {
	m := &t.modes
	switch mode {
	case 1:
		return m.CursorKeys, true
	case 3:
		return m.Column132, true
	case 4:
		return m.SmoothScroll, true
	case 5:
		return m.ReverseVideo, true
	case 6:
		return m.Origin, true
	case 7:
		return m.AutoWrap, true
	case 25:
		return m.CursorVisible, true
	case 9:
		return m.MouseTier == MouseX10, true
	case 1000:
		return m.MouseTier == MouseNormal, true
	case 1002:
		return m.MouseTier == MouseButtonEvent, true
	case 1003:
		return m.MouseTier == MouseAnyEvent, true
	case 1004:
		return m.FocusReport, true
	case 1006:
		return m.MouseSGR, true
	case 1016:
		return m.MousePixel, true
	case 47, 1047, 1049:
		return m.AltScreen, true
	case 69:
		return m.LeftRightMargins, true
	case 2004:
		return m.BracketedPaste, true
	case 2026:
		return m.SyncUpdate, true
	}
	return false, false
}
