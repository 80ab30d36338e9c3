// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/csi.go
// Summary: CSI dispatch: cursor ops, erases, scrolls, modes, reports.
// Usage: Implements the vtparse.Performer CSI hook. Unknown finals are
// logged at debug level and dropped; dispatch never fails.

package term

import "fmt"

// CsiDispatch applies a complete CSI sequence.
func (t *Terminal) CsiDispatch(params [][]int, intermediates []byte, ignored bool, final byte) {
	if ignored {
		t.logDebug("CSI %c: oversized sequence ignored", final)
		return
	}
	p := func(i, def int) int {
		if i < len(params) && params[i][0] != 0 {
			return params[i][0]
		}
		return def
	}
	marker, inter := splitIntermediates(intermediates)

	switch marker {
	case '?':
		t.csiPrivate(params, p, inter, final)
		return
	case '>':
		t.csiGreater(params, p, final)
		return
	case '<':
		if final == 'u' {
			t.kitty.pop(t.modes.AltScreen, p(0, 1))
			return
		}
	case '=':
		if final == 'u' {
			t.kitty.set(t.modes.AltScreen, uint8(p(0, 0)), p(1, 1))
			return
		}
		return
	}

	switch final {
	case '@': // ICH
		t.insertChars(p(0, 1))
	case 'A': // CUU
		t.cursorUp(p(0, 1))
	case 'B': // CUD
		t.cursorDown(p(0, 1))
	case 'C': // CUF
		t.cursorForward(p(0, 1))
	case 'D': // CUB
		t.cursorBack(p(0, 1))
	case 'E': // CNL
		t.cursorDown(p(0, 1))
		t.carriageReturn()
	case 'F': // CPL
		t.cursorUp(p(0, 1))
		t.carriageReturn()
	case 'G': // CHA
		t.moveCursor(t.cursor.Row, t.regionLeft()+p(0, 1)-1)
	case 'H', 'f': // CUP / HVP
		t.cursorAbsolute(p(0, 1)-1, p(1, 1)-1)
	case 'I': // CHT
		t.forwardTabs(p(0, 1))
	case 'J': // ED
		t.eraseInDisplay(p(0, 0), false)
	case 'K': // EL
		t.eraseInLine(p(0, 0), false)
	case 'L': // IL
		t.insertLines(p(0, 1))
	case 'M': // DL
		t.deleteLines(p(0, 1))
	case 'P': // DCH
		t.deleteChars(p(0, 1))
	case 'S': // SU
		t.scrollUp(p(0, 1))
	case 'T': // SD
		t.scrollDown(p(0, 1))
	case 'X': // ECH
		t.eraseChars(p(0, 1))
	case 'Z': // CBT
		t.backwardTabs(p(0, 1))
	case '`': // HPA
		t.moveCursor(t.cursor.Row, t.regionLeft()+p(0, 1)-1)
	case 'a': // HPR
		t.cursorForward(p(0, 1))
	case 'b': // REP
		t.repeatLast(p(0, 1))
	case 'c': // primary DA
		t.respond([]byte("\x1b[?62;4;6;22c"))
	case 'd': // VPA
		t.moveCursor(t.regionTop()+p(0, 1)-1, t.cursor.Col)
	case 'e': // VPR
		t.cursorDown(p(0, 1))
	case 'g': // TBC
		t.tabClear(p(0, 0))
	case 'h': // SM
		for i := range params {
			t.setAnsiMode(params[i][0], true)
		}
	case 'l': // RM
		for i := range params {
			t.setAnsiMode(params[i][0], false)
		}
	case 'm':
		t.applySGR(params)
	case 'n': // DSR
		t.deviceStatus(p(0, 0), false)
	case 'p':
		switch inter {
		case '$': // ANSI RQM
			t.reportMode(p(0, 0), false)
		case '!': // DECSTR soft reset
			t.softReset()
		default:
			t.logDebug("CSI p: unhandled intermediate %q", inter)
		}
	case 'q':
		switch inter {
		case ' ': // DECSCUSR: accepted, cursor shape is a renderer concern
		case '"': // DECSCA
			t.setProtection(p(0, 0))
		default:
			t.logDebug("CSI q: unhandled intermediate %q", inter)
		}
	case 'r': // DECSTBM
		if inter == 0 {
			t.setScrollRegion(p(0, 0), p(1, 0))
		}
	case 's':
		if t.modes.LeftRightMargins {
			t.setLeftRightMargins(p(0, 0), p(1, 0)) // DECSLRM
		} else {
			t.saveCursor() // ANSI.SYS SCOSC
		}
	case 't': // XTWINOPS subset: title stack
		t.windowOps(p(0, 0), p(1, 0))
	case 'u': // SCORC
		t.restoreCursor()
	default:
		t.logDebug("CSI: unhandled final %q params=%v", final, params)
	}
}

// csiPrivate handles sequences carrying the '?' marker.
func (t *Terminal) csiPrivate(params [][]int, p func(int, int) int, inter byte, final byte) {
	switch final {
	case 'h':
		for i := range params {
			t.setPrivateMode(params[i][0], true)
		}
	case 'l':
		for i := range params {
			t.setPrivateMode(params[i][0], false)
		}
	case 'p':
		if inter == '$' { // DECRQM
			t.reportMode(p(0, 0), true)
		}
	case 'n':
		t.deviceStatus(p(0, 0), true)
	case 'u': // kitty keyboard query
		t.respond([]byte(fmt.Sprintf("\x1b[?%du", t.kitty.current())))
	case 'J':
		t.eraseInDisplay(p(0, 0), true) // DECSED
	case 'K':
		t.eraseInLine(p(0, 0), true) // DECSEL
	default:
		t.logDebug("CSI ?: unhandled final %q", final)
	}
}

// csiGreater handles sequences carrying the '>' marker.
func (t *Terminal) csiGreater(params [][]int, p func(int, int) int, final byte) {
	switch final {
	case 'c': // secondary DA: VT220-class, firmware version, ROM cartridge
		t.respond([]byte("\x1b[>1;10;0c"))
	case 'u': // kitty push
		t.kitty.push(t.modes.AltScreen, uint8(p(0, 0)))
	case 'q': // XTVERSION
		t.respond([]byte("\x1bP>|vtcore\x1b\\"))
	case 'm': // XTMODKEYS
		if p(0, 0) == 4 {
			t.modes.ModifyOtherKeys = p(1, 0)
			t.modeChanged()
		}
	default:
		t.logDebug("CSI >: unhandled final %q", final)
	}
}

// deviceStatus answers DSR and DECXCPR.
func (t *Terminal) deviceStatus(req int, private bool) {
	switch req {
	case 5:
		t.respond([]byte("\x1b[0n"))
	case 6:
		row := t.cursor.Row - t.regionTop() + 1
		col := t.cursor.Col - t.regionLeft() + 1
		if private {
			t.respond([]byte(fmt.Sprintf("\x1b[?%d;%dR", row, col)))
		} else {
			t.respond([]byte(fmt.Sprintf("\x1b[%d;%dR", row, col)))
		}
	}
}

// windowOps implements the XTWINOPS title-stack subset (22/23); sizing
// requests belong to the host.
func (t *Terminal) windowOps(op, which int) {
	switch op {
	case 22: // push title
		if which == 0 || which == 2 {
			t.titleStack = append(t.titleStack, t.title)
			if len(t.titleStack) > 10 {
				t.titleStack = t.titleStack[1:]
			}
		}
	case 23: // pop title
		if (which == 0 || which == 2) && len(t.titleStack) > 0 {
			t.setTitle(t.titleStack[len(t.titleStack)-1])
			t.titleStack = t.titleStack[:len(t.titleStack)-1]
		}
	default:
		t.logDebug("XTWINOPS: unhandled op %d", op)
	}
}

// softReset implements DECSTR: modes and cursor to defaults, screen intact.
func (t *Terminal) softReset() {
	t.modes.Insert = false
	t.modes.Origin = false
	t.modes.AutoWrap = true
	t.modes.CursorVisible = true
	t.modes.LeftRightMargins = false
	t.cursor.Brush = Brush{}
	t.cursor.WrapPending = false
	t.charsets.reset()
	t.resetMargins()
	t.haveSaved = [2]bool{}
}

// splitIntermediates separates a leading private marker (< = > ?) from the
// classic intermediate byte.
func splitIntermediates(intermediates []byte) (marker, inter byte) {
	for _, b := range intermediates {
		if b >= 0x3C && b <= 0x3F {
			marker = b
		} else {
			inter = b
		}
	}
	return marker, inter
}
