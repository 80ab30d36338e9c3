// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/dcs.go
// Summary: DCS handling: DECRQSS status replies, graphics passthrough hook.
// Usage: Implements the vtparse.Performer DCS hooks.

package term

import (
	"fmt"

	"github.com/framegrace/vtcore/grid"
)

// dcsKind tracks what the current passthrough payload means.
type dcsKind int

const (
	dcsNone dcsKind = iota
	dcsRequestStatus
	dcsGraphics
	dcsDiscard
)

// maxDcsPayload bounds an accumulated DCS payload.
const maxDcsPayload = 1 << 20

type dcsState struct {
	kind    dcsKind
	final   byte
	payload []byte
}

// DcsHook begins a DCS passthrough.
func (t *Terminal) DcsHook(params [][]int, intermediates []byte, ignored bool, final byte) {
	t.dcs = dcsState{}
	if ignored {
		t.dcs.kind = dcsDiscard
		return
	}
	marker, inter := splitIntermediates(intermediates)
	switch {
	case inter == '$' && final == 'q': // DECRQSS
		t.dcs.kind = dcsRequestStatus
	case final == 'q' && marker == 0 && inter == 0: // Sixel
		t.dcs.kind = dcsGraphics
		t.dcs.final = final
	default:
		t.logDebug("DCS: unhandled hook %q/%q final %q", marker, inter, final)
		t.dcs.kind = dcsDiscard
	}
}

func (t *Terminal) dcsPut(b byte) {
	if t.dcs.kind == dcsNone || t.dcs.kind == dcsDiscard {
		return
	}
	if len(t.dcs.payload) < maxDcsPayload {
		t.dcs.payload = append(t.dcs.payload, b)
	}
}

func (t *Terminal) dcsUnhook() {
	switch t.dcs.kind {
	case dcsRequestStatus:
		t.answerRequestStatus(string(t.dcs.payload))
	case dcsGraphics:
		if t.OnGraphics != nil {
			t.OnGraphics(t.dcs.payload)
		} else {
			t.logDebug("DCS: graphics payload dropped, no sink")
		}
	}
	t.dcs = dcsState{}
}

// answerRequestStatus implements DECRQSS for the settings the terminal
// actually tracks; anything else gets the invalid-request reply.
func (t *Terminal) answerRequestStatus(what string) {
	reply := func(ok bool, body string) {
		code := 0 // DECRQSS validity flag: 1 = valid, 0 = invalid
		if ok {
			code = 1
		}
		t.respond([]byte(fmt.Sprintf("\x1bP%d$r%s\x1b\\", code, body)))
	}
	switch what {
	case "r": // DECSTBM
		reply(true, fmt.Sprintf("%d;%dr", t.marginTop+1, t.marginBottom+1))
	case "s": // DECSLRM
		reply(true, fmt.Sprintf("%d;%ds", t.marginLeft+1, t.marginRight+1))
	case "m": // SGR
		reply(true, t.sgrString()+"m")
	case "\"q": // DECSCA
		mode := 0
		if t.cursor.Brush.Attr&grid.AttrProtected != 0 {
			mode = 1
		}
		reply(true, fmt.Sprintf("%d\"q", mode))
	default:
		reply(false, "")
	}
}
