// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/osc.go
// Summary: OSC handlers: title, palette, hyperlinks, clipboard, prompt marks.
// Usage: Implements the vtparse.Performer OSC hook. Unknown commands are
// logged at debug level and dropped.

package term

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// OscDispatch routes a complete OSC string by its numeric command.
func (t *Terminal) OscDispatch(params [][]byte, bellTerminated bool) {
	if len(params) == 0 {
		return
	}
	cmd, err := strconv.Atoi(string(params[0]))
	if err != nil {
		t.logDebug("OSC: non-numeric command %q", params[0])
		return
	}
	switch cmd {
	case 0, 2: // icon name + window title / window title
		if len(params) > 1 {
			t.setTitle(string(params[1]))
		}
	case 1: // icon name only: accepted, nothing to store
	case 4:
		t.oscPalette(params[1:])
	case 7: // working directory report
		if len(params) > 1 && t.OnWorkingDir != nil {
			t.OnWorkingDir(string(params[1]))
		}
	case 8:
		t.oscHyperlink(params)
	case 10:
		t.oscNamedColor(params, 10)
	case 11:
		t.oscNamedColor(params, 11)
	case 12:
		t.oscNamedColor(params, 12)
	case 52:
		t.oscClipboard(params)
	case 104:
		if len(params) <= 1 || len(params[1]) == 0 {
			t.palette.ResetAll()
		} else {
			for _, p := range params[1:] {
				if idx, err := strconv.Atoi(string(p)); err == nil && idx >= 0 && idx < 256 {
					t.palette.ResetIndex(uint8(idx))
				}
			}
		}
		t.grid().Damage().MarkAll()
	case 110:
		t.palette.fg = t.palette.base.Foreground
		t.grid().Damage().MarkAll()
	case 111:
		t.palette.bg = t.palette.base.Background
		t.grid().Damage().MarkAll()
	case 112:
		t.palette.cursorC = t.palette.base.Cursor
	case 133:
		t.oscPromptMark(params)
	case 1337: // iTerm images: external image sink, not wired
		t.logDebug("OSC 1337: image payload dropped")
	default:
		t.logDebug("OSC: unhandled command %d", cmd)
	}
}

func (t *Terminal) setTitle(title string) {
	t.title = title
	if t.OnTitle != nil {
		t.OnTitle(title)
	}
}

// oscPalette handles OSC 4: pairs of index;spec, where spec "?" queries.
func (t *Terminal) oscPalette(args [][]byte) {
	for i := 0; i+1 < len(args); i += 2 {
		idx, err := strconv.Atoi(string(args[i]))
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		spec := string(args[i+1])
		if spec == "?" {
			t.respond([]byte(fmt.Sprintf("\x1b]4;%d;%s\x1b\\", idx, formatColorSpec(t.palette.Color(uint8(idx))))))
			continue
		}
		if c, ok := parseColorSpec(spec); ok {
			t.palette.Set(uint8(idx), c)
			t.grid().Damage().MarkAll()
		}
	}
}

// oscNamedColor handles OSC 10/11/12 set and query.
func (t *Terminal) oscNamedColor(params [][]byte, cmd int) {
	if len(params) < 2 {
		return
	}
	spec := string(params[1])
	if spec == "?" {
		var c string
		switch cmd {
		case 10:
			c = formatColorSpec(t.palette.Foreground())
		case 11:
			c = formatColorSpec(t.palette.Background())
		case 12:
			c = formatColorSpec(t.palette.CursorColor())
		}
		t.respond([]byte(fmt.Sprintf("\x1b]%d;%s\x1b\\", cmd, c)))
		return
	}
	c, ok := parseColorSpec(spec)
	if !ok {
		return
	}
	switch cmd {
	case 10:
		t.palette.fg = c
	case 11:
		t.palette.bg = c
	case 12:
		t.palette.cursorC = c
	}
	t.grid().Damage().MarkAll()
}

// oscHyperlink handles OSC 8 ; params ; uri — an empty uri closes the link.
func (t *Terminal) oscHyperlink(params [][]byte) {
	if len(params) < 3 {
		t.cursor.Hyperlink = 0
		return
	}
	linkParams := string(params[1])
	// URIs may contain semicolons; rejoin the tail.
	var uriParts []string
	for _, p := range params[2:] {
		uriParts = append(uriParts, string(p))
	}
	uri := strings.Join(uriParts, ";")
	if uri == "" {
		t.cursor.Hyperlink = 0
		return
	}
	t.cursor.Hyperlink = t.links.Intern(linkParams, uri)
}

// oscClipboard handles OSC 52: base64 payload to the host clipboard, gated
// by configuration. Reads ("?") are never answered.
func (t *Terminal) oscClipboard(params [][]byte) {
	if !t.cfg.AllowOSC52 {
		t.logDebug("OSC 52: blocked by policy")
		return
	}
	if len(params) < 3 {
		return
	}
	selection := string(params[1])
	payload := string(params[2])
	if payload == "?" {
		// Clipboard reads leak whatever the user copied; refuse quietly.
		return
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.logDebug("OSC 52: bad base64: %v", err)
		return
	}
	if t.OnClipboard != nil {
		t.OnClipboard(selection, data)
	}
}

// oscPromptMark handles OSC 133 shell-integration marks: A prompt start,
// B input start, C command output start, D;exit command end.
func (t *Terminal) oscPromptMark(params [][]byte) {
	if len(params) < 2 || len(params[1]) == 0 || t.OnPromptMark == nil {
		return
	}
	mark := params[1][0]
	exit := 0
	if mark == 'D' {
		// Either "D;0" as separate params or "D" alone.
		if len(params) > 2 {
			exit, _ = strconv.Atoi(string(params[2]))
		} else if rest := string(params[1]); len(rest) > 2 && rest[1] == ';' {
			exit, _ = strconv.Atoi(rest[2:])
		}
	}
	switch mark {
	case 'A', 'B', 'C', 'D':
		t.OnPromptMark(mark, exit)
	}
}
