// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/paste.go
// Summary: Bracketed paste wrapping with end-marker scrubbing.
// Usage: Applied to host paste submissions before they reach the PTY.

package input

import "bytes"

var (
	pasteStart = []byte("\x1b[200~")
	pasteEnd   = []byte("\x1b[201~")
)

// EncodePaste prepares a paste payload. Under bracketed paste the payload
// is wrapped in the 200~/201~ markers; with stripMarkers set, embedded end
// markers are removed first so a malicious paste cannot break out of the
// bracket and inject keystrokes.
func EncodePaste(data []byte, m ModeView, stripMarkers bool) []byte {
	if !m.BracketedPaste {
		return data
	}
	if stripMarkers {
		data = bytes.ReplaceAll(data, pasteEnd, nil)
	}
	out := make([]byte, 0, len(data)+len(pasteStart)+len(pasteEnd))
	out = append(out, pasteStart...)
	out = append(out, data...)
	out = append(out, pasteEnd...)
	return out
}
