// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/kitty.go
// Summary: Kitty keyboard protocol CSI-u encoding: disambiguation, event
// types, release reporting.
// Usage: Selected by EncodeKey when the terminal's kitty flag stack says so.

package input

import "fmt"

// Functional key code points assigned by the kitty protocol for keys that
// have no legacy CSI number form.
const (
	kittyKeyEscape    = 27
	kittyKeyEnter     = 13
	kittyKeyTab       = 9
	kittyKeyBackspace = 127
	kittyKeypadEnter  = 57414
)

// encodeKitty renders any key as a CSI-u escape per the "report all keys"
// level. Release events encode only when event reporting is active.
func encodeKitty(ev KeyEvent, m ModeView) []byte {
	if ev.Kind == Release && m.KittyFlags&KittyReportEvents == 0 {
		return nil
	}

	// Legacy functional keys keep their final letters, gaining
	// modifier:event parameters.
	if final, ok := cursorFinal(ev.Key); ok {
		return kittyFunctional(ev, m, final)
	}
	if seq, ok := tildeNumber(ev.Key); ok {
		return kittyTilde(seq, ev, m)
	}
	if ev.Key >= KeyF1 && ev.Key <= KeyF4 {
		final := byte('P' + int(ev.Key-KeyF1))
		return kittyFunctional(ev, m, final)
	}

	code := 0
	switch ev.Key {
	case KeyRune:
		code = int(ev.Rune)
	case KeyEnter:
		code = kittyKeyEnter
	case KeyTab:
		code = kittyKeyTab
	case KeyBackspace:
		code = kittyKeyBackspace
	case KeyEscape:
		code = kittyKeyEscape
	case KeypadEnter:
		code = kittyKeypadEnter
	default:
		return nil
	}
	return []byte(fmt.Sprintf("\x1b[%d%su", code, kittySuffix(ev, m)))
}

// kittyDisambiguated handles the lowest protocol level: only Esc and
// Ctrl- or Alt-modified text keys switch to CSI-u; everything else,
// modified Enter/Tab/Backspace included, falls back to legacy.
func kittyDisambiguated(ev KeyEvent, m ModeView) []byte {
	mods := encodeModifiers(ev.Mods)
	switch {
	case ev.Key == KeyEscape:
		return []byte(fmt.Sprintf("\x1b[%d%su", kittyKeyEscape, kittySuffix(ev, m)))
	case ev.Key == KeyRune && ev.Mods&(ModCtrl|ModAlt) != 0:
		return []byte(fmt.Sprintf("\x1b[%d;%du", ev.Rune, mods))
	}
	return nil
}

// kittySuffix renders ";mods" or ";mods:event" as needed.
func kittySuffix(ev KeyEvent, m ModeView) string {
	mods := encodeModifiers(ev.Mods)
	event := kittyEventCode(ev.Kind)
	switch {
	case m.KittyFlags&KittyReportEvents != 0 && event != 1:
		return fmt.Sprintf(";%d:%d", mods, event)
	case mods > 1:
		return fmt.Sprintf(";%d", mods)
	default:
		return ""
	}
}

func kittyEventCode(k EventKind) int {
	switch k {
	case Repeat:
		return 2
	case Release:
		return 3
	default:
		return 1
	}
}

// kittyFunctional renders CSI 1;mods:event F forms for legacy finals.
func kittyFunctional(ev KeyEvent, m ModeView, final byte) []byte {
	suffix := kittySuffix(ev, m)
	if suffix == "" {
		return []byte(fmt.Sprintf("\x1b[%c", final))
	}
	// The parameter position needs the explicit leading 1.
	return []byte(fmt.Sprintf("\x1b[1%s%c", suffix, final))
}

// kittyTilde renders CSI seq;mods:event ~ forms.
func kittyTilde(seq int, ev KeyEvent, m ModeView) []byte {
	suffix := kittySuffix(ev, m)
	return []byte(fmt.Sprintf("\x1b[%d%s~", seq, suffix))
}
