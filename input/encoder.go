// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/encoder.go
// Summary: Key event → PTY byte encoding across the legacy, modifyOtherKeys
// and kitty regimes.
// Usage: The session feeds it the terminal's current mode view per event.

package input

import (
	"fmt"
	"strings"
)

// ModeView is the slice of terminal state the encoder consumes. The session
// rebuilds it from the terminal's modes, under its lock, on every
// submission.
type ModeView struct {
	CursorKeys      bool // DECCKM
	KeypadApp       bool // DECKPAM
	BracketedPaste  bool
	FocusReport     bool
	MouseTier       int // 0 off, 1 X10, 2 normal, 3 button-event, 4 any-event
	MouseSGR        bool
	MousePixel      bool
	KittyFlags      uint8
	ModifyOtherKeys int
}

// Kitty keyboard protocol flag bits.
const (
	KittyDisambiguate   = 1 << 0
	KittyReportEvents   = 1 << 1
	KittyReportAlternat = 1 << 2
	KittyReportAllKeys  = 1 << 3
	KittyReportText     = 1 << 4
)

// EncodeKey renders a key event as the byte sequence the application
// expects under the given modes. A nil result means the event produces no
// output (e.g. a release without kitty event reporting).
func EncodeKey(ev KeyEvent, m ModeView) []byte {
	if m.KittyFlags&KittyReportAllKeys != 0 {
		return encodeKitty(ev, m)
	}
	if ev.Kind == Release {
		// Only the kitty protocol reports releases.
		return nil
	}
	if m.KittyFlags&KittyDisambiguate != 0 {
		if b := kittyDisambiguated(ev, m); b != nil {
			return b
		}
	}
	return encodeLegacy(ev, m)
}

// encodeLegacy is the classic xterm encoding.
func encodeLegacy(ev KeyEvent, m ModeView) []byte {
	mods := encodeModifiers(ev.Mods)

	if ev.Key == KeyRune {
		return legacyRune(ev, m)
	}

	// Arrow/home/end keys: SS3 in application mode, CSI otherwise; any
	// modifier forces the CSI 1;mods form.
	if final, ok := cursorFinal(ev.Key); ok {
		if mods > 1 {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", mods, final))
		}
		if m.CursorKeys {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}

	if seq, ok := tildeNumber(ev.Key); ok {
		if mods > 1 {
			return []byte(fmt.Sprintf("\x1b[%d;%d~", seq, mods))
		}
		return []byte(fmt.Sprintf("\x1b[%d~", seq))
	}

	switch ev.Key {
	case KeyEnter:
		return maybeAltPrefix(ev.Mods, []byte{'\r'})
	case KeypadEnter:
		if m.KeypadApp {
			return []byte("\x1bOM")
		}
		return []byte{'\r'}
	case KeyTab:
		if ev.Mods&ModShift != 0 {
			return []byte("\x1b[Z") // CBT
		}
		return maybeAltPrefix(ev.Mods, []byte{'\t'})
	case KeyBackspace:
		if ev.Mods&ModCtrl != 0 {
			return maybeAltPrefix(ev.Mods, []byte{0x08})
		}
		return maybeAltPrefix(ev.Mods, []byte{0x7f})
	case KeyEscape:
		return maybeAltPrefix(ev.Mods, []byte{0x1b})
	case KeyF1, KeyF2, KeyF3, KeyF4:
		final := byte('P' + int(ev.Key-KeyF1))
		if mods > 1 {
			return []byte(fmt.Sprintf("\x1b[1;%d%c", mods, final))
		}
		return []byte{0x1b, 'O', final}
	}
	return nil
}

// legacyRune encodes a printable key, applying ctrl mapping, alt prefix and
// the modifyOtherKeys escape form when it is enabled.
func legacyRune(ev KeyEvent, m ModeView) []byte {
	r := ev.Rune
	if r == 0 {
		return nil
	}
	mods := encodeModifiers(ev.Mods)

	// modifyOtherKeys level 2 reports every modified key; level 1 only the
	// combinations the legacy encoding cannot express.
	if m.ModifyOtherKeys == 2 && mods > 1 {
		return []byte(fmt.Sprintf("\x1b[27;%d;%d~", mods, r))
	}

	if ev.Mods&ModCtrl != 0 {
		if c, ok := ctrlByte(r); ok {
			return maybeAltPrefix(ev.Mods, []byte{c})
		}
		if m.ModifyOtherKeys >= 1 {
			return []byte(fmt.Sprintf("\x1b[27;%d;%d~", mods, r))
		}
		return nil
	}
	enc := []byte(applyShift(r, ev.Mods))
	return maybeAltPrefix(ev.Mods, enc)
}

// ctrlByte maps a rune to its C0 control form.
func ctrlByte(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r - 'a' + 1), true
	case r >= 'A' && r <= 'Z':
		return byte(r - 'A' + 1), true
	case r == ' ', r == '@', r == '2':
		return 0x00, true
	case r == '[', r == '3':
		return 0x1b, true
	case r == '\\', r == '4':
		return 0x1c, true
	case r == ']', r == '5':
		return 0x1d, true
	case r == '^', r == '6':
		return 0x1e, true
	case r == '_', r == '-', r == '/', r == '7':
		return 0x1f, true
	case r == '?', r == '8':
		return 0x7f, true
	}
	return 0, false
}

// applyShift uppercases shifted letters; symbol shifting belongs to the
// host's keymap, which hands us the shifted rune already.
func applyShift(r rune, mods Mod) string {
	if mods&ModShift != 0 && r >= 'a' && r <= 'z' {
		return strings.ToUpper(string(r))
	}
	return string(r)
}

func maybeAltPrefix(mods Mod, b []byte) []byte {
	if mods&ModAlt != 0 {
		return append([]byte{0x1b}, b...)
	}
	return b
}

// encodeModifiers produces the xterm/kitty modifier parameter: 1 + bits.
func encodeModifiers(mods Mod) int {
	return 1 + int(mods&(ModShift|ModAlt|ModCtrl|ModSuper|ModHyper|ModMeta|ModCapsLock|ModNumLock))
}

func cursorFinal(k Key) (byte, bool) {
	switch k {
	case KeyUp:
		return 'A', true
	case KeyDown:
		return 'B', true
	case KeyRight:
		return 'C', true
	case KeyLeft:
		return 'D', true
	case KeyHome:
		return 'H', true
	case KeyEnd:
		return 'F', true
	}
	return 0, false
}

func tildeNumber(k Key) (int, bool) {
	switch k {
	case KeyInsert:
		return 2, true
	case KeyDelete:
		return 3, true
	case KeyPageUp:
		return 5, true
	case KeyPageDown:
		return 6, true
	case KeyF5:
		return 15, true
	case KeyF6:
		return 17, true
	case KeyF7:
		return 18, true
	case KeyF8:
		return 19, true
	case KeyF9:
		return 20, true
	case KeyF10:
		return 21, true
	case KeyF11:
		return 23, true
	case KeyF12:
		return 24, true
	}
	return 0, false
}

// EncodeFocus renders a focus change report when focus reporting is on.
func EncodeFocus(gained bool, m ModeView) []byte {
	if !m.FocusReport {
		return nil
	}
	if gained {
		return []byte("\x1b[I")
	}
	return []byte("\x1b[O")
}
