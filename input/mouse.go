// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/mouse.go
// Summary: Mouse event → report bytes across X10, normal, button-event,
// any-event, SGR and SGR-pixel encodings.
// Usage: Selected per event by the terminal's mouse tier and flags.

package input

import "fmt"

// Mouse tier values, matching term.MouseTier.
const (
	TierOff = iota
	TierX10
	TierNormal
	TierButtonEvent
	TierAnyEvent
)

// EncodeMouse renders a mouse report, or nil when the current tier does not
// report this event.
func EncodeMouse(ev MouseEvent, m ModeView) []byte {
	if m.MouseTier == TierOff {
		return nil
	}
	switch ev.Kind {
	case MousePress:
	case MouseRelease:
		if m.MouseTier == TierX10 {
			return nil
		}
	case MouseMotion:
		switch m.MouseTier {
		case TierAnyEvent:
		case TierButtonEvent:
			if ev.Button == ButtonNone {
				return nil
			}
		default:
			return nil
		}
	}

	b := buttonCode(ev)
	if m.MouseTier >= TierNormal {
		b |= modifierBits(ev.Mods)
	}
	if ev.Kind == MouseMotion {
		b |= 32
	}

	if m.MouseSGR || m.MousePixel {
		x, y := ev.Col+1, ev.Row+1
		if m.MousePixel {
			x, y = ev.PixelX+1, ev.PixelY+1
		}
		final := byte('M')
		if ev.Kind == MouseRelease {
			final = 'm'
		}
		return []byte(fmt.Sprintf("\x1b[<%d;%d;%d%c", b, x, y, final))
	}

	// Legacy encoding: releases collapse to button 3, coordinates saturate
	// at the 223-cell limit of the byte form.
	if ev.Kind == MouseRelease {
		b = (b &^ 0x03) | 3
	}
	x, y := legacyCoord(ev.Col), legacyCoord(ev.Row)
	return []byte{0x1b, '[', 'M', byte(32 + b), x, y}
}

// buttonCode maps a button to its xterm code, wheel buttons included.
func buttonCode(ev MouseEvent) int {
	switch ev.Button {
	case ButtonLeft:
		return 0
	case ButtonMiddle:
		return 1
	case ButtonRight:
		return 2
	case ButtonNone:
		return 3
	case WheelUp:
		return 64
	case WheelDown:
		return 65
	case WheelLeft:
		return 66
	case WheelRight:
		return 67
	}
	return 3
}

func modifierBits(mods Mod) int {
	b := 0
	if mods&ModShift != 0 {
		b |= 4
	}
	if mods&ModAlt != 0 {
		b |= 8
	}
	if mods&ModCtrl != 0 {
		b |= 16
	}
	return b
}

func legacyCoord(v int) byte {
	v++
	if v > 223 {
		v = 223
	}
	return byte(32 + v)
}
