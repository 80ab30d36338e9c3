// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: input/event.go
// Summary: Host-side input event types: keys, modifiers, mouse.
// Usage: The host translates its windowing events into these and submits
// them through the session; the encoder turns them into PTY bytes.

package input

// Mod is a modifier bit set, numbered to match the kitty/xterm encoding.
type Mod uint8

const (
	ModShift Mod = 1 << iota
	ModAlt
	ModCtrl
	ModSuper
	ModHyper
	ModMeta
	ModCapsLock
	ModNumLock
)

// Key identifies a key. Printable keys use KeyRune plus the Rune field.
type Key int

const (
	KeyRune Key = iota
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyUp
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyInsert
	KeyDelete
	KeyPageUp
	KeyPageDown
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeypadEnter
)

// EventKind distinguishes press, repeat and release.
type EventKind int

const (
	Press EventKind = iota
	Repeat
	Release
)

// KeyEvent is one keyboard event from the host.
type KeyEvent struct {
	Key  Key
	Rune rune // base code point for KeyRune, lowercased, no modifiers applied
	Mods Mod
	Kind EventKind
}

// MouseButton numbers follow the xterm encoding.
type MouseButton int

const (
	ButtonLeft MouseButton = iota
	ButtonMiddle
	ButtonRight
	ButtonNone // motion without a pressed button
	WheelUp
	WheelDown
	WheelLeft
	WheelRight
)

// MouseEventKind distinguishes presses, releases and motion.
type MouseEventKind int

const (
	MousePress MouseEventKind = iota
	MouseRelease
	MouseMotion
)

// MouseEvent is one pointer event in cell coordinates, with the pixel
// position carried alongside for SGR-pixel reporting.
type MouseEvent struct {
	Kind             MouseEventKind
	Button           MouseButton
	Col, Row         int // 0-based cell position
	PixelX, PixelY   int
	Mods             Mod
}
