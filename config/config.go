// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: Construction-time configuration for a terminal core instance.
// Usage: The host fills a Config and passes it to vtcore.NewSession; no
// global state, no file loading — loaders live with the host.

package config

import (
	"fmt"

	"github.com/framegrace/vtcore/grid"
)

// Config enumerates every recognized core option.
type Config struct {
	// ScrollbackLines bounds the history ring of the primary screen.
	ScrollbackLines uint32
	// AllowOSC52 gates clipboard writes via OSC 52. Off by default: the
	// sequence can exfiltrate data from anything that can print.
	AllowOSC52 bool
	// DefaultPalette seeds the 256-color table plus default fg/bg/cursor.
	// Nil selects the built-in xterm palette.
	DefaultPalette *Palette
	// WordSeparators lists the characters that break words for
	// double-click selection. Unicode word segmentation applies only
	// inside ideographic text.
	WordSeparators string
	// DisablePasteGuard turns off stripping of embedded paste-end markers
	// from bracketed-paste payloads. The guard is on by default so a paste
	// cannot forge the closing bracket.
	DisablePasteGuard bool
	// KittyKeyboardDefaultFlags seeds the kitty keyboard flag stack.
	KittyKeyboardDefaultFlags uint8
	// SyncUpdateTimeoutMS auto-releases an unterminated synchronized
	// update (DECSET 2026). Default 150.
	SyncUpdateTimeoutMS uint16
	// SearchIndexPath, when set, enables the persistent SQLite search
	// index over scrollback text.
	SearchIndexPath string
}

const (
	defaultScrollback  = 10000
	defaultSyncTimeout = 150
	defaultSeparators  = " \t\"'`()[]{}<>,;:|"

	maxScrollback = 1 << 22
)

// ApplyDefaults fills unset fields in place.
func (c *Config) ApplyDefaults() {
	if c.ScrollbackLines == 0 {
		c.ScrollbackLines = defaultScrollback
	}
	if c.SyncUpdateTimeoutMS == 0 {
		c.SyncUpdateTimeoutMS = defaultSyncTimeout
	}
	if c.WordSeparators == "" {
		c.WordSeparators = defaultSeparators
	}
	if c.DefaultPalette == nil {
		p := XTermPalette()
		c.DefaultPalette = &p
	}
}

// StripPasteMarkers reports whether bracketed-paste payload scrubbing is on.
func (c *Config) StripPasteMarkers() bool { return !c.DisablePasteGuard }

// Validate reports an error for out-of-range options.
func (c *Config) Validate() error {
	if c.ScrollbackLines > maxScrollback {
		return fmt.Errorf("config invalid: scrollback_lines %d exceeds maximum %d", c.ScrollbackLines, maxScrollback)
	}
	if c.KittyKeyboardDefaultFlags > 0x1F {
		return fmt.Errorf("config invalid: kitty_keyboard_default_flags %#x has unknown bits", c.KittyKeyboardDefaultFlags)
	}
	return nil
}

// Palette is the 256-entry color table plus the named defaults.
type Palette struct {
	Colors     [256]grid.Color
	Foreground grid.Color
	Background grid.Color
	Cursor     grid.Color
}
