// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config_test.go
// Summary: Tests for defaults, validation and the built-in palette.

package config

import (
	"testing"

	"github.com/framegrace/vtcore/grid"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.ApplyDefaults()
	if c.ScrollbackLines != 10000 {
		t.Errorf("scrollback default = %d", c.ScrollbackLines)
	}
	if c.SyncUpdateTimeoutMS != 150 {
		t.Errorf("sync timeout default = %d", c.SyncUpdateTimeoutMS)
	}
	if c.WordSeparators == "" {
		t.Error("no default word separators")
	}
	if c.DefaultPalette == nil {
		t.Fatal("no default palette")
	}
	if !c.StripPasteMarkers() {
		t.Error("paste guard off by default")
	}
	if c.AllowOSC52 {
		t.Error("OSC 52 allowed by default")
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	c := Config{ScrollbackLines: 1 << 30}
	if err := c.Validate(); err == nil {
		t.Error("huge scrollback accepted")
	}
	c = Config{KittyKeyboardDefaultFlags: 0xFF}
	if err := c.Validate(); err == nil {
		t.Error("unknown kitty bits accepted")
	}
	c = Config{ScrollbackLines: 5000}
	if err := c.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestXTermPaletteShape(t *testing.T) {
	p := XTermPalette()
	if p.Colors[1] != grid.RGB(0xcd, 0, 0) {
		t.Errorf("red = %v", p.Colors[1])
	}
	// Cube corner checks.
	if p.Colors[16] != grid.RGB(0, 0, 0) {
		t.Errorf("cube origin = %v", p.Colors[16])
	}
	if p.Colors[231] != grid.RGB(255, 255, 255) {
		t.Errorf("cube max = %v", p.Colors[231])
	}
	// Grayscale ramp endpoints.
	if p.Colors[232] != grid.RGB(8, 8, 8) {
		t.Errorf("ramp start = %v", p.Colors[232])
	}
	if p.Colors[255] != grid.RGB(238, 238, 238) {
		t.Errorf("ramp end = %v", p.Colors[255])
	}
}
