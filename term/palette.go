// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/palette.go
// Summary: Runtime palette: OSC 4/10/11/12 set, query and reset on top of
// the configured defaults.
// Usage: Part of the Terminal state machine; snapshots copy it out.

package term

import (
	"fmt"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/vtcore/config"
	"github.com/framegrace/vtcore/grid"
)

// Palette is the live color table: configured defaults plus OSC overrides.
type Palette struct {
	base    config.Palette
	colors  [256]grid.Color
	fg      grid.Color
	bg      grid.Color
	cursorC grid.Color
}

// NewPalette copies the configured palette into a runtime table.
func NewPalette(base *config.Palette) Palette {
	p := Palette{base: *base}
	p.colors = base.Colors
	p.fg = base.Foreground
	p.bg = base.Background
	p.cursorC = base.Cursor
	return p
}

// Color resolves an indexed color through the table.
func (p *Palette) Color(idx uint8) grid.Color { return p.colors[idx] }

// Foreground, Background and CursorColor return the named defaults.
func (p *Palette) Foreground() grid.Color  { return p.fg }
func (p *Palette) Background() grid.Color  { return p.bg }
func (p *Palette) CursorColor() grid.Color { return p.cursorC }

// Set overrides one indexed entry.
func (p *Palette) Set(idx uint8, c grid.Color) { p.colors[idx] = c }

// ResetIndex restores one entry to its configured default.
func (p *Palette) ResetIndex(idx uint8) { p.colors[idx] = p.base.Colors[idx] }

// ResetAll restores the whole table.
func (p *Palette) ResetAll() {
	p.colors = p.base.Colors
	p.fg = p.base.Foreground
	p.bg = p.base.Background
	p.cursorC = p.base.Cursor
}

// parseColorSpec parses an xterm color specification: "rgb:RR/GG/BB" with
// 1–4 hex digits per channel, or "#RRGGBB" forms via go-colorful.
func parseColorSpec(spec string) (grid.Color, bool) {
	spec = strings.TrimSpace(spec)
	if strings.HasPrefix(spec, "rgb:") {
		parts := strings.Split(strings.TrimPrefix(spec, "rgb:"), "/")
		if len(parts) != 3 {
			return grid.Color{}, false
		}
		var ch [3]uint8
		for i, part := range parts {
			v, ok := scaleHexChannel(part)
			if !ok {
				return grid.Color{}, false
			}
			ch[i] = v
		}
		return grid.RGB(ch[0], ch[1], ch[2]), true
	}
	if strings.HasPrefix(spec, "#") {
		c, err := colorful.Hex(spec)
		if err != nil {
			return grid.Color{}, false
		}
		r, g, b := c.RGB255()
		return grid.RGB(r, g, b), true
	}
	return grid.Color{}, false
}

// scaleHexChannel scales an 1..4 hex digit channel to 8 bits.
func scaleHexChannel(s string) (uint8, bool) {
	if len(s) == 0 || len(s) > 4 {
		return 0, false
	}
	var v uint32
	for _, r := range s {
		var d uint32
		switch {
		case r >= '0' && r <= '9':
			d = uint32(r - '0')
		case r >= 'a' && r <= 'f':
			d = uint32(r-'a') + 10
		case r >= 'A' && r <= 'F':
			d = uint32(r-'A') + 10
		default:
			return 0, false
		}
		v = v<<4 | d
	}
	max := uint32(1)<<(4*len(s)) - 1
	return uint8(v * 255 / max), true
}

// formatColorSpec renders a color as the 16-bit rgb:: form queries expect.
func formatColorSpec(c grid.Color) string {
	r, g, b := c.R, c.G, c.B
	return fmt.Sprintf("rgb:%02x%02x/%02x%02x/%02x%02x", r, r, g, g, b, b)
}
