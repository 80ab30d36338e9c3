// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/palette.go
// Summary: Built-in xterm 256-color palette: 16 ANSI colors, 6×6×6 cube,
// grayscale ramp. Hosts may replace any entry before construction.

package config

import (
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/vtcore/grid"
)

// ansi16 holds the standard xterm ANSI colors as hex strings, converted
// through colorful each time a palette is built.
var ansi16 = [16]string{
	"#000000", "#cd0000", "#00cd00", "#cdcd00",
	"#0000ee", "#cd00cd", "#00cdcd", "#e5e5e5",
	"#7f7f7f", "#ff0000", "#00ff00", "#ffff00",
	"#5c5cff", "#ff00ff", "#00ffff", "#ffffff",
}

// XTermPalette builds the default 256-entry palette.
func XTermPalette() Palette {
	var p Palette
	for i, hex := range ansi16 {
		p.Colors[i] = hexColor(hex)
	}
	// 6×6×6 color cube, entries 16..231.
	levels := [6]uint8{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				p.Colors[idx] = grid.RGB(levels[r], levels[g], levels[b])
				idx++
			}
		}
	}
	// Grayscale ramp, entries 232..255.
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		p.Colors[232+i] = grid.RGB(v, v, v)
	}
	p.Foreground = p.Colors[7]
	p.Background = p.Colors[0]
	p.Cursor = p.Colors[15]
	return p
}

func hexColor(hex string) grid.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return grid.Color{}
	}
	r, g, b := c.RGB255()
	return grid.RGB(r, g, b)
}
