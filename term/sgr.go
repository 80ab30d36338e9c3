// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/sgr.go
// Summary: Select Graphic Rendition: attributes, 256/24-bit color, underline
// styles and underline color, both colon and legacy semicolon forms.
// Usage: Part of the Terminal state machine.

package term

import (
	"fmt"

	"github.com/framegrace/vtcore/grid"
)

// applySGR walks the parameter groups of a CSI ... m sequence.
func (t *Terminal) applySGR(params [][]int) {
	b := &t.cursor.Brush
	for i := 0; i < len(params); i++ {
		g := params[i]
		switch g[0] {
		case 0:
			prot := b.Attr & grid.AttrProtected // DECSCA is not an SGR attribute
			*b = Brush{}
			b.Attr |= prot
		case 1:
			b.Attr |= grid.AttrBold
		case 2:
			b.Attr |= grid.AttrDim
		case 3:
			b.Attr |= grid.AttrItalic
		case 4:
			b.Attr |= grid.AttrUnderline
			b.Underline = underlineFromSub(g)
			if b.Underline == underlineNone {
				b.Attr &^= grid.AttrUnderline
				b.Underline = grid.UnderlineSingle
			}
		case 5:
			b.Attr |= grid.AttrBlink
		case 6:
			b.Attr |= grid.AttrRapidBlink
		case 7:
			b.Attr |= grid.AttrInverse
		case 8:
			b.Attr |= grid.AttrHidden
		case 9:
			b.Attr |= grid.AttrStrikeout
		case 21:
			b.Attr |= grid.AttrUnderline
			b.Underline = grid.UnderlineDouble
		case 22:
			b.Attr &^= grid.AttrBold | grid.AttrDim
		case 23:
			b.Attr &^= grid.AttrItalic
		case 24:
			b.Attr &^= grid.AttrUnderline
			b.Underline = grid.UnderlineSingle
		case 25:
			b.Attr &^= grid.AttrBlink | grid.AttrRapidBlink
		case 27:
			b.Attr &^= grid.AttrInverse
		case 28:
			b.Attr &^= grid.AttrHidden
		case 29:
			b.Attr &^= grid.AttrStrikeout
		case 30, 31, 32, 33, 34, 35, 36, 37:
			b.FG = grid.Indexed(uint8(g[0] - 30))
		case 38:
			if c, used, ok := extendedColor(params, i); ok {
				b.FG = c
				i += used
			}
		case 39:
			b.FG = grid.DefaultFG
		case 40, 41, 42, 43, 44, 45, 46, 47:
			b.BG = grid.Indexed(uint8(g[0] - 40))
		case 48:
			if c, used, ok := extendedColor(params, i); ok {
				b.BG = c
				i += used
			}
		case 49:
			b.BG = grid.DefaultBG
		case 58:
			if c, used, ok := extendedColor(params, i); ok {
				b.UL = c
				i += used
			}
		case 59:
			b.UL = grid.Color{}
		case 90, 91, 92, 93, 94, 95, 96, 97:
			b.FG = grid.Indexed(uint8(g[0] - 90 + 8))
		case 100, 101, 102, 103, 104, 105, 106, 107:
			b.BG = grid.Indexed(uint8(g[0] - 100 + 8))
		default:
			t.logDebug("SGR: unhandled attribute %d", g[0])
		}
	}
}

// sgrString renders the current brush as DECRQSS expects: "0" plus the
// parameters for bold, dim, italic, underline, blink, inverse, hidden,
// strikeout and the fg/bg colors. Rapid blink, the underline style and the
// underline color are not included.
func (t *Terminal) sgrString() string {
	b := t.cursor.Brush
	out := "0"
	add := func(s string) { out += ";" + s }
	if b.Attr&grid.AttrBold != 0 {
		add("1")
	}
	if b.Attr&grid.AttrDim != 0 {
		add("2")
	}
	if b.Attr&grid.AttrItalic != 0 {
		add("3")
	}
	if b.Attr&grid.AttrUnderline != 0 {
		add("4")
	}
	if b.Attr&grid.AttrBlink != 0 {
		add("5")
	}
	if b.Attr&grid.AttrInverse != 0 {
		add("7")
	}
	if b.Attr&grid.AttrHidden != 0 {
		add("8")
	}
	if b.Attr&grid.AttrStrikeout != 0 {
		add("9")
	}
	switch b.FG.Mode {
	case grid.ColorModeIndexed:
		if b.FG.Index < 8 {
			add(fmt.Sprintf("%d", 30+b.FG.Index))
		} else {
			add(fmt.Sprintf("38:5:%d", b.FG.Index))
		}
	case grid.ColorModeRGB:
		add(fmt.Sprintf("38:2::%d:%d:%d", b.FG.R, b.FG.G, b.FG.B))
	}
	switch b.BG.Mode {
	case grid.ColorModeIndexed:
		if b.BG.Index < 8 {
			add(fmt.Sprintf("%d", 40+b.BG.Index))
		} else {
			add(fmt.Sprintf("48:5:%d", b.BG.Index))
		}
	case grid.ColorModeRGB:
		add(fmt.Sprintf("48:2::%d:%d:%d", b.BG.R, b.BG.G, b.BG.B))
	}
	return out
}

const underlineNone = grid.UnderlineStyle(0xFF)

// underlineFromSub maps SGR 4:x subparameters to a style. Plain SGR 4 is a
// single underline; 4:0 turns underlining off.
func underlineFromSub(g []int) grid.UnderlineStyle {
	if len(g) < 2 {
		return grid.UnderlineSingle
	}
	switch g[1] {
	case 0:
		return underlineNone
	case 2:
		return grid.UnderlineDouble
	case 3:
		return grid.UnderlineCurly
	case 4:
		return grid.UnderlineDotted
	case 5:
		return grid.UnderlineDashed
	default:
		return grid.UnderlineSingle
	}
}

// extendedColor decodes 38/48/58 in either form:
//
//	38;5;idx   38;2;r;g;b     (legacy semicolon: consumes following groups)
//	38:5:idx   38:2[:cs]:r:g:b (colon subparameters, self-contained)
//
// It returns the color and how many extra parameter groups were consumed.
func extendedColor(params [][]int, i int) (grid.Color, int, bool) {
	g := params[i]
	if len(g) > 1 {
		// Colon form.
		switch g[1] {
		case 5:
			if len(g) >= 3 {
				return grid.Indexed(uint8(g[2])), 0, true
			}
		case 2:
			// 38:2:r:g:b or 38:2:colorspace:r:g:b
			if len(g) == 5 {
				return grid.RGB(uint8(g[2]), uint8(g[3]), uint8(g[4])), 0, true
			}
			if len(g) >= 6 {
				return grid.RGB(uint8(g[3]), uint8(g[4]), uint8(g[5])), 0, true
			}
		}
		return grid.Color{}, 0, false
	}
	// Legacy semicolon form.
	if i+1 >= len(params) {
		return grid.Color{}, 0, false
	}
	switch params[i+1][0] {
	case 5:
		if i+2 < len(params) {
			return grid.Indexed(uint8(params[i+2][0])), 2, true
		}
	case 2:
		if i+4 < len(params) {
			return grid.RGB(uint8(params[i+2][0]), uint8(params[i+3][0]), uint8(params[i+4][0])), 4, true
		}
	}
	return grid.Color{}, 0, false
}
