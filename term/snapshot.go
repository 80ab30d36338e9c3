// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/snapshot.go
// Summary: Immutable frame snapshot handed to renderers: visible lines,
// cursor, damage, referenced hyperlinks, palette.
// Usage: Built by BeginFrame under the session lock; the renderer
// reads it without further synchronization. EndFrame clears damage.

package term

import "github.com/framegrace/vtcore/grid"

// Snapshot is a consistent view of one frame. All data is copied: the
// terminal task may keep parsing while a renderer holds it, and no cell is
// ever observed torn.
type Snapshot struct {
	Rows, Cols int
	Lines      []*grid.Line

	CursorRow     int
	CursorCol     int
	CursorVisible bool

	Damage       []grid.LineDamage
	DamageFull   bool
	CursorMoved  bool
	SelChanged   bool
	ReverseVideo bool

	Title string

	links   map[int]grid.Hyperlink
	palette Palette
}

// TakeSnapshot builds a frame snapshot. During a synchronized update the
// frozen pre-update lines are served instead, with damage suppressed.
func (t *Terminal) TakeSnapshot() *Snapshot {
	g := t.grid()
	d := g.Damage()
	s := &Snapshot{
		Rows:          g.Rows(),
		Cols:          g.Cols(),
		CursorVisible: t.modes.CursorVisible,
		Title:         t.title,
		ReverseVideo:  t.modes.ReverseVideo,
		palette:       t.palette,
	}

	if t.modes.SyncUpdate && t.syncFrozen != nil {
		s.Lines = make([]*grid.Line, len(t.syncFrozen))
		for i, l := range t.syncFrozen {
			s.Lines[i] = l.Clone()
		}
		s.CursorRow, s.CursorCol = t.syncCursor.Row, t.syncCursor.Col
		s.Damage = make([]grid.LineDamage, len(s.Lines))
	} else {
		s.Lines = make([]*grid.Line, g.Rows())
		for i := 0; i < g.Rows(); i++ {
			s.Lines[i] = g.Line(i).Clone()
		}
		s.CursorRow, s.CursorCol = t.cursor.Row, t.cursor.Col
		s.Damage = d.Lines()
		s.DamageFull = d.Full
		s.CursorMoved = d.CursorMoved
		s.SelChanged = d.SelectionChanged
	}

	// Copy-on-read of referenced hyperlink entries only.
	ids := make(map[int]struct{})
	for _, l := range s.Lines {
		l.HyperlinkIDs(ids)
	}
	if len(ids) > 0 {
		s.links = make(map[int]grid.Hyperlink, len(ids))
		for id := range ids {
			if h, ok := t.links.Lookup(id); ok {
				s.links[id] = h
			}
		}
	}
	return s
}

// VisibleLines returns the copied visible region.
func (s *Snapshot) VisibleLines() []*grid.Line { return s.Lines }

// Cursor returns the cursor position and visibility.
func (s *Snapshot) Cursor() (row, col int, visible bool) {
	return s.CursorRow, s.CursorCol, s.CursorVisible
}

// Hyperlink resolves a cell's hyperlink id within this frame.
func (s *Snapshot) Hyperlink(id int) (grid.Hyperlink, bool) {
	h, ok := s.links[id]
	return h, ok
}

// Resolve maps a cell color through the frame's palette to concrete RGB,
// honouring the default fg/bg slots.
func (s *Snapshot) Resolve(c grid.Color, background bool) grid.Color {
	switch c.Mode {
	case grid.ColorModeIndexed:
		return s.palette.Color(c.Index)
	case grid.ColorModeRGB:
		return c
	default:
		if background {
			return s.palette.Background()
		}
		return s.palette.Foreground()
	}
}

// ClearDamage resets the terminal's damage tracker; the session calls this
// from EndFrame. During a synchronized update the renderer saw the frozen
// frame, so accumulated damage survives until the update releases.
func (t *Terminal) ClearDamage() {
	if t.modes.SyncUpdate {
		return
	}
	t.grid().Damage().Reset()
}
