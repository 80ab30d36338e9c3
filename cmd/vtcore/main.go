// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/vtcore/main.go
// Summary: Minimal tcell host driving the terminal core end to end: runs a
// shell, renders snapshots, feeds keys and mouse back through the encoder.
// Usage: go run ./cmd/vtcore [-cmd /bin/bash] [-index path.db]

package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	xterm "golang.org/x/term"

	vtcore "github.com/framegrace/vtcore"
	"github.com/framegrace/vtcore/config"
	"github.com/framegrace/vtcore/grid"
	"github.com/framegrace/vtcore/input"
	"github.com/framegrace/vtcore/term"
)

func main() {
	shell := flag.String("cmd", defaultShell(), "command to run")
	indexPath := flag.String("index", "", "optional SQLite history index path")
	debug := flag.Bool("debug", false, "log terminal diagnostics")
	flag.Parse()

	if !xterm.IsTerminal(int(os.Stdin.Fd())) {
		log.Fatal("vtcore: stdin is not a terminal")
	}
	// The screen owns the tty; diagnostics go to a side file or nowhere.
	if *debug {
		if f, err := os.OpenFile("vtcore.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	} else {
		log.SetOutput(io.Discard)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("vtcore: screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("vtcore: screen init: %v", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnablePaste()

	cols, rows := screen.Size()
	sess, err := vtcore.NewSession(*shell, flag.Args(), rows, cols, config.Config{
		SearchIndexPath: *indexPath,
	})
	if err != nil {
		screen.Fini()
		log.Fatalf("vtcore: session: %v", err)
	}
	defer sess.Close()

	tcellEvents := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(tcellEvents)
				return
			}
			tcellEvents <- ev
		}
	}()

	frame := time.NewTicker(16 * time.Millisecond)
	defer frame.Stop()

	for {
		select {
		case ev, ok := <-tcellEvents:
			if !ok {
				return
			}
			switch tev := ev.(type) {
			case *tcell.EventKey:
				if tev.Key() == tcell.KeyCtrlQ {
					return
				}
				sess.SubmitKey(translateKey(tev))
			case *tcell.EventMouse:
				for _, me := range translateMouse(tev) {
					sess.SubmitMouse(me)
				}
			case *tcell.EventPaste:
				// tcell delivers paste content between start/end events via
				// runes; nothing to do here beyond the bracket markers.
			case *tcell.EventResize:
				c, r := tev.Size()
				sess.SubmitResize(r, c, 0, 0)
				screen.Sync()
			case *tcell.EventFocus:
				sess.SubmitFocus(tev.Focused)
			}

		case ev := <-sess.Events():
			switch sev := ev.(type) {
			case vtcore.ClosedEvent:
				return
			case vtcore.TitleEvent:
				screen.SetTitle(sev.Title)
			case vtcore.BellEvent:
				screen.Beep()
			}

		case <-frame.C:
			drawFrame(screen, sess)
		}
	}
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

// drawFrame renders one snapshot's damaged lines.
func drawFrame(screen tcell.Screen, sess *vtcore.Session) {
	snap := sess.BeginFrame()
	defer sess.EndFrame(snap)

	for row, l := range snap.VisibleLines() {
		ld := snap.Damage[row]
		if !ld.Dirty && !snap.DamageFull {
			continue
		}
		for col, c := range l.Cells {
			if c.Attr&grid.AttrWideTail != 0 {
				continue
			}
			style := cellStyle(snap, c)
			r := c.Rune
			if r == 0 {
				r = ' '
			}
			screen.SetContent(col, row, r, c.Combining, style)
		}
	}
	row, col, visible := snap.Cursor()
	if visible {
		screen.ShowCursor(col, row)
	} else {
		screen.HideCursor()
	}
	screen.Show()
}

func cellStyle(snap *term.Snapshot, c grid.Cell) tcell.Style {
	fg := snap.Resolve(c.FG, false)
	bg := snap.Resolve(c.BG, true)
	style := tcell.StyleDefault.
		Foreground(tcell.NewRGBColor(int32(fg.R), int32(fg.G), int32(fg.B))).
		Background(tcell.NewRGBColor(int32(bg.R), int32(bg.G), int32(bg.B)))
	style = style.Bold(c.Attr&grid.AttrBold != 0).
		Dim(c.Attr&grid.AttrDim != 0).
		Italic(c.Attr&grid.AttrItalic != 0).
		Underline(c.Attr&grid.AttrUnderline != 0).
		Blink(c.Attr&grid.AttrBlink != 0).
		Reverse(c.Attr&grid.AttrInverse != 0 || snap.ReverseVideo).
		StrikeThrough(c.Attr&grid.AttrStrikeout != 0)
	return style
}

// translateKey maps a tcell key event onto the core's event type.
func translateKey(ev *tcell.EventKey) input.KeyEvent {
	var mods input.Mod
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= input.ModShift
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= input.ModAlt
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= input.ModCtrl
	}

	out := input.KeyEvent{Mods: mods, Kind: input.Press}
	switch ev.Key() {
	case tcell.KeyUp:
		out.Key = input.KeyUp
	case tcell.KeyDown:
		out.Key = input.KeyDown
	case tcell.KeyRight:
		out.Key = input.KeyRight
	case tcell.KeyLeft:
		out.Key = input.KeyLeft
	case tcell.KeyHome:
		out.Key = input.KeyHome
	case tcell.KeyEnd:
		out.Key = input.KeyEnd
	case tcell.KeyInsert:
		out.Key = input.KeyInsert
	case tcell.KeyDelete:
		out.Key = input.KeyDelete
	case tcell.KeyPgUp:
		out.Key = input.KeyPageUp
	case tcell.KeyPgDn:
		out.Key = input.KeyPageDown
	case tcell.KeyEnter:
		out.Key = input.KeyEnter
	case tcell.KeyTab:
		out.Key = input.KeyTab
	case tcell.KeyBacktab:
		out.Key = input.KeyTab
		out.Mods |= input.ModShift
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		out.Key = input.KeyBackspace
	case tcell.KeyEsc:
		out.Key = input.KeyEscape
	case tcell.KeyF1, tcell.KeyF2, tcell.KeyF3, tcell.KeyF4, tcell.KeyF5,
		tcell.KeyF6, tcell.KeyF7, tcell.KeyF8, tcell.KeyF9, tcell.KeyF10,
		tcell.KeyF11, tcell.KeyF12:
		out.Key = input.KeyF1 + input.Key(ev.Key()-tcell.KeyF1)
	default:
		out.Key = input.KeyRune
		r := ev.Rune()
		// tcell collapses ctrl combos into C0 runes; recover the letter so
		// the encoder owns the mapping.
		if r < 0x20 && ev.Modifiers()&tcell.ModCtrl != 0 {
			r = rune(r + 'a' - 1)
		}
		out.Rune = r
	}
	return out
}

// translateMouse expands a tcell mouse event into core events. tcell
// reports state, not edges, so presses and releases are derived.
var lastButtons tcell.ButtonMask

func translateMouse(ev *tcell.EventMouse) []input.MouseEvent {
	x, y := ev.Position()
	var mods input.Mod
	if ev.Modifiers()&tcell.ModShift != 0 {
		mods |= input.ModShift
	}
	if ev.Modifiers()&tcell.ModAlt != 0 {
		mods |= input.ModAlt
	}
	if ev.Modifiers()&tcell.ModCtrl != 0 {
		mods |= input.ModCtrl
	}

	var out []input.MouseEvent
	cur := ev.Buttons()
	masks := []struct {
		mask tcell.ButtonMask
		btn  input.MouseButton
	}{
		{tcell.Button1, input.ButtonLeft},
		{tcell.Button2, input.ButtonMiddle},
		{tcell.Button3, input.ButtonRight},
	}
	for _, m := range masks {
		was := lastButtons&m.mask != 0
		is := cur&m.mask != 0
		if is && !was {
			out = append(out, input.MouseEvent{Kind: input.MousePress, Button: m.btn, Col: x, Row: y, Mods: mods})
		}
		if !is && was {
			out = append(out, input.MouseEvent{Kind: input.MouseRelease, Button: m.btn, Col: x, Row: y, Mods: mods})
		}
	}
	if cur&tcell.WheelUp != 0 {
		out = append(out, input.MouseEvent{Kind: input.MousePress, Button: input.WheelUp, Col: x, Row: y, Mods: mods})
	}
	if cur&tcell.WheelDown != 0 {
		out = append(out, input.MouseEvent{Kind: input.MousePress, Button: input.WheelDown, Col: x, Row: y, Mods: mods})
	}
	if len(out) == 0 {
		btn := input.ButtonNone
		if cur&tcell.Button1 != 0 {
			btn = input.ButtonLeft
		}
		out = append(out, input.MouseEvent{Kind: input.MouseMotion, Button: btn, Col: x, Row: y, Mods: mods})
	}
	lastButtons = cur
	return out
}
