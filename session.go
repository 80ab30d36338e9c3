// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: session.go
// Summary: Session: wires the PTY coupler, parser and terminal state into
// the two-executor model, and exposes the snapshot + submission surface.
// Usage: One Session per terminal instance; the host owns renderer and UI
// threads and talks to the core only through this type.

package vtcore

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/framegrace/vtcore/config"
	"github.com/framegrace/vtcore/grid"
	"github.com/framegrace/vtcore/input"
	"github.com/framegrace/vtcore/ptyio"
	"github.com/framegrace/vtcore/search"
	"github.com/framegrace/vtcore/term"
	"github.com/framegrace/vtcore/vtparse"
)

// Event is anything the core reports outward to the host.
type Event interface{ isEvent() }

// TitleEvent reports an OSC title change.
type TitleEvent struct{ Title string }

// BellEvent reports BEL.
type BellEvent struct{}

// ClipboardEvent carries an OSC 52 clipboard write (policy-gated).
type ClipboardEvent struct {
	Selection string
	Data      []byte
}

// PromptMarkEvent carries an OSC 133 shell integration mark.
type PromptMarkEvent struct {
	Mark     byte
	ExitCode int
}

// ClosedEvent reports child exit; the session is in its terminal-closed
// state afterwards.
type ClosedEvent struct{ Status ptyio.ExitStatus }

func (TitleEvent) isEvent()      {}
func (BellEvent) isEvent()       {}
func (ClipboardEvent) isEvent()  {}
func (PromptMarkEvent) isEvent() {}
func (ClosedEvent) isEvent()     {}

// resizeReq travels from the UI thread to the terminal task.
type resizeReq struct {
	rows, cols       int
	pixelW, pixelH   int
}

// Session is one live terminal: child process, parser, grid, input encoder.
type Session struct {
	cfg     config.Config
	coupler *ptyio.Coupler

	// mu guards terminal state. The terminal task holds it while parsing a
	// batch; BeginFrame holds it only long enough to copy a snapshot.
	mu     sync.Mutex
	term   *term.Terminal
	parser *vtparse.Parser

	index     *search.Index
	indexOnce sync.Once
	sel       *search.Selection

	resizeCh chan resizeReq
	events   chan Event
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewSession validates the configuration, spawns the child and starts the
// terminal task.
func NewSession(command string, args []string, rows, cols int, cfg config.Config) (*Session, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	coupler, err := ptyio.Start(ptyio.Options{
		Command: command,
		Args:    args,
		Rows:    rows,
		Cols:    cols,
	})
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		coupler:  coupler,
		term:     term.New(rows, cols, cfg),
		parser:   vtparse.New(),
		resizeCh: make(chan resizeReq, 4),
		events:   make(chan Event, 64),
		done:     make(chan struct{}),
	}
	s.wireTerminal()
	if cfg.SearchIndexPath != "" {
		idx, err := search.NewIndex(cfg.SearchIndexPath)
		if err != nil {
			log.Printf("vtcore: search index disabled: %v", err)
		} else {
			s.index = idx
			s.wireIndex()
		}
	}

	s.wg.Add(1)
	go s.terminalTask()
	return s, nil
}

// wireTerminal connects terminal callbacks to the event queue and PTY.
func (s *Session) wireTerminal() {
	s.term.Respond = func(b []byte) { s.coupler.Write(b) }
	s.term.OnTitle = func(title string) { s.emit(TitleEvent{Title: title}) }
	s.term.OnBell = func() { s.emit(BellEvent{}) }
	s.term.OnClipboard = func(sel string, data []byte) {
		s.emit(ClipboardEvent{Selection: sel, Data: data})
	}
	s.term.OnPromptMark = func(mark byte, exit int) {
		s.emit(PromptMarkEvent{Mark: mark, ExitCode: exit})
	}
}

// wireIndex feeds lines into the persistent index as they scroll out of
// the visible region. Runs on the terminal task; IndexLine batches
// asynchronously, so parsing waits on SQLite only when the index queue is
// full and the line is inserted inline.
func (s *Session) wireIndex() {
	s.term.Primary().OnScrollOut = func(globalIdx int64, l *grid.Line) {
		if err := s.index.IndexLine(globalIdx, time.Now(), l.String(), false); err != nil {
			log.Printf("vtcore: history index: %v", err)
		}
	}
}

// closeIndex closes the index exactly once.
func (s *Session) closeIndex() {
	if s.index == nil {
		return
	}
	s.indexOnce.Do(func() { s.index.Close() })
}

// emit queues an event without ever blocking the terminal task.
func (s *Session) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		log.Printf("vtcore: event queue full, dropping %T", ev)
	}
}

// Events returns the host-facing event stream.
func (s *Session) Events() <-chan Event { return s.events }

// terminalTask is the single goroutine owning parser + grid. It drains the
// inbound byte queue in batches and applies events synchronously.
func (s *Session) terminalTask() {
	defer s.wg.Done()
	inbound := s.coupler.Inbound()
	exited := s.coupler.Exited()
	syncTick := time.NewTicker(25 * time.Millisecond)
	defer syncTick.Stop()

	for {
		select {
		case chunk, ok := <-inbound:
			if !ok {
				inbound = nil
				continue
			}
			s.mu.Lock()
			s.parser.Advance(s.term, chunk)
			// Opportunistically drain whatever else is queued so one lock
			// covers the batch.
			for drained := false; !drained; {
				select {
				case more, ok := <-inbound:
					if !ok {
						inbound = nil
						drained = true
						break
					}
					s.parser.Advance(s.term, more)
				default:
					drained = true
				}
			}
			s.mu.Unlock()

		case req := <-s.resizeCh:
			s.mu.Lock()
			s.term.Resize(req.rows, req.cols)
			s.mu.Unlock()
			if err := s.coupler.Resize(req.rows, req.cols, req.pixelW, req.pixelH); err != nil {
				log.Printf("vtcore: resize ioctl failed: %v", err)
			}

		case <-syncTick.C:
			s.mu.Lock()
			s.term.CheckSyncDeadline(time.Now())
			s.mu.Unlock()

		case status := <-exited:
			// The child's final burst may still sit in the inbound queue;
			// parse it before declaring the terminal closed.
			tail := time.After(100 * time.Millisecond)
		drain:
			for inbound != nil {
				select {
				case chunk, ok := <-inbound:
					if !ok {
						inbound = nil
						break drain
					}
					s.mu.Lock()
					s.parser.Advance(s.term, chunk)
					s.mu.Unlock()
				case <-tail:
					break drain
				}
			}
			s.mu.Lock()
			s.term.SetClosed()
			s.mu.Unlock()
			s.emit(ClosedEvent{Status: status})
			s.coupler.Close()
			s.closeIndex()
			return

		case <-s.done:
			// Host shutdown: drain what is already buffered, then stop.
			deadline := time.After(200 * time.Millisecond)
			for {
				select {
				case chunk, ok := <-inbound:
					if !ok {
						return
					}
					s.mu.Lock()
					s.parser.Advance(s.term, chunk)
					s.mu.Unlock()
				case <-deadline:
					return
				}
			}
		}
	}
}

// --- renderer interface ---

// BeginFrame takes a consistent snapshot of the visible region. The lock
// hold is the copy, nothing more.
func (s *Session) BeginFrame() *term.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term.CheckSyncDeadline(time.Now())
	return s.term.TakeSnapshot()
}

// EndFrame releases the frame and clears the damage it covered.
func (s *Session) EndFrame(*term.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.term.ClearDamage()
}

// --- host input interface ---

// modeView captures the encoder-relevant modes under the lock.
func (s *Session) modeView() input.ModeView {
	m := s.term.ModeState()
	return input.ModeView{
		CursorKeys:      m.CursorKeys,
		KeypadApp:       m.KeypadApp,
		BracketedPaste:  m.BracketedPaste,
		FocusReport:     m.FocusReport,
		MouseTier:       int(m.MouseTier),
		MouseSGR:        m.MouseSGR,
		MousePixel:      m.MousePixel,
		KittyFlags:      s.term.KittyFlags(),
		ModifyOtherKeys: m.ModifyOtherKeys,
	}
}

// SubmitKey encodes and sends a key event. Submissions are accepted and
// discarded after child exit.
func (s *Session) SubmitKey(ev input.KeyEvent) {
	s.mu.Lock()
	closed := s.term.Closed()
	mv := s.modeView()
	s.mu.Unlock()
	if closed {
		return
	}
	if b := input.EncodeKey(ev, mv); b != nil {
		s.coupler.Write(b)
	}
}

// SubmitMouse encodes and sends a mouse event per the current tier.
func (s *Session) SubmitMouse(ev input.MouseEvent) {
	s.mu.Lock()
	closed := s.term.Closed()
	mv := s.modeView()
	s.mu.Unlock()
	if closed {
		return
	}
	if b := input.EncodeMouse(ev, mv); b != nil {
		s.coupler.Write(b)
	}
}

// SubmitPaste sends a paste payload, bracketed when the mode is on.
func (s *Session) SubmitPaste(data []byte) {
	s.mu.Lock()
	closed := s.term.Closed()
	mv := s.modeView()
	s.mu.Unlock()
	if closed {
		return
	}
	s.coupler.Write(input.EncodePaste(data, mv, s.cfg.StripPasteMarkers()))
}

// SubmitFocus reports a focus change when focus reporting is on.
func (s *Session) SubmitFocus(gained bool) {
	s.mu.Lock()
	closed := s.term.Closed()
	mv := s.modeView()
	s.mu.Unlock()
	if closed {
		return
	}
	if b := input.EncodeFocus(gained, mv); b != nil {
		s.coupler.Write(b)
	}
}

// SubmitResize forwards a size change: grid reflow first, then the PTY
// ioctl so the child repaints into the new geometry.
func (s *Session) SubmitResize(rows, cols, pixelW, pixelH int) {
	select {
	case s.resizeCh <- resizeReq{rows: rows, cols: cols, pixelW: pixelW, pixelH: pixelH}:
	case <-s.done:
	}
}

// SubmitSignal forwards a host signal (e.g. SIGHUP on window close).
func (s *Session) SubmitSignal(sig os.Signal) {
	if err := s.coupler.Signal(sig); err != nil {
		log.Printf("vtcore: signal: %v", err)
	}
}

// --- selection & search ---

// StartSelection begins a selection gesture at an absolute position.
func (s *Session) StartSelection(kind search.Kind, p search.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = search.New(kind, p, s.cfg.WordSeparators)
	s.term.Grid().Damage().SelectionChanged = true
}

// ExtendSelection drags the selection head.
func (s *Session) ExtendSelection(p search.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel == nil {
		return
	}
	s.sel.Extend(p, s.term.Grid())
	s.term.Grid().Damage().SelectionChanged = true
}

// ClearSelection drops the active selection.
func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = nil
	s.term.Grid().Damage().SelectionChanged = true
}

// SelectionText materializes the current selection, or "".
func (s *Session) SelectionText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sel == nil {
		return ""
	}
	return s.sel.Text(s.term.Grid())
}

// Search compiles a pattern and returns all matches over scrollback plus
// the visible region.
func (s *Session) Search(pattern string, caseInsensitive bool, limit int) ([]search.Match, error) {
	sr, err := search.NewSearcher(pattern, caseInsensitive)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sr.FindAll(s.term.Grid(), limit), nil
}

// HistoryIndex exposes the persistent index, nil when not configured.
func (s *Session) HistoryIndex() *search.Index { return s.index }

// Close shuts the session down: inbound drains up to a deadline, the child
// is killed, the index flushes.
func (s *Session) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.coupler.Close()
	s.wg.Wait()
	s.closeIndex()
}
