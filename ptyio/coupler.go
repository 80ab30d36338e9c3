// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ptyio/coupler.go
// Summary: PTY coupler: spawn the child on a fresh PTY, ferry bytes through
// bounded queues, propagate resizes, reap the exit status.
// Usage: Only the coupler's worker goroutines touch the PTY descriptor.

package ptyio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
)

const (
	readBufSize = 8192
	// inboundDepth bounds buffered read chunks; a full queue suspends the
	// reader until the terminal task catches up (backpressure).
	inboundDepth = 64
	// outboundDepth bounds pending writes from the input side.
	outboundDepth = 256
	// closeGrace is how long pending outbound bytes may drain at shutdown.
	closeGrace = 100 * time.Millisecond
)

// Coupler owns one child process attached to a PTY.
type Coupler struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	cancel context.CancelFunc

	inbound  chan []byte
	outbound chan []byte
	exited   chan ExitStatus
	done     chan struct{}
}

// Options configures the spawned child.
type Options struct {
	Command string
	Args    []string
	Dir     string
	Env     []string // appended to the inherited environment
	Rows    int
	Cols    int
}

// Start spawns the child attached to a new PTY pair and launches the I/O
// workers.
func Start(opts Options) (*Coupler, error) {
	if opts.Command == "" {
		return nil, fmt.Errorf("%w: empty command", ErrChildSpawn)
	}
	rows, cols := opts.Rows, opts.Cols
	if rows <= 0 {
		rows = 24
	}
	if cols <= 0 {
		cols = 80
	}

	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
	cmd.Env = append(cmd.Env, opts.Env...)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrChildSpawn, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrPtyOpen, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Coupler{
		cmd:      cmd,
		ptmx:     ptmx,
		cancel:   cancel,
		inbound:  make(chan []byte, inboundDepth),
		outbound: make(chan []byte, outboundDepth),
		exited:   make(chan ExitStatus, 1),
		done:     make(chan struct{}),
	}
	go c.readLoop(ctx)
	go c.writeLoop(ctx)
	go c.reap()
	return c, nil
}

// Inbound returns the channel of byte chunks read from the PTY. It closes
// when the PTY reaches EOF or the coupler shuts down.
func (c *Coupler) Inbound() <-chan []byte { return c.inbound }

// Exited delivers the child's exit status exactly once.
func (c *Coupler) Exited() <-chan ExitStatus { return c.exited }

// Write enqueues bytes for the PTY. It preserves submission order and
// blocks when the outbound queue is full, unless the coupler is done.
func (c *Coupler) Write(b []byte) {
	if len(b) == 0 {
		return
	}
	buf := append([]byte(nil), b...)
	select {
	case c.outbound <- buf:
	case <-c.done:
	}
}

// TryWrite enqueues without blocking; it reports whether the bytes were
// accepted.
func (c *Coupler) TryWrite(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	buf := append([]byte(nil), b...)
	select {
	case c.outbound <- buf:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

// Resize propagates a new window size to the child via the PTY ioctl.
func (c *Coupler) Resize(rows, cols, pixelW, pixelH int) error {
	return pty.Setsize(c.ptmx, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
		X:    uint16(pixelW),
		Y:    uint16(pixelH),
	})
}

// Signal forwards a signal to the child process.
func (c *Coupler) Signal(sig os.Signal) error {
	if c.cmd.Process == nil {
		return nil
	}
	return c.cmd.Process.Signal(sig)
}

// Close tears the coupler down: outbound bytes get a short grace period to
// drain, then the PTY closes and the child is killed if still running.
func (c *Coupler) Close() {
	select {
	case <-c.done:
	default:
		deadline := time.After(closeGrace)
	drain:
		for {
			select {
			case <-deadline:
				break drain
			default:
				if len(c.outbound) == 0 {
					break drain
				}
				time.Sleep(time.Millisecond)
			}
		}
	}
	c.cancel()
	c.ptmx.Close()
	if c.cmd.Process != nil {
		_ = c.cmd.Process.Kill()
	}
}

// readLoop ferries PTY output into the bounded inbound queue. The blocking
// send is the backpressure: when the terminal task lags, reads suspend.
func (c *Coupler) readLoop(ctx context.Context) {
	defer close(c.inbound)
	buf := make([]byte, readBufSize)
	for {
		n, err := c.ptmx.Read(buf)
		if n > 0 {
			chunk := append([]byte(nil), buf[:n]...)
			select {
			case c.inbound <- chunk:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			if classify(err) == Recoverable {
				continue
			}
			// EIO here is the normal end of a session: the slave side
			// closed when the child exited.
			return
		}
	}
}

// writeLoop drains the outbound queue into the PTY, retrying partial
// writes until each chunk is fully flushed.
func (c *Coupler) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case chunk := <-c.outbound:
			for len(chunk) > 0 {
				n, err := c.ptmx.Write(chunk)
				chunk = chunk[n:]
				if err != nil {
					if classify(err) == Recoverable {
						continue
					}
					log.Printf("ptyio: write failed: %v", err)
					return
				}
			}
		}
	}
}

// reap waits for the child, publishes the exit status and stops the
// workers.
func (c *Coupler) reap() {
	err := c.cmd.Wait()
	status := ExitStatus{Signal: -1, Err: err}
	if ws, ok := c.cmd.ProcessState.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			status.Signal = int(ws.Signal())
		} else {
			status.Code = ws.ExitStatus()
		}
	}
	c.exited <- status
	close(c.done)
	c.cancel()
}

// classify sorts PTY errors into retryable and fatal.
func classify(err error) IoClass {
	if errors.Is(err, syscall.EINTR) || errors.Is(err, syscall.EAGAIN) {
		return Recoverable
	}
	return Fatal
}
