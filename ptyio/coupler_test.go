// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: ptyio/coupler_test.go
// Summary: Tests for spawn errors, error classification and the byte ferry.

package ptyio

import (
	"bytes"
	"errors"
	"syscall"
	"testing"
	"time"
)

func TestEmptyCommandRejected(t *testing.T) {
	_, err := Start(Options{})
	if !errors.Is(err, ErrChildSpawn) {
		t.Errorf("err = %v, want ErrChildSpawn", err)
	}
}

func TestMissingBinaryRejected(t *testing.T) {
	_, err := Start(Options{Command: "/nonexistent/definitely-not-a-shell"})
	if err == nil {
		t.Fatal("bogus command spawned")
	}
}

func TestClassify(t *testing.T) {
	if classify(syscall.EINTR) != Recoverable {
		t.Error("EINTR not recoverable")
	}
	if classify(syscall.EAGAIN) != Recoverable {
		t.Error("EAGAIN not recoverable")
	}
	if classify(syscall.EIO) != Fatal {
		t.Error("EIO not fatal")
	}
}

func TestExitStatusString(t *testing.T) {
	if got := (ExitStatus{Code: 3, Signal: -1}).String(); got != "exit 3" {
		t.Errorf("String = %q", got)
	}
	if got := (ExitStatus{Signal: 9}).String(); got != "signal 9" {
		t.Errorf("String = %q", got)
	}
}

func TestRoundTripThroughCat(t *testing.T) {
	c, err := Start(Options{Command: "cat", Rows: 24, Cols: 80})
	if err != nil {
		t.Skipf("cannot start pty: %v", err)
	}
	defer c.Close()

	c.Write([]byte("ping\n"))
	deadline := time.After(5 * time.Second)
	var got []byte
	for {
		select {
		case chunk, ok := <-c.Inbound():
			if !ok {
				t.Fatalf("inbound closed early, got %q", got)
			}
			got = append(got, chunk...)
			if bytes.Contains(got, []byte("ping")) {
				return
			}
		case <-deadline:
			t.Fatalf("no echo, got %q", got)
		}
	}
}

func TestExitReaping(t *testing.T) {
	c, err := Start(Options{Command: "true"})
	if err != nil {
		t.Skipf("cannot start pty: %v", err)
	}
	defer c.Close()
	select {
	case st := <-c.Exited():
		if st.Code != 0 || st.Signal != -1 {
			t.Errorf("status = %+v", st)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("child never reaped")
	}
}
