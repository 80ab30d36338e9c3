// Copyright © 2026 vtcore contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: search/index_test.go
// Summary: Tests for the persistent FTS index: round trips, substring
// matching, command-line sync indexing.

package search

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndexRoundTrip(t *testing.T) {
	idx := openTestIndex(t)
	now := time.Now()
	if err := idx.IndexLine(1, now, "docker compose up -d", false); err != nil {
		t.Fatal(err)
	}
	if err := idx.IndexLine(2, now.Add(time.Second), "error: connection refused", false); err != nil {
		t.Fatal(err)
	}
	if err := idx.Flush(); err != nil {
		t.Fatal(err)
	}

	res, err := idx.Search("compose", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || res[0].GlobalLineIdx != 1 {
		t.Fatalf("results = %+v", res)
	}
}

func TestIndexSubstringMatch(t *testing.T) {
	idx := openTestIndex(t)
	idx.IndexLine(7, time.Now(), "/var/log/syslog rotated", false)
	idx.Flush()
	res, err := idx.Search("log/sys", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 {
		t.Fatalf("trigram substring found %d results", len(res))
	}
}

func TestCommandLinesIndexSynchronously(t *testing.T) {
	idx := openTestIndex(t)
	// No Flush: command lines must be visible immediately.
	if err := idx.IndexLine(3, time.Now(), "git push origin main", true); err != nil {
		t.Fatal(err)
	}
	res, err := idx.Search("git push", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 1 || !res[0].IsCommand {
		t.Fatalf("results = %+v", res)
	}
}

func TestBlankLinesSkipped(t *testing.T) {
	idx := openTestIndex(t)
	if err := idx.IndexLine(9, time.Now(), "    ", false); err != nil {
		t.Fatal(err)
	}
	idx.Flush()
	res, _ := idx.Search("    ", 10)
	if len(res) != 0 {
		t.Errorf("blank line was indexed: %+v", res)
	}
}

func TestDeleteLine(t *testing.T) {
	idx := openTestIndex(t)
	idx.IndexLine(4, time.Now(), "transient secret", true)
	if err := idx.DeleteLine(4); err != nil {
		t.Fatal(err)
	}
	res, _ := idx.Search("transient", 10)
	if len(res) != 0 {
		t.Errorf("deleted line still matches: %+v", res)
	}
}
