// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package transport

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"
)

func TestToURL(t *testing.T) {
	tests := map[string]string{
		"8080":                    "http://127.0.0.1:8080/",
		"localhost:8080":          "http://localhost:8080/",
		"http://127.0.0.1:9000":   "http://127.0.0.1:9000/",
		"http://127.0.0.1:9000/":  "http://127.0.0.1:9000/",
		"https://example.com:443": "https://example.com:443/",
	}
	for address, want := range tests {
		if got := toURL(address); got != want {
			t.Errorf("toURL(%q) = %q, want %q", address, got, want)
		}
	}
}

func TestListenScanner_ReportsFirstMatchAcrossWrites(t *testing.T) {
	scanner := newListenScanner(regexp.MustCompile(`listening on (\d+)`))
	for _, chunk := range []string{"Starting\nTransition server list", "ening on 1234\n", "listening on 99\n"} {
		if n, err := scanner.Write([]byte(chunk)); err != nil || n != len(chunk) {
			t.Fatalf("write failed: %d, %v", n, err)
		}
	}
	select {
	case got := <-scanner.found:
		if got != "1234" {
			t.Errorf("unexpected endpoint %q", got)
		}
	default:
		t.Fatalf("no endpoint reported")
	}
	select {
	case got := <-scanner.found:
		t.Errorf("only the first match should be reported, got %q", got)
	default:
	}
	if !strings.Contains(scanner.String(), "listening on 99") {
		t.Errorf("output after the match should still be captured")
	}
}

func TestListenScanner_IncompleteLineIsNotMatched(t *testing.T) {
	scanner := newListenScanner(regexp.MustCompile(`listening on (\d+)`))
	scanner.Write([]byte("listening on 12"))
	select {
	case got := <-scanner.found:
		t.Errorf("port of an incomplete line reported: %q", got)
	default:
	}
}

func TestBoundedBuffer_KeepsPrefix(t *testing.T) {
	var buffer boundedBuffer
	chunk := strings.Repeat("x", maxCapturedOutput/2+1)
	for i := 0; i < 3; i++ {
		if n, _ := buffer.Write([]byte(chunk)); n != len(chunk) {
			t.Errorf("writes should always consume all data")
		}
	}
	if got := len(buffer.String()); got != maxCapturedOutput {
		t.Errorf("expected %d captured bytes, got %d", maxCapturedOutput, got)
	}
}

func TestNewSocketPath_IsShortAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		path := newSocketPath("/usr/local/bin/ethereum-spec-evm")
		if seen[path] {
			t.Fatalf("duplicate socket path %q", path)
		}
		seen[path] = true
		if name := filepath.Base(path); len(name) > 32 {
			t.Errorf("socket name %q is too long", name)
		}
	}
}

func TestWorker_CloseWithoutStart(t *testing.T) {
	worker := NewWorker(Options{Binary: "unused"}, Launch{})
	for i := 0; i < 2; i++ {
		if err := worker.Close(); err != nil {
			t.Errorf("close %d failed: %v", i, err)
		}
	}
	if worker.Pid() != 0 || worker.Endpoint() != "" {
		t.Errorf("closed worker should not expose a process")
	}
}
