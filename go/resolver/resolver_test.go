// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package resolver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Fantom-foundation/t8n/go/t8n"
)

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestResolve_ExplicitPathIsResolvedToAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "tool", "exit 0\n")

	got, err := Resolve(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path || !filepath.IsAbs(got) {
		t.Errorf("unexpected path, wanted %s, got %s", path, got)
	}
}

func TestResolve_BareNameIsLookedUpOnSearchPath(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "my-t8n-tool", "exit 0\n")
	t.Setenv("PATH", dir)

	got, err := Resolve("my-t8n-tool")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("unexpected path, wanted %s, got %s", path, got)
	}
}

func TestResolve_MissingBinariesAreReported(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", dir)
	notExecutable := filepath.Join(dir, "data.json")
	if err := os.WriteFile(notExecutable, []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := map[string]struct {
		binary string
		cause  error
	}{
		"missing file":    {filepath.Join(dir, "missing"), fs.ErrNotExist},
		"missing on path": {"missing-tool", exec.ErrNotFound},
		"directory":       {dir, nil},
		"not executable":  {notExecutable, nil},
		"empty":           {"", nil},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Resolve(test.binary)
			var notFound *t8n.NotFoundError
			if !errors.As(err, &notFound) {
				t.Fatalf("expected a not found error, got %v", err)
			}
			if test.cause != nil && !errors.Is(err, test.cause) {
				t.Errorf("expected cause %v, got %v", test.cause, err)
			}
		})
	}
}

// newProbeCountingTool creates a tool printing a different banner per
// version flag and recording every invocation in a log file.
func newProbeCountingTool(t *testing.T) (binary string, invocations func() []string) {
	t.Helper()
	dir := t.TempDir()
	logFile := filepath.Join(dir, "invocations.log")
	binary = writeScript(t, dir, "tool", `echo "$@" >> `+logFile+`
case "$1" in
  --version) echo "gamma-t8n 2.1.0" ;;
  -v) echo "beta 1.0.0" ; exit 1 ;;
  *) echo "unknown flag $1" >&2 ; exit 2 ;;
esac
`)
	return binary, func() []string {
		data, err := os.ReadFile(logFile)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			t.Fatal(err)
		}
		return strings.Fields(string(data))
	}
}

func TestDetect_FirstMatchingCandidateWins(t *testing.T) {
	binary, invocations := newProbeCountingTool(t)
	candidates := []Candidate{
		{Name: "alpha", VersionFlag: "--version", Pattern: regexp.MustCompile(`^alpha`)},
		{Name: "beta", VersionFlag: "-v", Pattern: regexp.MustCompile(`^beta \d+`)},
		{Name: "gamma", VersionFlag: "--version", Pattern: regexp.MustCompile(`^gamma-t8n`)},
		{Name: "beta2", VersionFlag: "-v", Pattern: regexp.MustCompile(`beta`)},
	}

	got, err := Detect(context.Background(), binary, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "beta" {
		t.Errorf("unexpected candidate %s", got.Name)
	}
	if want, got := []string{"--version", "-v"}, invocations(); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("unexpected probes, wanted %v, got %v", want, got)
	}
}

func TestDetect_EachVersionFlagIsProbedOnlyOnce(t *testing.T) {
	binary, invocations := newProbeCountingTool(t)
	candidates := []Candidate{
		{Name: "a", VersionFlag: "--version", Pattern: regexp.MustCompile(`^a`)},
		{Name: "b", VersionFlag: "--version", Pattern: regexp.MustCompile(`^b`)},
		{Name: "c", VersionFlag: "--version", Pattern: regexp.MustCompile(`^c`)},
		{Name: "gamma", VersionFlag: "--version", Pattern: regexp.MustCompile(`gamma-t8n 2`)},
	}
	got, err := Detect(context.Background(), binary, candidates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "gamma" {
		t.Errorf("unexpected candidate %s", got.Name)
	}
	if got := invocations(); len(got) != 1 {
		t.Errorf("expected exactly one probe, got %v", got)
	}
}

func TestDetect_UnknownBinaryReportsAllProbeOutputs(t *testing.T) {
	binary, invocations := newProbeCountingTool(t)
	candidates := []Candidate{
		{Name: "a", VersionFlag: "--version", Pattern: regexp.MustCompile(`^a`)},
		{Name: "b", VersionFlag: "-v", Pattern: regexp.MustCompile(`^b\d`)},
		{Name: "c", VersionFlag: "--help", Pattern: regexp.MustCompile(`^c`)},
		{Name: "d", VersionFlag: "-v", Pattern: regexp.MustCompile(`^d`)},
	}
	_, err := Detect(context.Background(), binary, candidates)
	var unknown *t8n.UnknownBinaryError
	if !errors.As(err, &unknown) {
		t.Fatalf("expected unknown binary error, got %v", err)
	}
	if len(unknown.Outputs) != 3 {
		t.Errorf("expected three probe outputs, got %v", unknown.Outputs)
	}
	for _, want := range []string{"gamma-t8n 2.1.0", "beta 1.0.0", "unknown flag --help"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should contain %q, got %v", want, err)
		}
	}
	if got := invocations(); len(got) != 3 {
		t.Errorf("expected three probes, got %v", got)
	}
}

func TestDetect_BinaryThatCannotBeRunIsReported(t *testing.T) {
	candidates := []Candidate{{Name: "a", VersionFlag: "--version", Pattern: regexp.MustCompile(`a`)}}
	_, err := Detect(context.Background(), filepath.Join(t.TempDir(), "missing"), candidates)
	if err == nil {
		t.Fatalf("expected an error")
	}
	var unknown *t8n.UnknownBinaryError
	if errors.As(err, &unknown) {
		t.Errorf("a failing start must not be reported as unknown binary")
	}
}

func TestProbe_ToleratesNonZeroExitCodes(t *testing.T) {
	binary := writeScript(t, t.TempDir(), "tool", "echo out; echo err >&2; exit 3\n")
	got, err := Probe(context.Background(), binary, "-v")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "out") || !strings.Contains(got, "err") {
		t.Errorf("expected combined output, got %q", got)
	}
}
