// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package resolver locates transition tool binaries and determines the kind
// of backend a binary implements.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/ethereum/go-ethereum/log"
)

// Resolve returns the absolute path of the given binary. Names containing a
// path separator are taken as explicit paths that must refer to an existing
// executable file; bare names are looked up in the directories of $PATH.
func Resolve(binary string) (string, error) {
	if binary == "" {
		return "", &t8n.NotFoundError{Binary: binary, Cause: errors.New("empty binary name")}
	}
	if !strings.ContainsRune(binary, filepath.Separator) {
		path, err := exec.LookPath(binary)
		if err != nil {
			return "", &t8n.NotFoundError{Binary: binary, Cause: err}
		}
		binary = path
	}
	info, err := os.Stat(binary)
	if err != nil {
		return "", &t8n.NotFoundError{Binary: binary, Cause: err}
	}
	if info.IsDir() {
		return "", &t8n.NotFoundError{Binary: binary, Cause: errors.New("is a directory")}
	}
	if info.Mode().Perm()&0111 == 0 {
		return "", &t8n.NotFoundError{Binary: binary, Cause: errors.New("not executable")}
	}
	res, err := filepath.Abs(binary)
	if err != nil {
		return "", &t8n.NotFoundError{Binary: binary, Cause: err}
	}
	return res, nil
}

// Probe runs the binary with the given arguments and returns its combined
// stdout and stderr output. A non-zero exit code is not considered an
// error since many tools print their version and then fail on unknown
// flags. An error is only reported if the binary could not be run at all.
func Probe(ctx context.Context, binary string, args ...string) (string, error) {
	log.Debug("Probing transition tool", "binary", binary, "args", args)
	out, err := exec.CommandContext(ctx, binary, args...).CombinedOutput()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return "", fmt.Errorf("failed to probe %s: %w", binary, err)
		}
		log.Debug("Transition tool probe exited with non-zero code", "binary", binary, "code", exitErr.ExitCode())
	}
	return string(out), nil
}

// Candidate is one entry of the detection table. VersionFlag lists the
// whitespace separated arguments of the version probe, Pattern is matched
// against the probe output.
type Candidate struct {
	Name        string
	VersionFlag string
	Pattern     *regexp.Regexp
}

func (c Candidate) matches(output string) bool {
	return c.Pattern != nil && c.Pattern.MatchString(output)
}

// Detect determines which of the given candidates the binary implements.
// Candidates are tested in the given order and the first match wins. Each
// distinct version probe is run at most once, and only when a candidate
// using it is reached. If no candidate matches, an UnknownBinaryError
// listing the output of every probe is returned.
func Detect(ctx context.Context, binary string, candidates []Candidate) (Candidate, error) {
	outputs := map[string]string{}
	for _, candidate := range candidates {
		output, found := outputs[candidate.VersionFlag]
		if !found {
			var err error
			output, err = Probe(ctx, binary, strings.Fields(candidate.VersionFlag)...)
			if err != nil {
				return Candidate{}, err
			}
			outputs[candidate.VersionFlag] = output
		}
		if candidate.matches(output) {
			log.Debug("Detected transition tool", "binary", binary, "kind", candidate.Name)
			return candidate, nil
		}
	}
	return Candidate{}, &t8n.UnknownBinaryError{Binary: binary, Outputs: outputs}
}
