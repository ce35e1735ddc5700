// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package debug writes the artifacts of transition calls to disk so that
// individual calls can be inspected and replayed without the test suite.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/ethereum/go-ethereum/log"
)

const (
	InputDir         = "input"
	OutputDir        = "output"
	StdoutFile       = "stdout.txt"
	StderrFile       = "stderr.txt"
	ReplayScriptFile = "t8n.sh"
	StdinFile        = "stdin.json"
	RequestInfoFile  = "request_info.txt"
	ResponseInfoFile = "response_info.txt"
)

// Call collects the artifacts of a single transition call in its own
// directory. All methods may be called on a nil Call, in which case they do
// nothing. Failures to write artifacts are logged and otherwise ignored, so
// capturing never changes the outcome of a call.
type Call struct {
	dir    string
	logger log.Logger
}

// NewCall creates the artifact directory <root>/<index> for a call. If the
// directory can not be created, the failure is logged and nil is returned.
func NewCall(root string, index int, logger log.Logger) *Call {
	if logger == nil {
		logger = log.Root()
	}
	dir := filepath.Join(root, fmt.Sprint(index))
	for _, sub := range []string{dir, filepath.Join(dir, InputDir), filepath.Join(dir, OutputDir)} {
		if err := os.MkdirAll(sub, 0755); err != nil {
			logger.Warn("Failed to create debug directory", "dir", sub, "err", err)
			return nil
		}
	}
	return &Call{dir: dir, logger: logger}
}

// Dir is the artifact directory of this call, or empty for a nil Call.
func (c *Call) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Path returns the location of the given artifact within the call's
// directory.
func (c *Call) Path(elem ...string) string {
	if c == nil {
		return ""
	}
	return filepath.Join(append([]string{c.dir}, elem...)...)
}

func (c *Call) WriteInput(name string, data []byte) {
	c.write(filepath.Join(InputDir, name), data, 0644)
}

func (c *Call) WriteOutput(name string, data []byte) {
	c.write(filepath.Join(OutputDir, name), data, 0644)
}

func (c *Call) WriteStdout(data []byte) {
	c.write(StdoutFile, data, 0644)
}

func (c *Call) WriteStderr(data []byte) {
	c.write(StderrFile, data, 0644)
}

func (c *Call) WriteRequestInfo(info string) {
	c.write(RequestInfoFile, []byte(info), 0644)
}

func (c *Call) WriteResponseInfo(info string) {
	c.write(ResponseInfoFile, []byte(info), 0644)
}

// WriteReplayScript writes an executable shell script re-running the given
// invocation. If stdin is not nil, it is stored next to the script and fed
// to the binary on replay.
func (c *Call) WriteReplayScript(binary string, args []string, stdin []byte) {
	if c == nil {
		return
	}
	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	script.WriteString(shellescape.QuoteCommand(append([]string{binary}, args...)))
	if stdin != nil {
		c.write(StdinFile, stdin, 0644)
		fmt.Fprintf(&script, " < %s", shellescape.Quote(c.Path(StdinFile)))
	}
	script.WriteString("\n")
	c.write(ReplayScriptFile, []byte(script.String()), 0755)
}

func (c *Call) write(name string, data []byte, perm os.FileMode) {
	if c == nil {
		return
	}
	path := filepath.Join(c.dir, name)
	if err := os.WriteFile(path, data, perm); err != nil {
		c.logger.Warn("Failed to write debug artifact", "file", path, "err", err)
	}
}
