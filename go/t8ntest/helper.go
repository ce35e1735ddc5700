// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package t8ntest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alessio/shellescape"
)

// Options configure a fake tool created by NewTool.
type Options struct {
	// Flavor selects the version banner and default binary name, Geth if
	// empty.
	Flavor string
	// Name overrides the binary name.
	Name string
	// ExitCode, if not zero, makes every transition call fail with it.
	ExitCode int
	// Garbage makes the tool produce output that is not valid JSON.
	Garbage bool
	// HTTPStatus, if not zero, is the status of every server response.
	HTTPStatus int
	// Delay is added to every server request.
	Delay time.Duration
	// ListenDelay postpones the creation of the unix socket of servers.
	ListenDelay time.Duration
}

// NewTool installs a wrapper script in a temporary directory that runs the
// current test binary as fake transition tool and returns its path. The
// test binary's TestMain must call Main.
func NewTool(t testing.TB, opts Options) string {
	t.Helper()
	if opts.Flavor == "" {
		opts.Flavor = Geth
	}
	flavor, found := flavors[opts.Flavor]
	if !found {
		t.Fatalf("unknown flavor %q", opts.Flavor)
	}
	name := opts.Name
	if name == "" {
		name = flavor.binary
	}
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("failed to locate test binary: %v", err)
	}

	env := map[string]string{envFlavor: opts.Flavor}
	if opts.ExitCode != 0 {
		env[envExitCode] = fmt.Sprint(opts.ExitCode)
	}
	if opts.Garbage {
		env[envGarbage] = "1"
	}
	if opts.HTTPStatus != 0 {
		env[envHTTPStatus] = fmt.Sprint(opts.HTTPStatus)
	}
	if opts.Delay != 0 {
		env[envDelay] = opts.Delay.String()
	}
	if opts.ListenDelay != 0 {
		env[envListenDelay] = opts.ListenDelay.String()
	}

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	for key, value := range env {
		fmt.Fprintf(&script, "export %s=%s\n", key, shellescape.Quote(value))
	}
	fmt.Fprintf(&script, "exec %s \"$@\"\n", shellescape.Quote(exe))

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(script.String()), 0755); err != nil {
		t.Fatalf("failed to write fake tool: %v", err)
	}
	return path
}
