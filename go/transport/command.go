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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/Fantom-foundation/t8n/go/debug"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/ethereum/go-ethereum/log"
)

// run executes the binary once and returns its captured output. A non-zero
// exit code is reported as a *t8n.ToolError carrying the output.
func run(ctx context.Context, logger log.Logger, binary string, args []string, stdin []byte, capture *debug.Call) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Running transition tool", "binary", binary, "args", args)
	err := cmd.Run()
	capture.WriteStdout(stdout.Bytes())
	capture.WriteStderr(stderr.Bytes())
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &t8n.ToolError{
				Binary:   binary,
				Args:     args,
				ExitCode: exitErr.ExitCode(),
				Stdout:   stdout.String(),
				Stderr:   stderr.String(),
			}
		}
		return nil, fmt.Errorf("failed to run %s: %w", binary, err)
	}
	return stdout.Bytes(), nil
}
