// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"

	"github.com/Fantom-foundation/t8n/go/backend"
	cliUtils "github.com/Fantom-foundation/t8n/go/driver/cli"
	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/urfave/cli/v2"
)

var DetectCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doDetect,
	Name:      "detect",
	Usage:     "Identifies the transition tool implemented by a binary",
	ArgsUsage: "<binary>",
})

func doDetect(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one binary, got %d arguments", context.Args().Len())
	}
	tool, err := backend.Detect(context.Context, context.Args().Get(0), executor.DefaultConfig())
	if err != nil {
		return err
	}
	defer tool.Shutdown()

	out := context.App.Writer
	fmt.Fprintf(out, "backend: %s\n", tool.Name())
	fmt.Fprintf(out, "binary:  %s\n", tool.Binary())
	fmt.Fprintf(out, "forks:   %v\n", tool.SupportedForks())
	return nil
}
