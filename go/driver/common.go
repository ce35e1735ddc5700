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

// newExecutor creates the executor selected by the executor flags. Without
// a backend name, the backend is detected from the binary.
func newExecutor(context *cli.Context) (*executor.Executor, error) {
	config := cliUtils.FetchConfig(context)
	if name := cliUtils.BackendFlag.Fetch(context); name != "" {
		return backend.New(name, config)
	}
	if config.Binary == "" {
		return nil, fmt.Errorf("either --%s or --%s is required", cliUtils.BackendFlag.Name, cliUtils.BinaryFlag.Name)
	}
	return backend.Detect(context.Context, config.Binary, config)
}
