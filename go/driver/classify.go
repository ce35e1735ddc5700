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
	"strings"

	"github.com/Fantom-foundation/t8n/go/backend"
	cliUtils "github.com/Fantom-foundation/t8n/go/driver/cli"
	"github.com/urfave/cli/v2"
)

var ClassifyCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doClassify,
	Name:      "classify",
	Usage:     "Maps a rejection message of a transition tool to its canonical exception",
	ArgsUsage: "<message>",
	Flags: []cli.Flag{
		cliUtils.BackendFlag,
		&cli.BoolFlag{
			Name:  "rules",
			Usage: "list all rules matching the message",
		},
	},
})

func doClassify(context *cli.Context) error {
	name := cliUtils.BackendFlag.Fetch(context)
	if name == "" {
		return fmt.Errorf("--%s is required, use one of: %v", cliUtils.BackendFlag.Name, backend.Names())
	}
	spec, err := backend.Spec(name)
	if err != nil {
		return err
	}
	message := strings.Join(context.Args().Slice(), " ")
	if message == "" {
		return fmt.Errorf("no message given")
	}

	out := context.App.Writer
	result := spec.Mapper.Classify(message)
	fmt.Fprintln(out, result)
	if context.Bool("rules") {
		for _, rule := range spec.Mapper.Matches(message) {
			fmt.Fprintf(out, "  %v\n", rule)
		}
	}
	if !result.Classified() {
		return fmt.Errorf("no rule of %s matches the message", spec.Name)
	}
	return nil
}
