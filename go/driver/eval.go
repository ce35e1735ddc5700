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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	cliUtils "github.com/Fantom-foundation/t8n/go/driver/cli"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/urfave/cli/v2"
)

var EvalCmd = cliUtils.AddCommonFlags(cli.Command{
	Action:    doEval,
	Name:      "eval",
	Usage:     "Runs a single transition read from alloc.json, env.json, and txs.json",
	ArgsUsage: "<input-dir>",
	Flags: append([]cli.Flag{
		cliUtils.ForkFlag,
		cliUtils.DebugDirFlag,
		&cli.Uint64Flag{
			Name:  "chain-id",
			Usage: "chain id of the transition",
			Value: 1,
		},
		&cli.Int64Flag{
			Name:  "reward",
			Usage: "block reward, -1 to disable",
			Value: t8n.NoReward,
		},
		&cli.BoolFlag{
			Name:  "slow",
			Usage: "use the extended timeout of server backends",
		},
	}, cliUtils.ExecutorFlags...),
})

// Input documents of a transition. A missing transaction list is treated
// as empty.
const (
	allocFile = "alloc.json"
	envFile   = "env.json"
	txsFile   = "txs.json"
)

func doEval(context *cli.Context) error {
	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input directory, got %d arguments", context.Args().Len())
	}
	fork, err := cliUtils.ForkFlag.Fetch(context)
	if err != nil {
		return err
	}
	params := t8n.RequestParams{
		Fork:    fork,
		ChainID: context.Uint64("chain-id"),
		Reward:  context.Int64("reward"),
	}
	dir := context.Args().Get(0)
	if err := readInput(filepath.Join(dir, allocFile), &params.Alloc, false); err != nil {
		return err
	}
	if err := readInput(filepath.Join(dir, envFile), &params.Env, false); err != nil {
		return err
	}
	if err := readInput(filepath.Join(dir, txsFile), &params.Txs, true); err != nil {
		return err
	}
	request, err := t8n.NewRequest(params)
	if err != nil {
		return err
	}

	tool, err := newExecutor(context)
	if err != nil {
		return err
	}
	defer tool.Shutdown()
	if !tool.IsForkSupported(fork) {
		return fmt.Errorf("%s does not support fork %v", tool.Name(), fork)
	}

	response, err := tool.Evaluate(context.Context, request, t8n.CallOptions{
		DebugDir: cliUtils.DebugDirFlag.Fetch(context),
		Slow:     context.Bool("slow"),
	})
	if err != nil {
		return err
	}

	out := context.App.Writer
	encoded, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s\n", encoded)
	for _, rejected := range response.Result.Rejected {
		fmt.Fprintf(out, "rejected tx %d: %v\n", rejected.Index, rejected.Exception)
	}
	for _, traces := range tool.Traces() {
		for _, trace := range traces {
			fmt.Fprintf(out, "trace of tx %d (%v): %d lines\n", trace.Index, trace.TxHash, len(trace.Lines))
		}
	}
	return nil
}

func readInput(path string, trg any, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := json.Unmarshal(data, trg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
