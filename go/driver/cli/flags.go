// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/transport"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
)

type backendFlagType struct {
	cli.StringFlag
}

var BackendFlag = &backendFlagType{
	cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Usage:   "name of the transition tool, detected from the binary if not set",
	},
}

func (f *backendFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type binaryFlagType struct {
	cli.StringFlag
}

var BinaryFlag = &binaryFlagType{
	cli.StringFlag{
		Name:      "binary",
		Usage:     "path or name of the transition tool binary",
		TakesFile: true,
	},
}

func (f *binaryFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type forkFlagType struct {
	cli.StringFlag
}

var ForkFlag = &forkFlagType{
	cli.StringFlag{
		Name:  "fork",
		Usage: "fork to run transitions with",
		Value: string(t8n.Cancun),
	},
}

func (f *forkFlagType) Fetch(context *cli.Context) (t8n.Fork, error) {
	return t8n.ParseFork(context.String(f.Name))
}

type traceFlagType struct {
	cli.BoolFlag
}

var TraceFlag = &traceFlagType{
	cli.BoolFlag{
		Name:  "trace",
		Usage: "collect per-transaction traces",
	},
}

func (f *traceFlagType) Fetch(context *cli.Context) bool {
	return context.Bool(f.Name)
}

type debugDirFlagType struct {
	cli.StringFlag
}

var DebugDirFlag = &debugDirFlagType{
	cli.StringFlag{
		Name:      "debug-dir",
		Usage:     "directory to store the inputs, outputs, and a replay script of each call in",
		TakesFile: true,
	},
}

func (f *debugDirFlagType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type timeoutFlagType struct {
	cli.DurationFlag
}

var TimeoutFlag = &timeoutFlagType{
	cli.DurationFlag{
		Name:  "timeout",
		Usage: "deadline of a single call to a transition server, negative to disable",
		Value: transport.DefaultTimeouts().Normal,
	},
}

func (f *timeoutFlagType) Fetch(context *cli.Context) time.Duration {
	return context.Duration(f.Name)
}

type retriesFlagType struct {
	cli.IntFlag
}

var RetriesFlag = &retriesFlagType{
	cli.IntFlag{
		Name:  "retries",
		Usage: "number of attempts to connect to a starting transition server",
		Value: transport.DefaultRetryPolicy().Attempts,
	},
}

func (f *retriesFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

var ExecutorFlags = []cli.Flag{
	BackendFlag,
	BinaryFlag,
	TraceFlag,
	TimeoutFlag,
	RetriesFlag,
}

// FetchConfig assembles the executor configuration from the executor
// flags.
func FetchConfig(context *cli.Context) executor.Config {
	res := executor.DefaultConfig()
	res.Binary = BinaryFlag.Fetch(context)
	res.Trace = TraceFlag.Fetch(context)
	res.Timeouts.Normal = TimeoutFlag.Fetch(context)
	res.Retry.Attempts = RetriesFlag.Fetch(context)
	return res
}

type jobsFlagType struct {
	cli.IntFlag
}

var JobsFlag = &jobsFlagType{
	cli.IntFlag{
		Name:    "jobs",
		Aliases: []string{"j"},
		Usage:   "number of jobs run simultaneously, each with its own transition tool",
		Value:   runtime.NumCPU(),
	},
}

func (f *jobsFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

type seedFlagType struct {
	cli.Uint64Flag
}

var SeedFlag = &seedFlagType{
	cli.Uint64Flag{
		Name:    "seed",
		Aliases: []string{"s"},
		Usage:   "seed for the random number generator",
	},
}

func (f *seedFlagType) Fetch(context *cli.Context) uint64 {
	return context.Uint64(f.Name)
}

type cpuProfileType struct {
	cli.StringFlag
}

var CpuProfileFlag = &cpuProfileType{
	cli.StringFlag{
		Name:      "cpuprofile",
		Usage:     "store CPU profile in the provided filename",
		TakesFile: true,
	},
}

func (f *cpuProfileType) Fetch(context *cli.Context) string {
	return context.String(f.Name)
}

type verbosityFlagType struct {
	cli.IntFlag
}

var VerbosityFlag = &verbosityFlagType{
	cli.IntFlag{
		Name:  "verbosity",
		Usage: "log level: 0=crit, 1=error, 2=warn, 3=info, 4=debug, 5=trace",
		Value: 2,
	},
}

func (f *verbosityFlagType) Fetch(context *cli.Context) int {
	return context.Int(f.Name)
}

var commonFlags = []cli.Flag{
	CpuProfileFlag,
	VerbosityFlag,
}

func AddCommonFlags(command cli.Command) cli.Command {
	command.Flags = append(command.Flags, commonFlags...)

	action := command.Action
	command.Action = func(ctx *cli.Context) (err error) {
		handler := log.NewTerminalHandlerWithLevel(ctx.App.ErrWriter, log.FromLegacyLevel(VerbosityFlag.Fetch(ctx)), false)
		log.SetDefault(log.NewLogger(handler))

		if cpuprofileFilename := CpuProfileFlag.Fetch(ctx); cpuprofileFilename != "" {
			f, err := os.Create(cpuprofileFilename)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		return action(ctx)
	}
	return command
}
