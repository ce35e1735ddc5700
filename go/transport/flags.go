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
	"strconv"
	"strings"

	"github.com/Fantom-foundation/t8n/go/t8n"
)

const (
	// Stdin and Stdout are the sentinels selecting standard streams instead
	// of files for input and output documents.
	Stdin  = "stdin"
	Stdout = "stdout"
)

// Flags is the command line grammar of a backend. Empty flag names are
// omitted from invocations.
type Flags struct {
	// Command is placed in front of all other arguments, e.g. "t8n".
	Command []string

	InputAlloc string
	InputTxs   string
	InputEnv   string

	// OutputBaseDir, if set, names the directory output file names are
	// relative to. Backends without it receive absolute output paths.
	OutputBaseDir string
	OutputAlloc   string
	OutputResult  string
	OutputBody    string

	Fork    string
	Reward  string
	ChainID string
	// ExtraEIPs names a flag listing comma separated EIP numbers. If empty
	// and EIPsInFork is set, EIPs are appended to the fork name instead, as
	// in "London+3855".
	ExtraEIPs  string
	EIPsInFork bool

	// Trace lists the arguments enabling per-transaction traces, which are
	// written to the output base directory.
	Trace []string

	// BlobScheduleInEnv embeds the blob schedule in the environment
	// document for backends not taking it as part of the state.
	BlobScheduleInEnv bool
}

// DefaultFlags returns the grammar of the geth t8n tool, which most other
// backends adopted.
func DefaultFlags() Flags {
	return Flags{
		Command:       []string{"t8n"},
		InputAlloc:    "--input.alloc",
		InputTxs:      "--input.txs",
		InputEnv:      "--input.env",
		OutputBaseDir: "--output.basedir",
		OutputAlloc:   "--output.alloc",
		OutputResult:  "--output.result",
		OutputBody:    "--output.body",
		Fork:          "--state.fork",
		Reward:        "--state.reward",
		ChainID:       "--state.chainid",
		EIPsInFork:    true,
		Trace:         []string{"--trace"},
	}
}

// Documents names the locations of the documents of one invocation,
// either as paths or as Stdin / Stdout sentinels.
type Documents struct {
	Alloc     string
	Txs       string
	Env       string
	BaseDir   string
	OutAlloc  string
	OutResult string
	OutBody   string
}

// Args builds the arguments of a transition invocation.
func (f *Flags) Args(request *t8n.Request, docs Documents, trace bool) []string {
	res := append([]string{}, f.Command...)
	res = appendFlag(res, f.InputAlloc, docs.Alloc)
	res = appendFlag(res, f.InputTxs, docs.Txs)
	res = appendFlag(res, f.InputEnv, docs.Env)
	res = appendFlag(res, f.OutputBaseDir, docs.BaseDir)
	res = appendFlag(res, f.OutputAlloc, docs.OutAlloc)
	res = appendFlag(res, f.OutputResult, docs.OutResult)
	res = appendFlag(res, f.OutputBody, docs.OutBody)
	res = append(res, f.StateArgs(request)...)
	if trace {
		res = append(res, f.Trace...)
	}
	return res
}

// StateArgs builds the arguments selecting the rule set of a request.
func (f *Flags) StateArgs(request *t8n.Request) []string {
	var res []string
	eips := request.ExtraEIPs()
	fork := request.Fork().String()
	if f.ExtraEIPs == "" && f.EIPsInFork {
		for _, eip := range eips {
			fork += "+" + strconv.Itoa(eip)
		}
	}
	res = appendFlag(res, f.Fork, fork)
	res = appendFlag(res, f.Reward, strconv.FormatInt(request.Reward(), 10))
	res = appendFlag(res, f.ChainID, strconv.FormatUint(request.ChainID(), 10))
	if f.ExtraEIPs != "" && len(eips) > 0 {
		list := make([]string, 0, len(eips))
		for _, eip := range eips {
			list = append(list, strconv.Itoa(eip))
		}
		res = appendFlag(res, f.ExtraEIPs, strings.Join(list, ","))
	}
	return res
}

// EnvDocument returns the environment document to be handed to the tool.
func (f *Flags) EnvDocument(request *t8n.Request) ([]byte, error) {
	if f.BlobScheduleInEnv {
		return request.EnvWithBlobSchedule()
	}
	return request.EnvJSON(), nil
}

func appendFlag(args []string, flag, value string) []string {
	if flag == "" || value == "" {
		return args
	}
	return append(args, flag, value)
}
