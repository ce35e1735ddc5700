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
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Fantom-foundation/t8n/go/t8n"
)

// Stream pipes all input documents as a single JSON document to the
// standard input of the backend and reads the combined output from its
// standard output, running one process per call.
type Stream struct {
	opts Options
}

func NewStream(opts Options) *Stream {
	return &Stream{opts: opts}
}

func (t *Stream) Start(context.Context) error {
	return nil
}

func (t *Stream) Execute(ctx context.Context, call Call) (*Outcome, error) {
	env, err := t.opts.Flags.EnvDocument(call.Request)
	if err != nil {
		return nil, err
	}
	input := t8n.Input{Alloc: call.Request.AllocJSON(), Txs: call.Request.TxsJSON(), Env: env}
	stdin, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode input: %w", err)
	}
	call.Debug.WriteInput(allocFile, input.Alloc)
	call.Debug.WriteInput(envFile, input.Env)
	call.Debug.WriteInput(txsFile, input.Txs)

	docs := Documents{
		Alloc:     Stdin,
		Txs:       Stdin,
		Env:       Stdin,
		OutAlloc:  Stdout,
		OutResult: Stdout,
		OutBody:   Stdout,
	}
	// Traces are always written to files, even in stream mode.
	if t.opts.Trace {
		dir, err := os.MkdirTemp("", "t8n-trace-")
		if err != nil {
			return nil, fmt.Errorf("failed to create trace directory: %w", err)
		}
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				t.opts.logger().Warn("Failed to remove trace directory", "dir", dir, "err", err)
			}
		}()
		docs.BaseDir = dir
	}

	args := t.opts.Flags.Args(call.Request, docs, t.opts.Trace)
	call.Debug.WriteReplayScript(t.opts.Binary, args, stdin)
	stdout, err := run(ctx, t.opts.logger(), t.opts.Binary, args, stdin, call.Debug)
	if err != nil {
		return nil, err
	}
	response, err := t8n.DecodeOutput(stdout)
	if err != nil {
		return nil, err
	}
	writeOutputs(call, response)

	res := &Outcome{Response: response}
	if t.opts.Trace {
		if res.Traces, err = t8n.ReadTraces(docs.BaseDir); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (t *Stream) Close() error {
	return nil
}

// writeOutputs records the decoded output documents of a response.
func writeOutputs(call Call, response *t8n.Response) {
	if call.Debug == nil {
		return
	}
	if data, err := json.MarshalIndent(response.Alloc, "", "  "); err == nil {
		call.Debug.WriteOutput(allocFile, data)
	}
	if data, err := json.MarshalIndent(response.Result, "", "  "); err == nil {
		call.Debug.WriteOutput(resultFile, data)
	}
	if data, err := json.Marshal(response.Body); err == nil && len(response.Body) > 0 {
		call.Debug.WriteOutput(bodyFile, data)
	}
}
