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
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fantom-foundation/t8n/go/debug"
	"github.com/Fantom-foundation/t8n/go/t8n"
)

const (
	allocFile  = "alloc.json"
	envFile    = "env.json"
	txsFile    = "txs.json"
	resultFile = "result.json"
	bodyFile   = "txs.rlp"
)

// Filesystem hands the input documents to the backend as files and reads
// the outputs from files, running one process per call.
type Filesystem struct {
	opts Options
}

func NewFilesystem(opts Options) *Filesystem {
	return &Filesystem{opts: opts}
}

func (t *Filesystem) Start(context.Context) error {
	return nil
}

func (t *Filesystem) Execute(ctx context.Context, call Call) (*Outcome, error) {
	dir, err := os.MkdirTemp("", "t8n-")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			t.opts.logger().Warn("Failed to remove working directory", "dir", dir, "err", err)
		}
	}()

	inputDir := filepath.Join(dir, debug.InputDir)
	outputDir := filepath.Join(dir, debug.OutputDir)
	for _, sub := range []string{inputDir, outputDir} {
		if err := os.Mkdir(sub, 0755); err != nil {
			return nil, err
		}
	}

	env, err := t.opts.Flags.EnvDocument(call.Request)
	if err != nil {
		return nil, err
	}
	inputs := map[string][]byte{
		allocFile: call.Request.AllocJSON(),
		envFile:   env,
		txsFile:   call.Request.TxsJSON(),
	}
	for name, data := range inputs {
		if err := os.WriteFile(filepath.Join(inputDir, name), data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		call.Debug.WriteInput(name, data)
	}

	args := t.opts.Flags.Args(call.Request, t.documents(inputDir, outputDir), t.opts.Trace)
	if call.Debug != nil {
		replay := t.opts.Flags.Args(call.Request, t.documents(call.Debug.Path(debug.InputDir), call.Debug.Path(debug.OutputDir)), t.opts.Trace)
		call.Debug.WriteReplayScript(t.opts.Binary, replay, nil)
	}
	if _, err := run(ctx, t.opts.logger(), t.opts.Binary, args, nil, call.Debug); err != nil {
		return nil, err
	}

	outputs := map[string][]byte{}
	for _, name := range []string{allocFile, resultFile, bodyFile} {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		if err != nil {
			if name == bodyFile && os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("%w: missing output %s: %v", t8n.ErrMalformedResponse, name, err)
		}
		call.Debug.WriteOutput(name, data)
		outputs[name] = data
	}
	response, err := t8n.DecodeDocuments(outputs[allocFile], outputs[resultFile], outputs[bodyFile])
	if err != nil {
		return nil, err
	}

	res := &Outcome{Response: response}
	if t.opts.Trace {
		if res.Traces, err = t8n.ReadTraces(outputDir); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// documents names the files of one invocation. Output names are relative to
// the base directory if the backend supports one.
func (t *Filesystem) documents(inputDir, outputDir string) Documents {
	res := Documents{
		Alloc:     filepath.Join(inputDir, allocFile),
		Txs:       filepath.Join(inputDir, txsFile),
		Env:       filepath.Join(inputDir, envFile),
		OutAlloc:  filepath.Join(outputDir, allocFile),
		OutResult: filepath.Join(outputDir, resultFile),
		OutBody:   filepath.Join(outputDir, bodyFile),
	}
	if t.opts.Flags.OutputBaseDir != "" {
		res.BaseDir = outputDir
		res.OutAlloc = allocFile
		res.OutResult = resultFile
		res.OutBody = bodyFile
	}
	return res
}

func (t *Filesystem) Close() error {
	return nil
}
