// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package executor composes a backend description, a resolved binary, and
// a transport into a t8n.Executor.
package executor

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Fantom-foundation/t8n/go/debug"
	"github.com/Fantom-foundation/t8n/go/exception"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/transport"
	"github.com/ethereum/go-ethereum/log"
)

const forkProbeTimeout = 30 * time.Second

// Executor is the t8n.Executor of a single backend binary.
type Executor struct {
	spec      Spec
	config    Config
	binary    string
	transport transport.Transport
	mapper    *exception.Mapper
	logger    log.Logger

	// calls counts the debug captured calls per debug directory.
	calls map[string]int

	forksOnce sync.Once
	forks     func(t8n.Fork) bool

	tracesMu sync.Mutex
	traces   [][]t8n.TransactionTrace

	closed       atomic.Bool
	shutdownOnce sync.Once
}

var _ t8n.Executor = (*Executor)(nil)

// New resolves the binary of the backend and creates an executor for it.
// No process is started before the first call.
func New(spec Spec, config Config) (*Executor, error) {
	if spec.Transport == nil {
		return nil, fmt.Errorf("backend %q has no transport", spec.Name)
	}
	name := config.Binary
	if name == "" {
		name = spec.DefaultBinary
	}
	binary, err := resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	mapper := spec.Mapper
	if mapper == nil {
		mapper = exception.MustNewMapper()
	}
	logger := config.logger().New("backend", spec.Name)
	opts := transport.Options{
		Binary: binary,
		Flags:  spec.Flags,
		Trace:  config.Trace,
		Logger: logger,
	}
	return &Executor{
		spec:      spec,
		config:    config,
		binary:    binary,
		transport: spec.Transport(opts, config),
		mapper:    mapper,
		logger:    logger,
		calls:     map[string]int{},
	}, nil
}

func (e *Executor) Name() string {
	return e.spec.Name
}

// Binary is the absolute path of the backend program.
func (e *Executor) Binary() string {
	return e.binary
}

func (e *Executor) Evaluate(ctx context.Context, request *t8n.Request, opts t8n.CallOptions) (*t8n.Response, error) {
	if e.closed.Load() {
		return nil, t8n.ErrShutdown
	}
	if request == nil {
		return nil, fmt.Errorf("no request given")
	}
	call := transport.Call{Request: request, Slow: opts.Slow}
	if opts.DebugDir != "" {
		call.Debug = debug.NewCall(opts.DebugDir, e.calls[opts.DebugDir], e.logger)
		e.calls[opts.DebugDir]++
	}

	start := time.Now()
	outcome, err := e.transport.Execute(ctx, call)
	if err != nil {
		e.logger.Debug("Transition failed", "fork", request.Fork(), "err", err)
		return nil, err
	}
	response := outcome.Response
	if err := response.Validate(); err != nil {
		return nil, err
	}
	for i := range response.Result.Rejected {
		rejected := &response.Result.Rejected[i]
		rejected.Exception = e.mapper.Classify(rejected.Error)
		if !rejected.Exception.Classified() {
			e.logger.Warn("Unclassified rejection", "tx", rejected.Index, "message", rejected.Error)
		}
	}
	if e.config.Trace {
		e.AppendTrace(outcome.Traces)
	}
	e.logger.Debug("Transition done", "fork", request.Fork(), "txs", request.NumTransactions(),
		"rejected", len(response.Result.Rejected), "time", time.Since(start))
	return response, nil
}

// IsForkSupported answers from the capability probe of the backend, which
// is run on the first call. A failing probe makes all forks unsupported.
func (e *Executor) IsForkSupported(fork t8n.Fork) bool {
	e.forksOnce.Do(func() {
		e.forks = e.probeForks()
	})
	return e.forks(fork)
}

// SupportedForks lists all plain forks the backend supports.
func (e *Executor) SupportedForks() []t8n.Fork {
	var res []t8n.Fork
	for _, fork := range t8n.Forks() {
		if e.IsForkSupported(fork) {
			res = append(res, fork)
		}
	}
	return res
}

func (e *Executor) probeForks() func(t8n.Fork) bool {
	switch {
	case len(e.spec.ForkProbe) > 0:
		ctx, cancel := context.WithTimeout(context.Background(), forkProbeTimeout)
		defer cancel()
		help, err := resolver.Probe(ctx, e.binary, e.spec.ForkProbe...)
		if err != nil {
			e.logger.Warn("Failed to probe supported forks", "err", err)
			return func(t8n.Fork) bool { return false }
		}
		return func(fork t8n.Fork) bool {
			return fork != "" && strings.Contains(help, fork.String())
		}
	case len(e.spec.Forks) > 0:
		forks := slices.Clone(e.spec.Forks)
		return func(fork t8n.Fork) bool {
			return slices.Contains(forks, fork)
		}
	}
	return func(fork t8n.Fork) bool {
		return fork != ""
	}
}

// StartWorker starts the server process of server backends. Other
// backends have nothing to start.
func (e *Executor) StartWorker(ctx context.Context) error {
	if e.closed.Load() {
		return t8n.ErrShutdown
	}
	return e.transport.Start(ctx)
}

func (e *Executor) ResetTraces() {
	e.tracesMu.Lock()
	defer e.tracesMu.Unlock()
	e.traces = nil
}

func (e *Executor) AppendTrace(traces []t8n.TransactionTrace) {
	e.tracesMu.Lock()
	defer e.tracesMu.Unlock()
	e.traces = append(e.traces, slices.Clone(traces))
}

func (e *Executor) Traces() [][]t8n.TransactionTrace {
	e.tracesMu.Lock()
	defer e.tracesMu.Unlock()
	return slices.Clone(e.traces)
}

// Shutdown closes the transport. Only the first call has an effect and may
// report an error.
func (e *Executor) Shutdown() error {
	var err error
	e.shutdownOnce.Do(func() {
		e.closed.Store(true)
		if err = e.transport.Close(); err != nil {
			e.logger.Warn("Failed to shut down transition tool", "err", err)
		}
	})
	return err
}
