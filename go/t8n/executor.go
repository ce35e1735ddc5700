// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package t8n

import "context"

//go:generate mockgen -source executor.go -destination executor_mock.go -package t8n

// Executor runs transition calls on one external backend program. An
// executor binds the backend binary, the transport used to talk to it, and
// the rules interpreting its error messages; none of those change over the
// lifetime of the executor.
//
// Executors are not safe for concurrent use. Each test runner worker is
// expected to own its own executor and thus its own backend process.
type Executor interface {
	// Name identifies the backend, e.g. "geth" or "besu".
	Name() string

	// Evaluate applies the request's environment and transactions to its
	// pre-state. The resulting error is nil whenever the backend produced a
	// decodable result, even if transactions got rejected; rejections are
	// part of the response. A non-nil error always describes a failure of
	// the tool or the transport, in which case no response is returned.
	Evaluate(ctx context.Context, request *Request, opts CallOptions) (*Response, error)

	// IsForkSupported reports whether the backend can execute the given
	// fork. The answer is derived from a capability probe run at most once.
	IsForkSupported(fork Fork) bool

	// StartWorker starts the persistent backend process, if the transport
	// uses one. It is implicitly called by the first Evaluate.
	StartWorker(ctx context.Context) error

	// ResetTraces drops all collected traces. It is intended to be called
	// between test cases.
	ResetTraces()

	// AppendTrace adds the traces of one transition call.
	AppendTrace(traces []TransactionTrace)

	// Traces returns the traces collected since the last reset, one entry
	// per traced transition call.
	Traces() [][]TransactionTrace

	// Shutdown releases the backend process and all temporary resources.
	// It may be called any number of times.
	Shutdown() error
}

// CallOptions are per-call settings of Evaluate.
type CallOptions struct {
	// DebugDir, if not empty, is the directory debug artifacts of the call
	// are written to.
	DebugDir string

	// Slow selects the extended timeout tier of server transports for
	// requests known to be expensive.
	Slow bool
}
