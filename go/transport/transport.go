// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package transport implements the ways transition calls are handed to
// backend tools: input files and a process per call, JSON piped through a
// process per call, or HTTP requests to a long running server.
package transport

//go:generate mockgen -source transport.go -destination transport_mock.go -package transport

import (
	"context"

	"github.com/Fantom-foundation/t8n/go/debug"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/ethereum/go-ethereum/log"
)

// Transport executes transition calls against one backend binary. A
// transport is used by a single owner; calls are sequential.
type Transport interface {
	// Start prepares the transport for calls. Transports without persistent
	// worker processes do nothing.
	Start(ctx context.Context) error

	// Execute runs a single transition call. Either a complete, validated
	// response or an error is returned.
	Execute(ctx context.Context, call Call) (*Outcome, error)

	// Close releases all processes and temporary resources. It may be
	// called any number of times.
	Close() error
}

// Call is a single transition call.
type Call struct {
	Request *t8n.Request
	// Slow selects the extended timeout, if the transport enforces one.
	Slow bool
	// Debug receives the artifacts of the call, nil disables capturing.
	Debug *debug.Call
}

// Outcome is the result of a successful call.
type Outcome struct {
	Response *t8n.Response
	// Traces holds one entry per traced transaction, empty if tracing is
	// disabled.
	Traces []t8n.TransactionTrace
}

// Options are shared by all transports.
type Options struct {
	Binary string
	Flags  Flags
	Trace  bool
	Logger log.Logger
}

func (o *Options) logger() log.Logger {
	if o.Logger == nil {
		return log.Root()
	}
	return o.Logger
}
