// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package executor

import (
	"github.com/Fantom-foundation/t8n/go/exception"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/transport"
	"github.com/ethereum/go-ethereum/log"
)

// Config holds the settings of an executor chosen by its user. It is passed
// by value and not modified after an executor has been created.
type Config struct {
	// Binary is the path or name of the backend program. If empty, the
	// default binary name of the backend is looked up on the search path.
	Binary string
	// Trace enables the collection of per-transaction traces.
	Trace bool
	// Logger receives all log output of the executor, log.Root() if nil.
	Logger log.Logger
	// Timeouts and Retry only apply to server backends. Zero fields fall
	// back to the defaults.
	Timeouts transport.Timeouts
	Retry    transport.RetryPolicy
}

// DefaultConfig returns the configuration used when nothing is customized.
func DefaultConfig() Config {
	return Config{
		Timeouts: transport.DefaultTimeouts(),
		Retry:    transport.DefaultRetryPolicy(),
	}
}

func (c Config) logger() log.Logger {
	if c.Logger == nil {
		return log.Root()
	}
	return c.Logger
}

// TransportFactory creates the transport of an executor. The options are
// filled in from the backend description and the configuration.
type TransportFactory func(opts transport.Options, config Config) transport.Transport

// Spec describes a backend: how to find it, how to talk to it, and how to
// read its error messages.
type Spec struct {
	Name          string
	DefaultBinary string
	Flags         transport.Flags
	Transport     TransportFactory
	Mapper        *exception.Mapper

	// ForkProbe lists the arguments of an invocation printing the names of
	// all supported forks, typically a help text. Backends without such an
	// invocation list their forks in Forks instead. If both are empty, all
	// forks are considered supported.
	ForkProbe []string
	Forks     []t8n.Fork
}

// Filesystem runs one process per call exchanging files.
func Filesystem() TransportFactory {
	return func(opts transport.Options, _ Config) transport.Transport {
		return transport.NewFilesystem(opts)
	}
}

// Stream runs one process per call exchanging JSON through stdin/stdout.
func Stream() TransportFactory {
	return func(opts transport.Options, _ Config) transport.Transport {
		return transport.NewStream(opts)
	}
}

// Server talks HTTP to a single server process started as described.
func Server(launch transport.Launch) TransportFactory {
	return func(opts transport.Options, config Config) transport.Transport {
		return transport.NewServer(transport.ServerOptions{
			Options:  opts,
			Launch:   launch,
			Timeouts: config.Timeouts,
			Retry:    config.Retry,
		})
	}
}
