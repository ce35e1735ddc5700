// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package eels adapts the t8n daemon of the Ethereum execution
// specification, a server listening on a unix socket.
package eels

import (
	"regexp"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/transport"
)

const (
	Name          = "eels"
	DefaultBinary = "ethereum-spec-evm"
	VersionFlag   = "--version"
)

var versionPattern = regexp.MustCompile(`(?m)^ethereum-spec-evm\b`)

var forks = []t8n.Fork{
	t8n.Frontier, t8n.Homestead, t8n.EIP150, t8n.EIP158, t8n.Byzantium,
	t8n.Constantinople, t8n.ConstantinopleFix, t8n.Istanbul, t8n.MuirGlacier,
	t8n.Berlin, t8n.London, t8n.ArrowGlacier, t8n.GrayGlacier, t8n.Paris,
	t8n.Shanghai, t8n.Cancun, t8n.Prague,
}

func Candidate() resolver.Candidate {
	return resolver.Candidate{Name: Name, VersionFlag: VersionFlag, Pattern: versionPattern}
}

// Launch starts the daemon on a fresh unix socket. The daemon prints
// nothing useful, so the socket is polled until it accepts connections.
func Launch() transport.Launch {
	return transport.Launch{
		Args:       []string{"daemon"},
		SocketFlag: "--uds",
	}
}

func Flags() transport.Flags {
	return transport.Flags{
		OutputBaseDir: "--output.basedir",
		Trace:         []string{"--trace"},
	}
}

func Spec() executor.Spec {
	return executor.Spec{
		Name:          Name,
		DefaultBinary: DefaultBinary,
		Flags:         Flags(),
		Transport:     executor.Server(Launch()),
		Mapper:        mapper,
		Forks:         forks,
	}
}

func New(config executor.Config) (*executor.Executor, error) {
	return executor.New(Spec(), config)
}
