// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package besu adapts the evmtool of Hyperledger Besu, run as a transition
// server listening on a TCP port chosen by the operating system.
package besu

import (
	"regexp"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/transport"
)

const (
	Name          = "besu"
	DefaultBinary = "evmtool"
	VersionFlag   = "--version"
)

var (
	versionPattern = regexp.MustCompile(`(?m)^Besu evm\b`)
	listenPattern  = regexp.MustCompile(`(?i)listening on (\S+)`)
)

var forks = []t8n.Fork{
	t8n.Frontier, t8n.Homestead, t8n.EIP150, t8n.EIP158, t8n.Byzantium,
	t8n.Constantinople, t8n.ConstantinopleFix, t8n.Istanbul, t8n.MuirGlacier,
	t8n.Berlin, t8n.London, t8n.ArrowGlacier, t8n.GrayGlacier, t8n.Paris,
	t8n.Shanghai, t8n.Cancun, t8n.Prague,
}

func Candidate() resolver.Candidate {
	return resolver.Candidate{Name: Name, VersionFlag: VersionFlag, Pattern: versionPattern}
}

// Launch starts the server on an arbitrary free port, which is scraped from
// its output.
func Launch() transport.Launch {
	return transport.Launch{
		Args:          []string{"t8n-server", "--port=0"},
		ListenPattern: listenPattern,
	}
}

// Flags only matter for traces; all other inputs are part of the requests.
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
