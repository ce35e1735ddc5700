// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package nethermind adapts nethtest, the test runner of Nethermind, whose
// flags use dashes instead of dots.
package nethermind

import (
	"regexp"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/transport"
)

const (
	Name          = "nethermind"
	DefaultBinary = "nethtest"
	VersionFlag   = "--version"
)

var versionPattern = regexp.MustCompile(`(?m)^nethtest\b`)

func Candidate() resolver.Candidate {
	return resolver.Candidate{Name: Name, VersionFlag: VersionFlag, Pattern: versionPattern}
}

func Flags() transport.Flags {
	return transport.Flags{
		Command:           []string{"--run-transition-test"},
		InputAlloc:        "--input-alloc",
		InputTxs:          "--input-txs",
		InputEnv:          "--input-env",
		OutputBaseDir:     "--output-basedir",
		OutputAlloc:       "--output-alloc",
		OutputResult:      "--output-result",
		OutputBody:        "--output-body",
		Fork:              "--state-fork",
		Reward:            "--state-reward",
		ChainID:           "--state-chain-id",
		EIPsInFork:        true,
		Trace:             []string{"--trace"},
		BlobScheduleInEnv: true,
	}
}

func Spec() executor.Spec {
	return executor.Spec{
		Name:          Name,
		DefaultBinary: DefaultBinary,
		Flags:         Flags(),
		Transport:     executor.Filesystem(),
		Mapper:        mapper,
		ForkProbe:     []string{"--help"},
	}
}

func New(config executor.Config) (*executor.Executor, error) {
	return executor.New(Spec(), config)
}
