// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package evmone adapts evmone-t8n, which exchanges documents through files
// and cannot list its forks.
package evmone

import (
	"regexp"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/transport"
)

const (
	Name          = "evmone"
	DefaultBinary = "evmone-t8n"
	VersionFlag   = "-v"
)

var versionPattern = regexp.MustCompile(`(?m)^evmone-t8n\b`)

// forks supported by all current releases.
var forks = []t8n.Fork{
	t8n.Frontier, t8n.Homestead, t8n.EIP150, t8n.EIP158, t8n.Byzantium,
	t8n.Constantinople, t8n.ConstantinopleFix, t8n.Istanbul, t8n.Berlin,
	t8n.London, t8n.Paris, t8n.Shanghai, t8n.Cancun, t8n.Prague,
}

func Candidate() resolver.Candidate {
	return resolver.Candidate{Name: Name, VersionFlag: VersionFlag, Pattern: versionPattern}
}

func Flags() transport.Flags {
	res := transport.DefaultFlags()
	res.Command = nil
	return res
}

func Spec() executor.Spec {
	return executor.Spec{
		Name:          Name,
		DefaultBinary: DefaultBinary,
		Flags:         Flags(),
		Transport:     executor.Filesystem(),
		Mapper:        mapper,
		Forks:         forks,
	}
}

func New(config executor.Config) (*executor.Executor, error) {
	return executor.New(Spec(), config)
}
