// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package nimbus adapts the t8n tool of Nimbus, which uses the geth flag
// grammar without a subcommand.
package nimbus

import (
	"regexp"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/transport"
)

const (
	Name          = "nimbus"
	DefaultBinary = "t8n"
	VersionFlag   = "--version"
)

var versionPattern = regexp.MustCompile(`(?m)^Nimbus-t8n\b`)

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
		ForkProbe:     []string{"--help"},
	}
}

func New(config executor.Config) (*executor.Executor, error) {
	return executor.New(Spec(), config)
}
