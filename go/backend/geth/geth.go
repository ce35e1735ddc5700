// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package geth adapts the evm tool of go-ethereum. The tool reads all
// inputs from stdin and writes its outputs to stdout in a single JSON
// document.
package geth

import (
	"regexp"

	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"github.com/Fantom-foundation/t8n/go/transport"
)

const (
	Name          = "geth"
	DefaultBinary = "evm"
	VersionFlag   = "version"
)

var versionPattern = regexp.MustCompile(`(?m)^evm(\.exe)? version\b`)

func Candidate() resolver.Candidate {
	return resolver.Candidate{Name: Name, VersionFlag: VersionFlag, Pattern: versionPattern}
}

// Spec describes the stream based geth backend.
func Spec() executor.Spec {
	return executor.Spec{
		Name:          Name,
		DefaultBinary: DefaultBinary,
		Flags:         transport.DefaultFlags(),
		Transport:     executor.Stream(),
		Mapper:        mapper,
		ForkProbe:     []string{"t8n", "--help"},
	}
}

// FilesystemSpec is Spec using files instead of the standard streams, as
// older releases of the tool require.
func FilesystemSpec() executor.Spec {
	res := Spec()
	res.Transport = executor.Filesystem()
	return res
}

func New(config executor.Config) (*executor.Executor, error) {
	return executor.New(Spec(), config)
}
