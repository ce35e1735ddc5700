// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package backend lists all supported transition tools and creates
// executors for them by name or by inspecting a binary.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Fantom-foundation/t8n/go/backend/besu"
	"github.com/Fantom-foundation/t8n/go/backend/eels"
	"github.com/Fantom-foundation/t8n/go/backend/evmone"
	"github.com/Fantom-foundation/t8n/go/backend/geth"
	"github.com/Fantom-foundation/t8n/go/backend/nethermind"
	"github.com/Fantom-foundation/t8n/go/backend/nimbus"
	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/resolver"
	"golang.org/x/exp/maps"
)

type entry struct {
	candidate resolver.Candidate
	spec      func() executor.Spec
}

// backends in detection order. Backends sharing a version flag are probed
// with a single invocation.
var backends = []entry{
	{geth.Candidate(), geth.Spec},
	{evmone.Candidate(), evmone.Spec},
	{besu.Candidate(), besu.Spec},
	{eels.Candidate(), eels.Spec},
	{nethermind.Candidate(), nethermind.Spec},
	{nimbus.Candidate(), nimbus.Spec},
}

var specs = func() map[string]func() executor.Spec {
	res := make(map[string]func() executor.Spec, len(backends))
	for _, backend := range backends {
		res[backend.candidate.Name] = backend.spec
	}
	return res
}()

// Candidates returns the detection table of all backends in detection
// order.
func Candidates() []resolver.Candidate {
	res := make([]resolver.Candidate, 0, len(backends))
	for _, backend := range backends {
		res = append(res, backend.candidate)
	}
	return res
}

// Names lists the names of all backends, sorted.
func Names() []string {
	res := maps.Keys(specs)
	sort.Strings(res)
	return res
}

// Spec returns the description of the named backend. Names are not case
// sensitive.
func Spec(name string) (executor.Spec, error) {
	spec, found := specs[strings.ToLower(name)]
	if !found {
		return executor.Spec{}, fmt.Errorf("unknown backend %q, supported are %v", name, Names())
	}
	return spec(), nil
}

// New creates an executor for the named backend.
func New(name string, config executor.Config) (*executor.Executor, error) {
	spec, err := Spec(name)
	if err != nil {
		return nil, err
	}
	return executor.New(spec, config)
}

// Detect identifies the backend implemented by the given binary and
// creates an executor for it.
func Detect(ctx context.Context, binary string, config executor.Config) (*executor.Executor, error) {
	path, err := resolver.Resolve(binary)
	if err != nil {
		return nil, err
	}
	candidate, err := resolver.Detect(ctx, path, Candidates())
	if err != nil {
		return nil, err
	}
	config.Binary = path
	return New(candidate.Name, config)
}
