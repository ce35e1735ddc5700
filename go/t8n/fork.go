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

import (
	"fmt"
	"slices"
	"strings"
)

// Fork names a protocol rule set. Backends identify forks by name, so the
// type is a string. Besides the plain forks listed below, backends accept
// transition forks such as "ShanghaiToCancunAtTime15k", which are passed on
// verbatim.
type Fork string

const (
	Frontier          Fork = "Frontier"
	Homestead         Fork = "Homestead"
	EIP150            Fork = "EIP150"
	EIP158            Fork = "EIP158"
	Byzantium         Fork = "Byzantium"
	Constantinople    Fork = "Constantinople"
	ConstantinopleFix Fork = "ConstantinopleFix"
	Istanbul          Fork = "Istanbul"
	MuirGlacier       Fork = "MuirGlacier"
	Berlin            Fork = "Berlin"
	London            Fork = "London"
	ArrowGlacier      Fork = "ArrowGlacier"
	GrayGlacier       Fork = "GrayGlacier"
	Paris             Fork = "Paris"
	Shanghai          Fork = "Shanghai"
	Cancun            Fork = "Cancun"
	Prague            Fork = "Prague"
	Osaka             Fork = "Osaka"
)

const transitionForkPattern = "To"

var forkOrder = []Fork{
	Frontier, Homestead, EIP150, EIP158, Byzantium, Constantinople,
	ConstantinopleFix, Istanbul, MuirGlacier, Berlin, London, ArrowGlacier,
	GrayGlacier, Paris, Shanghai, Cancun, Prague, Osaka,
}

// Forks returns all plain forks in chain order.
func Forks() []Fork {
	return slices.Clone(forkOrder)
}

// ParseFork resolves a fork name case-insensitively. Unknown names are only
// accepted if they have the shape of a transition fork.
func ParseFork(name string) (Fork, error) {
	for _, fork := range forkOrder {
		if strings.EqualFold(string(fork), name) {
			return fork, nil
		}
	}
	if from, to, ok := splitTransition(name); ok {
		if _, err := ParseFork(string(from)); err == nil {
			if _, err := ParseFork(string(to)); err == nil {
				return Fork(name), nil
			}
		}
	}
	return "", fmt.Errorf("unknown fork: %q", name)
}

// IsKnown is true for plain forks listed in this package.
func (f Fork) IsKnown() bool {
	return f.index() >= 0
}

// IsTransition is true for forks switching rule sets at some block or time.
func (f Fork) IsTransition() bool {
	_, _, ok := splitTransition(string(f))
	return ok
}

// Before reports whether f strictly precedes o in chain order. Transition
// forks are ordered by the fork they start from. Unknown forks are never
// ordered before anything.
func (f Fork) Before(o Fork) bool {
	a, b := f.base().index(), o.base().index()
	return a >= 0 && b >= 0 && a < b
}

// AtLeast reports whether f is o or any later fork.
func (f Fork) AtLeast(o Fork) bool {
	a, b := f.base().index(), o.base().index()
	return a >= 0 && b >= 0 && a >= b
}

func (f Fork) String() string {
	return string(f)
}

func (f Fork) MarshalText() ([]byte, error) {
	if f == "" {
		return nil, fmt.Errorf("cannot marshal empty fork")
	}
	return []byte(f), nil
}

func (f *Fork) UnmarshalText(data []byte) error {
	fork, err := ParseFork(string(data))
	if err != nil {
		return err
	}
	*f = fork
	return nil
}

func (f Fork) base() Fork {
	if from, _, ok := splitTransition(string(f)); ok {
		return from
	}
	return f
}

func (f Fork) index() int {
	return slices.Index(forkOrder, f)
}

// splitTransition splits names like "ParisToShanghaiAtTime15k" into their
// source and target forks.
func splitTransition(name string) (from, to Fork, ok bool) {
	pos := strings.Index(name, transitionForkPattern)
	if pos <= 0 {
		return "", "", false
	}
	rest := name[pos+len(transitionForkPattern):]
	end := strings.Index(rest, "At")
	if end <= 0 {
		return "", "", false
	}
	return Fork(name[:pos]), Fork(rest[:end]), true
}
