// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package exception

import (
	"fmt"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// classificationCacheSize bounds the number of memoized messages per mapper.
const classificationCacheSize = 1 << 12

// Rule maps backend messages to a canonical kind. A rule either matches a
// literal substring or a regular expression, the latter to cover families
// of messages embedding numbers or addresses.
type Rule struct {
	Kind    Kind
	Pattern string
	IsRegex bool
}

// Substring creates a rule matching all messages containing text.
func Substring(kind Kind, text string) Rule {
	return Rule{Kind: kind, Pattern: text}
}

// Regex creates a rule matching all messages matched by the given regular
// expression.
func Regex(kind Kind, pattern string) Rule {
	return Rule{Kind: kind, Pattern: pattern, IsRegex: true}
}

func (r Rule) String() string {
	if r.IsRegex {
		return fmt.Sprintf("%v: /%s/", r.Kind, r.Pattern)
	}
	return fmt.Sprintf("%v: %q", r.Kind, r.Pattern)
}

// Result is the classification of a single backend message. If no rule
// matched, Kind is Unclassified and Message carries the raw text verbatim.
type Result struct {
	Kind    Kind
	Message string
}

// Classified is false for messages without a canonical mapping.
func (r Result) Classified() bool {
	return r.Kind != Unclassified
}

func (r Result) String() string {
	if !r.Classified() {
		return fmt.Sprintf("unclassified backend message: %q", r.Message)
	}
	return r.Kind.String()
}

type compiledRule struct {
	Rule
	expr *regexp.Regexp
}

// Mapper is the ordered rule table of one backend. Substring rules are
// evaluated before regex rules; within each group the declaration order is
// kept, and the first matching rule wins. A Mapper is immutable after its
// construction and safe for concurrent use.
type Mapper struct {
	substrings []Rule
	regexes    []compiledRule
	cache      *lru.Cache[string, Result]
}

// NewMapper creates a mapper for the given rules. All rules are validated;
// empty patterns, the Unclassified kind, and invalid expressions are
// rejected.
func NewMapper(rules ...Rule) (*Mapper, error) {
	cache, err := lru.New[string, Result](classificationCacheSize)
	if err != nil {
		return nil, err
	}
	res := &Mapper{cache: cache}
	for i, rule := range rules {
		if rule.Pattern == "" {
			return nil, fmt.Errorf("rule %d (%v) has an empty pattern", i, rule.Kind)
		}
		if rule.Kind <= Unclassified || int(rule.Kind) >= numKinds {
			return nil, fmt.Errorf("rule %d has invalid kind %v", i, rule.Kind)
		}
		if !rule.IsRegex {
			res.substrings = append(res.substrings, rule)
			continue
		}
		expr, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%v) has an invalid expression: %w", i, rule.Kind, err)
		}
		res.regexes = append(res.regexes, compiledRule{rule, expr})
	}
	return res, nil
}

// MustNewMapper is like NewMapper but panics on invalid rules. It is
// intended for the static rule tables of backends.
func MustNewMapper(rules ...Rule) *Mapper {
	res, err := NewMapper(rules...)
	if err != nil {
		panic(err)
	}
	return res
}

// Classify maps the given backend message to its canonical kind. Messages
// no rule matches are returned as an unclassified Result.
func (m *Mapper) Classify(message string) Result {
	if res, found := m.cache.Get(message); found {
		return res
	}
	res := Result{Kind: m.match(message), Message: message}
	m.cache.Add(message, res)
	return res
}

func (m *Mapper) match(message string) Kind {
	for _, rule := range m.substrings {
		if strings.Contains(message, rule.Pattern) {
			return rule.Kind
		}
	}
	for _, rule := range m.regexes {
		if rule.expr.MatchString(message) {
			return rule.Kind
		}
	}
	return Unclassified
}

// Matches lists all rules matching the given message in evaluation order.
// It is a diagnostic aid to detect overlapping rules.
func (m *Mapper) Matches(message string) []Rule {
	var res []Rule
	for _, rule := range m.substrings {
		if strings.Contains(message, rule.Pattern) {
			res = append(res, rule)
		}
	}
	for _, rule := range m.regexes {
		if rule.expr.MatchString(message) {
			res = append(res, rule.Rule)
		}
	}
	return res
}

// Rules returns all rules in evaluation order.
func (m *Mapper) Rules() []Rule {
	res := make([]Rule, 0, len(m.substrings)+len(m.regexes))
	res = append(res, m.substrings...)
	for _, rule := range m.regexes {
		res = append(res, rule.Rule)
	}
	return res
}

// MismatchError is reported by Expect if a backend message does not map to
// the expected kind.
type MismatchError struct {
	Want Kind
	Got  Result
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("exception mismatch: expected %v, got %v (backend message: %q)", e.Want, e.Got.Kind, e.Got.Message)
}

// Expect checks that got has been classified as want.
func Expect(want Kind, got Result) error {
	if got.Kind == want && got.Classified() {
		return nil
	}
	return &MismatchError{Want: want, Got: got}
}
