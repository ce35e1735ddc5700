// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package transport

import (
	"errors"
	"syscall"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy bounds the attempts to reach a server that has been started
// but may not be listening yet. Zero fields are replaced by the defaults.
type RetryPolicy struct {
	// Attempts is the total number of connection attempts.
	Attempts int
	// Base is the delay before the first retry, doubled on every retry.
	Base time.Duration
	// Cap limits the delay between two attempts.
	Cap time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 5,
		Base:     100 * time.Millisecond,
		Cap:      2 * time.Second,
	}
}

func (p RetryPolicy) withDefaults() RetryPolicy {
	defaults := DefaultRetryPolicy()
	if p.Attempts <= 0 {
		p.Attempts = defaults.Attempts
	}
	if p.Base <= 0 {
		p.Base = defaults.Base
	}
	if p.Cap <= 0 {
		p.Cap = defaults.Cap
	}
	return p
}

func (p RetryPolicy) backoff() retry.Backoff {
	p = p.withDefaults()
	res := retry.WithCappedDuration(p.Cap, retry.NewExponential(p.Base))
	return retry.WithMaxRetries(uint64(p.Attempts-1), res)
}

// Timeouts are the per-call deadlines of server requests. Zero fields are
// replaced by the defaults, negative ones disable the respective deadline.
type Timeouts struct {
	Normal time.Duration
	Slow   time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Normal: time.Minute,
		Slow:   10 * time.Minute,
	}
}

func (t Timeouts) withDefaults() Timeouts {
	defaults := DefaultTimeouts()
	if t.Normal == 0 {
		t.Normal = defaults.Normal
	}
	if t.Slow == 0 {
		t.Slow = defaults.Slow
	}
	return t
}

// For returns the deadline of a call in the given tier, zero if the call
// has none.
func (t Timeouts) For(slow bool) time.Duration {
	t = t.withDefaults()
	res := t.Normal
	if slow {
		res = t.Slow
	}
	return max(res, 0)
}

// isConnectionRefused is true for failures caused by a server not yet
// listening: a refused TCP connection or a missing unix socket.
func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ENOENT)
}
