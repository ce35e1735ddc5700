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
	"testing"
	"time"
)

func TestTimeouts_ZeroFieldsUseDefaults(t *testing.T) {
	defaults := DefaultTimeouts()
	tests := map[string]struct {
		timeouts Timeouts
		slow     bool
		want     time.Duration
	}{
		"zero normal":        {Timeouts{}, false, defaults.Normal},
		"zero slow":          {Timeouts{}, true, defaults.Slow},
		"explicit normal":    {Timeouts{Normal: time.Second}, false, time.Second},
		"explicit slow":      {Timeouts{Slow: time.Hour}, true, time.Hour},
		"only other tier":    {Timeouts{Normal: time.Second}, true, defaults.Slow},
		"disabled normal":    {Timeouts{Normal: -1}, false, 0},
		"disabled slow":      {Timeouts{Slow: -1}, true, 0},
		"disabled other one": {Timeouts{Slow: -1}, false, defaults.Normal},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			if got := test.timeouts.For(test.slow); got != test.want {
				t.Errorf("unexpected timeout, wanted %v, got %v", test.want, got)
			}
		})
	}
}

func TestRetryPolicy_ZeroFieldsUseDefaults(t *testing.T) {
	got := RetryPolicy{Cap: time.Second}.withDefaults()
	want := DefaultRetryPolicy()
	want.Cap = time.Second
	if got != want {
		t.Errorf("unexpected policy, wanted %v, got %v", want, got)
	}
}

func TestRetryPolicy_BackoffIsBoundedByAttempts(t *testing.T) {
	backoff := RetryPolicy{Attempts: 3, Base: time.Millisecond, Cap: 2 * time.Millisecond}.backoff()
	var delays []time.Duration
	for {
		delay, stop := backoff.Next()
		if stop {
			break
		}
		delays = append(delays, delay)
	}
	if len(delays) != 2 {
		t.Fatalf("expected 2 retries for 3 attempts, got %v", delays)
	}
	for _, delay := range delays {
		if delay > 2*time.Millisecond {
			t.Errorf("delay %v exceeds cap", delay)
		}
	}
}
