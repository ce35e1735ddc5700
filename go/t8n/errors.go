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
	"sort"
	"strings"
)

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrMalformedResponse is reported whenever the output of a backend can
	// not be decoded into a complete Response.
	ErrMalformedResponse = ConstError("malformed transition response")

	// ErrToolFailure marks a backend process terminating with a non-zero
	// exit code. It never describes a protocol-level rejection.
	ErrToolFailure = ConstError("transition tool failure")

	// ErrConnection is reported by the server transport if the worker could
	// not be reached within the retry budget.
	ErrConnection = ConstError("transition server connection failed")

	// ErrShutdown is reported when an executor is used after Shutdown.
	ErrShutdown = ConstError("executor has been shut down")
)

// NotFoundError is returned when a backend binary is not present on the
// search path or an explicitly given path does not exist.
type NotFoundError struct {
	Binary string
	Cause  error
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("transition tool binary %q not found: %v", e.Binary, e.Cause)
	}
	return fmt.Sprintf("transition tool binary %q not found", e.Binary)
}

func (e *NotFoundError) Unwrap() error {
	return e.Cause
}

// UnknownBinaryError is returned by the auto-detection if none of the known
// backends recognizes the output of its version probe. Outputs maps each
// probe flag to the raw text the binary produced.
type UnknownBinaryError struct {
	Binary  string
	Outputs map[string]string
}

func (e *UnknownBinaryError) Error() string {
	flags := make([]string, 0, len(e.Outputs))
	for flag := range e.Outputs {
		flags = append(flags, flag)
	}
	sort.Strings(flags)
	var res strings.Builder
	fmt.Fprintf(&res, "unable to detect transition tool kind of %q", e.Binary)
	for _, flag := range flags {
		fmt.Fprintf(&res, "\n  %s: %s", flag, strings.TrimSpace(e.Outputs[flag]))
	}
	return res.String()
}

// ToolError describes a backend process that exited with a non-zero code.
// The captured output is attached for diagnosis.
type ToolError struct {
	Binary   string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf(
		"%v: %s exited with code %d\nargs: %s\nstdout:\n%s\nstderr:\n%s",
		ErrToolFailure, e.Binary, e.ExitCode, strings.Join(e.Args, " "), e.Stdout, e.Stderr,
	)
}

func (e *ToolError) Unwrap() error {
	return ErrToolFailure
}

// HTTPError is returned by the server transport for any non-2xx response.
type HTTPError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("transition server %s responded with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// ConnectionError is returned by the server transport when the worker could
// not be connected within the configured number of attempts.
type ConnectionError struct {
	Endpoint string
	Attempts int
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%v: %s after %d attempts: %v", ErrConnection, e.Endpoint, e.Attempts, e.Cause)
}

func (e *ConnectionError) Unwrap() []error {
	return []error{ErrConnection, e.Cause}
}
