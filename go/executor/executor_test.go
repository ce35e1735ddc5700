// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package executor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Fantom-foundation/t8n/go/exception"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/Fantom-foundation/t8n/go/t8ntest"
	"github.com/Fantom-foundation/t8n/go/transport"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	t8ntest.Main()
	os.Exit(m.Run())
}

func newMockedExecutor(t *testing.T, spec Spec, config Config) (*Executor, *transport.MockTransport) {
	t.Helper()
	mock := transport.NewMockTransport(gomock.NewController(t))
	spec.Transport = func(transport.Options, Config) transport.Transport { return mock }
	if spec.DefaultBinary == "" {
		spec.DefaultBinary = t8ntest.NewTool(t, t8ntest.Options{})
	}
	res, err := New(spec, config)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	return res, mock
}

func newRequest() *t8n.Request {
	return t8n.MustNewRequest(t8n.RequestParams{Fork: t8n.London, Reward: t8n.NoReward})
}

func newOutcome(rejected ...t8n.Rejection) *transport.Outcome {
	return &transport.Outcome{
		Response: &t8n.Response{Alloc: t8n.Alloc{}, Result: &t8n.Result{Rejected: rejected}},
	}
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNew_MissingBinaryIsNotFound(t *testing.T) {
	_, err := New(Spec{Name: "test", Transport: Stream()}, Config{Binary: filepath.Join(t.TempDir(), "missing")})
	var notFound *t8n.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestNew_DefaultBinaryIsLookedUpOnPath(t *testing.T) {
	binary := t8ntest.NewTool(t, t8ntest.Options{Name: "fake-evm"})
	t.Setenv("PATH", filepath.Dir(binary))
	executor, err := New(Spec{Name: "test", DefaultBinary: "fake-evm", Transport: Stream()}, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if executor.Binary() != binary {
		t.Errorf("unexpected binary %q, wanted %q", executor.Binary(), binary)
	}
}

func TestNew_MissingTransportIsReported(t *testing.T) {
	if _, err := New(Spec{Name: "test"}, DefaultConfig()); err == nil {
		t.Errorf("expected an error")
	}
}

func TestNew_TransportIsConfiguredFromSpecAndConfig(t *testing.T) {
	flags := transport.DefaultFlags()
	flags.Reward = ""
	binary := t8ntest.NewTool(t, t8ntest.Options{})
	var got transport.Options
	spec := Spec{
		Name:  "test",
		Flags: flags,
		Transport: func(opts transport.Options, _ Config) transport.Transport {
			got = opts
			return transport.NewStream(opts)
		},
	}
	if _, err := New(spec, Config{Binary: binary, Trace: true}); err != nil {
		t.Fatal(err)
	}
	if got.Binary != binary || !got.Trace || got.Flags.Reward != "" || got.Logger == nil {
		t.Errorf("unexpected transport options %+v", got)
	}
}

func TestExecutor_EvaluateClassifiesRejections(t *testing.T) {
	mapper := exception.MustNewMapper(exception.Substring(exception.NonceMismatchTooLow, "nonce too low"))
	executor, mock := newMockedExecutor(t, Spec{Name: "test", Mapper: mapper}, DefaultConfig())
	mock.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(newOutcome(
		t8n.Rejection{Index: 0, Error: "nonce too low: address 0x01, tx: 0 state: 1"},
		t8n.Rejection{Index: 2, Error: "something odd"},
	), nil)

	response, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, found := response.RejectedAt(0)
	if !found || first.Exception.Kind != exception.NonceMismatchTooLow {
		t.Errorf("unexpected classification %v", first.Exception)
	}
	second, found := response.RejectedAt(2)
	if !found || second.Exception.Classified() || second.Exception.Message != "something odd" {
		t.Errorf("unknown messages should be unclassified verbatim, got %v", second.Exception)
	}
}

func TestExecutor_EvaluateFailuresAreNotResponses(t *testing.T) {
	tests := map[string]struct {
		outcome *transport.Outcome
		err     error
		check   func(error) bool
	}{
		"tool failure": {
			err:   &t8n.ToolError{Binary: "evm", ExitCode: 1},
			check: func(err error) bool { return errors.Is(err, t8n.ErrToolFailure) },
		},
		"missing result": {
			outcome: &transport.Outcome{Response: &t8n.Response{Alloc: t8n.Alloc{}}},
			check:   func(err error) bool { return errors.Is(err, t8n.ErrMalformedResponse) },
		},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			executor, mock := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
			mock.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(test.outcome, test.err)
			response, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{})
			if response != nil || !test.check(err) {
				t.Errorf("unexpected result %v, %v", response, err)
			}
		})
	}
}

func TestExecutor_EvaluateForwardsCallOptions(t *testing.T) {
	executor, mock := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
	dir := t.TempDir()
	var dirs []string
	mock.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, call transport.Call) (*transport.Outcome, error) {
		if !call.Slow {
			t.Errorf("slow flag not forwarded")
		}
		dirs = append(dirs, call.Debug.Dir())
		return newOutcome(), nil
	}).Times(2)

	for i := 0; i < 2; i++ {
		if _, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{DebugDir: dir, Slow: true}); err != nil {
			t.Fatal(err)
		}
	}
	want := []string{filepath.Join(dir, "0"), filepath.Join(dir, "1")}
	if len(dirs) != 2 || dirs[0] != want[0] || dirs[1] != want[1] {
		t.Errorf("unexpected debug directories %v, wanted %v", dirs, want)
	}
}

func TestExecutor_EvaluateWithoutDebugDirCapturesNothing(t *testing.T) {
	executor, mock := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
	mock.EXPECT().Execute(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, call transport.Call) (*transport.Outcome, error) {
		if call.Debug != nil {
			t.Errorf("unexpected debug capture")
		}
		return newOutcome(), nil
	})
	if _, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{}); err != nil {
		t.Fatal(err)
	}
}

func TestExecutor_TracesAreCollectedPerCall(t *testing.T) {
	config := DefaultConfig()
	config.Trace = true
	executor, mock := newMockedExecutor(t, Spec{Name: "test"}, config)
	outcome := newOutcome()
	outcome.Traces = []t8n.TransactionTrace{{Index: 0}}
	mock.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(outcome, nil).Times(2)

	for i := 0; i < 2; i++ {
		if _, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{}); err != nil {
			t.Fatal(err)
		}
	}
	if got := executor.Traces(); len(got) != 2 || len(got[0]) != 1 {
		t.Errorf("unexpected traces %v", got)
	}
	executor.ResetTraces()
	if got := executor.Traces(); len(got) != 0 {
		t.Errorf("traces should be empty after reset, got %v", got)
	}
	executor.AppendTrace(nil)
	if got := executor.Traces(); len(got) != 1 {
		t.Errorf("appended traces missing, got %v", got)
	}
}

func TestExecutor_TracesAreIgnoredIfDisabled(t *testing.T) {
	executor, mock := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
	outcome := newOutcome()
	outcome.Traces = []t8n.TransactionTrace{{Index: 0}}
	mock.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(outcome, nil)
	if _, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{}); err != nil {
		t.Fatal(err)
	}
	if got := executor.Traces(); len(got) != 0 {
		t.Errorf("unexpected traces %v", got)
	}
}

func TestExecutor_IsForkSupportedUsesHelpOutput(t *testing.T) {
	executor, _ := newMockedExecutor(t, Spec{Name: "test", ForkProbe: []string{"t8n", "--help"}}, DefaultConfig())
	for _, fork := range t8ntest.SupportedForks {
		if !executor.IsForkSupported(fork) {
			t.Errorf("fork %v should be supported", fork)
		}
	}
	if executor.IsForkSupported(t8n.Osaka) {
		t.Errorf("fork %v should not be supported", t8n.Osaka)
	}
}

func TestExecutor_IsForkSupportedProbesOnce(t *testing.T) {
	invocations := filepath.Join(t.TempDir(), "invocations")
	binary := writeScript(t, "echo probe >> "+invocations+"\necho 'Supported forks: London, Paris'")
	executor, _ := newMockedExecutor(t, Spec{Name: "test", DefaultBinary: binary, ForkProbe: []string{"--help"}}, DefaultConfig())
	for i := 0; i < 3; i++ {
		if !executor.IsForkSupported(t8n.London) || executor.IsForkSupported(t8n.Cancun) {
			t.Errorf("unexpected fork support")
		}
	}
	data, err := os.ReadFile(invocations)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "probe"); got != 1 {
		t.Errorf("expected a single probe, got %d", got)
	}
}

func TestExecutor_IsForkSupportedWithStaticForks(t *testing.T) {
	executor, _ := newMockedExecutor(t, Spec{Name: "test", Forks: []t8n.Fork{t8n.Berlin, t8n.London}}, DefaultConfig())
	tests := map[t8n.Fork]bool{
		t8n.Berlin:   true,
		t8n.London:   true,
		t8n.Frontier: false,
		t8n.Cancun:   false,
	}
	for fork, want := range tests {
		if got := executor.IsForkSupported(fork); got != want {
			t.Errorf("IsForkSupported(%v) = %t, want %t", fork, got, want)
		}
	}
	if got := executor.SupportedForks(); len(got) != 2 {
		t.Errorf("unexpected supported forks %v", got)
	}
}

func TestExecutor_IsForkSupportedWithoutCapabilities(t *testing.T) {
	executor, _ := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
	for _, fork := range t8n.Forks() {
		if !executor.IsForkSupported(fork) {
			t.Errorf("fork %v should be supported", fork)
		}
	}
}

func TestExecutor_StartWorkerDelegatesToTransport(t *testing.T) {
	executor, mock := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
	injected := errors.New("injected")
	mock.EXPECT().Start(gomock.Any()).Return(injected)
	if err := executor.StartWorker(context.Background()); !errors.Is(err, injected) {
		t.Errorf("unexpected error %v", err)
	}
}

func TestExecutor_ShutdownIsIdempotent(t *testing.T) {
	executor, mock := newMockedExecutor(t, Spec{Name: "test"}, DefaultConfig())
	injected := errors.New("injected")
	mock.EXPECT().Close().Return(injected).Times(1)

	if err := executor.Shutdown(); !errors.Is(err, injected) {
		t.Errorf("first shutdown should report close error, got %v", err)
	}
	if err := executor.Shutdown(); err != nil {
		t.Errorf("second shutdown should be a no-op, got %v", err)
	}
	if _, err := executor.Evaluate(context.Background(), newRequest(), t8n.CallOptions{}); !errors.Is(err, t8n.ErrShutdown) {
		t.Errorf("expected shutdown error, got %v", err)
	}
	if err := executor.StartWorker(context.Background()); !errors.Is(err, t8n.ErrShutdown) {
		t.Errorf("expected shutdown error, got %v", err)
	}
}

func TestExecutor_NameIsBackendName(t *testing.T) {
	executor, _ := newMockedExecutor(t, Spec{Name: "besu"}, DefaultConfig())
	if executor.Name() != "besu" {
		t.Errorf("unexpected name %q", executor.Name())
	}
}
