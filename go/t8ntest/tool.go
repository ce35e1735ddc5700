// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package t8ntest provides a fake transition tool for tests. The fake is
// implemented by the test binary itself: a wrapper script re-executes the
// test binary, whose TestMain hands control to Main before any test runs.
package t8ntest

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Fantom-foundation/t8n/go/t8n"
)

// Flavors of the fake tool. A flavor determines the binary name and the
// version banner, all flavors understand all command line grammars.
const (
	Geth       = "geth"
	Evmone     = "evmone"
	Besu       = "besu"
	Eels       = "eels"
	Nethermind = "nethermind"
	Nimbus     = "nimbus"
)

type flavor struct {
	binary     string
	versionArg string
	banner     string
}

var flavors = map[string]flavor{
	Geth:       {"evm", "version", "evm version 1.14.8-stable-a9523b64"},
	Evmone:     {"evmone-t8n", "-v", "evmone-t8n 0.13.0"},
	Besu:       {"evmtool", "--version", "Besu evm 24.10.0"},
	Eels:       {"ethereum-spec-evm", "--version", "ethereum-spec-evm 0.1.0"},
	Nethermind: {"nethtest", "--version", "nethtest 1.29.0+4f1e2fe5"},
	Nimbus:     {"t8n", "--version", "Nimbus-t8n 0.1.2\nCopyright (c) 2022-2024 Status Research & Development GmbH"},
}

// SupportedForks are the forks the fake tool claims to support.
var SupportedForks = t8n.Forks()[:len(t8n.Forks())-1]

const (
	envFlavor      = "T8N_FAKE_TOOL"
	envExitCode    = "T8N_FAKE_EXIT"
	envGarbage     = "T8N_FAKE_GARBAGE"
	envHTTPStatus  = "T8N_FAKE_STATUS"
	envDelay       = "T8N_FAKE_DELAY"
	envListenDelay = "T8N_FAKE_LISTEN_DELAY"
)

// failures are the injected misbehaviors of one fake tool instance.
type failures struct {
	exitCode    int
	garbage     bool
	httpStatus  int
	delay       time.Duration
	listenDelay time.Duration
}

func failuresFromEnv() failures {
	res := failures{garbage: os.Getenv(envGarbage) == "1"}
	res.exitCode, _ = strconv.Atoi(os.Getenv(envExitCode))
	res.httpStatus, _ = strconv.Atoi(os.Getenv(envHTTPStatus))
	res.delay, _ = time.ParseDuration(os.Getenv(envDelay))
	res.listenDelay, _ = time.ParseDuration(os.Getenv(envListenDelay))
	return res
}

// Main runs the fake tool and exits if the process has been started as one.
// Otherwise it returns and the caller proceeds with its tests.
func Main() {
	name := os.Getenv(envFlavor)
	if name == "" {
		return
	}
	os.Exit(Run(name, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes the fake tool with the given arguments and returns its exit
// code.
func Run(name string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flavor, found := flavors[name]
	if !found {
		fmt.Fprintf(stderr, "unknown flavor %q\n", name)
		return 1
	}
	if len(args) == 1 && args[0] == flavor.versionArg {
		fmt.Fprintln(stdout, flavor.banner)
		return 0
	}

	inv, err := parseArgs(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	inject := failuresFromEnv()
	switch {
	case inv.bools["help"] || inv.bools["h"]:
		printUsage(stdout)
		return 0
	case inv.command == "t8n" || inv.bools["runtransitiontest"] || (inv.command == "" && len(inv.flags) > 0):
		return runTransition(inv, inject, stdin, stdout, stderr)
	case inv.command == "t8n-server":
		return serveTCP(inv, inject, stdout, stderr)
	case inv.command == "daemon":
		return serveUnix(inv, inject, stdout, stderr)
	}
	fmt.Fprintf(stderr, "flag provided but not defined: %s\n", strings.Join(args, " "))
	return 2
}

func printUsage(out io.Writer) {
	names := make([]string, 0, len(SupportedForks))
	for _, fork := range SupportedForks {
		names = append(names, fork.String())
	}
	fmt.Fprintln(out, "NAME:\n   t8n - Executes a full state transition")
	fmt.Fprintf(out, "\nSupported forks: %s\n", strings.Join(names, ", "))
}

// valueFlags are all flags taking an argument, in normalized form.
var valueFlags = map[string]bool{
	"inputalloc":    true,
	"inputtxs":      true,
	"inputenv":      true,
	"outputbasedir": true,
	"outputalloc":   true,
	"outputresult":  true,
	"outputbody":    true,
	"statefork":     true,
	"statereward":   true,
	"statechainid":  true,
	"port":          true,
	"host":          true,
	"uds":           true,
}

type invocation struct {
	command string
	flags   map[string]string
	bools   map[string]bool
}

// normalize maps the flag spellings of all backends to one name, such that
// --input.alloc and --input-alloc are the same flag.
func normalize(name string) string {
	return strings.ToLower(strings.NewReplacer(".", "", "-", "", "_", "").Replace(name))
}

func parseArgs(args []string) (*invocation, error) {
	res := &invocation{flags: map[string]string{}, bools: map[string]bool{}}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			if res.command != "" {
				return nil, fmt.Errorf("unexpected argument %q", arg)
			}
			res.command = arg
			continue
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		key := normalize(name)
		if !valueFlags[key] {
			res.bools[key] = true
			continue
		}
		if !hasValue {
			if i+1 >= len(args) {
				return nil, fmt.Errorf("flag needs an argument: %s", arg)
			}
			i++
			value = args[i]
		}
		res.flags[key] = value
	}
	return res, nil
}

func (inv *invocation) get(key, fallback string) string {
	if value, found := inv.flags[key]; found {
		return value
	}
	return fallback
}

func runTransition(inv *invocation, inject failures, stdin io.Reader, stdout, stderr io.Writer) int {
	if inject.exitCode != 0 {
		fmt.Fprintln(stdout, "partial output")
		fmt.Fprintln(stderr, "fatal error: injected failure")
		return inject.exitCode
	}

	var input t8n.Input
	if inv.get("inputalloc", "") == "stdin" || inv.get("inputtxs", "") == "stdin" || inv.get("inputenv", "") == "stdin" {
		if err := json.NewDecoder(stdin).Decode(&input); err != nil {
			fmt.Fprintf(stderr, "failed unmarshalling stdin: %v\n", err)
			return 10
		}
	}
	for key, doc := range map[string]*json.RawMessage{"inputalloc": &input.Alloc, "inputtxs": &input.Txs, "inputenv": &input.Env} {
		path := inv.get(key, "")
		if path == "" || path == "stdin" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "failed reading %s: %v\n", key, err)
			return 11
		}
		*doc = data
	}

	reward, err := strconv.ParseInt(inv.get("statereward", "0"), 10, 64)
	if err != nil {
		fmt.Fprintf(stderr, "invalid reward: %v\n", err)
		return 3
	}
	transition, err := transit(input, inv.get("statefork", ""), reward)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 3
	}

	baseDir := inv.get("outputbasedir", ".")
	if inv.bools["trace"] {
		if err := writeTraces(baseDir, transition.Traces); err != nil {
			fmt.Fprintln(stderr, err)
			return 11
		}
	}

	collected := map[string]any{}
	outputs := []struct {
		key, name string
		value     any
	}{
		{"alloc", inv.get("outputalloc", "alloc.json"), transition.Alloc},
		{"result", inv.get("outputresult", "result.json"), transition.Result},
		{"body", inv.get("outputbody", ""), transition.Body},
	}
	for _, output := range outputs {
		data, err := json.Marshal(output.value)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 11
		}
		if inject.garbage {
			data = []byte("not json")
		}
		switch output.name {
		case "":
		case "stdout":
			collected[output.key] = json.RawMessage(data)
		case "stderr":
			fmt.Fprintf(stderr, "%s\n", data)
		default:
			path := output.name
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				fmt.Fprintln(stderr, err)
				return 11
			}
		}
	}
	if len(collected) > 0 {
		if inject.garbage {
			fmt.Fprintln(stdout, "not json")
			return 0
		}
		if err := json.NewEncoder(stdout).Encode(collected); err != nil {
			fmt.Fprintln(stderr, err)
			return 11
		}
	}
	return 0
}

// transit decodes the input documents and applies the transition.
func transit(input t8n.Input, forkName string, reward int64) (*Transition, error) {
	name, _, _ := strings.Cut(forkName, "+")
	fork, err := t8n.ParseFork(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported fork %q: %v", forkName, err)
	}
	supported := fork.IsTransition()
	for _, cur := range SupportedForks {
		supported = supported || cur == fork
	}
	if !supported {
		return nil, fmt.Errorf("unsupported fork %q", forkName)
	}

	alloc := t8n.Alloc{}
	txs := []t8n.Transaction{}
	env := t8n.Environment{}
	if err := decode(input.Alloc, &alloc); err != nil {
		return nil, fmt.Errorf("failed unmarshalling alloc: %v", err)
	}
	if err := decode(input.Txs, &txs); err != nil {
		return nil, fmt.Errorf("failed unmarshalling txs: %v", err)
	}
	if err := decode(input.Env, &env); err != nil {
		return nil, fmt.Errorf("failed unmarshalling env: %v", err)
	}
	return Apply(alloc, txs, &env, fork, reward)
}

func decode(data json.RawMessage, trg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, trg)
}

func writeTraces(dir string, traces []t8n.TransactionTrace) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, trace := range traces {
		var content []byte
		for _, line := range trace.Lines {
			content = append(content, line...)
			content = append(content, '\n')
		}
		if err := os.WriteFile(filepath.Join(dir, t8n.TraceFileName(trace.Index, trace.TxHash)), content, 0644); err != nil {
			return err
		}
	}
	return nil
}

func serveTCP(inv *invocation, inject failures, stdout, stderr io.Writer) int {
	listener, err := net.Listen("tcp", net.JoinHostPort(inv.get("host", "127.0.0.1"), inv.get("port", "0")))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintln(stdout, "Starting transition server")
	fmt.Fprintf(stdout, "Transition server listening on %d\n", listener.Addr().(*net.TCPAddr).Port)
	return serve(listener, inv, inject, stderr)
}

func serveUnix(inv *invocation, inject failures, stdout, stderr io.Writer) int {
	path := inv.get("uds", "")
	if path == "" {
		fmt.Fprintln(stderr, "missing --uds")
		return 2
	}
	time.Sleep(inject.listenDelay)
	listener, err := net.Listen("unix", path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "listening on %s\n", path)
	return serve(listener, inv, inject, stderr)
}

func serve(listener net.Listener, inv *invocation, inject failures, stderr io.Writer) int {
	traceDir := ""
	if inv.bools["trace"] {
		traceDir = inv.get("outputbasedir", "")
	}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(inject.delay)
		if inject.httpStatus != 0 {
			http.Error(w, "injected failure", inject.httpStatus)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var request t8n.ServerRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		transition, err := transit(request.Input, request.State.Fork.String(), request.State.Reward)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if traceDir != "" {
			if err := writeTraces(traceDir, transition.Traces); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
		}
		if inject.garbage {
			fmt.Fprint(w, "not json")
			return
		}
		body, _ := json.Marshal(transition.Body)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(t8n.Output{Alloc: transition.Alloc, Result: transition.Result, Body: body})
	})
	if err := http.Serve(listener, handler); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
