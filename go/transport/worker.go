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
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/crypto/sha3"
)

const (
	defaultStartupTimeout = 30 * time.Second
	maxCapturedOutput     = 64 * 1024
)

// Launch describes how a server backend is started.
type Launch struct {
	// Args start the server, e.g. "t8n-server --port=0".
	Args []string
	// SocketFlag, if set, makes the server listen on a unix socket whose
	// path is passed as the flag's value.
	SocketFlag string
	// ListenPattern locates the endpoint in the output of servers listening
	// on TCP. Its first group is a port or a host:port address.
	ListenPattern *regexp.Regexp
	// StartupTimeout bounds the wait for the endpoint to be reported.
	StartupTimeout time.Duration
}

// Worker owns a single server process. The process is started by the first
// call to Start and lives until Close is called.
type Worker struct {
	opts   Options
	launch Launch

	mu       sync.Mutex
	cmd      *exec.Cmd
	exited   chan struct{}
	waitErr  error
	stdout   *listenScanner
	stderr   *boundedBuffer
	endpoint string
	socket   string
	traceDir string
	closed   bool
}

func NewWorker(opts Options, launch Launch) *Worker {
	return &Worker{opts: opts, launch: launch}
}

// Start launches the server process if it is not running yet. It returns
// once the endpoint is known; servers on unix sockets may accept
// connections only a little later.
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return t8n.ErrShutdown
	}
	if w.cmd != nil {
		select {
		case <-w.exited:
			return w.exitError()
		default:
			return nil
		}
	}
	if err := w.spawn(ctx); err != nil {
		w.opts.logger().Warn("Failed to start transition server", "binary", w.opts.Binary, "err", err)
		if cleanupErr := w.teardown(); cleanupErr != nil {
			return multierror.Append(err, cleanupErr)
		}
		return err
	}
	return nil
}

func (w *Worker) spawn(ctx context.Context) error {
	args := append([]string{}, w.launch.Args...)
	if w.opts.Trace {
		dir, err := os.MkdirTemp("", "t8n-trace-")
		if err != nil {
			return fmt.Errorf("failed to create trace directory: %w", err)
		}
		w.traceDir = dir
		args = appendFlag(args, w.opts.Flags.OutputBaseDir, dir)
		args = append(args, w.opts.Flags.Trace...)
	}
	if w.launch.SocketFlag != "" {
		w.socket = newSocketPath(w.opts.Binary)
		if err := os.Remove(w.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
		args = append(args, w.launch.SocketFlag, w.socket)
		w.endpoint = "http://localhost/"
	}

	w.stdout = newListenScanner(w.launch.ListenPattern)
	w.stderr = &boundedBuffer{}
	cmd := exec.Command(w.opts.Binary, args...)
	cmd.Stdout = w.stdout
	cmd.Stderr = w.stderr
	w.opts.logger().Info("Starting transition server", "binary", w.opts.Binary, "args", args)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", w.opts.Binary, err)
	}
	w.cmd = cmd
	w.exited = make(chan struct{})
	go func(exited chan<- struct{}) {
		w.waitErr = cmd.Wait()
		close(exited)
	}(w.exited)

	if w.socket != "" {
		return nil
	}
	if w.launch.ListenPattern == nil {
		return fmt.Errorf("no way to discover the endpoint of %s", w.opts.Binary)
	}
	timeout := w.launch.StartupTimeout
	if timeout <= 0 {
		timeout = defaultStartupTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case address := <-w.stdout.found:
		w.endpoint = toURL(address)
		w.opts.logger().Debug("Transition server is listening", "endpoint", w.endpoint, "pid", cmd.Process.Pid)
		return nil
	case <-w.exited:
		return w.exitError()
	case <-timer.C:
		return fmt.Errorf("%s did not report its endpoint within %v", w.opts.Binary, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// exitError describes a server process that terminated on its own. Must
// only be called after the process exited.
func (w *Worker) exitError() error {
	res := &t8n.ToolError{
		Binary:   w.opts.Binary,
		Args:     w.cmd.Args[1:],
		ExitCode: w.cmd.ProcessState.ExitCode(),
		Stdout:   w.stdout.String(),
		Stderr:   w.stderr.String(),
	}
	if w.waitErr != nil {
		res.Stderr += "\n" + w.waitErr.Error()
	}
	return res
}

// Exited returns the failure of a server process that terminated on its
// own, and nil while it is running or if it was never started.
func (w *Worker) Exited() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cmd == nil {
		return nil
	}
	select {
	case <-w.exited:
		return w.exitError()
	default:
		return nil
	}
}

// Endpoint is the base URL of the server, empty before Start.
func (w *Worker) Endpoint() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.endpoint
}

// Socket is the unix socket path of the server, if it uses one.
func (w *Worker) Socket() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.socket
}

// TraceDir is the directory the server writes traces to, if tracing is
// enabled.
func (w *Worker) TraceDir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.traceDir
}

// Pid is the process id of the running server, or 0.
func (w *Worker) Pid() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cmd == nil || w.cmd.Process == nil {
		return 0
	}
	return w.cmd.Process.Pid
}

// Close terminates the server process and removes its socket and trace
// directory. Processes that already exited and resources already removed
// are tolerated. Only the first call has an effect.
func (w *Worker) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.teardown()
}

func (w *Worker) teardown() error {
	var errs *multierror.Error
	if w.cmd != nil {
		select {
		case <-w.exited:
		default:
			if err := w.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
				errs = multierror.Append(errs, fmt.Errorf("failed to kill transition server: %w", err))
			}
			<-w.exited
		}
		w.cmd = nil
	}
	if w.socket != "" {
		if err := os.Remove(w.socket); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = multierror.Append(errs, fmt.Errorf("failed to remove socket: %w", err))
		}
		w.socket = ""
	}
	if w.traceDir != "" {
		if err := os.RemoveAll(w.traceDir); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("failed to remove trace directory: %w", err))
		}
		w.traceDir = ""
	}
	w.endpoint = ""
	return errs.ErrorOrNil()
}

var socketCounter atomic.Uint64

// newSocketPath derives a short, unique socket path. Socket paths are
// limited to about 100 bytes, so the temporary directory is used directly
// and the name is a hash.
func newSocketPath(binary string) string {
	seed := fmt.Sprintf("%s/%d/%d/%d", binary, os.Getpid(), socketCounter.Add(1), time.Now().UnixNano())
	hash := sha3.Sum256([]byte(seed))
	return filepath.Join(os.TempDir(), fmt.Sprintf("t8n-%x.sock", hash[:8]))
}

func toURL(address string) string {
	switch {
	case strings.Contains(address, "://"):
		return strings.TrimSuffix(address, "/") + "/"
	case !strings.Contains(address, ":"):
		return "http://127.0.0.1:" + address + "/"
	}
	return "http://" + address + "/"
}

// listenScanner consumes the standard output of a server and reports the
// first line matching the listen pattern.
type listenScanner struct {
	pattern *regexp.Regexp
	found   chan string

	mu       sync.Mutex
	pending  []byte
	captured boundedBuffer
	reported bool
}

func newListenScanner(pattern *regexp.Regexp) *listenScanner {
	return &listenScanner{pattern: pattern, found: make(chan string, 1)}
}

func (s *listenScanner) Write(data []byte) (int, error) {
	s.captured.Write(data)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reported || s.pattern == nil {
		return len(data), nil
	}
	s.pending = append(s.pending, data...)
	for {
		end := bytes.IndexByte(s.pending, '\n')
		if end < 0 {
			break
		}
		line := string(s.pending[:end])
		s.pending = s.pending[end+1:]
		if match := s.pattern.FindStringSubmatch(line); len(match) > 1 {
			s.reported = true
			s.pending = nil
			s.found <- match[1]
			break
		}
	}
	return len(data), nil
}

func (s *listenScanner) String() string {
	return s.captured.String()
}

// boundedBuffer keeps the first bytes written to it, safe for concurrent
// use.
type boundedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *boundedBuffer) Write(data []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if room := maxCapturedOutput - b.buf.Len(); room > 0 {
		b.buf.Write(data[:min(room, len(data))])
	}
	return len(data), nil
}

func (b *boundedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
