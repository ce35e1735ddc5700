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
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"

	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/sethvargo/go-retry"
)

// ServerOptions configure a server transport.
type ServerOptions struct {
	Options
	Launch   Launch
	Timeouts Timeouts
	Retry    RetryPolicy
}

// worker is the part of a Worker used by the server transport.
type worker interface {
	Start(ctx context.Context) error
	Endpoint() string
	Socket() string
	TraceDir() string
	Exited() error
	Close() error
}

type httpClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Server sends transition calls as HTTP requests to a persistent server
// process, which is started lazily by the first call.
type Server struct {
	opts      ServerOptions
	worker    worker
	client    httpClient
	transport *http.Transport
}

func NewServer(opts ServerOptions) *Server {
	return &Server{
		opts:   opts,
		worker: NewWorker(opts.Options, opts.Launch),
	}
}

// Endpoint is the base URL of the server, empty if it is not running.
func (s *Server) Endpoint() string {
	return s.worker.Endpoint()
}

func (s *Server) Start(ctx context.Context) error {
	if err := s.worker.Start(ctx); err != nil {
		return err
	}
	if s.client == nil {
		s.transport = http.DefaultTransport.(*http.Transport).Clone()
		if socket := s.worker.Socket(); socket != "" {
			var dialer net.Dialer
			s.transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
				return dialer.DialContext(ctx, "unix", socket)
			}
		}
		s.client = &http.Client{Transport: s.transport}
	}
	return nil
}

func (s *Server) Execute(ctx context.Context, call Call) (*Outcome, error) {
	if err := s.Start(ctx); err != nil {
		return nil, err
	}

	request := call.Request.ServerRequest()
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	url := s.worker.Endpoint()
	call.Debug.WriteInput(allocFile, request.Input.Alloc)
	call.Debug.WriteInput(envFile, request.Input.Env)
	call.Debug.WriteInput(txsFile, request.Input.Txs)
	if call.Debug != nil {
		pretty, _ := json.MarshalIndent(request, "", "  ")
		call.Debug.WriteRequestInfo(fmt.Sprintf("POST %s\nContent-Type: application/json\n\n%s\n", url, pretty))
	}

	if timeout := s.opts.Timeouts.For(call.Slow); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	status, data, err := s.post(ctx, url, body)
	if err != nil {
		return nil, err
	}
	call.Debug.WriteResponseInfo(fmt.Sprintf("%d %s\n\n%s\n", status, http.StatusText(status), data))
	if status < 200 || status >= 300 {
		return nil, &t8n.HTTPError{URL: url, StatusCode: status, Body: string(data)}
	}
	response, err := t8n.DecodeOutput(data)
	if err != nil {
		return nil, err
	}
	writeOutputs(call, response)

	res := &Outcome{Response: response}
	if dir := s.worker.TraceDir(); s.opts.Trace && dir != "" {
		if res.Traces, err = t8n.ReadTraces(dir); err != nil {
			return nil, err
		}
		if err := clearDir(dir); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// post sends the request body, retrying while the server refuses
// connections. Any response, whatever its status, ends the retries, and so
// does the termination of the server process.
func (s *Server) post(ctx context.Context, url string, body []byte) (int, []byte, error) {
	var (
		attempts int
		refused  error
		status   int
		data     []byte
	)
	err := retry.Do(ctx, s.opts.Retry.backoff(), func(ctx context.Context) error {
		// A server that died while starting up never opens its endpoint.
		if err := s.worker.Exited(); err != nil {
			return err
		}
		attempts++
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := s.client.Do(req)
		if err != nil {
			if isConnectionRefused(err) {
				refused = err
				s.opts.logger().Debug("Transition server not reachable yet", "endpoint", url, "attempt", attempts, "err", err)
				return retry.RetryableError(err)
			}
			return fmt.Errorf("request to transition server %s failed: %w", url, err)
		}
		defer resp.Body.Close()
		if data, err = io.ReadAll(resp.Body); err != nil {
			return fmt.Errorf("failed to read response of %s: %w", url, err)
		}
		status = resp.StatusCode
		return nil
	})
	if err != nil {
		if exitErr := s.worker.Exited(); exitErr != nil {
			return 0, nil, exitErr
		}
		if refused != nil && isConnectionRefused(err) {
			return 0, nil, &t8n.ConnectionError{Endpoint: url, Attempts: attempts, Cause: refused}
		}
		return 0, nil, err
	}
	return status, data, nil
}

func (s *Server) Close() error {
	if s.transport != nil {
		s.transport.CloseIdleConnections()
	}
	return s.worker.Close()
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
