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
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
)

// NoReward disables the block reward of a transition.
const NoReward int64 = -1

// RequestParams lists the inputs of a transition call. It is the mutable
// form used to build a Request.
type RequestParams struct {
	Alloc        Alloc
	Txs          []Transaction
	Env          Environment
	Fork         Fork
	ChainID      uint64
	Reward       int64
	BlobSchedule BlobSchedule
	ExtraEIPs    []int
}

// Request is an immutable transition request. The alloc, transaction, and
// environment documents are encoded once at construction; accessors always
// hand out fresh copies.
type Request struct {
	alloc        json.RawMessage
	txs          json.RawMessage
	env          json.RawMessage
	fork         Fork
	chainID      uint64
	reward       int64
	blobSchedule BlobSchedule
	extraEIPs    []int
}

// NewRequest validates the given parameters and freezes them into a Request.
func NewRequest(params RequestParams) (*Request, error) {
	if params.Fork == "" {
		return nil, fmt.Errorf("invalid request: no fork specified")
	}
	if params.Reward < NoReward {
		return nil, fmt.Errorf("invalid request: negative block reward %d", params.Reward)
	}
	alloc := params.Alloc
	if alloc == nil {
		alloc = Alloc{}
	}
	txs := params.Txs
	if txs == nil {
		txs = []Transaction{}
	}
	res := &Request{
		fork:      params.Fork,
		chainID:   params.ChainID,
		reward:    params.Reward,
		extraEIPs: slices.Clone(params.ExtraEIPs),
	}
	var err error
	if res.alloc, err = json.Marshal(alloc); err != nil {
		return nil, fmt.Errorf("invalid request: failed to encode alloc: %w", err)
	}
	if res.txs, err = json.Marshal(txs); err != nil {
		return nil, fmt.Errorf("invalid request: failed to encode transactions: %w", err)
	}
	if res.env, err = json.Marshal(params.Env); err != nil {
		return nil, fmt.Errorf("invalid request: failed to encode environment: %w", err)
	}
	if params.BlobSchedule != nil {
		res.blobSchedule = make(BlobSchedule, len(params.BlobSchedule))
		for fork, blobParams := range params.BlobSchedule {
			res.blobSchedule[fork] = blobParams
		}
	}
	return res, nil
}

// MustNewRequest is like NewRequest but panics on invalid parameters. It is
// intended for tests and static request definitions.
func MustNewRequest(params RequestParams) *Request {
	res, err := NewRequest(params)
	if err != nil {
		panic(err)
	}
	return res
}

func (r *Request) Fork() Fork {
	return r.fork
}

func (r *Request) ChainID() uint64 {
	return r.chainID
}

func (r *Request) Reward() int64 {
	return r.reward
}

func (r *Request) ExtraEIPs() []int {
	return slices.Clone(r.extraEIPs)
}

func (r *Request) BlobSchedule() BlobSchedule {
	if r.blobSchedule == nil {
		return nil
	}
	res := make(BlobSchedule, len(r.blobSchedule))
	for fork, params := range r.blobSchedule {
		res[fork] = params
	}
	return res
}

// AllocJSON returns the encoded pre-state allocation.
func (r *Request) AllocJSON() json.RawMessage {
	return bytes.Clone(r.alloc)
}

// TxsJSON returns the encoded transaction list.
func (r *Request) TxsJSON() json.RawMessage {
	return bytes.Clone(r.txs)
}

// EnvJSON returns the encoded block environment.
func (r *Request) EnvJSON() json.RawMessage {
	return bytes.Clone(r.env)
}

// Params decodes a fresh, mutable copy of the request parameters.
func (r *Request) Params() (RequestParams, error) {
	res := RequestParams{
		Fork:         r.fork,
		ChainID:      r.chainID,
		Reward:       r.reward,
		BlobSchedule: r.BlobSchedule(),
		ExtraEIPs:    r.ExtraEIPs(),
	}
	if err := json.Unmarshal(r.alloc, &res.Alloc); err != nil {
		return RequestParams{}, err
	}
	if err := json.Unmarshal(r.txs, &res.Txs); err != nil {
		return RequestParams{}, err
	}
	if err := json.Unmarshal(r.env, &res.Env); err != nil {
		return RequestParams{}, err
	}
	return res, nil
}

// NumTransactions returns the number of transactions in the request.
func (r *Request) NumTransactions() int {
	var txs []json.RawMessage
	if err := json.Unmarshal(r.txs, &txs); err != nil {
		return 0
	}
	return len(txs)
}

// EnvWithBlobSchedule returns the environment document extended by the blob
// schedule, for backends reading the schedule from the environment.
func (r *Request) EnvWithBlobSchedule() (json.RawMessage, error) {
	if len(r.blobSchedule) == 0 {
		return r.EnvJSON(), nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(r.env, &env); err != nil {
		return nil, err
	}
	schedule, err := json.Marshal(r.blobSchedule)
	if err != nil {
		return nil, err
	}
	env["blobSchedule"] = schedule
	return json.Marshal(env)
}

// ServerRequest is the body POSTed to a transition server.
type ServerRequest struct {
	State ServerState `json:"state"`
	Input Input       `json:"input"`
}

// ServerState carries the rule-set parameters of a server request. Chain id
// and reward are plain decimal JSON numbers, as servers pass them on to
// integer command line flags.
type ServerState struct {
	Fork         Fork         `json:"fork"`
	ChainID      uint64       `json:"chainid"`
	Reward       int64        `json:"reward"`
	BlobSchedule BlobSchedule `json:"blobSchedule,omitempty"`
	ExtraEIPs    []int        `json:"eips,omitempty"`
}

// Input bundles the three input documents. It is the stdin document of the
// stream transport and the input section of server requests.
type Input struct {
	Alloc json.RawMessage `json:"alloc"`
	Txs   json.RawMessage `json:"txs"`
	Env   json.RawMessage `json:"env"`
}

// Input returns the three input documents of this request.
func (r *Request) Input() Input {
	return Input{Alloc: r.AllocJSON(), Txs: r.TxsJSON(), Env: r.EnvJSON()}
}

// ServerRequest returns the request in the shape expected by servers.
func (r *Request) ServerRequest() ServerRequest {
	return ServerRequest{
		State: ServerState{
			Fork:         r.fork,
			ChainID:      r.chainID,
			Reward:       r.reward,
			BlobSchedule: r.BlobSchedule(),
			ExtraEIPs:    r.ExtraEIPs(),
		},
		Input: r.Input(),
	}
}

// MarshalJSON encodes the request in the server request format.
func (r *Request) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ServerRequest())
}

// UnmarshalJSON decodes a request in the server request format. The decoded
// documents are validated and re-encoded to obtain canonical documents.
func (r *Request) UnmarshalJSON(data []byte) error {
	var wire ServerRequest
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	params := RequestParams{
		Fork:         wire.State.Fork,
		ChainID:      wire.State.ChainID,
		Reward:       wire.State.Reward,
		BlobSchedule: wire.State.BlobSchedule,
		ExtraEIPs:    wire.State.ExtraEIPs,
	}
	if err := decodeDocument(wire.Input.Alloc, &params.Alloc); err != nil {
		return fmt.Errorf("invalid alloc: %w", err)
	}
	if err := decodeDocument(wire.Input.Txs, &params.Txs); err != nil {
		return fmt.Errorf("invalid transactions: %w", err)
	}
	if err := decodeDocument(wire.Input.Env, &params.Env); err != nil {
		return fmt.Errorf("invalid environment: %w", err)
	}
	req, err := NewRequest(params)
	if err != nil {
		return err
	}
	*r = *req
	return nil
}

func decodeDocument(data json.RawMessage, trg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, trg)
}

// Output is the combined output document written to stdout by backends in
// stream mode and returned by transition servers.
type Output struct {
	Alloc  Alloc           `json:"alloc"`
	Result *Result         `json:"result"`
	Body   json.RawMessage `json:"body,omitempty"`
}
