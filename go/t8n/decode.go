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

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// DecodeOutput parses a combined output document into a validated Response.
func DecodeOutput(data []byte) (*Response, error) {
	var output Output
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	body, err := DecodeBody(output.Body)
	if err != nil {
		return nil, err
	}
	res := &Response{
		Alloc:  output.Alloc,
		Result: output.Result,
		Body:   body,
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// DecodeDocuments assembles a validated Response from separately produced
// alloc, result, and body documents. The body is optional.
func DecodeDocuments(alloc, result, body []byte) (*Response, error) {
	res := &Response{}
	if err := json.Unmarshal(alloc, &res.Alloc); err != nil {
		return nil, fmt.Errorf("%w: invalid alloc: %v", ErrMalformedResponse, err)
	}
	if err := json.Unmarshal(result, &res.Result); err != nil {
		return nil, fmt.Errorf("%w: invalid result: %v", ErrMalformedResponse, err)
	}
	var err error
	if res.Body, err = DecodeBody(body); err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return res, nil
}

// DecodeBody decodes the raw transaction body. Backends emit it either as a
// JSON string or as a bare hex string; an absent body decodes to nil.
func DecodeBody(data []byte) (hexutil.Bytes, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '"' {
		data = []byte(fmt.Sprintf("%q", data))
	}
	var res hexutil.Bytes
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: invalid body: %v", ErrMalformedResponse, err)
	}
	return res, nil
}
