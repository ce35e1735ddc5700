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
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

const (
	testAlloc  = `{"0x0000000000000000000000000000000000000001":{"balance":"0x10"}}`
	testResult = `{
		"stateRoot":"0x1111111111111111111111111111111111111111111111111111111111111111",
		"receipts":[{"status":"0x1","cumulativeGasUsed":"0x5208","gasUsed":"0x5208","logs":null,"logsBloom":"0x"}],
		"rejected":[{"index":1,"error":"nonce too low"}],
		"gasUsed":"0x5208"
	}`
)

func TestDecodeOutput_DecodesCompleteOutput(t *testing.T) {
	output := `{"alloc":` + testAlloc + `,"result":` + testResult + `,"body":"0xc0"}`
	response, err := DecodeOutput([]byte(output))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := response.BalanceOf(common.Address{19: 1}), uint256.NewInt(16); !got.Eq(want) {
		t.Errorf("unexpected balance, wanted %v, got %v", want, got)
	}
	if got := response.BalanceOf(common.Address{19: 2}); !got.IsZero() {
		t.Errorf("absent accounts should have a zero balance, got %v", got)
	}
	if got := uint64(response.Result.GasUsed); got != 21000 {
		t.Errorf("unexpected gas used %d", got)
	}
	if len(response.Result.Receipts) != 1 || !response.Result.Receipts[0].Succeeded() {
		t.Errorf("unexpected receipts %v", response.Result.Receipts)
	}
	rejected, found := response.RejectedAt(1)
	if !found || rejected.Error != "nonce too low" {
		t.Errorf("unexpected rejection %v", rejected)
	}
	if _, found := response.RejectedAt(0); found {
		t.Errorf("transaction 0 should not be rejected")
	}
	if !bytes.Equal(response.Body, []byte{0xc0}) {
		t.Errorf("unexpected body %x", response.Body)
	}
}

func TestDecodeOutput_RejectsIncompleteOrInvalidOutput(t *testing.T) {
	inputs := map[string]string{
		"not json":          `this is not json`,
		"missing result":    `{"alloc":` + testAlloc + `}`,
		"missing alloc":     `{"result":` + testResult + `}`,
		"invalid body":      `{"alloc":` + testAlloc + `,"result":` + testResult + `,"body":"0xzz"}`,
		"negative index":    `{"alloc":{},"result":{"rejected":[{"index":-1,"error":"x"}]}}`,
		"truncated":         `{"alloc":` + testAlloc + `,"result":{"stateRoot"`,
		"wrong result type": `{"alloc":{},"result":[]}`,
	}
	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			response, err := DecodeOutput([]byte(input))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("expected malformed response error, got %v", err)
			}
			if response != nil {
				t.Errorf("no partial response must be returned")
			}
		})
	}
}

func TestDecodeDocuments_DecodesSeparateDocuments(t *testing.T) {
	response, err := DecodeDocuments([]byte(testAlloc), []byte(testResult), []byte("\"0xc0\"\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(response.Alloc) != 1 || response.Result == nil || len(response.Body) != 1 {
		t.Errorf("unexpected response %v", response)
	}

	if _, err := DecodeDocuments([]byte(testAlloc), []byte("null"), nil); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected malformed response error, got %v", err)
	}
	if _, err := DecodeDocuments(nil, []byte(testResult), nil); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected malformed response error, got %v", err)
	}
}

func TestDecodeBody_AcceptsQuotedAndBareHex(t *testing.T) {
	tests := map[string][]byte{
		`"0xc0"`:     {0xc0},
		"0xc0":       {0xc0},
		" 0xc001 \n": {0xc0, 0x01},
		"":           nil,
		"null":       nil,
		`"0x"`:       {},
	}
	for input, want := range tests {
		got, err := DecodeBody([]byte(input))
		if err != nil {
			t.Errorf("unexpected error for %q: %v", input, err)
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("unexpected body for %q, wanted %x, got %x", input, want, got)
		}
	}
}

func TestDecodeBody_RejectsInvalidHex(t *testing.T) {
	for _, input := range []string{"c0", "0xc", `"nothex"`, "42"} {
		if _, err := DecodeBody([]byte(input)); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("expected malformed response error for %q, got %v", input, err)
		}
	}
}
