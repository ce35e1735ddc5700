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

	"github.com/Fantom-foundation/t8n/go/exception"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// Alloc is the allocation of accounts making up a pre- or post-state.
type Alloc = types.GenesisAlloc

// Environment summarizes the block a transition is applied in, using the
// field names and encodings understood by t8n tools.
type Environment struct {
	Coinbase              common.Address                      `json:"currentCoinbase"`
	Difficulty            *math.HexOrDecimal256               `json:"currentDifficulty,omitempty"`
	Random                *common.Hash                        `json:"currentRandom,omitempty"`
	GasLimit              math.HexOrDecimal64                 `json:"currentGasLimit"`
	Number                math.HexOrDecimal64                 `json:"currentNumber"`
	Timestamp             math.HexOrDecimal64                 `json:"currentTimestamp"`
	BaseFee               *math.HexOrDecimal256               `json:"currentBaseFee,omitempty"`
	ExcessBlobGas         *math.HexOrDecimal64                `json:"currentExcessBlobGas,omitempty"`
	ParentDifficulty      *math.HexOrDecimal256               `json:"parentDifficulty,omitempty"`
	ParentTimestamp       math.HexOrDecimal64                 `json:"parentTimestamp,omitempty"`
	ParentBaseFee         *math.HexOrDecimal256               `json:"parentBaseFee,omitempty"`
	ParentGasUsed         math.HexOrDecimal64                 `json:"parentGasUsed,omitempty"`
	ParentGasLimit        math.HexOrDecimal64                 `json:"parentGasLimit,omitempty"`
	ParentUncleHash       *common.Hash                        `json:"parentUncleHash,omitempty"`
	ParentExcessBlobGas   *math.HexOrDecimal64                `json:"parentExcessBlobGas,omitempty"`
	ParentBlobGasUsed     *math.HexOrDecimal64                `json:"parentBlobGasUsed,omitempty"`
	ParentBeaconBlockRoot *common.Hash                        `json:"parentBeaconBlockRoot,omitempty"`
	BlockHashes           map[math.HexOrDecimal64]common.Hash `json:"blockHashes,omitempty"`
	Ommers                []Ommer                             `json:"ommers,omitempty"`
	Withdrawals           []*types.Withdrawal                 `json:"withdrawals,omitempty"`
}

// Ommer is an uncle block referenced by the environment.
type Ommer struct {
	Delta   uint64         `json:"delta"`
	Address common.Address `json:"address"`
}

// Transaction is the t8n input form of a transaction. Unsigned transactions
// carry a secret key the backend signs with.
type Transaction struct {
	Type                 math.HexOrDecimal64   `json:"type"`
	ChainID              *math.HexOrDecimal256 `json:"chainId,omitempty"`
	Nonce                math.HexOrDecimal64   `json:"nonce"`
	GasPrice             *math.HexOrDecimal256 `json:"gasPrice,omitempty"`
	MaxPriorityFeePerGas *math.HexOrDecimal256 `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas         *math.HexOrDecimal256 `json:"maxFeePerGas,omitempty"`
	Gas                  math.HexOrDecimal64   `json:"gas"`
	To                   *common.Address       `json:"to"`
	Value                *math.HexOrDecimal256 `json:"value"`
	Input                hexutil.Bytes         `json:"input"`
	AccessList           types.AccessList      `json:"accessList,omitempty"`
	MaxFeePerBlobGas     *math.HexOrDecimal256 `json:"maxFeePerBlobGas,omitempty"`
	BlobVersionedHashes  []common.Hash         `json:"blobVersionedHashes,omitempty"`
	AuthorizationList    []Authorization       `json:"authorizationList,omitempty"`
	V                    *math.HexOrDecimal256 `json:"v,omitempty"`
	R                    *math.HexOrDecimal256 `json:"r,omitempty"`
	S                    *math.HexOrDecimal256 `json:"s,omitempty"`
	SecretKey            *common.Hash          `json:"secretKey,omitempty"`
	Sender               *common.Address       `json:"sender,omitempty"`
}

// Authorization is one entry of a set-code (type 4) transaction.
type Authorization struct {
	ChainID *math.HexOrDecimal256 `json:"chainId"`
	Address common.Address        `json:"address"`
	Nonce   math.HexOrDecimal64   `json:"nonce"`
	V       *math.HexOrDecimal256 `json:"v"`
	R       *math.HexOrDecimal256 `json:"r"`
	S       *math.HexOrDecimal256 `json:"s"`
	Signer  *common.Address       `json:"signer,omitempty"`
}

// BlobParams are the blob gas parameters of a single fork.
type BlobParams struct {
	Target                math.HexOrDecimal64 `json:"target"`
	Max                   math.HexOrDecimal64 `json:"max"`
	BaseFeeUpdateFraction math.HexOrDecimal64 `json:"baseFeeUpdateFraction"`
}

// BlobSchedule lists blob parameters per fork name.
type BlobSchedule map[string]BlobParams

// Response is the decoded outcome of a single transition call.
type Response struct {
	Alloc  Alloc         `json:"alloc"`
	Result *Result       `json:"result"`
	Body   hexutil.Bytes `json:"body,omitempty"`
}

// Result is the execution summary produced by a backend.
type Result struct {
	StateRoot       common.Hash           `json:"stateRoot"`
	TxRoot          common.Hash           `json:"txRoot"`
	ReceiptsRoot    common.Hash           `json:"receiptsRoot"`
	LogsHash        common.Hash           `json:"logsHash"`
	LogsBloom       hexutil.Bytes         `json:"logsBloom"`
	Receipts        []Receipt             `json:"receipts"`
	Rejected        []Rejection           `json:"rejected,omitempty"`
	Difficulty      *math.HexOrDecimal256 `json:"currentDifficulty,omitempty"`
	GasUsed         math.HexOrDecimal64   `json:"gasUsed"`
	BaseFee         *math.HexOrDecimal256 `json:"currentBaseFee,omitempty"`
	WithdrawalsRoot *common.Hash          `json:"withdrawalsRoot,omitempty"`
	ExcessBlobGas   *math.HexOrDecimal64  `json:"currentExcessBlobGas,omitempty"`
	BlobGasUsed     *math.HexOrDecimal64  `json:"blobGasUsed,omitempty"`
	RequestsHash    *common.Hash          `json:"requestsHash,omitempty"`
	Requests        []hexutil.Bytes       `json:"requests,omitempty"`
}

// Receipt summarizes the execution of a single included transaction.
type Receipt struct {
	Type              math.HexOrDecimal64   `json:"type,omitempty"`
	Root              hexutil.Bytes         `json:"root,omitempty"`
	Status            math.HexOrDecimal64   `json:"status"`
	CumulativeGasUsed math.HexOrDecimal64   `json:"cumulativeGasUsed"`
	LogsBloom         hexutil.Bytes         `json:"logsBloom"`
	Logs              []Log                 `json:"logs"`
	TxHash            common.Hash           `json:"transactionHash"`
	ContractAddress   *common.Address       `json:"contractAddress,omitempty"`
	GasUsed           math.HexOrDecimal64   `json:"gasUsed"`
	EffectiveGasPrice *math.HexOrDecimal256 `json:"effectiveGasPrice,omitempty"`
	BlobGasUsed       *math.HexOrDecimal64  `json:"blobGasUsed,omitempty"`
	BlockHash         common.Hash           `json:"blockHash"`
	TransactionIndex  math.HexOrDecimal64   `json:"transactionIndex"`
}

// Succeeded is true if the transaction was executed without a revert.
func (r *Receipt) Succeeded() bool {
	return r.Status == math.HexOrDecimal64(types.ReceiptStatusSuccessful)
}

// Log is an event emitted during the execution of a transaction.
type Log struct {
	Address     common.Address      `json:"address"`
	Topics      []common.Hash       `json:"topics"`
	Data        hexutil.Bytes       `json:"data"`
	BlockNumber math.HexOrDecimal64 `json:"blockNumber"`
	TxHash      common.Hash         `json:"transactionHash"`
	TxIndex     math.HexOrDecimal64 `json:"transactionIndex"`
	BlockHash   common.Hash         `json:"blockHash"`
	Index       math.HexOrDecimal64 `json:"logIndex"`
	Removed     bool                `json:"removed"`
}

// Rejection is a transaction the backend refused to include. Error is the
// raw text reported by the backend, Exception its canonical interpretation
// filled in by the executor.
type Rejection struct {
	Index     int              `json:"index"`
	Error     string           `json:"error"`
	Exception exception.Result `json:"-"`
}

// Validate checks that a decoded response is complete. Responses failing
// this check are never handed to callers.
func (r *Response) Validate() error {
	if r.Result == nil {
		return fmt.Errorf("%w: missing result", ErrMalformedResponse)
	}
	if r.Alloc == nil {
		return fmt.Errorf("%w: missing alloc", ErrMalformedResponse)
	}
	for _, rejected := range r.Result.Rejected {
		if rejected.Index < 0 {
			return fmt.Errorf("%w: negative rejected transaction index %d", ErrMalformedResponse, rejected.Index)
		}
	}
	return nil
}

// BalanceOf returns the balance of the given account in the post-state.
// Absent accounts have a zero balance.
func (r *Response) BalanceOf(addr common.Address) *uint256.Int {
	account, found := r.Alloc[addr]
	if !found || account.Balance == nil {
		return new(uint256.Int)
	}
	res, overflow := uint256.FromBig(account.Balance)
	if overflow {
		panic(fmt.Sprintf("balance of %v exceeds 256 bits", addr))
	}
	return res
}

// RejectedAt returns the rejection recorded for the transaction with the
// given index, if any.
func (r *Response) RejectedAt(index int) (Rejection, bool) {
	if r.Result == nil {
		return Rejection{}, false
	}
	for _, rejected := range r.Result.Rejected {
		if rejected.Index == index {
			return rejected, true
		}
	}
	return Rejection{}, false
}
