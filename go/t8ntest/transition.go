// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package t8ntest

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

const (
	txGas                 = 21000
	txGasContractCreation = 53000
	txDataZeroGas         = 4
	txDataNonZeroGas      = 16
	gweiInWei             = 1_000_000_000
)

// Transition is the outcome of applying a block to a pre-state.
type Transition struct {
	Alloc  t8n.Alloc
	Result *t8n.Result
	Body   hexutil.Bytes
	Traces []t8n.TransactionTrace
}

// Apply executes value transfers the way a minimal t8n tool would. No code
// is executed; contract creations only create the account. Invalid
// transactions are rejected with the wording used by geth.
func Apply(alloc t8n.Alloc, txs []t8n.Transaction, env *t8n.Environment, fork t8n.Fork, reward int64) (*Transition, error) {
	state := newState(alloc)
	result := &t8n.Result{
		LogsHash:   types.EmptyUncleHash,
		LogsBloom:  make(hexutil.Bytes, types.BloomByteLength),
		Receipts:   []t8n.Receipt{},
		Difficulty: env.Difficulty,
		BaseFee:    env.BaseFee,
	}
	var baseFee *uint256.Int
	if env.BaseFee != nil && fork.AtLeast(t8n.London) {
		baseFee = uint256.MustFromBig((*big.Int)(env.BaseFee))
	}

	res := &Transition{Result: result}
	var included []common.Hash
	gasPool := uint64(env.GasLimit)
	for i := range txs {
		tx := &txs[i]
		hash, err := hashJSON(tx)
		if err != nil {
			return nil, err
		}
		gasUsed, err := state.apply(tx, env.Coinbase, baseFee, gasPool)
		if err != nil {
			result.Rejected = append(result.Rejected, t8n.Rejection{Index: i, Error: err.Error()})
			continue
		}
		gasPool -= gasUsed
		result.GasUsed += math.HexOrDecimal64(gasUsed)
		receipt := t8n.Receipt{
			Type:              tx.Type,
			Status:            math.HexOrDecimal64(types.ReceiptStatusSuccessful),
			CumulativeGasUsed: result.GasUsed,
			LogsBloom:         make(hexutil.Bytes, types.BloomByteLength),
			Logs:              []t8n.Log{},
			TxHash:            hash,
			GasUsed:           math.HexOrDecimal64(gasUsed),
			TransactionIndex:  math.HexOrDecimal64(len(included)),
		}
		if tx.To == nil {
			created := crypto.CreateAddress(state.lastSender, uint64(tx.Nonce))
			receipt.ContractAddress = &created
		}
		result.Receipts = append(result.Receipts, receipt)
		included = append(included, hash)
		res.Traces = append(res.Traces, traceOf(i, hash, gasUsed, uint64(tx.Gas)))
	}

	if reward >= 0 && fork.Before(t8n.Paris) {
		state.addBalance(env.Coinbase, uint256.NewInt(uint64(reward)))
	}
	if env.Withdrawals != nil {
		for _, withdrawal := range env.Withdrawals {
			amount := new(uint256.Int).Mul(uint256.NewInt(withdrawal.Amount), uint256.NewInt(gweiInWei))
			state.addBalance(withdrawal.Address, amount)
		}
		root, err := hashJSON(env.Withdrawals)
		if err != nil {
			return nil, err
		}
		result.WithdrawalsRoot = &root
	}

	body, err := rlp.EncodeToBytes(included)
	if err != nil {
		return nil, err
	}
	res.Body = body
	res.Alloc = state.alloc
	if result.StateRoot, err = hashJSON(state.alloc); err != nil {
		return nil, err
	}
	if result.TxRoot, err = hashJSON(included); err != nil {
		return nil, err
	}
	if result.ReceiptsRoot, err = hashJSON(result.Receipts); err != nil {
		return nil, err
	}
	return res, nil
}

type state struct {
	alloc      t8n.Alloc
	lastSender common.Address
}

func newState(alloc t8n.Alloc) *state {
	res := &state{alloc: make(t8n.Alloc, len(alloc))}
	for addr, account := range alloc {
		if account.Balance != nil {
			account.Balance = new(big.Int).Set(account.Balance)
		}
		res.alloc[addr] = account
	}
	return res
}

func (s *state) balance(addr common.Address) *uint256.Int {
	account := s.alloc[addr]
	if account.Balance == nil {
		return new(uint256.Int)
	}
	return uint256.MustFromBig(account.Balance)
}

func (s *state) setBalance(addr common.Address, balance *uint256.Int) {
	account := s.alloc[addr]
	account.Balance = balance.ToBig()
	s.alloc[addr] = account
}

func (s *state) addBalance(addr common.Address, amount *uint256.Int) {
	s.setBalance(addr, new(uint256.Int).Add(s.balance(addr), amount))
}

func (s *state) apply(tx *t8n.Transaction, coinbase common.Address, baseFee *uint256.Int, gasPool uint64) (uint64, error) {
	sender, err := senderOf(tx)
	if err != nil {
		return 0, err
	}
	s.lastSender = sender

	nonce := s.alloc[sender].Nonce
	if uint64(tx.Nonce) < nonce {
		return 0, fmt.Errorf("nonce too low: address %v, tx: %d state: %d", sender, uint64(tx.Nonce), nonce)
	}
	if uint64(tx.Nonce) > nonce {
		return 0, fmt.Errorf("nonce too high: address %v, tx: %d state: %d", sender, uint64(tx.Nonce), nonce)
	}
	if uint64(tx.Gas) > gasPool {
		return 0, fmt.Errorf("gas limit reached")
	}

	price := toU256(tx.GasPrice)
	if tx.GasPrice == nil {
		price = toU256(tx.MaxFeePerGas)
	}
	if baseFee != nil && price.Lt(baseFee) {
		return 0, fmt.Errorf("max fee per gas less than block base fee: address %v, maxFeePerGas: %v, baseFee: %v", sender, price, baseFee)
	}

	intrinsic := intrinsicGas(tx)
	if uint64(tx.Gas) < intrinsic {
		return 0, fmt.Errorf("intrinsic gas too low: have %d, want %d", uint64(tx.Gas), intrinsic)
	}

	value := toU256(tx.Value)
	cost, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(uint64(tx.Gas)), price)
	if !overflow {
		_, overflow = cost.AddOverflow(cost, value)
	}
	if balance := s.balance(sender); overflow || balance.Lt(cost) {
		return 0, fmt.Errorf("insufficient funds for gas * price + value: address %v have %v want %v", sender, balance, cost)
	}

	gasUsed := intrinsic
	fee := new(uint256.Int).Mul(uint256.NewInt(gasUsed), price)
	s.setBalance(sender, new(uint256.Int).Sub(s.balance(sender), new(uint256.Int).Add(fee, value)))
	account := s.alloc[sender]
	account.Nonce++
	s.alloc[sender] = account

	recipient := crypto.CreateAddress(sender, nonce)
	if tx.To != nil {
		recipient = *tx.To
	}
	s.addBalance(recipient, value)

	tip := price
	if baseFee != nil {
		tip = new(uint256.Int).Sub(price, baseFee)
	}
	s.addBalance(coinbase, new(uint256.Int).Mul(uint256.NewInt(gasUsed), tip))
	return gasUsed, nil
}

func senderOf(tx *t8n.Transaction) (common.Address, error) {
	if tx.SecretKey != nil {
		key, err := crypto.ToECDSA(tx.SecretKey.Bytes())
		if err != nil {
			return common.Address{}, fmt.Errorf("invalid secret key: %v", err)
		}
		return crypto.PubkeyToAddress(key.PublicKey), nil
	}
	if tx.Sender != nil {
		return *tx.Sender, nil
	}
	return common.Address{}, fmt.Errorf("invalid transaction v, r, s values")
}

func intrinsicGas(tx *t8n.Transaction) uint64 {
	res := uint64(txGas)
	if tx.To == nil {
		res = txGasContractCreation
	}
	for _, b := range tx.Input {
		if b == 0 {
			res += txDataZeroGas
		} else {
			res += txDataNonZeroGas
		}
	}
	return res
}

func toU256(value *math.HexOrDecimal256) *uint256.Int {
	if value == nil {
		return new(uint256.Int)
	}
	return uint256.MustFromBig((*big.Int)(value))
}

func hashJSON(value any) (common.Hash, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(data), nil
}

func traceOf(index int, hash common.Hash, gasUsed, gas uint64) t8n.TransactionTrace {
	step := fmt.Sprintf(`{"pc":0,"op":0,"gas":"%#x","gasCost":"0x0","depth":1,"opName":"STOP"}`, gas-gasUsed)
	summary := fmt.Sprintf(`{"output":"","gasUsed":"%#x"}`, gasUsed)
	return t8n.TransactionTrace{
		Index:  index,
		TxHash: hash,
		Lines:  []json.RawMessage{json.RawMessage(step), json.RawMessage(summary)},
	}
}
