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
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
	"testing"

	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

var (
	testKey    = common.HexToHash("0x45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8")
	testSender = common.HexToAddress("0xa94f5374fce5edbc8e2a8697c15331677e6ebf0b")
	testTarget = common.Address{0xbb}
)

func transfer(nonce uint64, value int64, gas uint64) t8n.Transaction {
	return t8n.Transaction{
		Nonce:     math.HexOrDecimal64(nonce),
		GasPrice:  math.NewHexOrDecimal256(1),
		Gas:       math.HexOrDecimal64(gas),
		To:        &testTarget,
		Value:     math.NewHexOrDecimal256(value),
		SecretKey: &testKey,
	}
}

func TestApply_ValueTransfer(t *testing.T) {
	alloc := t8n.Alloc{testSender: types.Account{Balance: big.NewInt(100_000)}}
	env := &t8n.Environment{Number: 1, GasLimit: 1_000_000}

	res, err := Apply(alloc, []t8n.Transaction{transfer(0, 10, 21000)}, env, t8n.London, t8n.NoReward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Result.Rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", res.Result.Rejected)
	}
	if got, want := uint256.MustFromBig(res.Alloc[testTarget].Balance), uint256.NewInt(10); !got.Eq(want) {
		t.Errorf("unexpected target balance, wanted %v, got %v", want, got)
	}
	if got, want := uint256.MustFromBig(res.Alloc[testSender].Balance), uint256.NewInt(100_000-10-21000); !got.Eq(want) {
		t.Errorf("unexpected sender balance, wanted %v, got %v", want, got)
	}
	if got := res.Alloc[testSender].Nonce; got != 1 {
		t.Errorf("unexpected sender nonce %d", got)
	}
	if len(res.Result.Receipts) != 1 || !res.Result.Receipts[0].Succeeded() {
		t.Errorf("unexpected receipts %v", res.Result.Receipts)
	}
	if got := uint64(res.Result.GasUsed); got != 21000 {
		t.Errorf("unexpected gas used %d", got)
	}
	if len(res.Traces) != 1 || len(res.Traces[0].Lines) != 2 {
		t.Errorf("unexpected traces %v", res.Traces)
	}
	if alloc[testSender].Balance.Cmp(big.NewInt(100_000)) != 0 {
		t.Errorf("pre-state must not be modified")
	}
}

func TestApply_InvalidTransactionsAreRejected(t *testing.T) {
	tests := map[string]struct {
		tx      t8n.Transaction
		message string
	}{
		"nonce too low":      {transfer(0, 1, 21000), "nonce too low"},
		"nonce too high":     {transfer(5, 1, 21000), "nonce too high"},
		"intrinsic gas":      {transfer(1, 1, 20000), "intrinsic gas too low"},
		"insufficient funds": {transfer(1, 1_000_000, 21000), "insufficient funds for gas * price + value"},
		"block gas limit":    {transfer(1, 1, 2_000_000), "gas limit reached"},
		"missing signature":  {t8n.Transaction{Gas: 21000, To: &testTarget}, "invalid transaction v, r, s values"},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			alloc := t8n.Alloc{testSender: types.Account{Balance: big.NewInt(100_000), Nonce: 1}}
			env := &t8n.Environment{Number: 1, GasLimit: 1_000_000}
			res, err := Apply(alloc, []t8n.Transaction{test.tx}, env, t8n.London, t8n.NoReward)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			rejected, found := (&t8n.Response{Result: res.Result}).RejectedAt(0)
			if !found {
				t.Fatalf("transaction should be rejected")
			}
			if !strings.HasPrefix(rejected.Error, test.message) {
				t.Errorf("unexpected rejection message %q", rejected.Error)
			}
			if len(res.Result.Receipts) != 0 {
				t.Errorf("rejected transactions must not have receipts")
			}
		})
	}
}

func TestApply_BlockRewardIsPaidBeforeParis(t *testing.T) {
	coinbase := common.Address{0xcc}
	env := &t8n.Environment{Coinbase: coinbase, GasLimit: 1_000_000}
	for _, fork := range []t8n.Fork{t8n.London, t8n.Paris} {
		res, err := Apply(t8n.Alloc{}, nil, env, fork, 2_000)
		if err != nil {
			t.Fatal(err)
		}
		want := uint256.NewInt(2_000)
		if fork == t8n.Paris {
			want = new(uint256.Int)
		}
		got := new(uint256.Int)
		if account, found := res.Alloc[coinbase]; found {
			got = uint256.MustFromBig(account.Balance)
		}
		if !got.Eq(want) {
			t.Errorf("%v: unexpected coinbase balance %v, wanted %v", fork, got, want)
		}
	}
}

func TestRun_ProcessesStreamInvocation(t *testing.T) {
	alloc, _ := json.Marshal(t8n.Alloc{testSender: types.Account{Balance: big.NewInt(100_000)}})
	txs, _ := json.Marshal([]t8n.Transaction{transfer(0, 10, 21000)})
	env, _ := json.Marshal(t8n.Environment{Number: 1, GasLimit: 1_000_000})
	input, _ := json.Marshal(t8n.Input{Alloc: alloc, Txs: txs, Env: env})

	var stdout, stderr bytes.Buffer
	args := []string{
		"t8n", "--input.alloc=stdin", "--input.txs=stdin", "--input.env=stdin",
		"--output.alloc=stdout", "--output.result=stdout", "--output.body=stdout",
		"--state.fork=London", "--state.reward=-1",
	}
	if code := Run(Geth, args, bytes.NewReader(input), &stdout, &stderr); code != 0 {
		t.Fatalf("unexpected exit code %d, stderr: %s", code, stderr.String())
	}
	response, err := t8n.DecodeOutput(stdout.Bytes())
	if err != nil {
		t.Fatalf("failed to decode output: %v\n%s", err, stdout.String())
	}
	if got := response.BalanceOf(testTarget); !got.Eq(uint256.NewInt(10)) {
		t.Errorf("unexpected target balance %v", got)
	}
	if len(response.Body) == 0 {
		t.Errorf("missing body")
	}
}

func TestRun_PrintsBannerOnlyForOwnVersionFlag(t *testing.T) {
	for name, flavor := range flavors {
		for _, arg := range []string{"version", "-v", "--version"} {
			var stdout, stderr bytes.Buffer
			code := Run(name, []string{arg}, nil, &stdout, &stderr)
			if arg == flavor.versionArg {
				if code != 0 || !strings.HasPrefix(stdout.String(), flavor.banner) {
					t.Errorf("%s %s: unexpected result %d %q", name, arg, code, stdout.String())
				}
			} else if code == 0 {
				t.Errorf("%s %s: expected failure", name, arg)
			}
		}
	}
}

func TestRun_UnsupportedForkFails(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{"t8n", "--input.alloc=stdin", "--state.fork=Osaka"}
	input := `{"alloc":{},"txs":[],"env":{"currentCoinbase":"0x0000000000000000000000000000000000000000","currentGasLimit":"0x1","currentNumber":"0x1","currentTimestamp":"0x1"}}`
	if code := Run(Geth, args, strings.NewReader(input), &stdout, &stderr); code == 0 {
		t.Errorf("expected a failure")
	}
}

func TestTestSender_IsDerivedFromKey(t *testing.T) {
	key, err := crypto.ToECDSA(testKey.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if got := crypto.PubkeyToAddress(key.PublicKey); got != testSender {
		t.Errorf("unexpected sender %v", got)
	}
}
