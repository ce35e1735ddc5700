// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"math/big"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	cliUtils "github.com/Fantom-foundation/t8n/go/driver/cli"
	"github.com/Fantom-foundation/t8n/go/executor"
	"github.com/Fantom-foundation/t8n/go/t8n"
	"github.com/dsnet/golib/unitconv"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/params"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
	"pgregory.net/rand"
)

var BenchCmd = cliUtils.AddCommonFlags(cli.Command{
	Action: doBench,
	Name:   "bench",
	Usage:  "Measures the throughput of a transition tool using random value transfers",
	Flags: append([]cli.Flag{
		cliUtils.ForkFlag,
		cliUtils.JobsFlag,
		cliUtils.SeedFlag,
		&cli.IntFlag{
			Name:  "count",
			Usage: "total number of transitions to run",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "txs",
			Usage: "number of transactions per transition",
			Value: 1,
		},
	}, cliUtils.ExecutorFlags...),
})

var benchKey = common.HexToHash("0x45a915e4d060149eb4365960e6a7a45f334393093061116b197e3240065ff2d8")

func doBench(context *cli.Context) error {
	fork, err := cliUtils.ForkFlag.Fetch(context)
	if err != nil {
		return err
	}
	count := context.Int("count")
	numTxs := context.Int("txs")
	seed := cliUtils.SeedFlag.Fetch(context)
	jobCount := cliUtils.JobsFlag.Fetch(context)
	if jobCount <= 0 {
		jobCount = runtime.NumCPU()
	}
	jobCount = min(jobCount, max(count, 1))

	key, err := crypto.ToECDSA(benchKey[:])
	if err != nil {
		return err
	}
	sender := crypto.PubkeyToAddress(key.PublicKey)

	// Every job owns its transition tool, which are not shared.
	tools := make([]*executor.Executor, 0, jobCount)
	defer func() {
		for _, tool := range tools {
			tool.Shutdown()
		}
	}()
	for i := 0; i < jobCount; i++ {
		tool, err := newExecutor(context)
		if err != nil {
			return err
		}
		tools = append(tools, tool)
	}
	if !tools[0].IsForkSupported(fork) {
		return fmt.Errorf("%s does not support fork %v", tools[0].Name(), fork)
	}

	out := context.App.Writer
	fmt.Fprintf(out, "Running %d transitions with %d transactions each on %s using %d jobs, seed %d ...\n", count, numTxs, tools[0].Name(), jobCount, seed)

	var (
		next    atomic.Int64
		done    atomic.Uint64
		errsMu  sync.Mutex
		errs    *multierror.Error
		failed  atomic.Bool
		wg      sync.WaitGroup
		start   = time.Now()
		stop    = make(chan struct{})
		printer sync.WaitGroup
	)

	printer.Add(1)
	go func() {
		defer printer.Done()
		last := uint64(0)
		for {
			select {
			case <-stop:
				return
			case <-time.After(5 * time.Second):
				relativeTime := time.Since(start)
				current := done.Load()
				rate := float64(current-last) / 5
				last = current
				fmt.Fprintf(out,
					"[t=%4d:%02d] - Processing ~%s transitions per second, total %d\n",
					int(relativeTime.Seconds())/60, int(relativeTime.Seconds())%60,
					unitconv.FormatPrefix(rate, unitconv.SI, 0), current,
				)
			}
		}
	}()

	wg.Add(jobCount)
	for i, tool := range tools {
		go func(rnd *rand.Rand, tool *executor.Executor) {
			defer wg.Done()
			for !failed.Load() && next.Add(1) <= int64(count) {
				request, err := newBenchRequest(rnd, fork, sender, numTxs)
				if err == nil {
					err = evaluate(context, tool, request, numTxs)
				}
				if err != nil {
					failed.Store(true)
					errsMu.Lock()
					errs = multierror.Append(errs, err)
					errsMu.Unlock()
					return
				}
				done.Add(1)
			}
		}(rand.New(seed+uint64(i)), tool)
	}
	wg.Wait()
	close(stop)
	printer.Wait()

	if err := errs.ErrorOrNil(); err != nil {
		return err
	}
	duration := time.Since(start)
	rate := float64(done.Load()) / duration.Seconds()
	fmt.Fprintf(out, "Ran %d transitions in %v, ~%s transitions per second\n",
		done.Load(), duration.Round(time.Millisecond), unitconv.FormatPrefix(rate, unitconv.SI, 1))
	return nil
}

func evaluate(context *cli.Context, tool *executor.Executor, request *t8n.Request, numTxs int) error {
	response, err := tool.Evaluate(context.Context, request, t8n.CallOptions{})
	if err != nil {
		return err
	}
	if len(response.Result.Rejected) != 0 {
		rejected := response.Result.Rejected[0]
		return fmt.Errorf("transaction %d was rejected: %v", rejected.Index, rejected.Exception)
	}
	if got := len(response.Result.Receipts); got != numTxs {
		return fmt.Errorf("expected %d receipts, got %d", numTxs, got)
	}
	return nil
}

// newBenchRequest creates a block of value transfers from a single
// sender to random receivers.
func newBenchRequest(rnd *rand.Rand, fork t8n.Fork, sender common.Address, numTxs int) (*t8n.Request, error) {
	const baseFee = 7
	balance := new(big.Int).Mul(big.NewInt(int64(rnd.Intn(1000)+1)), big.NewInt(params.Ether))
	input := t8n.RequestParams{
		Alloc: t8n.Alloc{sender: types.Account{Balance: balance}},
		Env: t8n.Environment{
			Coinbase:  common.Address{0xc0},
			GasLimit:  30_000_000,
			Number:    1,
			Timestamp: 1000,
		},
		Fork:    fork,
		ChainID: 1,
		Reward:  t8n.NoReward,
	}
	if fork.AtLeast(t8n.London) {
		input.Env.BaseFee = math.NewHexOrDecimal256(baseFee)
	}
	if fork.Before(t8n.Paris) {
		input.Env.Difficulty = math.NewHexOrDecimal256(0x20000)
	} else {
		var random common.Hash
		rnd.Read(random[:])
		input.Env.Random = &random
	}
	if fork.AtLeast(t8n.Shanghai) {
		input.Env.Withdrawals = []*types.Withdrawal{}
	}
	if fork.AtLeast(t8n.Cancun) {
		excess := math.HexOrDecimal64(0)
		input.Env.ExcessBlobGas = &excess
		input.Env.ParentBeaconBlockRoot = &common.Hash{}
	}
	for i := 0; i < numTxs; i++ {
		var to common.Address
		rnd.Read(to[:])
		input.Txs = append(input.Txs, t8n.Transaction{
			Nonce:     math.HexOrDecimal64(i),
			GasPrice:  math.NewHexOrDecimal256(int64(baseFee + rnd.Uint64n(100))),
			Gas:       math.HexOrDecimal64(params.TxGas),
			To:        &to,
			Value:     math.NewHexOrDecimal256(int64(rnd.Uint64n(1_000_000_000))),
			SecretKey: &benchKey,
		})
	}
	return t8n.NewRequest(input)
}
