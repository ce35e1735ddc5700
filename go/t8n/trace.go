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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionTrace holds the trace lines a backend produced for one
// transaction of a transition call.
type TransactionTrace struct {
	Index  int
	TxHash common.Hash
	Lines  []json.RawMessage
}

var traceFilePattern = regexp.MustCompile(`^trace-(\d+)-(0x[0-9a-fA-F]{64})\.jsonl$`)

// TraceFileName is the name backends use for the trace of a transaction.
func TraceFileName(index int, txHash common.Hash) string {
	return fmt.Sprintf("trace-%d-%s.jsonl", index, txHash.Hex())
}

// ReadTraces collects all per-transaction trace files found in the given
// directory, ordered by transaction index. Files not following the trace
// naming scheme are ignored.
func ReadTraces(dir string) ([]TransactionTrace, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list trace directory: %w", err)
	}
	res := []TransactionTrace{}
	for _, entry := range entries {
		match := traceFilePattern.FindStringSubmatch(entry.Name())
		if entry.IsDir() || match == nil {
			continue
		}
		index, err := strconv.Atoi(match[1])
		if err != nil {
			return nil, fmt.Errorf("invalid trace file name %q: %w", entry.Name(), err)
		}
		lines, err := readTraceLines(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		res = append(res, TransactionTrace{
			Index:  index,
			TxHash: common.HexToHash(match[2]),
			Lines:  lines,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Index < res[j].Index })
	return res, nil
}

func readTraceLines(path string) ([]json.RawMessage, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	res := []json.RawMessage{}
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			return nil, fmt.Errorf("invalid trace line in %s: %s", filepath.Base(path), line)
		}
		res = append(res, json.RawMessage(bytes.Clone(line)))
	}
	return res, scanner.Err()
}
