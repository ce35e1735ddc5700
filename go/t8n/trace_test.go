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
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestReadTraces_ReadsTraceFilesInTransactionOrder(t *testing.T) {
	dir := t.TempDir()
	hashA := common.Hash{1}
	hashB := common.Hash{2}
	files := map[string]string{
		TraceFileName(10, hashA): "{\"pc\":0}\n{\"pc\":1}\n",
		TraceFileName(2, hashB):  "{\"pc\":0}\n\n",
		"alloc.json":             "{}",
		"trace-x-y.jsonl":        "ignored",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	traces, err := ReadTraces(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(traces) != 2 {
		t.Fatalf("unexpected number of traces: %d", len(traces))
	}
	if traces[0].Index != 2 || traces[0].TxHash != hashB || len(traces[0].Lines) != 1 {
		t.Errorf("unexpected first trace %+v", traces[0])
	}
	if traces[1].Index != 10 || traces[1].TxHash != hashA || len(traces[1].Lines) != 2 {
		t.Errorf("unexpected second trace %+v", traces[1])
	}
}

func TestReadTraces_EmptyDirectoryHasNoTraces(t *testing.T) {
	traces, err := ReadTraces(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if traces == nil || len(traces) != 0 {
		t.Errorf("expected an empty list, got %v", traces)
	}
}

func TestReadTraces_InvalidLinesAreReported(t *testing.T) {
	dir := t.TempDir()
	name := TraceFileName(0, common.Hash{})
	if err := os.WriteFile(filepath.Join(dir, name), []byte("{\"pc\":0}\nnot json\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTraces(dir); err == nil {
		t.Errorf("expected an error")
	}
}

func TestReadTraces_MissingDirectoryIsReported(t *testing.T) {
	if _, err := ReadTraces(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Errorf("expected an error")
	}
}
