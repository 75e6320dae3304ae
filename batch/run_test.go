// Copyright (C) 2023 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package batch

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"sigs.k8s.io/yaml"

	"github.com/pertcj/nba-expression-synthesis/spot"
)

const hoaGFaTrans = `HOA: v1
name: "GFa"
States: 1
Start: 0
AP: 1 "a"
acc-name: Buchi
Acceptance: 1 Inf(0)
properties: trans-labels explicit-labels trans-acc complete deterministic
--BODY--
State: 0
[0] 0 {0}
[!0] 0
--END--
`

const hoaGFaState = `HOA: v1
name: "GFa"
States: 2
Start: 0
AP: 1 "a"
acc-name: Buchi
Acceptance: 1 Inf(0)
properties: trans-labels explicit-labels state-acc complete deterministic
--BODY--
State: 0
[!0] 0
[0] 1
State: 1 {0}
[!0] 0
[0] 1
--END--
`

const hoaXTrans = `HOA: v1
States: 2
Start: 0
AP: 2 "a" "b"
acc-name: Buchi
Acceptance: 1 Inf(0)
properties: trans-labels explicit-labels trans-acc
--BODY--
State: 0
[0] 1
State: 1
[1] 1 {0}
--END--
`

const hoaXState = `HOA: v1
States: 1
Start: 0
AP: 2 "a" "b"
acc-name: Buchi
Acceptance: 1 Inf(0)
properties: trans-labels explicit-labels state-acc
--BODY--
State: 0 {0}
[1] 0
--END--
`

const hoaYTrans = `HOA: v1
States: 1
Start: 0
AP: 1 "a"
acc-name: Buchi
Acceptance: 1 Inf(0)
properties: trans-labels explicit-labels trans-acc
--BODY--
State: 0
[0] 0 {0}
--END--
`

// corpusText holds three formulas; "y" has no state-labeled
// automaton, so state routes on it fail.
const corpusText = `% tiny corpus
G F a

x
y
`

func runFake() *spot.Fake {
	return &spot.Fake{
		Transition: map[string]string{
			"G F a":	hoaGFaTrans,
			"x":		hoaXTrans,
			"y":		hoaYTrans,
		},
		State: map[string]string{
			"G F a":	hoaGFaState,
			"x":		hoaXState,
		},
	}
}

func runConfig(t *testing.T, dir string) Config {
	t.Helper()
	corpus := filepath.Join(dir, "corpus.ltl")
	if err := os.WriteFile(corpus, []byte(corpusText), 0644); err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Input = corpus
	cfg.Methods = []string{"transition_only", "state_direct", "transition_selection"}
	cfg.Metrics = []string{"size"}
	cfg.Workers = 1
	cfg.FlushEvery = 4
	cfg.TranslateTimeout = 5
	cfg.SynthesizeTimeout = 5
	cfg.SimplifyTimeout = 5
	cfg.MetricTimeout = 5
	return cfg
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := runConfig(t, dir)
	cfg.Output = filepath.Join(dir, "report.csv")

	var logBuf bytes.Buffer
	r := &Runner{Translator: runFake(), Log: log.New(&logBuf, "", 0)}
	rep, err := r.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if logBuf.Len() == 0 {
		t.Error("no progress logged")
	}

	tbl := rep.Table
	if tbl.Len() != 3 {
		t.Fatalf("%d rows", tbl.Len())
	}
	type cell struct {
		row	int
		col	string
		val	string
	}
	var cells []cell
	want := func(row int, col, val string) {
		cells = append(cells, cell{row, col, val})
	}
	want(0, "formula_length", "3")
	want(0, "transition_only bmc size", "5")
	want(0, "transition_only mny size", "5")
	want(0, "state_direct size", "14")
	want(0, "transition_selection bmc size", "5")
	want(0, "transition_selection bmc chosen", "transition")
	want(0, "transition_selection mny size", "5")
	want(0, "transition_selection mny chosen", "transition")

	want(1, "formula_length", "1")
	want(1, "transition_only bmc size", "4")
	want(1, "state_direct size", "2")
	want(1, "transition_selection bmc size", "2")
	want(1, "transition_selection bmc chosen", "state")
	want(1, "transition_selection mny chosen", "state")

	want(2, "transition_only bmc size", "2")
	want(2, "transition_only mny size", "2")
	want(2, "state_direct size", "-3")
	want(2, "state_direct size time", "-3")
	want(2, "state_direct aut_time", "5")
	want(2, "state_direct regex_const_time", "-1")
	want(2, "state_direct simplify_time", "-1")
	want(2, "transition_selection bmc size", "-3")
	want(2, "transition_selection bmc chosen", "")
	want(2, "transition_selection mny size", "-3")

	for i := range cells {
		c := &cells[i]
		if got := tbl.Cell(c.row, c.col); got != c.val {
			t.Errorf("cell (%d, %s) = %q, want %q", c.row, c.col, got, c.val)
		}
	}
	for _, col := range []string{
		"transition_only bmc aut_time",
		"transition_only bmc regex_const_time",
		"state_direct simplify_time",
	} {
		v, err := strconv.ParseFloat(tbl.Cell(0, col), 64)
		if err != nil || v < 0 {
			t.Errorf("cell (0, %s) = %q", col, tbl.Cell(0, col))
		}
	}

	wantSums := []MethodSummary{
		{Prefix: "transition_only bmc", OK: 3, MeanSize: 11.0 / 3, MaxSize: 5},
		{Prefix: "transition_only mny", OK: 3, MeanSize: 11.0 / 3, MaxSize: 5},
		{Prefix: "state_direct", OK: 2, Errored: 1, MeanSize: 8, MaxSize: 14},
		{Prefix: "transition_selection bmc", OK: 2, Errored: 1, MeanSize: 3.5, MaxSize: 5},
		{Prefix: "transition_selection mny", OK: 2, Errored: 1, MeanSize: 3.5, MaxSize: 5},
	}
	if got := rep.Summary.Methods(); !reflect.DeepEqual(got, wantSums) {
		t.Errorf("summary\ngot  %+v\nwant %+v", got, wantSums)
	}
	wantTop := []TopExpr{
		{Index: 0, Prefix: "state_direct", Size: 14},
		{Index: 0, Prefix: "transition_only bmc", Size: 5},
		{Index: 1, Prefix: "transition_only bmc", Size: 4},
		{Index: 1, Prefix: "state_direct", Size: 2},
		{Index: 2, Prefix: "transition_only bmc", Size: 2},
	}
	if got := rep.Summary.Top(); !reflect.DeepEqual(got, wantTop) {
		t.Errorf("top\ngot  %+v\nwant %+v", got, wantTop)
	}
	var render bytes.Buffer
	rep.Summary.Render(&render)
	if render.Len() == 0 {
		t.Error("empty summary rendering")
	}

	// the flushed report matches the in-memory table
	var buf bytes.Buffer
	if err := tbl.Write(&buf); err != nil {
		t.Fatal(err)
	}
	disk, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(disk, buf.Bytes()) {
		t.Error("report file differs from table")
	}

	raw, err := os.ReadFile(cfg.Input)
	if err != nil {
		t.Fatal(err)
	}
	sum := blake2b.Sum256(raw)
	m := rep.Manifest
	if m.Formulas != 3 || m.Kept != 3 || m.Items != 15 {
		t.Errorf("manifest counts %+v", m)
	}
	if _, err := uuid.Parse(m.RunID); err != nil {
		t.Errorf("run id %q: %v", m.RunID, err)
	}
	if m.CorpusDigest != fmt.Sprintf("%x", sum) {
		t.Errorf("digest %q", m.CorpusDigest)
	}
	if m.WallSeconds <= 0 || m.Started.IsZero() {
		t.Errorf("timing %+v", m)
	}
	if runtime.GOOS == "linux" && m.Rusage == nil {
		t.Error("no rusage on linux")
	}
	if m.Host.GOOS != runtime.GOOS || m.Host.CPUs < 1 {
		t.Errorf("host %+v", m.Host)
	}
	if runtime.GOOS == "linux" && m.Host.MemTotal <= 0 {
		t.Errorf("mem total %d", m.Host.MemTotal)
	}
	if m.Config.Workers != 1 {
		t.Error("config not echoed")
	}

	mraw, err := os.ReadFile(cfg.Output + ".manifest.yaml")
	if err != nil {
		t.Fatal(err)
	}
	var onDisk Manifest
	if err := yaml.Unmarshal(mraw, &onDisk); err != nil {
		t.Fatal(err)
	}
	if onDisk.RunID != m.RunID || onDisk.Items != m.Items {
		t.Error("manifest file mismatch")
	}
}

func TestRunFilter(t *testing.T) {
	dir := t.TempDir()
	cfg := runConfig(t, dir)
	cfg.FilterLength = 2

	r := &Runner{Translator: runFake()}
	rep, err := r.Run(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Manifest.Formulas != 3 || rep.Manifest.Kept != 2 {
		t.Errorf("counts %+v", rep.Manifest)
	}
	if rep.Table.Len() != 2 {
		t.Fatalf("%d rows", rep.Table.Len())
	}
	// rows are reindexed over the kept formulas
	if got := rep.Table.Cell(0, "transition_only bmc size"); got != "4" {
		t.Errorf("row 0 size %q", got)
	}
	if got := rep.Table.Cell(1, "transition_only bmc size"); got != "2" {
		t.Errorf("row 1 size %q", got)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	cfg := runConfig(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &Runner{Translator: runFake()}
	if _, err := r.Run(ctx, cfg); err == nil {
		t.Fatal("cancelled run reported success")
	}
}

func TestRunBadSetup(t *testing.T) {
	dir := t.TempDir()
	r := &Runner{Translator: runFake()}

	cfg := runConfig(t, dir)
	cfg.Input = filepath.Join(dir, "absent.ltl")
	if _, err := r.Run(context.Background(), cfg); err == nil {
		t.Error("missing corpus accepted")
	}

	cfg = runConfig(t, dir)
	cfg.Methods = []string{"nope"}
	if _, err := r.Run(context.Background(), cfg); err == nil {
		t.Error("bad method accepted")
	}

	cfg = runConfig(t, dir)
	cfg.Input = ""
	if _, err := r.Run(context.Background(), cfg); err == nil {
		t.Error("empty input accepted")
	}
}
