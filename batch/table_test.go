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
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pertcj/nba-expression-synthesis/compr"
	"github.com/pertcj/nba-expression-synthesis/solver"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

func mustMethod(t *testing.T, name string) solver.Method {
	t.Helper()
	m, err := solver.ParseMethod(name)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func testTable(t *testing.T) *Table {
	t.Helper()
	methods := []solver.Method{
		mustMethod(t, "state_direct"),
		mustMethod(t, "transition_selection"),
	}
	modes := []synth.Mode{synth.ModeBMC, synth.ModeMNY}
	metrics := []solver.Metric{solver.Length, solver.Size}
	return NewTable([]int{3, 1}, methods, modes, metrics)
}

func TestTableHeader(t *testing.T) {
	tbl := testTable(t)
	group := func(prefix string, chosen bool) []string {
		cols := []string{
			prefix + " length",
			prefix + " size",
			prefix + " length time",
			prefix + " size time",
			prefix + " aut_time",
			prefix + " regex_const_time",
			prefix + " simplify_time",
		}
		if chosen {
			cols = append(cols, prefix+" chosen")
		}
		return cols
	}
	want := []string{"formula_index", "formula_length"}
	want = append(want, group("state_direct", false)...)
	want = append(want, group("transition_selection bmc", true)...)
	want = append(want, group("transition_selection mny", true)...)
	if got := tbl.Header(); !reflect.DeepEqual(got, want) {
		t.Errorf("header\ngot  %v\nwant %v", got, want)
	}
	if tbl.Len() != 2 {
		t.Errorf("rows %d", tbl.Len())
	}
	if tbl.Cell(0, "formula_length") != "3" || tbl.Cell(1, "formula_length") != "1" {
		t.Error("length column not pre-filled")
	}
	if tbl.Cell(0, "state_direct size") != "" {
		t.Error("method cells not empty at start")
	}
}

func TestTableApply(t *testing.T) {
	tbl := testTable(t)

	ok := &solver.Result{
		Index:		1,
		Method:		mustMethod(t, "transition_selection"),
		Mode:		synth.ModeMNY,
		Chosen:		"state",
		Translate:	0.5,
		Synthesize:	0.25,
		Simplify:	0,
		Metrics: []solver.MetricValue{
			{Metric: solver.Length, Value: 2, Seconds: 0.001},
			{Metric: solver.Size, Value: 5, Seconds: 0.002},
		},
		Outcome: solver.OK,
	}
	if err := tbl.Apply(ok); err != nil {
		t.Fatal(err)
	}
	cells := map[string]string{
		"transition_selection mny length":		"2",
		"transition_selection mny size":		"5",
		"transition_selection mny length time":		"0.001",
		"transition_selection mny size time":		"0.002",
		"transition_selection mny aut_time":		"0.5",
		"transition_selection mny regex_const_time":	"0.25",
		"transition_selection mny simplify_time":	"0",
		"transition_selection mny chosen":		"state",
	}
	for name, want := range cells {
		if got := tbl.Cell(1, name); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
	// the bmc group of the same row is untouched
	if tbl.Cell(1, "transition_selection bmc size") != "" {
		t.Error("wrong column group written")
	}

	fail := func(outcome solver.Outcome, marker string) {
		t.Helper()
		tbl := testTable(t)
		r := &solver.Result{
			Index:		0,
			Method:		mustMethod(t, "state_direct"),
			Mode:		synth.ModeBMC,
			Translate:	0.1,
			Synthesize:	120,
			Simplify:	-1,
			Outcome:	outcome,
			Stage:		solver.StageSynthesize,
		}
		if err := tbl.Apply(r); err != nil {
			t.Fatal(err)
		}
		for _, name := range []string{
			"state_direct length",
			"state_direct size",
			"state_direct length time",
			"state_direct size time",
		} {
			if got := tbl.Cell(0, name); got != marker {
				t.Errorf("%s = %q, want %q", name, got, marker)
			}
		}
		if tbl.Cell(0, "state_direct aut_time") != "0.1" {
			t.Error("measured stage time dropped")
		}
		if tbl.Cell(0, "state_direct regex_const_time") != "120" {
			t.Error("failing stage budget dropped")
		}
		if tbl.Cell(0, "state_direct simplify_time") != "-1" {
			t.Error("skipped stage marker dropped")
		}
	}
	fail(solver.Timeout, "-1")
	fail(solver.Memory, "-2")
	fail(solver.Errored, "-3")

	bad := &solver.Result{Index: 7, Method: mustMethod(t, "state_direct")}
	if err := tbl.Apply(bad); err == nil {
		t.Error("out of range row accepted")
	}
}

func TestTableFlush(t *testing.T) {
	tbl := testTable(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "report.csv.gz")
	if err := tbl.Flush(path); err != nil {
		t.Fatal(err)
	}
	// flushing again overwrites in place
	if err := tbl.Flush(path); err != nil {
		t.Fatal(err)
	}

	r, err := compr.OpenReader(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("%d records", len(records))
	}
	if !reflect.DeepEqual(records[0], tbl.Header()) {
		t.Error("header mismatch after roundtrip")
	}
	if records[1][0] != "0" || records[2][0] != "1" {
		t.Error("index column mismatch")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
