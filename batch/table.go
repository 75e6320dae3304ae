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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pertcj/nba-expression-synthesis/compr"
	"github.com/pertcj/nba-expression-synthesis/solver"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

// Table is the wide report: one row per formula, one column group per
// method prefix. Rows are pre-sized at construction; cells of
// evaluations that never ran stay empty.
//
// Column group layout per prefix: the metric values, the metric
// times, then aut_time, regex_const_time, simplify_time, and for
// selection methods a trailing chosen column.
type Table struct {
	header	[]string
	cols	map[string]int
	rows	[][]string
	metrics	[]solver.Metric
}

// Prefixes returns the method column prefixes in table order; methods
// bound to a construction mode expand to one prefix per mode.
func Prefixes(methods []solver.Method, modes []synth.Mode) []string {
	var out []string
	for _, m := range methods {
		if !m.UsesMode() {
			out = append(out, m.ColumnPrefix(synth.ModeBMC))
			continue
		}
		for _, mode := range modes {
			out = append(out, m.ColumnPrefix(mode))
		}
	}
	return out
}

// NewTable builds the empty report for the given formula lengths.
// Row i starts as (i, lens[i]) with every method cell empty.
func NewTable(lens []int, methods []solver.Method, modes []synth.Mode, metrics []solver.Metric) *Table {
	t := &Table{
		header:	[]string{"formula_index", "formula_length"},
		cols:	make(map[string]int),
		metrics:	metrics,
	}
	add := func(name string) {
		t.cols[name] = len(t.header)
		t.header = append(t.header, name)
	}
	group := func(prefix string, selective bool) {
		for _, met := range metrics {
			add(prefix + " " + met.String())
		}
		for _, met := range metrics {
			add(prefix + " " + met.String() + " time")
		}
		add(prefix + " aut_time")
		add(prefix + " regex_const_time")
		add(prefix + " simplify_time")
		if selective {
			add(prefix + " chosen")
		}
	}
	for _, m := range methods {
		if !m.UsesMode() {
			group(m.ColumnPrefix(synth.ModeBMC), m.Selective())
			continue
		}
		for _, mode := range modes {
			group(m.ColumnPrefix(mode), m.Selective())
		}
	}
	t.rows = make([][]string, len(lens))
	for i, n := range lens {
		row := make([]string, len(t.header))
		row[0] = strconv.Itoa(i)
		row[1] = strconv.Itoa(n)
		t.rows[i] = row
	}
	return t
}

// marker is the cell value standing in for a metric that could not be
// computed: -1 timed out or never ran, -2 ran out of memory, -3 any
// other error.
func marker(o solver.Outcome) string {
	switch o {
	case solver.Timeout:
		return "-1"
	case solver.Memory:
		return "-2"
	}
	return "-3"
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Apply writes one evaluation into its row. Stage times always land;
// metric cells carry values on success and the outcome marker
// otherwise.
func (t *Table) Apply(r *solver.Result) error {
	if r.Index < 0 || r.Index >= len(t.rows) {
		return fmt.Errorf("result row %d of %d", r.Index, len(t.rows))
	}
	row := t.rows[r.Index]
	prefix := r.Method.ColumnPrefix(r.Mode)
	set := func(name, val string) error {
		i, ok := t.cols[prefix+" "+name]
		if !ok {
			return fmt.Errorf("no column %q", prefix+" "+name)
		}
		row[i] = val
		return nil
	}
	if err := set("aut_time", ftoa(r.Translate)); err != nil {
		return err
	}
	if err := set("regex_const_time", ftoa(r.Synthesize)); err != nil {
		return err
	}
	if err := set("simplify_time", ftoa(r.Simplify)); err != nil {
		return err
	}
	if r.Outcome != solver.OK {
		m := marker(r.Outcome)
		for _, met := range t.metrics {
			if err := set(met.String(), m); err != nil {
				return err
			}
			if err := set(met.String()+" time", m); err != nil {
				return err
			}
		}
		return nil
	}
	for _, mv := range r.Metrics {
		if err := set(mv.Metric.String(), strconv.Itoa(mv.Value)); err != nil {
			return err
		}
		if err := set(mv.Metric.String()+" time", ftoa(mv.Seconds)); err != nil {
			return err
		}
	}
	if r.Method.Selective() {
		return set("chosen", r.Chosen)
	}
	return nil
}

// Header returns a copy of the column names.
func (t *Table) Header() []string {
	out := make([]string, len(t.header))
	copy(out, t.header)
	return out
}

// Len returns the number of formula rows.
func (t *Table) Len() int { return len(t.rows) }

// Cell returns the value at (row, column name); missing columns
// return "".
func (t *Table) Cell(row int, name string) string {
	i, ok := t.cols[name]
	if !ok || row < 0 || row >= len(t.rows) {
		return ""
	}
	return t.rows[row][i]
}

// Write renders the table as CSV.
func (t *Table) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return err
	}
	for _, row := range t.rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Flush writes the table to path through a same-directory temp file
// and a rename, so a reader never sees a half-written report. The
// path extension picks the compression codec.
func (t *Table) Flush(path string) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	wc, err := compr.Writer(f, filepath.Ext(path))
	if err == nil {
		err = t.Write(wc)
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return err
	}
	if err := os.Rename(f.Name(), path); err != nil {
		os.Remove(f.Name())
		return err
	}
	return nil
}
