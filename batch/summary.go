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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/exp/slices"

	"github.com/pertcj/nba-expression-synthesis/heap"
	"github.com/pertcj/nba-expression-synthesis/oregex"
	"github.com/pertcj/nba-expression-synthesis/solver"
)

// topExprs bounds the largest-expressions list in the summary.
const topExprs = 5

// MethodSummary aggregates the outcomes of one method column prefix.
// MeanSize and MaxSize cover successful evaluations only.
type MethodSummary struct {
	Prefix		string
	OK		int
	Timeout		int
	Memory		int
	Errored		int
	MeanSize	float64
	MaxSize		int
}

// TopExpr locates one of the largest synthesized expressions.
type TopExpr struct {
	Index	int
	Prefix	string
	Size	int
}

// Summary accumulates per-method outcome counts and tracks the
// largest distinct expressions of a run. It is filled by the result
// collector, one result at a time.
type Summary struct {
	order	[]string
	tallies	map[string]*tally
	top	[]TopExpr
	seen	map[uint64]struct{}
}

type tally struct {
	ok, timeout, memory, errored	int
	sizeSum				int64
	maxSize				int
}

func newSummary(prefixes []string) *Summary {
	s := &Summary{
		tallies:	make(map[string]*tally),
		seen:		make(map[uint64]struct{}),
	}
	for _, p := range prefixes {
		if _, ok := s.tallies[p]; !ok {
			s.order = append(s.order, p)
			s.tallies[p] = &tally{}
		}
	}
	return s
}

func topLess(a, b TopExpr) bool { return a.Size < b.Size }

func (s *Summary) add(r *solver.Result) {
	prefix := r.Method.ColumnPrefix(r.Mode)
	tl := s.tallies[prefix]
	if tl == nil {
		tl = &tally{}
		s.tallies[prefix] = tl
		s.order = append(s.order, prefix)
	}
	switch r.Outcome {
	case solver.OK:
		tl.ok++
	case solver.Timeout:
		tl.timeout++
	case solver.Memory:
		tl.memory++
	default:
		tl.errored++
	}
	if r.Outcome != solver.OK {
		return
	}
	size := oregex.SizeOmega(r.Expr)
	tl.sizeSum += int64(size)
	if size > tl.maxSize {
		tl.maxSize = size
	}
	// the same expression often comes out of several methods; rank
	// each distinct tree once
	fp := oregex.FingerprintOmega(r.Expr)
	if _, ok := s.seen[fp]; ok {
		return
	}
	s.seen[fp] = struct{}{}
	heap.PushSlice(&s.top, TopExpr{Index: r.Index, Prefix: prefix, Size: size}, topLess)
	if len(s.top) > topExprs {
		heap.PopSlice(&s.top, topLess)
	}
}

// Methods returns the per-method tallies in report column order.
func (s *Summary) Methods() []MethodSummary {
	out := make([]MethodSummary, 0, len(s.order))
	for _, p := range s.order {
		tl := s.tallies[p]
		ms := MethodSummary{
			Prefix:		p,
			OK:		tl.ok,
			Timeout:	tl.timeout,
			Memory:		tl.memory,
			Errored:	tl.errored,
			MaxSize:	tl.maxSize,
		}
		if tl.ok > 0 {
			ms.MeanSize = float64(tl.sizeSum) / float64(tl.ok)
		}
		out = append(out, ms)
	}
	return out
}

// Top returns the largest distinct expressions, biggest first.
func (s *Summary) Top() []TopExpr {
	out := slices.Clone(s.top)
	slices.SortFunc(out, func(a, b TopExpr) int {
		if a.Size != b.Size {
			return b.Size - a.Size
		}
		if a.Index != b.Index {
			return a.Index - b.Index
		}
		return strings.Compare(a.Prefix, b.Prefix)
	})
	return out
}

// Render writes the summary as text tables.
func (s *Summary) Render(w io.Writer) {
	tbl := tablewriter.NewWriter(w)
	tbl.Header([]string{"method", "ok", "timeout", "memory", "error", "mean size", "max size"})
	for _, ms := range s.Methods() {
		tbl.Append([]string{
			ms.Prefix,
			strconv.Itoa(ms.OK),
			strconv.Itoa(ms.Timeout),
			strconv.Itoa(ms.Memory),
			strconv.Itoa(ms.Errored),
			strconv.FormatFloat(ms.MeanSize, 'f', 1, 64),
			strconv.Itoa(ms.MaxSize),
		})
	}
	tbl.Render()

	top := s.Top()
	if len(top) == 0 {
		return
	}
	fmt.Fprintln(w, "largest expressions:")
	tt := tablewriter.NewWriter(w)
	tt.Header([]string{"formula", "method", "size"})
	for _, e := range top {
		tt.Append([]string{strconv.Itoa(e.Index), e.Prefix, strconv.Itoa(e.Size)})
	}
	tt.Render()
}
