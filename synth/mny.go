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

package synth

import (
	"context"

	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/oregex"
)

// filter restricts the first transition of a tabulated path.
type filter int8

const (
	filterNone	filter	= iota
	filterAcc
	filterNonacc
)

// mnyTable holds the static transition relation shared by all
// McNaughton-Yamada queries of one synthesis. Parallel transitions
// stay separate here; each query folds them under its own filter.
type mnyTable struct {
	a	*nba.Automaton
	b	*builder
	edges	map[[2]int32][]medge
	n	int32
}

type medge struct {
	label	oregex.Regex
	acc	bool
}

func newMnyTable(a *nba.Automaton, b *builder) *mnyTable {
	t := &mnyTable{
		a:	a,
		b:	b,
		edges:	make(map[[2]int32][]medge),
		n:	int32(a.Len()),
	}
	for _, tr := range a.Transitions() {
		k := [2]int32{int32(tr.Src), int32(tr.Dst)}
		t.edges[k] = append(t.edges[k], medge{label: b.symbol(tr.Guard), acc: accepting(a, tr)})
	}
	return t
}

// query tabulates the start->end path language with intermediate
// states drawn from ever larger prefixes of the state range. The
// filter applies only to transitions leaving the query start, so a
// cycle query at f constrains the first transition of the cycle and
// nothing else. nil reports the empty language.
//
// The memo lives per query: the base case depends on both the start
// state and the filter.
func (m *mnyTable) query(ctx context.Context, start, end int32, f filter) (oregex.Regex, error) {
	memo := make(map[[3]int32]oregex.Regex)
	var r func(i, j, k int32) (oregex.Regex, error)
	r = func(i, j, k int32) (oregex.Regex, error) {
		key := [3]int32{i, j, k}
		if v, ok := memo[key]; ok {
			return v, nil
		}
		if err := m.b.poll(ctx); err != nil {
			return nil, err
		}
		var out oregex.Regex
		switch {
		case k < 0:
			for _, e := range m.edges[[2]int32{i, j}] {
				if i == start {
					if f == filterAcc && !e.acc {
						continue
					}
					if f == filterNonacc && e.acc {
						continue
					}
				}
				out = m.b.unionFold(out, e.label)
			}
		case k == j:
			// paths may not end in an intermediate visit of
			// their endpoint; skip this k
			var err error
			out, err = r(i, j, k-1)
			if err != nil {
				return nil, err
			}
		case k == i:
			rep, err := r(i, i, k-1)
			if err != nil {
				return nil, err
			}
			through, err := r(i, j, k-1)
			if err != nil {
				return nil, err
			}
			switch {
			case rep == nil:
				out = through
			case through == nil:
				out = nil
			default:
				out = m.b.concat(m.b.star(rep), through)
			}
		default:
			prev, err := r(i, k, k-1)
			if err != nil {
				return nil, err
			}
			rep, err := r(k, k, k-1)
			if err != nil {
				return nil, err
			}
			through, err := r(k, j, k-1)
			if err != nil {
				return nil, err
			}
			direct, err := r(i, j, k-1)
			if err != nil {
				return nil, err
			}
			if prev == nil || through == nil {
				out = direct
			} else {
				var via oregex.Regex
				if rep == nil {
					via = m.b.concat(prev, through)
				} else {
					via = m.b.concat(prev, m.b.concat(m.b.star(rep), through))
				}
				if direct == nil {
					out = via
				} else {
					out = m.b.union(direct, via)
				}
			}
		}
		memo[key] = out
		return out, nil
	}
	return r(start, end, m.n-1)
}
