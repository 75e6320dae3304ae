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

package nba

import (
	"fmt"

	"github.com/pertcj/nba-expression-synthesis/guard"
	"github.com/pertcj/nba-expression-synthesis/scc"
)

// Letter is one position of an infinite word: the set of atomic
// propositions that hold there. Propositions absent from the map are
// false.
type Letter map[string]bool

// AcceptsLasso reports whether the automaton accepts the ultimately
// periodic word prefix·cycle^ω. It builds the product of the automaton
// with the lasso positions and looks for a reachable strongly
// connected component whose marks cover every acceptance set. The
// cycle must be non-empty; guards are parsed and evaluated against the
// letters.
func (a *Automaton) AcceptsLasso(prefix, cycle []Letter) (bool, error) {
	if len(cycle) == 0 {
		return false, fmt.Errorf("lasso cycle is empty")
	}
	if a.Sets < 1 {
		return false, fmt.Errorf("%w: automaton declares %d acceptance sets", ErrAmbiguousAcceptance, a.Sets)
	}
	if !a.Alive(a.Init) {
		return false, fmt.Errorf("%w: initial state %d is not a live state", ErrMalformedAutomaton, a.Init)
	}

	p, total := len(prefix), len(prefix)+len(cycle)
	letter := func(pos int) Letter {
		if pos < p {
			return prefix[pos]
		}
		return cycle[pos-p]
	}
	next := func(pos int) int {
		if pos++; pos == total {
			pos = p
		}
		return pos
	}

	guards := make(map[string]guard.Expr)
	parse := func(s string) (guard.Expr, error) {
		if e, ok := guards[s]; ok {
			return e, nil
		}
		e, err := guard.Parse(s)
		if err != nil {
			return nil, err
		}
		guards[s] = e
		return e, nil
	}

	// Product vertex (q, pos) is q*total+pos. The position advances
	// deterministically, so product paths correspond to runs over
	// exactly the lasso word.
	type pedge struct {
		from	int32
		to	int32
		tr	int32
	}
	var edges []pedge
	for i := range a.trans {
		if a.tdead[i] {
			continue
		}
		t := &a.trans[i]
		e, err := parse(t.Guard)
		if err != nil {
			return false, err
		}
		for pos := 0; pos < total; pos++ {
			if !guard.Eval(e, letter(pos)) {
				continue
			}
			edges = append(edges, pedge{
				from:	int32(t.Src)*int32(total) + int32(pos),
				to:	int32(t.Dst)*int32(total) + int32(next(pos)),
				tr:	int32(i),
			})
		}
	}

	n := len(a.states) * total
	adj := make([][]int32, n)
	for _, e := range edges {
		adj[e.from] = append(adj[e.from], e.to)
	}

	reach := make([]bool, n)
	stack := []int32{int32(a.Init) * int32(total)}
	reach[stack[0]] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range adj[v] {
			if !reach[w] {
				reach[w] = true
				stack = append(stack, w)
			}
		}
	}

	comps := scc.Decompose(n, func(v int32) []int32 { return adj[v] })
	internal := make([]bool, comps.Count())
	covers := make([]Marks, comps.Count())
	for _, e := range edges {
		c := comps.Comp[e.from]
		if comps.Comp[e.to] != c || !reach[e.from] {
			continue
		}
		internal[c] = true
		if a.Label == LabelState {
			covers[c] = covers[c].Union(a.states[a.trans[e.tr].Src].marks)
		} else {
			covers[c] = covers[c].Union(a.trans[e.tr].Marks)
		}
	}
	for c := range internal {
		if internal[c] && covers[c].Covers(a.Sets) {
			return true, nil
		}
	}
	return false, nil
}
