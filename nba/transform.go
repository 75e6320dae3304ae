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

	"github.com/pertcj/nba-expression-synthesis/scc"
)

// Classification partitions the states into strongly connected
// components and tags each one. A component is recurring when it
// contains a cycle whose acceptance marks cover every set; such a
// cycle exists iff the component has an internal transition and the
// internal marks jointly cover every set, since any set of internal
// transitions can be stitched into one closed walk.
type Classification struct {
	Comps		*scc.Components
	Recurring	[]bool
}

// Classify decomposes the live transition graph. Removed states land
// in singleton transient components.
func (a *Automaton) Classify() (*Classification, error) {
	if a.Sets < 1 {
		return nil, fmt.Errorf("%w: automaton declares %d acceptance sets", ErrAmbiguousAcceptance, a.Sets)
	}
	comps := scc.Decompose(len(a.states), func(q int32) []int32 {
		st := &a.states[q]
		if st.dead {
			return nil
		}
		succ := make([]int32, 0, len(st.out))
		for _, t := range st.out {
			if !a.tdead[t] {
				succ = append(succ, int32(a.trans[t].Dst))
			}
		}
		return succ
	})
	internal := make([]bool, comps.Count())
	covers := make([]Marks, comps.Count())
	for i := range a.trans {
		if a.tdead[i] {
			continue
		}
		t := &a.trans[i]
		c := comps.Comp[t.Src]
		if comps.Comp[t.Dst] != c {
			continue
		}
		internal[c] = true
		if a.Label == LabelState {
			covers[c] = covers[c].Union(a.states[t.Src].marks)
		} else {
			covers[c] = covers[c].Union(t.Marks)
		}
	}
	rec := make([]bool, comps.Count())
	for c := range rec {
		rec[c] = internal[c] && covers[c].Covers(a.Sets)
	}
	return &Classification{Comps: comps, Recurring: rec}, nil
}

// Degeneralize converts a k-set transition-labeled automaton into a
// single-set one over states (q, level): level j waits for set j and
// advances through consecutively covered sets; a wrap past the last
// set carries the single accepting mark and restarts at level 0.
// Single-set automata are returned unchanged.
func (a *Automaton) Degeneralize() (*Automaton, error) {
	if a.Sets < 1 {
		return nil, fmt.Errorf("%w: automaton declares %d acceptance sets", ErrAmbiguousAcceptance, a.Sets)
	}
	if a.Label != LabelTransition {
		return nil, fmt.Errorf("%w: degeneralization needs transition labeling", ErrUnsupportedAcceptance)
	}
	if a.Sets == 1 {
		return a, nil
	}
	if !a.Alive(a.Init) {
		return nil, fmt.Errorf("%w: initial state %d is not a live state", ErrMalformedAutomaton, a.Init)
	}

	k := a.Sets
	out := New(LabelTransition, 1, a.APs)
	out.Name = a.Name
	// the level is a function of the run, so determinism survives
	if a.Deterministic() {
		out.Props = []string{"deterministic"}
	}

	type level struct {
		q	StateID
		lvl	int
	}
	ids := make(map[level]StateID)
	var queue []level
	place := func(p level) StateID {
		if id, ok := ids[p]; ok {
			return id
		}
		name := a.states[p.q].name
		if name != "" {
			name = fmt.Sprintf("%s#%d", name, p.lvl)
		}
		id := out.AddState(name)
		ids[p] = id
		queue = append(queue, p)
		return id
	}

	out.Init = place(level{a.Init, 0})
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		src := ids[p]
		for _, t := range a.Out(p.q) {
			lvl := p.lvl
			for lvl < k && t.Marks.Has(lvl) {
				lvl++
			}
			var m Marks
			if lvl == k {
				lvl = 0
				m = MarksOf(0)
			}
			dst := place(level{t.Dst, lvl})
			if err := out.AddEdge(src, dst, t.Guard, m); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// ToStateBased converts a transition-labeled automaton into a
// state-labeled one accepting the same language. Each state splits
// into an accepting and a non-accepting copy keyed by whether it was
// entered over a marked transition; only reachable copies are built.
// Multi-set automata are degeneralized first. State-labeled input is
// returned unchanged.
func (a *Automaton) ToStateBased() (*Automaton, error) {
	if a.Label == LabelState {
		return a, nil
	}
	if a.Sets != 1 {
		d, err := a.Degeneralize()
		if err != nil {
			return nil, err
		}
		a = d
	}
	if !a.Alive(a.Init) {
		return nil, fmt.Errorf("%w: initial state %d is not a live state", ErrMalformedAutomaton, a.Init)
	}

	out := New(LabelState, 1, a.APs)
	out.Name = a.Name
	// the entry flag is a function of the run, so determinism survives
	if a.Deterministic() {
		out.Props = []string{"deterministic"}
	}

	type entry struct {
		q	StateID
		acc	bool
	}
	ids := make(map[entry]StateID)
	var queue []entry
	place := func(p entry) (StateID, error) {
		if id, ok := ids[p]; ok {
			return id, nil
		}
		name := a.states[p.q].name
		if name != "" {
			tag := 0
			if p.acc {
				tag = 1
			}
			name = fmt.Sprintf("%s#%d", name, tag)
		}
		id := out.AddState(name)
		if p.acc {
			if err := out.MarkState(id, MarksOf(0)); err != nil {
				return NoState, err
			}
		}
		ids[p] = id
		queue = append(queue, p)
		return id, nil
	}

	init, err := place(entry{a.Init, false})
	if err != nil {
		return nil, err
	}
	out.Init = init
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		src := ids[p]
		for _, t := range a.Out(p.q) {
			dst, err := place(entry{t.Dst, t.Marks.Has(0)})
			if err != nil {
				return nil, err
			}
			if err := out.AddEdge(src, dst, t.Guard, Marks{}); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
