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
	"fmt"
	"slices"

	"github.com/pertcj/nba-expression-synthesis/guard"
	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/oregex"
)

// Compile builds a Büchi automaton for the language of w. Every guard
// occurrence becomes one state, entered by transitions carrying its
// guard, so no silent transitions are needed; the loop-back
// transitions of each omega-power carry the acceptance mark. The
// automaton is transition-labeled with a single acceptance set and is
// mainly useful to cross-check a synthesized expression against the
// automaton it came from.
func Compile(w oregex.OmegaRegex) (*nba.Automaton, error) {
	c := &compiler{}
	entry, err := c.omega(w)
	if err != nil {
		return nil, err
	}

	aps := make(map[string]struct{})
	for _, g := range c.guards {
		e, err := guard.Parse(g)
		if err != nil {
			return nil, fmt.Errorf("compiling expression: %w", err)
		}
		for _, ap := range guard.Atoms(e) {
			aps[ap] = struct{}{}
		}
	}
	names := make([]string, 0, len(aps))
	for ap := range aps {
		names = append(names, ap)
	}
	slices.Sort(names)

	a := nba.New(nba.LabelTransition, 1, names)
	init := a.AddState("")
	a.Init = init
	states := make([]nba.StateID, len(c.guards))
	for i := range states {
		states[i] = a.AddState("")
	}
	for _, p := range entry {
		if err := a.AddEdge(init, states[p], c.guards[p], nba.Marks{}); err != nil {
			return nil, err
		}
	}
	for _, e := range c.edges {
		m := nba.Marks{}
		if e.acc {
			m = nba.MarksOf(0)
		}
		if err := a.AddEdge(states[e.from], states[e.to], c.guards[e.to], m); err != nil {
			return nil, err
		}
	}
	a.PruneUnreachable()
	return a, nil
}

type compiler struct {
	guards	[]string
	edges	[]cedge
}

type cedge struct {
	from, to	int32
	acc		bool
}

// frag summarizes a finite sub-expression: the guard positions it can
// start and end with, and whether it accepts the empty word.
type frag struct {
	first, last	[]int32
	null		bool
}

func (c *compiler) pos(g string) int32 {
	c.guards = append(c.guards, g)
	return int32(len(c.guards) - 1)
}

func (c *compiler) link(from, to []int32, acc bool) {
	for _, f := range from {
		for _, t := range to {
			c.edges = append(c.edges, cedge{from: f, to: t, acc: acc})
		}
	}
}

func (c *compiler) finite(r oregex.Regex) (frag, error) {
	switch n := r.(type) {
	case *oregex.Empty:
		return frag{}, nil
	case *oregex.Epsilon:
		return frag{null: true}, nil
	case *oregex.Symbol:
		p := c.pos(n.Guard)
		return frag{first: []int32{p}, last: []int32{p}}, nil
	case *oregex.Concat:
		l, err := c.finite(n.Left)
		if err != nil {
			return frag{}, err
		}
		rt, err := c.finite(n.Right)
		if err != nil {
			return frag{}, err
		}
		c.link(l.last, rt.first, false)
		f := frag{null: l.null && rt.null}
		f.first = append(f.first, l.first...)
		if l.null {
			f.first = append(f.first, rt.first...)
		}
		f.last = append(f.last, rt.last...)
		if rt.null {
			f.last = append(f.last, l.last...)
		}
		return f, nil
	case *oregex.Union:
		l, err := c.finite(n.Left)
		if err != nil {
			return frag{}, err
		}
		rt, err := c.finite(n.Right)
		if err != nil {
			return frag{}, err
		}
		return frag{
			first:	append(slices.Clone(l.first), rt.first...),
			last:	append(slices.Clone(l.last), rt.last...),
			null:	l.null || rt.null,
		}, nil
	case *oregex.Star:
		f, err := c.finite(n.Arg)
		if err != nil {
			return frag{}, err
		}
		c.link(f.last, f.first, false)
		return frag{first: f.first, last: f.last, null: true}, nil
	}
	return frag{}, fmt.Errorf("compiling expression: unknown node %T", r)
}

// omega returns the entry positions of w. Repeating a fragment under
// an omega-power means taking its loop-back transitions forever;
// empty iterations contribute no positions, so a nullable argument
// still repeats real guards infinitely often.
func (c *compiler) omega(w oregex.OmegaRegex) ([]int32, error) {
	switch n := w.(type) {
	case *oregex.OmegaEmpty:
		return nil, nil
	case *oregex.Omega:
		f, err := c.finite(n.Arg)
		if err != nil {
			return nil, err
		}
		c.link(f.last, f.first, true)
		return f.first, nil
	case *oregex.OmegaConcat:
		p, err := c.finite(n.Prefix)
		if err != nil {
			return nil, err
		}
		t, err := c.omega(n.Tail)
		if err != nil {
			return nil, err
		}
		c.link(p.last, t, false)
		first := slices.Clone(p.first)
		if p.null {
			first = append(first, t...)
		}
		return first, nil
	case *oregex.OmegaUnion:
		l, err := c.omega(n.Left)
		if err != nil {
			return nil, err
		}
		r, err := c.omega(n.Right)
		if err != nil {
			return nil, err
		}
		return append(slices.Clone(l), r...), nil
	}
	return nil, fmt.Errorf("compiling expression: unknown node %T", w)
}
