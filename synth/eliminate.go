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

// egraph is the working graph of one elimination query. Vertices are
// the automaton states, edge labels are expressions over the guard
// alphabet, and every edge carries the acceptance flag of the first
// automaton transition on the paths it stands for. Parallel edges
// with the same flag are merged into a union on insertion, so between
// rips the graph holds at most two edges per ordered vertex pair.
type egraph struct {
	b	*builder
	verts	[]evert
	edges	[]eedge
	keys	map[ekey]int32
}

type evert struct {
	out	[]int32
	in	[]int32
	dead	bool
}

type eedge struct {
	src, dst	int32
	label		oregex.Regex
	acc		bool
	dead		bool
}

type ekey struct {
	src, dst	int32
	acc		bool
}

// newGraph builds the query graph for a. Dead automaton slots become
// dead vertices so state ids carry over unchanged.
func newGraph(a *nba.Automaton, b *builder) *egraph {
	g := &egraph{
		b:	b,
		verts:	make([]evert, a.Len()),
		keys:	make(map[ekey]int32),
	}
	for q := nba.StateID(0); int(q) < a.Len(); q++ {
		if !a.Alive(q) {
			g.verts[q].dead = true
		}
	}
	for _, t := range a.Transitions() {
		g.addMerge(int32(t.Src), int32(t.Dst), b.symbol(t.Guard), accepting(a, t))
	}
	return g
}

// addMerge inserts an edge, folding it into an existing parallel edge
// with the same acceptance flag. The existing label stays on the left
// of the union so repeated merges fold left.
func (g *egraph) addMerge(src, dst int32, label oregex.Regex, acc bool) {
	k := ekey{src: src, dst: dst, acc: acc}
	if id, ok := g.keys[k]; ok {
		g.edges[id].label = g.b.union(g.edges[id].label, label)
		return
	}
	id := int32(len(g.edges))
	g.edges = append(g.edges, eedge{src: src, dst: dst, label: label, acc: acc})
	g.verts[src].out = append(g.verts[src].out, id)
	g.verts[dst].in = append(g.verts[dst].in, id)
	g.keys[k] = id
}

// rip removes vertex v, replacing every in/out transition pair p->v,
// v->q with a direct edge p->q. Self loops on v are starred between
// the pair labels, and the new edge inherits the acceptance flag of
// the incoming edge: the first transition of the combined path is the
// first transition of p->v.
func (g *egraph) rip(v int32) {
	var loop oregex.Regex
	for _, id := range g.verts[v].out {
		if e := &g.edges[id]; !e.dead && e.dst == v {
			loop = g.b.unionFold(loop, e.label)
		}
	}
	type pending struct {
		src, dst	int32
		label		oregex.Regex
		acc		bool
	}
	var added []pending
	for _, iid := range g.verts[v].in {
		ein := &g.edges[iid]
		if ein.dead || ein.src == v {
			continue
		}
		for _, oid := range g.verts[v].out {
			eout := &g.edges[oid]
			if eout.dead || eout.dst == v {
				continue
			}
			var label oregex.Regex
			if loop == nil {
				label = g.b.concat(ein.label, eout.label)
			} else {
				label = g.b.concat(ein.label, g.b.concat(g.b.star(loop), eout.label))
			}
			added = append(added, pending{src: ein.src, dst: eout.dst, label: label, acc: ein.acc})
		}
	}
	g.removeVert(v)
	for i := range added {
		p := &added[i]
		g.addMerge(p.src, p.dst, p.label, p.acc)
	}
}

func (g *egraph) removeVert(v int32) {
	kill := func(ids []int32) {
		for _, id := range ids {
			e := &g.edges[id]
			if e.dead {
				continue
			}
			e.dead = true
			delete(g.keys, ekey{src: e.src, dst: e.dst, acc: e.acc})
		}
	}
	kill(g.verts[v].out)
	kill(g.verts[v].in)
	g.verts[v].dead = true
}

// eliminate rips every vertex except keep0 and keep1 in ascending
// order, polling for cancellation before each rip.
func (g *egraph) eliminate(ctx context.Context, keep0, keep1 int32) error {
	for v := int32(0); int(v) < len(g.verts); v++ {
		if v == keep0 || v == keep1 || g.verts[v].dead {
			continue
		}
		if err := g.b.poll(ctx); err != nil {
			return err
		}
		g.rip(v)
	}
	return nil
}

// harvestPath reads off the start->end language after eliminate
// kept exactly start and end: loop on start, starred, then a direct
// hop to end. nil reports the empty language.
func (g *egraph) harvestPath(start, end int32) oregex.Regex {
	var r1, r2 oregex.Regex
	for _, id := range g.verts[start].out {
		e := &g.edges[id]
		if e.dead {
			continue
		}
		if e.dst == start {
			r1 = g.b.unionFold(r1, e.label)
		}
		if e.dst == end {
			r2 = g.b.unionFold(r2, e.label)
		}
	}
	if r2 == nil {
		return nil
	}
	if start == end || r1 == nil {
		return r2
	}
	return g.b.concat(g.b.star(r1), r2)
}

// harvestCycles reads off the two cycle languages at f after
// eliminate kept only f, split by the flag of the first transition.
func (g *egraph) harvestCycles(f int32) (acc, nonacc oregex.Regex) {
	for _, id := range g.verts[f].out {
		e := &g.edges[id]
		if e.dead || e.dst != f {
			continue
		}
		if e.acc {
			acc = g.b.unionFold(acc, e.label)
		} else {
			nonacc = g.b.unionFold(nonacc, e.label)
		}
	}
	return acc, nonacc
}
