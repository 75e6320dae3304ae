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

// Package scc computes strongly connected components of directed
// graphs given as successor lists over dense integer vertices.
package scc

import (
	"slices"
)

// Components is the decomposition of a graph into strongly
// connected components. Component ids are assigned in Tarjan
// completion order, so ids run from sinks of the condensation
// towards its sources.
type Components struct {
	// Comp maps a vertex to its component id.
	Comp []int32
	// Lists holds the members of each component in ascending
	// vertex order.
	Lists [][]int32
}

// Decompose runs Tarjan's algorithm over the vertices 0..n-1.
// succ returns the successors of a vertex; it may be called more
// than once per vertex and must be stable.
func Decompose(n int, succ func(int32) []int32) *Components {
	comp := make([]int32, n)
	index := make([]int32, n) // discovery order plus one; 0 is unvisited
	low := make([]int32, n)
	onstack := make([]bool, n)
	stack := make([]int32, 0, n)
	var lists [][]int32
	next := int32(1)

	type frame struct {
		v	int32
		succs	[]int32
		i	int
	}
	var frames []frame

	for root := int32(0); root < int32(n); root++ {
		if index[root] != 0 {
			continue
		}
		index[root] = next
		low[root] = next
		next++
		stack = append(stack, root)
		onstack[root] = true
		frames = append(frames, frame{v: root, succs: succ(root)})
		for len(frames) > 0 {
			f := &frames[len(frames)-1]
			if f.i < len(f.succs) {
				w := f.succs[f.i]
				f.i++
				if index[w] == 0 {
					index[w] = next
					low[w] = next
					next++
					stack = append(stack, w)
					onstack[w] = true
					frames = append(frames, frame{v: w, succs: succ(w)})
				} else if onstack[w] && index[w] < low[f.v] {
					low[f.v] = index[w]
				}
				continue
			}
			v := f.v
			frames = frames[:len(frames)-1]
			if len(frames) > 0 {
				p := &frames[len(frames)-1]
				if low[v] < low[p.v] {
					low[p.v] = low[v]
				}
			}
			if low[v] == index[v] {
				id := int32(len(lists))
				var members []int32
				for {
					w := stack[len(stack)-1]
					stack = stack[:len(stack)-1]
					onstack[w] = false
					comp[w] = id
					members = append(members, w)
					if w == v {
						break
					}
				}
				slices.Sort(members)
				lists = append(lists, members)
			}
		}
	}
	return &Components{Comp: comp, Lists: lists}
}

// Count returns the number of components.
func (c *Components) Count() int {
	return len(c.Lists)
}

// Topo returns the component ids in topological order of the
// condensation: every condensation edge points from an earlier id
// in the result to a later one.
func (c *Components) Topo() []int32 {
	out := make([]int32, len(c.Lists))
	for i := range out {
		out[i] = int32(len(c.Lists) - 1 - i)
	}
	return out
}

// Condensation returns the successor components of every
// component, deduplicated and sorted, self-edges excluded.
func (c *Components) Condensation(succ func(int32) []int32) [][]int32 {
	out := make([][]int32, len(c.Lists))
	for id, members := range c.Lists {
		var cs []int32
		for _, v := range members {
			for _, w := range succ(v) {
				if d := c.Comp[w]; d != int32(id) {
					cs = append(cs, d)
				}
			}
		}
		slices.Sort(cs)
		out[id] = slices.Compact(cs)
	}
	return out
}
