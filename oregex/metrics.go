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

package oregex

// Metrics over expressions.
//
// Size counts operator and symbol nodes: every Symbol, Concat,
// Union, Star, Omega, OmegaConcat and OmegaUnion contributes one,
// Epsilon and the empty languages contribute nothing.
//
// Len is the timeline length: the number of letters consumed along
// the longest branch. Concatenation sums, union takes the maximum,
// and iteration (Star, Omega) is transparent.
//
// StarHeight is the maximum nesting depth of Star. Omega-power
// does not add a level.

type walkFrame struct {
	n	any
	exp	bool
}

// Size returns the node count of r.
func Size(r Regex) int {
	return sizeAny(r)
}

// SizeOmega returns the node count of w.
func SizeOmega(w OmegaRegex) int {
	return sizeAny(w)
}

func sizeAny(root any) int {
	vals := make([]int, 0, 16)
	stack := make([]walkFrame, 0, 32)
	stack = append(stack, walkFrame{root, false})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.exp {
			switch n := f.n.(type) {
			case *Empty, *Epsilon, *OmegaEmpty:
				vals = append(vals, 0)
			case *Symbol:
				vals = append(vals, 1)
			case *Concat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Union:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Star:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Arg, false})
			case *Omega:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Arg, false})
			case *OmegaConcat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Tail, false}, walkFrame{n.Prefix, false})
			case *OmegaUnion:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			}
			continue
		}
		switch f.n.(type) {
		case *Star, *Omega:
			vals[len(vals)-1]++
		default:
			b := vals[len(vals)-1]
			a := vals[len(vals)-2]
			vals = vals[:len(vals)-1]
			vals[len(vals)-1] = a + b + 1
		}
	}
	return vals[0]
}

// Len returns the timeline length of r.
func Len(r Regex) int {
	return lenAny(r)
}

// LenOmega returns the timeline length of w.
func LenOmega(w OmegaRegex) int {
	return lenAny(w)
}

func lenAny(root any) int {
	vals := make([]int, 0, 16)
	stack := make([]walkFrame, 0, 32)
	stack = append(stack, walkFrame{root, false})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.exp {
			switch n := f.n.(type) {
			case *Empty, *Epsilon, *OmegaEmpty:
				vals = append(vals, 0)
			case *Symbol:
				vals = append(vals, 1)
			case *Concat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Union:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Star:
				stack = append(stack, walkFrame{n.Arg, false})
			case *Omega:
				stack = append(stack, walkFrame{n.Arg, false})
			case *OmegaConcat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Tail, false}, walkFrame{n.Prefix, false})
			case *OmegaUnion:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			}
			continue
		}
		b := vals[len(vals)-1]
		a := vals[len(vals)-2]
		vals = vals[:len(vals)-1]
		switch f.n.(type) {
		case *Concat, *OmegaConcat:
			vals[len(vals)-1] = a + b
		default:
			vals[len(vals)-1] = max(a, b)
		}
	}
	return vals[0]
}

// StarHeight returns the star nesting depth of r.
func StarHeight(r Regex) int {
	return heightAny(r)
}

// StarHeightOmega returns the star nesting depth of w.
func StarHeightOmega(w OmegaRegex) int {
	return heightAny(w)
}

func heightAny(root any) int {
	vals := make([]int, 0, 16)
	stack := make([]walkFrame, 0, 32)
	stack = append(stack, walkFrame{root, false})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.exp {
			switch n := f.n.(type) {
			case *Empty, *Epsilon, *Symbol, *OmegaEmpty:
				vals = append(vals, 0)
			case *Concat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Union:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Star:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Arg, false})
			case *Omega:
				stack = append(stack, walkFrame{n.Arg, false})
			case *OmegaConcat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Tail, false}, walkFrame{n.Prefix, false})
			case *OmegaUnion:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			}
			continue
		}
		if _, ok := f.n.(*Star); ok {
			vals[len(vals)-1]++
			continue
		}
		b := vals[len(vals)-1]
		a := vals[len(vals)-2]
		vals = vals[:len(vals)-1]
		vals[len(vals)-1] = max(a, b)
	}
	return vals[0]
}
