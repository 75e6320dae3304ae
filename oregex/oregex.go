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

// Package oregex implements omega-regular expressions.
//
// An omega-regular expression denotes a language of infinite
// words. It is built from a finite-word layer (Regex) combined
// with an omega layer (OmegaRegex): the omega-power of a finite
// expression, a finite prefix concatenated onto an omega tail,
// and unions of omega expressions. Symbols are opaque guard
// strings; this package never interprets them.
package oregex

import (
	"strings"
)

// Regex is a regular expression over finite words.
//
// The concrete types are *Empty, *Epsilon, *Symbol, *Concat,
// *Union and *Star. Nodes are immutable once built; subtrees may
// be shared freely between expressions.
type Regex interface {
	regexNode()
}

// OmegaRegex is a regular expression over infinite words.
//
// The concrete types are *OmegaEmpty, *Omega, *OmegaConcat and
// *OmegaUnion. The finite and omega layers are distinct types so
// that ill-formed combinations (an omega expression under a star,
// or as the left operand of a concatenation) cannot be built.
type OmegaRegex interface {
	omegaNode()
}

// Empty matches no word at all.
type Empty struct{}

// Epsilon matches exactly the empty word.
type Epsilon struct{}

// Symbol matches any single letter satisfying Guard.
// The guard text is opaque to this package.
type Symbol struct {
	Guard string
}

// Concat matches a word of Left followed by a word of Right.
type Concat struct {
	Left, Right Regex
}

// Union matches the words of Left and the words of Right.
type Union struct {
	Left, Right Regex
}

// Star matches zero or more words of Arg.
type Star struct {
	Arg Regex
}

// OmegaEmpty matches no infinite word.
type OmegaEmpty struct{}

// Omega matches infinitely many words of Arg in sequence.
type Omega struct {
	Arg Regex
}

// OmegaConcat matches a word of Prefix followed by an infinite
// word of Tail.
type OmegaConcat struct {
	Prefix Regex
	Tail	OmegaRegex
}

// OmegaUnion matches the words of Left and the words of Right.
type OmegaUnion struct {
	Left, Right OmegaRegex
}

func (*Empty) regexNode()   {}
func (*Epsilon) regexNode() {}
func (*Symbol) regexNode()  {}
func (*Concat) regexNode()  {}
func (*Union) regexNode()   {}
func (*Star) regexNode()    {}

func (*OmegaEmpty) omegaNode()  {}
func (*Omega) omegaNode()       {}
func (*OmegaConcat) omegaNode() {}
func (*OmegaUnion) omegaNode()  {}

// Print returns the textual form of r.
//
// Every operator prints fully parenthesized: a symbol as "(g)",
// concatenation as "(lr)", union as "(l|r)", star as "(x)*",
// epsilon as "ε" and the empty language as "0".
func Print(r Regex) string {
	var b strings.Builder
	writeExpr(&b, r)
	return b.String()
}

// PrintOmega returns the textual form of w. The omega-power of x
// prints as "$(x)"; the remaining forms follow Print.
func PrintOmega(w OmegaRegex) string {
	var b strings.Builder
	writeExpr(&b, w)
	return b.String()
}

// writeExpr walks the tree with an explicit stack; synthesized
// expressions can be deep enough to make recursion a liability.
func writeExpr(b *strings.Builder, root any) {
	stack := make([]any, 0, 64)
	stack = append(stack, root)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n := it.(type) {
		case string:
			b.WriteString(n)
		case *Empty:
			b.WriteByte('0')
		case *Epsilon:
			b.WriteString("ε")
		case *Symbol:
			b.WriteByte('(')
			b.WriteString(n.Guard)
			b.WriteByte(')')
		case *Concat:
			stack = append(stack, ")", n.Right, n.Left, "(")
		case *Union:
			stack = append(stack, ")", n.Right, "|", n.Left, "(")
		case *Star:
			stack = append(stack, ")*", n.Arg, "(")
		case *OmegaEmpty:
			b.WriteByte('0')
		case *Omega:
			stack = append(stack, ")", n.Arg, "$(")
		case *OmegaConcat:
			stack = append(stack, ")", n.Tail, n.Prefix, "(")
		case *OmegaUnion:
			stack = append(stack, ")", n.Right, "|", n.Left, "(")
		}
	}
}

// Equal reports whether a and b are structurally identical.
func Equal(a, b Regex) bool {
	return equalAny(a, b)
}

// EqualOmega reports whether a and b are structurally identical.
func EqualOmega(a, b OmegaRegex) bool {
	return equalAny(a, b)
}

type eqPair struct {
	a, b any
}

func equalAny(a, b any) bool {
	stack := make([]eqPair, 0, 32)
	stack = append(stack, eqPair{a, b})
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.a == p.b {
			// shared subtree
			continue
		}
		switch x := p.a.(type) {
		case *Empty:
			if _, ok := p.b.(*Empty); !ok {
				return false
			}
		case *Epsilon:
			if _, ok := p.b.(*Epsilon); !ok {
				return false
			}
		case *Symbol:
			y, ok := p.b.(*Symbol)
			if !ok || x.Guard != y.Guard {
				return false
			}
		case *Concat:
			y, ok := p.b.(*Concat)
			if !ok {
				return false
			}
			stack = append(stack, eqPair{x.Left, y.Left}, eqPair{x.Right, y.Right})
		case *Union:
			y, ok := p.b.(*Union)
			if !ok {
				return false
			}
			stack = append(stack, eqPair{x.Left, y.Left}, eqPair{x.Right, y.Right})
		case *Star:
			y, ok := p.b.(*Star)
			if !ok {
				return false
			}
			stack = append(stack, eqPair{x.Arg, y.Arg})
		case *OmegaEmpty:
			if _, ok := p.b.(*OmegaEmpty); !ok {
				return false
			}
		case *Omega:
			y, ok := p.b.(*Omega)
			if !ok {
				return false
			}
			stack = append(stack, eqPair{x.Arg, y.Arg})
		case *OmegaConcat:
			y, ok := p.b.(*OmegaConcat)
			if !ok {
				return false
			}
			stack = append(stack, eqPair{x.Prefix, y.Prefix}, eqPair{x.Tail, y.Tail})
		case *OmegaUnion:
			y, ok := p.b.(*OmegaUnion)
			if !ok {
				return false
			}
			stack = append(stack, eqPair{x.Left, y.Left}, eqPair{x.Right, y.Right})
		default:
			return false
		}
	}
	return true
}

// Nullable reports whether r matches the empty word.
func Nullable(r Regex) bool {
	vals := make([]bool, 0, 16)
	type frame struct {
		n	Regex
		exp	bool
	}
	stack := make([]frame, 0, 32)
	stack = append(stack, frame{r, false})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.exp {
			switch n := f.n.(type) {
			case *Empty, *Symbol:
				vals = append(vals, false)
			case *Epsilon, *Star:
				vals = append(vals, true)
			case *Concat:
				stack = append(stack, frame{n, true}, frame{n.Right, false}, frame{n.Left, false})
			case *Union:
				stack = append(stack, frame{n, true}, frame{n.Right, false}, frame{n.Left, false})
			}
			continue
		}
		b := vals[len(vals)-1]
		a := vals[len(vals)-2]
		vals = vals[:len(vals)-2]
		switch f.n.(type) {
		case *Concat:
			vals = append(vals, a && b)
		case *Union:
			vals = append(vals, a || b)
		}
	}
	return vals[0]
}
