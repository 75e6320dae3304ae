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

// Package guard parses and evaluates transition guards: boolean
// formulas over atomic propositions with negation, conjunction and
// disjunction.
//
// The synthesis engine treats guard text as opaque symbols; this
// package is used only at the automaton boundary, where guards are
// read from and written to external formats, and by tests that need
// to evaluate a guard against a concrete letter.
package guard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
)

// Expr is a guard formula. The concrete types are *True, *False,
// *AP, *Not, *And and *Or.
type Expr interface {
	guardNode()
}

// True is the guard satisfied by every letter.
type True struct{}

// False is the guard satisfied by no letter.
type False struct{}

// AP is an atomic proposition, referenced either by Name or, in
// index form, by its position in an alphabet. Index is -1 when the
// proposition is named.
type AP struct {
	Name	string
	Index	int
}

// Not negates X.
type Not struct {
	X Expr
}

// And is the conjunction of Left and Right.
type And struct {
	Left, Right Expr
}

// Or is the disjunction of Left and Right.
type Or struct {
	Left, Right Expr
}

func (*True) guardNode()   {}
func (*False) guardNode()  {}
func (*AP) guardNode()     {}
func (*Not) guardNode()    {}
func (*And) guardNode()    {}
func (*Or) guardNode()     {}

// grammar; precedence is ! over & over |
type orExpr struct {
	Left	*andExpr	`parser:"@@"`
	Rest	[]*andExpr	`parser:"( '|' @@ )*"`
}

type andExpr struct {
	Left	*notExpr	`parser:"@@"`
	Rest	[]*notExpr	`parser:"( '&' @@ )*"`
}

type notExpr struct {
	Neg	*notExpr	`parser:"'!' @@"`
	Atom	*atomExpr	`parser:"| @@"`
}

type atomExpr struct {
	Ident	*string	`parser:"@Ident"`
	Num	*int	`parser:"| @Int"`
	Str	*string	`parser:"| @String"`
	Sub	*orExpr	`parser:"| '(' @@ ')'"`
}

var parser = participle.MustBuild[orExpr](participle.Unquote("String"))

// Parse parses guard text in name form: identifiers are atomic
// propositions, t and 1 mean true, f and 0 mean false. Quoted
// strings name propositions that are not identifiers.
func Parse(s string) (Expr, error) {
	root, err := parser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("guard %q: %w", s, err)
	}
	return convOr(root)
}

func convOr(e *orExpr) (Expr, error) {
	out, err := convAnd(e.Left)
	if err != nil {
		return nil, err
	}
	for _, a := range e.Rest {
		r, err := convAnd(a)
		if err != nil {
			return nil, err
		}
		out = &Or{Left: out, Right: r}
	}
	return out, nil
}

func convAnd(e *andExpr) (Expr, error) {
	out, err := convNot(e.Left)
	if err != nil {
		return nil, err
	}
	for _, n := range e.Rest {
		r, err := convNot(n)
		if err != nil {
			return nil, err
		}
		out = &And{Left: out, Right: r}
	}
	return out, nil
}

func convNot(e *notExpr) (Expr, error) {
	if e.Neg != nil {
		x, err := convNot(e.Neg)
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return convAtom(e.Atom)
}

func convAtom(e *atomExpr) (Expr, error) {
	switch {
	case e.Ident != nil:
		switch *e.Ident {
		case "t":
			return &True{}, nil
		case "f":
			return &False{}, nil
		}
		return &AP{Name: *e.Ident, Index: -1}, nil
	case e.Num != nil:
		switch *e.Num {
		case 1:
			return &True{}, nil
		case 0:
			return &False{}, nil
		}
		return nil, fmt.Errorf("bare integer %d in named guard", *e.Num)
	case e.Str != nil:
		return &AP{Name: *e.Str, Index: -1}, nil
	default:
		return convOr(e.Sub)
	}
}

// Eval evaluates e against a letter given as the set of true
// propositions. Propositions absent from the map are false.
func Eval(e Expr, letter map[string]bool) bool {
	switch n := e.(type) {
	case *True:
		return true
	case *False:
		return false
	case *AP:
		return letter[n.Name]
	case *Not:
		return !Eval(n.X, letter)
	case *And:
		return Eval(n.Left, letter) && Eval(n.Right, letter)
	case *Or:
		return Eval(n.Left, letter) || Eval(n.Right, letter)
	}
	return false
}

// Atoms returns the proposition names referenced by e, sorted.
func Atoms(e Expr) []string {
	set := make(map[string]struct{})
	collect(e, set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func collect(e Expr, into map[string]struct{}) {
	switch n := e.(type) {
	case *AP:
		into[n.Name] = struct{}{}
	case *Not:
		collect(n.X, into)
	case *And:
		collect(n.Left, into)
		collect(n.Right, into)
	case *Or:
		collect(n.Left, into)
		collect(n.Right, into)
	}
}

// String renders e in name form with minimal parentheses.
func String(e Expr) string {
	var b strings.Builder
	write(&b, e, 0)
	return b.String()
}

// Render resolves index-form propositions through aps and returns
// the name-form text of e.
func Render(e Expr, aps []string) (string, error) {
	r, err := resolve(e, aps)
	if err != nil {
		return "", err
	}
	return String(r), nil
}

func resolve(e Expr, aps []string) (Expr, error) {
	switch n := e.(type) {
	case *AP:
		if n.Name != "" {
			return n, nil
		}
		if n.Index < 0 || n.Index >= len(aps) {
			return nil, fmt.Errorf("proposition index %d out of range (%d propositions)", n.Index, len(aps))
		}
		return &AP{Name: aps[n.Index], Index: n.Index}, nil
	case *Not:
		x, err := resolve(n.X, aps)
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	case *And:
		l, err := resolve(n.Left, aps)
		if err != nil {
			return nil, err
		}
		r, err := resolve(n.Right, aps)
		if err != nil {
			return nil, err
		}
		return &And{Left: l, Right: r}, nil
	case *Or:
		l, err := resolve(n.Left, aps)
		if err != nil {
			return nil, err
		}
		r, err := resolve(n.Right, aps)
		if err != nil {
			return nil, err
		}
		return &Or{Left: l, Right: r}, nil
	default:
		return e, nil
	}
}

// RenderHOA renders e with propositions as indices per idx, the
// form used by HOA labels.
func RenderHOA(e Expr, idx map[string]int) (string, error) {
	var b strings.Builder
	if err := writeHOA(&b, e, idx, 0); err != nil {
		return "", err
	}
	return b.String(), nil
}

const (
	precOr	= 1
	precAnd	= 2
	precNot	= 3
)

// writeName quotes proposition names that would not survive a
// round-trip through Parse: non-identifiers and the t/f literals.
func writeName(b *strings.Builder, name string) {
	if isIdent(name) && name != "t" && name != "f" {
		b.WriteString(name)
		return
	}
	b.WriteString(strconv.Quote(name))
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return s != ""
}

func write(b *strings.Builder, e Expr, parent int) {
	switch n := e.(type) {
	case *True:
		b.WriteByte('t')
	case *False:
		b.WriteByte('f')
	case *AP:
		if n.Name != "" {
			writeName(b, n.Name)
		} else {
			fmt.Fprintf(b, "%d", n.Index)
		}
	case *Not:
		b.WriteByte('!')
		write(b, n.X, precNot)
	case *And:
		if parent > precAnd {
			b.WriteByte('(')
		}
		write(b, n.Left, precAnd)
		b.WriteString(" & ")
		write(b, n.Right, precAnd)
		if parent > precAnd {
			b.WriteByte(')')
		}
	case *Or:
		if parent > precOr {
			b.WriteByte('(')
		}
		write(b, n.Left, precOr)
		b.WriteString(" | ")
		write(b, n.Right, precOr)
		if parent > precOr {
			b.WriteByte(')')
		}
	}
}

func writeHOA(b *strings.Builder, e Expr, idx map[string]int, parent int) error {
	switch n := e.(type) {
	case *True:
		b.WriteByte('t')
	case *False:
		b.WriteByte('f')
	case *AP:
		i, ok := idx[n.Name]
		if !ok {
			if n.Name == "" && n.Index >= 0 {
				i = n.Index
			} else {
				return fmt.Errorf("proposition %q not in alphabet", n.Name)
			}
		}
		fmt.Fprintf(b, "%d", i)
	case *Not:
		b.WriteByte('!')
		return writeHOA(b, n.X, idx, precNot)
	case *And:
		if parent > precAnd {
			b.WriteByte('(')
		}
		if err := writeHOA(b, n.Left, idx, precAnd); err != nil {
			return err
		}
		b.WriteString("&")
		if err := writeHOA(b, n.Right, idx, precAnd); err != nil {
			return err
		}
		if parent > precAnd {
			b.WriteByte(')')
		}
	case *Or:
		if parent > precOr {
			b.WriteByte('(')
		}
		if err := writeHOA(b, n.Left, idx, precOr); err != nil {
			return err
		}
		b.WriteString(" | ")
		if err := writeHOA(b, n.Right, idx, precOr); err != nil {
			return err
		}
		if parent > precOr {
			b.WriteByte(')')
		}
	}
	return nil
}
