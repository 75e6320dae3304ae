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

import (
	"fmt"
	"testing"
)

func sym(g string) Regex { return &Symbol{Guard: g} }
func cat(l, r Regex) Regex { return &Concat{Left: l, Right: r} }
func alt(l, r Regex) Regex { return &Union{Left: l, Right: r} }
func star(a Regex) Regex { return &Star{Arg: a} }
func pow(a Regex) OmegaRegex { return &Omega{Arg: a} }
func catw(p Regex, t OmegaRegex) OmegaRegex { return &OmegaConcat{Prefix: p, Tail: t} }
func altw(l, r OmegaRegex) OmegaRegex { return &OmegaUnion{Left: l, Right: r} }

func TestPrint(t *testing.T) {
	testcases := []struct {
		in	Regex
		want string
	}{
		{&Empty{}, "0"},
		{&Epsilon{}, "ε"},
		{sym("a"), "(a)"},
		{sym("a & !b"), "(a & !b)"},
		{cat(sym("a"), sym("b")), "((a)(b))"},
		{alt(sym("a"), sym("b")), "((a)|(b))"},
		{star(sym("a")), "((a))*"},
		{cat(star(alt(sym("d"), cat(sym("c"), star(sym("f"))))), sym("b")),
			"((((d)|((c)((f))*)))*(b))"},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			got := Print(tc.in)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPrintOmega(t *testing.T) {
	testcases := []struct {
		in	OmegaRegex
		want string
	}{
		{&OmegaEmpty{}, "0"},
		{pow(sym("a")), "$((a))"},
		{catw(sym("a"), pow(sym("b"))), "((a)$((b)))"},
		{altw(pow(sym("a")), pow(sym("b"))), "($((a))|$((b)))"},
		{catw(cat(sym("a"), sym("b")), pow(alt(sym("a"), cat(sym("b"), star(sym("a")))))),
			"(((a)(b))$(((a)|((b)((a))*))))"},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			got := PrintOmega(tc.in)
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	testcases := []struct {
		a, b	Regex
		want	bool
	}{
		{sym("a"), sym("a"), true},
		{sym("a"), sym("b"), false},
		{&Epsilon{}, &Epsilon{}, true},
		{&Epsilon{}, &Empty{}, false},
		{cat(sym("a"), sym("b")), cat(sym("a"), sym("b")), true},
		{cat(sym("a"), sym("b")), cat(sym("b"), sym("a")), false},
		{star(alt(sym("a"), sym("b"))), star(alt(sym("a"), sym("b"))), true},
		{star(sym("a")), alt(sym("a"), sym("a")), false},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", Print(tc.a), Print(tc.b), got, tc.want)
			}
		})
	}

	// shared subtrees compare by pointer before structure
	shared := star(alt(sym("x"), sym("y")))
	if !Equal(cat(shared, sym("z")), cat(shared, sym("z"))) {
		t.Error("shared subtree not equal")
	}
	if !EqualOmega(pow(shared), pow(star(alt(sym("x"), sym("y"))))) {
		t.Error("structural omega compare failed")
	}
	if EqualOmega(pow(shared), catw(sym("x"), pow(shared))) {
		t.Error("distinct omega kinds compared equal")
	}
}

func TestNullable(t *testing.T) {
	testcases := []struct {
		in	Regex
		want bool
	}{
		{&Empty{}, false},
		{&Epsilon{}, true},
		{sym("a"), false},
		{star(sym("a")), true},
		{cat(sym("a"), star(sym("b"))), false},
		{cat(star(sym("a")), star(sym("b"))), true},
		{alt(sym("a"), &Epsilon{}), true},
		{alt(sym("a"), sym("b")), false},
		{cat(alt(&Epsilon{}, sym("a")), star(sym("b"))), true},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			if got := Nullable(tc.in); got != tc.want {
				t.Errorf("Nullable(%s) = %v, want %v", Print(tc.in), got, tc.want)
			}
		})
	}
}

// chain builds a left-deep concatenation of n symbols; the walkers
// have to survive trees far deeper than any sane stack budget.
func chain(n int) Regex {
	r := sym("a")
	for i := 1; i < n; i++ {
		r = cat(r, sym("a"))
	}
	return r
}

func TestDeepTrees(t *testing.T) {
	const n = 200000
	deep := chain(n)
	if got := Len(deep); got != n {
		t.Errorf("Len = %d, want %d", got, n)
	}
	if got := Size(deep); got != 2*n-1 {
		t.Errorf("Size = %d, want %d", got, 2*n-1)
	}
	if got := StarHeight(deep); got != 0 {
		t.Errorf("StarHeight = %d, want 0", got)
	}
	if !Equal(deep, chain(n)) {
		t.Error("deep equality failed")
	}
	if Fingerprint(deep) != Fingerprint(chain(n)) {
		t.Error("deep fingerprint unstable")
	}
	w := catw(deep, pow(sym("b")))
	if got := LenOmega(w); got != n+1 {
		t.Errorf("LenOmega = %d, want %d", got, n+1)
	}
}
