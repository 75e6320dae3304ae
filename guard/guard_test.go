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

package guard

import (
	"fmt"
	"strings"
	"testing"
)

func TestParseString(t *testing.T) {
	testcases := []struct {
		in	string
		want	string
	}{
		{"a", "a"},
		{"t", "t"},
		{"f", "f"},
		{"1", "t"},
		{"0", "f"},
		{"!a", "!a"},
		{"!!a", "!!a"},
		{"a & b", "a & b"},
		{"a&b&c", "a & b & c"},
		{"a | b", "a | b"},
		{"a & b | c", "a & b | c"},
		{"a & (b | c)", "a & (b | c)"},
		{"(a | b) & !c", "(a | b) & !c"},
		{"!(a & b)", "!(a & b)"},
		{"\"spin_p0\" & a", "spin_p0 & a"},
		{"\"x y\" | a", "\"x y\" | a"},
		{"\"t\"", "\"t\""}, // a proposition named t is not the constant
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			e, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.in, err)
			}
			if got := String(e); got != tc.want {
				t.Errorf("String(parse %q) = %q, want %q", tc.in, got, tc.want)
			}
			// the printed form must parse back to the same text
			again, err := Parse(String(e))
			if err != nil {
				t.Fatalf("reparse %q: %v", String(e), err)
			}
			if String(again) != tc.want {
				t.Errorf("reparse changed %q to %q", tc.want, String(again))
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{"", "a &", "& a", "(a", "a b", "2", "a | 37"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) succeeded, want error", bad)
		}
	}
}

func TestEval(t *testing.T) {
	letter := map[string]bool{"a": true, "b": false, "c": true}
	testcases := []struct {
		in	string
		want	bool
	}{
		{"t", true},
		{"f", false},
		{"a", true},
		{"b", false},
		{"d", false}, // unknown propositions are false
		{"!b", true},
		{"a & b", false},
		{"a & c", true},
		{"a | b", true},
		{"b | !c", false},
		{"!(a & b) & c", true},
		{"a & !b & c", true},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			e, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.in, err)
			}
			if got := Eval(e, letter); got != tc.want {
				t.Errorf("Eval(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAtoms(t *testing.T) {
	e, err := Parse("b & (a | !c) & b")
	if err != nil {
		t.Fatal(err)
	}
	got := Atoms(e)
	want := []string{"a", "b", "c"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Atoms = %v, want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	aps := []string{"p", "q"}
	e := &And{
		Left:	&AP{Index: 0},
		Right:	&Not{X: &AP{Index: 1}},
	}
	got, err := Render(e, aps)
	if err != nil {
		t.Fatal(err)
	}
	if got != "p & !q" {
		t.Errorf("Render = %q, want %q", got, "p & !q")
	}
	if _, err := Render(&AP{Index: 5}, aps); err == nil {
		t.Error("out of range index rendered without error")
	}
}

func TestRenderHOA(t *testing.T) {
	idx := map[string]int{"p": 0, "q": 1}
	testcases := []struct {
		in	string
		want	string
	}{
		{"p", "0"},
		{"!q", "!1"},
		{"p & !q", "0&!1"},
		{"p | q & p", "0 | 1&0"},
		{"(p | q) & p", "(0 | 1)&0"},
		{"t", "t"},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			e, err := Parse(tc.in)
			if err != nil {
				t.Fatalf("parse %q: %v", tc.in, err)
			}
			got, err := RenderHOA(e, idx)
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("RenderHOA(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
	if _, err := RenderHOA(&AP{Name: "zz", Index: -1}, idx); err == nil {
		t.Error("unknown proposition rendered without error")
	}
}
