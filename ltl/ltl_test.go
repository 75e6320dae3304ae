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

package ltl

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/pertcj/nba-expression-synthesis/compr"
)

const corpus = `% benchmark set
G(a -> Fb)

LTLSPEC G a
  LTLSPEC   F b
LTLSPEC
GF a
`

var corpusFormulas = []string{"G(a -> Fb)", "G a", "F b", "GF a"}

func TestRead(t *testing.T) {
	got, err := Read(strings.NewReader(corpus))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, corpusFormulas) {
		t.Fatalf("got %q, want %q", got, corpusFormulas)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "corpus.ltl")
	if err := os.WriteFile(plain, []byte(corpus), 0644); err != nil {
		t.Fatal(err)
	}
	packed := filepath.Join(dir, "corpus.ltl.gz")
	w, err := compr.Create(packed)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(corpus)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	for _, path := range []string{plain, packed} {
		got, err := Load(path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if !reflect.DeepEqual(got, corpusFormulas) {
			t.Fatalf("%s: got %q, want %q", path, got, corpusFormulas)
		}
	}
}

func TestTokenLen(t *testing.T) {
	cases := []struct {
		formula	string
		want	int
	}{
		{"", 0},
		{"a", 1},
		{"GF a", 2},
		{"a U b", 3},
		{"a | b", 3},
		{"!a & X b", 5},
		{"G(p1 | p2)", 6},
		{"G(a -> Fb)", 7},
		{"G (req -> F grant)", 8},
	}
	for i := range cases {
		c := &cases[i]
		if got := TokenLen(c.formula); got != c.want {
			t.Errorf("TokenLen(%q) = %d, want %d", c.formula, got, c.want)
		}
	}
}

func TestFilter(t *testing.T) {
	formulas := []string{"a", "G(a -> Fb)", "GF a"}
	keep, lens := Filter(formulas, 3)
	if want := []string{"a", "GF a"}; !reflect.DeepEqual(keep, want) {
		t.Fatalf("kept %q, want %q", keep, want)
	}
	if want := []int{1, 2}; !reflect.DeepEqual(lens, want) {
		t.Fatalf("lengths %v, want %v", lens, want)
	}
	keep, lens = Filter(formulas, -1)
	if !reflect.DeepEqual(keep, formulas) {
		t.Fatalf("negative max dropped formulas: %q", keep)
	}
	if want := []int{1, 7, 2}; !reflect.DeepEqual(lens, want) {
		t.Fatalf("lengths %v, want %v", lens, want)
	}
}
