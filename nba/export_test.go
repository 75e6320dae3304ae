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
	"errors"
	"strings"
	"testing"
)

func TestWriteBA(t *testing.T) {
	a := New(LabelState, 1, []string{"a"})
	q0 := a.AddState("")
	q1 := a.AddState("")
	a.Init = q0
	if err := a.MarkState(q1, MarksOf(0)); err != nil {
		t.Fatal(err)
	}
	if err := a.AddEdge(q0, q1, "a", Marks{}); err != nil {
		t.Fatal(err)
	}
	if err := a.AddEdge(q1, q1, "a", Marks{}); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := a.WriteBA(&b); err != nil {
		t.Fatal(err)
	}
	want := "[0]\na,[0]->[1]\na,[1]->[1]\n[1]\n"
	if b.String() != want {
		t.Errorf("ba output:\ngot  %q\nwant %q", b.String(), want)
	}
}

func TestWriteBATransitionLabeled(t *testing.T) {
	a := gfa(t)
	if err := a.WriteBA(&strings.Builder{}); !errors.Is(err, ErrUnsupportedAcceptance) {
		t.Errorf("transition labeling: err = %v", err)
	}
}

func TestWriteDOT(t *testing.T) {
	a := gfa(t)
	var b strings.Builder
	if err := a.WriteDOT(&b); err != nil {
		t.Fatal(err)
	}
	out := b.String()
	for _, want := range []string{
		"digraph nba {",
		"init -> s0;",
		"s0 -> s0 [label=\"a {0}\"];",
		"s0 -> s0 [label=\"!a\"];",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dot output misses %q:\n%s", want, out)
		}
	}
}
