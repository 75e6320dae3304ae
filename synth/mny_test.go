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
	"errors"
	"testing"

	"github.com/pertcj/nba-expression-synthesis/oregex"
)

func TestQueryFilterAppliesAtStartOnly(t *testing.T) {
	a := buildTBA(t, 2, 0, []tedge{
		{0, 1, "a", true},
		{0, 1, "b", false},
		{1, 0, "c", true},
	})
	table := newMnyTable(a, &builder{})
	ctx := context.Background()

	got, err := table.query(ctx, 0, 1, filterNonacc)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	// the accepting edge out of the start is filtered away
	if want := "(b)"; oregex.Print(got) != want {
		t.Errorf("got %q, want %q", oregex.Print(got), want)
	}

	got, err = table.query(ctx, 1, 1, filterAcc)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	// only the first transition is filtered: the nonaccepting
	// edge b may still close the cycle
	if want := "((c)((a)|(b)))"; oregex.Print(got) != want {
		t.Errorf("got %q, want %q", oregex.Print(got), want)
	}
}

func TestQueryCycleThroughStart(t *testing.T) {
	a := buildTBA(t, 2, 0, []tedge{
		{0, 1, "a", true},
		{1, 0, "b", false},
	})
	table := newMnyTable(a, &builder{})
	ctx := context.Background()

	cases := []struct {
		start, end	int32
		f		filter
		want		string
	}{
		// the cycle at 0 may revisit 0 through intermediate
		// tabulation levels, hence the inner loop
		{0, 0, filterAcc, "((a)((((b)(a)))*(b)))"},
		{0, 1, filterNone, "(a)"},
		{1, 0, filterNone, "((((b)(a)))*(b))"},
	}
	for i := range cases {
		tc := &cases[i]
		got, err := table.query(ctx, tc.start, tc.end, tc.f)
		if err != nil {
			t.Fatalf("case %d: query: %v", i, err)
		}
		if oregex.Print(got) != tc.want {
			t.Errorf("case %d: got %q, want %q", i, oregex.Print(got), tc.want)
		}
	}

	got, err := table.query(ctx, 0, 0, filterNonacc)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got != nil {
		t.Errorf("nonaccepting cycle should be absent, got %q", oregex.Print(got))
	}
}

func TestQueryNoPath(t *testing.T) {
	a := buildTBA(t, 2, 0, []tedge{
		{1, 0, "a", false},
	})
	table := newMnyTable(a, &builder{})
	got, err := table.query(context.Background(), 0, 1, filterNone)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if got != nil {
		t.Errorf("got %q, want no path", oregex.Print(got))
	}
}

func TestQueryBudget(t *testing.T) {
	a := buildTBA(t, 2, 0, []tedge{
		{0, 1, "a", false},
		{1, 0, "b", false},
	})
	table := newMnyTable(a, &builder{max: 1})
	_, err := table.query(context.Background(), 0, 0, filterNone)
	if !errors.Is(err, ErrBudget) {
		t.Errorf("got %v, want %v", err, ErrBudget)
	}
}
