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

package hoa

import (
	"fmt"
	"io"

	"github.com/pertcj/nba-expression-synthesis/guard"
	"github.com/pertcj/nba-expression-synthesis/nba"
)

// Write emits a in HOA v1 form. Removed arena slots are skipped and
// the surviving states renumbered densely, so the output of Write fed
// back through Parse yields an equivalent automaton with ids 0..n-1.
func Write(w io.Writer, a *nba.Automaton) error {
	if a.Sets < 1 {
		return fmt.Errorf("%w: %d acceptance sets", nba.ErrAmbiguousAcceptance, a.Sets)
	}
	if err := a.Validate(); err != nil {
		return err
	}

	ord := make([]int, a.Len())
	n := 0
	for q := 0; q < a.Len(); q++ {
		if a.Alive(nba.StateID(q)) {
			ord[q] = n
			n++
		}
	}

	if _, err := io.WriteString(w, "HOA: v1\n"); err != nil {
		return err
	}
	if a.Name != "" {
		if _, err := fmt.Fprintf(w, "name: %q\n", a.Name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "States: %d\n", n); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Start: %d\n", ord[a.Init]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "AP: %d", len(a.APs)); err != nil {
		return err
	}
	for _, name := range a.APs {
		if _, err := fmt.Fprintf(w, " %q", name); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "\nacc-name: %s\n", accName(a.Sets)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Acceptance: %d %s\n", a.Sets, accFormula(a.Sets)); err != nil {
		return err
	}
	props := "trans-labels explicit-labels " + accProp(a)
	if a.Deterministic() {
		props += " deterministic"
	}
	if _, err := fmt.Fprintf(w, "properties: %s\n", props); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "--BODY--\n"); err != nil {
		return err
	}

	idx := make(map[string]int, len(a.APs))
	for i, name := range a.APs {
		idx[name] = i
	}
	for q := 0; q < a.Len(); q++ {
		src := nba.StateID(q)
		if !a.Alive(src) {
			continue
		}
		if _, err := fmt.Fprintf(w, "State: %d", ord[q]); err != nil {
			return err
		}
		if name := a.StateName(src); name != "" {
			if _, err := fmt.Fprintf(w, " %q", name); err != nil {
				return err
			}
		}
		if a.Label == nba.LabelState {
			if err := writeMarks(w, a.StateMarks(src)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
		for _, t := range a.Out(src) {
			g, err := guard.Parse(t.Guard)
			if err != nil {
				return fmt.Errorf("%w: transition %d->%d: %s", nba.ErrMalformedAutomaton, t.Src, t.Dst, err)
			}
			label, err := guard.RenderHOA(g, idx)
			if err != nil {
				return fmt.Errorf("%w: transition %d->%d: %s", nba.ErrMalformedAutomaton, t.Src, t.Dst, err)
			}
			if _, err := fmt.Fprintf(w, "[%s] %d", label, ord[t.Dst]); err != nil {
				return err
			}
			if a.Label == nba.LabelTransition {
				if err := writeMarks(w, t.Marks); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "--END--\n")
	return err
}

func writeMarks(w io.Writer, m nba.Marks) error {
	if m.Empty() {
		return nil
	}
	sep := " {"
	for _, set := range m.Sets() {
		if _, err := fmt.Fprintf(w, "%s%d", sep, set); err != nil {
			return err
		}
		sep = " "
	}
	_, err := io.WriteString(w, "}")
	return err
}

func accName(sets int) string {
	if sets == 1 {
		return "Buchi"
	}
	return fmt.Sprintf("generalized-Buchi %d", sets)
}

func accFormula(sets int) string {
	out := ""
	for i := 0; i < sets; i++ {
		if i > 0 {
			out += "&"
		}
		out += fmt.Sprintf("Inf(%d)", i)
	}
	return out
}

func accProp(a *nba.Automaton) string {
	if a.Label == nba.LabelState {
		return "state-acc"
	}
	return "trans-acc"
}
