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
	"fmt"
	"io"
	"strings"
)

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// WriteDOT writes the automaton in Graphviz dot form. Accepting
// states are drawn as double circles; transition marks are appended
// to the edge labels.
func (a *Automaton) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprint(w, "digraph nba {\n\trankdir=LR;\n\tinit [shape=point];\n"); err != nil {
		return err
	}
	for q := range a.states {
		st := &a.states[q]
		if st.dead {
			continue
		}
		label := st.name
		if label == "" {
			label = fmt.Sprintf("%d", q)
		}
		shape := "circle"
		if a.Label == LabelState && !st.marks.Empty() {
			shape = "doublecircle"
		}
		if _, err := fmt.Fprintf(w, "\ts%d [shape=%s; label=\"%s\"];\n", q, shape, dotEscaper.Replace(label)); err != nil {
			return err
		}
	}
	if a.Alive(a.Init) {
		if _, err := fmt.Fprintf(w, "\tinit -> s%d;\n", a.Init); err != nil {
			return err
		}
	}
	for i := range a.trans {
		if a.tdead[i] {
			continue
		}
		t := &a.trans[i]
		label := t.Guard
		if !t.Marks.Empty() {
			label += " " + t.Marks.String()
		}
		if _, err := fmt.Fprintf(w, "\ts%d -> s%d [label=\"%s\"];\n", t.Src, t.Dst, dotEscaper.Replace(label)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprint(w, "}\n")
	return err
}

// WriteBA writes the automaton in the BA exchange format consumed by
// RABIT-style equivalence checkers: the initial state, one labeled
// transition per line, then the accepting states. The format carries
// state acceptance only.
func (a *Automaton) WriteBA(w io.Writer) error {
	if a.Label != LabelState {
		return fmt.Errorf("%w: ba format needs state-labeled acceptance", ErrUnsupportedAcceptance)
	}
	if _, err := fmt.Fprintf(w, "[%d]\n", a.Init); err != nil {
		return err
	}
	for _, t := range a.Transitions() {
		if _, err := fmt.Fprintf(w, "%s,[%d]->[%d]\n", t.Guard, t.Src, t.Dst); err != nil {
			return err
		}
	}
	for q := range a.states {
		if a.states[q].dead || a.states[q].marks.Empty() {
			continue
		}
		if _, err := fmt.Fprintf(w, "[%d]\n", q); err != nil {
			return err
		}
	}
	return nil
}
