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

// Package nba models nondeterministic generalized Büchi automata over
// guard-labeled transitions.
//
// States and transitions live in flat arena slices addressed by stable
// integer ids. Removing a state marks its slot and its incident
// transitions dead; ids held elsewhere stay valid and iteration skips
// dead slots. Guards are opaque text throughout; only the lasso
// checker interprets them.
package nba

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAutomaton reports an automaton violating a structural
	// invariant: a transition endpoint outside the arena, an acceptance
	// mark outside the declared sets, or a missing initial state.
	ErrMalformedAutomaton = errors.New("malformed automaton")

	// ErrUnsupportedAcceptance reports an acceptance condition outside
	// generalized Büchi.
	ErrUnsupportedAcceptance = errors.New("unsupported acceptance condition")

	// ErrAmbiguousAcceptance reports acceptance semantics the classifier
	// cannot decide, such as an automaton declaring no acceptance sets.
	// Well-formed inputs never trigger it.
	ErrAmbiguousAcceptance = errors.New("ambiguous acceptance semantics")
)

// StateID identifies a state in the automaton arena.
type StateID int32

// NoState is the id of no state, used before an initial state is set.
const NoState StateID = -1

// Labeling says where acceptance marks attach. It is a tag on the
// automaton, not a subtype: elimination differs structurally for the
// two labelings but the graph representation is shared.
type Labeling uint8

const (
	// LabelTransition attaches acceptance marks to transitions.
	LabelTransition Labeling = iota
	// LabelState attaches acceptance marks to states.
	LabelState
)

func (l Labeling) String() string {
	if l == LabelState {
		return "state"
	}
	return "transition"
}

// Transition is one guard-labeled edge. Marks is populated for
// transition-labeled automata and empty otherwise.
type Transition struct {
	Src	StateID
	Dst	StateID
	Guard	string
	Marks	Marks
}

type state struct {
	name	string
	marks	Marks
	out	[]int32
	in	[]int32
	dead	bool
}

// Automaton is a nondeterministic generalized Büchi automaton. A run
// is accepting iff it visits every acceptance set infinitely often.
type Automaton struct {
	Name	string
	Label	Labeling
	Sets	int
	APs	[]string
	Props	[]string
	Init	StateID

	states	[]state
	trans	[]Transition
	tdead	[]bool
	live	int
	tlive	int
}

// New returns an empty automaton with the given labeling, acceptance
// set count, and atomic propositions.
func New(label Labeling, sets int, aps []string) *Automaton {
	return &Automaton{
		Label:	label,
		Sets:	sets,
		APs:	aps,
		Init:	NoState,
	}
}

// AddState appends a state and returns its id.
func (a *Automaton) AddState(name string) StateID {
	a.states = append(a.states, state{name: name})
	a.live++
	return StateID(len(a.states) - 1)
}

// Len returns the state arena size, counting removed slots. Valid ids
// are 0 through Len()-1.
func (a *Automaton) Len() int { return len(a.states) }

// Alive reports whether q is a live state.
func (a *Automaton) Alive(q StateID) bool {
	return q >= 0 && int(q) < len(a.states) && !a.states[q].dead
}

// StateName returns the name of q, possibly empty.
func (a *Automaton) StateName(q StateID) string { return a.states[q].name }

// StateMarks returns the acceptance marks of q. Populated for
// state-labeled automata.
func (a *Automaton) StateMarks(q StateID) Marks { return a.states[q].marks }

// MarkState sets the acceptance marks of q.
func (a *Automaton) MarkState(q StateID, m Marks) error {
	if !a.Alive(q) {
		return fmt.Errorf("%w: marking state %d outside the automaton", ErrMalformedAutomaton, q)
	}
	if hi := m.Max(); hi >= a.Sets {
		return fmt.Errorf("%w: state %d mark %d outside %d acceptance sets", ErrMalformedAutomaton, q, hi, a.Sets)
	}
	a.states[q].marks = m
	return nil
}

// AddEdge adds a transition. It fails when an endpoint is not a live
// state or a mark falls outside the declared sets.
func (a *Automaton) AddEdge(src, dst StateID, guard string, m Marks) error {
	if !a.Alive(src) || !a.Alive(dst) {
		return fmt.Errorf("%w: transition %d->%d references a state outside the automaton", ErrMalformedAutomaton, src, dst)
	}
	if hi := m.Max(); hi >= a.Sets {
		return fmt.Errorf("%w: transition %d->%d mark %d outside %d acceptance sets", ErrMalformedAutomaton, src, dst, hi, a.Sets)
	}
	id := int32(len(a.trans))
	a.trans = append(a.trans, Transition{Src: src, Dst: dst, Guard: guard, Marks: m})
	a.tdead = append(a.tdead, false)
	a.states[src].out = append(a.states[src].out, id)
	a.states[dst].in = append(a.states[dst].in, id)
	a.tlive++
	return nil
}

// RemoveState marks q and its incident transitions dead. Ids held by
// callers stay valid; iteration skips dead slots.
func (a *Automaton) RemoveState(q StateID) {
	if !a.Alive(q) {
		return
	}
	for _, t := range a.states[q].out {
		if !a.tdead[t] {
			a.tdead[t] = true
			a.tlive--
		}
	}
	for _, t := range a.states[q].in {
		if !a.tdead[t] {
			a.tdead[t] = true
			a.tlive--
		}
	}
	a.states[q].dead = true
	a.live--
}

// Out returns the live transitions leaving q in insertion order.
func (a *Automaton) Out(q StateID) []Transition { return a.pick(a.states[q].out) }

// In returns the live transitions entering q in insertion order.
func (a *Automaton) In(q StateID) []Transition { return a.pick(a.states[q].in) }

func (a *Automaton) pick(ids []int32) []Transition {
	out := make([]Transition, 0, len(ids))
	for _, t := range ids {
		if !a.tdead[t] {
			out = append(out, a.trans[t])
		}
	}
	return out
}

// Transitions returns every live transition in insertion order.
func (a *Automaton) Transitions() []Transition {
	out := make([]Transition, 0, a.tlive)
	for i, t := range a.trans {
		if !a.tdead[i] {
			out = append(out, t)
		}
	}
	return out
}

// NumStates returns the number of live states.
func (a *Automaton) NumStates() int { return a.live }

// NumTransitions returns the number of live transitions.
func (a *Automaton) NumTransitions() int { return a.tlive }

// Validate checks the structural invariants: a live initial state,
// live transition endpoints, and acceptance marks inside the declared
// sets.
func (a *Automaton) Validate() error {
	if a.Sets < 0 {
		return fmt.Errorf("%w: negative acceptance set count %d", ErrMalformedAutomaton, a.Sets)
	}
	if !a.Alive(a.Init) {
		return fmt.Errorf("%w: initial state %d is not a live state", ErrMalformedAutomaton, a.Init)
	}
	for i := range a.trans {
		if a.tdead[i] {
			continue
		}
		t := &a.trans[i]
		if !a.Alive(t.Src) || !a.Alive(t.Dst) {
			return fmt.Errorf("%w: transition %d->%d references a removed state", ErrMalformedAutomaton, t.Src, t.Dst)
		}
		if hi := t.Marks.Max(); hi >= a.Sets {
			return fmt.Errorf("%w: transition %d->%d mark %d outside %d acceptance sets", ErrMalformedAutomaton, t.Src, t.Dst, hi, a.Sets)
		}
	}
	for q := range a.states {
		if a.states[q].dead {
			continue
		}
		if hi := a.states[q].marks.Max(); hi >= a.Sets {
			return fmt.Errorf("%w: state %d mark %d outside %d acceptance sets", ErrMalformedAutomaton, q, hi, a.Sets)
		}
	}
	return nil
}

// PruneUnreachable removes every state not reachable from the initial
// state and returns the number removed.
func (a *Automaton) PruneUnreachable() int {
	seen := make([]bool, len(a.states))
	if a.Alive(a.Init) {
		stack := []StateID{a.Init}
		seen[a.Init] = true
		for len(stack) > 0 {
			q := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, t := range a.states[q].out {
				if a.tdead[t] {
					continue
				}
				if d := a.trans[t].Dst; !seen[d] {
					seen[d] = true
					stack = append(stack, d)
				}
			}
		}
	}
	removed := 0
	for q := range a.states {
		if !a.states[q].dead && !seen[q] {
			a.RemoveState(StateID(q))
			removed++
		}
	}
	return removed
}

// Stats summarizes an automaton for reporting.
type Stats struct {
	States		int
	Accepting	int
	Transitions	int
	Deterministic	bool
}

// Stats returns live-state statistics. The accepting count follows
// the labeling: marked states under state labeling, sources of marked
// transitions under transition labeling.
func (a *Automaton) Stats() Stats {
	var s Stats
	s.States = a.live
	s.Transitions = a.tlive
	s.Deterministic = a.Deterministic()
	for q := range a.states {
		st := &a.states[q]
		if st.dead {
			continue
		}
		if a.Label == LabelState {
			if !st.marks.Empty() {
				s.Accepting++
			}
			continue
		}
		for _, t := range st.out {
			if !a.tdead[t] && !a.trans[t].Marks.Empty() {
				s.Accepting++
				break
			}
		}
	}
	return s
}

// Deterministic reports whether the automaton is known to be
// deterministic: either the source declared the property, or every
// state has at most one outgoing transition. Guards are opaque, so
// overlap between them is not analyzed and the answer errs toward
// false.
func (a *Automaton) Deterministic() bool {
	for _, p := range a.Props {
		if p == "deterministic" {
			return true
		}
	}
	for q := range a.states {
		st := &a.states[q]
		if st.dead {
			continue
		}
		n := 0
		for _, t := range st.out {
			if !a.tdead[t] {
				n++
			}
		}
		if n > 1 {
			return false
		}
	}
	return true
}
