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

package solver

import (
	"fmt"
	"strings"

	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/oregex"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

// Strategy selects how the automaton for a formula is built and
// which acceptance labeling the synthesizer sees.
type Strategy uint8

const (
	// StateDirect asks the toolkit for a state-labeled automaton.
	StateDirect Strategy = iota
	// TransitionOnly asks for a transition-labeled automaton.
	TransitionOnly
	// TransitionToState asks for a transition-labeled automaton and
	// converts the acceptance onto states before synthesis.
	TransitionToState
	// TransitionSelection synthesizes both the transition-labeled
	// and the directly state-labeled automaton and keeps the smaller
	// expression.
	TransitionSelection
	// TransitionSelection2 is TransitionSelection with the second
	// candidate built by conversion instead of direct translation.
	TransitionSelection2
)

func (s Strategy) String() string {
	switch s {
	case StateDirect:
		return "state_direct"
	case TransitionOnly:
		return "transition_only"
	case TransitionToState:
		return "transition_to_state"
	case TransitionSelection:
		return "transition_selection"
	case TransitionSelection2:
		return "transition_selection2"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// Method is one evaluation strategy from the benchmark set. The
// simplify variants run the simplifier as a third stage; the plain
// variants skip it and report zero simplification time.
type Method struct {
	Strategy	Strategy
	Simplify	bool
}

func (m Method) String() string {
	if m.Simplify {
		return "simplify_" + m.Strategy.String()
	}
	return m.Strategy.String()
}

// ParseMethod parses a method name such as "transition_only" or
// "simplify_transition_selection".
func ParseMethod(s string) (Method, error) {
	var m Method
	name, ok := strings.CutPrefix(s, "simplify_")
	m.Simplify = ok
	switch name {
	case "state_direct":
		m.Strategy = StateDirect
	case "transition_only":
		m.Strategy = TransitionOnly
	case "transition_to_state":
		m.Strategy = TransitionToState
	case "transition_selection":
		m.Strategy = TransitionSelection
	case "transition_selection2":
		m.Strategy = TransitionSelection2
	default:
		return Method{}, fmt.Errorf("solver: unknown method %q", s)
	}
	return m, nil
}

// UsesMode reports whether the intra-graph solver mode changes the
// method's behavior. state_direct always runs the elimination path.
func (m Method) UsesMode() bool { return m.Strategy != StateDirect }

// Selective reports whether the method synthesizes several candidates
// and records which one it kept.
func (m Method) Selective() bool { return len(m.candidates()) > 1 }

// ColumnPrefix is the report column prefix for this method: the name
// alone, or the name plus the mode where the mode matters.
func (m Method) ColumnPrefix(mode synth.Mode) string {
	if !m.UsesMode() {
		return m.String()
	}
	return m.String() + " " + mode.String()
}

// candSpec describes one automaton construction route: the labeling
// requested from the toolkit, converted to state acceptance or not.
type candSpec struct {
	label	string
	kind	nba.Labeling
	convert	bool
}

func (m Method) candidates() []candSpec {
	switch m.Strategy {
	case StateDirect:
		return []candSpec{{"state", nba.LabelState, false}}
	case TransitionOnly:
		return []candSpec{{"transition", nba.LabelTransition, false}}
	case TransitionToState:
		return []candSpec{{"state", nba.LabelTransition, true}}
	case TransitionSelection:
		return []candSpec{
			{"transition", nba.LabelTransition, false},
			{"state", nba.LabelState, false},
		}
	case TransitionSelection2:
		return []candSpec{
			{"transition", nba.LabelTransition, false},
			{"state", nba.LabelTransition, true},
		}
	}
	return nil
}

// DefaultMethods is the benchmark method set, in report order.
func DefaultMethods() []Method {
	return []Method{
		{Strategy: StateDirect, Simplify: true},
		{Strategy: StateDirect},
		{Strategy: TransitionSelection},
		{Strategy: TransitionSelection, Simplify: true},
		{Strategy: TransitionToState},
		{Strategy: TransitionToState, Simplify: true},
		{Strategy: TransitionOnly},
		{Strategy: TransitionOnly, Simplify: true},
	}
}

// Metric identifies an expression metric.
type Metric uint8

const (
	// Length is the timeline length of the expression.
	Length Metric = iota
	// Size is the node count.
	Size
	// StarHeight is the deepest star nesting.
	StarHeight
)

func (m Metric) String() string {
	switch m {
	case Length:
		return "length"
	case Size:
		return "size"
	case StarHeight:
		return "starheight"
	}
	return fmt.Sprintf("metric(%d)", uint8(m))
}

// ParseMetric parses a metric name.
func ParseMetric(s string) (Metric, error) {
	switch s {
	case "length":
		return Length, nil
	case "size":
		return Size, nil
	case "starheight":
		return StarHeight, nil
	}
	return 0, fmt.Errorf("solver: unknown metric %q", s)
}

// Measure computes the metric on w.
func (m Metric) Measure(w oregex.OmegaRegex) int {
	switch m {
	case Length:
		return oregex.LenOmega(w)
	case Size:
		return oregex.SizeOmega(w)
	case StarHeight:
		return oregex.StarHeightOmega(w)
	}
	return 0
}

// DefaultMetrics is the benchmark metric set, in report order.
func DefaultMetrics() []Metric {
	return []Metric{Length, Size, StarHeight}
}
