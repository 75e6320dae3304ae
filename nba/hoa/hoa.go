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

// Package hoa reads and writes the subset of the Hanoi Omega-Automata
// (HOA v1) format that Büchi translators emit: explicit transition
// labels over AP indices, acceptance marks on states or transitions,
// and generalized Büchi acceptance conditions.
//
// Acceptance conditions other than t, f, and conjunctions of Inf(i)
// are rejected with nba.ErrUnsupportedAcceptance. "Acceptance: 0 t"
// is normalized to a single set every transition (or state) belongs
// to, and "f" to a single set nothing belongs to, so downstream code
// always sees at least one acceptance set.
package hoa

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/pertcj/nba-expression-synthesis/guard"
	"github.com/pertcj/nba-expression-synthesis/nba"
)

var hoaLexer = lexer.MustSimple([]lexer.SimpleRule{
	{"Comment", `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{"BodyMark", `--BODY--`},
	{"EndMark", `--END--`},
	{"HeaderName", `[a-zA-Z_][0-9a-zA-Z_-]*:`},
	{"String", `"(\\"|\\\\|[^"])*"`},
	{"Int", `\d+`},
	{"Ident", `[a-zA-Z_][0-9a-zA-Z_-]*`},
	{"Punct", `[\[\](){}&|!]`},
	{"Whitespace", `[ \t\r\n]+`},
})

type hoaFile struct {
	Version	string		`parser:"'HOA:' @Ident"`
	Headers	[]*header	`parser:"@@* '--BODY--'"`
	States	[]*stateBlock	`parser:"@@* '--END--'"`
}

type header struct {
	Name	string		`parser:"@HeaderName"`
	Values	[]string	`parser:"( @Ident | @Int | @String | @Punct )*"`
}

type stateBlock struct {
	ID	int		`parser:"'State:' @Int"`
	Name	*string		`parser:"@String?"`
	Marks	[]int		`parser:"( '{' @Int* '}' )?"`
	Edges	[]*edgeLine	`parser:"@@*"`
}

type edgeLine struct {
	Label	*labelExpr	`parser:"'[' @@ ']'"`
	Dst	int		`parser:"@Int"`
	Marks	[]int		`parser:"( '{' @Int* '}' )?"`
}

type labelExpr struct {
	Left	*labelAnd	`parser:"@@"`
	Rest	[]*labelAnd	`parser:"( '|' @@ )*"`
}

type labelAnd struct {
	Left	*labelNot	`parser:"@@"`
	Rest	[]*labelNot	`parser:"( '&' @@ )*"`
}

type labelNot struct {
	Neg	*labelNot	`parser:"'!' @@"`
	Atom	*labelAtom	`parser:"| @@"`
}

type labelAtom struct {
	True	bool		`parser:"@'t'"`
	False	bool		`parser:"| @'f'"`
	AP	*int		`parser:"| @Int"`
	Sub	*labelExpr	`parser:"| '(' @@ ')'"`
}

var parser = participle.MustBuild[hoaFile](
	participle.Lexer(hoaLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
)

// Read parses one HOA automaton from r.
func Read(r io.Reader) (*nba.Automaton, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(src))
}

// Parse parses one HOA automaton from src.
func Parse(src string) (*nba.Automaton, error) {
	f, err := parser.ParseString("", src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", nba.ErrMalformedAutomaton, err)
	}
	if f.Version != "v1" {
		return nil, fmt.Errorf("%w: HOA version %q", nba.ErrMalformedAutomaton, f.Version)
	}
	h, err := analyzeHeaders(f.Headers)
	if err != nil {
		return nil, err
	}
	return build(f, h)
}

// acceptance condition shapes after analysis
const (
	accBuchi	= iota	// conjunction of Inf(i) over every declared set
	accAll			// t: every run accepts
	accNone			// f: no run accepts
)

type fileHeader struct {
	states	int
	start	int
	aps	[]string
	sets	int
	shape	int
	accText	string
	name	string
	props	[]string

	hasStates	bool
	hasStart	bool
	hasAcc		bool
}

func analyzeHeaders(headers []*header) (*fileHeader, error) {
	h := &fileHeader{start: -1}
	for _, hd := range headers {
		switch hd.Name {
		case "States:":
			if h.hasStates || len(hd.Values) != 1 {
				return nil, fmt.Errorf("%w: bad States header %v", nba.ErrMalformedAutomaton, hd.Values)
			}
			n, err := strconv.Atoi(hd.Values[0])
			if err != nil {
				return nil, fmt.Errorf("%w: States count %q", nba.ErrMalformedAutomaton, hd.Values[0])
			}
			h.states = n
			h.hasStates = true
		case "Start:":
			if h.hasStart {
				return nil, fmt.Errorf("%w: multiple Start headers", nba.ErrMalformedAutomaton)
			}
			if len(hd.Values) != 1 {
				return nil, fmt.Errorf("%w: one initial state expected, got %v", nba.ErrMalformedAutomaton, hd.Values)
			}
			n, err := strconv.Atoi(hd.Values[0])
			if err != nil {
				return nil, fmt.Errorf("%w: initial state %q", nba.ErrMalformedAutomaton, hd.Values[0])
			}
			h.start = n
			h.hasStart = true
		case "AP:":
			if len(hd.Values) == 0 {
				return nil, fmt.Errorf("%w: empty AP header", nba.ErrMalformedAutomaton)
			}
			n, err := strconv.Atoi(hd.Values[0])
			if err != nil || n != len(hd.Values)-1 {
				return nil, fmt.Errorf("%w: AP header declares %s propositions, lists %d", nba.ErrMalformedAutomaton, hd.Values[0], len(hd.Values)-1)
			}
			h.aps = hd.Values[1:]
		case "Acceptance:":
			if h.hasAcc || len(hd.Values) == 0 {
				return nil, fmt.Errorf("%w: bad Acceptance header", nba.ErrMalformedAutomaton)
			}
			n, err := strconv.Atoi(hd.Values[0])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: acceptance set count %q", nba.ErrMalformedAutomaton, hd.Values[0])
			}
			h.sets = n
			h.accText = strings.Join(hd.Values[1:], "")
			shape, err := acceptanceShape(hd.Values[1:], n)
			if err != nil {
				return nil, err
			}
			h.shape = shape
			h.hasAcc = true
		case "name:":
			if len(hd.Values) == 1 {
				h.name = hd.Values[0]
			}
		case "properties:":
			h.props = append(h.props, hd.Values...)
		case "acc-name:", "tool:":
			// informative only; Acceptance: is authoritative
		case "Alias:":
			return nil, fmt.Errorf("%w: aliases", nba.ErrMalformedAutomaton)
		default:
			// HOA reserves capitalized headers for semantics a reader
			// must understand
			if hd.Name[0] >= 'A' && hd.Name[0] <= 'Z' {
				return nil, fmt.Errorf("%w: header %q", nba.ErrMalformedAutomaton, hd.Name)
			}
		}
	}
	if !h.hasStates {
		return nil, fmt.Errorf("%w: missing States header", nba.ErrMalformedAutomaton)
	}
	if !h.hasStart {
		return nil, fmt.Errorf("%w: missing Start header", nba.ErrMalformedAutomaton)
	}
	if !h.hasAcc {
		return nil, fmt.Errorf("%w: missing Acceptance header", nba.ErrMalformedAutomaton)
	}
	return h, nil
}

func build(f *hoaFile, h *fileHeader) (*nba.Automaton, error) {
	stateMarks, edgeMarks := false, false
	for _, s := range f.States {
		if len(s.Marks) > 0 {
			stateMarks = true
		}
		for _, e := range s.Edges {
			if len(e.Marks) > 0 {
				edgeMarks = true
			}
		}
	}
	if stateMarks && edgeMarks {
		return nil, fmt.Errorf("%w: acceptance marks on both states and transitions", nba.ErrMalformedAutomaton)
	}
	label := nba.LabelTransition
	if stateMarks {
		label = nba.LabelState
	}
	for _, p := range h.props {
		if p == "state-acc" {
			label = nba.LabelState
		}
	}

	// t and f have no marks in the body; both normalize to one set
	sets := h.sets
	if h.shape != accBuchi {
		sets = 1
	}

	a := nba.New(label, sets, h.aps)
	a.Name = h.name
	a.Props = h.props
	for i := 0; i < h.states; i++ {
		a.AddState("")
	}
	if h.start < 0 || h.start >= h.states {
		return nil, fmt.Errorf("%w: initial state %d of %d", nba.ErrMalformedAutomaton, h.start, h.states)
	}
	a.Init = nba.StateID(h.start)

	seen := make([]bool, h.states)
	for _, s := range f.States {
		if s.ID < 0 || s.ID >= h.states {
			return nil, fmt.Errorf("%w: state %d of %d", nba.ErrMalformedAutomaton, s.ID, h.states)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: state %d defined twice", nba.ErrMalformedAutomaton, s.ID)
		}
		seen[s.ID] = true
		src := nba.StateID(s.ID)

		var marks nba.Marks
		switch {
		case h.shape == accAll && label == nba.LabelState:
			marks = nba.MarksOf(0)
		case len(s.Marks) > 0:
			if label != nba.LabelState {
				return nil, fmt.Errorf("%w: state %d carries marks in a transition-labeled automaton", nba.ErrMalformedAutomaton, s.ID)
			}
			marks = nba.MarksOf(s.Marks...)
		}
		if err := a.MarkState(src, marks); err != nil {
			return nil, err
		}

		for _, e := range s.Edges {
			g, err := convLabel(e.Label, h.aps)
			if err != nil {
				return nil, err
			}
			if e.Dst < 0 || e.Dst >= h.states {
				return nil, fmt.Errorf("%w: transition %d->%d of %d states", nba.ErrMalformedAutomaton, s.ID, e.Dst, h.states)
			}
			var marks nba.Marks
			switch {
			case h.shape == accAll && label == nba.LabelTransition:
				marks = nba.MarksOf(0)
			case len(e.Marks) > 0:
				if label != nba.LabelTransition {
					return nil, fmt.Errorf("%w: transition %d->%d carries marks in a state-labeled automaton", nba.ErrMalformedAutomaton, s.ID, e.Dst)
				}
				marks = nba.MarksOf(e.Marks...)
			}
			if err := a.AddEdge(src, nba.StateID(e.Dst), guard.String(g), marks); err != nil {
				return nil, err
			}
		}
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("%w: state %d has no definition", nba.ErrMalformedAutomaton, i)
		}
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// acceptance formulas

type accNode struct {
	op	byte	// 'I', 'F', 't', 'f', '&', '|'
	set	int
	l, r	*accNode
}

type accParser struct {
	toks	[]string
	pos	int
}

func (p *accParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *accParser) expect(tok string) error {
	if p.peek() != tok {
		return fmt.Errorf("%w: acceptance condition: %q where %q expected", nba.ErrMalformedAutomaton, p.peek(), tok)
	}
	p.pos++
	return nil
}

func (p *accParser) or() (*accNode, error) {
	l, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.peek() == "|" {
		p.pos++
		r, err := p.and()
		if err != nil {
			return nil, err
		}
		l = &accNode{op: '|', l: l, r: r}
	}
	return l, nil
}

func (p *accParser) and() (*accNode, error) {
	l, err := p.atom()
	if err != nil {
		return nil, err
	}
	for p.peek() == "&" {
		p.pos++
		r, err := p.atom()
		if err != nil {
			return nil, err
		}
		l = &accNode{op: '&', l: l, r: r}
	}
	return l, nil
}

func (p *accParser) atom() (*accNode, error) {
	switch tok := p.peek(); tok {
	case "t", "f":
		p.pos++
		return &accNode{op: tok[0]}, nil
	case "Inf", "Fin":
		p.pos++
		if err := p.expect("("); err != nil {
			return nil, err
		}
		if p.peek() == "!" {
			// negated-set atoms are co-Büchi flavored, never
			// generalized Büchi
			return nil, fmt.Errorf("%w: %s over a negated set", nba.ErrUnsupportedAcceptance, tok)
		}
		set, err := strconv.Atoi(p.peek())
		if err != nil {
			return nil, fmt.Errorf("%w: acceptance set %q", nba.ErrMalformedAutomaton, p.peek())
		}
		p.pos++
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		op := byte('I')
		if tok == "Fin" {
			op = 'F'
		}
		return &accNode{op: op, set: set}, nil
	case "(":
		p.pos++
		n, err := p.or()
		if err != nil {
			return nil, err
		}
		if err := p.expect(")"); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: acceptance condition token %q", nba.ErrMalformedAutomaton, tok)
	}
}

// acceptanceShape parses the condition tokens and decides whether the
// condition is generalized Büchi. Inf atoms must jointly cover every
// declared set; Fin, disjunction, and negated sets are unsupported.
func acceptanceShape(toks []string, sets int) (int, error) {
	p := &accParser{toks: toks}
	n, err := p.or()
	if err != nil {
		return 0, err
	}
	if p.pos != len(toks) {
		return 0, fmt.Errorf("%w: trailing acceptance tokens %v", nba.ErrMalformedAutomaton, toks[p.pos:])
	}
	switch n.op {
	case 't':
		return accAll, nil
	case 'f':
		return accNone, nil
	}
	covered := make([]bool, sets)
	if !infConjunction(n, covered) {
		return 0, fmt.Errorf("%w: %s", nba.ErrUnsupportedAcceptance, strings.Join(toks, ""))
	}
	for set, ok := range covered {
		if !ok {
			return 0, fmt.Errorf("%w: set %d never required", nba.ErrUnsupportedAcceptance, set)
		}
	}
	return accBuchi, nil
}

func infConjunction(n *accNode, covered []bool) bool {
	switch n.op {
	case '&':
		return infConjunction(n.l, covered) && infConjunction(n.r, covered)
	case 'I':
		if n.set < 0 || n.set >= len(covered) {
			return false
		}
		covered[n.set] = true
		return true
	}
	return false
}

// labels

func convLabel(e *labelExpr, aps []string) (guard.Expr, error) {
	out, err := convLabelAnd(e.Left, aps)
	if err != nil {
		return nil, err
	}
	for _, a := range e.Rest {
		r, err := convLabelAnd(a, aps)
		if err != nil {
			return nil, err
		}
		out = &guard.Or{Left: out, Right: r}
	}
	return out, nil
}

func convLabelAnd(e *labelAnd, aps []string) (guard.Expr, error) {
	out, err := convLabelNot(e.Left, aps)
	if err != nil {
		return nil, err
	}
	for _, n := range e.Rest {
		r, err := convLabelNot(n, aps)
		if err != nil {
			return nil, err
		}
		out = &guard.And{Left: out, Right: r}
	}
	return out, nil
}

func convLabelNot(e *labelNot, aps []string) (guard.Expr, error) {
	if e.Neg != nil {
		x, err := convLabelNot(e.Neg, aps)
		if err != nil {
			return nil, err
		}
		return &guard.Not{X: x}, nil
	}
	return convLabelAtom(e.Atom, aps)
}

func convLabelAtom(e *labelAtom, aps []string) (guard.Expr, error) {
	switch {
	case e.True:
		return &guard.True{}, nil
	case e.False:
		return &guard.False{}, nil
	case e.AP != nil:
		i := *e.AP
		if i < 0 || i >= len(aps) {
			return nil, fmt.Errorf("%w: label references proposition %d of %d", nba.ErrMalformedAutomaton, i, len(aps))
		}
		return &guard.AP{Name: aps[i], Index: i}, nil
	default:
		return convLabel(e.Sub, aps)
	}
}
