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

// Package synth converts nondeterministic Büchi automata into
// omega-regular expressions.
//
// A run accepts iff it takes accepting transitions infinitely often,
// so the language decomposes over anchor states: states with an
// accepting transition back into their own strongly connected
// component. Every anchor f contributes
//
//	prefix(init,f) · $( N(f)* A(f) )
//
// where A(f) and N(f) are the cycle languages at f whose first
// transition is accepting respectively nonaccepting, and the result
// is the union over anchors in ascending state order. Two algorithms
// build the finite fragments: incremental state elimination (BMC) and
// the McNaughton–Yamada tabulation (MNY). They produce different
// expression text for the same language.
//
// Synthesis is sequential and exclusively owns its intermediate
// graphs. Cancellation is polled between state eliminations, so a
// cancelled call returns promptly with the context error.
package synth

import (
	"context"
	"errors"
	"fmt"

	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/oregex"
)

// ErrBudget reports a synthesis that allocated more expression nodes
// than Options.MaxNodes allows.
var ErrBudget = errors.New("expression exceeds the node budget")

// Mode selects the expression construction algorithm.
type Mode uint8

const (
	// ModeBMC eliminates states one by one, folding the incident
	// transitions of the removed state into path expressions.
	ModeBMC Mode = iota
	// ModeMNY tabulates path expressions over a growing set of
	// permitted intermediate states.
	ModeMNY
)

func (m Mode) String() string {
	if m == ModeMNY {
		return "mny"
	}
	return "bmc"
}

// ParseMode maps the textual mode names bmc and mny.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "bmc":
		return ModeBMC, nil
	case "mny":
		return ModeMNY, nil
	}
	return 0, fmt.Errorf("unknown construction mode %q", s)
}

// Options configure a synthesis call.
type Options struct {
	// Mode selects the construction algorithm.
	Mode Mode
	// MaxNodes bounds the number of expression nodes one call may
	// allocate; zero means unbounded.
	MaxNodes int64
}

// accepting reports whether taking t satisfies the acceptance
// condition: a marked transition, or under state labeling a
// transition leaving a marked state.
func accepting(a *nba.Automaton, t nba.Transition) bool {
	if a.Label == nba.LabelState {
		return !a.StateMarks(t.Src).Empty()
	}
	return !t.Marks.Empty()
}

// Synthesize returns an omega-regular expression for the language of
// a. The automaton must have every state reachable; a generalized
// automaton is degeneralized internally, so only conditions outside
// generalized Büchi fail. The expression is returned raw,
// simplification is a separate pass.
func Synthesize(ctx context.Context, a *nba.Automaton, opts Options) (oregex.OmegaRegex, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if opts.Mode != ModeBMC && opts.Mode != ModeMNY {
		return nil, fmt.Errorf("unknown construction mode %d", opts.Mode)
	}
	if a.Sets != 1 {
		d, err := a.Degeneralize()
		if err != nil {
			return nil, err
		}
		a = d
	}
	cls, err := a.Classify()
	if err != nil {
		return nil, err
	}

	// anchors: states with an accepting transition staying inside
	// their component, ascending for deterministic output
	var anchors []nba.StateID
	for q := nba.StateID(0); int(q) < a.Len(); q++ {
		if !a.Alive(q) || !cls.Recurring[cls.Comps.Comp[q]] {
			continue
		}
		for _, t := range a.Out(q) {
			if accepting(a, t) && cls.Comps.Comp[t.Dst] == cls.Comps.Comp[q] {
				anchors = append(anchors, q)
				break
			}
		}
	}

	b := &builder{max: opts.MaxNodes}
	var table *mnyTable
	if opts.Mode == ModeMNY {
		table = newMnyTable(a, b)
	}

	var out oregex.OmegaRegex
	for _, f := range anchors {
		if err := b.poll(ctx); err != nil {
			return nil, err
		}
		var acc, non, prefix oregex.Regex
		switch opts.Mode {
		case ModeBMC:
			g := newGraph(a, b)
			if err := g.eliminate(ctx, int32(f), int32(f)); err != nil {
				return nil, err
			}
			acc, non = g.harvestCycles(int32(f))
			if f != a.Init {
				g = newGraph(a, b)
				if err := g.eliminate(ctx, int32(a.Init), int32(f)); err != nil {
					return nil, err
				}
				prefix = g.harvestPath(int32(a.Init), int32(f))
			}
		case ModeMNY:
			if acc, err = table.query(ctx, int32(f), int32(f), filterAcc); err != nil {
				return nil, err
			}
			if non, err = table.query(ctx, int32(f), int32(f), filterNonacc); err != nil {
				return nil, err
			}
			if f != a.Init {
				if prefix, err = table.query(ctx, int32(a.Init), int32(f), filterNone); err != nil {
					return nil, err
				}
			}
		}
		if acc == nil {
			continue
		}
		cycle := acc
		if non != nil {
			cycle = b.concat(b.star(non), acc)
		}
		var contrib oregex.OmegaRegex = b.omega(cycle)
		if f != a.Init {
			if prefix == nil {
				continue
			}
			contrib = b.omegaConcat(prefix, contrib)
		}
		if out == nil {
			out = contrib
		} else {
			out = b.omegaUnion(out, contrib)
		}
	}
	if out == nil {
		return &oregex.OmegaEmpty{}, nil
	}
	return out, nil
}

// builder constructs expression nodes and accounts them against the
// node budget. Sub-expressions are shared, never copied, so the count
// tracks allocation, not tree size.
type builder struct {
	nodes	int64
	max	int64
	over	bool
}

func (b *builder) bump() {
	b.nodes++
	if b.max > 0 && b.nodes > b.max {
		b.over = true
	}
}

// poll is the cooperative cancellation and budget check. It runs
// between state eliminations and on tabulation misses.
func (b *builder) poll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.over {
		return fmt.Errorf("%w: %d nodes", ErrBudget, b.nodes)
	}
	return nil
}

func (b *builder) symbol(guard string) oregex.Regex {
	b.bump()
	return &oregex.Symbol{Guard: guard}
}

func (b *builder) concat(l, r oregex.Regex) oregex.Regex {
	b.bump()
	return &oregex.Concat{Left: l, Right: r}
}

func (b *builder) union(l, r oregex.Regex) oregex.Regex {
	b.bump()
	return &oregex.Union{Left: l, Right: r}
}

func (b *builder) star(x oregex.Regex) oregex.Regex {
	b.bump()
	return &oregex.Star{Arg: x}
}

func (b *builder) omega(x oregex.Regex) oregex.OmegaRegex {
	b.bump()
	return &oregex.Omega{Arg: x}
}

func (b *builder) omegaConcat(p oregex.Regex, t oregex.OmegaRegex) oregex.OmegaRegex {
	b.bump()
	return &oregex.OmegaConcat{Prefix: p, Tail: t}
}

func (b *builder) omegaUnion(l, r oregex.OmegaRegex) oregex.OmegaRegex {
	b.bump()
	return &oregex.OmegaUnion{Left: l, Right: r}
}

// unionFold accumulates a union; nil stands for no language yet.
func (b *builder) unionFold(acc, x oregex.Regex) oregex.Regex {
	if acc == nil {
		return x
	}
	return b.union(acc, x)
}
