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

// Package spot translates linear temporal logic formulas into Büchi
// automata by driving the external Spot toolkit.
package spot

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/nba/hoa"
)

// Translator turns a formula into an automaton with the requested
// acceptance labeling.
type Translator interface {
	Translate(ctx context.Context, formula string, kind nba.Labeling) (*nba.Automaton, error)
}

// CLI shells out to ltl2tgba. The zero value looks the binary up on
// $PATH.
type CLI struct {
	// Path overrides the ltl2tgba binary location.
	Path string
}

func (c *CLI) binary() string {
	if c.Path != "" {
		return c.Path
	}
	return "ltl2tgba"
}

// Translate runs ltl2tgba and parses the HOA document it prints.
// Transition labeling requests --buchi output, state labeling -B.
// The deadline on ctx kills the process.
func (c *CLI) Translate(ctx context.Context, formula string, kind nba.Labeling) (*nba.Automaton, error) {
	var args []string
	switch kind {
	case nba.LabelTransition:
		args = append(args, "--buchi")
	case nba.LabelState:
		args = append(args, "-B")
	default:
		return nil, fmt.Errorf("spot: unknown labeling %d", kind)
	}
	args = append(args, "--hoaf", "-f", formula)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary(), args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		err = fmt.Errorf("running %s: %w", c.binary(), err)
		if msg := firstLine(stderr.Bytes()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		return nil, err
	}
	return normalize(stdout.String())
}

// normalize parses HOA text and brings the automaton into the shape
// the synthesizer wants: unreachable states pruned, invariants
// checked.
func normalize(src string) (*nba.Automaton, error) {
	a, err := hoa.Parse(src)
	if err != nil {
		return nil, err
	}
	a.PruneUnreachable()
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
