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
	"context"
	"time"

	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/spot"
)

// Automaton size variants reported by CountStats.
const (
	VariantTransition	= "transition"
	VariantStateDirect	= "state_direct"
	VariantToState		= "transition_to_state"
)

// VariantStats holds the automaton statistics for one construction
// variant, or the error that kept the variant from being built.
type VariantStats struct {
	Variant	string
	Stats	nba.Stats
	Err	error
}

// CountStats builds the three automaton variants for a formula and
// reports their sizes. Each variant translates under its own budget
// and fails independently of the others.
func CountStats(ctx context.Context, tr spot.Translator, formula string, budget time.Duration) []VariantStats {
	specs := []candSpec{
		{VariantTransition, nba.LabelTransition, false},
		{VariantStateDirect, nba.LabelState, false},
		{VariantToState, nba.LabelTransition, true},
	}
	out := make([]VariantStats, 0, len(specs))
	for _, spec := range specs {
		a, _, err := translate(ctx, tr, formula, spec, budget)
		if err != nil {
			out = append(out, VariantStats{Variant: spec.label, Err: err})
			continue
		}
		out = append(out, VariantStats{Variant: spec.label, Stats: a.Stats()})
	}
	return out
}
