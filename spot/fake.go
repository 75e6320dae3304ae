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

package spot

import (
	"context"
	"fmt"
	"time"

	"github.com/pertcj/nba-expression-synthesis/nba"
)

// Fake serves canned HOA documents keyed by formula. It stands in for
// the toolkit in tests and offline runs.
type Fake struct {
	// Transition and State hold the HOA text returned for the
	// respective labeling.
	Transition	map[string]string
	State		map[string]string

	// Delay, when positive, is imposed before each lookup; a done
	// context wins over the delay.
	Delay time.Duration
}

// Translate looks the formula up in the map for kind and parses the
// canned document the same way the real adapter would.
func (f *Fake) Translate(ctx context.Context, formula string, kind nba.Labeling) (*nba.Automaton, error) {
	if f.Delay > 0 {
		t := time.NewTimer(f.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var src string
	var ok bool
	switch kind {
	case nba.LabelTransition:
		src, ok = f.Transition[formula]
	case nba.LabelState:
		src, ok = f.State[formula]
	default:
		return nil, fmt.Errorf("spot: unknown labeling %d", kind)
	}
	if !ok {
		return nil, fmt.Errorf("spot: no canned automaton for %q", formula)
	}
	return normalize(src)
}
