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
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Marks is membership in the acceptance sets of an automaton. The
// zero value is the empty membership. Marks values are immutable;
// Union returns a new value.
type Marks struct {
	bits *bitset.BitSet
}

// MarksOf returns membership in the given sets. Set indices must be
// non-negative.
func MarksOf(sets ...int) Marks {
	if len(sets) == 0 {
		return Marks{}
	}
	hi := 0
	for _, s := range sets {
		if s > hi {
			hi = s
		}
	}
	b := bitset.New(uint(hi + 1))
	for _, s := range sets {
		b.Set(uint(s))
	}
	return Marks{bits: b}
}

// AllMarks returns membership in every one of sets sets.
func AllMarks(sets int) Marks {
	if sets <= 0 {
		return Marks{}
	}
	b := bitset.New(uint(sets))
	for i := 0; i < sets; i++ {
		b.Set(uint(i))
	}
	return Marks{bits: b}
}

// Has reports membership in set.
func (m Marks) Has(set int) bool {
	return m.bits != nil && set >= 0 && m.bits.Test(uint(set))
}

// Empty reports whether no set is a member.
func (m Marks) Empty() bool {
	return m.bits == nil || !m.bits.Any()
}

// Max returns the highest member set index, or -1 when empty.
func (m Marks) Max() int {
	if m.bits == nil {
		return -1
	}
	hi := -1
	for i, ok := m.bits.NextSet(0); ok; i, ok = m.bits.NextSet(i + 1) {
		hi = int(i)
	}
	return hi
}

// Union returns the membership in either operand.
func (m Marks) Union(o Marks) Marks {
	if m.bits == nil {
		return o
	}
	if o.bits == nil {
		return m
	}
	return Marks{bits: m.bits.Union(o.bits)}
}

// Covers reports membership in every one of sets sets.
func (m Marks) Covers(sets int) bool {
	for i := 0; i < sets; i++ {
		if !m.Has(i) {
			return false
		}
	}
	return true
}

// Sets returns the member set indices in ascending order.
func (m Marks) Sets() []int {
	if m.bits == nil {
		return nil
	}
	out := make([]int, 0, m.bits.Count())
	for i, ok := m.bits.NextSet(0); ok; i, ok = m.bits.NextSet(i + 1) {
		out = append(out, int(i))
	}
	return out
}

// String renders the membership in HOA form, e.g. "{0 2}".
func (m Marks) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range m.Sets() {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", s)
	}
	b.WriteByte('}')
	return b.String()
}
