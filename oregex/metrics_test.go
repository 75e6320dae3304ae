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

package oregex

import (
	"fmt"
	"testing"
)

func TestMetrics(t *testing.T) {
	testcases := []struct {
		in	Regex
		size	int
		tllen	int
		height	int
	}{
		{&Empty{}, 0, 0, 0},
		{&Epsilon{}, 0, 0, 0},
		{sym("a"), 1, 1, 0},
		{cat(sym("a"), sym("b")), 3, 2, 0},
		{alt(sym("a"), sym("b")), 3, 1, 0},
		{alt(cat(sym("a"), sym("b")), sym("c")), 5, 2, 0},
		{star(sym("a")), 2, 1, 1},
		{star(star(sym("a"))), 3, 1, 2},
		{cat(sym("a"), &Epsilon{}), 2, 1, 0},
		{alt(sym("a"), &Epsilon{}), 2, 1, 0},
		// union of a single symbol against a starred chain:
		// the timeline follows the longest branch
		{alt(sym("a"), cat(star(alt(sym("d"), cat(sym("c"), star(sym("f"))))), sym("b"))),
			11, 3, 2},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			if got := Size(tc.in); got != tc.size {
				t.Errorf("Size(%s) = %d, want %d", Print(tc.in), got, tc.size)
			}
			if got := Len(tc.in); got != tc.tllen {
				t.Errorf("Len(%s) = %d, want %d", Print(tc.in), got, tc.tllen)
			}
			if got := StarHeight(tc.in); got != tc.height {
				t.Errorf("StarHeight(%s) = %d, want %d", Print(tc.in), got, tc.height)
			}
		})
	}
}

func TestMetricsOmega(t *testing.T) {
	testcases := []struct {
		in	OmegaRegex
		size	int
		tllen	int
		height	int
	}{
		{&OmegaEmpty{}, 0, 0, 0},
		{pow(sym("a")), 2, 1, 0},
		{pow(star(sym("a"))), 3, 1, 1},
		{catw(sym("a"), pow(sym("b"))), 4, 2, 0},
		{altw(pow(sym("a")), pow(cat(sym("b"), sym("c")))), 7, 2, 0},
		{catw(cat(sym("a"), sym("b")), pow(alt(sym("a"), cat(sym("b"), star(sym("a")))))),
			11, 4, 1},
	}
	for i, tc := range testcases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			if got := SizeOmega(tc.in); got != tc.size {
				t.Errorf("SizeOmega(%s) = %d, want %d", PrintOmega(tc.in), got, tc.size)
			}
			if got := LenOmega(tc.in); got != tc.tllen {
				t.Errorf("LenOmega(%s) = %d, want %d", PrintOmega(tc.in), got, tc.tllen)
			}
			if got := StarHeightOmega(tc.in); got != tc.height {
				t.Errorf("StarHeightOmega(%s) = %d, want %d", PrintOmega(tc.in), got, tc.height)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := cat(star(alt(sym("a"), sym("b"))), sym("c"))
	b := cat(star(alt(sym("a"), sym("b"))), sym("c"))
	if Fingerprint(a) != Fingerprint(b) {
		t.Error("equal expressions with distinct fingerprints")
	}
	distinct := []Regex{
		&Empty{}, &Epsilon{}, sym("a"), sym("b"),
		cat(sym("a"), sym("b")), cat(sym("b"), sym("a")),
		alt(sym("a"), sym("b")), star(sym("a")), star(sym("b")),
		a,
	}
	seen := make(map[uint64]Regex)
	for _, r := range distinct {
		fp := Fingerprint(r)
		if prev, ok := seen[fp]; ok {
			t.Errorf("fingerprint collision: %s vs %s", Print(prev), Print(r))
		}
		seen[fp] = r
	}
	if FingerprintOmega(pow(a)) == FingerprintOmega(catw(a, pow(a))) {
		t.Error("omega fingerprint ignores structure")
	}
	if FingerprintOmega(pow(a)) != FingerprintOmega(pow(b)) {
		t.Error("equal omega expressions with distinct fingerprints")
	}
}
