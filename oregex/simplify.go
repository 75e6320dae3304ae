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

var (
	empty      = &Empty{}
	epsilon    = &Epsilon{}
	omegaEmpty = &OmegaEmpty{}
)

// Simplify rewrites r bottom-up to a fixed point using
// language-preserving, size-decreasing rules:
//
//	0·r → 0    r·0 → 0    ε·r → r    r·ε → r
//	0|r → r    r|0 → r    r|r → r
//	(0)* → ε   (ε)* → ε   (r*)* → r*
//
// The result is never larger than the input and simplifying twice
// yields the same expression as simplifying once.
func Simplify(r Regex) Regex {
	for {
		s, changed := simplify1(r)
		if !changed {
			return s
		}
		r = s
	}
}

// SimplifyOmega rewrites w like Simplify, with the omega rules:
//
//	$(0) → 0    $(ε) → 0    $(r*) → $(r)
//	0·w → 0     ε·w → w     r·0 → 0
//	0|w → w     w|0 → w     w|w → w
//
// where 0 on the omega side is the empty omega language.
func SimplifyOmega(w OmegaRegex) OmegaRegex {
	for {
		s, changed := simplifyOmega1(w)
		if !changed {
			return s
		}
		w = s
	}
}

func isEmpty(r Regex) bool {
	_, ok := r.(*Empty)
	return ok
}

func isEpsilon(r Regex) bool {
	_, ok := r.(*Epsilon)
	return ok
}

func isOmegaEmpty(w OmegaRegex) bool {
	_, ok := w.(*OmegaEmpty)
	return ok
}

func simplify1(r Regex) (Regex, bool) {
	switch e := r.(type) {
	case *Concat:
		l, cl := simplify1(e.Left)
		rr, cr := simplify1(e.Right)
		switch {
		case isEmpty(l) || isEmpty(rr):
			return empty, true
		case isEpsilon(l):
			return rr, true
		case isEpsilon(rr):
			return l, true
		}
		if cl || cr {
			return &Concat{Left: l, Right: rr}, true
		}
		return e, false
	case *Union:
		l, cl := simplify1(e.Left)
		rr, cr := simplify1(e.Right)
		switch {
		case isEmpty(l):
			return rr, true
		case isEmpty(rr):
			return l, true
		case Equal(l, rr):
			return l, true
		}
		if cl || cr {
			return &Union{Left: l, Right: rr}, true
		}
		return e, false
	case *Star:
		a, ca := simplify1(e.Arg)
		switch {
		case isEmpty(a) || isEpsilon(a):
			return epsilon, true
		}
		if s, ok := a.(*Star); ok {
			return s, true
		}
		if ca {
			return &Star{Arg: a}, true
		}
		return e, false
	default:
		return r, false
	}
}

func simplifyOmega1(w OmegaRegex) (OmegaRegex, bool) {
	switch e := w.(type) {
	case *Omega:
		a, ca := simplify1(e.Arg)
		if isEmpty(a) || isEpsilon(a) {
			return omegaEmpty, true
		}
		if s, ok := a.(*Star); ok {
			return &Omega{Arg: s.Arg}, true
		}
		if ca {
			return &Omega{Arg: a}, true
		}
		return e, false
	case *OmegaConcat:
		p, cp := simplify1(e.Prefix)
		t, ct := simplifyOmega1(e.Tail)
		switch {
		case isEmpty(p) || isOmegaEmpty(t):
			return omegaEmpty, true
		case isEpsilon(p):
			return t, true
		}
		if cp || ct {
			return &OmegaConcat{Prefix: p, Tail: t}, true
		}
		return e, false
	case *OmegaUnion:
		l, cl := simplifyOmega1(e.Left)
		rr, cr := simplifyOmega1(e.Right)
		switch {
		case isOmegaEmpty(l):
			return rr, true
		case isOmegaEmpty(rr):
			return l, true
		case EqualOmega(l, rr):
			return l, true
		}
		if cl || cr {
			return &OmegaUnion{Left: l, Right: rr}, true
		}
		return e, false
	default:
		return w, false
	}
}
