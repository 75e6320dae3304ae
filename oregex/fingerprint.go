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
	"encoding/binary"

	"github.com/dchest/siphash"
)

// fixed siphash keys; fingerprints are stable across runs
const (
	fpKey0 = 0x6f72656765783030 // "oregex00"
	fpKey1 = 0x6f6d656761707772 // "omegapwr"
)

const (
	fpEmpty = iota
	fpEpsilon
	fpSymbol
	fpConcat
	fpUnion
	fpStar
	fpOmegaEmpty
	fpOmega
	fpOmegaConcat
	fpOmegaUnion
)

// Fingerprint returns a 64-bit structural hash of r. Structurally
// equal expressions hash identically; distinct structures collide
// only with ordinary 64-bit probability.
func Fingerprint(r Regex) uint64 {
	return fingerprintAny(r)
}

// FingerprintOmega returns a 64-bit structural hash of w.
func FingerprintOmega(w OmegaRegex) uint64 {
	return fingerprintAny(w)
}

func hashLeaf(kind byte, text string) uint64 {
	buf := make([]byte, 0, 1+len(text))
	buf = append(buf, kind)
	buf = append(buf, text...)
	return siphash.Hash(fpKey0, fpKey1, buf)
}

func hash1(kind byte, a uint64) uint64 {
	var buf [9]byte
	buf[0] = kind
	binary.LittleEndian.PutUint64(buf[1:], a)
	return siphash.Hash(fpKey0, fpKey1, buf[:])
}

func hash2(kind byte, a, b uint64) uint64 {
	var buf [17]byte
	buf[0] = kind
	binary.LittleEndian.PutUint64(buf[1:], a)
	binary.LittleEndian.PutUint64(buf[9:], b)
	return siphash.Hash(fpKey0, fpKey1, buf[:])
}

func fingerprintAny(root any) uint64 {
	vals := make([]uint64, 0, 16)
	stack := make([]walkFrame, 0, 32)
	stack = append(stack, walkFrame{root, false})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !f.exp {
			switch n := f.n.(type) {
			case *Empty:
				vals = append(vals, hashLeaf(fpEmpty, ""))
			case *Epsilon:
				vals = append(vals, hashLeaf(fpEpsilon, ""))
			case *OmegaEmpty:
				vals = append(vals, hashLeaf(fpOmegaEmpty, ""))
			case *Symbol:
				vals = append(vals, hashLeaf(fpSymbol, n.Guard))
			case *Concat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Union:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			case *Star:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Arg, false})
			case *Omega:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Arg, false})
			case *OmegaConcat:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Tail, false}, walkFrame{n.Prefix, false})
			case *OmegaUnion:
				stack = append(stack, walkFrame{n, true}, walkFrame{n.Right, false}, walkFrame{n.Left, false})
			}
			continue
		}
		switch f.n.(type) {
		case *Star:
			vals[len(vals)-1] = hash1(fpStar, vals[len(vals)-1])
		case *Omega:
			vals[len(vals)-1] = hash1(fpOmega, vals[len(vals)-1])
		default:
			b := vals[len(vals)-1]
			a := vals[len(vals)-2]
			vals = vals[:len(vals)-1]
			var kind byte
			switch f.n.(type) {
			case *Concat:
				kind = fpConcat
			case *Union:
				kind = fpUnion
			case *OmegaConcat:
				kind = fpOmegaConcat
			case *OmegaUnion:
				kind = fpOmegaUnion
			}
			vals[len(vals)-1] = hash2(kind, a, b)
		}
	}
	return vals[0]
}
