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

// Package ltl loads corpora of linear temporal logic formulas.
//
// The package does not interpret the formulas; parsing and translation
// are the external toolkit's job. It only reads corpus files and
// measures formula lengths for filtering and reporting.
package ltl

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"github.com/pertcj/nba-expression-synthesis/compr"
)

// Load reads the formula corpus at path, decompressing it according
// to the file extension.
func Load(path string) ([]string, error) {
	r, err := compr.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Read(r)
}

// Read scans a corpus, one formula per line. Blank lines and lines
// starting with % are skipped; a "LTLSPEC <formula>" wrapper is
// removed. Everything else is taken verbatim.
func Read(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var out []string
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "%") {
			continue
		}
		if strings.HasPrefix(s, "LTLSPEC") {
			_, rest, ok := strings.Cut(s, " ")
			if !ok {
				// a bare marker carries no formula
				continue
			}
			s = strings.TrimSpace(rest)
		}
		out = append(out, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

var tokens = regexp.MustCompile(`\b\w+\b|[GFXUR]|[&|(->)!]`)

// TokenLen counts the tokens of a formula: identifiers and standalone
// operator letters count once per word, connective punctuation once
// per character.
func TokenLen(f string) int {
	return len(tokens.FindAllString(f, -1))
}

// Filter computes the token length of every formula and drops the
// ones longer than max; a negative max keeps everything. The returned
// slices are parallel.
func Filter(formulas []string, max int) ([]string, []int) {
	var keep []string
	var lens []int
	for _, f := range formulas {
		n := TokenLen(f)
		if max >= 0 && n > max {
			continue
		}
		keep = append(keep, f)
		lens = append(lens, n)
	}
	return keep, lens
}
