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

package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pertcj/nba-expression-synthesis/compr"
	"github.com/pertcj/nba-expression-synthesis/ltl"
	"github.com/pertcj/nba-expression-synthesis/solver"
	"github.com/pertcj/nba-expression-synthesis/spot"
)

var (
	dashInput	string
	dashOutput	string
	dashFilter	int
	dashAutTime	float64
	dashFlush	int
	dashBin		string
)

func init() {
	flag.StringVar(&dashInput, "input", "", "formula corpus, one formula per line")
	flag.StringVar(&dashOutput, "output", "ltl_state_counts.csv", "output CSV path")
	flag.IntVar(&dashFilter, "filter_length", -1, "drop formulas longer than this many tokens; -1 keeps all")
	flag.Float64Var(&dashAutTime, "aut_timeout", 120, "per-automaton translation budget in seconds")
	flag.IntVar(&dashFlush, "flush_every", 25, "rewrite the output every n formulas; 0 disables")
	flag.StringVar(&dashBin, "ltl2tgba", "", "translator binary; empty uses PATH")
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func writeCounts(path string, header []string, rows [][]string) error {
	f, err := compr.Create(path)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(f)
	err = cw.Write(header)
	for _, row := range rows {
		if err == nil {
			err = cw.Write(row)
		}
	}
	if err == nil {
		cw.Flush()
		err = cw.Error()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func main() {
	flag.Parse()
	if dashInput == "" {
		exit(fmt.Errorf("no corpus: use -input"))
	}
	formulas, err := ltl.Load(dashInput)
	if err != nil {
		exit(err)
	}
	kept, lens := ltl.Filter(formulas, dashFilter)

	variants := []string{
		solver.VariantTransition,
		solver.VariantStateDirect,
		solver.VariantToState,
	}
	base := make(map[string]int)
	header := []string{"formula_index", "formula_length"}
	for _, v := range variants {
		base[v] = len(header)
		header = append(header,
			v+" states",
			v+" accepting_states",
			v+" transitions",
			v+" deterministic")
	}
	rows := make([][]string, len(kept))
	for i := range rows {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(i)
		row[1] = strconv.Itoa(lens[i])
		rows[i] = row
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	tr := &spot.CLI{Path: dashBin}
	budget := time.Duration(dashAutTime * float64(time.Second))
	for i, f := range kept {
		if ctx.Err() != nil {
			break
		}
		logger.Printf("formula %d of length %d", i, lens[i])
		row := rows[i]
		for _, vs := range solver.CountStats(ctx, tr, f, budget) {
			if vs.Err != nil {
				// failed variants leave their cells empty
				logger.Printf("formula %d %s: %v", i, vs.Variant, vs.Err)
				continue
			}
			b, ok := base[vs.Variant]
			if !ok {
				continue
			}
			row[b] = strconv.Itoa(vs.Stats.States)
			row[b+1] = strconv.Itoa(vs.Stats.Accepting)
			row[b+2] = strconv.Itoa(vs.Stats.Transitions)
			row[b+3] = strconv.FormatBool(vs.Stats.Deterministic)
		}
		if dashFlush > 0 && (i+1)%dashFlush == 0 {
			if err := writeCounts(dashOutput, header, rows); err != nil {
				logger.Printf("flush %s: %v", dashOutput, err)
			}
		}
	}
	if err := writeCounts(dashOutput, header, rows); err != nil {
		exit(err)
	}
	if err := ctx.Err(); err != nil {
		exit(err)
	}
	logger.Printf("state counts written to %s", dashOutput)
}
