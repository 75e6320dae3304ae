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
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pertcj/nba-expression-synthesis/batch"
	"github.com/pertcj/nba-expression-synthesis/ltl"
	"github.com/pertcj/nba-expression-synthesis/oregex"
	"github.com/pertcj/nba-expression-synthesis/solver"
	"github.com/pertcj/nba-expression-synthesis/spot"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

var (
	dashFormula	string
	dashSolver	string
	dashMode	string
	dashMetrics	string
	dashOutput	string
	dashAutTime	float64
	dashRegexTime	float64
	dashSimpTime	float64
	dashMetTime	float64
	dashMaxNodes	int64
	dashBin		string
	dashT		bool
)

func init() {
	flag.StringVar(&dashFormula, "formula", "", "LTL formula to synthesize (or one positional argument)")
	flag.StringVar(&dashSolver, "solver", "simplify_transition_selection", "synthesis method")
	flag.StringVar(&dashMode, "nfa2regex", "bmc", "intra-graph construction: bmc or mny")
	flag.StringVar(&dashMetrics, "metrics", "length,size,starheight", "comma-separated metric list")
	flag.StringVar(&dashOutput, "output", "", "write a one-row CSV report to this path")
	flag.Float64Var(&dashAutTime, "aut_timeout", 120, "translation budget in seconds")
	flag.Float64Var(&dashRegexTime, "regex_timeout", 120, "construction budget in seconds")
	flag.Float64Var(&dashSimpTime, "simplify_timeout", 120, "simplification budget in seconds")
	flag.Float64Var(&dashMetTime, "metric_timeout", 60, "per-metric budget in seconds")
	flag.Int64Var(&dashMaxNodes, "max_nodes", 0, "expression node budget; 0 is unbounded")
	flag.StringVar(&dashBin, "ltl2tgba", "", "translator binary; empty uses PATH")
	flag.BoolVar(&dashT, "t", false, "print stage times on stderr")
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func secs(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func main() {
	flag.Parse()
	if dashFormula == "" {
		if flag.NArg() != 1 {
			exit(fmt.Errorf("no formula: use -formula or one positional argument"))
		}
		dashFormula = flag.Arg(0)
	}
	method, err := solver.ParseMethod(dashSolver)
	if err != nil {
		exit(err)
	}
	mode, err := synth.ParseMode(dashMode)
	if err != nil {
		exit(err)
	}
	var metrics []solver.Metric
	for _, name := range strings.Split(dashMetrics, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		m, err := solver.ParseMetric(name)
		if err != nil {
			exit(err)
		}
		metrics = append(metrics, m)
	}
	if len(metrics) == 0 {
		exit(fmt.Errorf("no metrics"))
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	r := solver.Solve(ctx, &spot.CLI{Path: dashBin}, dashFormula, solver.Options{
		Method:		method,
		Mode:		mode,
		Metrics:	metrics,
		Budgets: solver.Timeouts{
			Translate:	secs(dashAutTime),
			Synthesize:	secs(dashRegexTime),
			Simplify:	secs(dashSimpTime),
			Metric:		secs(dashMetTime),
		},
		MaxNodes: dashMaxNodes,
	})
	if dashT {
		fmt.Fprintf(os.Stderr, "aut %.3fs construct %.3fs simplify %.3fs\n",
			r.Translate, r.Synthesize, r.Simplify)
	}
	if r.Outcome != solver.OK {
		exit(fmt.Errorf("%s failed during %s: %v", method, r.Stage, r.Err))
	}
	if r.Chosen != "" {
		fmt.Fprintf(os.Stderr, "chosen route: %s\n", r.Chosen)
	}
	fmt.Println(oregex.PrintOmega(r.Expr))
	for _, mv := range r.Metrics {
		if mv.Value < 0 {
			fmt.Printf("%s: timeout after %.1fs\n", mv.Metric, mv.Seconds)
			continue
		}
		fmt.Printf("%s: %d\n", mv.Metric, mv.Value)
	}

	if dashOutput != "" {
		tbl := batch.NewTable([]int{ltl.TokenLen(dashFormula)},
			[]solver.Method{method}, []synth.Mode{mode}, metrics)
		if err := tbl.Apply(r); err != nil {
			exit(err)
		}
		if err := tbl.Flush(dashOutput); err != nil {
			exit(err)
		}
	}
}
