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
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pertcj/nba-expression-synthesis/batch"
	"github.com/pertcj/nba-expression-synthesis/debug"
)

var (
	dashConfig	string
	dashInput	string
	dashOutput	string
	dashMethods	string
	dashModes	string
	dashMetrics	string
	dashFilter	int
	dashAutTime	float64
	dashRegexTime	float64
	dashSimpTime	float64
	dashMetTime	float64
	dashMaxNodes	int64
	dashWorkers	int
	dashFlush	int
	dashBin		string
	dashDebug	int
	dashQ		bool
)

func init() {
	flag.StringVar(&dashConfig, "config", "", "YAML run configuration; explicit flags take precedence")
	flag.StringVar(&dashInput, "input", "", "formula corpus, one formula per line (.gz/.zst/.s2 ok)")
	flag.StringVar(&dashOutput, "output", "", "report path; the extension picks the compression")
	flag.StringVar(&dashMethods, "methods", "", "comma-separated method list")
	flag.StringVar(&dashModes, "nfa2regex", "", "comma-separated construction modes")
	flag.StringVar(&dashMetrics, "metrics", "", "comma-separated metric list")
	flag.IntVar(&dashFilter, "filter_length", -1, "drop formulas longer than this many tokens; -1 keeps all")
	flag.Float64Var(&dashAutTime, "aut_timeout", 120, "translation budget in seconds")
	flag.Float64Var(&dashRegexTime, "regex_timeout", 120, "construction budget in seconds")
	flag.Float64Var(&dashSimpTime, "simplify_timeout", 120, "simplification budget in seconds")
	flag.Float64Var(&dashMetTime, "metric_timeout", 60, "per-metric budget in seconds")
	flag.Int64Var(&dashMaxNodes, "max_nodes", 0, "expression node budget per synthesis; 0 is unbounded")
	flag.IntVar(&dashWorkers, "workers", 0, "worker pool size; 0 uses GOMAXPROCS")
	flag.IntVar(&dashFlush, "flush_every", 25, "rewrite the report every n evaluations; 0 disables")
	flag.StringVar(&dashBin, "ltl2tgba", "", "translator binary; empty uses PATH")
	flag.IntVar(&dashDebug, "debug", -1, "file descriptor to listen on for pprof debug activity")
	flag.BoolVar(&dashQ, "q", false, "suppress progress logging")
}

func split(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	flag.Parse()
	cfg := batch.DefaultConfig()
	if dashConfig != "" {
		var err error
		cfg, err = batch.LoadConfig(dashConfig)
		if err != nil {
			exit(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = dashInput
		case "output":
			cfg.Output = dashOutput
		case "methods":
			cfg.Methods = split(dashMethods)
		case "nfa2regex":
			cfg.Modes = split(dashModes)
		case "metrics":
			cfg.Metrics = split(dashMetrics)
		case "filter_length":
			cfg.FilterLength = dashFilter
		case "aut_timeout":
			cfg.TranslateTimeout = dashAutTime
		case "regex_timeout":
			cfg.SynthesizeTimeout = dashRegexTime
		case "simplify_timeout":
			cfg.SimplifyTimeout = dashSimpTime
		case "metric_timeout":
			cfg.MetricTimeout = dashMetTime
		case "max_nodes":
			cfg.MaxNodes = dashMaxNodes
		case "workers":
			cfg.Workers = dashWorkers
		case "flush_every":
			cfg.FlushEvery = dashFlush
		case "ltl2tgba":
			cfg.Ltl2tgba = dashBin
		}
	})
	if cfg.Input == "" {
		exit(fmt.Errorf("no corpus: use -input or a -config file"))
	}
	if cfg.Output == "" {
		exit(fmt.Errorf("no report path: use -output or a -config file"))
	}

	var logger *log.Logger
	if !dashQ {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	if dashDebug >= 0 {
		lg := logger
		if lg == nil {
			lg = log.New(os.Stderr, "", log.LstdFlags)
		}
		debug.Fd(dashDebug, lg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
	}()

	r := &batch.Runner{Log: logger}
	rep, err := r.Run(ctx, cfg)
	if err != nil {
		exit(err)
	}
	rep.Summary.Render(os.Stdout)
}
