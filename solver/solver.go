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

// Package solver runs the full formula-to-expression pipeline for one
// method and encodes every failure in the result instead of aborting,
// so corpus runs can record partial outcomes row by row.
package solver

import (
	"context"
	"errors"
	"time"

	"github.com/pertcj/nba-expression-synthesis/nba"
	"github.com/pertcj/nba-expression-synthesis/oregex"
	"github.com/pertcj/nba-expression-synthesis/spot"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

// Timeouts are per-stage wall-clock budgets. A zero budget disables
// the deadline for that stage.
type Timeouts struct {
	Translate	time.Duration
	Synthesize	time.Duration
	Simplify	time.Duration
	Metric		time.Duration
}

// DefaultTimeouts returns the benchmark stage budgets.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Translate:	120 * time.Second,
		Synthesize:	120 * time.Second,
		Simplify:	120 * time.Second,
		Metric:		60 * time.Second,
	}
}

// Outcome classifies how a pipeline run ended.
type Outcome uint8

const (
	// OK means an expression was produced.
	OK Outcome = iota
	// Timeout means a stage exceeded its budget.
	Timeout
	// Memory means the synthesizer exceeded its node budget.
	Memory
	// Errored covers every other failure.
	Errored
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Timeout:
		return "timeout"
	case Memory:
		return "memory"
	}
	return "error"
}

// Stage names the pipeline stage a failure happened in.
type Stage uint8

const (
	StageNone	Stage	= iota
	StageTranslate
	StageSynthesize
	StageSimplify
)

func (s Stage) String() string {
	switch s {
	case StageTranslate:
		return "translate"
	case StageSynthesize:
		return "synthesize"
	case StageSimplify:
		return "simplify"
	}
	return "none"
}

// MetricValue is one measured expression metric. A negative Value
// means the measurement did not finish; Seconds then holds the budget.
type MetricValue struct {
	Metric	Metric
	Value	int
	Seconds	float64
}

// Result is the outcome of one Solve call. Stage times are seconds;
// -1 marks a stage that never ran, and a failed stage reports its
// budget. Expr is nil unless Outcome is OK.
type Result struct {
	Index	int
	Method	Method
	Mode	synth.Mode

	Expr	oregex.OmegaRegex
	Chosen	string

	Translate	float64
	Synthesize	float64
	Simplify	float64
	Metrics		[]MetricValue

	Outcome	Outcome
	Stage	Stage
	Err	error
}

func (r *Result) fail(stage Stage, err error) *Result {
	r.Stage = stage
	r.Err = err
	r.Outcome = classify(err)
	return r
}

func classify(err error) Outcome {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.Is(err, synth.ErrBudget):
		return Memory
	}
	return Errored
}

// Options configure one Solve call.
type Options struct {
	// Method selects the construction route.
	Method Method
	// Mode selects the intra-graph construction; ignored by methods
	// that do not use it.
	Mode synth.Mode
	// Metrics are measured on the final expression, in order.
	Metrics []Metric
	// Budgets bound each stage.
	Budgets Timeouts
	// MaxNodes bounds expression allocation during synthesis;
	// zero means unbounded.
	MaxNodes int64
}

// candidate is one construction route with its measured stage times.
type candidate struct {
	spec	candSpec
	aut	*nba.Automaton
	expr	oregex.OmegaRegex
	trSecs	float64
	synSecs	float64
}

// Solve runs translate, synthesize, optional simplify, and metric
// measurement for one formula under one method. It never returns an
// error: failures are encoded in the result. Selection methods build
// every candidate to completion and keep the one with the smaller
// expression, first listed winning ties.
func Solve(ctx context.Context, tr spot.Translator, formula string, opts Options) *Result {
	m := opts.Method
	mode := opts.Mode
	if !m.UsesMode() {
		mode = synth.ModeBMC
	}
	r := &Result{
		Method:		m,
		Mode:		mode,
		Translate:	-1,
		Synthesize:	-1,
		Simplify:	-1,
	}

	cands := make([]candidate, 0, 2)
	for _, spec := range m.candidates() {
		a, secs, err := translate(ctx, tr, formula, spec, opts.Budgets.Translate)
		if err != nil {
			r.Translate = opts.Budgets.Translate.Seconds()
			return r.fail(StageTranslate, err)
		}
		cands = append(cands, candidate{spec: spec, aut: a, trSecs: secs})
	}

	for i := range cands {
		c := &cands[i]
		w, secs, err := synthesize(ctx, c.aut, mode, opts.MaxNodes, opts.Budgets.Synthesize)
		if err != nil {
			r.Translate = c.trSecs
			r.Synthesize = opts.Budgets.Synthesize.Seconds()
			return r.fail(StageSynthesize, err)
		}
		c.expr, c.synSecs = w, secs
	}

	win := &cands[0]
	for i := 1; i < len(cands); i++ {
		if oregex.SizeOmega(cands[i].expr) < oregex.SizeOmega(win.expr) {
			win = &cands[i]
		}
	}
	r.Translate = win.trSecs
	r.Synthesize = win.synSecs
	if len(cands) > 1 {
		r.Chosen = win.spec.label
	}

	w := win.expr
	if m.Simplify {
		var secs float64
		var err error
		w, secs, err = timed(ctx, opts.Budgets.Simplify, func(context.Context) (oregex.OmegaRegex, error) {
			return oregex.SimplifyOmega(win.expr), nil
		})
		if err != nil {
			r.Simplify = opts.Budgets.Simplify.Seconds()
			return r.fail(StageSimplify, err)
		}
		r.Simplify = secs
	} else {
		r.Simplify = 0
	}

	r.Expr = w
	r.Metrics = measure(ctx, w, opts.Metrics, opts.Budgets.Metric)
	return r
}

func translate(ctx context.Context, tr spot.Translator, formula string, spec candSpec, budget time.Duration) (*nba.Automaton, float64, error) {
	return timed(ctx, budget, func(ctx context.Context) (*nba.Automaton, error) {
		a, err := tr.Translate(ctx, formula, spec.kind)
		if err != nil {
			return nil, err
		}
		if spec.convert {
			// conversion is part of building this route's automaton,
			// so it bills against the translation budget
			a, err = a.ToStateBased()
			if err != nil {
				return nil, err
			}
		}
		return a, nil
	})
}

func synthesize(ctx context.Context, a *nba.Automaton, mode synth.Mode, maxNodes int64, budget time.Duration) (oregex.OmegaRegex, float64, error) {
	return timed(ctx, budget, func(ctx context.Context) (oregex.OmegaRegex, error) {
		return synth.Synthesize(ctx, a, synth.Options{Mode: mode, MaxNodes: maxNodes})
	})
}

// measure computes each metric under the metric budget. A metric that
// misses its budget records -1 and the budget; later metrics still run.
func measure(ctx context.Context, w oregex.OmegaRegex, metrics []Metric, budget time.Duration) []MetricValue {
	out := make([]MetricValue, 0, len(metrics))
	for _, m := range metrics {
		m := m
		v, secs, err := timed(ctx, budget, func(context.Context) (int, error) {
			return m.Measure(w), nil
		})
		if err != nil {
			out = append(out, MetricValue{Metric: m, Value: -1, Seconds: budget.Seconds()})
			continue
		}
		out = append(out, MetricValue{Metric: m, Value: v, Seconds: secs})
	}
	return out
}

func stageCtx(ctx context.Context, budget time.Duration) (context.Context, context.CancelFunc) {
	if budget > 0 {
		return context.WithTimeout(ctx, budget)
	}
	return context.WithCancel(ctx)
}

// timed runs fn under the stage budget. When the budget expires the
// computation is abandoned and the budget itself is reported as the
// elapsed time, matching how timed-out stages are recorded.
func timed[T any](ctx context.Context, budget time.Duration, fn func(context.Context) (T, error)) (T, float64, error) {
	ctx, cancel := stageCtx(ctx, budget)
	defer cancel()

	type outcome struct {
		val	T
		err	error
	}
	ch := make(chan outcome, 1)
	start := time.Now()
	go func() {
		v, err := fn(ctx)
		ch <- outcome{v, err}
	}()
	select {
	case o := <-ch:
		return o.val, time.Since(start).Seconds(), o.err
	case <-ctx.Done():
		var zero T
		return zero, budget.Seconds(), ctx.Err()
	}
}
