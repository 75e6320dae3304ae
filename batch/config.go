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

// Package batch evaluates a formula corpus against a set of synthesis
// methods and writes the results as one wide report table. Evaluations
// run on a worker pool; each formula-method pair fails on its own and
// the run always carries on to the end of the corpus.
package batch

import (
	"fmt"
	"os"
	"time"

	"sigs.k8s.io/yaml"

	"github.com/pertcj/nba-expression-synthesis/solver"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

// Config describes one corpus run. The YAML form uses the JSON field
// names; flag values layered on top take precedence.
type Config struct {
	// Input is the corpus path; Output the report path. An empty
	// Output keeps the table in memory only.
	Input	string	`json:"input,omitempty"`
	Output	string	`json:"output,omitempty"`

	// Methods, Modes and Metrics name what to evaluate, in report
	// column order.
	Methods	[]string	`json:"methods,omitempty"`
	Modes	[]string	`json:"nfa2regex,omitempty"`
	Metrics	[]string	`json:"metrics,omitempty"`

	// FilterLength drops formulas longer than the given token count;
	// -1 keeps everything.
	FilterLength int `json:"filter_length"`

	// Stage budgets in seconds.
	TranslateTimeout	float64	`json:"aut_timeout"`
	SynthesizeTimeout	float64	`json:"regex_timeout"`
	SimplifyTimeout		float64	`json:"simplify_timeout"`
	MetricTimeout		float64	`json:"metric_timeout"`

	// MaxNodes bounds expression allocation per synthesis; zero
	// means unbounded.
	MaxNodes int64 `json:"max_nodes,omitempty"`

	// Workers sizes the pool; zero or less means GOMAXPROCS.
	Workers int `json:"workers,omitempty"`

	// FlushEvery rewrites the report after this many completed
	// evaluations; zero or less disables intermediate flushes.
	FlushEvery int `json:"flush_every"`

	// Ltl2tgba overrides the translator binary; empty means
	// "ltl2tgba" on PATH.
	Ltl2tgba string `json:"ltl2tgba,omitempty"`
}

// DefaultConfig returns the benchmark configuration.
func DefaultConfig() Config {
	var methods []string
	for _, m := range solver.DefaultMethods() {
		methods = append(methods, m.String())
	}
	var metrics []string
	for _, m := range solver.DefaultMetrics() {
		metrics = append(metrics, m.String())
	}
	return Config{
		Methods:		methods,
		Modes:			[]string{"bmc", "mny"},
		Metrics:		metrics,
		FilterLength:		-1,
		TranslateTimeout:	120,
		SynthesizeTimeout:	120,
		SimplifyTimeout:	120,
		MetricTimeout:		60,
		FlushEvery:		25,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.UnmarshalStrict(buf, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Budgets converts the configured stage timeouts.
func (c *Config) Budgets() solver.Timeouts {
	secs := func(s float64) time.Duration {
		return time.Duration(s * float64(time.Second))
	}
	return solver.Timeouts{
		Translate:	secs(c.TranslateTimeout),
		Synthesize:	secs(c.SynthesizeTimeout),
		Simplify:	secs(c.SimplifyTimeout),
		Metric:		secs(c.MetricTimeout),
	}
}

// ParseMethods resolves the configured method names.
func (c *Config) ParseMethods() ([]solver.Method, error) {
	if len(c.Methods) == 0 {
		return nil, fmt.Errorf("no methods configured")
	}
	out := make([]solver.Method, 0, len(c.Methods))
	for _, name := range c.Methods {
		m, err := solver.ParseMethod(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ParseModes resolves the configured construction mode names.
func (c *Config) ParseModes() ([]synth.Mode, error) {
	if len(c.Modes) == 0 {
		return nil, fmt.Errorf("no construction modes configured")
	}
	out := make([]synth.Mode, 0, len(c.Modes))
	for _, name := range c.Modes {
		m, err := synth.ParseMode(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// ParseMetrics resolves the configured metric names.
func (c *Config) ParseMetrics() ([]solver.Metric, error) {
	if len(c.Metrics) == 0 {
		return nil, fmt.Errorf("no metrics configured")
	}
	out := make([]solver.Metric, 0, len(c.Metrics))
	for _, name := range c.Metrics {
		m, err := solver.ParseMetric(name)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
