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

package batch

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/pertcj/nba-expression-synthesis/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	wantMethods := []string{
		"simplify_state_direct",
		"state_direct",
		"transition_selection",
		"simplify_transition_selection",
		"transition_to_state",
		"simplify_transition_to_state",
		"transition_only",
		"simplify_transition_only",
	}
	if !reflect.DeepEqual(cfg.Methods, wantMethods) {
		t.Errorf("methods %v", cfg.Methods)
	}
	if !reflect.DeepEqual(cfg.Modes, []string{"bmc", "mny"}) {
		t.Errorf("modes %v", cfg.Modes)
	}
	if !reflect.DeepEqual(cfg.Metrics, []string{"length", "size", "starheight"}) {
		t.Errorf("metrics %v", cfg.Metrics)
	}
	if cfg.FilterLength != -1 {
		t.Errorf("filter_length %d", cfg.FilterLength)
	}
	if cfg.FlushEvery != 25 {
		t.Errorf("flush_every %d", cfg.FlushEvery)
	}
	want := solver.Timeouts{
		Translate:	120 * time.Second,
		Synthesize:	120 * time.Second,
		Simplify:	120 * time.Second,
		Metric:		60 * time.Second,
	}
	if got := cfg.Budgets(); got != want {
		t.Errorf("budgets %+v", got)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	text := `input: corpus.txt
output: out.csv.gz
methods: ["transition_only"]
nfa2regex: ["bmc"]
filter_length: 40
aut_timeout: 10
regex_timeout: 20
simplify_timeout: 30
metric_timeout: 5
max_nodes: 1000000
workers: 4
flush_every: 100
ltl2tgba: /opt/spot/bin/ltl2tgba
`
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Input != "corpus.txt" || cfg.Output != "out.csv.gz" {
		t.Errorf("paths %q %q", cfg.Input, cfg.Output)
	}
	if !reflect.DeepEqual(cfg.Methods, []string{"transition_only"}) {
		t.Errorf("methods %v", cfg.Methods)
	}
	if !reflect.DeepEqual(cfg.Modes, []string{"bmc"}) {
		t.Errorf("modes %v", cfg.Modes)
	}
	// absent keys keep their defaults
	if !reflect.DeepEqual(cfg.Metrics, DefaultConfig().Metrics) {
		t.Errorf("metrics %v", cfg.Metrics)
	}
	if cfg.FilterLength != 40 || cfg.MaxNodes != 1000000 || cfg.Workers != 4 || cfg.FlushEvery != 100 {
		t.Errorf("config %+v", cfg)
	}
	if cfg.Ltl2tgba != "/opt/spot/bin/ltl2tgba" {
		t.Errorf("ltl2tgba %q", cfg.Ltl2tgba)
	}
	want := solver.Timeouts{
		Translate:	10 * time.Second,
		Synthesize:	20 * time.Second,
		Simplify:	30 * time.Second,
		Metric:		5 * time.Second,
	}
	if got := cfg.Budgets(); got != want {
		t.Errorf("budgets %+v", got)
	}
}

func TestLoadConfigStrict(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("inptu: corpus.txt\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("misspelled key accepted")
	}
	if _, err := LoadConfig(filepath.Join(dir, "absent.yaml")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestConfigParse(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := cfg.ParseMethods(); err != nil {
		t.Error(err)
	}
	if _, err := cfg.ParseModes(); err != nil {
		t.Error(err)
	}
	if _, err := cfg.ParseMetrics(); err != nil {
		t.Error(err)
	}

	cfg.Methods = []string{"state_direct", "nope"}
	if _, err := cfg.ParseMethods(); err == nil {
		t.Error("bad method accepted")
	}
	cfg.Methods = nil
	if _, err := cfg.ParseMethods(); err == nil {
		t.Error("empty methods accepted")
	}
	cfg.Modes = []string{"bmc", "nope"}
	if _, err := cfg.ParseModes(); err == nil {
		t.Error("bad mode accepted")
	}
	cfg.Metrics = []string{"size", "width"}
	if _, err := cfg.ParseMetrics(); err == nil {
		t.Error("bad metric accepted")
	}
}
