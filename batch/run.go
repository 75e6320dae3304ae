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
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
	"sigs.k8s.io/yaml"

	"github.com/pertcj/nba-expression-synthesis/compr"
	"github.com/pertcj/nba-expression-synthesis/ltl"
	"github.com/pertcj/nba-expression-synthesis/solver"
	"github.com/pertcj/nba-expression-synthesis/spot"
	"github.com/pertcj/nba-expression-synthesis/synth"
)

// Manifest describes a finished run. It is written next to the report
// as YAML so results stay traceable to their corpus and settings.
type Manifest struct {
	RunID		string		`json:"run_id"`
	Started		time.Time	`json:"started"`
	WallSeconds	float64		`json:"wall_seconds"`
	Corpus		string		`json:"corpus,omitempty"`
	CorpusDigest	string		`json:"corpus_blake2b,omitempty"`
	Formulas	int		`json:"formulas"`
	Kept		int		`json:"kept"`
	Items		int		`json:"items"`
	Config		Config		`json:"config"`
	Host		Host		`json:"host"`
	Rusage		*Rusage		`json:"rusage,omitempty"`
}

// Report bundles everything a run produced.
type Report struct {
	Manifest	Manifest
	Summary		*Summary
	Table		*Table
}

// Runner evaluates corpora. The zero value shells out to ltl2tgba and
// logs nowhere.
type Runner struct {
	// Translator overrides how formulas become automata; nil uses
	// the ltl2tgba binary named by the config.
	Translator spot.Translator
	// Log receives progress lines; nil silences them.
	Log *log.Logger
}

func (r *Runner) logf(format string, args ...any) {
	if r.Log != nil {
		r.Log.Printf(format, args...)
	}
}

// item is one evaluation: a formula row under one method and mode.
type item struct {
	index	int
	formula	string
	method	solver.Method
	mode	synth.Mode
}

// Run evaluates every formula of the corpus under every configured
// method and returns the filled report. Setup problems (corpus,
// config, output files) are fatal; per-evaluation failures are
// encoded in the table and the run carries on. Cancelling ctx stops
// feeding work and returns the context error.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Report, error) {
	methods, err := cfg.ParseMethods()
	if err != nil {
		return nil, err
	}
	modes, err := cfg.ParseModes()
	if err != nil {
		return nil, err
	}
	metrics, err := cfg.ParseMetrics()
	if err != nil {
		return nil, err
	}
	formulas, digest, err := loadCorpus(cfg.Input)
	if err != nil {
		return nil, err
	}
	kept, lens := ltl.Filter(formulas, cfg.FilterLength)

	tr := r.Translator
	if tr == nil {
		tr = &spot.CLI{Path: cfg.Ltl2tgba}
	}

	table := NewTable(lens, methods, modes, metrics)
	sum := newSummary(Prefixes(methods, modes))

	var items []item
	for i, f := range kept {
		for _, m := range methods {
			if !m.UsesMode() {
				items = append(items, item{i, f, m, synth.ModeBMC})
				continue
			}
			for _, mode := range modes {
				items = append(items, item{i, f, m, mode})
			}
		}
	}

	start := time.Now()
	manifest := Manifest{
		RunID:		uuid.New().String(),
		Started:	start.UTC(),
		Corpus:		cfg.Input,
		CorpusDigest:	digest,
		Formulas:	len(formulas),
		Kept:		len(kept),
		Items:		len(items),
		Config:		cfg,
		Host:		hostInfo(),
	}
	r.logf("run %s: %d formulas, %d kept, %d evaluations",
		manifest.RunID, len(formulas), len(kept), len(items))

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	budgets := cfg.Budgets()

	work := make(chan item)
	results := make(chan *solver.Result, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for it := range work {
				res := solver.Solve(ctx, tr, it.formula, solver.Options{
					Method:		it.method,
					Mode:		it.mode,
					Metrics:	metrics,
					Budgets:	budgets,
					MaxNodes:	cfg.MaxNodes,
				})
				res.Index = it.index
				results <- res
			}
		}()
	}

	// the collector alone touches the table and summary
	done := make(chan struct{})
	var applyErr error
	go func() {
		defer close(done)
		completed := 0
		for res := range results {
			if err := table.Apply(res); err != nil && applyErr == nil {
				applyErr = err
			}
			sum.add(res)
			completed++
			r.logf("formula %d %s: %s", res.Index, res.Method.ColumnPrefix(res.Mode), res.Outcome)
			if cfg.Output != "" && cfg.FlushEvery > 0 && completed%cfg.FlushEvery == 0 {
				if err := table.Flush(cfg.Output); err != nil {
					r.logf("flush %s: %v", cfg.Output, err)
				}
			}
		}
	}()

feed:
	for _, it := range items {
		select {
		case work <- it:
		case <-ctx.Done():
			break feed
		}
	}
	close(work)
	wg.Wait()
	close(results)
	<-done

	if applyErr != nil {
		return nil, applyErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest.WallSeconds = time.Since(start).Seconds()
	manifest.Rusage = readRusage()

	if cfg.Output != "" {
		if err := table.Flush(cfg.Output); err != nil {
			return nil, err
		}
		if err := writeManifest(cfg.Output+".manifest.yaml", &manifest); err != nil {
			return nil, err
		}
		r.logf("report written to %s", cfg.Output)
	}
	return &Report{Manifest: manifest, Summary: sum, Table: table}, nil
}

// loadCorpus reads the formula file, fingerprinting the raw bytes
// before decompression so the digest matches the file on disk.
func loadCorpus(path string) ([]string, string, error) {
	if path == "" {
		return nil, "", fmt.Errorf("no corpus configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	sum := blake2b.Sum256(raw)
	rd, err := compr.Reader(bytes.NewReader(raw), filepath.Ext(path))
	if err != nil {
		return nil, "", err
	}
	defer rd.Close()
	formulas, err := ltl.Read(rd)
	if err != nil {
		return nil, "", fmt.Errorf("corpus %s: %w", path, err)
	}
	return formulas, fmt.Sprintf("%x", sum), nil
}

func writeManifest(path string, m *Manifest) error {
	buf, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0644)
}
