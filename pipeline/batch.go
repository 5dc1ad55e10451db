// Copyright 2026 Latforge Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/latforge/sondeo/core"
)

// Report summarizes one ProcessBatch call. Outcomes is index-aligned with
// the input samples; a failed sample leaves a nil Outcome and an entry in
// Failed keyed by its fingerprint, so callers can resubmit exactly the
// samples that did not make it to storage.
type Report struct {
	Outcomes []*Outcome
	Failed   map[core.Fingerprint]error
	Timeouts int
	Elapsed  time.Duration
	Methods  map[string]int // count of stored outcomes per analysis method
}

// ProcessBatch processes samples concurrently, bounded by the analyzer's
// batch limits. Each sample gets its own per-item timeout and its own
// failure domain: nothing in a batch is fatal to the host process.
func (p *Pipeline) ProcessBatch(ctx context.Context, samples []*core.TextSample) *Report {
	report := &Report{
		Outcomes: make([]*Outcome, len(samples)),
		Failed:   make(map[core.Fingerprint]error),
		Methods:  make(map[string]int),
	}
	if len(samples) == 0 {
		return report
	}

	start := time.Now()
	cfg := p.analyzer.Config()
	batchCtx, cancel := context.WithTimeout(ctx, cfg.BatchTimeout)
	defer cancel()

	errs := make([]error, len(samples))

	var wg sync.WaitGroup
	for i, sample := range samples {
		wg.Add(1)
		i, sample := i, sample
		submitErr := p.pool.Submit(func() {
			defer wg.Done()

			itemCtx, itemCancel := context.WithTimeout(batchCtx, cfg.ItemTimeout)
			defer itemCancel()

			outcome, err := p.Process(itemCtx, sample)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = core.ErrItemTimeout
				}
				errs[i] = err
				return
			}
			report.Outcomes[i] = outcome
		})
		if submitErr != nil {
			errs[i] = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		report.Failed[samples[i].Fingerprint()] = err
		if errors.Is(err, core.ErrItemTimeout) {
			report.Timeouts++
		}
	}
	for _, outcome := range report.Outcomes {
		if outcome != nil {
			report.Methods[outcome.Result.Method.String()]++
		}
	}
	report.Elapsed = time.Since(start)

	p.logger.Info("batch processing complete",
		"samples", len(samples),
		"stored", len(samples)-len(report.Failed),
		"failed", len(report.Failed),
		"timeouts", report.Timeouts,
		"elapsed", report.Elapsed)

	return report
}
