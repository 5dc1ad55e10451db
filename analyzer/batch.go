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


package analyzer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/latforge/sondeo/core"
)

// BatchItem is the outcome of one sample in a batch. Exactly one of
// Result and Err is set.
type BatchItem struct {
	Index  int
	Result *core.AnalysisResult
	Err    error
}

// AnalyzeBatch runs samples through the cascade concurrently, bounded by
// Config.Concurrency. Each sample gets its own Config.ItemTimeout; the
// whole call is bounded by Config.BatchTimeout. Results come back in
// input order, and one sample's failure or timeout never affects its
// siblings.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, samples []*core.TextSample, opts Options) []BatchItem {
	items := make([]BatchItem, len(samples))
	if len(samples) == 0 {
		return items
	}

	start := time.Now()
	batchCtx, cancel := context.WithTimeout(ctx, a.config.BatchTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i, sample := range samples {
		items[i].Index = i

		wg.Add(1)
		i, sample := i, sample
		submitErr := a.pool.Submit(func() {
			defer wg.Done()

			itemCtx, itemCancel := context.WithTimeout(batchCtx, a.config.ItemTimeout)
			defer itemCancel()

			result, err := a.Analyze(itemCtx, sample, opts)
			if err != nil {
				if errors.Is(err, context.DeadlineExceeded) {
					err = core.ErrItemTimeout
				}
				items[i].Err = err
				return
			}
			items[i].Result = result
		})
		if submitErr != nil {
			items[i].Err = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	succeeded := 0
	for _, item := range items {
		if item.Err == nil {
			succeeded++
		}
	}
	a.logger.Info("batch analysis complete",
		"samples", len(samples),
		"succeeded", succeeded,
		"failed", len(samples)-succeeded,
		"elapsed", time.Since(start))

	return items
}
