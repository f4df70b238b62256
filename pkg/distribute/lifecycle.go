// Copyright 2025 walteh LLC
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

package distribute

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/prefixdist/pkg/config"
)

// 📊 Result is the run context accumulated by a Distributor and handed back
// to the caller once the run is finalized.
type Result struct {
	StartTime      time.Time
	Elapsed        time.Duration
	FilesProcessed int
	Skipped        int       // Entries left out by ignore patterns or for not being files
	Buckets        int       // Distinct buckets written to
	BucketsCreated int       // Buckets that did not exist before the run
	Failures       []Failure // Entries that could not be distributed
	Aborted        bool      // The run stopped before the end of the listing
}

// 🔄 Lifecycle brackets a run: Begin records the start, Finalize reports
// the summary. Finalize must run on every exit path.
type Lifecycle struct {
	result   *Result
	observer Observer
	buckets  map[string]struct{}
	now      func() time.Time
	done     bool
}

// 🏁 Begin starts a run and emits the start events.
func Begin(ctx context.Context, cfg *config.Config, obs Observer) *Lifecycle {
	return begin(ctx, cfg, obs, time.Now)
}

func begin(ctx context.Context, cfg *config.Config, obs Observer, now func() time.Time) *Lifecycle {
	if obs == nil {
		obs = NopObserver{}
	}
	lc := &Lifecycle{
		result: &Result{
			StartTime:      now(),
			FilesProcessed: 0,
		},
		observer: obs,
		buckets:  map[string]struct{}{},
		now:      now,
	}

	logger := zerolog.Ctx(ctx)
	logger.Info().Time("start", lc.result.StartTime).Msg("start of distribution")
	logger.Debug().
		Str("source", cfg.Source).
		Str("legacy", cfg.Legacy).
		Str("target", cfg.Target).
		Str("on_error", string(cfg.OnError)).
		Strs("ignore", cfg.Ignore).
		Msg("run directories")

	obs.RunStarted(ctx, StartInfo{
		Source:    cfg.Source,
		Legacy:    cfg.Legacy,
		Target:    cfg.Target,
		StartTime: lc.result.StartTime,
	})
	return lc
}

func (lc *Lifecycle) recordCopy(key string, bucketCreated bool) int {
	lc.result.FilesProcessed++
	if _, ok := lc.buckets[key]; !ok {
		lc.buckets[key] = struct{}{}
		lc.result.Buckets++
	}
	if bucketCreated {
		lc.result.BucketsCreated++
	}
	return lc.result.FilesProcessed
}

func (lc *Lifecycle) recordFailure(f Failure) {
	lc.result.Failures = append(lc.result.Failures, f)
}

// 🧾 Finalize computes the elapsed time, logs the summary and returns the
// finished result. Calling it more than once keeps the first summary.
func (lc *Lifecycle) Finalize(ctx context.Context) *Result {
	if lc.done {
		return lc.result
	}
	lc.done = true
	lc.result.Elapsed = lc.now().Sub(lc.result.StartTime)

	zerolog.Ctx(ctx).Info().
		Float64("seconds", lc.result.Elapsed.Seconds()).
		Int("files", lc.result.FilesProcessed).
		Int("skipped", lc.result.Skipped).
		Int("buckets", lc.result.Buckets).
		Int("buckets_created", lc.result.BucketsCreated).
		Int("failures", len(lc.result.Failures)).
		Bool("aborted", lc.result.Aborted).
		Msgf("%d seconds  %d files", int64(lc.result.Elapsed.Seconds()), lc.result.FilesProcessed)

	lc.observer.RunFinished(ctx, lc.result)
	return lc.result
}
