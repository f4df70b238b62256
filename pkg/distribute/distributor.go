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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/walteh/prefixdist/pkg/bucket"
	"github.com/walteh/prefixdist/pkg/config"
	"github.com/walteh/prefixdist/pkg/copyfile"
	"gitlab.com/tozd/go/errors"
)

// CheckpointEvery is how many processed files separate two checkpoints.
const CheckpointEvery = 100

// ListingError reports a source directory that could not be enumerated.
type ListingError struct {
	Dir string
	Err error
}

func (e *ListingError) Error() string {
	return "listing " + e.Dir + ": " + e.Err.Error()
}

func (e *ListingError) Unwrap() error { return e.Err }

// RunError is returned by Run when one or more entries were not distributed.
type RunError struct {
	Failures []Failure
	Aborted  bool
}

func (e *RunError) Error() string {
	first := e.Failures[0]
	if e.Aborted {
		return fmt.Sprintf("run aborted at %s: %s", first.Entry, first.Err)
	}
	return fmt.Sprintf("%d entries failed, first %s: %s", len(e.Failures), first.Entry, first.Err)
}

func (e *RunError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// 🔧 Options contains configuration for the distributor
type Options struct {
	// Config names the directories and the failure policy
	Config *config.Config
	// Observer receives progress events, nil means none
	Observer Observer
}

// 📦 Distributor copies every file of a flat source directory into the
// bucket directory named by the file's key.
type Distributor struct {
	cfg      *config.Config
	observer Observer
	now      func() time.Time
}

// 🏭 New creates a new distributor with the given options
func New(opts Options) (*Distributor, error) {
	if opts.Config == nil {
		return nil, errors.Errorf("config is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}
	return &Distributor{
		cfg:      opts.Config,
		observer: obs,
		now:      time.Now,
	}, nil
}

// 🏃 Run distributes the source directory into the target tree.
//
// The returned Result is always non-nil and finalized, even when the run
// stops early. The error is a *ListingError wrapper when the source could
// not be read, or a *RunError wrapper when entries failed.
func (d *Distributor) Run(ctx context.Context) (res *Result, err error) {
	lc := begin(ctx, d.cfg, d.observer, d.now)
	defer func() {
		res = lc.Finalize(ctx)
	}()

	logger := zerolog.Ctx(ctx)

	names, skipped, err := d.list(ctx)
	lc.result.Skipped = len(skipped)
	if err != nil {
		lc.result.Aborted = true
		logger.Warn().Err(err).Msg("listing source directory")
		d.observer.EntryFailed(ctx, Failure{Entry: d.cfg.Source, Err: err})
		return nil, err
	}

	prevKey := ""
	for _, name := range names {
		key := bucket.Key(name)

		entry, created, err := d.place(ctx, name, key)
		if err != nil {
			f := Failure{Entry: name, Bucket: key, Err: err}
			lc.recordFailure(f)
			logger.Warn().Err(err).Str("entry", name).Str("bucket", key).Msg("distributing entry")
			d.observer.EntryFailed(ctx, f)

			if d.cfg.OnError == config.OnErrorAbort {
				lc.result.Aborted = true
				break
			}
			continue
		}

		processed := lc.recordCopy(key, created)
		d.observer.EntryCopied(ctx, entry)
		if key != prevKey {
			d.observer.BucketChanged(ctx, key)
			prevKey = key
		}
		if processed%CheckpointEvery == 0 {
			d.observer.Checkpoint(ctx, processed)
		}
	}

	if len(lc.result.Failures) > 0 {
		return nil, errors.WithStack(&RunError{
			Failures: lc.result.Failures,
			Aborted:  lc.result.Aborted,
		})
	}
	return nil, nil
}

// 📄 place ensures the bucket for name exists and copies name into it
func (d *Distributor) place(ctx context.Context, name, key string) (Entry, bool, error) {
	dir := filepath.Join(d.cfg.Target, key)

	zerolog.Ctx(ctx).Debug().
		Str("entry", name).
		Str("bucket", key).
		Str("target", dir).
		Msg("distributing entry")

	created, err := bucket.Ensure(ctx, dir)
	if err != nil {
		return Entry{}, false, errors.Errorf("preparing bucket: %w", err)
	}

	res, err := copyfile.Copy(ctx, filepath.Join(d.cfg.Source, name), dir)
	if err != nil {
		return Entry{}, created, errors.Errorf("copying entry: %w", err)
	}

	return Entry{
		Name:     name,
		Bucket:   key,
		Path:     res.Path,
		Bytes:    res.Bytes,
		Replaced: res.Replaced,
	}, created, nil
}

// 🔍 list returns the names to distribute, in lexical order, and the names
// left out because they match an ignore pattern or are directories.
func (d *Distributor) list(ctx context.Context) (names, skipped []string, err error) {
	logger := zerolog.Ctx(ctx)

	// os.ReadDir sorts by file name
	entries, err := os.ReadDir(d.cfg.Source)
	if err != nil {
		return nil, nil, errors.WithStack(&ListingError{Dir: d.cfg.Source, Err: err})
	}
	logger.Debug().Int("entries", len(entries)).Msg("listed source directory")

	for _, e := range entries {
		name := e.Name()
		if pattern, ok := d.ignored(ctx, name); ok {
			logger.Debug().Str("entry", name).Str("pattern", pattern).Msg("entry ignored by pattern")
			skipped = append(skipped, name)
			continue
		}
		if e.IsDir() {
			logger.Warn().Str("entry", name).Msg("skipping directory in flat source")
			skipped = append(skipped, name)
			continue
		}
		names = append(names, name)
	}
	return names, skipped, nil
}

// 🔍 ignored checks if a name matches one of the ignore patterns
func (d *Distributor) ignored(ctx context.Context, name string) (string, bool) {
	for _, pattern := range d.cfg.Ignore {
		matched, err := doublestar.Match(pattern, name)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Str("pattern", pattern).Str("entry", name).Err(err).Msg("error matching pattern")
			continue
		}
		if matched {
			return pattern, true
		}
	}
	return "", false
}
