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
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/walteh/prefixdist/pkg/bucket"
)

// BucketPlan lists the entries headed for one bucket.
type BucketPlan struct {
	Key     string
	Path    string
	Exists  bool // The bucket directory is already present
	Entries []string
}

// Plan is a dry listing of a distribution.
type Plan struct {
	Source  string
	Target  string
	Buckets []BucketPlan // In order of first appearance
	Skipped []string
}

// Files returns the number of entries that would be copied.
func (p *Plan) Files() int {
	n := 0
	for _, b := range p.Buckets {
		n += len(b.Entries)
	}
	return n
}

// 🗺️ Plan groups the source entries by bucket without writing anything.
func (d *Distributor) Plan(ctx context.Context) (*Plan, error) {
	names, skipped, err := d.list(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Source:  d.cfg.Source,
		Target:  d.cfg.Target,
		Skipped: skipped,
	}
	index := map[string]int{}
	for _, name := range names {
		key := bucket.Key(name)
		i, ok := index[key]
		if !ok {
			dir := filepath.Join(d.cfg.Target, key)
			info, err := os.Stat(dir)
			plan.Buckets = append(plan.Buckets, BucketPlan{
				Key:    key,
				Path:   dir,
				Exists: err == nil && info.IsDir(),
			})
			i = len(plan.Buckets) - 1
			index[key] = i
		}
		plan.Buckets[i].Entries = append(plan.Buckets[i].Entries, name)
	}

	zerolog.Ctx(ctx).Debug().
		Int("buckets", len(plan.Buckets)).
		Int("files", plan.Files()).
		Int("skipped", len(plan.Skipped)).
		Msg("planned distribution")

	return plan, nil
}
