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
)

// StartInfo is handed to observers when a run begins.
type StartInfo struct {
	Source    string
	Legacy    string
	Target    string
	StartTime time.Time
}

// Entry describes one file that reached its bucket.
type Entry struct {
	Name     string // Source file name
	Bucket   string // Bucket key
	Path     string // Destination file path
	Bytes    int64
	Replaced bool // An older copy was overwritten
}

// Failure pairs a source entry with the error that stopped it.
type Failure struct {
	Entry  string
	Bucket string
	Err    error
}

// 👀 Observer receives the presentation side effects of a run. None of its
// methods influence control flow.
type Observer interface {
	RunStarted(ctx context.Context, info StartInfo)
	EntryCopied(ctx context.Context, entry Entry)
	// BucketChanged fires when a copied entry's bucket differs from the
	// previous copied entry's bucket.
	BucketChanged(ctx context.Context, key string)
	// Checkpoint fires every CheckpointEvery processed files.
	Checkpoint(ctx context.Context, processed int)
	// EntryFailed fires per failed entry, and once with the source directory
	// as Entry when the source cannot be listed.
	EntryFailed(ctx context.Context, failure Failure)
	RunFinished(ctx context.Context, result *Result)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) RunStarted(context.Context, StartInfo) {}
func (NopObserver) EntryCopied(context.Context, Entry) {}
func (NopObserver) BucketChanged(context.Context, string) {}
func (NopObserver) Checkpoint(context.Context, int) {}
func (NopObserver) EntryFailed(context.Context, Failure) {}
func (NopObserver) RunFinished(context.Context, *Result) {}

var _ Observer = NopObserver{}
