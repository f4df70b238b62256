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
	"testing"

	"github.com/stretchr/testify/mock"
)

// 🎭 mockObserver is a testify mock of Observer
type mockObserver struct {
	mock.Mock
}

// newMockObserver creates a mock that accepts every event and checks the
// registered expectations when the test ends
func newMockObserver(t *testing.T) *mockObserver {
	m := &mockObserver{}
	m.Test(t)
	for _, method := range []string{"RunStarted", "EntryCopied", "BucketChanged", "Checkpoint", "EntryFailed", "RunFinished"} {
		m.On(method, mock.Anything, mock.Anything).Return().Maybe()
	}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockObserver) RunStarted(ctx context.Context, info StartInfo) { m.Called(ctx, info) }
func (m *mockObserver) EntryCopied(ctx context.Context, e Entry) { m.Called(ctx, e) }
func (m *mockObserver) BucketChanged(ctx context.Context, key string) { m.Called(ctx, key) }
func (m *mockObserver) Checkpoint(ctx context.Context, n int) { m.Called(ctx, n) }
func (m *mockObserver) EntryFailed(ctx context.Context, f Failure) { m.Called(ctx, f) }
func (m *mockObserver) RunFinished(ctx context.Context, res *Result) { m.Called(ctx, res) }

var _ Observer = (*mockObserver)(nil)

// received returns the second argument of every call to method, in order
func received[T any](m *mockObserver, method string) []T {
	var out []T
	for _, c := range m.Calls {
		if c.Method == method {
			out = append(out, c.Arguments.Get(1).(T))
		}
	}
	return out
}

func (m *mockObserver) started() []StartInfo { return received[StartInfo](m, "RunStarted") }
func (m *mockObserver) copied() []Entry { return received[Entry](m, "EntryCopied") }
func (m *mockObserver) buckets() []string { return received[string](m, "BucketChanged") }
func (m *mockObserver) checkpoints() []int { return received[int](m, "Checkpoint") }
func (m *mockObserver) failures() []Failure { return received[Failure](m, "EntryFailed") }
func (m *mockObserver) finished() []*Result { return received[*Result](m, "RunFinished") }
