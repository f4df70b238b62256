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

package copyfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func writeSource(t *testing.T, dir, name, content string, mode os.FileMode, mtime time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	require.NoError(t, os.Chmod(path, mode))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func assertSameFile(t *testing.T, src, dst string) {
	t.Helper()
	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	dstInfo, err := os.Stat(dst)
	require.NoError(t, err)

	srcContent, err := os.ReadFile(src)
	require.NoError(t, err)
	dstContent, err := os.ReadFile(dst)
	require.NoError(t, err)

	assert.Equal(t, string(srcContent), string(dstContent), "content should match")
	assert.Equal(t, srcInfo.Mode().Perm(), dstInfo.Mode().Perm(), "permissions should match")
	assert.True(t, srcInfo.ModTime().Equal(dstInfo.ModTime()), "mtime should match: %s vs %s", srcInfo.ModTime(), dstInfo.ModTime())
}

func TestCopy(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	mtime := time.Date(2016, 3, 14, 9, 26, 53, 0, time.UTC)

	src := writeSource(t, srcDir, "01010001_nhd.exe", "nhd payload", 0750, mtime)

	res, err := Copy(ctx, src, dstDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dstDir, "01010001_nhd.exe"), res.Path)
	assert.Equal(t, int64(len("nhd payload")), res.Bytes)
	assert.Equal(t, os.FileMode(0750), res.Mode)
	assert.False(t, res.Replaced)
	assertSameFile(t, src, res.Path)

	entries, err := os.ReadDir(dstDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files are left behind")
}

func TestCopyOverwrites(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()

	old := filepath.Join(dstDir, "01070006_old.exe")
	require.NoError(t, os.WriteFile(old, []byte("stale and longer content"), 0600))

	src := writeSource(t, srcDir, "01070006_old.exe", "fresh", 0644, time.Now().Add(-time.Hour).Truncate(time.Second))

	res, err := Copy(ctx, src, dstDir)
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	assertSameFile(t, src, old)
}

func TestCopyIsIdempotent(t *testing.T) {
	ctx := testContext(t)
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	src := writeSource(t, srcDir, "01010006_census.exe", "census", 0640, time.Date(2015, 1, 2, 3, 4, 5, 0, time.UTC))

	_, err := Copy(ctx, src, dstDir)
	require.NoError(t, err)
	first, err := os.Stat(filepath.Join(dstDir, "01010006_census.exe"))
	require.NoError(t, err)

	_, err = Copy(ctx, src, dstDir)
	require.NoError(t, err)
	second, err := os.Stat(filepath.Join(dstDir, "01010006_census.exe"))
	require.NoError(t, err)

	assert.Equal(t, first.Size(), second.Size())
	assert.Equal(t, first.Mode(), second.Mode())
	assert.True(t, first.ModTime().Equal(second.ModTime()))
	assertSameFile(t, src, filepath.Join(dstDir, "01010006_census.exe"))
}

func TestCopyErrors(t *testing.T) {
	ctx := testContext(t)

	tests := []struct {
		name  string
		setup func(t *testing.T) (src, dstDir string)
		cause error
	}{
		{
			name: "missing_source",
			setup: func(t *testing.T) (string, string) {
				return filepath.Join(t.TempDir(), "nope.exe"), t.TempDir()
			},
			cause: os.ErrNotExist,
		},
		{
			name: "source_is_directory",
			setup: func(t *testing.T) (string, string) {
				src := filepath.Join(t.TempDir(), "01010001")
				require.NoError(t, os.Mkdir(src, 0755))
				return src, t.TempDir()
			},
			cause: ErrNotRegular,
		},
		{
			name: "missing_destination_directory",
			setup: func(t *testing.T) (string, string) {
				src := writeSource(t, t.TempDir(), "01010001_nhd.exe", "x", 0644, time.Now())
				return src, filepath.Join(t.TempDir(), "absent")
			},
			cause: os.ErrNotExist,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, dstDir := tt.setup(t)
			_, err := Copy(ctx, src, dstDir)
			require.Error(t, err)

			var cErr *CopyError
			require.True(t, errors.As(err, &cErr))
			assert.Equal(t, src, cErr.Src)
			assert.True(t, errors.Is(err, tt.cause), "unexpected cause: %v", err)
		})
	}
}
