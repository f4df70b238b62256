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

// Package copyfile copies a single file into a directory while carrying over
// its permission bits and modification time.
package copyfile

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// ErrNotRegular is the cause recorded when the source is not a regular file.
var ErrNotRegular = errors.Base("not a regular file")

// CopyError reports a failed metadata-preserving copy.
type CopyError struct {
	Src string
	Dst string
	Err error
}

func (e *CopyError) Error() string {
	return "copying " + e.Src + " to " + e.Dst + ": " + e.Err.Error()
}

func (e *CopyError) Unwrap() error { return e.Err }

// 📄 Result describes the destination after a successful copy.
type Result struct {
	Path     string      // Destination file path
	Bytes    int64       // Bytes written
	Mode     os.FileMode // Permission bits applied
	ModTime  time.Time   // Modification time applied
	Replaced bool        // Whether an existing file was overwritten
}

// 📋 Copy copies src into dstDir under the same base name, replacing any
// file already there. The content is staged in a temp file inside dstDir
// and renamed over the destination.
func Copy(ctx context.Context, src, dstDir string) (Result, error) {
	dst := filepath.Join(dstDir, filepath.Base(src))
	fail := func(err error) (Result, error) {
		return Result{}, errors.WithStack(&CopyError{Src: src, Dst: dst, Err: err})
	}

	srcInfo, err := os.Stat(src)
	if err != nil {
		return fail(err)
	}
	if !srcInfo.Mode().IsRegular() {
		return fail(ErrNotRegular)
	}

	replaced := false
	if dstInfo, err := os.Lstat(dst); err == nil {
		if dstInfo.IsDir() {
			return fail(errors.Errorf("destination is a directory"))
		}
		replaced = true
	}

	in, err := os.Open(src)
	if err != nil {
		return fail(err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(dstDir, "."+filepath.Base(src)+".*.tmp")
	if err != nil {
		return fail(err)
	}
	tmpPath := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	n, err := io.Copy(tmp, in)
	if err != nil {
		cleanup()
		return fail(errors.Errorf("writing content: %w", err))
	}
	if err := tmp.Chmod(srcInfo.Mode().Perm()); err != nil {
		cleanup()
		return fail(errors.Errorf("setting permissions: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fail(errors.Errorf("closing temp file: %w", err))
	}

	// mtime has to be applied after the last write and survives the rename
	if err := os.Chtimes(tmpPath, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		os.Remove(tmpPath)
		return fail(errors.Errorf("setting times: %w", err))
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		os.Remove(tmpPath)
		return fail(errors.Errorf("replacing destination: %w", err))
	}

	zerolog.Ctx(ctx).Debug().
		Str("src", src).
		Str("dst", dst).
		Int64("bytes", n).
		Str("mode", srcInfo.Mode().Perm().String()).
		Bool("replaced", replaced).
		Msg("copied file")

	return Result{
		Path:     dst,
		Bytes:    n,
		Mode:     srcInfo.Mode().Perm(),
		ModTime:  srcInfo.ModTime(),
		Replaced: replaced,
	}, nil
}
