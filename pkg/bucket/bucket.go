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

// Package bucket maps deliverable file names to their prefix-named bucket
// directories and creates those directories on demand.
package bucket

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// KeyLength is the number of leading name characters that select a bucket.
const KeyLength = 8

// DirectoryCreateError reports a bucket directory that could not be created
// for a reason other than it already existing.
type DirectoryCreateError struct {
	Path string
	Err  error
}

func (e *DirectoryCreateError) Error() string {
	return "creating bucket directory " + e.Path + ": " + e.Err.Error()
}

func (e *DirectoryCreateError) Unwrap() error { return e.Err }

// ErrNotDirectory is the cause recorded when a bucket path is taken by a file.
var ErrNotDirectory = errors.Base("exists and is not a directory")

// 🔑 Key returns the first KeyLength characters of a file name.
//
// Names shorter than KeyLength characters are their own key; no padding is
// applied. The key is taken positionally and is not checked for being numeric.
func Key(name string) string {
	n := 0
	for i := range name {
		if n == KeyLength {
			return name[:i]
		}
		n++
	}
	return name
}

// 📁 Path returns the bucket directory for name under targetRoot.
func Path(targetRoot, name string) string {
	return filepath.Join(targetRoot, Key(name))
}

// 🏗️ Ensure makes sure dir exists as a directory, creating parents as
// needed. created reports whether this call made the directory.
//
// An existing directory is left as is, along with anything already in it.
func Ensure(ctx context.Context, dir string) (created bool, err error) {
	info, err := os.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return false, nil
	case err == nil:
		return false, errors.WithStack(&DirectoryCreateError{Path: dir, Err: ErrNotDirectory})
	case !os.IsNotExist(err):
		return false, errors.WithStack(&DirectoryCreateError{Path: dir, Err: err})
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, errors.WithStack(&DirectoryCreateError{Path: dir, Err: err})
	}

	zerolog.Ctx(ctx).Debug().Str("bucket", dir).Msg("created bucket directory")
	return true, nil
}
