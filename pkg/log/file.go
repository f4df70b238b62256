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

package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// TimeFormat is the timestamp layout of the run log.
const TimeFormat = "20060102 150405"

// 📂 OpenFile opens the run log, truncating it unless appendMode is set.
func OpenFile(path string, appendMode bool) (*os.File, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return nil, errors.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// 🏭 NewLogger creates a timestamped logger writing to every w.
func NewLogger(level zerolog.Level, w ...io.Writer) zerolog.Logger {
	var out io.Writer
	switch len(w) {
	case 0:
		out = io.Discard
	case 1:
		out = w[0]
	default:
		out = zerolog.MultiLevelWriter(w...)
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
