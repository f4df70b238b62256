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

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

const shortRevisionLength = 12

// buildStamp identifies the binary that performed a migration, so a run log
// can be traced back to the exact build.
type buildStamp struct {
	Module   string `json:"module" yaml:"module"`
	Version  string `json:"version" yaml:"version"`
	Commit   string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Dirty    bool   `json:"dirty" yaml:"dirty"`
	Built    string `json:"built,omitempty" yaml:"built,omitempty"`
	Go       string `json:"go" yaml:"go"`
	Platform string `json:"platform" yaml:"platform"`
}

// 🏷️ stampFrom reduces build info to a stamp. A nil info (binaries built
// without module support) yields a "dev" stamp.
func stampFrom(bi *debug.BuildInfo) buildStamp {
	st := buildStamp{
		Module:   "github.com/walteh/prefixdist",
		Version:  "dev",
		Go:       runtime.Version(),
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}
	if bi == nil {
		return st
	}
	if bi.Main.Path != "" {
		st.Module = bi.Main.Path
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		st.Version = v
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			st.Commit = s.Value
		case "vcs.time":
			st.Built = s.Value
		case "vcs.modified":
			st.Dirty = s.Value == "true"
		}
	}
	return st
}

func currentStamp() buildStamp {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return stampFrom(nil)
	}
	return stampFrom(bi)
}

// shortCommit is the abbreviated commit with a "+dirty" suffix for builds
// from a modified tree.
func (s buildStamp) shortCommit() string {
	c := s.Commit
	if c == "" {
		c = "unknown"
	} else if len(c) > shortRevisionLength {
		c = c[:shortRevisionLength]
	}
	if s.Dirty {
		c += "+dirty"
	}
	return c
}

func (s buildStamp) writeText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "prefixdist %s (%s)\n", s.Version, s.shortCommit())
	if s.Built != "" {
		fmt.Fprintf(&b, "  built    %s\n", s.Built)
	}
	fmt.Fprintf(&b, "  module   %s\n", s.Module)
	fmt.Fprintf(&b, "  go       %s %s\n", s.Go, s.Platform)
	_, err := io.WriteString(w, b.String())
	return err
}

func (s buildStamp) write(w io.Writer, format string) error {
	switch format {
	case "", "text":
		return s.writeText(w)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.WithStack(enc.Encode(s))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return errors.WithStack(err)
		}
		return errors.WithStack(enc.Close())
	default:
		return errors.Errorf("unknown version format %q (want text, json or yaml)", format)
	}
}

func newVersionCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build that would perform the migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return currentStamp().write(cmd.OutOrStdout(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}
