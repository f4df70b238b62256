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

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("PREFIXDIST_TEST_ROOT", "/srv/basins")

	tests := []struct {
		name        string
		filename    string
		config      string
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:     "yaml_full",
			filename: "prefixdist.yaml",
			config: `
source: /data/NewBASINSCore
legacy: /data/OldBASINSCore
target: /data/basinsdata
log_file: run.log
log_append: true
on_error: continue
ignore:
  - "*.tmp"
  - "Thumbs.db"
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/NewBASINSCore", cfg.Source, "source should match")
				assert.Equal(t, "/data/OldBASINSCore", cfg.Legacy, "legacy should match")
				assert.Equal(t, "/data/basinsdata", cfg.Target, "target should match")
				assert.Equal(t, "run.log", cfg.LogFile, "log file should match")
				assert.True(t, cfg.LogAppend, "log append should be set")
				assert.Equal(t, OnErrorContinue, cfg.OnError, "policy should match")
				assert.Equal(t, []string{"*.tmp", "Thumbs.db"}, cfg.Ignore, "ignore patterns should match")
			},
		},
		{
			name:     "yaml_minimal_gets_defaults",
			filename: "prefixdist.yml",
			config: `
source: /data/new
target: /data/target
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultLogFile, cfg.LogFile, "log file should default")
				assert.Equal(t, OnErrorAbort, cfg.OnError, "policy should default to abort")
				assert.False(t, cfg.LogAppend)
				assert.Empty(t, cfg.Legacy)
			},
		},
		{
			name:     "yaml_unknown_field",
			filename: "prefixdist.yaml",
			config: `
source: /data/new
target: /data/target
async: true
`,
			errContains: "parsing YAML",
		},
		{
			name:     "hcl_with_env",
			filename: "prefixdist.hcl",
			config: `
source   = "${env.PREFIXDIST_TEST_ROOT}/NewBASINSCore"
legacy   = "${env.PREFIXDIST_TEST_ROOT}/OldBASINSCore"
target   = "${env.PREFIXDIST_TEST_ROOT}/basinsdata"
on_error = "continue"
ignore   = ["*.tmp"]
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/basins/NewBASINSCore", cfg.Source)
				assert.Equal(t, "/srv/basins/OldBASINSCore", cfg.Legacy)
				assert.Equal(t, "/srv/basins/basinsdata", cfg.Target)
				assert.Equal(t, OnErrorContinue, cfg.OnError)
				assert.Equal(t, []string{"*.tmp"}, cfg.Ignore)
				assert.Equal(t, DefaultLogFile, cfg.LogFile)
			},
		},
		{
			name:        "hcl_syntax_error",
			filename:    "prefixdist.hcl",
			config:      `source = `,
			errContains: "parsing HCL",
		},
		{
			name:     "json",
			filename: "prefixdist.json",
			config:   `{"source": "/data/new", "target": "/data/target", "log_file": "dist.log"}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/new", cfg.Source)
				assert.Equal(t, "/data/target", cfg.Target)
				assert.Equal(t, "dist.log", cfg.LogFile)
			},
		},
		{
			name:        "json_unknown_field",
			filename:    "prefixdist.json",
			config:      `{"source": "/data/new", "destination": "/x"}`,
			errContains: "parsing JSON",
		},
		{
			name:        "unsupported_extension",
			filename:    "prefixdist.toml",
			config:      `source = "x"`,
			errContains: "no parser found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := zerolog.New(zerolog.NewTestWriter(t))
			ctx := logger.WithContext(context.Background())

			path := filepath.Join(t.TempDir(), tt.filename)
			require.NoError(t, os.WriteFile(path, []byte(tt.config), 0644))

			cfg, err := Load(ctx, path)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	ctx := zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
	_, err := Load(ctx, filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid_cleans_paths",
			cfg:  Config{Source: "/data/new/", Legacy: "/data//old", Target: "/data/./target"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/data/new", cfg.Source)
				assert.Equal(t, "/data/old", cfg.Legacy)
				assert.Equal(t, "/data/target", cfg.Target)
				assert.Equal(t, OnErrorAbort, cfg.OnError)
				assert.Equal(t, DefaultLogFile, cfg.LogFile)
			},
		},
		{
			name:        "missing_source",
			cfg:         Config{Target: "/data/target"},
			errContains: "source is required",
		},
		{
			name:        "missing_target",
			cfg:         Config{Source: "/data/new"},
			errContains: "target is required",
		},
		{
			name:        "bad_policy",
			cfg:         Config{Source: "/a", Target: "/b", OnError: "retry"},
			errContains: "on_error must be",
		},
		{
			name:        "bad_pattern",
			cfg:         Config{Source: "/a", Target: "/b", Ignore: []string{"[unclosed"}},
			errContains: "invalid ignore pattern",
		},
		{
			name:        "same_source_and_target",
			cfg:         Config{Source: "/data/x/", Target: "/data/x"},
			errContains: "must differ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, &cfg)
		})
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultLogFile, cfg.LogFile)
	assert.Equal(t, OnErrorAbort, cfg.OnError)
	assert.Error(t, cfg.Validate(), "default config has no paths")
}
