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
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/prefixdist/pkg/config"
	"github.com/walteh/prefixdist/pkg/distribute"
	"github.com/walteh/prefixdist/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// rootFlags holds the flags shared by every command
type rootFlags struct {
	configFile string
	debug      bool

	source    string
	legacy    string
	target    string
	logFile   string
	logAppend bool
	onError   string
	ignore    []string
}

// newRootCmd creates the prefixdist command tree
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "prefixdist",
		Short: "Distribute flat deliverables into prefix-named bucket directories",
		Long: `prefixdist copies every file of a flat source directory into
<target>/<first 8 characters of the file name>/, creating bucket directories
as needed and overwriting older copies while keeping permissions and
modification times.

It is meant for merging a new snapshot of a dataset into a tree seeded from
the old one, e.g. NewBASINSCore/01010006_nhd.exe -> basinsdata/01010006/.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistribute(cmd, flags)
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		newPlanCmd(flags),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, flags *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.configFile, "config", "c", "", "config file path (.yaml, .hcl or .json)")
	pf.BoolVarP(&flags.debug, "debug", "d", false, "also write the run log to stderr")
	pf.StringVar(&flags.source, "source", "", "flat directory of new deliverables")
	pf.StringVar(&flags.legacy, "legacy", "", "old snapshot the target was seeded from (reported only)")
	pf.StringVar(&flags.target, "target", "", "root directory holding the bucket directories")
	pf.StringVar(&flags.logFile, "log-file", config.DefaultLogFile, "run log path")
	pf.BoolVar(&flags.logAppend, "log-append", false, "append to the run log instead of truncating it")
	pf.StringVar(&flags.onError, "on-error", string(config.OnErrorAbort), "failure policy: abort or continue")
	pf.StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns for source names to leave out")
}

// loadConfig reads the config file, if any, and layers explicitly set flags on top
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*config.Config, error) {
	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.Load(cmd.Context(), flags.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.Source = flags.source
	}
	if changed("legacy") {
		cfg.Legacy = flags.legacy
	}
	if changed("target") {
		cfg.Target = flags.target
	}
	if changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	if changed("log-append") {
		cfg.LogAppend = flags.logAppend
	}
	if changed("on-error") {
		cfg.OnError = config.ErrorPolicy(flags.onError)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// setupLogging opens the run log and returns a context carrying its logger
func setupLogging(ctx context.Context, cfg *config.Config, debug bool) (context.Context, io.Closer, error) {
	zerolog.TimeFieldFormat = log.TimeFormat

	f, err := log.OpenFile(cfg.LogFile, cfg.LogAppend)
	if err != nil {
		return nil, nil, err
	}

	writers := []io.Writer{f}
	if debug {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: log.TimeFormat})
	}
	logger := log.NewLogger(zerolog.DebugLevel, writers...)
	return logger.WithContext(ctx), f, nil
}

func runDistribute(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return err
	}

	ctx, closer, err := setupLogging(cmd.Context(), cfg, flags.debug)
	if err != nil {
		return err
	}
	defer closer.Close()

	d, err := distribute.New(distribute.Options{
		Config:   cfg,
		Observer: log.NewConsole(cmd.OutOrStdout()),
	})
	if err != nil {
		return errors.Errorf("creating distributor: %w", err)
	}

	res, err := d.Run(ctx)
	zerolog.Ctx(ctx).Info().Int("files", res.FilesProcessed).Msg("end of distribution")
	if err != nil {
		return errors.Errorf("distributing %s: %w", cfg.Source, err)
	}
	return nil
}
