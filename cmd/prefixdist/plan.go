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
	"github.com/spf13/cobra"
	"github.com/walteh/prefixdist/pkg/distribute"
	"github.com/walteh/prefixdist/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// newPlanCmd creates the plan command
func newPlanCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show which bucket each source file would go to",
		Long: `Plan lists the source directory and groups its files by bucket
without creating directories or copying anything. Buckets already present
under the target are marked as existing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			d, err := distribute.New(distribute.Options{Config: cfg})
			if err != nil {
				return errors.Errorf("creating distributor: %w", err)
			}

			plan, err := d.Plan(cmd.Context())
			if err != nil {
				return errors.Errorf("planning: %w", err)
			}

			log.NewConsole(cmd.OutOrStdout()).Plan(plan)
			return nil
		},
	}
}
