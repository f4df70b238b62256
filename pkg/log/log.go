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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/walteh/prefixdist/pkg/distribute"
)

// 🎨 Display configuration
const (
	progressMark = "."
	appName      = "prefixdist"
)

// 🎯 Console prints the user facing side of a run: banners, one progress
// mark per bucket transition, a line break at each checkpoint and a summary.
// Detailed records go to the zerolog run log instead.
type Console struct {
	out     io.Writer
	mu      sync.Mutex
	pending bool // progress marks are waiting for a line break
}

var _ distribute.Observer = (*Console)(nil)

// 🏭 NewConsole creates a console printer writing to out
func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

// 📝 Header logs a header
func (c *Console) Header(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	name := color.New(color.Bold, color.FgCyan).Sprint(appName)
	fmt.Fprintf(c.out, "\n%s %s\n", name, color.New(color.Faint).Sprint("• "+msg))
}

// 📝 Success logs a success message
func (c *Console) Success(msg string) {
	c.line("✅", color.FgGreen, msg)
}

// 📝 Warning logs a warning message
func (c *Console) Warning(msg string) {
	c.line("⚠️ ", color.FgYellow, msg)
}

// 📝 Error logs an error message
func (c *Console) Error(msg string) {
	c.line("❌", color.FgRed, msg)
}

func (c *Console) line(symbol string, attr color.Attribute, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	fmt.Fprintf(c.out, "%s %s\n", symbol, color.New(attr).Sprint(msg))
}

// breakLine ends a line of progress marks; callers hold mu
func (c *Console) breakLine() {
	if c.pending {
		fmt.Fprintln(c.out)
		c.pending = false
	}
}

// RunStarted prints the start banner
func (c *Console) RunStarted(ctx context.Context, info distribute.StartInfo) {
	c.Header("start of distribution")

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "%s %s %s\n",
		color.New(color.FgYellow).Sprint(info.Source),
		color.New(color.FgMagenta).Sprint("→"),
		color.New(color.FgCyan).Sprint(info.Target))
}

// EntryCopied is recorded in the run log only
func (c *Console) EntryCopied(ctx context.Context, entry distribute.Entry) {}

// BucketChanged prints one progress mark
func (c *Console) BucketChanged(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, progressMark)
	c.pending = true
}

// Checkpoint ends the current line of progress marks
func (c *Console) Checkpoint(ctx context.Context, processed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out)
	c.pending = false
}

// EntryFailed prints a one line failure message
func (c *Console) EntryFailed(ctx context.Context, f distribute.Failure) {
	c.Error(fmt.Sprintf("%s: %v", f.Entry, f.Err))
}

// RunFinished prints the failure table, the summary and the closing banner
func (c *Console) RunFinished(ctx context.Context, res *distribute.Result) {
	if len(res.Failures) > 1 {
		c.table(failureTable(res.Failures))
	}

	summary := fmt.Sprintf("%d files into %d buckets (%d new) in %.1fs",
		res.FilesProcessed, res.Buckets, res.BucketsCreated, res.Elapsed.Seconds())
	if res.Skipped > 0 {
		summary += fmt.Sprintf(", %d skipped", res.Skipped)
	}

	switch {
	case res.Aborted:
		c.Warning("aborted after " + summary)
	case len(res.Failures) > 0:
		c.Warning(fmt.Sprintf("%s, %d failed", summary, len(res.Failures)))
	default:
		c.Success(summary)
	}

	c.Header("end of distribution")
}

// 🗺️ Plan prints a dry run listing, one row per bucket
func (c *Console) Plan(plan *distribute.Plan) {
	c.Header("plan")

	data := pterm.TableData{{"bucket", "state", "files", "first entry"}}
	for _, b := range plan.Buckets {
		state := "new"
		if b.Exists {
			state = "exists"
		}
		data = append(data, []string{b.Key, state, fmt.Sprint(len(b.Entries)), b.Entries[0]})
	}
	c.table(data)

	msg := fmt.Sprintf("%d files into %d buckets", plan.Files(), len(plan.Buckets))
	if len(plan.Skipped) > 0 {
		msg += fmt.Sprintf(", skipping %s", strings.Join(plan.Skipped, ", "))
	}
	c.Success(msg)
}

func failureTable(failures []distribute.Failure) pterm.TableData {
	data := pterm.TableData{{"entry", "bucket", "error"}}
	for _, f := range failures {
		data = append(data, []string{f.Entry, f.Bucket, f.Err.Error()})
	}
	return data
}

func (c *Console) table(data pterm.TableData) {
	rendered, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		c.Error(fmt.Sprintf("rendering table: %v", err))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.breakLine()
	fmt.Fprintln(c.out, rendered)
}
