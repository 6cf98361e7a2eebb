// Package progress provides a progress indicator for multi-product
// sync runs.
package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/bloxtools/bloxsync/internal/logging"
	"github.com/bloxtools/bloxsync/internal/ui"
)

// Bar wraps progressbar with bloxsync's color and logging behavior.
type Bar struct {
	bar     *progressbar.ProgressBar
	enabled bool
	desc    string
}

// Options configures the progress bar.
type Options struct {
	// Max is the total number of products to process.
	Max int64
	// Description is the prefix text shown before the bar.
	Description string
	// Writer is the output destination. Defaults to os.Stderr.
	Writer io.Writer
}

// New creates a progress bar. The bar renders only when colors are
// enabled, the writer is a terminal, and logging is not at debug level;
// otherwise every method is a cheap no-op and the start is logged
// instead.
func New(opts Options) *Bar {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	b := &Bar{
		enabled: shouldShow(opts.Writer),
		desc:    opts.Description,
	}

	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s started", opts.Description),
			logging.Count(int(opts.Max)))
		return b
	}

	b.bar = progressbar.NewOptions64(
		opts.Max,
		progressbar.OptionSetDescription(opts.Description),
		progressbar.OptionSetWriter(opts.Writer),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(opts.Writer, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(ui.IsColorEnabled()),
	)

	return b
}

// ForProducts creates a bar sized for a sync run over count products.
func ForProducts(count int) *Bar {
	return New(Options{
		Max:         int64(count),
		Description: "Syncing",
	})
}

// Add increments the bar by n products.
func (b *Bar) Add(n int) error {
	if !b.enabled {
		return nil
	}
	return b.bar.Add(n)
}

// Describe updates the bar description, e.g. to the current product key.
func (b *Bar) Describe(desc string) {
	b.desc = desc
	if !b.enabled {
		return
	}
	b.bar.Describe(desc)
}

// Clear removes the bar from the terminal so status lines can print
// without tearing.
func (b *Bar) Clear() error {
	if !b.enabled {
		return nil
	}
	return b.bar.Clear()
}

// Finish completes the bar, or logs completion when disabled.
func (b *Bar) Finish() error {
	if !b.enabled {
		logging.Debug(fmt.Sprintf("%s completed", b.desc))
		return nil
	}
	return b.bar.Finish()
}

func shouldShow(w io.Writer) bool {
	if !ui.IsColorEnabled() {
		return false
	}
	f, ok := w.(*os.File)
	if !ok || !ui.IsTTY(f) {
		return false
	}
	// Interleaving a bar with debug logs makes both unreadable.
	return !logging.Default().Enabled(context.Background(), logging.LevelDebug)
}
