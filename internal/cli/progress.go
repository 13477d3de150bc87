package cli

import (
	"io"
	"log/slog"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// BatchProgress tracks a batch of invoices processed concurrently.
type BatchProgress struct {
	bar    *progressbar.ProgressBar
	passed int
	failed int
	mu     sync.Mutex
}

// NewBatchProgress creates a progress bar for total invoices on w.
func NewBatchProgress(w io.Writer, total int) *BatchProgress {
	return &BatchProgress{
		bar: progressbar.NewOptions(total,
			progressbar.OptionSetWriter(w),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("[cyan][bold]Itemizing invoices...[reset]"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

// Done records one finished invoice. Safe for concurrent use.
func (b *BatchProgress) Done(passed bool) {
	b.mu.Lock()
	if passed {
		b.passed++
	} else {
		b.failed++
	}
	b.mu.Unlock()

	if err := b.bar.Add(1); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}

// Finish completes the bar and returns the tallies.
func (b *BatchProgress) Finish() (passed, failed int) {
	if err := b.bar.Finish(); err != nil {
		slog.Warn("Failed to finish progress bar", "error", err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.passed, b.failed
}
