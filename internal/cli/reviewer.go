package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/Veraticus/hotel-itemizer/internal/model"
)

// ErrInputTerminated is returned when the input stream ends mid-review.
var ErrInputTerminated = errors.New("input terminated")

// ReviewStats summarizes a review session.
type ReviewStats struct {
	Total    int
	Accepted int
	Changed  int
	Kept     int
	Skipped  int
	Duration time.Duration
}

// Reviewer walks a person through assigning a category to every line item
// of an invoice.
type Reviewer struct {
	startTime   time.Time
	writer      io.Writer
	reader      *LineReader
	progressBar *progressbar.ProgressBar
	recent      []model.Category
	stats       ReviewStats
}

// NewReviewer creates a reviewer reading choices from reader.
func NewReviewer(reader io.Reader, writer io.Writer) *Reviewer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Reviewer{
		reader: NewLineReader(reader),
		writer: writer,
	}
}

// Review returns a copy of inv with user categories set from the
// reviewer's answers. Skipped items keep whatever assignment they had.
func (r *Reviewer) Review(ctx context.Context, inv model.InvoiceDetails) (model.InvoiceDetails, error) {
	out := inv.Clone()
	r.startTime = time.Now()
	r.stats = ReviewStats{Total: len(out.LineItems)}
	r.initProgressBar(len(out.LineItems))

	for i := range out.LineItems {
		if err := ctx.Err(); err != nil {
			return inv, err
		}

		item := &out.LineItems[i]
		if _, err := fmt.Fprintln(r.writer, RenderBox(
			fmt.Sprintf("Line item %d of %d", i+1, len(out.LineItems)),
			r.formatLineItem(*item, out.Currency),
		)); err != nil {
			return inv, fmt.Errorf("failed to write line item box: %w", err)
		}

		choice, err := r.promptChoice(ctx, *item)
		if err != nil {
			return inv, err
		}

		switch {
		case choice == "a":
			item.UserCategory = model.CategoryPtr(*item.SuggestedCategory)
			r.stats.Accepted++
			r.remember(*item.SuggestedCategory)
		case choice == "k":
			r.stats.Kept++
		case choice == "s":
			r.stats.Skipped++
		default:
			n, _ := strconv.Atoi(choice)
			cat := model.Categories()[n-1]
			item.UserCategory = model.CategoryPtr(cat)
			r.stats.Changed++
			r.remember(cat)
		}

		r.updateProgress()
	}

	r.stats.Duration = time.Since(r.startTime)
	return out, nil
}

// Stats returns the statistics of the last review.
func (r *Reviewer) Stats() ReviewStats {
	return r.stats
}

// ShowCompletion displays the completion summary to the user.
func (r *Reviewer) ShowCompletion() {
	if r.progressBar != nil {
		if err := r.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	s := r.stats
	summary := fmt.Sprintf("%s Statistics:\n", ChartIcon) +
		fmt.Sprintf("  • Line items: %d\n", s.Total) +
		fmt.Sprintf("  • Suggestions accepted: %d\n", s.Accepted) +
		fmt.Sprintf("  • Categories chosen: %d\n", s.Changed) +
		fmt.Sprintf("  • Kept as assigned: %d\n", s.Kept) +
		fmt.Sprintf("  • Skipped: %d\n", s.Skipped) +
		fmt.Sprintf("  • Time taken: %s", s.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(r.writer, RenderBox("Review Complete", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

func (r *Reviewer) initProgressBar(total int) {
	r.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionSetDescription("[cyan][bold]Reviewing line items...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func (r *Reviewer) updateProgress() {
	if r.progressBar != nil {
		if err := r.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
		if _, err := fmt.Fprintln(r.writer); err != nil {
			slog.Warn("Failed to write newline", "error", err)
		}
	}
}

func (r *Reviewer) formatLineItem(item model.LineItem, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  Description: %s\n", item.Description)
	fmt.Fprintf(&b, "  Amount: %s\n", model.FormatAmount(currency, item.Amount))
	if item.SuggestedCategory != nil {
		fmt.Fprintf(&b, "  Suggested: %s\n", SuccessStyle.Render(item.SuggestedCategory.String()))
	}
	if item.UserCategory != nil {
		fmt.Fprintf(&b, "  Assigned: %s\n", InfoStyle.Render(item.UserCategory.String()))
	}

	b.WriteString("\n")
	for i, cat := range model.Categories() {
		fmt.Fprintf(&b, "  [%d] %s\n", i+1, cat)
	}
	if item.SuggestedCategory != nil {
		b.WriteString("  [A] Accept suggestion\n")
	}
	if item.UserCategory != nil {
		b.WriteString("  [K] Keep assigned category\n")
	}
	b.WriteString("  [S] Skip")

	if len(r.recent) > 0 {
		names := make([]string, len(r.recent))
		for i, c := range r.recent {
			names[i] = c.String()
		}
		fmt.Fprintf(&b, "\n\n  %s", SubtleStyle.Render("Recent: "+strings.Join(names, ", ")))
	}
	return b.String()
}

func validChoices(item model.LineItem) []string {
	choices := make([]string, 0, len(model.Categories())+3)
	for i := range model.Categories() {
		choices = append(choices, strconv.Itoa(i+1))
	}
	if item.SuggestedCategory != nil {
		choices = append(choices, "a")
	}
	if item.UserCategory != nil {
		choices = append(choices, "k")
	}
	return append(choices, "s")
}

func (r *Reviewer) promptChoice(ctx context.Context, item model.LineItem) (string, error) {
	valid := validChoices(item)
	for {
		if _, err := fmt.Fprint(r.writer, FormatPrompt("Choice")); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := r.reader.ReadLine(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrInputTerminated
			}
			return "", err
		}

		choice := strings.ToLower(input)
		for _, v := range valid {
			if choice == v {
				return choice, nil
			}
		}

		if _, err := fmt.Fprintln(r.writer, FormatError("Invalid choice. Please try again.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (r *Reviewer) remember(cat model.Category) {
	recent := []model.Category{cat}
	for _, c := range r.recent {
		if c != cat {
			recent = append(recent, c)
		}
	}
	if len(recent) > 3 {
		recent = recent[:3]
	}
	r.recent = recent
}
