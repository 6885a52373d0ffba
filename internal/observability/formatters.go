// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/interview-prep/internal/bank"
	"github.com/jonathan/interview-prep/internal/scoring"
	"golang.org/x/text/width"
)

const (
	// boxWidth is the default width for formatted output boxes, in terminal columns
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// columns returns the display width of s. Hangul and other wide runes take two columns.
func columns(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// truncate cuts s to at most limit display columns, marking the cut with "...".
func truncate(s string, limit int) string {
	if columns(s) <= limit {
		return s
	}
	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := columns(string(r))
		if used+w > limit-3 {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return sb.String() + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	pad := func(s string) string {
		s = truncate(s, inner)
		return s + strings.Repeat(" ", inner-columns(s))
	}

	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// bar renders a 0-100 percentage as a 20-cell gauge.
func bar(percent int) string {
	filled := max(0, min(20, percent/5))
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

// PrintScore outputs a human-readable breakdown of an answer score.
func (p *Printer) PrintScore(res scoring.Result) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Overall:    %3d%%  %s\n", res.Overall, bar(res.Overall)))
	sb.WriteString(fmt.Sprintf("Similarity: %3d%%  %s\n", res.Similarity, bar(res.Similarity)))
	if res.KeywordTotal > 0 {
		sb.WriteString(fmt.Sprintf("Keywords:   %3d%%  %d/%d matched\n", res.KeywordScore, len(res.MatchedKeywords), res.KeywordTotal))
	}
	sb.WriteString("\n")

	writeList := func(label string, items []string) {
		if len(items) == 0 {
			return
		}
		sb.WriteString(label + ":\n")
		count := min(len(items), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", items[i]))
		}
		if len(items) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(items)-maxItemsToShow))
		}
	}
	writeList("Matched", res.MatchedKeywords)
	writeList("Missed", res.MissedKeywords)

	sb.WriteString(res.Feedback)

	p.printBox(fmt.Sprintf("ANSWER SCORE (%s)", res.Tier), sb.String())
}

// PrintProgress outputs completion counters per main category, with the categories of
// each main category indented beneath it in bank order.
func (p *Printer) PrintProgress(progress bank.Progress, groups []bank.MainGroup) {
	var sb strings.Builder

	counter := func(c bank.Counter) string {
		return fmt.Sprintf("%d/%d %3d%%", c.Completed, c.Total, c.Percentage)
	}

	o := progress.Overall
	sb.WriteString(fmt.Sprintf("Overall: %s  %s\n", counter(o), bar(o.Percentage)))
	for _, g := range groups {
		if len(g.Questions) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("\n%s  %s\n", g.Name, counter(progress.ByMainCategory[g.Name])))

		seen := map[string]bool{}
		for _, q := range g.Questions {
			if seen[q.Category] {
				continue
			}
			seen[q.Category] = true
			sb.WriteString(fmt.Sprintf("  • %s  %s\n", q.Category, counter(progress.ByCategory[q.Category])))
		}
	}

	p.printBox("PRACTICE PROGRESS", strings.TrimSuffix(sb.String(), "\n"))
}
