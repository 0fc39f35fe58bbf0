// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/humanizer/internal/style"
	"github.com/jonathan/humanizer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// barWidth is the number of cells in a score bar
	barWidth = 20
	// previewChars caps the text excerpt shown for results
	previewChars = 160
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // verbose output goes to stderr; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(truncate(line, boxWidth-4), boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintScore outputs the sub-scores and total of a report.
func (p *Printer) PrintScore(title string, report style.Report) {
	p.printBox(title, scoreLines(report))
}

// PrintHumanizeResult outputs word counts, reading time and the score of a rewrite.
func (p *Printer) PrintHumanizeResult(res *types.HumanizeResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Words:    %d -> %d\n", res.OriginalWordCount, res.WordCount))
	sb.WriteString(fmt.Sprintf("Reading:  %d min\n", res.ReadingTimeMinutes))
	if res.Model != "" {
		sb.WriteString(fmt.Sprintf("Model:    %s\n", res.Model))
	}
	sb.WriteString("\n")
	sb.WriteString(scoreLines(res.Score))
	sb.WriteString("\n\n")
	sb.WriteString(wrap(preview(res.HumanizedText), boxWidth-4))

	p.printBox("HUMANIZED TEXT", sb.String())
}

// PrintContentResult outputs the settings and score of generated content.
func (p *Printer) PrintContentResult(res *types.ContentResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topic:    %s\n", res.Topic))
	sb.WriteString(fmt.Sprintf("Tone:     %s\n", res.Tone.Label()))
	sb.WriteString(fmt.Sprintf("Length:   %s\n", res.Length.Label()))
	sb.WriteString(fmt.Sprintf("Words:    %d (%d min read)\n", res.WordCount, res.ReadingTimeMinutes))
	sb.WriteString(fmt.Sprintf("File:     %s\n", res.Filename))
	sb.WriteString("\n")
	sb.WriteString(scoreLines(res.Score))

	p.printBox("GENERATED CONTENT", sb.String())
}

func scoreLines(report style.Report) string {
	if !report.HasSubScores() {
		return fmt.Sprintf("No sentences found.\nTotal:              %5.1f", report.TotalScore)
	}

	var sb strings.Builder
	rows := []struct {
		label string
		value float64
	}{
		{"Sentence variety", report.SentenceVariety},
		{"Contraction usage", report.ContractionUsage},
		{"Personal voice", report.PersonalVoice},
	}
	for _, r := range rows {
		sb.WriteString(fmt.Sprintf("%-18s  %5.1f  %s\n", r.label+":", r.value, bar(r.value)))
	}
	sb.WriteString(fmt.Sprintf("%-18s  %5.1f  %s", "Total:", report.TotalScore, bar(report.TotalScore)))
	return sb.String()
}

// bar renders a 0-100 value as a fixed-width gauge.
func bar(value float64) string {
	filled := int(value/100*barWidth + 0.5)
	filled = max(0, min(filled, barWidth))
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= previewChars {
		return text
	}
	return string([]rune(text)[:previewChars-3]) + "..."
}

// wrap breaks text on spaces so no line exceeds width runes.
func wrap(text string, width int) string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && utf8.RuneCountInString(line.String())+1+utf8.RuneCountInString(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteString(" ")
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

// pad right-pads s to width runes; fmt's %-*s counts bytes.
func pad(s string, width int) string {
	if n := utf8.RuneCountInString(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
