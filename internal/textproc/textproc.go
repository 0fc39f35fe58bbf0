// Package textproc provides small text utilities used around generation results.
package textproc

import (
	"math"
	"regexp"
	"strings"
)

// DefaultWordsPerMinute is the reading speed used for reading-time estimates.
const DefaultWordsPerMinute = 200

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs and removes spaces before periods and commas.
func CleanText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
	text = strings.ReplaceAll(text, " .", ".")
	return strings.ReplaceAll(text, " ,", ",")
}

// CountWords counts whitespace-delimited tokens.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// EstimateReadingTime returns the reading time in whole minutes, never less than one.
// A non-positive wpm falls back to DefaultWordsPerMinute.
func EstimateReadingTime(text string, wpm int) int {
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}
	minutes := int(math.RoundToEven(float64(CountWords(text)) / float64(wpm)))
	return max(1, minutes)
}

// DownloadFilename derives a .txt filename from a topic: lowercased, spaces
// replaced by underscores. Path separators are replaced too.
func DownloadFilename(topic string) string {
	name := strings.ToLower(strings.TrimSpace(topic))
	name = strings.NewReplacer(" ", "_", "/", "_", "\\", "_").Replace(name)
	if name == "" {
		name = "content"
	}
	return name + ".txt"
}

// HumanizedFilename is the download name for humanized text.
const HumanizedFilename = "humanized_text.txt"
