package textproc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "collapses whitespace", input: "  hello \n\n  world\t ", expected: "hello world"},
		{name: "fixes punctuation spacing", input: "Hello , world .", expected: "Hello, world."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCountWords(t *testing.T) {
	assert.Equal(t, 0, CountWords(""))
	assert.Equal(t, 0, CountWords("   "))
	assert.Equal(t, 9, CountWords("I can't do this, but we'll try our best."))
	assert.Equal(t, 3, CountWords("one\ntwo\tthree"))
}

func TestEstimateReadingTime(t *testing.T) {
	words := func(n int) string { return strings.TrimSpace(strings.Repeat("w ", n)) }

	assert.Equal(t, 1, EstimateReadingTime("", DefaultWordsPerMinute))
	assert.Equal(t, 1, EstimateReadingTime(words(50), DefaultWordsPerMinute))
	assert.Equal(t, 2, EstimateReadingTime(words(400), DefaultWordsPerMinute))
	// 500/200 = 2.5 rounds half to even
	assert.Equal(t, 2, EstimateReadingTime(words(500), DefaultWordsPerMinute))
	assert.Equal(t, 4, EstimateReadingTime(words(700), DefaultWordsPerMinute))
	assert.Equal(t, 4, EstimateReadingTime(words(400), 100))
	assert.Equal(t, 2, EstimateReadingTime(words(400), 0))
}

func TestDownloadFilename(t *testing.T) {
	assert.Equal(t, "benefits_of_meditation.txt", DownloadFilename("Benefits of Meditation"))
	assert.Equal(t, "a_b.txt", DownloadFilename("a/b"))
	assert.Equal(t, "content.txt", DownloadFilename("   "))
}
