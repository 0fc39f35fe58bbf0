package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/humanizer/internal/style"
)

// HumanizeResult is the outcome of a successful humanize request.
type HumanizeResult struct {
	ID                 uuid.UUID    `json:"id"`
	OriginalText       string       `json:"original_text"`
	HumanizedText      string       `json:"humanized_text"`
	Score              style.Report `json:"humanization_score"`
	WordCount          int          `json:"word_count"`
	OriginalWordCount  int          `json:"original_word_count"`
	ReadingTimeMinutes int          `json:"reading_time_minutes"`
	Model              string       `json:"model,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}

// ContentResult is the outcome of a successful topic generation request.
type ContentResult struct {
	ID                 uuid.UUID    `json:"id"`
	Topic              string       `json:"topic"`
	Tone               Tone         `json:"tone"`
	Length             Length       `json:"length"`
	Content            string       `json:"content"`
	Score              style.Report `json:"humanization_score"`
	WordCount          int          `json:"word_count"`
	ReadingTimeMinutes int          `json:"reading_time_minutes"`
	Filename           string       `json:"filename"`
	Model              string       `json:"model,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
}
