package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/humanizer/internal/style"
)

// Kind identifies which generation mode produced a result
type Kind string

// Kind constants
const (
	KindHumanize Kind = "humanize"
	KindGenerate Kind = "generate"
)

// Result is a stored generation result
type Result struct {
	ID         uuid.UUID    `json:"id"`
	Kind       Kind         `json:"kind"`
	Topic      string       `json:"topic,omitempty"`
	Tone       string       `json:"tone,omitempty"`
	Length     string       `json:"length,omitempty"`
	InputText  string       `json:"input_text,omitempty"`
	OutputText string       `json:"output_text"`
	Score      style.Report `json:"humanization_score"`
	Filename   string       `json:"filename"`
	Model      string       `json:"model,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
}

// ResultSummary is a Result without its text bodies, used for listings
type ResultSummary struct {
	ID         uuid.UUID `json:"id"`
	Kind       Kind      `json:"kind"`
	Topic      string    `json:"topic,omitempty"`
	TotalScore float64   `json:"total_score"`
	Filename   string    `json:"filename"`
	CreatedAt  time.Time `json:"created_at"`
}

// Summary returns the listing view of r
func (r *Result) Summary() ResultSummary {
	return ResultSummary{
		ID:         r.ID,
		Kind:       r.Kind,
		Topic:      r.Topic,
		TotalScore: r.Score.TotalScore,
		Filename:   r.Filename,
		CreatedAt:  r.CreatedAt,
	}
}

// Default and maximum page sizes for ListResults
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// ClampLimit maps a requested page size onto [1, MaxListLimit]
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
