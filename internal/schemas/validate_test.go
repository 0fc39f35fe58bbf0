package schemas

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/humanizer/internal/style"
	"github.com/jonathan/humanizer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	assert.Equal(t, []string{ContentResult, HumanizeResult, ScoreReport}, List())
}

func TestValidate_ScoreReport(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{name: "full report", doc: `{"sentence_variety":0,"contraction_usage":100,"personal_voice":100,"total_score":60}`, valid: true},
		{name: "degenerate report", doc: `{"total_score":0}`, valid: true},
		{name: "missing total", doc: `{"sentence_variety":0,"contraction_usage":0,"personal_voice":0}`, valid: false},
		{name: "out of range", doc: `{"total_score":101}`, valid: false},
		{name: "partial sub-scores", doc: `{"sentence_variety":10,"total_score":4}`, valid: false},
		{name: "unknown field", doc: `{"total_score":1,"extra":true}`, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(ScoreReport, []byte(tt.doc))
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, ScoreReport, vErr.Schema)
			assert.NotEmpty(t, vErr.Errors)
		})
	}
}

func TestValidateValue_StyleReports(t *testing.T) {
	for _, text := range []string{"", "I can't do this, but we'll try our best.", "One. Two words here. And then a much longer third sentence follows."} {
		assert.NoError(t, ValidateValue(ScoreReport, style.Score(text)), text)
	}
}

func TestValidateValue_Results(t *testing.T) {
	now := time.Now().UTC()
	score := style.Score("I'm here.")

	humanized := types.HumanizeResult{
		ID:                 uuid.New(),
		OriginalText:       "I am here.",
		HumanizedText:      "I'm here.",
		Score:              score,
		WordCount:          2,
		OriginalWordCount:  3,
		ReadingTimeMinutes: 1,
		CreatedAt:          now,
	}
	assert.NoError(t, ValidateValue(HumanizeResult, humanized))

	content := types.ContentResult{
		ID:                 uuid.New(),
		Topic:              "tea",
		Tone:               types.ToneCasual,
		Length:             types.LengthShort,
		Content:            "I love tea.",
		Score:              score,
		WordCount:          3,
		ReadingTimeMinutes: 1,
		Filename:           "tea.txt",
		CreatedAt:          now,
	}
	assert.NoError(t, ValidateValue(ContentResult, content))

	content.Filename = "tea.md"
	assert.Error(t, ValidateValue(ContentResult, content))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	require.Error(t, err)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type":"object","required":["name"],"properties":{"name":{"type":"string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name":"x"}`))

	err := ValidateJSONString(schema, `{"name":1}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")

	err = ValidateJSONString(`{invalid`, `{}`)
	var loadErr *SchemaLoadError
	assert.True(t, errors.As(err, &loadErr))
}
