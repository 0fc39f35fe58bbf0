package style

// SubScores holds the three signal scores, each in [0,100].
type SubScores struct {
	SentenceVariety  float64 `json:"sentence_variety"`
	ContractionUsage float64 `json:"contraction_usage"`
	PersonalVoice    float64 `json:"personal_voice"`
}

// Report is the humanization score of a text.
//
// SubScores is nil when the text contained no sentences; the report then
// serialises as {"total_score":0}.
type Report struct {
	*SubScores
	TotalScore float64 `json:"total_score"`
}

// HasSubScores reports whether the text had at least one sentence.
func (r Report) HasSubScores() bool {
	return r.SubScores != nil
}
