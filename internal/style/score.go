// Package style estimates how human-written a block of text appears from three
// lexical signals: sentence-length variety, contraction usage and first-person voice.
package style

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// contractionPattern matches a word followed by an apostrophe suffix such as
// can't or we'll. Word characters are Unicode letters, digits and underscore,
// so café's counts. The trailing group stands in for a word boundary; it
// consumes one non-word rune, which can never begin the next match.
var contractionPattern = regexp.MustCompile(`[\p{L}\p{N}_]+'(?:ve|re|s|d|ll|t|m)(?:[^\p{L}\p{N}_]|$)`)

// personalPronouns is compared against lowercased whitespace tokens.
var personalPronouns = map[string]bool{
	"i": true, "me": true, "my": true, "mine": true,
	"we": true, "us": true, "our": true, "ours": true,
}

// Weights controls how sub-scores combine into the total.
type Weights struct {
	SentenceVariety  float64
	ContractionUsage float64
	PersonalVoice    float64
}

// Scales holds the empirical normalisation constants for each signal.
type Scales struct {
	// VarianceDivisor maps sentence-length variance onto [0,1].
	VarianceDivisor float64
	// ContractionFactor multiplies the contraction-per-word ratio.
	ContractionFactor float64
	// PronounFactor multiplies the pronoun-per-word ratio.
	PronounFactor float64
}

// DefaultWeights returns the 0.4/0.3/0.3 weighting.
func DefaultWeights() Weights {
	return Weights{SentenceVariety: 0.4, ContractionUsage: 0.3, PersonalVoice: 0.3}
}

// DefaultScales returns the 25/20/30 normalisation constants.
func DefaultScales() Scales {
	return Scales{VarianceDivisor: 25, ContractionFactor: 20, PronounFactor: 30}
}

// SentenceSplitter splits text into sentences.
type SentenceSplitter interface {
	Split(text string) []string
}

// Scorer computes Reports. The zero value is not usable; use NewScorer.
type Scorer struct {
	weights  Weights
	scales   Scales
	splitter SentenceSplitter
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides the composite weights.
func WithWeights(w Weights) Option {
	return func(s *Scorer) { s.weights = w }
}

// WithScales overrides the normalisation constants.
func WithScales(sc Scales) Option {
	return func(s *Scorer) { s.scales = sc }
}

// WithSplitter overrides the sentence tokenizer.
func WithSplitter(sp SentenceSplitter) Option {
	return func(s *Scorer) { s.splitter = sp }
}

// NewScorer builds a Scorer using the default constants and the Punkt tokenizer.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights: DefaultWeights(),
		scales:  DefaultScales(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.splitter == nil {
		s.splitter = defaultSplitter()
	}
	return s
}

var (
	defaultOnce   sync.Once
	defaultScorer *Scorer
)

// Score rates text with the default Scorer.
func Score(text string) Report {
	defaultOnce.Do(func() { defaultScorer = NewScorer() })
	return defaultScorer.Score(text)
}

// Score rates text. Text with no sentences yields a report with a zero total
// and nil SubScores.
func (s *Scorer) Score(text string) Report {
	sents := s.splitter.Split(text)
	if len(sents) == 0 {
		return Report{}
	}

	words := fields(text)
	wordCount := max(len(words), 1)

	variety := clampUnit(variance(sentenceLengths(sents))/s.scales.VarianceDivisor) * 100

	contractions := len(contractionPattern.FindAllString(text, -1))
	contractionScore := clampUnit(float64(contractions)/float64(wordCount)*s.scales.ContractionFactor) * 100

	pronouns := 0
	for _, w := range words {
		// strings.ToLower folds U+0130 to a plain i; only ASCII tokens can be pronouns.
		if isASCII(w) && personalPronouns[strings.ToLower(w)] {
			pronouns++
		}
	}
	voice := clampUnit(float64(pronouns)/float64(wordCount)*s.scales.PronounFactor) * 100

	total := variety*s.weights.SentenceVariety +
		contractionScore*s.weights.ContractionUsage +
		voice*s.weights.PersonalVoice

	return Report{
		SubScores: &SubScores{
			SentenceVariety:  variety,
			ContractionUsage: contractionScore,
			PersonalVoice:    voice,
		},
		TotalScore: roundTenth(clamp(total, 0, 100)),
	}
}

func sentenceLengths(sents []string) []float64 {
	lengths := make([]float64, len(sents))
	for i, sent := range sents {
		lengths[i] = float64(len(fields(sent)))
	}
	return lengths
}

// variance is the population variance of xs.
func variance(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(len(xs))
	var sq float64
	for _, x := range xs {
		sq += (x - mean) * (x - mean)
	}
	return sq / float64(len(xs))
}

// clampUnit caps a non-negative ratio at 1.
func clampUnit(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(math.Max(v, lo), hi)
}

// roundTenth rounds v to one decimal place using its exact binary value, so
// 25.15 (stored just below) rounds down and exact ties go to even.
func roundTenth(v float64) float64 {
	r, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 1, 64), 64)
	if err != nil {
		return v
	}
	return r
}

// fields splits on Unicode whitespace plus the ASCII separators U+001C..U+001F,
// which unicode.IsSpace leaves out.
func fields(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
	})
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// punktSplitter adapts the Punkt English tokenizer.
type punktSplitter struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

func defaultSplitter() SentenceSplitter {
	tokenizer, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		// The English training data is compiled into the package.
		panic("style: failed to load English sentence tokenizer: " + err.Error())
	}
	return &punktSplitter{tokenizer: tokenizer}
}

// Split returns the non-blank sentences of text.
func (p *punktSplitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, s := range p.tokenizer.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
