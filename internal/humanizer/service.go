// Package humanizer runs the two generation modes end to end: build the
// prompt, call the model, then score and package the result.
package humanizer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/humanizer/internal/db"
	"github.com/jonathan/humanizer/internal/llm"
	"github.com/jonathan/humanizer/internal/logger"
	"github.com/jonathan/humanizer/internal/prompts"
	"github.com/jonathan/humanizer/internal/style"
	"github.com/jonathan/humanizer/internal/textproc"
	"github.com/jonathan/humanizer/internal/types"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single generation call.
const DefaultTimeout = 60 * time.Second

// ResultSaver is the subset of db.Store the service writes to.
type ResultSaver interface {
	SaveResult(ctx context.Context, r *db.Result) error
}

// Service implements humanize, generate and score.
type Service struct {
	client  llm.Client
	scorer  *style.Scorer
	store   ResultSaver
	timeout time.Duration
	log     *zerolog.Logger
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTimeout sets the per-call generation deadline. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithLogger overrides the component logger.
func WithLogger(l *zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithStore persists successful results to store.
func WithStore(store ResultSaver) Option {
	return func(s *Service) { s.store = store }
}

// WithScorer overrides the style scorer.
func WithScorer(sc *style.Scorer) Option {
	return func(s *Service) { s.scorer = sc }
}

// New creates a Service that generates through client.
func New(client llm.Client, opts ...Option) *Service {
	s := &Service{
		client:  client,
		timeout: DefaultTimeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Named("humanizer")
	}
	if s.scorer == nil {
		s.scorer = style.NewScorer()
	}
	return s
}

// Model returns the model name generation requests go to.
func (s *Service) Model() string {
	if s.client == nil {
		return ""
	}
	return s.client.Model()
}

// Score rates text without calling the model.
func (s *Service) Score(text string) style.Report {
	return s.scorer.Score(text)
}

// Humanize rewrites req.Text to read as human-written.
func (s *Service) Humanize(ctx context.Context, req types.HumanizeRequest) (*types.HumanizeResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	text, err := s.generate(ctx, "humanize", prompts.BuildHumanizePrompt(req.Text))
	if err != nil {
		return nil, err
	}

	res := &types.HumanizeResult{
		ID:                 uuid.New(),
		OriginalText:       req.Text,
		HumanizedText:      text,
		Score:              s.scorer.Score(text),
		WordCount:          textproc.CountWords(text),
		OriginalWordCount:  textproc.CountWords(req.Text),
		ReadingTimeMinutes: textproc.EstimateReadingTime(text, textproc.DefaultWordsPerMinute),
		Model:              s.Model(),
		CreatedAt:          s.now(),
	}

	s.save(ctx, &db.Result{
		ID:         res.ID,
		Kind:       db.KindHumanize,
		InputText:  res.OriginalText,
		OutputText: res.HumanizedText,
		Score:      res.Score,
		Filename:   textproc.HumanizedFilename,
		Model:      res.Model,
		CreatedAt:  res.CreatedAt,
	})
	return res, nil
}

// Generate writes original content about req.Topic.
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest) (*types.ContentResult, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}

	prompt, err := prompts.BuildTopicPrompt(req.Topic, req.Tone, req.Length)
	if err != nil {
		return nil, err
	}

	text, err := s.generate(ctx, "generate", prompt)
	if err != nil {
		return nil, err
	}

	res := &types.ContentResult{
		ID:                 uuid.New(),
		Topic:              req.Topic,
		Tone:               req.Tone,
		Length:             req.Length,
		Content:            text,
		Score:              s.scorer.Score(text),
		WordCount:          textproc.CountWords(text),
		ReadingTimeMinutes: textproc.EstimateReadingTime(text, textproc.DefaultWordsPerMinute),
		Filename:           textproc.DownloadFilename(req.Topic),
		Model:              s.Model(),
		CreatedAt:          s.now(),
	}

	s.save(ctx, &db.Result{
		ID:         res.ID,
		Kind:       db.KindGenerate,
		Topic:      res.Topic,
		Tone:       string(res.Tone),
		Length:     string(res.Length),
		OutputText: res.Content,
		Score:      res.Score,
		Filename:   res.Filename,
		Model:      res.Model,
		CreatedAt:  res.CreatedAt,
	})
	return res, nil
}

// generate calls the model under the service timeout and turns every failure,
// including blank output, into a GenerationError.
func (s *Service) generate(ctx context.Context, op, prompt string) (string, error) {
	if s.client == nil {
		return "", &GenerationError{Op: op, Cause: errors.New("no generation client configured")}
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	log := s.log.With().Str("op", op).Str("model", s.Model()).Logger()
	start := time.Now()

	text, err := s.client.GenerateContent(ctx, prompt)
	elapsed := time.Since(start)
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		log.Error().Err(err).Dur("elapsed", elapsed).Msg("generation failed")
		return "", &GenerationError{Op: op, Model: s.Model(), Cause: err}
	}

	log.Info().Dur("elapsed", elapsed).Int("prompt_chars", len(prompt)).Int("output_chars", len(text)).Msg("generation complete")
	return text, nil
}

func (s *Service) save(ctx context.Context, r *db.Result) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveResult(ctx, r); err != nil {
		s.log.Warn().Err(err).Str("id", r.ID.String()).Msg("failed to save result")
	}
}
