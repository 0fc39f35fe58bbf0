package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/jonathan/humanizer/internal/config"
	"github.com/jonathan/humanizer/internal/observability"
	"github.com/jonathan/humanizer/internal/schemas"
	"github.com/jonathan/humanizer/internal/style"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentScores bounds parallel file reads and fetches.
const maxConcurrentScores = 4

var scoreCmd = &cobra.Command{
	Use:   "score [FILE...]",
	Short: "Rate how human-written text reads",
	Long: "Scores files, web articles or stdin on sentence variety, contraction usage and personal voice. " +
		"No model call is made, so no API key is needed.",
	RunE: runScore,
}

var (
	scoreURLs    []string
	scoreOutFile string
)

func init() {
	scoreCmd.Flags().StringSliceVarP(&scoreURLs, "url", "u", nil, "URL of an article to score (repeatable)")
	scoreCmd.Flags().StringVarP(&scoreOutFile, "out", "o", "", "Path to output JSON file (default stdout)")

	rootCmd.AddCommand(scoreCmd)
}

// sourceScore is one entry of multi-input output.
type sourceScore struct {
	Source string       `json:"source"`
	Score  style.Report `json:"humanization_score"`
}

func runScore(cmd *cobra.Command, args []string) error {
	// Settings still go through validation so a broken config file is reported.
	if _, err := loadConfig(config.Config{}, false); err != nil {
		return err
	}

	scores, err := scoreSources(cmd.Context(), cmd.InOrStdin(), args, scoreURLs)
	if err != nil {
		return err
	}

	if verboseFlag {
		printer := observability.NewPrinter(cmd.ErrOrStderr())
		for _, sc := range scores {
			printer.PrintScore(sc.Source, sc.Score)
		}
	}

	var v any = scores
	if len(scores) == 1 {
		v = scores[0].Score
	}
	out, err := marshalJSON(v)
	if err != nil {
		return err
	}
	return writeOutput(cmd.OutOrStdout(), scoreOutFile, out)
}

// scoreInput is one file path or URL to score; an empty or "-" path is stdin.
type scoreInput struct{ path, url string }

func (in scoreInput) isStdin() bool {
	return in.url == "" && (in.path == "" || in.path == "-")
}

func (in scoreInput) name() string {
	if in.url != "" {
		return in.url
	}
	return in.path
}

// scoreSources reads and scores every file and URL concurrently, keeping input
// order. With no inputs it scores stdin. Stdin is read once up front, so it may
// be named more than once.
func scoreSources(ctx context.Context, stdin io.Reader, files, urls []string) ([]sourceScore, error) {
	var inputs []scoreInput
	for _, f := range files {
		inputs = append(inputs, scoreInput{path: f})
	}
	for _, u := range urls {
		inputs = append(inputs, scoreInput{url: u})
	}
	if len(inputs) == 0 {
		inputs = append(inputs, scoreInput{path: "-"})
	}

	var stdinText string
	if slices.ContainsFunc(inputs, scoreInput.isStdin) {
		text, err := readSource(ctx, stdin, "-", "")
		if err != nil {
			return nil, err
		}
		stdinText = text
	}

	results := make([]sourceScore, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentScores)

	for i, in := range inputs {
		g.Go(func() error {
			text := stdinText
			if !in.isStdin() {
				var err error
				if text, err = readSource(gctx, nil, in.path, in.url); err != nil {
					return err
				}
			}

			report := style.Score(text)
			if err := schemas.ValidateValue(schemas.ScoreReport, report); err != nil {
				return fmt.Errorf("score report failed schema validation: %w", err)
			}
			results[i] = sourceScore{Source: in.name(), Score: report}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
