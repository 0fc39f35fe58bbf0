package main

import (
	"fmt"

	"github.com/jonathan/humanizer/internal/config"
	"github.com/jonathan/humanizer/internal/observability"
	"github.com/jonathan/humanizer/internal/schemas"
	"github.com/jonathan/humanizer/internal/types"
	"github.com/spf13/cobra"
)

var humanizeCmd = &cobra.Command{
	Use:   "humanize",
	Short: "Rewrite text so it reads as human-written",
	Long:  "Rewrites text from a file, stdin or a web article and reports the humanization score of the result.",
	RunE:  runHumanize,
}

var (
	humanizeInFile  string
	humanizeURL     string
	humanizeOutFile string
	humanizeJSON    bool
)

func init() {
	humanizeCmd.Flags().StringVarP(&humanizeInFile, "in", "i", "", "Path to input text file (default stdin)")
	humanizeCmd.Flags().StringVarP(&humanizeURL, "url", "u", "", "URL of an article to humanize")
	humanizeCmd.Flags().StringVarP(&humanizeOutFile, "out", "o", "", "Path to output file (default stdout)")
	humanizeCmd.Flags().BoolVar(&humanizeJSON, "json", false, "Write the full result as JSON")

	rootCmd.AddCommand(humanizeCmd)
}

func runHumanize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.Config{}, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	text, err := readSource(ctx, cmd.InOrStdin(), humanizeInFile, humanizeURL)
	if err != nil {
		return err
	}

	svc, closeClient, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	res, err := svc.Humanize(ctx, types.HumanizeRequest{Text: text})
	if err != nil {
		return err
	}

	var out []byte
	if humanizeJSON {
		if err := schemas.ValidateValue(schemas.HumanizeResult, res); err != nil {
			return fmt.Errorf("humanize result failed schema validation: %w", err)
		}
		if out, err = marshalJSON(res); err != nil {
			return err
		}
	} else {
		out = withNewline(res.HumanizedText)
	}
	if err := writeOutput(cmd.OutOrStdout(), humanizeOutFile, out); err != nil {
		return err
	}

	if verboseFlag {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintHumanizeResult(res)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Humanization score: %.1f/100 (%d words, %d min read)\n",
		res.Score.TotalScore, res.WordCount, res.ReadingTimeMinutes)
	return nil
}
