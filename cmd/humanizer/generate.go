package main

import (
	"fmt"

	"github.com/jonathan/humanizer/internal/config"
	"github.com/jonathan/humanizer/internal/observability"
	"github.com/jonathan/humanizer/internal/schemas"
	"github.com/jonathan/humanizer/internal/types"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write new content about a topic",
	Long:  "Writes content about a topic in the requested tone and length and reports its humanization score.",
	RunE:  runGenerate,
}

var (
	generateTopic   string
	generateTone    string
	generateLength  string
	generateOutFile string
	generateJSON    bool
)

func init() {
	generateCmd.Flags().StringVarP(&generateTopic, "topic", "t", "", "Topic to write about (required)")
	generateCmd.Flags().StringVar(&generateTone, "tone", string(types.DefaultTone), "Tone: casual, professional, academic")
	generateCmd.Flags().StringVar(&generateLength, "length", string(types.DefaultLength), "Length: short, medium, long")
	generateCmd.Flags().StringVarP(&generateOutFile, "out", "o", "", "Path to output file (default stdout)")
	generateCmd.Flags().BoolVar(&generateJSON, "json", false, "Write the full result as JSON")

	if err := generateCmd.MarkFlagRequired("topic"); err != nil {
		panic(fmt.Sprintf("failed to mark topic flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	req, err := types.GenerateRequest{
		Topic:  generateTopic,
		Tone:   types.Tone(generateTone),
		Length: types.Length(generateLength),
	}.Normalize()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(config.Config{}, true)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeClient, err := newService(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeClient()

	res, err := svc.Generate(ctx, req)
	if err != nil {
		return err
	}

	var out []byte
	if generateJSON {
		if err := schemas.ValidateValue(schemas.ContentResult, res); err != nil {
			return fmt.Errorf("content result failed schema validation: %w", err)
		}
		if out, err = marshalJSON(res); err != nil {
			return err
		}
	} else {
		out = withNewline(res.Content)
	}
	if err := writeOutput(cmd.OutOrStdout(), generateOutFile, out); err != nil {
		return err
	}

	if verboseFlag {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintContentResult(res)
		return nil
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Humanization score: %.1f/100 (%d words, %d min read, suggested file %s)\n",
		res.Score.TotalScore, res.WordCount, res.ReadingTimeMinutes, res.Filename)
	return nil
}
