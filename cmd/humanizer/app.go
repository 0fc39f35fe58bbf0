package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/humanizer/internal/config"
	"github.com/jonathan/humanizer/internal/fetch"
	"github.com/jonathan/humanizer/internal/humanizer"
	"github.com/jonathan/humanizer/internal/llm"
)

// loadConfig resolves the configuration and applies flag overrides on top.
// Commands that call the model pass requireKey.
func loadConfig(overrides config.Config, requireKey bool) (*config.Config, error) {
	base, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if overrides.APIKey == "" {
		overrides.APIKey = apiKeyFlag
	}
	if overrides.LogLevel == "" {
		overrides.LogLevel = logLevelFlag
	}

	cfg := overrides.MergeWithDefaults(*base)
	if requireKey {
		err = cfg.Validate()
	} else {
		err = cfg.ValidateSettings()
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newService builds the generation client and the service around it.
// The returned close func releases the client.
func newService(ctx context.Context, cfg *config.Config, opts ...humanizer.Option) (*humanizer.Service, func(), error) {
	client, err := llm.NewClient(ctx, cfg.LLMConfig(), cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generation client: %w", err)
	}
	client = llm.WithRetry(client, cfg.RetryPolicy())

	opts = append([]humanizer.Option{humanizer.WithTimeout(cfg.Timeout.Std())}, opts...)
	svc := humanizer.New(client, opts...)
	return svc, func() { _ = client.Close() }, nil
}

// readSource returns text from exactly one of a file path ("-" for stdin) or a URL.
func readSource(ctx context.Context, stdin io.Reader, path, url string) (string, error) {
	switch {
	case path != "" && url != "":
		return "", errors.New("use either --in or --url, not both")
	case url != "":
		res, err := fetch.Article(ctx, url, fetch.DefaultOptions())
		if err != nil {
			return "", err
		}
		return res.Text, nil
	case path == "" || path == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// withNewline makes plain-text output end in a newline.
func withNewline(s string) []byte {
	if strings.HasSuffix(s, "\n") {
		return []byte(s)
	}
	return []byte(s + "\n")
}
