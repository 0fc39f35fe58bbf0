package main

import (
	"os"
	"testing"

	"github.com/jonathan/humanizer/internal/logger"
)

// TestMain silences logging for the CLI tests.
func TestMain(m *testing.M) {
	logger.Init(logger.Options{Level: "disabled"})
	os.Exit(m.Run())
}
