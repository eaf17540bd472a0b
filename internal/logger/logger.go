package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// LogFilePath is the path to the log file, relative to the working directory
// (project root when run via go run ./cmd/configurator).
const LogFilePath = "logs/configurator.log"

// New returns the application logger, writing to stderr and to LogFilePath.
// debug enables debug-level output (e.g. stale rebuild drops).
func New(debug bool) (*zap.Logger, error) {
	dir := filepath.Dir(LogFilePath)
	_ = os.MkdirAll(dir, 0755)

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.OutputPaths = []string{"stderr", LogFilePath}
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}
