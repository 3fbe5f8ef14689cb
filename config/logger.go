package config

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewLogger builds a production logger for ENV=production and a development
// one otherwise, and makes it the global zap logger.
func NewLogger(env string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	zap.ReplaceGlobals(logger)
	return logger, nil
}

// WriteLogs appends one raw line to <OUTDOCS_PATH>/logs/<name>.log. Chat
// transcripts go there, separate from the structured log.
func WriteLogs(name, line string) error {
	dir := filepath.Join(GetOutDocsPath(), "logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(dir, name+".log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(line + "\n")
	return err
}
