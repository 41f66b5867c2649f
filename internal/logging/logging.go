// Package logging sets up the structured diagnostics log. The terminal UI owns
// stdout, so records go to a JSON file instead.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Setup opens path for appending and installs a JSON slog logger that tags
// every record with the session id. The returned closer flushes the file.
func Setup(path, sessionID string, level slog.Level) (*slog.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := New(f, sessionID, level)
	slog.SetDefault(logger)
	return logger, f, nil
}

// New builds the logger on any writer.
func New(w io.Writer, sessionID string, level slog.Level) *slog.Logger {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h).With("session_id", sessionID)
}

// Discard is a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
