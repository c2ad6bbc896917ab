package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger builds the process logger: JSON to stdout, and when logFile is
// set, JSON to that file as well. The returned func closes the file.
func SetupLogger(logFile string, level slog.Level) (*slog.Logger, func() error) {
	stdoutHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if logFile == "" {
		return slog.New(stdoutHandler), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		slog.Error("failed to open log file, using stdout only", "error", err, "file", logFile)
		return slog.New(stdoutHandler), func() error { return nil }
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return slog.New(slogmulti.Fanout(stdoutHandler, fileHandler)), file.Close
}

// SetupLoggerWithWriters is SetupLogger over arbitrary writers. file may be
// nil.
func SetupLoggerWithWriters(stdout, file io.Writer, level slog.Level) *slog.Logger {
	stdoutHandler := slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: level})
	if file == nil {
		return slog.New(stdoutHandler)
	}
	return slog.New(slogmulti.Fanout(
		stdoutHandler,
		slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}),
	))
}
