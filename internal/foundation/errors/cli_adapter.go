package errors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
)

// CLIErrorAdapter turns a failed run into a log record, a one-line message
// on stderr and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor returns 0 for nil, the category code for classified errors and 1 otherwise.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if classified, ok := AsClassified(err); ok {
		return classified.category.ExitCode()
	}
	return 1
}

// FormatError renders the message shown to the user. Verbose mode prints the
// whole chain; otherwise the category, message and remedy hint.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if a.verbose || !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	msg := fmt.Sprintf("Error: %s: %s (use -v for details)", classified.category, classified.message)
	if hint := classified.category.Hint(); hint != "" {
		msg += "\nHint: " + hint
	}
	return msg
}

// HandleError logs err, prints it and exits with its code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.logError(err)
	fmt.Fprintln(os.Stderr, a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	attrs := []slog.Attr{
		slog.String("category", string(classified.category)),
		slog.String("severity", string(classified.severity)),
	}
	keys := make([]string, 0, len(classified.context))
	for k := range classified.context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, classified.context[k]))
	}
	if classified.cause != nil {
		attrs = append(attrs, slog.String("cause", classified.cause.Error()))
	}

	level := slog.LevelError
	if classified.severity == SeverityWarning {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, classified.message, attrs...)
}
