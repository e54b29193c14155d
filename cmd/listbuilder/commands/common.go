package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/listbuilder/internal/build"
	"git.home.luguber.info/inful/listbuilder/internal/config"
	"git.home.luguber.info/inful/listbuilder/internal/foundation/errors"
)

// LogLevelEnv overrides the log level chosen by --verbose.
const LogLevelEnv = "LISTBUILDER_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	// Out receives user-facing output; nil means stdout.
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(g.out(), format, args...)
}

func (g *Global) println(args ...any) {
	_, _ = fmt.Fprintln(g.out(), args...)
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (defaults to ./listbuilder.yaml when present)"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Fetch all lists and write the JavaScript bundles"`
	Merge    MergeCmd    `cmd:"" help:"Merge fetched lists into the cluster block of a JavaScript file"`
	Discover DiscoverCmd `cmd:"" help:"List categories and lists without writing anything"`
	Watch    WatchCmd    `cmd:"" help:"Rebuild the bundles whenever the local clone changes"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
	Clean    CleanCmd    `cmd:"" help:"Remove the clone and HTTP cache"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

func parseLogLevel(verbose bool) slog.Level {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return level
}

// ResolveOutputDir determines the final output directory.
// Priority: CLI flag (when not the default) > config directory > CLI default.
func ResolveOutputDir(cliOutput string, cfg *config.Config) string {
	if cliOutput != "" && cliOutput != config.DefaultOutputDir {
		return cliOutput
	}
	if cfg.Output.Directory != "" {
		return cfg.Output.Directory
	}
	return cliOutput
}

func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, errors.ConfigError("failed to load configuration").
			WithCause(err).
			WithContext("path", c.configPath()).
			Build()
	}
	return cfg, nil
}

func (c *CLI) configPath() string {
	if c.Config == "" {
		return config.DefaultFileName
	}
	return c.Config
}

func (c *CLI) pipeline() (*build.Pipeline, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	var opts []build.Option
	if c.Verbose {
		opts = append(opts, build.WithProgress(os.Stderr))
	}
	return build.New(cfg, opts...), nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// flush writes metrics; a failure is logged but never fails the command.
func flush(p *build.Pipeline) {
	if err := p.FlushMetrics(); err != nil {
		slog.Warn("Failed to write metrics", "error", err)
	}
}
