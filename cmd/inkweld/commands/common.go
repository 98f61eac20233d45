// Package commands holds the kong command surface for the inkweld CLI.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"

	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/history"
	"github.com/inkweld/inkweld/internal/logfields"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Debug   bool             `help:"Enable debug output"`
	Strict  bool             `help:"Promote recoverable plugin/stylesheet problems to fatal errors"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Assemble the document once and write the artifact"`
	Preview PreviewCmd `cmd:"" help:"Watch the project and rebuild on change"`
	Init    InitCmd    `cmd:"" help:"Initialize a new project manifest"`
	Plugins PluginsCmd `cmd:"" help:"List resolved plugins in execution order"`
	History HistoryCmd `cmd:"" help:"Show recent build records"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose || c.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// cliOptions translates global and per-command flags into the resolver's
// options bag.
func (c *CLI) cliOptions(input, output, format string, timeout time.Duration, force bool) config.CLIOptions {
	return config.CLIOptions{
		Input:   input,
		Output:  output,
		Format:  format,
		Timeout: timeout,
		Verbose: c.Verbose,
		Debug:   c.Debug,
		Force:   force,
		Strict:  c.Strict,
	}
}

// openHistory opens the project-local build history store. A failure is
// reported but never blocks a build.
func openHistory(projectRoot string) *history.Store {
	dir := filepath.Join(projectRoot, ".inkweld")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		slog.Warn("build history unavailable", logfields.Error(err))
		return nil
	}
	store, err := history.Open(filepath.Join(dir, "history.db"))
	if err != nil {
		slog.Warn("build history unavailable", logfields.Error(err))
		return nil
	}
	return store
}
