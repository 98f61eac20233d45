package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/inkweld/inkweld/internal/build"
	"github.com/inkweld/inkweld/internal/logfields"
	"github.com/inkweld/inkweld/internal/metrics"
)

// BuildCmd assembles the document once and writes the styled HTML artifact.
type BuildCmd struct {
	Input   string        `short:"i" name:"input" default:"." help:"Project directory containing the manifest and content files."`
	Output  string        `short:"o" name:"output" default:"" help:"Artifact output path (defaults to <input>/build/document.html)."`
	Format  string        `short:"f" name:"format" default:"" help:"Target render format hint (pdf, html)."`
	Timeout time.Duration `name:"timeout" default:"0" help:"Render engine timeout override."`
	Force   bool          `name:"force" help:"Overwrite an existing artifact."`
}

func (b *BuildCmd) Run(_ *Global, cli *CLI) error {
	root, err := filepath.Abs(b.Input)
	if err != nil {
		return fmt.Errorf("resolve input directory: %w", err)
	}

	store := openHistory(root)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	builder := build.NewBuilder(root,
		cli.cliOptions(b.Input, b.Output, b.Format, b.Timeout, b.Force),
		build.WithHistory(store),
		build.WithRecorder(metrics.NoopRecorder{}),
	)

	result, err := builder.Run(context.Background())
	if err != nil {
		return err
	}

	outPath := b.Output
	if outPath == "" {
		outPath = filepath.Join(root, "build", "document.html")
	}
	if !b.Force {
		if _, err := os.Stat(outPath); err == nil {
			return fmt.Errorf("artifact already exists: %s (use --force to overwrite)", outPath)
		}
	}
	if err := build.WriteArtifact(result.Document, outPath); err != nil {
		return err
	}

	slog.Info("build complete",
		"sections", len(result.Document.Sections),
		"style_blocks", len(result.Document.MergedStyles),
		"artifact", outPath,
		logfields.DurationMS(result.Record.Duration))
	return nil
}
