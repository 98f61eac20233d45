package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkweld/inkweld/internal/build"
	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/logfields"
	"github.com/inkweld/inkweld/internal/metrics"
	"github.com/inkweld/inkweld/internal/watch"
)

// PreviewCmd watches a project directory and rebuilds the artifact on change.
type PreviewCmd struct {
	Input            string        `short:"i" name:"input" default:"." help:"Project directory to watch."`
	Output           string        `short:"o" name:"output" default:"" help:"Artifact output path (defaults to <input>/build/document.html)."`
	Debounce         time.Duration `name:"debounce" default:"300ms" help:"Delay after the last change before rebuilding."`
	FullRebuildEvery time.Duration `name:"full-rebuild-every" default:"0" help:"Also trigger a full rebuild at this interval (0 disables)."`
}

func (p *PreviewCmd) Run(_ *Global, cli *CLI) error {
	sigctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	root, err := filepath.Abs(p.Input)
	if err != nil {
		return fmt.Errorf("resolve input directory: %w", err)
	}

	outPath := p.Output
	if outPath == "" {
		outPath = filepath.Join(root, "build", "document.html")
	}

	store := openHistory(root)
	if store != nil {
		defer func() { _ = store.Close() }()
	}
	recorder := metrics.NewPrometheusRecorder(prometheus.NewRegistry())

	cliOpts := cli.cliOptions(p.Input, p.Output, "", 0, false)
	newBuilder := func(projectRoot string) watch.Builder {
		return build.NewBuilder(projectRoot, cliOpts,
			build.WithHistory(store),
			build.WithRecorder(recorder),
		)
	}

	debounce := p.Debounce
	if debounce <= 0 {
		debounce = config.DefaultDebounceWindow
	}

	// Keep the artifact out of the watch: every rebuild writes it, and the
	// write must not trigger the next rebuild.
	excludes := []string{outPath}
	if dir := filepath.Dir(outPath); dir != root {
		excludes = append(excludes, dir)
	}

	coordinator := watch.NewCoordinator(newBuilder, root, watch.Options{
		Debounce:     debounce,
		Recorder:     recorder,
		ExcludePaths: excludes,
		OnResult: func(result *build.Result) {
			if err := build.WriteArtifact(result.Document, outPath); err != nil {
				slog.Warn("failed to write artifact", logfields.Error(err))
				return
			}
			slog.Info("artifact updated", "artifact", outPath, "sections", len(result.Document.Sections))
		},
	})

	if p.FullRebuildEvery > 0 {
		scheduler, err := watch.NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicRebuild(coordinator, p.FullRebuildEvery); err != nil {
			return err
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	slog.Info("watching for changes", "project", root, "debounce", debounce)
	return coordinator.Run(sigctx)
}
