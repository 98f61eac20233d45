// Package build wires the full pipeline: manifest load, configuration
// resolution, plugin resolution, cascade flattening, and document assembly.
// One Builder instance drives both one-shot CLI builds and watched rebuilds.
package build

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/inkweld/inkweld/internal/assemble"
	"github.com/inkweld/inkweld/internal/cascade"
	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/history"
	"github.com/inkweld/inkweld/internal/logfields"
	"github.com/inkweld/inkweld/internal/manifest"
	"github.com/inkweld/inkweld/internal/metrics"
	"github.com/inkweld/inkweld/internal/plugin"
)

// Builder runs complete build passes over a project directory.
type Builder struct {
	projectRoot string
	cliOpts     config.CLIOptions
	registry    *plugin.Registry
	recorder    metrics.Recorder
	store       *history.Store // optional
	cascade     *cascade.Resolver
}

// Option configures a Builder.
type Option func(*Builder)

// WithRegistry overrides the builtin plugin registry.
func WithRegistry(r *plugin.Registry) Option {
	return func(b *Builder) { b.registry = r }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = rec }
}

// WithHistory sets the build history store.
func WithHistory(store *history.Store) Option {
	return func(b *Builder) { b.store = store }
}

// NewBuilder creates a builder rooted at projectRoot.
func NewBuilder(projectRoot string, cliOpts config.CLIOptions, opts ...Option) *Builder {
	b := &Builder{
		projectRoot: projectRoot,
		cliOpts:     cliOpts,
		registry:    plugin.DefaultRegistry(),
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	b.cascade = cascade.NewResolver(cascade.Options{
		ProjectRoot: projectRoot,
		Strict:      cliOpts.Strict,
	})
	return b
}

// ProjectRoot returns the directory the builder operates on.
func (b *Builder) ProjectRoot() string { return b.projectRoot }

// Result is the outcome of one build pass.
type Result struct {
	Document *assemble.AssembledDocument
	Config   config.ResolvedConfig
	Record   *manifest.BuildRecord
}

// Run executes one full build pass: the manifest is re-read every time so a
// watched rebuild picks up configuration changes.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	started := time.Now()
	record := manifest.NewRecord(b.projectRoot)

	result, err := b.run(ctx, record)

	record.Duration = time.Since(started).Milliseconds()
	if err != nil {
		record.Status = manifest.StatusFailed
		record.Error = err.Error()
		b.recorder.IncBuildOutcome("failed")
	} else {
		record.Status = manifest.StatusSuccess
		b.recorder.IncBuildOutcome("success")
	}
	b.recorder.ObserveBuildDuration(time.Since(started))

	if b.store != nil {
		if herr := b.store.Append(ctx, record); herr != nil {
			slog.Warn("failed to persist build record", logfields.BuildID(record.ID), logfields.Error(herr))
		}
	}

	if err != nil {
		return nil, err
	}
	result.Record = record
	return result, nil
}

func (b *Builder) run(ctx context.Context, record *manifest.BuildRecord) (*Result, error) {
	stageStart := time.Now()
	m, err := config.Load(filepath.Join(b.projectRoot, config.ManifestName))
	if err != nil {
		return nil, err
	}
	cfg := config.Resolve(b.cliOpts, m)
	b.recorder.ObserveStageDuration(metrics.StageResolve, time.Since(stageStart))

	record.Inputs = manifest.Inputs{
		Title:      cfg.Title,
		PageFormat: cfg.PageFormat,
		Files:      cfg.Files,
		Styles:     cfg.Styles,
	}

	stageStart = time.Now()
	resolver := plugin.NewResolver(plugin.ResolveOptions{
		ProjectRoot: b.projectRoot,
		Strict:      cfg.Strict,
		Registry:    b.registry,
	})
	plugins, fragments, err := resolver.Resolve(ctx, cfg.Plugins)
	if err != nil {
		return nil, err
	}
	b.recorder.ObserveStageDuration(metrics.StagePlugins, time.Since(stageStart))
	b.recorder.SetPluginCount(len(plugins))

	for _, lp := range plugins {
		record.Plugins = append(record.Plugins, manifest.PluginUse{
			Name:       lp.Metadata().Name,
			Version:    lp.Metadata().Version,
			Provenance: string(lp.Spec.Provenance),
			Priority:   lp.Spec.Priority,
		})
	}

	stageStart = time.Now()
	styles, err := b.cascade.Resolve(cfg.Styles, fragments, cfg.DisableDefaultStyles)
	if err != nil {
		return nil, err
	}
	b.recorder.ObserveStageDuration(metrics.StageCascade, time.Since(stageStart))

	stageStart = time.Now()
	doc, err := assemble.Assemble(ctx, b.projectRoot, cfg, plugins, styles)
	if err != nil {
		return nil, err
	}
	b.recorder.ObserveStageDuration(metrics.StageAssemble, time.Since(stageStart))

	record.Outputs = manifest.Outputs{
		SectionCount: len(doc.Sections),
		StyleBlocks:  len(doc.MergedStyles),
	}
	if hash, herr := record.Hash(); herr == nil {
		record.Inputs.ConfigHash = hash
	}

	return &Result{Document: doc, Config: cfg}, nil
}
