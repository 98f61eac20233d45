package plugin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inkweld/inkweld/internal/config"
	ierrors "github.com/inkweld/inkweld/internal/errors"
	"github.com/inkweld/inkweld/internal/logfields"
)

// DefinitionFileName is the entry file of an installed package plugin.
const DefinitionFileName = "plugin.yaml"

// ResolveOptions configures a resolution pass.
type ResolveOptions struct {
	// ProjectRoot contains local plugins; local locators must not escape it.
	ProjectRoot string

	// Strict promotes recoverable local/package load failures to fatal.
	Strict bool

	// Registry provides builtins. Defaults to the global registry.
	Registry *Registry

	// Fetcher retrieves remote definitions. Defaults to a standard fetcher.
	Fetcher *Fetcher

	// InstallDirs are searched in order for package plugins. Defaults to
	// <root>/.inkweld/plugins plus the per-user plugin directory.
	InstallDirs []string
}

// Resolver turns raw manifest plugin entries into loaded transform units.
type Resolver struct {
	opts ResolveOptions
}

// NewResolver creates a resolver, filling in option defaults.
func NewResolver(opts ResolveOptions) *Resolver {
	if opts.Registry == nil {
		opts.Registry = DefaultRegistry()
	}
	if opts.Fetcher == nil {
		opts.Fetcher = NewFetcher(nil)
	}
	if opts.InstallDirs == nil {
		opts.InstallDirs = defaultInstallDirs(opts.ProjectRoot)
	}
	return &Resolver{opts: opts}
}

// Resolve loads every enabled plugin entry, ordered by descending priority
// (stable sort, ties preserve manifest declaration order), and collects the
// CSS fragments of loaded plugins tagged with their resolved priority.
//
// Failure semantics: local and package load failures are recoverable (warn and
// skip) unless strict mode is set; unknown builtin names and remote integrity
// mismatches are always fatal. Every failure names the offending entry.
func (r *Resolver) Resolve(ctx context.Context, entries []config.PluginEntry) ([]LoadedPlugin, []StyleFragment, error) {
	var loaded []LoadedPlugin

	for _, entry := range entries {
		spec := Classify(entry, r.opts.Registry.Has)

		p, err := r.resolveOne(ctx, spec)
		if err != nil {
			if ierrors.IsFatal(err) {
				return nil, nil, err
			}
			slog.Warn("skipping plugin",
				logfields.Plugin(spec.Locator), logfields.Provenance(string(spec.Provenance)), logfields.Error(err))
			continue
		}

		// Disabled entries are resolved for validation but excluded from
		// the execution set.
		if !spec.Enabled {
			slog.Debug("plugin disabled", logfields.Plugin(p.Metadata().Name))
			continue
		}
		loaded = append(loaded, LoadedPlugin{Plugin: p, Spec: spec})
	}

	sort.SliceStable(loaded, func(i, j int) bool {
		return loaded[i].Spec.Priority > loaded[j].Spec.Priority
	})

	var fragments []StyleFragment
	for _, lp := range loaded {
		if css := lp.CSS(); css != "" {
			fragments = append(fragments, StyleFragment{
				PluginName: lp.Metadata().Name,
				Priority:   lp.Spec.Priority,
				CSS:        css,
			})
		}
	}
	return loaded, fragments, nil
}

// resolveOne dispatches to the per-provenance resolver.
func (r *Resolver) resolveOne(ctx context.Context, spec Spec) (Plugin, error) {
	switch spec.Provenance {
	case ProvenanceLocal:
		return r.resolveLocal(spec)
	case ProvenancePackage:
		return r.resolvePackage(spec)
	case ProvenanceBuiltin:
		return r.resolveBuiltin(spec)
	case ProvenanceRemote:
		return r.resolveRemote(ctx, spec)
	default:
		return nil, ierrors.PluginError(spec.Locator, fmt.Sprintf("unknown plugin provenance %q", spec.Provenance))
	}
}

func (r *Resolver) resolveLocal(spec Spec) (Plugin, error) {
	path, err := containedPath(r.opts.ProjectRoot, spec.Locator)
	if err != nil {
		// Escaping the project root is a configuration problem, not a
		// missing optional dependency.
		return nil, ierrors.PluginError(spec.Locator, err.Error())
	}

	p, err := LoadDefinitionFile(path)
	if err != nil {
		return nil, r.loadFailure(spec, err)
	}
	return p, nil
}

func (r *Resolver) resolvePackage(spec Spec) (Plugin, error) {
	for _, dir := range r.opts.InstallDirs {
		path := filepath.Join(dir, spec.Locator, DefinitionFileName)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		p, err := LoadDefinitionFile(path)
		if err != nil {
			return nil, r.loadFailure(spec, err)
		}
		return p, nil
	}
	return nil, r.loadFailure(spec,
		fmt.Errorf("package %q not installed (searched %s)", spec.Locator, strings.Join(r.opts.InstallDirs, ", ")))
}

func (r *Resolver) resolveBuiltin(spec Spec) (Plugin, error) {
	p, err := r.opts.Registry.Resolve(spec.Locator, spec.Options)
	if err != nil {
		// An unknown builtin name is a typo: always fatal.
		return nil, ierrors.PluginError(spec.Locator, err.Error())
	}
	return p, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, spec Spec) (Plugin, error) {
	p, err := r.opts.Fetcher.Fetch(ctx, spec.Locator, spec.Integrity)
	if err != nil {
		if errors.Is(err, ErrIntegrityMismatch) {
			return nil, ierrors.PluginError(spec.Locator, err.Error())
		}
		return nil, r.loadFailure(spec, err)
	}
	return p, nil
}

// loadFailure converts a load-time error into the resolver's recoverable
// contract, or a fatal error in strict mode.
func (r *Resolver) loadFailure(spec Spec, err error) error {
	if r.opts.Strict {
		return ierrors.PluginError(spec.Locator, err.Error())
	}
	return ierrors.PluginWarning(spec.Locator, err.Error())
}

// containedPath resolves a locator relative to root and verifies it does not
// escape it, using normalized-path prefix comparison.
func containedPath(root, locator string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve project root: %w", err)
	}
	abs, err := filepath.Abs(filepath.Join(absRoot, locator))
	if err != nil {
		return "", fmt.Errorf("resolve plugin path: %w", err)
	}
	if abs != absRoot && !strings.HasPrefix(abs, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("local plugin path %q escapes the project root", locator)
	}
	return abs, nil
}

// defaultInstallDirs returns the package plugin search path.
func defaultInstallDirs(projectRoot string) []string {
	dirs := []string{filepath.Join(projectRoot, ".inkweld", "plugins")}
	if userDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(userDir, "inkweld", "plugins"))
	}
	return dirs
}
