// Package cascade flattens the declared stylesheet list into one ordered
// stream: @import references are expanded depth-first with cycle detection,
// then concatenated in the fixed tier order foundation, plugin, custom.
package cascade

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	ierrors "github.com/inkweld/inkweld/internal/errors"
	"github.com/inkweld/inkweld/internal/logfields"
	"github.com/inkweld/inkweld/internal/plugin"
)

// Source identifies the cascade tier a style block belongs to.
type Source string

const (
	SourceFoundation Source = "foundation"
	SourcePlugin     Source = "plugin"
	SourceCustom     Source = "custom"
)

// StyleBlock is one ordered unit of the merged cascade.
type StyleBlock struct {
	Source Source
	Name   string
	CSS    string
}

// Result is the flattened cascade. Blocks ordering is load-bearing for CSS
// specificity and must never be reordered: foundation first, then plugin
// fragments in plugin-priority order, then custom stylesheets in
// manifest-declared order.
type Result struct {
	Blocks []StyleBlock
}

// Text concatenates all blocks into the final stylesheet body.
func (r *Result) Text() string {
	var b strings.Builder
	for _, blk := range r.Blocks {
		css := strings.TrimRight(blk.CSS, "\n")
		if css == "" {
			continue
		}
		b.WriteString(css)
		b.WriteString("\n")
	}
	return b.String()
}

// Options configures cascade resolution.
type Options struct {
	// ProjectRoot anchors the declared stylesheet paths.
	ProjectRoot string

	// Strict makes a missing imported file fatal. In lenient mode the
	// offending @import line is dropped with a warning.
	Strict bool
}

// Resolver flattens stylesheet import graphs. Safe for reuse across builds;
// file reads go through an mtime-validated cache.
type Resolver struct {
	opts  Options
	cache *fileCache
}

// NewResolver creates a cascade resolver.
func NewResolver(opts Options) *Resolver {
	return &Resolver{opts: opts, cache: newFileCache()}
}

// importRe matches @import statements in both the string and url() forms.
var importRe = regexp.MustCompile(`(?m)^\s*@import\s+(?:url\(\s*)?["']?([^"')\s;]+)["']?\s*\)?\s*;?\s*$`)

// Resolve expands every declared stylesheet and assembles the tiered cascade.
func (r *Resolver) Resolve(declared []string, fragments []plugin.StyleFragment, disableDefaultStyles bool) (*Result, error) {
	result := &Result{}

	if !disableDefaultStyles {
		result.Blocks = append(result.Blocks, StyleBlock{
			Source: SourceFoundation,
			Name:   "foundation",
			CSS:    FoundationCSS,
		})
	}

	// Plugin fragments arrive already sorted by the plugin resolver; their
	// order matches plugin execution order exactly.
	for _, frag := range fragments {
		result.Blocks = append(result.Blocks, StyleBlock{
			Source: SourcePlugin,
			Name:   frag.PluginName,
			CSS:    frag.CSS,
		})
	}

	for _, path := range declared {
		abs := filepath.Join(r.opts.ProjectRoot, path)
		flattened, err := r.flatten(abs, nil)
		if err != nil {
			return nil, err
		}
		result.Blocks = append(result.Blocks, StyleBlock{
			Source: SourceCustom,
			Name:   path,
			CSS:    flattened,
		})
	}

	return result, nil
}

// flatten expands one stylesheet depth-first: imports first, file body last.
// ancestors is the chain of files currently being expanded; a path reappearing
// on its own ancestor chain is a cycle and fails with the full chain named.
func (r *Resolver) flatten(path string, ancestors []string) (string, error) {
	clean := filepath.Clean(path)

	for _, a := range ancestors {
		if a == clean {
			chain := append(append([]string(nil), ancestors...), clean)
			cause := &CycleError{Chain: relChain(r.opts.ProjectRoot, chain)}
			return "", ierrors.Wrap(cause, ierrors.CategoryCascade, ierrors.SeverityFatal,
				"circular @import").WithContext("path", clean)
		}
	}

	raw, err := r.cache.read(clean)
	if err != nil {
		return "", ierrors.CascadeError(clean, fmt.Sprintf("stylesheet not found: %v", err))
	}

	chain := append(ancestors, clean)
	dir := filepath.Dir(clean)

	var b strings.Builder
	body := importRe.ReplaceAllStringFunc(raw, func(stmt string) string {
		target := importRe.FindStringSubmatch(stmt)[1]
		imported := filepath.Join(dir, target)

		flattened, ferr := r.flatten(imported, chain)
		if ferr != nil {
			// Cycles are always fatal; a missing file is fatal only in
			// strict mode, otherwise the @import line is dropped.
			var cyc *CycleError
			if errors.As(ferr, &cyc) || r.opts.Strict {
				err = ferr
				return ""
			}
			slog.Warn("dropping unresolvable @import",
				logfields.Stylesheet(clean), logfields.Import(target), logfields.Error(ferr))
			return ""
		}
		return flattened
	})
	if err != nil {
		return "", err
	}

	b.WriteString(body)
	return b.String(), nil
}

// CycleError reports a stylesheet importing itself through any chain length,
// naming the full cycle.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return "circular @import: " + strings.Join(e.Chain, " -> ")
}

// relChain renders a cycle chain relative to the project root for readable
// error messages.
func relChain(root string, chain []string) []string {
	out := make([]string, len(chain))
	for i, p := range chain {
		if rel, err := filepath.Rel(root, p); err == nil && !strings.HasPrefix(rel, "..") {
			out[i] = rel
		} else {
			out[i] = p
		}
	}
	return out
}
