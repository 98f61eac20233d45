// Package assemble turns the ordered content file set into the final document
// artifact: markdown files are loaded into the content model, every enabled
// plugin transform runs over it in priority order, and each file is rendered
// to an HTML section.
package assemble

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/inkweld/inkweld/internal/cascade"
	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/docmodel"
	ierrors "github.com/inkweld/inkweld/internal/errors"
	"github.com/inkweld/inkweld/internal/frontmatter"
	"github.com/inkweld/inkweld/internal/plugin"
)

// Section is one rendered content file, tagged with its filesystem-derived
// slug for anchors and navigation.
type Section struct {
	Slug  string
	Title string
	HTML  string
}

// AssembledDocument is the artifact handed to the external renderer: ordered
// markup sections plus the merged stylesheet cascade.
type AssembledDocument struct {
	Title    string
	Authors  []string
	Sections []Section

	// MergedStyles keeps the fixed tier order foundation, plugin, custom.
	MergedStyles []cascade.StyleBlock
}

// StylesText returns the concatenated cascade body.
func (d *AssembledDocument) StylesText() string {
	r := cascade.Result{Blocks: d.MergedStyles}
	return r.Text()
}

// markdown is the shared renderer. Raw HTML rendering is enabled because
// plugin transforms (admonitions among them) emit HTML blocks.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Assemble loads the ordered content files, drives plugin transforms over the
// concatenated content model, and renders the result. Transform order is
// observable (later plugins see earlier output) and matches the resolved
// plugin order exactly.
func Assemble(ctx context.Context, sourceDir string, cfg config.ResolvedConfig, plugins []plugin.LoadedPlugin, styles *cascade.Result) (*AssembledDocument, error) {
	ordered, err := orderedFiles(sourceDir, cfg.Files)
	if err != nil {
		return nil, err
	}

	doc := docmodel.NewDocument(sourceDir)
	for _, rel := range ordered {
		content, err := os.ReadFile(filepath.Join(sourceDir, rel))
		if err != nil {
			return nil, ierrors.Wrap(err, ierrors.CategoryAssembly, ierrors.SeverityFatal,
				"read content file").WithContext("file", rel)
		}
		block, body, err := frontmatter.Extract(content)
		if err != nil {
			return nil, ierrors.Wrap(err, ierrors.CategoryAssembly, ierrors.SeverityFatal,
				"parse frontmatter").WithContext("file", rel)
		}
		doc.Append(&docmodel.File{
			Path:     rel,
			Title:    block.Title(),
			Content:  body,
			Metadata: block.Fields,
		})
	}

	assignSlugs(doc)

	for _, lp := range plugins {
		if err := lp.Transform(ctx, doc); err != nil {
			return nil, ierrors.Wrap(err, ierrors.CategoryAssembly, ierrors.SeverityFatal,
				"plugin transform failed").WithContext("plugin", lp.Metadata().Name)
		}
	}

	out := &AssembledDocument{
		Title:   cfg.Title,
		Authors: cfg.Authors,
	}
	if styles != nil {
		out.MergedStyles = styles.Blocks
	}

	for _, f := range doc.Files {
		var buf bytes.Buffer
		if err := markdown.Convert(f.Content, &buf); err != nil {
			return nil, ierrors.Wrap(err, ierrors.CategoryAssembly, ierrors.SeverityFatal,
				"render markdown").WithContext("file", f.Path)
		}
		title := f.Title
		if title == "" {
			title = firstHeading(f.Content)
		}
		out.Sections = append(out.Sections, Section{
			Slug:  f.Slug,
			Title: title,
			HTML:  buf.String(),
		})
	}

	return out, nil
}

// orderedFiles determines the content ordering: the explicit manifest list
// when present (every listed path must exist), otherwise all markdown files
// directly under sourceDir in lexicographic order.
func orderedFiles(sourceDir string, explicit []string) ([]string, error) {
	if len(explicit) > 0 {
		for _, rel := range explicit {
			if _, err := os.Stat(filepath.Join(sourceDir, rel)); err != nil {
				return nil, ierrors.AssemblyError(fmt.Sprintf("file not found: %s", rel)).
					WithContext("source_dir", sourceDir)
			}
		}
		return explicit, nil
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, ierrors.Wrap(err, ierrors.CategoryAssembly, ierrors.SeverityFatal,
			"read source directory").WithContext("source_dir", sourceDir)
	}

	var discovered []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".md" || ext == ".markdown" {
			discovered = append(discovered, name)
		}
	}
	sort.Strings(discovered)

	if len(discovered) == 0 {
		return nil, ierrors.AssemblyError("nothing to build: no content files found").
			WithContext("source_dir", sourceDir)
	}
	return discovered, nil
}

// assignSlugs derives a slug per file from its filename stem; collisions get
// -2, -3 suffixes in assembly order.
func assignSlugs(doc *docmodel.Document) {
	used := make(map[string]int)
	for _, f := range doc.Files {
		stem := strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		slug := Slugify(stem)
		used[slug]++
		if n := used[slug]; n > 1 {
			slug = fmt.Sprintf("%s-%d", slug, n)
		}
		f.Slug = slug
	}
}

// firstHeading extracts the first ATX heading text, for sections whose title
// was not filled by a transform.
func firstHeading(content []byte) string {
	for _, line := range strings.Split(string(content), "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			return strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return ""
}
