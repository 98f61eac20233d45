package assemble

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/docmodel"
	ierrors "github.com/inkweld/inkweld/internal/errors"
	"github.com/inkweld/inkweld/internal/plugin"
)

func writeSource(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestAssembleExplicitOrderWins(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{
		"a.md": "# Alpha\n",
		"b.md": "# Beta\n",
	})

	cfg := config.ResolvedConfig{Files: []string{"b.md", "a.md"}}
	doc, err := Assemble(context.Background(), dir, cfg, nil, nil)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Beta", doc.Sections[0].Title)
	assert.Equal(t, "Alpha", doc.Sections[1].Title)
}

func TestAssembleMissingListedFileIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{"y.md": "# Y\n"})

	cfg := config.ResolvedConfig{Files: []string{"x.md"}}
	_, err := Assemble(context.Background(), dir, cfg, nil, nil)

	require.Error(t, err)
	assert.True(t, ierrors.IsFatal(err))
	assert.Contains(t, err.Error(), "file not found: x.md")
}

func TestAssembleDiscoversLexicographically(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{
		"03-end.md":     "# End\n",
		"01-intro.md":   "# Intro\n",
		"02-middle.md":  "# Middle\n",
		"notes.txt":     "not markdown",
		".hidden.md":    "# Hidden\n",
		"guide.markdown": "# Guide\n",
	})

	doc, err := Assemble(context.Background(), dir, config.ResolvedConfig{}, nil, nil)
	require.NoError(t, err)

	var titles []string
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{"Intro", "Middle", "End", "Guide"}, titles)
}

func TestAssembleEmptySourceIsFatal(t *testing.T) {
	_, err := Assemble(context.Background(), t.TempDir(), config.ResolvedConfig{}, nil, nil)

	require.Error(t, err)
	assert.True(t, ierrors.IsCategory(err, ierrors.CategoryAssembly))
	assert.Contains(t, err.Error(), "nothing to build")
}

func TestAssembleSlugCollisions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.md"), []byte("# One\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.markdown"), []byte("# Two\n"), 0o644))

	doc, err := Assemble(context.Background(), dir, config.ResolvedConfig{}, nil, nil)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "intro", doc.Sections[0].Slug)
	assert.Equal(t, "intro-2", doc.Sections[1].Slug)
}

func TestAssembleRendersMarkdown(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{
		"page.md": "# Title\n\nSome **bold** text.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n",
	})

	cfg := config.ResolvedConfig{Title: "My Doc", Authors: []string{"Ada"}}
	doc, err := Assemble(context.Background(), dir, cfg, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "My Doc", doc.Title)
	assert.Equal(t, []string{"Ada"}, doc.Authors)
	require.Len(t, doc.Sections, 1)
	assert.Contains(t, doc.Sections[0].HTML, "<strong>bold</strong>")
	assert.Contains(t, doc.Sections[0].HTML, "<table>", "GFM tables should render")
}

func TestAssembleFrontmatterTitleWins(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{
		"page.md": "---\ntitle: Declared Title\nweight: 5\n---\n# Heading Title\n",
	})

	doc, err := Assemble(context.Background(), dir, config.ResolvedConfig{}, nil, nil)
	require.NoError(t, err)

	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Declared Title", doc.Sections[0].Title)
	assert.NotContains(t, doc.Sections[0].HTML, "Declared Title", "frontmatter must be stripped from the body")
}

func TestAssembleMalformedFrontmatterIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{
		"page.md": "---\ntitle: never closed\n",
	})

	_, err := Assemble(context.Background(), dir, config.ResolvedConfig{}, nil, nil)

	require.Error(t, err)
	assert.True(t, ierrors.IsCategory(err, ierrors.CategoryAssembly))
}

// orderCapture records which content each transform observed, to pin transform
// ordering.
type orderCapture struct {
	name string
	log  *[]string
}

func (o *orderCapture) Metadata() plugin.Metadata { return plugin.Metadata{Name: o.name} }
func (o *orderCapture) CSS() string               { return "" }
func (o *orderCapture) Transform(_ context.Context, doc *docmodel.Document) error {
	*o.log = append(*o.log, o.name+":"+strings.TrimSpace(string(doc.Files[0].Content)))
	doc.Files[0].Content = append(doc.Files[0].Content, []byte(o.name+"\n")...)
	return nil
}

func TestAssembleTransformOrderIsObservable(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, map[string]string{"page.md": "base\n"})

	var log []string
	plugins := []plugin.LoadedPlugin{
		{Plugin: &orderCapture{name: "first", log: &log}},
		{Plugin: &orderCapture{name: "second", log: &log}},
	}

	_, err := Assemble(context.Background(), dir, config.ResolvedConfig{}, plugins, nil)
	require.NoError(t, err)

	require.Len(t, log, 2)
	assert.Equal(t, "first:base", log[0])
	assert.Equal(t, "second:base\nfirst", log[1], "later plugins must see earlier output")
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":       "hello-world",
		"Café au Lait":      "cafe-au-lait",
		"01-intro":          "01-intro",
		"  spaced  out  ":   "spaced-out",
		"!!!":               "section",
		"Überraschung":      "uberraschung",
		"mixed_Case--Stuff": "mixed-case-stuff",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}
