package build

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkweld/inkweld/internal/assemble"
	"github.com/inkweld/inkweld/internal/cascade"
	"github.com/inkweld/inkweld/internal/config"
	"github.com/inkweld/inkweld/internal/history"
	"github.com/inkweld/inkweld/internal/manifest"
	"github.com/inkweld/inkweld/internal/plugin"
	"github.com/inkweld/inkweld/internal/plugin/builtin"
)

func testProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	manifestYAML := `title: "Field Guide"
authors:
  - Ada
page_format: a4
styles:
  - styles/custom.css
files:
  - 02-body.md
  - 01-intro.md
plugins:
  - toc
`
	require.NoError(t, os.WriteFile(filepath.Join(root, config.ManifestName), []byte(manifestYAML), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "styles"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "styles", "custom.css"), []byte(".custom { color: teal; }"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "01-intro.md"), []byte("# Intro\n\nwelcome\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "02-body.md"), []byte("# Body\n\ncontent\n"), 0o644))
	return root
}

func builtinRegistry() *plugin.Registry {
	r := plugin.NewRegistry()
	builtin.RegisterAll(r)
	return r
}

func TestBuilderRunFullPipeline(t *testing.T) {
	root := testProject(t)

	b := NewBuilder(root, config.CLIOptions{}, WithRegistry(builtinRegistry()))
	result, err := b.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Field Guide", result.Document.Title)
	assert.Equal(t, []string{"Ada"}, result.Document.Authors)

	// Manifest file order wins over lexicographic order.
	require.Len(t, result.Document.Sections, 2)
	assert.Equal(t, "Body", result.Document.Sections[0].Title)
	assert.Equal(t, "Intro", result.Document.Sections[1].Title)

	// Cascade: foundation, then the toc fragment, then the custom sheet.
	require.Len(t, result.Document.MergedStyles, 3)
	assert.Equal(t, cascade.SourceFoundation, result.Document.MergedStyles[0].Source)
	assert.Equal(t, "toc", result.Document.MergedStyles[1].Name)
	assert.Equal(t, cascade.SourceCustom, result.Document.MergedStyles[2].Source)
	assert.Contains(t, result.Document.StylesText(), ".custom { color: teal; }")

	require.NotNil(t, result.Record)
	assert.Equal(t, manifest.StatusSuccess, result.Record.Status)
	require.Len(t, result.Record.Plugins, 1)
	assert.Equal(t, "toc", result.Record.Plugins[0].Name)
	assert.Equal(t, "builtin", result.Record.Plugins[0].Provenance)
	assert.Equal(t, 2, result.Record.Outputs.SectionCount)
	assert.NotEmpty(t, result.Record.Inputs.ConfigHash)
}

func TestBuilderCLIOverridesManifest(t *testing.T) {
	root := testProject(t)

	b := NewBuilder(root, config.CLIOptions{Format: "html"}, WithRegistry(builtinRegistry()))
	result, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "html", result.Config.Format)
}

func TestBuilderMissingManifestFails(t *testing.T) {
	b := NewBuilder(t.TempDir(), config.CLIOptions{}, WithRegistry(builtinRegistry()))

	_, err := b.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "manifest file not found")
}

func TestBuilderPersistsHistory(t *testing.T) {
	root := testProject(t)
	store, err := history.Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	b := NewBuilder(root, config.CLIOptions{}, WithRegistry(builtinRegistry()), WithHistory(store))

	_, err = b.Run(context.Background())
	require.NoError(t, err)

	// A failing pass is recorded too.
	require.NoError(t, os.Remove(filepath.Join(root, config.ManifestName)))
	_, err = b.Run(context.Background())
	require.Error(t, err)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	latest, err := store.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, manifest.StatusFailed, latest.Status)
}

func TestRenderHTML(t *testing.T) {
	doc := &assemble.AssembledDocument{
		Title:   "T <'n'> A",
		Authors: []string{"Ada"},
		Sections: []assemble.Section{
			{Slug: "intro", Title: "Intro", HTML: "<h1>Intro</h1>\n"},
			{Slug: "body", Title: "Body", HTML: "<h1>Body</h1>\n"},
		},
		MergedStyles: []cascade.StyleBlock{{Source: cascade.SourceCustom, Name: "c", CSS: ".c {}"}},
	}

	out := RenderHTML(doc)

	assert.Contains(t, out, "<title>T &lt;&#39;n&#39;&gt; A</title>")
	assert.Contains(t, out, `<meta name="author" content="Ada">`)
	assert.Contains(t, out, `<section class="content-section" id="intro">`)
	assert.Less(t, strings.Index(out, `id="intro"`), strings.Index(out, `id="body"`))
	assert.Contains(t, out, ".c {}")
}

func TestWriteArtifactCreatesParentDirs(t *testing.T) {
	doc := &assemble.AssembledDocument{Title: "T"}
	out := filepath.Join(t.TempDir(), "nested", "out", "document.html")

	require.NoError(t, WriteArtifact(doc, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<!DOCTYPE html>")
}
