package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fullManifest() *Manifest {
	return &Manifest{
		Title:      "Field Guide",
		Authors:    []string{"A. Author"},
		PageFormat: "letter",
		Styles:     []string{"css/main.css"},
		Files:      []string{"b.md", "a.md"},
		Strict:     true,
	}
}

func TestResolveCLIWinsOverManifest(t *testing.T) {
	cli := CLIOptions{
		Format:  "html",
		Timeout: 5 * time.Second,
		Verbose: true,
		Debug:   true,
	}

	cfg := Resolve(cli, fullManifest())

	assert.Equal(t, "html", cfg.Format)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.Debug)
}

func TestResolveManifestWinsOverDefaults(t *testing.T) {
	cfg := Resolve(CLIOptions{}, fullManifest())

	assert.Equal(t, "letter", cfg.PageFormat)
	assert.True(t, cfg.Strict)
	assert.Equal(t, []string{"b.md", "a.md"}, cfg.Files)
}

func TestResolveDefaultsApplyWhenAbsent(t *testing.T) {
	cfg := Resolve(CLIOptions{}, &Manifest{Title: "T", Authors: []string{"A"}})

	assert.Equal(t, DefaultPageFormat, cfg.PageFormat)
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, DefaultDebounceWindow, cfg.DebounceWindow)
	assert.False(t, cfg.Strict)
	assert.Nil(t, cfg.Files)
}

func TestResolveNilManifest(t *testing.T) {
	cfg := Resolve(CLIOptions{Format: "pdf"}, nil)

	assert.Equal(t, "pdf", cfg.Format)
	assert.Empty(t, cfg.Title)
	assert.Equal(t, DefaultPageFormat, cfg.PageFormat)
}

func TestResolveIsPureMerge(t *testing.T) {
	m := fullManifest()
	first := Resolve(CLIOptions{}, m)
	second := Resolve(CLIOptions{}, m)

	assert.Equal(t, first, second)

	// Mutating the resolved copy must not leak back into the manifest.
	first.Files[0] = "mutated.md"
	assert.Equal(t, "b.md", m.Files[0])
}

func TestMergePluginEntriesUnionsExtensions(t *testing.T) {
	prio := 800
	plugins := []PluginEntry{{Name: "typography", Priority: &prio}}
	extensions := []string{"typography", "toc"}

	merged := mergePluginEntries(plugins, extensions)

	assert.Len(t, merged, 2)
	// The plugins entry wins on duplicate names, keeping its options.
	assert.Equal(t, "typography", merged[0].Name)
	assert.Equal(t, 800, *merged[0].Priority)
	assert.Equal(t, "toc", merged[1].Name)
	assert.Nil(t, merged[1].Priority)
}
