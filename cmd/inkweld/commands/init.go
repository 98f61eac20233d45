package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/inkweld/inkweld/internal/config"
)

// InitCmd scaffolds a new project manifest.
type InitCmd struct {
	Input string `short:"i" name:"input" default:"." help:"Project directory."`
	Force bool   `help:"Overwrite an existing manifest."`
}

const exampleManifest = `title: My Document
authors:
  - Your Name
page_format: a4

# Content files in reading order. Remove to include every markdown file
# in lexicographic order instead.
files:
  - intro.md

# Custom stylesheets, applied after foundation and plugin styles.
styles: []

plugins:
  - typography
  - admonitions
`

func (i *InitCmd) Run(_ *Global, _ *CLI) error {
	manifestPath := filepath.Join(i.Input, config.ManifestName)
	if _, err := os.Stat(manifestPath); err == nil && !i.Force {
		return fmt.Errorf("manifest already exists: %s (use --force to overwrite)", manifestPath)
	}

	if err := os.WriteFile(manifestPath, []byte(exampleManifest), 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	introPath := filepath.Join(i.Input, "intro.md")
	if _, err := os.Stat(introPath); os.IsNotExist(err) {
		intro := "# Introduction\n\nStart writing here.\n"
		if err := os.WriteFile(introPath, []byte(intro), 0o644); err != nil {
			return fmt.Errorf("write intro: %w", err)
		}
	}

	fmt.Println("Initialized project:", manifestPath)
	return nil
}
