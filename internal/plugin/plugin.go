// Package plugin resolves manifest plugin entries into loaded transform units.
// Plugins arrive from four provenances (local definition files, installed
// packages, compiled-in builtins, remote URLs) and are normalized behind one
// uniform interface.
package plugin

import (
	"context"
	"fmt"

	"github.com/inkweld/inkweld/internal/docmodel"
)

// Plugin is the uniform runtime interface every resolved plugin exposes,
// regardless of provenance.
type Plugin interface {
	// Metadata returns the plugin's identity (name, version, description).
	Metadata() Metadata

	// Transform rewrites the document content model in place. Transforms run
	// sequentially in priority order; later plugins see earlier output.
	Transform(ctx context.Context, doc *docmodel.Document) error

	// CSS returns the plugin's stylesheet fragment, or "" when it
	// contributes no styling.
	CSS() string
}

// Metadata describes a plugin's identity.
type Metadata struct {
	Name        string
	Version     string
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s@%s", m.Name, m.Version)
}

// Validate checks if the plugin metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	return nil
}

// LoadedPlugin binds a resolved runtime unit to the spec it came from.
// Owned exclusively by the single build pass that loaded it.
type LoadedPlugin struct {
	Plugin
	Spec Spec
}

// StyleFragment is a plugin-contributed CSS fragment tagged with the plugin's
// resolved priority for cascade merging.
type StyleFragment struct {
	PluginName string
	Priority   int
	CSS        string
}
