// Package config loads and validates the project manifest (inkweld.yaml) and
// merges it with CLI-supplied options into a fully defaulted ResolvedConfig.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/inkweld/inkweld/internal/logfields"
)

// ManifestName is the canonical manifest filename at the project root.
const ManifestName = "inkweld.yaml"

// Manifest represents the declarative project manifest
type Manifest struct {
	Title       string   `yaml:"title"`
	Authors     []string `yaml:"authors"`
	Description string   `yaml:"description,omitempty"`
	PageFormat  string   `yaml:"page_format,omitempty"`

	// Styles are custom stylesheet paths, relative to the project root,
	// concatenated after foundation and plugin CSS in declared order.
	Styles []string `yaml:"styles,omitempty"`

	// Files is the optional explicit content ordering. When absent, content
	// files are discovered lexicographically.
	Files []string `yaml:"files,omitempty"`

	Plugins []PluginEntry `yaml:"plugins,omitempty"`

	// Extensions is the legacy spelling for builtin plugin names. Entries are
	// unioned with Plugins and de-duplicated by resolved builtin name.
	Extensions []string `yaml:"extensions,omitempty"`

	DisableDefaultStyles bool `yaml:"disable_default_styles,omitempty"`
	Strict               bool `yaml:"strict,omitempty"`
}

// PluginEntry is a raw manifest plugin declaration: either a string shorthand
// or an object with explicit fields. Provenance inference happens later in the
// plugin resolver; the manifest keeps entries as declared.
type PluginEntry struct {
	Name      string         `yaml:"name"`
	Type      string         `yaml:"type,omitempty"` // local|package|builtin|remote, usually inferred
	Enabled   *bool          `yaml:"enabled,omitempty"`
	Priority  *int           `yaml:"priority,omitempty"`
	Integrity string         `yaml:"integrity,omitempty"`
	Options   map[string]any `yaml:"options,omitempty"`
}

// UnmarshalYAML accepts both string shorthand ("typography") and object form.
func (p *PluginEntry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		var name string
		if err := node.Decode(&name); err != nil {
			return err
		}
		p.Name = name
		return nil
	}

	type rawEntry PluginEntry // avoid recursing into UnmarshalYAML
	var raw rawEntry
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*p = PluginEntry(raw)
	return nil
}

// IsEnabled reports whether the entry should participate in a build.
// Entries are enabled unless explicitly disabled.
func (p *PluginEntry) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// Load loads and validates the manifest from the specified file.
// Environment variables referenced as ${VAR} are expanded before parsing;
// .env / .env.local files are loaded first when present.
func Load(manifestPath string) (*Manifest, error) {
	loadEnvFiles()

	if _, err := os.Stat(manifestPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("manifest file not found: %s", manifestPath)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	return Parse(data)
}

// Parse parses and validates manifest content.
func Parse(data []byte) (*Manifest, error) {
	expanded := os.ExpandEnv(string(data))

	var m Manifest
	if err := yaml.Unmarshal([]byte(expanded), &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal manifest: %w", err)
	}

	if err := ValidateManifest(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

// loadEnvFiles loads environment variables from .env files if present.
// Already-set variables are never overridden.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("failed to load env file", logfields.File(envPath), logfields.Error(err))
			continue
		}
		slog.Debug("loaded environment variables", logfields.File(envPath))
	}
}
