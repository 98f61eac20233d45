package config

import "time"

// CLIOptions is the resolved options bag produced by the command surface.
// Zero values mean "not supplied"; boolean flags default to false so a false
// flag and an absent flag are equivalent by design of the CLI surface.
type CLIOptions struct {
	Input   string
	Output  string
	Format  string
	Timeout time.Duration
	Verbose bool
	Debug   bool
	Force   bool

	// Strict promotes recoverable plugin/cascade problems to fatal errors.
	Strict bool
}

// ResolvedConfig is the single source of truth handed to every downstream
// stage. It is fully defaulted (no field is ever unset where a default exists),
// constructed once per build invocation, and immutable after construction.
// A watched rebuild reconstructs it from scratch on every cycle, since the
// manifest may have changed.
type ResolvedConfig struct {
	Title       string
	Authors     []string
	Description string
	PageFormat  string

	Styles  []string
	Files   []string // nil means lexicographic discovery
	Plugins []PluginEntry

	DisableDefaultStyles bool
	Strict               bool

	// Build-mode flags
	Verbose bool
	Debug   bool
	Timeout time.Duration
	Format  string

	DebounceWindow time.Duration
}

// Resolve merges CLI options, manifest settings, and built-in defaults under
// fixed precedence: CLI > manifest > defaults. Pure merge, no I/O; missing
// optional fields never fail here — only manifest schema validation can fail
// the pipeline, and it has already run.
func Resolve(cli CLIOptions, m *Manifest) ResolvedConfig {
	cfg := ResolvedConfig{
		PageFormat:     DefaultPageFormat,
		Format:         DefaultFormat,
		Timeout:        DefaultTimeout,
		DebounceWindow: DefaultDebounceWindow,
	}

	if m != nil {
		cfg.Title = m.Title
		cfg.Authors = append([]string(nil), m.Authors...)
		cfg.Description = m.Description
		if m.PageFormat != "" {
			cfg.PageFormat = m.PageFormat
		}
		cfg.Styles = append([]string(nil), m.Styles...)
		if len(m.Files) > 0 {
			cfg.Files = append([]string(nil), m.Files...)
		}
		cfg.Plugins = mergePluginEntries(m.Plugins, m.Extensions)
		cfg.DisableDefaultStyles = m.DisableDefaultStyles
		cfg.Strict = m.Strict
	}

	// CLI-supplied fields always win.
	if cli.Format != "" {
		cfg.Format = cli.Format
	}
	if cli.Timeout > 0 {
		cfg.Timeout = cli.Timeout
	}
	if cli.Verbose {
		cfg.Verbose = true
	}
	if cli.Debug {
		cfg.Debug = true
	}
	if cli.Strict {
		cfg.Strict = true
	}

	return cfg
}

// mergePluginEntries unions current plugins with legacy extensions entries,
// de-duplicated by name. When both declare the same name, the plugins entry
// wins (including its options).
func mergePluginEntries(plugins []PluginEntry, extensions []string) []PluginEntry {
	merged := append([]PluginEntry(nil), plugins...)
	seen := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		seen[p.Name] = true
	}
	for _, name := range extensions {
		if seen[name] {
			continue
		}
		seen[name] = true
		merged = append(merged, PluginEntry{Name: name})
	}
	return merged
}
