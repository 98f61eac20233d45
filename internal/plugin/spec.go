package plugin

import (
	"path/filepath"
	"strings"

	"github.com/inkweld/inkweld/internal/config"
)

// Provenance identifies a plugin's origin and loading mechanism.
type Provenance string

const (
	// ProvenanceLocal loads a definition file from inside the project root.
	ProvenanceLocal Provenance = "local"

	// ProvenancePackage resolves an installed plugin by name from the
	// plugin install directories.
	ProvenancePackage Provenance = "package"

	// ProvenanceBuiltin resolves a compiled-in plugin from the registry.
	ProvenanceBuiltin Provenance = "builtin"

	// ProvenanceRemote fetches a definition file by URL, with mandatory
	// integrity verification when a hash is declared.
	ProvenanceRemote Provenance = "remote"
)

// IsValid returns true if the provenance is recognized.
func (p Provenance) IsValid() bool {
	switch p {
	case ProvenanceLocal, ProvenancePackage, ProvenanceBuiltin, ProvenanceRemote:
		return true
	default:
		return false
	}
}

// Spec is a normalized plugin declaration: provenance, locator, and scheduling
// attributes. Never mutated after resolution.
type Spec struct {
	Provenance Provenance
	Locator    string
	Enabled    bool
	Priority   int
	Integrity  string
	Options    map[string]any
}

// definitionExtensions are the script extensions recognized for local
// definition-file locators.
var definitionExtensions = []string{".yaml", ".yml", ".json"}

// Classify normalizes a raw manifest entry into a Spec. Provenance inference
// is centralized here so new provenances stay additive: an explicit type wins,
// then path-shaped locators become local, URLs remote, registered builtin
// names builtin, and everything else is treated as a package name.
func Classify(entry config.PluginEntry, isBuiltin func(name string) bool) Spec {
	spec := Spec{
		Locator:   entry.Name,
		Enabled:   entry.IsEnabled(),
		Priority:  config.DefaultPluginPriority,
		Integrity: entry.Integrity,
		Options:   entry.Options,
	}
	if entry.Priority != nil {
		spec.Priority = *entry.Priority
	}

	if p := Provenance(entry.Type); p.IsValid() {
		spec.Provenance = p
		return spec
	}

	switch {
	// URLs first: a remote locator also looks path-shaped, and misrouting it
	// to local would bypass fetch and integrity verification entirely.
	case strings.HasPrefix(entry.Name, "https://") || strings.HasPrefix(entry.Name, "http://"):
		spec.Provenance = ProvenanceRemote
	case looksLikePath(entry.Name):
		spec.Provenance = ProvenanceLocal
	case isBuiltin != nil && isBuiltin(entry.Name):
		spec.Provenance = ProvenanceBuiltin
	default:
		spec.Provenance = ProvenancePackage
	}
	return spec
}

// looksLikePath reports whether a shorthand locator is path-shaped: a relative
// prefix, or a path separator plus definition-file extension.
func looksLikePath(name string) bool {
	if strings.HasPrefix(name, "./") || strings.HasPrefix(name, "../") {
		return true
	}
	if !strings.ContainsAny(name, "/\\") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range definitionExtensions {
		if ext == known {
			return true
		}
	}
	return false
}
