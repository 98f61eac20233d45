package config

import (
	"fmt"
	"path/filepath"
	"strings"

	ierrors "github.com/inkweld/inkweld/internal/errors"
)

// ValidateManifest validates the complete manifest structure. All violated
// fields are collected and reported together, not just the first.
func ValidateManifest(m *Manifest) error {
	v := &manifestValidator{manifest: m}
	return v.validate()
}

// manifestValidator coordinates validation across all manifest domains.
type manifestValidator struct {
	manifest *Manifest
	problems []string
}

func (v *manifestValidator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *manifestValidator) validate() error {
	v.validateIdentity()
	v.validatePaths()
	v.validatePlugins()

	if len(v.problems) == 0 {
		return nil
	}
	return ierrors.ValidationError("invalid manifest: " + strings.Join(v.problems, "; ")).
		WithContext("violations", len(v.problems))
}

// validateIdentity checks the required document identity fields.
func (v *manifestValidator) validateIdentity() {
	if strings.TrimSpace(v.manifest.Title) == "" {
		v.addf("title: required, must be non-empty")
	}
	if len(v.manifest.Authors) == 0 {
		v.addf("authors: required, need at least one entry")
	}
	for i, a := range v.manifest.Authors {
		if strings.TrimSpace(a) == "" {
			v.addf("authors[%d]: must be non-empty", i)
		}
	}
}

// validatePaths checks that declared style and file paths are relative and do
// not escape the project root.
func (v *manifestValidator) validatePaths() {
	for i, s := range v.manifest.Styles {
		if bad := relativePathProblem(s); bad != "" {
			v.addf("styles[%d] %q: %s", i, s, bad)
		}
	}
	for i, f := range v.manifest.Files {
		if bad := relativePathProblem(f); bad != "" {
			v.addf("files[%d] %q: %s", i, f, bad)
		}
	}
}

func (v *manifestValidator) validatePlugins() {
	for i, p := range v.manifest.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			v.addf("plugins[%d]: name must be non-empty", i)
		}
		if p.Priority != nil && (*p.Priority < 0 || *p.Priority > 1000) {
			v.addf("plugins[%d] %q: priority %d outside [0,1000]", i, p.Name, *p.Priority)
		}
	}
	for i, e := range v.manifest.Extensions {
		if strings.TrimSpace(e) == "" {
			v.addf("extensions[%d]: must be non-empty", i)
		}
	}
}

// relativePathProblem returns a description of why the path is unacceptable as
// a project-relative path, or "" if it is fine.
func relativePathProblem(p string) string {
	if strings.TrimSpace(p) == "" {
		return "must be non-empty"
	}
	if filepath.IsAbs(p) {
		return "must be relative to the project root"
	}
	clean := filepath.ToSlash(filepath.Clean(p))
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "must not escape the project root"
	}
	return ""
}
