// Package builtin ships the compiled-in plugins available to every project:
// typography, toc, and admonitions. Importing this package registers them in
// the default builtin registry.
package builtin

import (
	"github.com/inkweld/inkweld/internal/plugin"
)

func init() {
	must(plugin.Register("typography", NewTypography))
	must(plugin.Register("toc", NewTOC))
	must(plugin.Register("admonitions", NewAdmonitions))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// RegisterAll registers the builtin set into a custom registry. Tests use this
// to build isolated registries.
func RegisterAll(r *plugin.Registry) error {
	if err := r.Register("typography", NewTypography); err != nil {
		return err
	}
	if err := r.Register("toc", NewTOC); err != nil {
		return err
	}
	return r.Register("admonitions", NewAdmonitions)
}
