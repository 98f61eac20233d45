// Package logfields holds the canonical structured log field names so key
// spelling cannot drift between the build pipeline and the watch loop.
package logfields

import "log/slog"

const (
	KeyBuildID      = "build_id"
	KeyPlugin       = "plugin"
	KeyProvenance   = "provenance"
	KeyStylesheet   = "stylesheet"
	KeyImport       = "import"
	KeyFile         = "file"
	KeyStage        = "stage"
	KeyDurationMS   = "duration_ms"
	KeyChangedPaths = "changed_paths"
	KeyError        = "error"
)

// Granular slog.Attr helpers; callers compose what they need.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Provenance(p string) slog.Attr    { return slog.String(KeyProvenance, p) }
func Stylesheet(path string) slog.Attr { return slog.String(KeyStylesheet, path) }
func Import(target string) slog.Attr   { return slog.String(KeyImport, target) }
func File(path string) slog.Attr       { return slog.String(KeyFile, path) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms int64) slog.Attr    { return slog.Int64(KeyDurationMS, ms) }
func ChangedPaths(n int) slog.Attr     { return slog.Int(KeyChangedPaths, n) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
