package config

import "time"

// Built-in defaults applied when neither CLI options nor the manifest supply a
// value. Defaults live in one place so the resolver stays a pure merge.
const (
	DefaultPageFormat = "a4"
	DefaultFormat     = "pdf"
	DefaultTimeout    = 60 * time.Second

	// DefaultDebounceWindow is the delay after the last observed filesystem
	// change before a watched rebuild is triggered.
	DefaultDebounceWindow = 300 * time.Millisecond
)

// DefaultPluginPriority is applied to plugin entries without an explicit
// priority. Midpoint of the [0,1000] range so declared priorities can order
// themselves both before and after defaults.
const DefaultPluginPriority = 500
