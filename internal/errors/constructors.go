package errors

// Convenience constructors for the common pipeline error shapes. Each carries
// enough context (path, plugin name, cycle chain) to be actionable without
// re-running in debug mode.

// ConfigError creates a fatal configuration error.
func ConfigError(message string) *BuildError {
	return New(CategoryConfig, SeverityFatal, message)
}

// ValidationError creates a fatal manifest validation error.
func ValidationError(message string) *BuildError {
	return New(CategoryValidation, SeverityFatal, message)
}

// PluginError creates a fatal plugin resolution error for the named entry.
func PluginError(name, message string) *BuildError {
	return New(CategoryPlugin, SeverityFatal, message).WithContext("plugin", name)
}

// PluginWarning creates a recoverable plugin resolution error for the named entry.
func PluginWarning(name, message string) *BuildError {
	return New(CategoryPlugin, SeverityWarning, message).WithContext("plugin", name)
}

// CascadeError creates a fatal stylesheet cascade error for the given path.
func CascadeError(path, message string) *BuildError {
	return New(CategoryCascade, SeverityFatal, message).WithContext("path", path)
}

// AssemblyError creates a fatal document assembly error.
func AssemblyError(message string) *BuildError {
	return New(CategoryAssembly, SeverityFatal, message)
}

// WatchError creates a non-fatal watch loop error. Watch errors are logged and
// leave the previously assembled artifact in place.
func WatchError(message string, cause error) *BuildError {
	return Wrap(cause, CategoryWatch, SeverityError, message)
}
