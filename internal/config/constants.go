// Package config carries the few compile-wide constants the build-file
// bootstrap layer (internal/buildfile) and CLI need: recognized source
// file extensions and the compiler's own version string. Trimmed down
// from the teacher's larger constants file, which also carried a
// scripting language's built-in function/type names — irrelevant once
// there is no tree-walking evaluator to register builtins with.
package config

// Version is the current ravenc version.
var Version = "0.1.0"

// SourceFileExtensions are the extensions the build-file bootstrap
// layer accepts in a manifest's source list (§1, "a build-file
// bootstrap layer feeds source sets into this pipeline").
var SourceFileExtensions = []string{".rvn", ".raven"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
