// Package utils carries the handful of path helpers internal/buildfile
// needs to turn a manifest's relative source list into absolute paths.
// Adapted from the teacher's module-import path resolution: the same
// "resolve relative to a base directory" shape, applied to build-file
// source entries instead of import statements.
package utils

import (
	"path/filepath"

	"github.com/BigBadE/Raven-Language-sub000/internal/config"
)

// ResolveSourcePath resolves a source path relative to baseDir if it is
// not already absolute.
func ResolveSourcePath(baseDir, sourcePath string) string {
	if filepath.IsAbs(sourcePath) {
		return sourcePath
	}
	if baseDir != "." && baseDir != "" {
		return filepath.Join(baseDir, sourcePath)
	}
	return sourcePath
}

// ExtractModuleName derives a module name from a file path: the base
// filename with any recognized source extension removed.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}
