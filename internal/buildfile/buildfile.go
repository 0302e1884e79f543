// Package buildfile reads the small YAML manifest that feeds source sets
// into the pipeline (§1, "a build-file bootstrap layer") — the teacher's
// own gopkg.in/yaml.v3 dependency (exercised elsewhere by
// internal/evaluator/builtins_yaml.go and internal/ext/config.go), given a
// home here as the driver's entry point's configuration layer. Source path
// resolution and extension recognition reuse internal/utils and
// internal/config, adapted from the teacher's module-import path
// resolution to this package's manifest-relative source lists.
package buildfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BigBadE/Raven-Language-sub000/internal/config"
	"github.com/BigBadE/Raven-Language-sub000/internal/utils"
	"gopkg.in/yaml.v3"
)

// File is the on-disk build manifest shape.
type File struct {
	Sources []string `yaml:"sources"`
	Entry   string   `yaml:"entry"`

	Workers int `yaml:"workers"`

	TimeoutSeconds      int `yaml:"timeoutSeconds"`
	EntryTimeoutSeconds int `yaml:"entryTimeoutSeconds"`

	Solver SolverConfig `yaml:"solver"`
}

// SolverConfig bounds the Trait Solver's backtracking (§4.3 "overflow
// guards"): a search-depth ceiling and a per-query goal-count cap, past
// which the solver reports overflow rather than diverging.
type SolverConfig struct {
	MaxDepth int `yaml:"maxDepth"`
	MaxGoals int `yaml:"maxGoals"`
}

const (
	DefaultWorkers             = 4
	DefaultTimeoutSeconds      = 30
	DefaultEntryTimeoutSeconds = 5
	DefaultSolverMaxDepth      = 30
	DefaultSolverMaxGoals      = 3000
)

// Load reads and parses a build manifest from path, filling unset fields
// with the package defaults and resolving each relative source entry
// against the manifest's own directory.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("buildfile: reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	baseDir := filepath.Dir(path)
	for i, src := range f.Sources {
		f.Sources[i] = utils.ResolveSourcePath(baseDir, src)
	}
	return f, nil
}

// Parse decodes raw YAML bytes into a File, applying defaults.
func Parse(data []byte) (*File, error) {
	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("buildfile: parsing manifest: %w", err)
	}
	f.applyDefaults()
	if len(f.Sources) == 0 {
		return nil, fmt.Errorf("buildfile: manifest lists no sources")
	}
	for _, src := range f.Sources {
		if !config.HasSourceExt(src) {
			return nil, fmt.Errorf("buildfile: source %q has no recognized extension %v", src, config.SourceFileExtensions)
		}
	}
	return f, nil
}

func (f *File) applyDefaults() {
	if f.Workers <= 0 {
		f.Workers = DefaultWorkers
	}
	if f.TimeoutSeconds <= 0 {
		f.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if f.EntryTimeoutSeconds <= 0 {
		f.EntryTimeoutSeconds = DefaultEntryTimeoutSeconds
	}
	if f.Solver.MaxDepth <= 0 {
		f.Solver.MaxDepth = DefaultSolverMaxDepth
	}
	if f.Solver.MaxGoals <= 0 {
		f.Solver.MaxGoals = DefaultSolverMaxGoals
	}
}

// Timeout is the configured global compile timeout as a time.Duration.
func (f *File) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// EntryTimeout is the configured entry-function wait timeout.
func (f *File) EntryTimeout() time.Duration {
	return time.Duration(f.EntryTimeoutSeconds) * time.Second
}
