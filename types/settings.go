package types

import "path/filepath"

// CollectorSettings configures one in-process data collector
type CollectorSettings struct {
	Identity      string `yaml:"identity"`                // Unique registry key (fully qualified type + origin)
	LoadPath      string `yaml:"loadPath"`                // Absolute, or relative to the default load path
	Configuration string `yaml:"configuration,omitempty"` // Opaque payload passed through to the collector
}

// RunSettings is the data-collection section of the engine's run settings
type RunSettings struct {
	Enabled    bool                `yaml:"enabled"`
	Collectors []CollectorSettings `yaml:"collectors"`
}

// ResolveLoadPath returns the absolute load path for the collector. A
// relative path is joined with defaultDir; an absolute path is used verbatim.
func (s CollectorSettings) ResolveLoadPath(defaultDir string) string {
	if s.LoadPath == "" || filepath.IsAbs(s.LoadPath) {
		return s.LoadPath
	}
	return filepath.Join(defaultDir, s.LoadPath)
}

// CollectionConfigured reports whether the settings ask for any collection at
// all. Absent settings or an empty collector list means disabled.
func (rs RunSettings) CollectionConfigured() bool {
	return rs.Enabled && len(rs.Collectors) > 0
}
