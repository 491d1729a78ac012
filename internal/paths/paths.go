// Package paths provides path resolution utilities.
package paths

import (
	"os"
	"path/filepath"
)

// DataDirEnv selects the data root when no flag is given. Test runs point it
// at fixture sources.
const DataDirEnv = "REGSITE_DATA_DIR"

// DefaultDataDir is used when neither a flag nor DataDirEnv is set.
const DefaultDataDir = "data-sources"

// ResolveDataDir picks the data root: flag, then env, then DefaultDataDir.
//
// Input normalization:
//   - "/srv/registry" -> "/srv/registry"
//   - "/srv/registry/open-data-registry/datasets" -> "/srv/registry"
//   - "" with env "" -> "data-sources"
func ResolveDataDir(flag, env string) string {
	path := flag
	if path == "" {
		path = env
	}
	if path == "" {
		path = DefaultDataDir
	}
	path = filepath.Clean(path)

	// A datasets directory belongs to one source; the root is two levels up.
	if filepath.Base(path) == "datasets" {
		return filepath.Dir(filepath.Dir(path))
	}
	return path
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/regsite/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "regsite", "traces", "traces.jsonl")
}

// UserConfigPath returns ~/.config/regsite/config.yaml or empty string if
// home dir unavailable.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "regsite", "config.yaml")
}
