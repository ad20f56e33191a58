package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/placedesk/placedesk/internal/logging"
)

const projectDirName = ".placedesk"

// ResolveProjectDir returns the absolute path of the project-local .placedesk
// directory under startDir, or "" when there is none. Does not create anything.
func ResolveProjectDir(ctx context.Context, startDir string) string {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Err(err).
			Str("dir", startDir).
			Msg("failed to resolve absolute path for project directory")
		return ""
	}
	dir := filepath.Join(abs, projectDirName)
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return ""
	}
	return dir
}

// NewWithProjectDir creates a Config by loading global config then
// shallow-merging project-local config on top. Environment overrides are
// re-applied after the merge so they keep precedence over both files.
// If projectDir is empty, behaves identically to New().
func NewWithProjectDir(ctx context.Context, projectDir string) *Config {
	cfg := New()

	if projectDir == "" {
		return cfg
	}

	overlayPath := filepath.Join(projectDir, configFileName)
	if _, err := os.Stat(overlayPath); err != nil {
		return cfg
	}

	merged := New()
	if err := ShallowMergeYAML(merged, overlayPath); err != nil {
		logging.FromContext(ctx).Warn().
			Str("component", "config").
			Str("operation", "merge_project_config").
			Err(err).
			Str("overlay_path", overlayPath).
			Msg("failed to merge project config, using global defaults")
		return cfg
	}
	merged.ApplyEnv(os.LookupEnv)
	merged.fillDefaults()

	return merged
}
