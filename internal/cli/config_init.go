package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// By default it writes the global ~/.placedesk/config.yaml; --project writes
// ./.placedesk/config.yaml, which is shallow-merged over the global file.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

Without flags the global file is written (PLACEDESK_HOME/config.yaml, or
~/.placedesk/config.yaml). With --project the file is created under
./.placedesk/ in the current directory instead. Existing files are kept
unless --force is given.`,
		Example: `  # Create global configuration
  placedesk config init

  # Create project-local configuration
  placedesk config init --project

  # Create configuration, overwriting existing
  placedesk config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := initTargetPath(cmd, project)
			if err != nil {
				return err
			}
			return initConfigFile(cmd, path, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create ./.placedesk/config.yaml instead of the global file")

	return cmd
}

// initTargetPath resolves where init writes: --config, --project, or the global file.
func initTargetPath(cmd *cobra.Command, project bool) (string, error) {
	if project {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		return filepath.Join(cwd, ".placedesk", "config.yaml"), nil
	}
	return configFilePath(cmd)
}

// initConfigFile writes the built-in defaults to path.
func initConfigFile(cmd *cobra.Command, path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", path, err)
		}
	}

	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}

// configFilePath is the file the config subcommands read and write:
// the root --config flag when set, otherwise the global config file.
func configFilePath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return config.ConfigFilePath()
}
