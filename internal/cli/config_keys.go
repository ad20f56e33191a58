package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/placedesk/placedesk/internal/config"
)

const redactedToken = "********"

// NewConfigGetCmd prints one configuration value from the config file.
func NewConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print a configuration value",
		Example: `  placedesk config get api.url
  placedesk config get output.default_format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfigFile(cmd)
			if err != nil {
				return err
			}
			value, err := cfg.Get(args[0])
			if err != nil {
				return err
			}
			cmd.Println(value)
			return nil
		},
	}
}

// NewConfigSetCmd assigns one configuration value and saves the config file.
func NewConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Example: `  placedesk config set api.url https://placement.example.edu
  placedesk config set api.max_concurrency 4
  placedesk config set logging.audit.enabled true`,
		Args: cobra.ExactArgs(2), //nolint:mnd // KEY VALUE.
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfigFile(cmd)
			if err != nil {
				return err
			}
			if err = cfg.Set(args[0], args[1]); err != nil {
				return err
			}
			if err = cfg.Validate(); err != nil {
				return fmt.Errorf("rejected %s: %w", args[0], err)
			}
			if err = cfg.Save(path); err != nil {
				return err
			}
			cmd.Printf("Set %s in %s\n", args[0], path)
			return nil
		},
	}
}

// NewConfigListCmd prints every key of the config file. The token is redacted.
func NewConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfigFile(cmd)
			if err != nil {
				return err
			}
			for _, key := range config.Keys() {
				value, getErr := cfg.Get(key)
				if getErr != nil {
					return getErr
				}
				if key == "api.token" && value != "" {
					value = redactedToken
				}
				cmd.Printf("%s=%s\n", key, value)
			}
			return nil
		},
	}
}

// loadConfigFile reads the config file alone, without project overlay or
// environment, so that set writes back only what the file holds.
func loadConfigFile(cmd *cobra.Command) (*config.Config, string, error) {
	path, err := configFilePath(cmd)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
