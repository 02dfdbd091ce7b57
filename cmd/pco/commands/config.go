package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fivetwenty-io/pco-client/internal/constants"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the CLI configuration persisted to
// ~/.pco/config.yml.
type Config struct {
	AppID       string `json:"app_id,omitempty"       yaml:"app_id,omitempty"`
	Secret      string `json:"secret,omitempty"       yaml:"secret,omitempty"`
	Token       string `json:"token,omitempty"        yaml:"token,omitempty"`
	SessionName string `json:"session_name,omitempty" yaml:"session_name,omitempty"`

	API    string `json:"api,omitempty"    yaml:"api,omitempty"`
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

func configPath() (string, error) {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".pco", "config.yml"), nil
}

// loadConfig reads the persisted CLI configuration, returning an empty
// config when no file exists yet.
func loadConfig() *Config {
	config := &Config{}

	path, err := configPath()
	if err != nil {
		return config
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return config
	}

	_ = yaml.Unmarshal(data, config)

	return config
}

// saveConfig writes the CLI configuration with restrictive permissions,
// since it may hold credentials.
func saveConfig(config *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Manage PCO CLI configuration including credentials and settings",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())
	cmd.AddCommand(newConfigClearCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current CLI configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			masked := *config
			if masked.Secret != "" {
				masked.Secret = Masked
			}

			if masked.Token != "" {
				masked.Token = Masked
			}

			output := viper.GetString("output")
			switch output {
			case OutputFormatJSON:
				return outputJSON(masked)
			case OutputFormatYAML:
				return outputYAML(masked)
			default:
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("Key", "Value")
				_ = table.Append("app_id", masked.AppID)
				_ = table.Append("secret", masked.Secret)
				_ = table.Append("token", masked.Token)
				_ = table.Append("session_name", masked.SessionName)
				_ = table.Append("api", masked.API)
				_ = table.Append("output", masked.Output)
				if err := table.Render(); err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}
			}

			return nil
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			key, value := args[0], args[1]
			if err := setConfigKey(config, key, value); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			cmd.Printf("Set %s\n", key)

			return nil
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			key := args[0]
			if err := setConfigKey(config, key, ""); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			cmd.Printf("Unset %s\n", key)

			return nil
		},
	}
}

func newConfigClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := saveConfig(&Config{}); err != nil {
				return err
			}

			cmd.Println("Configuration cleared")

			return nil
		},
	}
}

func setConfigKey(config *Config, key, value string) error {
	switch key {
	case "app_id":
		config.AppID = value
	case "secret":
		config.Secret = value
	case "token":
		config.Token = value
	case "session_name":
		config.SessionName = value
	case "api":
		config.API = value
	case "output":
		config.Output = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConfigKey, key)
	}

	return nil
}
