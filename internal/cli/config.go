package cli

import (
	"fmt"

	"github.com/andy/invoicewiz/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:         "config",
	Short:       "Inspect the configuration",
	Annotations: map[string]string{skipApp: "true"},
}

var configPathCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), resolvedConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration including environment overrides",
	Annotations: map[string]string{skipApp: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(resolvedConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
}
