package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/config"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify configuration",
	Long: `Shows the effective configuration (file, environment and defaults merged),
gets a single key, or sets a key and writes config.yml.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	values := make(map[string]string, len(config.Keys))
	for _, key := range config.Keys {
		v, err := cfg.Get(key)
		if err != nil {
			return err
		}
		values[key] = v
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, values)
	}
	for _, key := range config.Keys {
		fmt.Fprintf(os.Stdout, "%s: %s\n", key, values[key])
	}
	return nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	v, err := cfg.Get(args[0])
	if err != nil {
		return configError(err, args[0])
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"key": args[0], "value": v})
	}
	fmt.Fprintln(os.Stdout, v)
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return configError(err, key)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{"key": key, "value": value, "config": cfg.ConfigPath()})
	}
	output.Messagef(os.Stdout, "Set %s = %s", key, value)
	return nil
}

// configError maps config sentinel errors to CLI error codes.
func configError(err error, key string) error {
	details := map[string]any{"key": key}
	switch {
	case errors.Is(err, config.ErrUnknownKey):
		return clierr.Newf(clierr.InvalidInput, "unknown config key %q; valid keys: %v", key, config.Keys).
			WithDetails(details)
	case errors.Is(err, config.ErrInvalid):
		return clierr.New(clierr.InvalidConfig, err.Error()).WithDetails(details)
	default:
		return err
	}
}
