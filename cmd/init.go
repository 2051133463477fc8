package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/twiced-technology-gmbh/quadono/internal/clierr"
	"github.com/twiced-technology-gmbh/quadono/internal/config"
	"github.com/twiced-technology-gmbh/quadono/internal/output"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration",
	Long: `Creates the data directory and writes config.yml with every setting at its
default value. Task, alarm and history files are created on first use.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, _ []string) error {
	dir, err := config.ResolveDir(flagDir)
	if err != nil {
		return err
	}

	cfg, err := config.Init(dir)
	if err != nil {
		if errors.Is(err, config.ErrExists) {
			return clierr.Newf(clierr.ConfigExists, "already initialized in %s", dir).
				WithDetails(map[string]any{"dir": dir})
		}
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]string{
			"status":  "initialized",
			"dir":     cfg.Dir(),
			"config":  cfg.ConfigPath(),
			"tasks":   cfg.TasksPath(),
			"alarms":  cfg.AlarmsPath(),
			"history": cfg.HistoryPath(),
		})
	}

	output.Messagef(os.Stdout, "Initialized quadono in %s", cfg.Dir())
	output.Messagef(os.Stdout, "  Config:  %s", cfg.ConfigPath())
	output.Messagef(os.Stdout, "  Tasks:   %s", cfg.TasksPath())
	output.Messagef(os.Stdout, "  Alarms:  %s", cfg.AlarmsPath())
	output.Messagef(os.Stdout, "  History: %s", cfg.HistoryPath())
	return nil
}
