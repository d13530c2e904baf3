package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vedsharma/apitester/internal/config"
	"github.com/vedsharma/apitester/internal/format"
)

var configInitForce bool

func init() {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or create the config file",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		Run:   runConfigShow,
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		Run:   runConfigInit,
	}
	initCmd.Flags().BoolVar(&configInitForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(showCmd, initCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	if err != nil {
		fail("Failed to load config", err)
	}
	data, err := cfg.YAML()
	if err != nil {
		fail("Failed to load config", err)
	}
	fmt.Print(string(data))
}

func runConfigInit(cmd *cobra.Command, args []string) {
	path, err := initConfig(configPath, configInitForce)
	if err != nil {
		fail("Failed to write config", err)
	}
	format.PrintSuccess(fmt.Sprintf("Config written to %s", path))
}

// errConfigExists is returned by initConfig when the file is already there
var errConfigExists = errors.New("config file already exists (use --force to overwrite)")

// initConfig writes the default config to path (or the default location)
// and returns where it was written
func initConfig(path string, force bool) (string, error) {
	path, err := config.Path(path)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s: %w", path, errConfigExists)
	}

	home, err := config.Home()
	if err != nil {
		return "", err
	}
	if err := config.Default(home).Save(path); err != nil {
		return "", err
	}
	return path, nil
}
