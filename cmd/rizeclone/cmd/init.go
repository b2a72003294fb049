package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wexinc/rizeclone/internal/clock"
	"github.com/wexinc/rizeclone/internal/config"
	rcerrors "github.com/wexinc/rizeclone/internal/errors"
)

// initCmd represents the init command.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: `Write a configuration file with default values and create the data
directory.

The file is written to the path given by --config, or to
$XDG_CONFIG_HOME/rizeclone/config.yaml.

Use --force to overwrite an existing configuration.

Examples:
  rizeclone init          # Write the default config
  rizeclone init --force  # Overwrite an existing config`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
	addInitFlags(initCmd)
}

func addInitFlags(c *cobra.Command) {
	c.Flags().BoolP("force", "f", false, "Overwrite existing configuration")
}

// runInit is the main entry point for the init command.
func runInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	path := configPath(cmd)

	if _, err := os.Stat(path); err == nil && !force {
		return rcerrors.ConfigExists(path)
	}

	cfg := config.NewConfig()
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	if err := clock.EnsureDir(cfg.DataDir); err != nil {
		return rcerrors.StoreWriteFailed(cfg.DataDir, err)
	}

	cmd.Printf("Created %s\n", path)
	cmd.Printf("Data directory: %s\n", cfg.DataDir)
	cmd.Println("")
	cmd.Println("Edit the config to set music_dir, ignore_apps and timezone.")
	cmd.Println("Run 'rizeclone' to start tracking.")
	return nil
}
