package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/api"
	"github.com/navigationiq/navigator/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the Navigator config file",
	Long: `Manage the local configuration.

The config file lives at ~/.navigator/config.yaml unless --config or a
./config.yaml says otherwise. Keys can also be set from the environment
with the NAVIGATOR_ prefix, e.g. NAVIGATOR_DEFAULTS_LLM_PROVIDER=openai.

Examples:
  navigator config init    # Write the default config
  navigator config show    # Print the effective config (secrets masked)
  navigator config path    # Print the config file in use`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Long: `Write the default config file into the home directory.

An existing file is left alone unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if h.ConfigExists() && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", h.ConfigPath())
		}
		if err := config.WriteDefault(h.ConfigPath()); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", h.ConfigPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(h)
		if err != nil {
			return err
		}
		return api.Output(config.Entries(cm.Get()))
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		h, err := getHome()
		if err != nil {
			return err
		}
		cm, err := loadConfig(h)
		if err != nil {
			return err
		}
		if path := cm.ConfigFile(); path != "" {
			fmt.Println(path)
			return nil
		}
		fmt.Printf("no config file found (defaults in use); expected %s\n", h.ConfigPath())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)

	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	rootCmd.AddCommand(configCmd)
}
