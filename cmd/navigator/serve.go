package main

import (
	"github.com/spf13/cobra"

	"github.com/navigationiq/navigator/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Navigator server",
	Long: `Start the Navigator HTTP server.

The server loads the handbook, registers the configured LLM providers and
serves the API and the web console. Edits to the config file are picked
up without a restart.

The server provides:
  - /health - Basic server health check
  - /status - Providers, handbook and flow status
  - /api/... - Flow, modal, handbook, settings and prompt endpoints

Examples:
  navigator serve                    # Start on default port 8080
  navigator serve --port 3000        # Start on custom port
  navigator serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger, err := newLogger()
		if err != nil {
			return err
		}

		h, err := getHome()
		if err != nil {
			return err
		}

		cm, err := loadConfig(h)
		if err != nil {
			return err
		}
		cm.SetLogger(logger)
		if path := cm.ConfigFile(); path != "" {
			logger.Info("loaded config", "file", path)
			cm.WatchConfig()
		} else {
			logger.Info("no config file found, using defaults", "hint", "navigator config init")
		}

		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			ConfigManager: cm,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
