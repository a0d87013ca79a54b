package cmd

import (
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/banwatch/banwatch/internal/api"
	"github.com/banwatch/banwatch/internal/config"
	"github.com/banwatch/banwatch/internal/database"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the banwatch server",
	Long:  `Start the banwatch server to track connected users and serve ban reports.`,
	Example: `banwatch serve --config config.yml
banwatch serve -c /path/to/config.yml --log-level debug
`,
	RunE: startServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func startServer(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		return err
	}
	if rootCmdPersistentFlags.LogLevel == "" {
		setLogLevel(cfg.LogLevel)
	}

	db, err := database.New(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer db.Close() //nolint: errcheck

	if err := db.Migrate(); err != nil {
		return err
	}

	server, err := api.New(cfg, db, log.GetLevel() == log.DebugLevel)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting API server", "listen", cfg.Listen)
	if err := server.Run(ctx); err != nil {
		return err
	}

	log.Info("banwatch stopped")
	return nil
}
