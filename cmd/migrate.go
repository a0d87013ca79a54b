package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/banwatch/banwatch/internal/config"
	"github.com/banwatch/banwatch/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Run database migrations to set up or update the database schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
		if err != nil {
			return err
		}

		db, err := database.New(cfg.DatabaseDSN)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close() //nolint: errcheck

		if err := db.Migrate(); err != nil {
			return err
		}

		fmt.Println("Database migrations completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
