package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/banwatch/banwatch/internal/config"
	"github.com/banwatch/banwatch/internal/database"
)

var dbStatsCmd = &cobra.Command{
	Use:   "db-stats",
	Short: "Show database statistics",
	Long:  `Display aggregate statistics about tracked users, IPs and bans.`,
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

		stats, err := db.GetStats(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get database stats: %w", err)
		}

		fmt.Println("Database Statistics:")
		fmt.Printf("Users: %d\n", stats.Users)
		fmt.Printf("IPs: %d\n", stats.IPs)
		fmt.Printf("Username Bans: %d\n", stats.UsernameBans)
		fmt.Printf("IP Bans: %d\n", stats.IPBans)

		if stats.FirstSeen != nil {
			fmt.Printf("First Seen: %s\n", stats.FirstSeen.Format(time.RFC3339))
		}
		if stats.LastSeen != nil {
			fmt.Printf("Last Seen: %s\n", stats.LastSeen.Format(time.RFC3339))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(dbStatsCmd)
}
