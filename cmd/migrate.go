package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

var resetTables bool

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "create the player tables and indexes, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := connectDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if resetTables {
			slog.Warn("Truncating player tables", slog.String("type", "db"))
			if err = db.ResetAppTables(ctx); err != nil {
				return err
			}
		}

		for _, table := range []string{"player_data", "player_flags"} {
			rows, err := db.QueryWithLog(ctx, fmt.Sprintf("SELECT count(*) FROM %s", table))
			if err != nil {
				return err
			}
			var count int64
			for rows.Next() {
				if err = rows.Scan(&count); err != nil {
					rows.Close()
					return err
				}
			}
			rows.Close()
			slog.Info("Table ready",
				slog.String("type", "db"),
				slog.String("table", table),
				slog.Int64("rows", count))
		}

		slog.Info("Migration completed successfully!", slog.String("type", "db"))
		return nil
	},
}

func init() {
	migrateCMD.Flags().BoolVar(&resetTables, "reset", false, "truncate player tables after migrating")
	rootCmd.AddCommand(migrateCMD)
}
