package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ellavondegurechaff/foodgram/foodgram/logger"
)

var resetTables bool

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			logger.LogError("Schema initialization failed", err)
			return err
		}
		if resetTables {
			if err := db.ResetAppTables(ctx); err != nil {
				logger.LogError("Table reset failed", err)
				return err
			}
		}

		logger.LogSystem("Migration completed", slog.Bool("reset", resetTables))
		return nil
	},
}

func init() {
	migrateCMD.Flags().BoolVar(&resetTables, "reset", false, "truncate every application table after creating the schema")
	rootCmd.AddCommand(migrateCMD)
}
