package main

import (
	"github.com/BloggingApp/blog-console/internal/repository/postgres"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending postgres migrations",
		Long: `Apply the embedded goose migrations. Running it against a table created
before soft deletion adds the is_deleted and deleted_at columns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			if err := postgres.Migrate(cmd.Context(), cfg.DB.DSN()); err != nil {
				logger.Sugar().Errorf("failed to apply migrations: %s", err.Error())
				return err
			}
			logger.Info("Migrations applied")
			return nil
		},
	}
}
