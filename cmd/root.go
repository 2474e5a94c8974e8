package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ellavondegurechaff/foodgram/foodgram"
	"github.com/ellavondegurechaff/foodgram/foodgram/database"
	"github.com/ellavondegurechaff/foodgram/foodgram/logger"
)

var (
	version = "dev"
	commit  = "unknown"

	configPath string
)

var rootCmd = &cobra.Command{
	Use:           "foodgram",
	Short:         "Foodgram recipe sharing backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
}

// Execute runs the command line. build identifies the binary in logs and the
// health endpoint.
func Execute(ctx context.Context, buildVersion, buildCommit string) error {
	version = buildVersion
	commit = buildCommit
	rootCmd.Version = fmt.Sprintf("%s (%s)", version, commit)
	return rootCmd.ExecuteContext(ctx)
}

// setup loads the config and installs the process logger.
func setup() (*foodgram.Config, error) {
	cfg, err := foodgram.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger.New("Foodgram", cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource))
	logger.LogSystem("Configuration loaded", slog.String("path", configPath))
	return cfg, nil
}

func openDB(ctx context.Context, cfg *foodgram.Config) (*database.DB, error) {
	db, err := database.New(ctx, database.DBConfig{
		Host:         cfg.DB.Host,
		Port:         cfg.DB.Port,
		User:         cfg.DB.User,
		Password:     cfg.DB.Password,
		Database:     cfg.DB.Database,
		SSLMode:      cfg.DB.SSLMode,
		PoolSize:     cfg.DB.PoolSize,
		MaxIdleConns: cfg.DB.MaxIdleConns,
		MaxLifetime:  cfg.DB.MaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.LogSystem("Database connected", slog.String("database", cfg.DB.Database))
	return db, nil
}
