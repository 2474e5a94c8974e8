package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/foodgram/logger"
	"github.com/ellavondegurechaff/foodgram/foodgram/migration"
	"github.com/ellavondegurechaff/foodgram/internal/domain/catalog"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/repositories"
)

var importFlags struct {
	ingredients     string
	tags            string
	mongoURI        string
	mongoDB         string
	mongoCollection string
}

var importCMD = &cobra.Command{
	Use:   "import",
	Short: "load tags and ingredients into the catalogue",
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
			return err
		}

		importer := migration.NewImporter(catalog.NewService(repositories.NewCatalogRepository(db.BunDB())))

		uri := firstNonEmpty(importFlags.mongoURI, cfg.Mongo.URI)
		if uri != "" {
			client, err := connectMongo(ctx, uri)
			if err != nil {
				return err
			}
			defer func() {
				if err := client.Disconnect(context.Background()); err != nil {
					logger.LogError("Mongo disconnect failed", err)
				}
			}()
			importer.UseMongo(client,
				firstNonEmpty(importFlags.mongoDB, cfg.Mongo.Database),
				firstNonEmpty(importFlags.mongoCollection, cfg.Mongo.Collection))
		}

		stats, err := importer.ImportAll(ctx, importFlags.tags, importFlags.ingredients)
		if err != nil {
			logger.LogError("Import failed", err)
			return err
		}

		logger.LogSystem("Import completed",
			slog.Int("sources", len(stats.Sources)),
			slog.Duration("took", stats.EndTime.Sub(stats.StartTime)))
		return nil
	},
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, config.NetworkDialTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func init() {
	f := importCMD.Flags()
	f.StringVar(&importFlags.ingredients, "ingredients", "", "path to ingredients.json")
	f.StringVar(&importFlags.tags, "tags", "", "path to tag.json")
	f.StringVar(&importFlags.mongoURI, "mongo-uri", "", "legacy recipe database to harvest ingredients from")
	f.StringVar(&importFlags.mongoDB, "mongo-db", "", "legacy database name")
	f.StringVar(&importFlags.mongoCollection, "mongo-collection", "", "legacy recipe collection")
	rootCmd.AddCommand(importCMD)
}
