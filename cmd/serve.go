package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ellavondegurechaff/foodgram/backend"
	webconfig "github.com/ellavondegurechaff/foodgram/backend/config"
	"github.com/ellavondegurechaff/foodgram/backend/handlers"
	"github.com/ellavondegurechaff/foodgram/foodgram"
	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/foodgram/logger"
	"github.com/ellavondegurechaff/foodgram/foodgram/services"
	"github.com/ellavondegurechaff/foodgram/internal/domain/auth"
	"github.com/ellavondegurechaff/foodgram/internal/domain/catalog"
	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
	"github.com/ellavondegurechaff/foodgram/internal/domain/follows"
	"github.com/ellavondegurechaff/foodgram/internal/domain/recipes"
	"github.com/ellavondegurechaff/foodgram/internal/domain/shopping"
	"github.com/ellavondegurechaff/foodgram/internal/domain/users"
	"github.com/ellavondegurechaff/foodgram/internal/gateways/database/repositories"
)

var debug bool

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		slog.Info("Starting Foodgram API",
			slog.String("version", version),
			slog.String("commit", commit))

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		db, err := openDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			return err
		}

		images, err := imageStore(ctx, cfg)
		if err != nil {
			return err
		}

		bunDB := db.BunDB()
		tokens := repositories.NewTokenRepository(bunDB)
		userService := users.NewService(repositories.NewUserRepository(bunDB), cfg.Recipes.PageSize)

		webApp := &handlers.WebApp{
			Config: webconfig.NewWebAppConfig(cfg, debug),
			DB:     db,
			Users:  userService,
			Auth:   auth.NewService(tokens, userService, cfg.Auth.Secret, cfg.Auth.TokenTTL()),
			Recipes: recipes.NewService(repositories.NewRecipeRepository(bunDB), images, recipes.Limits{
				CookingTimeMin: cfg.Recipes.CookingTimeMin,
				CookingTimeMax: cfg.Recipes.CookingTimeMax,
				AmountMin:      cfg.Recipes.AmountMin,
				AmountMax:      cfg.Recipes.AmountMax,
				PageSize:       cfg.Recipes.PageSize,
			}),
			Catalog:     catalog.NewService(repositories.NewCatalogRepository(bunDB)),
			Collections: collections.NewService(repositories.NewCollectionRepository(bunDB)),
			Follows:     follows.NewService(repositories.NewFollowRepository(bunDB), cfg.Recipes.PageSize),
			Shopping:    shopping.NewService(repositories.NewShoppingRepository(bunDB)),
			Version:     version,
			Commit:      commit,
		}
		app := backend.NewApp(webApp)

		go purgeTokens(ctx, tokens)

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)

		errCh := make(chan error, 1)
		go func() {
			logger.LogSystem("Starting server", slog.String("address", cfg.Web.Address))
			errCh <- app.Listen(cfg.Web.Address)
		}()

		select {
		case <-c:
		case <-ctx.Done():
		case err := <-errCh:
			logger.LogError("Server stopped", err)
			return err
		}

		logger.LogSystem("Shutting down server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer shutdownCancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.LogError("Server shutdown error", err)
		}

		logger.LogSystem("Server shutdown complete")
		return nil
	},
}

// imageStore uploads to Spaces when credentials are configured and writes
// under the media root otherwise.
func imageStore(ctx context.Context, cfg *foodgram.Config) (recipes.ImageStore, error) {
	if cfg.Spaces.Enabled() {
		spaces, err := services.NewSpacesService(ctx,
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ImageRoot)
		if err != nil {
			return nil, err
		}
		logger.LogSystem("Recipe images stored on Spaces",
			slog.String("bucket", spaces.GetBucket()),
			slog.String("region", spaces.GetRegion()))
		return spaces, nil
	}

	logger.LogSystem("Recipe images stored locally", slog.String("root", cfg.Web.MediaRoot))
	return services.NewLocalImageStore(cfg.Web.MediaRoot, cfg.Web.MediaURL, cfg.Spaces.ImageRoot), nil
}

// tokenPurger drops expired auth tokens.
type tokenPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

func purgeTokens(ctx context.Context, tokens tokenPurger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := tokens.PurgeExpired(ctx, now)
			if err != nil {
				logger.LogError("Token purge failed", err)
				continue
			}
			if n > 0 {
				logger.LogSystem("Expired tokens purged", slog.Int("count", n))
			}
		}
	}
}

func init() {
	serveCMD.Flags().BoolVar(&debug, "debug", false, "run in development mode")
	rootCmd.AddCommand(serveCMD)
}
