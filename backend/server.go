// Package backend serves the Foodgram REST API over fiber.
package backend

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ellavondegurechaff/foodgram/backend/handlers"
	"github.com/ellavondegurechaff/foodgram/backend/middleware"
	"github.com/ellavondegurechaff/foodgram/foodgram/config"
	"github.com/ellavondegurechaff/foodgram/internal/domain/collections"
)

// NewApp builds the fiber application with the global middleware stack and
// every API route registered.
func NewApp(webApp *handlers.WebApp) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      config.ServerName + " API",
		ServerHeader: config.ServerName,
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    config.RequestBodyLimitBytes,
	})

	var origins []string
	if webApp.Config != nil {
		origins = webApp.Config.GetWebConfig().AllowedOrigins
	}

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(middleware.CORS(origins))
	app.Use(middleware.LoggingMiddleware())

	setupRoutes(app, webApp)
	return app
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp) {
	app.Get("/health", handlers.HealthCheck(webApp))

	if webApp.Config != nil {
		web := webApp.Config.GetWebConfig()
		if web.MediaURL != "" && web.MediaRoot != "" {
			app.Static(web.MediaURL, web.MediaRoot)
		}
	}

	api := app.Group("/api")
	if webApp.Config != nil {
		web := webApp.Config.GetWebConfig()
		api.Use(middleware.RateLimit(middleware.NewRateLimiter(web.RateLimit, web.RateBurst)))
	}

	requireAuth := middleware.AuthRequired(webApp)
	optionalAuth := middleware.OptionalAuth(webApp)

	authGroup := api.Group("/auth/token")
	authGroup.Post("/login", handlers.Login(webApp))
	authGroup.Post("/logout", requireAuth, handlers.Logout(webApp))

	users := api.Group("/users")
	users.Post("/", handlers.RegisterUser(webApp))
	users.Get("/", optionalAuth, handlers.ListUsers(webApp))
	users.Get("/me", requireAuth, handlers.CurrentUser(webApp))
	users.Post("/set_password", requireAuth, handlers.SetPassword(webApp))
	users.Get("/subscriptions", requireAuth, handlers.Subscriptions(webApp))
	users.Get("/:id<int>", optionalAuth, handlers.GetUser(webApp))
	users.Post("/:id<int>/subscribe", requireAuth, handlers.Subscribe(webApp))
	users.Delete("/:id<int>/subscribe", requireAuth, handlers.Unsubscribe(webApp))

	api.Get("/tags", handlers.ListTags(webApp))
	api.Get("/tags/:id<int>", handlers.GetTag(webApp))
	api.Get("/ingredients", handlers.ListIngredients(webApp))
	api.Get("/ingredients/:id<int>", handlers.GetIngredient(webApp))

	recipes := api.Group("/recipes")
	recipes.Get("/", optionalAuth, handlers.ListRecipes(webApp))
	recipes.Post("/", requireAuth, handlers.CreateRecipe(webApp))
	recipes.Get("/download_shopping_cart", requireAuth, handlers.DownloadShoppingCart(webApp))
	recipes.Get("/:id<int>", optionalAuth, handlers.GetRecipe(webApp))
	recipes.Patch("/:id<int>", requireAuth, handlers.UpdateRecipe(webApp))
	recipes.Delete("/:id<int>", requireAuth, handlers.DeleteRecipe(webApp))
	recipes.Post("/:id<int>/favorite", requireAuth, handlers.AddToCollection(webApp, collections.Favorites))
	recipes.Delete("/:id<int>/favorite", requireAuth, handlers.RemoveFromCollection(webApp, collections.Favorites))
	recipes.Post("/:id<int>/shopping_cart", requireAuth, handlers.AddToCollection(webApp, collections.ShoppingCart))
	recipes.Delete("/:id<int>/shopping_cart", requireAuth, handlers.RemoveFromCollection(webApp, collections.ShoppingCart))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": config.ServerName + " API",
			"version": webApp.Version,
			"status":  "running",
		})
	})
}
