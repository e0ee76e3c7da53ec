package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/recipebox/recipebox/config"
	"github.com/recipebox/recipebox/database"
	"github.com/recipebox/recipebox/database/repositories"
	"github.com/recipebox/recipebox/handlers"
	"github.com/recipebox/recipebox/logger"
	"github.com/recipebox/recipebox/middleware"
	webmodels "github.com/recipebox/recipebox/models"
	"github.com/recipebox/recipebox/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	configPath := "config.toml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	slog.Info("Starting RecipeBox API",
		slog.String("version", version),
		slog.String("commit", commit),
		slog.String("type", "sys"))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...", slog.String("driver", cfg.DB.Driver))
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := db.InitSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("Database ready")

	userRepo := repositories.NewUserRepository(db.BunDB())
	tokenRepo := repositories.NewTokenRepository(db.BunDB())
	tagRepo := repositories.NewTagRepository(db.BunDB())
	ingredientRepo := repositories.NewIngredientRepository(db.BunDB())
	recipeRepo := repositories.NewRecipeRepository(db.BunDB(), tagRepo, ingredientRepo)

	repos := webmodels.NewRepositories(userRepo, tokenRepo, tagRepo, ingredientRepo, recipeRepo)

	tokenService := services.NewTokenService(repos.Token, repos.User, cfg.Auth.TokenCacheSize)

	var store services.ImageStore
	var localStore *services.LocalStore
	switch cfg.Storage.Backend {
	case "spaces":
		store, err = services.NewSpacesStore(ctx, cfg.Storage.Spaces)
	default:
		localStore, err = services.NewLocalStore(cfg.Storage.Basedir)
		store = localStore
	}
	if err != nil {
		slog.Error("Failed to initialize image storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	imageService := services.NewImageService(store, repos.Recipe)

	app := fiber.New(fiber.Config{
		AppName:      "RecipeBox API",
		ServerHeader: "RecipeBox",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(middleware.SecurityHeaders())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Web.AllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With",
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:  cfg,
		DB:      db,
		Repos:   repos,
		Tokens:  tokenService,
		Images:  imageService,
		Version: version,
	}

	setupRoutes(app, webApp, localStore)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting server", slog.String("address", address))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := app.Listen(address); err != nil {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
		}
	}()

	<-c
	slog.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}

	db.Close()

	slog.Info("Server shutdown complete")
}

// setupRoutes configures all application routes
func setupRoutes(app *fiber.App, webApp *handlers.WebApp, localStore *services.LocalStore) {
	app.Get("/health", handlers.HealthCheck(webApp))

	// Uploaded recipe images are served straight off disk when storing
	// locally. The spaces backend serves them from the bucket instead.
	if localStore != nil {
		app.Static("/media", localStore.Basedir())
	}

	api := app.Group("/api")

	loginLimiter := middleware.NewRateLimiter(
		webApp.Config.Auth.LoginRateLimit,
		webApp.Config.Auth.LoginRateWindow,
	)

	user := api.Group("/user")
	user.Post("/", handlers.UserRegister(webApp))
	user.Post("/token/", middleware.RateLimit(loginLimiter), handlers.UserToken(webApp))
	user.Post("/logout/", middleware.AuthRequired(webApp), handlers.UserLogout(webApp))

	me := user.Group("/me", middleware.AuthRequired(webApp))
	me.Get("/", handlers.UserMe(webApp))
	me.Patch("/", handlers.UserMeUpdate(webApp))

	recipe := api.Group("/recipe", middleware.AuthRequired(webApp))

	recipes := recipe.Group("/recipes")
	recipes.Get("/", handlers.RecipesList(webApp))
	recipes.Post("/", handlers.RecipesCreate(webApp))
	recipes.Get("/:id/", handlers.RecipesDetail(webApp))
	recipes.Put("/:id/", handlers.RecipesUpdate(webApp))
	recipes.Patch("/:id/", handlers.RecipesUpdate(webApp))
	recipes.Delete("/:id/", handlers.RecipesDelete(webApp))
	recipes.Post("/:id/upload-image/", handlers.RecipesUploadImage(webApp))

	tags := recipe.Group("/tags")
	tags.Get("/", handlers.TagsList(webApp))
	tags.Put("/:id/", handlers.TagsUpdate(webApp))
	tags.Patch("/:id/", handlers.TagsUpdate(webApp))
	tags.Delete("/:id/", handlers.TagsDelete(webApp))

	ingredients := recipe.Group("/ingredients")
	ingredients.Get("/", handlers.IngredientsList(webApp))
	ingredients.Put("/:id/", handlers.IngredientsUpdate(webApp))
	ingredients.Patch("/:id/", handlers.IngredientsUpdate(webApp))
	ingredients.Delete("/:id/", handlers.IngredientsDelete(webApp))

	app.Use(func(c *fiber.Ctx) error {
		slog.Warn("No route matched for request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
		)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   "Not Found",
			"message": "The requested endpoint does not exist",
		})
	})
}
