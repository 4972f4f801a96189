package main // Entry point package

import (
	"context" // Context for startup database calls
	"log"     // Logging library
	"time"    // Timeouts for startup calls

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/movie-catalog/internal/config"     // Internal config loader
	"github.com/iliyamo/movie-catalog/internal/database"   // Database connection + schema
	"github.com/iliyamo/movie-catalog/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movie-catalog/internal/middleware" // Cache and rate limit middleware
	"github.com/iliyamo/movie-catalog/internal/queue"      // Background email consumer
	"github.com/iliyamo/movie-catalog/internal/repository" // Data access layer
	"github.com/iliyamo/movie-catalog/internal/router"     // Internal router setup
)

func main() {
	_ = godotenv.Load() // Load .env when present; real env vars win

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	// Apply the idempotent schema so a fresh database is usable immediately.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.ApplySchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("apply schema: %v", err)
	}
	cancel()

	// Redis backs the response cache and the rate limiter; a nil client
	// simply disables both.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	movies := repository.NewMovieRepo(db)
	genres := repository.NewGenreRepo(db)
	comments := repository.NewCommentRepo(db)
	ratings := repository.NewRatingRepo(db)
	reactions := repository.NewReactionRepo(db)
	favourites := repository.NewFavouriteRepo(db)

	e := echo.New() // Create Echo instance
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAccounts(e, handler.NewAccountHandler(cfg, users, tokens), cfg.JWTSecret)
	router.RegisterCinema(e, router.CinemaHandlers{
		Movies:     handler.NewMovieHandler(movies, comments, ratings, reactions),
		Genres:     handler.NewGenreHandler(genres),
		Comments:   handler.NewCommentHandler(movies, comments),
		Ratings:    handler.NewRatingHandler(movies, ratings),
		Reactions:  handler.NewReactionHandler(movies, reactions),
		Favourites: handler.NewFavouriteHandler(movies, favourites),
	}, cfg.JWTSecret)

	// The email consumer runs for the life of the process and reconnects on
	// broker failures.
	go func() {
		if err := queue.StartEmailConsumer(); err != nil {
			log.Printf("email consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
