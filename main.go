package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"owl-league/config"
	"owl-league/database"
	_ "owl-league/docs" // Swagger docs
	"owl-league/logging"
	"owl-league/migrations"
	"owl-league/packages/auth"
	authHandlers "owl-league/packages/auth/handlers"
	"owl-league/packages/core"
	"owl-league/packages/core/cache"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// @title           Owl League API
// @version         1.0
// @description     Weekly pairings, results and Elo ratings for a tabletop wargaming league

// @license.name  MIT
// @license.url   http://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := migrations.Run(db, logger); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	leaderboard, closeCache := openLeaderboard(ctx, cfg, logger)
	defer closeCache()

	coreModule := core.NewModule(db, leaderboard, cfg.LeaderboardSyncSpec, logger)
	authModule := auth.NewModule(authHandlers.AdminCredentials{
		Password:     cfg.AdminPassword,
		PasswordHash: cfg.AdminPasswordHash,
	}, cfg.JWTSecret, coreModule.WeekLockService, logger)

	r := gin.Default()
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))

	authModule.SetupRoutes(r)
	coreModule.SetupRoutes(r, core.Guards{
		Admin:    authModule.RequireAdmin(),
		Optional: authModule.OptionalJWT(),
	})

	// Swagger endpoint
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/health", healthHandler(db))

	if _, err := coreModule.PlayerService.SyncLeaderboard(ctx); err != nil {
		logger.Warn("initial leaderboard sync failed", slog.Any("error", err))
	}
	if err := coreModule.StartScheduler(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", slog.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down")

		coreModule.StopScheduler()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// openLeaderboard connects the Redis leaderboard cache when REDIS_URL is set.
// Without it, or when Redis is unreachable, reads go to the database.
func openLeaderboard(ctx context.Context, cfg *config.Config, logger *slog.Logger) (cache.Leaderboard, func()) {
	if cfg.RedisURL == "" {
		return cache.NoopLeaderboard{}, func() {}
	}

	client, err := cache.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("redis unavailable, leaderboard cache disabled", slog.Any("error", err))
		return cache.NoopLeaderboard{}, func() {}
	}

	logger.Info("leaderboard cache enabled")
	return cache.NewRedisLeaderboard(client), func() { _ = client.Close() }
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", "X-Week-Token")
	return c
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Message  string `json:"message" example:"Server is running"`
	Database string `json:"database" example:"connected"`
}

// @Summary Health Check
// @Description Check if the server is running and database is connected
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{
				Message:  "Server is running",
				Database: "unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, HealthResponse{
			Message:  "Server is running",
			Database: "connected",
		})
	}
}
