package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/stocktrack/inventory-api/internal/api"
	"github.com/stocktrack/inventory-api/internal/core/ports"
	"github.com/stocktrack/inventory-api/internal/core/service"
	"github.com/stocktrack/inventory-api/internal/infrastructure/config"
	mongodb "github.com/stocktrack/inventory-api/internal/infrastructure/db/mongo"
	redisdb "github.com/stocktrack/inventory-api/internal/infrastructure/db/redis"
	"github.com/stocktrack/inventory-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.UsingInsecureSecret() {
		log.Warn().Msg("JWT_SECRET is the insecure development fallback; set it before deploying")
	}

	// --- Persistence ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(shutdownCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	materialRepo := mongodb.NewMaterialRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := materialRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("material index creation failed")
	}

	// --- Services ---
	hasher := service.NewPasswordHasher(cfg.BcryptCost)
	issuer := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	limiter := redisdb.NewLoginLimiter(rdb, 0, 0)
	authService := service.NewAuthService(userRepo, hasher, issuer, limiter)
	materialService := service.NewMaterialService(materialRepo)

	seedAdmin(ctx, cfg, userRepo, authService, log)

	// --- HTTP ---
	e := api.NewRouter(api.Deps{
		Auth:      authService,
		Materials: materialService,
		Verifier:  issuer,
		Mongo:     db,
		Redis:     rdb,
		Log:       log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting inventory api")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// seedAdmin bootstraps the first admin account when the user collection is
// empty and credentials are configured. Without it a fresh deployment has
// no way to reach the admin-only endpoints.
func seedAdmin(ctx context.Context, cfg *config.Config, repo *mongodb.UserRepository, auth *service.AuthService, log zerolog.Logger) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return
	}

	n, err := repo.CountUsers(ctx)
	if err != nil {
		log.Error().Err(err).Msg("admin seed: count failed")
		return
	}
	if n > 0 {
		return
	}

	user, err := auth.CreateUser(ctx, ports.RegisterInput{
		Name:     "Administrator",
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
		Role:     "admin",
	})
	if err != nil {
		log.Error().Err(err).Msg("admin seed failed")
		return
	}
	log.Info().Str("email", user.Email).Msg("seeded initial admin account")
}
