package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/amolv/contesthub/internal/auth"
	"github.com/amolv/contesthub/internal/competition"
	"github.com/amolv/contesthub/internal/config"
	"github.com/amolv/contesthub/internal/entry"
	"github.com/amolv/contesthub/internal/media"
	"github.com/amolv/contesthub/internal/middleware"
	"github.com/amolv/contesthub/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("postgres connect", zap.Error(err))
	}
	defer pgPool.Close()
	pgStore := store.NewPostgresStore(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		logger.Fatal("postgres migrate", zap.Error(err))
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer mongoClient.Disconnect(ctx)
	mongoStore := store.NewMongoStore(mongoClient.Database(cfg.MongoDB))

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer rdb.Close()
	limiter := auth.NewRateLimiter(rdb)

	// ── MinIO ────────────────────────────────────────────────
	mediaStore, err := store.NewMediaStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		logger.Fatal("minio connect", zap.Error(err))
	}

	// ── Services ─────────────────────────────────────────────
	tokens := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	authService := auth.NewService(pgStore, tokens)
	compService := competition.NewService(mongoStore)
	entryService := entry.NewService(mongoStore)

	// ── Handlers ─────────────────────────────────────────────
	dev := cfg.IsDevelopment()
	authHandler := auth.NewHandler(authService, limiter, logger, dev)
	compHandler := competition.NewHandler(compService, logger, dev)
	entryHandler := entry.NewHandler(entryService, logger, dev)
	mediaHandler := media.NewHandler(mediaStore, logger, dev)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(chimw.Timeout(15 * time.Second))
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.RequireAuth(tokens, authService)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.With(requireAuth).Get("/me", authHandler.Me)
	})

	r.Route("/api/competitions", func(r chi.Router) {
		r.Get("/", compHandler.List)
		r.Get("/{id}", compHandler.Get)
		r.Get("/{id}/entries", entryHandler.ListByCompetition)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", compHandler.Create)
			r.Put("/{id}", compHandler.Update)
			r.Delete("/{id}", compHandler.Delete)
			r.Post("/{id}/entries", entryHandler.Submit)
		})
	})

	r.Route("/api/entries", func(r chi.Router) {
		r.Get("/{id}", entryHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/{id}/votes", entryHandler.Vote)
			r.Patch("/{id}/approval", entryHandler.Approve)
		})
	})

	r.Route("/api/media", func(r chi.Router) {
		r.Get("/{key}", mediaHandler.Download)
		r.With(requireAuth).Post("/", mediaHandler.Upload)
		r.With(requireAuth).Delete("/{key}", mediaHandler.Delete)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
