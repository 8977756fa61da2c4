package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"amora-be/internal/config"
	"amora-be/internal/container"
	"amora-be/internal/middleware"
	"amora-be/pkg/database"
	"amora-be/pkg/logger"
	"amora-be/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	kv, err := redis.NewClient(cfg.RedisURL, cfg.Environment, log.Logger)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer func() { _ = kv.Close() }()

	var db *database.PostgresDB
	if cfg.DatabaseURL != "" {
		db, err = database.NewPostgresDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to PostgreSQL")
		}
		defer db.Close()
	} else {
		log.Warn("DATABASE_URL not set, analytics and privacy endpoints disabled")
	}

	c := container.New(cfg, log, kv, db)
	router := setupRouter(c)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
	log.Info("Server stopped")
}

func setupRouter(c *container.Container) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(c.Config.AllowedOrigins)))

	// Public routes
	r.Get("/health", c.Handlers.Health.Health)
	r.Post("/api/auth/signup", c.Handlers.Auth.Signup)
	r.Post("/api/auth/demo-session", c.Handlers.Auth.DemoSession)
	r.Get("/api/auth/oauth/url", c.Handlers.Auth.OAuthURL)
	r.Get("/api/auth/oauth/callback", c.Handlers.Auth.OAuthCallback)

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(c.Cascade, c.Logger.Named("auth")))

		r.Post("/api/profile", c.Handlers.Profile.SaveProfile)
		r.Get("/api/profile", c.Handlers.Profile.GetProfile)
		r.Delete("/api/profile", c.Handlers.Profile.DeleteProfile)
		r.Post("/api/personality", c.Handlers.Profile.SavePersonality)
		r.Get("/api/personality", c.Handlers.Profile.GetPersonality)

		r.Get("/api/matches", c.Handlers.Match.GetMatches)

		r.Post("/api/chat/{matchID}/messages", c.Handlers.Chat.SendMessage)
		r.Get("/api/chat/{matchID}/messages", c.Handlers.Chat.GetHistory)

		r.Get("/api/questions/daily", c.Handlers.Question.GetDaily)
		r.Post("/api/questions/daily/answer", c.Handlers.Question.Answer)

		if c.Handlers.Privacy != nil {
			r.Post("/api/privacy/consent", c.Handlers.Privacy.RequestConsent)
			r.Post("/api/privacy/export", c.Handlers.Privacy.RequestExport)
			r.Post("/api/privacy/deletion", c.Handlers.Privacy.RequestDeletion)
			r.Get("/api/privacy/requests", c.Handlers.Privacy.ListRequests)
		}
		if c.Handlers.Analytics != nil {
			r.Post("/api/analytics", c.Handlers.Analytics.LogEvent)
		}
	})

	return r
}
