package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"projecthub/config"
	"projecthub/database"
	"projecthub/handlers"
	"projecthub/lifecycle"
	"projecthub/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// backend is what a store has to offer beyond project persistence.
type backend interface {
	lifecycle.Store
	lifecycle.ProfileChecker
	lifecycle.Notifier
	middleware.IdentityResolver
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatal("Invalid configuration: ", err)
	}

	logrus.SetLevel(cfg.LogLevel)
	if gin.Mode() == gin.ReleaseMode {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	var store backend
	switch cfg.Store {
	case config.StoreMemory:
		logrus.Warn("Using in-memory store, data is lost on restart")
		store = database.NewMemoryStore()
	default:
		// Create context with timeout for initial connection
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		cancel()
		if err != nil {
			logrus.Fatal("Failed to connect to database: ", err)
		}
		defer db.Close()
		store = db
	}

	log := logrus.StandardLogger()
	dispatcher := lifecycle.NewDispatcher(store, cfg.NotifierQueueSize, log.WithField("component", "dispatcher"))
	engine := lifecycle.NewEngine(store, store, dispatcher,
		lifecycle.WithPolicy(cfg.SupersedePolicy),
		lifecycle.WithLogger(log.WithField("component", "engine")),
	)

	limiter := middleware.NewRateLimiter(cfg.ApplyRatePerMinute, cfg.ApplyBurst)
	router := handlers.NewRouter(handlers.RouterConfig{
		Engine:     engine,
		Auth:       middleware.AuthRequired([]byte(cfg.JWTSecret), store),
		ApplyLimit: limiter.Handler(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logrus.Infof("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal("Server failed: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	dispatcher.Close()
}
