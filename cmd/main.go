package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Kosench/go-url-map/internal/config"
	"github.com/Kosench/go-url-map/internal/database"
	"github.com/Kosench/go-url-map/internal/handler"
	"github.com/Kosench/go-url-map/internal/logger"
	"github.com/Kosench/go-url-map/internal/repository"
	"github.com/Kosench/go-url-map/internal/service"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Environment: cfg.App.Environment,
	})

	db, dialect, err := database.Open(cfg.Database)
	if err != nil {
		log.Error("failed to connect database", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	log.Info("successfully connected to database", "driver", cfg.Database.Driver)

	urlRepo := repository.NewSQLURLMapRepository(db, dialect)
	urlService := service.NewURLService(urlRepo, log, cfg.GetBaseURL(), service.Options{
		ShortCodeLength: cfg.App.ShortCodeLength,
		MaxRetries:      cfg.App.MaxRetries,
	})
	resolver := service.NewResolver(urlRepo, log)
	urlHandler := handler.NewURLHandler(urlService, resolver, log)

	router := handler.NewRouter(handler.RouterConfig{
		AllowedOrigins: cfg.GetAllowedOrigins(),
		Production:     cfg.IsProduction(),
		HealthCheck: func() error {
			return database.HealthCheck(db)
		},
		Info: func() gin.H {
			version, _ := database.GetVersion(db, dialect)
			return gin.H{
				"database_driver":  cfg.Database.Driver,
				"database_version": version,
			}
		},
	}, urlHandler, log)

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("server starting", "addr", cfg.GetServerAddress(), "base_url", cfg.GetBaseURL())

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server gracefully stopped")
}
