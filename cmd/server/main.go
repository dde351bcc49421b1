package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/edwards-stuff/blog-builder/internal/config"
	"github.com/edwards-stuff/blog-builder/internal/handlers"
	"github.com/edwards-stuff/blog-builder/internal/middleware"
	"github.com/edwards-stuff/blog-builder/internal/resolver"
	"github.com/edwards-stuff/blog-builder/internal/service"
	"github.com/edwards-stuff/blog-builder/internal/shopify"
	"github.com/edwards-stuff/blog-builder/pkg/logger"
	"github.com/edwards-stuff/blog-builder/web"
)

func main() {
	// Local development reads a .env file; in deployment the
	// environment is provisioned directly.
	_ = godotenv.Load()

	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting blog builder api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"shopify_domain", cfg.Shopify.Domain,
		"blog_id", cfg.Shopify.BlogID,
		"log_level", cfg.LogLevel,
	)

	// Initialize the admin API client and pipeline
	shopifyClient := shopify.NewClient(cfg.Shopify, log)
	productResolver := resolver.New(shopifyClient, log)
	blogService := service.NewBlogService(productResolver, shopifyClient, cfg.Shopify.Domain, log)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	generateHandler := handlers.NewGenerateHandler(blogService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// Permissive CORS on every response; preflight answers 204
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}).Handler)

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// Embedded input form
	r.Get("/", web.Index)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/generate", generateHandler.Status)
		r.Post("/generate", generateHandler.Generate)
		r.Options("/generate", generateHandler.Options)
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
