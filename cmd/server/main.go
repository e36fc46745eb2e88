package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rbecker2075/cse312-mergeconflict/internal/config"
	httpHandler "github.com/rbecker2075/cse312-mergeconflict/internal/delivery/http"
	"github.com/rbecker2075/cse312-mergeconflict/internal/delivery/ws"
	"github.com/rbecker2075/cse312-mergeconflict/internal/middleware"
	"github.com/rbecker2075/cse312-mergeconflict/internal/stats"
)

func main() {
	// Load .env file (ignore error if not exists, e.g. in production)
	_ = godotenv.Load()

	// Reload config after loading .env
	config.AppConfig = config.LoadFromEnv()
	cfg := config.AppConfig

	// Configuring Logging
	if cfg.LogLevel == "silent" || cfg.LogLevel == "off" {
		log.SetOutput(io.Discard)
	}

	// Initialize dependencies
	store := stats.NewMemoryStore()
	tokens := stats.NewTokenStore(cfg.SessionTTL)

	opts := ws.DefaultOptions()
	opts.RoundDuration = cfg.RoundDuration
	opts.FoodCount = cfg.FoodCount
	hub := ws.NewHub(store, opts)

	ctx, cancelLoop := context.WithCancel(context.Background())
	go hub.Run(ctx)

	handler := httpHandler.NewHandler(hub, tokens, store)

	// Per-IP rate limiters built from config, with burst at twice the rate
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitAPI, int(cfg.RateLimitAPI)*2)
	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, int(cfg.RateLimitWS)*2)

	// Setup routes
	mux := http.NewServeMux()

	// WebSocket route with rate limiting
	mux.HandleFunc("/ws", middleware.RateLimitFunc(wsLimiter, handler.HandleGame))

	// API routes with rate limiting
	mux.HandleFunc("/api/stats", middleware.RateLimitFunc(apiLimiter, handler.HandleStats))
	mux.HandleFunc("/api/leaderboard", middleware.RateLimitFunc(apiLimiter, handler.HandleLeaderboard))

	// Apply security headers middleware to all requests
	securedHandler := middleware.SecurityHeaders(mux)

	// Create server with timeouts
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      securedHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("arena server running at http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancelLoop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}
