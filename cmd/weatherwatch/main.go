package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/imLOstAU/WeatherWatch/internal/config"
	"github.com/imLOstAU/WeatherWatch/internal/db"
	"github.com/imLOstAU/WeatherWatch/internal/handlers"
	"github.com/imLOstAU/WeatherWatch/internal/theme"
	"github.com/imLOstAU/WeatherWatch/internal/weather"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database connection
	var (
		database handlers.Database
		prefs    theme.Store
	)
	conn, err := db.NewDB()
	if err != nil {
		log.Printf("Warning: Database connection failed: %v", err)
		log.Println("Continuing without database connection, theme preferences kept in memory...")
		prefs = theme.NewMemoryStore()
	} else {
		defer conn.Close()
		log.Println("Database connected successfully")
		database, prefs = conn, conn
	}

	svc := weather.NewService(weather.NewClient(cfg.ClientOptions()...))
	h := handlers.New(database, svc, prefs, cfg.DefaultUnit)

	server := newServer(cfg, h)

	go func() {
		log.Printf("Server starting on http://localhost:%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func newServer(cfg *config.Config, h *handlers.Handlers) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           h.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}
