package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatbot-backend/cmd"
	"chatbot-backend/internal/api"
	"chatbot-backend/internal/auth"
	"chatbot-backend/internal/database"
	"chatbot-backend/internal/inference"
	"chatbot-backend/internal/records"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type APIConfig struct {
	DatabaseURL  string `env:"DATABASE_URL,notEmpty,required"`
	TokenSecret  string `env:"TOKEN_SECRET,notEmpty,required"`
	InferenceURL string `env:"INFERENCE_URL" envDefault:"http://127.0.0.1:8000"`
	FrontendURL  string `env:"FRONTEND_URL" envDefault:"http://localhost:5173"`
	APIPort      string `env:"API_PORT" envDefault:"5000"`
}

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg APIConfig
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	authenticator := auth.NewAuthenticator(cfg.TokenSecret)
	llm := inference.NewClient(cfg.InferenceURL)
	recordClient := records.NewClient(cfg.InferenceURL)

	// --- Chi Router Setup ---
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.FrontendURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	// API Handlers (dependency injection)
	authService := api.NewAuthService(db, authenticator)
	chatService := api.NewChatService(db, llm, authenticator)
	recordService := api.NewRecordService(recordClient, authService)

	authService.AddRoutes(r)
	chatService.AddRoutes(r)
	recordService.AddRoutes(r)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("API server listening on port %s", cfg.APIPort)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %s: %v\n", cfg.APIPort, err)
	}

	log.Println("Server stopped.")
}
