package main

import (
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"beeb/backend/internal/api"
	"beeb/backend/internal/api/handler"
	"beeb/backend/internal/config"
	"beeb/backend/internal/models"
	"beeb/backend/internal/resolver"
	"beeb/backend/internal/session"
)

func main() {
	log.Println("Starting BeeB Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 1. Generative services (location grounding + bio narration)
	gemini := resolver.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.TextModel, cfg.Gemini.TTSModel)

	// 2. Per-client session engines
	registry := session.NewRegistry(
		models.CandidatePool(),
		gemini,
		rand.Float64,
		config.ReplyDelay,
	)

	// 3. Gin router + HTTP handlers
	r := gin.Default()
	h := handler.NewHandler(registry, []byte(cfg.JWT.Secret), time.Duration(cfg.JWT.ExpiresIn)*time.Hour)
	api.SetupRouter(r, h)

	server := &http.Server{
		Addr:           ":" + cfg.Server.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
