package main

import (
	"context"
	"fmt"
	"os"

	"github.com/studyforge/studyforge-backend/internal/clients/gcp"
	"github.com/studyforge/studyforge-backend/internal/clients/openai"
	"github.com/studyforge/studyforge-backend/internal/clients/redis"
	"github.com/studyforge/studyforge-backend/internal/db"
	"github.com/studyforge/studyforge-backend/internal/handlers"
	"github.com/studyforge/studyforge-backend/internal/middleware"
	"github.com/studyforge/studyforge-backend/internal/modules/notes"
	"github.com/studyforge/studyforge-backend/internal/modules/notes/steps"
	"github.com/studyforge/studyforge-backend/internal/observability"
	"github.com/studyforge/studyforge-backend/internal/platform/logger"
	"github.com/studyforge/studyforge-backend/internal/repos"
	"github.com/studyforge/studyforge-backend/internal/server"
	"github.com/studyforge/studyforge-backend/internal/services"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

func main() {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "studyforge-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if shutdownOTel != nil {
		defer func() { _ = shutdownOTel(ctx) }()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err := postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	lectureRepo := repos.NewLectureRepo(thePG, log)
	noteRunRepo := repos.NewNoteRunRepo(thePG, log)

	// Clients
	log.Info("Setting up Clients from main...")
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Fatal("Could not init OpenAI client", "error", err)
	}
	embedder, err := steps.SharedEmbedder(func() (steps.Embedder, error) {
		return openaiClient, nil
	})
	if err != nil {
		log.Fatal("Could not init embedder", "error", err)
	}
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Fatal("Could not init BucketService", "error", err)
	}
	speechService, err := gcp.NewSpeech(log)
	if err != nil {
		log.Fatal("Could not init Speech client", "error", err)
	}
	notesCache, err := redis.NewNotesCache(log)
	if err != nil {
		log.Fatal("Could not init NotesCache", "error", err)
	}
	defer notesCache.Close()

	// Pipeline
	notesUsecases := notes.New(notes.UsecasesDeps{
		Log:      log,
		Embedder: embedder,
		LLM:      openaiClient,
		Config:   notes.LoadConfig(log),
	})

	// Services
	log.Info("Setting up Services from main...")
	authService, err := services.NewAuthService(thePG, log, userRepo, userTokenRepo)
	if err != nil {
		log.Fatal("Could not init AuthService", "error", err)
	}
	lectureService := services.NewLectureService(thePG, log, lectureRepo, bucketService, speechService)
	notesService := services.NewNotesService(thePG, log, lectureRepo, noteRunRepo, bucketService, notesCache, notesUsecases)

	// HTTP
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    handlers.NewAuthHandler(authService),
		LectureHandler: handlers.NewLectureHandler(lectureService),
		NotesHandler:   handlers.NewNotesHandler(notesService),
		AuthMiddleware: middleware.NewAuthMiddleware(log, authService),
	})

	addr := ":" + utils.GetEnv("PORT", "8080", log)
	log.Info("Starting HTTP server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("HTTP server exited", "error", err)
	}
}
