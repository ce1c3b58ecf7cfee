package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/studydeck/studydeck-backend/internal/ai"
	"github.com/studydeck/studydeck-backend/internal/clients/docling"
	"github.com/studydeck/studydeck-backend/internal/clients/embedder"
	"github.com/studydeck/studydeck-backend/internal/clients/openrouter"
	"github.com/studydeck/studydeck-backend/internal/clients/redis"
	"github.com/studydeck/studydeck-backend/internal/db"
	"github.com/studydeck/studydeck-backend/internal/handlers"
	"github.com/studydeck/studydeck-backend/internal/middleware"
	"github.com/studydeck/studydeck-backend/internal/pkg/logger"
	"github.com/studydeck/studydeck-backend/internal/pkg/tracer"
	"github.com/studydeck/studydeck-backend/internal/repos"
	"github.com/studydeck/studydeck-backend/internal/server"
	"github.com/studydeck/studydeck-backend/internal/services"
	"github.com/studydeck/studydeck-backend/internal/utils"
)

func main() {
	// Logger
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

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	routerConfigPath := utils.GetEnv("ROUTER_CONFIG_PATH", "", log)
	embedConcurrency := utils.GetEnvAsInt("EMBED_CONCURRENCY", 4, log)
	listenAddr := utils.GetEnv("LISTEN_ADDR", ":8080", log)
	allowOrigins := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log)

	// Tracing
	shutdownTracer := tracer.Init(context.Background(), log, tracer.Config{
		ServiceName: "studydeck-backend",
		Environment: utils.GetEnv("APP_ENV", "development", log),
	})
	defer func() {
		_ = shutdownTracer(context.Background())
	}()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	documentRepo := repos.NewDocumentRepo(thePG, log)
	generationRepo := repos.NewGenerationRepo(thePG, log)
	flashcardItemRepo := repos.NewFlashcardItemRepo(thePG, log)
	quizItemRepo := repos.NewQuizItemRepo(thePG, log)
	notesContentRepo := repos.NewNotesContentRepo(thePG, log)
	summaryContentRepo := repos.NewSummaryContentRepo(thePG, log)
	documentChunkRepo := repos.NewDocumentChunkRepo(thePG, log)

	// Clients
	log.Info("Setting up Clients from main...")
	openrouterClient, err := openrouter.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init OpenRouter client", "error", err)
		os.Exit(1)
	}
	embedderClient, err := embedder.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init embedder client", "error", err)
		os.Exit(1)
	}
	doclingClient, err := docling.NewFromEnv(log)
	if err != nil {
		log.Error("Could not init docling client", "error", err)
		os.Exit(1)
	}
	lockService, err := redis.NewLockService(log)
	if err != nil {
		log.Error("Could not init redis lock service", "error", err)
		os.Exit(1)
	}
	defer lockService.Close()

	// Model router
	routerCfg := ai.DefaultRouterConfig()
	if routerConfigPath != "" {
		routerCfg, err = ai.LoadRouterConfig(routerConfigPath)
		if err != nil {
			log.Error("Could not load router config", "path", routerConfigPath, "error", err)
			os.Exit(1)
		}
	}
	modelRouter, err := ai.NewRouter(log, routerCfg, openrouterClient)
	if err != nil {
		log.Error("Could not init model router", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	contentGenerator, err := services.NewContentGenerator(
		log,
		modelRouter,
		documentRepo,
		flashcardItemRepo,
		quizItemRepo,
		notesContentRepo,
		summaryContentRepo,
	)
	if err != nil {
		log.Error("Could not init ContentGenerator", "error", err)
		os.Exit(1)
	}
	generationService, err := services.NewGenerationService(log, generationRepo, documentRepo, contentGenerator, lockService)
	if err != nil {
		log.Error("Could not init GenerationService", "error", err)
		os.Exit(1)
	}
	documentService, err := services.NewDocumentService(log, documentRepo, doclingClient)
	if err != nil {
		log.Error("Could not init DocumentService", "error", err)
		os.Exit(1)
	}
	embeddingService, err := services.NewEmbeddingService(log, documentRepo, documentChunkRepo, doclingClient, embedderClient, embedConcurrency)
	if err != nil {
		log.Error("Could not init EmbeddingService", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up Handlers from main...")
	generationHandler := handlers.NewGenerationHandler(log, generationService)
	documentHandler := handlers.NewDocumentHandler(log, documentService, embeddingService)
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Server
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AllowOrigins:      origins,
		AuthMiddleware:    authMiddleware,
		GenerationHandler: generationHandler,
		DocumentHandler:   documentHandler,
	})

	log.Info("Starting server...", "addr", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
