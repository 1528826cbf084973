package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/scholarmate/scholarmate-backend/internal/clients/ollama"
	"github.com/scholarmate/scholarmate-backend/internal/clients/redis"
	"github.com/scholarmate/scholarmate-backend/internal/db"
	"github.com/scholarmate/scholarmate-backend/internal/handlers"
	"github.com/scholarmate/scholarmate-backend/internal/logger"
	"github.com/scholarmate/scholarmate-backend/internal/middleware"
	"github.com/scholarmate/scholarmate-backend/internal/observability"
	"github.com/scholarmate/scholarmate-backend/internal/repos"
	"github.com/scholarmate/scholarmate-backend/internal/server"
	"github.com/scholarmate/scholarmate-backend/internal/services"
	"github.com/scholarmate/scholarmate-backend/internal/sse"
	"github.com/scholarmate/scholarmate-backend/internal/utils"
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
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "scholarmate",
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "dev", log),
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	documentRepo := repos.NewDocumentRepo(thePG, log)
	documentChunkRepo := repos.NewDocumentChunkRepo(thePG, log)
	quizRepo := repos.NewQuizRepo(thePG, log)
	quizQuestionRepo := repos.NewQuizQuestionRepo(thePG, log)
	flashcardRepo := repos.NewFlashcardRepo(thePG, log)
	chatMessageRepo := repos.NewChatMessageRepo(thePG, log)

	// SSE hub + redis event bus
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)
	var events services.EventPublisher
	eventBus, err := redis.NewEventBus(log)
	if err != nil {
		log.Warn("Could not init redis event bus, SSE fan-out disabled", "error", err)
	} else {
		events = eventBus
		if err := eventBus.StartForwarder(ctx, sseHub.Broadcast); err != nil {
			log.Warn("Could not start event forwarder", "error", err)
		}
		defer eventBus.Close()
	}

	// Services
	log.Info("Setting up services from main...")
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, object storage disabled", "error", err)
	}
	ollamaClient, err := ollama.NewClient(log)
	if err != nil {
		log.Error("Could not init Ollama client", "error", err)
		os.Exit(1)
	}
	var avatarService services.AvatarService
	if bucketService != nil {
		avatarService, err = services.NewAvatarService(log, bucketService)
		if err != nil {
			log.Warn("Could not init AvatarService, avatars disabled", "error", err)
		}
	}
	authService := services.NewAuthService(
		thePG, log, userRepo, userTokenRepo, avatarService,
		jwtSecretKey,
		time.Duration(accessTokenTTL)*time.Second,
		time.Duration(refreshTokenTTL)*time.Second,
	)
	documentService := services.NewDocumentService(thePG, log, documentRepo, documentChunkRepo, chatMessageRepo, bucketService, events)
	generationService := services.NewGenerationService(
		thePG, log, documentService,
		documentChunkRepo, quizRepo, quizQuestionRepo, flashcardRepo, chatMessageRepo,
		ollamaClient, events,
	)
	quizService := services.NewQuizService(thePG, log, quizRepo, quizQuestionRepo)
	flashcardService := services.NewFlashcardService(thePG, log, flashcardRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	documentHandler := handlers.NewDocumentHandler(documentService)
	aiHandler := handlers.NewAIHandler(generationService)
	quizHandler := handlers.NewQuizHandler(quizService)
	flashcardHandler := handlers.NewFlashcardHandler(flashcardService)
	sseHandler := handlers.NewSSEHandler(sseHub)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		DocumentHandler:  documentHandler,
		AIHandler:        aiHandler,
		QuizHandler:      quizHandler,
		FlashcardHandler: flashcardHandler,
		SSEHandler:       sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server failed", "error", err)
	}
}
