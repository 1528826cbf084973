package server

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/scholarmate/scholarmate-backend/internal/handlers"
	"github.com/scholarmate/scholarmate-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	DocumentHandler  *handlers.DocumentHandler
	AIHandler        *handlers.AIHandler
	QuizHandler      *handlers.QuizHandler
	FlashcardHandler *handlers.FlashcardHandler
	SSEHandler       *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("scholarmate"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	auth := api.Group("/auth")
	{
		auth.POST("/register", cfg.AuthHandler.Register)
		auth.POST("/login", cfg.AuthHandler.Login)
	}

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// Auth
	protected.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/auth/logout", cfg.AuthHandler.Logout)

	// Documents
	documents := protected.Group("/documents")
	{
		documents.POST("", cfg.DocumentHandler.Upload)
		documents.GET("", cfg.DocumentHandler.List)
		documents.GET("/:id", cfg.DocumentHandler.Get)
		documents.DELETE("/:id", cfg.DocumentHandler.Delete)
	}

	// AI
	ai := protected.Group("/ai")
	{
		ai.POST("/generate-quiz", cfg.AIHandler.GenerateQuiz)
		ai.POST("/generate-flashcards", cfg.AIHandler.GenerateFlashcards)
		ai.POST("/generate-summary", cfg.AIHandler.GenerateSummary)
		ai.POST("/chat", cfg.AIHandler.Chat)
		ai.POST("/explain-concept", cfg.AIHandler.ExplainConcept)
		ai.GET("/chat-history/:documentId", cfg.AIHandler.ChatHistory)
	}

	// Quizzes. The document-scoped list lives under /doc/ so it cannot
	// shadow /:id.
	quizzes := protected.Group("/quizzes")
	{
		quizzes.GET("/doc/:documentId", cfg.QuizHandler.ListByDocument)
		quizzes.GET("/:id", cfg.QuizHandler.Get)
		quizzes.POST("/:id/submit", cfg.QuizHandler.Submit)
		quizzes.GET("/:id/results", cfg.QuizHandler.Results)
		quizzes.DELETE("/:id", cfg.QuizHandler.Delete)
	}

	// Flashcards
	flashcards := protected.Group("/flashcards")
	{
		flashcards.GET("", cfg.FlashcardHandler.ListSets)
		flashcards.GET("/doc/:documentId", cfg.FlashcardHandler.ListSetsByDocument)
		flashcards.POST("/:cardId/review", cfg.FlashcardHandler.Review)
		flashcards.PATCH("/:cardId/star", cfg.FlashcardHandler.ToggleStar)
		flashcards.DELETE("/:id", cfg.FlashcardHandler.DeleteSet)
	}

	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)

	return router
}

func allowedOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if raw == "" {
		return []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			origins = append(origins, v)
		}
	}
	return origins
}
