package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/studyforge/studyforge-backend/internal/handlers"
	"github.com/studyforge/studyforge-backend/internal/middleware"
	"github.com/studyforge/studyforge-backend/internal/utils"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	LectureHandler *handlers.LectureHandler
	NotesHandler   *handlers.NotesHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("studyforge-backend"))

	origins := utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", nil)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)

	protected.POST("/lectures", cfg.LectureHandler.Upload)
	protected.GET("/lectures", cfg.LectureHandler.List)
	protected.GET("/lectures/:id", cfg.LectureHandler.Get)
	protected.DELETE("/lectures/:id", cfg.LectureHandler.Delete)
	protected.POST("/lectures/:id/transcribe", cfg.LectureHandler.Transcribe)
	protected.PUT("/lectures/:id/transcript", cfg.LectureHandler.SubmitTranscript)

	protected.POST("/lectures/:id/notes", cfg.NotesHandler.Generate)
	protected.GET("/lectures/:id/notes", cfg.NotesHandler.GetLatest)
	protected.GET("/lectures/:id/notes/runs", cfg.NotesHandler.ListRuns)

	return router
}
