package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/nutrisnap/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.MaxMultipartMemory = cfg.HTTP.MaxUploadBytes
	router.Use(
		gin.Recovery(),
		sessionMiddleware(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)

	router.GET("/healthz", handler.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/history", handler.ListHistory)
		api.GET("/preferences", handler.GetPreferences)
		api.PUT("/preferences", handler.UpdatePreferences)
		api.GET("/analyses/:id/report", handler.DownloadReport)
		api.GET("/analyses/:id/chart", handler.NutrientChart)
	}

	// Every route below calls the model.
	model := api.Group("", rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	{
		model.POST("/analyses", handler.AnalyzeMeal)
		model.POST("/questions", handler.AskQuestion)
		model.POST("/voice/questions", handler.AskByVoice)
		model.POST("/meal-plans", handler.CreateMealPlan)
		model.POST("/doctor-plans", handler.CreateDoctorPlan)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
