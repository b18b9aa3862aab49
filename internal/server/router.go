package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/haneulclass/saengibu-backend/internal/handlers"
)

type RouterConfig struct {
	RecordHandler      *handlers.RecordHandler
	ObservationHandler *handlers.ObservationHandler
	KeywordHandler     *handlers.KeywordHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		records := api.Group("/records")
		records.POST("/generate", cfg.RecordHandler.Generate)
		records.POST("/generate-batch", cfg.RecordHandler.GenerateBatch)
		records.GET("/batch-runs/:id", cfg.RecordHandler.GetBatchRun)
		records.GET("/batch-runs/:id/export", cfg.RecordHandler.ExportBatchRun)

		observations := api.Group("/observations")
		observations.POST("/sessions", cfg.ObservationHandler.CreateSession)
		observations.GET("/sessions/:id", cfg.ObservationHandler.GetSession)
		observations.GET("/classes/:classId/sessions", cfg.ObservationHandler.ListClassSessions)

		keywords := api.Group("/keywords")
		keywords.GET("", cfg.KeywordHandler.ListCategories)
		keywords.GET("/combinations", cfg.KeywordHandler.ListCombinations)
	}

	return router
}
