package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with CORS restricted to allowedOrigins.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	SetupRoutes(router, handler)
	return router
}

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/cantons", handler.GetCantons)
		api.GET("/cantons/:name/statistics", handler.GetCantonStatistics)
		api.GET("/search", handler.SearchProperties)
		api.GET("/searches", handler.GetRecentSearches)
		api.GET("/searches/stats", handler.GetSearchStats)
		api.GET("/trends", handler.GetTrends)
		api.GET("/trends/insights", handler.GetInvestmentInsights)
		api.GET("/overview", handler.GetOverview)
		api.GET("/overview/geojson", handler.GetOverviewGeoJSON)
		api.POST("/analysis", handler.AnalyzeProperties)
		api.GET("/regulations", handler.GetRegulations)
	}
}

