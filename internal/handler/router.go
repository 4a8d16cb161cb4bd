package handler

import (
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter 注册中间件和路由
func NewRouter(allowOrigins []string, forecasts *ForecastHandler, health *HealthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), RequestIDMiddleware())

	// 配置 CORS
	corsConfig := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders:    []string{RequestIDHeader},
		AllowCredentials: true,
	}
	if slices.Contains(allowOrigins, "*") {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	r.Use(cors.New(corsConfig))

	api := r.Group("/api")
	{
		api.POST("/forecast", forecasts.Forecast)
		api.GET("/assets", forecasts.Assets)
		api.GET("/health", health.Health)
	}
	return r
}
