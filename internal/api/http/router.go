package http

import (
	"github.com/EternisAI/bot-tracker/internal/api/http/handler"
	"github.com/EternisAI/bot-tracker/internal/api/http/middleware"
	"github.com/EternisAI/bot-tracker/internal/broadcasts"
	"github.com/EternisAI/bot-tracker/internal/instances"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Registry   *instances.Registry
	Broadcasts *broadcasts.Log
	Version    string
}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	api := engine.Group("/api")

	healthHandler := handler.NewHealthHandler(srvs.Version)
	api.GET("", healthHandler.Describe)
	api.GET("/health", healthHandler.Check)

	instancesHandler := handler.NewInstancesHandler(srvs.Registry)
	api.POST("/register", instancesHandler.Register)
	api.GET("/stats", instancesHandler.Stats)
	api.GET("/instances", instancesHandler.List)

	broadcastsHandler := handler.NewBroadcastsHandler(srvs.Broadcasts)
	api.POST("/broadcast", broadcastsHandler.Create)
	api.POST("/broadcast-delivered", broadcastsHandler.Delivered)
	api.GET("/broadcasts", broadcastsHandler.List)
	api.GET("/broadcasts/:instanceId", broadcastsHandler.Pending)
}
