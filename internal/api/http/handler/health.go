package handler

import (
	"net/http"
	"time"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/gin-gonic/gin"
)

const serviceName = "Bot Tracker API"

var endpoints = []string{
	"GET  /api/health - Health check",
	"GET  /api/stats - Get tracker statistics",
	"POST /api/register - Register bot instance",
	"GET  /api/instances - Get all instances",
	"POST /api/broadcast - Send broadcast",
	"GET  /api/broadcasts - Get all broadcasts",
	"GET  /api/broadcasts/:instanceId - Get pending broadcasts",
	"POST /api/broadcast-delivered - Mark broadcast as delivered",
}

type HealthHandler struct {
	version string
}

func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// Describe returns the service descriptor.
// GET /api
func (h *HealthHandler) Describe(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.DescriptorResponse{
		Status:    serviceName,
		Version:   h.version,
		Endpoints: endpoints,
	})
}

// Check is the liveness probe.
// GET /api/health
func (h *HealthHandler) Check(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{
		Status:    "ok",
		Timestamp: dto.FormatTime(time.Now()),
	})
}
