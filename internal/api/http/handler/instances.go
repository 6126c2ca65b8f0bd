package handler

import (
	"net/http"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/EternisAI/bot-tracker/internal/instances"
	"github.com/gin-gonic/gin"
)

type InstancesHandler struct {
	registry *instances.Registry
}

func NewInstancesHandler(registry *instances.Registry) *InstancesHandler {
	return &InstancesHandler{
		registry: registry,
	}
}

// Register records a heartbeat from a bot instance
// POST /api/register
func (h *InstancesHandler) Register(ctx *gin.Context) {
	var req dto.RegisterInstanceBody
	if err := bindJSON(ctx, &req); err != nil {
		respondError(ctx, err)
		return
	}

	inst, err := h.registry.Register(instances.RegisterParams{
		InstanceID: textField(req.InstanceID),
		Owner:      textField(req.Owner),
		Version:    textField(req.Version),
		UserCount:  countField(req.UserCount),
		GroupCount: countField(req.GroupCount),
		IP:         ctx.ClientIP(),
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.RegisterInstanceResponse{
		Success:    true,
		Message:    "Instance registered",
		InstanceID: inst.ID,
	})
}

// Stats returns aggregate counters over the registered instances
// GET /api/stats
func (h *InstancesHandler) Stats(ctx *gin.Context) {
	stats := h.registry.Stats()

	ctx.JSON(http.StatusOK, dto.StatsResponse{
		TotalInstances:  stats.TotalInstances,
		ActiveInstances: stats.ActiveInstances,
		TotalUsers:      stats.TotalUsers,
		TotalGroups:     stats.TotalGroups,
		LastUpdated:     dto.FormatTime(stats.LastUpdated),
	})
}

// List returns every retained instance, most recently seen first
// GET /api/instances
func (h *InstancesHandler) List(ctx *gin.Context) {
	list := h.registry.List()

	responses := make([]dto.InstanceResponse, len(list))
	for i, inst := range list {
		responses[i] = dto.InstanceResponse{
			InstanceID: inst.ID,
			Owner:      inst.Owner,
			Version:    inst.Version,
			UserCount:  inst.UserCount,
			GroupCount: inst.GroupCount,
			FirstSeen:  inst.FirstSeen.UnixMilli(),
			LastPing:   inst.LastPing.UnixMilli(),
			Status:     inst.Status,
			IP:         inst.IP,
		}
	}

	ctx.JSON(http.StatusOK, responses)
}
