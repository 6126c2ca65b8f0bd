package handler

import (
	"net/http"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/EternisAI/bot-tracker/internal/broadcasts"
	"github.com/gin-gonic/gin"
)

type BroadcastsHandler struct {
	log *broadcasts.Log
}

func NewBroadcastsHandler(log *broadcasts.Log) *BroadcastsHandler {
	return &BroadcastsHandler{
		log: log,
	}
}

// Create publishes an operator broadcast
// POST /api/broadcast
func (h *BroadcastsHandler) Create(ctx *gin.Context) {
	var req dto.CreateBroadcastBody
	if err := bindJSON(ctx, &req); err != nil {
		respondError(ctx, err)
		return
	}

	ownerKey, ok := req.OwnerKey.(string)
	if !ok {
		respondError(ctx, broadcasts.ErrInvalidOwnerKey)
		return
	}
	// A non-string message is treated as missing.
	message, _ := req.Message.(string)

	b, err := h.log.Create(message, ownerKey)
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.CreateBroadcastResponse{
		Success:     true,
		BroadcastID: b.ID,
		Message:     "Broadcast created successfully",
	})
}

// Pending returns the broadcasts the instance has not acknowledged yet
// GET /api/broadcasts/:instanceId
func (h *BroadcastsHandler) Pending(ctx *gin.Context) {
	pending := h.log.ListPending(ctx.Param("instanceId"))

	ctx.JSON(http.StatusOK, dto.PendingBroadcastsResponse{
		Broadcasts: toBroadcastResponses(pending),
	})
}

// Delivered acknowledges a broadcast for an instance. It always succeeds.
// POST /api/broadcast-delivered
func (h *BroadcastsHandler) Delivered(ctx *gin.Context) {
	var req dto.BroadcastDeliveredRequest
	if err := bindJSON(ctx, &req); err == nil {
		h.log.Acknowledge(req.InstanceID, req.BroadcastID)
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// List returns every retained broadcast, newest first
// GET /api/broadcasts
func (h *BroadcastsHandler) List(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, toBroadcastResponses(h.log.List()))
}

func toBroadcastResponses(list []broadcasts.Broadcast) []dto.BroadcastResponse {
	responses := make([]dto.BroadcastResponse, len(list))
	for i, b := range list {
		responses[i] = dto.BroadcastResponse{
			ID:          b.ID,
			Message:     b.Message,
			Created:     b.Created.UnixMilli(),
			Status:      b.Status,
			DeliveredTo: b.DeliveredTo,
		}
	}
	return responses
}
