package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/EternisAI/bot-tracker/internal/apperr"
	"github.com/gin-gonic/gin"
)

var errInvalidBody = apperr.Validation("Invalid request body")

// bindJSON treats an empty body as an empty object so that missing fields are
// reported by the stores rather than as a decoding failure.
func bindJSON(ctx *gin.Context, obj any) error {
	if err := ctx.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		slog.Debug("Failed to decode request body", "path", ctx.Request.URL.Path, "error", err)
		return errInvalidBody
	}
	return nil
}

func respondError(ctx *gin.Context, err error) {
	status := apperr.StatusCode(err)
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", ctx.Request.URL.Path, "error", err)
		ctx.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	ctx.JSON(status, gin.H{"error": err.Error()})
}
