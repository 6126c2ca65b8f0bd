package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/EternisAI/bot-tracker/internal/api/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T, router *gin.Engine) {
	rr := doGet(router, "/api/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get(middleware.RequestIDHeader))

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Timestamp)
}

func TestDescriptor(t *testing.T, router *gin.Engine) {
	rr := doGet(router, "/api")

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp dto.DescriptorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "test", resp.Version)
	assert.Contains(t, resp.Endpoints, "POST /api/register - Register bot instance")
}
