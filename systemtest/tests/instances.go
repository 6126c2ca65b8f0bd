package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstanceLifecycle(t *testing.T, router *gin.Engine) {
	t.Run("missing instance id", func(t *testing.T) {
		rr := doJSON(router, "POST", "/api/register", map[string]any{"owner": "alice"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("register", func(t *testing.T) {
		rr := doJSON(router, "POST", "/api/register", map[string]any{
			"instanceId": "bot-1",
			"userCount":  5,
			"groupCount": 2,
		})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.RegisterInstanceResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "bot-1", resp.InstanceID)
	})

	t.Run("stats", func(t *testing.T) {
		rr := doGet(router, "/api/stats")
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.StatsResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.TotalInstances)
		assert.Equal(t, 1, resp.ActiveInstances)
		assert.Equal(t, 5, resp.TotalUsers)
		assert.Equal(t, 2, resp.TotalGroups)
	})

	t.Run("heartbeat keeps first seen", func(t *testing.T) {
		before := listInstances(t, router)
		require.Len(t, before, 1)

		rr := doJSON(router, "POST", "/api/register", map[string]any{"instanceId": "bot-1", "userCount": 6})
		require.Equal(t, http.StatusOK, rr.Code)

		after := listInstances(t, router)
		require.Len(t, after, 1)
		assert.Equal(t, before[0].FirstSeen, after[0].FirstSeen)
		assert.GreaterOrEqual(t, after[0].LastPing, before[0].LastPing)
		assert.Equal(t, 6, after[0].UserCount)
	})
}

func listInstances(t *testing.T, router *gin.Engine) []dto.InstanceResponse {
	rr := doGet(router, "/api/instances")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []dto.InstanceResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
