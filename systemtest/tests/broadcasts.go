package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastFlow(t *testing.T, router *gin.Engine, ownerKey string) {
	t.Run("invalid owner key", func(t *testing.T) {
		rr := doJSON(router, "POST", "/api/broadcast", dto.CreateBroadcastRequest{Message: "hi", OwnerKey: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, listBroadcasts(t, router))
	})

	t.Run("empty message", func(t *testing.T) {
		rr := doJSON(router, "POST", "/api/broadcast", dto.CreateBroadcastRequest{Message: "  ", OwnerKey: ownerKey})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	var broadcastID string
	t.Run("create", func(t *testing.T) {
		rr := doJSON(router, "POST", "/api/broadcast", dto.CreateBroadcastRequest{Message: " hello ", OwnerKey: ownerKey})
		require.Equal(t, http.StatusOK, rr.Code)

		var resp dto.CreateBroadcastResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		broadcastID = resp.BroadcastID

		all := listBroadcasts(t, router)
		require.Len(t, all, 1)
		assert.Equal(t, "hello", all[0].Message)
	})

	t.Run("pending then delivered", func(t *testing.T) {
		require.NotEmpty(t, broadcastID)

		pending := pendingBroadcasts(t, router, "bot-1")
		require.Len(t, pending, 1)
		assert.Equal(t, broadcastID, pending[0].ID)

		body := dto.BroadcastDeliveredRequest{InstanceID: "bot-1", BroadcastID: broadcastID}
		for i := 0; i < 2; i++ {
			rr := doJSON(router, "POST", "/api/broadcast-delivered", body)
			assert.Equal(t, http.StatusOK, rr.Code)
		}

		assert.Empty(t, pendingBroadcasts(t, router, "bot-1"))
		assert.Len(t, pendingBroadcasts(t, router, "bot-2"), 1)

		all := listBroadcasts(t, router)
		require.Len(t, all, 1)
		assert.Equal(t, []string{"bot-1"}, all[0].DeliveredTo)
	})
}

func TestBroadcastCapacity(t *testing.T, router *gin.Engine, ownerKey string) {
	var firstID string
	for i := 0; i < 51; i++ {
		rr := doJSON(router, "POST", "/api/broadcast", dto.CreateBroadcastRequest{
			Message:  fmt.Sprintf("msg-%d", i),
			OwnerKey: ownerKey,
		})
		require.Equal(t, http.StatusOK, rr.Code)
		if i == 0 {
			var resp dto.CreateBroadcastResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			firstID = resp.BroadcastID
		}
	}

	all := listBroadcasts(t, router)
	require.Len(t, all, 50)
	for _, b := range all {
		assert.NotEqual(t, firstID, b.ID)
	}
}

func listBroadcasts(t *testing.T, router *gin.Engine) []dto.BroadcastResponse {
	rr := doGet(router, "/api/broadcasts")
	require.Equal(t, http.StatusOK, rr.Code)

	var resp []dto.BroadcastResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func pendingBroadcasts(t *testing.T, router *gin.Engine, instanceID string) []dto.BroadcastResponse {
	rr := doGet(router, "/api/broadcasts/"+instanceID)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp dto.PendingBroadcastsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Broadcasts
}
