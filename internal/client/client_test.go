package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	internalhttp "github.com/EternisAI/bot-tracker/internal/api/http"
	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/EternisAI/bot-tracker/internal/broadcasts"
	"github.com/EternisAI/bot-tracker/internal/instances"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testOwnerKey = "owner-secret"

type mockBroadcastHandler struct {
	mock.Mock
}

func (m *mockBroadcastHandler) Handle(b dto.BroadcastResponse) {
	m.Called(b.Message)
}

func newTestServer(t *testing.T) (*httptest.Server, *instances.Registry) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	registry := instances.NewRegistry()
	internalhttp.SetupRoute(engine, &internalhttp.Services{
		Registry:   registry,
		Broadcasts: broadcasts.NewLog(testOwnerKey),
		Version:    "test",
	})

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return srv, registry
}

func TestClientRegisterAndStats(t *testing.T) {
	srv, registry := newTestServer(t)
	c := NewClient(srv.URL + "/")
	ctx := context.Background()

	users := 5
	resp, err := c.Register(ctx, dto.RegisterInstanceRequest{InstanceID: "bot-1", UserCount: &users})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "bot-1", resp.InstanceID)

	list := registry.List()
	require.Len(t, list, 1)
	assert.Equal(t, "127.0.0.1", list[0].IP)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalInstances)
	assert.Equal(t, 5, stats.TotalUsers)
}

func TestClientStatusError(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Register(ctx, dto.RegisterInstanceRequest{})
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Equal(t, "instanceId is required", statusErr.Message)

	_, err = c.Broadcast(ctx, "hello", "wrong")
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
}

func TestAgentTickDeliversOnce(t *testing.T) {
	srv, registry := newTestServer(t)
	c := NewClient(srv.URL)
	ctx := context.Background()

	_, err := c.Broadcast(ctx, "first", testOwnerKey)
	require.NoError(t, err)
	_, err = c.Broadcast(ctx, "second", testOwnerKey)
	require.NoError(t, err)

	h := new(mockBroadcastHandler)
	h.On("Handle", "first").Return().Once()
	h.On("Handle", "second").Return().Once()

	agent := NewAgent(c, dto.RegisterInstanceRequest{InstanceID: "bot-1"}, time.Hour, h.Handle)

	require.NoError(t, agent.Tick(ctx))
	require.NoError(t, agent.Tick(ctx))

	h.AssertExpectations(t)
	assert.Len(t, registry.List(), 1)

	pending, err := c.Pending(ctx, "bot-1")
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestAgentStartStop(t *testing.T) {
	srv, registry := newTestServer(t)
	c := NewClient(srv.URL)

	agent := NewAgent(c, dto.RegisterInstanceRequest{InstanceID: "bot-loop"}, 10*time.Millisecond, nil)
	agent.Start()

	assert.Eventually(t, func() bool {
		return len(registry.List()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	agent.Stop()
}

func TestAgentTickServerDown(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL)
	srv.Close()

	agent := NewAgent(c, dto.RegisterInstanceRequest{InstanceID: "bot-1"}, time.Hour, nil)
	assert.Error(t, agent.Tick(context.Background()))
}
