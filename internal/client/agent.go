package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
)

const DefaultHeartbeatInterval = time.Minute

// BroadcastHandler is invoked once for every pending broadcast before it is acknowledged.
type BroadcastHandler func(dto.BroadcastResponse)

// Agent registers an instance on a fixed interval and drains its pending broadcasts.
// A failed round is logged and simply retried on the next tick.
type Agent struct {
	client   *Client
	instance dto.RegisterInstanceRequest
	interval time.Duration
	handler  BroadcastHandler

	stopCh chan struct{}
	doneCh chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func NewAgent(client *Client, instance dto.RegisterInstanceRequest, interval time.Duration, handler BroadcastHandler) *Agent {
	if interval <= 0 {
		interval = DefaultHeartbeatInterval
	}
	if handler == nil {
		handler = func(dto.BroadcastResponse) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Agent{
		client:   client,
		instance: instance,
		interval: interval,
		handler:  handler,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (a *Agent) Start() {
	go a.loop()
}

func (a *Agent) Stop() {
	slog.Info("Stopping tracker agent")
	close(a.stopCh)
	a.cancel()
	<-a.doneCh
	slog.Info("Tracker agent stopped")
}

func (a *Agent) loop() {
	defer close(a.doneCh)

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		if err := a.Tick(a.ctx); err != nil {
			slog.Warn("Tracker round failed", "instance_id", a.instance.InstanceID, "error", err)
		}

		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
		}
	}
}

// Tick sends one heartbeat, then hands every pending broadcast to the handler and acknowledges it.
func (a *Agent) Tick(ctx context.Context) error {
	if _, err := a.client.Register(ctx, a.instance); err != nil {
		return err
	}

	pending, err := a.client.Pending(ctx, a.instance.InstanceID)
	if err != nil {
		return err
	}

	for _, b := range pending {
		a.handler(b)
		if err := a.client.Acknowledge(ctx, a.instance.InstanceID, b.ID); err != nil {
			return err
		}
		slog.Debug("Broadcast acknowledged", "broadcast_id", b.ID)
	}
	return nil
}
