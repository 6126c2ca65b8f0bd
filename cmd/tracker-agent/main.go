package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/EternisAI/bot-tracker/internal/api/http/dto"
	"github.com/EternisAI/bot-tracker/internal/client"
)

var AppVersion = "1.0.0"

func main() {
	InitConfig()

	slog.Info("Bot Tracker Agent", "version", AppVersion, "instance_id", config.Tracker.InstanceID)

	userCount := config.Tracker.UserCount
	groupCount := config.Tracker.GroupCount
	instance := dto.RegisterInstanceRequest{
		InstanceID: config.Tracker.InstanceID,
		Owner:      config.Tracker.Owner,
		Version:    config.Tracker.Version,
		UserCount:  &userCount,
		GroupCount: &groupCount,
	}

	agent := client.NewAgent(
		client.NewClient(config.Tracker.ServerURL),
		instance,
		config.Tracker.HeartbeatInterval,
		func(b dto.BroadcastResponse) {
			slog.Info("Broadcast received", "broadcast_id", b.ID, "message", b.Message)
		},
	)
	agent.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	slog.Info("Received shutdown signal", "signal", sig)

	agent.Stop()
	slog.Info("Shutdown complete")
}
