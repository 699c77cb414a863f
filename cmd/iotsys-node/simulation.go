package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/iotsys/iotsys-go/pkg/sensor"
)

// runSimulation steps the simulated sensors until ctx ends.
func runSimulation(ctx context.Context, sim *sensor.Simulator, period time.Duration, logger *slog.Logger) {
	logger.Info("simulation started", "period", period)

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sim.Step()
		}
	}
}
