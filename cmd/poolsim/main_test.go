package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/homier/idpool/internal/config"
)

func TestSimulate(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	cfg := config.Default().Sim
	cfg.Steps = 200
	cfg.ReportEvery = 50

	require.NoError(t, simulate(context.Background(), cfg, zap.New(core)))

	require.Equal(t, 4, logs.FilterMessage("pool stats").Len())

	finished := logs.FilterMessage("simulation finished").All()
	require.Len(t, finished, 1)

	fields := finished[0].ContextMap()
	spawned := fields["spawned"].(int64)
	despawned := fields["despawned"].(int64)
	live := fields["live"].(int64)
	require.Equal(t, int64(cfg.Steps*cfg.SpawnPerStep), spawned)
	require.Equal(t, spawned-despawned, live)
	require.Positive(t, despawned)
}

func TestSimulate_Cancelled(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, simulate(ctx, config.Default().Sim, zap.New(core)))
	require.Equal(t, 1, logs.FilterMessage("simulation interrupted").Len())
	require.Zero(t, logs.FilterMessage("simulation finished").Len())
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := newLogger(config.LoggingConfig{Level: "bogus", Format: format})
		require.NoError(t, err)
		require.True(t, log.Core().Enabled(zap.InfoLevel))
		require.False(t, log.Core().Enabled(zap.DebugLevel))
	}
}
