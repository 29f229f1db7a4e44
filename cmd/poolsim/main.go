package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/homier/idpool/internal/config"
	"github.com/homier/idpool/internal/sim"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a TOML config, defaults are used when empty")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return err
		}
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return simulate(ctx, cfg.Sim, log)
}

func simulate(ctx context.Context, cfg config.SimConfig, log *zap.Logger) error {
	r := rand.New(rand.NewSource(cfg.Seed))
	w := sim.NewWorld(cfg.Reserve, sim.WithGravity(cfg.Gravity), sim.WithFloor(cfg.Floor))

	log.Info("simulation started",
		zap.Int("steps", cfg.Steps),
		zap.Int("spawn_per_step", cfg.SpawnPerStep),
		zap.Int64("seed", cfg.Seed))

	var ticker *time.Ticker
	if cfg.TickRate > 0 {
		ticker = time.NewTicker(cfg.TickRate)
		defer ticker.Stop()
	}

	spawned, despawned := 0, 0
	for step := 1; step <= cfg.Steps; step++ {
		if ticker != nil {
			select {
			case <-ctx.Done():
				log.Info("simulation interrupted", zap.Int("step", step))
				return nil
			case <-ticker.C:
			}
		} else if ctx.Err() != nil {
			log.Info("simulation interrupted", zap.Int("step", step))
			return nil
		}

		for range cfg.SpawnPerStep {
			id := w.Spawn(sim.Vec{0, cfg.Floor}, launch(r, cfg.MaxSpeed))
			log.Debug("spawn", zap.Int("id", id))
		}
		spawned += cfg.SpawnPerStep

		fallen := w.Step(cfg.Dt)
		despawned += len(fallen)
		if len(fallen) > 0 {
			log.Debug("despawn", zap.Ints("ids", fallen))
		}

		if step%cfg.ReportEvery == 0 {
			logStats(log, w, step)
		}
	}

	log.Info("simulation finished",
		zap.Int("spawned", spawned),
		zap.Int("despawned", despawned),
		zap.Int("live", w.Len()))

	return nil
}

// launch picks an upward velocity within a 90 degree cone.
func launch(r *rand.Rand, maxSpeed float64) sim.Vec {
	angle := math.Pi/4 + r.Float64()*math.Pi/2
	speed := r.Float64() * maxSpeed

	return sim.Vec{speed * math.Cos(angle), speed * math.Sin(angle)}
}

func logStats(log *zap.Logger, w *sim.World, step int) {
	s := w.Stats()
	log.Info("pool stats",
		zap.Int("step", step),
		zap.Int("live", s.Size),
		zap.Int("capacity", s.Capacity),
		zap.Int("dead", s.Dead),
		zap.Int("pairs", s.Pairs),
		zap.Float32("dead_ratio", s.DeadCapacityRatio))
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
