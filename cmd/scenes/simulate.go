package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/plus3/stagekit/config"
	"github.com/plus3/stagekit/scene"
)

// simulate runs a scene headless for opts.frames frames with the held keys
// down throughout, stopping early if ctx is cancelled.
func simulate(ctx context.Context, cfg config.Config, opts options, logger *slog.Logger) (*Report, error) {
	if opts.frames < 0 {
		return nil, fmt.Errorf("frames must not be negative, got %d", opts.frames)
	}
	if opts.dt <= 0 {
		return nil, fmt.Errorf("dt must be positive, got %v", opts.dt)
	}

	s, err := scene.Load(opts.scene, cfg, scene.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	defer s.Dispose()

	held := parseHold(opts.hold)
	for _, key := range held {
		s.KeyDown(key)
	}

	report := &Report{
		Scene:      opts.scene,
		Requested:  opts.frames,
		DeltaTime:  opts.dt,
		TimeScaled: cfg.Movement.TimeScaled,
		Start:      s.Snapshot(),
		FrameTime:  Stats{Samples: make([]time.Duration, 0, opts.frames)},
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("simulating", "scene", opts.scene, "frames", opts.frames, "held", held)
	startTime := time.Now()

Loop:
	for range opts.frames {
		select {
		case <-ctx.Done():
			logger.Warn("simulation interrupted", "frames", s.Frames())
			break Loop
		default:
			frameStart := time.Now()
			s.Tick(opts.dt)
			report.FrameTime.Samples = append(report.FrameTime.Samples, time.Since(frameStart))
		}
	}

	report.TotalTime = time.Since(startTime)
	report.FrameTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)
	report.End = s.Snapshot()
	report.Systems = systemRows(s)

	s.Dispose()
	report.Disposed = s.Snapshot()
	logger.Info("simulation finished", "frames", report.End.Frame, "elapsed", report.TotalTime)
	return report, nil
}

func systemRows(s *scene.Scene) []SystemRow {
	stats := s.Scheduler().GetStats()
	rows := make([]SystemRow, 0, len(stats.Systems))
	for _, sys := range stats.Systems {
		rows = append(rows, SystemRow{
			Name:  sys.Name,
			Stage: sys.Stage.String(),
			Runs:  sys.ExecutionCount,
			Avg:   sys.AvgDuration,
			Max:   sys.MaxDuration,
		})
	}
	return rows
}
