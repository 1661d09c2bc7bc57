package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/stagekit/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type driftSystem struct {
	Movers ecs.Query[movingView]
	Scale  ecs.Singleton[Intensity]

	runs int
}

func (s *driftSystem) Execute(frame *ecs.UpdateFrame) {
	s.runs++
	scale := float32(1)
	if s.Scale.Exists() {
		scale = float32(*s.Scale.Get())
	}
	for item := range s.Movers.Values() {
		item.Position.Z += item.Velocity.DZ * scale
	}
}

func TestSchedulerBindsQueriesAndSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.AddSingleton(Intensity(2))
	scheduler := ecs.NewScheduler(storage)

	system := &driftSystem{}
	scheduler.Register(system)

	id := storage.Spawn(Position{}, Velocity{DZ: -0.1})
	for range 10 {
		scheduler.Once(1.0 / 60)
	}

	assert.Equal(t, 10, system.runs)
	assert.InDelta(t, -2.0, ecs.ReadComponent[Position](storage, id).Z, 1e-5)

	// Entities spawned after registration are seen on the next frame.
	late := storage.Spawn(Position{}, Velocity{DZ: 1}, Label{})
	scheduler.Once(1.0 / 60)
	assert.InDelta(t, 2.0, ecs.ReadComponent[Position](storage, late).Z, 1e-5)
}

func TestSchedulerStageOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var trace []string
	record := func(name string) ecs.System {
		return ecs.Named(name, func(frame *ecs.UpdateFrame) {
			trace = append(trace, name+"@"+frame.Stage.String())
		})
	}

	scheduler.RegisterStage(ecs.StageAfterRender, record("spin"))
	scheduler.Register(record("move"))
	scheduler.RegisterStage(ecs.StageBeforeRender, record("pulse"))

	scheduler.Step(1.0/60, func(frame *ecs.UpdateFrame) {
		trace = append(trace, "render")
	})

	assert.Equal(t, []string{
		"move@before-render",
		"pulse@before-render",
		"render",
		"spin@after-render",
	}, trace)
	assert.Equal(t, uint64(1), scheduler.Frames())

	assert.Panics(t, func() { scheduler.RegisterStage(ecs.Stage(7), record("bad")) })
}

func TestSchedulerFrameNumbers(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var numbers []uint64
	var deltas []float64
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		numbers = append(numbers, frame.Number)
		deltas = append(deltas, frame.DeltaTime)
	}))

	scheduler.Once(0.5)
	scheduler.Once(0.25)
	scheduler.Once(0)

	assert.Equal(t, []uint64{0, 1, 2}, numbers)
	assert.Equal(t, []float64{0.5, 0.25, 0}, deltas)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	scheduler.RegisterStage(ecs.StageAfterRender, ecs.Named("bob", func(*ecs.UpdateFrame) {}))
	scheduler.Register(&driftSystem{})

	for range 5 {
		scheduler.Once(1.0 / 60)
	}

	stats := scheduler.GetStats()
	require.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, uint64(5), stats.Frames)
	assert.Equal(t, int64(10), stats.TotalExecutions)

	assert.Equal(t, "driftSystem", stats.Systems[0].Name)
	assert.Equal(t, ecs.StageBeforeRender, stats.Systems[0].Stage)
	assert.Equal(t, "bob", stats.Systems[1].Name)
	assert.Equal(t, ecs.StageAfterRender, stats.Systems[1].Stage)

	for _, sys := range stats.Systems {
		assert.Equal(t, int64(5), sys.ExecutionCount)
		assert.LessOrEqual(t, sys.MinDuration, sys.AvgDuration)
		assert.LessOrEqual(t, sys.AvgDuration, sys.MaxDuration)
	}
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	ticks := make(chan struct{}, 64)
	scheduler.Register(ecs.SystemFunc(func(*ecs.UpdateFrame) {
		select {
		case ticks <- struct{}{}:
		default:
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scheduler.Run(ctx, time.Millisecond)
		close(done)
	}()

	select {
	case <-ticks:
	case <-time.After(time.Second):
		t.Fatal("scheduler never ticked")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
