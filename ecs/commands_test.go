package ecs_test

import (
	"testing"

	"github.com/plus3/stagekit/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsAreDeferredUntilEndOfFrame(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	var seenDuringFrame int
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Spawn(Position{X: 1})
		assert.True(t, frame.Commands.Pending())
		seenDuringFrame = storage.CollectStats().TotalEntityCount
	}))

	scheduler.Once(1.0 / 60)
	assert.Equal(t, 0, seenDuringFrame)
	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
}

func TestCommandsFlushOrder(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	doomed := storage.Spawn(Position{X: 1})
	kept := storage.Spawn(Position{X: 2}, Velocity{DX: 1})
	ref := storage.CreateEntityRef(kept)

	var order []string
	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.Defer(func() { order = append(order, "defer") })
		frame.Commands.AddComponent(doomed, Label{Value: "ignored"})
		frame.Commands.AddComponent(kept, Label{Value: "kept"})
		frame.Commands.RemoveComponent(kept, velocityType)
		frame.Commands.Delete(doomed)
		frame.Commands.Spawn(Intensity(1))
	}))

	scheduler.Once(1.0 / 60)

	assert.False(t, storage.Alive(doomed))
	assert.Equal(t, []string{"defer"}, order)

	id, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.False(t, storage.HasComponent(id, velocityType))
	label := ecs.ReadComponent[Label](storage, id)
	require.NotNil(t, label)
	assert.Equal(t, "kept", label.Value)
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, id).X)

	stats := storage.CollectStats()
	assert.Equal(t, 2, stats.TotalEntityCount)
}

func TestCommandsFollowEntityAcrossMoves(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)

	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	scheduler.Register(ecs.SystemFunc(func(frame *ecs.UpdateFrame) {
		frame.Commands.AddComponent(id, Velocity{DZ: 1})
		frame.Commands.AddComponent(id, Label{Value: "two moves"})
		frame.Commands.AddComponent(id, Intensity(3))
	}))
	scheduler.Once(0)

	current, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.True(t, storage.HasComponent(current, velocityType))
	assert.True(t, storage.HasComponent(current, labelType))
	assert.True(t, storage.HasComponent(current, intensityType))
	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
}
