package ecs

import "reflect"

// Commands buffers structural changes made while systems run. The Scheduler
// flushes the buffer once per frame after every stage has executed, so
// queries never observe a half-updated world.
type Commands struct {
	spawns  [][]any
	deletes []EntityId
	adds    []componentOp
	removes []componentOp
	defers  []func()
}

type componentOp struct {
	entity    EntityId
	component any
	typ       reflect.Type
}

func newCommands() *Commands {
	return &Commands{}
}

// Spawn queues an entity creation.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, components)
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues a component addition.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, componentOp{entity: entity, component: component})
}

// RemoveComponent queues a component removal.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, componentOp{entity: entity, typ: compType})
}

// Defer queues fn to run after all structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Pending reports whether anything is queued.
func (c *Commands) Pending() bool {
	return len(c.spawns)+len(c.deletes)+len(c.adds)+len(c.removes)+len(c.defers) > 0
}

// Flush applies queued work to storage in a fixed order: deletes, removes,
// adds, spawns, then deferred functions. Removes and adds aimed at an entity
// deleted in the same flush are dropped. The buffer is reset afterwards.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]struct{}, len(c.deletes))
	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = struct{}{}
	}

	// Entity IDs change on archetype moves; later operations queued against
	// the original ID follow the entity to its latest slot.
	current := make(map[EntityId]EntityId)
	resolve := func(id EntityId) EntityId {
		if latest, ok := current[id]; ok {
			return latest
		}
		return id
	}

	for _, op := range c.removes {
		if _, gone := deleted[op.entity]; gone {
			continue
		}
		current[op.entity] = storage.RemoveComponent(resolve(op.entity), op.typ)
	}

	for _, op := range c.adds {
		if _, gone := deleted[op.entity]; gone {
			continue
		}
		current[op.entity] = storage.AddComponent(resolve(op.entity), op.component)
	}

	for _, components := range c.spawns {
		storage.Spawn(components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	clear(c.spawns)
	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
