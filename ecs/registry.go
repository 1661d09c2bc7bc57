package ecs

import (
	"fmt"
	"iter"
	"math/bits"
	"reflect"
)

// column is a type-erased store for one component type inside an archetype.
// All columns of an archetype grow and shrink in lockstep, so a slot index
// addresses the same entity in every column.
type column interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Iter() iter.Seq[int]
}

// ComponentRegistry records which component types a Storage may hold and how
// to build their columns. Each Storage owns its registry, so independent
// worlds (one per scene) never share column state.
type ComponentRegistry struct {
	factories map[reflect.Type]func() column
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() column),
	}
}

// RegisterComponent registers T with the registry. Registering the same type
// twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() column {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) newColumn(t reflect.Type) column {
	factory, ok := r.factories[t]
	if !ok {
		panic("component type " + t.String() + " not registered")
	}
	return factory()
}

const blockSize = 64

// blockColumn stores values in fixed-size heap blocks. Blocks are never
// moved once allocated, so pointers handed out by Get stay valid until the
// slot is deleted.
type blockColumn[T any] struct {
	blocks   []*[blockSize]T
	occupied []uint64
	free     []int
	next     int
	count    int
}

func (c *blockColumn[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		panic(fmt.Sprintf("column of %v cannot store %T", reflect.TypeFor[T](), item))
	}

	var index int
	if n := len(c.free); n > 0 {
		index = c.free[n-1]
		c.free = c.free[:n-1]
	} else {
		index = c.next
		c.next++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([blockSize]T))
			c.occupied = append(c.occupied, 0)
		}
	}

	block, slot := index/blockSize, index%blockSize
	c.blocks[block][slot] = value
	c.occupied[block] |= 1 << slot
	c.count++
	return index
}

func (c *blockColumn[T]) Has(index int) bool {
	if index < 0 || index >= c.next {
		return false
	}
	return c.occupied[index/blockSize]&(1<<(index%blockSize)) != 0
}

func (c *blockColumn[T]) Get(index int) any {
	if !c.Has(index) {
		return nil
	}
	return &c.blocks[index/blockSize][index%blockSize]
}

func (c *blockColumn[T]) Delete(index int) {
	if !c.Has(index) {
		return
	}
	block, slot := index/blockSize, index%blockSize
	var zero T
	c.blocks[block][slot] = zero
	c.occupied[block] &^= 1 << slot
	c.free = append(c.free, index)
	c.count--
}

func (c *blockColumn[T]) Len() int {
	return c.count
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for block, mask := range c.occupied {
			for mask != 0 {
				slot := bits.TrailingZeros64(mask)
				mask &^= 1 << slot
				if !yield(block*blockSize + slot) {
					return
				}
			}
		}
	}
}
