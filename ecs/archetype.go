package ecs

import (
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

// Archetype holds every entity that has exactly one particular set of
// component types.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []column
	lookup  map[reflect.Type]int
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

func newArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]column, len(types)),
		lookup:  make(map[reflect.Type]int, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](16),
	}
	for i, typ := range types {
		a.columns[i] = registry.newColumn(typ)
		a.lookup[typ] = i
	}
	return a
}

// spawn appends one value per column and returns the shared slot index.
// components must contain exactly one value for each archetype type.
func (a *Archetype) spawn(components []any) uint32 {
	slot := -1
	for _, comp := range components {
		col := a.columns[a.lookup[componentType(comp)]]
		pos := col.Append(comp)
		if slot >= 0 && pos != slot {
			panic("archetype columns out of step")
		}
		slot = pos
	}
	return uint32(slot)
}

func (a *Archetype) component(index uint32, t reflect.Type) any {
	i, ok := a.lookup[t]
	if !ok {
		return nil
	}
	return a.columns[i].Get(int(index))
}

func (a *Archetype) alive(index uint32) bool {
	return len(a.columns) > 0 && a.columns[0].Has(int(index))
}

// delete frees the slot and invalidates any EntityRef pointing at it.
func (a *Archetype) delete(index uint32) {
	id := NewEntityId(a.id, index)
	if ptr, ok := a.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(id)
	}
	for _, col := range a.columns {
		col.Delete(int(index))
	}
}

// HasComponent reports whether the archetype includes t.
func (a *Archetype) HasComponent(t reflect.Type) bool {
	_, ok := a.lookup[t]
	return ok
}

// ID returns the archetype's identifier.
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the component types in canonical order.
func (a *Archetype) Types() []reflect.Type {
	return slices.Clone(a.types)
}

// Len returns the number of live entities.
func (a *Archetype) Len() int {
	if len(a.columns) == 0 {
		return 0
	}
	return a.columns[0].Len()
}

// Iter yields the IDs of all live entities.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
