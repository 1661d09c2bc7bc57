package ecs

import (
	"iter"
	"reflect"
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	index    int
	typ      reflect.Type
	optional bool
	entityId bool
}

// View matches entities against a struct of component pointers.
//
// Every field of T must be either a pointer to a registered component type or
// an EntityId, which receives the matched entity's ID. Embedded fields are
// always required; named fields may carry the `ecs:"optional"` tag and are
// left nil when the entity lacks that component.
type View[T any] struct {
	storage *Storage
	fields  []viewField
}

// NewView builds a view over storage. It panics if T is not a valid view
// struct.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	fields := make([]viewField, 0, structType.NumField())
	for i := range structType.NumField() {
		field := structType.Field(i)
		if !field.IsExported() {
			panic("View field " + field.Name + " must be exported")
		}

		if field.Type == entityIdType {
			fields = append(fields, viewField{index: i, entityId: true})
			continue
		}
		if field.Type.Kind() != reflect.Pointer {
			panic("View struct fields must be pointer types or EntityId")
		}

		optional := false
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
			}
			optional = true
		}
		fields = append(fields, viewField{index: i, typ: field.Type.Elem(), optional: optional})
	}

	return &View[T]{storage: storage, fields: fields}
}

func (v *View[T]) matches(a *Archetype) bool {
	for _, f := range v.fields {
		if f.entityId || f.optional {
			continue
		}
		if !a.HasComponent(f.typ) {
			return false
		}
	}
	return true
}

func (v *View[T]) fill(a *Archetype, id EntityId, out *T) bool {
	rv := reflect.ValueOf(out).Elem()
	for _, f := range v.fields {
		field := rv.Field(f.index)
		if f.entityId {
			field.SetUint(uint64(id))
			continue
		}
		comp := a.component(id.Index(), f.typ)
		if comp == nil {
			if !f.optional {
				return false
			}
			field.SetZero()
			continue
		}
		field.Set(reflect.ValueOf(comp))
	}
	return true
}

// Fill populates out for the entity. It returns false if the entity is dead
// or lacks a required component.
func (v *View[T]) Fill(id EntityId, out *T) bool {
	a := v.storage.archetype(id.ArchetypeId())
	if a == nil || !a.alive(id.Index()) || !v.matches(a) {
		return false
	}
	return v.fill(a, id, out)
}

// Get returns the populated view for the entity, or nil.
func (v *View[T]) Get(id EntityId) *T {
	var out T
	if !v.Fill(id, &out) {
		return nil
	}
	return &out
}

// GetRef is Get for an EntityRef.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) iterArchetype(a *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		var out T
		for id := range a.Iter() {
			if !v.fill(a, id, &out) {
				continue
			}
			if !yield(id, out) {
				return
			}
		}
	}
}

// Iter yields every matching entity, archetypes in creation order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, a := range v.storage.archetypes {
			if !v.matches(a) {
				continue
			}
			for id, out := range v.iterArchetype(a) {
				if !yield(id, out) {
					return
				}
			}
		}
	}
}

// Values yields the populated view structs only.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, out := range v.Iter() {
			if !yield(out) {
				return
			}
		}
	}
}
