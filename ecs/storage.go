package ecs

import (
	"reflect"
	"slices"
	"strings"
	"weak"
)

// Storage is one ECS world: archetype tables plus singleton components.
type Storage struct {
	registry    *ComponentRegistry
	archetypes  []*Archetype
	bySignature map[string]*Archetype
	singletons  map[reflect.Type]any
	singleOrder []reflect.Type
}

// NewStorage creates an empty world backed by registry.
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:    registry,
		bySignature: make(map[string]*Archetype),
		singletons:  make(map[reflect.Type]any),
	}
}

// Registry returns the registry the storage was created with.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Archetypes returns the archetypes in creation order.
func (s *Storage) Archetypes() []*Archetype {
	return slices.Clone(s.archetypes)
}

func (s *Storage) archetype(id uint32) *Archetype {
	if id == 0 || int(id) > len(s.archetypes) {
		return nil
	}
	return s.archetypes[id-1]
}

// ArchetypeOf returns the archetype that holds id, or nil.
func (s *Storage) ArchetypeOf(id EntityId) *Archetype {
	return s.archetype(id.ArchetypeId())
}

// archetypeFor returns the archetype for a sorted type set, creating it on
// first use.
func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	key := signature(types)
	if a, ok := s.bySignature[key]; ok {
		return a
	}
	a := newArchetype(uint32(len(s.archetypes)+1), types, s.registry)
	s.archetypes = append(s.archetypes, a)
	s.bySignature[key] = a
	return a
}

// GetArchetypeByTypes returns the archetype holding exactly types, or nil.
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sortTypes(sorted)
	return s.bySignature[signature(sorted)]
}

// Spawn creates an entity from the given component values. Passing a pointer
// stores a copy of the pointed-to value.
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		t := componentType(comp)
		if slices.Contains(types, t) {
			panic("duplicate component type " + t.String())
		}
		types = append(types, t)
	}
	sortTypes(types)

	a := s.archetypeFor(types)
	return NewEntityId(a.id, a.spawn(components))
}

// Alive reports whether id names a live entity.
func (s *Storage) Alive(id EntityId) bool {
	a := s.archetype(id.ArchetypeId())
	return a != nil && a.alive(id.Index())
}

// Delete removes the entity. Deleting a dead entity is a no-op.
func (s *Storage) Delete(id EntityId) {
	if a := s.archetype(id.ArchetypeId()); a != nil && a.alive(id.Index()) {
		a.delete(id.Index())
	}
}

// AddComponent attaches component to the entity and returns its new ID.
// If the entity already has a component of that type the value is replaced
// in place and the ID is unchanged. Returns 0 for dead entities.
func (s *Storage) AddComponent(id EntityId, component any) EntityId {
	old := s.archetype(id.ArchetypeId())
	if old == nil || !old.alive(id.Index()) {
		return 0
	}

	t := componentType(component)
	if existing := old.component(id.Index(), t); existing != nil {
		reflect.ValueOf(existing).Elem().Set(reflect.ValueOf(valueOf(component)))
		return id
	}

	types := append(slices.Clone(old.types), t)
	sortTypes(types)
	return s.move(id, old, types, component)
}

// RemoveComponent detaches the component type and returns the entity's new
// ID. Removing the last component deletes the entity and returns 0.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) EntityId {
	old := s.archetype(id.ArchetypeId())
	if old == nil || !old.alive(id.Index()) {
		return 0
	}
	if !old.HasComponent(compType) {
		return id
	}
	if len(old.types) == 1 {
		old.delete(id.Index())
		return 0
	}

	types := make([]reflect.Type, 0, len(old.types)-1)
	for _, typ := range old.types {
		if typ != compType {
			types = append(types, typ)
		}
	}
	return s.move(id, old, types, nil)
}

// move copies the entity into the archetype for types, carrying extra along,
// and rewrites any EntityRef that pointed at the old slot.
func (s *Storage) move(id EntityId, old *Archetype, types []reflect.Type, extra any) EntityId {
	target := s.archetypeFor(types)

	components := make([]any, 0, len(types))
	for _, typ := range types {
		if comp := old.component(id.Index(), typ); comp != nil {
			components = append(components, comp)
		}
	}
	if extra != nil {
		components = append(components, extra)
	}
	newId := NewEntityId(target.id, target.spawn(components))

	ptr, hasRef := old.refs.Get(id)
	if hasRef {
		old.refs.Del(id)
	}
	old.delete(id.Index())

	if hasRef {
		if ref := ptr.Value(); ref != nil {
			ref.Id = newId
			ref.Archetype = target
			target.refs.Put(newId, ptr)
		}
	}
	return newId
}

// GetComponent returns a pointer to the entity's component of type compType,
// or nil.
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	a := s.archetype(id.ArchetypeId())
	if a == nil {
		return nil
	}
	return a.component(id.Index(), compType)
}

// HasComponent reports whether the entity has a component of type compType.
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	return s.GetComponent(id, compType) != nil
}

// CreateEntityRef returns the shared reference for a live entity, creating
// it if needed. Returns nil for dead entities.
func (s *Storage) CreateEntityRef(id EntityId) *EntityRef {
	a := s.archetype(id.ArchetypeId())
	if a == nil || !a.alive(id.Index()) {
		return nil
	}
	if ptr, ok := a.refs.Get(id); ok {
		if ref := ptr.Value(); ref != nil {
			return ref
		}
	}
	ref := &EntityRef{Id: id, Archetype: a}
	a.refs.Put(id, weak.Make(ref))
	return ref
}

// ResolveEntityRef returns the current ID of the referenced entity.
func (s *Storage) ResolveEntityRef(ref *EntityRef) (EntityId, bool) {
	if !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// AddSingleton stores a world-wide component. value may be T or *T; a *T is
// kept as-is. Re-adding a type overwrites the stored value in place so
// existing Singleton accessors keep working.
func (s *Storage) AddSingleton(value any) {
	t := componentType(value)
	ptr := reflect.ValueOf(value)
	if ptr.Kind() != reflect.Pointer {
		boxed := reflect.New(t)
		boxed.Elem().Set(ptr)
		ptr = boxed
	}

	if existing, ok := s.singletons[t]; ok {
		reflect.ValueOf(existing).Elem().Set(ptr.Elem())
		return
	}
	s.singletons[t] = ptr.Interface()
	s.singleOrder = append(s.singleOrder, t)
}

func (s *Storage) singleton(t reflect.Type) any {
	return s.singletons[t]
}

// ReadSingleton sets *target to the stored singleton of the matching type.
// target must be a **T. Reports whether the singleton exists.
func (s *Storage) ReadSingleton(target any) bool {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Pointer {
		panic("ReadSingleton target must be a pointer to a pointer")
	}
	stored, ok := s.singletons[rv.Elem().Type().Elem()]
	if !ok {
		return false
	}
	rv.Elem().Set(reflect.ValueOf(stored))
	return true
}

// ComponentReader is implemented by anything that can look up components by
// entity ID.
type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's T component, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t == nil {
		panic("component cannot be nil")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func:
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return t
}

// valueOf dereferences a component pointer so the value can be copied.
func valueOf(component any) any {
	rv := reflect.ValueOf(component)
	if rv.Kind() == reflect.Pointer {
		return rv.Elem().Interface()
	}
	return component
}

func typeKey(t reflect.Type) string {
	return t.PkgPath() + "." + t.String()
}

func sortTypes(types []reflect.Type) {
	slices.SortFunc(types, func(a, b reflect.Type) int {
		return strings.Compare(typeKey(a), typeKey(b))
	})
}

func signature(types []reflect.Type) string {
	var b strings.Builder
	for i, t := range types {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(typeKey(t))
	}
	return b.String()
}
