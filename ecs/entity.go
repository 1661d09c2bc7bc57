package ecs

// EntityId packs the archetype ID into the upper 32 bits and the slot index
// into the lower 32 bits. Archetype IDs start at 1, so the zero EntityId never
// names a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from an archetype ID and slot index.
func NewEntityId(archetypeId uint32, index uint32) EntityId {
	return EntityId(uint64(archetypeId)<<32 | uint64(index))
}

// ArchetypeId extracts the archetype ID from the entity ID.
func (e EntityId) ArchetypeId() uint32 {
	return uint32(e >> 32)
}

// Index extracts the slot index from the entity ID.
func (e EntityId) Index() uint32 {
	return uint32(e)
}

// Valid reports whether the ID could refer to an entity.
func (e EntityId) Valid() bool {
	return e.ArchetypeId() != 0
}

// EntityRef follows an entity across archetype moves. Storage rewrites Id
// whenever a component is added or removed; Id becomes zero once the entity
// is deleted.
type EntityRef struct {
	Id        EntityId
	Archetype *Archetype
}

// Alive reports whether the referenced entity still exists.
func (r *EntityRef) Alive() bool {
	return r != nil && r.Id.Valid()
}
