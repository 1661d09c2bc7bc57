package scene

import (
	"iter"
	"maps"
	"slices"

	"github.com/plus3/stagekit/ecs"
)

// Handle names the entities a Builder created. It is only produced by a
// successful Build and never changes afterwards. The references follow their
// entities across archetype moves.
type Handle struct {
	roles []string
	refs  map[string]*ecs.EntityRef
}

func newHandle(roles []string, refs map[string]*ecs.EntityRef) Handle {
	return Handle{roles: slices.Clone(roles), refs: maps.Clone(refs)}
}

// Ref returns the reference for role.
func (h Handle) Ref(role string) (*ecs.EntityRef, bool) {
	ref, ok := h.refs[role]
	return ref, ok
}

// Entity returns the current entity ID for role. It reports false for
// unknown roles and deleted entities.
func (h Handle) Entity(role string) (ecs.EntityId, bool) {
	ref, ok := h.refs[role]
	if !ok || !ref.Alive() {
		return 0, false
	}
	return ref.Id, true
}

// Has reports whether role was created.
func (h Handle) Has(role string) bool {
	_, ok := h.refs[role]
	return ok
}

// Roles returns the role names in creation order.
func (h Handle) Roles() []string {
	return slices.Clone(h.roles)
}

func (h Handle) Len() int {
	return len(h.roles)
}

// All yields each role with its reference in creation order.
func (h Handle) All() iter.Seq2[string, *ecs.EntityRef] {
	return func(yield func(string, *ecs.EntityRef) bool) {
		for _, role := range h.roles {
			if !yield(role, h.refs[role]) {
				return
			}
		}
	}
}
