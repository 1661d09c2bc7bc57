package ecs

import "iter"

// Query is a View that caches matching archetypes and snapshots its results
// once per Execute. Systems declare Query fields and the Scheduler refreshes
// them right before the system runs.
type Query[T any] struct {
	view       *View[T]
	storage    *Storage
	archetypes []*Archetype
	scanned    int

	ids   []EntityId
	items []T
	ready bool
}

// NewQuery creates a query over storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init binds the query to storage and drops all cached state.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.archetypes = nil
	q.scanned = 0
	q.ids = q.ids[:0]
	q.items = q.items[:0]
	q.ready = false
}

// Execute rebuilds the result snapshot. Archetypes are only ever appended to
// a Storage, so only the ones created since the last call are examined.
func (q *Query[T]) Execute() {
	for _, a := range q.storage.archetypes[q.scanned:] {
		if q.view.matches(a) {
			q.archetypes = append(q.archetypes, a)
		}
	}
	q.scanned = len(q.storage.archetypes)

	q.ids = q.ids[:0]
	q.items = q.items[:0]
	for _, a := range q.archetypes {
		for id, item := range q.view.iterArchetype(a) {
			q.ids = append(q.ids, id)
			q.items = append(q.items, item)
		}
	}
	q.ready = true
}

// Iter yields the entities found by the last Execute.
// It panics if Execute has never run.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	if !q.ready {
		panic("Query.Iter() called before Query.Execute()")
	}
	return func(yield func(EntityId, T) bool) {
		for i := range q.ids {
			if !yield(q.ids[i], q.items[i]) {
				return
			}
		}
	}
}

// Values yields the view structs found by the last Execute.
func (q *Query[T]) Values() iter.Seq[T] {
	if !q.ready {
		panic("Query.Values() called before Query.Execute()")
	}
	return func(yield func(T) bool) {
		for _, item := range q.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Len returns the number of results from the last Execute.
func (q *Query[T]) Len() int {
	return len(q.items)
}

// First returns the first result from the last Execute.
func (q *Query[T]) First() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}
