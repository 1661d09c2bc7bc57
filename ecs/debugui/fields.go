package debugui

import (
	"reflect"
	"sync"
)

// Field describes one exported struct field for the inspector.
type Field struct {
	Name  string
	Type  reflect.Type
	Index int
}

type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]Field
}

var fields = &fieldCache{fields: make(map[reflect.Type][]Field)}

// Fields returns the exported fields of struct type t, or nil for any other
// kind. Results are cached per type.
func Fields(t reflect.Type) []Field {
	return fields.get(t)
}

func (c *fieldCache) get(t reflect.Type) []Field {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	var out []Field
	if t.Kind() == reflect.Struct {
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			out = append(out, Field{Name: f.Name, Type: f.Type, Index: i})
		}
	}

	c.mu.Lock()
	c.fields[t] = out
	c.mu.Unlock()
	return out
}

var float3Type = reflect.TypeFor[[3]float32]()

// isFloat3 reports whether t is three float32s, which covers mgl32.Vec3.
func isFloat3(t reflect.Type) bool {
	return t.Kind() == reflect.Array && t.ConvertibleTo(float3Type)
}
