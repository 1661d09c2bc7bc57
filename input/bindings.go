package input

import "fmt"

// Bindings maps the four movement directions on the ground plane to keys.
// Forward moves towards -Z, Back towards +Z, Left towards -X, Right towards +X.
type Bindings struct {
	Forward string `toml:"forward" yaml:"forward"`
	Back    string `toml:"back" yaml:"back"`
	Left    string `toml:"left" yaml:"left"`
	Right   string `toml:"right" yaml:"right"`
}

// DefaultBindings returns the WASD layout.
func DefaultBindings() Bindings {
	return Bindings{Forward: "w", Back: "s", Left: "a", Right: "d"}
}

// Validate checks that every direction has a distinct key.
func (b Bindings) Validate() error {
	seen := make(map[string]string, 4)
	for _, dir := range []struct{ name, key string }{
		{"forward", b.Forward},
		{"back", b.Back},
		{"left", b.Left},
		{"right", b.Right},
	} {
		if dir.key == "" {
			return fmt.Errorf("binding %q has no key", dir.name)
		}
		key := dir.key
		if other, ok := seen[key]; ok {
			return fmt.Errorf("key %q bound to both %q and %q", key, other, dir.name)
		}
		seen[key] = dir.name
	}
	return nil
}

// Delta returns the X and Z offsets for one frame of movement given the held
// keys. Each held key contributes step independently, so opposite keys cancel.
func (b Bindings) Delta(t *Tracker, step float32) (dx, dz float32) {
	if t.Pressed(b.Forward) {
		dz -= step
	}
	if t.Pressed(b.Back) {
		dz += step
	}
	if t.Pressed(b.Left) {
		dx -= step
	}
	if t.Pressed(b.Right) {
		dx += step
	}
	return dx, dz
}

// Keys returns the bound keys, forward first.
func (b Bindings) Keys() []string {
	return []string{b.Forward, b.Back, b.Left, b.Right}
}
