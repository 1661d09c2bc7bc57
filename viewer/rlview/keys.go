package rlview

import (
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/plus3/stagekit/input"
)

var namedKeys = map[string]int32{
	"arrowup":    rl.KeyUp,
	"arrowdown":  rl.KeyDown,
	"arrowleft":  rl.KeyLeft,
	"arrowright": rl.KeyRight,
	" ":          rl.KeySpace,
	"space":      rl.KeySpace,
	"enter":      rl.KeyEnter,
	"shift":      rl.KeyLeftShift,
	"control":    rl.KeyLeftControl,
}

// KeyCode resolves a tracker key name to a raylib key code. Case is ignored:
// "W" and "w" are both the W key.
func KeyCode(name string) (int32, bool) {
	name = strings.ToLower(name)
	if len(name) == 1 {
		switch c := name[0]; {
		case c >= 'a' && c <= 'z':
			return rl.KeyA + int32(c-'a'), true
		case c >= '0' && c <= '9':
			return rl.KeyZero + int32(c-'0'), true
		}
	}
	code, ok := namedKeys[name]
	return code, ok
}

// watchedKey is a raylib key and its unshifted tracker name.
type watchedKey struct {
	name string
	code int32
}

// watch resolves names, returning the keys raylib can report and the names
// it cannot.
func watch(names []string) (keys []watchedKey, unknown []string) {
	for _, name := range names {
		if code, ok := KeyCode(name); ok {
			keys = append(keys, watchedKey{name: input.KeyName(name, false), code: code})
		} else {
			unknown = append(unknown, name)
		}
	}
	return keys, unknown
}
