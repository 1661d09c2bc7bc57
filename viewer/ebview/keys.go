package ebview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/stagekit/input"
)

// KeyName is the tracker name for an ebiten key, in the browser form scenes
// bind to: "w" for KeyW, "W" for KeyW with shift, "ArrowUp" for KeyArrowUp.
func KeyName(key ebiten.Key, shift bool) string {
	return input.KeyName(key.String(), shift)
}

// keySink receives key transitions.
type keySink interface {
	KeyDown(key string)
	KeyUp(key string)
}

// keyReader collects this tick's key transitions.
type keyReader struct {
	pressed, released []ebiten.Key
	shift             bool
}

func (k *keyReader) poll() {
	k.pressed = inpututil.AppendJustPressedKeys(k.pressed[:0])
	k.released = inpututil.AppendJustReleasedKeys(k.released[:0])
	k.shift = ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
}

// forward delivers releases before presses so a key released and pressed
// again within one tick ends up held.
func (k *keyReader) forward(sink keySink) {
	for _, key := range k.released {
		for _, name := range input.ReleaseNames(key.String()) {
			sink.KeyUp(name)
		}
	}
	for _, key := range k.pressed {
		sink.KeyDown(KeyName(key, k.shift))
	}
}
