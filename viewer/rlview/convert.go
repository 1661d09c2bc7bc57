package rlview

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/scene"
)

// Scenes are authored left-handed (+Z into the screen); raylib is
// right-handed. Mirroring Z converts between them.

func toVector3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), -v.Z())
}

// axisAngle converts a scene rotation to the axis and angle in degrees that
// rl.DrawModelEx expects.
func axisAngle(q mgl32.Quat) (rl.Vector3, float32) {
	// Mirroring Z negates the X and Y rotation components.
	m := mgl32.Quat{W: q.W, V: mgl32.Vec3{-q.X(), -q.Y(), q.Z()}}
	if m.Len() == 0 {
		return rl.NewVector3(0, 1, 0), 0
	}
	m = m.Normalize()
	if m.W < 0 {
		m = m.Scale(-1)
	}

	s := math32.Sqrt(max(1-m.W*m.W, 0))
	if s < 1e-6 {
		return rl.NewVector3(0, 1, 0), 0
	}
	angle := 2 * math32.Acos(min(m.W, 1))
	return rl.NewVector3(m.X()/s, m.Y()/s, m.Z()/s), mgl32.RadToDeg(angle)
}

func toColor(c scene.Color, alpha uint8) rl.Color {
	channel := func(v float32) uint8 {
		return uint8(min(max(v, 0), 1)*255 + 0.5)
	}
	return rl.NewColor(channel(c.R), channel(c.G), channel(c.B), alpha)
}

func cameraFor(cam scene.Camera, fovy float32) rl.Camera3D {
	return rl.Camera3D{
		Position:   toVector3(cam.Position()),
		Target:     toVector3(cam.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}
