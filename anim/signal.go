package anim

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Spin returns the rotation of phase turns about axis.
func Spin(axis mgl32.Vec3, phase Phase) mgl32.Quat {
	if axis.Len() == 0 {
		return mgl32.QuatIdent()
	}
	return mgl32.QuatRotate(phase.Angle(), axis.Normalize())
}

// Ellipse returns the point on an ellipse in the XZ plane at the given phase:
// (cx + rx·sin θ, y, cz + rz·cos θ).
func Ellipse(center mgl32.Vec3, radiusX, radiusZ float32, phase Phase) mgl32.Vec3 {
	return mgl32.Vec3{
		center.X() + radiusX*phase.Sin(),
		center.Y(),
		center.Z() + radiusZ*phase.Cos(),
	}
}

// Wave returns base + amplitude·sin θ.
func Wave(base, amplitude float32, phase Phase) float32 {
	return base + amplitude*phase.Sin()
}

// Facing returns the yaw/pitch rotation that points local +Z from from
// towards to, with no roll. It returns the identity when the points coincide.
func Facing(from, to mgl32.Vec3) mgl32.Quat {
	d := to.Sub(from)
	horizontal := math32.Hypot(d.X(), d.Z())
	if horizontal == 0 && d.Y() == 0 {
		return mgl32.QuatIdent()
	}
	yaw := math32.Atan2(d.X(), d.Z())
	pitch := -math32.Atan2(d.Y(), horizontal)
	return mgl32.QuatRotate(yaw, mgl32.Vec3{0, 1, 0}).Mul(mgl32.QuatRotate(pitch, mgl32.Vec3{1, 0, 0}))
}
