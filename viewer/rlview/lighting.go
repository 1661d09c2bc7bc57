package rlview

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/scene"
)

// raylib's default shader is unlit, so surfaces are tinted on the CPU from
// the scene's lights: a flat ambient term from hemispheric lights plus each
// point and spot light's colour at the object's centre.

const baseAmbient = 0.15

type lightSample struct {
	Position mgl32.Vec3
	Light    scene.Light
}

// illuminate returns the tint for a surface of colour diffuse at pos.
func illuminate(pos mgl32.Vec3, diffuse scene.Color, lights []lightSample) scene.Color {
	r, g, b := float32(baseAmbient), float32(baseAmbient), float32(baseAmbient)
	for _, l := range lights {
		k := l.Light.Intensity * contribution(pos, l)
		r += l.Light.Diffuse.R * k
		g += l.Light.Diffuse.G * k
		b += l.Light.Diffuse.B * k
	}
	return scene.Color{R: diffuse.R * r, G: diffuse.G * g, B: diffuse.B * b}
}

// contribution is the unscaled share of a light reaching pos.
func contribution(pos mgl32.Vec3, l lightSample) float32 {
	switch l.Light.Kind {
	case scene.LightHemispheric:
		return 1
	case scene.LightPoint:
		return 1 / (1 + 0.01*pos.Sub(l.Position).LenSqr())
	case scene.LightSpot:
		return spotFactor(pos, l.Position, l.Light.Direction, l.Light.Angle, l.Light.Exponent)
	default:
		return 0
	}
}

// spotFactor is cos(θ)^exponent inside the cone and 0 outside, where θ is
// the angle between the cone axis and the direction to pos.
func spotFactor(pos, lightPos, dir mgl32.Vec3, angle, exponent float32) float32 {
	to := pos.Sub(lightPos)
	if to.Len() == 0 || dir.Len() == 0 {
		return 1
	}
	cos := to.Normalize().Dot(dir.Normalize())
	if cos < math32.Cos(angle/2) {
		return 0
	}
	return math32.Pow(cos, exponent)
}
