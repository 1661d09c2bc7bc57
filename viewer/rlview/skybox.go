package rlview

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/scene"
)

// skyFace is one side of a cube texture. The suffixes follow the six-file
// layout Babylon's CubeTexture reads: base_px.jpg, base_nx.jpg and so on.
type skyFace struct {
	suffix string
	dir    mgl32.Vec3
}

var skyFaces = []skyFace{
	{"_px.jpg", mgl32.Vec3{1, 0, 0}},
	{"_py.jpg", mgl32.Vec3{0, 1, 0}},
	{"_pz.jpg", mgl32.Vec3{0, 0, 1}},
	{"_nx.jpg", mgl32.Vec3{-1, 0, 0}},
	{"_ny.jpg", mgl32.Vec3{0, -1, 0}},
	{"_nz.jpg", mgl32.Vec3{0, 0, -1}},
}

// placement is where a face's plane sits around a skybox of the given size
// and how to turn the plane's +Y normal so it faces the inside.
func (f skyFace) placement(center mgl32.Vec3, size float32) (mgl32.Vec3, mgl32.Quat) {
	return center.Add(f.dir.Mul(size / 2)), mgl32.QuatBetweenVectors(mgl32.Vec3{0, 1, 0}, f.dir.Mul(-1))
}

type skyPlane struct {
	face  skyFace
	model rl.Model
}

// skybox loads the six face textures of sky on first use. It returns nil
// when any face is missing, and the window falls back to a gradient.
func (w *Window) skybox(sky scene.Skybox) []skyPlane {
	if planes, ok := w.skies[sky.Texture]; ok {
		return planes
	}

	var textures []rl.Texture2D
	for _, face := range skyFaces {
		tex, ok := w.texture(sky.Texture + face.suffix)
		if !ok {
			w.skies[sky.Texture] = nil
			return nil
		}
		textures = append(textures, tex)
	}

	planes := make([]skyPlane, len(skyFaces))
	for i, face := range skyFaces {
		m := rl.LoadModelFromMesh(rl.GenMeshPlane(sky.Size, sky.Size, 1, 1))
		if m.Materials != nil && m.Materials.Maps != nil {
			m.Materials.Maps.Texture = textures[i]
		}
		planes[i] = skyPlane{face: face, model: m}
	}
	w.skies[sky.Texture] = planes
	return planes
}

// drawSkybox draws the faces behind everything else. The inside of the cube
// is seen, so culling is off and depth is not written.
func drawSkybox(planes []skyPlane, center mgl32.Vec3, size float32) {
	rl.DisableBackfaceCulling()
	rl.DisableDepthMask()
	for _, p := range planes {
		pos, rot := p.face.placement(center, size)
		axis, angle := axisAngle(rot)
		rl.DrawModelEx(p.model, toVector3(pos), axis, angle, rl.NewVector3(1, 1, 1), rl.White)
	}
	rl.EnableDepthMask()
	rl.EnableBackfaceCulling()
}
