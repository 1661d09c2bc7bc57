package ebview

import (
	"cmp"
	"image"
	"image/color"
	"slices"
	"sync"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/scene"
)

var (
	background  = color.NRGBA{24, 26, 32, 255}
	outline     = color.NRGBA{12, 12, 16, 255}
	skyOutline  = color.NRGBA{90, 110, 150, 255}
	cameraColor = color.NRGBA{240, 240, 240, 255}
)

// Layers are drawn back to front.
type layer int

const (
	layerGround layer = iota
	layerMesh
	layerLight
	layerCamera
)

type drawItem struct {
	Name      *scene.Name `ecs:"optional"`
	Transform *scene.Transform
	Mesh      *scene.Mesh     `ecs:"optional"`
	Material  *scene.Material `ecs:"optional"`
	Light     *scene.Light    `ecs:"optional"`
	Camera    *scene.Camera   `ecs:"optional"`
	Skybox    *scene.Skybox   `ecs:"optional"`
}

func (d *drawItem) layer() layer {
	switch {
	case d.Skybox != nil, d.Mesh != nil && d.Mesh.Kind == scene.MeshGround:
		return layerGround
	case d.Mesh != nil:
		return layerMesh
	case d.Light != nil:
		return layerLight
	default:
		return layerCamera
	}
}

// Renderer draws a top-down plan of a scene onto an offscreen canvas. It is
// the scene's render step, so the plan shows the world between the
// before-render and after-render systems.
type Renderer struct {
	Projection *Projection
	Labels     bool

	view   *ecs.View[drawItem]
	canvas *ebiten.Image
	items  []drawItem
}

func NewRenderer(storage *ecs.Storage, projection *Projection) *Renderer {
	return &Renderer{
		Projection: projection,
		Labels:     true,
		view:       ecs.NewView[drawItem](storage),
	}
}

// Canvas returns the last rendered plan, or nil before the first frame.
func (r *Renderer) Canvas() *ebiten.Image {
	return r.canvas
}

func (r *Renderer) ensureCanvas() {
	w, h := max(r.Projection.Width, 1), max(r.Projection.Height, 1)
	if r.canvas != nil {
		if b := r.canvas.Bounds(); b.Dx() == w && b.Dy() == h {
			return
		}
		r.canvas.Deallocate()
	}
	r.canvas = ebiten.NewImage(w, h)
}

// Render is passed to scene.Frame.
func (r *Renderer) Render(frame *ecs.UpdateFrame) {
	r.ensureCanvas()
	r.canvas.Fill(background)

	r.items = r.items[:0]
	for item := range r.view.Values() {
		r.items = append(r.items, item)
	}
	slices.SortStableFunc(r.items, func(a, b drawItem) int {
		return cmp.Compare(a.layer(), b.layer())
	})

	ambient := ambientLevel(r.items)
	for i := range r.items {
		item := &r.items[i]
		switch {
		case item.Skybox != nil:
			r.drawSkybox(item)
		case item.Mesh != nil:
			r.drawMesh(item, ambient)
		case item.Light != nil:
			r.drawLight(item)
		case item.Camera != nil:
			r.drawCamera(item)
		}
	}

	if r.Labels {
		for i := range r.items {
			r.drawLabel(&r.items[i])
		}
	}
}

func (r *Renderer) drawSkybox(item *drawItem) {
	p := r.Projection
	half := item.Skybox.Size / 2
	x, y := p.ToScreen(item.Transform.Position.Add(mgl32.Vec3{-half, 0, half}))
	vector.StrokeRect(r.canvas, x, y, item.Skybox.Size*p.Zoom, item.Skybox.Size*p.Zoom, 2, skyOutline, false)
}

func (r *Renderer) drawMesh(item *drawItem, ambient float32) {
	p := r.Projection
	diffuse := scene.White
	if item.Material != nil {
		diffuse = item.Material.Diffuse
	}

	pos := item.Transform.Position
	size := item.Mesh.Size
	switch item.Mesh.Kind {
	case scene.MeshGround:
		x, y := p.ToScreen(pos.Add(mgl32.Vec3{-size.X() / 2, 0, size.Z() / 2}))
		vector.DrawFilledRect(r.canvas, x, y, size.X()*p.Zoom, size.Z()*p.Zoom, shade(diffuse, ambient*0.5, 255), false)
	case scene.MeshBox:
		// Boxes spin, so the footprint is the rotated square's corners.
		var path vector.Path
		corners := footprint(item.Transform.Rotation, size)
		for i, c := range corners {
			x, y := p.ToScreen(pos.Add(c))
			if i == 0 {
				path.MoveTo(x, y)
			} else {
				path.LineTo(x, y)
			}
		}
		path.Close()
		fillPath(r.canvas, &path, shade(diffuse, heightShade(ambient, pos.Y()), 255))
		x, y := p.ToScreen(pos)
		vector.DrawFilledCircle(r.canvas, x, y, 2, outline, true)
	case scene.MeshSphere:
		x, y := p.ToScreen(pos)
		radius := size.X() / 2 * p.Zoom
		vector.DrawFilledCircle(r.canvas, x, y, radius, shade(diffuse, heightShade(ambient, pos.Y()), 255), true)
		vector.StrokeCircle(r.canvas, x, y, radius, 1, outline, true)
		if item.Material != nil && item.Material.Texture != "" {
			// Mark which way the textured face points.
			fx, fy := p.ToScreen(pos.Add(item.Transform.Rotation.Rotate(mgl32.Vec3{0, 0, size.Z() / 2})))
			vector.StrokeLine(r.canvas, x, y, fx, fy, 2, outline, true)
		}
	}
}

func (r *Renderer) drawLight(item *drawItem) {
	p := r.Projection
	light := item.Light
	pos := item.Transform.Position
	x, y := p.ToScreen(pos)

	switch light.Kind {
	case scene.LightSpot:
		if hit, radius, ok := spotPool(pos, light.Direction, light.Angle); ok {
			hx, hy := p.ToScreen(hit)
			alpha := uint8(min(max(light.Intensity/4, 0), 1) * 160)
			vector.DrawFilledCircle(r.canvas, hx, hy, radius*p.Zoom, shade(light.Diffuse, 1, alpha), true)
			vector.StrokeLine(r.canvas, x, y, hx, hy, 1, shade(light.Diffuse, 1, 200), true)
		}
	case scene.LightHemispheric:
		// Hemispheric lights have no position; show the sky direction from
		// the view's corner instead.
		cx, cy := float32(28), float32(p.Height-28)
		dir := mgl32.Vec3{light.Direction.X(), 0, light.Direction.Z()}
		if dir.Len() > 0 {
			dir = dir.Normalize().Mul(20)
		}
		vector.StrokeCircle(r.canvas, cx, cy, 20, 1, skyOutline, true)
		vector.StrokeLine(r.canvas, cx, cy, cx+dir.X(), cy-dir.Z(), 2, shade(light.Diffuse, light.Intensity, 255), true)
		return
	}
	vector.DrawFilledCircle(r.canvas, x, y, 4+min(light.Intensity, 4)*2, shade(light.Diffuse, 1, 255), true)
	vector.StrokeCircle(r.canvas, x, y, 4+min(light.Intensity, 4)*2, 1, outline, true)
}

func (r *Renderer) drawCamera(item *drawItem) {
	if item.Camera == nil {
		return
	}
	p := r.Projection
	x, y := p.ToScreen(item.Camera.Position())
	tx, ty := p.ToScreen(item.Camera.Target)
	vector.StrokeLine(r.canvas, x, y, tx, ty, 1, cameraColor, true)
	vector.DrawFilledRect(r.canvas, x-4, y-4, 8, 8, cameraColor, false)
}

func (r *Renderer) drawLabel(item *drawItem) {
	if item.Name == nil || item.Skybox != nil || (item.Light != nil && item.Light.Kind == scene.LightHemispheric) {
		return
	}
	pos := item.Transform.Position
	if item.Camera != nil {
		pos = item.Camera.Position()
	}
	if item.Mesh != nil && item.Mesh.Kind == scene.MeshGround {
		pos = pos.Add(mgl32.Vec3{-item.Mesh.Size.X() / 2, 0, item.Mesh.Size.Z() / 2})
	}
	x, y := r.Projection.ToScreen(pos)
	ebitenutil.DebugPrintAt(r.canvas, item.Name.Role, int(x)+6, int(y)+6)
}

func fillPath(dst *ebiten.Image, path *vector.Path, clr color.Color) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := clr.RGBA()
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR = float32(r) / 0xffff
		vs[i].ColorG = float32(g) / 0xffff
		vs[i].ColorB = float32(b) / 0xffff
		vs[i].ColorA = float32(a) / 0xffff
	}
	dst.DrawTriangles(vs, is, whitePixel(), &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

var whitePixel = sync.OnceValue(func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
})

// footprint returns the XZ corners of a box of the given size after
// rotation, in drawing order.
func footprint(rotation mgl32.Quat, size mgl32.Vec3) [4]mgl32.Vec3 {
	hx, hz := size.X()/2, size.Z()/2
	corners := [4]mgl32.Vec3{{-hx, 0, -hz}, {hx, 0, -hz}, {hx, 0, hz}, {-hx, 0, hz}}
	for i, c := range corners {
		v := rotation.Rotate(c)
		corners[i] = mgl32.Vec3{v.X(), 0, v.Z()}
	}
	return corners
}

// spotPool returns where a spotlight's axis meets the ground and the radius
// of the lit circle there. ok is false for lights that do not point down.
func spotPool(pos, dir mgl32.Vec3, angle float32) (hit mgl32.Vec3, radius float32, ok bool) {
	if dir.Y() >= 0 || pos.Y() <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	d := dir.Normalize()
	dist := -pos.Y() / d.Y()
	hit = pos.Add(d.Mul(dist))
	hit[1] = 0
	return hit, dist * math32.Tan(angle/2), true
}

// ambientLevel is the brightness hemispheric lights give unlit surfaces.
func ambientLevel(items []drawItem) float32 {
	level := float32(0.35)
	for i := range items {
		if l := items[i].Light; l != nil && l.Kind == scene.LightHemispheric {
			level += l.Intensity
		}
	}
	return min(level, 1)
}

// heightShade brightens objects as they rise, so bobbing reads from above.
func heightShade(ambient, y float32) float32 {
	return min(ambient*(0.7+min(max(y, 0), 6)*0.05)+0.2, 1)
}

// shade scales c by level and clamps each channel to a byte.
func shade(c scene.Color, level float32, alpha uint8) color.NRGBA {
	channel := func(v float32) uint8 {
		return uint8(min(max(v*level, 0), 1)*255 + 0.5)
	}
	return color.NRGBA{channel(c.R), channel(c.G), channel(c.B), alpha}
}
