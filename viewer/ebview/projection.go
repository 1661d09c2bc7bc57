package ebview

import "github.com/go-gl/mathgl/mgl32"

const (
	minZoom = 4
	maxZoom = 120
)

// Projection maps the world's XZ plane onto the screen, looking straight
// down. +X is right and +Z is up, so the default camera sits at the bottom
// of the view.
type Projection struct {
	// CenterX and CenterZ are the world point drawn at the screen centre.
	CenterX, CenterZ float32
	// Zoom is pixels per world unit.
	Zoom float32

	Width, Height int
}

// ToScreen projects a world position. Height is ignored.
func (p Projection) ToScreen(pos mgl32.Vec3) (x, y float32) {
	x = float32(p.Width)/2 + (pos.X()-p.CenterX)*p.Zoom
	y = float32(p.Height)/2 - (pos.Z()-p.CenterZ)*p.Zoom
	return x, y
}

// ToWorld is the inverse of ToScreen on the ground plane.
func (p Projection) ToWorld(x, y float32) (wx, wz float32) {
	wx = p.CenterX + (x-float32(p.Width)/2)/p.Zoom
	wz = p.CenterZ - (y-float32(p.Height)/2)/p.Zoom
	return wx, wz
}

// ZoomAt changes Zoom by factor while keeping the world point under (x, y)
// fixed on screen.
func (p *Projection) ZoomAt(x, y, factor float32) {
	wx, wz := p.ToWorld(x, y)
	p.Zoom = min(max(p.Zoom*factor, minZoom), maxZoom)
	nx, nz := p.ToWorld(x, y)
	p.CenterX += wx - nx
	p.CenterZ += wz - nz
}
