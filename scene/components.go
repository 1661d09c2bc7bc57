package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/anim"
	"github.com/plus3/stagekit/audio"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/input"
)

// Name is the role an entity was created under.
type Name struct {
	Role string
}

type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func at(position mgl32.Vec3) Transform {
	return Transform{Position: position, Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

type MeshKind int

const (
	MeshBox MeshKind = iota
	MeshSphere
	MeshGround
)

func (k MeshKind) String() string {
	switch k {
	case MeshBox:
		return "box"
	case MeshSphere:
		return "sphere"
	case MeshGround:
		return "ground"
	default:
		return "mesh"
	}
}

// Mesh describes a primitive. Size is the box edge lengths, the sphere
// diameter on every axis, or the ground width and depth in X and Z.
type Mesh struct {
	Kind     MeshKind
	Size     mgl32.Vec3
	Segments int
}

// Color channels may exceed 1 to over-drive a light or material.
type Color struct {
	R, G, B float32
}

var (
	White   = Color{1, 1, 1}
	Black   = Color{}
	Magenta = Color{1, 0, 1}
)

type Material struct {
	Diffuse         Color
	Specular        Color
	Texture         string
	BackFaceCulling bool
}

type LightKind int

const (
	LightHemispheric LightKind = iota
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightHemispheric:
		return "hemispheric"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "light"
	}
}

// Light is positioned by the entity's Transform. Direction is the sky
// direction for hemispheric lights and the cone axis for spotlights.
type Light struct {
	Kind      LightKind
	Direction mgl32.Vec3
	Intensity float32
	Diffuse   Color
	Specular  Color
	Angle     float32
	Exponent  float32
}

// Camera orbits Target at Radius. Alpha is the longitudinal angle and Beta
// the latitudinal angle measured from +Y.
type Camera struct {
	Alpha, Beta, Radius float32
	Target              mgl32.Vec3
	// UserControl lets viewers rotate and zoom the camera with the mouse.
	UserControl bool
}

// Position returns the camera's location in world space.
func (c Camera) Position() mgl32.Vec3 {
	sinBeta := math32.Sin(c.Beta)
	return c.Target.Add(mgl32.Vec3{
		c.Radius * math32.Cos(c.Alpha) * sinBeta,
		c.Radius * math32.Cos(c.Beta),
		c.Radius * math32.Sin(c.Alpha) * sinBeta,
	})
}

// Orbit turns the camera around its target. Beta stays clear of the poles so
// the camera never flips over.
func (c *Camera) Orbit(dAlpha, dBeta float32) {
	c.Alpha += dAlpha
	c.Beta = min(max(c.Beta+dBeta, minBeta), math32.Pi-minBeta)
}

// Zoom scales the distance to the target, keeping it at least minRadius.
func (c *Camera) Zoom(factor float32) {
	c.Radius = max(c.Radius*factor, minRadius)
}

const (
	minBeta   = 0.01
	minRadius = 1
)

type Skybox struct {
	Size    float32
	Texture string
}

// Sound is a background track. Looping sounds are restarted whenever they
// are found stopped; autoplay sounds are started once.
type Sound struct {
	Path     string
	Loop     bool
	Autoplay bool
	Player   audio.Player

	started bool
	err     error
}

// Err returns the error from the last failed start, if any.
func (s *Sound) Err() error {
	return s.err
}

// Controlled entities translate on the ground plane while their bound keys
// are held.
type Controlled struct {
	Step float32
	Keys input.Bindings
}

// Spin rotates the entity about Axis by one full turn per period of Phase.
type Spin struct {
	Axis  mgl32.Vec3
	Phase anim.Phase
}

// Orbit moves the entity around an ellipse in the XZ plane at Center's
// height. If the entity is a light its intensity follows Amplitude·sin θ.
type Orbit struct {
	Center           mgl32.Vec3
	RadiusX, RadiusZ float32
	Amplitude        float32
	Phase            anim.Phase
}

// Bob sets the entity's height to Base + Range·sin θ. A negative Range moves
// opposite to a positive one on the same phase.
type Bob struct {
	Base  float32
	Range float32
	Phase anim.Phase
}

// Pulse drives a light's intensity with a triangle wave.
type Pulse struct {
	Wave anim.Triangle
}

// FaceCamera keeps the entity's local +Z pointed at the active camera.
type FaceCamera struct{}

// ActiveCamera names the camera viewers render through.
type ActiveCamera struct {
	Ref *ecs.EntityRef
}

// Timing selects how per-frame deltas relate to elapsed time.
type Timing struct {
	TimeScaled   bool
	ReferenceFPS float64
}

// Scale returns the number of reference frames dt represents, or 1 when time
// scaling is off.
func (t Timing) Scale(dt float64) float32 {
	if !t.TimeScaled || t.ReferenceFPS <= 0 {
		return 1
	}
	return float32(dt * t.ReferenceFPS)
}

func newRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Mesh](registry)
	ecs.RegisterComponent[Material](registry)
	ecs.RegisterComponent[Light](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Skybox](registry)
	ecs.RegisterComponent[Sound](registry)
	ecs.RegisterComponent[Controlled](registry)
	ecs.RegisterComponent[Spin](registry)
	ecs.RegisterComponent[Orbit](registry)
	ecs.RegisterComponent[Bob](registry)
	ecs.RegisterComponent[Pulse](registry)
	ecs.RegisterComponent[FaceCamera](registry)
	return registry
}
