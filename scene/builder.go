package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/anim"
	"github.com/plus3/stagekit/audio"
	"github.com/plus3/stagekit/ecs"
	"github.com/plus3/stagekit/input"
)

var (
	ErrDuplicateRole = errors.New("duplicate role")
	ErrUnknownRole   = errors.New("unknown role")
	ErrInvalidStep   = errors.New("invalid builder step")
	ErrAlreadyBuilt  = errors.New("builder already built")
)

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used by the builder and the resulting scene.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithAudio sets the factory that opens Music players.
func WithAudio(factory audio.Factory) Option {
	return func(b *Builder) {
		if factory != nil {
			b.audio = factory
		}
	}
}

// WithTiming sets how per-frame deltas scale with elapsed time.
func WithTiming(timing Timing) Option {
	return func(b *Builder) {
		b.timing = timing
	}
}

// Builder assembles a scene step by step. Each step validates its own
// arguments; failures are collected and reported together by Build, which
// then returns no scene.
type Builder struct {
	name    string
	storage *ecs.Storage
	logger  *slog.Logger
	audio   audio.Factory
	timing  Timing

	roles   []string
	refs    map[string]*ecs.EntityRef
	camera  string
	players []audio.Player
	errs    []error
	built   bool
}

// NewBuilder starts an empty scene called name.
func NewBuilder(name string, opts ...Option) *Builder {
	b := &Builder{
		name:    name,
		storage: ecs.NewStorage(newRegistry()),
		logger:  slog.Default(),
		audio:   audio.NewSilent,
		refs:    make(map[string]*ecs.EntityRef),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Err returns the errors collected so far.
func (b *Builder) Err() error {
	return errors.Join(b.errs...)
}

// fail records a step error. Once built, every step fails with
// ErrAlreadyBuilt and leaves the scene alone.
func (b *Builder) fail(step, role string, err error) *Builder {
	if b.built {
		err = ErrAlreadyBuilt
	}
	b.errs = append(b.errs, fmt.Errorf("%s %q: %w", step, role, err))
	return b
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidStep, fmt.Sprintf(format, args...))
}

// claim reports whether role can name a new entity, recording why not.
func (b *Builder) claim(step, role string) bool {
	if b.built {
		b.fail(step, role, ErrAlreadyBuilt)
		return false
	}
	if role == "" {
		b.fail(step, role, invalid("empty role"))
		return false
	}
	if _, taken := b.refs[role]; taken {
		b.fail(step, role, ErrDuplicateRole)
		return false
	}
	return true
}

// spawn creates a named entity unless role is empty or taken.
func (b *Builder) spawn(step, role string, components ...any) *Builder {
	if !b.claim(step, role) {
		return b
	}

	id := b.storage.Spawn(append([]any{Name{Role: role}}, components...)...)
	b.refs[role] = b.storage.CreateEntityRef(id)
	b.roles = append(b.roles, role)
	b.logger.Debug("entity created", "scene", b.name, "role", role, "step", step)
	return b
}

// attach adds a behaviour component to an existing role.
func (b *Builder) attach(step, role string, component any, requires ...reflect.Type) *Builder {
	if b.built {
		return b.fail(step, role, ErrAlreadyBuilt)
	}
	ref, ok := b.refs[role]
	if !ok {
		return b.fail(step, role, ErrUnknownRole)
	}
	for _, t := range requires {
		if !b.storage.HasComponent(ref.Id, t) {
			return b.fail(step, role, invalid("entity has no %s", t.Name()))
		}
	}
	if b.storage.HasComponent(ref.Id, reflect.TypeOf(component)) {
		return b.fail(step, role, invalid("behaviour already attached"))
	}
	b.storage.AddComponent(ref.Id, component)
	b.logger.Debug("behaviour attached", "scene", b.name, "role", role, "step", step)
	return b
}

var (
	transformType = reflect.TypeFor[Transform]()
	lightType     = reflect.TypeFor[Light]()
)

// Ground adds a flat width×depth plane at the origin.
func (b *Builder) Ground(role string, width, depth float32, material Material) *Builder {
	if width <= 0 || depth <= 0 {
		return b.fail("ground", role, invalid("size %vx%v must be positive", width, depth))
	}
	return b.spawn("ground", role,
		at(mgl32.Vec3{}),
		Mesh{Kind: MeshGround, Size: mgl32.Vec3{width, 0, depth}},
		material,
	)
}

// Box adds a cube with the given edge length.
func (b *Builder) Box(role string, size float32, position mgl32.Vec3, material Material) *Builder {
	if size <= 0 {
		return b.fail("box", role, invalid("size %v must be positive", size))
	}
	return b.spawn("box", role,
		at(position),
		Mesh{Kind: MeshBox, Size: mgl32.Vec3{size, size, size}},
		material,
	)
}

// Sphere adds a sphere with the given diameter and tessellation.
func (b *Builder) Sphere(role string, diameter float32, segments int, position mgl32.Vec3, material Material) *Builder {
	if diameter <= 0 {
		return b.fail("sphere", role, invalid("diameter %v must be positive", diameter))
	}
	if segments < 3 {
		return b.fail("sphere", role, invalid("segments %d must be at least 3", segments))
	}
	return b.spawn("sphere", role,
		at(position),
		Mesh{Kind: MeshSphere, Size: mgl32.Vec3{diameter, diameter, diameter}, Segments: segments},
		material,
	)
}

// HemisphericLight adds ambient light coming from direction.
func (b *Builder) HemisphericLight(role string, direction mgl32.Vec3, intensity float32) *Builder {
	if direction.Len() == 0 {
		return b.fail("hemispheric light", role, invalid("zero direction"))
	}
	if intensity < 0 {
		return b.fail("hemispheric light", role, invalid("intensity %v is negative", intensity))
	}
	return b.spawn("hemispheric light", role,
		at(mgl32.Vec3{}),
		Light{Kind: LightHemispheric, Direction: direction, Intensity: intensity, Diffuse: White, Specular: White},
	)
}

// PointLight adds a light radiating from position.
func (b *Builder) PointLight(role string, position mgl32.Vec3, intensity float32, color Color) *Builder {
	if intensity < 0 {
		return b.fail("point light", role, invalid("intensity %v is negative", intensity))
	}
	return b.spawn("point light", role,
		at(position),
		Light{Kind: LightPoint, Intensity: intensity, Diffuse: color, Specular: color},
	)
}

// SpotLight adds a cone of light at position pointing along direction.
// angle is the full cone angle in radians and exponent the falloff.
func (b *Builder) SpotLight(role string, position, direction mgl32.Vec3, angle, exponent, intensity float32, color Color) *Builder {
	if direction.Len() == 0 {
		return b.fail("spot light", role, invalid("zero direction"))
	}
	if angle <= 0 || angle >= 2*math32.Pi {
		return b.fail("spot light", role, invalid("angle %v out of range", angle))
	}
	if intensity < 0 {
		return b.fail("spot light", role, invalid("intensity %v is negative", intensity))
	}
	return b.spawn("spot light", role,
		at(position),
		Light{
			Kind:      LightSpot,
			Direction: direction,
			Intensity: intensity,
			Diffuse:   color,
			Specular:  color,
			Angle:     angle,
			Exponent:  exponent,
		},
	)
}

// ArcRotateCamera adds a camera orbiting target. The first camera added
// becomes the scene's active camera.
func (b *Builder) ArcRotateCamera(role string, alpha, beta, radius float32, target mgl32.Vec3) *Builder {
	if radius <= 0 {
		return b.fail("camera", role, invalid("radius %v must be positive", radius))
	}
	if !b.claim("camera", role) {
		return b
	}
	cam := Camera{Alpha: alpha, Beta: beta, Radius: radius, Target: target, UserControl: true}
	b.spawn("camera", role, at(cam.Position()), cam)
	if b.camera == "" {
		b.camera = role
	}
	return b
}

// Skybox adds a cube of the given size textured from the inside.
func (b *Builder) Skybox(role string, size float32, texture string) *Builder {
	if size <= 0 {
		return b.fail("skybox", role, invalid("size %v must be positive", size))
	}
	if texture == "" {
		return b.fail("skybox", role, invalid("empty texture path"))
	}
	return b.spawn("skybox", role,
		at(mgl32.Vec3{}),
		Skybox{Size: size, Texture: texture},
		Material{Diffuse: Black, Specular: Black, Texture: texture, BackFaceCulling: false},
	)
}

// Music adds a background track. Its player is opened immediately and
// closed when the scene is disposed or the build fails.
func (b *Builder) Music(role, path string, loop, autoplay bool) *Builder {
	if path == "" {
		return b.fail("music", role, invalid("empty path"))
	}
	if !b.claim("music", role) {
		return b
	}
	player, err := b.audio(path, loop)
	if err != nil {
		return b.fail("music", role, fmt.Errorf("open %s: %w", path, err))
	}
	b.players = append(b.players, player)
	return b.spawn("music", role, Sound{Path: path, Loop: loop, Autoplay: autoplay, Player: player})
}

// Controlled lets the bound keys move role by step per frame.
func (b *Builder) Controlled(role string, step float32, keys input.Bindings) *Builder {
	if step <= 0 {
		return b.fail("controlled", role, invalid("step %v must be positive", step))
	}
	if err := keys.Validate(); err != nil {
		return b.fail("controlled", role, fmt.Errorf("%w: %w", ErrInvalidStep, err))
	}
	return b.attach("controlled", role, Controlled{Step: step, Keys: keys}, transformType)
}

// Spin rotates role about axis.
func (b *Builder) Spin(role string, axis mgl32.Vec3, phase anim.Phase) *Builder {
	if axis.Len() == 0 {
		return b.fail("spin", role, invalid("zero axis"))
	}
	return b.attach("spin", role, Spin{Axis: axis, Phase: phase}, transformType)
}

// Orbit moves role around an ellipse centred on center.
func (b *Builder) Orbit(role string, center mgl32.Vec3, radiusX, radiusZ, amplitude float32, phase anim.Phase) *Builder {
	if radiusX < 0 || radiusZ < 0 {
		return b.fail("orbit", role, invalid("radii %v,%v must not be negative", radiusX, radiusZ))
	}
	return b.attach("orbit", role, Orbit{
		Center:    center,
		RadiusX:   radiusX,
		RadiusZ:   radiusZ,
		Amplitude: amplitude,
		Phase:     phase,
	}, transformType)
}

// Bob moves role up and down around base.
func (b *Builder) Bob(role string, base, rangeY float32, phase anim.Phase) *Builder {
	return b.attach("bob", role, Bob{Base: base, Range: rangeY, Phase: phase}, transformType)
}

// Pulse drives role's light intensity with wave. The light's intensity is
// set to the wave's starting value.
func (b *Builder) Pulse(role string, wave anim.Triangle) *Builder {
	if wave.Step <= 0 || wave.Floor >= wave.Ceiling {
		return b.fail("pulse", role, invalid("wave step %v over [%v,%v]", wave.Step, wave.Floor, wave.Ceiling))
	}
	if wave.Value < wave.Floor || wave.Value > wave.Ceiling {
		return b.fail("pulse", role, invalid("start %v outside [%v,%v]", wave.Value, wave.Floor, wave.Ceiling))
	}
	failed := len(b.errs)
	if b.attach("pulse", role, Pulse{Wave: wave}, lightType); len(b.errs) > failed {
		return b
	}
	if light := ecs.ReadComponent[Light](b.storage, b.refs[role].Id); light != nil {
		light.Intensity = wave.Value
	}
	return b
}

// FaceCamera keeps role turned towards the active camera.
func (b *Builder) FaceCamera(role string) *Builder {
	return b.attach("face camera", role, FaceCamera{}, transformType)
}

// Build returns the scene, or every error the steps reported. A Builder can
// only be built once.
func (b *Builder) Build() (*Scene, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}
	b.built = true

	if len(b.errs) > 0 {
		for _, p := range b.players {
			b.closePlayer(p)
		}
		return nil, fmt.Errorf("build scene %q: %w", b.name, errors.Join(b.errs...))
	}

	s := newScene(b.name, b.storage, newHandle(b.roles, b.refs), b.logger)

	b.storage.AddSingleton(s.input)
	b.storage.AddSingleton(b.timing)
	active := ActiveCamera{}
	if b.camera != "" {
		active.Ref = b.refs[b.camera]
	}
	b.storage.AddSingleton(active)

	s.scheduler.Register(&MovementSystem{})
	s.scheduler.Register(&MusicSystem{Logger: b.logger})
	s.scheduler.Register(&FaceCameraSystem{})
	s.scheduler.Register(&PulseSystem{})
	s.scheduler.RegisterStage(ecs.StageAfterRender, &SpinSystem{})
	s.scheduler.RegisterStage(ecs.StageAfterRender, &OrbitSystem{})
	s.scheduler.RegisterStage(ecs.StageAfterRender, &BobSystem{})

	for _, p := range b.players {
		s.OnDispose(func() { b.closePlayer(p) })
	}

	b.logger.Info("scene built", "scene", b.name, "entities", len(b.roles))
	return s, nil
}

func (b *Builder) closePlayer(p audio.Player) {
	if err := p.Close(); err != nil {
		b.logger.Warn("closing music player", "scene", b.name, "error", err)
	}
}
