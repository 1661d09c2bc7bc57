package scene

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stagekit/anim"
	"github.com/plus3/stagekit/config"
)

var ErrUnknownPreset = errors.New("unknown preset")

type preset func(b *Builder, cfg config.Config)

var presets = map[string]preset{
	"start":      buildStart,
	"spotlights": buildSpotlights,
	"orbit":      buildOrbit,
}

// Presets lists the scenes Load can build, sorted by name.
func Presets() []string {
	return slices.Sorted(maps.Keys(presets))
}

// Load builds the named preset. Timing comes from cfg; opts are applied
// after it and may override it.
func Load(name string, cfg config.Config, opts ...Option) (*Scene, error) {
	build, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, Presets())
	}

	timing := Timing{TimeScaled: cfg.Movement.TimeScaled, ReferenceFPS: cfg.Movement.ReferenceFPS}
	b := NewBuilder(name, append([]Option{WithTiming(timing)}, opts...)...)
	build(b, cfg)
	return b.Build()
}

// addCamera adds the arc-rotate camera every preset views through.
func addCamera(b *Builder) {
	b.ArcRotateCamera("camera", -math32.Pi/2, math32.Pi/2.5, 10, mgl32.Vec3{})
}

// buildStart is a keyboard-driven box on a large ground under a skybox.
func buildStart(b *Builder, cfg config.Config) {
	b.Box("box", 1, mgl32.Vec3{0, 0.5, 0}, Material{Diffuse: Magenta}).
		HemisphericLight("light", mgl32.Vec3{1, 1, 0}, 0.3).
		Ground("ground", 20, 20, Material{Diffuse: Color{2, 3, 3}})
	addCamera(b)
	b.Skybox("sky", 150, cfg.Assets.Skybox).
		Controlled("box", cfg.Movement.Step, cfg.Movement.Keys)
}

// buildSpotlights is two camera-facing spheres lit by a red and a blue
// spotlight pulsing in opposite directions, with looping music.
func buildSpotlights(b *Builder, cfg config.Config) {
	a := cfg.Animation
	textured := func(path string) Material {
		return Material{Diffuse: White, Texture: path}
	}
	spotDir := mgl32.Vec3{-1, -2, -1}
	spotPos := mgl32.Vec3{5, 20, 10}

	b.Sphere("companion", 2, 32, mgl32.Vec3{3, 1, 1}, textured(cfg.Assets.CompanionTexture)).
		Sphere("sphere", 2, 32, mgl32.Vec3{0, 1, 0}, textured(cfg.Assets.SphereTexture)).
		Ground("ground", 6, 6, Material{Diffuse: White})
	addCamera(b)
	b.Music("music", cfg.Assets.Music, true, false).
		SpotLight("light", spotPos, spotDir, math32.Pi/3, 2, 3, Color{4, 0, 0}).
		SpotLight("light2", spotPos, spotDir, math32.Pi/3, 2, 3, Color{0, 0, 1}).
		FaceCamera("companion").
		FaceCamera("sphere").
		Pulse("light", anim.Triangle{Value: 3, Floor: a.PulseFloor, Ceiling: a.PulseCeil, Step: a.PulseStep, Rising: true}).
		Pulse("light2", anim.Triangle{Value: 3, Floor: a.PulseFloor, Ceiling: a.PulseCeil, Step: a.PulseStep, Rising: false})
}

// buildOrbit is a spinning box and a sphere bobbing in opposition while a
// spotlight circles overhead.
func buildOrbit(b *Builder, cfg config.Config) {
	a := cfg.Animation
	center := mgl32.Vec3{1, 20, 5}

	b.Box("box", 1, mgl32.Vec3{0, 4, 0}, Material{Diffuse: Magenta}).
		Sphere("sphere", 1, 32, mgl32.Vec3{0, 1.5, 0}, Material{Diffuse: White}).
		Ground("ground", 20, 20, Material{Diffuse: Color{0.5, 0.5, 0.5}}).
		HemisphericLight("fill", mgl32.Vec3{1, 1, 0}, 0.3).
		SpotLight("light", anim.Ellipse(center, 8, 10, anim.Phase{}), mgl32.Vec3{0, -1, 0}, math32.Pi/3, 2, 0, White)
	addCamera(b)
	b.Spin("box", mgl32.Vec3{0, 0, 1}, anim.NewPhase(a.SpinStart, a.SpinSpeed)).
		Orbit("light", center, 8, 10, 0.7, anim.NewPhase(0, a.OrbitSpeed)).
		Bob("box", 4, a.BobRange, anim.NewPhase(0, a.BobSpeed)).
		Bob("sphere", 1.5, -a.BobRange, anim.NewPhase(0, a.BobSpeed))
}
