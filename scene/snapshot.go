package scene

import "github.com/plus3/stagekit/ecs"

// Snapshot is the observable state of every named entity at one frame.
type Snapshot struct {
	Scene    string           `yaml:"scene"`
	Frame    uint64           `yaml:"frame"`
	Held     []string         `yaml:"held,omitempty"`
	Entities []EntitySnapshot `yaml:"entities"`
}

type EntitySnapshot struct {
	Role      string      `yaml:"role"`
	Kind      string      `yaml:"kind"`
	Position  *[3]float32 `yaml:"position,omitempty,flow"`
	Rotation  *[4]float32 `yaml:"rotation,omitempty,flow"`
	Intensity *float32    `yaml:"intensity,omitempty"`
	Playing   *bool       `yaml:"playing,omitempty"`
}

// Entity returns the snapshot for role.
func (s Snapshot) Entity(role string) (EntitySnapshot, bool) {
	for _, e := range s.Entities {
		if e.Role == role {
			return e, true
		}
	}
	return EntitySnapshot{}, false
}

type snapshotView struct {
	Transform *Transform `ecs:"optional"`
	Mesh      *Mesh      `ecs:"optional"`
	Light     *Light     `ecs:"optional"`
	Camera    *Camera    `ecs:"optional"`
	Skybox    *Skybox    `ecs:"optional"`
	Sound     *Sound     `ecs:"optional"`
}

// Snapshot captures the scene in role creation order. Rotations are written
// as (w, x, y, z).
func (s *Scene) Snapshot() Snapshot {
	view := ecs.NewView[snapshotView](s.storage)
	snap := Snapshot{
		Scene: s.name,
		Frame: s.scheduler.Frames(),
		Held:  s.input.Held(),
	}

	for role, ref := range s.handle.All() {
		item := view.GetRef(ref)
		if item == nil {
			continue
		}
		e := EntitySnapshot{Role: role, Kind: kindOf(item)}
		if t := item.Transform; t != nil {
			pos := [3]float32(t.Position)
			rot := [4]float32{t.Rotation.W, t.Rotation.X(), t.Rotation.Y(), t.Rotation.Z()}
			e.Position, e.Rotation = &pos, &rot
		}
		if item.Light != nil {
			intensity := item.Light.Intensity
			e.Intensity = &intensity
		}
		if item.Sound != nil && item.Sound.Player != nil {
			playing := item.Sound.Player.IsPlaying()
			e.Playing = &playing
		}
		snap.Entities = append(snap.Entities, e)
	}
	return snap
}

func kindOf(item *snapshotView) string {
	switch {
	case item.Skybox != nil:
		return "skybox"
	case item.Mesh != nil:
		return item.Mesh.Kind.String()
	case item.Light != nil:
		return item.Light.Kind.String() + " light"
	case item.Camera != nil:
		return "camera"
	case item.Sound != nil:
		return "sound"
	default:
		return "entity"
	}
}
