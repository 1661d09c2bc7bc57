package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stagekit/ecs"
)

// Inspector lists a world's entities and edits the selected entity's
// components in place. Numbers, booleans, strings, and float triples (such
// as mgl32.Vec3) are editable; everything else is shown read-only.
type Inspector struct {
	// Label names an entity in the list. Nil falls back to the numeric ID.
	Label func(id ecs.EntityId) string

	selected *ecs.EntityRef
}

// Selected returns the selected entity, if it is still alive.
func (in *Inspector) Selected() (ecs.EntityId, bool) {
	if !in.selected.Alive() {
		return 0, false
	}
	return in.selected.Id, true
}

// Select makes id the selected entity.
func (in *Inspector) Select(storage *ecs.Storage, id ecs.EntityId) {
	in.selected = storage.CreateEntityRef(id)
}

func (in *Inspector) label(id ecs.EntityId) string {
	if in.Label != nil {
		if name := in.Label(id); name != "" {
			return name
		}
	}
	return fmt.Sprintf("entity %d", id)
}

// Render draws the inspector window.
func (in *Inspector) Render(storage *ecs.Storage) {
	if !imgui.BeginV("Entities", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	current, hasSelection := in.Selected()
	for _, arch := range storage.Archetypes() {
		for id := range arch.Iter() {
			if imgui.SelectableBoolV(fmt.Sprintf("%s##%d", in.label(id), id), hasSelection && id == current, imgui.SelectableFlagsNone, imgui.NewVec2(0, 0)) {
				in.Select(storage, id)
			}
		}
	}

	id, ok := in.Selected()
	if !ok {
		return
	}
	imgui.Separator()
	imgui.Text(in.label(id))

	arch := storage.ArchetypeOf(id)
	for _, t := range arch.Types() {
		comp := storage.GetComponent(id, t)
		if comp == nil {
			continue
		}
		if imgui.TreeNodeStr(t.Name()) {
			renderValue(reflect.ValueOf(comp).Elem())
			imgui.TreePop()
		}
	}
}

func renderValue(v reflect.Value) {
	if v.Kind() != reflect.Struct {
		renderField(v.Type().Name(), v)
		return
	}
	for _, f := range Fields(v.Type()) {
		renderField(f.Name, v.Field(f.Index))
	}
}

func renderField(name string, v reflect.Value) {
	label := "##" + name
	switch {
	case isFloat3(v.Type()):
		vec := v.Convert(float3Type).Interface().([3]float32)
		imgui.Text(name)
		imgui.SameLine()
		if imgui.DragFloat3(label, &vec) && v.CanSet() {
			v.Set(reflect.ValueOf(vec).Convert(v.Type()))
		}
		return
	}

	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		f := float32(v.Float())
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.DragFloat(label, &f) && v.CanSet() {
			v.SetFloat(float64(f))
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := int32(v.Int())
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(150)
		if imgui.InputInt(label, &i) && v.CanSet() {
			v.SetInt(int64(i))
		}

	case reflect.Bool:
		b := v.Bool()
		if imgui.Checkbox(name, &b) && v.CanSet() {
			v.SetBool(b)
		}

	case reflect.String:
		s := v.String()
		imgui.Text(name)
		imgui.SameLine()
		imgui.SetNextItemWidth(200)
		if imgui.InputTextWithHint(label, "", &s, imgui.InputTextFlagsNone, nil) && v.CanSet() {
			v.SetString(s)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name) {
			renderValue(v)
			imgui.TreePop()
		}

	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			imgui.Text(name + ": nil")
		} else {
			imgui.Text(fmt.Sprintf("%s: %T", name, v.Interface()))
		}

	default:
		if v.CanInterface() {
			imgui.Text(fmt.Sprintf("%s: %v", name, v.Interface()))
		} else {
			imgui.Text(name + ": " + v.Type().String())
		}
	}
}
