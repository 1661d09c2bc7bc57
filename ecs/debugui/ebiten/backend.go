// Package ebiten hosts debugui panels inside an Ebiten game loop.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// Backend is the Ebiten renderer for Dear ImGui. One Backend drives one
// window.
type Backend struct {
	*ebitenbackend.EbitenBackend
}

// NewBackend creates the window and the ImGui context. ImGui's ini file is
// disabled so panel layout never leaks between runs.
func NewBackend(title string, width, height int) *Backend {
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &Backend{EbitenBackend: b}
}

// Frame runs fn inside an ImGui frame. Scene and panel systems must execute
// within fn so deferred panel renders land in this frame.
func (b *Backend) Frame(fn func()) {
	b.BeginFrame()
	defer b.EndFrame()
	fn()
}

// DrawOver draws the ImGui overlay on top of screen.
func (b *Backend) DrawOver(screen *ebiten.Image) {
	b.Draw(screen)
}
