// Package ebiten provides Dear ImGui backend integration for the Ebiten
// game engine. Use this to host the debugdraw stats panel inside an
// Ebiten game loop.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}
