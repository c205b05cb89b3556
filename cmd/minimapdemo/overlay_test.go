package main

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/minimap"
	"github.com/milk9111/minimap/scene"
	"github.com/stretchr/testify/assert"
)

type blankSurface struct{}

func (blankSurface) Render(*scene.Node, scene.Camera) {}
func (blankSurface) Image() *ebiten.Image             { return nil }
func (blankSurface) Release()                         {}

func TestOverlayRejectsSurfaceWithoutImage(t *testing.T) {
	o := NewOverlay()
	assert.ErrorIs(t, o.Attach(minimap.ContainerID, blankSurface{}), errNoImage)
	assert.ErrorIs(t, o.Attach(minimap.ContainerID, nil), errNoImage)
	assert.Empty(t, o.mounted)
}

func TestOverlayDetachUnknownIsNoop(t *testing.T) {
	o := NewOverlay()
	assert.NotPanics(t, func() { o.Detach("missing") })
	o.SetStatus("ready")
	assert.Equal(t, "ready", o.status.Label)
}
