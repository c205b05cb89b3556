package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/minimap"
)

// Graphics creates ebiten surfaces and label textures for a minimap.
type Graphics struct {
	// Background fills every new surface before each render.
	Background color.Color
}

func (g Graphics) NewSurface(width, height int) (minimap.Surface, error) {
	s, err := NewSurface(width, height)
	if err != nil {
		return nil, err
	}
	if g.Background != nil {
		s.SetBackground(g.Background)
	}
	return s, nil
}

func (g Graphics) NewLabel(label string, width, height int, clr color.Color) (*ebiten.Image, error) {
	return NewLabel(label, width, height, clr)
}
