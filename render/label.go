package render

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gobold"
)

const (
	labelFontSize = 120
	shadowOffset  = 6
)

var (
	boldOnce   sync.Once
	boldSource *text.GoTextFaceSource
	boldErr    error
)

func boldFace(size float64) (text.Face, error) {
	boldOnce.Do(func() {
		boldSource, boldErr = text.NewGoTextFaceSource(bytes.NewReader(gobold.TTF))
	})
	if boldErr != nil {
		return nil, fmt.Errorf("render: load bold font: %w", boldErr)
	}
	return &text.GoTextFace{Source: boldSource, Size: size}, nil
}

// NewLabel rasterizes a centered bold label with a soft shadow onto a
// transparent width×height image.
func NewLabel(label string, width, height int, clr color.Color) (*ebiten.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	face, err := boldFace(labelFontSize)
	if err != nil {
		return nil, err
	}

	img := ebiten.NewImage(width, height)
	cx, cy := float64(width)/2, float64(height)/2

	// shadow: a few offset passes approximate a blur
	shadow := color.NRGBA{A: 0x50}
	for _, d := range [][2]float64{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}, {0, 0}} {
		op := &text.DrawOptions{}
		op.GeoM.Translate(cx+d[0]*shadowOffset/2, cy+d[1]*shadowOffset/2)
		op.ColorScale.ScaleWithColor(shadow)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(img, label, face, op)
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(clr)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(img, label, face, op)

	return img, nil
}
