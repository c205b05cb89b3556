package main

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/minimap/minimap"
	"golang.org/x/image/font/basicfont"
)

var errNoImage = errors.New("overlay: surface has no image")

// Overlay is the HUD layer. It mounts minimap surfaces in the top right
// corner and shows a status line in the bottom left.
type Overlay struct {
	UI *ebitenui.UI

	root    *widget.Container
	status  *widget.Text
	mounted map[string]*widget.Graphic
}

func NewOverlay() *Overlay {
	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout(
			widget.AnchorLayoutOpts.Padding(&widget.Insets{Top: 16, Bottom: 16, Left: 16, Right: 16}),
		)),
	)

	statusPanel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 160})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 6, Bottom: 6, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionStart,
				VerticalPosition:   widget.AnchorLayoutPositionEnd,
			}),
		),
	)
	status := widget.NewText(
		widget.TextOpts.Text("", &face, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}),
	)
	statusPanel.AddChild(status)
	root.AddChild(statusPanel)

	return &Overlay{
		UI:      &ebitenui.UI{Container: root},
		root:    root,
		status:  status,
		mounted: make(map[string]*widget.Graphic),
	}
}

func (o *Overlay) Attach(id string, s minimap.Surface) error {
	if s == nil || s.Image() == nil {
		return errNoImage
	}
	if _, ok := o.mounted[id]; ok {
		return fmt.Errorf("overlay: %s already mounted", id)
	}

	img := s.Image()
	b := img.Bounds()
	graphic := widget.NewGraphic(
		widget.GraphicOpts.Image(img),
		widget.GraphicOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(b.Dx(), b.Dy()),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
			}),
		),
	)
	o.root.AddChild(graphic)
	o.mounted[id] = graphic
	return nil
}

func (o *Overlay) Detach(id string) {
	graphic, ok := o.mounted[id]
	if !ok {
		return
	}
	o.root.RemoveChild(graphic)
	delete(o.mounted, id)
}

func (o *Overlay) SetStatus(s string) {
	o.status.Label = s
}

func (o *Overlay) Update() {
	o.UI.Update()
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	o.UI.Draw(screen)
}
