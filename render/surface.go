package render

import (
	"errors"
	"image"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/minimap/scene"
)

var ErrInvalidSize = errors.New("render: surface size must be positive")

var (
	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Surface is an offscreen target that draws a render graph through a camera.
// It never writes to the nodes it draws.
type Surface struct {
	img        *ebiten.Image
	background color.Color
	edge       float32
}

// NewSurface allocates a width×height pixel target. Sizes are in device
// pixels; callers multiply logical size by the device scale factor.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidSize
	}
	return &Surface{
		img:        ebiten.NewImage(width, height),
		background: color.Transparent,
		edge:       1,
	}, nil
}

// SetBackground changes the clear color used before every render.
func (s *Surface) SetBackground(clr color.Color) {
	if s == nil || clr == nil {
		return
	}
	s.background = clr
}

// Image returns the backing image, or nil after Release.
func (s *Surface) Image() *ebiten.Image {
	if s == nil {
		return nil
	}
	return s.img
}

// Release frees the backing image. Safe to call more than once.
func (s *Surface) Release() {
	if s == nil || s.img == nil {
		return
	}
	s.img.Deallocate()
	s.img = nil
}

type drawItem struct {
	node  *scene.Node
	world mgl64.Mat4
	depth float64
	order int
}

// Render clears the surface and draws every visible node whose layers
// intersect the camera's. Depth-tested nodes are drawn far to near, then
// nodes with depth testing disabled are drawn on top in graph order.
func (s *Surface) Render(root *scene.Node, cam scene.Camera) {
	if s == nil || s.img == nil || root == nil || cam == nil {
		return
	}
	s.img.Fill(s.background)

	w, h := s.img.Bounds().Dx(), s.img.Bounds().Dy()
	tested, overlay := collect(root, cam, w, h)
	for _, it := range tested {
		s.draw(it, cam, w, h)
	}
	for _, it := range overlay {
		s.draw(it, cam, w, h)
	}
}

// collect walks the visible part of root and keeps the nodes with geometry on
// one of cam's layers. tested is sorted far to near; overlay keeps graph order.
func collect(root *scene.Node, cam scene.Camera, w, h int) (tested, overlay []drawItem) {
	mask := cam.CameraLayers()
	order := 0
	root.Traverse(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Geometry == nil || !n.Layers.Test(mask) {
			return true
		}
		world := n.WorldMatrix()
		_, _, depth, ok := scene.Project(cam, world.Col(3).Vec3(), w, h)
		if !ok {
			return true
		}
		item := drawItem{node: n, world: world, depth: depth, order: order}
		order++
		if n.DepthTest {
			tested = append(tested, item)
		} else {
			overlay = append(overlay, item)
		}
		return true
	})

	sort.SliceStable(tested, func(i, j int) bool {
		if tested[i].depth != tested[j].depth {
			return tested[i].depth > tested[j].depth
		}
		return tested[i].order < tested[j].order
	})
	return tested, overlay
}

func (s *Surface) draw(it drawItem, cam scene.Camera, w, h int) {
	switch g := it.node.Geometry.(type) {
	case scene.Sprite:
		s.drawSprite(it, g, cam, w, h)
	case scene.Mesh:
		s.drawMesh(it, g, cam, w, h)
	}
}

func (s *Surface) drawMesh(it drawItem, m scene.Mesh, cam scene.Camera, w, h int) {
	outline := m.Outline()
	if len(outline) < 3 {
		return
	}

	r, g, b, a := colorComponents(it.node.Color)
	vs := make([]ebiten.Vertex, 0, len(outline))
	for _, p := range outline {
		x, y, _, ok := scene.Project(cam, it.world.Mul4x1(p.Vec4(1)).Vec3(), w, h)
		if !ok {
			return
		}
		vs = append(vs, ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}

	is := make([]uint16, 0, (len(vs)-2)*3)
	for i := 1; i+1 < len(vs); i++ {
		is = append(is, 0, uint16(i), uint16(i+1))
	}
	op := &ebiten.DrawTrianglesOptions{AntiAlias: true}
	s.img.DrawTriangles(vs, is, whiteSubImage, op)

	edge := color.NRGBA{A: 180}
	for i := range vs {
		next := vs[(i+1)%len(vs)]
		vector.StrokeLine(s.img, vs[i].DstX, vs[i].DstY, next.DstX, next.DstY, s.edge, edge, true)
	}
}

func (s *Surface) drawSprite(it drawItem, sp scene.Sprite, cam scene.Camera, w, h int) {
	if sp.Image == nil {
		return
	}
	center := it.world.Col(3).Vec3()
	right, up, _ := cam.Basis()
	scale := it.node.Scale

	cx, cy, _, ok := scene.Project(cam, center, w, h)
	if !ok {
		return
	}
	rx, ry, _, okR := scene.Project(cam, center.Add(right.Mul(scale.X()/2)), w, h)
	ux, uy, _, okU := scene.Project(cam, center.Add(up.Mul(scale.Y()/2)), w, h)
	if !okR || !okU {
		return
	}
	halfW := mgl64.Vec2{rx - cx, ry - cy}.Len()
	halfH := mgl64.Vec2{ux - cx, uy - cy}.Len()

	bounds := sp.Image.Bounds()
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	if iw == 0 || ih == 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-iw/2, -ih/2)
	op.GeoM.Scale(2*halfW/iw, 2*halfH/ih)
	op.GeoM.Translate(cx, cy)
	op.Filter = ebiten.FilterLinear
	if it.node.Color != nil {
		op.ColorScale.ScaleWithColor(it.node.Color)
	}
	s.img.DrawImage(sp.Image, op)
}

func colorComponents(clr color.Color) (r, g, b, a float32) {
	if clr == nil {
		return 1, 1, 1, 1
	}
	cr, cg, cb, ca := clr.RGBA()
	return float32(cr) / 0xffff, float32(cg) / 0xffff, float32(cb) / 0xffff, float32(ca) / 0xffff
}
