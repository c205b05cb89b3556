package minimap

import (
	"errors"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/scene"
)

type fakeTarget struct {
	pos mgl64.Vec3
	rot mgl64.Quat
}

func (t *fakeTarget) WorldPosition() mgl64.Vec3   { return t.pos }
func (t *fakeTarget) WorldQuaternion() mgl64.Quat { return t.rot }

type fakeAim struct {
	aim mgl64.Vec3
}

func (a *fakeAim) AimPoint() mgl64.Vec3 { return a.aim }

type fakeVehicle struct {
	id  string
	pos mgl64.Vec3
	rot mgl64.Quat
}

func (v *fakeVehicle) Identity() string            { return v.id }
func (v *fakeVehicle) WorldPosition() mgl64.Vec3   { return v.pos }
func (v *fakeVehicle) WorldQuaternion() mgl64.Quat { return v.rot }

func vehicle(id string, x, z float64) *fakeVehicle {
	return &fakeVehicle{id: id, pos: mgl64.Vec3{x, 0, z}, rot: mgl64.QuatIdent()}
}

type fakeWorld struct {
	root     *scene.Node
	target   any
	forward  mgl64.Vec3
	vehicles []Trackable
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		root:    scene.NewGroup("world"),
		forward: mgl64.Vec3{0, 0, -1},
	}
}

func (w *fakeWorld) FocusTarget() any          { return w.target }
func (w *fakeWorld) CameraForward() mgl64.Vec3 { return w.forward }
func (w *fakeWorld) Vehicles() []Trackable     { return w.vehicles }
func (w *fakeWorld) Scene() *scene.Node        { return w.root }

func (w *fakeWorld) setVehicles(vs ...*fakeVehicle) {
	w.vehicles = w.vehicles[:0]
	for _, v := range vs {
		w.vehicles = append(w.vehicles, v)
	}
}

type renderCall struct {
	root *scene.Node
	cam  scene.Camera
}

type fakeSurface struct {
	width, height int
	renders       []renderCall
	released      int
}

func (s *fakeSurface) Render(root *scene.Node, cam scene.Camera) {
	s.renders = append(s.renders, renderCall{root: root, cam: cam})
}

func (s *fakeSurface) Image() *ebiten.Image { return nil }
func (s *fakeSurface) Release()             { s.released++ }

type fakeGraphics struct {
	surface    *fakeSurface
	surfaceErr error
	labelErr   error
	labels     []string
}

func (g *fakeGraphics) NewSurface(width, height int) (Surface, error) {
	if g.surfaceErr != nil {
		return nil, g.surfaceErr
	}
	g.surface = &fakeSurface{width: width, height: height}
	return g.surface, nil
}

func (g *fakeGraphics) NewLabel(label string, width, height int, clr color.Color) (*ebiten.Image, error) {
	if g.labelErr != nil {
		return nil, g.labelErr
	}
	g.labels = append(g.labels, label)
	return nil, nil
}

type fakeMount struct {
	attached  map[string]Surface
	attachErr error
	detached  int
}

func newFakeMount() *fakeMount {
	return &fakeMount{attached: map[string]Surface{}}
}

func (m *fakeMount) Attach(id string, s Surface) error {
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attached[id] = s
	return nil
}

func (m *fakeMount) Detach(id string) {
	delete(m.attached, id)
	m.detached++
}

var errBoom = errors.New("boom")
