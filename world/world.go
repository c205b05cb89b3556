package world

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
	"github.com/milk9111/minimap/ecs/system"
	"github.com/milk9111/minimap/geom"
	"github.com/milk9111/minimap/minimap"
	"github.com/milk9111/minimap/prefabs"
	"github.com/milk9111/minimap/scene"
	"github.com/rs/zerolog"
)

var ErrNilSpec = errors.New("world: spec is nil")

// World is a small driving sandbox: a player on foot, a chase camera and
// script-driven traffic, all sharing one scene graph.
type World struct {
	ecs       *ecs.World
	scheduler *ecs.Scheduler
	input     *system.InputSystem
	traffic   *system.TrafficSystem
	physics   *system.PhysicsSystem

	root   *scene.Node
	camera *component.Camera

	player     ecs.Entity
	playerNode *scene.Node
	background color.Color
	log        zerolog.Logger
}

type Option func(*World)

// WithInput replaces device polling, mainly for tests and replays.
func WithInput(poll func() component.Input) Option {
	return func(w *World) {
		w.input.Poll = poll
	}
}

// WithoutTraffic skips the traffic script even when the world prefab names one.
func WithoutTraffic() Option {
	return func(w *World) {
		w.traffic = nil
	}
}

func New(spec *prefabs.WorldSpec, log zerolog.Logger, opts ...Option) (*World, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}

	w := &World{
		ecs:        ecs.NewWorld(),
		root:       scene.NewGroup("world"),
		input:      system.NewInputSystem(),
		physics:    system.NewPhysicsSystem(spec.Vehicles.Damping),
		background: spec.Terrain.Color.Or(color.NRGBA{R: 0x2f, G: 0x4f, B: 0x2f, A: 0xff}),
		log:        log.With().Str("component", "world").Logger(),
	}

	if spec.Traffic.Script != "" {
		traffic, err := system.NewTrafficSystem(w.root, spec.Traffic, spec.Vehicles, log)
		if err != nil {
			return nil, fmt.Errorf("world: %w", err)
		}
		w.traffic = traffic
	}

	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}

	if err := w.spawnPlayer(spec.Player); err != nil {
		return nil, err
	}
	if err := w.spawnCamera(spec.Camera); err != nil {
		return nil, err
	}

	w.scheduler = ecs.NewScheduler(
		w.input,
		&system.PlayerControllerSystem{HalfWidth: spec.Terrain.Width / 2, HalfDepth: spec.Terrain.Depth / 2},
	)
	if w.traffic != nil {
		w.scheduler.Add(w.traffic)
	}
	w.scheduler.Add(system.NewTTLSystem())
	w.scheduler.Add(w.physics)

	sceneSync, camera := system.NewSceneSyncSystem(), system.NewCameraSystem()
	w.scheduler.Add(sceneSync)
	w.scheduler.Add(camera)

	// settle the camera and nodes before the first frame without reading input
	sceneSync.Update(w.ecs)
	camera.Update(w.ecs)

	w.log.Debug().
		Bool("traffic", w.traffic != nil).
		Float64("terrain_width", spec.Terrain.Width).
		Float64("terrain_depth", spec.Terrain.Depth).
		Msg("world ready")
	return w, nil
}

func (w *World) spawnPlayer(spec prefabs.PlayerSpec) error {
	w.playerNode = scene.NewMesh("player", scene.Cone{Radius: 0.6, Height: 1.8, Notched: true}, color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff})
	w.root.Add(w.playerNode)

	e := ecs.CreateEntity(w.ecs)
	spawn := spec.Spawn.Vec3()
	spawn[1] = 0
	errs := []error{
		ecs.Add(w.ecs, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w.ecs, e, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: spec.MoveSpeed, TurnSpeed: spec.TurnSpeed}),
		ecs.Add(w.ecs, e, component.InputComponent.Kind(), &component.Input{}),
		ecs.Add(w.ecs, e, component.TransformComponent.Kind(), &component.Transform{Position: spawn, Rotation: mgl64.QuatIdent()}),
		ecs.Add(w.ecs, e, component.SceneNodeComponent.Kind(), &component.SceneNode{Node: w.playerNode, Lift: 0.9}),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("world: spawn player: %w", err)
	}
	w.player = e
	return nil
}

func (w *World) spawnCamera(spec prefabs.CameraSpec) error {
	fov := spec.FovDegrees
	if fov <= 0 {
		fov = 60
	}
	near, far := spec.Near, spec.Far
	if near <= 0 {
		near = 0.1
	}
	if far <= near {
		far = 1000
	}

	w.camera = &component.Camera{
		Camera:     scene.NewPerspectiveCamera(fov*math.Pi/180, 16.0/9.0, near, far),
		Distance:   spec.Distance,
		Height:     spec.Height,
		Smoothness: spec.Smoothness,
	}

	e := ecs.CreateEntity(w.ecs)
	errs := []error{
		ecs.Add(w.ecs, e, component.CameraTagComponent.Kind(), &component.CameraTag{}),
		ecs.Add(w.ecs, e, component.CameraComponent.Kind(), w.camera),
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("world: spawn camera: %w", err)
	}
	return nil
}

// Update advances every system by one tick.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.scheduler.Update(w.ecs)
}

// FocusTarget is the player node, or the camera operator while the camera
// free-looks away from the player's heading.
func (w *World) FocusTarget() any {
	if w == nil || !ecs.IsAlive(w.ecs, w.player) {
		return nil
	}
	if w.camera != nil && w.camera.FreeLook {
		return operator{cam: w.camera}
	}
	return w.playerNode
}

func (w *World) CameraForward() mgl64.Vec3 {
	if w == nil || w.camera == nil || w.camera.Camera == nil {
		return geom.Forward
	}
	return w.camera.Camera.WorldDirection()
}

// Vehicles lists live vehicles in entity order.
func (w *World) Vehicles() []minimap.Trackable {
	if w == nil {
		return nil
	}

	type entry struct {
		e ecs.Entity
		v vehicleView
	}
	var entries []entry
	ecs.ForEach2(w.ecs, component.VehicleComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, v *component.Vehicle, t *component.Transform) {
		if v.ID == "" {
			return
		}
		entries = append(entries, entry{e: e, v: vehicleView{id: v.ID, pos: t.Position, rot: t.Rotation}})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].e.Index() < entries[j].e.Index() })

	out := make([]minimap.Trackable, 0, len(entries))
	for _, en := range entries {
		out = append(out, en.v)
	}
	return out
}

func (w *World) Scene() *scene.Node {
	if w == nil {
		return nil
	}
	return w.root
}

func (w *World) Camera() *scene.PerspectiveCamera {
	if w == nil || w.camera == nil {
		return nil
	}
	return w.camera.Camera
}

// SetAspect matches the primary camera to the window shape.
func (w *World) SetAspect(width, height int) {
	if w == nil || w.camera == nil || height <= 0 {
		return
	}
	w.camera.Camera.Aspect = float64(width) / float64(height)
}

// Background is the ground color the main view clears to.
func (w *World) Background() color.Color {
	return w.background
}

// PlayerPosition is the player's ground position.
func (w *World) PlayerPosition() (mgl64.Vec3, bool) {
	t, ok := ecs.Get(w.ecs, w.player, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, false
	}
	return t.Position, true
}

// SpawnVehicle adds one vehicle through the traffic system.
func (w *World) SpawnVehicle() (string, error) {
	if w.traffic == nil {
		return "", errors.New("world: traffic disabled")
	}
	e, err := w.traffic.Spawn(w.ecs)
	if err != nil {
		return "", err
	}
	v, _ := ecs.Get(w.ecs, e, component.VehicleComponent.Kind())
	return v.ID, nil
}

// operator is the virtual focus target used while the camera free-looks.
type operator struct {
	cam *component.Camera
}

func (o operator) AimPoint() mgl64.Vec3 {
	return o.cam.Aim
}

type vehicleView struct {
	id  string
	pos mgl64.Vec3
	rot mgl64.Quat
}

func (v vehicleView) Identity() string            { return v.id }
func (v vehicleView) WorldPosition() mgl64.Vec3   { return v.pos }
func (v vehicleView) WorldQuaternion() mgl64.Quat { return v.rot }
