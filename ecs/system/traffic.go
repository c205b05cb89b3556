package system

import (
	"fmt"
	"image/color"
	"math"
	"math/rand"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/milk9111/minimap/ecs"
	"github.com/milk9111/minimap/ecs/component"
	"github.com/milk9111/minimap/geom"
	"github.com/milk9111/minimap/prefabs"
	"github.com/milk9111/minimap/scene"
	"github.com/rs/zerolog"
)

const (
	trafficInterval = 30
	vehicleLift     = 0.5
	steerJitter     = 0.15
)

// TrafficSystem spawns and despawns vehicles as decided by a traffic script
// and wanders the live ones around the spawn area.
type TrafficSystem struct {
	root     *scene.Node
	traffic  prefabs.TrafficSpec
	vehicles prefabs.VehiclesSpec
	color    color.Color
	log      zerolog.Logger

	compiled *tengo.Compiled
	rng      *rand.Rand
	tick     int
	live     []ecs.Entity

	// NewID mints vehicle identities.
	NewID func() string
}

func NewTrafficSystem(root *scene.Node, traffic prefabs.TrafficSpec, vehicles prefabs.VehiclesSpec, log zerolog.Logger) (*TrafficSystem, error) {
	src, err := prefabs.LoadScript(traffic.Script)
	if err != nil {
		return nil, fmt.Errorf("traffic: load script %q: %w", traffic.Script, err)
	}
	return newTrafficSystem(root, src, traffic, vehicles, log)
}

func newTrafficSystem(root *scene.Node, src []byte, traffic prefabs.TrafficSpec, vehicles prefabs.VehiclesSpec, log zerolog.Logger) (*TrafficSystem, error) {
	compiled, err := compileTrafficScript(src)
	if err != nil {
		return nil, fmt.Errorf("traffic: compile script %q: %w", traffic.Script, err)
	}
	return &TrafficSystem{
		root:     root,
		traffic:  traffic,
		vehicles: vehicles,
		color:    vehicles.Color.Or(color.NRGBA{R: 0xc0, G: 0x39, B: 0x2b, A: 0xff}),
		log:      log.With().Str("system", "traffic").Logger(),
		compiled: compiled,
		rng:      rand.New(rand.NewSource(traffic.Seed)),
		NewID:    uuid.NewString,
	}, nil
}

func compileTrafficScript(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("count", 0)
	_ = script.Add("max", 0)
	_ = script.Add("roll", 0.0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// Live returns the tracked vehicle entities in spawn order.
func (ts *TrafficSystem) Live() []ecs.Entity {
	return append([]ecs.Entity(nil), ts.live...)
}

func (ts *TrafficSystem) Update(w *ecs.World) {
	if ts == nil || w == nil {
		return
	}

	ts.prune(w)
	ts.steer(w)

	ts.tick++
	if ts.tick%trafficInterval != 0 {
		return
	}

	spawn, despawn, err := ts.decide()
	if err != nil {
		ts.log.Error().Err(err).Int("tick", ts.tick).Msg("traffic script failed")
		return
	}
	if despawn >= 0 && despawn < len(ts.live) {
		ts.despawn(w, ts.live[despawn])
	}
	if spawn && len(ts.live) < ts.traffic.MaxVehicles {
		if _, err := ts.Spawn(w); err != nil {
			ts.log.Error().Err(err).Msg("spawn vehicle")
		}
	}
}

func (ts *TrafficSystem) decide() (spawn bool, despawn int, err error) {
	c := ts.compiled
	if err := c.Set("tick", ts.tick); err != nil {
		return false, -1, err
	}
	if err := c.Set("count", len(ts.live)); err != nil {
		return false, -1, err
	}
	if err := c.Set("max", ts.traffic.MaxVehicles); err != nil {
		return false, -1, err
	}
	if err := c.Set("roll", ts.rng.Float64()); err != nil {
		return false, -1, err
	}
	if err := c.Run(); err != nil {
		return false, -1, err
	}

	despawn = -1
	if c.IsDefined("despawn") {
		despawn = c.Get("despawn").Int()
	}
	return c.Get("spawn").Bool(), despawn, nil
}

// Spawn places a new vehicle at a random point inside the spawn radius.
func (ts *TrafficSystem) Spawn(w *ecs.World) (ecs.Entity, error) {
	angle := ts.rng.Float64() * 2 * math.Pi
	r := ts.rng.Float64() * ts.traffic.SpawnRadius
	pos := mgl64.Vec3{math.Cos(angle) * r, 0, math.Sin(angle) * r}
	heading := ts.rng.Float64() * 2 * math.Pi

	node := scene.NewMesh("vehicle", scene.Box{Width: ts.vehicles.Width, Height: 1, Depth: ts.vehicles.Length}, ts.color)
	node.DepthTest = true

	e := ecs.CreateEntity(w)
	id := ts.NewID()
	comps := []error{
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Rotation: geom.YawQuat(heading)}),
		ecs.Add(w, e, component.VehicleComponent.Kind(), &component.Vehicle{ID: id, Throttle: 1, MaxSpeed: ts.vehicles.MaxSpeed}),
		ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: ts.vehicles.Width, Length: ts.vehicles.Length, Mass: ts.vehicles.Mass}),
		ecs.Add(w, e, component.SceneNodeComponent.Kind(), &component.SceneNode{Node: node, Lift: vehicleLift}),
	}
	if ts.vehicles.LifetimeTicks > 0 {
		comps = append(comps, ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Frames: ts.vehicles.LifetimeTicks}))
	}
	for _, err := range comps {
		if err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("traffic: spawn vehicle: %w", err)
		}
	}

	if ts.root != nil {
		ts.root.Add(node)
	}
	ts.live = append(ts.live, e)
	ts.log.Debug().Str("vehicle", id).Int("live", len(ts.live)).Msg("vehicle spawned")
	return e, nil
}

func (ts *TrafficSystem) despawn(w *ecs.World, e ecs.Entity) {
	id := ""
	if v, ok := ecs.Get(w, e, component.VehicleComponent.Kind()); ok {
		id = v.ID
	}
	if sn, ok := ecs.Get(w, e, component.SceneNodeComponent.Kind()); ok && sn.Node != nil {
		sn.Node.RemoveFromParent()
	}
	ecs.DestroyEntity(w, e)
	ts.prune(w)
	ts.log.Debug().Str("vehicle", id).Int("live", len(ts.live)).Msg("vehicle despawned")
}

func (ts *TrafficSystem) prune(w *ecs.World) {
	live := ts.live[:0]
	for _, e := range ts.live {
		if ecs.IsAlive(w, e) {
			live = append(live, e)
		}
	}
	ts.live = live
}

// steer random walks each vehicle's steering and turns it back once it
// leaves the spawn radius.
func (ts *TrafficSystem) steer(w *ecs.World) {
	for _, e := range ts.live {
		v, ok := ecs.Get(w, e, component.VehicleComponent.Kind())
		if !ok {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}

		ground := mgl64.Vec3{t.Position.X(), 0, t.Position.Z()}
		if ts.traffic.SpawnRadius > 0 && ground.Len() > ts.traffic.SpawnRadius {
			v.Steer = 1
			continue
		}
		v.Steer = mgl64.Clamp(v.Steer+(ts.rng.Float64()-0.5)*steerJitter, -1, 1)
	}
}
