package minimap

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/minimap/scene"
	"github.com/rs/zerolog"
)

// ContainerID names the surface when it is attached to a Mount.
const ContainerID = "mini-map-container"

var (
	ErrNilWorld   = errors.New("minimap: world is nil")
	ErrNoScene    = errors.New("minimap: world has no scene root")
	ErrNoMount    = errors.New("minimap: mount is nil")
	ErrNoGraphics = errors.New("minimap: graphics is nil")
	ErrNoSurface  = errors.New("minimap: graphics returned no surface")
)

// TransformSource is a focus target or entity that can report its world
// transform directly.
type TransformSource interface {
	WorldPosition() mgl64.Vec3
	WorldQuaternion() mgl64.Quat
}

// AimPointSource is a virtual focus target that only knows where it aims.
type AimPointSource interface {
	AimPoint() mgl64.Vec3
}

// Trackable is a dynamic entity drawn with its own marker. Identity must be
// non-empty and stable for the entity's lifetime.
type Trackable interface {
	TransformSource
	Identity() string
}

// World is the read-only view of the host the minimap follows.
type World interface {
	// FocusTarget returns the controlled entity, or nil when there is none.
	// Values that are neither a TransformSource nor an AimPointSource are
	// treated as no target.
	FocusTarget() any
	// CameraForward is the primary camera's world-space view direction.
	CameraForward() mgl64.Vec3
	Vehicles() []Trackable
	// Scene is the shared render graph root.
	Scene() *scene.Node
}

// Surface is the isolated drawable target of the minimap pass.
type Surface interface {
	Render(root *scene.Node, cam scene.Camera)
	Image() *ebiten.Image
	Release()
}

// Mount is the host container a surface is attached to.
type Mount interface {
	Attach(id string, s Surface) error
	Detach(id string)
}

// Graphics creates the GPU resources a minimap owns.
type Graphics interface {
	NewSurface(width, height int) (Surface, error)
	NewLabel(label string, width, height int, clr color.Color) (*ebiten.Image, error)
}

type Option func(*MiniMap)

func WithLogger(l zerolog.Logger) Option {
	return func(m *MiniMap) {
		m.log = l
	}
}

// WithExactElevations keeps zero elevations and a zero spawn offset from the
// config passed to New instead of replacing them with defaults. Configs built
// from DefaultConfig, such as prefab configs, use it to honor explicit zeros.
func WithExactElevations() Option {
	return func(m *MiniMap) {
		m.exactElevations = true
	}
}

// MiniMap renders a top-down, subject-centred view of a World into its own
// surface. Update must be called once per frame from the host loop; the
// type is not safe for concurrent use.
type MiniMap struct {
	world   World
	mount   Mount
	surface Surface
	cfg     Config
	log     zerolog.Logger

	camera  *scene.OrthographicCamera
	markers *scene.Node

	playerMarker   *scene.Node
	spawnMarker    *scene.Node
	vehicleMarkers map[string]*scene.Node
	// seen is reused by every reconciliation pass.
	seen map[string]struct{}

	heading float64
	closed  bool

	exactElevations bool
}

// New builds the overhead camera, the isolated surface and the marker group,
// and attaches the surface to mount. Any failure to create or attach the
// surface is returned; a minimap cannot run without it.
func New(world World, mount Mount, gfx Graphics, cfg Config, opts ...Option) (*MiniMap, error) {
	if world == nil {
		return nil, ErrNilWorld
	}
	root := world.Scene()
	if root == nil {
		return nil, ErrNoScene
	}
	if mount == nil {
		return nil, ErrNoMount
	}
	if gfx == nil {
		return nil, ErrNoGraphics
	}

	m := &MiniMap{
		world:          world,
		mount:          mount,
		log:            zerolog.Nop(),
		vehicleMarkers: make(map[string]*scene.Node),
		seen:           make(map[string]struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.exactElevations {
		m.cfg = cfg.withSurfaceDefaults()
	} else {
		m.cfg = cfg.withDefaults()
	}

	m.camera = newOverheadCamera(m.cfg)

	px := m.cfg.PixelSize()
	surface, err := gfx.NewSurface(px, px)
	if err != nil {
		return nil, fmt.Errorf("minimap: create surface: %w", err)
	}
	if surface == nil {
		return nil, ErrNoSurface
	}
	m.surface = surface

	m.markers = scene.NewGroup("minimap-markers")
	if err := m.createSpawnMarker(gfx); err != nil {
		surface.Release()
		return nil, err
	}
	m.createPlayerMarker()

	if err := mount.Attach(ContainerID, surface); err != nil {
		surface.Release()
		return nil, fmt.Errorf("minimap: attach surface: %w", err)
	}
	root.Add(m.markers)

	m.log.Debug().
		Int("size", m.cfg.Size).
		Int("pixels", px).
		Float64("zoom", m.cfg.Zoom).
		Int("layer", m.cfg.Layer).
		Msg("minimap created")
	return m, nil
}

func newOverheadCamera(cfg Config) *scene.OrthographicCamera {
	d := cfg.Zoom
	cam := scene.NewOrthographicCamera(-d, d, d, -d, cfg.Near, cfg.Far)
	cam.Position = mgl64.Vec3{0, cfg.CameraHeight, 0}
	cam.Up = mgl64.Vec3{0, 0, -1}
	cam.LookAt(mgl64.Vec3{0, 0, 0})
	cam.Layers.Set(cfg.Layer)
	return cam
}

// Close detaches the marker group and the surface and releases the surface.
// It is safe to call more than once.
func (m *MiniMap) Close() error {
	if m == nil || m.closed {
		return nil
	}
	m.closed = true

	m.markers.RemoveFromParent()
	m.mount.Detach(ContainerID)
	m.surface.Release()
	m.log.Debug().Int("vehicle_markers", len(m.vehicleMarkers)).Msg("minimap closed")
	return nil
}

func (m *MiniMap) Camera() *scene.OrthographicCamera {
	return m.camera
}

// Markers is the group node owned by the minimap inside the shared graph.
func (m *MiniMap) Markers() *scene.Node {
	return m.markers
}

func (m *MiniMap) PlayerMarker() *scene.Node {
	return m.playerMarker
}

func (m *MiniMap) SpawnMarker() *scene.Node {
	return m.spawnMarker
}

func (m *MiniMap) Surface() Surface {
	return m.surface
}

func (m *MiniMap) Config() Config {
	return m.cfg
}

func (m *MiniMap) VehicleCount() int {
	return len(m.vehicleMarkers)
}

func (m *MiniMap) HasVehicle(id string) bool {
	_, ok := m.vehicleMarkers[id]
	return ok
}

// VehicleMarker returns the marker for an identity, if tracked.
func (m *MiniMap) VehicleMarker(id string) (*scene.Node, bool) {
	n, ok := m.vehicleMarkers[id]
	return n, ok
}

// VehicleIDs returns the tracked identities in no particular order.
func (m *MiniMap) VehicleIDs() []string {
	ids := make([]string, 0, len(m.vehicleMarkers))
	for id := range m.vehicleMarkers {
		ids = append(ids, id)
	}
	return ids
}

// Heading is the last applied player marker yaw in radians.
func (m *MiniMap) Heading() float64 {
	return m.heading
}
