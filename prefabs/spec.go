package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/minimap"
	"gopkg.in/yaml.v3"
)

const (
	MinimapFile = "minimap.yaml"
	WorldFile   = "world.yaml"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type MinimapSpec struct {
	Size         int     `yaml:"size"`
	PixelRatio   float64 `yaml:"pixel_ratio"`
	Zoom         float64 `yaml:"zoom"`
	Near         float64 `yaml:"near"`
	Far          float64 `yaml:"far"`
	CameraHeight float64 `yaml:"camera_height"`
	Layer        int     `yaml:"layer"`

	PlayerElevation  *float64 `yaml:"player_elevation"`
	VehicleElevation *float64 `yaml:"vehicle_elevation"`
	SpawnOffset      *float64 `yaml:"spawn_offset"`
	Spawn            Vec3Spec `yaml:"spawn"`

	Label        string     `yaml:"label"`
	LabelColor   *YAMLColor `yaml:"label_color"`
	PlayerColor  *YAMLColor `yaml:"player_color"`
	VehicleColor *YAMLColor `yaml:"vehicle_color"`
	Background   *YAMLColor `yaml:"background"`
}

func LoadMinimapSpec() (*MinimapSpec, error) {
	spec, err := LoadSpec[MinimapSpec](MinimapFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the prefab into a minimap configuration. Omitted elevations
// and offsets keep their defaults; explicit zeros are honored.
func (s *MinimapSpec) Config() minimap.Config {
	cfg := minimap.DefaultConfig()
	if s == nil {
		return cfg
	}
	cfg.Size = s.Size
	cfg.PixelRatio = s.PixelRatio
	cfg.Zoom = s.Zoom
	cfg.Near = s.Near
	cfg.Far = s.Far
	cfg.CameraHeight = s.CameraHeight
	cfg.Layer = s.Layer
	if s.PlayerElevation != nil {
		cfg.PlayerElevation = *s.PlayerElevation
	}
	if s.VehicleElevation != nil {
		cfg.VehicleElevation = *s.VehicleElevation
	}
	if s.SpawnOffset != nil {
		cfg.SpawnOffset = *s.SpawnOffset
	}
	cfg.Spawn = s.Spawn.Vec3()
	cfg.Label = s.Label
	cfg.LabelColor = s.LabelColor.Or(nil)
	cfg.PlayerColor = s.PlayerColor.Or(nil)
	cfg.VehicleColor = s.VehicleColor.Or(nil)
	return cfg
}

type WorldSpec struct {
	Terrain  TerrainSpec  `yaml:"terrain"`
	Player   PlayerSpec   `yaml:"player"`
	Camera   CameraSpec   `yaml:"camera"`
	Vehicles VehiclesSpec `yaml:"vehicles"`
	Traffic  TrafficSpec  `yaml:"traffic"`
}

func LoadWorldSpec() (*WorldSpec, error) {
	spec, err := LoadSpec[WorldSpec](WorldFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type TerrainSpec struct {
	Width float64    `yaml:"width"`
	Depth float64    `yaml:"depth"`
	Color *YAMLColor `yaml:"color"`
}

type PlayerSpec struct {
	Spawn     Vec3Spec `yaml:"spawn"`
	MoveSpeed float64  `yaml:"move_speed"`
	TurnSpeed float64  `yaml:"turn_speed"`
}

type CameraSpec struct {
	FovDegrees float64 `yaml:"fov_degrees"`
	Distance   float64 `yaml:"distance"`
	Height     float64 `yaml:"height"`
	Near       float64 `yaml:"near"`
	Far        float64 `yaml:"far"`
	// Smoothness is the per-tick follow factor in (0, 1].
	Smoothness float64 `yaml:"smoothness"`
}

type VehiclesSpec struct {
	Mass     float64    `yaml:"mass"`
	Width    float64    `yaml:"width"`
	Length   float64    `yaml:"length"`
	MaxSpeed float64    `yaml:"max_speed"`
	Damping  float64    `yaml:"damping"`
	Color    *YAMLColor `yaml:"color"`
	// LifetimeTicks despawns a vehicle after this many ticks. Zero keeps it
	// until the traffic script removes it.
	LifetimeTicks int `yaml:"lifetime_ticks"`
}

type TrafficSpec struct {
	Script      string  `yaml:"script"`
	MaxVehicles int     `yaml:"max_vehicles"`
	SpawnRadius float64 `yaml:"spawn_radius"`
	// Seed feeds the script's pseudo random choices.
	Seed int64 `yaml:"seed"`
}

// Vec3Spec accepts either a [x, y, z] sequence or an {x, y, z} mapping.
type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v *Vec3Spec) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xs []float64
		if err := value.Decode(&xs); err != nil {
			return err
		}
		if len(xs) != 3 {
			return fmt.Errorf("vec3 needs 3 components, got %d", len(xs))
		}
		v.X, v.Y, v.Z = xs[0], xs[1], xs[2]
		return nil
	case yaml.MappingNode:
		type plain Vec3Spec
		var p plain
		if err := value.Decode(&p); err != nil {
			return err
		}
		*v = Vec3Spec(p)
		return nil
	default:
		return fmt.Errorf("vec3 must be a sequence or mapping")
	}
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type YAMLColor struct {
	color.Color
}

// Or returns the parsed color, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.Color) color.Color {
	if c == nil || c.Color == nil {
		return fallback
	}
	return c.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
