package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/minimap/minimap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEmbeddedMinimapSpecMatchesDefaults(t *testing.T) {
	spec, err := LoadMinimapSpec()
	require.NoError(t, err)

	cfg := spec.Config()
	def := minimap.DefaultConfig()
	assert.Equal(t, def.Size, cfg.Size)
	assert.Equal(t, def.Zoom, cfg.Zoom)
	assert.Equal(t, def.CameraHeight, cfg.CameraHeight)
	assert.Equal(t, def.PlayerElevation, cfg.PlayerElevation)
	assert.Equal(t, def.VehicleElevation, cfg.VehicleElevation)
	assert.Equal(t, def.SpawnOffset, cfg.SpawnOffset)
	assert.Equal(t, def.Label, cfg.Label)
	assert.Equal(t, def.LabelColor, cfg.LabelColor)
	assert.Equal(t, def.PlayerColor, cfg.PlayerColor)
	assert.Equal(t, def.VehicleColor, cfg.VehicleColor)
	assert.Equal(t, color.NRGBA{R: 0x10, G: 0x14, B: 0x1c, A: 0xb0}, spec.Background.Or(nil))
}

func TestEmbeddedWorldSpec(t *testing.T) {
	spec, err := LoadWorldSpec()
	require.NoError(t, err)
	assert.Equal(t, "traffic.tengo", spec.Traffic.Script)
	assert.Positive(t, spec.Traffic.MaxVehicles)
	assert.Positive(t, spec.Camera.Distance)

	src, err := LoadScript(spec.Traffic.Script)
	require.NoError(t, err)
	assert.Contains(t, string(src), "spawn")
}

func TestConfigKeepsExplicitZeros(t *testing.T) {
	var spec MinimapSpec
	require.NoError(t, yaml.Unmarshal([]byte("player_elevation: 0\nspawn: {x: 1, y: 2, z: 3}\n"), &spec))

	cfg := spec.Config()
	assert.Equal(t, 0.0, cfg.PlayerElevation)
	assert.Equal(t, 15.0, cfg.VehicleElevation)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, cfg.Spawn)
	assert.Nil(t, cfg.PlayerColor)
}

func TestNilSpecConfig(t *testing.T) {
	var spec *MinimapSpec
	assert.Equal(t, minimap.DefaultConfig().Zoom, spec.Config().Zoom)
}

func TestVec3Spec(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    mgl64.Vec3
		wantErr bool
	}{
		{"sequence", "[1, 2.5, -3]", mgl64.Vec3{1, 2.5, -3}, false},
		{"mapping", "{x: 4, z: 6}", mgl64.Vec3{4, 0, 6}, false},
		{"short_sequence", "[1, 2]", mgl64.Vec3{}, true},
		{"scalar", "7", mgl64.Vec3{}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var v Vec3Spec
			err := yaml.Unmarshal([]byte(tc.in), &v)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, v.Vec3())
		})
	}
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.Color
		wantErr bool
	}{
		{`"#ffcc00"`, color.NRGBA{R: 0xff, G: 0xcc, A: 0xff}, false},
		{`"00ff0080"`, color.NRGBA{G: 0xff, A: 0x80}, false},
		{`"#fff"`, nil, true},
		{`"#gggggg"`, nil, true},
		{`[1, 2]`, nil, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			var c YAMLColor
			err := yaml.Unmarshal([]byte(tc.in), &c)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, c.Color)
		})
	}

	var unset *YAMLColor
	assert.Equal(t, color.White, unset.Or(color.White))
}

func withDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
	return dir
}

func TestDiskOverrideWins(t *testing.T) {
	dir := withDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, MinimapFile), []byte("zoom: 42\n"), 0o644))

	spec, err := LoadMinimapSpec()
	require.NoError(t, err)
	assert.Equal(t, 42.0, spec.Zoom)

	_, ok := ModTime("prefabs/" + MinimapFile)
	assert.True(t, ok)
	_, ok = ModTime(WorldFile)
	assert.False(t, ok)
}

func TestLoadSpecErrorsNameFile(t *testing.T) {
	dir := withDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, WorldFile), []byte("terrain: [oops"), 0o644))

	_, err := LoadWorldSpec()
	require.Error(t, err)
	assert.Contains(t, err.Error(), WorldFile)

	_, err = LoadSpec[MinimapSpec]("missing.yaml")
	assert.Error(t, err)
}

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	target := filepath.Join(dir, MinimapFile)
	require.NoError(t, os.WriteFile(target, []byte("zoom: 30\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	_, ok := <-w.Events
	assert.False(t, ok)
}

func TestWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
