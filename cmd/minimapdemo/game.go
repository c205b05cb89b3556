package main

import (
	"fmt"
	"image/color"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/minimap/logging"
	"github.com/milk9111/minimap/minimap"
	"github.com/milk9111/minimap/prefabs"
	"github.com/milk9111/minimap/render"
	"github.com/milk9111/minimap/world"
	"github.com/rs/zerolog"
	"golang.design/x/clipboard"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

type GameOptions struct {
	Log        zerolog.Logger
	Watch      bool
	Traffic    bool
	PixelRatio float64
}

type Game struct {
	frames int

	world   *world.World
	minimap *minimap.MiniMap
	overlay *Overlay
	view    *render.Surface
	watcher *prefabs.Watcher

	pixelRatio  float64
	clipboardOK bool
	width       int
	height      int
	notice      string

	log   zerolog.Logger
	trace zerolog.Logger
}

func NewGame(opts GameOptions) (*Game, error) {
	worldSpec, err := prefabs.LoadWorldSpec()
	if err != nil {
		return nil, err
	}
	mapSpec, err := prefabs.LoadMinimapSpec()
	if err != nil {
		return nil, err
	}

	var worldOpts []world.Option
	if !opts.Traffic {
		worldOpts = append(worldOpts, world.WithoutTraffic())
	}
	w, err := world.New(worldSpec, opts.Log, worldOpts...)
	if err != nil {
		return nil, err
	}

	cfg := mapSpec.Config()
	if opts.PixelRatio > 0 {
		cfg.PixelRatio = opts.PixelRatio
	}
	if pos, ok := w.PlayerPosition(); ok && mapSpec.Spawn == (prefabs.Vec3Spec{}) {
		cfg.Spawn = pos
	}

	overlay := NewOverlay()
	gfx := render.Graphics{Background: mapSpec.Background.Or(color.NRGBA{R: 0x10, G: 0x14, B: 0x1c, A: 0xb0})}
	mm, err := minimap.New(w, overlay, gfx, cfg, minimap.WithExactElevations(), minimap.WithLogger(opts.Log.With().Str("component", "minimap").Logger()))
	if err != nil {
		return nil, err
	}

	g := &Game{
		world:       w,
		minimap:     mm,
		overlay:     overlay,
		pixelRatio:  cfg.PixelRatio,
		clipboardOK: clipboard.Init() == nil,
		log:         opts.Log,
		trace:       logging.Sampled(opts.Log),
	}
	if !g.clipboardOK {
		g.log.Warn().Msg("clipboard unavailable, position copy disabled")
	}

	if opts.Watch {
		watcher, err := prefabs.NewWatcher(prefabs.Dir)
		if err != nil {
			g.log.Warn().Err(err).Str("dir", prefabs.Dir).Msg("prefab hot reload disabled")
		} else {
			g.watcher = watcher
		}
	}
	return g, nil
}

func (g *Game) Update() error {
	g.frames++

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	g.drainReloads()
	g.handleKeys()

	g.world.Update()
	g.minimap.Update()

	pos, _ := g.world.PlayerPosition()
	g.trace.Trace().
		Float64("x", pos.X()).
		Float64("z", pos.Z()).
		Int("vehicles", g.minimap.VehicleCount()).
		Msg("frame")

	g.overlay.SetStatus(fmt.Sprintf("pos %.1f, %.1f  vehicles %d  [P] spawn here  [V] add vehicle  [Ctrl+C] copy position  %s",
		pos.X(), pos.Z(), g.minimap.VehicleCount(), g.notice))
	g.overlay.Update()
	return nil
}

func (g *Game) handleKeys() {
	pos, ok := g.world.PlayerPosition()

	if ok && inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.minimap.SetSpawnPoint(pos)
		g.notice = "spawn moved"
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyV) {
		id, err := g.world.SpawnVehicle()
		if err != nil {
			g.log.Warn().Err(err).Msg("spawn vehicle")
			g.notice = "traffic disabled"
		} else {
			g.log.Info().Str("vehicle", id).Msg("vehicle added")
		}
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl)
	if ok && ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if !g.clipboardOK {
			g.notice = "no clipboard"
			return
		}
		clipboard.Write(clipboard.FmtText, []byte(fmt.Sprintf("%.2f, %.2f, %.2f", pos.X(), pos.Y(), pos.Z())))
		g.notice = "position copied"
	}
}

// drainReloads applies minimap.yaml edits without restarting. World and
// script edits are only reported.
func (g *Game) drainReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.reload(path)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn().Err(err).Msg("prefab watcher")
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	if filepath.Base(path) != prefabs.MinimapFile {
		g.log.Info().Str("path", path).Msg("prefab changed, restart to apply")
		return
	}

	spec, err := prefabs.LoadMinimapSpec()
	if err != nil {
		g.log.Error().Err(err).Msg("reload minimap spec")
		g.notice = "minimap.yaml invalid"
		return
	}
	cfg := spec.Config()
	if spec.Spawn == (prefabs.Vec3Spec{}) {
		cfg.Spawn = g.minimap.Config().Spawn
	}
	g.minimap.ApplyConfig(cfg)
	if s, ok := g.minimap.Surface().(*render.Surface); ok && spec.Background != nil {
		s.SetBackground(spec.Background.Or(nil))
	}
	g.notice = "minimap reloaded"
	g.log.Info().Float64("zoom", g.minimap.Config().Zoom).Msg("minimap reloaded")
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.view == nil || g.width != screen.Bounds().Dx() || g.height != screen.Bounds().Dy() {
		g.resizeView(screen.Bounds().Dx(), screen.Bounds().Dy())
	}
	if g.view != nil {
		g.view.Render(g.world.Scene(), g.world.Camera())
		screen.DrawImage(g.view.Image(), nil)
	}

	g.overlay.Draw(screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.2f", ebiten.ActualFPS()))
}

func (g *Game) resizeView(w, h int) {
	if g.view != nil {
		g.view.Release()
		g.view = nil
	}
	view, err := render.NewSurface(w, h)
	if err != nil {
		g.log.Error().Err(err).Int("width", w).Int("height", h).Msg("create main view")
		return
	}
	view.SetBackground(g.world.Background())
	g.view = view
	g.width, g.height = w, h
	g.world.SetAspect(w, h)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	ratio := g.pixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	return int(float64(outsideWidth) * ratio), int(float64(outsideHeight) * ratio)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	_ = g.minimap.Close()
	if g.view != nil {
		g.view.Release()
	}
}
