package main

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/tiltengine/ecs/entity"
	"github.com/milk9111/tiltengine/engine"
	"github.com/milk9111/tiltengine/input"
	"github.com/milk9111/tiltengine/prefabs"
)

const (
	baseWidth  = 480
	baseHeight = 800
)

type GameOptions struct {
	Scene  string
	Debug  bool
	Watch  bool
	Logger *zap.Logger
}

// Game hosts the engine inside ebiten. ebiten's Update fires the engine's
// frame requests and Draw paints what the engine last rendered.
type Game struct {
	log      *zap.Logger
	eng      *engine.Engine
	clock    *engine.SystemClock
	frames   *engine.ManualScheduler
	tilt     *input.State
	renderer *Renderer
	ui       *ebitenui.UI
	watcher  *prefabs.Watcher
	rng      *rand.Rand
	gamepads []ebiten.GamepadID

	scene       string
	sceneLoaded bool
	paused      bool
	debug       bool
	width       float64
	height      float64
}

func NewGame(opts GameOptions) (*Game, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	cfg, err := engine.LoadConfig("engine.yaml")
	if err != nil {
		log.Warn("engine config not loaded, using defaults", zap.Error(err))
	}

	g := &Game{
		log:    log,
		clock:  engine.NewSystemClock(),
		frames: &engine.ManualScheduler{},
		tilt:   input.NewState(cfg.Input),
		rng:    rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		scene:  strings.TrimSuffix(opts.Scene, ".yaml"),
		debug:  opts.Debug,
	}
	g.renderer = NewRenderer(g.scene)
	g.eng = engine.New(engine.Options{
		Config:   cfg,
		Clock:    g.clock,
		Frames:   g.frames,
		Renderer: g.renderer,
		Input:    g.tilt,
		Scripts:  prefabs.LoadScript,
		Logger:   log.Named("engine"),
	})
	g.ui = NewPauseUI(g)

	if opts.Watch {
		w, err := prefabs.NewWatcher("prefabs", filepath.Join("prefabs", "scripts"))
		if err != nil {
			return nil, fmt.Errorf("watch prefabs: %w", err)
		}
		g.watcher = w
		log.Info("watching prefabs for changes")
	}

	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.drainWatcher()

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}
	if g.paused {
		g.ui.Update()
		return nil
	}

	if !g.sceneLoaded && g.width > 0 && g.height > 0 {
		g.loadScene()
		g.eng.Start()
	}

	g.readGamepad()
	g.tilt.SetKeys(input.Keys{
		Up:    ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:  ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		Left:  ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right: ebiten.IsKeyPressed(ebiten.KeyArrowRight),
	})

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && g.eng.Running() {
		x, y := ebiten.CursorPosition()
		pos := cp.Vector{X: float64(x), Y: float64(y)}
		if _, err := g.eng.Add(entity.RandomShape(g.rng, pos)); err != nil {
			g.log.Warn("spawn failed", zap.Error(err))
		}
	}

	g.frames.Fire(g.clock.Now())
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen)

	if g.debug {
		tilt := g.tilt.Tilt()
		angle := input.Degrees(tilt)
		stats := g.eng.Stats()
		ebitenutil.DebugPrint(screen, fmt.Sprintf(
			"FPS: %.1f  frames: %d  skipped: %d\nTilt: %.2f, %.2f (%.0f, %.0f deg)  entities: %d",
			ebiten.ActualFPS(), stats.Frames, stats.Skipped, tilt.X, tilt.Y, angle.X, angle.Y, g.eng.World().Len(),
		))
	}

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.eng.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

// readGamepad feeds the left stick of the first standard gamepad in as an
// accelerometer reading, so a stick behaves like tilting a phone.
func (g *Game) readGamepad() {
	g.gamepads = ebiten.AppendGamepadIDs(g.gamepads[:0])
	for _, id := range g.gamepads {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		gravity := g.eng.Config().Input.Gravity
		g.tilt.HandleMotion(input.Acceleration{X: -x * gravity, Y: y * gravity, Z: gravity})
		return
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	if paused {
		g.eng.Stop()
		return
	}
	if g.sceneLoaded {
		g.eng.Start()
	}
}

// Restart rebuilds the current scene and resumes.
func (g *Game) Restart() {
	g.loadScene()
	g.setPaused(false)
}

func (g *Game) loadScene() {
	g.eng.Clear()
	g.sceneLoaded = true

	spec, err := prefabs.LoadScene(g.scene)
	if err != nil {
		g.log.Error("load scene", zap.String("scene", g.scene), zap.Error(err))
		return
	}
	ents, err := entity.BuildScene(g.eng.World(), spec, g.eng.Screen())
	if err != nil {
		g.log.Error("build scene", zap.String("scene", g.scene), zap.Error(err))
	}
	g.log.Info("scene loaded", zap.String("scene", spec.Name), zap.Int("entities", len(ents)))
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case change, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.applyChange(change)
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("watch error", zap.Error(err))
		default:
			return
		}
	}
}

func (g *Game) applyChange(change prefabs.Change) {
	switch change.Kind {
	case prefabs.ChangeScript:
		g.log.Info("script changed", zap.String("path", change.Path))
		g.eng.ReloadScript(change.Path)
	case prefabs.ChangeScene:
		name := strings.TrimSuffix(filepath.Base(change.Path), filepath.Ext(change.Path))
		if name != g.scene {
			return
		}
		g.log.Info("scene changed", zap.String("path", change.Path))
		g.loadScene()
		if !g.paused {
			g.eng.Start()
		}
	}
}
