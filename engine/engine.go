package engine

import (
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/tiltengine/common"
	"github.com/milk9111/tiltengine/ecs"
	"github.com/milk9111/tiltengine/ecs/entity"
	"github.com/milk9111/tiltengine/ecs/system"
	"github.com/milk9111/tiltengine/input"
)

// Renderer draws the world after every admitted tick.
type Renderer interface {
	Render(w *ecs.World, screen ecs.Size)
}

// Options wires an Engine to its collaborators. Nil fields get defaults,
// except that an engine without Frames never ticks.
type Options struct {
	Config   Config
	Clock    Clock
	Frames   FrameScheduler
	Renderer Renderer
	Input    input.Source
	Scripts  system.ScriptLoader
	Logger   *zap.Logger
	// OnUpdate runs once per admitted tick before any entity hook.
	OnUpdate func(w *ecs.World, f ecs.Frame)
}

// Stats counts loop activity since the engine was created.
type Stats struct {
	Frames  int
	Skipped int
	// LastPasses holds the collision pass stats of the latest admitted tick.
	LastPasses []system.PassStats
}

// Engine runs the simulation loop. It is single threaded: every method and
// every hook runs on the goroutine that fires the FrameScheduler.
type Engine struct {
	log      *zap.Logger
	cfg      Config
	clock    Clock
	frames   FrameScheduler
	renderer Renderer
	input    input.Source
	onUpdate func(w *ecs.World, f ecs.Frame)

	world      *ecs.World
	scheduler  *ecs.Scheduler
	scripts    *system.ScriptSystem
	collisions *system.CollisionSystem

	running  bool
	// epoch changes on every Start and Stop; a queued tick from an older
	// epoch ends without rescheduling.
	epoch    uint64
	lastTime time.Duration
	screen   ecs.Size
	stats    Stats
}

func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	clock := opts.Clock
	if clock == nil {
		clock = NewSystemClock()
	}
	frames := opts.Frames
	if frames == nil {
		frames = &ManualScheduler{}
	}

	e := &Engine{
		log:        log,
		cfg:        opts.Config.WithDefaults(),
		clock:      clock,
		frames:     frames,
		renderer:   opts.Renderer,
		input:      opts.Input,
		onUpdate:   opts.OnUpdate,
		world:      ecs.NewWorld(),
		scripts:    system.NewScriptSystem(opts.Scripts, log.Named("script")),
		collisions: system.NewCollisionSystem(),
	}
	e.scheduler = ecs.NewScheduler(
		system.NewBehaviorSystem(),
		e.scripts,
		system.NewIntegrationSystem(),
		ecs.Repeat(CollisionPasses, e.collisions),
	)
	return e
}

// World returns the live entity collection.
func (e *Engine) World() *ecs.World {
	return e.world
}

func (e *Engine) Config() Config {
	return e.cfg
}

func (e *Engine) Running() bool {
	return e.running
}

func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) Screen() ecs.Size {
	return e.screen
}

// Start moves the engine to Running and schedules the first tick. It does
// nothing if the engine is already running.
func (e *Engine) Start() {
	if e.running {
		return
	}
	e.running = true
	e.epoch++
	e.lastTime = e.clock.Now()
	e.log.Info("engine started", zap.Int("fps", e.cfg.FPS), zap.Int("entities", e.world.Len()))
	e.schedule()
}

// Stop moves the engine to Stopped. A tick already scheduled returns
// without touching any state, even if the engine is started again before
// it fires.
func (e *Engine) Stop() {
	if !e.running {
		return
	}
	e.log.Info("engine stopped", zap.Int("frames", e.stats.Frames))
	e.running = false
	e.epoch++
}

// Resize sets the screen size. A stopped engine renders one frame so the
// host still shows the scene.
func (e *Engine) Resize(width, height float64) {
	e.screen = ecs.Size{Width: width, Height: height}
	if e.screen.Empty() {
		return
	}
	if !e.running {
		e.render()
	}
}

// Add spawns an entity. Entities added during a tick join the next pass
// that snapshots the world.
func (e *Engine) Add(t entity.Template) (ecs.Entity, error) {
	ent, err := entity.Spawn(e.world, t)
	if err != nil {
		return ecs.Entity{}, err
	}
	e.log.Debug("entity added", zap.Stringer("entity", ent), zap.String("name", t.Name))
	return ent, nil
}

// Remove destroys an entity.
func (e *Engine) Remove(ent ecs.Entity) bool {
	return e.world.DestroyEntity(ent)
}

// Clear destroys every entity.
func (e *Engine) Clear() {
	e.world.Clear()
	e.scripts.Invalidate("")
}

// ReloadScript recompiles scripts loaded from path on their next update.
func (e *Engine) ReloadScript(path string) {
	e.scripts.Invalidate(path)
}

func (e *Engine) schedule() {
	epoch := e.epoch
	e.frames.RequestFrame(func(now time.Duration) { e.tick(epoch, now) })
}

func (e *Engine) tick(epoch uint64, now time.Duration) {
	if !e.running || epoch != e.epoch {
		return
	}
	e.schedule()

	if e.screen.Empty() {
		return
	}

	dt := (now - e.lastTime).Seconds()
	if dt < 1/float64(e.cfg.FPS) {
		e.stats.Skipped++
		return
	}
	e.lastTime = now

	f := ecs.Frame{DT: dt, Screen: e.screen}
	if e.input != nil {
		f.Tilt = clampTilt(e.input.Tilt())
	}

	if e.onUpdate != nil {
		e.onUpdate(e.world, f)
	}
	e.scheduler.Update(e.world, f)

	e.stats.Frames++
	e.stats.LastPasses = e.collisions.TakeStats()
	if n := e.world.Events().Len(); n > 0 {
		e.log.Debug("collisions", zap.Int("events", n), zap.Int("frame", e.stats.Frames))
	}

	e.render()
	e.world.Events().Drain()
}

func (e *Engine) render() {
	if e.renderer != nil {
		e.renderer.Render(e.world, e.screen)
	}
}

func clampTilt(t cp.Vector) cp.Vector {
	return cp.Vector{X: common.Clamp(t.X, -1, 1), Y: common.Clamp(t.Y, -1, 1)}
}
