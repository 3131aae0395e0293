package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jakecoffman/cp"
	"go.uber.org/zap"

	"github.com/milk9111/tiltengine/ecs/entity"
	"github.com/milk9111/tiltengine/engine"
	"github.com/milk9111/tiltengine/prefabs"
)

type constantTilt cp.Vector

func (t constantTilt) Tilt() cp.Vector {
	return cp.Vector(t)
}

// Runs a scene without a window at a fixed frame rate and reports how the
// collision passes converge. Useful for tuning scenes and scripts.
func main() {
	sceneName := flag.String("scene", "playground", "scene name in prefabs/ (basename, .yaml optional)")
	frames := flag.Int("frames", 600, "number of frames to simulate")
	rate := flag.Int("rate", 60, "simulated display refresh rate in Hz")
	width := flag.Float64("width", 480, "screen width")
	height := flag.Float64("height", 800, "screen height")
	tiltX := flag.Float64("tilt-x", 0, "constant tilt on the x axis")
	tiltY := flag.Float64("tilt-y", 1, "constant tilt on the y axis")
	every := flag.Int("every", 60, "log stats every n frames (0 disables)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := engine.LoadConfig("engine.yaml")
	if err != nil {
		logger.Warn("engine config not loaded, using defaults", zap.Error(err))
	}

	clock := &engine.FakeClock{}
	sched := &engine.ManualScheduler{}
	eng := engine.New(engine.Options{
		Config:  cfg,
		Clock:   clock,
		Frames:  sched,
		Input:   constantTilt{X: *tiltX, Y: *tiltY},
		Scripts: prefabs.LoadScript,
		Logger:  logger.Named("engine"),
	})
	eng.Resize(*width, *height)

	spec, err := prefabs.LoadScene(*sceneName)
	if err != nil {
		logger.Fatal("load scene", zap.Error(err))
	}
	ents, err := entity.BuildScene(eng.World(), spec, eng.Screen())
	if err != nil {
		logger.Fatal("build scene", zap.Error(err))
	}
	logger.Info("scene built", zap.String("scene", spec.Name), zap.Int("entities", len(ents)))

	step := time.Second / time.Duration(max(*rate, 1))
	eng.Start()
	for i := 1; i <= *frames; i++ {
		sched.Fire(clock.Advance(step))
		if *every > 0 && i%*every == 0 {
			report(logger, i, eng.Stats())
		}
	}
	eng.Stop()

	st := eng.Stats()
	logger.Info("done", zap.Int("admitted", st.Frames), zap.Int("skipped", st.Skipped), zap.Int("entities", eng.World().Len()))
}

func report(logger *zap.Logger, frame int, st engine.Stats) {
	fields := []zap.Field{zap.Int("frame", frame)}
	for i, p := range st.LastPasses {
		fields = append(fields, zap.Dict(
			fmt.Sprintf("pass%d", i+1),
			zap.Int("contacts", p.Contacts),
			zap.Int("resolved", p.Resolved),
			zap.Float64("correction", p.Correction),
		))
	}
	logger.Info("passes", fields...)
}
