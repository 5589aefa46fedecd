package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/akmonengine/ballast"
	"github.com/akmonengine/ballast/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/pflag"
)

// SetupScene creates a kinematic ground and a stack of boxes on top of it
func SetupScene(world *ballast.World, height int) ([]*actor.RigidBody, error) {
	ground := actor.NewRigidBody(
		actor.Transform{Position: mgl64.Vec3{0, -0.5, 0}},
		&actor.Box{HalfExtents: mgl64.Vec3{10, 0.5, 10}},
		actor.BodyTypeKinematic,
		0.0,
	)
	ground.Id = "ground"
	if _, err := world.RegisterRigidBody(ground); err != nil {
		return nil, err
	}

	stack := make([]*actor.RigidBody, 0, height)
	for i := 0; i < height; i++ {
		box := actor.NewRigidBody(
			actor.Transform{
				Position: mgl64.Vec3{0, 0.5 + float64(i)*1.05, 0},
				// Twist each box a little around Y
				Rotation: mgl64.QuatRotate(mgl64.DegToRad(float64(i)*2), mgl64.Vec3{0, 1, 0}),
			},
			&actor.Box{HalfExtents: mgl64.Vec3{0.5, 0.5, 0.5}},
			actor.BodyTypeDynamic,
			1.0,
		)
		box.Id = fmt.Sprintf("box-%d", i)
		if _, err := world.RegisterRigidBody(box); err != nil {
			return nil, err
		}
		stack = append(stack, box)
	}

	return stack, nil
}

func main() {
	config := pflag.StringP("config", "c", "", "settings file (.yaml, .yml or .toml)")
	steps := pflag.IntP("steps", "n", 300, "number of steps to simulate")
	dt := pflag.Float64("dt", 1.0/60.0, "time step in seconds")
	height := pflag.Int("height", 5, "number of boxes in the stack")
	verbose := pflag.BoolP("verbose", "v", false, "log every step")
	pflag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	settings := ballast.DefaultSettings()
	if *config != "" {
		var err error
		settings, err = ballast.LoadSettings(*config)
		if err != nil {
			logger.Error("loading settings", slog.String("path", *config), slog.Any("error", err))
			os.Exit(1)
		}
	}

	world := ballast.NewWorld(settings)
	world.Logger = logger

	phases := make(map[ballast.Phase]time.Duration)
	world.Hooks.OnPhase = func(phase ballast.Phase, elapsed time.Duration) {
		phases[phase] += elapsed
	}
	world.Events.Subscribe(ballast.ON_SLEEP, func(event ballast.Event) {
		logger.Info("body asleep", slog.Any("id", event.(ballast.SleepEvent).Body.Id))
	})
	world.Events.Subscribe(ballast.COLLISION_ENTER, func(event ballast.Event) {
		e := event.(ballast.CollisionEnterEvent)
		logger.Debug("collision enter", slog.Any("a", e.BodyA.Id), slog.Any("b", e.BodyB.Id))
	})

	stack, err := SetupScene(world, *height)
	if err != nil {
		logger.Error("building scene", slog.Any("error", err))
		os.Exit(1)
	}

	for step := 0; step < *steps; step++ {
		world.Update(*dt)
	}

	fmt.Printf("After %d steps of %.4fs:\n", *steps, *dt)
	for _, box := range stack {
		fmt.Printf("  %-6v position=%v awake=%t\n", box.Id, box.Transform.Position, box.IsAwake())
	}
	for phase := ballast.PhaseIntegrate; phase <= ballast.PhaseResolution; phase++ {
		fmt.Printf("  %-12s %v\n", phase, phases[phase])
	}
}
