package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/rigid/dynamics"
	"github.com/plus3/rigid/sim"
	"github.com/plus3/rigid/world"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	bodyCount := flag.Int("bodies", 10000, "The number of bodies to spawn.")
	dt := flag.Float64("dt", 1.0/60.0, "Fixed delta time per tick, in seconds.")
	shards := flag.Int("shards", 1, "Goroutines used per tick (1 = serial).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	log.Println("Starting rigid body stress test...")

	// 1. Setup world and scheduler
	w := world.New(*bodyCount)
	scheduler := sim.NewScheduler(w)
	scheduler.Register(&sim.Kinematics{Shards: *shards})

	// 2. Populate the world
	log.Printf("Spawning %d bodies...\n", *bodyCount)
	for i := 0; i < *bodyCount; i++ {
		if err := spawnRandomBody(w); err != nil {
			log.Fatalf("Failed to spawn body %d: %v", i, err)
		}
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration: *duration,
		Bodies:   *bodyCount,
		Shards:   *shards,
		Dt:       float32(*dt),

		GCPauseMetrics: *gcPauseMetrics,
		TickTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalTicks int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			tickStart := time.Now()
			scheduler.Once(float32(*dt))
			tickDuration := time.Since(tickStart)

			report.TickTime.Samples = append(report.TickTime.Samples, tickDuration)
			totalTicks++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalTicks = totalTicks
	report.TickTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}

func spawnRandomBody(w *world.World) error {
	id, err := w.Spawn(world.Body{
		Position: randVec(100),
		Velocity: randVec(10),
		AngularVelocity: mgl32.Vec3{
			rand.Float32() - 0.5,
			rand.Float32() - 0.5,
			rand.Float32() - 0.5,
		},
		Inertia: dynamics.CylinderX(4, 0.5, 20),
	})
	if err != nil {
		return err
	}

	// Most bodies fall; a third also get an off-center kick.
	if rand.Intn(4) > 0 {
		w.SetAccelerator(id, dynamics.Gravity)
	}
	if rand.Intn(3) == 0 {
		w.ApplyMoment(id, dynamics.NewMoment(
			mgl32.Vec3{0, 0, 1},
			mgl32.Vec3{0, 10, 0},
		))
	}

	return nil
}

func randVec(scale float32) mgl32.Vec3 {
	return mgl32.Vec3{
		(rand.Float32() - 0.5) * scale,
		(rand.Float32() - 0.5) * scale,
		(rand.Float32() - 0.5) * scale,
	}
}
