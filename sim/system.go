// Package sim drives the per-tick simulation update: a scheduler that runs
// registered systems in order with timing stats, and the kinematics system
// that advances every simulated body with a symplectic half-step scheme.
package sim

import "github.com/plus3/rigid/world"

// System is a behavior executed once per tick over the world.
type System interface {
	Execute(frame *Frame)
}

// Frame carries everything a system needs for one tick. Structural changes
// go through Commands; they apply after every system has run.
type Frame struct {
	// Delta is the elapsed time for this tick in seconds, never negative.
	Delta float32

	World    *world.World
	Commands *world.Commands
}
