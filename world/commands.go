package world

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/plus3/rigid/dynamics"
)

// Commands buffers structural changes to a World so they can be applied
// after a tick instead of in the middle of one. Systems queue operations
// during their update; the scheduler flushes the buffer once every system
// has run.
type Commands struct {
	spawns   []spawnCommand
	despawns []BodyID
	marks    []markCommand
	accels   []accelCommand
	moments  []momentCommand
	defers   []func()
}

type spawnCommand struct {
	body Body
	then func(BodyID, error)
}

type markCommand struct {
	id BodyID
	on bool
}

type accelCommand struct {
	id    BodyID
	acc   mgl32.Vec3
	clear bool
}

type momentCommand struct {
	id     BodyID
	moment dynamics.Moment
	clear  bool
}

// NewCommands returns an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// Spawn queues a body spawn. Validation errors surface when the buffer is
// flushed; use SpawnThen to observe them.
func (c *Commands) Spawn(b Body) {
	c.spawns = append(c.spawns, spawnCommand{body: b})
}

// SpawnThen queues a body spawn and calls then with the result once the
// buffer is flushed.
func (c *Commands) SpawnThen(b Body, then func(BodyID, error)) {
	c.spawns = append(c.spawns, spawnCommand{body: b, then: then})
}

// Despawn queues a body removal.
func (c *Commands) Despawn(id BodyID) {
	c.despawns = append(c.despawns, id)
}

// SetSimulated queues a Simulated marker change.
func (c *Commands) SetSimulated(id BodyID, on bool) {
	c.marks = append(c.marks, markCommand{id: id, on: on})
}

// SetAccelerator queues attaching a constant acceleration.
func (c *Commands) SetAccelerator(id BodyID, acc mgl32.Vec3) {
	c.accels = append(c.accels, accelCommand{id: id, acc: acc})
}

// ClearAccelerator queues detaching the body's accelerator.
func (c *Commands) ClearAccelerator(id BodyID) {
	c.accels = append(c.accels, accelCommand{id: id, clear: true})
}

// ApplyMoment queues attaching an off-center force.
func (c *Commands) ApplyMoment(id BodyID, m dynamics.Moment) {
	c.moments = append(c.moments, momentCommand{id: id, moment: m})
}

// ClearMoment queues detaching the body's applied moment.
func (c *Commands) ClearMoment(id BodyID) {
	c.moments = append(c.moments, momentCommand{id: id, clear: true})
}

// Defer queues an arbitrary function for execution at flush time, after
// all structural changes have been applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Flush applies all queued operations to the world and resets the buffer.
// Despawns run first; operations targeting a despawned body are dropped.
func (c *Commands) Flush(w *World) {
	despawned := make(map[BodyID]bool, len(c.despawns))

	for _, id := range c.despawns {
		w.Despawn(id)
		despawned[id] = true
	}

	for _, cmd := range c.marks {
		if !despawned[cmd.id] {
			w.SetSimulated(cmd.id, cmd.on)
		}
	}

	for _, cmd := range c.accels {
		if despawned[cmd.id] {
			continue
		}
		if cmd.clear {
			w.ClearAccelerator(cmd.id)
		} else {
			w.SetAccelerator(cmd.id, cmd.acc)
		}
	}

	for _, cmd := range c.moments {
		if despawned[cmd.id] {
			continue
		}
		if cmd.clear {
			w.ClearMoment(cmd.id)
		} else {
			w.ApplyMoment(cmd.id, cmd.moment)
		}
	}

	for _, cmd := range c.spawns {
		id, err := w.Spawn(cmd.body)
		if cmd.then != nil {
			cmd.then(id, err)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.despawns = c.despawns[:0]
	c.marks = c.marks[:0]
	c.accels = c.accels[:0]
	c.moments = c.moments[:0]
	c.defers = c.defers[:0]
}
